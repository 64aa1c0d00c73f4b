// Package seed provides helpers to create test and demo data for the
// application database. These helpers are intended for development and
// testing only.
package seed

import (
	"fmt"
	"math/rand"
	"time"

	"bloghub/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// DefaultPassword is the password every seeded account gets.
const DefaultPassword = "password123"

// Factory builds domain entities and persists them to the database.
type Factory struct {
	db   *gorm.DB
	rand *rand.Rand
}

// NewFactory creates a new Factory bound to the provided Gorm DB.
func NewFactory(db *gorm.DB) *Factory {
	gofakeit.Seed(time.Now().UnixNano())
	return &Factory{
		db:   db,
		rand: rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// CreateUser constructs and persists a verified sample user with its profile.
// Optional override functions may modify the generated user before saving.
func (f *Factory) CreateUser(overrides ...func(*models.User)) (*models.User, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(DefaultPassword), bcrypt.MinCost)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Email:      gofakeit.Email(),
		FirstName:  gofakeit.FirstName(),
		LastName:   gofakeit.LastName(),
		Password:   string(hashed),
		IsActive:   true,
		IsVerified: true,
	}
	for _, override := range overrides {
		override(user)
	}

	err = f.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(user).Error; err != nil {
			return err
		}
		return tx.Create(&models.Profile{
			UserID: user.ID,
			Bio:    gofakeit.Sentence(12),
		}).Error
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}

// CreateCategory persists a sample category with a unique-ish name.
func (f *Factory) CreateCategory(overrides ...func(*models.Category)) (*models.Category, error) {
	category := &models.Category{
		Name: fmt.Sprintf("%s%d", gofakeit.Noun(), gofakeit.Number(10, 99)),
	}
	for _, override := range overrides {
		override(category)
	}
	if err := f.db.Create(category).Error; err != nil {
		return nil, err
	}
	return category, nil
}

// CreatePost persists a published sample post authored by the given user.
// CreatedAt is spread over the past 90 days so listings look organic.
func (f *Factory) CreatePost(author *models.User, category *models.Category, overrides ...func(*models.Post)) (*models.Post, error) {
	post := &models.Post{
		AuthorID: author.ID,
		Title:    fmt.Sprintf("%s %s", gofakeit.Sentence(4), gofakeit.UUID()[:6]),
		Content:  gofakeit.Paragraph(2, 4, 8, "\n"),
		ImageURL: fmt.Sprintf("https://picsum.photos/seed/%s/800/600", gofakeit.UUID()),
		Status:   true,
	}
	if category != nil {
		post.CategoryID = &category.ID
	}

	daysBack := f.rand.Intn(90)
	hoursBack := f.rand.Intn(24)
	post.CreatedAt = time.Now().Add(-time.Duration(daysBack)*24*time.Hour - time.Duration(hoursBack)*time.Hour)

	for _, override := range overrides {
		override(post)
	}
	if err := f.db.Create(post).Error; err != nil {
		return nil, err
	}
	return post, nil
}

// CreateComment persists a sample comment on the post.
func (f *Factory) CreateComment(user *models.User, post *models.Post, overrides ...func(*models.Comment)) (*models.Comment, error) {
	comment := &models.Comment{
		UserID: user.ID,
		PostID: post.ID,
		Body:   gofakeit.Sentence(10),
	}
	for _, override := range overrides {
		override(comment)
	}
	if err := f.db.Create(comment).Error; err != nil {
		return nil, err
	}
	return comment, nil
}

// CreateLike persists a like for the (user, post) pair.
func (f *Factory) CreateLike(user *models.User, post *models.Post) error {
	return f.db.Create(&models.Like{UserID: user.ID, PostID: post.ID}).Error
}
