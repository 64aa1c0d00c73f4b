package seed

import (
	"log"

	"bloghub/internal/models"

	"gorm.io/gorm"
)

// Options controls how much demo data Run creates.
type Options struct {
	Users           int
	Categories      int
	PostsPerUser    int
	CommentsPerPost int
}

// DefaultOptions is the preset used by the seed command.
var DefaultOptions = Options{
	Users:           10,
	Categories:      5,
	PostsPerUser:    3,
	CommentsPerPost: 2,
}

// Run fills the database with demo users, categories, posts, comments and
// likes. Every seeded account logs in with DefaultPassword.
func Run(db *gorm.DB, opts Options) error {
	f := NewFactory(db)

	users := make([]*models.User, 0, opts.Users)
	for i := 0; i < opts.Users; i++ {
		user, err := f.CreateUser()
		if err != nil {
			return err
		}
		users = append(users, user)
	}

	categories := make([]*models.Category, 0, opts.Categories)
	for i := 0; i < opts.Categories; i++ {
		category, err := f.CreateCategory()
		if err != nil {
			return err
		}
		categories = append(categories, category)
	}

	var posts []*models.Post
	for _, user := range users {
		for i := 0; i < opts.PostsPerUser; i++ {
			category := categories[f.rand.Intn(len(categories))]
			post, err := f.CreatePost(user, category)
			if err != nil {
				return err
			}
			posts = append(posts, post)
		}
	}

	for _, post := range posts {
		for i := 0; i < opts.CommentsPerPost; i++ {
			commenter := users[f.rand.Intn(len(users))]
			if _, err := f.CreateComment(commenter, post); err != nil {
				return err
			}
		}
		// Roughly half the users like each post.
		for _, user := range users {
			if f.rand.Intn(2) == 0 {
				if err := f.CreateLike(user, post); err != nil {
					return err
				}
			}
		}
	}

	log.Printf("seeded %d users, %d categories, %d posts", len(users), len(categories), len(posts))
	return nil
}
