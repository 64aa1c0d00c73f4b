package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	"bloghub/internal/models"

	"gorm.io/gorm"
)

// PostFilters narrows the public post listing. AuthorEmails matches the
// comma-separated author filter of the API; dates bound created_at.
type PostFilters struct {
	Search       string
	CategoryName string
	AuthorEmails []string
	CreatedFrom  *time.Time
	CreatedTo    *time.Time
	Page         int
	PageSize     int
}

// PostRepository defines the interface for post data operations
type PostRepository interface {
	Create(ctx context.Context, post *models.Post) error
	GetBySlug(ctx context.Context, slug string, publishedOnly bool) (*models.Post, error)
	List(ctx context.Context, filters PostFilters) ([]*models.Post, int64, error)
	Update(ctx context.Context, post *models.Post) error
	Delete(ctx context.Context, id uint) error
	ToggleLike(ctx context.Context, userID, postID uint) (bool, error)
	ToggleFavorite(ctx context.Context, profileID, postID uint) (bool, error)
}

type postRepository struct {
	db *gorm.DB
}

// NewPostRepository creates a new post repository
func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db}
}

func (r *postRepository) Create(ctx context.Context, post *models.Post) error {
	if err := r.db.WithContext(ctx).Create(post).Error; err != nil {
		if isUniqueConstraintError(err) {
			return models.NewConflictError("Slug already exists.")
		}
		return models.NewInternalError(err)
	}
	return nil
}

// applyLikesCount adds a subquery so the like count arrives in the same query.
func (r *postRepository) applyLikesCount(db *gorm.DB) *gorm.DB {
	return db.Select("posts.*, " +
		"(SELECT COUNT(*) FROM likes WHERE likes.post_id = posts.id) as likes_count")
}

func (r *postRepository) GetBySlug(ctx context.Context, slug string, publishedOnly bool) (*models.Post, error) {
	var post models.Post
	q := r.applyLikesCount(r.db.WithContext(ctx)).
		Preload("Author").
		Preload("Category").
		Where("slug = ?", slug)
	if publishedOnly {
		q = q.Where("status = ?", true)
	}
	if err := q.First(&post).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Post does not exist")
		}
		return nil, models.NewInternalError(err)
	}
	return &post, nil
}

func (r *postRepository) List(ctx context.Context, filters PostFilters) ([]*models.Post, int64, error) {
	base := r.db.WithContext(ctx).
		Model(&models.Post{}).
		Where("posts.status = ?", true)

	if filters.Search != "" {
		base = base.Where("LOWER(posts.title) LIKE ?", "%"+strings.ToLower(filters.Search)+"%")
	}
	if filters.CategoryName != "" {
		base = base.
			Joins("JOIN categories ON categories.id = posts.category_id").
			Where("LOWER(categories.name) LIKE ?", "%"+strings.ToLower(filters.CategoryName)+"%")
	}
	if len(filters.AuthorEmails) > 0 {
		emails := make([]string, 0, len(filters.AuthorEmails))
		for _, e := range filters.AuthorEmails {
			emails = append(emails, strings.ToLower(strings.TrimSpace(e)))
		}
		base = base.
			Joins("JOIN users ON users.id = posts.author_id").
			Where("users.email IN ?", emails)
	}
	if filters.CreatedFrom != nil {
		base = base.Where("posts.created_at >= ?", *filters.CreatedFrom)
	}
	if filters.CreatedTo != nil {
		base = base.Where("posts.created_at < ?", *filters.CreatedTo)
	}

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, models.NewInternalError(err)
	}

	page := filters.Page
	if page < 1 {
		page = 1
	}
	pageSize := filters.PageSize
	if pageSize < 1 {
		pageSize = 10
	}

	var posts []*models.Post
	err := r.applyLikesCount(base).
		Preload("Author").
		Preload("Category").
		Order("posts.created_at DESC").
		Limit(pageSize).
		Offset((page - 1) * pageSize).
		Find(&posts).Error
	if err != nil {
		return nil, 0, models.NewInternalError(err)
	}
	return posts, total, nil
}

func (r *postRepository) Update(ctx context.Context, post *models.Post) error {
	if err := r.db.WithContext(ctx).Save(post).Error; err != nil {
		if isUniqueConstraintError(err) {
			return models.NewConflictError("Slug already exists.")
		}
		return models.NewInternalError(err)
	}
	return nil
}

// Delete removes the post and its dependent rows for good, so the slug is
// free for reuse.
func (r *postRepository) Delete(ctx context.Context, id uint) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("post_id = ?", id).Delete(&models.Like{}).Error; err != nil {
			return err
		}
		if err := tx.Where("post_id = ?", id).Delete(&models.FavoritePost{}).Error; err != nil {
			return err
		}
		if err := tx.Unscoped().Where("post_id = ?", id).Delete(&models.Comment{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Post{}, id).Error
	})
	if err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

// ToggleLike removes an existing like or creates a new one. Returns true
// when the post ends up liked. The delete-then-create runs in one
// transaction so concurrent toggles cannot leave two rows for a pair.
func (r *postRepository) ToggleLike(ctx context.Context, userID, postID uint) (bool, error) {
	var liked bool
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("user_id = ? AND post_id = ?", userID, postID).Delete(&models.Like{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected > 0 {
			liked = false
			return nil
		}
		if err := tx.Create(&models.Like{UserID: userID, PostID: postID}).Error; err != nil {
			return err
		}
		liked = true
		return nil
	})
	if err != nil {
		return false, models.NewInternalError(err)
	}
	return liked, nil
}

// ToggleFavorite mirrors ToggleLike for (profile, post) bookmarks.
func (r *postRepository) ToggleFavorite(ctx context.Context, profileID, postID uint) (bool, error) {
	var added bool
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("profile_id = ? AND post_id = ?", profileID, postID).Delete(&models.FavoritePost{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected > 0 {
			added = false
			return nil
		}
		if err := tx.Create(&models.FavoritePost{ProfileID: profileID, PostID: postID}).Error; err != nil {
			return err
		}
		added = true
		return nil
	})
	if err != nil {
		return false, models.NewInternalError(err)
	}
	return added, nil
}
