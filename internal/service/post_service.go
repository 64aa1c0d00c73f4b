package service

import (
	"context"
	"strings"
	"time"

	"bloghub/internal/models"
	"bloghub/internal/repository"
)

// MaxAuthorFilter caps the comma-separated author email filter.
const MaxAuthorFilter = 10

type PostService struct {
	postRepo     repository.PostRepository
	categoryRepo repository.CategoryRepository
	userRepo     repository.UserRepository
}

type CreatePostInput struct {
	AuthorID   uint
	Title      string
	Content    string
	CategoryID *uint
	ImageURL   string
	Status     bool
	Slug       string
}

type UpdatePostInput struct {
	UserID     uint
	Slug       string
	Title      *string
	Content    *string
	CategoryID *uint
	ImageURL   *string
	Status     *bool
}

type ListPostsInput struct {
	Search       string
	CategoryName string
	Authors      string
	CreatedFrom  *time.Time
	CreatedTo    *time.Time
	Page         int
	PageSize     int
}

func NewPostService(
	postRepo repository.PostRepository,
	categoryRepo repository.CategoryRepository,
	userRepo repository.UserRepository,
) *PostService {
	return &PostService{
		postRepo:     postRepo,
		categoryRepo: categoryRepo,
		userRepo:     userRepo,
	}
}

// CreatePost creates a post authored by the requester. The category, when
// given, must exist; the slug is derived from the title when absent.
func (s *PostService) CreatePost(ctx context.Context, in CreatePostInput) (*models.Post, error) {
	if strings.TrimSpace(in.Title) == "" {
		return nil, models.NewValidationError("Title is required")
	}
	if len(in.Title) > 200 {
		return nil, models.NewValidationError("Title must not exceed 200 characters")
	}
	if strings.TrimSpace(in.Content) == "" {
		return nil, models.NewValidationError("Content is required")
	}
	if in.CategoryID != nil {
		if _, err := s.categoryRepo.GetByID(ctx, *in.CategoryID); err != nil {
			return nil, err
		}
	}

	post := &models.Post{
		AuthorID:   in.AuthorID,
		Title:      in.Title,
		Content:    in.Content,
		CategoryID: in.CategoryID,
		ImageURL:   in.ImageURL,
		Status:     in.Status,
		Slug:       in.Slug,
	}
	if err := s.postRepo.Create(ctx, post); err != nil {
		return nil, err
	}
	return s.postRepo.GetBySlug(ctx, post.Slug, false)
}

// GetPost returns a published post by slug.
func (s *PostService) GetPost(ctx context.Context, slug string) (*models.Post, error) {
	return s.postRepo.GetBySlug(ctx, slug, true)
}

// ListPosts returns published posts matching the filters. The author filter
// is a comma-separated list of emails, capped at MaxAuthorFilter entries.
func (s *PostService) ListPosts(ctx context.Context, in ListPostsInput) ([]*models.Post, int64, error) {
	var authors []string
	if in.Authors != "" {
		for _, email := range strings.Split(in.Authors, ",") {
			if email = strings.TrimSpace(email); email != "" {
				authors = append(authors, email)
			}
		}
		if len(authors) > MaxAuthorFilter {
			return nil, 0, models.NewValidationError("You cannot filter by more than 10 authors")
		}
	}

	return s.postRepo.List(ctx, repository.PostFilters{
		Search:       in.Search,
		CategoryName: in.CategoryName,
		AuthorEmails: authors,
		CreatedFrom:  in.CreatedFrom,
		CreatedTo:    in.CreatedTo,
		Page:         in.Page,
		PageSize:     in.PageSize,
	})
}

// UpdatePost applies a partial update. Only the author may edit.
func (s *PostService) UpdatePost(ctx context.Context, in UpdatePostInput) (*models.Post, error) {
	post, err := s.postRepo.GetBySlug(ctx, in.Slug, false)
	if err != nil {
		return nil, err
	}
	if post.AuthorID != in.UserID {
		return nil, models.NewForbiddenError("You do not have permission to perform this action.")
	}

	if in.Title != nil {
		if strings.TrimSpace(*in.Title) == "" {
			return nil, models.NewValidationError("Title is required")
		}
		if len(*in.Title) > 200 {
			return nil, models.NewValidationError("Title must not exceed 200 characters")
		}
		post.Title = *in.Title
		post.Slug = models.Slugify(*in.Title)
	}
	if in.Content != nil {
		post.Content = *in.Content
	}
	if in.CategoryID != nil {
		if _, err := s.categoryRepo.GetByID(ctx, *in.CategoryID); err != nil {
			return nil, err
		}
		post.CategoryID = in.CategoryID
	}
	if in.ImageURL != nil {
		post.ImageURL = *in.ImageURL
	}
	if in.Status != nil {
		post.Status = *in.Status
	}

	if err := s.postRepo.Update(ctx, post); err != nil {
		return nil, err
	}
	return s.postRepo.GetBySlug(ctx, post.Slug, false)
}

// DeletePost removes a post. Only the author may delete.
func (s *PostService) DeletePost(ctx context.Context, userID uint, slug string) error {
	post, err := s.postRepo.GetBySlug(ctx, slug, false)
	if err != nil {
		return err
	}
	if post.AuthorID != userID {
		return models.NewForbiddenError("You do not have permission to perform this action.")
	}
	return s.postRepo.Delete(ctx, post.ID)
}

// ToggleLike flips the requester's like on a published post. Returns the
// user-facing detail message.
func (s *PostService) ToggleLike(ctx context.Context, userID uint, slug string) (string, error) {
	post, err := s.postRepo.GetBySlug(ctx, slug, true)
	if err != nil {
		return "", err
	}

	liked, err := s.postRepo.ToggleLike(ctx, userID, post.ID)
	if err != nil {
		return "", err
	}
	if liked {
		return "Like created.", nil
	}
	return "Like deleted.", nil
}

// ToggleFavorite flips the post on the requester's favorites list.
func (s *PostService) ToggleFavorite(ctx context.Context, userID uint, slug string) (string, error) {
	post, err := s.postRepo.GetBySlug(ctx, slug, true)
	if err != nil {
		return "", err
	}
	profile, err := s.userRepo.GetProfileByUserID(ctx, userID)
	if err != nil {
		return "", err
	}

	added, err := s.postRepo.ToggleFavorite(ctx, profile.ID, post.ID)
	if err != nil {
		return "", err
	}
	if added {
		return "This post has been added to your favorites.", nil
	}
	return "This post has been removed from your favorites.", nil
}
