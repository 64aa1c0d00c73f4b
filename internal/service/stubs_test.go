package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"bloghub/internal/mailer"
	"bloghub/internal/models"
	"bloghub/internal/repository"

	"github.com/stretchr/testify/require"
)

// userRepoStub is a stub for repository.UserRepository.
type userRepoStub struct {
	getByIDFn                func(context.Context, uint) (*models.User, error)
	getByEmailFn             func(context.Context, string) (*models.User, error)
	createWithProfileFn      func(context.Context, *models.User) error
	updateFn                 func(context.Context, *models.User) error
	updateUserAndProfileFn   func(context.Context, *models.User, *models.Profile) error
	getProfileByUserIDFn     func(context.Context, uint) (*models.Profile, error)
	deleteUnverifiedBeforeFn func(context.Context, time.Time) (int64, error)
}

func (s *userRepoStub) GetByID(ctx context.Context, id uint) (*models.User, error) {
	return s.getByIDFn(ctx, id)
}
func (s *userRepoStub) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.getByEmailFn(ctx, email)
}
func (s *userRepoStub) CreateWithProfile(ctx context.Context, user *models.User) error {
	return s.createWithProfileFn(ctx, user)
}
func (s *userRepoStub) Update(ctx context.Context, user *models.User) error {
	return s.updateFn(ctx, user)
}
func (s *userRepoStub) UpdateUserAndProfile(ctx context.Context, user *models.User, profile *models.Profile) error {
	return s.updateUserAndProfileFn(ctx, user, profile)
}
func (s *userRepoStub) GetProfileByUserID(ctx context.Context, userID uint) (*models.Profile, error) {
	return s.getProfileByUserIDFn(ctx, userID)
}
func (s *userRepoStub) DeleteUnverifiedBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	return s.deleteUnverifiedBeforeFn(ctx, cutoff)
}

func noopUserRepo() *userRepoStub {
	return &userRepoStub{
		getByIDFn:    func(_ context.Context, id uint) (*models.User, error) { return &models.User{ID: id}, nil },
		getByEmailFn: func(_ context.Context, _ string) (*models.User, error) { return nil, nil },
		createWithProfileFn: func(_ context.Context, u *models.User) error {
			u.ID = 1
			return nil
		},
		updateFn:               func(_ context.Context, _ *models.User) error { return nil },
		updateUserAndProfileFn: func(_ context.Context, _ *models.User, _ *models.Profile) error { return nil },
		getProfileByUserIDFn: func(_ context.Context, userID uint) (*models.Profile, error) {
			return &models.Profile{ID: userID, UserID: userID}, nil
		},
		deleteUnverifiedBeforeFn: func(_ context.Context, _ time.Time) (int64, error) { return 0, nil },
	}
}

// tokenRepoStub is a stub for repository.TokenRepository.
type tokenRepoStub struct {
	getOrCreateFn    func(context.Context, uint) (*models.AuthToken, error)
	getByKeyFn       func(context.Context, string) (*models.AuthToken, error)
	deleteByUserIDFn func(context.Context, uint) error
}

func (s *tokenRepoStub) GetOrCreate(ctx context.Context, userID uint) (*models.AuthToken, error) {
	return s.getOrCreateFn(ctx, userID)
}
func (s *tokenRepoStub) GetByKey(ctx context.Context, key string) (*models.AuthToken, error) {
	return s.getByKeyFn(ctx, key)
}
func (s *tokenRepoStub) DeleteByUserID(ctx context.Context, userID uint) error {
	return s.deleteByUserIDFn(ctx, userID)
}

func noopTokenRepo() *tokenRepoStub {
	return &tokenRepoStub{
		getOrCreateFn: func(_ context.Context, userID uint) (*models.AuthToken, error) {
			return &models.AuthToken{Key: "stub-token-key", UserID: userID}, nil
		},
		getByKeyFn:       func(_ context.Context, _ string) (*models.AuthToken, error) { return nil, nil },
		deleteByUserIDFn: func(_ context.Context, _ uint) error { return nil },
	}
}

// postRepoStub is a stub for repository.PostRepository.
type postRepoStub struct {
	createFn         func(context.Context, *models.Post) error
	getBySlugFn      func(context.Context, string, bool) (*models.Post, error)
	listFn           func(context.Context, repository.PostFilters) ([]*models.Post, int64, error)
	updateFn         func(context.Context, *models.Post) error
	deleteFn         func(context.Context, uint) error
	toggleLikeFn     func(context.Context, uint, uint) (bool, error)
	toggleFavoriteFn func(context.Context, uint, uint) (bool, error)
}

func (s *postRepoStub) Create(ctx context.Context, post *models.Post) error {
	return s.createFn(ctx, post)
}
func (s *postRepoStub) GetBySlug(ctx context.Context, slug string, publishedOnly bool) (*models.Post, error) {
	return s.getBySlugFn(ctx, slug, publishedOnly)
}
func (s *postRepoStub) List(ctx context.Context, filters repository.PostFilters) ([]*models.Post, int64, error) {
	return s.listFn(ctx, filters)
}
func (s *postRepoStub) Update(ctx context.Context, post *models.Post) error {
	return s.updateFn(ctx, post)
}
func (s *postRepoStub) Delete(ctx context.Context, id uint) error {
	return s.deleteFn(ctx, id)
}
func (s *postRepoStub) ToggleLike(ctx context.Context, userID, postID uint) (bool, error) {
	return s.toggleLikeFn(ctx, userID, postID)
}
func (s *postRepoStub) ToggleFavorite(ctx context.Context, profileID, postID uint) (bool, error) {
	return s.toggleFavoriteFn(ctx, profileID, postID)
}

func noopPostRepo() *postRepoStub {
	return &postRepoStub{
		createFn: func(_ context.Context, p *models.Post) error {
			p.ID = 1
			return nil
		},
		getBySlugFn: func(_ context.Context, slug string, _ bool) (*models.Post, error) {
			return &models.Post{ID: 1, AuthorID: 1, Slug: slug, Title: "Stub", Status: true}, nil
		},
		listFn: func(_ context.Context, _ repository.PostFilters) ([]*models.Post, int64, error) {
			return nil, 0, nil
		},
		updateFn:         func(_ context.Context, _ *models.Post) error { return nil },
		deleteFn:         func(_ context.Context, _ uint) error { return nil },
		toggleLikeFn:     func(_ context.Context, _, _ uint) (bool, error) { return true, nil },
		toggleFavoriteFn: func(_ context.Context, _, _ uint) (bool, error) { return true, nil },
	}
}

// categoryRepoStub is a stub for repository.CategoryRepository.
type categoryRepoStub struct {
	createFn  func(context.Context, *models.Category) error
	getByIDFn func(context.Context, uint) (*models.Category, error)
	listFn    func(context.Context, int, int) ([]*models.Category, int64, error)
	updateFn  func(context.Context, *models.Category) error
	deleteFn  func(context.Context, uint) error
}

func (s *categoryRepoStub) Create(ctx context.Context, category *models.Category) error {
	return s.createFn(ctx, category)
}
func (s *categoryRepoStub) GetByID(ctx context.Context, id uint) (*models.Category, error) {
	return s.getByIDFn(ctx, id)
}
func (s *categoryRepoStub) List(ctx context.Context, page, pageSize int) ([]*models.Category, int64, error) {
	return s.listFn(ctx, page, pageSize)
}
func (s *categoryRepoStub) Update(ctx context.Context, category *models.Category) error {
	return s.updateFn(ctx, category)
}
func (s *categoryRepoStub) Delete(ctx context.Context, id uint) error {
	return s.deleteFn(ctx, id)
}

func noopCategoryRepo() *categoryRepoStub {
	return &categoryRepoStub{
		createFn: func(_ context.Context, c *models.Category) error {
			c.ID = 1
			return nil
		},
		getByIDFn: func(_ context.Context, id uint) (*models.Category, error) {
			return &models.Category{ID: id, Name: "Tech"}, nil
		},
		listFn:   func(_ context.Context, _, _ int) ([]*models.Category, int64, error) { return nil, 0, nil },
		updateFn: func(_ context.Context, _ *models.Category) error { return nil },
		deleteFn: func(_ context.Context, _ uint) error { return nil },
	}
}

// commentRepoStub is a stub for repository.CommentRepository.
type commentRepoStub struct {
	createFn     func(context.Context, *models.Comment) error
	getByIDFn    func(context.Context, uint) (*models.Comment, error)
	listByPostFn func(context.Context, uint, int, int) ([]*models.Comment, int64, error)
	updateFn     func(context.Context, *models.Comment) error
	deleteFn     func(context.Context, uint) error
}

func (s *commentRepoStub) Create(ctx context.Context, comment *models.Comment) error {
	return s.createFn(ctx, comment)
}
func (s *commentRepoStub) GetByID(ctx context.Context, id uint) (*models.Comment, error) {
	return s.getByIDFn(ctx, id)
}
func (s *commentRepoStub) ListByPost(ctx context.Context, postID uint, page, pageSize int) ([]*models.Comment, int64, error) {
	return s.listByPostFn(ctx, postID, page, pageSize)
}
func (s *commentRepoStub) Update(ctx context.Context, comment *models.Comment) error {
	return s.updateFn(ctx, comment)
}
func (s *commentRepoStub) Delete(ctx context.Context, id uint) error {
	return s.deleteFn(ctx, id)
}

func noopCommentRepo() *commentRepoStub {
	return &commentRepoStub{
		createFn: func(_ context.Context, c *models.Comment) error {
			c.ID = 1
			return nil
		},
		getByIDFn: func(_ context.Context, id uint) (*models.Comment, error) {
			return &models.Comment{ID: id, UserID: 1, PostID: 1, Body: "stub"}, nil
		},
		listByPostFn: func(_ context.Context, _ uint, _, _ int) ([]*models.Comment, int64, error) {
			return nil, 0, nil
		},
		updateFn: func(_ context.Context, _ *models.Comment) error { return nil },
		deleteFn: func(_ context.Context, _ uint) error { return nil },
	}
}

// publisherStub records enqueued email messages.
type publisherStub struct {
	verifications []mailer.Message
	resets        []mailer.Message
	failWith      error
}

func (s *publisherStub) EnqueueVerification(_ context.Context, msg mailer.Message) error {
	if s.failWith != nil {
		return s.failWith
	}
	s.verifications = append(s.verifications, msg)
	return nil
}

func (s *publisherStub) EnqueuePasswordReset(_ context.Context, msg mailer.Message) error {
	if s.failWith != nil {
		return s.failWith
	}
	s.resets = append(s.resets, msg)
	return nil
}

func assertValidationError(t *testing.T, err error) {
	t.Helper()
	var appErr *models.AppError
	require.ErrorAs(t, err, &appErr)
	require.Equal(t, "VALIDATION_ERROR", appErr.Code)
}

func assertErrorCode(t *testing.T, err error, code string) {
	t.Helper()
	var appErr *models.AppError
	require.ErrorAs(t, err, &appErr)
	require.Equal(t, code, appErr.Code)
}

var errRepoBoom = errors.New("boom")
