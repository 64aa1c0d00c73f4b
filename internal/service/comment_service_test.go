package service

import (
	"context"
	"strings"
	"testing"

	"bloghub/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommentService_CreateComment(t *testing.T) {
	t.Parallel()

	t.Run("attaches the comment to the published post", func(t *testing.T) {
		t.Parallel()

		commentRepo := noopCommentRepo()
		var created *models.Comment
		commentRepo.createFn = func(_ context.Context, c *models.Comment) error {
			c.ID = 9
			created = c
			return nil
		}
		svc := NewCommentService(commentRepo, noopPostRepo())

		comment, err := svc.CreateComment(context.Background(), CreateCommentInput{
			UserID: 3,
			Slug:   "hello-world",
			Body:   "nice post",
		})
		require.NoError(t, err)
		require.NotNil(t, created)
		assert.Equal(t, uint(3), created.UserID)
		assert.Equal(t, uint(1), created.PostID)
		assert.Equal(t, uint(9), comment.ID)
	})

	t.Run("rejects an empty or oversized body", func(t *testing.T) {
		t.Parallel()

		svc := NewCommentService(noopCommentRepo(), noopPostRepo())

		_, err := svc.CreateComment(context.Background(), CreateCommentInput{UserID: 3, Slug: "hello-world", Body: "  "})
		assertValidationError(t, err)

		_, err = svc.CreateComment(context.Background(), CreateCommentInput{
			UserID: 3,
			Slug:   "hello-world",
			Body:   strings.Repeat("x", 501),
		})
		assertValidationError(t, err)
	})

	t.Run("propagates a missing post", func(t *testing.T) {
		t.Parallel()

		postRepo := noopPostRepo()
		postRepo.getBySlugFn = func(_ context.Context, _ string, _ bool) (*models.Post, error) {
			return nil, models.NewNotFoundError("Post does not exist")
		}
		svc := NewCommentService(noopCommentRepo(), postRepo)

		_, err := svc.CreateComment(context.Background(), CreateCommentInput{UserID: 3, Slug: "ghost", Body: "hi"})
		assertErrorCode(t, err, "NOT_FOUND")
	})
}

func TestCommentService_GetComment(t *testing.T) {
	t.Parallel()

	t.Run("hides comments belonging to another post", func(t *testing.T) {
		t.Parallel()

		commentRepo := noopCommentRepo()
		commentRepo.getByIDFn = func(_ context.Context, id uint) (*models.Comment, error) {
			return &models.Comment{ID: id, UserID: 1, PostID: 42, Body: "elsewhere"}, nil
		}
		svc := NewCommentService(commentRepo, noopPostRepo())

		_, err := svc.GetComment(context.Background(), "hello-world", 5)
		assertErrorCode(t, err, "NOT_FOUND")
		assert.Equal(t, "Comment not found.", err.(*models.AppError).Message)
	})

	t.Run("returns a matching comment", func(t *testing.T) {
		t.Parallel()

		svc := NewCommentService(noopCommentRepo(), noopPostRepo())

		comment, err := svc.GetComment(context.Background(), "hello-world", 5)
		require.NoError(t, err)
		assert.Equal(t, uint(5), comment.ID)
	})
}

func TestCommentService_UpdateComment(t *testing.T) {
	t.Parallel()

	t.Run("only the author may edit", func(t *testing.T) {
		t.Parallel()

		svc := NewCommentService(noopCommentRepo(), noopPostRepo())

		_, err := svc.UpdateComment(context.Background(), UpdateCommentInput{
			UserID:    2,
			Slug:      "hello-world",
			CommentID: 5,
			Body:      "edited",
		})
		assertErrorCode(t, err, "FORBIDDEN")
		assert.Equal(t, "You do not have permission to perform this action.", err.(*models.AppError).Message)
	})

	t.Run("saves the new body", func(t *testing.T) {
		t.Parallel()

		commentRepo := noopCommentRepo()
		var updated *models.Comment
		commentRepo.updateFn = func(_ context.Context, c *models.Comment) error {
			updated = c
			return nil
		}
		svc := NewCommentService(commentRepo, noopPostRepo())

		comment, err := svc.UpdateComment(context.Background(), UpdateCommentInput{
			UserID:    1,
			Slug:      "hello-world",
			CommentID: 5,
			Body:      "edited",
		})
		require.NoError(t, err)
		require.NotNil(t, updated)
		assert.Equal(t, "edited", comment.Body)
	})
}

func TestCommentService_DeleteComment(t *testing.T) {
	t.Parallel()

	t.Run("deletes the author's own comment", func(t *testing.T) {
		t.Parallel()

		commentRepo := noopCommentRepo()
		var deletedID uint
		commentRepo.deleteFn = func(_ context.Context, id uint) error {
			deletedID = id
			return nil
		}
		svc := NewCommentService(commentRepo, noopPostRepo())

		require.NoError(t, svc.DeleteComment(context.Background(), 1, "hello-world", 5))
		assert.Equal(t, uint(5), deletedID)
	})

	t.Run("refuses other users", func(t *testing.T) {
		t.Parallel()

		svc := NewCommentService(noopCommentRepo(), noopPostRepo())

		err := svc.DeleteComment(context.Background(), 2, "hello-world", 5)
		assertErrorCode(t, err, "FORBIDDEN")
	})
}

func TestCategoryService_Validation(t *testing.T) {
	t.Parallel()

	svc := NewCategoryService(noopCategoryRepo())

	_, err := svc.CreateCategory(context.Background(), "   ")
	assertValidationError(t, err)

	_, err = svc.CreateCategory(context.Background(), strings.Repeat("x", 21))
	assertValidationError(t, err)

	category, err := svc.CreateCategory(context.Background(), "technology")
	require.NoError(t, err)
	assert.Equal(t, uint(1), category.ID)
}

func TestCategoryService_UpdateCategory(t *testing.T) {
	t.Parallel()

	categoryRepo := noopCategoryRepo()
	var updated *models.Category
	categoryRepo.updateFn = func(_ context.Context, c *models.Category) error {
		updated = c
		return nil
	}
	svc := NewCategoryService(categoryRepo)

	category, err := svc.UpdateCategory(context.Background(), 1, "science")
	require.NoError(t, err)
	require.NotNil(t, updated)
	assert.Equal(t, "science", category.Name)
}
