package service

import (
	"context"
	"strings"

	"bloghub/internal/models"
	"bloghub/internal/repository"
)

const maxCommentLen = 500

type CommentService struct {
	commentRepo repository.CommentRepository
	postRepo    repository.PostRepository
}

type CreateCommentInput struct {
	UserID uint
	Slug   string
	Body   string
}

type UpdateCommentInput struct {
	UserID    uint
	Slug      string
	CommentID uint
	Body      string
}

func NewCommentService(commentRepo repository.CommentRepository, postRepo repository.PostRepository) *CommentService {
	return &CommentService{commentRepo: commentRepo, postRepo: postRepo}
}

func validateCommentBody(body string) error {
	if strings.TrimSpace(body) == "" {
		return models.NewValidationError("Comment body is required")
	}
	if len(body) > maxCommentLen {
		return models.NewValidationError("Comment must not exceed 500 characters")
	}
	return nil
}

// CreateComment adds a comment to a published post.
func (s *CommentService) CreateComment(ctx context.Context, in CreateCommentInput) (*models.Comment, error) {
	if err := validateCommentBody(in.Body); err != nil {
		return nil, err
	}

	post, err := s.postRepo.GetBySlug(ctx, in.Slug, true)
	if err != nil {
		return nil, err
	}

	comment := &models.Comment{
		UserID: in.UserID,
		PostID: post.ID,
		Body:   in.Body,
	}
	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, err
	}
	return s.commentRepo.GetByID(ctx, comment.ID)
}

// GetComment returns one comment, scoped to the post it belongs to.
func (s *CommentService) GetComment(ctx context.Context, slug string, commentID uint) (*models.Comment, error) {
	post, err := s.postRepo.GetBySlug(ctx, slug, true)
	if err != nil {
		return nil, err
	}
	comment, err := s.commentRepo.GetByID(ctx, commentID)
	if err != nil {
		return nil, err
	}
	if comment.PostID != post.ID {
		return nil, models.NewNotFoundError("Comment not found.")
	}
	return comment, nil
}

// ListComments returns a page of comments for a published post.
func (s *CommentService) ListComments(ctx context.Context, slug string, page, pageSize int) ([]*models.Comment, int64, error) {
	post, err := s.postRepo.GetBySlug(ctx, slug, true)
	if err != nil {
		return nil, 0, err
	}
	return s.commentRepo.ListByPost(ctx, post.ID, page, pageSize)
}

// UpdateComment edits a comment's body. Only the comment's author may edit.
func (s *CommentService) UpdateComment(ctx context.Context, in UpdateCommentInput) (*models.Comment, error) {
	if err := validateCommentBody(in.Body); err != nil {
		return nil, err
	}

	comment, err := s.GetComment(ctx, in.Slug, in.CommentID)
	if err != nil {
		return nil, err
	}
	if comment.UserID != in.UserID {
		return nil, models.NewForbiddenError("You do not have permission to perform this action.")
	}

	comment.Body = in.Body
	if err := s.commentRepo.Update(ctx, comment); err != nil {
		return nil, err
	}
	return comment, nil
}

// DeleteComment removes a comment. Only the comment's author may delete.
func (s *CommentService) DeleteComment(ctx context.Context, userID uint, slug string, commentID uint) error {
	comment, err := s.GetComment(ctx, slug, commentID)
	if err != nil {
		return err
	}
	if comment.UserID != userID {
		return models.NewForbiddenError("You do not have permission to perform this action.")
	}
	return s.commentRepo.Delete(ctx, comment.ID)
}
