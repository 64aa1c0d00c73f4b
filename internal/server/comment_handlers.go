package server

import (
	"bloghub/internal/models"
	"bloghub/internal/service"

	"github.com/gofiber/fiber/v2"
)

// CommentRequest is the create/update payload.
type CommentRequest struct {
	Comment string `json:"comment"`
}

// GetComments lists a published post's comments, newest first.
func (s *Server) GetComments(c *fiber.Ctx) error {
	params := parsePageParams(c)
	comments, total, err := s.commentService.ListComments(c.UserContext(), c.Params("slug"), params.Page, params.PageSize)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	next, previous := pageLinks(c, params.Page, params.PageSize, total)
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"count":    total,
		"next":     next,
		"previous": previous,
		"results":  commentsJSON(comments),
	})
}

// CreateComment adds a comment to the post.
func (s *Server) CreateComment(c *fiber.Ctx) error {
	var req CommentRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	comment, err := s.commentService.CreateComment(c.UserContext(), service.CreateCommentInput{
		UserID: userID(c),
		Slug:   c.Params("slug"),
		Body:   req.Comment,
	})
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(commentJSON(comment))
}

// GetComment returns one comment.
func (s *Server) GetComment(c *fiber.Ctx) error {
	commentID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	comment, err := s.commentService.GetComment(c.UserContext(), c.Params("slug"), commentID)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(commentJSON(comment))
}

// UpdateComment edits a comment. Author only.
func (s *Server) UpdateComment(c *fiber.Ctx) error {
	commentID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req CommentRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	comment, err := s.commentService.UpdateComment(c.UserContext(), service.UpdateCommentInput{
		UserID:    userID(c),
		Slug:      c.Params("slug"),
		CommentID: commentID,
		Body:      req.Comment,
	})
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(commentJSON(comment))
}

// DeleteComment removes a comment. Author only.
func (s *Server) DeleteComment(c *fiber.Ctx) error {
	commentID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.commentService.DeleteComment(c.UserContext(), userID(c), c.Params("slug"), commentID); err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
