package server

import (
	"bloghub/internal/models"
	"bloghub/internal/service"

	"github.com/gofiber/fiber/v2"
)

// PostRequest is the create payload; all fields of the update payload are
// pointers so a PATCH can distinguish absent from empty.
type PostRequest struct {
	Title    string `json:"title"`
	Content  string `json:"content"`
	Category *uint  `json:"category"`
	Image    string `json:"image"`
	Status   bool   `json:"status"`
	Slug     string `json:"slug"`
}

// PostPatchRequest is the partial update payload.
type PostPatchRequest struct {
	Title    *string `json:"title"`
	Content  *string `json:"content"`
	Category *uint   `json:"category"`
	Image    *string `json:"image"`
	Status   *bool   `json:"status"`
}

// CreatePost creates a post authored by the requester.
func (s *Server) CreatePost(c *fiber.Ctx) error {
	var req PostRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	post, err := s.postService.CreatePost(c.UserContext(), service.CreatePostInput{
		AuthorID:   userID(c),
		Title:      req.Title,
		Content:    req.Content,
		CategoryID: req.Category,
		ImageURL:   req.Image,
		Status:     req.Status,
		Slug:       req.Slug,
	})
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(postJSON(c, post, true))
}

// GetPosts lists published posts with filters and pagination.
func (s *Server) GetPosts(c *fiber.Ctx) error {
	createdFrom, err := parseDate(c.Query("created_from"))
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	createdTo, err := parseDate(c.Query("created_to"))
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	params := parsePageParams(c)
	posts, total, err := s.postService.ListPosts(c.UserContext(), service.ListPostsInput{
		Search:       c.Query("search"),
		CategoryName: c.Query("category"),
		Authors:      c.Query("author"),
		CreatedFrom:  createdFrom,
		CreatedTo:    createdTo,
		Page:         params.Page,
		PageSize:     params.PageSize,
	})
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	next, previous := pageLinks(c, params.Page, params.PageSize, total)
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"links": fiber.Map{
			"next":     next,
			"previous": previous,
		},
		"total_posts": total,
		"total_pages": totalPages(total, params.PageSize),
		"results":     postsJSON(c, posts),
	})
}

// GetPost returns one published post with a page of its comments.
func (s *Server) GetPost(c *fiber.Ctx) error {
	slug := c.Params("slug")
	post, err := s.postService.GetPost(c.UserContext(), slug)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	params := parsePageParams(c)
	comments, total, err := s.commentService.ListComments(c.UserContext(), slug, params.Page, params.PageSize)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	data := postJSON(c, post, true)
	data["comments"] = commentsJSON(comments)

	next, previous := pageLinks(c, params.Page, params.PageSize, total)
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"count":    total,
		"next":     next,
		"previous": previous,
		"results":  data,
	})
}

// UpdatePost partially updates a post. Author only.
func (s *Server) UpdatePost(c *fiber.Ctx) error {
	var req PostPatchRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	post, err := s.postService.UpdatePost(c.UserContext(), service.UpdatePostInput{
		UserID:     userID(c),
		Slug:       c.Params("slug"),
		Title:      req.Title,
		Content:    req.Content,
		CategoryID: req.Category,
		ImageURL:   req.Image,
		Status:     req.Status,
	})
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(postJSON(c, post, true))
}

// DeletePost removes a post. Author only.
func (s *Server) DeletePost(c *fiber.Ctx) error {
	if err := s.postService.DeletePost(c.UserContext(), userID(c), c.Params("slug")); err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// LikePost toggles the requester's like on the post.
func (s *Server) LikePost(c *fiber.Ctx) error {
	detail, err := s.postService.ToggleLike(c.UserContext(), userID(c), c.Params("slug"))
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"detail": detail})
}

// FavoritePost toggles the post on the requester's favorites.
func (s *Server) FavoritePost(c *fiber.Ctx) error {
	detail, err := s.postService.ToggleFavorite(c.UserContext(), userID(c), c.Params("slug"))
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"detail": detail})
}
