package server

import (
	"bloghub/internal/models"

	"github.com/gofiber/fiber/v2"
)

// CategoryRequest is the create/update payload.
type CategoryRequest struct {
	Name string `json:"name"`
}

// GetCategories lists categories alphabetically.
func (s *Server) GetCategories(c *fiber.Ctx) error {
	params := parsePageParams(c)
	categories, total, err := s.categoryService.ListCategories(c.UserContext(), params.Page, params.PageSize)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	results := make([]fiber.Map, 0, len(categories))
	for _, category := range categories {
		results = append(results, categoryJSON(category))
	}

	next, previous := pageLinks(c, params.Page, params.PageSize, total)
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"count":    total,
		"next":     next,
		"previous": previous,
		"results":  results,
	})
}

// GetCategory returns one category.
func (s *Server) GetCategory(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	category, err := s.categoryService.GetCategory(c.UserContext(), id)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(categoryJSON(category))
}

// CreateCategory adds a category. Staff only.
func (s *Server) CreateCategory(c *fiber.Ctx) error {
	var req CategoryRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	category, err := s.categoryService.CreateCategory(c.UserContext(), req.Name)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(categoryJSON(category))
}

// UpdateCategory renames a category. Staff only.
func (s *Server) UpdateCategory(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req CategoryRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	category, err := s.categoryService.UpdateCategory(c.UserContext(), id, req.Name)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(categoryJSON(category))
}

// DeleteCategory removes a category. Staff only.
func (s *Server) DeleteCategory(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.categoryService.DeleteCategory(c.UserContext(), id); err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
