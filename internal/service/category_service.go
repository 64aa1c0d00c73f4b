package service

import (
	"context"
	"strings"

	"bloghub/internal/models"
	"bloghub/internal/repository"
)

const maxCategoryNameLen = 20

type CategoryService struct {
	categoryRepo repository.CategoryRepository
}

func NewCategoryService(categoryRepo repository.CategoryRepository) *CategoryService {
	return &CategoryService{categoryRepo: categoryRepo}
}

func validateCategoryName(name string) error {
	if strings.TrimSpace(name) == "" {
		return models.NewValidationError("Category name is required")
	}
	if len(name) > maxCategoryNameLen {
		return models.NewValidationError("Category name must not exceed 20 characters")
	}
	return nil
}

// CreateCategory adds a category. The name is capitalized on save.
func (s *CategoryService) CreateCategory(ctx context.Context, name string) (*models.Category, error) {
	if err := validateCategoryName(name); err != nil {
		return nil, err
	}
	category := &models.Category{Name: name}
	if err := s.categoryRepo.Create(ctx, category); err != nil {
		return nil, err
	}
	return category, nil
}

func (s *CategoryService) GetCategory(ctx context.Context, id uint) (*models.Category, error) {
	return s.categoryRepo.GetByID(ctx, id)
}

func (s *CategoryService) ListCategories(ctx context.Context, page, pageSize int) ([]*models.Category, int64, error) {
	return s.categoryRepo.List(ctx, page, pageSize)
}

// UpdateCategory renames a category.
func (s *CategoryService) UpdateCategory(ctx context.Context, id uint, name string) (*models.Category, error) {
	if err := validateCategoryName(name); err != nil {
		return nil, err
	}
	category, err := s.categoryRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	category.Name = name
	if err := s.categoryRepo.Update(ctx, category); err != nil {
		return nil, err
	}
	return category, nil
}

// DeleteCategory removes a category; posts keep existing with a null category.
func (s *CategoryService) DeleteCategory(ctx context.Context, id uint) error {
	if _, err := s.categoryRepo.GetByID(ctx, id); err != nil {
		return err
	}
	return s.categoryRepo.Delete(ctx, id)
}
