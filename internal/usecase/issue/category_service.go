package issue

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/johnquangdev/erp-issue-hub/internal/domain/entities"
	usecaseErrors "github.com/johnquangdev/erp-issue-hub/internal/usecase/errors"
)

// CategoryInput represents input for creating or replacing a category
type CategoryInput struct {
	Name        string
	Description *string
	Color       *string
}

// CreateCategory creates a category with a unique name
func (s *IssueService) CreateCategory(ctx context.Context, input CategoryInput) (*entities.Category, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, usecaseErrors.ErrInvalidInput
	}
	if err := s.ensureNameFree(ctx, name, uuid.Nil); err != nil {
		return nil, err
	}

	category := &entities.Category{
		Name:        name,
		Description: normalizeOptional(input.Description),
		Color:       normalizeOptional(input.Color),
	}
	if err := s.categoryRepo.Create(ctx, category); err != nil {
		return nil, fmt.Errorf("failed to create category: %w", err)
	}
	s.logger.Info("category.created", zap.String("category_id", category.ID.String()))
	return category, nil
}

// GetCategory retrieves a category by ID
func (s *IssueService) GetCategory(ctx context.Context, id uuid.UUID) (*entities.Category, error) {
	category, err := s.categoryRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, usecaseErrors.ErrCategoryNotFound
		}
		return nil, fmt.Errorf("failed to get category: %w", err)
	}
	return category, nil
}

// ListCategories retrieves all categories by name
func (s *IssueService) ListCategories(ctx context.Context) ([]*entities.Category, error) {
	categories, err := s.categoryRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	return categories, nil
}

// UpdateCategory replaces a category's fields
func (s *IssueService) UpdateCategory(ctx context.Context, id uuid.UUID, input CategoryInput) (*entities.Category, error) {
	category, err := s.GetCategory(ctx, id)
	if err != nil {
		return nil, err
	}
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, usecaseErrors.ErrInvalidInput
	}
	if err := s.ensureNameFree(ctx, name, id); err != nil {
		return nil, err
	}

	category.Name = name
	category.Description = normalizeOptional(input.Description)
	category.Color = normalizeOptional(input.Color)
	if err := s.categoryRepo.Update(ctx, category); err != nil {
		return nil, fmt.Errorf("failed to update category: %w", err)
	}
	return category, nil
}

// DeleteCategory removes a category; its issues become uncategorised
func (s *IssueService) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	if err := s.categoryRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return usecaseErrors.ErrCategoryNotFound
		}
		return fmt.Errorf("failed to delete category: %w", err)
	}
	s.logger.Info("category.deleted", zap.String("category_id", id.String()))
	return nil
}

func (s *IssueService) ensureNameFree(ctx context.Context, name string, self uuid.UUID) error {
	existing, err := s.categoryRepo.FindByName(ctx, name)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return fmt.Errorf("failed to check category name: %w", err)
	}
	if existing.ID != self {
		return usecaseErrors.ErrCategoryExists
	}
	return nil
}
