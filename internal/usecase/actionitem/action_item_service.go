package actionitem

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/johnquangdev/erp-issue-hub/internal/domain/entities"
	"github.com/johnquangdev/erp-issue-hub/internal/domain/repositories"
	usecaseErrors "github.com/johnquangdev/erp-issue-hub/internal/usecase/errors"
)

// ActionItemService handles action item business logic
type ActionItemService struct {
	itemRepo  repositories.ActionItemRepository
	issueRepo repositories.IssueRepository
	logger    *zap.Logger
	now       func() time.Time
}

// NewActionItemService creates a new action item service
func NewActionItemService(
	itemRepo repositories.ActionItemRepository,
	issueRepo repositories.IssueRepository,
	logger *zap.Logger,
) *ActionItemService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ActionItemService{
		itemRepo:  itemRepo,
		issueRepo: issueRepo,
		logger:    logger,
		now:       time.Now,
	}
}

// CreateInput represents input for creating an action item
type CreateInput struct {
	Title       string
	Description *string
	Priority    int
	DueDate     *time.Time
	AssignedTo  *string
	IssueID     *uuid.UUID
}

// Create creates an action item, available when it is linked to an issue
func (s *ActionItemService) Create(ctx context.Context, input CreateInput) (*entities.ActionItem, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, usecaseErrors.ErrBlankTitle
	}
	if input.IssueID != nil {
		if err := s.ensureIssue(ctx, *input.IssueID); err != nil {
			return nil, err
		}
	}

	item := &entities.ActionItem{
		Title:       title,
		Description: input.Description,
		Priority:    input.Priority,
		DueDate:     input.DueDate,
		AssignedTo:  input.AssignedTo,
		IssueID:     input.IssueID,
	}
	if err := s.itemRepo.Create(ctx, item); err != nil {
		return nil, fmt.Errorf("failed to create action item: %w", err)
	}
	return item, nil
}

// Get retrieves an action item by ID
func (s *ActionItemService) Get(ctx context.Context, id uuid.UUID) (*entities.ActionItem, error) {
	item, err := s.itemRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, usecaseErrors.ErrActionItemNotFound
		}
		return nil, fmt.Errorf("failed to get action item: %w", err)
	}
	return item, nil
}

// List retrieves action items for a view
func (s *ActionItemService) List(ctx context.Context, filters repositories.ActionItemFilters) ([]*entities.ActionItem, error) {
	switch filters.View {
	case "":
		filters.View = repositories.ActionItemViewAll
	case repositories.ActionItemViewAll, repositories.ActionItemViewAvailable, repositories.ActionItemViewManaged:
	default:
		return nil, usecaseErrors.ErrInvalidInput
	}
	items, err := s.itemRepo.List(ctx, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list action items: %w", err)
	}
	return items, nil
}

// ListByIssue retrieves the items currently attached to an issue
func (s *ActionItemService) ListByIssue(ctx context.Context, issueID uuid.UUID) ([]*entities.ActionItem, error) {
	if err := s.ensureIssue(ctx, issueID); err != nil {
		return nil, err
	}
	return s.List(ctx, repositories.ActionItemFilters{IssueID: &issueID})
}

// UpdateInput represents a partial update; nil fields are left untouched
type UpdateInput struct {
	Title        *string
	Description  *string
	Priority     *int
	DueDate      *time.Time
	ClearDueDate bool
	AssignedTo   *string
	Completed    *bool
}

// Update applies a partial update. Issue links only change through Manage and Restore.
func (s *ActionItemService) Update(ctx context.Context, id uuid.UUID, input UpdateInput) (*entities.ActionItem, error) {
	item, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Title != nil {
		title := strings.TrimSpace(*input.Title)
		if title == "" {
			return nil, usecaseErrors.ErrBlankTitle
		}
		item.Title = title
	}
	if input.Description != nil {
		item.Description = input.Description
	}
	if input.Priority != nil {
		item.Priority = *input.Priority
	}
	if input.ClearDueDate {
		item.DueDate = nil
	} else if input.DueDate != nil {
		item.DueDate = input.DueDate
	}
	if input.AssignedTo != nil {
		item.AssignedTo = input.AssignedTo
	}
	if input.Completed != nil && *input.Completed != item.Completed {
		item.SetCompleted(*input.Completed, s.now())
	}

	if err := s.itemRepo.Update(ctx, item); err != nil {
		return nil, fmt.Errorf("failed to update action item: %w", err)
	}
	return item, nil
}

// Delete removes an action item
func (s *ActionItemService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.itemRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return usecaseErrors.ErrActionItemNotFound
		}
		return fmt.Errorf("failed to delete action item: %w", err)
	}
	return nil
}

// Manage moves the item into the personal list
func (s *ActionItemService) Manage(ctx context.Context, id uuid.UUID) (*entities.ActionItem, error) {
	item, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := item.Manage(); err != nil {
		return nil, usecaseErrors.ErrNotAvailable
	}
	if err := s.itemRepo.Update(ctx, item); err != nil {
		return nil, fmt.Errorf("failed to manage action item: %w", err)
	}

	s.logger.Info("action_item.managed",
		zap.String("action_item_id", item.ID.String()),
		zap.String("original_issue_id", item.OriginalIssueID.String()),
	)
	return item, nil
}

// Restore reattaches the item to the issue it came from
func (s *ActionItemService) Restore(ctx context.Context, id uuid.UUID) (*entities.ActionItem, error) {
	item, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := item.Restore(); err != nil {
		return nil, usecaseErrors.ErrNotManaged
	}
	if err := s.ensureIssue(ctx, *item.IssueID); err != nil {
		return nil, err
	}
	if err := s.itemRepo.Update(ctx, item); err != nil {
		return nil, fmt.Errorf("failed to restore action item: %w", err)
	}

	s.logger.Info("action_item.restored",
		zap.String("action_item_id", item.ID.String()),
		zap.String("issue_id", item.IssueID.String()),
	)
	return item, nil
}

// Toggle flips completion
func (s *ActionItemService) Toggle(ctx context.Context, id uuid.UUID) (*entities.ActionItem, error) {
	item, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	item.SetCompleted(!item.Completed, s.now())
	if err := s.itemRepo.Update(ctx, item); err != nil {
		return nil, fmt.Errorf("failed to toggle action item: %w", err)
	}
	return item, nil
}

func (s *ActionItemService) ensureIssue(ctx context.Context, id uuid.UUID) error {
	exists, err := s.issueRepo.Exists(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to check issue: %w", err)
	}
	if !exists {
		return usecaseErrors.ErrIssueNotFound
	}
	return nil
}
