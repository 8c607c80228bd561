package repositories

import (
	"context"

	"github.com/google/uuid"
	"github.com/johnquangdev/erp-issue-hub/internal/domain/entities"
)

// ActionItemView selects which side of the available/managed split to list
type ActionItemView string

const (
	ActionItemViewAll       ActionItemView = "all"
	ActionItemViewAvailable ActionItemView = "available"
	ActionItemViewManaged   ActionItemView = "managed"
)

// ActionItemFilters represents filter options for listing action items
type ActionItemFilters struct {
	View      ActionItemView
	IssueID   *uuid.UUID
	Completed *bool
	Limit     int
	Offset    int
}

// ActionItemRepository defines the interface for action item data access
type ActionItemRepository interface {
	Create(ctx context.Context, item *entities.ActionItem) error
	FindByID(ctx context.Context, id uuid.UUID) (*entities.ActionItem, error)
	// Update saves all fields, including nil issue links
	Update(ctx context.Context, item *entities.ActionItem) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, filters ActionItemFilters) ([]*entities.ActionItem, error)
}
