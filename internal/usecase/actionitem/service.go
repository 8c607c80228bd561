package actionitem

import (
	"context"

	"github.com/google/uuid"

	"github.com/johnquangdev/erp-issue-hub/internal/domain/entities"
	"github.com/johnquangdev/erp-issue-hub/internal/domain/repositories"
)

// Service defines the interface for the action item use case
type Service interface {
	Create(ctx context.Context, input CreateInput) (*entities.ActionItem, error)
	Get(ctx context.Context, id uuid.UUID) (*entities.ActionItem, error)
	List(ctx context.Context, filters repositories.ActionItemFilters) ([]*entities.ActionItem, error)
	ListByIssue(ctx context.Context, issueID uuid.UUID) ([]*entities.ActionItem, error)
	Update(ctx context.Context, id uuid.UUID, input UpdateInput) (*entities.ActionItem, error)
	Delete(ctx context.Context, id uuid.UUID) error

	// Manage moves an available item into the personal list
	Manage(ctx context.Context, id uuid.UUID) (*entities.ActionItem, error)

	// Restore puts a managed item back on its original issue
	Restore(ctx context.Context, id uuid.UUID) (*entities.ActionItem, error)

	// Toggle flips completion
	Toggle(ctx context.Context, id uuid.UUID) (*entities.ActionItem, error)
}

var _ Service = (*ActionItemService)(nil)
