package repositories

import (
	"context"

	"github.com/google/uuid"
	"github.com/johnquangdev/erp-issue-hub/internal/domain/entities"
)

// EmailTemplateRepository defines the interface for email template data access
type EmailTemplateRepository interface {
	Create(ctx context.Context, template *entities.EmailTemplate) error
	FindByID(ctx context.Context, id uuid.UUID) (*entities.EmailTemplate, error)
	Update(ctx context.Context, template *entities.EmailTemplate) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, category string) ([]*entities.EmailTemplate, error)
	Count(ctx context.Context) (int64, error)
}

// EmailDraftFilters represents filter options for listing drafts
type EmailDraftFilters struct {
	Status  *entities.EmailDraftStatus
	IssueID *uuid.UUID
	Limit   int
	Offset  int
}

// EmailDraftRepository defines the interface for email draft data access
type EmailDraftRepository interface {
	Create(ctx context.Context, draft *entities.EmailDraft) error
	FindByID(ctx context.Context, id uuid.UUID) (*entities.EmailDraft, error)
	Update(ctx context.Context, draft *entities.EmailDraft) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, filters EmailDraftFilters) ([]*entities.EmailDraft, error)
}
