package email

import (
	"context"

	"github.com/google/uuid"

	"github.com/johnquangdev/erp-issue-hub/internal/domain/entities"
	"github.com/johnquangdev/erp-issue-hub/internal/domain/repositories"
)

// Service defines the interface for stakeholder email templates and drafts
type Service interface {
	// Templates
	CreateTemplate(ctx context.Context, input TemplateInput) (*entities.EmailTemplate, error)
	GetTemplate(ctx context.Context, id uuid.UUID) (*entities.EmailTemplate, error)
	ListTemplates(ctx context.Context, category string) ([]*entities.EmailTemplate, error)
	UpdateTemplate(ctx context.Context, id uuid.UUID, input TemplateInput) (*entities.EmailTemplate, error)
	DeleteTemplate(ctx context.Context, id uuid.UUID) error
	SeedDefaultTemplates(ctx context.Context) (int, error)

	// Drafts
	CreateDraft(ctx context.Context, input DraftInput) (*entities.EmailDraft, error)
	GetDraft(ctx context.Context, id uuid.UUID) (*entities.EmailDraft, error)
	ListDrafts(ctx context.Context, filters repositories.EmailDraftFilters) ([]*entities.EmailDraft, error)
	UpdateDraft(ctx context.Context, id uuid.UUID, input DraftInput) (*entities.EmailDraft, error)
	DeleteDraft(ctx context.Context, id uuid.UUID) error
	MarkSent(ctx context.Context, id uuid.UUID) (*entities.EmailDraft, error)
	PreviewDraft(ctx context.Context, id uuid.UUID) (*Preview, error)

	// Assistance
	GenerateDraft(ctx context.Context, input GenerateInput) (*entities.EmailDraft, error)
	ImproveText(ctx context.Context, input ImproveInput) (string, error)
}

var _ Service = (*EmailService)(nil)
