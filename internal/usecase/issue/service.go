package issue

import (
	"context"

	"github.com/google/uuid"

	"github.com/johnquangdev/erp-issue-hub/internal/domain/entities"
	"github.com/johnquangdev/erp-issue-hub/internal/domain/repositories"
)

// Service defines the interface for the issue use case
type Service interface {
	// CreateIssue creates a new OPEN issue
	CreateIssue(ctx context.Context, input CreateIssueInput) (*entities.Issue, error)

	// GetIssue retrieves an issue with notes, action items and vendor tickets
	GetIssue(ctx context.Context, id uuid.UUID) (*entities.Issue, error)

	// ListIssues retrieves issues with filters
	ListIssues(ctx context.Context, filters repositories.IssueFilters) ([]*entities.Issue, int64, error)

	// ListResolvedIssues retrieves RESOLVED issues, most recently updated first
	ListResolvedIssues(ctx context.Context, limit, offset int) ([]*entities.Issue, int64, error)

	// UpdateIssue applies a partial update
	UpdateIssue(ctx context.Context, id uuid.UUID, input UpdateIssueInput) (*entities.Issue, error)

	// DeleteIssue removes an issue and what it owns
	DeleteIssue(ctx context.Context, id uuid.UUID) error

	// SetArchived archives or unarchives an issue
	SetArchived(ctx context.Context, id uuid.UUID, archived bool) (*entities.Issue, error)

	// Categories
	CreateCategory(ctx context.Context, input CategoryInput) (*entities.Category, error)
	GetCategory(ctx context.Context, id uuid.UUID) (*entities.Category, error)
	ListCategories(ctx context.Context) ([]*entities.Category, error)
	UpdateCategory(ctx context.Context, id uuid.UUID, input CategoryInput) (*entities.Category, error)
	DeleteCategory(ctx context.Context, id uuid.UUID) error

	// Notes
	AddNote(ctx context.Context, issueID uuid.UUID, input NoteInput) (*entities.Note, error)
	ListNotes(ctx context.Context, issueID uuid.UUID, kind *entities.NoteKind) ([]*entities.Note, error)
	UpdateNote(ctx context.Context, id uuid.UUID, input NoteInput) (*entities.Note, error)
	DeleteNote(ctx context.Context, id uuid.UUID) error
}

// Ensure IssueService implements Service interface
var _ Service = (*IssueService)(nil)
