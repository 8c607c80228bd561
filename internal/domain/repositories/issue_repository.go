package repositories

import (
	"context"

	"github.com/google/uuid"
	"github.com/johnquangdev/erp-issue-hub/internal/domain/entities"
)

// IssueRepository defines the interface for issue data access
type IssueRepository interface {
	// Create creates a new issue
	Create(ctx context.Context, issue *entities.Issue) error

	// FindByID retrieves an issue with its category
	FindByID(ctx context.Context, id uuid.UUID) (*entities.Issue, error)

	// FindDetail retrieves an issue with notes, action items and vendor tickets
	FindDetail(ctx context.Context, id uuid.UUID) (*entities.Issue, error)

	// Update saves all fields of an issue
	Update(ctx context.Context, issue *entities.Issue) error

	// Delete removes an issue and everything it owns
	Delete(ctx context.Context, id uuid.UUID) error

	// List retrieves issues with filters and pagination
	List(ctx context.Context, filters IssueFilters) ([]*entities.Issue, int64, error)

	// Exists reports whether an issue with the id exists
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
}

// IssueFilters represents filter options for listing issues
type IssueFilters struct {
	Statuses   []entities.IssueStatus
	Priority   *entities.IssuePriority
	CategoryID *uuid.UUID
	Archived   *bool
	AssignedTo string
	Search     string // Search in title, description
	Limit      int
	Offset     int
	SortBy     string // "updated_at", "created_at", "priority", "title"
	SortOrder  string // "asc", "desc"
}

// CategoryRepository defines the interface for category data access
type CategoryRepository interface {
	Create(ctx context.Context, category *entities.Category) error
	FindByID(ctx context.Context, id uuid.UUID) (*entities.Category, error)
	FindByName(ctx context.Context, name string) (*entities.Category, error)
	Update(ctx context.Context, category *entities.Category) error
	// Delete removes a category and detaches its issues
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context) ([]*entities.Category, error)
}

// NoteRepository defines the interface for issue note data access
type NoteRepository interface {
	Create(ctx context.Context, note *entities.Note) error
	FindByID(ctx context.Context, id uuid.UUID) (*entities.Note, error)
	Update(ctx context.Context, note *entities.Note) error
	Delete(ctx context.Context, id uuid.UUID) error
	ListByIssue(ctx context.Context, issueID uuid.UUID, kind *entities.NoteKind) ([]*entities.Note, error)
}
