package repositories

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/johnquangdev/erp-issue-hub/internal/domain/entities"
)

// MeetingFilters represents filter options for listing meetings
type MeetingFilters struct {
	Status *entities.MeetingStatus
	Limit  int
	Offset int
}

// MeetingRepository defines the interface for meeting data access
type MeetingRepository interface {
	// WithinTransaction runs fn against a repository bound to one transaction
	WithinTransaction(ctx context.Context, fn func(tx MeetingRepository) error) error

	// Create creates a meeting together with any items it carries
	Create(ctx context.Context, meeting *entities.Meeting) error

	// FindByID retrieves a meeting with items and their issues
	FindByID(ctx context.Context, id uuid.UUID) (*entities.Meeting, error)

	// Update saves the meeting row (not its items)
	Update(ctx context.Context, meeting *entities.Meeting) error

	// Delete removes a meeting and its items
	Delete(ctx context.Context, id uuid.UUID) error

	// List retrieves meetings, newest date first
	List(ctx context.Context, filters MeetingFilters) ([]*entities.Meeting, int64, error)

	// FindActive retrieves the active meeting, or nil
	FindActive(ctx context.Context) (*entities.Meeting, error)

	// FindNextPlanned retrieves the earliest planned meeting, or nil
	FindNextPlanned(ctx context.Context) (*entities.Meeting, error)

	// FindLastCompleted retrieves the most recently ended meeting with items and issues, or nil
	FindLastCompleted(ctx context.Context) (*entities.Meeting, error)

	// FindStaleActive retrieves active meetings started or touched before the cutoffs
	FindStaleActive(ctx context.Context, activityBefore, startedBefore time.Time) ([]*entities.Meeting, error)

	// TouchActivity stamps last_activity_at on an active meeting
	TouchActivity(ctx context.Context, id uuid.UUID, at time.Time) error

	// AddItem inserts an agenda item
	AddItem(ctx context.Context, item *entities.MeetingItem) error

	// AddItems inserts several agenda items
	AddItems(ctx context.Context, items []entities.MeetingItem) error

	// FindItem retrieves an agenda item
	FindItem(ctx context.Context, id uuid.UUID) (*entities.MeetingItem, error)

	// UpdateItemNotes saves the discussion notes of an item
	UpdateItemNotes(ctx context.Context, itemID uuid.UUID, notes string) error

	// DeleteItem removes an agenda item
	DeleteItem(ctx context.Context, id uuid.UUID) error

	// HasIssue reports whether an issue already sits on the agenda
	HasIssue(ctx context.Context, meetingID, issueID uuid.UUID) (bool, error)

	// CountItems returns the number of agenda items
	CountItems(ctx context.Context, meetingID uuid.UUID) (int64, error)
}
