package meeting

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/johnquangdev/erp-issue-hub/internal/domain/entities"
	"github.com/johnquangdev/erp-issue-hub/internal/domain/repositories"
)

// Service defines the interface for the meeting use case
type Service interface {
	// CreateMeeting creates a PLANNED meeting, optionally carrying over the last agenda
	CreateMeeting(ctx context.Context, input CreateMeetingInput) (*entities.Meeting, error)

	// GetMeeting retrieves a meeting with its agenda
	GetMeeting(ctx context.Context, id uuid.UUID) (*entities.Meeting, error)

	// ListMeetings retrieves meetings, newest first
	ListMeetings(ctx context.Context, filters repositories.MeetingFilters) ([]*entities.Meeting, int64, error)

	// GetCurrentMeeting returns the ACTIVE meeting, else the next PLANNED one
	GetCurrentMeeting(ctx context.Context) (*entities.Meeting, error)

	// UpdateMeeting edits title, date and general notes of a meeting that is not completed
	UpdateMeeting(ctx context.Context, id uuid.UUID, input UpdateMeetingInput) (*entities.Meeting, error)

	// DeleteMeeting removes a PLANNED meeting
	DeleteMeeting(ctx context.Context, id uuid.UUID) error

	// StartMeeting moves a PLANNED meeting to ACTIVE
	StartMeeting(ctx context.Context, id uuid.UUID) (*entities.Meeting, error)

	// RecordActivity keeps an ACTIVE meeting alive
	RecordActivity(ctx context.Context, id uuid.UUID) error

	// SaveNotes autosaves general and discussion notes
	SaveNotes(ctx context.Context, id uuid.UUID, input NotesInput) (*entities.Meeting, error)

	// EndMeeting completes an ACTIVE meeting and prepares the next one
	EndMeeting(ctx context.Context, id uuid.UUID, input NotesInput) (*EndMeetingOutput, error)

	// Agenda items
	AddItem(ctx context.Context, meetingID uuid.UUID, input AddItemInput) (*entities.MeetingItem, error)
	UpdateItem(ctx context.Context, meetingID, itemID uuid.UUID, notes string) (*entities.MeetingItem, error)
	RemoveItem(ctx context.Context, meetingID, itemID uuid.UUID) error

	// EndStaleMeetings ends ACTIVE meetings past the inactivity window or maximum duration
	EndStaleMeetings(ctx context.Context) (int, error)

	// RunWatchdog calls EndStaleMeetings on every tick until ctx is done
	RunWatchdog(ctx context.Context)

	// MinutesURL returns a temporary download link for archived minutes
	MinutesURL(ctx context.Context, id uuid.UUID) (string, error)
}

// MinutesStore persists rendered minutes documents
type MinutesStore interface {
	UploadText(ctx context.Context, objectName, content, contentType string) error
	GetFileURL(ctx context.Context, objectName string, expiry time.Duration) (string, error)
}

var _ Service = (*MeetingService)(nil)
