package meeting

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
	"github.com/johnquangdev/erp-issue-hub/pkg/config"
)

// MeetingService handles the meeting lifecycle
type MeetingService struct {
	meetingRepo repositories.MeetingRepository
	issueRepo   repositories.IssueRepository
	minutes     MinutesStore
	cfg         config.MeetingConfig
	logger      *zap.Logger
	now         func() time.Time
}

// NewMeetingService creates a new meeting service. minutes may be nil.
func NewMeetingService(
	meetingRepo repositories.MeetingRepository,
	issueRepo repositories.IssueRepository,
	minutes MinutesStore,
	cfg config.MeetingConfig,
	logger *zap.Logger,
) *MeetingService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MeetingService{
		meetingRepo: meetingRepo,
		issueRepo:   issueRepo,
		minutes:     minutes,
		cfg:         cfg,
		logger:      logger,
		now:         time.Now,
	}
}

// CreateMeetingInput represents input for creating a meeting
type CreateMeetingInput struct {
	Title     string
	Date      time.Time
	CarryOver bool
	IssueIDs  []uuid.UUID
}

// CreateMeeting creates a PLANNED meeting. With CarryOver set, unresolved items of the
// most recently completed meeting are copied first, then the requested issues follow.
func (s *MeetingService) CreateMeeting(ctx context.Context, input CreateMeetingInput) (*entities.Meeting, error) {
	date := input.Date
	if date.IsZero() {
		date = s.now()
	}
	title := strings.TrimSpace(input.Title)
	if title == "" {
		title = entities.DefaultMeetingTitle(date)
	}

	for _, issueID := range input.IssueIDs {
		exists, err := s.issueRepo.Exists(ctx, issueID)
		if err != nil {
			return nil, fmt.Errorf("failed to check issue: %w", err)
		}
		if !exists {
			return nil, usecaseErrors.ErrIssueNotFound
		}
	}

	meeting := entities.NewPlannedMeeting(title, date)
	var carried int
	err := s.meetingRepo.WithinTransaction(ctx, func(tx repositories.MeetingRepository) error {
		if input.CarryOver {
			last, err := tx.FindLastCompleted(ctx)
			if err != nil {
				return fmt.Errorf("failed to get last meeting: %w", err)
			}
			if last != nil {
				meeting.Items = entities.CarryOverItems(last.Items, meeting.ID)
				carried = len(meeting.Items)
			}
		}

		seen := make(map[uuid.UUID]bool, len(meeting.Items))
		for _, item := range meeting.Items {
			seen[item.IssueID] = true
		}
		for _, issueID := range input.IssueIDs {
			if seen[issueID] {
				continue
			}
			seen[issueID] = true
			meeting.Items = append(meeting.Items, entities.MeetingItem{
				MeetingID: meeting.ID,
				IssueID:   issueID,
				Position:  len(meeting.Items),
			})
		}

		if err := tx.Create(ctx, meeting); err != nil {
			return fmt.Errorf("failed to create meeting: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("meeting.created",
		zap.String("meeting_id", meeting.ID.String()),
		zap.Int("carried_items", carried),
	)
	return s.GetMeeting(ctx, meeting.ID)
}

// GetMeeting retrieves a meeting by ID
func (s *MeetingService) GetMeeting(ctx context.Context, id uuid.UUID) (*entities.Meeting, error) {
	return findMeeting(ctx, s.meetingRepo, id)
}

func findMeeting(ctx context.Context, repo repositories.MeetingRepository, id uuid.UUID) (*entities.Meeting, error) {
	meeting, err := repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, usecaseErrors.ErrMeetingNotFound
		}
		return nil, fmt.Errorf("failed to get meeting: %w", err)
	}
	return meeting, nil
}

// ListMeetings retrieves meetings with filters
func (s *MeetingService) ListMeetings(ctx context.Context, filters repositories.MeetingFilters) ([]*entities.Meeting, int64, error) {
	meetings, total, err := s.meetingRepo.List(ctx, filters)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list meetings: %w", err)
	}
	return meetings, total, nil
}

// GetCurrentMeeting returns the ACTIVE meeting, falling back to the next PLANNED one
func (s *MeetingService) GetCurrentMeeting(ctx context.Context) (*entities.Meeting, error) {
	active, err := s.meetingRepo.FindActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get active meeting: %w", err)
	}
	if active != nil {
		return active, nil
	}
	next, err := s.meetingRepo.FindNextPlanned(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get planned meeting: %w", err)
	}
	if next == nil {
		return nil, usecaseErrors.ErrMeetingNotFound
	}
	return next, nil
}

// UpdateMeetingInput represents a partial update; nil fields are left untouched
type UpdateMeetingInput struct {
	Title        *string
	Date         *time.Time
	GeneralNotes *string
}

// UpdateMeeting edits a meeting that has not completed
func (s *MeetingService) UpdateMeeting(ctx context.Context, id uuid.UUID, input UpdateMeetingInput) (*entities.Meeting, error) {
	meeting, err := s.GetMeeting(ctx, id)
	if err != nil {
		return nil, err
	}
	if meeting.IsCompleted() {
		return nil, usecaseErrors.ErrMeetingCompleted
	}

	if input.Title != nil {
		title := strings.TrimSpace(*input.Title)
		if title == "" {
			return nil, usecaseErrors.ErrBlankTitle
		}
		meeting.Title = title
	}
	if input.Date != nil {
		meeting.Date = *input.Date
	}
	if input.GeneralNotes != nil {
		meeting.GeneralNotes = *input.GeneralNotes
	}
	meeting.Touch(s.now())

	if err := s.meetingRepo.Update(ctx, meeting); err != nil {
		return nil, fmt.Errorf("failed to update meeting: %w", err)
	}
	return meeting, nil
}

// DeleteMeeting removes a meeting that never started
func (s *MeetingService) DeleteMeeting(ctx context.Context, id uuid.UUID) error {
	meeting, err := s.GetMeeting(ctx, id)
	if err != nil {
		return err
	}
	if meeting.Status != entities.MeetingStatusPlanned {
		return usecaseErrors.ErrMeetingNotPlanned
	}
	if err := s.meetingRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete meeting: %w", err)
	}
	s.logger.Info("meeting.deleted", zap.String("meeting_id", id.String()))
	return nil
}

// StartMeeting moves a PLANNED meeting to ACTIVE. Only one meeting may be active.
func (s *MeetingService) StartMeeting(ctx context.Context, id uuid.UUID) (*entities.Meeting, error) {
	var started *entities.Meeting
	err := s.meetingRepo.WithinTransaction(ctx, func(tx repositories.MeetingRepository) error {
		meeting, err := findMeeting(ctx, tx, id)
		if err != nil {
			return err
		}

		active, err := tx.FindActive(ctx)
		if err != nil {
			return fmt.Errorf("failed to get active meeting: %w", err)
		}
		if active != nil && active.ID != meeting.ID {
			return usecaseErrors.ErrAnotherMeetingActive
		}

		if err := meeting.Start(s.now()); err != nil {
			return lifecycleError(err)
		}
		if err := tx.Update(ctx, meeting); err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return usecaseErrors.ErrAnotherMeetingActive
			}
			return fmt.Errorf("failed to start meeting: %w", err)
		}
		started = meeting
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("meeting.started", zap.String("meeting_id", id.String()))
	return started, nil
}

// RecordActivity stamps activity on an ACTIVE meeting
func (s *MeetingService) RecordActivity(ctx context.Context, id uuid.UUID) error {
	err := s.meetingRepo.TouchActivity(ctx, id, s.now())
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("failed to record activity: %w", err)
	}
	// Distinguish an unknown meeting from one that is not running
	if _, err := s.GetMeeting(ctx, id); err != nil {
		return err
	}
	return usecaseErrors.ErrMeetingNotActive
}

// ItemNotes carries discussion notes for one agenda item
type ItemNotes struct {
	ItemID uuid.UUID
	Notes  string
}

// NotesInput carries an autosave or the final notes of a meeting
type NotesInput struct {
	GeneralNotes *string
	Items        []ItemNotes
}

// SaveNotes persists notes on a meeting that has not completed
func (s *MeetingService) SaveNotes(ctx context.Context, id uuid.UUID, input NotesInput) (*entities.Meeting, error) {
	err := s.meetingRepo.WithinTransaction(ctx, func(tx repositories.MeetingRepository) error {
		meeting, err := findMeeting(ctx, tx, id)
		if err != nil {
			return err
		}
		if meeting.IsCompleted() {
			return usecaseErrors.ErrMeetingCompleted
		}
		return s.applyNotes(ctx, tx, meeting, input)
	})
	if err != nil {
		return nil, err
	}
	return s.GetMeeting(ctx, id)
}

// applyNotes writes general and item notes and touches activity
func (s *MeetingService) applyNotes(ctx context.Context, tx repositories.MeetingRepository, meeting *entities.Meeting, input NotesInput) error {
	owned := make(map[uuid.UUID]bool, len(meeting.Items))
	for _, item := range meeting.Items {
		owned[item.ID] = true
	}
	for _, n := range input.Items {
		if !owned[n.ItemID] {
			return usecaseErrors.ErrMeetingItemWrongParent
		}
		if err := tx.UpdateItemNotes(ctx, n.ItemID, n.Notes); err != nil {
			return fmt.Errorf("failed to save item notes: %w", err)
		}
	}

	if input.GeneralNotes != nil {
		meeting.GeneralNotes = *input.GeneralNotes
	}
	meeting.Touch(s.now())
	if err := tx.Update(ctx, meeting); err != nil {
		return fmt.Errorf("failed to save meeting notes: %w", err)
	}
	return nil
}

// EndMeetingOutput holds the completed meeting and the meeting prepared after it
type EndMeetingOutput struct {
	Completed *entities.Meeting
	Next      *entities.Meeting
}

// EndMeeting completes an ACTIVE meeting by hand
func (s *MeetingService) EndMeeting(ctx context.Context, id uuid.UUID, input NotesInput) (*EndMeetingOutput, error) {
	return s.endMeeting(ctx, id, entities.MeetingEndReasonManual, input)
}

// endMeeting is the single completion path for manual and automatic ends. It saves
// the notes, completes the meeting, then carries unresolved items into the next
// PLANNED meeting, creating one when none is scheduled.
func (s *MeetingService) endMeeting(ctx context.Context, id uuid.UUID, reason entities.MeetingEndReason, input NotesInput) (*EndMeetingOutput, error) {
	var nextID uuid.UUID
	var carried int
	err := s.meetingRepo.WithinTransaction(ctx, func(tx repositories.MeetingRepository) error {
		meeting, err := findMeeting(ctx, tx, id)
		if err != nil {
			return err
		}
		if !meeting.IsActive() {
			if meeting.IsCompleted() {
				return usecaseErrors.ErrMeetingCompleted
			}
			return usecaseErrors.ErrMeetingNotActive
		}
		if err := s.applyNotes(ctx, tx, meeting, input); err != nil {
			return err
		}

		now := s.now()
		if err := meeting.Complete(now, reason); err != nil {
			return lifecycleError(err)
		}
		if err := tx.Update(ctx, meeting); err != nil {
			return fmt.Errorf("failed to complete meeting: %w", err)
		}

		next, err := tx.FindNextPlanned(ctx)
		if err != nil {
			return fmt.Errorf("failed to get planned meeting: %w", err)
		}
		if next == nil {
			date := now.Add(s.cfg.DefaultInterval)
			next = entities.NewPlannedMeeting(entities.DefaultMeetingTitle(date), date)
			if err := tx.Create(ctx, next); err != nil {
				return fmt.Errorf("failed to create next meeting: %w", err)
			}
		}

		items := entities.CarryOverItems(meeting.Items, next.ID)
		present := make(map[uuid.UUID]bool, len(next.Items))
		for _, item := range next.Items {
			present[item.IssueID] = true
		}
		toAdd := make([]entities.MeetingItem, 0, len(items))
		for _, item := range items {
			if present[item.IssueID] {
				continue
			}
			item.Position = len(next.Items) + len(toAdd)
			toAdd = append(toAdd, item)
		}
		if err := tx.AddItems(ctx, toAdd); err != nil {
			return fmt.Errorf("failed to carry over items: %w", err)
		}

		nextID = next.ID
		carried = len(toAdd)
		return nil
	})
	if err != nil {
		return nil, err
	}

	completed, err := s.GetMeeting(ctx, id)
	if err != nil {
		return nil, err
	}
	s.archiveMinutes(ctx, completed)

	next, err := s.GetMeeting(ctx, nextID)
	if err != nil {
		return nil, err
	}

	s.logger.Info("meeting.ended",
		zap.String("meeting_id", id.String()),
		zap.String("reason", string(reason)),
		zap.String("next_meeting_id", nextID.String()),
		zap.Int("carried_items", carried),
	)
	return &EndMeetingOutput{Completed: completed, Next: next}, nil
}

// AddItemInput represents input for putting an issue on the agenda
type AddItemInput struct {
	IssueID uuid.UUID
	Notes   string
}

// AddItem appends an issue to the agenda
func (s *MeetingService) AddItem(ctx context.Context, meetingID uuid.UUID, input AddItemInput) (*entities.MeetingItem, error) {
	meeting, err := s.openMeeting(ctx, meetingID)
	if err != nil {
		return nil, err
	}
	exists, err := s.issueRepo.Exists(ctx, input.IssueID)
	if err != nil {
		return nil, fmt.Errorf("failed to check issue: %w", err)
	}
	if !exists {
		return nil, usecaseErrors.ErrIssueNotFound
	}

	item := &entities.MeetingItem{
		MeetingID:       meetingID,
		IssueID:         input.IssueID,
		DiscussionNotes: input.Notes,
	}
	err = s.meetingRepo.WithinTransaction(ctx, func(tx repositories.MeetingRepository) error {
		onAgenda, err := tx.HasIssue(ctx, meetingID, input.IssueID)
		if err != nil {
			return fmt.Errorf("failed to check agenda: %w", err)
		}
		if onAgenda {
			return usecaseErrors.ErrIssueAlreadyOnAgenda
		}
		count, err := tx.CountItems(ctx, meetingID)
		if err != nil {
			return fmt.Errorf("failed to count agenda: %w", err)
		}
		item.Position = int(count)
		if err := tx.AddItem(ctx, item); err != nil {
			// A concurrent insert can still win the unique index
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return usecaseErrors.ErrIssueAlreadyOnAgenda
			}
			return fmt.Errorf("failed to add meeting item: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.touch(ctx, meeting)
	return s.findItem(ctx, meetingID, item.ID)
}

// UpdateItem saves the discussion notes of one agenda item
func (s *MeetingService) UpdateItem(ctx context.Context, meetingID, itemID uuid.UUID, notes string) (*entities.MeetingItem, error) {
	meeting, err := s.openMeeting(ctx, meetingID)
	if err != nil {
		return nil, err
	}
	if _, err := s.findItem(ctx, meetingID, itemID); err != nil {
		return nil, err
	}
	if err := s.meetingRepo.UpdateItemNotes(ctx, itemID, notes); err != nil {
		return nil, fmt.Errorf("failed to update meeting item: %w", err)
	}
	s.touch(ctx, meeting)
	return s.findItem(ctx, meetingID, itemID)
}

// RemoveItem takes an issue off the agenda
func (s *MeetingService) RemoveItem(ctx context.Context, meetingID, itemID uuid.UUID) error {
	meeting, err := s.openMeeting(ctx, meetingID)
	if err != nil {
		return err
	}
	if _, err := s.findItem(ctx, meetingID, itemID); err != nil {
		return err
	}
	if err := s.meetingRepo.DeleteItem(ctx, itemID); err != nil {
		return fmt.Errorf("failed to remove meeting item: %w", err)
	}
	s.touch(ctx, meeting)
	return nil
}

// openMeeting loads a meeting whose agenda may still change
func (s *MeetingService) openMeeting(ctx context.Context, id uuid.UUID) (*entities.Meeting, error) {
	meeting, err := s.GetMeeting(ctx, id)
	if err != nil {
		return nil, err
	}
	if meeting.IsCompleted() {
		return nil, usecaseErrors.ErrMeetingCompleted
	}
	return meeting, nil
}

func (s *MeetingService) findItem(ctx context.Context, meetingID, itemID uuid.UUID) (*entities.MeetingItem, error) {
	item, err := s.meetingRepo.FindItem(ctx, itemID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, usecaseErrors.ErrMeetingItemNotFound
		}
		return nil, fmt.Errorf("failed to get meeting item: %w", err)
	}
	if item.MeetingID != meetingID {
		return nil, usecaseErrors.ErrMeetingItemWrongParent
	}
	return item, nil
}

// touch records activity for agenda edits on a running meeting
func (s *MeetingService) touch(ctx context.Context, meeting *entities.Meeting) {
	if !meeting.IsActive() {
		return
	}
	if err := s.meetingRepo.TouchActivity(ctx, meeting.ID, s.now()); err != nil {
		s.logger.Warn("meeting.touch_failed",
			zap.String("meeting_id", meeting.ID.String()),
			zap.Error(err),
		)
	}
}

// lifecycleError maps entity transition errors to use case errors
func lifecycleError(err error) error {
	switch {
	case errors.Is(err, entities.ErrMeetingNotPlanned):
		return usecaseErrors.ErrMeetingNotPlanned
	case errors.Is(err, entities.ErrMeetingNotActive):
		return usecaseErrors.ErrMeetingNotActive
	case errors.Is(err, entities.ErrMeetingCompleted):
		return usecaseErrors.ErrMeetingCompleted
	}
	return err
}
