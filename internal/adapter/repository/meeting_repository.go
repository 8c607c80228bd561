package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/johnquangdev/erp-issue-hub/internal/domain/entities"
	"github.com/johnquangdev/erp-issue-hub/internal/domain/repositories"
)

// meetingRepository implements the MeetingRepository interface
type meetingRepository struct {
	db *gorm.DB
}

// NewMeetingRepository creates a new meeting repository
func NewMeetingRepository(db *gorm.DB) repositories.MeetingRepository {
	return &meetingRepository{db: db}
}

// WithinTransaction runs fn with a repository bound to a single transaction
func (r *meetingRepository) WithinTransaction(ctx context.Context, fn func(tx repositories.MeetingRepository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&meetingRepository{db: tx})
	})
}

// Create creates a new meeting and its carried items
func (r *meetingRepository) Create(ctx context.Context, meeting *entities.Meeting) error {
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(meeting).Error; err != nil {
		return err
	}
	if len(meeting.Items) == 0 {
		return nil
	}
	for i := range meeting.Items {
		meeting.Items[i].MeetingID = meeting.ID
	}
	return r.AddItems(ctx, meeting.Items)
}

func preloadAgenda(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC, created_at ASC")
		}).
		Preload("Items.Issue").
		Preload("Items.Issue.Category")
}

// FindByID retrieves a meeting with its agenda
func (r *meetingRepository) FindByID(ctx context.Context, id uuid.UUID) (*entities.Meeting, error) {
	var meeting entities.Meeting
	err := preloadAgenda(r.db.WithContext(ctx)).
		Where("id = ?", id).
		First(&meeting).Error

	if err != nil {
		return nil, err
	}
	return &meeting, nil
}

// Update saves the meeting row only
func (r *meetingRepository) Update(ctx context.Context, meeting *entities.Meeting) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(meeting).Error
}

// Delete removes a meeting and its agenda
func (r *meetingRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("meeting_id = ?", id).Delete(&entities.MeetingItem{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&entities.Meeting{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

// List retrieves meetings with filters and pagination
func (r *meetingRepository) List(ctx context.Context, filters repositories.MeetingFilters) ([]*entities.Meeting, int64, error) {
	var meetings []*entities.Meeting
	var total int64

	query := r.db.WithContext(ctx).Model(&entities.Meeting{})
	if filters.Status != nil {
		query = query.Where("status = ?", *filters.Status)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = query.Order("date DESC").Order("created_at DESC")
	if filters.Limit > 0 {
		query = query.Limit(filters.Limit)
	}
	if filters.Offset > 0 {
		query = query.Offset(filters.Offset)
	}

	err := query.Find(&meetings).Error
	return meetings, total, err
}

// first runs query and maps a missing row to nil
func (r *meetingRepository) first(query *gorm.DB) (*entities.Meeting, error) {
	var meeting entities.Meeting
	err := query.First(&meeting).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &meeting, nil
}

// FindActive retrieves the meeting in progress
func (r *meetingRepository) FindActive(ctx context.Context) (*entities.Meeting, error) {
	return r.first(preloadAgenda(r.db.WithContext(ctx)).
		Where("status = ?", entities.MeetingStatusActive).
		Order("started_at DESC"))
}

// FindNextPlanned retrieves the earliest planned meeting
func (r *meetingRepository) FindNextPlanned(ctx context.Context) (*entities.Meeting, error) {
	return r.first(preloadAgenda(r.db.WithContext(ctx)).
		Where("status = ?", entities.MeetingStatusPlanned).
		Order("date ASC").
		Order("created_at ASC"))
}

// FindLastCompleted retrieves the most recently ended meeting
func (r *meetingRepository) FindLastCompleted(ctx context.Context) (*entities.Meeting, error) {
	return r.first(preloadAgenda(r.db.WithContext(ctx)).
		Where("status = ?", entities.MeetingStatusCompleted).
		Order("ended_at DESC").
		Order("created_at DESC"))
}

// FindStaleActive retrieves active meetings past either cutoff. Callers
// still decide per meeting which threshold applies.
func (r *meetingRepository) FindStaleActive(ctx context.Context, activityBefore, startedBefore time.Time) ([]*entities.Meeting, error) {
	var meetings []*entities.Meeting
	err := r.db.WithContext(ctx).
		Where("status = ?", entities.MeetingStatusActive).
		Where("started_at <= ? OR COALESCE(last_activity_at, started_at) <= ?", startedBefore, activityBefore).
		Find(&meetings).Error
	return meetings, err
}

// TouchActivity stamps activity on an active meeting
func (r *meetingRepository) TouchActivity(ctx context.Context, id uuid.UUID, at time.Time) error {
	result := r.db.WithContext(ctx).
		Model(&entities.Meeting{}).
		Where("id = ? AND status = ?", id, entities.MeetingStatusActive).
		Update("last_activity_at", at)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// AddItem inserts an agenda item
func (r *meetingRepository) AddItem(ctx context.Context, item *entities.MeetingItem) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(item).Error
}

// AddItems inserts agenda items in one statement
func (r *meetingRepository) AddItems(ctx context.Context, items []entities.MeetingItem) error {
	if len(items) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(&items).Error
}

// FindItem retrieves an agenda item with its issue
func (r *meetingRepository) FindItem(ctx context.Context, id uuid.UUID) (*entities.MeetingItem, error) {
	var item entities.MeetingItem
	err := r.db.WithContext(ctx).
		Preload("Issue").
		Where("id = ?", id).
		First(&item).Error
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// UpdateItemNotes saves discussion notes
func (r *meetingRepository) UpdateItemNotes(ctx context.Context, itemID uuid.UUID, notes string) error {
	result := r.db.WithContext(ctx).
		Model(&entities.MeetingItem{}).
		Where("id = ?", itemID).
		Updates(map[string]interface{}{
			"discussion_notes": notes,
			"updated_at":       time.Now(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// DeleteItem removes an agenda item
func (r *meetingRepository) DeleteItem(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&entities.MeetingItem{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// HasIssue reports whether the issue is already on the agenda
func (r *meetingRepository) HasIssue(ctx context.Context, meetingID, issueID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&entities.MeetingItem{}).
		Where("meeting_id = ? AND issue_id = ?", meetingID, issueID).
		Count(&count).Error
	return count > 0, err
}

// CountItems returns the agenda size
func (r *meetingRepository) CountItems(ctx context.Context, meetingID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&entities.MeetingItem{}).
		Where("meeting_id = ?", meetingID).
		Count(&count).Error
	return count, err
}
