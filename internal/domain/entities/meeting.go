package entities

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MeetingStatus represents the lifecycle state of a meeting
type MeetingStatus string

const (
	MeetingStatusPlanned   MeetingStatus = "PLANNED"
	MeetingStatusActive    MeetingStatus = "ACTIVE"
	MeetingStatusCompleted MeetingStatus = "COMPLETED"
)

// MeetingEndReason records why a meeting was completed
type MeetingEndReason string

const (
	MeetingEndReasonManual      MeetingEndReason = "MANUAL"
	MeetingEndReasonInactivity  MeetingEndReason = "INACTIVITY"
	MeetingEndReasonMaxDuration MeetingEndReason = "MAX_DURATION"
)

// Meeting is a team session walking through an agenda of issues
type Meeting struct {
	ID               uuid.UUID         `gorm:"type:uuid;primaryKey" json:"id"`
	Title            string            `gorm:"type:varchar(255);not null" json:"title"`
	Date             time.Time         `gorm:"not null;index" json:"date"`
	Status           MeetingStatus     `gorm:"type:varchar(20);not null;default:'PLANNED';index" json:"status"`
	GeneralNotes     string            `gorm:"type:text" json:"general_notes"`
	StartedAt        *time.Time        `json:"started_at,omitempty"`
	EndedAt          *time.Time        `gorm:"index" json:"ended_at,omitempty"`
	LastActivityAt   *time.Time        `json:"last_activity_at,omitempty"`
	EndReason        *MeetingEndReason `gorm:"type:varchar(20)" json:"end_reason,omitempty"`
	MinutesObjectKey *string           `gorm:"type:varchar(512)" json:"minutes_object_key,omitempty"`
	Items            []MeetingItem     `gorm:"foreignKey:MeetingID" json:"items,omitempty"`
	CreatedAt        time.Time         `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt        time.Time         `gorm:"autoUpdateTime" json:"updated_at"`
}

// TableName specifies the table name for Meeting
func (Meeting) TableName() string {
	return "meetings"
}

// BeforeCreate assigns an ID when none was provided
func (m *Meeting) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

// NewPlannedMeeting creates a meeting waiting to be started
func NewPlannedMeeting(title string, date time.Time) *Meeting {
	return &Meeting{
		ID:     uuid.New(),
		Title:  title,
		Date:   date,
		Status: MeetingStatusPlanned,
	}
}

// DefaultMeetingTitle is the title given to automatically scheduled meetings
func DefaultMeetingTitle(date time.Time) string {
	return fmt.Sprintf("Team Meeting - %s", date.Format("2006-01-02"))
}

// IsActive checks if the meeting is in progress
func (m *Meeting) IsActive() bool {
	return m.Status == MeetingStatusActive
}

// IsCompleted checks if the meeting has ended
func (m *Meeting) IsCompleted() bool {
	return m.Status == MeetingStatusCompleted
}

// Start moves a planned meeting to active
func (m *Meeting) Start(now time.Time) error {
	if m.Status != MeetingStatusPlanned {
		return ErrMeetingNotPlanned
	}
	m.Status = MeetingStatusActive
	m.StartedAt = &now
	m.LastActivityAt = &now
	return nil
}

// Touch records user activity on an active meeting
func (m *Meeting) Touch(now time.Time) {
	if m.IsActive() {
		m.LastActivityAt = &now
	}
}

// Complete moves an active meeting to its terminal state
func (m *Meeting) Complete(now time.Time, reason MeetingEndReason) error {
	if m.Status == MeetingStatusCompleted {
		return ErrMeetingCompleted
	}
	if m.Status != MeetingStatusActive {
		return ErrMeetingNotActive
	}
	m.Status = MeetingStatusCompleted
	m.EndedAt = &now
	m.EndReason = &reason
	return nil
}

// Duration returns how long the meeting ran, or nil if it never started
func (m *Meeting) Duration() *time.Duration {
	if m.StartedAt == nil {
		return nil
	}
	end := time.Now()
	if m.EndedAt != nil {
		end = *m.EndedAt
	}
	d := end.Sub(*m.StartedAt)
	return &d
}

// AutoEndReason reports whether an active meeting has outlived the inactivity
// window or the maximum duration, checking the maximum duration first.
func (m *Meeting) AutoEndReason(now time.Time, inactivity, maxDuration time.Duration) (MeetingEndReason, bool) {
	if !m.IsActive() || m.StartedAt == nil {
		return "", false
	}
	if maxDuration > 0 && now.Sub(*m.StartedAt) >= maxDuration {
		return MeetingEndReasonMaxDuration, true
	}
	last := *m.StartedAt
	if m.LastActivityAt != nil && m.LastActivityAt.After(last) {
		last = *m.LastActivityAt
	}
	if inactivity > 0 && now.Sub(last) >= inactivity {
		return MeetingEndReasonInactivity, true
	}
	return "", false
}
