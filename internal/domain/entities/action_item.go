package entities

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ActionItem is a discrete task, optionally tied to an issue.
//
// An item is "available" while IssueID is set. Managing it moves it into the
// personal list: IssueID is cleared and OriginalIssueID keeps the provenance so
// the item can be restored later.
type ActionItem struct {
	ID              uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	Title           string     `gorm:"type:varchar(255);not null" json:"title"`
	Description     *string    `gorm:"type:text" json:"description,omitempty"`
	Priority        int        `gorm:"not null;default:0;index" json:"priority"`
	Completed       bool       `gorm:"not null;default:false;index" json:"completed"`
	CompletedAt     *time.Time `json:"completed_at,omitempty"`
	DueDate         *time.Time `gorm:"index" json:"due_date,omitempty"`
	AssignedTo      *string    `gorm:"type:varchar(255)" json:"assigned_to,omitempty"`
	IssueID         *uuid.UUID `gorm:"type:uuid;index" json:"issue_id,omitempty"`
	OriginalIssueID *uuid.UUID `gorm:"type:uuid;index" json:"original_issue_id,omitempty"`
	CreatedAt       time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

// TableName specifies the table name for ActionItem
func (ActionItem) TableName() string {
	return "action_items"
}

// BeforeCreate assigns an ID when none was provided
func (a *ActionItem) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}

// IsAvailable reports whether the item is still attached to its issue
func (a *ActionItem) IsAvailable() bool {
	return a.IssueID != nil
}

// IsManaged reports whether the item lives in the personal list
func (a *ActionItem) IsManaged() bool {
	return a.IssueID == nil
}

// Manage detaches the item from its issue, remembering where it came from
func (a *ActionItem) Manage() error {
	if a.IssueID == nil {
		return ErrActionItemNotLinked
	}
	origin := *a.IssueID
	a.OriginalIssueID = &origin
	a.IssueID = nil
	return nil
}

// Restore reattaches a managed item to the issue it was taken from
func (a *ActionItem) Restore() error {
	if a.OriginalIssueID == nil {
		return ErrActionItemNoOrigin
	}
	origin := *a.OriginalIssueID
	a.IssueID = &origin
	a.OriginalIssueID = nil
	return nil
}

// SetCompleted flips completion and keeps CompletedAt in step
func (a *ActionItem) SetCompleted(completed bool, now time.Time) {
	a.Completed = completed
	if completed {
		a.CompletedAt = &now
	} else {
		a.CompletedAt = nil
	}
}
