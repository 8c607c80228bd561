package entities

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// IssuePriority represents how urgent an issue is
type IssuePriority string

const (
	IssuePriorityLow    IssuePriority = "LOW"
	IssuePriorityMedium IssuePriority = "MEDIUM"
	IssuePriorityHigh   IssuePriority = "HIGH"
	IssuePriorityUrgent IssuePriority = "URGENT"
)

// IsValid checks the priority against the known values
func (p IssuePriority) IsValid() bool {
	switch p {
	case IssuePriorityLow, IssuePriorityMedium, IssuePriorityHigh, IssuePriorityUrgent:
		return true
	}
	return false
}

// IssueStatus represents the lifecycle state of an issue
type IssueStatus string

const (
	IssueStatusOpen       IssueStatus = "OPEN"
	IssueStatusInProgress IssueStatus = "IN_PROGRESS"
	IssueStatusResolved   IssueStatus = "RESOLVED"
	IssueStatusClosed     IssueStatus = "CLOSED"
)

// IsValid checks the status against the known values
func (s IssueStatus) IsValid() bool {
	switch s {
	case IssueStatusOpen, IssueStatusInProgress, IssueStatusResolved, IssueStatusClosed:
		return true
	}
	return false
}

// IsUnresolved reports whether the issue still needs attention
func (s IssueStatus) IsUnresolved() bool {
	return s == IssueStatusOpen || s == IssueStatusInProgress
}

// Issue represents a tracked ERP support or integration problem
type Issue struct {
	ID          uuid.UUID     `gorm:"type:uuid;primaryKey" json:"id"`
	Title       string        `gorm:"type:varchar(255);not null" json:"title"`
	Description string        `gorm:"type:text" json:"description"`
	Priority    IssuePriority `gorm:"type:varchar(20);not null;default:'MEDIUM';index" json:"priority"`
	Status      IssueStatus   `gorm:"type:varchar(20);not null;default:'OPEN';index" json:"status"`
	CategoryID  *uuid.UUID    `gorm:"type:uuid;index" json:"category_id,omitempty"`
	Category    *Category     `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
	AssignedTo  *string       `gorm:"type:varchar(255)" json:"assigned_to,omitempty"`
	Archived    bool          `gorm:"not null;default:false;index" json:"archived"`
	ResolvedAt  *time.Time    `json:"resolved_at,omitempty"`

	Notes         []Note         `gorm:"foreignKey:IssueID" json:"notes,omitempty"`
	ActionItems   []ActionItem   `gorm:"foreignKey:IssueID" json:"action_items,omitempty"`
	VendorTickets []VendorTicket `gorm:"foreignKey:IssueID" json:"vendor_tickets,omitempty"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// TableName specifies the table name for Issue
func (Issue) TableName() string {
	return "issues"
}

// BeforeCreate assigns an ID when none was provided
func (i *Issue) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}

// SetStatus changes the status and keeps ResolvedAt consistent with it
func (i *Issue) SetStatus(status IssueStatus, now time.Time) error {
	if !status.IsValid() {
		return ErrInvalidStatus
	}
	if status.IsUnresolved() {
		i.ResolvedAt = nil
	} else if i.Status.IsUnresolved() || i.ResolvedAt == nil {
		i.ResolvedAt = &now
	}
	i.Status = status
	return nil
}

// SetPriority changes the priority
func (i *Issue) SetPriority(priority IssuePriority) error {
	if !priority.IsValid() {
		return ErrInvalidPriority
	}
	i.Priority = priority
	return nil
}
