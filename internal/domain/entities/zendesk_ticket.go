package entities

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// TicketType is the local classification of an external support ticket
type TicketType string

const (
	TicketTypeProblem  TicketType = "PROBLEM"
	TicketTypeIncident TicketType = "INCIDENT"
	TicketTypeQuestion TicketType = "QUESTION"
	TicketTypeTask     TicketType = "TASK"
)

// IsValid checks the type against the known values
func (t TicketType) IsValid() bool {
	switch t {
	case TicketTypeProblem, TicketTypeIncident, TicketTypeQuestion, TicketTypeTask:
		return true
	}
	return false
}

// ZendeskTicket is the local mirror of a Zendesk ticket.
// Raw* fields keep the vendor values; Status/Priority/Type are the mapped local values.
type ZendeskTicket struct {
	ID               uuid.UUID                   `gorm:"type:uuid;primaryKey" json:"id"`
	ZendeskID        int64                       `gorm:"not null;uniqueIndex" json:"zendesk_id"`
	Subject          string                      `gorm:"type:varchar(512)" json:"subject"`
	Description      string                      `gorm:"type:text" json:"description"`
	RawStatus        string                      `gorm:"type:varchar(30)" json:"raw_status"`
	RawPriority      string                      `gorm:"type:varchar(30)" json:"raw_priority"`
	RawType          string                      `gorm:"type:varchar(30)" json:"raw_type"`
	Status           IssueStatus                 `gorm:"type:varchar(20);not null;index" json:"status"`
	Priority         IssuePriority               `gorm:"type:varchar(20);not null" json:"priority"`
	Type             TicketType                  `gorm:"type:varchar(20);not null" json:"type"`
	RequesterName    string                      `gorm:"type:varchar(255)" json:"requester_name"`
	RequesterEmail   string                      `gorm:"type:varchar(255)" json:"requester_email"`
	AssigneeName     string                      `gorm:"type:varchar(255)" json:"assignee_name"`
	GroupName        string                      `gorm:"type:varchar(255)" json:"group_name"`
	Tags             datatypes.JSONSlice[string] `json:"tags"`
	URL              string                      `gorm:"type:varchar(512)" json:"url"`
	IssueID          *uuid.UUID                  `gorm:"type:uuid;index" json:"issue_id,omitempty"`
	ZendeskCreatedAt *time.Time                  `json:"zendesk_created_at,omitempty"`
	ZendeskUpdatedAt *time.Time                  `gorm:"index" json:"zendesk_updated_at,omitempty"`
	LastSyncedAt     time.Time                   `json:"last_synced_at"`
	CreatedAt        time.Time                   `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt        time.Time                   `gorm:"autoUpdateTime" json:"updated_at"`
}

// TableName specifies the table name for ZendeskTicket
func (ZendeskTicket) TableName() string {
	return "zendesk_tickets"
}

// BeforeCreate assigns an ID when none was provided
func (z *ZendeskTicket) BeforeCreate(tx *gorm.DB) error {
	if z.ID == uuid.Nil {
		z.ID = uuid.New()
	}
	return nil
}

// IsLinked reports whether the ticket is attached to a local issue
func (z *ZendeskTicket) IsLinked() bool {
	return z.IssueID != nil
}
