package entities

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// VendorTicketStatus is the local status of a ticket raised with an ERP vendor
type VendorTicketStatus string

const (
	VendorTicketStatusOpen       VendorTicketStatus = "OPEN"
	VendorTicketStatusInProgress VendorTicketStatus = "IN_PROGRESS"
	VendorTicketStatusWaiting    VendorTicketStatus = "WAITING"
	VendorTicketStatusResolved   VendorTicketStatus = "RESOLVED"
	VendorTicketStatusClosed     VendorTicketStatus = "CLOSED"
)

// VendorTicket mirrors a ticket opened with an external vendor's helpdesk
type VendorTicket struct {
	ID           uuid.UUID          `gorm:"type:uuid;primaryKey" json:"id"`
	IssueID      *uuid.UUID         `gorm:"type:uuid;index" json:"issue_id,omitempty"`
	Vendor       string             `gorm:"type:varchar(100);not null;index" json:"vendor"`
	TicketNumber string             `gorm:"type:varchar(100);not null" json:"ticket_number"`
	Subject      string             `gorm:"type:varchar(512)" json:"subject"`
	RawStatus    string             `gorm:"type:varchar(100)" json:"raw_status"`
	RawPriority  string             `gorm:"type:varchar(100)" json:"raw_priority"`
	Status       VendorTicketStatus `gorm:"type:varchar(20);not null;default:'OPEN';index" json:"status"`
	Priority     IssuePriority      `gorm:"type:varchar(20);not null;default:'MEDIUM'" json:"priority"`
	URL          *string            `gorm:"type:varchar(512)" json:"url,omitempty"`
	Notes        string             `gorm:"type:text" json:"notes"`
	OpenedAt     *time.Time         `json:"opened_at,omitempty"`
	CreatedAt    time.Time          `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time          `gorm:"autoUpdateTime" json:"updated_at"`
}

// TableName specifies the table name for VendorTicket
func (VendorTicket) TableName() string {
	return "vendor_tickets"
}

// BeforeCreate assigns an ID when none was provided
func (v *VendorTicket) BeforeCreate(tx *gorm.DB) error {
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	return nil
}
