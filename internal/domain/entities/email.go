package entities

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// EmailTemplate is a reusable starting point for stakeholder emails
type EmailTemplate struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name        string    `gorm:"type:varchar(150);not null;uniqueIndex" json:"name" yaml:"name"`
	Category    string    `gorm:"type:varchar(50);index" json:"category" yaml:"category"`
	Description string    `gorm:"type:text" json:"description" yaml:"description"`
	Subject     string    `gorm:"type:varchar(255);not null" json:"subject" yaml:"subject"`
	Body        string    `gorm:"type:text;not null" json:"body" yaml:"body"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at" yaml:"-"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime" json:"updated_at" yaml:"-"`
}

// TableName specifies the table name for EmailTemplate
func (EmailTemplate) TableName() string {
	return "email_templates"
}

// BeforeCreate assigns an ID when none was provided
func (t *EmailTemplate) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}

// EmailDraftStatus tracks whether a draft has gone out
type EmailDraftStatus string

const (
	EmailDraftStatusDraft EmailDraftStatus = "DRAFT"
	EmailDraftStatusSent  EmailDraftStatus = "SENT"
)

// EmailDraft is a stakeholder email being prepared
type EmailDraft struct {
	ID            uuid.UUID                   `gorm:"type:uuid;primaryKey" json:"id"`
	Subject       string                      `gorm:"type:varchar(255);not null" json:"subject"`
	Body          string                      `gorm:"type:text" json:"body"`
	Recipients    datatypes.JSONSlice[string] `json:"recipients"`
	IssueID       *uuid.UUID                  `gorm:"type:uuid;index" json:"issue_id,omitempty"`
	TemplateID    *uuid.UUID                  `gorm:"type:uuid;index" json:"template_id,omitempty"`
	Status        EmailDraftStatus            `gorm:"type:varchar(20);not null;default:'DRAFT';index" json:"status"`
	GeneratedByAI bool                        `gorm:"not null;default:false" json:"generated_by_ai"`
	SentAt        *time.Time                  `json:"sent_at,omitempty"`
	CreatedAt     time.Time                   `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time                   `gorm:"autoUpdateTime" json:"updated_at"`
}

// TableName specifies the table name for EmailDraft
func (EmailDraft) TableName() string {
	return "email_drafts"
}

// BeforeCreate assigns an ID when none was provided
func (d *EmailDraft) BeforeCreate(tx *gorm.DB) error {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	return nil
}

// MarkSent records that the draft was sent
func (d *EmailDraft) MarkSent(now time.Time) {
	d.Status = EmailDraftStatusSent
	d.SentAt = &now
}
