package entities

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// NoteKind separates the note streams kept on an issue
type NoteKind string

const (
	NoteKindGeneral        NoteKind = "GENERAL"
	NoteKindCmic           NoteKind = "CMIC"
	NoteKindAdditionalHelp NoteKind = "ADDITIONAL_HELP"
)

// IsValid checks the kind against the known values
func (k NoteKind) IsValid() bool {
	switch k {
	case NoteKindGeneral, NoteKindCmic, NoteKindAdditionalHelp:
		return true
	}
	return false
}

// Note is a timestamped comment attached to an issue
type Note struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	IssueID   uuid.UUID `gorm:"type:uuid;not null;index" json:"issue_id"`
	Kind      NoteKind  `gorm:"type:varchar(30);not null;default:'GENERAL';index" json:"kind"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	Author    *string   `gorm:"type:varchar(255)" json:"author,omitempty"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// TableName specifies the table name for Note
func (Note) TableName() string {
	return "issue_notes"
}

// BeforeCreate assigns an ID when none was provided
func (n *Note) BeforeCreate(tx *gorm.DB) error {
	if n.ID == uuid.Nil {
		n.ID = uuid.New()
	}
	return nil
}
