package entities

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MeetingItem links an issue to a meeting agenda. A pair of (meeting, issue) is unique.
type MeetingItem struct {
	ID              uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	MeetingID       uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_meeting_items_meeting_issue" json:"meeting_id"`
	IssueID         uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_meeting_items_meeting_issue;index" json:"issue_id"`
	Issue           *Issue     `gorm:"foreignKey:IssueID" json:"issue,omitempty"`
	DiscussionNotes string     `gorm:"type:text" json:"discussion_notes"`
	CarriedOver     bool       `gorm:"not null;default:false" json:"carried_over"`
	CarriedFromID   *uuid.UUID `gorm:"type:uuid" json:"carried_from_id,omitempty"`
	Position        int        `gorm:"not null;default:0" json:"position"`
	CreatedAt       time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

// TableName specifies the table name for MeetingItem
func (MeetingItem) TableName() string {
	return "meeting_items"
}

// BeforeCreate assigns an ID when none was provided
func (mi *MeetingItem) BeforeCreate(tx *gorm.DB) error {
	if mi.ID == uuid.Nil {
		mi.ID = uuid.New()
	}
	return nil
}

// CarryOverItems builds the agenda copied into the next meeting: items whose
// issue is still OPEN or IN_PROGRESS and not archived. Issues must be loaded;
// items without a loaded issue are skipped. Order of the source is kept.
func CarryOverItems(source []MeetingItem, nextMeetingID uuid.UUID) []MeetingItem {
	carried := make([]MeetingItem, 0, len(source))
	seen := make(map[uuid.UUID]bool, len(source))
	for _, item := range source {
		if item.Issue == nil || item.Issue.Archived || !item.Issue.Status.IsUnresolved() {
			continue
		}
		if seen[item.IssueID] {
			continue
		}
		seen[item.IssueID] = true

		from := item.ID
		carried = append(carried, MeetingItem{
			ID:            uuid.New(),
			MeetingID:     nextMeetingID,
			IssueID:       item.IssueID,
			CarriedOver:   true,
			CarriedFromID: &from,
			Position:      len(carried),
		})
	}
	return carried
}
