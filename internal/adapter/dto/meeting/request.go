package meeting

import "time"

// CreateMeetingRequest represents the request to plan a meeting.
// carry_over defaults to true.
type CreateMeetingRequest struct {
	Title     string     `json:"title" validate:"max=255"`
	Date      *time.Time `json:"date,omitempty"`
	CarryOver *bool      `json:"carry_over,omitempty"`
	IssueIDs  []string   `json:"issue_ids,omitempty" validate:"dive,uuid"`
}

// UpdateMeetingRequest represents edits to a meeting that is not completed
type UpdateMeetingRequest struct {
	Title        *string    `json:"title,omitempty" validate:"omitempty,notblank,max=255"`
	Date         *time.Time `json:"date,omitempty"`
	GeneralNotes *string    `json:"general_notes,omitempty"`
}

// ItemNotesRequest carries the discussion notes of one agenda item
type ItemNotesRequest struct {
	ItemID string `json:"item_id" validate:"required,uuid"`
	Notes  string `json:"notes"`
}

// NotesRequest is the autosave and end-meeting payload
type NotesRequest struct {
	GeneralNotes *string            `json:"general_notes,omitempty"`
	Items        []ItemNotesRequest `json:"items,omitempty" validate:"dive"`
}

// AddItemRequest represents the request to put an issue on the agenda
type AddItemRequest struct {
	IssueID string `json:"issue_id" validate:"required,uuid"`
	Notes   string `json:"notes"`
}

// UpdateItemRequest represents edits to an agenda item
type UpdateItemRequest struct {
	Notes string `json:"notes"`
}
