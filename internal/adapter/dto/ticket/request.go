package ticket

import "time"

// VendorTicketRequest represents the request to create or replace a vendor ticket
type VendorTicketRequest struct {
	IssueID      *string    `json:"issue_id,omitempty" validate:"omitempty,uuid"`
	Vendor       string     `json:"vendor" validate:"required,notblank,max=100"`
	TicketNumber string     `json:"ticket_number" validate:"required,notblank,max=100"`
	Subject      string     `json:"subject" validate:"max=512"`
	RawStatus    string     `json:"raw_status" validate:"max=100"`
	RawPriority  string     `json:"raw_priority" validate:"max=100"`
	URL          *string    `json:"url,omitempty" validate:"omitempty,url"`
	Notes        string     `json:"notes"`
	OpenedAt     *time.Time `json:"opened_at,omitempty"`
}

// LinkTicketRequest names the issue a Zendesk ticket is linked to
type LinkTicketRequest struct {
	IssueID string `json:"issue_id" validate:"required,uuid"`
}
