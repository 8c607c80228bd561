package actionitem

import "time"

// CreateActionItemRequest represents the request to create an action item
type CreateActionItemRequest struct {
	Title       string     `json:"title" validate:"required,notblank,max=255"`
	Description *string    `json:"description,omitempty"`
	Priority    int        `json:"priority" validate:"min=0,max=10"`
	DueDate     *time.Time `json:"due_date,omitempty"`
	AssignedTo  *string    `json:"assigned_to,omitempty" validate:"omitempty,max=255"`
	IssueID     *string    `json:"issue_id,omitempty" validate:"omitempty,uuid"`
}

// UpdateActionItemRequest represents a partial action item update
type UpdateActionItemRequest struct {
	Title        *string    `json:"title,omitempty" validate:"omitempty,notblank,max=255"`
	Description  *string    `json:"description,omitempty"`
	Priority     *int       `json:"priority,omitempty" validate:"omitempty,min=0,max=10"`
	DueDate      *time.Time `json:"due_date,omitempty"`
	ClearDueDate bool       `json:"clear_due_date,omitempty"`
	AssignedTo   *string    `json:"assigned_to,omitempty" validate:"omitempty,max=255"`
	Completed    *bool      `json:"completed,omitempty"`
}
