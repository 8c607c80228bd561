package issue

// CreateIssueRequest represents the request to create an issue
type CreateIssueRequest struct {
	Title       string  `json:"title" validate:"required,notblank,max=255"`
	Description string  `json:"description"`
	Priority    string  `json:"priority" validate:"omitempty,oneof=LOW MEDIUM HIGH URGENT"`
	Status      string  `json:"status" validate:"omitempty,oneof=OPEN IN_PROGRESS RESOLVED CLOSED"`
	CategoryID  *string `json:"category_id,omitempty" validate:"omitempty,uuid"`
	AssignedTo  *string `json:"assigned_to,omitempty" validate:"omitempty,max=255"`
}

// UpdateIssueRequest represents a partial issue update.
// An empty category_id detaches the category.
type UpdateIssueRequest struct {
	Title       *string `json:"title,omitempty" validate:"omitempty,notblank,max=255"`
	Description *string `json:"description,omitempty"`
	Priority    *string `json:"priority,omitempty" validate:"omitempty,oneof=LOW MEDIUM HIGH URGENT"`
	Status      *string `json:"status,omitempty" validate:"omitempty,oneof=OPEN IN_PROGRESS RESOLVED CLOSED"`
	CategoryID  *string `json:"category_id,omitempty" validate:"omitempty,uuid|len=0"`
	AssignedTo  *string `json:"assigned_to,omitempty" validate:"omitempty,max=255"`
}

// ListIssuesRequest represents query parameters for listing issues
type ListIssuesRequest struct {
	Status     []string `query:"status" validate:"dive,oneof=OPEN IN_PROGRESS RESOLVED CLOSED"`
	Priority   string   `query:"priority" validate:"omitempty,oneof=LOW MEDIUM HIGH URGENT"`
	CategoryID string   `query:"category_id" validate:"omitempty,uuid"`
	Archived   string   `query:"archived" validate:"omitempty,oneof=true false"`
	AssignedTo string   `query:"assigned_to"`
	Search     string   `query:"search"`
	Page       int      `query:"page"`
	PageSize   int      `query:"page_size"`
	SortBy     string   `query:"sort_by" validate:"omitempty,oneof=updated_at created_at priority title"`
	SortOrder  string   `query:"sort_order" validate:"omitempty,oneof=asc desc"`
}

// CategoryRequest represents the request to create or replace a category
type CategoryRequest struct {
	Name        string  `json:"name" validate:"required,notblank,max=100"`
	Description *string `json:"description,omitempty"`
	Color       *string `json:"color,omitempty" validate:"omitempty,hexcolor"`
}

// NoteRequest represents the request to add or edit a note
type NoteRequest struct {
	Kind    string  `json:"kind" validate:"omitempty,oneof=GENERAL CMIC ADDITIONAL_HELP"`
	Content string  `json:"content" validate:"required,notblank"`
	Author  *string `json:"author,omitempty" validate:"omitempty,max=255"`
}
