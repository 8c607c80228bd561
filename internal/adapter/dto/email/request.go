package email

// TemplateRequest represents the request to create or replace a template
type TemplateRequest struct {
	Name        string `json:"name" validate:"required,notblank,max=150"`
	Category    string `json:"category" validate:"max=50"`
	Description string `json:"description"`
	Subject     string `json:"subject" validate:"required,notblank,max=255"`
	Body        string `json:"body" validate:"required,notblank"`
}

// DraftRequest represents the request to create or replace a draft
type DraftRequest struct {
	Subject    string   `json:"subject" validate:"required,notblank,max=255"`
	Body       string   `json:"body"`
	Recipients []string `json:"recipients" validate:"dive,omitempty,email"`
	IssueID    *string  `json:"issue_id,omitempty" validate:"omitempty,uuid"`
	TemplateID *string  `json:"template_id,omitempty" validate:"omitempty,uuid"`
}

// GenerateDraftRequest represents the request for an LLM-written draft
type GenerateDraftRequest struct {
	IssueID      string   `json:"issue_id" validate:"required,uuid"`
	TemplateID   *string  `json:"template_id,omitempty" validate:"omitempty,uuid"`
	Recipients   []string `json:"recipients" validate:"dive,omitempty,email"`
	Instructions string   `json:"instructions" validate:"max=2000"`
	Tone         string   `json:"tone" validate:"max=50"`
}

// ImproveTextRequest represents a rewrite request
type ImproveTextRequest struct {
	Text         string `json:"text" validate:"required,notblank"`
	Tone         string `json:"tone" validate:"max=50"`
	Instructions string `json:"instructions" validate:"max=2000"`
}

// ImproveTextResponse holds rewritten text
type ImproveTextResponse struct {
	Text string `json:"text"`
}
