package errors

import "errors"

// Common errors
var (
	ErrInvalidInput    = errors.New("invalid input")
	ErrNotFound        = errors.New("resource not found")
	ErrAlreadyExists   = errors.New("resource already exists")
	ErrConflict        = errors.New("resource conflict")
	ErrServiceDisabled = errors.New("service disabled")
)

// Issue errors
var (
	ErrIssueNotFound    = errors.New("issue not found")
	ErrCategoryNotFound = errors.New("category not found")
	ErrCategoryExists   = errors.New("category already exists")
	ErrNoteNotFound     = errors.New("note not found")
	ErrInvalidNoteKind  = errors.New("invalid note kind")
	ErrInvalidPriority  = errors.New("invalid priority")
	ErrInvalidStatus    = errors.New("invalid status")
	ErrBlankTitle       = errors.New("title must not be blank")
)

// Meeting errors
var (
	ErrMeetingNotFound        = errors.New("meeting not found")
	ErrMeetingItemNotFound    = errors.New("meeting item not found")
	ErrMeetingNotPlanned      = errors.New("meeting is not planned")
	ErrMeetingNotActive       = errors.New("meeting is not active")
	ErrMeetingCompleted       = errors.New("meeting already completed")
	ErrAnotherMeetingActive   = errors.New("another meeting is already active")
	ErrIssueAlreadyOnAgenda   = errors.New("issue already on meeting agenda")
	ErrMeetingItemWrongParent = errors.New("item does not belong to meeting")
	ErrMinutesNotArchived     = errors.New("meeting minutes not archived")
)

// Action item errors
var (
	ErrActionItemNotFound = errors.New("action item not found")
	ErrNotAvailable       = errors.New("action item is not linked to an issue")
	ErrNotManaged         = errors.New("action item has no original issue to restore")
)

// Email errors
var (
	ErrTemplateNotFound = errors.New("email template not found")
	ErrDraftNotFound    = errors.New("email draft not found")
	ErrDraftAlreadySent = errors.New("email draft already sent")
)

// Ticket errors
var (
	ErrVendorTicketNotFound  = errors.New("vendor ticket not found")
	ErrZendeskTicketNotFound = errors.New("zendesk ticket not found")
	ErrTicketAlreadyLinked   = errors.New("ticket already linked to an issue")
)

// Integration errors
var (
	ErrZendeskDisabled  = errors.New("zendesk integration disabled")
	ErrLLMDisabled      = errors.New("llm integration disabled")
	ErrStorageDisabled  = errors.New("object storage disabled")
	ErrInvalidSignature = errors.New("invalid webhook signature")
	ErrExternalAPI      = errors.New("external api failure")
	ErrLLMFailed        = errors.New("llm completion failed")
	ErrStorageFailed    = errors.New("object storage failure")
)
