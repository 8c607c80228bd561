package entities

import "errors"

// Domain errors
var (
	// Meeting lifecycle errors
	ErrMeetingNotPlanned = errors.New("meeting is not planned")
	ErrMeetingNotActive  = errors.New("meeting is not active")
	ErrMeetingCompleted  = errors.New("meeting already completed")

	// Action item errors
	ErrActionItemNotLinked = errors.New("action item is not linked to an issue")
	ErrActionItemNoOrigin  = errors.New("action item has no original issue")

	// Value errors
	ErrInvalidPriority = errors.New("invalid priority")
	ErrInvalidStatus   = errors.New("invalid status")
)
