package meeting

import (
	"github.com/johnquangdev/erp-issue-hub/internal/domain/entities"
)

// EndMeetingResponse holds the completed meeting and the one planned after it
type EndMeetingResponse struct {
	Completed *entities.Meeting `json:"completed"`
	Next      *entities.Meeting `json:"next"`
}

// MinutesResponse holds a temporary download link for archived minutes
type MinutesResponse struct {
	URL       string `json:"url"`
	ExpiresIn int    `json:"expires_in"`
}
