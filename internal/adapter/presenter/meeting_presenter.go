package presenter

import (
	"time"

	"github.com/johnquangdev/erp-issue-hub/internal/adapter/dto/meeting"
	meetingUsecase "github.com/johnquangdev/erp-issue-hub/internal/usecase/meeting"
)

// ToEndMeetingResponse converts the end-meeting result to its DTO
func ToEndMeetingResponse(out *meetingUsecase.EndMeetingOutput) *meeting.EndMeetingResponse {
	if out == nil {
		return nil
	}
	return &meeting.EndMeetingResponse{
		Completed: out.Completed,
		Next:      out.Next,
	}
}

// ToMinutesResponse converts a presigned link to its DTO
func ToMinutesResponse(url string, expiry time.Duration) *meeting.MinutesResponse {
	return &meeting.MinutesResponse{
		URL:       url,
		ExpiresIn: int(expiry.Seconds()),
	}
}
