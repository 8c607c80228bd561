package meeting

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/johnquangdev/erp-issue-hub/internal/domain/entities"
	usecaseErrors "github.com/johnquangdev/erp-issue-hub/internal/usecase/errors"
)

// MinutesObjectName returns the storage key of a meeting's minutes
func MinutesObjectName(m *entities.Meeting) string {
	return fmt.Sprintf("minutes/%s/%s.md", m.Date.UTC().Format("2006/01/02"), m.ID)
}

// RenderMinutes renders a completed meeting as a Markdown document
func RenderMinutes(m *entities.Meeting) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# %s\n\n", m.Title)
	fmt.Fprintf(&b, "- Date: %s\n", m.Date.Format("2006-01-02"))
	if m.StartedAt != nil {
		fmt.Fprintf(&b, "- Started: %s\n", m.StartedAt.Format("2006-01-02 15:04 MST"))
	}
	if m.EndedAt != nil {
		fmt.Fprintf(&b, "- Ended: %s\n", m.EndedAt.Format("2006-01-02 15:04 MST"))
	}
	if d := m.Duration(); d != nil {
		fmt.Fprintf(&b, "- Duration: %s\n", d.Round(time.Minute))
	}
	if m.EndReason != nil {
		fmt.Fprintf(&b, "- Ended by: %s\n", strings.ToLower(strings.ReplaceAll(string(*m.EndReason), "_", " ")))
	}

	b.WriteString("\n## General notes\n\n")
	if notes := strings.TrimSpace(m.GeneralNotes); notes != "" {
		b.WriteString(notes)
		b.WriteString("\n")
	} else {
		b.WriteString("_None._\n")
	}

	b.WriteString("\n## Agenda\n")
	if len(m.Items) == 0 {
		b.WriteString("\n_No items._\n")
	}
	for i, item := range m.Items {
		title := item.IssueID.String()
		status := ""
		if item.Issue != nil {
			title = item.Issue.Title
			status = fmt.Sprintf(" (%s, %s)", item.Issue.Status, item.Issue.Priority)
		}
		fmt.Fprintf(&b, "\n### %d. %s%s\n\n", i+1, title, status)
		if item.CarriedOver {
			b.WriteString("_Carried over from a previous meeting._\n\n")
		}
		if notes := strings.TrimSpace(item.DiscussionNotes); notes != "" {
			b.WriteString(notes)
			b.WriteString("\n")
		} else {
			b.WriteString("_No discussion notes._\n")
		}
	}
	return b.String()
}

// archiveMinutes uploads the minutes and records the object key.
// Failures are logged and never fail the meeting end.
func (s *MeetingService) archiveMinutes(ctx context.Context, m *entities.Meeting) {
	if s.minutes == nil {
		return
	}

	objectName := MinutesObjectName(m)
	if err := s.minutes.UploadText(ctx, objectName, RenderMinutes(m), "text/markdown; charset=utf-8"); err != nil {
		s.logger.Warn("meeting.minutes.upload_failed",
			zap.String("meeting_id", m.ID.String()),
			zap.Error(err),
		)
		return
	}

	m.MinutesObjectKey = &objectName
	if err := s.meetingRepo.Update(ctx, m); err != nil {
		s.logger.Warn("meeting.minutes.save_key_failed",
			zap.String("meeting_id", m.ID.String()),
			zap.Error(err),
		)
		return
	}
	s.logger.Info("meeting.minutes.archived",
		zap.String("meeting_id", m.ID.String()),
		zap.String("object", objectName),
	)
}

// MinutesURLExpiry is how long a minutes download link stays valid
const MinutesURLExpiry = 15 * time.Minute

// MinutesURL returns a presigned link to the archived minutes of a meeting
func (s *MeetingService) MinutesURL(ctx context.Context, id uuid.UUID) (string, error) {
	m, err := s.GetMeeting(ctx, id)
	if err != nil {
		return "", err
	}
	if s.minutes == nil {
		return "", usecaseErrors.ErrStorageDisabled
	}
	if m.MinutesObjectKey == nil {
		return "", usecaseErrors.ErrMinutesNotArchived
	}
	url, err := s.minutes.GetFileURL(ctx, *m.MinutesObjectKey, MinutesURLExpiry)
	if err != nil {
		return "", fmt.Errorf("%w: failed to sign minutes url: %v", usecaseErrors.ErrStorageFailed, err)
	}
	return url, nil
}
