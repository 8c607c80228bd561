package entities

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestMeetingLifecycle(t *testing.T) {
	now := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	m := NewPlannedMeeting("Weekly", now)

	if err := m.Complete(now, MeetingEndReasonManual); !errors.Is(err, ErrMeetingNotActive) {
		t.Fatalf("expected ErrMeetingNotActive when ending a planned meeting, got %v", err)
	}

	if err := m.Start(now); err != nil {
		t.Fatalf("start: %v", err)
	}
	if !m.IsActive() || m.StartedAt == nil || !m.StartedAt.Equal(now) {
		t.Fatalf("expected active meeting started at %s, got %+v", now, m)
	}
	if err := m.Start(now); !errors.Is(err, ErrMeetingNotPlanned) {
		t.Fatalf("expected ErrMeetingNotPlanned on second start, got %v", err)
	}

	end := now.Add(45 * time.Minute)
	if err := m.Complete(end, MeetingEndReasonManual); err != nil {
		t.Fatalf("complete: %v", err)
	}
	if !m.IsCompleted() || m.EndReason == nil || *m.EndReason != MeetingEndReasonManual {
		t.Fatalf("expected completed meeting with manual reason, got %+v", m)
	}
	if d := m.Duration(); d == nil || *d != 45*time.Minute {
		t.Fatalf("expected 45m duration, got %v", d)
	}
	if err := m.Complete(end, MeetingEndReasonManual); !errors.Is(err, ErrMeetingCompleted) {
		t.Fatalf("expected ErrMeetingCompleted, got %v", err)
	}
}

func TestMeetingAutoEndReason(t *testing.T) {
	start := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	inactivity := 15 * time.Minute
	maxDuration := 2 * time.Hour

	tests := []struct {
		name       string
		lastActive time.Time
		now        time.Time
		wantReason MeetingEndReason
		wantEnd    bool
	}{
		{"fresh", start, start.Add(5 * time.Minute), "", false},
		{"recent activity keeps it alive", start.Add(50 * time.Minute), start.Add(60 * time.Minute), "", false},
		{"idle", start.Add(10 * time.Minute), start.Add(26 * time.Minute), MeetingEndReasonInactivity, true},
		{"too long even if busy", start.Add(119 * time.Minute), start.Add(121 * time.Minute), MeetingEndReasonMaxDuration, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewPlannedMeeting("Weekly", start)
			if err := m.Start(start); err != nil {
				t.Fatalf("start: %v", err)
			}
			m.Touch(tt.lastActive)

			reason, end := m.AutoEndReason(tt.now, inactivity, maxDuration)
			if end != tt.wantEnd || reason != tt.wantReason {
				t.Fatalf("got (%q, %v), want (%q, %v)", reason, end, tt.wantReason, tt.wantEnd)
			}
		})
	}

	t.Run("planned meetings never auto-end", func(t *testing.T) {
		m := NewPlannedMeeting("Weekly", start)
		if _, end := m.AutoEndReason(start.Add(24*time.Hour), inactivity, maxDuration); end {
			t.Fatal("planned meeting should not auto-end")
		}
	})
}

func TestCarryOverItems(t *testing.T) {
	next := uuid.New()
	mk := func(status IssueStatus, archived bool) MeetingItem {
		issueID := uuid.New()
		return MeetingItem{
			ID:              uuid.New(),
			IssueID:         issueID,
			Issue:           &Issue{ID: issueID, Status: status, Archived: archived},
			DiscussionNotes: "discussed",
		}
	}

	open := mk(IssueStatusOpen, false)
	inProgress := mk(IssueStatusInProgress, false)
	resolved := mk(IssueStatusResolved, false)
	closed := mk(IssueStatusClosed, false)
	archived := mk(IssueStatusOpen, true)
	unloaded := MeetingItem{ID: uuid.New(), IssueID: uuid.New()}

	got := CarryOverItems([]MeetingItem{open, resolved, inProgress, closed, archived, unloaded}, next)
	if len(got) != 2 {
		t.Fatalf("expected 2 carried items, got %d", len(got))
	}
	for i, want := range []MeetingItem{open, inProgress} {
		item := got[i]
		if item.IssueID != want.IssueID {
			t.Fatalf("item %d: expected issue %s, got %s", i, want.IssueID, item.IssueID)
		}
		if item.MeetingID != next || !item.CarriedOver {
			t.Fatalf("item %d: expected carried item in next meeting, got %+v", i, item)
		}
		if item.CarriedFromID == nil || *item.CarriedFromID != want.ID {
			t.Fatalf("item %d: expected provenance %s", i, want.ID)
		}
		if item.DiscussionNotes != "" {
			t.Fatalf("item %d: carried item should start with empty notes", i)
		}
		if item.Position != i {
			t.Fatalf("item %d: expected position %d, got %d", i, i, item.Position)
		}
	}
}
