package meeting

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/johnquangdev/erp-issue-hub/internal/adapter/repository"
	"github.com/johnquangdev/erp-issue-hub/internal/domain/entities"
	"github.com/johnquangdev/erp-issue-hub/internal/domain/repositories"
	usecaseErrors "github.com/johnquangdev/erp-issue-hub/internal/usecase/errors"
	"github.com/johnquangdev/erp-issue-hub/internal/testutil"
	"github.com/johnquangdev/erp-issue-hub/pkg/config"
)

type fakeMinutes struct {
	mu      sync.Mutex
	objects map[string]string
}

func (f *fakeMinutes) UploadText(_ context.Context, objectName, content, _ string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.objects[objectName] = content
	return nil
}

func (f *fakeMinutes) GetFileURL(_ context.Context, objectName string, _ time.Duration) (string, error) {
	return "https://storage.test/" + objectName, nil
}

type fixture struct {
	svc     *MeetingService
	issues  repositories.IssueRepository
	minutes *fakeMinutes
	clock   time.Time
}

func setup(t *testing.T) *fixture {
	t.Helper()
	db := testutil.NewDB(t)
	f := &fixture{
		issues:  repository.NewIssueRepository(db),
		minutes: &fakeMinutes{objects: map[string]string{}},
		clock:   time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC),
	}
	f.svc = NewMeetingService(
		repository.NewMeetingRepository(db),
		f.issues,
		f.minutes,
		config.MeetingConfig{
			InactivityTimeout: 30 * time.Minute,
			MaxDuration:       3 * time.Hour,
			WatchdogInterval:  time.Minute,
			DefaultInterval:   7 * 24 * time.Hour,
		},
		nil,
	)
	f.svc.now = func() time.Time { return f.clock }
	return f
}

func (f *fixture) issue(t *testing.T, title string, status entities.IssueStatus, archived bool) *entities.Issue {
	t.Helper()
	issue := &entities.Issue{Title: title, Priority: entities.IssuePriorityMedium, Status: status, Archived: archived}
	if err := f.issues.Create(context.Background(), issue); err != nil {
		t.Fatalf("seed issue: %v", err)
	}
	return issue
}

func TestEndMeeting_CarriesUnresolvedItems(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	open := f.issue(t, "Open issue", entities.IssueStatusOpen, false)
	inProgress := f.issue(t, "In progress issue", entities.IssueStatusInProgress, false)
	resolved := f.issue(t, "Resolved issue", entities.IssueStatusResolved, false)
	archived := f.issue(t, "Archived issue", entities.IssueStatusOpen, true)

	m, err := f.svc.CreateMeeting(ctx, CreateMeetingInput{
		Title:    "Weekly sync",
		Date:     f.clock,
		IssueIDs: []uuid.UUID{open.ID, resolved.ID, inProgress.ID, archived.ID},
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if len(m.Items) != 4 {
		t.Fatalf("expected 4 agenda items, got %d", len(m.Items))
	}

	started, err := f.svc.StartMeeting(ctx, m.ID)
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	if started.StartedAt == nil || started.Status != entities.MeetingStatusActive {
		t.Fatal("expected meeting to be active with startedAt")
	}

	f.clock = f.clock.Add(45 * time.Minute)
	notes := "Discussed quarter close"
	out, err := f.svc.EndMeeting(ctx, m.ID, NotesInput{
		GeneralNotes: &notes,
		Items:        []ItemNotes{{ItemID: m.Items[0].ID, Notes: "waiting on vendor"}},
	})
	if err != nil {
		t.Fatalf("end: %v", err)
	}

	completed := out.Completed
	if completed.Status != entities.MeetingStatusCompleted || completed.EndedAt == nil {
		t.Fatal("expected completed meeting with endedAt")
	}
	if completed.EndReason == nil || *completed.EndReason != entities.MeetingEndReasonManual {
		t.Fatalf("expected MANUAL end reason, got %v", completed.EndReason)
	}
	if completed.GeneralNotes != notes || completed.Items[0].DiscussionNotes != "waiting on vendor" {
		t.Fatal("expected notes to be persisted")
	}

	next := out.Next
	if next.Status != entities.MeetingStatusPlanned {
		t.Fatalf("expected next meeting PLANNED, got %s", next.Status)
	}
	wantDate := f.clock.Add(7 * 24 * time.Hour)
	if !next.Date.Equal(wantDate) || next.Title != entities.DefaultMeetingTitle(wantDate) {
		t.Fatalf("unexpected next meeting %q on %s", next.Title, next.Date)
	}
	if len(next.Items) != 2 {
		t.Fatalf("expected 2 carried items, got %d", len(next.Items))
	}
	if next.Items[0].IssueID != open.ID || next.Items[1].IssueID != inProgress.ID {
		t.Fatal("expected carried items in source order")
	}
	for _, item := range next.Items {
		if !item.CarriedOver || item.CarriedFromID == nil || item.DiscussionNotes != "" {
			t.Fatalf("unexpected carried item %+v", item)
		}
	}

	if completed.MinutesObjectKey == nil {
		t.Fatal("expected minutes to be archived")
	}
	doc := f.minutes.objects[*completed.MinutesObjectKey]
	if !strings.Contains(doc, "# Weekly sync") || !strings.Contains(doc, "waiting on vendor") {
		t.Fatalf("unexpected minutes document:\n%s", doc)
	}

	url, err := f.svc.MinutesURL(ctx, m.ID)
	if err != nil || url != "https://storage.test/"+*completed.MinutesObjectKey {
		t.Fatalf("unexpected minutes url %q: %v", url, err)
	}

	if _, err := f.svc.EndMeeting(ctx, m.ID, NotesInput{}); !errors.Is(err, usecaseErrors.ErrMeetingCompleted) {
		t.Fatalf("expected ErrMeetingCompleted, got %v", err)
	}
	if _, err := f.svc.SaveNotes(ctx, m.ID, NotesInput{GeneralNotes: &notes}); !errors.Is(err, usecaseErrors.ErrMeetingCompleted) {
		t.Fatalf("expected completed meeting to reject notes, got %v", err)
	}
}

func TestEndMeeting_ReusesPlannedMeeting(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	a := f.issue(t, "A", entities.IssueStatusOpen, false)
	b := f.issue(t, "B", entities.IssueStatusOpen, false)

	current, _ := f.svc.CreateMeeting(ctx, CreateMeetingInput{IssueIDs: []uuid.UUID{a.ID, b.ID}})
	planned, _ := f.svc.CreateMeeting(ctx, CreateMeetingInput{Date: f.clock.Add(24 * time.Hour), IssueIDs: []uuid.UUID{b.ID}})

	if _, err := f.svc.StartMeeting(ctx, current.ID); err != nil {
		t.Fatalf("start: %v", err)
	}
	out, err := f.svc.EndMeeting(ctx, current.ID, NotesInput{})
	if err != nil {
		t.Fatalf("end: %v", err)
	}
	if out.Next.ID != planned.ID {
		t.Fatal("expected the already planned meeting to receive the carry-over")
	}
	if len(out.Next.Items) != 2 || out.Next.Items[1].IssueID != a.ID || out.Next.Items[1].Position != 1 {
		t.Fatalf("expected A appended after B, got %d items", len(out.Next.Items))
	}
}

func TestCreateMeeting_CarryOverFromLastCompleted(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	a := f.issue(t, "A", entities.IssueStatusOpen, false)
	m, _ := f.svc.CreateMeeting(ctx, CreateMeetingInput{IssueIDs: []uuid.UUID{a.ID}})
	if _, err := f.svc.StartMeeting(ctx, m.ID); err != nil {
		t.Fatalf("start: %v", err)
	}
	out, err := f.svc.EndMeeting(ctx, m.ID, NotesInput{})
	if err != nil {
		t.Fatalf("end: %v", err)
	}
	if err := f.svc.DeleteMeeting(ctx, out.Next.ID); err != nil {
		t.Fatalf("delete planned: %v", err)
	}

	withCarry, err := f.svc.CreateMeeting(ctx, CreateMeetingInput{CarryOver: true})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if len(withCarry.Items) != 1 || !withCarry.Items[0].CarriedOver {
		t.Fatalf("expected one carried item, got %d", len(withCarry.Items))
	}

	without, _ := f.svc.CreateMeeting(ctx, CreateMeetingInput{CarryOver: false})
	if len(without.Items) != 0 {
		t.Fatalf("expected empty agenda, got %d", len(without.Items))
	}
}

func TestStartMeeting_OnlyOneActive(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	first, _ := f.svc.CreateMeeting(ctx, CreateMeetingInput{Title: "first"})
	second, _ := f.svc.CreateMeeting(ctx, CreateMeetingInput{Title: "second"})

	if _, err := f.svc.StartMeeting(ctx, first.ID); err != nil {
		t.Fatalf("start: %v", err)
	}
	if _, err := f.svc.StartMeeting(ctx, second.ID); !errors.Is(err, usecaseErrors.ErrAnotherMeetingActive) {
		t.Fatalf("expected ErrAnotherMeetingActive, got %v", err)
	}
	if _, err := f.svc.StartMeeting(ctx, first.ID); !errors.Is(err, usecaseErrors.ErrMeetingNotPlanned) {
		t.Fatalf("expected ErrMeetingNotPlanned, got %v", err)
	}
	if err := f.svc.DeleteMeeting(ctx, first.ID); !errors.Is(err, usecaseErrors.ErrMeetingNotPlanned) {
		t.Fatalf("expected active meeting delete to fail, got %v", err)
	}

	current, err := f.svc.GetCurrentMeeting(ctx)
	if err != nil {
		t.Fatalf("current: %v", err)
	}
	if current.ID != first.ID {
		t.Fatal("expected the active meeting to be current")
	}
}

func TestAgendaItems(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	a := f.issue(t, "A", entities.IssueStatusOpen, false)
	m, _ := f.svc.CreateMeeting(ctx, CreateMeetingInput{})

	item, err := f.svc.AddItem(ctx, m.ID, AddItemInput{IssueID: a.ID})
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if item.Issue == nil || item.Issue.Title != "A" {
		t.Fatal("expected issue on returned item")
	}
	if _, err := f.svc.AddItem(ctx, m.ID, AddItemInput{IssueID: a.ID}); !errors.Is(err, usecaseErrors.ErrIssueAlreadyOnAgenda) {
		t.Fatalf("expected duplicate rejection, got %v", err)
	}

	updated, err := f.svc.UpdateItem(ctx, m.ID, item.ID, "agreed next steps")
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.DiscussionNotes != "agreed next steps" {
		t.Fatalf("unexpected notes %q", updated.DiscussionNotes)
	}

	other, _ := f.svc.CreateMeeting(ctx, CreateMeetingInput{})
	if err := f.svc.RemoveItem(ctx, other.ID, item.ID); !errors.Is(err, usecaseErrors.ErrMeetingItemWrongParent) {
		t.Fatalf("expected wrong parent error, got %v", err)
	}
	if err := f.svc.RemoveItem(ctx, m.ID, item.ID); err != nil {
		t.Fatalf("remove: %v", err)
	}
}

func TestEndStaleMeetings(t *testing.T) {
	tests := []struct {
		name       string
		activityAt time.Duration
		now        time.Duration
		wantEnded  int
		wantReason entities.MeetingEndReason
	}{
		{"recent activity keeps meeting", 20 * time.Minute, 40 * time.Minute, 0, ""},
		{"idle past window", 0, 31 * time.Minute, 1, entities.MeetingEndReasonInactivity},
		{"max duration wins", 2*time.Hour + 50*time.Minute, 3 * time.Hour, 1, entities.MeetingEndReasonMaxDuration},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := setup(t)
			ctx := context.Background()
			start := f.clock

			m, _ := f.svc.CreateMeeting(ctx, CreateMeetingInput{})
			if _, err := f.svc.StartMeeting(ctx, m.ID); err != nil {
				t.Fatalf("start: %v", err)
			}
			if tt.activityAt > 0 {
				f.clock = start.Add(tt.activityAt)
				if err := f.svc.RecordActivity(ctx, m.ID); err != nil {
					t.Fatalf("activity: %v", err)
				}
			}

			f.clock = start.Add(tt.now)
			ended, err := f.svc.EndStaleMeetings(ctx)
			if err != nil {
				t.Fatalf("watchdog: %v", err)
			}
			if ended != tt.wantEnded {
				t.Fatalf("expected %d ended, got %d", tt.wantEnded, ended)
			}

			got, _ := f.svc.GetMeeting(ctx, m.ID)
			if tt.wantEnded == 0 {
				if got.Status != entities.MeetingStatusActive {
					t.Fatalf("expected meeting still active, got %s", got.Status)
				}
				return
			}
			if got.EndReason == nil || *got.EndReason != tt.wantReason {
				t.Fatalf("expected reason %s, got %v", tt.wantReason, got.EndReason)
			}
		})
	}
}

func TestRecordActivity_Errors(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	if err := f.svc.RecordActivity(ctx, uuid.New()); !errors.Is(err, usecaseErrors.ErrMeetingNotFound) {
		t.Fatalf("expected ErrMeetingNotFound, got %v", err)
	}
	m, _ := f.svc.CreateMeeting(ctx, CreateMeetingInput{})
	if err := f.svc.RecordActivity(ctx, m.ID); !errors.Is(err, usecaseErrors.ErrMeetingNotActive) {
		t.Fatalf("expected ErrMeetingNotActive, got %v", err)
	}
}

func TestRunWatchdog_StopsOnCancel(t *testing.T) {
	f := setup(t)
	f.svc.cfg.WatchdogInterval = 5 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		f.svc.RunWatchdog(ctx)
		close(done)
	}()

	time.Sleep(20 * time.Millisecond)
	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("watchdog did not stop")
	}
}

// staleAgenda misses existing agenda rows, as a request that read before a
// concurrent insert committed would.
type staleAgenda struct {
	repositories.MeetingRepository
}

func (staleAgenda) HasIssue(context.Context, uuid.UUID, uuid.UUID) (bool, error) {
	return false, nil
}

func (r staleAgenda) WithinTransaction(ctx context.Context, fn func(tx repositories.MeetingRepository) error) error {
	return r.MeetingRepository.WithinTransaction(ctx, func(tx repositories.MeetingRepository) error {
		return fn(staleAgenda{tx})
	})
}

func TestAddItem_UniqueIndexConflict(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	a := f.issue(t, "A", entities.IssueStatusOpen, false)
	m, err := f.svc.CreateMeeting(ctx, CreateMeetingInput{})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := f.svc.AddItem(ctx, m.ID, AddItemInput{IssueID: a.ID}); err != nil {
		t.Fatalf("add: %v", err)
	}

	f.svc.meetingRepo = staleAgenda{f.svc.meetingRepo}
	if _, err := f.svc.AddItem(ctx, m.ID, AddItemInput{IssueID: a.ID}); !errors.Is(err, usecaseErrors.ErrIssueAlreadyOnAgenda) {
		t.Fatalf("expected ErrIssueAlreadyOnAgenda, got %v", err)
	}

	got, err := f.svc.GetMeeting(ctx, m.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if len(got.Items) != 1 {
		t.Fatalf("expected a single agenda item, got %d", len(got.Items))
	}
}
