package actionitem

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/johnquangdev/erp-issue-hub/internal/adapter/repository"
	"github.com/johnquangdev/erp-issue-hub/internal/domain/entities"
	"github.com/johnquangdev/erp-issue-hub/internal/domain/repositories"
	usecaseErrors "github.com/johnquangdev/erp-issue-hub/internal/usecase/errors"
	"github.com/johnquangdev/erp-issue-hub/internal/testutil"
)

type fixture struct {
	svc   *ActionItemService
	issue *entities.Issue
}

func setup(t *testing.T) fixture {
	t.Helper()
	db := testutil.NewDB(t)
	issueRepo := repository.NewIssueRepository(db)

	issue := &entities.Issue{Title: "Month-end close", Priority: entities.IssuePriorityHigh, Status: entities.IssueStatusOpen}
	if err := issueRepo.Create(context.Background(), issue); err != nil {
		t.Fatalf("seed issue: %v", err)
	}
	return fixture{
		svc:   NewActionItemService(repository.NewActionItemRepository(db), issueRepo, nil),
		issue: issue,
	}
}

func TestManageAndRestore(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	item, err := f.svc.Create(ctx, CreateInput{Title: "Reconcile accruals", IssueID: &f.issue.ID})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	managed, err := f.svc.Manage(ctx, item.ID)
	if err != nil {
		t.Fatalf("manage: %v", err)
	}
	if managed.IssueID != nil || managed.OriginalIssueID == nil || *managed.OriginalIssueID != f.issue.ID {
		t.Fatalf("unexpected managed links issue=%v original=%v", managed.IssueID, managed.OriginalIssueID)
	}
	if _, err := f.svc.Manage(ctx, item.ID); !errors.Is(err, usecaseErrors.ErrNotAvailable) {
		t.Fatalf("expected ErrNotAvailable, got %v", err)
	}

	views := map[repositories.ActionItemView]int{
		repositories.ActionItemViewAvailable: 0,
		repositories.ActionItemViewManaged:   1,
		repositories.ActionItemViewAll:       1,
	}
	for view, want := range views {
		items, err := f.svc.List(ctx, repositories.ActionItemFilters{View: view})
		if err != nil {
			t.Fatalf("list %s: %v", view, err)
		}
		if len(items) != want {
			t.Fatalf("view %s: expected %d items, got %d", view, want, len(items))
		}
	}

	restored, err := f.svc.Restore(ctx, item.ID)
	if err != nil {
		t.Fatalf("restore: %v", err)
	}
	if restored.IssueID == nil || *restored.IssueID != f.issue.ID || restored.OriginalIssueID != nil {
		t.Fatal("expected item back on its issue")
	}
	if _, err := f.svc.Restore(ctx, item.ID); !errors.Is(err, usecaseErrors.ErrNotManaged) {
		t.Fatalf("expected ErrNotManaged, got %v", err)
	}
}

func TestManage_UnlinkedItem(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	item, err := f.svc.Create(ctx, CreateInput{Title: "Personal follow-up"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := f.svc.Manage(ctx, item.ID); !errors.Is(err, usecaseErrors.ErrNotAvailable) {
		t.Fatalf("expected ErrNotAvailable, got %v", err)
	}
}

func TestToggle(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	fixed := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	f.svc.now = func() time.Time { return fixed }

	item, _ := f.svc.Create(ctx, CreateInput{Title: "Send summary", IssueID: &f.issue.ID})

	done, err := f.svc.Toggle(ctx, item.ID)
	if err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if !done.Completed || done.CompletedAt == nil || !done.CompletedAt.Equal(fixed) {
		t.Fatal("expected completed with timestamp")
	}

	undone, err := f.svc.Toggle(ctx, item.ID)
	if err != nil {
		t.Fatalf("toggle back: %v", err)
	}
	if undone.Completed || undone.CompletedAt != nil {
		t.Fatal("expected completion cleared")
	}
}

func TestList_OrdersOpenThenPriority(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	low, _ := f.svc.Create(ctx, CreateInput{Title: "low", Priority: 1, IssueID: &f.issue.ID})
	high, _ := f.svc.Create(ctx, CreateInput{Title: "high", Priority: 5, IssueID: &f.issue.ID})
	done, _ := f.svc.Create(ctx, CreateInput{Title: "done", Priority: 9, IssueID: &f.issue.ID})
	if _, err := f.svc.Toggle(ctx, done.ID); err != nil {
		t.Fatalf("toggle: %v", err)
	}

	items, err := f.svc.ListByIssue(ctx, f.issue.ID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(items) != 3 {
		t.Fatalf("expected 3 items, got %d", len(items))
	}
	if items[0].ID != high.ID || items[1].ID != low.ID || items[2].ID != done.ID {
		t.Fatalf("unexpected order: %s, %s, %s", items[0].Title, items[1].Title, items[2].Title)
	}
}

func TestCreate_UnknownIssue(t *testing.T) {
	f := setup(t)
	missing := f.issue.ID
	missing[0] ^= 0xff

	_, err := f.svc.Create(context.Background(), CreateInput{Title: "x", IssueID: &missing})
	if !errors.Is(err, usecaseErrors.ErrIssueNotFound) {
		t.Fatalf("expected ErrIssueNotFound, got %v", err)
	}
}
