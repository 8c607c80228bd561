package issue

import (
	"context"
	"errors"
	"testing"

	"github.com/johnquangdev/erp-issue-hub/internal/adapter/repository"
	"github.com/johnquangdev/erp-issue-hub/internal/domain/entities"
	"github.com/johnquangdev/erp-issue-hub/internal/domain/repositories"
	usecaseErrors "github.com/johnquangdev/erp-issue-hub/internal/usecase/errors"
	"github.com/johnquangdev/erp-issue-hub/internal/testutil"
)

func newTestService(t *testing.T) *IssueService {
	t.Helper()
	db := testutil.NewDB(t)
	return NewIssueService(
		repository.NewIssueRepository(db),
		repository.NewCategoryRepository(db),
		repository.NewNoteRepository(db),
		nil,
	)
}

func TestCreateIssue_Defaults(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	issue, err := svc.CreateIssue(ctx, CreateIssueInput{Title: "  GL posting fails  "})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if issue.Title != "GL posting fails" {
		t.Fatalf("expected trimmed title, got %q", issue.Title)
	}
	if issue.Status != entities.IssueStatusOpen || issue.Priority != entities.IssuePriorityMedium {
		t.Fatalf("unexpected defaults %s/%s", issue.Status, issue.Priority)
	}
}

func TestCreateIssue_Rejects(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	tests := []struct {
		name  string
		input CreateIssueInput
		want  error
	}{
		{"blank title", CreateIssueInput{Title: "   "}, usecaseErrors.ErrBlankTitle},
		{"bad priority", CreateIssueInput{Title: "x", Priority: "SEVERE"}, usecaseErrors.ErrInvalidPriority},
		{"bad status", CreateIssueInput{Title: "x", Status: "DONE"}, usecaseErrors.ErrInvalidStatus},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.CreateIssue(ctx, tt.input)
			if !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestResolvedIssuesFollowStatus(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	issue, err := svc.CreateIssue(ctx, CreateIssueInput{Title: "AP invoice import"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	resolved := entities.IssueStatusResolved
	updated, err := svc.UpdateIssue(ctx, issue.ID, UpdateIssueInput{Status: &resolved})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.ResolvedAt == nil {
		t.Fatal("expected resolved_at to be stamped")
	}

	list, total, err := svc.ListResolvedIssues(ctx, 10, 0)
	if err != nil {
		t.Fatalf("list resolved: %v", err)
	}
	if total != 1 || len(list) != 1 || list[0].ID != issue.ID {
		t.Fatalf("expected the resolved issue, got %d items", total)
	}

	open := entities.IssueStatusOpen
	if _, err := svc.UpdateIssue(ctx, issue.ID, UpdateIssueInput{Status: &open}); err != nil {
		t.Fatalf("reopen: %v", err)
	}
	_, total, _ = svc.ListResolvedIssues(ctx, 10, 0)
	if total != 0 {
		t.Fatalf("expected no resolved issues after reopening, got %d", total)
	}
}

func TestListIssues_HidesArchivedAndSearches(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	a, _ := svc.CreateIssue(ctx, CreateIssueInput{Title: "Payroll export timeout"})
	_, _ = svc.CreateIssue(ctx, CreateIssueInput{Title: "Vendor portal login"})
	if _, err := svc.SetArchived(ctx, a.ID, true); err != nil {
		t.Fatalf("archive: %v", err)
	}

	_, total, err := svc.ListIssues(ctx, repositories.IssueFilters{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if total != 1 {
		t.Fatalf("expected archived issue hidden, got %d", total)
	}

	archived := true
	list, _, _ := svc.ListIssues(ctx, repositories.IssueFilters{Archived: &archived, Search: "PAYROLL"})
	if len(list) != 1 || list[0].ID != a.ID {
		t.Fatalf("expected case-insensitive search to find archived issue, got %d", len(list))
	}
}

func TestDeleteCategory_UncategorisesIssues(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	cat, err := svc.CreateCategory(ctx, CategoryInput{Name: "Finance"})
	if err != nil {
		t.Fatalf("create category: %v", err)
	}
	if _, err := svc.CreateCategory(ctx, CategoryInput{Name: "finance"}); !errors.Is(err, usecaseErrors.ErrCategoryExists) {
		t.Fatalf("expected duplicate category error, got %v", err)
	}

	issue, err := svc.CreateIssue(ctx, CreateIssueInput{Title: "Budget report", CategoryID: &cat.ID})
	if err != nil {
		t.Fatalf("create issue: %v", err)
	}
	if issue.Category == nil || issue.Category.Name != "Finance" {
		t.Fatal("expected category to be preloaded")
	}

	if err := svc.DeleteCategory(ctx, cat.ID); err != nil {
		t.Fatalf("delete category: %v", err)
	}
	got, err := svc.GetIssue(ctx, issue.ID)
	if err != nil {
		t.Fatalf("get issue: %v", err)
	}
	if got.CategoryID != nil {
		t.Fatal("expected category to be cleared")
	}
}

func TestNotes(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	issue, _ := svc.CreateIssue(ctx, CreateIssueInput{Title: "Job costing"})

	if _, err := svc.AddNote(ctx, issue.ID, NoteInput{Content: "called vendor"}); err != nil {
		t.Fatalf("add general note: %v", err)
	}
	if _, err := svc.AddNote(ctx, issue.ID, NoteInput{Kind: entities.NoteKindCmic, Content: "CMiC case 42"}); err != nil {
		t.Fatalf("add cmic note: %v", err)
	}
	if _, err := svc.AddNote(ctx, issue.ID, NoteInput{Kind: "OTHER", Content: "x"}); !errors.Is(err, usecaseErrors.ErrInvalidNoteKind) {
		t.Fatalf("expected invalid kind, got %v", err)
	}

	kind := entities.NoteKindCmic
	notes, err := svc.ListNotes(ctx, issue.ID, &kind)
	if err != nil {
		t.Fatalf("list notes: %v", err)
	}
	if len(notes) != 1 || notes[0].Content != "CMiC case 42" {
		t.Fatalf("expected one CMiC note, got %d", len(notes))
	}

	if err := svc.DeleteIssue(ctx, issue.ID); err != nil {
		t.Fatalf("delete issue: %v", err)
	}
	if _, err := svc.ListNotes(ctx, issue.ID, nil); !errors.Is(err, usecaseErrors.ErrIssueNotFound) {
		t.Fatalf("expected issue not found, got %v", err)
	}
	if err := svc.DeleteNote(ctx, notes[0].ID); !errors.Is(err, usecaseErrors.ErrNoteNotFound) {
		t.Fatalf("expected notes removed with issue, got %v", err)
	}
}
