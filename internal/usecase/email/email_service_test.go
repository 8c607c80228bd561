package email

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/johnquangdev/erp-issue-hub/internal/adapter/repository"
	"github.com/johnquangdev/erp-issue-hub/internal/domain/entities"
	"github.com/johnquangdev/erp-issue-hub/internal/domain/repositories"
	"github.com/johnquangdev/erp-issue-hub/internal/testutil"
	"github.com/johnquangdev/erp-issue-hub/internal/usecase/ai"
	usecaseErrors "github.com/johnquangdev/erp-issue-hub/internal/usecase/errors"
)

type fakeAssistant struct {
	enabled bool
	lastReq ai.DraftRequest
}

func (f *fakeAssistant) Enabled() bool { return f.enabled }

func (f *fakeAssistant) DraftEmail(_ context.Context, req ai.DraftRequest) (*ai.DraftResult, error) {
	f.lastReq = req
	return &ai.DraftResult{Subject: "Update on " + req.Issue.Title, Body: "The fix ships **Friday**."}, nil
}

func (f *fakeAssistant) ImproveText(_ context.Context, text, tone, _ string) (string, error) {
	return strings.ToUpper(tone) + ": " + text, nil
}

func (f *fakeAssistant) ClassifyTicket(context.Context, ai.TicketInfo) (*ai.Classification, error) {
	return nil, usecaseErrors.ErrLLMDisabled
}

type emailFixture struct {
	svc    *EmailService
	issues repositories.IssueRepository
}

func setup(t *testing.T, assistant ai.Service) *emailFixture {
	t.Helper()
	db := testutil.NewDB(t)
	f := &emailFixture{issues: repository.NewIssueRepository(db)}
	f.svc = NewEmailService(
		repository.NewEmailTemplateRepository(db),
		repository.NewEmailDraftRepository(db),
		f.issues,
		assistant,
		nil,
	)
	f.svc.now = func() time.Time { return time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC) }
	return f
}

func (f *emailFixture) issue(t *testing.T, title string) *entities.Issue {
	t.Helper()
	issue := &entities.Issue{Title: title, Priority: entities.IssuePriorityHigh, Status: entities.IssueStatusOpen}
	if err := f.issues.Create(context.Background(), issue); err != nil {
		t.Fatalf("create issue: %v", err)
	}
	return issue
}

func TestSeedDefaultTemplates(t *testing.T) {
	f := setup(t, nil)
	ctx := context.Background()

	defaults, err := DefaultTemplates()
	if err != nil {
		t.Fatalf("parse defaults: %v", err)
	}
	n, err := f.svc.SeedDefaultTemplates(ctx)
	if err != nil {
		t.Fatalf("seed: %v", err)
	}
	if n != len(defaults) || n == 0 {
		t.Fatalf("expected %d seeded templates, got %d", len(defaults), n)
	}

	again, err := f.svc.SeedDefaultTemplates(ctx)
	if err != nil {
		t.Fatalf("second seed: %v", err)
	}
	if again != 0 {
		t.Fatalf("expected no templates on second seed, got %d", again)
	}

	escalations, err := f.svc.ListTemplates(ctx, "escalation")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(escalations) != 1 || escalations[0].Name != "Vendor Escalation" {
		t.Fatalf("unexpected escalation templates %+v", escalations)
	}
}

func TestTemplates_UniqueNameAndDelete(t *testing.T) {
	f := setup(t, nil)
	ctx := context.Background()

	tpl, err := f.svc.CreateTemplate(ctx, TemplateInput{Name: "Outage", Subject: "Outage", Body: "Systems are down"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := f.svc.CreateTemplate(ctx, TemplateInput{Name: "outage", Subject: "x", Body: "y"}); !errors.Is(err, usecaseErrors.ErrAlreadyExists) {
		t.Fatalf("expected ErrAlreadyExists, got %v", err)
	}

	draft, err := f.svc.CreateDraft(ctx, DraftInput{Subject: "Outage", Body: "Systems are down", TemplateID: &tpl.ID})
	if err != nil {
		t.Fatalf("create draft: %v", err)
	}
	if err := f.svc.DeleteTemplate(ctx, tpl.ID); err != nil {
		t.Fatalf("delete template: %v", err)
	}
	reloaded, err := f.svc.GetDraft(ctx, draft.ID)
	if err != nil {
		t.Fatalf("get draft: %v", err)
	}
	if reloaded.TemplateID != nil {
		t.Fatal("expected template link to be cleared")
	}
}

func TestDrafts_SentIsReadOnly(t *testing.T) {
	f := setup(t, nil)
	ctx := context.Background()
	issue := f.issue(t, "Payroll export")

	draft, err := f.svc.CreateDraft(ctx, DraftInput{
		Subject:    " Payroll export delayed ",
		Body:       "# Heads up\n\nExport runs late.",
		Recipients: []string{"ops@example.com", " ", "OPS@example.com", "hr@example.com"},
		IssueID:    &issue.ID,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if draft.Subject != "Payroll export delayed" || len(draft.Recipients) != 2 {
		t.Fatalf("unexpected draft %q %v", draft.Subject, draft.Recipients)
	}

	preview, err := f.svc.PreviewDraft(ctx, draft.ID)
	if err != nil {
		t.Fatalf("preview: %v", err)
	}
	if !strings.Contains(preview.HTML, "<h1>Heads up</h1>") {
		t.Fatalf("expected rendered heading, got %s", preview.HTML)
	}

	sent, err := f.svc.MarkSent(ctx, draft.ID)
	if err != nil {
		t.Fatalf("mark sent: %v", err)
	}
	if sent.Status != entities.EmailDraftStatusSent || sent.SentAt == nil {
		t.Fatalf("expected sent draft, got %+v", sent)
	}
	if _, err := f.svc.UpdateDraft(ctx, draft.ID, DraftInput{Subject: "changed"}); !errors.Is(err, usecaseErrors.ErrDraftAlreadySent) {
		t.Fatalf("expected ErrDraftAlreadySent, got %v", err)
	}

	status := entities.EmailDraftStatusSent
	list, err := f.svc.ListDrafts(ctx, repositories.EmailDraftFilters{Status: &status})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 1 {
		t.Fatalf("expected 1 sent draft, got %d", len(list))
	}
}

func TestGenerateDraft(t *testing.T) {
	t.Run("disabled", func(t *testing.T) {
		f := setup(t, &fakeAssistant{})
		issue := f.issue(t, "GL posting")
		if _, err := f.svc.GenerateDraft(context.Background(), GenerateInput{IssueID: issue.ID}); !errors.Is(err, usecaseErrors.ErrLLMDisabled) {
			t.Fatalf("expected ErrLLMDisabled, got %v", err)
		}
		if _, err := f.svc.ImproveText(context.Background(), ImproveInput{Text: "hi"}); !errors.Is(err, usecaseErrors.ErrLLMDisabled) {
			t.Fatalf("expected ErrLLMDisabled, got %v", err)
		}
	})

	t.Run("enabled", func(t *testing.T) {
		assistant := &fakeAssistant{enabled: true}
		f := setup(t, assistant)
		ctx := context.Background()
		issue := f.issue(t, "GL posting")
		tpl, err := f.svc.CreateTemplate(ctx, TemplateInput{Name: "Update", Subject: "Update", Body: "Body"})
		if err != nil {
			t.Fatalf("create template: %v", err)
		}

		draft, err := f.svc.GenerateDraft(ctx, GenerateInput{
			IssueID:    issue.ID,
			TemplateID: &tpl.ID,
			Recipients: []string{"cfo@example.com"},
			Tone:       "friendly",
		})
		if err != nil {
			t.Fatalf("generate: %v", err)
		}
		if !draft.GeneratedByAI || draft.Subject != "Update on GL posting" {
			t.Fatalf("unexpected draft %+v", draft)
		}
		if draft.IssueID == nil || *draft.IssueID != issue.ID {
			t.Fatal("expected draft linked to the issue")
		}
		if assistant.lastReq.Template == nil || assistant.lastReq.Template.ID != tpl.ID {
			t.Fatal("expected template passed to the assistant")
		}

		improved, err := f.svc.ImproveText(ctx, ImproveInput{Text: "pls fix", Tone: "formal"})
		if err != nil {
			t.Fatalf("improve: %v", err)
		}
		if improved != "FORMAL: pls fix" {
			t.Fatalf("unexpected improved text %q", improved)
		}
	})
}
