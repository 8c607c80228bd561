package ticket

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/johnquangdev/erp-issue-hub/internal/adapter/repository"
	"github.com/johnquangdev/erp-issue-hub/internal/domain/entities"
	"github.com/johnquangdev/erp-issue-hub/internal/domain/repositories"
	"github.com/johnquangdev/erp-issue-hub/internal/infrastructure/cache"
	"github.com/johnquangdev/erp-issue-hub/internal/infrastructure/external/zendesk"
	"github.com/johnquangdev/erp-issue-hub/internal/testutil"
	"github.com/johnquangdev/erp-issue-hub/internal/usecase/ai"
	usecaseErrors "github.com/johnquangdev/erp-issue-hub/internal/usecase/errors"
	"github.com/johnquangdev/erp-issue-hub/pkg/config"
)

type fakeZendesk struct {
	mu         sync.Mutex
	pages      [][]zendesk.Ticket
	failPage   int
	tickets    map[int64]zendesk.Ticket
	userCalls  int
	groupCalls int
}

func (f *fakeZendesk) SearchTickets(_ context.Context, _ string, page int) (*zendesk.SearchResult, error) {
	if page == f.failPage {
		return nil, errors.New("zendesk unavailable")
	}
	if page > len(f.pages) {
		return &zendesk.SearchResult{}, nil
	}
	res := &zendesk.SearchResult{Tickets: f.pages[page-1], Count: len(f.pages[page-1])}
	if page < len(f.pages) {
		res.NextPage = fmt.Sprintf("page=%d", page+1)
	}
	return res, nil
}

func (f *fakeZendesk) GetTicket(_ context.Context, id int64) (*zendesk.Ticket, error) {
	t, ok := f.tickets[id]
	if !ok {
		return nil, zendesk.ErrNotFound
	}
	return &t, nil
}

func (f *fakeZendesk) GetUser(_ context.Context, id int64) (*zendesk.User, error) {
	f.mu.Lock()
	f.userCalls++
	f.mu.Unlock()
	return &zendesk.User{ID: id, Name: fmt.Sprintf("User %d", id), Email: fmt.Sprintf("u%d@example.com", id)}, nil
}

func (f *fakeZendesk) GetGroup(_ context.Context, id int64) (*zendesk.Group, error) {
	f.mu.Lock()
	f.groupCalls++
	f.mu.Unlock()
	return &zendesk.Group{ID: id, Name: "Finance"}, nil
}

type fakeAssistant struct {
	enabled bool
	result  *ai.Classification
	err     error
}

func (f *fakeAssistant) Enabled() bool { return f.enabled }

func (f *fakeAssistant) DraftEmail(context.Context, ai.DraftRequest) (*ai.DraftResult, error) {
	return nil, usecaseErrors.ErrLLMDisabled
}

func (f *fakeAssistant) ImproveText(context.Context, string, string, string) (string, error) {
	return "", usecaseErrors.ErrLLMDisabled
}

func (f *fakeAssistant) ClassifyTicket(context.Context, ai.TicketInfo) (*ai.Classification, error) {
	return f.result, f.err
}

func remoteTicket(id int64, status, priority string) zendesk.Ticket {
	group := int64(7)
	updated := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC).Add(time.Duration(id) * time.Minute)
	return zendesk.Ticket{
		ID:          id,
		Subject:     fmt.Sprintf("GL posting fails %d", id),
		Description: "Journal entries are rejected",
		Status:      status,
		Priority:    priority,
		Type:        "incident",
		RequesterID: 100,
		GroupID:     &group,
		Tags:        []string{"gl"},
		UpdatedAt:   &updated,
	}
}

type zendeskFixture struct {
	db      *gorm.DB
	svc     *ZendeskTicketService
	api     *fakeZendesk
	tickets repositories.ZendeskTicketRepository
	issues  repositories.IssueRepository
}

func setupZendesk(t *testing.T, api *fakeZendesk, assistant ai.Service) *zendeskFixture {
	t.Helper()
	db := testutil.NewDB(t)
	names := cache.NewMemoryStore()
	t.Cleanup(func() { _ = names.Close() })

	f := &zendeskFixture{
		db:      db,
		api:     api,
		tickets: repository.NewZendeskTicketRepository(db),
		issues:  repository.NewIssueRepository(db),
	}
	var client ZendeskAPI
	if api != nil {
		client = api
	}
	f.svc = NewZendeskTicketService(client, f.tickets, f.issues, names, assistant, config.ZendeskConfig{
		Subdomain:     "acme",
		APIToken:      "tok",
		WebhookSecret: "shh",
		SyncQuery:     "type:ticket status<solved",
		CacheTTL:      time.Hour,
	}, nil)
	f.svc.now = func() time.Time { return time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC) }
	return f
}

func TestZendesk_DisabledReportsStatus(t *testing.T) {
	f := setupZendesk(t, nil, nil)
	ctx := context.Background()

	status, err := f.svc.Status(ctx)
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	if status.Enabled {
		t.Fatal("expected disabled status")
	}
	if _, err := f.svc.Sync(ctx); !errors.Is(err, usecaseErrors.ErrZendeskDisabled) {
		t.Fatalf("expected ErrZendeskDisabled from sync, got %v", err)
	}
	if _, err := f.svc.Search(ctx, "gl", 1); !errors.Is(err, usecaseErrors.ErrZendeskDisabled) {
		t.Fatalf("expected ErrZendeskDisabled from search, got %v", err)
	}
}

func TestZendesk_SyncUpsertsAndKeepsLinks(t *testing.T) {
	api := &fakeZendesk{pages: [][]zendesk.Ticket{
		{remoteTicket(1, "open", "high"), remoteTicket(2, "pending", "urgent")},
		{remoteTicket(3, "solved", "low")},
	}}
	f := setupZendesk(t, api, nil)
	ctx := context.Background()

	out, err := f.svc.Sync(ctx)
	if err != nil {
		t.Fatalf("sync: %v", err)
	}
	if out.Fetched != 3 || out.Pages != 2 || out.Partial {
		t.Fatalf("unexpected sync output %+v", out)
	}
	if api.userCalls != 1 || api.groupCalls != 1 {
		t.Fatalf("expected cached name lookups, got %d user and %d group calls", api.userCalls, api.groupCalls)
	}

	first, err := f.tickets.FindByZendeskID(ctx, 1)
	if err != nil {
		t.Fatalf("find ticket: %v", err)
	}
	if first.Status != entities.IssueStatusOpen || first.Priority != entities.IssuePriorityHigh {
		t.Fatalf("unexpected mapping %s/%s", first.Status, first.Priority)
	}
	if first.RequesterName != "User 100" || first.GroupName != "Finance" {
		t.Fatalf("expected resolved names, got %q/%q", first.RequesterName, first.GroupName)
	}
	if first.URL != "https://acme.zendesk.com/agent/tickets/1" {
		t.Fatalf("unexpected url %s", first.URL)
	}

	linked, err := f.svc.ImportTicket(ctx, first.ID)
	if err != nil {
		t.Fatalf("import: %v", err)
	}

	api.pages[0][0].Status = "solved"
	if _, err := f.svc.Sync(ctx); err != nil {
		t.Fatalf("second sync: %v", err)
	}
	refreshed, err := f.tickets.FindByZendeskID(ctx, 1)
	if err != nil {
		t.Fatalf("reload ticket: %v", err)
	}
	if refreshed.Status != entities.IssueStatusResolved {
		t.Fatalf("expected refreshed status RESOLVED, got %s", refreshed.Status)
	}
	if refreshed.IssueID == nil || *refreshed.IssueID != linked.Issue.ID {
		t.Fatal("expected sync to keep the issue link")
	}

	_, total, err := f.svc.ListTickets(ctx, repositories.ZendeskTicketFilters{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if total != 3 {
		t.Fatalf("expected 3 mirrored tickets, got %d", total)
	}
}

func TestZendesk_SyncFailures(t *testing.T) {
	t.Run("first page fails", func(t *testing.T) {
		f := setupZendesk(t, &fakeZendesk{failPage: 1}, nil)
		if _, err := f.svc.Sync(context.Background()); !errors.Is(err, usecaseErrors.ErrExternalAPI) {
			t.Fatalf("expected ErrExternalAPI, got %v", err)
		}
	})

	t.Run("later page fails", func(t *testing.T) {
		api := &fakeZendesk{
			pages:    [][]zendesk.Ticket{{remoteTicket(1, "open", "normal")}, {remoteTicket(2, "open", "normal")}},
			failPage: 2,
		}
		f := setupZendesk(t, api, nil)
		out, err := f.svc.Sync(context.Background())
		if err != nil {
			t.Fatalf("sync: %v", err)
		}
		if !out.Partial || out.Fetched != 1 {
			t.Fatalf("expected partial sync of 1 ticket, got %+v", out)
		}
	})
}

func TestZendesk_SearchDegradesToEmpty(t *testing.T) {
	f := setupZendesk(t, &fakeZendesk{failPage: 1}, nil)
	results, err := f.svc.Search(context.Background(), "gl", 1)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(results) != 0 {
		t.Fatalf("expected empty results, got %d", len(results))
	}
}

func TestZendesk_ImportAndLink(t *testing.T) {
	api := &fakeZendesk{pages: [][]zendesk.Ticket{{remoteTicket(1, "pending", "urgent"), remoteTicket(2, "open", "low")}}}
	f := setupZendesk(t, api, nil)
	ctx := context.Background()
	if _, err := f.svc.Sync(ctx); err != nil {
		t.Fatalf("sync: %v", err)
	}
	one, _ := f.tickets.FindByZendeskID(ctx, 1)
	two, _ := f.tickets.FindByZendeskID(ctx, 2)

	out, err := f.svc.ImportTicket(ctx, one.ID)
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if out.Issue.Title != "GL posting fails 1" {
		t.Fatalf("unexpected title %q", out.Issue.Title)
	}
	if out.Issue.Priority != entities.IssuePriorityUrgent || out.Issue.Status != entities.IssueStatusInProgress {
		t.Fatalf("unexpected issue mapping %s/%s", out.Issue.Priority, out.Issue.Status)
	}
	if _, err := f.svc.ImportTicket(ctx, one.ID); !errors.Is(err, usecaseErrors.ErrTicketAlreadyLinked) {
		t.Fatalf("expected ErrTicketAlreadyLinked, got %v", err)
	}

	linked, err := f.svc.LinkTicket(ctx, two.ID, out.Issue.ID)
	if err != nil {
		t.Fatalf("link: %v", err)
	}
	if linked.IssueID == nil || *linked.IssueID != out.Issue.ID {
		t.Fatal("expected ticket linked to the imported issue")
	}

	unlinked, err := f.svc.UnlinkTicket(ctx, two.ID)
	if err != nil {
		t.Fatalf("unlink: %v", err)
	}
	if unlinked.IsLinked() {
		t.Fatal("expected ticket to be unlinked")
	}
}

// staleTicketRepo serves tickets as they looked before a concurrent link
type staleTicketRepo struct {
	repositories.ZendeskTicketRepository
}

func (r staleTicketRepo) FindByID(ctx context.Context, id uuid.UUID) (*entities.ZendeskTicket, error) {
	ticket, err := r.ZendeskTicketRepository.FindByID(ctx, id)
	if err == nil {
		ticket.IssueID = nil
	}
	return ticket, err
}

func (f *zendeskFixture) issueCount(t *testing.T) int64 {
	t.Helper()
	var count int64
	if err := f.db.Model(&entities.Issue{}).Count(&count).Error; err != nil {
		t.Fatalf("count issues: %v", err)
	}
	return count
}

func TestZendesk_ImportRollsBackWhenLinkLost(t *testing.T) {
	api := &fakeZendesk{pages: [][]zendesk.Ticket{{remoteTicket(1, "open", "high")}}}
	f := setupZendesk(t, api, nil)
	ctx := context.Background()
	if _, err := f.svc.Sync(ctx); err != nil {
		t.Fatalf("sync: %v", err)
	}
	ticket, _ := f.tickets.FindByZendeskID(ctx, 1)

	first, err := f.svc.ImportTicket(ctx, ticket.ID)
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if f.issueCount(t) != 1 {
		t.Fatalf("expected one issue after import, got %d", f.issueCount(t))
	}

	f.svc.ticketRepo = staleTicketRepo{f.tickets}
	if _, err := f.svc.ImportTicket(ctx, ticket.ID); !errors.Is(err, usecaseErrors.ErrTicketAlreadyLinked) {
		t.Fatalf("expected ErrTicketAlreadyLinked, got %v", err)
	}
	if got := f.issueCount(t); got != 1 {
		t.Fatalf("expected no orphan issue, got %d issues", got)
	}

	stored, _ := f.tickets.FindByZendeskID(ctx, 1)
	if stored.IssueID == nil || *stored.IssueID != first.Issue.ID {
		t.Fatal("expected the original link to survive")
	}

	orphan := &entities.Issue{Title: "ghost", Priority: entities.IssuePriorityLow, Status: entities.IssueStatusOpen}
	if err := f.tickets.ImportIssue(ctx, uuid.New(), orphan); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("expected ErrRecordNotFound for unknown ticket, got %v", err)
	}
	if got := f.issueCount(t); got != 1 {
		t.Fatalf("expected unknown ticket import to roll back, got %d issues", got)
	}
}

func TestZendesk_Reclassify(t *testing.T) {
	tests := []struct {
		name         string
		assistant    ai.Service
		wantSource   string
		wantPriority entities.IssuePriority
		wantType     entities.TicketType
	}{
		{
			name:         "llm disabled",
			assistant:    &fakeAssistant{},
			wantSource:   SourceHeuristic,
			wantPriority: entities.IssuePriorityHigh,
			wantType:     entities.TicketTypeIncident,
		},
		{
			name: "llm answer",
			assistant: &fakeAssistant{enabled: true, result: &ai.Classification{
				Priority: entities.IssuePriorityUrgent,
				Type:     entities.TicketTypeProblem,
				Reason:   "month end close blocked",
			}},
			wantSource:   SourceLLM,
			wantPriority: entities.IssuePriorityUrgent,
			wantType:     entities.TicketTypeProblem,
		},
		{
			name:         "llm failure falls back",
			assistant:    &fakeAssistant{enabled: true, err: usecaseErrors.ErrExternalAPI},
			wantSource:   SourceHeuristic,
			wantPriority: entities.IssuePriorityHigh,
			wantType:     entities.TicketTypeIncident,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := &fakeZendesk{pages: [][]zendesk.Ticket{{remoteTicket(1, "open", "high")}}}
			f := setupZendesk(t, api, tt.assistant)
			ctx := context.Background()
			if _, err := f.svc.Sync(ctx); err != nil {
				t.Fatalf("sync: %v", err)
			}
			ticket, _ := f.tickets.FindByZendeskID(ctx, 1)

			out, err := f.svc.ReclassifyTicket(ctx, ticket.ID)
			if err != nil {
				t.Fatalf("reclassify: %v", err)
			}
			if out.Source != tt.wantSource || out.Priority != tt.wantPriority || out.Type != tt.wantType {
				t.Fatalf("got %s %s/%s", out.Source, out.Priority, out.Type)
			}
			stored, _ := f.tickets.FindByZendeskID(ctx, 1)
			if stored.Priority != tt.wantPriority || stored.Type != tt.wantType {
				t.Fatalf("classification not stored: %s/%s", stored.Priority, stored.Type)
			}
		})
	}
}

func sign(secret, timestamp string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(timestamp))
	mac.Write(body)
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

func TestZendesk_Webhook(t *testing.T) {
	api := &fakeZendesk{tickets: map[int64]zendesk.Ticket{42: remoteTicket(42, "open", "urgent")}}
	f := setupZendesk(t, api, nil)
	ctx := context.Background()
	ts := "2026-03-02T09:00:00Z"

	body := []byte(`{"ticket_id": "42"}`)
	ticket, err := f.svc.HandleWebhook(ctx, ts, sign("shh", ts, body), body)
	if err != nil {
		t.Fatalf("webhook: %v", err)
	}
	if ticket.ZendeskID != 42 || ticket.Priority != entities.IssuePriorityUrgent {
		t.Fatalf("unexpected ticket %+v", ticket)
	}

	if _, err := f.svc.HandleWebhook(ctx, ts, sign("wrong", ts, body), body); !errors.Is(err, usecaseErrors.ErrInvalidSignature) {
		t.Fatalf("expected ErrInvalidSignature, got %v", err)
	}

	missing := []byte(`{"ticket_id": 7}`)
	if _, err := f.svc.HandleWebhook(ctx, ts, sign("shh", ts, missing), missing); !errors.Is(err, usecaseErrors.ErrZendeskTicketNotFound) {
		t.Fatalf("expected ErrZendeskTicketNotFound, got %v", err)
	}

	stale := "2026-03-02T08:00:00Z"
	if _, err := f.svc.HandleWebhook(ctx, stale, sign("shh", stale, body), body); !errors.Is(err, usecaseErrors.ErrInvalidSignature) {
		t.Fatalf("expected replayed delivery to be rejected, got %v", err)
	}

	garbage := []byte(`{"ticket_id": "abc"}`)
	if _, err := f.svc.HandleWebhook(ctx, ts, sign("shh", ts, garbage), garbage); !errors.Is(err, usecaseErrors.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}
