package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/johnquangdev/erp-issue-hub/internal/adapter/repository"
	"github.com/johnquangdev/erp-issue-hub/internal/infrastructure/cache"
	"github.com/johnquangdev/erp-issue-hub/internal/testutil"
	actionItemUsecase "github.com/johnquangdev/erp-issue-hub/internal/usecase/actionitem"
	aiUsecase "github.com/johnquangdev/erp-issue-hub/internal/usecase/ai"
	emailUsecase "github.com/johnquangdev/erp-issue-hub/internal/usecase/email"
	issueUsecase "github.com/johnquangdev/erp-issue-hub/internal/usecase/issue"
	meetingUsecase "github.com/johnquangdev/erp-issue-hub/internal/usecase/meeting"
	ticketUsecase "github.com/johnquangdev/erp-issue-hub/internal/usecase/ticket"
	"github.com/johnquangdev/erp-issue-hub/pkg/config"
	"github.com/johnquangdev/erp-issue-hub/pkg/validator"
)

// newTestServer wires every handler against an in-memory database with
// all optional integrations disabled
func newTestServer(t *testing.T) *echo.Echo {
	t.Helper()
	db := testutil.NewDB(t)
	cfg := &config.Config{
		Server: config.ServerConfig{Environment: "test"},
		Meeting: config.MeetingConfig{
			InactivityTimeout: 30 * time.Minute,
			MaxDuration:       3 * time.Hour,
			WatchdogInterval:  time.Minute,
			DefaultInterval:   7 * 24 * time.Hour,
		},
	}

	store := cache.NewMemoryStore()
	t.Cleanup(func() { _ = store.Close() })

	issueRepo := repository.NewIssueRepository(db)
	assistant := aiUsecase.NewAIService(nil, nil)

	issueService := issueUsecase.NewIssueService(issueRepo, repository.NewCategoryRepository(db), repository.NewNoteRepository(db), nil)
	actionItemService := actionItemUsecase.NewActionItemService(repository.NewActionItemRepository(db), issueRepo, nil)
	meetingService := meetingUsecase.NewMeetingService(repository.NewMeetingRepository(db), issueRepo, nil, cfg.Meeting, nil)
	emailService := emailUsecase.NewEmailService(repository.NewEmailTemplateRepository(db), repository.NewEmailDraftRepository(db), issueRepo, assistant, nil)
	vendorService := ticketUsecase.NewVendorTicketService(repository.NewVendorTicketRepository(db), issueRepo, nil)
	zendeskService := ticketUsecase.NewZendeskTicketService(nil, repository.NewZendeskTicketRepository(db), issueRepo, store, assistant, cfg.Zendesk, nil)

	e := echo.New()
	e.Validator = validator.New()
	NewRouter(
		NewHealthHandler(db, store, nil, cfg, nil),
		NewIssueHandler(issueService, nil),
		NewActionItemHandler(actionItemService, nil),
		NewMeetingHandler(meetingService, nil),
		NewEmailHandler(emailService, nil),
		NewTicketHandler(vendorService, zendeskService, nil),
	).Setup(e)
	return e
}

type envelope struct {
	Data    json.RawMessage   `json:"data"`
	Error   string            `json:"error"`
	Details map[string]string `json:"details"`
}

func doRequest(t *testing.T, e *echo.Echo, method, path, body string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	var env envelope
	if rec.Body.Len() > 0 {
		if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
			t.Fatalf("decode %s %s: %v (%s)", method, path, err, rec.Body.String())
		}
	}
	return rec, env
}

func TestHealth(t *testing.T) {
	e := newTestServer(t)

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var body struct {
		Status       string          `json:"status"`
		Cache        string          `json:"cache"`
		Integrations map[string]bool `json:"integrations"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Status != "ok" || body.Cache != "memory" {
		t.Fatalf("unexpected health %+v", body)
	}
	if body.Integrations["zendesk"] || body.Integrations["llm"] {
		t.Fatalf("expected integrations disabled, got %v", body.Integrations)
	}
}

func TestIssueEndpoints(t *testing.T) {
	e := newTestServer(t)

	rec, env := doRequest(t, e, http.MethodPost, "/api/issues", `{"title":"   "}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("blank title: expected 400, got %d", rec.Code)
	}
	if env.Details["title"] == "" {
		t.Fatalf("expected title detail, got %v", env.Details)
	}

	rec, env = doRequest(t, e, http.MethodPost, "/api/issues", `{"title":"PO approval stuck","priority":"HIGH"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create: expected 201, got %d (%s)", rec.Code, rec.Body.String())
	}
	var created struct {
		ID       string `json:"id"`
		Status   string `json:"status"`
		Priority string `json:"priority"`
	}
	if err := json.Unmarshal(env.Data, &created); err != nil {
		t.Fatalf("decode issue: %v", err)
	}
	if created.Status != "OPEN" || created.Priority != "HIGH" {
		t.Fatalf("unexpected issue %+v", created)
	}

	rec, _ = doRequest(t, e, http.MethodGet, "/api/issues/"+created.ID, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("get: expected 200, got %d", rec.Code)
	}

	rec, env = doRequest(t, e, http.MethodGet, "/api/issues?status=OPEN", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("list: expected 200, got %d (%s)", rec.Code, rec.Body.String())
	}
	var list struct {
		Data       []json.RawMessage `json:"data"`
		Pagination struct {
			TotalItems int64 `json:"total_items"`
		} `json:"pagination"`
	}
	if err := json.Unmarshal(env.Data, &list); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	if len(list.Data) != 1 || list.Pagination.TotalItems != 1 {
		t.Fatalf("expected one open issue, got %d/%d", len(list.Data), list.Pagination.TotalItems)
	}

	rec, _ = doRequest(t, e, http.MethodGet, "/api/issues/resolved", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("resolved: expected 200, got %d", rec.Code)
	}

	rec, _ = doRequest(t, e, http.MethodDelete, "/api/issues/"+created.ID, "")
	if rec.Code != http.StatusNoContent {
		t.Fatalf("delete: expected 204, got %d", rec.Code)
	}
	rec, _ = doRequest(t, e, http.MethodGet, "/api/issues/"+created.ID, "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("get deleted: expected 404, got %d", rec.Code)
	}
}

func TestErrorMapping(t *testing.T) {
	e := newTestServer(t)

	tests := []struct {
		name   string
		method string
		path   string
		body   string
		want   int
	}{
		{"malformed id", http.MethodGet, "/api/issues/not-a-uuid", "", http.StatusBadRequest},
		{"unknown meeting", http.MethodGet, "/api/meetings/8f14e45f-ceea-467f-a8a4-3f4c2d9e0b11", "", http.StatusNotFound},
		{"bad json", http.MethodPost, "/api/categories", `{"name":`, http.StatusBadRequest},
		{"zendesk sync disabled", http.MethodPost, "/api/zendesk/sync", "", http.StatusServiceUnavailable},
		{"zendesk search disabled", http.MethodGet, "/api/zendesk/search?q=printer", "", http.StatusServiceUnavailable},
		{"improve without llm", http.MethodPost, "/api/email-drafts/improve", `{"text":"pls fix"}`, http.StatusServiceUnavailable},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, _ := doRequest(t, e, tt.method, tt.path, tt.body)
			if rec.Code != tt.want {
				t.Fatalf("expected %d, got %d (%s)", tt.want, rec.Code, rec.Body.String())
			}
		})
	}
}

func TestZendeskStatusDisabled(t *testing.T) {
	e := newTestServer(t)

	rec, env := doRequest(t, e, http.MethodGet, "/api/zendesk/status", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var status struct {
		Enabled bool `json:"enabled"`
	}
	if err := json.Unmarshal(env.Data, &status); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if status.Enabled {
		t.Fatal("expected zendesk to report disabled")
	}
}

func TestMeetingFlow(t *testing.T) {
	e := newTestServer(t)

	rec, env := doRequest(t, e, http.MethodPost, "/api/issues", `{"title":"Payroll export"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create issue: %d", rec.Code)
	}
	var issue struct {
		ID string `json:"id"`
	}
	_ = json.Unmarshal(env.Data, &issue)

	rec, env = doRequest(t, e, http.MethodPost, "/api/meetings", `{"title":"Weekly ERP sync","issue_ids":["`+issue.ID+`"]}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create meeting: expected 201, got %d (%s)", rec.Code, rec.Body.String())
	}
	var meeting struct {
		ID     string `json:"id"`
		Status string `json:"status"`
	}
	_ = json.Unmarshal(env.Data, &meeting)
	if meeting.Status != "PLANNED" {
		t.Fatalf("expected PLANNED, got %s", meeting.Status)
	}

	rec, _ = doRequest(t, e, http.MethodPost, "/api/meetings/"+meeting.ID+"/items", `{"issue_id":"`+issue.ID+`"}`)
	if rec.Code != http.StatusConflict {
		t.Fatalf("duplicate agenda item: expected 409, got %d", rec.Code)
	}

	rec, _ = doRequest(t, e, http.MethodPost, "/api/meetings/"+meeting.ID+"/start", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("start: expected 200, got %d (%s)", rec.Code, rec.Body.String())
	}
	rec, _ = doRequest(t, e, http.MethodPost, "/api/meetings/"+meeting.ID+"/start", "")
	if rec.Code != http.StatusConflict {
		t.Fatalf("restart: expected 409, got %d", rec.Code)
	}

	rec, env = doRequest(t, e, http.MethodGet, "/api/meetings/current", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("current: expected 200, got %d", rec.Code)
	}
	var current struct {
		ID string `json:"id"`
	}
	_ = json.Unmarshal(env.Data, &current)
	if current.ID != meeting.ID {
		t.Fatalf("expected current meeting %s, got %s", meeting.ID, current.ID)
	}

	rec, _ = doRequest(t, e, http.MethodPost, "/api/meetings/"+meeting.ID+"/end", `{"general_notes":"done"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("end: expected 200, got %d (%s)", rec.Code, rec.Body.String())
	}

	rec, _ = doRequest(t, e, http.MethodGet, "/api/meetings/"+meeting.ID+"/minutes", "")
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("minutes without storage: expected 503, got %d", rec.Code)
	}
}
