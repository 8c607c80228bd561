package ticket

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/johnquangdev/erp-issue-hub/internal/domain/entities"
	"github.com/johnquangdev/erp-issue-hub/internal/domain/repositories"
	"github.com/johnquangdev/erp-issue-hub/internal/infrastructure/external/zendesk"
	"github.com/johnquangdev/erp-issue-hub/internal/usecase/ai"
	usecaseErrors "github.com/johnquangdev/erp-issue-hub/internal/usecase/errors"
	"github.com/johnquangdev/erp-issue-hub/pkg/config"
)

// maxSyncPages bounds one sync run
const maxSyncPages = 10

// ZendeskTicketService mirrors Zendesk tickets and links them to issues
type ZendeskTicketService struct {
	api        ZendeskAPI
	ticketRepo repositories.ZendeskTicketRepository
	issueRepo  repositories.IssueRepository
	names      NameCache
	assistant  ai.Service
	cfg        config.ZendeskConfig
	logger     *zap.Logger
	now        func() time.Time
}

// NewZendeskTicketService creates the service. A nil api disables every
// call that needs Zendesk; reclassification still works on the local mirror.
func NewZendeskTicketService(
	api ZendeskAPI,
	ticketRepo repositories.ZendeskTicketRepository,
	issueRepo repositories.IssueRepository,
	names NameCache,
	assistant ai.Service,
	cfg config.ZendeskConfig,
	logger *zap.Logger,
) *ZendeskTicketService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = time.Hour
	}
	return &ZendeskTicketService{
		api:        api,
		ticketRepo: ticketRepo,
		issueRepo:  issueRepo,
		names:      names,
		assistant:  assistant,
		cfg:        cfg,
		logger:     logger,
		now:        time.Now,
	}
}

func (s *ZendeskTicketService) enabled() bool {
	return s.api != nil
}

// StatusOutput describes the integration state
type StatusOutput struct {
	Enabled      bool       `json:"enabled"`
	Subdomain    string     `json:"subdomain,omitempty"`
	AuthMode     string     `json:"auth_mode,omitempty"`
	LastSyncedAt *time.Time `json:"last_synced_at,omitempty"`
	TicketCount  int64      `json:"ticket_count"`
	LinkedCount  int64      `json:"linked_count"`
}

// Status reports whether Zendesk is configured and when it was last synced
func (s *ZendeskTicketService) Status(ctx context.Context) (*StatusOutput, error) {
	out := &StatusOutput{Enabled: s.enabled()}
	if !out.Enabled {
		return out, nil
	}
	out.Subdomain = s.cfg.Subdomain
	out.AuthMode = "token"
	if s.cfg.OAuthClientID != "" {
		out.AuthMode = "oauth"
	}

	last, err := s.ticketRepo.LastSyncedAt(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get last sync: %w", err)
	}
	out.LastSyncedAt = last

	_, total, err := s.ticketRepo.List(ctx, repositories.ZendeskTicketFilters{Limit: 1})
	if err != nil {
		return nil, fmt.Errorf("failed to count tickets: %w", err)
	}
	linked := true
	_, linkedTotal, err := s.ticketRepo.List(ctx, repositories.ZendeskTicketFilters{Linked: &linked, Limit: 1})
	if err != nil {
		return nil, fmt.Errorf("failed to count linked tickets: %w", err)
	}
	out.TicketCount = total
	out.LinkedCount = linkedTotal
	return out, nil
}

// Search proxies a live ticket search. Results are mapped but not stored;
// a failing Zendesk call yields an empty result.
func (s *ZendeskTicketService) Search(ctx context.Context, query string, page int) ([]*entities.ZendeskTicket, error) {
	if !s.enabled() {
		return nil, usecaseErrors.ErrZendeskDisabled
	}
	if strings.TrimSpace(query) == "" {
		return nil, usecaseErrors.ErrInvalidInput
	}

	res, err := s.api.SearchTickets(ctx, query, page)
	if err != nil {
		s.logger.Warn("zendesk.search.failed", zap.String("query", query), zap.Error(err))
		return []*entities.ZendeskTicket{}, nil
	}

	tickets := make([]*entities.ZendeskTicket, 0, len(res.Tickets))
	for i := range res.Tickets {
		tickets = append(tickets, s.toEntity(ctx, &res.Tickets[i]))
	}
	return tickets, nil
}

// SyncOutput summarises one sync run
type SyncOutput struct {
	Fetched  int       `json:"fetched"`
	Upserted int       `json:"upserted"`
	Pages    int       `json:"pages"`
	Partial  bool      `json:"partial"`
	SyncedAt time.Time `json:"synced_at"`
}

// Sync pulls tickets matching the sync query into the local mirror.
// Local issue links survive; vendor fields are refreshed.
func (s *ZendeskTicketService) Sync(ctx context.Context) (*SyncOutput, error) {
	if !s.enabled() {
		return nil, usecaseErrors.ErrZendeskDisabled
	}

	out := &SyncOutput{SyncedAt: s.now()}
	for page := 1; page <= maxSyncPages; page++ {
		res, err := s.api.SearchTickets(ctx, s.cfg.SyncQuery, page)
		if err != nil {
			if out.Pages == 0 {
				return nil, fmt.Errorf("%w: %v", usecaseErrors.ErrExternalAPI, err)
			}
			s.logger.Warn("zendesk.sync.page_failed", zap.Int("page", page), zap.Error(err))
			out.Partial = true
			break
		}
		out.Pages++
		out.Fetched += len(res.Tickets)

		batch := make([]*entities.ZendeskTicket, 0, len(res.Tickets))
		for i := range res.Tickets {
			t := s.toEntity(ctx, &res.Tickets[i])
			t.LastSyncedAt = out.SyncedAt
			batch = append(batch, t)
		}
		if err := s.ticketRepo.Upsert(ctx, batch); err != nil {
			return nil, fmt.Errorf("failed to store zendesk tickets: %w", err)
		}
		out.Upserted += len(batch)

		if res.NextPage == "" {
			break
		}
		if page == maxSyncPages {
			out.Partial = true
		}
	}

	s.logger.Info("zendesk.sync.completed",
		zap.Int("fetched", out.Fetched),
		zap.Int("pages", out.Pages),
		zap.Bool("partial", out.Partial),
	)
	return out, nil
}

// ListTickets lists the local mirror
func (s *ZendeskTicketService) ListTickets(ctx context.Context, filters repositories.ZendeskTicketFilters) ([]*entities.ZendeskTicket, int64, error) {
	if !s.enabled() {
		return nil, 0, usecaseErrors.ErrZendeskDisabled
	}
	tickets, total, err := s.ticketRepo.List(ctx, filters)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list zendesk tickets: %w", err)
	}
	return tickets, total, nil
}

// GetTicket retrieves a mirrored ticket
func (s *ZendeskTicketService) GetTicket(ctx context.Context, id uuid.UUID) (*entities.ZendeskTicket, error) {
	if !s.enabled() {
		return nil, usecaseErrors.ErrZendeskDisabled
	}
	return s.findTicket(ctx, id)
}

func (s *ZendeskTicketService) findTicket(ctx context.Context, id uuid.UUID) (*entities.ZendeskTicket, error) {
	ticket, err := s.ticketRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, usecaseErrors.ErrZendeskTicketNotFound
		}
		return nil, fmt.Errorf("failed to get zendesk ticket: %w", err)
	}
	return ticket, nil
}

// ImportOutput holds the issue created from a ticket
type ImportOutput struct {
	Issue  *entities.Issue         `json:"issue"`
	Ticket *entities.ZendeskTicket `json:"ticket"`
}

// ImportTicket creates an issue from a mirrored ticket and links them
func (s *ZendeskTicketService) ImportTicket(ctx context.Context, id uuid.UUID) (*ImportOutput, error) {
	if !s.enabled() {
		return nil, usecaseErrors.ErrZendeskDisabled
	}
	ticket, err := s.findTicket(ctx, id)
	if err != nil {
		return nil, err
	}
	if ticket.IsLinked() {
		return nil, usecaseErrors.ErrTicketAlreadyLinked
	}

	title := strings.TrimSpace(ticket.Subject)
	if title == "" {
		title = fmt.Sprintf("Zendesk ticket #%d", ticket.ZendeskID)
	}
	description := ticket.Description
	if ticket.URL != "" {
		description = strings.TrimSpace(description + "\n\nZendesk: " + ticket.URL)
	}

	issue := &entities.Issue{
		Title:       title,
		Description: description,
		Priority:    ticket.Priority,
		Status:      entities.IssueStatusOpen,
	}
	if err := issue.SetStatus(ticket.Status, s.now()); err != nil {
		issue.Status = entities.IssueStatusOpen
	}
	if ticket.AssigneeName != "" {
		assignee := ticket.AssigneeName
		issue.AssignedTo = &assignee
	}
	if err := s.ticketRepo.ImportIssue(ctx, ticket.ID, issue); err != nil {
		switch {
		case errors.Is(err, repositories.ErrTicketLinked):
			return nil, usecaseErrors.ErrTicketAlreadyLinked
		case errors.Is(err, gorm.ErrRecordNotFound):
			return nil, usecaseErrors.ErrZendeskTicketNotFound
		}
		return nil, fmt.Errorf("failed to import zendesk ticket: %w", err)
	}
	ticket.IssueID = &issue.ID

	s.logger.Info("zendesk.ticket.imported",
		zap.Int64("zendesk_id", ticket.ZendeskID),
		zap.String("issue_id", issue.ID.String()),
	)
	return &ImportOutput{Issue: issue, Ticket: ticket}, nil
}

// LinkTicket attaches a mirrored ticket to an existing issue
func (s *ZendeskTicketService) LinkTicket(ctx context.Context, id, issueID uuid.UUID) (*entities.ZendeskTicket, error) {
	if !s.enabled() {
		return nil, usecaseErrors.ErrZendeskDisabled
	}
	ticket, err := s.findTicket(ctx, id)
	if err != nil {
		return nil, err
	}
	if ticket.IsLinked() {
		if *ticket.IssueID == issueID {
			return ticket, nil
		}
		return nil, usecaseErrors.ErrTicketAlreadyLinked
	}
	exists, err := s.issueRepo.Exists(ctx, issueID)
	if err != nil {
		return nil, fmt.Errorf("failed to check issue: %w", err)
	}
	if !exists {
		return nil, usecaseErrors.ErrIssueNotFound
	}

	ticket.IssueID = &issueID
	if err := s.ticketRepo.Update(ctx, ticket); err != nil {
		return nil, fmt.Errorf("failed to link zendesk ticket: %w", err)
	}
	return ticket, nil
}

// UnlinkTicket detaches a ticket from its issue
func (s *ZendeskTicketService) UnlinkTicket(ctx context.Context, id uuid.UUID) (*entities.ZendeskTicket, error) {
	if !s.enabled() {
		return nil, usecaseErrors.ErrZendeskDisabled
	}
	ticket, err := s.findTicket(ctx, id)
	if err != nil {
		return nil, err
	}
	if !ticket.IsLinked() {
		return ticket, nil
	}
	ticket.IssueID = nil
	if err := s.ticketRepo.Update(ctx, ticket); err != nil {
		return nil, fmt.Errorf("failed to unlink zendesk ticket: %w", err)
	}
	return ticket, nil
}

// ReclassifyOutput holds the applied classification
type ReclassifyOutput struct {
	Ticket   *entities.ZendeskTicket `json:"ticket"`
	Source   string                  `json:"source"`
	Reason   string                  `json:"reason,omitempty"`
	Priority entities.IssuePriority  `json:"priority"`
	Type     entities.TicketType     `json:"type"`
}

// Classification sources
const (
	SourceLLM       = "llm"
	SourceHeuristic = "heuristic"
)

// ReclassifyTicket asks the LLM for a priority and type. When the LLM is
// disabled or its answer is unusable, the Zendesk values are mapped instead.
func (s *ZendeskTicketService) ReclassifyTicket(ctx context.Context, id uuid.UUID) (*ReclassifyOutput, error) {
	ticket, err := s.findTicket(ctx, id)
	if err != nil {
		return nil, err
	}

	out := &ReclassifyOutput{
		Source:   SourceHeuristic,
		Priority: MapZendeskPriority(ticket.RawPriority),
		Type:     MapZendeskType(ticket.RawType),
	}
	if s.assistant != nil && s.assistant.Enabled() {
		c, err := s.assistant.ClassifyTicket(ctx, ai.TicketInfo{
			Subject:     ticket.Subject,
			Description: ticket.Description,
			Tags:        ticket.Tags,
			RawPriority: ticket.RawPriority,
			RawType:     ticket.RawType,
		})
		if err != nil {
			s.logger.Warn("zendesk.reclassify.llm_fallback",
				zap.Int64("zendesk_id", ticket.ZendeskID),
				zap.Error(err),
			)
		} else {
			out.Source = SourceLLM
			out.Priority = c.Priority
			out.Type = c.Type
			out.Reason = c.Reason
		}
	}

	ticket.Priority = out.Priority
	ticket.Type = out.Type
	if err := s.ticketRepo.Update(ctx, ticket); err != nil {
		return nil, fmt.Errorf("failed to save classification: %w", err)
	}
	out.Ticket = ticket
	return out, nil
}

// webhookPayload is the body configured on the Zendesk webhook trigger
type webhookPayload struct {
	TicketID json.Number `json:"ticket_id"`
}

// HandleWebhook verifies a Zendesk webhook and refreshes the named ticket
func (s *ZendeskTicketService) HandleWebhook(ctx context.Context, timestamp, signature string, body []byte) (*entities.ZendeskTicket, error) {
	if !s.enabled() {
		return nil, usecaseErrors.ErrZendeskDisabled
	}
	if !zendesk.VerifyWebhookSignature(s.cfg.WebhookSecret, timestamp, body, signature, s.now()) {
		return nil, usecaseErrors.ErrInvalidSignature
	}

	var payload webhookPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, usecaseErrors.ErrInvalidInput
	}
	zendeskID, err := strconv.ParseInt(payload.TicketID.String(), 10, 64)
	if err != nil || zendeskID <= 0 {
		return nil, usecaseErrors.ErrInvalidInput
	}

	remote, err := s.api.GetTicket(ctx, zendeskID)
	if err != nil {
		if errors.Is(err, zendesk.ErrNotFound) {
			return nil, usecaseErrors.ErrZendeskTicketNotFound
		}
		return nil, fmt.Errorf("%w: %v", usecaseErrors.ErrExternalAPI, err)
	}

	t := s.toEntity(ctx, remote)
	t.LastSyncedAt = s.now()
	if err := s.ticketRepo.Upsert(ctx, []*entities.ZendeskTicket{t}); err != nil {
		return nil, fmt.Errorf("failed to store zendesk ticket: %w", err)
	}

	s.logger.Info("zendesk.webhook.refreshed", zap.Int64("zendesk_id", zendeskID))
	ticket, err := s.ticketRepo.FindByZendeskID(ctx, zendeskID)
	if err != nil {
		return nil, fmt.Errorf("failed to reload zendesk ticket: %w", err)
	}
	return ticket, nil
}

// toEntity maps a Zendesk ticket to the local mirror, resolving names
func (s *ZendeskTicketService) toEntity(ctx context.Context, t *zendesk.Ticket) *entities.ZendeskTicket {
	out := &entities.ZendeskTicket{
		ZendeskID:        t.ID,
		Subject:          t.Subject,
		Description:      t.Description,
		RawStatus:        t.Status,
		RawPriority:      t.Priority,
		RawType:          t.Type,
		Status:           MapZendeskStatus(t.Status),
		Priority:         MapZendeskPriority(t.Priority),
		Type:             MapZendeskType(t.Type),
		Tags:             datatypes.JSONSlice[string](t.Tags),
		URL:              s.agentURL(t.ID),
		ZendeskCreatedAt: t.CreatedAt,
		ZendeskUpdatedAt: t.UpdatedAt,
	}
	if out.Tags == nil {
		out.Tags = datatypes.JSONSlice[string]{}
	}

	if t.RequesterID != 0 {
		if u := s.lookupUser(ctx, t.RequesterID); u != nil {
			out.RequesterName = u.Name
			out.RequesterEmail = u.Email
		}
	}
	if t.AssigneeID != nil {
		if u := s.lookupUser(ctx, *t.AssigneeID); u != nil {
			out.AssigneeName = u.Name
		}
	}
	if t.GroupID != nil {
		out.GroupName = s.lookupGroup(ctx, *t.GroupID)
	}
	return out
}

// agentURL links to the ticket in the Zendesk agent UI
func (s *ZendeskTicketService) agentURL(id int64) string {
	return fmt.Sprintf("%s/agent/tickets/%d", strings.TrimRight(s.cfg.APIBaseURL(), "/"), id)
}

// lookupUser resolves a user through the cache; failures yield nil
func (s *ZendeskTicketService) lookupUser(ctx context.Context, id int64) *zendesk.User {
	key := fmt.Sprintf("zendesk:user:%d", id)
	if raw, ok := s.cacheGet(ctx, key); ok {
		var u zendesk.User
		if json.Unmarshal([]byte(raw), &u) == nil {
			return &u
		}
	}

	u, err := s.api.GetUser(ctx, id)
	if err != nil {
		s.logger.Debug("zendesk.user_lookup.failed", zap.Int64("user_id", id), zap.Error(err))
		return nil
	}
	if raw, err := json.Marshal(u); err == nil {
		s.cacheSet(ctx, key, string(raw))
	}
	return u
}

// lookupGroup resolves a group name through the cache; failures yield ""
func (s *ZendeskTicketService) lookupGroup(ctx context.Context, id int64) string {
	key := fmt.Sprintf("zendesk:group:%d", id)
	if name, ok := s.cacheGet(ctx, key); ok {
		return name
	}

	g, err := s.api.GetGroup(ctx, id)
	if err != nil {
		s.logger.Debug("zendesk.group_lookup.failed", zap.Int64("group_id", id), zap.Error(err))
		return ""
	}
	s.cacheSet(ctx, key, g.Name)
	return g.Name
}

func (s *ZendeskTicketService) cacheGet(ctx context.Context, key string) (string, bool) {
	if s.names == nil {
		return "", false
	}
	v, ok, err := s.names.Get(ctx, key)
	if err != nil {
		s.logger.Warn("cache.get.failed", zap.String("key", key), zap.Error(err))
		return "", false
	}
	return v, ok
}

func (s *ZendeskTicketService) cacheSet(ctx context.Context, key, value string) {
	if s.names == nil {
		return
	}
	if err := s.names.Set(ctx, key, value, s.cfg.CacheTTL); err != nil {
		s.logger.Warn("cache.set.failed", zap.String("key", key), zap.Error(err))
	}
}
