package ticket

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/johnquangdev/erp-issue-hub/internal/domain/entities"
	"github.com/johnquangdev/erp-issue-hub/internal/domain/repositories"
	"github.com/johnquangdev/erp-issue-hub/internal/infrastructure/external/zendesk"
)

// VendorService defines the interface for vendor ticket tracking
type VendorService interface {
	Create(ctx context.Context, input VendorTicketInput) (*entities.VendorTicket, error)
	Get(ctx context.Context, id uuid.UUID) (*entities.VendorTicket, error)
	List(ctx context.Context, issueID *uuid.UUID, vendor string) ([]*entities.VendorTicket, error)
	Update(ctx context.Context, id uuid.UUID, input VendorTicketInput) (*entities.VendorTicket, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// ZendeskService defines the interface for the Zendesk integration
type ZendeskService interface {
	Status(ctx context.Context) (*StatusOutput, error)
	Search(ctx context.Context, query string, page int) ([]*entities.ZendeskTicket, error)
	Sync(ctx context.Context) (*SyncOutput, error)
	ListTickets(ctx context.Context, filters repositories.ZendeskTicketFilters) ([]*entities.ZendeskTicket, int64, error)
	GetTicket(ctx context.Context, id uuid.UUID) (*entities.ZendeskTicket, error)
	ImportTicket(ctx context.Context, id uuid.UUID) (*ImportOutput, error)
	LinkTicket(ctx context.Context, id, issueID uuid.UUID) (*entities.ZendeskTicket, error)
	UnlinkTicket(ctx context.Context, id uuid.UUID) (*entities.ZendeskTicket, error)
	ReclassifyTicket(ctx context.Context, id uuid.UUID) (*ReclassifyOutput, error)
	HandleWebhook(ctx context.Context, timestamp, signature string, body []byte) (*entities.ZendeskTicket, error)
}

// ZendeskAPI is the subset of the Zendesk REST client used here
type ZendeskAPI interface {
	SearchTickets(ctx context.Context, query string, page int) (*zendesk.SearchResult, error)
	GetTicket(ctx context.Context, id int64) (*zendesk.Ticket, error)
	GetUser(ctx context.Context, id int64) (*zendesk.User, error)
	GetGroup(ctx context.Context, id int64) (*zendesk.Group, error)
}

// NameCache caches user and group display names
type NameCache interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
}

var (
	_ VendorService  = (*VendorTicketService)(nil)
	_ ZendeskService = (*ZendeskTicketService)(nil)
	_ ZendeskAPI     = (*zendesk.Client)(nil)
)
