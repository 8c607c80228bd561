package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/johnquangdev/erp-issue-hub/internal/domain/entities"
)

// VendorTicketRepository defines the interface for vendor ticket data access
type VendorTicketRepository interface {
	Create(ctx context.Context, ticket *entities.VendorTicket) error
	FindByID(ctx context.Context, id uuid.UUID) (*entities.VendorTicket, error)
	Update(ctx context.Context, ticket *entities.VendorTicket) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, issueID *uuid.UUID, vendor string) ([]*entities.VendorTicket, error)
}

// ErrTicketLinked is returned when a ticket gained an issue link before a conditional link
var ErrTicketLinked = errors.New("zendesk ticket already linked")

// ZendeskTicketFilters represents filter options for the local Zendesk mirror
type ZendeskTicketFilters struct {
	Linked *bool
	Status *entities.IssueStatus
	Search string
	Limit  int
	Offset int
}

// ZendeskTicketRepository defines the interface for mirrored Zendesk tickets
type ZendeskTicketRepository interface {
	// Upsert inserts or refreshes tickets keyed by Zendesk id, keeping local issue links
	Upsert(ctx context.Context, tickets []*entities.ZendeskTicket) error
	FindByID(ctx context.Context, id uuid.UUID) (*entities.ZendeskTicket, error)
	FindByZendeskID(ctx context.Context, zendeskID int64) (*entities.ZendeskTicket, error)
	Update(ctx context.Context, ticket *entities.ZendeskTicket) error
	// ImportIssue creates issue and links the unlinked ticket to it in one
	// transaction. It returns ErrTicketLinked and creates nothing when the
	// ticket is already linked.
	ImportIssue(ctx context.Context, ticketID uuid.UUID, issue *entities.Issue) error
	List(ctx context.Context, filters ZendeskTicketFilters) ([]*entities.ZendeskTicket, int64, error)
	// LastSyncedAt returns the newest sync time, or nil when nothing was synced
	LastSyncedAt(ctx context.Context) (*time.Time, error)
}
