package ticket

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/johnquangdev/erp-issue-hub/internal/domain/entities"
	"github.com/johnquangdev/erp-issue-hub/internal/domain/repositories"
	usecaseErrors "github.com/johnquangdev/erp-issue-hub/internal/usecase/errors"
)

// VendorTicketService tracks tickets raised with ERP vendors
type VendorTicketService struct {
	ticketRepo repositories.VendorTicketRepository
	issueRepo  repositories.IssueRepository
	logger     *zap.Logger
}

// NewVendorTicketService creates a new vendor ticket service
func NewVendorTicketService(
	ticketRepo repositories.VendorTicketRepository,
	issueRepo repositories.IssueRepository,
	logger *zap.Logger,
) *VendorTicketService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &VendorTicketService{
		ticketRepo: ticketRepo,
		issueRepo:  issueRepo,
		logger:     logger,
	}
}

// VendorTicketInput represents input for creating or replacing a vendor ticket
type VendorTicketInput struct {
	IssueID      *uuid.UUID
	Vendor       string
	TicketNumber string
	Subject      string
	RawStatus    string
	RawPriority  string
	URL          *string
	Notes        string
	OpenedAt     *time.Time
}

func (in VendorTicketInput) validate() error {
	if strings.TrimSpace(in.Vendor) == "" || strings.TrimSpace(in.TicketNumber) == "" {
		return usecaseErrors.ErrInvalidInput
	}
	return nil
}

// apply copies input onto the ticket and maps the vendor's free text
func (in VendorTicketInput) apply(t *entities.VendorTicket) {
	t.IssueID = in.IssueID
	t.Vendor = strings.TrimSpace(in.Vendor)
	t.TicketNumber = strings.TrimSpace(in.TicketNumber)
	t.Subject = in.Subject
	t.RawStatus = in.RawStatus
	t.RawPriority = in.RawPriority
	t.Status = MapVendorStatus(in.RawStatus)
	t.Priority = MapVendorPriority(in.RawPriority)
	t.URL = in.URL
	t.Notes = in.Notes
	t.OpenedAt = in.OpenedAt
}

// Create records a vendor ticket
func (s *VendorTicketService) Create(ctx context.Context, input VendorTicketInput) (*entities.VendorTicket, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}
	if err := s.ensureIssue(ctx, input.IssueID); err != nil {
		return nil, err
	}

	ticket := &entities.VendorTicket{}
	input.apply(ticket)
	if err := s.ticketRepo.Create(ctx, ticket); err != nil {
		return nil, fmt.Errorf("failed to create vendor ticket: %w", err)
	}
	s.logger.Info("vendor_ticket.created",
		zap.String("vendor_ticket_id", ticket.ID.String()),
		zap.String("vendor", ticket.Vendor),
		zap.String("status", string(ticket.Status)),
	)
	return ticket, nil
}

// Get retrieves a vendor ticket by ID
func (s *VendorTicketService) Get(ctx context.Context, id uuid.UUID) (*entities.VendorTicket, error) {
	ticket, err := s.ticketRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, usecaseErrors.ErrVendorTicketNotFound
		}
		return nil, fmt.Errorf("failed to get vendor ticket: %w", err)
	}
	return ticket, nil
}

// List retrieves vendor tickets, optionally for one issue or vendor
func (s *VendorTicketService) List(ctx context.Context, issueID *uuid.UUID, vendor string) ([]*entities.VendorTicket, error) {
	if issueID != nil {
		if err := s.ensureIssue(ctx, issueID); err != nil {
			return nil, err
		}
	}
	tickets, err := s.ticketRepo.List(ctx, issueID, strings.TrimSpace(vendor))
	if err != nil {
		return nil, fmt.Errorf("failed to list vendor tickets: %w", err)
	}
	return tickets, nil
}

// Update replaces a vendor ticket's fields and remaps its status and priority
func (s *VendorTicketService) Update(ctx context.Context, id uuid.UUID, input VendorTicketInput) (*entities.VendorTicket, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}
	ticket, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.ensureIssue(ctx, input.IssueID); err != nil {
		return nil, err
	}

	input.apply(ticket)
	if err := s.ticketRepo.Update(ctx, ticket); err != nil {
		return nil, fmt.Errorf("failed to update vendor ticket: %w", err)
	}
	return ticket, nil
}

// Delete removes a vendor ticket
func (s *VendorTicketService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.ticketRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return usecaseErrors.ErrVendorTicketNotFound
		}
		return fmt.Errorf("failed to delete vendor ticket: %w", err)
	}
	return nil
}

func (s *VendorTicketService) ensureIssue(ctx context.Context, id *uuid.UUID) error {
	if id == nil {
		return nil
	}
	exists, err := s.issueRepo.Exists(ctx, *id)
	if err != nil {
		return fmt.Errorf("failed to check issue: %w", err)
	}
	if !exists {
		return usecaseErrors.ErrIssueNotFound
	}
	return nil
}
