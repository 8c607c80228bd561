package ticket

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/johnquangdev/erp-issue-hub/internal/adapter/repository"
	"github.com/johnquangdev/erp-issue-hub/internal/domain/entities"
	"github.com/johnquangdev/erp-issue-hub/internal/testutil"
	usecaseErrors "github.com/johnquangdev/erp-issue-hub/internal/usecase/errors"
)

func TestVendorTicketService_Lifecycle(t *testing.T) {
	db := testutil.NewDB(t)
	issues := repository.NewIssueRepository(db)
	svc := NewVendorTicketService(repository.NewVendorTicketRepository(db), issues, nil)
	ctx := context.Background()

	issue := &entities.Issue{Title: "Invoice sync stuck", Priority: entities.IssuePriorityHigh, Status: entities.IssueStatusOpen}
	if err := issues.Create(ctx, issue); err != nil {
		t.Fatalf("create issue: %v", err)
	}

	created, err := svc.Create(ctx, VendorTicketInput{
		IssueID:      &issue.ID,
		Vendor:       " NetSuite ",
		TicketNumber: "CASE-1001",
		RawStatus:    "Awaiting Customer Response",
		RawPriority:  "P1 - Critical",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.Vendor != "NetSuite" {
		t.Fatalf("expected trimmed vendor, got %q", created.Vendor)
	}
	if created.Status != entities.VendorTicketStatusWaiting || created.Priority != entities.IssuePriorityUrgent {
		t.Fatalf("unexpected mapping %s/%s", created.Status, created.Priority)
	}

	list, err := svc.List(ctx, &issue.ID, "netsuite")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 1 {
		t.Fatalf("expected 1 ticket, got %d", len(list))
	}

	updated, err := svc.Update(ctx, created.ID, VendorTicketInput{
		IssueID:      &issue.ID,
		Vendor:       "NetSuite",
		TicketNumber: "CASE-1001",
		RawStatus:    "Fixed in patch",
		RawPriority:  "low",
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Status != entities.VendorTicketStatusResolved || updated.Priority != entities.IssuePriorityLow {
		t.Fatalf("unexpected remap %s/%s", updated.Status, updated.Priority)
	}

	if err := svc.Delete(ctx, created.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := svc.Get(ctx, created.ID); !errors.Is(err, usecaseErrors.ErrVendorTicketNotFound) {
		t.Fatalf("expected ErrVendorTicketNotFound, got %v", err)
	}
}

func TestVendorTicketService_Rejects(t *testing.T) {
	db := testutil.NewDB(t)
	svc := NewVendorTicketService(repository.NewVendorTicketRepository(db), repository.NewIssueRepository(db), nil)
	ctx := context.Background()

	if _, err := svc.Create(ctx, VendorTicketInput{Vendor: "SAP"}); !errors.Is(err, usecaseErrors.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
	missing := uuid.New()
	if _, err := svc.Create(ctx, VendorTicketInput{IssueID: &missing, Vendor: "SAP", TicketNumber: "1"}); !errors.Is(err, usecaseErrors.ErrIssueNotFound) {
		t.Fatalf("expected ErrIssueNotFound, got %v", err)
	}
	if err := svc.Delete(ctx, uuid.New()); !errors.Is(err, usecaseErrors.ErrVendorTicketNotFound) {
		t.Fatalf("expected ErrVendorTicketNotFound, got %v", err)
	}
}
