package ticket

import (
	"testing"

	"github.com/johnquangdev/erp-issue-hub/internal/domain/entities"
)

func TestMapZendesk(t *testing.T) {
	statuses := map[string]entities.IssueStatus{
		"new":     entities.IssueStatusOpen,
		"Open":    entities.IssueStatusOpen,
		"pending": entities.IssueStatusInProgress,
		"hold":    entities.IssueStatusInProgress,
		"solved":  entities.IssueStatusResolved,
		"closed":  entities.IssueStatusClosed,
		"weird":   entities.IssueStatusOpen,
	}
	for raw, want := range statuses {
		if got := MapZendeskStatus(raw); got != want {
			t.Errorf("MapZendeskStatus(%q) = %s, want %s", raw, got, want)
		}
	}

	priorities := map[string]entities.IssuePriority{
		"low":    entities.IssuePriorityLow,
		"normal": entities.IssuePriorityMedium,
		"high":   entities.IssuePriorityHigh,
		"URGENT": entities.IssuePriorityUrgent,
		"":       entities.IssuePriorityMedium,
		"asap":   entities.IssuePriorityMedium,
	}
	for raw, want := range priorities {
		if got := MapZendeskPriority(raw); got != want {
			t.Errorf("MapZendeskPriority(%q) = %s, want %s", raw, got, want)
		}
	}

	if got := MapZendeskType("incident"); got != entities.TicketTypeIncident {
		t.Errorf("unexpected type %s", got)
	}
	if got := MapZendeskType(""); got != entities.TicketTypeQuestion {
		t.Errorf("expected QUESTION fallback, got %s", got)
	}
}

func TestMapVendor(t *testing.T) {
	statuses := []struct {
		raw  string
		want entities.VendorTicketStatus
	}{
		{"Awaiting Customer", entities.VendorTicketStatusWaiting},
		{"In Progress", entities.VendorTicketStatusInProgress},
		{"Resolved - Pending Confirmation", entities.VendorTicketStatusResolved},
		{"Closed", entities.VendorTicketStatusClosed},
		{"Submitted", entities.VendorTicketStatusOpen},
		{"", entities.VendorTicketStatusOpen},
		{"  ON   hold ", entities.VendorTicketStatusWaiting},
		{"Unresolved", entities.VendorTicketStatusOpen},
		{"Not resolved", entities.VendorTicketStatusOpen},
		{"Unassigned", entities.VendorTicketStatusOpen},
		{"Not fixed - investigating", entities.VendorTicketStatusInProgress},
		{"Cancelled by vendor", entities.VendorTicketStatusClosed},
	}
	for _, tt := range statuses {
		if got := MapVendorStatus(tt.raw); got != tt.want {
			t.Errorf("MapVendorStatus(%q) = %s, want %s", tt.raw, got, tt.want)
		}
	}

	priorities := []struct {
		raw  string
		want entities.IssuePriority
	}{
		{"P1 - Critical", entities.IssuePriorityUrgent},
		{"P2", entities.IssuePriorityHigh},
		{"High", entities.IssuePriorityHigh},
		{"Normal", entities.IssuePriorityMedium},
		{"P4 - Low", entities.IssuePriorityLow},
		{"whenever", entities.IssuePriorityMedium},
		{"Highest", entities.IssuePriorityUrgent},
		{"SEV-2", entities.IssuePriorityHigh},
		{"Severity 3", entities.IssuePriorityMedium},
		{"P0", entities.IssuePriorityUrgent},
		{"Not urgent", entities.IssuePriorityMedium},
		{"Non-critical", entities.IssuePriorityMedium},
		{"P10", entities.IssuePriorityMedium},
		{"sev12", entities.IssuePriorityMedium},
		{"Non-critical, minor", entities.IssuePriorityLow},
	}
	for _, tt := range priorities {
		if got := MapVendorPriority(tt.raw); got != tt.want {
			t.Errorf("MapVendorPriority(%q) = %s, want %s", tt.raw, got, tt.want)
		}
	}
}
