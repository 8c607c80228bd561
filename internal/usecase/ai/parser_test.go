package ai

import (
	"testing"

	"github.com/johnquangdev/erp-issue-hub/internal/domain/entities"
)

func TestParseClassification(t *testing.T) {
	p := NewParser()

	tests := []struct {
		name     string
		content  string
		wantErr  bool
		priority entities.IssuePriority
		typ      entities.TicketType
	}{
		{"plain json", `{"priority":"HIGH","type":"INCIDENT","reason":"outage"}`, false, entities.IssuePriorityHigh, entities.TicketTypeIncident},
		{"fenced lowercase", "```json\n{\"priority\":\"urgent\",\"type\":\"problem\"}\n```", false, entities.IssuePriorityUrgent, entities.TicketTypeProblem},
		{"unknown priority", `{"priority":"P0","type":"TASK"}`, true, "", ""},
		{"not json", "I think this is high priority", true, "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := p.ParseClassification(tt.content)
			if (err != nil) != tt.wantErr {
				t.Fatalf("error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if got.Priority != tt.priority || got.Type != tt.typ {
				t.Fatalf("got %s/%s", got.Priority, got.Type)
			}
		})
	}
}

func TestParseEmailDraft(t *testing.T) {
	p := NewParser()

	d := p.ParseEmailDraft("Subject: Payroll export delayed\n\nHi team,\n\nThe export is delayed.")
	if d.Subject != "Payroll export delayed" {
		t.Fatalf("unexpected subject %q", d.Subject)
	}
	if d.Body != "Hi team,\n\nThe export is delayed." {
		t.Fatalf("unexpected body %q", d.Body)
	}

	d = p.ParseEmailDraft("```markdown\nHello only body\n```")
	if d.Subject != "" || d.Body != "Hello only body" {
		t.Fatalf("unexpected draft %+v", d)
	}
}
