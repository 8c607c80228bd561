package ai

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/johnquangdev/erp-issue-hub/internal/domain/entities"
	usecaseErrors "github.com/johnquangdev/erp-issue-hub/internal/usecase/errors"
	pkgai "github.com/johnquangdev/erp-issue-hub/pkg/ai"
)

// Service defines the LLM-backed assistance used by email and ticket flows
type Service interface {
	// Enabled reports whether an LLM is configured
	Enabled() bool

	// DraftEmail writes a stakeholder email about an issue
	DraftEmail(ctx context.Context, req DraftRequest) (*DraftResult, error)

	// ImproveText rewrites text in the requested tone
	ImproveText(ctx context.Context, text, tone, instructions string) (string, error)

	// ClassifyTicket suggests a priority and type for a support ticket
	ClassifyTicket(ctx context.Context, ticket TicketInfo) (*Classification, error)
}

// DraftRequest holds the material for an email draft
type DraftRequest struct {
	Issue        *entities.Issue
	Template     *entities.EmailTemplate
	Instructions string
	Tone         string
}

// DraftResult is a parsed email draft
type DraftResult struct {
	Subject string
	Body    string
}

// TicketInfo is what the model sees of a ticket
type TicketInfo struct {
	Subject     string
	Description string
	Tags        []string
	RawPriority string
	RawType     string
}

// Classification is a suggested priority and type
type Classification struct {
	Priority entities.IssuePriority `json:"priority"`
	Type     entities.TicketType    `json:"type"`
	Reason   string                 `json:"reason"`
}

// AIService implements Service on top of a chat completer
type AIService struct {
	completer pkgai.Completer
	parser    *Parser
	logger    *zap.Logger
}

var _ Service = (*AIService)(nil)

// NewAIService creates the assistant. A nil completer disables it.
func NewAIService(completer pkgai.Completer, logger *zap.Logger) *AIService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AIService{
		completer: completer,
		parser:    NewParser(),
		logger:    logger,
	}
}

// Enabled reports whether an LLM is configured
func (s *AIService) Enabled() bool {
	return s != nil && s.completer != nil
}

const draftSystemPrompt = `You write concise, professional emails to business stakeholders about ERP system issues.
Reply with the subject on the first line prefixed by "Subject:", a blank line, then the email body in Markdown.
Do not invent facts that are not in the provided issue details.`

// DraftEmail writes a stakeholder email about an issue
func (s *AIService) DraftEmail(ctx context.Context, req DraftRequest) (*DraftResult, error) {
	if !s.Enabled() {
		return nil, usecaseErrors.ErrLLMDisabled
	}

	var b strings.Builder
	if req.Issue != nil {
		writeIssue(&b, req.Issue)
	}
	if req.Template != nil {
		fmt.Fprintf(&b, "\nStart from this template (keep its structure):\nSubject: %s\n\n%s\n", req.Template.Subject, req.Template.Body)
	}
	if tone := strings.TrimSpace(req.Tone); tone != "" {
		fmt.Fprintf(&b, "\nTone: %s\n", tone)
	}
	if instr := strings.TrimSpace(req.Instructions); instr != "" {
		fmt.Fprintf(&b, "\nAdditional instructions: %s\n", instr)
	}
	if b.Len() == 0 {
		return nil, usecaseErrors.ErrInvalidInput
	}

	content, err := s.completer.Complete(ctx, []pkgai.Message{
		pkgai.System(draftSystemPrompt),
		pkgai.User(b.String()),
	}, 0.4)
	if err != nil {
		s.logger.Warn("ai.draft_email.failed", zap.Error(err))
		return nil, fmt.Errorf("%w: %v", usecaseErrors.ErrLLMFailed, err)
	}

	draft := s.parser.ParseEmailDraft(content)
	if draft.Subject == "" && req.Template != nil {
		draft.Subject = req.Template.Subject
	}
	if draft.Subject == "" && req.Issue != nil {
		draft.Subject = req.Issue.Title
	}
	return draft, nil
}

// ImproveText rewrites text in the requested tone
func (s *AIService) ImproveText(ctx context.Context, text, tone, instructions string) (string, error) {
	if !s.Enabled() {
		return "", usecaseErrors.ErrLLMDisabled
	}
	if strings.TrimSpace(text) == "" {
		return "", usecaseErrors.ErrInvalidInput
	}
	if strings.TrimSpace(tone) == "" {
		tone = "professional"
	}

	prompt := fmt.Sprintf("Rewrite the following email text in a %s tone. Keep the meaning and any Markdown formatting. Reply with the rewritten text only.", tone)
	if instr := strings.TrimSpace(instructions); instr != "" {
		prompt += "\nAdditional instructions: " + instr
	}

	content, err := s.completer.Complete(ctx, []pkgai.Message{
		pkgai.System(prompt),
		pkgai.User(text),
	}, 0.3)
	if err != nil {
		s.logger.Warn("ai.improve_text.failed", zap.Error(err))
		return "", fmt.Errorf("%w: %v", usecaseErrors.ErrLLMFailed, err)
	}
	return extractJSON(content), nil
}

const classifySystemPrompt = `You triage ERP support tickets.
Reply with JSON only: {"priority": "LOW|MEDIUM|HIGH|URGENT", "type": "PROBLEM|INCIDENT|QUESTION|TASK", "reason": "<one sentence>"}.`

// ClassifyTicket suggests a priority and type for a support ticket
func (s *AIService) ClassifyTicket(ctx context.Context, ticket TicketInfo) (*Classification, error) {
	if !s.Enabled() {
		return nil, usecaseErrors.ErrLLMDisabled
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Subject: %s\n", ticket.Subject)
	if len(ticket.Tags) > 0 {
		fmt.Fprintf(&b, "Tags: %s\n", strings.Join(ticket.Tags, ", "))
	}
	if ticket.RawPriority != "" {
		fmt.Fprintf(&b, "Reported priority: %s\n", ticket.RawPriority)
	}
	if ticket.RawType != "" {
		fmt.Fprintf(&b, "Reported type: %s\n", ticket.RawType)
	}
	fmt.Fprintf(&b, "\n%s\n", truncate(ticket.Description, 4000))

	content, err := s.completer.Complete(ctx, []pkgai.Message{
		pkgai.System(classifySystemPrompt),
		pkgai.User(b.String()),
	}, 0)
	if err != nil {
		s.logger.Warn("ai.classify_ticket.failed", zap.Error(err))
		return nil, fmt.Errorf("%w: %v", usecaseErrors.ErrLLMFailed, err)
	}
	return s.parser.ParseClassification(content)
}

func writeIssue(b *strings.Builder, issue *entities.Issue) {
	fmt.Fprintf(b, "Issue: %s\n", issue.Title)
	fmt.Fprintf(b, "Status: %s\nPriority: %s\n", issue.Status, issue.Priority)
	if issue.Category != nil {
		fmt.Fprintf(b, "Area: %s\n", issue.Category.Name)
	}
	if issue.AssignedTo != nil {
		fmt.Fprintf(b, "Owner: %s\n", *issue.AssignedTo)
	}
	if d := strings.TrimSpace(issue.Description); d != "" {
		fmt.Fprintf(b, "\nDescription:\n%s\n", truncate(d, 4000))
	}

	notes := issue.Notes
	if len(notes) > 10 {
		notes = notes[:10]
	}
	if len(notes) > 0 {
		b.WriteString("\nRecent notes:\n")
		for _, n := range notes {
			fmt.Fprintf(b, "- [%s %s] %s\n", n.CreatedAt.Format("2006-01-02"), n.Kind, truncate(n.Content, 500))
		}
	}
	for _, vt := range issue.VendorTickets {
		fmt.Fprintf(b, "Vendor ticket: %s #%s (%s)\n", vt.Vendor, vt.TicketNumber, vt.Status)
	}
}

func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max]) + "..."
}
