package email

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/johnquangdev/erp-issue-hub/internal/domain/entities"
	"github.com/johnquangdev/erp-issue-hub/internal/domain/repositories"
	"github.com/johnquangdev/erp-issue-hub/internal/usecase/ai"
	usecaseErrors "github.com/johnquangdev/erp-issue-hub/internal/usecase/errors"
)

// DraftInput represents input for creating or replacing a draft
type DraftInput struct {
	Subject    string
	Body       string
	Recipients []string
	IssueID    *uuid.UUID
	TemplateID *uuid.UUID
}

// CreateDraft stores a new draft
func (s *EmailService) CreateDraft(ctx context.Context, input DraftInput) (*entities.EmailDraft, error) {
	if strings.TrimSpace(input.Subject) == "" {
		return nil, usecaseErrors.ErrInvalidInput
	}
	if err := s.ensureIssue(ctx, input.IssueID); err != nil {
		return nil, err
	}
	if err := s.ensureTemplate(ctx, input.TemplateID); err != nil {
		return nil, err
	}

	draft := &entities.EmailDraft{Status: entities.EmailDraftStatusDraft}
	applyDraft(draft, input)
	if err := s.draftRepo.Create(ctx, draft); err != nil {
		return nil, fmt.Errorf("failed to create email draft: %w", err)
	}
	return draft, nil
}

// GetDraft retrieves a draft by ID
func (s *EmailService) GetDraft(ctx context.Context, id uuid.UUID) (*entities.EmailDraft, error) {
	draft, err := s.draftRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, usecaseErrors.ErrDraftNotFound
		}
		return nil, fmt.Errorf("failed to get email draft: %w", err)
	}
	return draft, nil
}

// ListDrafts lists drafts, newest edit first
func (s *EmailService) ListDrafts(ctx context.Context, filters repositories.EmailDraftFilters) ([]*entities.EmailDraft, error) {
	drafts, err := s.draftRepo.List(ctx, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list email drafts: %w", err)
	}
	return drafts, nil
}

// UpdateDraft replaces a draft's content. Sent drafts are read-only.
func (s *EmailService) UpdateDraft(ctx context.Context, id uuid.UUID, input DraftInput) (*entities.EmailDraft, error) {
	if strings.TrimSpace(input.Subject) == "" {
		return nil, usecaseErrors.ErrInvalidInput
	}
	draft, err := s.GetDraft(ctx, id)
	if err != nil {
		return nil, err
	}
	if draft.Status == entities.EmailDraftStatusSent {
		return nil, usecaseErrors.ErrDraftAlreadySent
	}
	if err := s.ensureIssue(ctx, input.IssueID); err != nil {
		return nil, err
	}
	if err := s.ensureTemplate(ctx, input.TemplateID); err != nil {
		return nil, err
	}

	applyDraft(draft, input)
	if err := s.draftRepo.Update(ctx, draft); err != nil {
		return nil, fmt.Errorf("failed to update email draft: %w", err)
	}
	return draft, nil
}

// DeleteDraft removes a draft
func (s *EmailService) DeleteDraft(ctx context.Context, id uuid.UUID) error {
	if err := s.draftRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return usecaseErrors.ErrDraftNotFound
		}
		return fmt.Errorf("failed to delete email draft: %w", err)
	}
	return nil
}

// MarkSent records that a draft went out. Marking twice keeps the first SentAt.
func (s *EmailService) MarkSent(ctx context.Context, id uuid.UUID) (*entities.EmailDraft, error) {
	draft, err := s.GetDraft(ctx, id)
	if err != nil {
		return nil, err
	}
	if draft.Status == entities.EmailDraftStatusSent {
		return draft, nil
	}

	draft.MarkSent(s.now())
	if err := s.draftRepo.Update(ctx, draft); err != nil {
		return nil, fmt.Errorf("failed to mark email draft sent: %w", err)
	}
	s.logger.Info("email_draft.sent", zap.String("draft_id", draft.ID.String()))
	return draft, nil
}

// Preview is a draft rendered for display
type Preview struct {
	Subject    string   `json:"subject"`
	Recipients []string `json:"recipients"`
	HTML       string   `json:"html"`
}

// PreviewDraft renders the draft body from Markdown to HTML
func (s *EmailService) PreviewDraft(ctx context.Context, id uuid.UUID) (*Preview, error) {
	draft, err := s.GetDraft(ctx, id)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := s.markdown.Convert([]byte(draft.Body), &buf); err != nil {
		return nil, fmt.Errorf("failed to render email draft: %w", err)
	}
	recipients := []string(draft.Recipients)
	if recipients == nil {
		recipients = []string{}
	}
	return &Preview{Subject: draft.Subject, Recipients: recipients, HTML: buf.String()}, nil
}

// GenerateInput represents a request for an LLM-written draft
type GenerateInput struct {
	IssueID      uuid.UUID
	TemplateID   *uuid.UUID
	Recipients   []string
	Instructions string
	Tone         string
}

// GenerateDraft asks the LLM for an email about an issue and stores it as a draft
func (s *EmailService) GenerateDraft(ctx context.Context, input GenerateInput) (*entities.EmailDraft, error) {
	if s.assistant == nil || !s.assistant.Enabled() {
		return nil, usecaseErrors.ErrLLMDisabled
	}

	issue, err := s.issueRepo.FindByID(ctx, input.IssueID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, usecaseErrors.ErrIssueNotFound
		}
		return nil, fmt.Errorf("failed to get issue: %w", err)
	}
	var template *entities.EmailTemplate
	if input.TemplateID != nil {
		if template, err = s.GetTemplate(ctx, *input.TemplateID); err != nil {
			return nil, err
		}
	}

	result, err := s.assistant.DraftEmail(ctx, ai.DraftRequest{
		Issue:        issue,
		Template:     template,
		Instructions: input.Instructions,
		Tone:         input.Tone,
	})
	if err != nil {
		return nil, err
	}

	draft := &entities.EmailDraft{
		Subject:       result.Subject,
		Body:          result.Body,
		Recipients:    datatypes.JSONSlice[string](cleanRecipients(input.Recipients)),
		IssueID:       &issue.ID,
		TemplateID:    input.TemplateID,
		Status:        entities.EmailDraftStatusDraft,
		GeneratedByAI: true,
	}
	if strings.TrimSpace(draft.Subject) == "" {
		draft.Subject = issue.Title
	}
	if err := s.draftRepo.Create(ctx, draft); err != nil {
		return nil, fmt.Errorf("failed to store generated draft: %w", err)
	}

	s.logger.Info("email_draft.generated",
		zap.String("draft_id", draft.ID.String()),
		zap.String("issue_id", issue.ID.String()),
	)
	return draft, nil
}

// ImproveInput represents a rewrite request
type ImproveInput struct {
	Text         string
	Tone         string
	Instructions string
}

// ImproveText rewrites text through the LLM
func (s *EmailService) ImproveText(ctx context.Context, input ImproveInput) (string, error) {
	if s.assistant == nil || !s.assistant.Enabled() {
		return "", usecaseErrors.ErrLLMDisabled
	}
	return s.assistant.ImproveText(ctx, input.Text, input.Tone, input.Instructions)
}

func applyDraft(d *entities.EmailDraft, in DraftInput) {
	d.Subject = strings.TrimSpace(in.Subject)
	d.Body = in.Body
	d.Recipients = datatypes.JSONSlice[string](cleanRecipients(in.Recipients))
	d.IssueID = in.IssueID
	d.TemplateID = in.TemplateID
}
