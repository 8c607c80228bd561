package email

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/yuin/goldmark"
	"go.uber.org/zap"

	"github.com/johnquangdev/erp-issue-hub/internal/domain/repositories"
	"github.com/johnquangdev/erp-issue-hub/internal/usecase/ai"
	usecaseErrors "github.com/johnquangdev/erp-issue-hub/internal/usecase/errors"
)

// EmailService implements templates, drafts and LLM-assisted writing
type EmailService struct {
	templateRepo repositories.EmailTemplateRepository
	draftRepo    repositories.EmailDraftRepository
	issueRepo    repositories.IssueRepository
	assistant    ai.Service
	markdown     goldmark.Markdown
	logger       *zap.Logger
	now          func() time.Time
}

// NewEmailService creates a new email service
func NewEmailService(
	templateRepo repositories.EmailTemplateRepository,
	draftRepo repositories.EmailDraftRepository,
	issueRepo repositories.IssueRepository,
	assistant ai.Service,
	logger *zap.Logger,
) *EmailService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EmailService{
		templateRepo: templateRepo,
		draftRepo:    draftRepo,
		issueRepo:    issueRepo,
		assistant:    assistant,
		markdown:     goldmark.New(),
		logger:       logger,
		now:          time.Now,
	}
}

func (s *EmailService) ensureIssue(ctx context.Context, id *uuid.UUID) error {
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

func (s *EmailService) ensureTemplate(ctx context.Context, id *uuid.UUID) error {
	if id == nil {
		return nil
	}
	_, err := s.GetTemplate(ctx, *id)
	return err
}

// cleanRecipients trims addresses and drops blanks and duplicates
func cleanRecipients(in []string) []string {
	out := make([]string, 0, len(in))
	seen := make(map[string]struct{}, len(in))
	for _, r := range in {
		r = strings.TrimSpace(r)
		if r == "" {
			continue
		}
		key := strings.ToLower(r)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, r)
	}
	return out
}
