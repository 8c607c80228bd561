package issue

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

// IssueService handles issue, category and note business logic
type IssueService struct {
	issueRepo    repositories.IssueRepository
	categoryRepo repositories.CategoryRepository
	noteRepo     repositories.NoteRepository
	logger       *zap.Logger
	now          func() time.Time
}

// NewIssueService creates a new issue service
func NewIssueService(
	issueRepo repositories.IssueRepository,
	categoryRepo repositories.CategoryRepository,
	noteRepo repositories.NoteRepository,
	logger *zap.Logger,
) *IssueService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &IssueService{
		issueRepo:    issueRepo,
		categoryRepo: categoryRepo,
		noteRepo:     noteRepo,
		logger:       logger,
		now:          time.Now,
	}
}

// CreateIssueInput represents input for creating an issue
type CreateIssueInput struct {
	Title       string
	Description string
	Priority    entities.IssuePriority
	Status      entities.IssueStatus
	CategoryID  *uuid.UUID
	AssignedTo  *string
}

// CreateIssue creates a new issue
func (s *IssueService) CreateIssue(ctx context.Context, input CreateIssueInput) (*entities.Issue, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, usecaseErrors.ErrBlankTitle
	}

	issue := &entities.Issue{
		Title:       title,
		Description: input.Description,
		Priority:    entities.IssuePriorityMedium,
		Status:      entities.IssueStatusOpen,
		AssignedTo:  normalizeOptional(input.AssignedTo),
	}
	if input.Priority != "" {
		if err := issue.SetPriority(input.Priority); err != nil {
			return nil, usecaseErrors.ErrInvalidPriority
		}
	}
	if input.Status != "" {
		if err := issue.SetStatus(input.Status, s.now()); err != nil {
			return nil, usecaseErrors.ErrInvalidStatus
		}
	}
	if input.CategoryID != nil {
		if err := s.ensureCategory(ctx, *input.CategoryID); err != nil {
			return nil, err
		}
		issue.CategoryID = input.CategoryID
	}

	if err := s.issueRepo.Create(ctx, issue); err != nil {
		return nil, fmt.Errorf("failed to create issue: %w", err)
	}

	s.logger.Info("issue.created",
		zap.String("issue_id", issue.ID.String()),
		zap.String("priority", string(issue.Priority)),
	)
	return s.GetIssue(ctx, issue.ID)
}

// GetIssue retrieves an issue by ID with everything it owns
func (s *IssueService) GetIssue(ctx context.Context, id uuid.UUID) (*entities.Issue, error) {
	issue, err := s.issueRepo.FindDetail(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, usecaseErrors.ErrIssueNotFound
		}
		return nil, fmt.Errorf("failed to get issue: %w", err)
	}
	return issue, nil
}

// ListIssues retrieves issues with filters. Archived issues are hidden unless asked for.
func (s *IssueService) ListIssues(ctx context.Context, filters repositories.IssueFilters) ([]*entities.Issue, int64, error) {
	if filters.Archived == nil {
		archived := false
		filters.Archived = &archived
	}
	issues, total, err := s.issueRepo.List(ctx, filters)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list issues: %w", err)
	}
	return issues, total, nil
}

// ListResolvedIssues retrieves resolved issues, archived ones included
func (s *IssueService) ListResolvedIssues(ctx context.Context, limit, offset int) ([]*entities.Issue, int64, error) {
	issues, total, err := s.issueRepo.List(ctx, repositories.IssueFilters{
		Statuses: []entities.IssueStatus{entities.IssueStatusResolved},
		Limit:    limit,
		Offset:   offset,
		SortBy:   "updated_at",
	})
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list resolved issues: %w", err)
	}
	return issues, total, nil
}

// UpdateIssueInput represents a partial issue update; nil fields are left untouched
type UpdateIssueInput struct {
	Title         *string
	Description   *string
	Priority      *entities.IssuePriority
	Status        *entities.IssueStatus
	CategoryID    *uuid.UUID
	ClearCategory bool
	AssignedTo    *string
}

// UpdateIssue applies a partial update
func (s *IssueService) UpdateIssue(ctx context.Context, id uuid.UUID, input UpdateIssueInput) (*entities.Issue, error) {
	issue, err := s.findIssue(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Title != nil {
		title := strings.TrimSpace(*input.Title)
		if title == "" {
			return nil, usecaseErrors.ErrBlankTitle
		}
		issue.Title = title
	}
	if input.Description != nil {
		issue.Description = *input.Description
	}
	if input.Priority != nil {
		if err := issue.SetPriority(*input.Priority); err != nil {
			return nil, usecaseErrors.ErrInvalidPriority
		}
	}
	if input.Status != nil {
		if err := issue.SetStatus(*input.Status, s.now()); err != nil {
			return nil, usecaseErrors.ErrInvalidStatus
		}
	}
	switch {
	case input.ClearCategory:
		issue.CategoryID = nil
	case input.CategoryID != nil:
		if err := s.ensureCategory(ctx, *input.CategoryID); err != nil {
			return nil, err
		}
		issue.CategoryID = input.CategoryID
	}
	if input.AssignedTo != nil {
		issue.AssignedTo = normalizeOptional(input.AssignedTo)
	}
	issue.Category = nil

	if err := s.issueRepo.Update(ctx, issue); err != nil {
		return nil, fmt.Errorf("failed to update issue: %w", err)
	}

	s.logger.Info("issue.updated",
		zap.String("issue_id", issue.ID.String()),
		zap.String("status", string(issue.Status)),
	)
	return s.GetIssue(ctx, id)
}

// DeleteIssue removes an issue
func (s *IssueService) DeleteIssue(ctx context.Context, id uuid.UUID) error {
	if err := s.issueRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return usecaseErrors.ErrIssueNotFound
		}
		return fmt.Errorf("failed to delete issue: %w", err)
	}
	s.logger.Info("issue.deleted", zap.String("issue_id", id.String()))
	return nil
}

// SetArchived archives or unarchives an issue
func (s *IssueService) SetArchived(ctx context.Context, id uuid.UUID, archived bool) (*entities.Issue, error) {
	issue, err := s.findIssue(ctx, id)
	if err != nil {
		return nil, err
	}
	if issue.Archived != archived {
		issue.Archived = archived
		issue.Category = nil
		if err := s.issueRepo.Update(ctx, issue); err != nil {
			return nil, fmt.Errorf("failed to archive issue: %w", err)
		}
	}
	return s.GetIssue(ctx, id)
}

func (s *IssueService) findIssue(ctx context.Context, id uuid.UUID) (*entities.Issue, error) {
	issue, err := s.issueRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, usecaseErrors.ErrIssueNotFound
		}
		return nil, fmt.Errorf("failed to get issue: %w", err)
	}
	return issue, nil
}

func (s *IssueService) ensureCategory(ctx context.Context, id uuid.UUID) error {
	if _, err := s.categoryRepo.FindByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return usecaseErrors.ErrCategoryNotFound
		}
		return fmt.Errorf("failed to get category: %w", err)
	}
	return nil
}

// normalizeOptional turns blank strings into nil
func normalizeOptional(v *string) *string {
	if v == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*v)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
