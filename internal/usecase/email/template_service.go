package email

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/johnquangdev/erp-issue-hub/internal/domain/entities"
	usecaseErrors "github.com/johnquangdev/erp-issue-hub/internal/usecase/errors"
)

// TemplateInput represents input for creating or replacing a template
type TemplateInput struct {
	Name        string
	Category    string
	Description string
	Subject     string
	Body        string
}

func (in TemplateInput) validate() error {
	if strings.TrimSpace(in.Name) == "" || strings.TrimSpace(in.Subject) == "" || strings.TrimSpace(in.Body) == "" {
		return usecaseErrors.ErrInvalidInput
	}
	return nil
}

func (in TemplateInput) apply(t *entities.EmailTemplate) {
	t.Name = strings.TrimSpace(in.Name)
	t.Category = strings.TrimSpace(in.Category)
	t.Description = in.Description
	t.Subject = strings.TrimSpace(in.Subject)
	t.Body = in.Body
}

// CreateTemplate stores a new template with a unique name
func (s *EmailService) CreateTemplate(ctx context.Context, input TemplateInput) (*entities.EmailTemplate, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}
	if err := s.ensureTemplateNameFree(ctx, input.Name, uuid.Nil); err != nil {
		return nil, err
	}

	template := &entities.EmailTemplate{}
	input.apply(template)
	if err := s.templateRepo.Create(ctx, template); err != nil {
		return nil, fmt.Errorf("failed to create email template: %w", err)
	}
	s.logger.Info("email_template.created",
		zap.String("template_id", template.ID.String()),
		zap.String("name", template.Name),
	)
	return template, nil
}

// GetTemplate retrieves a template by ID
func (s *EmailService) GetTemplate(ctx context.Context, id uuid.UUID) (*entities.EmailTemplate, error) {
	template, err := s.templateRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, usecaseErrors.ErrTemplateNotFound
		}
		return nil, fmt.Errorf("failed to get email template: %w", err)
	}
	return template, nil
}

// ListTemplates lists templates, optionally for one category
func (s *EmailService) ListTemplates(ctx context.Context, category string) ([]*entities.EmailTemplate, error) {
	templates, err := s.templateRepo.List(ctx, strings.TrimSpace(category))
	if err != nil {
		return nil, fmt.Errorf("failed to list email templates: %w", err)
	}
	return templates, nil
}

// UpdateTemplate replaces a template's fields
func (s *EmailService) UpdateTemplate(ctx context.Context, id uuid.UUID, input TemplateInput) (*entities.EmailTemplate, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}
	template, err := s.GetTemplate(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.ensureTemplateNameFree(ctx, input.Name, id); err != nil {
		return nil, err
	}

	input.apply(template)
	if err := s.templateRepo.Update(ctx, template); err != nil {
		return nil, fmt.Errorf("failed to update email template: %w", err)
	}
	return template, nil
}

// DeleteTemplate removes a template; drafts built from it keep their content
func (s *EmailService) DeleteTemplate(ctx context.Context, id uuid.UUID) error {
	if err := s.templateRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return usecaseErrors.ErrTemplateNotFound
		}
		return fmt.Errorf("failed to delete email template: %w", err)
	}
	return nil
}

func (s *EmailService) ensureTemplateNameFree(ctx context.Context, name string, self uuid.UUID) error {
	templates, err := s.templateRepo.List(ctx, "")
	if err != nil {
		return fmt.Errorf("failed to check template name: %w", err)
	}
	name = strings.TrimSpace(name)
	for _, t := range templates {
		if t.ID != self && strings.EqualFold(t.Name, name) {
			return usecaseErrors.ErrAlreadyExists
		}
	}
	return nil
}
