package email

import (
	"context"
	_ "embed"
	"fmt"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/johnquangdev/erp-issue-hub/internal/domain/entities"
)

//go:embed defaults.yaml
var defaultTemplatesYAML []byte

type templateSeed struct {
	Templates []entities.EmailTemplate `yaml:"templates"`
}

// DefaultTemplates parses the built-in template set
func DefaultTemplates() ([]entities.EmailTemplate, error) {
	var seed templateSeed
	if err := yaml.Unmarshal(defaultTemplatesYAML, &seed); err != nil {
		return nil, fmt.Errorf("failed to parse default templates: %w", err)
	}
	return seed.Templates, nil
}

// SeedDefaultTemplates installs the built-in templates when none exist.
// It returns the number of templates created.
func (s *EmailService) SeedDefaultTemplates(ctx context.Context) (int, error) {
	count, err := s.templateRepo.Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to count email templates: %w", err)
	}
	if count > 0 {
		return 0, nil
	}

	defaults, err := DefaultTemplates()
	if err != nil {
		return 0, err
	}
	for i := range defaults {
		if err := s.templateRepo.Create(ctx, &defaults[i]); err != nil {
			return i, fmt.Errorf("failed to seed template %q: %w", defaults[i].Name, err)
		}
	}

	s.logger.Info("email_template.seeded", zap.Int("count", len(defaults)))
	return len(defaults), nil
}
