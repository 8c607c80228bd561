package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/johnquangdev/erp-issue-hub/internal/domain/entities"
	"github.com/johnquangdev/erp-issue-hub/internal/domain/repositories"
)

type emailTemplateRepository struct {
	db *gorm.DB
}

// NewEmailTemplateRepository creates a new email template repository
func NewEmailTemplateRepository(db *gorm.DB) repositories.EmailTemplateRepository {
	return &emailTemplateRepository{db: db}
}

func (r *emailTemplateRepository) Create(ctx context.Context, template *entities.EmailTemplate) error {
	return r.db.WithContext(ctx).Create(template).Error
}

func (r *emailTemplateRepository) FindByID(ctx context.Context, id uuid.UUID) (*entities.EmailTemplate, error) {
	var template entities.EmailTemplate
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&template).Error; err != nil {
		return nil, err
	}
	return &template, nil
}

func (r *emailTemplateRepository) Update(ctx context.Context, template *entities.EmailTemplate) error {
	return r.db.WithContext(ctx).Save(template).Error
}

func (r *emailTemplateRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&entities.EmailDraft{}).
			Where("template_id = ?", id).
			Update("template_id", nil).Error; err != nil {
			return err
		}
		result := tx.Delete(&entities.EmailTemplate{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

func (r *emailTemplateRepository) List(ctx context.Context, category string) ([]*entities.EmailTemplate, error) {
	var templates []*entities.EmailTemplate
	query := r.db.WithContext(ctx)
	if category != "" {
		query = query.Where("category = ?", category)
	}
	err := query.Order("category ASC, name ASC").Find(&templates).Error
	return templates, err
}

func (r *emailTemplateRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entities.EmailTemplate{}).Count(&count).Error
	return count, err
}

type emailDraftRepository struct {
	db *gorm.DB
}

// NewEmailDraftRepository creates a new email draft repository
func NewEmailDraftRepository(db *gorm.DB) repositories.EmailDraftRepository {
	return &emailDraftRepository{db: db}
}

func (r *emailDraftRepository) Create(ctx context.Context, draft *entities.EmailDraft) error {
	return r.db.WithContext(ctx).Create(draft).Error
}

func (r *emailDraftRepository) FindByID(ctx context.Context, id uuid.UUID) (*entities.EmailDraft, error) {
	var draft entities.EmailDraft
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&draft).Error; err != nil {
		return nil, err
	}
	return &draft, nil
}

func (r *emailDraftRepository) Update(ctx context.Context, draft *entities.EmailDraft) error {
	return r.db.WithContext(ctx).Save(draft).Error
}

func (r *emailDraftRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&entities.EmailDraft{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *emailDraftRepository) List(ctx context.Context, filters repositories.EmailDraftFilters) ([]*entities.EmailDraft, error) {
	var drafts []*entities.EmailDraft
	query := r.db.WithContext(ctx)
	if filters.Status != nil {
		query = query.Where("status = ?", *filters.Status)
	}
	if filters.IssueID != nil {
		query = query.Where("issue_id = ?", *filters.IssueID)
	}
	if filters.Limit > 0 {
		query = query.Limit(filters.Limit)
	}
	if filters.Offset > 0 {
		query = query.Offset(filters.Offset)
	}
	err := query.Order("updated_at DESC").Find(&drafts).Error
	return drafts, err
}
