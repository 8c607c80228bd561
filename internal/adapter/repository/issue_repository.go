package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/johnquangdev/erp-issue-hub/internal/domain/entities"
	"github.com/johnquangdev/erp-issue-hub/internal/domain/repositories"
)

var issueSortColumns = map[string]string{
	"updated_at": "updated_at",
	"created_at": "created_at",
	"priority":   "priority",
	"status":     "status",
	"title":      "title",
}

// issueRepository implements the IssueRepository interface
type issueRepository struct {
	db *gorm.DB
}

// NewIssueRepository creates a new issue repository
func NewIssueRepository(db *gorm.DB) repositories.IssueRepository {
	return &issueRepository{db: db}
}

// Create creates a new issue
func (r *issueRepository) Create(ctx context.Context, issue *entities.Issue) error {
	return r.db.WithContext(ctx).Omit("Category", "Notes", "ActionItems", "VendorTickets").Create(issue).Error
}

// FindByID retrieves an issue with its category
func (r *issueRepository) FindByID(ctx context.Context, id uuid.UUID) (*entities.Issue, error) {
	var issue entities.Issue
	err := r.db.WithContext(ctx).
		Preload("Category").
		Where("id = ?", id).
		First(&issue).Error

	if err != nil {
		return nil, err
	}
	return &issue, nil
}

// FindDetail retrieves an issue with everything it owns
func (r *issueRepository) FindDetail(ctx context.Context, id uuid.UUID) (*entities.Issue, error) {
	var issue entities.Issue
	err := r.db.WithContext(ctx).
		Preload("Category").
		Preload("Notes", func(db *gorm.DB) *gorm.DB { return db.Order("created_at DESC") }).
		Preload("ActionItems", func(db *gorm.DB) *gorm.DB { return db.Order("completed ASC, priority DESC, created_at ASC") }).
		Preload("VendorTickets", func(db *gorm.DB) *gorm.DB { return db.Order("created_at DESC") }).
		Where("id = ?", id).
		First(&issue).Error

	if err != nil {
		return nil, err
	}
	return &issue, nil
}

// Update saves all fields of an issue
func (r *issueRepository) Update(ctx context.Context, issue *entities.Issue) error {
	return r.db.WithContext(ctx).Omit("Category", "Notes", "ActionItems", "VendorTickets").Save(issue).Error
}

// Delete removes an issue and everything it owns; references from other
// aggregates are cleared rather than deleted.
func (r *issueRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("issue_id = ?", id).Delete(&entities.Note{}).Error; err != nil {
			return err
		}
		if err := tx.Where("issue_id = ?", id).Delete(&entities.VendorTicket{}).Error; err != nil {
			return err
		}
		if err := tx.Where("issue_id = ?", id).Delete(&entities.ActionItem{}).Error; err != nil {
			return err
		}
		if err := tx.Where("issue_id = ?", id).Delete(&entities.MeetingItem{}).Error; err != nil {
			return err
		}
		if err := tx.Model(&entities.ActionItem{}).
			Where("original_issue_id = ?", id).
			Update("original_issue_id", nil).Error; err != nil {
			return err
		}
		if err := tx.Model(&entities.ZendeskTicket{}).
			Where("issue_id = ?", id).
			Update("issue_id", nil).Error; err != nil {
			return err
		}
		if err := tx.Model(&entities.EmailDraft{}).
			Where("issue_id = ?", id).
			Update("issue_id", nil).Error; err != nil {
			return err
		}

		result := tx.Delete(&entities.Issue{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

// List retrieves issues with filters and pagination
func (r *issueRepository) List(ctx context.Context, filters repositories.IssueFilters) ([]*entities.Issue, int64, error) {
	var issues []*entities.Issue
	var total int64

	query := r.db.WithContext(ctx).Model(&entities.Issue{})

	// Apply filters
	if len(filters.Statuses) > 0 {
		query = query.Where("status IN ?", filters.Statuses)
	}
	if filters.Priority != nil {
		query = query.Where("priority = ?", *filters.Priority)
	}
	if filters.CategoryID != nil {
		query = query.Where("category_id = ?", *filters.CategoryID)
	}
	if filters.Archived != nil {
		query = query.Where("archived = ?", *filters.Archived)
	}
	if filters.AssignedTo != "" {
		query = query.Where("assigned_to = ?", filters.AssignedTo)
	}
	if filters.Search != "" {
		searchPattern := fmt.Sprintf("%%%s%%", strings.ToLower(filters.Search))
		query = query.Where("LOWER(title) LIKE ? OR LOWER(description) LIKE ?", searchPattern, searchPattern)
	}

	// Count total
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	// Apply sorting
	sortBy, ok := issueSortColumns[filters.SortBy]
	if !ok {
		sortBy = "updated_at"
	}
	sortOrder := "DESC"
	if strings.EqualFold(filters.SortOrder, "asc") {
		sortOrder = "ASC"
	}
	query = query.Order(fmt.Sprintf("%s %s", sortBy, sortOrder)).Order("id ASC")

	// Apply pagination
	if filters.Limit > 0 {
		query = query.Limit(filters.Limit)
	}
	if filters.Offset > 0 {
		query = query.Offset(filters.Offset)
	}

	err := query.Preload("Category").Find(&issues).Error
	return issues, total, err
}

// Exists reports whether an issue with the id exists
func (r *issueRepository) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entities.Issue{}).Where("id = ?", id).Count(&count).Error
	return count > 0, err
}
