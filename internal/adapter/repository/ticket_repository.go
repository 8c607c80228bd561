package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/johnquangdev/erp-issue-hub/internal/domain/entities"
	"github.com/johnquangdev/erp-issue-hub/internal/domain/repositories"
)

type vendorTicketRepository struct {
	db *gorm.DB
}

// NewVendorTicketRepository creates a new vendor ticket repository
func NewVendorTicketRepository(db *gorm.DB) repositories.VendorTicketRepository {
	return &vendorTicketRepository{db: db}
}

func (r *vendorTicketRepository) Create(ctx context.Context, ticket *entities.VendorTicket) error {
	return r.db.WithContext(ctx).Create(ticket).Error
}

func (r *vendorTicketRepository) FindByID(ctx context.Context, id uuid.UUID) (*entities.VendorTicket, error) {
	var ticket entities.VendorTicket
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&ticket).Error; err != nil {
		return nil, err
	}
	return &ticket, nil
}

func (r *vendorTicketRepository) Update(ctx context.Context, ticket *entities.VendorTicket) error {
	return r.db.WithContext(ctx).Save(ticket).Error
}

func (r *vendorTicketRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&entities.VendorTicket{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *vendorTicketRepository) List(ctx context.Context, issueID *uuid.UUID, vendor string) ([]*entities.VendorTicket, error) {
	var tickets []*entities.VendorTicket
	query := r.db.WithContext(ctx)
	if issueID != nil {
		query = query.Where("issue_id = ?", *issueID)
	}
	if vendor != "" {
		query = query.Where("LOWER(vendor) = LOWER(?)", vendor)
	}
	err := query.Order("created_at DESC").Find(&tickets).Error
	return tickets, err
}

// zendeskSyncColumns are refreshed from Zendesk on every sync. The local
// issue link and row identity are never overwritten.
var zendeskSyncColumns = []string{
	"subject", "description",
	"raw_status", "raw_priority", "raw_type",
	"status", "priority", "type",
	"requester_name", "requester_email", "assignee_name", "group_name",
	"tags", "url",
	"zendesk_created_at", "zendesk_updated_at", "last_synced_at",
	"updated_at",
}

type zendeskTicketRepository struct {
	db *gorm.DB
}

// NewZendeskTicketRepository creates a new Zendesk mirror repository
func NewZendeskTicketRepository(db *gorm.DB) repositories.ZendeskTicketRepository {
	return &zendeskTicketRepository{db: db}
}

// Upsert inserts new tickets and refreshes known ones by zendesk_id
func (r *zendeskTicketRepository) Upsert(ctx context.Context, tickets []*entities.ZendeskTicket) error {
	if len(tickets) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "zendesk_id"}},
			DoUpdates: clause.AssignmentColumns(zendeskSyncColumns),
		}).
		CreateInBatches(tickets, 100).Error
}

func (r *zendeskTicketRepository) FindByID(ctx context.Context, id uuid.UUID) (*entities.ZendeskTicket, error) {
	var ticket entities.ZendeskTicket
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&ticket).Error; err != nil {
		return nil, err
	}
	return &ticket, nil
}

func (r *zendeskTicketRepository) FindByZendeskID(ctx context.Context, zendeskID int64) (*entities.ZendeskTicket, error) {
	var ticket entities.ZendeskTicket
	if err := r.db.WithContext(ctx).Where("zendesk_id = ?", zendeskID).First(&ticket).Error; err != nil {
		return nil, err
	}
	return &ticket, nil
}

func (r *zendeskTicketRepository) Update(ctx context.Context, ticket *entities.ZendeskTicket) error {
	return r.db.WithContext(ctx).Save(ticket).Error
}

// ImportIssue creates the issue and claims the ticket only while it is unlinked
func (r *zendeskTicketRepository) ImportIssue(ctx context.Context, ticketID uuid.UUID, issue *entities.Issue) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := (&issueRepository{db: tx}).Create(ctx, issue); err != nil {
			return err
		}
		result := tx.Model(&entities.ZendeskTicket{}).
			Where("id = ? AND issue_id IS NULL", ticketID).
			Updates(map[string]interface{}{
				"issue_id":   issue.ID,
				"updated_at": time.Now(),
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected > 0 {
			return nil
		}

		var count int64
		if err := tx.Model(&entities.ZendeskTicket{}).Where("id = ?", ticketID).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return gorm.ErrRecordNotFound
		}
		return repositories.ErrTicketLinked
	})
}

func (r *zendeskTicketRepository) List(ctx context.Context, filters repositories.ZendeskTicketFilters) ([]*entities.ZendeskTicket, int64, error) {
	var tickets []*entities.ZendeskTicket
	var total int64

	query := r.db.WithContext(ctx).Model(&entities.ZendeskTicket{})
	if filters.Linked != nil {
		if *filters.Linked {
			query = query.Where("issue_id IS NOT NULL")
		} else {
			query = query.Where("issue_id IS NULL")
		}
	}
	if filters.Status != nil {
		query = query.Where("status = ?", *filters.Status)
	}
	if filters.Search != "" {
		searchPattern := fmt.Sprintf("%%%s%%", strings.ToLower(filters.Search))
		query = query.Where("LOWER(subject) LIKE ? OR LOWER(description) LIKE ?", searchPattern, searchPattern)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = query.Order("zendesk_updated_at DESC").Order("zendesk_id DESC")
	if filters.Limit > 0 {
		query = query.Limit(filters.Limit)
	}
	if filters.Offset > 0 {
		query = query.Offset(filters.Offset)
	}

	err := query.Find(&tickets).Error
	return tickets, total, err
}

func (r *zendeskTicketRepository) LastSyncedAt(ctx context.Context) (*time.Time, error) {
	var ticket entities.ZendeskTicket
	result := r.db.WithContext(ctx).
		Order("last_synced_at DESC").
		Limit(1).
		Find(&ticket)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, nil
	}
	at := ticket.LastSyncedAt
	return &at, nil
}
