package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/johnquangdev/erp-issue-hub/internal/domain/entities"
	"github.com/johnquangdev/erp-issue-hub/internal/domain/repositories"
)

type noteRepository struct {
	db *gorm.DB
}

// NewNoteRepository creates a new issue note repository
func NewNoteRepository(db *gorm.DB) repositories.NoteRepository {
	return &noteRepository{db: db}
}

func (r *noteRepository) Create(ctx context.Context, note *entities.Note) error {
	return r.db.WithContext(ctx).Create(note).Error
}

func (r *noteRepository) FindByID(ctx context.Context, id uuid.UUID) (*entities.Note, error) {
	var note entities.Note
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&note).Error; err != nil {
		return nil, err
	}
	return &note, nil
}

func (r *noteRepository) Update(ctx context.Context, note *entities.Note) error {
	return r.db.WithContext(ctx).Save(note).Error
}

func (r *noteRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&entities.Note{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// ListByIssue returns notes newest first, optionally of one kind
func (r *noteRepository) ListByIssue(ctx context.Context, issueID uuid.UUID, kind *entities.NoteKind) ([]*entities.Note, error) {
	var notes []*entities.Note
	query := r.db.WithContext(ctx).Where("issue_id = ?", issueID)
	if kind != nil {
		query = query.Where("kind = ?", *kind)
	}
	err := query.Order("created_at DESC").Find(&notes).Error
	return notes, err
}
