package issue

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/johnquangdev/erp-issue-hub/internal/domain/entities"
	usecaseErrors "github.com/johnquangdev/erp-issue-hub/internal/usecase/errors"
)

// NoteInput represents input for creating or editing a note
type NoteInput struct {
	Kind    entities.NoteKind
	Content string
	Author  *string
}

// AddNote attaches a note to an issue. An empty kind means GENERAL.
func (s *IssueService) AddNote(ctx context.Context, issueID uuid.UUID, input NoteInput) (*entities.Note, error) {
	exists, err := s.issueRepo.Exists(ctx, issueID)
	if err != nil {
		return nil, fmt.Errorf("failed to check issue: %w", err)
	}
	if !exists {
		return nil, usecaseErrors.ErrIssueNotFound
	}

	kind := input.Kind
	if kind == "" {
		kind = entities.NoteKindGeneral
	}
	if !kind.IsValid() {
		return nil, usecaseErrors.ErrInvalidNoteKind
	}
	content := strings.TrimSpace(input.Content)
	if content == "" {
		return nil, usecaseErrors.ErrInvalidInput
	}

	note := &entities.Note{
		IssueID: issueID,
		Kind:    kind,
		Content: content,
		Author:  normalizeOptional(input.Author),
	}
	if err := s.noteRepo.Create(ctx, note); err != nil {
		return nil, fmt.Errorf("failed to create note: %w", err)
	}
	return note, nil
}

// ListNotes retrieves the notes of an issue, optionally of one kind
func (s *IssueService) ListNotes(ctx context.Context, issueID uuid.UUID, kind *entities.NoteKind) ([]*entities.Note, error) {
	if kind != nil && !kind.IsValid() {
		return nil, usecaseErrors.ErrInvalidNoteKind
	}
	exists, err := s.issueRepo.Exists(ctx, issueID)
	if err != nil {
		return nil, fmt.Errorf("failed to check issue: %w", err)
	}
	if !exists {
		return nil, usecaseErrors.ErrIssueNotFound
	}
	notes, err := s.noteRepo.ListByIssue(ctx, issueID, kind)
	if err != nil {
		return nil, fmt.Errorf("failed to list notes: %w", err)
	}
	return notes, nil
}

// UpdateNote edits the content (and optionally the kind) of a note
func (s *IssueService) UpdateNote(ctx context.Context, id uuid.UUID, input NoteInput) (*entities.Note, error) {
	note, err := s.noteRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, usecaseErrors.ErrNoteNotFound
		}
		return nil, fmt.Errorf("failed to get note: %w", err)
	}

	content := strings.TrimSpace(input.Content)
	if content == "" {
		return nil, usecaseErrors.ErrInvalidInput
	}
	if input.Kind != "" {
		if !input.Kind.IsValid() {
			return nil, usecaseErrors.ErrInvalidNoteKind
		}
		note.Kind = input.Kind
	}
	note.Content = content
	if input.Author != nil {
		note.Author = normalizeOptional(input.Author)
	}

	if err := s.noteRepo.Update(ctx, note); err != nil {
		return nil, fmt.Errorf("failed to update note: %w", err)
	}
	return note, nil
}

// DeleteNote removes a note
func (s *IssueService) DeleteNote(ctx context.Context, id uuid.UUID) error {
	if err := s.noteRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return usecaseErrors.ErrNoteNotFound
		}
		return fmt.Errorf("failed to delete note: %w", err)
	}
	return nil
}
