package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/lifediary/lifediary-server/internal/domain"
	domainerrors "github.com/lifediary/lifediary-server/internal/errors"
	"github.com/lifediary/lifediary-server/internal/id"
	"github.com/lifediary/lifediary-server/internal/store"
)

// NoteService manages the per-day journal notes.
// Saving a note for a date the user already wrote on replaces the content.
type NoteService struct {
	store  store.Store
	logger *slog.Logger
}

// NewNoteService creates a new note service.
func NewNoteService(store store.Store, logger *slog.Logger) *NoteService {
	return &NoteService{
		store:  store,
		logger: logger,
	}
}

// SaveNoteRequest creates or replaces the note for one date.
type SaveNoteRequest struct {
	Date    string `json:"date" validate:"required"`
	Content string `json:"content" validate:"required,max=10000"`
}

// SaveNote creates or replaces the user's note for a date.
func (s *NoteService) SaveNote(ctx context.Context, userID string, req SaveNoteRequest) (*domain.Note, error) {
	if err := validate.Struct(req); err != nil {
		return nil, formatValidationError(err)
	}

	day, err := parseDate(req.Date)
	if err != nil {
		return nil, err
	}

	noteID, err := id.Generate("note")
	if err != nil {
		return nil, fmt.Errorf("generate note ID: %w", err)
	}

	now := time.Now()
	note := &domain.Note{
		ID:        noteID,
		UserID:    userID,
		Date:      day,
		Content:   req.Content,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.store.UpsertNote(ctx, note); err != nil {
		return nil, fmt.Errorf("save note: %w", err)
	}

	// The upsert keeps the original row on replace; reload for the real ID.
	saved, err := s.store.GetNoteForDate(ctx, userID, day)
	if err != nil {
		return nil, fmt.Errorf("reload note: %w", err)
	}

	return saved, nil
}

// GetNoteForDate returns the user's note for a date, if any.
func (s *NoteService) GetNoteForDate(ctx context.Context, userID string, date string) (*domain.Note, error) {
	day, err := parseDate(date)
	if err != nil {
		return nil, err
	}

	note, err := s.store.GetNoteForDate(ctx, userID, day)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, domainerrors.NotFound("no note for this date")
		}
		return nil, fmt.Errorf("get note: %w", err)
	}
	return note, nil
}

// ListNotes returns the user's most recent notes, newest first.
func (s *NoteService) ListNotes(ctx context.Context, userID string, limit int) ([]*domain.Note, error) {
	if limit <= 0 {
		limit = 30
	}
	notes, err := s.store.ListNotesForUser(ctx, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("list notes: %w", err)
	}
	return notes, nil
}

// DeleteNote removes a note the user wrote.
func (s *NoteService) DeleteNote(ctx context.Context, userID, noteID string) error {
	note, err := s.store.GetNote(ctx, noteID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domainerrors.NotFound("note not found")
		}
		return fmt.Errorf("get note: %w", err)
	}
	if note.UserID != userID {
		return domainerrors.NotFound("note not found")
	}

	if err := s.store.DeleteNote(ctx, noteID); err != nil {
		return fmt.Errorf("delete note: %w", err)
	}
	return nil
}
