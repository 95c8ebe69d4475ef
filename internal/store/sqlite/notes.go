package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/lifediary/lifediary-server/internal/domain"
	"github.com/lifediary/lifediary-server/internal/store"
)

// noteColumns is the ordered list of columns selected in note queries.
// Must match the scan order in scanNote.
const noteColumns = `id, user_id, date, content, created_at, updated_at`

// scanNote scans a sql.Row (or sql.Rows via its Scan method) into a domain.Note.
func scanNote(scanner interface{ Scan(dest ...any) error }) (*domain.Note, error) {
	var n domain.Note

	var (
		date      string
		createdAt string
		updatedAt string
	)

	err := scanner.Scan(
		&n.ID,
		&n.UserID,
		&date,
		&n.Content,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	n.Date, err = parseDate(date)
	if err != nil {
		return nil, err
	}
	n.CreatedAt, err = parseTime(createdAt)
	if err != nil {
		return nil, err
	}
	n.UpdatedAt, err = parseTime(updatedAt)
	if err != nil {
		return nil, err
	}

	return &n, nil
}

// UpsertNote inserts a note or, when one already exists for the same
// (user, date), replaces its content.
func (s *Store) UpsertNote(ctx context.Context, note *domain.Note) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO notes (id, user_id, date, content, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (user_id, date) DO UPDATE SET
			content = excluded.content,
			updated_at = excluded.updated_at`,
		note.ID,
		note.UserID,
		formatDate(note.Date),
		note.Content,
		formatTime(note.CreatedAt),
		formatTime(note.UpdatedAt),
	)
	return err
}

// GetNote retrieves a note by ID.
// Returns store.ErrNotFound if the note does not exist.
func (s *Store) GetNote(ctx context.Context, id string) (*domain.Note, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+noteColumns+` FROM notes WHERE id = ?`, id)

	n, err := scanNote(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return n, nil
}

// GetNoteForDate retrieves a user's note for one calendar day.
// Returns store.ErrNotFound if no note exists for that date.
func (s *Store) GetNoteForDate(ctx context.Context, userID string, date time.Time) (*domain.Note, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+noteColumns+` FROM notes WHERE user_id = ? AND date = ?`,
		userID, formatDate(date))

	n, err := scanNote(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return n, nil
}

// DeleteNote removes a note by ID.
// Returns store.ErrNotFound if the note does not exist.
func (s *Store) DeleteNote(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM notes WHERE id = ?`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}

// ListNotesForUser returns a user's notes, newest date first.
// A limit of 0 returns all notes.
func (s *Store) ListNotesForUser(ctx context.Context, userID string, limit int) ([]*domain.Note, error) {
	query := `SELECT ` + noteColumns + ` FROM notes WHERE user_id = ? ORDER BY date DESC`
	args := []any{userID}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var notes []*domain.Note
	for rows.Next() {
		n, err := scanNote(rows)
		if err != nil {
			return nil, err
		}
		notes = append(notes, n)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if notes == nil {
		notes = []*domain.Note{}
	}

	return notes, nil
}
