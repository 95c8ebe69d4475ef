package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/lifediary/lifediary-server/internal/domain"
	"github.com/lifediary/lifediary-server/internal/store"
)

// tagColumns is the ordered list of columns selected in tag queries.
// Must match the scan order in scanTag.
const tagColumns = `id, owner_id, name, color, created_at, updated_at`

// scanTag scans a sql.Row (or sql.Rows via its Scan method) into a domain.Tag.
func scanTag(scanner interface{ Scan(dest ...any) error }) (*domain.Tag, error) {
	var t domain.Tag

	var (
		ownerID   sql.NullString
		createdAt string
		updatedAt string
	)

	err := scanner.Scan(
		&t.ID,
		&ownerID,
		&t.Name,
		&t.Color,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	t.OwnerID = ownerID.String
	t.CreatedAt, err = parseTime(createdAt)
	if err != nil {
		return nil, err
	}
	t.UpdatedAt, err = parseTime(updatedAt)
	if err != nil {
		return nil, err
	}

	return &t, nil
}

// CreateTag inserts a new tag.
// Returns store.ErrAlreadyExists on a duplicate name within the owner's namespace.
func (s *Store) CreateTag(ctx context.Context, tag *domain.Tag) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO tags (id, owner_id, name, color, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		tag.ID,
		nullString(tag.OwnerID),
		tag.Name,
		tag.Color,
		formatTime(tag.CreatedAt),
		formatTime(tag.UpdatedAt),
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return store.ErrAlreadyExists
		}
		return err
	}
	return nil
}

// GetTag retrieves a tag by ID.
// Returns store.ErrNotFound if the tag does not exist.
func (s *Store) GetTag(ctx context.Context, id string) (*domain.Tag, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+tagColumns+` FROM tags WHERE id = ?`, id)

	t, err := scanTag(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return t, nil
}

// GetTagByName retrieves a tag by name within an ownership namespace:
// a user's own tags or the shared defaults.
// Returns store.ErrNotFound if the tag does not exist.
func (s *Store) GetTagByName(ctx context.Context, ownership domain.TagOwnership, name string) (*domain.Tag, error) {
	var row *sql.Row
	if ownerID, ok := ownership.UserID(); ok {
		row = s.db.QueryRowContext(ctx,
			`SELECT `+tagColumns+` FROM tags WHERE owner_id = ? AND name = ?`, ownerID, name)
	} else {
		row = s.db.QueryRowContext(ctx,
			`SELECT `+tagColumns+` FROM tags WHERE owner_id IS NULL AND name = ?`, name)
	}

	t, err := scanTag(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return t, nil
}

// UpdateTag persists changes to an existing tag.
// Returns store.ErrNotFound if the tag does not exist.
func (s *Store) UpdateTag(ctx context.Context, tag *domain.Tag) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE tags SET name = ?, color = ?, updated_at = ? WHERE id = ?`,
		tag.Name,
		tag.Color,
		formatTime(tag.UpdatedAt),
		tag.ID,
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return store.ErrAlreadyExists
		}
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

// DeleteTag removes a tag by ID. Slots referencing it keep their rows with
// a NULL tag and aggregate as unclassified from then on.
// Returns store.ErrNotFound if the tag does not exist.
func (s *Store) DeleteTag(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM tags WHERE id = ?`, id)
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

// ListTagsForUser returns the shared default tags plus the user's own tags,
// defaults first, each group ordered by name.
func (s *Store) ListTagsForUser(ctx context.Context, userID string) ([]*domain.Tag, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+tagColumns+` FROM tags
		WHERE owner_id IS NULL OR owner_id = ?
		ORDER BY owner_id IS NOT NULL, name ASC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tags []*domain.Tag
	for rows.Next() {
		t, err := scanTag(rows)
		if err != nil {
			return nil, err
		}
		tags = append(tags, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if tags == nil {
		tags = []*domain.Tag{}
	}

	return tags, nil
}

// CountSlotsWithTag returns how many time slots currently reference a tag.
func (s *Store) CountSlotsWithTag(ctx context.Context, tagID string) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM time_slots WHERE tag_id = ?`, tagID).Scan(&count)
	return count, err
}
