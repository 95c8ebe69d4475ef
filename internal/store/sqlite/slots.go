package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/lifediary/lifediary-server/internal/domain"
)

// slotColumns is the ordered list of columns selected in slot queries.
// Must match the scan order in scanSlot.
const slotColumns = `id, user_id, date, slot_index, tag_id, memo, created_at, updated_at`

// scanSlot scans a sql.Row (or sql.Rows via its Scan method) into a domain.TimeSlot.
func scanSlot(scanner interface{ Scan(dest ...any) error }) (*domain.TimeSlot, error) {
	var slot domain.TimeSlot

	var (
		date      string
		tagID     sql.NullString
		createdAt string
		updatedAt string
	)

	err := scanner.Scan(
		&slot.ID,
		&slot.UserID,
		&date,
		&slot.SlotIndex,
		&tagID,
		&slot.Memo,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	slot.Date, err = parseDate(date)
	if err != nil {
		return nil, err
	}
	slot.TagID = tagID.String
	slot.CreatedAt, err = parseTime(createdAt)
	if err != nil {
		return nil, err
	}
	slot.UpdatedAt, err = parseTime(updatedAt)
	if err != nil {
		return nil, err
	}

	return &slot, nil
}

// GetSlotsForDate returns a user's recorded slots for one calendar day,
// ordered by slot index.
func (s *Store) GetSlotsForDate(ctx context.Context, userID string, date time.Time) ([]*domain.TimeSlot, error) {
	return s.querySlots(ctx, `
		SELECT `+slotColumns+` FROM time_slots
		WHERE user_id = ? AND date = ?
		ORDER BY slot_index ASC`, userID, formatDate(date))
}

// GetSlotsInRange returns a user's recorded slots for an inclusive day
// range, ordered by date then slot index.
func (s *Store) GetSlotsInRange(ctx context.Context, userID string, start, end time.Time) ([]*domain.TimeSlot, error) {
	return s.querySlots(ctx, `
		SELECT `+slotColumns+` FROM time_slots
		WHERE user_id = ? AND date >= ? AND date <= ?
		ORDER BY date ASC, slot_index ASC`, userID, formatDate(start), formatDate(end))
}

func (s *Store) querySlots(ctx context.Context, query string, args ...any) ([]*domain.TimeSlot, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var slots []*domain.TimeSlot
	for rows.Next() {
		slot, err := scanSlot(rows)
		if err != nil {
			return nil, err
		}
		slots = append(slots, slot)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if slots == nil {
		slots = []*domain.TimeSlot{}
	}

	return slots, nil
}

// SaveSlots upserts a set of slots in a single transaction. Existing rows
// at the same (user, date, slot_index) are overwritten; last writer wins.
func (s *Store) SaveSlots(ctx context.Context, slots []*domain.TimeSlot) error {
	if len(slots) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	for _, slot := range slots {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO time_slots (id, user_id, date, slot_index, tag_id, memo, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT (user_id, date, slot_index) DO UPDATE SET
				tag_id = excluded.tag_id,
				memo = excluded.memo,
				updated_at = excluded.updated_at`,
			slot.ID,
			slot.UserID,
			formatDate(slot.Date),
			slot.SlotIndex,
			nullString(slot.TagID),
			slot.Memo,
			formatTime(slot.CreatedAt),
			formatTime(slot.UpdatedAt),
		)
		if err != nil {
			return fmt.Errorf("upsert slot %d: %w", slot.SlotIndex, err)
		}
	}

	return tx.Commit()
}

// DeleteSlots removes a set of slot indexes for one (user, date). A nil or
// empty index set removes every slot recorded on that date.
func (s *Store) DeleteSlots(ctx context.Context, userID string, date time.Time, slotIndexes []int) error {
	if len(slotIndexes) == 0 {
		_, err := s.db.ExecContext(ctx,
			`DELETE FROM time_slots WHERE user_id = ? AND date = ?`,
			userID, formatDate(date))
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	for _, idx := range slotIndexes {
		_, err := tx.ExecContext(ctx,
			`DELETE FROM time_slots WHERE user_id = ? AND date = ? AND slot_index = ?`,
			userID, formatDate(date), idx)
		if err != nil {
			return fmt.Errorf("delete slot %d: %w", idx, err)
		}
	}

	return tx.Commit()
}
