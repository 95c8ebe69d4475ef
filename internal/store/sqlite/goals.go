package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/lifediary/lifediary-server/internal/domain"
	"github.com/lifediary/lifediary-server/internal/store"
)

// goalColumns is the ordered list of columns selected in goal queries.
// Must match the scan order in scanGoal.
const goalColumns = `id, user_id, tag_id, period, target_hours, created_at, updated_at`

// scanGoal scans a sql.Row (or sql.Rows via its Scan method) into a domain.Goal.
func scanGoal(scanner interface{ Scan(dest ...any) error }) (*domain.Goal, error) {
	var g domain.Goal

	var (
		period    string
		createdAt string
		updatedAt string
	)

	err := scanner.Scan(
		&g.ID,
		&g.UserID,
		&g.TagID,
		&period,
		&g.TargetHours,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	g.Period = domain.GoalPeriod(period)
	g.CreatedAt, err = parseTime(createdAt)
	if err != nil {
		return nil, err
	}
	g.UpdatedAt, err = parseTime(updatedAt)
	if err != nil {
		return nil, err
	}

	return &g, nil
}

// CreateGoal inserts a new goal.
// Returns store.ErrAlreadyExists when the user already has a goal for the
// same (tag, period).
func (s *Store) CreateGoal(ctx context.Context, goal *domain.Goal) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO goals (id, user_id, tag_id, period, target_hours, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		goal.ID,
		goal.UserID,
		goal.TagID,
		string(goal.Period),
		goal.TargetHours,
		formatTime(goal.CreatedAt),
		formatTime(goal.UpdatedAt),
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return store.ErrAlreadyExists
		}
		return err
	}
	return nil
}

// GetGoal retrieves a goal by ID.
// Returns store.ErrNotFound if the goal does not exist.
func (s *Store) GetGoal(ctx context.Context, id string) (*domain.Goal, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+goalColumns+` FROM goals WHERE id = ?`, id)

	g, err := scanGoal(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return g, nil
}

// UpdateGoal persists changes to an existing goal.
// Returns store.ErrNotFound if the goal does not exist.
func (s *Store) UpdateGoal(ctx context.Context, goal *domain.Goal) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE goals SET period = ?, target_hours = ?, updated_at = ? WHERE id = ?`,
		string(goal.Period),
		goal.TargetHours,
		formatTime(goal.UpdatedAt),
		goal.ID,
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

// DeleteGoal removes a goal by ID.
// Returns store.ErrNotFound if the goal does not exist.
func (s *Store) DeleteGoal(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM goals WHERE id = ?`, id)
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

// ListGoalsForUser returns all of a user's goals ordered by creation time.
func (s *Store) ListGoalsForUser(ctx context.Context, userID string) ([]*domain.Goal, error) {
	return s.queryGoals(ctx, `
		SELECT `+goalColumns+` FROM goals
		WHERE user_id = ?
		ORDER BY created_at ASC`, userID)
}

// ListGoalsByPeriod returns a user's goals for one period.
func (s *Store) ListGoalsByPeriod(ctx context.Context, userID string, period domain.GoalPeriod) ([]*domain.Goal, error) {
	return s.queryGoals(ctx, `
		SELECT `+goalColumns+` FROM goals
		WHERE user_id = ? AND period = ?
		ORDER BY created_at ASC`, userID, string(period))
}

func (s *Store) queryGoals(ctx context.Context, query string, args ...any) ([]*domain.Goal, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var goals []*domain.Goal
	for rows.Next() {
		g, err := scanGoal(rows)
		if err != nil {
			return nil, err
		}
		goals = append(goals, g)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if goals == nil {
		goals = []*domain.Goal{}
	}

	return goals, nil
}
