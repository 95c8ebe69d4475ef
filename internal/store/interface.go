// Package store defines the persistence interface for the LifeDiary server.
package store

import (
	"context"
	"time"

	"github.com/lifediary/lifediary-server/internal/domain"
)

// Store defines the interface for all persistence operations.
type Store interface {
	// Lifecycle
	Close() error

	// Users
	CreateUser(ctx context.Context, user *domain.User) error
	GetUser(ctx context.Context, id string) (*domain.User, error)
	GetUserByEmail(ctx context.Context, email string) (*domain.User, error)
	UpdateUser(ctx context.Context, user *domain.User) error
	DeleteUser(ctx context.Context, id string) error
	CountUsers(ctx context.Context) (int, error)

	// Auth sessions
	CreateSession(ctx context.Context, session *domain.Session) error
	GetSession(ctx context.Context, id string) (*domain.Session, error)
	GetSessionByRefreshToken(ctx context.Context, tokenHash string) (*domain.Session, error)
	UpdateSession(ctx context.Context, session *domain.Session) error
	DeleteSession(ctx context.Context, id string) error
	DeleteAllUserSessions(ctx context.Context, userID string) error
	DeleteExpiredSessions(ctx context.Context) (int, error)

	// Tags
	CreateTag(ctx context.Context, tag *domain.Tag) error
	GetTag(ctx context.Context, id string) (*domain.Tag, error)
	GetTagByName(ctx context.Context, ownership domain.TagOwnership, name string) (*domain.Tag, error)
	UpdateTag(ctx context.Context, tag *domain.Tag) error
	DeleteTag(ctx context.Context, id string) error
	ListTagsForUser(ctx context.Context, userID string) ([]*domain.Tag, error)
	CountSlotsWithTag(ctx context.Context, tagID string) (int, error)

	// Time slots
	GetSlotsForDate(ctx context.Context, userID string, date time.Time) ([]*domain.TimeSlot, error)
	GetSlotsInRange(ctx context.Context, userID string, start, end time.Time) ([]*domain.TimeSlot, error)
	SaveSlots(ctx context.Context, slots []*domain.TimeSlot) error
	DeleteSlots(ctx context.Context, userID string, date time.Time, slotIndexes []int) error

	// Goals
	CreateGoal(ctx context.Context, goal *domain.Goal) error
	GetGoal(ctx context.Context, id string) (*domain.Goal, error)
	UpdateGoal(ctx context.Context, goal *domain.Goal) error
	DeleteGoal(ctx context.Context, id string) error
	ListGoalsForUser(ctx context.Context, userID string) ([]*domain.Goal, error)
	ListGoalsByPeriod(ctx context.Context, userID string, period domain.GoalPeriod) ([]*domain.Goal, error)

	// Notes
	UpsertNote(ctx context.Context, note *domain.Note) error
	GetNote(ctx context.Context, id string) (*domain.Note, error)
	GetNoteForDate(ctx context.Context, userID string, date time.Time) (*domain.Note, error)
	DeleteNote(ctx context.Context, id string) error
	ListNotesForUser(ctx context.Context, userID string, limit int) ([]*domain.Note, error)
}
