package service

import (
	"context"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/lifediary/lifediary-server/internal/domain"
	"github.com/lifediary/lifediary-server/internal/id"
	"github.com/lifediary/lifediary-server/internal/store"
	"github.com/lifediary/lifediary-server/internal/store/sqlite"
)

func newTestStore(t *testing.T) store.Store {
	t.Helper()
	s, err := sqlite.Open(filepath.Join(t.TempDir(), "test.db"), slog.Default())
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func seedUser(t *testing.T, s store.Store, email string) *domain.User {
	t.Helper()
	userID, err := id.Generate("user")
	require.NoError(t, err)
	now := time.Now()
	user := &domain.User{
		ID:           userID,
		Email:        email,
		PasswordHash: "x",
		DisplayName:  "Test User",
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	require.NoError(t, s.CreateUser(context.Background(), user))
	return user
}

func seedTag(t *testing.T, s store.Store, ownerID, name, color string) *domain.Tag {
	t.Helper()
	tagID, err := id.Generate("tag")
	require.NoError(t, err)
	now := time.Now()
	tag := &domain.Tag{
		ID:        tagID,
		OwnerID:   ownerID,
		Name:      name,
		Color:     color,
		CreatedAt: now,
		UpdatedAt: now,
	}
	require.NoError(t, s.CreateTag(context.Background(), tag))
	return tag
}

func mustDate(t *testing.T, date string) time.Time {
	t.Helper()
	day, err := time.ParseInLocation(domain.DateFormat, date, time.UTC)
	require.NoError(t, err)
	return day
}

// seedSlots records consecutive slots for one tag starting at startIndex.
func seedSlots(t *testing.T, s store.Store, userID string, date string, tagID string, startIndex, count int) {
	t.Helper()
	day := mustDate(t, date)
	now := time.Now()
	slots := make([]*domain.TimeSlot, 0, count)
	for i := 0; i < count; i++ {
		slotID, err := id.Generate("slot")
		require.NoError(t, err)
		slots = append(slots, &domain.TimeSlot{
			ID:        slotID,
			UserID:    userID,
			Date:      day,
			SlotIndex: startIndex + i,
			TagID:     tagID,
			CreatedAt: now,
			UpdatedAt: now,
		})
	}
	require.NoError(t, s.SaveSlots(context.Background(), slots))
}
