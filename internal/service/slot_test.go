package service

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lifediary/lifediary-server/internal/domain"
	domainerrors "github.com/lifediary/lifediary-server/internal/errors"
)

func newTestSlotService(t *testing.T) (*SlotService, *domain.User, *domain.Tag) {
	t.Helper()
	s := newTestStore(t)
	user := seedUser(t, s, "slots@example.com")
	tag := seedTag(t, s, user.ID, "Work", "#4A90D9")
	logger := slog.Default()
	return NewSlotService(s, NewTagService(s, logger), logger), user, tag
}

func TestSaveSlots(t *testing.T) {
	svc, user, tag := newTestSlotService(t)
	ctx := context.Background()

	saved, err := svc.SaveSlots(ctx, user.ID, SaveSlotsRequest{
		Date: "2024-01-15",
		Slots: []SlotEntry{
			{SlotIndex: 54, TagID: tag.ID, Memo: "standup"},
			{SlotIndex: 55, TagID: tag.ID},
		},
	})
	require.NoError(t, err)
	require.Len(t, saved, 2)
	assert.Equal(t, 54, saved[0].SlotIndex)
	assert.Equal(t, "standup", saved[0].Memo)
	assert.Equal(t, tag.ID, saved[1].TagID)
}

func TestSaveSlots_Overwrite(t *testing.T) {
	svc, user, tag := newTestSlotService(t)
	ctx := context.Background()

	_, err := svc.SaveSlots(ctx, user.ID, SaveSlotsRequest{
		Date:  "2024-01-15",
		Slots: []SlotEntry{{SlotIndex: 10, TagID: tag.ID, Memo: "first"}},
	})
	require.NoError(t, err)

	// The same slot saved again takes the latest write.
	saved, err := svc.SaveSlots(ctx, user.ID, SaveSlotsRequest{
		Date:  "2024-01-15",
		Slots: []SlotEntry{{SlotIndex: 10, TagID: tag.ID, Memo: "second"}},
	})
	require.NoError(t, err)
	require.Len(t, saved, 1)
	assert.Equal(t, "second", saved[0].Memo)
}

func TestSaveSlots_Validation(t *testing.T) {
	svc, user, tag := newTestSlotService(t)
	ctx := context.Background()

	tests := []struct {
		name string
		req  SaveSlotsRequest
	}{
		{
			name: "bad date",
			req: SaveSlotsRequest{
				Date:  "01/15/2024",
				Slots: []SlotEntry{{SlotIndex: 0, TagID: tag.ID}},
			},
		},
		{
			name: "duplicate slot index",
			req: SaveSlotsRequest{
				Date: "2024-01-15",
				Slots: []SlotEntry{
					{SlotIndex: 3, TagID: tag.ID},
					{SlotIndex: 3, TagID: tag.ID},
				},
			},
		},
		{
			name: "no slots",
			req:  SaveSlotsRequest{Date: "2024-01-15"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.SaveSlots(ctx, user.ID, tt.req)
			var domainErr *domainerrors.Error
			require.ErrorAs(t, err, &domainErr)
			assert.Equal(t, domainerrors.CodeValidation, domainErr.Code)
		})
	}
}

func TestSaveSlots_UnknownTag(t *testing.T) {
	svc, user, _ := newTestSlotService(t)

	_, err := svc.SaveSlots(context.Background(), user.ID, SaveSlotsRequest{
		Date:  "2024-01-15",
		Slots: []SlotEntry{{SlotIndex: 0, TagID: "tag-missing"}},
	})
	var domainErr *domainerrors.Error
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, domainerrors.CodeNotFound, domainErr.Code)
}

func TestSaveSlots_OtherUsersTagHidden(t *testing.T) {
	s := newTestStore(t)
	user := seedUser(t, s, "slots@example.com")
	other := seedUser(t, s, "other@example.com")
	theirs := seedTag(t, s, other.ID, "Theirs", "#FF0000")

	logger := slog.Default()
	svc := NewSlotService(s, NewTagService(s, logger), logger)

	_, err := svc.SaveSlots(context.Background(), user.ID, SaveSlotsRequest{
		Date:  "2024-01-15",
		Slots: []SlotEntry{{SlotIndex: 0, TagID: theirs.ID}},
	})
	var domainErr *domainerrors.Error
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, domainerrors.CodeNotFound, domainErr.Code)
}

func TestDeleteSlots(t *testing.T) {
	svc, user, tag := newTestSlotService(t)
	ctx := context.Background()

	_, err := svc.SaveSlots(ctx, user.ID, SaveSlotsRequest{
		Date: "2024-01-15",
		Slots: []SlotEntry{
			{SlotIndex: 0, TagID: tag.ID},
			{SlotIndex: 1, TagID: tag.ID},
			{SlotIndex: 2, TagID: tag.ID},
		},
	})
	require.NoError(t, err)

	// Delete a subset.
	err = svc.DeleteSlots(ctx, user.ID, DeleteSlotsRequest{Date: "2024-01-15", SlotIndexes: []int{1}})
	require.NoError(t, err)
	day, err := svc.GetDay(ctx, user.ID, "2024-01-15")
	require.NoError(t, err)
	require.Len(t, day, 2)

	// No indexes clears the whole day.
	err = svc.DeleteSlots(ctx, user.ID, DeleteSlotsRequest{Date: "2024-01-15"})
	require.NoError(t, err)
	day, err = svc.GetDay(ctx, user.ID, "2024-01-15")
	require.NoError(t, err)
	assert.Empty(t, day)
}
