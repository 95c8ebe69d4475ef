package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/lifediary/lifediary-server/internal/domain"
)

// makeTestSlot creates a domain.TimeSlot with sensible defaults for testing.
func makeTestSlot(id, userID string, date time.Time, slotIndex int, tagID string) *domain.TimeSlot {
	now := time.Now()
	return &domain.TimeSlot{
		ID:        id,
		UserID:    userID,
		Date:      date,
		SlotIndex: slotIndex,
		TagID:     tagID,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func TestSaveAndGetSlots(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	seedUser(t, s, "user-1")

	date := time.Date(2024, time.January, 15, 0, 0, 0, 0, time.UTC)
	slots := []*domain.TimeSlot{
		makeTestSlot("slot-1", "user-1", date, 54, ""),
		makeTestSlot("slot-2", "user-1", date, 0, ""),
		makeTestSlot("slot-3", "user-1", date, 143, ""),
	}
	if err := s.SaveSlots(ctx, slots); err != nil {
		t.Fatalf("SaveSlots: %v", err)
	}

	got, err := s.GetSlotsForDate(ctx, "user-1", date)
	if err != nil {
		t.Fatalf("GetSlotsForDate: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 slots, got %d", len(got))
	}
	// Ordered by slot index.
	if got[0].SlotIndex != 0 || got[1].SlotIndex != 54 || got[2].SlotIndex != 143 {
		t.Errorf("unexpected order: %d, %d, %d", got[0].SlotIndex, got[1].SlotIndex, got[2].SlotIndex)
	}
	if !got[0].Date.Equal(date) {
		t.Errorf("Date: got %v, want %v", got[0].Date, date)
	}
}

func TestSaveSlotsLastWriterWins(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	seedUser(t, s, "user-1")
	if err := s.CreateTag(ctx, makeTestTag("tag-1", "user-1", "운동")); err != nil {
		t.Fatal(err)
	}
	if err := s.CreateTag(ctx, makeTestTag("tag-2", "user-1", "공부")); err != nil {
		t.Fatal(err)
	}

	date := time.Date(2024, time.January, 15, 0, 0, 0, 0, time.UTC)

	first := makeTestSlot("slot-1", "user-1", date, 10, "tag-1")
	first.Memo = "아침 운동"
	if err := s.SaveSlots(ctx, []*domain.TimeSlot{first}); err != nil {
		t.Fatalf("SaveSlots: %v", err)
	}

	// A second save of the same (user, date, index) overwrites tag and memo.
	second := makeTestSlot("slot-2", "user-1", date, 10, "tag-2")
	second.Memo = "계획 변경"
	if err := s.SaveSlots(ctx, []*domain.TimeSlot{second}); err != nil {
		t.Fatalf("SaveSlots overwrite: %v", err)
	}

	got, err := s.GetSlotsForDate(ctx, "user-1", date)
	if err != nil {
		t.Fatalf("GetSlotsForDate: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected 1 slot, got %d", len(got))
	}
	if got[0].TagID != "tag-2" {
		t.Errorf("TagID: got %q, want tag-2", got[0].TagID)
	}
	if got[0].Memo != "계획 변경" {
		t.Errorf("Memo: got %q", got[0].Memo)
	}
	// The original row identity is preserved on conflict.
	if got[0].ID != "slot-1" {
		t.Errorf("ID: got %q, want slot-1", got[0].ID)
	}
}

func TestGetSlotsInRange(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	seedUser(t, s, "user-1")

	mon := time.Date(2024, time.January, 15, 0, 0, 0, 0, time.UTC)
	var slots []*domain.TimeSlot
	for day := 0; day < 3; day++ {
		slots = append(slots,
			makeTestSlot(formatDate(mon.AddDate(0, 0, day))+"-a", "user-1", mon.AddDate(0, 0, day), 0, ""),
			makeTestSlot(formatDate(mon.AddDate(0, 0, day))+"-b", "user-1", mon.AddDate(0, 0, day), 1, ""),
		)
	}
	if err := s.SaveSlots(ctx, slots); err != nil {
		t.Fatalf("SaveSlots: %v", err)
	}

	// Inclusive two-day window.
	got, err := s.GetSlotsInRange(ctx, "user-1", mon, mon.AddDate(0, 0, 1))
	if err != nil {
		t.Fatalf("GetSlotsInRange: %v", err)
	}
	if len(got) != 4 {
		t.Fatalf("expected 4 slots, got %d", len(got))
	}
	// Ordered by date then index.
	if !got[0].Date.Equal(mon) || got[3].Date.Equal(mon) {
		t.Error("unexpected range ordering")
	}
}

func TestDeleteSlots(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	seedUser(t, s, "user-1")

	date := time.Date(2024, time.January, 15, 0, 0, 0, 0, time.UTC)
	if err := s.SaveSlots(ctx, []*domain.TimeSlot{
		makeTestSlot("slot-1", "user-1", date, 0, ""),
		makeTestSlot("slot-2", "user-1", date, 1, ""),
		makeTestSlot("slot-3", "user-1", date, 2, ""),
	}); err != nil {
		t.Fatalf("SaveSlots: %v", err)
	}

	// Delete a subset.
	if err := s.DeleteSlots(ctx, "user-1", date, []int{0, 2}); err != nil {
		t.Fatalf("DeleteSlots: %v", err)
	}
	got, err := s.GetSlotsForDate(ctx, "user-1", date)
	if err != nil {
		t.Fatalf("GetSlotsForDate: %v", err)
	}
	if len(got) != 1 || got[0].SlotIndex != 1 {
		t.Fatalf("expected only slot 1 to remain, got %d slots", len(got))
	}

	// Empty index set clears the whole day.
	if err := s.DeleteSlots(ctx, "user-1", date, nil); err != nil {
		t.Fatalf("DeleteSlots all: %v", err)
	}
	got, err = s.GetSlotsForDate(ctx, "user-1", date)
	if err != nil {
		t.Fatalf("GetSlotsForDate: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("expected no slots, got %d", len(got))
	}
}
