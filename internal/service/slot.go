package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/lifediary/lifediary-server/internal/domain"
	domainerrors "github.com/lifediary/lifediary-server/internal/errors"
	"github.com/lifediary/lifediary-server/internal/id"
	"github.com/lifediary/lifediary-server/internal/store"
)

// SlotService manages the ten-minute slot records that make up a day.
// Saves are last-writer-wins per slot; there is no cross-request locking.
type SlotService struct {
	store      store.Store
	tagService *TagService
	logger     *slog.Logger
}

// NewSlotService creates a new slot service.
func NewSlotService(store store.Store, tagService *TagService, logger *slog.Logger) *SlotService {
	return &SlotService{
		store:      store,
		tagService: tagService,
		logger:     logger,
	}
}

// SlotEntry is one slot assignment within a save request.
type SlotEntry struct {
	SlotIndex int    `json:"slot_index" validate:"min=0,max=143"`
	TagID     string `json:"tag_id" validate:"required"`
	Memo      string `json:"memo,omitempty" validate:"max=500"`
}

// SaveSlotsRequest assigns tags to a set of slots on one date.
type SaveSlotsRequest struct {
	Date  string      `json:"date" validate:"required"`
	Slots []SlotEntry `json:"slots" validate:"required,min=1,max=144,dive"`
}

// DeleteSlotsRequest clears a set of slots on one date.
// An empty slot index list clears the whole day.
type DeleteSlotsRequest struct {
	Date        string `json:"date" validate:"required"`
	SlotIndexes []int  `json:"slot_indexes,omitempty" validate:"max=144,dive,min=0,max=143"`
}

// GetDay returns the recorded slots for one date, ordered by slot index.
// Unrecorded slots are simply absent.
func (s *SlotService) GetDay(ctx context.Context, userID string, date string) ([]*domain.TimeSlot, error) {
	day, err := parseDate(date)
	if err != nil {
		return nil, err
	}

	slots, err := s.store.GetSlotsForDate(ctx, userID, day)
	if err != nil {
		return nil, fmt.Errorf("get slots: %w", err)
	}
	return slots, nil
}

// SaveSlots records or overwrites a set of slot assignments on one date.
// Every referenced tag must be visible to the user. Existing slots at the
// same indexes are overwritten (last writer wins).
func (s *SlotService) SaveSlots(ctx context.Context, userID string, req SaveSlotsRequest) ([]*domain.TimeSlot, error) {
	if err := validate.Struct(req); err != nil {
		return nil, formatValidationError(err)
	}

	day, err := parseDate(req.Date)
	if err != nil {
		return nil, err
	}

	seen := make(map[int]bool, len(req.Slots))
	resolved := make(map[string]bool)
	for _, entry := range req.Slots {
		if !domain.ValidSlotIndex(entry.SlotIndex) {
			return nil, domainerrors.Validationf("slot_index %d is out of range", entry.SlotIndex)
		}
		if seen[entry.SlotIndex] {
			return nil, domainerrors.Validationf("slot_index %d appears more than once", entry.SlotIndex)
		}
		seen[entry.SlotIndex] = true

		if !resolved[entry.TagID] {
			if _, err := s.tagService.resolveTagForUser(ctx, userID, entry.TagID); err != nil {
				return nil, err
			}
			resolved[entry.TagID] = true
		}
	}

	now := time.Now()
	slots := make([]*domain.TimeSlot, 0, len(req.Slots))
	for _, entry := range req.Slots {
		slotID, err := id.Generate("slot")
		if err != nil {
			return nil, fmt.Errorf("generate slot ID: %w", err)
		}
		slots = append(slots, &domain.TimeSlot{
			ID:        slotID,
			UserID:    userID,
			Date:      day,
			SlotIndex: entry.SlotIndex,
			TagID:     entry.TagID,
			Memo:      entry.Memo,
			CreatedAt: now,
			UpdatedAt: now,
		})
	}

	if err := s.store.SaveSlots(ctx, slots); err != nil {
		return nil, fmt.Errorf("save slots: %w", err)
	}

	if s.logger != nil {
		s.logger.Debug("Slots saved",
			"user_id", userID,
			"date", req.Date,
			"count", len(slots),
		)
	}

	return s.GetDay(ctx, userID, req.Date)
}

// DeleteSlots clears slot assignments on one date. With no indexes the
// whole day is cleared.
func (s *SlotService) DeleteSlots(ctx context.Context, userID string, req DeleteSlotsRequest) error {
	if err := validate.Struct(req); err != nil {
		return formatValidationError(err)
	}

	day, err := parseDate(req.Date)
	if err != nil {
		return err
	}

	if err := s.store.DeleteSlots(ctx, userID, day, req.SlotIndexes); err != nil {
		return fmt.Errorf("delete slots: %w", err)
	}

	if s.logger != nil {
		s.logger.Debug("Slots deleted",
			"user_id", userID,
			"date", req.Date,
			"count", len(req.SlotIndexes),
		)
	}

	return nil
}

// parseDate parses a YYYY-MM-DD date string into a UTC day value.
func parseDate(date string) (time.Time, error) {
	day, err := time.ParseInLocation(domain.DateFormat, date, time.UTC)
	if err != nil {
		return time.Time{}, domainerrors.Validationf("date must be formatted as %s", domain.DateFormat)
	}
	return day, nil
}
