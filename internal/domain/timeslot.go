// Package domain contains the core entities and pure computation types for the LifeDiary server.
package domain

import (
	"fmt"
	"time"
)

// Slot layout constants. A day is divided into 144 ten-minute slots.
const (
	// SlotsPerHour is the number of ten-minute slots in one hour.
	SlotsPerHour = 6
	// SlotsPerDay is the number of ten-minute slots in one day.
	SlotsPerDay = 144
	// MinutesPerSlot is the length of one slot in minutes.
	MinutesPerSlot = 10
	// MinutesPerDay is the total minutes covered by a full day of slots.
	MinutesPerDay = SlotsPerDay * MinutesPerSlot
	// MinutesPerHour is the minutes one hour bucket must account for.
	MinutesPerHour = SlotsPerHour * MinutesPerSlot
	// HoursPerDay is the number of hourly buckets in daily statistics.
	HoursPerDay = 24
)

// Reserved tag names. The unclassified bucket is synthetic: it never exists as
// a tag row, it only appears in aggregation output. The others are ordinary
// tags whose names carry meaning for active-time exclusion and feedback.
const (
	UnclassifiedTagName  = "미분류"
	UnclassifiedTagColor = "#808080"
	SleepTagName         = "수면"
	RestTagName          = "휴식"
	WakeUpTagName        = "기상"
)

// TimeSlot represents one recorded ten-minute interval of a user's day.
// A slot is unique per (user, date, slot_index). TagID may be empty when the
// tag was deleted after recording; aggregation treats such slots as unclassified.
type TimeSlot struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Date      time.Time `json:"date"`
	SlotIndex int       `json:"slot_index"`
	TagID     string    `json:"tag_id,omitempty"`
	Memo      string    `json:"memo,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ValidSlotIndex reports whether idx addresses one of the day's 144 slots.
func ValidSlotIndex(idx int) bool {
	return idx >= 0 && idx < SlotsPerDay
}

// SlotHour returns the hour of day (0-23) a slot index falls in.
func SlotHour(idx int) int {
	return idx / SlotsPerHour
}

// SlotTime returns the wall-clock start time (hour, minute) of a slot index.
func SlotTime(idx int) (hour, minute int) {
	total := idx * MinutesPerSlot
	return total / 60, total % 60
}

// TimeToSlot converts a wall-clock time to its slot index.
// Minutes are floored to the containing ten-minute slot.
func TimeToSlot(hour, minute int) int {
	return hour*SlotsPerHour + minute/MinutesPerSlot
}

// SlotLabel formats a slot index as its covered time range, e.g. "09:30-09:40".
func SlotLabel(idx int) string {
	sh, sm := SlotTime(idx)
	eh, em := SlotTime(idx + 1)
	if idx == SlotsPerDay-1 {
		eh, em = 24, 0
	}
	return fmt.Sprintf("%02d:%02d-%02d:%02d", sh, sm, eh, em)
}
