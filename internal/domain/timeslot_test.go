package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlotConversions(t *testing.T) {
	assert.Equal(t, 0, SlotHour(0))
	assert.Equal(t, 0, SlotHour(5))
	assert.Equal(t, 1, SlotHour(6))
	assert.Equal(t, 23, SlotHour(143))

	h, m := SlotTime(0)
	assert.Equal(t, 0, h)
	assert.Equal(t, 0, m)

	h, m = SlotTime(57) // 09:30
	assert.Equal(t, 9, h)
	assert.Equal(t, 30, m)

	assert.Equal(t, 57, TimeToSlot(9, 30))
	assert.Equal(t, 57, TimeToSlot(9, 39)) // floored to the containing slot
	assert.Equal(t, 143, TimeToSlot(23, 50))
}

func TestSlotLabel(t *testing.T) {
	assert.Equal(t, "00:00-00:10", SlotLabel(0))
	assert.Equal(t, "09:30-09:40", SlotLabel(57))
	assert.Equal(t, "23:50-24:00", SlotLabel(143))
}

func TestValidSlotIndex(t *testing.T) {
	assert.True(t, ValidSlotIndex(0))
	assert.True(t, ValidSlotIndex(143))
	assert.False(t, ValidSlotIndex(-1))
	assert.False(t, ValidSlotIndex(144))
}

func TestTagOwnership(t *testing.T) {
	def := DefaultOwnership()
	assert.True(t, def.IsDefault())
	_, ok := def.UserID()
	assert.False(t, ok)

	owned := UserOwnership("user-abc123")
	assert.False(t, owned.IsDefault())
	id, ok := owned.UserID()
	assert.True(t, ok)
	assert.Equal(t, "user-abc123", id)

	tag := &Tag{ID: "tag-1", Name: "운동", Color: "#FF0000"}
	assert.True(t, tag.IsDefault())
	assert.True(t, tag.Ownership().IsDefault())

	tag.OwnerID = "user-abc123"
	assert.False(t, tag.IsDefault())
	id, ok = tag.Ownership().UserID()
	assert.True(t, ok)
	assert.Equal(t, "user-abc123", id)
}
