package domain

import "time"

// Tag categorizes time slots. A tag is either a default tag available to
// every user or a personal tag owned by one user. Names are unique per
// owner; default tag names are globally unique.
type Tag struct {
	ID        string    `json:"id"`
	OwnerID   string    `json:"owner_id,omitempty"` // empty for default tags
	Name      string    `json:"name"`
	Color     string    `json:"color"` // hex color, e.g. "#4A90D9"
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// IsDefault reports whether the tag is a shared default tag.
func (t *Tag) IsDefault() bool {
	return t.OwnerID == ""
}

// Ownership returns the tag's ownership variant.
func (t *Tag) Ownership() TagOwnership {
	if t.OwnerID == "" {
		return DefaultOwnership()
	}
	return UserOwnership(t.OwnerID)
}

// Touch updates the UpdatedAt timestamp.
func (t *Tag) Touch() {
	t.UpdatedAt = time.Now()
}

// TagOwnership distinguishes shared default tags from user-owned tags
// without overloading an empty foreign key at call sites.
type TagOwnership struct {
	userID string
}

// DefaultOwnership is the shared, owned-by-none variant.
func DefaultOwnership() TagOwnership {
	return TagOwnership{}
}

// UserOwnership is the owned-by-one-user variant.
func UserOwnership(userID string) TagOwnership {
	return TagOwnership{userID: userID}
}

// IsDefault reports whether the tag is shared across all users.
func (o TagOwnership) IsDefault() bool {
	return o.userID == ""
}

// UserID returns the owning user and whether one exists.
func (o TagOwnership) UserID() (string, bool) {
	return o.userID, o.userID != ""
}
