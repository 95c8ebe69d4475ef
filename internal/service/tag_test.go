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

func newTestTagService(t *testing.T) (*TagService, *domain.User) {
	t.Helper()
	s := newTestStore(t)
	user := seedUser(t, s, "tags@example.com")
	return NewTagService(s, slog.Default()), user
}

func TestCreateTag(t *testing.T) {
	svc, user := newTestTagService(t)
	ctx := context.Background()

	tag, err := svc.CreateTag(ctx, user.ID, CreateTagRequest{Name: "Work", Color: "#4A90D9"})
	require.NoError(t, err)
	assert.Equal(t, "Work", tag.Name)
	assert.Equal(t, user.ID, tag.OwnerID)
	assert.False(t, tag.IsDefault())

	// Duplicate name for the same owner is rejected.
	_, err = svc.CreateTag(ctx, user.ID, CreateTagRequest{Name: "Work", Color: "#000000"})
	var domainErr *domainerrors.Error
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, domainerrors.CodeAlreadyExists, domainErr.Code)
}

func TestCreateTag_ReservedName(t *testing.T) {
	svc, user := newTestTagService(t)

	_, err := svc.CreateTag(context.Background(), user.ID, CreateTagRequest{
		Name:  domain.UnclassifiedTagName,
		Color: "#808080",
	})
	var domainErr *domainerrors.Error
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, domainerrors.CodeValidation, domainErr.Code)
}

func TestCreateTag_InvalidColor(t *testing.T) {
	svc, user := newTestTagService(t)

	_, err := svc.CreateTag(context.Background(), user.ID, CreateTagRequest{Name: "Work", Color: "blue"})
	var domainErr *domainerrors.Error
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, domainerrors.CodeValidation, domainErr.Code)
}

func TestListTags_IncludesDefaults(t *testing.T) {
	s := newTestStore(t)
	user := seedUser(t, s, "tags@example.com")
	other := seedUser(t, s, "other@example.com")
	seedTag(t, s, "", domain.SleepTagName, "#333366") // default tag
	seedTag(t, s, user.ID, "Work", "#4A90D9")
	seedTag(t, s, other.ID, "Secret", "#FF0000")

	svc := NewTagService(s, slog.Default())
	tags, err := svc.ListTags(context.Background(), user.ID)
	require.NoError(t, err)

	names := make([]string, 0, len(tags))
	for _, tag := range tags {
		names = append(names, tag.Name)
	}
	assert.ElementsMatch(t, []string{domain.SleepTagName, "Work"}, names)
}

func TestUpdateTag_OwnershipEnforced(t *testing.T) {
	s := newTestStore(t)
	user := seedUser(t, s, "tags@example.com")
	other := seedUser(t, s, "other@example.com")
	tag := seedTag(t, s, other.ID, "Theirs", "#FF0000")
	def := seedTag(t, s, "", domain.SleepTagName, "#333366")

	svc := NewTagService(s, slog.Default())
	ctx := context.Background()
	newName := "Mine"

	// Another user's tag reads as not found.
	_, err := svc.UpdateTag(ctx, user.ID, tag.ID, UpdateTagRequest{Name: &newName})
	var domainErr *domainerrors.Error
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, domainerrors.CodeNotFound, domainErr.Code)

	// Default tags are read-only.
	_, err = svc.UpdateTag(ctx, user.ID, def.ID, UpdateTagRequest{Name: &newName})
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, domainerrors.CodeForbidden, domainErr.Code)
}

func TestDeleteTag_RefusesWhileInUse(t *testing.T) {
	s := newTestStore(t)
	user := seedUser(t, s, "tags@example.com")
	tag := seedTag(t, s, user.ID, "Work", "#4A90D9")
	seedSlots(t, s, user.ID, "2024-01-15", tag.ID, 0, 3)

	svc := NewTagService(s, slog.Default())
	ctx := context.Background()

	err := svc.DeleteTag(ctx, user.ID, tag.ID)
	var domainErr *domainerrors.Error
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, domainerrors.CodeConflict, domainErr.Code)

	// Clearing the slots unblocks deletion.
	require.NoError(t, s.DeleteSlots(ctx, user.ID, mustDate(t, "2024-01-15"), nil))
	require.NoError(t, svc.DeleteTag(ctx, user.ID, tag.ID))
}
