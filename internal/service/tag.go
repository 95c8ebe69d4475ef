package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/lifediary/lifediary-server/internal/domain"
	domainerrors "github.com/lifediary/lifediary-server/internal/errors"
	"github.com/lifediary/lifediary-server/internal/id"
	"github.com/lifediary/lifediary-server/internal/store"
)

// TagService manages activity tags. Users see the shared default tags plus
// their own tags; only owned tags can be changed.
type TagService struct {
	store  store.Store
	logger *slog.Logger
}

// NewTagService creates a new tag service.
func NewTagService(store store.Store, logger *slog.Logger) *TagService {
	return &TagService{
		store:  store,
		logger: logger,
	}
}

// CreateTagRequest contains the data for a new tag.
type CreateTagRequest struct {
	Name  string `json:"name" validate:"required,max=50"`
	Color string `json:"color" validate:"required,hexcolor"`
}

// UpdateTagRequest contains partial tag updates. Nil fields are unchanged.
type UpdateTagRequest struct {
	Name  *string `json:"name,omitempty" validate:"omitempty,min=1,max=50"`
	Color *string `json:"color,omitempty" validate:"omitempty,hexcolor"`
}

// ListTags returns the default tags followed by the user's own tags.
func (s *TagService) ListTags(ctx context.Context, userID string) ([]*domain.Tag, error) {
	tags, err := s.store.ListTagsForUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list tags: %w", err)
	}
	return tags, nil
}

// CreateTag creates a personal tag for the user.
// The unclassified bucket name is reserved: it only exists in statistics output.
func (s *TagService) CreateTag(ctx context.Context, userID string, req CreateTagRequest) (*domain.Tag, error) {
	if err := validate.Struct(req); err != nil {
		return nil, formatValidationError(err)
	}

	if req.Name == domain.UnclassifiedTagName {
		return nil, domainerrors.Validationf("%q is a reserved tag name", req.Name)
	}

	tagID, err := id.Generate("tag")
	if err != nil {
		return nil, fmt.Errorf("generate tag ID: %w", err)
	}

	now := time.Now()
	tag := &domain.Tag{
		ID:        tagID,
		OwnerID:   userID,
		Name:      req.Name,
		Color:     req.Color,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.store.CreateTag(ctx, tag); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return nil, domainerrors.AlreadyExistsf("tag %q already exists", req.Name)
		}
		return nil, fmt.Errorf("create tag: %w", err)
	}

	if s.logger != nil {
		s.logger.Info("Tag created", "tag_id", tagID, "user_id", userID, "name", tag.Name)
	}

	return tag, nil
}

// UpdateTag renames or recolors a tag the user owns.
func (s *TagService) UpdateTag(ctx context.Context, userID, tagID string, req UpdateTagRequest) (*domain.Tag, error) {
	if err := validate.Struct(req); err != nil {
		return nil, formatValidationError(err)
	}

	tag, err := s.getOwnedTag(ctx, userID, tagID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		if *req.Name == domain.UnclassifiedTagName {
			return nil, domainerrors.Validationf("%q is a reserved tag name", *req.Name)
		}
		tag.Name = *req.Name
	}
	if req.Color != nil {
		tag.Color = *req.Color
	}
	tag.Touch()

	if err := s.store.UpdateTag(ctx, tag); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return nil, domainerrors.AlreadyExistsf("tag %q already exists", tag.Name)
		}
		return nil, fmt.Errorf("update tag: %w", err)
	}

	return tag, nil
}

// DeleteTag removes a tag the user owns. Tags still referenced by recorded
// slots cannot be deleted; the caller must clear or retag those slots first.
func (s *TagService) DeleteTag(ctx context.Context, userID, tagID string) error {
	tag, err := s.getOwnedTag(ctx, userID, tagID)
	if err != nil {
		return err
	}

	inUse, err := s.store.CountSlotsWithTag(ctx, tagID)
	if err != nil {
		return fmt.Errorf("count tag usage: %w", err)
	}
	if inUse > 0 {
		return domainerrors.Conflictf("tag %q is used by %d recorded slots", tag.Name, inUse)
	}

	if err := s.store.DeleteTag(ctx, tagID); err != nil {
		return fmt.Errorf("delete tag: %w", err)
	}

	if s.logger != nil {
		s.logger.Info("Tag deleted", "tag_id", tagID, "user_id", userID)
	}

	return nil
}

// getOwnedTag loads a tag and verifies the user owns it.
// Default tags are read-only for everyone.
func (s *TagService) getOwnedTag(ctx context.Context, userID, tagID string) (*domain.Tag, error) {
	tag, err := s.store.GetTag(ctx, tagID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, domainerrors.NotFound("tag not found")
		}
		return nil, fmt.Errorf("get tag: %w", err)
	}

	if tag.IsDefault() {
		return nil, domainerrors.Forbidden("default tags cannot be modified")
	}
	if tag.OwnerID != userID {
		// Don't reveal other users' tags
		return nil, domainerrors.NotFound("tag not found")
	}

	return tag, nil
}

// resolveTagForUser loads a tag visible to the user (default or owned).
// Used when validating slot and goal references.
func (s *TagService) resolveTagForUser(ctx context.Context, userID, tagID string) (*domain.Tag, error) {
	tag, err := s.store.GetTag(ctx, tagID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, domainerrors.NotFound("tag not found")
		}
		return nil, fmt.Errorf("get tag: %w", err)
	}
	if !tag.IsDefault() && tag.OwnerID != userID {
		return nil, domainerrors.NotFound("tag not found")
	}
	return tag, nil
}
