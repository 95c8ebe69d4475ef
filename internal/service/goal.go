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

// GoalService manages per-tag time targets and computes their progress.
// A user holds at most one goal per (tag, period) pair.
type GoalService struct {
	store      store.Store
	tagService *TagService
	logger     *slog.Logger
}

// NewGoalService creates a new goal service.
func NewGoalService(store store.Store, tagService *TagService, logger *slog.Logger) *GoalService {
	return &GoalService{
		store:      store,
		tagService: tagService,
		logger:     logger,
	}
}

// CreateGoalRequest contains the data for a new goal.
type CreateGoalRequest struct {
	TagID       string  `json:"tag_id" validate:"required"`
	Period      string  `json:"period" validate:"required,oneof=daily weekly monthly"`
	TargetHours float64 `json:"target_hours" validate:"min=0,max=744"`
}

// UpdateGoalRequest contains partial goal updates. Nil fields are unchanged.
type UpdateGoalRequest struct {
	TargetHours *float64 `json:"target_hours,omitempty" validate:"omitempty,min=0,max=744"`
}

// ListGoals returns all of the user's goals.
func (s *GoalService) ListGoals(ctx context.Context, userID string) ([]*domain.Goal, error) {
	goals, err := s.store.ListGoalsForUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list goals: %w", err)
	}
	return goals, nil
}

// CreateGoal creates a goal for a tag the user can see.
func (s *GoalService) CreateGoal(ctx context.Context, userID string, req CreateGoalRequest) (*domain.Goal, error) {
	if err := validate.Struct(req); err != nil {
		return nil, formatValidationError(err)
	}

	if _, err := s.tagService.resolveTagForUser(ctx, userID, req.TagID); err != nil {
		return nil, err
	}

	goalID, err := id.Generate("goal")
	if err != nil {
		return nil, fmt.Errorf("generate goal ID: %w", err)
	}

	now := time.Now()
	goal := &domain.Goal{
		ID:          goalID,
		UserID:      userID,
		TagID:       req.TagID,
		Period:      domain.GoalPeriod(req.Period),
		TargetHours: req.TargetHours,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.store.CreateGoal(ctx, goal); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return nil, domainerrors.Conflict("a goal for this tag and period already exists")
		}
		return nil, fmt.Errorf("create goal: %w", err)
	}

	if s.logger != nil {
		s.logger.Info("Goal created",
			"goal_id", goalID,
			"user_id", userID,
			"tag_id", req.TagID,
			"period", req.Period,
		)
	}

	return goal, nil
}

// UpdateGoal changes a goal's target.
func (s *GoalService) UpdateGoal(ctx context.Context, userID, goalID string, req UpdateGoalRequest) (*domain.Goal, error) {
	if err := validate.Struct(req); err != nil {
		return nil, formatValidationError(err)
	}

	goal, err := s.getOwnedGoal(ctx, userID, goalID)
	if err != nil {
		return nil, err
	}

	if req.TargetHours != nil {
		goal.TargetHours = *req.TargetHours
	}
	goal.Touch()

	if err := s.store.UpdateGoal(ctx, goal); err != nil {
		return nil, fmt.Errorf("update goal: %w", err)
	}

	return goal, nil
}

// DeleteGoal removes a goal.
func (s *GoalService) DeleteGoal(ctx context.Context, userID, goalID string) error {
	if _, err := s.getOwnedGoal(ctx, userID, goalID); err != nil {
		return err
	}

	if err := s.store.DeleteGoal(ctx, goalID); err != nil {
		return fmt.Errorf("delete goal: %w", err)
	}

	return nil
}

// Progress computes each goal's achievement over the period window
// containing the reference date. Percent is nil for zero targets; a zero
// target is a reminder without a measurable completion.
func (s *GoalService) Progress(ctx context.Context, userID string, date string) ([]*domain.GoalProgress, error) {
	ref, err := parseDate(date)
	if err != nil {
		return nil, err
	}

	goals, err := s.store.ListGoalsForUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list goals: %w", err)
	}
	if len(goals) == 0 {
		return []*domain.GoalProgress{}, nil
	}

	tags, err := s.store.ListTagsForUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list tags: %w", err)
	}
	tagsByID := make(map[string]*domain.Tag, len(tags))
	for _, tag := range tags {
		tagsByID[tag.ID] = tag
	}

	// One range query per period present, shared across that period's goals.
	type periodSlots struct {
		start, end    time.Time
		minutesPerTag map[string]int
	}
	byPeriod := make(map[domain.GoalPeriod]*periodSlots)
	for _, goal := range goals {
		if _, ok := byPeriod[goal.Period]; ok {
			continue
		}
		start, end := goal.Period.Range(ref)
		slots, err := s.store.GetSlotsInRange(ctx, userID, start, end)
		if err != nil {
			return nil, fmt.Errorf("get slots for %s window: %w", goal.Period, err)
		}
		minutes := make(map[string]int)
		for _, slot := range slots {
			if slot.TagID != "" {
				minutes[slot.TagID] += domain.MinutesPerSlot
			}
		}
		byPeriod[goal.Period] = &periodSlots{start: start, end: end, minutesPerTag: minutes}
	}

	progress := make([]*domain.GoalProgress, 0, len(goals))
	for _, goal := range goals {
		window := byPeriod[goal.Period]
		actual := round1(float64(window.minutesPerTag[goal.TagID]) / 60)

		var percent *int
		if goal.TargetHours > 0 {
			p := int(actual / goal.TargetHours * 100)
			percent = &p
		}

		entry := &domain.GoalProgress{
			Goal:        *goal,
			PeriodStart: window.start.Format(domain.DateFormat),
			PeriodEnd:   window.end.Format(domain.DateFormat),
			ActualHours: actual,
			Percent:     percent,
		}
		if tag, ok := tagsByID[goal.TagID]; ok {
			entry.TagName = tag.Name
			entry.TagColor = tag.Color
		}
		progress = append(progress, entry)
	}

	return progress, nil
}

// getOwnedGoal loads a goal and verifies the user owns it.
func (s *GoalService) getOwnedGoal(ctx context.Context, userID, goalID string) (*domain.Goal, error) {
	goal, err := s.store.GetGoal(ctx, goalID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, domainerrors.NotFound("goal not found")
		}
		return nil, fmt.Errorf("get goal: %w", err)
	}
	if goal.UserID != userID {
		return nil, domainerrors.NotFound("goal not found")
	}
	return goal, nil
}
