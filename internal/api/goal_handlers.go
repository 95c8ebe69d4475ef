package api

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/lifediary/lifediary-server/internal/domain"
	"github.com/lifediary/lifediary-server/internal/service"
)

func (s *Server) registerGoalRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "listGoals",
		Method:      http.MethodGet,
		Path:        "/api/v1/goals",
		Summary:     "List goals",
		Description: "Returns the user's goals with progress for the current period windows",
		Tags:        []string{"Goals"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleListGoals)

	huma.Register(s.api, huma.Operation{
		OperationID: "createGoal",
		Method:      http.MethodPost,
		Path:        "/api/v1/goals",
		Summary:     "Create goal",
		Description: "Creates a time target for one tag and period; one goal per (tag, period)",
		Tags:        []string{"Goals"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleCreateGoal)

	huma.Register(s.api, huma.Operation{
		OperationID: "updateGoal",
		Method:      http.MethodPatch,
		Path:        "/api/v1/goals/{id}",
		Summary:     "Update goal",
		Description: "Changes the target hours of an existing goal",
		Tags:        []string{"Goals"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleUpdateGoal)

	huma.Register(s.api, huma.Operation{
		OperationID: "deleteGoal",
		Method:      http.MethodDelete,
		Path:        "/api/v1/goals/{id}",
		Summary:     "Delete goal",
		Description: "Deletes one of the user's goals",
		Tags:        []string{"Goals"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleDeleteGoal)
}

// === DTOs ===

// GoalResponse contains goal information in API responses.
type GoalResponse struct {
	ID          string    `json:"id" doc:"Goal ID"`
	TagID       string    `json:"tag_id" doc:"Target tag ID"`
	Period      string    `json:"period" doc:"Goal period: daily, weekly, or monthly"`
	TargetHours float64   `json:"target_hours" doc:"Target hours for the period"`
	CreatedAt   time.Time `json:"created_at" doc:"Creation timestamp"`
	UpdatedAt   time.Time `json:"updated_at" doc:"Last update timestamp"`
}

// GoalProgressResponse is a goal joined with the time recorded in its
// current period window. Percent is null when the target is zero.
type GoalProgressResponse struct {
	Goal        GoalResponse `json:"goal"`
	TagName     string       `json:"tag_name" doc:"Tag name"`
	TagColor    string       `json:"tag_color" doc:"Tag hex color"`
	PeriodStart string       `json:"period_start" doc:"First date of the period window"`
	PeriodEnd   string       `json:"period_end" doc:"Last date of the period window"`
	ActualHours float64      `json:"actual_hours" doc:"Hours recorded in the window"`
	Percent     *int         `json:"percent" doc:"Achievement percentage, null when target is zero"`
}

// ListGoalsInput carries the optional reference date for progress windows.
type ListGoalsInput struct {
	Date string `query:"date" doc:"Reference date (YYYY-MM-DD); defaults to today"`
}

// ListGoalsResponse contains the user's goals with progress.
type ListGoalsResponse struct {
	Goals []GoalProgressResponse `json:"goals"`
}

// ListGoalsOutput wraps the goal list for Huma.
type ListGoalsOutput struct {
	Body ListGoalsResponse
}

// CreateGoalRequest is the request body for goal creation.
type CreateGoalRequest struct {
	TagID       string  `json:"tag_id" validate:"required" doc:"Target tag ID"`
	Period      string  `json:"period" validate:"required,oneof=daily weekly monthly" doc:"Goal period"`
	TargetHours float64 `json:"target_hours" validate:"min=0,max=744" doc:"Target hours for the period"`
}

// CreateGoalInput wraps the create request for Huma.
type CreateGoalInput struct {
	Body CreateGoalRequest
}

// UpdateGoalRequest is the request body for partial goal updates.
type UpdateGoalRequest struct {
	TargetHours *float64 `json:"target_hours,omitempty" validate:"omitempty,min=0,max=744" doc:"New target hours"`
}

// UpdateGoalInput wraps the update request for Huma.
type UpdateGoalInput struct {
	ID   string `path:"id" doc:"Goal ID"`
	Body UpdateGoalRequest
}

// DeleteGoalInput identifies the goal to delete.
type DeleteGoalInput struct {
	ID string `path:"id" doc:"Goal ID"`
}

// GoalOutput wraps a single goal for Huma.
type GoalOutput struct {
	Body GoalResponse
}

// === Handlers ===

func (s *Server) handleListGoals(ctx context.Context, input *ListGoalsInput) (*ListGoalsOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	date := input.Date
	if date == "" {
		date = time.Now().Format(domain.DateFormat)
	}

	progress, err := s.services.Goal.Progress(ctx, userID, date)
	if err != nil {
		return nil, err
	}

	resp := ListGoalsResponse{Goals: make([]GoalProgressResponse, 0, len(progress))}
	for _, p := range progress {
		resp.Goals = append(resp.Goals, GoalProgressResponse{
			Goal:        mapGoalResponse(&p.Goal),
			TagName:     p.TagName,
			TagColor:    p.TagColor,
			PeriodStart: p.PeriodStart,
			PeriodEnd:   p.PeriodEnd,
			ActualHours: p.ActualHours,
			Percent:     p.Percent,
		})
	}

	return &ListGoalsOutput{Body: resp}, nil
}

func (s *Server) handleCreateGoal(ctx context.Context, input *CreateGoalInput) (*GoalOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	goal, err := s.services.Goal.CreateGoal(ctx, userID, service.CreateGoalRequest{
		TagID:       input.Body.TagID,
		Period:      input.Body.Period,
		TargetHours: input.Body.TargetHours,
	})
	if err != nil {
		return nil, err
	}

	return &GoalOutput{Body: mapGoalResponse(goal)}, nil
}

func (s *Server) handleUpdateGoal(ctx context.Context, input *UpdateGoalInput) (*GoalOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	goal, err := s.services.Goal.UpdateGoal(ctx, userID, input.ID, service.UpdateGoalRequest{
		TargetHours: input.Body.TargetHours,
	})
	if err != nil {
		return nil, err
	}

	return &GoalOutput{Body: mapGoalResponse(goal)}, nil
}

func (s *Server) handleDeleteGoal(ctx context.Context, input *DeleteGoalInput) (*MessageOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.services.Goal.DeleteGoal(ctx, userID, input.ID); err != nil {
		return nil, err
	}

	return &MessageOutput{Body: MessageResponse{Message: "Goal deleted"}}, nil
}

// === Helpers ===

func mapGoalResponse(goal *domain.Goal) GoalResponse {
	return GoalResponse{
		ID:          goal.ID,
		TagID:       goal.TagID,
		Period:      string(goal.Period),
		TargetHours: goal.TargetHours,
		CreatedAt:   goal.CreatedAt,
		UpdatedAt:   goal.UpdatedAt,
	}
}
