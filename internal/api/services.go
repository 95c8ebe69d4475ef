package api

import (
	"github.com/lifediary/lifediary-server/internal/service"
)

// Services groups all business logic services used by the API server.
// This reduces the parameter count for NewServer and improves testability.
type Services struct {
	Auth     *service.AuthService
	Session  *service.SessionService
	Tag      *service.TagService
	Slot     *service.SlotService
	Goal     *service.GoalService
	Note     *service.NoteService
	Stats    *service.StatsService
	Feedback *service.FeedbackService
}
