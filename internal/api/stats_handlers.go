package api

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/lifediary/lifediary-server/internal/domain"
)

func (s *Server) registerStatsRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "dailyStats",
		Method:      http.MethodGet,
		Path:        "/api/v1/stats/daily",
		Summary:     "Daily statistics",
		Description: "Per-tag and per-hour breakdown of one day; tags always cover 1440 minutes",
		Tags:        []string{"Statistics"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleDailyStats)

	huma.Register(s.api, huma.Operation{
		OperationID: "weeklyStats",
		Method:      http.MethodGet,
		Path:        "/api/v1/stats/weekly",
		Summary:     "Weekly statistics",
		Description: "Day lines and per-tag totals for the Monday-start week containing the date",
		Tags:        []string{"Statistics"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleWeeklyStats)

	huma.Register(s.api, huma.Operation{
		OperationID: "monthlyStats",
		Method:      http.MethodGet,
		Path:        "/api/v1/stats/monthly",
		Summary:     "Monthly statistics",
		Description: "Per-tag daily hour columns for the calendar month containing the date",
		Tags:        []string{"Statistics"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleMonthlyStats)

	huma.Register(s.api, huma.Operation{
		OperationID: "tagAnalysis",
		Method:      http.MethodGet,
		Path:        "/api/v1/stats/tag-analysis",
		Summary:     "Tag analysis",
		Description: "Long-range usage profile per tag over the month containing the date",
		Tags:        []string{"Statistics"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleTagAnalysis)

	huma.Register(s.api, huma.Operation{
		OperationID: "feedback",
		Method:      http.MethodGet,
		Path:        "/api/v1/stats/feedback",
		Summary:     "Feedback",
		Description: "Ordered advisory messages derived from goals and recent statistics",
		Tags:        []string{"Statistics"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleFeedback)
}

// === DTOs ===

// StatsDateInput carries the reference date for a statistics query.
type StatsDateInput struct {
	Date string `query:"date" doc:"Reference date (YYYY-MM-DD); defaults to today"`
}

// DailyStatsOutput wraps the daily aggregation for Huma.
type DailyStatsOutput struct {
	Body domain.DailyStats
}

// WeeklyStatsOutput wraps the weekly aggregation for Huma.
type WeeklyStatsOutput struct {
	Body domain.WeeklyStats
}

// MonthlyStatsOutput wraps the monthly aggregation for Huma.
type MonthlyStatsOutput struct {
	Body domain.MonthlyStats
}

// TagAnalysisResponse contains the per-tag usage profiles.
type TagAnalysisResponse struct {
	Tags []domain.TagAnalysisEntry `json:"tags"`
}

// TagAnalysisOutput wraps the tag analysis for Huma.
type TagAnalysisOutput struct {
	Body TagAnalysisResponse
}

// FeedbackResponse contains ordered advisory messages.
type FeedbackResponse struct {
	Messages []string `json:"messages" doc:"Advisory messages in rule order"`
}

// FeedbackOutput wraps the feedback messages for Huma.
type FeedbackOutput struct {
	Body FeedbackResponse
}

// === Handlers ===

func (s *Server) handleDailyStats(ctx context.Context, input *StatsDateInput) (*DailyStatsOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	stats, err := s.services.Stats.Daily(ctx, userID, statsDate(input.Date))
	if err != nil {
		return nil, err
	}

	return &DailyStatsOutput{Body: *stats}, nil
}

func (s *Server) handleWeeklyStats(ctx context.Context, input *StatsDateInput) (*WeeklyStatsOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	stats, err := s.services.Stats.Weekly(ctx, userID, statsDate(input.Date))
	if err != nil {
		return nil, err
	}

	return &WeeklyStatsOutput{Body: *stats}, nil
}

func (s *Server) handleMonthlyStats(ctx context.Context, input *StatsDateInput) (*MonthlyStatsOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	stats, err := s.services.Stats.Monthly(ctx, userID, statsDate(input.Date))
	if err != nil {
		return nil, err
	}

	return &MonthlyStatsOutput{Body: *stats}, nil
}

func (s *Server) handleTagAnalysis(ctx context.Context, input *StatsDateInput) (*TagAnalysisOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	entries, err := s.services.Stats.TagAnalysis(ctx, userID, statsDate(input.Date))
	if err != nil {
		return nil, err
	}

	return &TagAnalysisOutput{Body: TagAnalysisResponse{Tags: entries}}, nil
}

func (s *Server) handleFeedback(ctx context.Context, input *StatsDateInput) (*FeedbackOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	messages, err := s.services.Feedback.Generate(ctx, userID, statsDate(input.Date))
	if err != nil {
		return nil, err
	}
	if messages == nil {
		messages = []string{}
	}

	return &FeedbackOutput{Body: FeedbackResponse{Messages: messages}}, nil
}

// === Helpers ===

// statsDate defaults an empty date parameter to today.
func statsDate(date string) string {
	if date == "" {
		return time.Now().Format(domain.DateFormat)
	}
	return date
}
