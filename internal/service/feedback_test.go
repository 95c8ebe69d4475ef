package service

import (
	"context"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lifediary/lifediary-server/internal/domain"
	"github.com/lifediary/lifediary-server/internal/id"
	"github.com/lifediary/lifediary-server/internal/store"
)

func newTestFeedback(t *testing.T) (*FeedbackService, store.Store, *domain.User) {
	t.Helper()
	s := newTestStore(t)
	user := seedUser(t, s, "feedback@example.com")
	logger := slog.Default()
	tags := NewTagService(s, logger)
	goals := NewGoalService(s, tags, logger)
	stats := NewStatsService(s, DefaultExclusionPolicy(), logger)
	feedback := NewFeedbackService(stats, goals, DefaultFeedbackConfig(), logger)
	return feedback, s, user
}

func seedGoal(t *testing.T, s store.Store, userID, tagID string, period domain.GoalPeriod, target float64) {
	t.Helper()
	goalID, err := id.Generate("goal")
	require.NoError(t, err)
	now := time.Now()
	require.NoError(t, s.CreateGoal(context.Background(), &domain.Goal{
		ID:          goalID,
		UserID:      userID,
		TagID:       tagID,
		Period:      period,
		TargetHours: target,
		CreatedAt:   now,
		UpdatedAt:   now,
	}))
}

func containsMessage(messages []string, substr string) bool {
	for _, m := range messages {
		if strings.Contains(m, substr) {
			return true
		}
	}
	return false
}

func TestGenerate_WeeklyGoalAchieved(t *testing.T) {
	fb, s, user := newTestFeedback(t)
	work := seedTag(t, s, user.ID, "Work", "#4A90D9")
	// 12.5 hours of work in the week of 2024-01-15 against a 10 hour goal.
	seedSlots(t, s, user.ID, "2024-01-15", work.ID, 0, 40)  // ~6.7h
	seedSlots(t, s, user.ID, "2024-01-16", work.ID, 0, 35)  // ~5.8h
	seedGoal(t, s, user.ID, work.ID, domain.GoalPeriodWeekly, 10)

	messages, err := fb.Generate(context.Background(), user.ID, "2024-01-15")
	require.NoError(t, err)

	assert.True(t, containsMessage(messages, "이번 주 'Work' 목표(10시간)를 이미 달성했습니다! 멋져요!"),
		"got %v", messages)
}

func TestGenerate_MonthlyGoalIncomplete(t *testing.T) {
	fb, s, user := newTestFeedback(t)
	work := seedTag(t, s, user.ID, "Work", "#4A90D9")
	seedSlots(t, s, user.ID, "2024-01-10", work.ID, 0, 12) // 2h
	seedGoal(t, s, user.ID, work.ID, domain.GoalPeriodMonthly, 10)

	messages, err := fb.Generate(context.Background(), user.ID, "2024-01-15")
	require.NoError(t, err)

	assert.True(t, containsMessage(messages,
		"이번 달 'Work' 목표(10시간) 중 2.0시간을 달성했습니다. 8.0시간만 더 해보세요!"),
		"got %v", messages)
}

func TestGenerate_ZeroTargetGoalIsSilent(t *testing.T) {
	fb, s, user := newTestFeedback(t)
	work := seedTag(t, s, user.ID, "Work", "#4A90D9")
	seedGoal(t, s, user.ID, work.ID, domain.GoalPeriodMonthly, 0)

	messages, err := fb.Generate(context.Background(), user.ID, "2024-01-15")
	require.NoError(t, err)

	assert.False(t, containsMessage(messages, "목표"), "got %v", messages)
}

func TestGenerate_WeekOverWeekChange(t *testing.T) {
	fb, s, user := newTestFeedback(t)
	work := seedTag(t, s, user.ID, "Work", "#4A90D9")
	// Previous week (2024-01-08): 2h. This week (2024-01-15): 5h.
	seedSlots(t, s, user.ID, "2024-01-08", work.ID, 0, 12)
	seedSlots(t, s, user.ID, "2024-01-15", work.ID, 0, 30)

	messages, err := fb.Generate(context.Background(), user.ID, "2024-01-15")
	require.NoError(t, err)

	assert.True(t, containsMessage(messages,
		"이번주 'Work' 시간이 지난주보다 150% 늘었습니다. 잘하고 있어요!"),
		"got %v", messages)
}

func TestGenerate_RestWarning(t *testing.T) {
	fb, s, user := newTestFeedback(t)
	rest := seedTag(t, s, user.ID, domain.RestTagName, "#E67E22")
	work := seedTag(t, s, user.ID, "Work", "#4A90D9")
	// Rest 65% of classified hours: 13h rest vs 7h work.
	seedSlots(t, s, user.ID, "2024-01-10", rest.ID, 0, 78)  // 13h
	seedSlots(t, s, user.ID, "2024-01-10", work.ID, 100, 42) // 7h

	messages, err := fb.Generate(context.Background(), user.ID, "2024-01-15")
	require.NoError(t, err)

	assert.True(t, containsMessage(messages,
		"휴식 시간이 전체의 65%를 차지합니다. 활동적인 시간을 늘려보세요."),
		"got %v", messages)
	// Rest is excluded from the balance warning even at 65%.
	assert.False(t, containsMessage(messages, "활동의 균형을"), "got %v", messages)
}

func TestGenerate_DominanceWarning(t *testing.T) {
	fb, s, user := newTestFeedback(t)
	work := seedTag(t, s, user.ID, "Work", "#4A90D9")
	read := seedTag(t, s, user.ID, "Reading", "#2ECC71")
	// Work 75% of classified hours.
	seedSlots(t, s, user.ID, "2024-01-10", work.ID, 0, 72)   // 12h
	seedSlots(t, s, user.ID, "2024-01-10", read.ID, 80, 24)  // 4h

	messages, err := fb.Generate(context.Background(), user.ID, "2024-01-15")
	require.NoError(t, err)

	assert.True(t, containsMessage(messages,
		"'Work' 시간이 전체의 75%를 차지합니다. 활동의 균형을 점검해보세요."),
		"got %v", messages)
}

func TestGenerate_UnclassifiedWarning(t *testing.T) {
	fb, s, user := newTestFeedback(t)
	work := seedTag(t, s, user.ID, "Work", "#4A90D9")
	seedSlots(t, s, user.ID, "2024-01-10", work.ID, 0, 6) // nearly everything unrecorded

	messages, err := fb.Generate(context.Background(), user.ID, "2024-01-15")
	require.NoError(t, err)

	assert.True(t, containsMessage(messages, "기록되지 않은 시간이 전체의"), "got %v", messages)
	assert.True(t, containsMessage(messages, "하루를 더 꼼꼼히 기록해보세요."), "got %v", messages)
}

func TestGenerate_VolatilityWarning(t *testing.T) {
	fb, s, user := newTestFeedback(t)
	work := seedTag(t, s, user.ID, "Work", "#4A90D9")
	// Wildly uneven daily hours: 0.5h and 12h.
	seedSlots(t, s, user.ID, "2024-01-08", work.ID, 0, 3)  // 0.5h
	seedSlots(t, s, user.ID, "2024-01-20", work.ID, 0, 72) // 12h

	messages, err := fb.Generate(context.Background(), user.ID, "2024-01-15")
	require.NoError(t, err)

	assert.True(t, containsMessage(messages,
		"최근 'Work' 활동 시간이 들쭉날쭉해요. 규칙적인 리듬을 만들어보세요!"),
		"got %v", messages)
}

func TestGenerate_WakeUpSuggestion(t *testing.T) {
	fb, s, user := newTestFeedback(t)

	messages, err := fb.Generate(context.Background(), user.ID, "2024-01-15")
	require.NoError(t, err)
	assert.True(t, containsMessage(messages,
		"매일 같은 시간에 '기상' 기록을 남겨보세요. 규칙적인 생활에 도움이 됩니다."),
		"got %v", messages)

	// Recording a wake-up slot this month silences the suggestion.
	wake := seedTag(t, s, user.ID, domain.WakeUpTagName, "#F1C40F")
	seedSlots(t, s, user.ID, "2024-01-10", wake.ID, 42, 1)

	messages, err = fb.Generate(context.Background(), user.ID, "2024-01-15")
	require.NoError(t, err)
	assert.False(t, containsMessage(messages, "'기상' 기록을 남겨보세요"), "got %v", messages)
}
