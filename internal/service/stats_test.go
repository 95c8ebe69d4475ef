package service

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lifediary/lifediary-server/internal/domain"
)

func TestDaily_EmptyDay(t *testing.T) {
	s := newTestStore(t)
	user := seedUser(t, s, "u@example.com")
	stats := NewStatsService(s, DefaultExclusionPolicy(), slog.Default())

	daily, err := stats.Daily(context.Background(), user.ID, "2024-01-15")
	require.NoError(t, err)

	require.Len(t, daily.Tags, 1)
	assert.Equal(t, domain.UnclassifiedTagName, daily.Tags[0].Name)
	assert.Equal(t, domain.MinutesPerDay, daily.Tags[0].Minutes)
	assert.Equal(t, 24.0, daily.Tags[0].Hours)

	assert.Equal(t, 0, daily.RecordedBlocks)
	assert.Equal(t, 0.0, daily.FillPercent)
	assert.Equal(t, 0.0, daily.ActiveHours)
	assert.Nil(t, daily.TopTag)
	assert.Equal(t, 0, daily.PeakHour)

	// Every hour is fully unclassified.
	require.Len(t, daily.Hours, 24)
	for _, hour := range daily.Hours {
		assert.Equal(t, 0, hour.Minutes)
		require.Len(t, hour.Tags, 1)
		assert.Equal(t, domain.MinutesPerHour, hour.Tags[0].Minutes)
	}
}

func TestDaily_SingleWorkSlot(t *testing.T) {
	s := newTestStore(t)
	user := seedUser(t, s, "u@example.com")
	work := seedTag(t, s, user.ID, "Work", "#4A90D9")
	seedSlots(t, s, user.ID, "2024-01-15", work.ID, 0, 1)

	stats := NewStatsService(s, DefaultExclusionPolicy(), slog.Default())
	daily, err := stats.Daily(context.Background(), user.ID, "2024-01-15")
	require.NoError(t, err)

	require.Len(t, daily.Tags, 2)
	assert.Equal(t, domain.UnclassifiedTagName, daily.Tags[0].Name)
	assert.Equal(t, 1430, daily.Tags[0].Minutes)
	assert.Equal(t, 23.8, daily.Tags[0].Hours)
	assert.Equal(t, "Work", daily.Tags[1].Name)
	assert.Equal(t, 10, daily.Tags[1].Minutes)
	assert.Equal(t, 0.2, daily.Tags[1].Hours)

	assert.Equal(t, 1, daily.RecordedBlocks)
	assert.Equal(t, 0.7, daily.FillPercent)
	assert.Equal(t, 0.2, daily.ActiveHours)
	require.NotNil(t, daily.TopTag)
	assert.Equal(t, "Work", daily.TopTag.Name)
	assert.Equal(t, 0, daily.PeakHour)
}

func TestDaily_CoverageInvariant(t *testing.T) {
	s := newTestStore(t)
	user := seedUser(t, s, "u@example.com")
	work := seedTag(t, s, user.ID, "Work", "#4A90D9")
	sleep := seedTag(t, s, user.ID, domain.SleepTagName, "#333366")
	seedSlots(t, s, user.ID, "2024-03-05", sleep.ID, 0, 42)   // 00:00-07:00
	seedSlots(t, s, user.ID, "2024-03-05", work.ID, 54, 48)   // 09:00-17:00

	stats := NewStatsService(s, DefaultExclusionPolicy(), slog.Default())
	daily, err := stats.Daily(context.Background(), user.ID, "2024-03-05")
	require.NoError(t, err)

	totalMinutes := 0
	for _, tag := range daily.Tags {
		totalMinutes += tag.Minutes
	}
	assert.Equal(t, domain.MinutesPerDay, totalMinutes)

	// Every hour bucket accounts for exactly 60 minutes.
	hourTotal := 0
	for _, hour := range daily.Hours {
		sum := 0
		for _, tag := range hour.Tags {
			sum += tag.Minutes
		}
		assert.Equal(t, domain.MinutesPerHour, sum, "hour %d", hour.Hour)
		hourTotal += sum
	}
	assert.Equal(t, domain.MinutesPerDay, hourTotal)

	// Peak is the first hour with the most classified minutes.
	assert.Equal(t, 0, daily.PeakHour)
	assert.Equal(t, 60, daily.Hours[9].Minutes)
}

func TestWeekly_ActiveExcludesSleep(t *testing.T) {
	s := newTestStore(t)
	user := seedUser(t, s, "u@example.com")
	work := seedTag(t, s, user.ID, "Work", "#4A90D9")
	sleep := seedTag(t, s, user.ID, domain.SleepTagName, "#333366")
	// Monday 2024-01-15: 8h sleep, 2h work.
	seedSlots(t, s, user.ID, "2024-01-15", sleep.ID, 0, 48)
	seedSlots(t, s, user.ID, "2024-01-15", work.ID, 54, 12)

	stats := NewStatsService(s, DefaultExclusionPolicy(), slog.Default())
	weekly, err := stats.Weekly(context.Background(), user.ID, "2024-01-17")
	require.NoError(t, err)

	assert.Equal(t, "2024-01-15", weekly.Start)
	assert.Equal(t, "2024-01-21", weekly.End)
	require.Len(t, weekly.Days, 7)

	monday := weekly.Days[0]
	assert.Equal(t, "월", monday.Label)
	assert.Equal(t, "2024-01-15", monday.Date)
	assert.Equal(t, 12, monday.ActiveBlocks)
	assert.Equal(t, 120, monday.ActiveMinutes)
	assert.Equal(t, 2.0, monday.ActiveHours)
	assert.Equal(t, 1, weekly.ActiveDays)

	// Each day's tag minutes cover the full day; the week covers 7 days.
	weekMinutes := 0
	for _, day := range weekly.Days {
		dayMinutes := 0
		for _, tag := range day.Tags {
			dayMinutes += tag.Minutes
		}
		assert.Equal(t, domain.MinutesPerDay, dayMinutes, "day %s", day.Date)
		weekMinutes += dayMinutes
	}
	assert.Equal(t, domain.MinutesPerDay*7, weekMinutes)

	// The weekly per-tag matrix accounts for the same total.
	matrixMinutes := 0
	for _, tag := range weekly.Tags {
		for _, m := range tag.DailyMinutes {
			matrixMinutes += m
		}
	}
	assert.Equal(t, domain.MinutesPerDay*7, matrixMinutes)

	// Work: 2h on one day.
	for _, tag := range weekly.Tags {
		if tag.Name == "Work" {
			assert.Equal(t, 2.0, tag.TotalHours)
			assert.Equal(t, 2.0, tag.AvgHours)
			assert.Equal(t, 120, tag.DailyMinutes[0])
		}
	}
}

func TestMonthly_ZeroRecordMonth(t *testing.T) {
	s := newTestStore(t)
	user := seedUser(t, s, "u@example.com")
	stats := NewStatsService(s, DefaultExclusionPolicy(), slog.Default())

	monthly, err := stats.Monthly(context.Background(), user.ID, "2024-02-10")
	require.NoError(t, err)

	assert.Equal(t, 2024, monthly.Year)
	assert.Equal(t, 2, monthly.Month)
	assert.Equal(t, 29, monthly.TotalDays) // leap year
	assert.Empty(t, monthly.Tags)
	assert.Equal(t, 0.0, monthly.TotalHours)
	assert.Equal(t, 0, monthly.ActiveDays)
	assert.Equal(t, 0.0, monthly.AvgDailyHours)

	require.Len(t, monthly.Unclassified.DailyHours, 29)
	for i, h := range monthly.Unclassified.DailyHours {
		assert.Equal(t, 24.0, h, "day %d", i)
	}
}

func TestMonthly_HeadlineExcludesUnclassified(t *testing.T) {
	s := newTestStore(t)
	user := seedUser(t, s, "u@example.com")
	work := seedTag(t, s, user.ID, "Work", "#4A90D9")
	seedSlots(t, s, user.ID, "2024-01-10", work.ID, 54, 6)  // 1h
	seedSlots(t, s, user.ID, "2024-01-20", work.ID, 54, 12) // 2h

	stats := NewStatsService(s, DefaultExclusionPolicy(), slog.Default())
	monthly, err := stats.Monthly(context.Background(), user.ID, "2024-01-15")
	require.NoError(t, err)

	require.Len(t, monthly.Tags, 1)
	workStat := monthly.Tags[0]
	assert.Equal(t, "Work", workStat.Name)
	assert.Equal(t, 3.0, workStat.TotalHours)
	assert.Equal(t, 1.0, workStat.DailyHours[9])
	assert.Equal(t, 2.0, workStat.DailyHours[19])
	assert.Equal(t, 1.5, workStat.AvgHours)

	assert.Equal(t, 3.0, monthly.TotalHours)
	assert.Equal(t, 2, monthly.ActiveDays)
	assert.Equal(t, 0.1, monthly.AvgDailyHours)

	// Per-day columns still sum to a full 24 hours.
	for d := 0; d < monthly.TotalDays; d++ {
		sum := monthly.Unclassified.DailyHours[d]
		for _, tag := range monthly.Tags {
			sum += tag.DailyHours[d]
		}
		assert.InDelta(t, 24.0, sum, 0.05, "day %d", d)
	}
}

func TestTagAnalysis(t *testing.T) {
	s := newTestStore(t)
	user := seedUser(t, s, "u@example.com")
	work := seedTag(t, s, user.ID, "Work", "#4A90D9")
	read := seedTag(t, s, user.ID, "Reading", "#2ECC71")
	seedSlots(t, s, user.ID, "2024-01-10", work.ID, 54, 6)  // 1h
	seedSlots(t, s, user.ID, "2024-01-20", work.ID, 54, 12) // 2h
	seedSlots(t, s, user.ID, "2024-01-12", read.ID, 120, 3) // 30m

	stats := NewStatsService(s, DefaultExclusionPolicy(), slog.Default())
	entries, err := stats.TagAnalysis(context.Background(), user.ID, "2024-01-15")
	require.NoError(t, err)

	require.Len(t, entries, 2)
	assert.Equal(t, "Work", entries[0].Name) // sorted by hours descending
	assert.Equal(t, 3.0, entries[0].TotalHours)
	assert.Equal(t, 18, entries[0].TotalBlocks)
	assert.Equal(t, 2, entries[0].DaysUsed)
	assert.Equal(t, "2024-01-10", entries[0].FirstUsed)
	assert.Equal(t, "2024-01-20", entries[0].LastUsed)
	assert.Equal(t, 18.2, entries[0].UsageFrequency) // 2 of 11 span days
	assert.Equal(t, 90.0, entries[0].AvgDailyMinutes)

	assert.Equal(t, "Reading", entries[1].Name)
	assert.Equal(t, 0.5, entries[1].TotalHours)
}

func TestStats_SlotWithDeletedTagIsUnclassified(t *testing.T) {
	s := newTestStore(t)
	user := seedUser(t, s, "u@example.com")
	work := seedTag(t, s, user.ID, "Work", "#4A90D9")
	seedSlots(t, s, user.ID, "2024-01-15", work.ID, 0, 6)
	// Deleting the tag leaves the recorded slots behind with no tag.
	require.NoError(t, s.DeleteTag(context.Background(), work.ID))

	stats := NewStatsService(s, DefaultExclusionPolicy(), slog.Default())
	daily, err := stats.Daily(context.Background(), user.ID, "2024-01-15")
	require.NoError(t, err)

	require.Len(t, daily.Tags, 1)
	assert.Equal(t, domain.UnclassifiedTagName, daily.Tags[0].Name)
	assert.Equal(t, domain.MinutesPerDay, daily.Tags[0].Minutes)
	assert.Equal(t, 6, daily.RecordedBlocks)
	assert.Equal(t, 0.0, daily.ActiveHours)
}

func TestStats_Idempotent(t *testing.T) {
	s := newTestStore(t)
	user := seedUser(t, s, "u@example.com")
	work := seedTag(t, s, user.ID, "Work", "#4A90D9")
	seedSlots(t, s, user.ID, "2024-01-15", work.ID, 30, 18)

	stats := NewStatsService(s, DefaultExclusionPolicy(), slog.Default())
	ctx := context.Background()

	daily1, err := stats.Daily(ctx, user.ID, "2024-01-15")
	require.NoError(t, err)
	daily2, err := stats.Daily(ctx, user.ID, "2024-01-15")
	require.NoError(t, err)
	assert.Equal(t, daily1, daily2)

	weekly1, err := stats.Weekly(ctx, user.ID, "2024-01-15")
	require.NoError(t, err)
	weekly2, err := stats.Weekly(ctx, user.ID, "2024-01-15")
	require.NoError(t, err)
	assert.Equal(t, weekly1, weekly2)

	monthly1, err := stats.Monthly(ctx, user.ID, "2024-01-15")
	require.NoError(t, err)
	monthly2, err := stats.Monthly(ctx, user.ID, "2024-01-15")
	require.NoError(t, err)
	assert.Equal(t, monthly1, monthly2)
}
