package service

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"sort"
	"time"

	"github.com/lifediary/lifediary-server/internal/domain"
	"github.com/lifediary/lifediary-server/internal/store"
)

// ExclusionPolicy names the tag sets dropped from derived figures.
// The raw per-tag breakdowns always carry every bucket; only the headline
// numbers (active time, active days) apply exclusions.
type ExclusionPolicy struct {
	// WeeklyActive tags do not count toward a day's active time in the
	// weekly view.
	WeeklyActive []string
	// MonthlyHeadline tags do not count toward the monthly total hours
	// and active days.
	MonthlyHeadline []string
}

// DefaultExclusionPolicy excludes sleep and unrecorded time from weekly
// active figures, and unrecorded time from monthly headlines.
func DefaultExclusionPolicy() ExclusionPolicy {
	return ExclusionPolicy{
		WeeklyActive:    []string{domain.SleepTagName, domain.UnclassifiedTagName},
		MonthlyHeadline: []string{domain.UnclassifiedTagName},
	}
}

func (p ExclusionPolicy) countsTowardWeeklyActive(name string) bool {
	return !contains(p.WeeklyActive, name)
}

func (p ExclusionPolicy) countsTowardMonthlyHeadline(name string) bool {
	return !contains(p.MonthlyHeadline, name)
}

func contains(names []string, name string) bool {
	for _, n := range names {
		if n == name {
			return true
		}
	}
	return false
}

// StatsService computes the daily, weekly, monthly and per-tag aggregations.
// Every period is a single range query partitioned in memory; unrecorded
// time is filled in as the synthetic unclassified bucket so each day always
// accounts for the full 1440 minutes.
type StatsService struct {
	store  store.Store
	policy ExclusionPolicy
	logger *slog.Logger
}

// NewStatsService creates a new statistics service.
func NewStatsService(store store.Store, policy ExclusionPolicy, logger *slog.Logger) *StatsService {
	return &StatsService{
		store:  store,
		policy: policy,
		logger: logger,
	}
}

// tagAcc accumulates one tag's minutes and blocks over a period.
type tagAcc struct {
	tagID   string // empty for the unclassified bucket
	name    string
	color   string
	minutes int
	blocks  int
}

// slotTagInfo resolves a slot to its tag identity. Slots with a missing or
// deleted tag fall into the unclassified bucket.
func slotTagInfo(slot *domain.TimeSlot, tagsByID map[string]*domain.Tag) (tagID, name, color string) {
	if slot.TagID != "" {
		if tag, ok := tagsByID[slot.TagID]; ok {
			return tag.ID, tag.Name, tag.Color
		}
	}
	return "", domain.UnclassifiedTagName, domain.UnclassifiedTagColor
}

// tagIndex loads the user's visible tags keyed by ID.
func (s *StatsService) tagIndex(ctx context.Context, userID string) (map[string]*domain.Tag, error) {
	tags, err := s.store.ListTagsForUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list tags: %w", err)
	}
	byID := make(map[string]*domain.Tag, len(tags))
	for _, tag := range tags {
		byID[tag.ID] = tag
	}
	return byID, nil
}

// Daily computes the full aggregation of one calendar day: per-tag totals,
// the 24-hour breakdown, and the headline figures.
func (s *StatsService) Daily(ctx context.Context, userID string, date string) (*domain.DailyStats, error) {
	day, err := parseDate(date)
	if err != nil {
		return nil, err
	}

	tagsByID, err := s.tagIndex(ctx, userID)
	if err != nil {
		return nil, err
	}

	slots, err := s.store.GetSlotsForDate(ctx, userID, day)
	if err != nil {
		return nil, fmt.Errorf("get slots: %w", err)
	}

	tagTotals := make(map[string]*tagAcc)
	var hourly [domain.HoursPerDay]map[string]*tagAcc
	for h := range hourly {
		hourly[h] = make(map[string]*tagAcc)
	}

	classifiedMinutes := 0
	for _, slot := range slots {
		tagID, name, color := slotTagInfo(slot, tagsByID)
		addMinutes(tagTotals, tagID, name, color, domain.MinutesPerSlot)
		addMinutes(hourly[domain.SlotHour(slot.SlotIndex)], tagID, name, color, domain.MinutesPerSlot)
		if tagID != "" {
			classifiedMinutes += domain.MinutesPerSlot
		}
	}

	// Fill shortfalls per hour so every bucket accounts for 60 minutes.
	for h := range hourly {
		recorded := 0
		for _, acc := range hourly[h] {
			recorded += acc.minutes
		}
		if empty := domain.MinutesPerHour - recorded; empty > 0 {
			addMinutes(hourly[h], "", domain.UnclassifiedTagName, domain.UnclassifiedTagColor, empty)
			addMinutes(tagTotals, "", domain.UnclassifiedTagName, domain.UnclassifiedTagColor, empty)
		}
	}

	stats := &domain.DailyStats{
		Date:           day.Format(domain.DateFormat),
		Tags:           sortedTagStats(tagTotals),
		Hours:          make([]domain.HourStat, domain.HoursPerDay),
		RecordedBlocks: len(slots),
		FillPercent:    round1(float64(len(slots)) / domain.SlotsPerDay * 100),
		ActiveHours:    round1(float64(classifiedMinutes) / 60),
	}

	peakMinutes := -1
	for h := range hourly {
		classified := 0
		for _, acc := range hourly[h] {
			if acc.tagID != "" {
				classified += acc.minutes
			}
		}
		stats.Hours[h] = domain.HourStat{
			Hour:    h,
			Minutes: classified,
			Tags:    sortedTagStats(hourly[h]),
		}
		// First occurrence wins; all-zero days peak at hour 0.
		if classified > peakMinutes {
			peakMinutes = classified
			stats.PeakHour = h
		}
	}

	for i := range stats.Tags {
		if stats.Tags[i].TagID != "" {
			top := stats.Tags[i]
			stats.TopTag = &top
			break
		}
	}

	return stats, nil
}

// Weekly computes the Monday-start week containing the reference date:
// a summary line per day plus each tag's distribution across the week.
func (s *StatsService) Weekly(ctx context.Context, userID string, date string) (*domain.WeeklyStats, error) {
	ref, err := parseDate(date)
	if err != nil {
		return nil, err
	}
	start, end := domain.WeekRange(ref)

	tagsByID, err := s.tagIndex(ctx, userID)
	if err != nil {
		return nil, err
	}

	slots, err := s.store.GetSlotsInRange(ctx, userID, start, end)
	if err != nil {
		return nil, fmt.Errorf("get slots: %w", err)
	}

	type weekAcc struct {
		tagID        string
		name         string
		color        string
		dailyMinutes [7]int
	}
	weekTags := make(map[string]*weekAcc)
	addWeekMinutes := func(tagID, name, color string, day, minutes int) {
		acc, ok := weekTags[tagID]
		if !ok {
			acc = &weekAcc{tagID: tagID, name: name, color: color}
			weekTags[tagID] = acc
		}
		acc.dailyMinutes[day] += minutes
	}

	var dayTags [7]map[string]*tagAcc
	var dayRecorded, dayActiveBlocks [7]int
	for d := range dayTags {
		dayTags[d] = make(map[string]*tagAcc)
	}

	for _, slot := range slots {
		d := dayOffset(start, slot.Date)
		if d < 0 || d > 6 {
			continue
		}
		tagID, name, color := slotTagInfo(slot, tagsByID)
		addMinutes(dayTags[d], tagID, name, color, domain.MinutesPerSlot)
		addWeekMinutes(tagID, name, color, d, domain.MinutesPerSlot)
		dayRecorded[d]++
		if tagID != "" && s.policy.countsTowardWeeklyActive(name) {
			dayActiveBlocks[d]++
		}
	}

	stats := &domain.WeeklyStats{
		Start: start.Format(domain.DateFormat),
		End:   end.Format(domain.DateFormat),
		Days:  make([]domain.WeekDay, 7),
	}

	for d := 0; d < 7; d++ {
		recorded := 0
		for _, acc := range dayTags[d] {
			recorded += acc.minutes
		}
		if empty := domain.MinutesPerDay - recorded; empty > 0 {
			addMinutes(dayTags[d], "", domain.UnclassifiedTagName, domain.UnclassifiedTagColor, empty)
			addWeekMinutes("", domain.UnclassifiedTagName, domain.UnclassifiedTagColor, d, empty)
		}

		activeMinutes := dayActiveBlocks[d] * domain.MinutesPerSlot
		stats.Days[d] = domain.WeekDay{
			Date:          start.AddDate(0, 0, d).Format(domain.DateFormat),
			Label:         domain.WeekdayLabels[d],
			ActiveBlocks:  dayActiveBlocks[d],
			ActiveMinutes: activeMinutes,
			ActiveHours:   round1(float64(activeMinutes) / 60),
			FillPercent:   round1(float64(dayRecorded[d]) / domain.SlotsPerDay * 100),
			Tags:          sortedTagStats(dayTags[d]),
		}
		if dayActiveBlocks[d] > 0 {
			stats.ActiveDays++
		}
	}

	for _, acc := range weekTags {
		total := 0
		activeDays := 0
		for _, m := range acc.dailyMinutes {
			total += m
			if m > 0 {
				activeDays++
			}
		}
		entry := domain.WeeklyTagStat{
			TagID:        acc.tagID,
			Name:         acc.name,
			Color:        acc.color,
			DailyMinutes: acc.dailyMinutes,
			TotalHours:   round1(float64(total) / 60),
		}
		if activeDays > 0 {
			entry.AvgHours = round1(entry.TotalHours / float64(activeDays))
		}
		stats.Tags = append(stats.Tags, entry)
	}
	sort.Slice(stats.Tags, func(i, j int) bool {
		if stats.Tags[i].TotalHours != stats.Tags[j].TotalHours {
			return stats.Tags[i].TotalHours > stats.Tags[j].TotalHours
		}
		return stats.Tags[i].Name < stats.Tags[j].Name
	})

	return stats, nil
}

// Monthly computes the calendar month containing the reference date.
// Headline totals cover classified time only; the unclassified bucket is
// reported separately so per-day columns still sum to 24 hours.
func (s *StatsService) Monthly(ctx context.Context, userID string, date string) (*domain.MonthlyStats, error) {
	ref, err := parseDate(date)
	if err != nil {
		return nil, err
	}
	start, end := domain.MonthRange(ref)
	totalDays := domain.DaysInMonth(ref)

	tagsByID, err := s.tagIndex(ctx, userID)
	if err != nil {
		return nil, err
	}

	slots, err := s.store.GetSlotsInRange(ctx, userID, start, end)
	if err != nil {
		return nil, fmt.Errorf("get slots: %w", err)
	}

	type monthAcc struct {
		tagID        string
		name         string
		color        string
		dailyMinutes []int
	}
	monthTags := make(map[string]*monthAcc)
	addMonthMinutes := func(tagID, name, color string, day, minutes int) {
		acc, ok := monthTags[tagID]
		if !ok {
			acc = &monthAcc{tagID: tagID, name: name, color: color, dailyMinutes: make([]int, totalDays)}
			monthTags[tagID] = acc
		}
		acc.dailyMinutes[day] += minutes
	}

	classifiedPerDay := make([]int, totalDays)
	for _, slot := range slots {
		d := dayOffset(start, slot.Date)
		if d < 0 || d >= totalDays {
			continue
		}
		tagID, name, color := slotTagInfo(slot, tagsByID)
		addMonthMinutes(tagID, name, color, d, domain.MinutesPerSlot)
		if tagID != "" {
			classifiedPerDay[d] += domain.MinutesPerSlot
		}
	}

	// A slot with a deleted tag already landed in the unclassified bucket;
	// top the rest of each day up to the full 1440 minutes.
	for d := 0; d < totalDays; d++ {
		recorded := 0
		if acc, ok := monthTags[""]; ok {
			recorded = acc.dailyMinutes[d]
		}
		recorded += classifiedPerDay[d]
		if empty := domain.MinutesPerDay - recorded; empty > 0 {
			addMonthMinutes("", domain.UnclassifiedTagName, domain.UnclassifiedTagColor, d, empty)
		}
	}

	stats := &domain.MonthlyStats{
		Year:      start.Year(),
		Month:     int(start.Month()),
		Start:     start.Format(domain.DateFormat),
		End:       end.Format(domain.DateFormat),
		TotalDays: totalDays,
		Unclassified: domain.MonthlyTagStat{
			Name:       domain.UnclassifiedTagName,
			Color:      domain.UnclassifiedTagColor,
			DailyHours: make([]float64, totalDays),
		},
	}

	for _, acc := range monthTags {
		entry := domain.MonthlyTagStat{
			TagID:      acc.tagID,
			Name:       acc.name,
			Color:      acc.color,
			DailyHours: make([]float64, totalDays),
		}
		total := 0
		activeDays := 0
		for d, m := range acc.dailyMinutes {
			entry.DailyHours[d] = round1(float64(m) / 60)
			total += m
			if m > 0 {
				activeDays++
			}
		}
		entry.TotalHours = round1(float64(total) / 60)
		if activeDays > 0 {
			entry.AvgHours = round1(entry.TotalHours / float64(activeDays))
		}

		if acc.tagID == "" || !s.policy.countsTowardMonthlyHeadline(acc.name) {
			stats.Unclassified = entry
			continue
		}
		stats.Tags = append(stats.Tags, entry)
	}
	sort.Slice(stats.Tags, func(i, j int) bool {
		if stats.Tags[i].TotalHours != stats.Tags[j].TotalHours {
			return stats.Tags[i].TotalHours > stats.Tags[j].TotalHours
		}
		return stats.Tags[i].Name < stats.Tags[j].Name
	})

	for d := 0; d < totalDays; d++ {
		daySum := 0.0
		for _, entry := range stats.Tags {
			daySum += entry.DailyHours[d]
		}
		if daySum > 0 {
			stats.ActiveDays++
		}
	}
	for _, entry := range stats.Tags {
		stats.TotalHours += entry.TotalHours
	}
	stats.TotalHours = round1(stats.TotalHours)
	if totalDays > 0 {
		stats.AvgDailyHours = round1(stats.TotalHours / float64(totalDays))
	}

	return stats, nil
}

// TagAnalysis profiles each classified tag's usage over the calendar month
// containing the reference date.
func (s *StatsService) TagAnalysis(ctx context.Context, userID string, date string) ([]domain.TagAnalysisEntry, error) {
	ref, err := parseDate(date)
	if err != nil {
		return nil, err
	}
	start, end := domain.MonthRange(ref)

	tagsByID, err := s.tagIndex(ctx, userID)
	if err != nil {
		return nil, err
	}

	slots, err := s.store.GetSlotsInRange(ctx, userID, start, end)
	if err != nil {
		return nil, fmt.Errorf("get slots: %w", err)
	}

	type analysisAcc struct {
		tagID     string
		name      string
		color     string
		minutes   int
		blocks    int
		daysUsed  map[string]bool
		first     time.Time
		last      time.Time
	}
	byTag := make(map[string]*analysisAcc)

	for _, slot := range slots {
		tagID, name, color := slotTagInfo(slot, tagsByID)
		if tagID == "" {
			continue
		}
		acc, ok := byTag[tagID]
		if !ok {
			acc = &analysisAcc{
				tagID:    tagID,
				name:     name,
				color:    color,
				daysUsed: make(map[string]bool),
				first:    slot.Date,
				last:     slot.Date,
			}
			byTag[tagID] = acc
		}
		acc.minutes += domain.MinutesPerSlot
		acc.blocks++
		acc.daysUsed[slot.Date.Format(domain.DateFormat)] = true
		if slot.Date.Before(acc.first) {
			acc.first = slot.Date
		}
		if slot.Date.After(acc.last) {
			acc.last = slot.Date
		}
	}

	entries := make([]domain.TagAnalysisEntry, 0, len(byTag))
	for _, acc := range byTag {
		daysUsed := len(acc.daysUsed)
		spanDays := dayOffset(acc.first, acc.last) + 1
		entry := domain.TagAnalysisEntry{
			TagID:       acc.tagID,
			Name:        acc.name,
			Color:       acc.color,
			TotalHours:  round1(float64(acc.minutes) / 60),
			TotalBlocks: acc.blocks,
			DaysUsed:    daysUsed,
			FirstUsed:   acc.first.Format(domain.DateFormat),
			LastUsed:    acc.last.Format(domain.DateFormat),
		}
		if spanDays > 0 {
			entry.UsageFrequency = round1(float64(daysUsed) / float64(spanDays) * 100)
		}
		if daysUsed > 0 {
			entry.AvgDailyMinutes = round1(float64(acc.minutes) / float64(daysUsed))
		}
		entries = append(entries, entry)
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].TotalHours != entries[j].TotalHours {
			return entries[i].TotalHours > entries[j].TotalHours
		}
		return entries[i].Name < entries[j].Name
	})

	return entries, nil
}

// addMinutes accumulates minutes into a per-tag map, creating the
// accumulator on first sight.
func addMinutes(accs map[string]*tagAcc, tagID, name, color string, minutes int) {
	acc, ok := accs[tagID]
	if !ok {
		acc = &tagAcc{tagID: tagID, name: name, color: color}
		accs[tagID] = acc
	}
	acc.minutes += minutes
	acc.blocks += minutes / domain.MinutesPerSlot
}

// sortedTagStats converts accumulators to TagStat output sorted by minutes
// descending with name as tiebreak, so repeated runs produce identical output.
func sortedTagStats(accs map[string]*tagAcc) []domain.TagStat {
	out := make([]domain.TagStat, 0, len(accs))
	for _, acc := range accs {
		out = append(out, domain.TagStat{
			TagID:   acc.tagID,
			Name:    acc.name,
			Color:   acc.color,
			Minutes: acc.minutes,
			Blocks:  acc.blocks,
			Hours:   round1(float64(acc.minutes) / 60),
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Minutes != out[j].Minutes {
			return out[i].Minutes > out[j].Minutes
		}
		return out[i].Name < out[j].Name
	})
	return out
}

// dayOffset returns the whole-day distance from start to day.
func dayOffset(start, day time.Time) int {
	return int(domain.StartOfDay(day).Sub(domain.StartOfDay(start)).Hours() / 24)
}

// round1 rounds to one decimal place, the precision used for displayed hours.
func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
