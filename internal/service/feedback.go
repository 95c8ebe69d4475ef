package service

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"strconv"

	"github.com/lifediary/lifediary-server/internal/domain"
)

// FeedbackConfig names the business thresholds behind the advisory rules.
type FeedbackConfig struct {
	// DominanceThreshold is a single tag's share of classified monthly
	// hours above which a balance warning fires.
	DominanceThreshold float64
	// RestThreshold is the rest tag's share of classified monthly hours
	// above which an excessive-rest warning fires.
	RestThreshold float64
	// UnclassifiedThreshold is the unrecorded share of the whole month
	// above which a coverage warning fires.
	UnclassifiedThreshold float64
	// VolatilityThreshold is the coefficient of variation of a tag's
	// nonzero daily hours above which a rhythm warning fires.
	VolatilityThreshold float64
	// WeeklyDeltaHours is the minimum week-over-week change, in hours,
	// worth reporting.
	WeeklyDeltaHours float64
	// BalanceExcluded tags never trigger the dominance warning.
	BalanceExcluded []string
}

// DefaultFeedbackConfig returns the standard thresholds.
func DefaultFeedbackConfig() FeedbackConfig {
	return FeedbackConfig{
		DominanceThreshold:    0.60,
		RestThreshold:         0.60,
		UnclassifiedThreshold: 0.20,
		VolatilityThreshold:   0.7,
		WeeklyDeltaHours:      1.0,
		BalanceExcluded:       []string{domain.UnclassifiedTagName, domain.RestTagName},
	}
}

// FeedbackService turns the computed aggregates and goal progress into an
// ordered list of advisory messages. It is a pure function of the store
// contents for the given date.
type FeedbackService struct {
	stats  *StatsService
	goals  *GoalService
	config FeedbackConfig
	logger *slog.Logger
}

// NewFeedbackService creates a new feedback service.
func NewFeedbackService(stats *StatsService, goals *GoalService, config FeedbackConfig, logger *slog.Logger) *FeedbackService {
	return &FeedbackService{
		stats:  stats,
		goals:  goals,
		config: config,
		logger: logger,
	}
}

// periodWords are the message prefixes per goal period.
var periodWords = map[domain.GoalPeriod]string{
	domain.GoalPeriodDaily:   "오늘",
	domain.GoalPeriodWeekly:  "이번 주",
	domain.GoalPeriodMonthly: "이번 달",
}

// Generate produces the advisory strings for the periods containing the
// reference date. Rules run in a fixed order: goal progress, week-over-week
// change, balance, volatility, rest, coverage, routine suggestion.
func (s *FeedbackService) Generate(ctx context.Context, userID string, date string) ([]string, error) {
	ref, err := parseDate(date)
	if err != nil {
		return nil, err
	}

	feedback := []string{}

	// 1. Goal progress.
	progress, err := s.goals.Progress(ctx, userID, date)
	if err != nil {
		return nil, err
	}
	for _, p := range progress {
		if p.Percent == nil {
			continue
		}
		word := periodWords[p.Goal.Period]
		if *p.Percent < 100 {
			remain := p.Goal.TargetHours - p.ActualHours
			if remain > 0 {
				feedback = append(feedback, fmt.Sprintf(
					"%s '%s' 목표(%s시간) 중 %.1f시간을 달성했습니다. %.1f시간만 더 해보세요!",
					word, p.TagName, formatHours(p.Goal.TargetHours), p.ActualHours, remain,
				))
			}
		} else {
			feedback = append(feedback, fmt.Sprintf(
				"%s '%s' 목표(%s시간)를 이미 달성했습니다! 멋져요!",
				word, p.TagName, formatHours(p.Goal.TargetHours),
			))
		}
	}

	// 2. Week-over-week comparison, for tags present in both weeks.
	weekly, err := s.stats.Weekly(ctx, userID, date)
	if err != nil {
		return nil, err
	}
	prevWeekly, err := s.stats.Weekly(ctx, userID, ref.AddDate(0, 0, -7).Format(domain.DateFormat))
	if err != nil {
		return nil, err
	}
	prevByName := make(map[string]domain.WeeklyTagStat, len(prevWeekly.Tags))
	for _, tag := range prevWeekly.Tags {
		prevByName[tag.Name] = tag
	}
	for _, tag := range weekly.Tags {
		prev, ok := prevByName[tag.Name]
		if !ok {
			continue
		}
		diff := tag.TotalHours - prev.TotalHours
		if math.Abs(diff) < s.config.WeeklyDeltaHours {
			continue
		}
		percent := 0
		if prev.TotalHours > 0 {
			percent = int(diff / prev.TotalHours * 100)
		}
		if diff > 0 {
			feedback = append(feedback, fmt.Sprintf(
				"이번주 '%s' 시간이 지난주보다 %d%% 늘었습니다. 잘하고 있어요!",
				tag.Name, percent,
			))
		} else {
			feedback = append(feedback, fmt.Sprintf(
				"이번주 '%s' 시간이 지난주보다 %d%% 줄었습니다. 다음주엔 더 노력해봐요!",
				tag.Name, -percent,
			))
		}
	}

	monthly, err := s.stats.Monthly(ctx, userID, date)
	if err != nil {
		return nil, err
	}

	// 3. Balance warning, and 4. volatility warning, per classified tag.
	for _, tag := range monthly.Tags {
		if !contains(s.config.BalanceExcluded, tag.Name) && tag.TotalHours > 0 && monthly.TotalHours > 0 {
			percent := int(tag.TotalHours / monthly.TotalHours * 100)
			if percent >= int(s.config.DominanceThreshold*100) {
				feedback = append(feedback, fmt.Sprintf(
					"'%s' 시간이 전체의 %d%%를 차지합니다. 활동의 균형을 점검해보세요.",
					tag.Name, percent,
				))
			}
		}

		if cv, ok := variationCoefficient(tag.DailyHours); ok && cv >= s.config.VolatilityThreshold {
			feedback = append(feedback, fmt.Sprintf(
				"최근 '%s' 활동 시간이 들쭉날쭉해요. 규칙적인 리듬을 만들어보세요!",
				tag.Name,
			))
		}
	}

	// 5. Excessive rest.
	if monthly.TotalHours > 0 {
		for _, tag := range monthly.Tags {
			if tag.Name != domain.RestTagName {
				continue
			}
			percent := int(tag.TotalHours / monthly.TotalHours * 100)
			if percent >= int(s.config.RestThreshold*100) {
				feedback = append(feedback, fmt.Sprintf(
					"휴식 시간이 전체의 %d%%를 차지합니다. 활동적인 시간을 늘려보세요.",
					percent,
				))
			}
			break
		}
	}

	// 6. Recording coverage: unclassified share of the whole month.
	wholeMonth := monthly.TotalHours + monthly.Unclassified.TotalHours
	if wholeMonth > 0 {
		percent := int(monthly.Unclassified.TotalHours / wholeMonth * 100)
		if percent >= int(s.config.UnclassifiedThreshold*100) {
			feedback = append(feedback, fmt.Sprintf(
				"기록되지 않은 시간이 전체의 %d%%입니다. 하루를 더 꼼꼼히 기록해보세요.",
				percent,
			))
		}
	}

	// 7. Routine suggestion when no wake-up tag was used this month.
	wakeUpUsed := false
	for _, tag := range monthly.Tags {
		if tag.Name == domain.WakeUpTagName {
			wakeUpUsed = true
			break
		}
	}
	if !wakeUpUsed {
		feedback = append(feedback,
			"매일 같은 시간에 '기상' 기록을 남겨보세요. 규칙적인 생활에 도움이 됩니다.",
		)
	}

	return feedback, nil
}

// variationCoefficient returns the coefficient of variation (population
// standard deviation over mean) of the nonzero values. Reports false with
// fewer than two nonzero values.
func variationCoefficient(series []float64) (float64, bool) {
	values := make([]float64, 0, len(series))
	sum := 0.0
	for _, v := range series {
		if v > 0 {
			values = append(values, v)
			sum += v
		}
	}
	if len(values) < 2 {
		return 0, false
	}
	mean := sum / float64(len(values))
	if mean <= 0 {
		return 0, false
	}
	variance := 0.0
	for _, v := range values {
		variance += (v - mean) * (v - mean)
	}
	variance /= float64(len(values))
	return math.Sqrt(variance) / mean, true
}

// formatHours renders an hour figure without trailing zeros, e.g. 10 or 2.5.
func formatHours(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
