package domain

import "time"

// GoalPeriod is the horizon a goal's target applies to.
type GoalPeriod string

const (
	GoalPeriodDaily   GoalPeriod = "daily"
	GoalPeriodWeekly  GoalPeriod = "weekly"
	GoalPeriodMonthly GoalPeriod = "monthly"
)

// Valid reports whether p is a known goal period.
func (p GoalPeriod) Valid() bool {
	switch p {
	case GoalPeriodDaily, GoalPeriodWeekly, GoalPeriodMonthly:
		return true
	}
	return false
}

// Range resolves the period's date window containing ref: the day itself,
// the Monday-start week, or the calendar month.
func (p GoalPeriod) Range(ref time.Time) (start, end time.Time) {
	switch p {
	case GoalPeriodWeekly:
		return WeekRange(ref)
	case GoalPeriodMonthly:
		return MonthRange(ref)
	default:
		d := StartOfDay(ref)
		return d, d
	}
}

// Goal is a per-tag time target. A user may have at most one goal per
// (tag, period) combination.
type Goal struct {
	ID          string     `json:"id"`
	UserID      string     `json:"user_id"`
	TagID       string     `json:"tag_id"`
	Period      GoalPeriod `json:"period"`
	TargetHours float64    `json:"target_hours"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// Touch updates the UpdatedAt timestamp.
func (g *Goal) Touch() {
	g.UpdatedAt = time.Now()
}

// GoalProgress is a goal joined with the actual time recorded for its tag
// over the current period window. Percent is nil when TargetHours is zero
// rather than reporting a division artifact.
type GoalProgress struct {
	Goal        Goal    `json:"goal"`
	TagName     string  `json:"tag_name"`
	TagColor    string  `json:"tag_color"`
	PeriodStart string  `json:"period_start"`
	PeriodEnd   string  `json:"period_end"`
	ActualHours float64 `json:"actual_hours"`
	Percent     *int    `json:"percent"`
}
