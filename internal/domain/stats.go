package domain

// WeekdayLabels are the localized single-character weekday names,
// indexed Monday-first to match weekly aggregation offsets.
var WeekdayLabels = [7]string{"월", "화", "수", "목", "금", "토", "일"}

// TagStat is one tag's share of a period: raw minutes, recorded blocks,
// and the rounded hour figure used for display.
type TagStat struct {
	TagID   string  `json:"tag_id,omitempty"` // empty for the unclassified bucket
	Name    string  `json:"name"`
	Color   string  `json:"color"`
	Minutes int     `json:"minutes"`
	Blocks  int     `json:"blocks"`
	Hours   float64 `json:"hours"`
}

// HourStat is one hour-of-day bucket in the daily breakdown. Tags always
// sum to a full 60 minutes once the unclassified fill is applied.
type HourStat struct {
	Hour    int       `json:"hour"`
	Minutes int       `json:"minutes"` // classified minutes only
	Tags    []TagStat `json:"tags"`
}

// DailyStats is the full aggregation of one calendar day.
// Tags (including the unclassified bucket) always cover 1440 minutes.
type DailyStats struct {
	Date           string     `json:"date"`
	Tags           []TagStat  `json:"tags"`  // sorted by minutes, descending
	Hours          []HourStat `json:"hours"` // 24 entries, hour 0-23
	RecordedBlocks int        `json:"recorded_blocks"`
	FillPercent    float64    `json:"fill_percent"`
	ActiveHours    float64    `json:"active_hours"` // classified time only
	PeakHour       int        `json:"peak_hour"`
	TopTag         *TagStat   `json:"top_tag"` // nil when no slots recorded
}

// WeekDay is one day's summary line inside a weekly aggregation.
type WeekDay struct {
	Date          string    `json:"date"`
	Label         string    `json:"label"` // localized weekday name
	ActiveBlocks  int       `json:"active_blocks"`
	ActiveMinutes int       `json:"active_minutes"`
	ActiveHours   float64   `json:"active_hours"`
	FillPercent   float64   `json:"fill_percent"`
	Tags          []TagStat `json:"tags"` // day-local per-tag minutes, incl. unclassified
}

// WeeklyTagStat tracks one tag across a Monday-start week.
type WeeklyTagStat struct {
	TagID        string  `json:"tag_id,omitempty"`
	Name         string  `json:"name"`
	Color        string  `json:"color"`
	DailyMinutes [7]int  `json:"daily_minutes"` // indexed 0=Monday
	TotalHours   float64 `json:"total_hours"`
	AvgHours     float64 `json:"avg_hours"` // over days the tag was active
}

// WeeklyStats is the full aggregation of one Monday-start week.
type WeeklyStats struct {
	Start      string          `json:"start"`
	End        string          `json:"end"`
	Days       []WeekDay       `json:"days"` // 7 entries
	Tags       []WeeklyTagStat `json:"tags"` // sorted by total hours, descending
	ActiveDays int             `json:"active_days"`
}

// MonthlyTagStat tracks one tag across a calendar month.
type MonthlyTagStat struct {
	TagID      string    `json:"tag_id,omitempty"`
	Name       string    `json:"name"`
	Color      string    `json:"color"`
	DailyHours []float64 `json:"daily_hours"` // one entry per calendar day
	TotalHours float64   `json:"total_hours"`
	AvgHours   float64   `json:"avg_hours"` // over days the tag was active
}

// MonthlyStats is the full aggregation of one calendar month. Headline
// figures cover classified time only; the unclassified bucket is reported
// separately so per-day columns still account for a full 24 hours.
type MonthlyStats struct {
	Year          int              `json:"year"`
	Month         int              `json:"month"`
	Start         string           `json:"start"`
	End           string           `json:"end"`
	TotalDays     int              `json:"total_days"`
	Tags          []MonthlyTagStat `json:"tags"` // classified, sorted by total hours
	Unclassified  MonthlyTagStat   `json:"unclassified"`
	TotalHours    float64          `json:"total_hours"` // classified
	ActiveDays    int              `json:"active_days"` // days with classified time
	AvgDailyHours float64          `json:"avg_daily_hours"`
}

// TagAnalysisEntry is one tag's long-range usage profile.
type TagAnalysisEntry struct {
	TagID           string  `json:"tag_id"`
	Name            string  `json:"name"`
	Color           string  `json:"color"`
	TotalHours      float64 `json:"total_hours"`
	TotalBlocks     int     `json:"total_blocks"`
	DaysUsed        int     `json:"days_used"`
	UsageFrequency  float64 `json:"usage_frequency"` // % of span days with any use
	AvgDailyMinutes float64 `json:"avg_daily_minutes"`
	FirstUsed       string  `json:"first_used"`
	LastUsed        string  `json:"last_used"`
}
