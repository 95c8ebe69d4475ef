package domain

import "time"

// DateFormat is the canonical wire format for calendar dates.
const DateFormat = "2006-01-02"

// StartOfDay truncates t to midnight in its own location.
func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// WeekRange returns the Monday-start week containing ref, as inclusive
// day bounds [monday, sunday].
func WeekRange(ref time.Time) (start, end time.Time) {
	d := StartOfDay(ref)
	// time.Weekday puts Sunday at 0; shift so Monday is 0.
	offset := (int(d.Weekday()) + 6) % 7
	start = d.AddDate(0, 0, -offset)
	end = start.AddDate(0, 0, 6)
	return start, end
}

// MonthRange returns the calendar month containing ref, as inclusive
// day bounds [first, last].
func MonthRange(ref time.Time) (start, end time.Time) {
	start = time.Date(ref.Year(), ref.Month(), 1, 0, 0, 0, 0, ref.Location())
	end = start.AddDate(0, 1, -1)
	return start, end
}

// DaysInMonth returns the number of calendar days in ref's month.
func DaysInMonth(ref time.Time) int {
	_, end := MonthRange(ref)
	return end.Day()
}
