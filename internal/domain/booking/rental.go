package booking

import "time"

const dayLayout = "2006-01-02"

// NormalizeRentalMoment returns t in UTC truncated to the minute. Every rental
// moment is stored this way so exact-moment comparisons are stable.
func NormalizeRentalMoment(t time.Time) time.Time {
	return t.UTC().Truncate(time.Minute)
}

// DayKey returns the UTC calendar day of t as YYYY-MM-DD.
func DayKey(t time.Time) string {
	return t.UTC().Format(dayLayout)
}

// ParseDayKey parses a YYYY-MM-DD day into midnight UTC.
func ParseDayKey(day string) (time.Time, error) {
	return time.ParseInLocation(dayLayout, day, time.UTC)
}

// HourWindow returns the [start, end) hour containing t.
func HourWindow(t time.Time) (time.Time, time.Time) {
	start := t.UTC().Truncate(time.Hour)
	return start, start.Add(time.Hour)
}
