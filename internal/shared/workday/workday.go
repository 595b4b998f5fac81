package workday

import (
	"os"
	"time"
)

// DefaultTimezone is the deployment's labor-law timezone. "Today" for
// attendance purposes is computed here, never in server-local time or UTC.
const DefaultTimezone = "Africa/Lusaka"

// LoadLocation resolves the attendance timezone from ATTENDANCE_TIMEZONE,
// falling back to the default. Called once at startup; the location is then
// passed explicitly to everything that needs day boundaries.
func LoadLocation() (*time.Location, error) {
	tz := os.Getenv("ATTENDANCE_TIMEZONE")
	if tz == "" {
		tz = DefaultTimezone
	}
	return time.LoadLocation(tz)
}

// StartOfDay truncates t to midnight in loc.
func StartOfDay(t time.Time, loc *time.Location) time.Time {
	local := t.In(loc)
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
}

// MonthBounds returns the first instant of t's calendar month in loc and the
// first instant of the following month, i.e. the half-open range [first, next).
func MonthBounds(t time.Time, loc *time.Location) (time.Time, time.Time) {
	local := t.In(loc)
	first := time.Date(local.Year(), local.Month(), 1, 0, 0, 0, 0, loc)
	return first, first.AddDate(0, 1, 0)
}

// DaysInMonth returns the number of calendar days in t's month in loc.
func DaysInMonth(t time.Time, loc *time.Location) int {
	_, next := MonthBounds(t, loc)
	return next.AddDate(0, 0, -1).Day()
}
