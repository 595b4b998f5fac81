package workday

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestStartOfDay_ConvertsBeforeTruncating(t *testing.T) {
	loc, err := time.LoadLocation(DefaultTimezone)
	assert.NoError(t, err)

	// 23:30 UTC is already the next day in Lusaka (UTC+2).
	at := time.Date(2026, 8, 14, 23, 30, 0, 0, time.UTC)
	day := StartOfDay(at, loc)

	assert.Equal(t, time.Date(2026, 8, 15, 0, 0, 0, 0, loc), day)
}

func TestMonthBounds_HalfOpenRange(t *testing.T) {
	first, next := MonthBounds(time.Date(2026, 2, 14, 10, 0, 0, 0, time.UTC), time.UTC)

	assert.Equal(t, time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC), first)
	assert.Equal(t, time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC), next)
}

func TestDaysInMonth(t *testing.T) {
	assert.Equal(t, 28, DaysInMonth(time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC), time.UTC))
	assert.Equal(t, 29, DaysInMonth(time.Date(2028, 2, 1, 0, 0, 0, 0, time.UTC), time.UTC))
	assert.Equal(t, 31, DaysInMonth(time.Date(2026, 8, 20, 0, 0, 0, 0, time.UTC), time.UTC))
	assert.Equal(t, 30, DaysInMonth(time.Date(2026, 9, 5, 0, 0, 0, 0, time.UTC), time.UTC))
}

func TestLoadLocation_Default(t *testing.T) {
	t.Setenv("ATTENDANCE_TIMEZONE", "")

	loc, err := LoadLocation()
	assert.NoError(t, err)
	assert.Equal(t, DefaultTimezone, loc.String())
}

func TestLoadLocation_Override(t *testing.T) {
	t.Setenv("ATTENDANCE_TIMEZONE", "Europe/Berlin")

	loc, err := LoadLocation()
	assert.NoError(t, err)
	assert.Equal(t, "Europe/Berlin", loc.String())
}
