package analytics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/taskvine/taskvine/server/timezone"
)

func TestComputeBoundaries_DSTTransitionDay(t *testing.T) {
	ny := timezone.MustParseTimezone("America/New_York")

	// 2024-03-10 is the 23-hour spring-forward day in New York.
	now := time.Date(2024, 3, 10, 6, 30, 0, 0, time.UTC)
	b := ComputeBoundaries(now, ny)

	wantStart := time.Date(2024, 3, 10, 0, 0, 0, 0, ny)
	assert.True(t, b.StartOfToday.Equal(wantStart),
		"StartOfToday = %v, want local midnight %v", b.StartOfToday, wantStart)

	// The local day is 23 hours long; it must be neither skipped nor
	// duplicated.
	assert.Equal(t, 23*time.Hour, b.StartOfTomorrow.Sub(b.StartOfToday))
}

func TestComputeBoundaries_ContainsNow(t *testing.T) {
	zones := []string{"UTC", "America/New_York", "Asia/Shanghai", "Australia/Sydney", "Europe/Paris"}
	instants := []time.Time{
		time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 3, 10, 6, 30, 0, 0, time.UTC),
		time.Date(2024, 11, 3, 5, 59, 0, 0, time.UTC),
		time.Date(2024, 6, 30, 23, 59, 59, 0, time.UTC),
	}

	for _, zone := range zones {
		loc := timezone.MustParseTimezone(zone)
		for _, now := range instants {
			b := ComputeBoundaries(now, loc)

			assert.False(t, b.StartOfToday.After(now),
				"%s at %v: StartOfToday must not be after now", zone, now)
			assert.True(t, now.Before(b.StartOfTomorrow),
				"%s at %v: now must be before StartOfTomorrow", zone, now)

			length := b.StartOfTomorrow.Sub(b.StartOfToday)
			assert.GreaterOrEqual(t, length, 23*time.Hour, "%s at %v", zone, now)
			assert.LessOrEqual(t, length, 25*time.Hour, "%s at %v", zone, now)

			assert.GreaterOrEqual(t, b.DaysElapsedThisWeek, 1)
			assert.LessOrEqual(t, b.DaysElapsedThisWeek, 7)
		}
	}
}

func TestComputeBoundaries_WeekStartsMonday(t *testing.T) {
	// 2024-03-14 is a Thursday.
	now := time.Date(2024, 3, 14, 15, 0, 0, 0, time.UTC)
	b := ComputeBoundaries(now, time.UTC)

	assert.True(t, b.StartOfWeek.Equal(time.Date(2024, 3, 11, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, 4, b.DaysElapsedThisWeek)

	// Sunday belongs to the week that started the previous Monday.
	sunday := time.Date(2024, 3, 17, 12, 0, 0, 0, time.UTC)
	b = ComputeBoundaries(sunday, time.UTC)
	assert.True(t, b.StartOfWeek.Equal(time.Date(2024, 3, 11, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, 7, b.DaysElapsedThisWeek)
}

func TestComputeBoundaries_Last30Days(t *testing.T) {
	now := time.Date(2024, 3, 14, 15, 0, 0, 0, time.UTC)
	b := ComputeBoundaries(now, time.UTC)

	assert.True(t, b.StartOfLast30Days.Equal(time.Date(2024, 2, 13, 0, 0, 0, 0, time.UTC)))
}

func TestComputeBoundaries_NilLocationDefaultsToUTC(t *testing.T) {
	now := time.Date(2024, 3, 14, 15, 0, 0, 0, time.UTC)
	b := ComputeBoundaries(now, nil)

	assert.True(t, b.StartOfToday.Equal(time.Date(2024, 3, 14, 0, 0, 0, 0, time.UTC)))
}
