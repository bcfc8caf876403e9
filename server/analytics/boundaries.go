// Package analytics implements the productivity analytics engine:
// timezone-aware date boundaries, the per-user completion streak, the
// statistics report aggregator, and rule-based insights.
package analytics

import (
	"time"

	"github.com/taskvine/taskvine/server/timezone"
)

// Boundaries is the set of absolute-time cut points used to classify
// events into today / this week / last-30-days buckets.
//
// Boundaries are recomputed fresh on every request. Caching one across a
// local midnight silently misclassifies "today", so no component holds a
// Boundaries value longer than a single aggregation pass.
type Boundaries struct {
	Now               time.Time
	StartOfToday      time.Time
	StartOfTomorrow   time.Time
	StartOfWeek       time.Time
	StartOfLast30Days time.Time

	// DaysElapsedThisWeek counts local calendar days from StartOfWeek
	// through Now, inclusive. Minimum 1, so it is always safe as a
	// divisor.
	DaysElapsedThisWeek int
}

// ComputeBoundaries derives the boundary set for now in the given
// timezone. Each boundary is obtained by truncating the local wall-clock
// representation to local midnight and converting back to an absolute
// instant; day arithmetic happens on local calendar days so a 23- or
// 25-hour DST day stays one day.
//
// Boundaries reflect the current instant's offset only. A DST transition
// inside a window is not corrected for retroactively.
func ComputeBoundaries(now time.Time, loc *time.Location) Boundaries {
	if loc == nil {
		loc = time.UTC
	}

	local := now.In(loc)
	startOfToday := timezone.StartOfDay(now, loc)

	// ISO weekday: Monday = 1 ... Sunday = 7.
	weekday := int(local.Weekday())
	if weekday == 0 {
		weekday = 7
	}

	return Boundaries{
		Now:                 now,
		StartOfToday:        startOfToday,
		StartOfTomorrow:     startOfToday.AddDate(0, 0, 1),
		StartOfWeek:         startOfToday.AddDate(0, 0, -(weekday - 1)),
		StartOfLast30Days:   startOfToday.AddDate(0, 0, -30),
		DaysElapsedThisWeek: weekday,
	}
}
