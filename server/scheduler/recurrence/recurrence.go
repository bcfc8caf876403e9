// Package recurrence decides whether a recurring task definition has an
// occurrence on a given day.
//
// Interval arithmetic works on calendar-day counts, not instant
// subtraction, so partial-day drift across timezone offsets cannot
// produce off-by-one occurrence days.
package recurrence

import (
	"time"

	"github.com/taskvine/taskvine/store"
)

// Day multiples per interval unit. MONTHLY and YEARLY are deliberate
// fixed-length approximations: true calendar-month arithmetic would move
// occurrence days for definitions that already exist.
const (
	daysPerWeek  = 7
	daysPerMonth = 30
	daysPerYear  = 365
)

// IsOccurrenceDay reports whether todayStart (the local start-of-day
// instant in the owner's timezone) is an occurrence day for the given
// definition.
//
// A malformed definition never panics a listing request: nil, a
// multiplier below 1, or an unknown interval all evaluate to false.
// CUSTOM schedules are evaluated by an external collaborator and are
// always false here.
func IsOccurrenceDay(r *store.Recurrence, todayStart time.Time) bool {
	if r == nil || r.Every < 1 || r.AnchorTs == 0 {
		return false
	}

	anchor := time.Unix(r.AnchorTs, 0).In(todayStart.Location())
	days := daysBetween(anchor, todayStart)
	if days < 0 {
		// Recurrence has not started yet.
		return false
	}

	switch r.Interval {
	case store.IntervalDaily:
		return days%r.Every == 0
	case store.IntervalWeekly:
		return days%(r.Every*daysPerWeek) == 0
	case store.IntervalMonthly:
		return days%(r.Every*daysPerMonth) == 0
	case store.IntervalYearly:
		return days%(r.Every*daysPerYear) == 0
	case store.IntervalCustom:
		return false
	default:
		return false
	}
}

// daysBetween returns the calendar-day difference b-a, computed on the
// civil dates of each instant in its own location.
func daysBetween(a, b time.Time) int {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	au := time.Date(ay, am, ad, 0, 0, 0, 0, time.UTC)
	bu := time.Date(by, bm, bd, 0, 0, 0, 0, time.UTC)
	return int(bu.Sub(au) / (24 * time.Hour))
}
