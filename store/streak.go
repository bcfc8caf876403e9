package store

import (
	"context"
	"time"
)

// Streak is the per-user completion streak record. One row per user,
// created lazily on first satisfied day, never deleted.
//
// Invariant: Longest >= Count after any update.
type Streak struct {
	UserID    int32
	Count     int32
	Longest   int32
	UpdatedTs int64

	// LastCompletedTs is the local start-of-day instant of the most
	// recent satisfied day. Nil until the first satisfied day.
	LastCompletedTs *int64
}

// ParseLastCompletedTime parses the last completed day anchor to time.Time.
func (s *Streak) ParseLastCompletedTime() *time.Time {
	if s.LastCompletedTs == nil {
		return nil
	}
	t := time.Unix(*s.LastCompletedTs, 0)
	return &t
}

// FindStreak is the find condition for streak.
type FindStreak struct {
	UserID *int32
}

// UpsertStreakCompletion records that the owning user satisfied today's
// completion condition. Applied by the driver as one conditional
// read-modify-write statement so that two concurrent completions cannot
// both increment from the same stale count.
//
// TodayStartTs and PrevDayStartTs are the absolute instants of the local
// start of today and of the previous local day. The driver-side rule:
//   - last completed >= TodayStartTs   -> no change (today already counted)
//   - last completed >= PrevDayStartTs -> count+1 (streak continues)
//   - otherwise                        -> count reset to 1 (gap > one day)
// Longest is raised to the new count when exceeded.
type UpsertStreakCompletion struct {
	UserID         int32
	TodayStartTs   int64
	PrevDayStartTs int64
}

// GetStreak gets a streak record with filter. Returns nil when the user
// has no record yet.
func (s *Store) GetStreak(ctx context.Context, find *FindStreak) (*Streak, error) {
	return s.driver.GetStreak(ctx, find)
}

// UpsertStreakCompletion applies a satisfied-day update atomically and
// returns the resulting record.
func (s *Store) UpsertStreakCompletion(ctx context.Context, upsert *UpsertStreakCompletion) (*Streak, error) {
	return s.driver.UpsertStreakCompletion(ctx, upsert)
}
