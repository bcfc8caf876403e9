package analytics

import (
	"context"
	"log/slog"
	"time"

	"github.com/pkg/errors"

	"github.com/taskvine/taskvine/store"
)

// IsActiveToday reports whether today's completion condition is
// satisfied.
//
// The rule is asymmetric: with at least one task due today, satisfaction
// requires completing at least one of those due-today tasks; with
// nothing due, completing any task counts. This rewards both clearing
// the day's queue and doing something productive on a light day.
func IsActiveToday(dueToday, completedDueToday, completedAnyToday int64) bool {
	if dueToday > 0 {
		return completedDueToday > 0
	}
	return completedAnyToday > 0
}

// RecordCompletion re-evaluates today's satisfaction condition for the
// user and, when satisfied, applies the streak update. The update itself
// is a single conditional statement at the storage boundary, so two
// concurrent completions cannot both increment from the same stale
// count. When today is not satisfied the record is left untouched: a
// broken streak is detected lazily on the next satisfied day via the
// gap check, not by an active decay process.
//
// Returns the streak record after the call (nil when the user has never
// had a satisfied day) and whether today counted.
func (a *Aggregator) RecordCompletion(ctx context.Context, userID int32, now time.Time) (*store.Streak, bool, error) {
	loc := a.resolveTimezone(ctx, userID)
	b := ComputeBoundaries(now, loc)

	startOfToday := b.StartOfToday.Unix()
	startOfTomorrow := b.StartOfTomorrow.Unix()
	done := store.TaskStatusDone

	dueToday, err := a.store.CountTasks(ctx, &store.FindTask{
		CreatorID: &userID,
		DueAfter:  &startOfToday,
		DueBefore: &startOfTomorrow,
	})
	if err != nil {
		return nil, false, errors.Wrap(err, "failed to count due-today tasks")
	}

	completedDueToday, err := a.store.CountTasks(ctx, &store.FindTask{
		CreatorID:       &userID,
		Status:          &done,
		DueAfter:        &startOfToday,
		DueBefore:       &startOfTomorrow,
		CompletedAfter:  &startOfToday,
		CompletedBefore: &startOfTomorrow,
	})
	if err != nil {
		return nil, false, errors.Wrap(err, "failed to count completed due-today tasks")
	}

	completedAnyToday, err := a.store.CountTasks(ctx, &store.FindTask{
		CreatorID:       &userID,
		Status:          &done,
		CompletedAfter:  &startOfToday,
		CompletedBefore: &startOfTomorrow,
	})
	if err != nil {
		return nil, false, errors.Wrap(err, "failed to count completed tasks")
	}

	if !IsActiveToday(dueToday, completedDueToday, completedAnyToday) {
		streak, err := a.store.GetStreak(ctx, &store.FindStreak{UserID: &userID})
		if err != nil {
			return nil, false, errors.Wrap(err, "failed to get streak")
		}
		return streak, false, nil
	}

	streak, err := a.store.UpsertStreakCompletion(ctx, &store.UpsertStreakCompletion{
		UserID:         userID,
		TodayStartTs:   startOfToday,
		PrevDayStartTs: b.StartOfToday.AddDate(0, 0, -1).Unix(),
	})
	if err != nil {
		return nil, false, errors.Wrap(err, "failed to upsert streak")
	}

	slog.Debug("streak updated",
		slog.Int64("user_id", int64(userID)),
		slog.Int("count", int(streak.Count)),
		slog.Int("longest", int(streak.Longest)))

	return streak, true, nil
}
