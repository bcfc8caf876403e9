package analytics

import (
	"context"
	"log/slog"
	"math"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"github.com/taskvine/taskvine/server/timezone"
	"github.com/taskvine/taskvine/store"
)

// ErrNoData signals that the user has no tasks at all. It is an
// expected steady state for new users, not a failure: callers render an
// empty or onboarding state instead of a populated report.
var ErrNoData = errors.New("no task data for user")

// Store is the interface for store operations needed by the aggregator.
type Store interface {
	GetUser(ctx context.Context, find *store.FindUser) (*store.User, error)
	CountTasks(ctx context.Context, find *store.FindTask) (int64, error)
	ListTasks(ctx context.Context, find *store.FindTask) ([]*store.Task, error)
	CountTasksByStatus(ctx context.Context, creatorID int32) ([]*store.GroupCount, error)
	CountTasksByPriority(ctx context.Context, creatorID int32) ([]*store.GroupCount, error)
	GetStreak(ctx context.Context, find *store.FindStreak) (*store.Streak, error)
	UpsertStreakCompletion(ctx context.Context, upsert *store.UpsertStreakCompletion) (*store.Streak, error)
}

// Aggregator assembles per-user statistics reports.
type Aggregator struct {
	store Store

	// defaultTimezone applies to users without a stored timezone.
	// Empty means UTC.
	defaultTimezone string
}

// NewAggregator creates a new statistics aggregator.
func NewAggregator(st Store, defaultTimezone string) *Aggregator {
	return &Aggregator{store: st, defaultTimezone: defaultTimezone}
}

// resolveTimezone resolves the user's IANA timezone. A missing user or an
// invalid identifier falls back to the configured default and then UTC;
// boundary math must always produce a result, so this never errors.
func (a *Aggregator) resolveTimezone(ctx context.Context, userID int32) *time.Location {
	tz := a.defaultTimezone

	user, err := a.store.GetUser(ctx, &store.FindUser{ID: &userID})
	if err != nil {
		slog.Warn("failed to look up user for timezone resolution, using default",
			slog.Int64("user_id", int64(userID)), slog.String("error", err.Error()))
	} else if user != nil && user.Timezone != nil && *user.Timezone != "" {
		tz = *user.Timezone
	}

	loc, err := timezone.ParseTimezone(tz)
	if err != nil {
		slog.Warn("invalid user timezone, using UTC",
			slog.Int64("user_id", int64(userID)), slog.String("timezone", tz))
	}
	return loc
}

// BuildReport assembles the statistics report for a user at the given
// instant. Returns ErrNoData when the user has zero tasks. Aggregation
// queries are read-only and mutually independent, so they run
// concurrently; the report itself has no side effects and two
// back-to-back calls with no intervening writes yield identical numbers.
func (a *Aggregator) BuildReport(ctx context.Context, userID int32, now time.Time) (*Report, error) {
	start := time.Now()
	loc := a.resolveTimezone(ctx, userID)
	b := ComputeBoundaries(now, loc)

	total, err := a.store.CountTasks(ctx, &store.FindTask{CreatorID: &userID})
	if err != nil {
		return nil, errors.Wrap(err, "failed to count tasks")
	}
	if total == 0 {
		return nil, ErrNoData
	}

	nowTs := now.Unix()
	startOfToday := b.StartOfToday.Unix()
	startOfTomorrow := b.StartOfTomorrow.Unix()
	startOfWeek := b.StartOfWeek.Unix()
	startOfLast30 := b.StartOfLast30Days.Unix()
	done := store.TaskStatusDone

	var (
		statusGroups      []*store.GroupCount
		priorityGroups    []*store.GroupCount
		overdue           int64
		dueToday          int64
		completedDueToday int64
		completedToday    int64
		completedThisWeek int64
		createdToday      int64
		createdThisWeek   int64
		completedLast30   []*store.Task
		streak            *store.Streak
		tierDone          [len(priorityTiers)]int64
		tierOverdue       [len(priorityTiers)]int64
	)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() (err error) {
		statusGroups, err = a.store.CountTasksByStatus(gctx, userID)
		return errors.Wrap(err, "failed to count tasks by status")
	})
	g.Go(func() (err error) {
		priorityGroups, err = a.store.CountTasksByPriority(gctx, userID)
		return errors.Wrap(err, "failed to count tasks by priority")
	})
	g.Go(func() (err error) {
		overdue, err = a.store.CountTasks(gctx, &store.FindTask{
			CreatorID:     &userID,
			ExcludeStatus: &done,
			DueBefore:     &nowTs,
		})
		return errors.Wrap(err, "failed to count overdue tasks")
	})
	g.Go(func() (err error) {
		dueToday, err = a.store.CountTasks(gctx, &store.FindTask{
			CreatorID: &userID,
			DueAfter:  &startOfToday,
			DueBefore: &startOfTomorrow,
		})
		return errors.Wrap(err, "failed to count due-today tasks")
	})
	g.Go(func() (err error) {
		completedDueToday, err = a.store.CountTasks(gctx, &store.FindTask{
			CreatorID:       &userID,
			Status:          &done,
			DueAfter:        &startOfToday,
			DueBefore:       &startOfTomorrow,
			CompletedAfter:  &startOfToday,
			CompletedBefore: &startOfTomorrow,
		})
		return errors.Wrap(err, "failed to count completed due-today tasks")
	})
	g.Go(func() (err error) {
		completedToday, err = a.store.CountTasks(gctx, &store.FindTask{
			CreatorID:       &userID,
			Status:          &done,
			CompletedAfter:  &startOfToday,
			CompletedBefore: &startOfTomorrow,
		})
		return errors.Wrap(err, "failed to count completed-today tasks")
	})
	g.Go(func() (err error) {
		completedThisWeek, err = a.store.CountTasks(gctx, &store.FindTask{
			CreatorID:      &userID,
			Status:         &done,
			CompletedAfter: &startOfWeek,
		})
		return errors.Wrap(err, "failed to count completed-this-week tasks")
	})
	g.Go(func() (err error) {
		createdToday, err = a.store.CountTasks(gctx, &store.FindTask{
			CreatorID:     &userID,
			CreatedAfter:  &startOfToday,
			CreatedBefore: &startOfTomorrow,
		})
		return errors.Wrap(err, "failed to count created-today tasks")
	})
	g.Go(func() (err error) {
		createdThisWeek, err = a.store.CountTasks(gctx, &store.FindTask{
			CreatorID:    &userID,
			CreatedAfter: &startOfWeek,
		})
		return errors.Wrap(err, "failed to count created-this-week tasks")
	})
	g.Go(func() (err error) {
		completedLast30, err = a.store.ListTasks(gctx, &store.FindTask{
			CreatorID:      &userID,
			Status:         &done,
			CompletedAfter: &startOfLast30,
		})
		return errors.Wrap(err, "failed to list last-30-days completions")
	})
	g.Go(func() (err error) {
		streak, err = a.store.GetStreak(gctx, &store.FindStreak{UserID: &userID})
		return errors.Wrap(err, "failed to get streak")
	})
	for i, tier := range priorityTiers {
		g.Go(func() (err error) {
			tierDone[i], err = a.store.CountTasks(gctx, &store.FindTask{
				CreatorID: &userID,
				Status:    &done,
				Priority:  &tier,
			})
			return errors.Wrapf(err, "failed to count completed %s tasks", tier)
		})
		g.Go(func() (err error) {
			tierOverdue[i], err = a.store.CountTasks(gctx, &store.FindTask{
				CreatorID:     &userID,
				ExcludeStatus: &done,
				Priority:      &tier,
				DueBefore:     &nowTs,
			})
			return errors.Wrapf(err, "failed to count overdue %s tasks", tier)
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	report := &Report{
		UserID:      userID,
		Timezone:    loc.String(),
		GeneratedAt: now,
		Overview:    buildOverview(total, overdue, statusGroups),
		Today: TodaySummary{
			DueToday:          dueToday,
			CompletedToday:    completedToday,
			CreatedToday:      createdToday,
			CompletedThisWeek: completedThisWeek,
			CreatedThisWeek:   createdThisWeek,
		},
		Priorities: buildPriorityStats(priorityGroups, tierDone[:], tierOverdue[:]),
		Weekdays:   buildWeekdayPattern(completedLast30, loc),
	}
	if dueToday > 0 {
		rate := int(math.Round(100 * float64(completedDueToday) / float64(dueToday)))
		report.Today.CompletionRateToday = &rate
	}
	report.Streak = buildStreakSummary(streak, completedLast30, loc,
		IsActiveToday(dueToday, completedDueToday, completedToday))
	report.Insights = GenerateInsights(report)

	slog.Debug("stats report assembled",
		slog.Int64("user_id", int64(userID)),
		slog.Int64("duration_ms", time.Since(start).Milliseconds()))

	return report, nil
}

var priorityTiers = [...]store.TaskPriority{
	store.TaskPriorityHigh,
	store.TaskPriorityMedium,
	store.TaskPriorityLow,
}

func buildOverview(total, overdue int64, statusGroups []*store.GroupCount) Overview {
	byStatus := make(map[store.TaskStatus]int64, len(statusGroups))
	for _, gc := range statusGroups {
		byStatus[store.TaskStatus(gc.Key)] = gc.Count
	}

	return Overview{
		Total:     total,
		Active:    byStatus[store.TaskStatusPlan] + byStatus[store.TaskStatusPending] + byStatus[store.TaskStatusOverdue],
		Completed: byStatus[store.TaskStatusDone],
		Closed:    byStatus[store.TaskStatusCancelled] + byStatus[store.TaskStatusArchived],
		Overdue:   overdue,
	}
}

func buildPriorityStats(priorityGroups []*store.GroupCount, tierDone, tierOverdue []int64) []PriorityStat {
	byPriority := make(map[store.TaskPriority]int64, len(priorityGroups))
	for _, gc := range priorityGroups {
		byPriority[store.TaskPriority(gc.Key)] = gc.Count
	}

	stats := make([]PriorityStat, 0, len(priorityTiers))
	for i, tier := range priorityTiers {
		count := byPriority[tier]
		if count == 0 {
			continue
		}
		stats = append(stats, PriorityStat{
			Priority:       tier,
			Count:          count,
			CompletionRate: int(math.Round(100 * float64(tierDone[i]) / float64(count))),
			Overdue:        tierOverdue[i],
		})
	}
	return stats
}

// weekdayOrder fixes enumeration order for tie-breaking: the week starts
// Monday, matching the boundary math.
var weekdayOrder = [...]time.Weekday{
	time.Monday, time.Tuesday, time.Wednesday, time.Thursday,
	time.Friday, time.Saturday, time.Sunday,
}

func buildWeekdayPattern(completions []*store.Task, loc *time.Location) WeekdayPattern {
	counts := make(map[time.Weekday]int64, 7)
	for _, task := range completions {
		if task.CompletedTs == nil {
			continue
		}
		// Bucket by the completion's local weekday, not UTC weekday.
		counts[time.Unix(*task.CompletedTs, 0).In(loc).Weekday()]++
	}

	pattern := WeekdayPattern{
		AveragePerDay: float64(len(completions)) / 30,
	}

	var most, least time.Weekday
	var mostCount, leastCount int64
	for _, day := range weekdayOrder {
		c := counts[day]
		if c == 0 {
			pattern.ZeroActivityDays++
			continue
		}
		if c > mostCount {
			most, mostCount = day, c
		}
		if leastCount == 0 || c < leastCount {
			least, leastCount = day, c
		}
	}
	if mostCount > 0 {
		pattern.MostProductiveDay = most.String()
	}
	if leastCount > 0 {
		pattern.LeastProductiveDay = least.String()
	}
	return pattern
}

func buildStreakSummary(streak *store.Streak, completions []*store.Task, loc *time.Location, activeToday bool) StreakSummary {
	summary := StreakSummary{Active: activeToday}
	if streak != nil {
		summary.Current = streak.Count
		summary.Longest = streak.Longest
	}

	// Distinct local dates with at least one completion in the window.
	activeDays := make(map[string]struct{})
	for _, task := range completions {
		if task.CompletedTs == nil {
			continue
		}
		key := time.Unix(*task.CompletedTs, 0).In(loc).Format("2006-01-02")
		activeDays[key] = struct{}{}
	}
	summary.ActiveDaysLast30 = len(activeDays)
	summary.PercentActiveLast30 = int(math.Round(100 * float64(len(activeDays)) / 30))

	return summary
}
