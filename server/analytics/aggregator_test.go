package analytics

import (
	"context"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskvine/taskvine/store"
)

// reportNow is a Thursday afternoon: 2024-03-14 15:00 UTC.
var reportNow = time.Date(2024, 3, 14, 15, 0, 0, 0, time.UTC)

func ptr[T any](v T) *T { return &v }

// seedReportFixture loads one user's task history around reportNow:
//
//	t1 HIGH     DONE      due today 18:00, completed today 10:00
//	t2 -        PENDING   due today 20:00
//	t3 -        DONE      completed Monday this week
//	t4 HIGH     PENDING   due 2024-03-01 (overdue)
//	t5 -        CANCELLED
//	t6 -        PENDING   created today, no due date
func seedReportFixture(ms *mockStore, userID int32) {
	created := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC).Unix()
	high := store.TaskPriorityHigh

	ms.tasks = append(ms.tasks,
		&store.Task{
			CreatorID: userID, Status: store.TaskStatusDone, Priority: &high,
			CreatedTs:   created,
			DueTs:       ptr(time.Date(2024, 3, 14, 18, 0, 0, 0, time.UTC).Unix()),
			CompletedTs: ptr(time.Date(2024, 3, 14, 10, 0, 0, 0, time.UTC).Unix()),
		},
		&store.Task{
			CreatorID: userID, Status: store.TaskStatusPending,
			CreatedTs: created,
			DueTs:     ptr(time.Date(2024, 3, 14, 20, 0, 0, 0, time.UTC).Unix()),
		},
		&store.Task{
			CreatorID: userID, Status: store.TaskStatusDone,
			CreatedTs:   created,
			CompletedTs: ptr(time.Date(2024, 3, 11, 16, 0, 0, 0, time.UTC).Unix()),
		},
		&store.Task{
			CreatorID: userID, Status: store.TaskStatusPending, Priority: &high,
			CreatedTs: created,
			DueTs:     ptr(time.Date(2024, 3, 1, 18, 0, 0, 0, time.UTC).Unix()),
		},
		&store.Task{
			CreatorID: userID, Status: store.TaskStatusCancelled,
			CreatedTs: created,
		},
		&store.Task{
			CreatorID: userID, Status: store.TaskStatusPending,
			CreatedTs: time.Date(2024, 3, 14, 9, 0, 0, 0, time.UTC).Unix(),
		},
	)
}

func TestBuildReport_NoData(t *testing.T) {
	ms := newMockStore()
	agg := NewAggregator(ms, "")

	_, err := agg.BuildReport(context.Background(), 1, reportNow)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNoData))
}

func TestBuildReport_Overview(t *testing.T) {
	ms := newMockStore()
	seedReportFixture(ms, 1)
	agg := NewAggregator(ms, "")

	report, err := agg.BuildReport(context.Background(), 1, reportNow)
	require.NoError(t, err)

	assert.Equal(t, int64(6), report.Overview.Total)
	assert.Equal(t, int64(3), report.Overview.Active)
	assert.Equal(t, int64(2), report.Overview.Completed)
	assert.Equal(t, int64(1), report.Overview.Closed)
	// Only t4 is past due at reportNow; t2 is due later today.
	assert.Equal(t, int64(1), report.Overview.Overdue)
}

func TestBuildReport_TodayAndWeek(t *testing.T) {
	ms := newMockStore()
	seedReportFixture(ms, 1)
	agg := NewAggregator(ms, "")

	report, err := agg.BuildReport(context.Background(), 1, reportNow)
	require.NoError(t, err)

	assert.Equal(t, int64(2), report.Today.DueToday)
	assert.Equal(t, int64(1), report.Today.CompletedToday)
	assert.Equal(t, int64(1), report.Today.CreatedToday)
	assert.Equal(t, int64(2), report.Today.CompletedThisWeek)
	assert.Equal(t, int64(1), report.Today.CreatedThisWeek)

	// One of two due-today tasks completed.
	require.NotNil(t, report.Today.CompletionRateToday)
	assert.Equal(t, 50, *report.Today.CompletionRateToday)
}

func TestBuildReport_CompletionRateUndefinedWhenNothingDue(t *testing.T) {
	ms := newMockStore()
	ms.tasks = append(ms.tasks, &store.Task{
		CreatorID: 2, Status: store.TaskStatusPending,
		CreatedTs: time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC).Unix(),
	})
	agg := NewAggregator(ms, "")

	report, err := agg.BuildReport(context.Background(), 2, reportNow)
	require.NoError(t, err)

	assert.Nil(t, report.Today.CompletionRateToday,
		"no tasks due must stay undefined, never 0 or 100")
}

func TestBuildReport_Priorities(t *testing.T) {
	ms := newMockStore()
	seedReportFixture(ms, 1)
	agg := NewAggregator(ms, "")

	report, err := agg.BuildReport(context.Background(), 1, reportNow)
	require.NoError(t, err)

	require.Len(t, report.Priorities, 1)
	high := report.Priorities[0]
	assert.Equal(t, store.TaskPriorityHigh, high.Priority)
	assert.Equal(t, int64(2), high.Count)
	assert.Equal(t, 50, high.CompletionRate)
	assert.Equal(t, int64(1), high.Overdue)
}

func TestBuildReport_WeekdayPattern(t *testing.T) {
	ms := newMockStore()
	seedReportFixture(ms, 1)
	agg := NewAggregator(ms, "")

	report, err := agg.BuildReport(context.Background(), 1, reportNow)
	require.NoError(t, err)

	// One completion on Monday, one on Thursday: a tie resolved by
	// Monday-first enumeration order, and five weekdays without data.
	assert.Equal(t, "Monday", report.Weekdays.MostProductiveDay)
	assert.Equal(t, "Monday", report.Weekdays.LeastProductiveDay)
	assert.Equal(t, 5, report.Weekdays.ZeroActivityDays)
	assert.InDelta(t, 2.0/30, report.Weekdays.AveragePerDay, 1e-9)
}

func TestBuildReport_LeastProductiveExcludesZeroDays(t *testing.T) {
	ms := newMockStore()
	// Three completions on Tuesday, one on Friday, nothing else.
	for _, ts := range []time.Time{
		time.Date(2024, 3, 12, 9, 0, 0, 0, time.UTC),
		time.Date(2024, 3, 12, 12, 0, 0, 0, time.UTC),
		time.Date(2024, 3, 12, 15, 0, 0, 0, time.UTC),
		time.Date(2024, 3, 8, 11, 0, 0, 0, time.UTC),
	} {
		ms.tasks = append(ms.tasks, completedTask(3, ts))
	}
	agg := NewAggregator(ms, "")

	report, err := agg.BuildReport(context.Background(), 3, reportNow)
	require.NoError(t, err)

	assert.Equal(t, "Tuesday", report.Weekdays.MostProductiveDay)
	assert.Equal(t, "Friday", report.Weekdays.LeastProductiveDay,
		"a zero-completion weekday is no data, not worst performance")
}

func TestBuildReport_StreakSnapshot(t *testing.T) {
	ms := newMockStore()
	seedReportFixture(ms, 1)
	ms.streaks[1] = &store.Streak{UserID: 1, Count: 4, Longest: 9}
	agg := NewAggregator(ms, "")

	report, err := agg.BuildReport(context.Background(), 1, reportNow)
	require.NoError(t, err)

	assert.Equal(t, int32(4), report.Streak.Current)
	assert.Equal(t, int32(9), report.Streak.Longest)
	// One due-today task was completed today, so today is satisfied.
	assert.True(t, report.Streak.Active)
	// Completions on two distinct days in the 30-day window.
	assert.Equal(t, 2, report.Streak.ActiveDaysLast30)
	assert.Equal(t, 7, report.Streak.PercentActiveLast30)
}

func TestBuildReport_TimezoneResolution(t *testing.T) {
	ms := newMockStore()
	ms.users = append(ms.users, &store.User{ID: 1, Username: "ada", Timezone: ptr("Asia/Shanghai")})
	seedReportFixture(ms, 1)
	agg := NewAggregator(ms, "")

	report, err := agg.BuildReport(context.Background(), 1, reportNow)
	require.NoError(t, err)
	assert.Equal(t, "Asia/Shanghai", report.Timezone)

	// 15:00 UTC on March 14 is already March 14 23:00 in Shanghai; the
	// "today" window shifts with the user's local day.
	assert.Equal(t, int64(1), report.Today.CompletedToday)
}

func TestBuildReport_MissingUserFallsBackToUTC(t *testing.T) {
	ms := newMockStore()
	seedReportFixture(ms, 1)
	agg := NewAggregator(ms, "")

	report, err := agg.BuildReport(context.Background(), 1, reportNow)
	require.NoError(t, err)
	assert.Equal(t, "UTC", report.Timezone)
}

func TestBuildReport_InvalidTimezoneFallsBackToUTC(t *testing.T) {
	ms := newMockStore()
	ms.users = append(ms.users, &store.User{ID: 1, Username: "ada", Timezone: ptr("Mars/Olympus_Mons")})
	seedReportFixture(ms, 1)
	agg := NewAggregator(ms, "")

	report, err := agg.BuildReport(context.Background(), 1, reportNow)
	require.NoError(t, err)
	assert.Equal(t, "UTC", report.Timezone)
}

func TestBuildReport_Idempotent(t *testing.T) {
	ms := newMockStore()
	seedReportFixture(ms, 1)
	agg := NewAggregator(ms, "")

	first, err := agg.BuildReport(context.Background(), 1, reportNow)
	require.NoError(t, err)
	second, err := agg.BuildReport(context.Background(), 1, reportNow)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestBuildReport_AlwaysHasInsights(t *testing.T) {
	ms := newMockStore()
	ms.tasks = append(ms.tasks, &store.Task{
		CreatorID: 4, Status: store.TaskStatusPending,
		CreatedTs: time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC).Unix(),
	})
	agg := NewAggregator(ms, "")

	report, err := agg.BuildReport(context.Background(), 4, reportNow)
	require.NoError(t, err)
	require.NotEmpty(t, report.Insights)
}
