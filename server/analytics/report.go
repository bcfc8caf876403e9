package analytics

import (
	"time"

	"github.com/taskvine/taskvine/store"
)

// Report is the statistics report assembled per request. It is
// constructed fresh on each call and never mutated after construction;
// only the streak sub-record persists anywhere.
type Report struct {
	UserID      int32     `json:"userId"`
	Timezone    string    `json:"timezone"`
	GeneratedAt time.Time `json:"generatedAt"`

	Overview   Overview       `json:"overview"`
	Today      TodaySummary   `json:"today"`
	Streak     StreakSummary  `json:"streak"`
	Priorities []PriorityStat `json:"priorities"`
	Weekdays   WeekdayPattern `json:"weekdays"`
	Insights   []Insight      `json:"insights"`
}

// Overview holds whole-history counts.
type Overview struct {
	Total     int64 `json:"total"`
	Active    int64 `json:"active"`
	Completed int64 `json:"completed"`
	// Closed counts cancelled or archived tasks.
	Closed  int64 `json:"closed"`
	Overdue int64 `json:"overdue"`
}

// TodaySummary holds today's and this week's counts.
type TodaySummary struct {
	DueToday          int64 `json:"dueToday"`
	CompletedToday    int64 `json:"completedToday"`
	CreatedToday      int64 `json:"createdToday"`
	CompletedThisWeek int64 `json:"completedThisWeek"`
	CreatedThisWeek   int64 `json:"createdThisWeek"`

	// CompletionRateToday is round(100 * completed-due-today / due-today).
	// Nil when nothing was due today: "no tasks due" is a different
	// signal than "0% completion" and is never coerced to 0.
	CompletionRateToday *int `json:"completionRateToday,omitempty"`
}

// StreakSummary is the streak snapshot plus 30-day health metrics.
type StreakSummary struct {
	Current int32 `json:"current"`
	Longest int32 `json:"longest"`
	// Active reports whether today's satisfaction condition is met.
	Active bool `json:"active"`

	ActiveDaysLast30    int `json:"activeDaysLast30"`
	PercentActiveLast30 int `json:"percentActiveLast30"`
}

// PriorityStat is the per-tier breakdown.
type PriorityStat struct {
	Priority       store.TaskPriority `json:"priority"`
	Count          int64              `json:"count"`
	CompletionRate int                `json:"completionRate"`
	Overdue        int64              `json:"overdue"`
}

// WeekdayPattern summarizes which local weekdays completions land on,
// derived from the last 30 days of completion events.
type WeekdayPattern struct {
	// MostProductiveDay is the weekday with the highest completion
	// count. Empty when the window has no completions.
	MostProductiveDay string `json:"mostProductiveDay,omitempty"`
	// LeastProductiveDay is the weekday with the lowest non-zero count.
	// A zero-completion weekday is "no data", not "worst performance".
	LeastProductiveDay string  `json:"leastProductiveDay,omitempty"`
	AveragePerDay      float64 `json:"averagePerDay"`
	ZeroActivityDays   int     `json:"zeroActivityDays"`
}
