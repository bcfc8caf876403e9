package analytics

import (
	"fmt"
)

// InsightCode identifies an insight rule.
type InsightCode string

const (
	InsightStrongStreak        InsightCode = "STRONG_STREAK"
	InsightStreakBroken        InsightCode = "STREAK_BROKEN"
	InsightOverduePressure     InsightCode = "OVERDUE_PRESSURE"
	InsightHighPriorityControl InsightCode = "HIGH_PRIORITY_CONTROL"
	InsightBacklogReduction    InsightCode = "BACKLOG_REDUCTION"
	InsightSteadyState         InsightCode = "STEADY_STATE"
)

// Insight is a short, rule-derived advisory message about a pattern in
// the report.
type Insight struct {
	Code    InsightCode `json:"code"`
	Message string      `json:"message"`
}

const strongStreakThreshold = 7

// GenerateInsights evaluates the fixed rule set over an assembled
// report. Pure and deterministic: rule order is fixed, insertion order
// is display order, and no rule suppresses another. When no rule fires
// the single neutral insight is emitted, so the list is never empty.
func GenerateInsights(r *Report) []Insight {
	insights := []Insight{}

	if r.Streak.Active && r.Streak.Current >= strongStreakThreshold {
		insights = append(insights, Insight{
			Code:    InsightStrongStreak,
			Message: fmt.Sprintf("You are on a %d-day streak. Keep the momentum going.", r.Streak.Current),
		})
	}
	if !r.Streak.Active && r.Streak.Current > 0 {
		insights = append(insights, Insight{
			Code:    InsightStreakBroken,
			Message: fmt.Sprintf("Your %d-day streak is at risk. Complete a task today to keep it alive.", r.Streak.Current),
		})
	}
	if r.Overview.Overdue > 0 {
		insights = append(insights, Insight{
			Code:    InsightOverduePressure,
			Message: fmt.Sprintf("%d tasks are overdue. Consider rescheduling or closing the stale ones.", r.Overview.Overdue),
		})
	}
	if stat := findPriority(r, "HIGH"); stat != nil && stat.Overdue == 0 {
		insights = append(insights, Insight{
			Code:    InsightHighPriorityControl,
			Message: "All high-priority tasks are on schedule. Well managed.",
		})
	}
	if r.Today.CompletedThisWeek > r.Today.CreatedThisWeek {
		insights = append(insights, Insight{
			Code:    InsightBacklogReduction,
			Message: "You completed more tasks than you created this week. Your backlog is shrinking.",
		})
	}

	if len(insights) == 0 {
		insights = append(insights, Insight{
			Code:    InsightSteadyState,
			Message: "Everything looks steady. Keep going at your own pace.",
		})
	}
	return insights
}

func findPriority(r *Report, priority string) *PriorityStat {
	for i := range r.Priorities {
		if string(r.Priorities[i].Priority) == priority {
			return &r.Priorities[i]
		}
	}
	return nil
}
