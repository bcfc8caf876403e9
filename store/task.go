package store

import (
	"context"
	"time"

	"github.com/pkg/errors"
)

// TaskStatus is the lifecycle status of a task.
type TaskStatus string

const (
	TaskStatusPlan      TaskStatus = "PLAN"
	TaskStatusPending   TaskStatus = "PENDING"
	TaskStatusDone      TaskStatus = "DONE"
	TaskStatusCancelled TaskStatus = "CANCELLED"
	TaskStatusOverdue   TaskStatus = "OVERDUE"
	TaskStatusArchived  TaskStatus = "ARCHIVED"
)

// TaskPriority is the priority tier of a task. Absence is a valid state.
type TaskPriority string

const (
	TaskPriorityLow    TaskPriority = "LOW"
	TaskPriorityMedium TaskPriority = "MEDIUM"
	TaskPriorityHigh   TaskPriority = "HIGH"
)

// RecurrenceInterval is the unit of a recurrence definition.
type RecurrenceInterval string

const (
	IntervalDaily   RecurrenceInterval = "DAILY"
	IntervalWeekly  RecurrenceInterval = "WEEKLY"
	IntervalMonthly RecurrenceInterval = "MONTHLY"
	IntervalYearly  RecurrenceInterval = "YEARLY"
	IntervalCustom  RecurrenceInterval = "CUSTOM"
)

// Recurrence is the recurrence definition attached to a task.
// It is set on create/edit and never auto-expires.
type Recurrence struct {
	// AnchorTs is the first possible occurrence, as a Unix timestamp of
	// the local midnight of the anchor date.
	AnchorTs int64 `json:"anchorTs"`
	Interval RecurrenceInterval `json:"interval"`
	// Every is the interval multiplier, e.g. "every 3 days". Must be >= 1.
	Every int `json:"every"`
	// CustomExpression is an opaque schedule carried for CUSTOM intervals.
	// It is never evaluated by this engine.
	CustomExpression *string `json:"customExpression,omitempty"`
}

// Validate rejects malformed recurrence definitions at the construction
// boundary so the evaluator can assume well-formed input.
func (r *Recurrence) Validate() error {
	if r.AnchorTs == 0 {
		return errors.New("recurrence anchor date is required")
	}
	if r.Every < 1 {
		return errors.Errorf("recurrence multiplier must be >= 1, got %d", r.Every)
	}
	switch r.Interval {
	case IntervalDaily, IntervalWeekly, IntervalMonthly, IntervalYearly, IntervalCustom:
		return nil
	default:
		return errors.Errorf("unknown recurrence interval %q", r.Interval)
	}
}

// Task is the object representing a task.
type Task struct {
	ID        int32
	UID       string
	CreatorID int32
	CreatedTs int64
	UpdatedTs int64

	Title       string
	Description string
	Status      TaskStatus
	Priority    *TaskPriority
	DueTs       *int64
	CompletedTs *int64
	Recurrence  *Recurrence
}

// ParseDueTime parses the task due time to time.Time.
func (t *Task) ParseDueTime() *time.Time {
	if t.DueTs == nil {
		return nil
	}
	due := time.Unix(*t.DueTs, 0)
	return &due
}

// ParseCompletedTime parses the task completed time to time.Time.
func (t *Task) ParseCompletedTime() *time.Time {
	if t.CompletedTs == nil {
		return nil
	}
	done := time.Unix(*t.CompletedTs, 0)
	return &done
}

// IsRecurring returns true if the task carries a recurrence definition.
func (t *Task) IsRecurring() bool {
	return t.Recurrence != nil
}

// FindTask is the find condition for task.
// Timestamp range filters are half-open: [After, Before).
type FindTask struct {
	ID        *int32
	UID       *string
	CreatorID *int32

	Status        *TaskStatus
	StatusList    []TaskStatus
	ExcludeStatus *TaskStatus
	Priority      *TaskPriority

	DueAfter        *int64
	DueBefore       *int64
	CompletedAfter  *int64
	CompletedBefore *int64
	CreatedAfter    *int64
	CreatedBefore   *int64

	// Recurring filters on presence of a recurrence definition.
	Recurring *bool

	// Pagination
	Limit  *int
	Offset *int
}

// UpdateTask is the update request for task.
type UpdateTask struct {
	ID          int32
	UpdatedTs   *int64
	Title       *string
	Description *string
	Status      *TaskStatus
	Priority    *TaskPriority
	DueTs       *int64
	CompletedTs *int64
	Recurrence  *Recurrence
}

// DeleteTask is the delete request for task.
type DeleteTask struct {
	ID int32
}

// GroupCount is a count of tasks sharing one group key, e.g. one status
// or one priority tier.
type GroupCount struct {
	Key   string
	Count int64
}

// CreateTask creates a new task.
func (s *Store) CreateTask(ctx context.Context, create *Task) (*Task, error) {
	if create.Recurrence != nil {
		if err := create.Recurrence.Validate(); err != nil {
			return nil, errors.Wrap(err, "invalid recurrence definition")
		}
	}
	return s.driver.CreateTask(ctx, create)
}

// ListTasks lists tasks with filter.
func (s *Store) ListTasks(ctx context.Context, find *FindTask) ([]*Task, error) {
	return s.driver.ListTasks(ctx, find)
}

// GetTask gets a task with filter.
func (s *Store) GetTask(ctx context.Context, find *FindTask) (*Task, error) {
	list, err := s.driver.ListTasks(ctx, find)
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, nil
	}
	return list[0], nil
}

// CountTasks counts tasks with filter.
func (s *Store) CountTasks(ctx context.Context, find *FindTask) (int64, error) {
	return s.driver.CountTasks(ctx, find)
}

// CountTasksByStatus counts a user's tasks grouped by status.
func (s *Store) CountTasksByStatus(ctx context.Context, creatorID int32) ([]*GroupCount, error) {
	return s.driver.CountTasksByStatus(ctx, creatorID)
}

// CountTasksByPriority counts a user's tasks grouped by priority tier.
// Tasks without a priority are excluded.
func (s *Store) CountTasksByPriority(ctx context.Context, creatorID int32) ([]*GroupCount, error) {
	return s.driver.CountTasksByPriority(ctx, creatorID)
}

// UpdateTask updates a task.
func (s *Store) UpdateTask(ctx context.Context, update *UpdateTask) error {
	if update.Recurrence != nil {
		if err := update.Recurrence.Validate(); err != nil {
			return errors.Wrap(err, "invalid recurrence definition")
		}
	}
	return s.driver.UpdateTask(ctx, update)
}

// DeleteTask deletes a task.
func (s *Store) DeleteTask(ctx context.Context, delete *DeleteTask) error {
	return s.driver.DeleteTask(ctx, delete)
}
