package v1

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/lithammer/shortuuid/v4"

	"github.com/taskvine/taskvine/server/analytics"
	"github.com/taskvine/taskvine/server/scheduler/recurrence"
	"github.com/taskvine/taskvine/server/timezone"
	"github.com/taskvine/taskvine/store"
)

// CreateTaskRequest is the request body for task creation.
type CreateTaskRequest struct {
	CreatorID   int32               `json:"creatorId"`
	Title       string              `json:"title"`
	Description string              `json:"description"`
	Priority    *store.TaskPriority `json:"priority,omitempty"`
	DueTs       *int64              `json:"dueTs,omitempty"`
	Recurrence  *store.Recurrence   `json:"recurrence,omitempty"`
}

// CreateTask creates a new task. Recurrence definitions are validated
// here, at the construction boundary, so the evaluator downstream can
// assume well-formed input.
//
// POST /api/v1/tasks
func (s *APIV1Service) CreateTask(c echo.Context) error {
	req := &CreateTaskRequest{}
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "malformed request body").SetInternal(err)
	}
	if req.CreatorID == 0 || req.Title == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "creatorId and title are required")
	}
	if req.Recurrence != nil {
		if err := req.Recurrence.Validate(); err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
	}

	task, err := s.Store.CreateTask(c.Request().Context(), &store.Task{
		UID:         shortuuid.New(),
		CreatorID:   req.CreatorID,
		Title:       req.Title,
		Description: req.Description,
		Status:      store.TaskStatusPending,
		Priority:    req.Priority,
		DueTs:       req.DueTs,
		Recurrence:  req.Recurrence,
	})
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to create task").SetInternal(err)
	}

	return c.JSON(http.StatusOK, task)
}

// CompleteTaskResponse carries the completed task and the streak state
// after the completion was recorded.
type CompleteTaskResponse struct {
	Task         *store.Task   `json:"task"`
	Streak       *store.Streak `json:"streak,omitempty"`
	CountedToday bool          `json:"countedToday"`
}

// CompleteTask marks a task done and records the completion against the
// owner's streak in the same request.
//
// POST /api/v1/tasks/:uid/complete
func (s *APIV1Service) CompleteTask(c echo.Context) error {
	ctx := c.Request().Context()
	uid := c.Param("uid")

	task, err := s.Store.GetTask(ctx, &store.FindTask{UID: &uid})
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to get task").SetInternal(err)
	}
	if task == nil {
		return echo.NewHTTPError(http.StatusNotFound, "task not found")
	}

	now := time.Now()
	nowTs := now.Unix()
	done := store.TaskStatusDone
	if err := s.Store.UpdateTask(ctx, &store.UpdateTask{
		ID:          task.ID,
		UpdatedTs:   &nowTs,
		Status:      &done,
		CompletedTs: &nowTs,
	}); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to update task").SetInternal(err)
	}
	task.Status = done
	task.CompletedTs = &nowTs

	streak, counted, err := s.Aggregator.RecordCompletion(ctx, task.CreatorID, now)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to record completion").SetInternal(err)
	}

	return c.JSON(http.StatusOK, &CompleteTaskResponse{
		Task:         task,
		Streak:       streak,
		CountedToday: counted,
	})
}

// ListUserTasks lists a user's tasks, newest first, with optional
// limit/offset pagination and status filtering.
//
// GET /api/v1/users/:id/tasks
func (s *APIV1Service) ListUserTasks(c echo.Context) error {
	userID, err := parseUserID(c)
	if err != nil {
		return err
	}

	find := &store.FindTask{CreatorID: &userID}
	if v := c.QueryParam("status"); v != "" {
		status := store.TaskStatus(v)
		find.Status = &status
	}
	if v := c.QueryParam("limit"); v != "" {
		limit, err := strconv.Atoi(v)
		if err != nil || limit < 1 {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid limit")
		}
		find.Limit = &limit

		if v := c.QueryParam("offset"); v != "" {
			offset, err := strconv.Atoi(v)
			if err != nil || offset < 0 {
				return echo.NewHTTPError(http.StatusBadRequest, "invalid offset")
			}
			find.Offset = &offset
		}
	}

	list, err := s.Store.ListTasks(c.Request().Context(), find)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to list tasks").SetInternal(err)
	}
	return c.JSON(http.StatusOK, list)
}

// DeleteTask deletes a task permanently.
//
// DELETE /api/v1/tasks/:uid
func (s *APIV1Service) DeleteTask(c echo.Context) error {
	ctx := c.Request().Context()
	uid := c.Param("uid")

	task, err := s.Store.GetTask(ctx, &store.FindTask{UID: &uid})
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to get task").SetInternal(err)
	}
	if task == nil {
		return echo.NewHTTPError(http.StatusNotFound, "task not found")
	}

	if err := s.Store.DeleteTask(ctx, &store.DeleteTask{ID: task.ID}); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to delete task").SetInternal(err)
	}
	return c.NoContent(http.StatusNoContent)
}

// ListTodayTasks lists the tasks that belong on today's list in the
// user's local timezone: tasks due today plus recurring definitions
// whose occurrence day is today.
//
// GET /api/v1/users/:id/tasks/today
func (s *APIV1Service) ListTodayTasks(c echo.Context) error {
	ctx := c.Request().Context()
	userID, err := parseUserID(c)
	if err != nil {
		return err
	}

	loc := timezone.UTC
	user, err := s.Store.GetUser(ctx, &store.FindUser{ID: &userID})
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to get user").SetInternal(err)
	}
	if user != nil && user.Timezone != nil {
		loc, _ = timezone.ParseTimezone(*user.Timezone)
	}
	b := analytics.ComputeBoundaries(time.Now(), loc)

	// Closed tasks stay off today's list even when their due date
	// falls inside the window.
	openStatuses := []store.TaskStatus{
		store.TaskStatusPlan,
		store.TaskStatusPending,
		store.TaskStatusOverdue,
	}
	startOfToday := b.StartOfToday.Unix()
	startOfTomorrow := b.StartOfTomorrow.Unix()
	dueToday, err := s.Store.ListTasks(ctx, &store.FindTask{
		CreatorID:  &userID,
		DueAfter:   &startOfToday,
		DueBefore:  &startOfTomorrow,
		StatusList: openStatuses,
	})
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to list tasks").SetInternal(err)
	}

	// A recurring definition keeps firing after it was completed, so
	// DONE stays in; cancelled and archived definitions are retired.
	recurring := true
	definitions, err := s.Store.ListTasks(ctx, &store.FindTask{
		CreatorID:  &userID,
		Recurring:  &recurring,
		StatusList: append(openStatuses, store.TaskStatusDone),
	})
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to list recurring tasks").SetInternal(err)
	}

	list := make([]*store.Task, 0, len(dueToday))
	seen := make(map[int32]struct{}, len(dueToday))
	for _, task := range dueToday {
		list = append(list, task)
		seen[task.ID] = struct{}{}
	}
	for _, task := range definitions {
		if _, ok := seen[task.ID]; ok {
			continue
		}
		if recurrence.IsOccurrenceDay(task.Recurrence, b.StartOfToday) {
			list = append(list, task)
		}
	}

	return c.JSON(http.StatusOK, list)
}
