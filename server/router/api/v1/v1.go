// Package v1 exposes the HTTP API surface for taskvine.
//
// The router owns serialization only: report assembly, recurrence
// evaluation and streak updates live in server/analytics and
// server/scheduler/recurrence.
package v1

import (
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/taskvine/taskvine/internal/profile"
	"github.com/taskvine/taskvine/server/analytics"
	"github.com/taskvine/taskvine/store"
)

// APIV1Service handles all v1 API routes.
type APIV1Service struct {
	Profile    *profile.Profile
	Store      *store.Store
	Aggregator *analytics.Aggregator
}

// NewAPIV1Service creates a new v1 API service.
func NewAPIV1Service(profile *profile.Profile, st *store.Store) *APIV1Service {
	return &APIV1Service{
		Profile:    profile,
		Store:      st,
		Aggregator: analytics.NewAggregator(st, profile.DefaultTimezone),
	}
}

// RegisterRoutes registers all v1 routes on the echo instance.
func (s *APIV1Service) RegisterRoutes(e *echo.Echo) {
	e.Use(requestLogger)

	g := e.Group("/api/v1")

	g.POST("/users", s.CreateUser)
	g.GET("/users/:id/stats", s.GetUserStats)
	g.GET("/users/:id/tasks", s.ListUserTasks)
	g.GET("/users/:id/tasks/today", s.ListTodayTasks)

	g.POST("/tasks", s.CreateTask)
	g.POST("/tasks/:uid/complete", s.CompleteTask)
	g.DELETE("/tasks/:uid", s.DeleteTask)
}

// requestLogger logs one line per request with a generated request id.
func requestLogger(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		requestID := uuid.New().String()
		c.Response().Header().Set(echo.HeaderXRequestID, requestID)
		start := time.Now()

		err := next(c)

		slog.Info("request",
			slog.String("request_id", requestID),
			slog.String("method", c.Request().Method),
			slog.String("path", c.Request().URL.Path),
			slog.Int("status", c.Response().Status),
			slog.Int64("duration_ms", time.Since(start).Milliseconds()))
		return err
	}
}
