package server

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"

	"github.com/taskvine/taskvine/internal/profile"
	apiv1 "github.com/taskvine/taskvine/server/router/api/v1"
	"github.com/taskvine/taskvine/store"
)

type Server struct {
	Profile *profile.Profile
	Store   *store.Store

	echoServer *echo.Echo
}

func NewServer(ctx context.Context, profile *profile.Profile, store *store.Store) (*Server, error) {
	s := &Server{
		Store:   store,
		Profile: profile,
	}

	echoServer := echo.New()
	echoServer.Debug = true
	echoServer.HideBanner = true
	echoServer.HidePort = true
	s.echoServer = echoServer

	echoServer.Use(middleware.Recover())
	echoServer.Use(middleware.TimeoutWithConfig(middleware.TimeoutConfig{
		Timeout:      30 * time.Second,
		ErrorMessage: "Request timeout",
	}))

	echoServer.GET("/healthz", func(c echo.Context) error {
		return c.String(200, "Service ready.")
	})

	apiV1Service := apiv1.NewAPIV1Service(profile, store)
	apiV1Service.RegisterRoutes(echoServer)

	// Migrate the database on startup so a fresh data directory is
	// usable without a separate setup step.
	if err := store.Migrate(ctx); err != nil {
		return nil, errors.Wrap(err, "failed to migrate database")
	}

	return s, nil
}

func (s *Server) Start(_ context.Context) error {
	address := fmt.Sprintf("%s:%d", s.Profile.Addr, s.Profile.Port)
	slog.Info("server started", slog.String("address", address))
	return s.echoServer.Start(address)
}

func (s *Server) Shutdown(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	// Shutdown echo server.
	if err := s.echoServer.Shutdown(ctx); err != nil {
		slog.Error("failed to shutdown server", slog.String("error", err.Error()))
	}

	// Close database connection.
	if err := s.Store.Close(); err != nil {
		slog.Error("failed to close database", slog.String("error", err.Error()))
	}

	slog.Info("taskvine stopped properly")
}
