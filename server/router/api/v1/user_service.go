package v1

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/taskvine/taskvine/server/timezone"
	"github.com/taskvine/taskvine/store"
)

// CreateUserRequest is the request body for user creation.
type CreateUserRequest struct {
	Username string  `json:"username"`
	Timezone *string `json:"timezone,omitempty"`
}

// CreateUser creates a new user. The timezone is validated up front so
// that downstream consumers only ever see resolvable IANA names.
//
// POST /api/v1/users
func (s *APIV1Service) CreateUser(c echo.Context) error {
	req := &CreateUserRequest{}
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "malformed request body").SetInternal(err)
	}
	if req.Username == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "username is required")
	}
	if req.Timezone != nil && !timezone.IsValidTimezone(*req.Timezone) {
		return echo.NewHTTPError(http.StatusBadRequest, "unknown timezone: "+*req.Timezone)
	}

	now := time.Now().Unix()
	user, err := s.Store.CreateUser(c.Request().Context(), &store.User{
		Username:  req.Username,
		CreatedTs: now,
		UpdatedTs: now,
		Timezone:  req.Timezone,
	})
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to create user").SetInternal(err)
	}

	return c.JSON(http.StatusOK, user)
}
