package v1

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/taskvine/taskvine/server/analytics"
)

// StatsResponse wraps the report so a user with no tasks gets an
// explicit empty state instead of a populated report full of zeros.
type StatsResponse struct {
	HasData bool              `json:"hasData"`
	Report  *analytics.Report `json:"report,omitempty"`
}

// GetUserStats assembles the statistics report for a user.
//
// GET /api/v1/users/:id/stats
func (s *APIV1Service) GetUserStats(c echo.Context) error {
	userID, err := parseUserID(c)
	if err != nil {
		return err
	}

	report, err := s.Aggregator.BuildReport(c.Request().Context(), userID, time.Now())
	if err != nil {
		if errors.Is(err, analytics.ErrNoData) {
			return c.JSON(http.StatusOK, &StatsResponse{HasData: false})
		}
		// Storage failures propagate unmodified; the client treats them
		// as "analytics temporarily unavailable".
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to build stats report").SetInternal(err)
	}

	return c.JSON(http.StatusOK, &StatsResponse{HasData: true, Report: report})
}

func parseUserID(c echo.Context) (int32, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 32)
	if err != nil {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid user id")
	}
	return int32(id), nil
}
