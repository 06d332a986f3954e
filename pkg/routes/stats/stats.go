package stats

import (
	"net/http"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Gobusters/ectoinject"
	"github.com/labstack/echo/v4"

	"github.com/waqas1412/ReAgentWABot-sub001/internal/services/stats"
)

// Register registers stats routes
func Register(g *echo.Group) {
	g.GET("/stats", GetStats)
	g.GET("/stats/appointments", GetAppointmentStats)
}

// GetStats reports system-wide totals.
func GetStats(c echo.Context) error {
	ctx := c.Request().Context()

	ctx, svc, err := ectoinject.GetContext[*stats.Service](ctx)
	if err != nil {
		return httperror.NewHTTPError(http.StatusInternalServerError, "service unavailable")
	}

	systemStats, err := svc.GetSystemStats(ctx)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, systemStats)
}

// GetAppointmentStats reports viewing appointment totals and windows.
func GetAppointmentStats(c echo.Context) error {
	ctx := c.Request().Context()

	ctx, svc, err := ectoinject.GetContext[*stats.Service](ctx)
	if err != nil {
		return httperror.NewHTTPError(http.StatusInternalServerError, "service unavailable")
	}

	appointmentStats, err := svc.GetAppointmentStats(ctx)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, appointmentStats)
}
