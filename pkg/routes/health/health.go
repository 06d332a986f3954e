package health

import (
	"net/http"
	"time"

	"github.com/Gobusters/ectoinject"
	"github.com/labstack/echo/v4"

	"github.com/waqas1412/ReAgentWABot-sub001/pkg/database"
	"github.com/waqas1412/ReAgentWABot-sub001/pkg/dedup"
)

// Register registers health routes
func Register(g *echo.Group) {
	g.GET("/health", GetHealth)
}

// Status is the health check response
type Status struct {
	Status     string            `json:"status"`
	Checks     map[string]string `json:"checks"`
	ReportedAt time.Time         `json:"reported_at"`
}

// GetHealth reports reachability of the backing stores.
func GetHealth(c echo.Context) error {
	ctx := c.Request().Context()

	checks := map[string]string{}
	healthy := true

	ctx, handles, err := ectoinject.GetContext[*database.Handles](ctx)
	if err != nil || handles == nil {
		checks["database"] = "unavailable"
		healthy = false
	} else if err := handles.Ping(ctx); err != nil {
		checks["database"] = err.Error()
		healthy = false
	} else {
		checks["database"] = "ok"
	}

	ctx, deduper, err := ectoinject.GetContext[dedup.Deduper](ctx)
	if err != nil || deduper == nil {
		checks["redis"] = "unavailable"
		healthy = false
	} else if err := deduper.Ping(ctx); err != nil {
		checks["redis"] = err.Error()
		healthy = false
	} else {
		checks["redis"] = "ok"
	}

	status := Status{Status: "healthy", Checks: checks, ReportedAt: time.Now().UTC()}
	code := http.StatusOK
	if !healthy {
		status.Status = "unhealthy"
		code = http.StatusServiceUnavailable
	}

	return c.JSON(code, status)
}
