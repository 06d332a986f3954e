package property

import (
	"net/http"
	"strconv"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Gobusters/ectoinject"
	"github.com/labstack/echo/v4"

	"github.com/waqas1412/ReAgentWABot-sub001/internal/services/property"
	"github.com/waqas1412/ReAgentWABot-sub001/pkg/models"
)

// Register registers property routes
func Register(g *echo.Group) {
	g.GET("/properties", SearchProperties)
	g.GET("/properties/:id", GetProperty)
}

// SearchProperties searches the listing inventory by query parameters.
func SearchProperties(c echo.Context) error {
	ctx := c.Request().Context()

	criteria, err := parseCriteria(c)
	if err != nil {
		return err
	}
	opts := models.SearchOptions{
		Limit:  intParam(c, "limit", 20),
		Offset: intParam(c, "offset", 0),
	}

	ctx, svc, err := ectoinject.GetContext[*property.Service](ctx)
	if err != nil {
		return httperror.NewHTTPError(http.StatusInternalServerError, "service unavailable")
	}

	results, err := svc.SearchProperties(ctx, criteria, opts)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, models.PropertyListResponse{
		Items:      results,
		TotalCount: len(results),
	})
}

// GetProperty gets one property by id.
func GetProperty(c echo.Context) error {
	ctx := c.Request().Context()

	id := c.Param("id")
	if id == "" {
		return httperror.NewHTTPError(http.StatusBadRequest, "id is required")
	}

	ctx, svc, err := ectoinject.GetContext[*property.Service](ctx)
	if err != nil {
		return httperror.NewHTTPError(http.StatusInternalServerError, "service unavailable")
	}

	result, err := svc.GetProperty(ctx, id)
	if err != nil {
		return err
	}
	if result == nil {
		return httperror.NewHTTPError(http.StatusNotFound, "property not found")
	}

	return c.JSON(http.StatusOK, result)
}

func parseCriteria(c echo.Context) (models.SearchCriteria, error) {
	var criteria models.SearchCriteria

	if v := c.QueryParam("min_price"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return criteria, httperror.NewHTTPError(http.StatusBadRequest, "min_price must be a number")
		}
		criteria.MinPrice = &f
	}
	if v := c.QueryParam("max_price"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return criteria, httperror.NewHTTPError(http.StatusBadRequest, "max_price must be a number")
		}
		criteria.MaxPrice = &f
	}
	if v := c.QueryParam("min_bedrooms"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return criteria, httperror.NewHTTPError(http.StatusBadRequest, "min_bedrooms must be an integer")
		}
		criteria.MinBedrooms = &n
	}
	if v := c.QueryParam("max_bedrooms"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return criteria, httperror.NewHTTPError(http.StatusBadRequest, "max_bedrooms must be an integer")
		}
		criteria.MaxBedrooms = &n
	}
	if v := c.QueryParam("status"); v != "" {
		criteria.Status = &v
	}
	if v := c.QueryParam("district_id"); v != "" {
		criteria.DistrictID = &v
	}

	return criteria, nil
}

func intParam(c echo.Context, name string, fallback int) int {
	v := c.QueryParam(name)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return fallback
	}
	return n
}
