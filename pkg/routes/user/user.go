package user

import (
	"net/http"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Gobusters/ectoinject"
	"github.com/labstack/echo/v4"

	"github.com/waqas1412/ReAgentWABot-sub001/internal/services/user"
	"github.com/waqas1412/ReAgentWABot-sub001/pkg/models"
)

// Register registers user routes
func Register(g *echo.Group) {
	g.PATCH("/users/:phone", UpdateProfile)
	g.GET("/users/:phone/preferences", GetPreferences)
	g.PUT("/users/:phone/preferences", SetPreferences)
}

// UpdateProfile updates a user's profile fields.
func UpdateProfile(c echo.Context) error {
	ctx := c.Request().Context()

	phone := c.Param("phone")

	var req models.UpdateUserRequest
	if err := c.Bind(&req); err != nil {
		return httperror.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	ctx, svc, err := ectoinject.GetContext[*user.Service](ctx)
	if err != nil {
		return httperror.NewHTTPError(http.StatusInternalServerError, "service unavailable")
	}

	updated, err := svc.UpdateProfile(ctx, phone, req)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, updated)
}

// GetPreferences gets a user's saved preferences.
func GetPreferences(c echo.Context) error {
	ctx := c.Request().Context()

	phone := c.Param("phone")

	ctx, svc, err := ectoinject.GetContext[*user.Service](ctx)
	if err != nil {
		return httperror.NewHTTPError(http.StatusInternalServerError, "service unavailable")
	}

	prefs, err := svc.GetPreferences(ctx, phone)
	if err != nil {
		return err
	}
	if prefs == nil {
		return httperror.NewHTTPError(http.StatusNotFound, "no preferences saved")
	}

	return c.JSON(http.StatusOK, prefs)
}

// SetPreferences upserts a user's preferences.
func SetPreferences(c echo.Context) error {
	ctx := c.Request().Context()

	phone := c.Param("phone")

	var fields models.PreferenceFields
	if err := c.Bind(&fields); err != nil {
		return httperror.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	ctx, svc, err := ectoinject.GetContext[*user.Service](ctx)
	if err != nil {
		return httperror.NewHTTPError(http.StatusInternalServerError, "service unavailable")
	}

	prefs, err := svc.SetPreferences(ctx, phone, fields)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, prefs)
}
