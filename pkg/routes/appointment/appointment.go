package appointment

import (
	"net/http"
	"time"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Gobusters/ectoinject"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/waqas1412/ReAgentWABot-sub001/internal/services/booking"
	"github.com/waqas1412/ReAgentWABot-sub001/pkg/models"
)

var validate = validator.New()

// Register registers viewing appointment routes
func Register(g *echo.Group) {
	g.GET("/appointments", ListAppointments)
	g.GET("/appointments/slots", ListAvailableSlots)
	g.POST("/appointments", BookAppointment)
	g.PATCH("/appointments/:id", RescheduleAppointment)
	g.DELETE("/appointments/:id", CancelAppointment)
}

// BookAppointmentRequest is the request body for booking a viewing.
type BookAppointmentRequest struct {
	Phone      string `json:"phone" validate:"required"`
	TimeSlotID string `json:"time_slot_id" validate:"required,uuid"`
	Date       string `json:"date" validate:"required"`
}

// RescheduleAppointmentRequest is the request body for moving a viewing.
type RescheduleAppointmentRequest struct {
	UserID     string `json:"user_id" validate:"required,uuid"`
	TimeSlotID string `json:"time_slot_id" validate:"required,uuid"`
	Date       string `json:"date" validate:"required"`
}

// CancelAppointmentRequest identifies the requesting user for the ownership
// check.
type CancelAppointmentRequest struct {
	Phone string `json:"phone" validate:"required"`
}

// ListAppointments lists a user's viewings, optionally windowed.
func ListAppointments(c echo.Context) error {
	ctx := c.Request().Context()

	phone := c.QueryParam("phone")
	if phone == "" {
		return httperror.NewHTTPError(http.StatusBadRequest, "phone is required")
	}

	ctx, svc, err := ectoinject.GetContext[*booking.Service](ctx)
	if err != nil {
		return httperror.NewHTTPError(http.StatusInternalServerError, "service unavailable")
	}

	var appointments []models.AppointmentWithSlot
	switch c.QueryParam("window") {
	case "upcoming":
		appointments, err = svc.GetUpcomingAppointments(ctx, phone)
	case "past":
		appointments, err = svc.GetPastAppointments(ctx, phone)
	default:
		appointments, err = svc.GetUserAppointments(ctx, phone)
	}
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, appointments)
}

// ListAvailableSlots lists time slots still open on a date.
func ListAvailableSlots(c echo.Context) error {
	ctx := c.Request().Context()

	date, err := parseDate(c.QueryParam("date"))
	if err != nil {
		return err
	}

	ctx, svc, err := ectoinject.GetContext[*booking.Service](ctx)
	if err != nil {
		return httperror.NewHTTPError(http.StatusInternalServerError, "service unavailable")
	}

	slots, err := svc.GetAvailableTimeSlots(ctx, date)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, slots)
}

// BookAppointment books a viewing for a user.
func BookAppointment(c echo.Context) error {
	ctx := c.Request().Context()

	var req BookAppointmentRequest
	if err := c.Bind(&req); err != nil {
		return httperror.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := validate.Struct(req); err != nil {
		return httperror.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	date, err := parseDate(req.Date)
	if err != nil {
		return err
	}

	ctx, svc, err := ectoinject.GetContext[*booking.Service](ctx)
	if err != nil {
		return httperror.NewHTTPError(http.StatusInternalServerError, "service unavailable")
	}

	booked, err := svc.Book(ctx, req.Phone, req.TimeSlotID, date)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, booked)
}

// RescheduleAppointment moves a viewing to another slot or date.
func RescheduleAppointment(c echo.Context) error {
	ctx := c.Request().Context()

	id := c.Param("id")

	var req RescheduleAppointmentRequest
	if err := c.Bind(&req); err != nil {
		return httperror.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := validate.Struct(req); err != nil {
		return httperror.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	date, err := parseDate(req.Date)
	if err != nil {
		return err
	}

	ctx, svc, err := ectoinject.GetContext[*booking.Service](ctx)
	if err != nil {
		return httperror.NewHTTPError(http.StatusInternalServerError, "service unavailable")
	}

	moved, err := svc.Reschedule(ctx, id, req.TimeSlotID, date, req.UserID)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, moved)
}

// CancelAppointment cancels a viewing after an ownership check.
func CancelAppointment(c echo.Context) error {
	ctx := c.Request().Context()

	id := c.Param("id")

	var req CancelAppointmentRequest
	if err := c.Bind(&req); err != nil {
		return httperror.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := validate.Struct(req); err != nil {
		return httperror.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	ctx, svc, err := ectoinject.GetContext[*booking.Service](ctx)
	if err != nil {
		return httperror.NewHTTPError(http.StatusInternalServerError, "service unavailable")
	}

	if err := svc.Cancel(ctx, req.Phone, id); err != nil {
		return err
	}

	return c.NoContent(http.StatusNoContent)
}

func parseDate(raw string) (time.Time, error) {
	if raw == "" {
		return time.Time{}, httperror.NewHTTPError(http.StatusBadRequest, "date is required")
	}
	date, err := time.Parse(models.AppointmentDateLayout, raw)
	if err != nil {
		return time.Time{}, httperror.NewHTTPError(http.StatusBadRequest, "date must be YYYY-MM-DD")
	}
	return date, nil
}
