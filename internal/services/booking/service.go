package booking

import (
	"context"
	"time"

	"github.com/Gobusters/ectologger"

	"github.com/waqas1412/ReAgentWABot-sub001/pkg/database"
	apperrors "github.com/waqas1412/ReAgentWABot-sub001/pkg/errors"
	"github.com/waqas1412/ReAgentWABot-sub001/pkg/metrics"
	"github.com/waqas1412/ReAgentWABot-sub001/pkg/models"
	"github.com/waqas1412/ReAgentWABot-sub001/pkg/tracing"
)

// Window defaults for the date-partitioned appointment views, in days.
const (
	DefaultUpcomingWindowDays = 7
	DefaultPastWindowDays     = 30
)

type UserRepository interface {
	GetByPhone(ctx context.Context, phone string) (*models.User, error)
}

type TimeSlotRepository interface {
	GetByID(ctx context.Context, id string) (*models.ViewingTimeSlot, error)
	ListAvailable(ctx context.Context, date time.Time) ([]models.ViewingTimeSlot, error)
}

type AppointmentRepository interface {
	GetByID(ctx context.Context, id string) (*models.ViewingAppointment, error)
	GetWithSlot(ctx context.Context, id string) (*models.AppointmentWithSlot, error)
	ExistsForSlot(ctx context.Context, timeSlotID string, date time.Time) (bool, error)
	ExistsForUser(ctx context.Context, userID, timeSlotID string, date time.Time) (bool, error)
	Create(ctx context.Context, userID, timeSlotID string, date time.Time) (*models.ViewingAppointment, error)
	Update(ctx context.Context, id string, fields database.Fields) (*models.ViewingAppointment, error)
	Delete(ctx context.Context, id string) (bool, error)
	ListForUser(ctx context.Context, userID string) ([]models.AppointmentWithSlot, error)
	ListForUserBetween(ctx context.Context, userID string, from, to time.Time) ([]models.AppointmentWithSlot, error)
}

// Service implements viewing appointment use cases: availability, booking,
// cancellation, rescheduling and the date-partitioned views.
type Service struct {
	users        UserRepository
	slots        TimeSlotRepository
	appointments AppointmentRepository
	logger       ectologger.Logger

	upcomingDays int
	pastDays     int

	// now is swapped in tests
	now func() time.Time
}

func NewService(users UserRepository, slots TimeSlotRepository, appointments AppointmentRepository, logger ectologger.Logger, upcomingDays, pastDays int) *Service {
	if upcomingDays <= 0 {
		upcomingDays = DefaultUpcomingWindowDays
	}
	if pastDays <= 0 {
		pastDays = DefaultPastWindowDays
	}
	return &Service{
		users:        users,
		slots:        slots,
		appointments: appointments,
		logger:       logger,
		upcomingDays: upcomingDays,
		pastDays:     pastDays,
		now:          time.Now,
	}
}

// today truncates the clock to a calendar date. All window comparisons are
// calendar-date only.
func (s *Service) today() time.Time {
	year, month, day := s.now().Date()
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func (s *Service) resolveUser(ctx context.Context, phone string) (*models.User, error) {
	user, err := s.users.GetByPhone(ctx, phone)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperrors.NewNotFound("user", phone)
	}
	return user, nil
}

// GetAvailableTimeSlots returns every slot with no appointment on the date.
func (s *Service) GetAvailableTimeSlots(ctx context.Context, date time.Time) ([]models.ViewingTimeSlot, error) {
	ctx, span := tracing.StartSpan(ctx, "booking.GetAvailableTimeSlots")
	defer span.End()

	return s.slots.ListAvailable(ctx, date)
}

// Book creates an appointment for the resolved user. Availability is
// re-checked inside this operation, but the authoritative guard is the
// store's unique constraint on (time_slot_id, appointment_date): an insert
// rejected by it is reported as SlotUnavailable, not as an unexpected error.
func (s *Service) Book(ctx context.Context, phone, timeSlotID string, date time.Time) (*models.AppointmentWithSlot, error) {
	ctx, span := tracing.StartSpan(ctx, "booking.Book")
	defer span.End()

	user, err := s.resolveUser(ctx, phone)
	if err != nil {
		return nil, err
	}

	slot, err := s.slots.GetByID(ctx, timeSlotID)
	if err != nil {
		return nil, err
	}
	if slot == nil {
		return nil, apperrors.NewNotFound("time slot", timeSlotID)
	}

	dateStr := date.Format(models.AppointmentDateLayout)

	mine, err := s.appointments.ExistsForUser(ctx, user.ID, timeSlotID, date)
	if err != nil {
		return nil, err
	}
	if mine {
		metrics.BookingsTotal.WithLabelValues("duplicate").Inc()
		return nil, apperrors.NewDuplicateBooking(timeSlotID, dateStr)
	}

	taken, err := s.appointments.ExistsForSlot(ctx, timeSlotID, date)
	if err != nil {
		return nil, err
	}
	if taken {
		metrics.BookingsTotal.WithLabelValues("slot_unavailable").Inc()
		return nil, apperrors.NewSlotUnavailable(timeSlotID, dateStr)
	}

	created, err := s.appointments.Create(ctx, user.ID, timeSlotID, date)
	if err != nil {
		if apperrors.IsConstraintViolation(err) {
			// Another booking won the race between check and insert.
			metrics.BookingsTotal.WithLabelValues("slot_unavailable").Inc()
			return nil, apperrors.NewSlotUnavailable(timeSlotID, dateStr)
		}
		metrics.BookingsTotal.WithLabelValues("error").Inc()
		return nil, err
	}

	metrics.BookingsTotal.WithLabelValues("booked").Inc()
	s.logger.WithContext(ctx).WithFields(map[string]any{
		"appointment_id": created.ID,
		"time_slot_id":   timeSlotID,
		"date":           dateStr,
	}).Info("booked viewing appointment")

	return s.appointments.GetWithSlot(ctx, created.ID)
}

// Cancel deletes the appointment after verifying it belongs to the resolved
// user.
func (s *Service) Cancel(ctx context.Context, phone, appointmentID string) error {
	ctx, span := tracing.StartSpan(ctx, "booking.Cancel")
	defer span.End()

	user, err := s.resolveUser(ctx, phone)
	if err != nil {
		return err
	}

	appt, err := s.appointments.GetByID(ctx, appointmentID)
	if err != nil {
		return err
	}
	if appt == nil {
		return apperrors.NewNotFound("appointment", appointmentID)
	}
	if appt.UserID != user.ID {
		return apperrors.NewUnauthorized("appointment belongs to another user")
	}

	deleted, err := s.appointments.Delete(ctx, appointmentID)
	if err != nil {
		return err
	}
	if !deleted {
		return apperrors.NewNotFound("appointment", appointmentID)
	}

	s.logger.WithContext(ctx).WithField("appointment_id", appointmentID).Info("cancelled viewing appointment")
	return nil
}

// Reschedule moves the appointment to a new slot and date in place, so
// appointment identity is preserved.
func (s *Service) Reschedule(ctx context.Context, appointmentID, newTimeSlotID string, newDate time.Time, userID string) (*models.ViewingAppointment, error) {
	ctx, span := tracing.StartSpan(ctx, "booking.Reschedule")
	defer span.End()

	appt, err := s.appointments.GetByID(ctx, appointmentID)
	if err != nil {
		return nil, err
	}
	if appt == nil {
		return nil, apperrors.NewNotFound("appointment", appointmentID)
	}
	if appt.UserID != userID {
		return nil, apperrors.NewUnauthorized("appointment belongs to another user")
	}

	newDateStr := newDate.Format(models.AppointmentDateLayout)
	if appt.TimeSlotID == newTimeSlotID && appt.DateString() == newDateStr {
		return appt, nil
	}

	slot, err := s.slots.GetByID(ctx, newTimeSlotID)
	if err != nil {
		return nil, err
	}
	if slot == nil {
		return nil, apperrors.NewNotFound("time slot", newTimeSlotID)
	}

	taken, err := s.appointments.ExistsForSlot(ctx, newTimeSlotID, newDate)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, apperrors.NewSlotUnavailable(newTimeSlotID, newDateStr)
	}

	updated, err := s.appointments.Update(ctx, appointmentID, database.Fields{
		"time_slot_id":     newTimeSlotID,
		"appointment_date": newDateStr,
	})
	if err != nil {
		if apperrors.IsConstraintViolation(err) {
			return nil, apperrors.NewSlotUnavailable(newTimeSlotID, newDateStr)
		}
		return nil, err
	}
	if updated == nil {
		return nil, apperrors.NewNotFound("appointment", appointmentID)
	}

	s.logger.WithContext(ctx).WithFields(map[string]any{
		"appointment_id": appointmentID,
		"time_slot_id":   newTimeSlotID,
		"date":           newDateStr,
	}).Info("rescheduled viewing appointment")

	return updated, nil
}

// GetUserAppointments returns all of the user's appointments.
func (s *Service) GetUserAppointments(ctx context.Context, phone string) ([]models.AppointmentWithSlot, error) {
	ctx, span := tracing.StartSpan(ctx, "booking.GetUserAppointments")
	defer span.End()

	user, err := s.resolveUser(ctx, phone)
	if err != nil {
		return nil, err
	}

	return s.appointments.ListForUser(ctx, user.ID)
}

// GetUpcomingAppointments returns appointments in [today, today+N] inclusive.
func (s *Service) GetUpcomingAppointments(ctx context.Context, phone string) ([]models.AppointmentWithSlot, error) {
	ctx, span := tracing.StartSpan(ctx, "booking.GetUpcomingAppointments")
	defer span.End()

	user, err := s.resolveUser(ctx, phone)
	if err != nil {
		return nil, err
	}

	from := s.today()
	to := from.AddDate(0, 0, s.upcomingDays)
	return s.appointments.ListForUserBetween(ctx, user.ID, from, to)
}

// GetPastAppointments returns appointments in [today-N, today), so today is
// excluded.
func (s *Service) GetPastAppointments(ctx context.Context, phone string) ([]models.AppointmentWithSlot, error) {
	ctx, span := tracing.StartSpan(ctx, "booking.GetPastAppointments")
	defer span.End()

	user, err := s.resolveUser(ctx, phone)
	if err != nil {
		return nil, err
	}

	to := s.today().AddDate(0, 0, -1)
	from := s.today().AddDate(0, 0, -s.pastDays)
	return s.appointments.ListForUserBetween(ctx, user.ID, from, to)
}
