package appointment

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Gobusters/ectologger"

	"github.com/waqas1412/ReAgentWABot-sub001/pkg/database"
	"github.com/waqas1412/ReAgentWABot-sub001/pkg/models"
	"github.com/waqas1412/ReAgentWABot-sub001/pkg/tracing"
)

// AppointmentRepository defines the data access operations for viewing
// appointments.
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
	CountAll(ctx context.Context, level database.AccessLevel) (int, error)
	CountOnDate(ctx context.Context, level database.AccessLevel, date time.Time) (int, error)
	CountBetween(ctx context.Context, level database.AccessLevel, from, to time.Time) (int, error)
}

const tableName = "viewing_appointments"

var columns = []string{"id", "user_id", "time_slot_id", "appointment_date", "created_at"}

// Repository implements AppointmentRepository.
type Repository struct {
	collection *database.Collection[models.ViewingAppointment]
	handles    *database.Handles
	logger     ectologger.Logger
	timeout    time.Duration
}

func NewRepository(handles *database.Handles, logger ectologger.Logger, timeout time.Duration) *Repository {
	return &Repository{
		collection: database.NewCollection[models.ViewingAppointment](handles, logger, timeout, tableName, columns...),
		handles:    handles,
		logger:     logger,
		timeout:    timeout,
	}
}

func (r *Repository) GetByID(ctx context.Context, id string) (*models.ViewingAppointment, error) {
	ctx, span := tracing.StartSpan(ctx, "AppointmentRepository.GetByID")
	defer span.End()

	return r.collection.FindByID(ctx, id)
}

func (r *Repository) GetWithSlot(ctx context.Context, id string) (*models.AppointmentWithSlot, error) {
	ctx, span := tracing.StartSpan(ctx, "AppointmentRepository.GetWithSlot")
	defer span.End()

	sb := r.withSlotQuery()
	sb.Where(sb.Equal("a.id", id))

	query, args := sb.Build()

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	var row models.AppointmentWithSlot
	err := r.handles.ForLevel(database.AccessRestricted).GetContext(ctx, &row, query, args...)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		r.logger.WithContext(ctx).WithError(err).Error("failed to get appointment with slot")
		return nil, fmt.Errorf("failed to get appointment: %w", err)
	}

	return &row, nil
}

func (r *Repository) ExistsForSlot(ctx context.Context, timeSlotID string, date time.Time) (bool, error) {
	ctx, span := tracing.StartSpan(ctx, "AppointmentRepository.ExistsForSlot")
	defer span.End()

	return r.collection.Exists(ctx, database.Filter{
		"time_slot_id":     timeSlotID,
		"appointment_date": date.Format(models.AppointmentDateLayout),
	})
}

func (r *Repository) ExistsForUser(ctx context.Context, userID, timeSlotID string, date time.Time) (bool, error) {
	ctx, span := tracing.StartSpan(ctx, "AppointmentRepository.ExistsForUser")
	defer span.End()

	return r.collection.Exists(ctx, database.Filter{
		"user_id":          userID,
		"time_slot_id":     timeSlotID,
		"appointment_date": date.Format(models.AppointmentDateLayout),
	})
}

func (r *Repository) Create(ctx context.Context, userID, timeSlotID string, date time.Time) (*models.ViewingAppointment, error) {
	ctx, span := tracing.StartSpan(ctx, "AppointmentRepository.Create")
	defer span.End()

	return r.collection.Create(ctx, database.Fields{
		"user_id":          userID,
		"time_slot_id":     timeSlotID,
		"appointment_date": date.Format(models.AppointmentDateLayout),
	})
}

func (r *Repository) Update(ctx context.Context, id string, fields database.Fields) (*models.ViewingAppointment, error) {
	ctx, span := tracing.StartSpan(ctx, "AppointmentRepository.Update")
	defer span.End()

	return r.collection.UpdateByID(ctx, id, fields)
}

func (r *Repository) Delete(ctx context.Context, id string) (bool, error) {
	ctx, span := tracing.StartSpan(ctx, "AppointmentRepository.Delete")
	defer span.End()

	return r.collection.DeleteByID(ctx, id)
}

func (r *Repository) withSlotQuery() *database.SelectBuilder {
	sb := database.NewSelectBuilder()
	sb.Select(
		"a.id", "a.user_id", "a.time_slot_id", "a.appointment_date", "a.created_at",
		"ts.start_time", "ts.end_time",
	)
	sb.From("viewing_appointments a")
	sb.Join("viewing_time_slots ts", "a.time_slot_id = ts.id")
	return sb
}

func (r *Repository) listWithSlot(ctx context.Context, sb *database.SelectBuilder) ([]models.AppointmentWithSlot, error) {
	sb.OrderBy("a.appointment_date ASC", "ts.start_time ASC")

	query, args := sb.Build()

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	rows := []models.AppointmentWithSlot{}
	err := r.handles.ForLevel(database.AccessRestricted).SelectContext(ctx, &rows, query, args...)
	if err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("failed to list appointments")
		return nil, fmt.Errorf("failed to list appointments: %w", err)
	}

	return rows, nil
}

func (r *Repository) ListForUser(ctx context.Context, userID string) ([]models.AppointmentWithSlot, error) {
	ctx, span := tracing.StartSpan(ctx, "AppointmentRepository.ListForUser")
	defer span.End()

	sb := r.withSlotQuery()
	sb.Where(sb.Equal("a.user_id", userID))
	return r.listWithSlot(ctx, sb)
}

// ListForUserBetween returns the user's appointments with appointment_date
// in [from, to]. Calendar-date comparison, both bounds inclusive.
func (r *Repository) ListForUserBetween(ctx context.Context, userID string, from, to time.Time) ([]models.AppointmentWithSlot, error) {
	ctx, span := tracing.StartSpan(ctx, "AppointmentRepository.ListForUserBetween")
	defer span.End()

	sb := r.withSlotQuery()
	sb.Where(
		sb.Equal("a.user_id", userID),
		sb.GreaterEqualThan("a.appointment_date", from.Format(models.AppointmentDateLayout)),
		sb.LessEqualThan("a.appointment_date", to.Format(models.AppointmentDateLayout)),
	)
	return r.listWithSlot(ctx, sb)
}

func (r *Repository) CountAll(ctx context.Context, level database.AccessLevel) (int, error) {
	ctx, span := tracing.StartSpan(ctx, "AppointmentRepository.CountAll")
	defer span.End()

	return r.collection.Access(level).Count(ctx, database.Filter{})
}

func (r *Repository) CountOnDate(ctx context.Context, level database.AccessLevel, date time.Time) (int, error) {
	ctx, span := tracing.StartSpan(ctx, "AppointmentRepository.CountOnDate")
	defer span.End()

	return r.collection.Access(level).Count(ctx, database.Filter{
		"appointment_date": date.Format(models.AppointmentDateLayout),
	})
}

// CountBetween counts appointments with appointment_date in [from, to].
func (r *Repository) CountBetween(ctx context.Context, level database.AccessLevel, from, to time.Time) (int, error) {
	ctx, span := tracing.StartSpan(ctx, "AppointmentRepository.CountBetween")
	defer span.End()

	sb := database.NewSelectBuilder()
	sb.Select("COUNT(*)")
	sb.From(tableName)
	sb.Where(
		sb.GreaterEqualThan("appointment_date", from.Format(models.AppointmentDateLayout)),
		sb.LessEqualThan("appointment_date", to.Format(models.AppointmentDateLayout)),
	)

	query, args := sb.Build()

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	var count int
	err := r.handles.ForLevel(level).GetContext(ctx, &count, query, args...)
	if err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("failed to count appointments")
		return 0, fmt.Errorf("failed to count appointments: %w", err)
	}

	return count, nil
}
