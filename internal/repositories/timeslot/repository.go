package timeslot

import (
	"context"
	"fmt"
	"time"

	"github.com/Gobusters/ectologger"

	"github.com/waqas1412/ReAgentWABot-sub001/pkg/database"
	"github.com/waqas1412/ReAgentWABot-sub001/pkg/models"
	"github.com/waqas1412/ReAgentWABot-sub001/pkg/tracing"
)

// TimeSlotRepository defines the data access operations for viewing time
// slots. Slots are reference data: seeded once, then read-only.
type TimeSlotRepository interface {
	GetByID(ctx context.Context, id string) (*models.ViewingTimeSlot, error)
	List(ctx context.Context) ([]models.ViewingTimeSlot, error)
	ListAvailable(ctx context.Context, date time.Time) ([]models.ViewingTimeSlot, error)
	Ensure(ctx context.Context, startTime, endTime string) (*models.ViewingTimeSlot, error)
}

const tableName = "viewing_time_slots"

var columns = []string{"id", "start_time", "end_time", "created_at"}

// Repository implements TimeSlotRepository.
type Repository struct {
	collection *database.Collection[models.ViewingTimeSlot]
	handles    *database.Handles
	logger     ectologger.Logger
	timeout    time.Duration
}

func NewRepository(handles *database.Handles, logger ectologger.Logger, timeout time.Duration) *Repository {
	return &Repository{
		collection: database.NewCollection[models.ViewingTimeSlot](handles, logger, timeout, tableName, columns...),
		handles:    handles,
		logger:     logger,
		timeout:    timeout,
	}
}

func (r *Repository) GetByID(ctx context.Context, id string) (*models.ViewingTimeSlot, error) {
	ctx, span := tracing.StartSpan(ctx, "TimeSlotRepository.GetByID")
	defer span.End()

	return r.collection.FindByID(ctx, id)
}

func (r *Repository) List(ctx context.Context) ([]models.ViewingTimeSlot, error) {
	ctx, span := tracing.StartSpan(ctx, "TimeSlotRepository.List")
	defer span.End()

	return r.collection.FindAll(ctx, database.Filter{}, database.FindOptions{OrderBy: "start_time ASC"})
}

// ListAvailable returns the set difference between all time slots and the
// slots with a booked appointment on the given date.
func (r *Repository) ListAvailable(ctx context.Context, date time.Time) ([]models.ViewingTimeSlot, error) {
	ctx, span := tracing.StartSpan(ctx, "TimeSlotRepository.ListAvailable")
	defer span.End()

	sb := database.NewSelectBuilder()
	sb.Select("ts.id", "ts.start_time", "ts.end_time", "ts.created_at")
	sb.From("viewing_time_slots ts")
	sb.Where(fmt.Sprintf(
		"NOT EXISTS (SELECT 1 FROM viewing_appointments a WHERE a.time_slot_id = ts.id AND a.appointment_date = %s)",
		sb.Var(date.Format(models.AppointmentDateLayout)),
	))
	sb.OrderBy("ts.start_time ASC")

	query, args := sb.Build()

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	rows := []models.ViewingTimeSlot{}
	err := r.handles.ForLevel(database.AccessRestricted).SelectContext(ctx, &rows, query, args...)
	if err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("failed to list available time slots")
		return nil, fmt.Errorf("failed to list available time slots: %w", err)
	}

	return rows, nil
}

// Ensure creates the (start, end) slot if absent. Runs elevated; only the
// seeding path calls it.
func (r *Repository) Ensure(ctx context.Context, startTime, endTime string) (*models.ViewingTimeSlot, error) {
	ctx, span := tracing.StartSpan(ctx, "TimeSlotRepository.Ensure")
	defer span.End()

	elevated := r.collection.Access(database.AccessElevated)

	existing, err := elevated.FindOne(ctx, database.Filter{"start_time": startTime, "end_time": endTime})
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}

	return elevated.Create(ctx, database.Fields{
		"start_time": startTime,
		"end_time":   endTime,
	})
}
