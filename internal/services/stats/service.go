package stats

import (
	"context"
	"time"

	"github.com/Gobusters/ectologger"

	"github.com/waqas1412/ReAgentWABot-sub001/pkg/database"
	"github.com/waqas1412/ReAgentWABot-sub001/pkg/models"
	"github.com/waqas1412/ReAgentWABot-sub001/pkg/tracing"
)

type UserCounter interface {
	Count(ctx context.Context, level database.AccessLevel) (int, error)
}

type PropertyCounter interface {
	Count(ctx context.Context, level database.AccessLevel) (int, error)
}

type AppointmentCounter interface {
	CountAll(ctx context.Context, level database.AccessLevel) (int, error)
	CountOnDate(ctx context.Context, level database.AccessLevel, date time.Time) (int, error)
	CountBetween(ctx context.Context, level database.AccessLevel, from, to time.Time) (int, error)
}

// Service computes the administrative counters. All lookups run elevated
// since they span every user.
type Service struct {
	users        UserCounter
	properties   PropertyCounter
	appointments AppointmentCounter
	logger       ectologger.Logger

	upcomingDays int
	pastDays     int

	now func() time.Time
}

func NewService(users UserCounter, properties PropertyCounter, appointments AppointmentCounter, logger ectologger.Logger, upcomingDays, pastDays int) *Service {
	if upcomingDays <= 0 {
		upcomingDays = 7
	}
	if pastDays <= 0 {
		pastDays = 30
	}
	return &Service{
		users:        users,
		properties:   properties,
		appointments: appointments,
		logger:       logger,
		upcomingDays: upcomingDays,
		pastDays:     pastDays,
		now:          time.Now,
	}
}

func (s *Service) today() time.Time {
	year, month, day := s.now().Date()
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// GetAppointmentStats partitions appointment counts against today's date.
func (s *Service) GetAppointmentStats(ctx context.Context) (*models.AppointmentStats, error) {
	ctx, span := tracing.StartSpan(ctx, "stats.GetAppointmentStats")
	defer span.End()

	today := s.today()

	total, err := s.appointments.CountAll(ctx, database.AccessElevated)
	if err != nil {
		return nil, err
	}

	upcoming, err := s.appointments.CountBetween(ctx, database.AccessElevated, today, today.AddDate(0, 0, s.upcomingDays))
	if err != nil {
		return nil, err
	}

	past, err := s.appointments.CountBetween(ctx, database.AccessElevated, today.AddDate(0, 0, -s.pastDays), today.AddDate(0, 0, -1))
	if err != nil {
		return nil, err
	}

	todayCount, err := s.appointments.CountOnDate(ctx, database.AccessElevated, today)
	if err != nil {
		return nil, err
	}

	return &models.AppointmentStats{
		Total:    total,
		Upcoming: upcoming,
		Past:     past,
		Today:    todayCount,
	}, nil
}

// GetSystemStats returns the full administrative counter set.
func (s *Service) GetSystemStats(ctx context.Context) (*models.SystemStats, error) {
	ctx, span := tracing.StartSpan(ctx, "stats.GetSystemStats")
	defer span.End()

	users, err := s.users.Count(ctx, database.AccessElevated)
	if err != nil {
		return nil, err
	}

	properties, err := s.properties.Count(ctx, database.AccessElevated)
	if err != nil {
		return nil, err
	}

	appointments, err := s.GetAppointmentStats(ctx)
	if err != nil {
		return nil, err
	}

	return &models.SystemStats{
		Users:        users,
		Properties:   properties,
		Appointments: *appointments,
	}, nil
}
