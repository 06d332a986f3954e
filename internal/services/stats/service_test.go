package stats

import (
	"context"
	"testing"
	"time"

	"github.com/Gobusters/ectologger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/waqas1412/ReAgentWABot-sub001/pkg/database"
	"github.com/waqas1412/ReAgentWABot-sub001/pkg/models"
)

func getTestLogger() ectologger.Logger {
	return ectologger.NewEctoLogger(func(_ ectologger.EctoLogMessage) {})
}

type fakeCounter struct {
	count     int
	lastLevel database.AccessLevel
}

func (f *fakeCounter) Count(ctx context.Context, level database.AccessLevel) (int, error) {
	f.lastLevel = level
	return f.count, nil
}

type fakeAppointmentCounter struct {
	appointments []time.Time
	lastLevel    database.AccessLevel
}

func (f *fakeAppointmentCounter) CountAll(ctx context.Context, level database.AccessLevel) (int, error) {
	f.lastLevel = level
	return len(f.appointments), nil
}

func (f *fakeAppointmentCounter) CountOnDate(ctx context.Context, level database.AccessLevel, date time.Time) (int, error) {
	f.lastLevel = level
	count := 0
	for _, d := range f.appointments {
		if d.Equal(date) {
			count++
		}
	}
	return count, nil
}

func (f *fakeAppointmentCounter) CountBetween(ctx context.Context, level database.AccessLevel, from, to time.Time) (int, error) {
	f.lastLevel = level
	count := 0
	for _, d := range f.appointments {
		if !d.Before(from) && !d.After(to) {
			count++
		}
	}
	return count, nil
}

func date(day int) time.Time {
	return time.Date(2025, 6, day, 0, 0, 0, 0, time.UTC)
}

func newTestService(appointments ...time.Time) (*Service, *fakeCounter, *fakeCounter, *fakeAppointmentCounter) {
	users := &fakeCounter{count: 12}
	properties := &fakeCounter{count: 34}
	appts := &fakeAppointmentCounter{appointments: appointments}
	svc := NewService(users, properties, appts, getTestLogger(), 7, 30)
	svc.now = func() time.Time { return time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC) }
	return svc, users, properties, appts
}

func TestGetAppointmentStats(t *testing.T) {
	ctx := context.Background()

	t.Run("should partition counts around today", func(t *testing.T) {
		// one past, one today, one upcoming, one outside every window
		svc, _, _, _ := newTestService(date(10), date(15), date(16), date(30))

		stats, err := svc.GetAppointmentStats(ctx)
		require.NoError(t, err)
		assert.Equal(t, 4, stats.Total)
		assert.Equal(t, 2, stats.Upcoming) // today and tomorrow
		assert.Equal(t, 1, stats.Past)
		assert.Equal(t, 1, stats.Today)
	})

	t.Run("should count with elevated access", func(t *testing.T) {
		svc, _, _, appts := newTestService(date(15))

		_, err := svc.GetAppointmentStats(ctx)
		require.NoError(t, err)
		assert.Equal(t, database.AccessElevated, appts.lastLevel)
	})
}

func TestGetSystemStats(t *testing.T) {
	ctx := context.Background()

	t.Run("should aggregate all counters", func(t *testing.T) {
		svc, users, properties, _ := newTestService(date(16))

		stats, err := svc.GetSystemStats(ctx)
		require.NoError(t, err)
		assert.Equal(t, models.SystemStats{
			Users:      12,
			Properties: 34,
			Appointments: models.AppointmentStats{
				Total:    1,
				Upcoming: 1,
			},
		}, *stats)
		assert.Equal(t, database.AccessElevated, users.lastLevel)
		assert.Equal(t, database.AccessElevated, properties.lastLevel)
	})
}
