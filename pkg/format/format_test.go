package format

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/waqas1412/ReAgentWABot-sub001/pkg/models"
)

func strPtr(s string) *string { return &s }

func fullProperty() models.PropertyDetail {
	p := models.PropertyDetail{}
	p.Address = "12 Marina Walk"
	p.Price = 1500000
	p.Bedrooms = 3
	p.Bathrooms = 2
	p.AreaSqm = 150
	p.Description = strPtr("Bright corner unit with full marina view.")
	p.Features = strPtr("balcony, parking, gym")
	p.ListingURL = strPtr("https://example.com/listings/12")
	p.DistrictName = strPtr("Dubai Marina")
	p.ApartmentTypeName = strPtr("apartment")
	return p
}

func TestProperty(t *testing.T) {
	t.Run("should render every populated field on its own line", func(t *testing.T) {
		out := Property(fullProperty())
		lines := strings.Split(out, "\n")

		assert.Contains(t, lines[0], "12 Marina Walk")
		assert.Contains(t, out, "$1,500,000")
		assert.Contains(t, out, "$10,000/sqm")
		assert.Contains(t, out, "3 bed")
		assert.Contains(t, out, "2 bath")
		assert.Contains(t, out, "Dubai Marina")
		assert.Contains(t, out, "apartment")
		assert.Contains(t, out, "balcony, parking, gym")
		assert.Contains(t, out, "Bright corner unit")
		assert.Contains(t, out, "https://example.com/listings/12")
		assert.False(t, strings.HasSuffix(out, "\n"))
	})

	t.Run("should omit price per area when area is zero", func(t *testing.T) {
		p := fullProperty()
		p.AreaSqm = 0

		out := Property(p)
		assert.NotContains(t, out, "/sqm")
	})

	t.Run("should omit optional lines when fields are empty", func(t *testing.T) {
		p := models.PropertyDetail{}
		p.Address = "3 Palm Court"
		p.Price = 900
		p.Bedrooms = 1
		p.Bathrooms = 1

		out := Property(p)
		assert.Contains(t, out, "3 Palm Court")
		assert.NotContains(t, out, "🔗")
		assert.NotContains(t, out, "✨")
		assert.Equal(t, 3, len(strings.Split(out, "\n")))
	})

	t.Run("should render cents only when present", func(t *testing.T) {
		p := fullProperty()
		p.Price = 1234.56
		p.AreaSqm = 0

		out := Property(p)
		assert.Contains(t, out, "$1,234.56")
	})
}

func TestPropertyList(t *testing.T) {
	a := fullProperty()
	b := fullProperty()
	b.Address = "3 Palm Court"

	out := PropertyList([]models.PropertyDetail{a, b})
	assert.Contains(t, out, "12 Marina Walk")
	assert.Contains(t, out, "3 Palm Court")
	assert.Contains(t, out, "\n\n")

	assert.Equal(t, "", PropertyList(nil))
}

func TestAppointment(t *testing.T) {
	appt := models.AppointmentWithSlot{
		ViewingAppointment: models.ViewingAppointment{
			AppointmentDate: time.Date(2025, 6, 16, 0, 0, 0, 0, time.UTC),
		},
		StartTime: "09:00",
		EndTime:   "10:00",
	}

	out := Appointment(appt)
	assert.Equal(t, "Monday, 16 Jun 2025 at 09:00 - 10:00", out)

	t.Run("should round-trip through the exported layouts", func(t *testing.T) {
		datePart := strings.SplitN(out, " at ", 2)[0]
		parsed, err := time.Parse(AppointmentDateLayout, datePart)
		require.NoError(t, err)
		assert.Equal(t, appt.AppointmentDate.Year(), parsed.Year())
		assert.Equal(t, appt.AppointmentDate.Month(), parsed.Month())
		assert.Equal(t, appt.AppointmentDate.Day(), parsed.Day())

		timePart := strings.SplitN(out, " at ", 2)[1]
		bounds := strings.Split(timePart, " - ")
		require.Len(t, bounds, 2)
		start, err := time.Parse(TimeSlotLayout, bounds[0])
		require.NoError(t, err)
		assert.Equal(t, 9, start.Hour())
	})
}

func TestTimeSlot(t *testing.T) {
	slot := models.ViewingTimeSlot{StartTime: "14:00", EndTime: "15:00"}
	assert.Equal(t, "14:00 - 15:00", TimeSlot(slot))
}
