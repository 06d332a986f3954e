package seed

import (
	"context"
	"testing"

	"github.com/Gobusters/ectologger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/waqas1412/ReAgentWABot-sub001/pkg/models"
)

func getTestLogger() ectologger.Logger {
	return ectologger.NewEctoLogger(func(_ ectologger.EctoLogMessage) {})
}

type fakeRefData struct {
	roles     map[string]int
	types     map[string]int
	countries map[string]int
	cities    map[string]int
	districts map[string]int
}

func newFakeRefData() *fakeRefData {
	return &fakeRefData{
		roles:     map[string]int{},
		types:     map[string]int{},
		countries: map[string]int{},
		cities:    map[string]int{},
		districts: map[string]int{},
	}
}

func (f *fakeRefData) EnsureRole(ctx context.Context, name string) (*models.UserRole, error) {
	f.roles[name]++
	return &models.UserRole{ID: "role-" + name, Name: name}, nil
}

func (f *fakeRefData) EnsureApartmentType(ctx context.Context, name string) (*models.ApartmentType, error) {
	f.types[name]++
	return &models.ApartmentType{ID: "type-" + name, Name: name}, nil
}

func (f *fakeRefData) EnsureCountry(ctx context.Context, name string) (*models.Country, error) {
	f.countries[name]++
	return &models.Country{ID: "country-" + name, Name: name}, nil
}

func (f *fakeRefData) EnsureCity(ctx context.Context, name, countryID string) (*models.City, error) {
	f.cities[countryID+"/"+name]++
	return &models.City{ID: "city-" + name, Name: name, CountryID: countryID}, nil
}

func (f *fakeRefData) EnsureDistrict(ctx context.Context, name, cityID string) (*models.District, error) {
	f.districts[cityID+"/"+name]++
	return &models.District{ID: "district-" + name, Name: name, CityID: cityID}, nil
}

type fakeSlots struct {
	ensured map[string]int
}

func (f *fakeSlots) Ensure(ctx context.Context, startTime, endTime string) (*models.ViewingTimeSlot, error) {
	f.ensured[startTime+"-"+endTime]++
	return &models.ViewingTimeSlot{ID: "slot-" + startTime, StartTime: startTime, EndTime: endTime}, nil
}

func TestSeed(t *testing.T) {
	ctx := context.Background()

	t.Run("should ensure every reference row", func(t *testing.T) {
		refdata := newFakeRefData()
		slots := &fakeSlots{ensured: map[string]int{}}
		svc := NewService(refdata, slots, getTestLogger())

		require.NoError(t, svc.Seed(ctx))

		assert.Len(t, refdata.roles, 3)
		assert.Contains(t, refdata.roles, models.RoleRenter)
		assert.Len(t, refdata.types, 6)
		assert.Len(t, slots.ensured, 7)
		assert.Contains(t, slots.ensured, "09:00-10:00")
		assert.Len(t, refdata.countries, 1)
		assert.Len(t, refdata.cities, 1)
		assert.Len(t, refdata.districts, 5)
	})

	t.Run("should be idempotent across restarts", func(t *testing.T) {
		refdata := newFakeRefData()
		slots := &fakeSlots{ensured: map[string]int{}}
		svc := NewService(refdata, slots, getTestLogger())

		require.NoError(t, svc.Start(ctx))
		require.NoError(t, svc.Start(ctx))

		// Ensure is called again but stays create-if-absent per row
		assert.Equal(t, 2, refdata.roles[models.RoleRenter])
		assert.Len(t, refdata.roles, 3)
	})

	t.Run("should declare its startup ordering", func(t *testing.T) {
		svc := NewService(newFakeRefData(), &fakeSlots{ensured: map[string]int{}}, getTestLogger())
		assert.Equal(t, "seed-data", svc.GetName())
		assert.Equal(t, []string{"database"}, svc.DependsOn())
	})
}
