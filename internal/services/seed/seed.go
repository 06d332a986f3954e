// Package seed populates the reference tables at process start. Every row is
// created only when absent, so repeated startups are harmless. All writes
// run under the elevated access level; this is the only code path that uses
// it for writes.
package seed

import (
	"context"

	"github.com/Gobusters/ectologger"

	"github.com/waqas1412/ReAgentWABot-sub001/pkg/models"
	"github.com/waqas1412/ReAgentWABot-sub001/pkg/tracing"
)

type RefDataRepository interface {
	EnsureRole(ctx context.Context, name string) (*models.UserRole, error)
	EnsureApartmentType(ctx context.Context, name string) (*models.ApartmentType, error)
	EnsureCountry(ctx context.Context, name string) (*models.Country, error)
	EnsureCity(ctx context.Context, name, countryID string) (*models.City, error)
	EnsureDistrict(ctx context.Context, name, cityID string) (*models.District, error)
}

type TimeSlotRepository interface {
	Ensure(ctx context.Context, startTime, endTime string) (*models.ViewingTimeSlot, error)
}

var roles = []string{models.RoleRenter, models.RoleAgent, models.RoleOwner}

var apartmentTypes = []string{"studio", "apartment", "duplex", "penthouse", "villa", "townhouse"}

var timeSlots = [][2]string{
	{"09:00", "10:00"},
	{"10:00", "11:00"},
	{"11:00", "12:00"},
	{"14:00", "15:00"},
	{"15:00", "16:00"},
	{"16:00", "17:00"},
	{"17:00", "18:00"},
}

var locations = map[string]map[string][]string{
	"United Arab Emirates": {
		"Dubai": {"Dubai Marina", "Downtown Dubai", "Business Bay", "Jumeirah Beach Residence", "Palm Jumeirah"},
	},
}

// Service seeds the reference tables. It is registered as a startup
// dependency after the database.
type Service struct {
	refdata RefDataRepository
	slots   TimeSlotRepository
	logger  ectologger.Logger
}

func NewService(refdata RefDataRepository, slots TimeSlotRepository, logger ectologger.Logger) *Service {
	return &Service{
		refdata: refdata,
		slots:   slots,
		logger:  logger,
	}
}

func (s *Service) GetName() string {
	return "seed-data"
}

func (s *Service) DependsOn() []string {
	return []string{"database"}
}

func (s *Service) Start(ctx context.Context) error {
	return s.Seed(ctx)
}

func (s *Service) Stop(ctx context.Context) error {
	return nil
}

// Seed ensures every reference row exists.
func (s *Service) Seed(ctx context.Context) error {
	ctx, span := tracing.StartSpan(ctx, "seed.Seed")
	defer span.End()

	for _, role := range roles {
		if _, err := s.refdata.EnsureRole(ctx, role); err != nil {
			return err
		}
	}

	for _, name := range apartmentTypes {
		if _, err := s.refdata.EnsureApartmentType(ctx, name); err != nil {
			return err
		}
	}

	for _, slot := range timeSlots {
		if _, err := s.slots.Ensure(ctx, slot[0], slot[1]); err != nil {
			return err
		}
	}

	for countryName, cities := range locations {
		country, err := s.refdata.EnsureCountry(ctx, countryName)
		if err != nil {
			return err
		}
		for cityName, districts := range cities {
			city, err := s.refdata.EnsureCity(ctx, cityName, country.ID)
			if err != nil {
				return err
			}
			for _, districtName := range districts {
				if _, err := s.refdata.EnsureDistrict(ctx, districtName, city.ID); err != nil {
					return err
				}
			}
		}
	}

	s.logger.WithContext(ctx).Info("reference data seeding complete")
	return nil
}
