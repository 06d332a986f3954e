// Package refdata holds the data access layer for the small reference
// tables: user roles, apartment types and the country/city/district
// hierarchy. All writes run elevated; they only happen during seeding.
package refdata

import (
	"context"
	"time"

	"github.com/Gobusters/ectologger"

	"github.com/waqas1412/ReAgentWABot-sub001/pkg/database"
	"github.com/waqas1412/ReAgentWABot-sub001/pkg/models"
	"github.com/waqas1412/ReAgentWABot-sub001/pkg/tracing"
)

// RefDataRepository defines lookups and create-if-absent seeding over the
// reference tables.
type RefDataRepository interface {
	GetRoleByName(ctx context.Context, name string) (*models.UserRole, error)
	EnsureRole(ctx context.Context, name string) (*models.UserRole, error)
	EnsureApartmentType(ctx context.Context, name string) (*models.ApartmentType, error)
	EnsureCountry(ctx context.Context, name string) (*models.Country, error)
	EnsureCity(ctx context.Context, name, countryID string) (*models.City, error)
	EnsureDistrict(ctx context.Context, name, cityID string) (*models.District, error)
	ListDistricts(ctx context.Context) ([]models.District, error)
	GetDistrictByName(ctx context.Context, name string) (*models.District, error)
}

// Repository implements RefDataRepository.
type Repository struct {
	roles          *database.Collection[models.UserRole]
	apartmentTypes *database.Collection[models.ApartmentType]
	countries      *database.Collection[models.Country]
	cities         *database.Collection[models.City]
	districts      *database.Collection[models.District]
	logger         ectologger.Logger
}

func NewRepository(handles *database.Handles, logger ectologger.Logger, timeout time.Duration) *Repository {
	return &Repository{
		roles:          database.NewCollection[models.UserRole](handles, logger, timeout, "user_roles", "id", "name", "created_at"),
		apartmentTypes: database.NewCollection[models.ApartmentType](handles, logger, timeout, "apartment_types", "id", "name", "created_at"),
		countries:      database.NewCollection[models.Country](handles, logger, timeout, "countries", "id", "name", "created_at"),
		cities:         database.NewCollection[models.City](handles, logger, timeout, "cities", "id", "name", "country_id", "created_at"),
		districts:      database.NewCollection[models.District](handles, logger, timeout, "districts", "id", "name", "city_id", "created_at"),
		logger:         logger,
	}
}

func (r *Repository) GetRoleByName(ctx context.Context, name string) (*models.UserRole, error) {
	ctx, span := tracing.StartSpan(ctx, "RefDataRepository.GetRoleByName")
	defer span.End()

	return r.roles.FindOne(ctx, database.Filter{"name": name})
}

// ensure is the shared create-if-absent step: look the record up under the
// elevated level, create it when missing.
func ensure[T any](ctx context.Context, col *database.Collection[T], filter database.Filter, fields database.Fields) (*T, error) {
	elevated := col.Access(database.AccessElevated)

	existing, err := elevated.FindOne(ctx, filter)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}

	return elevated.Create(ctx, fields)
}

func (r *Repository) EnsureRole(ctx context.Context, name string) (*models.UserRole, error) {
	ctx, span := tracing.StartSpan(ctx, "RefDataRepository.EnsureRole")
	defer span.End()

	return ensure(ctx, r.roles, database.Filter{"name": name}, database.Fields{"name": name})
}

func (r *Repository) EnsureApartmentType(ctx context.Context, name string) (*models.ApartmentType, error) {
	ctx, span := tracing.StartSpan(ctx, "RefDataRepository.EnsureApartmentType")
	defer span.End()

	return ensure(ctx, r.apartmentTypes, database.Filter{"name": name}, database.Fields{"name": name})
}

func (r *Repository) EnsureCountry(ctx context.Context, name string) (*models.Country, error) {
	ctx, span := tracing.StartSpan(ctx, "RefDataRepository.EnsureCountry")
	defer span.End()

	return ensure(ctx, r.countries, database.Filter{"name": name}, database.Fields{"name": name})
}

// EnsureCity scopes uniqueness to the parent country.
func (r *Repository) EnsureCity(ctx context.Context, name, countryID string) (*models.City, error) {
	ctx, span := tracing.StartSpan(ctx, "RefDataRepository.EnsureCity")
	defer span.End()

	return ensure(ctx, r.cities,
		database.Filter{"name": name, "country_id": countryID},
		database.Fields{"name": name, "country_id": countryID},
	)
}

// EnsureDistrict scopes uniqueness to the parent city.
func (r *Repository) EnsureDistrict(ctx context.Context, name, cityID string) (*models.District, error) {
	ctx, span := tracing.StartSpan(ctx, "RefDataRepository.EnsureDistrict")
	defer span.End()

	return ensure(ctx, r.districts,
		database.Filter{"name": name, "city_id": cityID},
		database.Fields{"name": name, "city_id": cityID},
	)
}

func (r *Repository) ListDistricts(ctx context.Context) ([]models.District, error) {
	ctx, span := tracing.StartSpan(ctx, "RefDataRepository.ListDistricts")
	defer span.End()

	return r.districts.FindAll(ctx, database.Filter{}, database.FindOptions{OrderBy: "name ASC"})
}

func (r *Repository) GetDistrictByName(ctx context.Context, name string) (*models.District, error) {
	ctx, span := tracing.StartSpan(ctx, "RefDataRepository.GetDistrictByName")
	defer span.End()

	return r.districts.FindOne(ctx, database.Filter{"name": name})
}
