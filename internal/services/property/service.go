package property

import (
	"context"
	"net/http"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Gobusters/ectologger"

	"github.com/waqas1412/ReAgentWABot-sub001/pkg/models"
	"github.com/waqas1412/ReAgentWABot-sub001/pkg/tracing"
)

type PropertyRepository interface {
	Search(ctx context.Context, criteria models.SearchCriteria, opts models.SearchOptions) ([]models.PropertyDetail, error)
	GetByID(ctx context.Context, id string) (*models.PropertyDetail, error)
}

type PreferenceRepository interface {
	GetByUserID(ctx context.Context, userID string) (*models.UserPreference, error)
}

type DistrictRepository interface {
	GetDistrictByName(ctx context.Context, name string) (*models.District, error)
}

// Service implements property search use cases.
type Service struct {
	properties PropertyRepository
	prefs      PreferenceRepository
	districts  DistrictRepository
	logger     ectologger.Logger
}

func NewService(properties PropertyRepository, prefs PreferenceRepository, districts DistrictRepository, logger ectologger.Logger) *Service {
	return &Service{
		properties: properties,
		prefs:      prefs,
		districts:  districts,
		logger:     logger,
	}
}

// SearchProperties applies the partial criteria. An empty match is an empty
// slice, never an error.
func (s *Service) SearchProperties(ctx context.Context, criteria models.SearchCriteria, opts models.SearchOptions) ([]models.PropertyDetail, error) {
	ctx, span := tracing.StartSpan(ctx, "property.SearchProperties")
	defer span.End()

	if criteria.MinPrice != nil && criteria.MaxPrice != nil && *criteria.MinPrice > *criteria.MaxPrice {
		return nil, httperror.NewHTTPError(http.StatusBadRequest, "min_price must not exceed max_price")
	}

	return s.properties.Search(ctx, criteria, opts)
}

// GetPropertiesForUser resolves the user's stored preferences into a search.
// When no preferences exist the result is empty and the caller is expected
// to prompt the user to set preferences.
func (s *Service) GetPropertiesForUser(ctx context.Context, userID string, opts models.SearchOptions) ([]models.PropertyDetail, error) {
	ctx, span := tracing.StartSpan(ctx, "property.GetPropertiesForUser")
	defer span.End()

	prefs, err := s.prefs.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if prefs == nil {
		return []models.PropertyDetail{}, nil
	}

	status := models.PropertyStatusActive
	criteria := models.SearchCriteria{
		MinPrice:    prefs.BudgetMin,
		MaxPrice:    prefs.BudgetMax,
		MinBedrooms: prefs.BedroomsMin,
		MaxBedrooms: prefs.BedroomsMax,
		Status:      &status,
	}

	if prefs.PreferredLocation != nil && *prefs.PreferredLocation != "" {
		district, err := s.districts.GetDistrictByName(ctx, *prefs.PreferredLocation)
		if err != nil {
			return nil, err
		}
		if district != nil {
			criteria.DistrictID = &district.ID
		}
	}

	return s.properties.Search(ctx, criteria, opts)
}

// GetProperty returns one property with display names resolved.
func (s *Service) GetProperty(ctx context.Context, id string) (*models.PropertyDetail, error) {
	ctx, span := tracing.StartSpan(ctx, "property.GetProperty")
	defer span.End()

	return s.properties.GetByID(ctx, id)
}
