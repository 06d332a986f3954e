package property

import (
	"context"
	"testing"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Gobusters/ectologger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/waqas1412/ReAgentWABot-sub001/pkg/models"
)

func getTestLogger() ectologger.Logger {
	return ectologger.NewEctoLogger(func(_ ectologger.EctoLogMessage) {})
}

type fakePropertyRepo struct {
	properties   []models.PropertyDetail
	lastCriteria models.SearchCriteria
	lastOpts     models.SearchOptions
}

func (f *fakePropertyRepo) Search(ctx context.Context, criteria models.SearchCriteria, opts models.SearchOptions) ([]models.PropertyDetail, error) {
	f.lastCriteria = criteria
	f.lastOpts = opts

	var matched []models.PropertyDetail
	for _, p := range f.properties {
		if criteria.MinPrice != nil && p.Price < *criteria.MinPrice {
			continue
		}
		if criteria.MaxPrice != nil && p.Price > *criteria.MaxPrice {
			continue
		}
		if criteria.Status != nil && p.Status != *criteria.Status {
			continue
		}
		if criteria.DistrictID != nil && (p.DistrictID == nil || *p.DistrictID != *criteria.DistrictID) {
			continue
		}
		matched = append(matched, p)
	}
	if opts.Limit > 0 && len(matched) > opts.Limit {
		matched = matched[:opts.Limit]
	}
	return matched, nil
}

func (f *fakePropertyRepo) GetByID(ctx context.Context, id string) (*models.PropertyDetail, error) {
	for _, p := range f.properties {
		if p.ID == id {
			return &p, nil
		}
	}
	return nil, nil
}

type fakePrefRepo struct {
	byUserID map[string]*models.UserPreference
}

func (f *fakePrefRepo) GetByUserID(ctx context.Context, userID string) (*models.UserPreference, error) {
	return f.byUserID[userID], nil
}

type fakeDistrictRepo struct {
	byName map[string]*models.District
}

func (f *fakeDistrictRepo) GetDistrictByName(ctx context.Context, name string) (*models.District, error) {
	return f.byName[name], nil
}

func testProperty(id string, price float64, districtID string) models.PropertyDetail {
	p := models.PropertyDetail{}
	p.ID = id
	p.Address = id + " street"
	p.Price = price
	p.Status = models.PropertyStatusActive
	if districtID != "" {
		p.DistrictID = &districtID
	}
	return p
}

func newTestService() (*Service, *fakePropertyRepo, *fakePrefRepo) {
	properties := &fakePropertyRepo{properties: []models.PropertyDetail{
		testProperty("prop-1", 1200, "district-1"),
		testProperty("prop-2", 1800, "district-2"),
		testProperty("prop-3", 3000, "district-1"),
	}}
	prefs := &fakePrefRepo{byUserID: map[string]*models.UserPreference{}}
	districts := &fakeDistrictRepo{byName: map[string]*models.District{
		"Downtown": {ID: "district-1", Name: "Downtown"},
	}}
	return NewService(properties, prefs, districts, getTestLogger()), properties, prefs
}

func TestSearchProperties(t *testing.T) {
	ctx := context.Background()

	t.Run("should reject inverted price bounds", func(t *testing.T) {
		svc, _, _ := newTestService()

		minPrice, maxPrice := 2000.0, 1000.0
		_, err := svc.SearchProperties(ctx, models.SearchCriteria{MinPrice: &minPrice, MaxPrice: &maxPrice}, models.SearchOptions{})
		require.Error(t, err)
		assert.True(t, httperror.IsHTTPError(err))
	})

	t.Run("should filter by price range", func(t *testing.T) {
		svc, _, _ := newTestService()

		minPrice, maxPrice := 1000.0, 2000.0
		results, err := svc.SearchProperties(ctx, models.SearchCriteria{MinPrice: &minPrice, MaxPrice: &maxPrice}, models.SearchOptions{})
		require.NoError(t, err)
		require.Len(t, results, 2)
		assert.Equal(t, "prop-1", results[0].ID)
		assert.Equal(t, "prop-2", results[1].ID)
	})

	t.Run("should return empty slice when nothing matches", func(t *testing.T) {
		svc, _, _ := newTestService()

		minPrice := 100000.0
		results, err := svc.SearchProperties(ctx, models.SearchCriteria{MinPrice: &minPrice}, models.SearchOptions{})
		require.NoError(t, err)
		assert.Empty(t, results)
	})
}

func TestGetPropertiesForUser(t *testing.T) {
	ctx := context.Background()

	t.Run("should return empty result when user has no preferences", func(t *testing.T) {
		svc, _, _ := newTestService()

		results, err := svc.GetPropertiesForUser(ctx, "user-1", models.SearchOptions{})
		require.NoError(t, err)
		assert.NotNil(t, results)
		assert.Empty(t, results)
	})

	t.Run("should search with budget and active status from preferences", func(t *testing.T) {
		svc, properties, prefs := newTestService()

		minBudget, maxBudget := 1000.0, 2000.0
		prefs.byUserID["user-1"] = &models.UserPreference{
			UserID:    "user-1",
			BudgetMin: &minBudget,
			BudgetMax: &maxBudget,
		}

		results, err := svc.GetPropertiesForUser(ctx, "user-1", models.SearchOptions{Limit: 5})
		require.NoError(t, err)
		assert.Len(t, results, 2)
		require.NotNil(t, properties.lastCriteria.Status)
		assert.Equal(t, models.PropertyStatusActive, *properties.lastCriteria.Status)
		assert.Equal(t, 5, properties.lastOpts.Limit)
	})

	t.Run("should resolve preferred location to a district filter", func(t *testing.T) {
		svc, properties, prefs := newTestService()

		location := "Downtown"
		prefs.byUserID["user-1"] = &models.UserPreference{
			UserID:            "user-1",
			PreferredLocation: &location,
		}

		results, err := svc.GetPropertiesForUser(ctx, "user-1", models.SearchOptions{})
		require.NoError(t, err)
		assert.Len(t, results, 2)
		require.NotNil(t, properties.lastCriteria.DistrictID)
		assert.Equal(t, "district-1", *properties.lastCriteria.DistrictID)
	})

	t.Run("should ignore an unknown preferred location", func(t *testing.T) {
		svc, properties, prefs := newTestService()

		location := "Atlantis"
		prefs.byUserID["user-1"] = &models.UserPreference{
			UserID:            "user-1",
			PreferredLocation: &location,
		}

		results, err := svc.GetPropertiesForUser(ctx, "user-1", models.SearchOptions{})
		require.NoError(t, err)
		assert.Len(t, results, 3)
		assert.Nil(t, properties.lastCriteria.DistrictID)
	})
}

func TestGetProperty(t *testing.T) {
	ctx := context.Background()

	t.Run("should return nil for unknown id", func(t *testing.T) {
		svc, _, _ := newTestService()

		result, err := svc.GetProperty(ctx, "prop-404")
		require.NoError(t, err)
		assert.Nil(t, result)
	})

	t.Run("should return the property by id", func(t *testing.T) {
		svc, _, _ := newTestService()

		result, err := svc.GetProperty(ctx, "prop-2")
		require.NoError(t, err)
		require.NotNil(t, result)
		assert.Equal(t, 1800.0, result.Price)
	})
}
