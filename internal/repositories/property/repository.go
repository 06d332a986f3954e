package property

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Gobusters/ectologger"
	"github.com/huandu/go-sqlbuilder"

	"github.com/waqas1412/ReAgentWABot-sub001/pkg/database"
	"github.com/waqas1412/ReAgentWABot-sub001/pkg/models"
	"github.com/waqas1412/ReAgentWABot-sub001/pkg/tracing"
)

// PropertyRepository defines the data access operations for properties.
type PropertyRepository interface {
	GetByID(ctx context.Context, id string) (*models.PropertyDetail, error)
	Search(ctx context.Context, criteria models.SearchCriteria, opts models.SearchOptions) ([]models.PropertyDetail, error)
	Count(ctx context.Context, level database.AccessLevel) (int, error)
	Create(ctx context.Context, fields database.Fields) (*models.Property, error)
}

const tableName = "properties"

var columns = []string{
	"id", "address", "price", "bedrooms", "bathrooms", "area_sqm", "status",
	"description", "features", "listing_url", "owner_id", "district_id",
	"apartment_type_id", "created_at",
}

var detailColumns = []string{
	"p.id", "p.address", "p.price", "p.bedrooms", "p.bathrooms", "p.area_sqm",
	"p.status", "p.description", "p.features", "p.listing_url", "p.owner_id",
	"p.district_id", "p.apartment_type_id", "p.created_at",
	"d.name AS district_name", "t.name AS apartment_type_name",
}

// Repository implements PropertyRepository.
type Repository struct {
	collection *database.Collection[models.Property]
	handles    *database.Handles
	logger     ectologger.Logger
	timeout    time.Duration
}

func NewRepository(handles *database.Handles, logger ectologger.Logger, timeout time.Duration) *Repository {
	return &Repository{
		collection: database.NewCollection[models.Property](handles, logger, timeout, tableName, columns...),
		handles:    handles,
		logger:     logger,
		timeout:    timeout,
	}
}

func (r *Repository) detailQuery() *database.SelectBuilder {
	sb := database.NewSelectBuilder()
	sb.Select(detailColumns...)
	sb.From("properties p")
	sb.JoinWithOption(sqlbuilder.LeftJoin, "districts d", "p.district_id = d.id")
	sb.JoinWithOption(sqlbuilder.LeftJoin, "apartment_types t", "p.apartment_type_id = t.id")
	return sb
}

func (r *Repository) GetByID(ctx context.Context, id string) (*models.PropertyDetail, error) {
	ctx, span := tracing.StartSpan(ctx, "PropertyRepository.GetByID")
	defer span.End()

	sb := r.detailQuery()
	sb.Where(sb.Equal("p.id", id))

	query, args := sb.Build()

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	var row models.PropertyDetail
	err := r.handles.ForLevel(database.AccessRestricted).GetContext(ctx, &row, query, args...)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		r.logger.WithContext(ctx).WithError(err).Error("failed to get property")
		return nil, fmt.Errorf("failed to get property: %w", err)
	}

	return &row, nil
}

// Search applies the criteria as exact or range conditions. Results default
// to creation order so pagination is stable.
func (r *Repository) Search(ctx context.Context, criteria models.SearchCriteria, opts models.SearchOptions) ([]models.PropertyDetail, error) {
	ctx, span := tracing.StartSpan(ctx, "PropertyRepository.Search")
	defer span.End()

	sb := r.detailQuery()

	if criteria.MinPrice != nil {
		sb.Where(sb.GreaterEqualThan("p.price", *criteria.MinPrice))
	}
	if criteria.MaxPrice != nil {
		sb.Where(sb.LessEqualThan("p.price", *criteria.MaxPrice))
	}
	if criteria.MinBedrooms != nil {
		sb.Where(sb.GreaterEqualThan("p.bedrooms", *criteria.MinBedrooms))
	}
	if criteria.MaxBedrooms != nil {
		sb.Where(sb.LessEqualThan("p.bedrooms", *criteria.MaxBedrooms))
	}
	if criteria.Status != nil {
		sb.Where(sb.Equal("p.status", *criteria.Status))
	}
	if criteria.DistrictID != nil {
		sb.Where(sb.Equal("p.district_id", *criteria.DistrictID))
	}

	orderBy := opts.OrderBy
	if orderBy == "" {
		orderBy = "p.created_at ASC"
	}
	sb.OrderBy(orderBy)

	if opts.Limit > 0 {
		sb.Limit(opts.Limit)
	}
	if opts.Offset > 0 {
		sb.Offset(opts.Offset)
	}

	query, args := sb.Build()

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	rows := []models.PropertyDetail{}
	err := r.handles.ForLevel(database.AccessRestricted).SelectContext(ctx, &rows, query, args...)
	if err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("failed to search properties")
		return nil, fmt.Errorf("failed to search properties: %w", err)
	}

	return rows, nil
}

func (r *Repository) Count(ctx context.Context, level database.AccessLevel) (int, error) {
	ctx, span := tracing.StartSpan(ctx, "PropertyRepository.Count")
	defer span.End()

	return r.collection.Access(level).Count(ctx, database.Filter{})
}

func (r *Repository) Create(ctx context.Context, fields database.Fields) (*models.Property, error) {
	ctx, span := tracing.StartSpan(ctx, "PropertyRepository.Create")
	defer span.End()

	return r.collection.Create(ctx, fields)
}
