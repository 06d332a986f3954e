package preference

import (
	"context"
	"time"

	"github.com/Gobusters/ectologger"

	"github.com/waqas1412/ReAgentWABot-sub001/pkg/database"
	apperrors "github.com/waqas1412/ReAgentWABot-sub001/pkg/errors"
	"github.com/waqas1412/ReAgentWABot-sub001/pkg/models"
	"github.com/waqas1412/ReAgentWABot-sub001/pkg/tracing"
)

// PreferenceRepository defines the data access operations for user search
// preferences. One record per user.
type PreferenceRepository interface {
	GetByUserID(ctx context.Context, userID string) (*models.UserPreference, error)
	Upsert(ctx context.Context, userID string, fields models.PreferenceFields) (*models.UserPreference, error)
}

const tableName = "user_preferences"

var columns = []string{
	"id", "user_id", "budget_min", "budget_max", "bedrooms_min",
	"bedrooms_max", "bathrooms_min", "bathrooms_max", "preferred_location",
	"created_at",
}

// Repository implements PreferenceRepository.
type Repository struct {
	collection *database.Collection[models.UserPreference]
	logger     ectologger.Logger
}

func NewRepository(handles *database.Handles, logger ectologger.Logger, timeout time.Duration) *Repository {
	return &Repository{
		collection: database.NewCollection[models.UserPreference](handles, logger, timeout, tableName, columns...),
		logger:     logger,
	}
}

func (r *Repository) GetByUserID(ctx context.Context, userID string) (*models.UserPreference, error) {
	ctx, span := tracing.StartSpan(ctx, "PreferenceRepository.GetByUserID")
	defer span.End()

	return r.collection.FindOne(ctx, database.Filter{"user_id": userID})
}

// Upsert updates the user's preference record, creating it when absent. The
// unique constraint on user_id arbitrates a concurrent first write; the
// loser re-fetches and updates instead of failing.
func (r *Repository) Upsert(ctx context.Context, userID string, fields models.PreferenceFields) (*models.UserPreference, error) {
	ctx, span := tracing.StartSpan(ctx, "PreferenceRepository.Upsert")
	defer span.End()

	updates := fieldUpdates(fields)

	existing, err := r.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return r.collection.UpdateByID(ctx, existing.ID, updates)
	}

	updates["user_id"] = userID
	created, err := r.collection.Create(ctx, updates)
	if err == nil {
		return created, nil
	}
	if !apperrors.IsConstraintViolation(err) {
		return nil, err
	}

	// Lost the insert race; the record exists now.
	existing, err = r.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	delete(updates, "user_id")
	delete(updates, "id")
	delete(updates, "created_at")
	return r.collection.UpdateByID(ctx, existing.ID, updates)
}

func fieldUpdates(fields models.PreferenceFields) database.Fields {
	updates := database.Fields{}
	if fields.BudgetMin != nil {
		updates["budget_min"] = *fields.BudgetMin
	}
	if fields.BudgetMax != nil {
		updates["budget_max"] = *fields.BudgetMax
	}
	if fields.BedroomsMin != nil {
		updates["bedrooms_min"] = *fields.BedroomsMin
	}
	if fields.BedroomsMax != nil {
		updates["bedrooms_max"] = *fields.BedroomsMax
	}
	if fields.BathroomsMin != nil {
		updates["bathrooms_min"] = *fields.BathroomsMin
	}
	if fields.BathroomsMax != nil {
		updates["bathrooms_max"] = *fields.BathroomsMax
	}
	if fields.PreferredLocation != nil {
		updates["preferred_location"] = *fields.PreferredLocation
	}
	return updates
}
