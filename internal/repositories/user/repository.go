package user

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Gobusters/ectologger"

	"github.com/waqas1412/ReAgentWABot-sub001/pkg/database"
	"github.com/waqas1412/ReAgentWABot-sub001/pkg/models"
	"github.com/waqas1412/ReAgentWABot-sub001/pkg/tracing"
)

// UserRepository defines the data access operations for users.
type UserRepository interface {
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByPhone(ctx context.Context, phone string) (*models.User, error)
	GetByPhoneWithRole(ctx context.Context, phone string) (*models.UserWithRole, error)
	Create(ctx context.Context, phone string, name *string, roleID string) (*models.User, error)
	Update(ctx context.Context, id string, fields database.Fields) (*models.User, error)
	Count(ctx context.Context, level database.AccessLevel) (int, error)
}

const tableName = "users"

var columns = []string{"id", "phone_number", "name", "role_id", "created_at"}

// Repository implements UserRepository over the users collection.
type Repository struct {
	collection *database.Collection[models.User]
	handles    *database.Handles
	logger     ectologger.Logger
	timeout    time.Duration
}

func NewRepository(handles *database.Handles, logger ectologger.Logger, timeout time.Duration) *Repository {
	return &Repository{
		collection: database.NewCollection[models.User](handles, logger, timeout, tableName, columns...),
		handles:    handles,
		logger:     logger,
		timeout:    timeout,
	}
}

func (r *Repository) GetByID(ctx context.Context, id string) (*models.User, error) {
	ctx, span := tracing.StartSpan(ctx, "UserRepository.GetByID")
	defer span.End()

	return r.collection.FindByID(ctx, id)
}

func (r *Repository) GetByPhone(ctx context.Context, phone string) (*models.User, error) {
	ctx, span := tracing.StartSpan(ctx, "UserRepository.GetByPhone")
	defer span.End()

	return r.collection.FindOne(ctx, database.Filter{"phone_number": phone})
}

// GetByPhoneWithRole returns the user joined with its role name, or nil when
// no user has that phone number.
func (r *Repository) GetByPhoneWithRole(ctx context.Context, phone string) (*models.UserWithRole, error) {
	ctx, span := tracing.StartSpan(ctx, "UserRepository.GetByPhoneWithRole")
	defer span.End()

	sb := database.NewSelectBuilder()
	sb.Select(
		"u.id", "u.phone_number", "u.name", "u.role_id", "u.created_at",
		"r.name AS role_name",
	)
	sb.From("users u")
	sb.Join("user_roles r", "u.role_id = r.id")
	sb.Where(sb.Equal("u.phone_number", phone))

	query, args := sb.Build()

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	var row models.UserWithRole
	err := r.handles.ForLevel(database.AccessRestricted).GetContext(ctx, &row, query, args...)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		r.logger.WithContext(ctx).WithError(err).Error("failed to get user with role")
		return nil, fmt.Errorf("failed to get user with role: %w", err)
	}

	return &row, nil
}

func (r *Repository) Create(ctx context.Context, phone string, name *string, roleID string) (*models.User, error) {
	ctx, span := tracing.StartSpan(ctx, "UserRepository.Create")
	defer span.End()

	return r.collection.Create(ctx, database.Fields{
		"phone_number": phone,
		"name":         name,
		"role_id":      roleID,
	})
}

func (r *Repository) Update(ctx context.Context, id string, fields database.Fields) (*models.User, error) {
	ctx, span := tracing.StartSpan(ctx, "UserRepository.Update")
	defer span.End()

	return r.collection.UpdateByID(ctx, id, fields)
}

// Count is an administrative lookup and runs under the caller's chosen
// access level.
func (r *Repository) Count(ctx context.Context, level database.AccessLevel) (int, error) {
	ctx, span := tracing.StartSpan(ctx, "UserRepository.Count")
	defer span.End()

	return r.collection.Access(level).Count(ctx, database.Filter{})
}
