package user

import (
	"context"
	"net/http"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Gobusters/ectologger"

	"github.com/waqas1412/ReAgentWABot-sub001/pkg/database"
	apperrors "github.com/waqas1412/ReAgentWABot-sub001/pkg/errors"
	"github.com/waqas1412/ReAgentWABot-sub001/pkg/models"
	"github.com/waqas1412/ReAgentWABot-sub001/pkg/tracing"
)

type UserRepository interface {
	GetByPhone(ctx context.Context, phone string) (*models.User, error)
	GetByPhoneWithRole(ctx context.Context, phone string) (*models.UserWithRole, error)
	Create(ctx context.Context, phone string, name *string, roleID string) (*models.User, error)
	Update(ctx context.Context, id string, fields database.Fields) (*models.User, error)
}

type RoleRepository interface {
	GetRoleByName(ctx context.Context, name string) (*models.UserRole, error)
}

type PreferenceRepository interface {
	GetByUserID(ctx context.Context, userID string) (*models.UserPreference, error)
	Upsert(ctx context.Context, userID string, fields models.PreferenceFields) (*models.UserPreference, error)
}

// Service implements the user-facing use cases: lazy user creation on first
// contact, profile edits and preference upserts.
type Service struct {
	users  UserRepository
	roles  RoleRepository
	prefs  PreferenceRepository
	logger ectologger.Logger
}

func NewService(users UserRepository, roles RoleRepository, prefs PreferenceRepository, logger ectologger.Logger) *Service {
	return &Service{
		users:  users,
		roles:  roles,
		prefs:  prefs,
		logger: logger,
	}
}

// GetOrCreateUser looks the user up by phone number and creates one with the
// default role when absent. Idempotent: repeated calls with the same phone
// return the same user. Concurrent first-contact calls may race; the unique
// constraint on phone_number arbitrates and the loser re-fetches.
func (s *Service) GetOrCreateUser(ctx context.Context, phone string, displayName *string) (*models.UserWithRole, error) {
	ctx, span := tracing.StartSpan(ctx, "user.GetOrCreateUser")
	defer span.End()

	if phone == "" {
		return nil, httperror.NewHTTPError(http.StatusBadRequest, "phone number is required")
	}

	existing, err := s.users.GetByPhoneWithRole(ctx, phone)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}

	role, err := s.roles.GetRoleByName(ctx, models.RoleRenter)
	if err != nil {
		return nil, err
	}
	if role == nil {
		return nil, apperrors.NewNotFound("user role", models.RoleRenter)
	}

	_, err = s.users.Create(ctx, phone, displayName, role.ID)
	if err != nil && !apperrors.IsConstraintViolation(err) {
		return nil, err
	}
	if err != nil {
		s.logger.WithContext(ctx).WithField("phone_number", phone).Info("lost first-contact race, re-fetching user")
	} else {
		s.logger.WithContext(ctx).WithField("phone_number", phone).Info("created user on first contact")
	}

	created, err := s.users.GetByPhoneWithRole(ctx, phone)
	if err != nil {
		return nil, err
	}
	if created == nil {
		return nil, apperrors.NewNotFound("user", phone)
	}
	return created, nil
}

// UpdateProfile applies profile edits to the user with the given phone.
func (s *Service) UpdateProfile(ctx context.Context, phone string, req models.UpdateUserRequest) (*models.User, error) {
	ctx, span := tracing.StartSpan(ctx, "user.UpdateProfile")
	defer span.End()

	existing, err := s.users.GetByPhone(ctx, phone)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, apperrors.NewNotFound("user", phone)
	}

	fields := database.Fields{}
	if req.Name != nil {
		fields["name"] = *req.Name
	}
	if req.RoleID != nil {
		fields["role_id"] = *req.RoleID
	}
	if len(fields) == 0 {
		return existing, nil
	}

	return s.users.Update(ctx, existing.ID, fields)
}

// SetPreferences upserts the user's single preference record.
func (s *Service) SetPreferences(ctx context.Context, phone string, fields models.PreferenceFields) (*models.UserPreference, error) {
	ctx, span := tracing.StartSpan(ctx, "user.SetPreferences")
	defer span.End()

	if fields.BudgetMin != nil && fields.BudgetMax != nil && *fields.BudgetMin > *fields.BudgetMax {
		return nil, httperror.NewHTTPError(http.StatusBadRequest, "budget_min must not exceed budget_max")
	}

	existing, err := s.users.GetByPhone(ctx, phone)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, apperrors.NewNotFound("user", phone)
	}

	return s.prefs.Upsert(ctx, existing.ID, fields)
}

// GetPreferences returns the user's preference record, or nil when none has
// been set.
func (s *Service) GetPreferences(ctx context.Context, phone string) (*models.UserPreference, error) {
	ctx, span := tracing.StartSpan(ctx, "user.GetPreferences")
	defer span.End()

	existing, err := s.users.GetByPhone(ctx, phone)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, apperrors.NewNotFound("user", phone)
	}

	return s.prefs.GetByUserID(ctx, existing.ID)
}
