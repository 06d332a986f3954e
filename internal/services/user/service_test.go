package user

import (
	"context"
	"testing"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Gobusters/ectologger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/waqas1412/ReAgentWABot-sub001/pkg/database"
	apperrors "github.com/waqas1412/ReAgentWABot-sub001/pkg/errors"
	"github.com/waqas1412/ReAgentWABot-sub001/pkg/models"
)

func getTestLogger() ectologger.Logger {
	return ectologger.NewEctoLogger(func(_ ectologger.EctoLogMessage) {})
}

type fakeUserRepo struct {
	byPhone      map[string]*models.UserWithRole
	createErr    error
	createCalls  int
	lookupMisses int
}

func (f *fakeUserRepo) GetByPhone(ctx context.Context, phone string) (*models.User, error) {
	if u, ok := f.byPhone[phone]; ok {
		return &u.User, nil
	}
	return nil, nil
}

func (f *fakeUserRepo) GetByPhoneWithRole(ctx context.Context, phone string) (*models.UserWithRole, error) {
	if f.lookupMisses > 0 {
		f.lookupMisses--
		return nil, nil
	}
	return f.byPhone[phone], nil
}

func (f *fakeUserRepo) Create(ctx context.Context, phone string, name *string, roleID string) (*models.User, error) {
	f.createCalls++
	if f.createErr != nil {
		return nil, f.createErr
	}
	created := &models.UserWithRole{
		User:     models.User{ID: "user-1", PhoneNumber: phone, Name: name, RoleID: roleID},
		RoleName: models.RoleRenter,
	}
	f.byPhone[phone] = created
	return &created.User, nil
}

func (f *fakeUserRepo) Update(ctx context.Context, id string, fields database.Fields) (*models.User, error) {
	for _, u := range f.byPhone {
		if u.ID == id {
			if name, ok := fields["name"].(string); ok {
				u.Name = &name
			}
			return &u.User, nil
		}
	}
	return nil, nil
}

type fakeRoleRepo struct {
	roles map[string]*models.UserRole
}

func (f *fakeRoleRepo) GetRoleByName(ctx context.Context, name string) (*models.UserRole, error) {
	return f.roles[name], nil
}

type fakePrefRepo struct {
	byUserID map[string]*models.UserPreference
}

func (f *fakePrefRepo) GetByUserID(ctx context.Context, userID string) (*models.UserPreference, error) {
	return f.byUserID[userID], nil
}

func (f *fakePrefRepo) Upsert(ctx context.Context, userID string, fields models.PreferenceFields) (*models.UserPreference, error) {
	pref := &models.UserPreference{
		UserID:            userID,
		BudgetMin:         fields.BudgetMin,
		BudgetMax:         fields.BudgetMax,
		BedroomsMin:       fields.BedroomsMin,
		BedroomsMax:       fields.BedroomsMax,
		BathroomsMin:      fields.BathroomsMin,
		BathroomsMax:      fields.BathroomsMax,
		PreferredLocation: fields.PreferredLocation,
	}
	f.byUserID[userID] = pref
	return pref, nil
}

func newTestService() (*Service, *fakeUserRepo, *fakePrefRepo) {
	users := &fakeUserRepo{byPhone: map[string]*models.UserWithRole{}}
	roles := &fakeRoleRepo{roles: map[string]*models.UserRole{
		models.RoleRenter: {ID: "role-renter", Name: models.RoleRenter},
	}}
	prefs := &fakePrefRepo{byUserID: map[string]*models.UserPreference{}}
	return NewService(users, roles, prefs, getTestLogger()), users, prefs
}

func TestGetOrCreateUser(t *testing.T) {
	ctx := context.Background()

	t.Run("should reject empty phone number", func(t *testing.T) {
		svc, _, _ := newTestService()

		_, err := svc.GetOrCreateUser(ctx, "", nil)
		require.Error(t, err)
		assert.True(t, httperror.IsHTTPError(err))
	})

	t.Run("should create user with default role on first contact", func(t *testing.T) {
		svc, users, _ := newTestService()

		name := "Alice"
		created, err := svc.GetOrCreateUser(ctx, "+15550001111", &name)
		require.NoError(t, err)
		require.NotNil(t, created)
		assert.Equal(t, "+15550001111", created.PhoneNumber)
		assert.Equal(t, "role-renter", created.RoleID)
		assert.Equal(t, models.RoleRenter, created.RoleName)
		assert.Equal(t, 1, users.createCalls)
	})

	t.Run("should be idempotent on repeated contact", func(t *testing.T) {
		svc, users, _ := newTestService()

		first, err := svc.GetOrCreateUser(ctx, "+15550001111", nil)
		require.NoError(t, err)
		second, err := svc.GetOrCreateUser(ctx, "+15550001111", nil)
		require.NoError(t, err)

		assert.Equal(t, first.ID, second.ID)
		assert.Equal(t, 1, users.createCalls)
	})

	t.Run("should re-fetch when losing the first-contact race", func(t *testing.T) {
		svc, users, _ := newTestService()

		// Another request commits its insert between this request's lookup
		// and create, so create hits the unique constraint
		users.byPhone["+15550002222"] = &models.UserWithRole{
			User:     models.User{ID: "user-9", PhoneNumber: "+15550002222", RoleID: "role-renter"},
			RoleName: models.RoleRenter,
		}
		users.lookupMisses = 1
		users.createErr = apperrors.NewConstraintViolation("users_phone_number_key", nil)

		got, err := svc.GetOrCreateUser(ctx, "+15550002222", nil)
		require.NoError(t, err)
		assert.Equal(t, "user-9", got.ID)
		assert.Equal(t, 1, users.createCalls)
	})

	t.Run("should fail when default role is missing", func(t *testing.T) {
		users := &fakeUserRepo{byPhone: map[string]*models.UserWithRole{}}
		roles := &fakeRoleRepo{roles: map[string]*models.UserRole{}}
		prefs := &fakePrefRepo{byUserID: map[string]*models.UserPreference{}}
		svc := NewService(users, roles, prefs, getTestLogger())

		_, err := svc.GetOrCreateUser(ctx, "+15550003333", nil)
		require.Error(t, err)
		assert.True(t, apperrors.IsNotFound(err))
	})
}

func TestUpdateProfile(t *testing.T) {
	ctx := context.Background()

	t.Run("should return not found for unknown phone", func(t *testing.T) {
		svc, _, _ := newTestService()

		name := "Bob"
		_, err := svc.UpdateProfile(ctx, "+15559999999", models.UpdateUserRequest{Name: &name})
		require.Error(t, err)
		assert.True(t, apperrors.IsNotFound(err))
	})

	t.Run("should update the stored name", func(t *testing.T) {
		svc, _, _ := newTestService()

		_, err := svc.GetOrCreateUser(ctx, "+15550001111", nil)
		require.NoError(t, err)

		name := "Bob"
		updated, err := svc.UpdateProfile(ctx, "+15550001111", models.UpdateUserRequest{Name: &name})
		require.NoError(t, err)
		require.NotNil(t, updated.Name)
		assert.Equal(t, "Bob", *updated.Name)
	})

	t.Run("should be a no-op when nothing changes", func(t *testing.T) {
		svc, _, _ := newTestService()

		created, err := svc.GetOrCreateUser(ctx, "+15550001111", nil)
		require.NoError(t, err)

		updated, err := svc.UpdateProfile(ctx, "+15550001111", models.UpdateUserRequest{})
		require.NoError(t, err)
		assert.Equal(t, created.ID, updated.ID)
	})
}

func TestSetPreferences(t *testing.T) {
	ctx := context.Background()

	t.Run("should reject inverted budget bounds", func(t *testing.T) {
		svc, _, _ := newTestService()

		minBudget, maxBudget := 2000.0, 1000.0
		_, err := svc.SetPreferences(ctx, "+15550001111", models.PreferenceFields{
			BudgetMin: &minBudget,
			BudgetMax: &maxBudget,
		})
		require.Error(t, err)
		assert.True(t, httperror.IsHTTPError(err))
	})

	t.Run("should upsert preferences for an existing user", func(t *testing.T) {
		svc, _, _ := newTestService()

		created, err := svc.GetOrCreateUser(ctx, "+15550001111", nil)
		require.NoError(t, err)

		minBudget, maxBudget := 1000.0, 2000.0
		prefs, err := svc.SetPreferences(ctx, "+15550001111", models.PreferenceFields{
			BudgetMin: &minBudget,
			BudgetMax: &maxBudget,
		})
		require.NoError(t, err)
		assert.Equal(t, created.ID, prefs.UserID)

		stored, err := svc.GetPreferences(ctx, "+15550001111")
		require.NoError(t, err)
		require.NotNil(t, stored)
		assert.Equal(t, 1000.0, *stored.BudgetMin)
	})

	t.Run("should return nil preferences when none saved", func(t *testing.T) {
		svc, _, _ := newTestService()

		_, err := svc.GetOrCreateUser(ctx, "+15550001111", nil)
		require.NoError(t, err)

		prefs, err := svc.GetPreferences(ctx, "+15550001111")
		require.NoError(t, err)
		assert.Nil(t, prefs)
	})
}
