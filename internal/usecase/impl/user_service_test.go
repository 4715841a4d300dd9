package impl

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"erpcore/internal/domain/authz"
	"erpcore/internal/domain/entity"
	domainerrors "erpcore/internal/domain/errors"
	"erpcore/internal/usecase"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func makeActor(t *testing.T, user *entity.User, company *entity.Company) *usecase.AuthContext {
	t.Helper()
	companyCtx, err := authz.NewCompanyContext(user)
	require.NoError(t, err)

	return &usecase.AuthContext{
		User:           user,
		Company:        company,
		Authorizer:     authz.NewAuthorizer(user, company),
		CompanyContext: companyCtx,
	}
}

func adminActor(t *testing.T, store *fakeStore) *usecase.AuthContext {
	t.Helper()
	admin := store.addUser(&entity.User{
		PhoneNumber:  "0900000000",
		Name:         "Admin",
		PasswordHash: "hashed:AdminPass1",
		Role:         entity.RoleSystemAdmin,
		IsActive:     true,
	})

	return makeActor(t, admin, nil)
}

func memberActor(t *testing.T, store *fakeStore, company *entity.Company, role entity.Role) *usecase.AuthContext {
	t.Helper()
	member := store.addUser(&entity.User{
		PhoneNumber:  "09" + uuid.NewString()[:8],
		Name:         "Member",
		PasswordHash: "hashed:MemberPass1",
		CompanyID:    &company.ID,
		Role:         role,
		IsActive:     true,
	})

	return makeActor(t, member, company)
}

func TestCreateUserRequiresPermission(t *testing.T) {
	store := newFakeStore()
	users := NewUserService(store, fakeHasher{}, discardLogger())
	company := store.addCompany(&entity.Company{Name: "Acme", IsActive: true})
	actor := memberActor(t, store, company, entity.RoleSalesperson)

	_, err := users.CreateUser(context.Background(), actor, usecase.CreateUserInput{
		PhoneNumber: "0911111111",
		Password:    "S3curePass",
		Name:        "New Hire",
		CompanyID:   &company.ID,
		Role:        entity.RoleViewer,
	})
	assert.ErrorIs(t, err, domainerrors.ErrForbidden)
}

func TestCreateUserAsAdmin(t *testing.T) {
	store := newFakeStore()
	users := NewUserService(store, fakeHasher{}, discardLogger())
	company := store.addCompany(&entity.Company{Name: "Acme", IsActive: true})
	actor := adminActor(t, store)

	created, err := users.CreateUser(context.Background(), actor, usecase.CreateUserInput{
		PhoneNumber: "0911-111-111",
		Password:    "S3curePass",
		Name:        "New Hire",
		CompanyID:   &company.ID,
		Role:        entity.RoleAccountant,
	})
	require.NoError(t, err)

	assert.Equal(t, "0911111111", created.PhoneNumber)
	assert.Equal(t, entity.RoleAccountant, created.Role)
	assert.Equal(t, "hashed:S3curePass", created.PasswordHash)
	assert.True(t, created.IsActive)
}

func TestCreateUserValidation(t *testing.T) {
	store := newFakeStore()
	users := NewUserService(store, fakeHasher{}, discardLogger())
	company := store.addCompany(&entity.Company{Name: "Acme", IsActive: true})
	actor := adminActor(t, store)
	ctx := context.Background()

	_, err := users.CreateUser(ctx, actor, usecase.CreateUserInput{
		PhoneNumber: "0911111111", Password: "S3curePass", Role: "intern", CompanyID: &company.ID,
	})
	assert.Equal(t, "VALIDATION_FAILED", errorCode(t, err))

	// Company-scoped roles cannot float without a company.
	_, err = users.CreateUser(ctx, actor, usecase.CreateUserInput{
		PhoneNumber: "0911111111", Password: "S3curePass", Role: entity.RoleViewer,
	})
	assert.Equal(t, "VALIDATION_FAILED", errorCode(t, err))

	ghost := uuid.New()
	_, err = users.CreateUser(ctx, actor, usecase.CreateUserInput{
		PhoneNumber: "0911111111", Password: "S3curePass", Role: entity.RoleViewer, CompanyID: &ghost,
	})
	assert.ErrorIs(t, err, domainerrors.ErrCompanyNotFound)
}

func TestCreateUserRejectsAdminWithCompany(t *testing.T) {
	store := newFakeStore()
	users := NewUserService(store, fakeHasher{}, discardLogger())
	company := store.addCompany(&entity.Company{Name: "Acme", IsActive: true})
	actor := adminActor(t, store)

	// The mirror case of a floating company role: system admins never
	// belong to a company.
	_, err := users.CreateUser(context.Background(), actor, usecase.CreateUserInput{
		PhoneNumber: "0911111111", Password: "S3curePass", Name: "Impossible",
		Role: entity.RoleSystemAdmin, CompanyID: &company.ID,
	})
	assert.Equal(t, "VALIDATION_FAILED", errorCode(t, err))

	// A company-less system admin remains valid.
	created, err := users.CreateUser(context.Background(), actor, usecase.CreateUserInput{
		PhoneNumber: "0911111111", Password: "S3curePass", Name: "Second Admin",
		Role: entity.RoleSystemAdmin,
	})
	require.NoError(t, err)
	assert.Nil(t, created.CompanyID)
}

func TestUpdateUserRejectsPromotingMemberToAdmin(t *testing.T) {
	store := newFakeStore()
	users := NewUserService(store, fakeHasher{}, discardLogger())
	company := store.addCompany(&entity.Company{Name: "Acme", IsActive: true})
	actor := adminActor(t, store)
	target := store.addUser(&entity.User{
		PhoneNumber: "0911111111", CompanyID: &company.ID,
		Role: entity.RoleViewer, IsActive: true,
	})

	adminRole := entity.RoleSystemAdmin
	_, err := users.UpdateUser(context.Background(), actor, target.ID, usecase.UpdateUserInput{
		Role: &adminRole,
	})
	assert.Equal(t, "VALIDATION_FAILED", errorCode(t, err))

	stored, err := store.NewUserRepository().FindByID(context.Background(), target.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.RoleViewer, stored.Role)
	require.NotNil(t, stored.CompanyID)
	assert.Equal(t, company.ID, *stored.CompanyID)
}

func TestCreateUserDuplicatePhone(t *testing.T) {
	store := newFakeStore()
	users := NewUserService(store, fakeHasher{}, discardLogger())
	company := store.addCompany(&entity.Company{Name: "Acme", IsActive: true})
	actor := adminActor(t, store)

	_, err := users.CreateUser(context.Background(), actor, usecase.CreateUserInput{
		PhoneNumber: "0911111111", Password: "S3curePass", Name: "First",
		CompanyID: &company.ID, Role: entity.RoleViewer,
	})
	require.NoError(t, err)

	_, err = users.CreateUser(context.Background(), actor, usecase.CreateUserInput{
		PhoneNumber: "0911 111 111", Password: "S3curePass", Name: "Second",
		CompanyID: &company.ID, Role: entity.RoleViewer,
	})
	assert.ErrorIs(t, err, domainerrors.ErrPhoneAlreadyExists)
}

func TestGetUserCrossTenantDenied(t *testing.T) {
	store := newFakeStore()
	users := NewUserService(store, fakeHasher{}, discardLogger())
	acme := store.addCompany(&entity.Company{Name: "Acme", IsActive: true})
	rival := store.addCompany(&entity.Company{Name: "Rival", IsActive: true})
	actor := memberActor(t, store, acme, entity.RoleCompanyAdmin)
	outsider := store.addUser(&entity.User{
		PhoneNumber: "0933333333", CompanyID: &rival.ID,
		Role: entity.RoleViewer, IsActive: true,
	})

	_, err := users.GetUser(context.Background(), actor, outsider.ID)
	assert.ErrorIs(t, err, domainerrors.ErrForbidden)

	// The same lookup inside the actor's company succeeds.
	colleague := store.addUser(&entity.User{
		PhoneNumber: "0944444444", CompanyID: &acme.ID,
		Role: entity.RoleViewer, IsActive: true,
	})
	found, err := users.GetUser(context.Background(), actor, colleague.ID)
	require.NoError(t, err)
	assert.Equal(t, colleague.ID, found.ID)
}

func TestGetUserSelfAlwaysAllowed(t *testing.T) {
	store := newFakeStore()
	users := NewUserService(store, fakeHasher{}, discardLogger())
	company := store.addCompany(&entity.Company{Name: "Acme", IsActive: true})
	actor := memberActor(t, store, company, entity.RoleSalesperson)

	found, err := users.GetUser(context.Background(), actor, actor.User.ID)
	require.NoError(t, err)
	assert.Equal(t, actor.User.ID, found.ID)
}

func TestListUsersScopedToCompany(t *testing.T) {
	store := newFakeStore()
	users := NewUserService(store, fakeHasher{}, discardLogger())
	acme := store.addCompany(&entity.Company{Name: "Acme", IsActive: true})
	rival := store.addCompany(&entity.Company{Name: "Rival", IsActive: true})
	actor := memberActor(t, store, acme, entity.RoleCompanyAdmin)
	store.addUser(&entity.User{PhoneNumber: "0911111111", CompanyID: &acme.ID, Role: entity.RoleViewer, IsActive: true})
	store.addUser(&entity.User{PhoneNumber: "0922222222", CompanyID: &rival.ID, Role: entity.RoleViewer, IsActive: true})

	output, err := users.ListUsers(context.Background(), actor, usecase.ListUsersInput{Limit: 10})
	require.NoError(t, err)

	assert.Equal(t, int64(2), output.Total) // actor plus the one colleague
	for _, user := range output.Users {
		require.NotNil(t, user.CompanyID)
		assert.Equal(t, acme.ID, *user.CompanyID)
	}
}

func TestListUsersAdminSeesAll(t *testing.T) {
	store := newFakeStore()
	users := NewUserService(store, fakeHasher{}, discardLogger())
	acme := store.addCompany(&entity.Company{Name: "Acme", IsActive: true})
	actor := adminActor(t, store)
	store.addUser(&entity.User{PhoneNumber: "0911111111", CompanyID: &acme.ID, Role: entity.RoleViewer, IsActive: true})

	output, err := users.ListUsers(context.Background(), actor, usecase.ListUsersInput{Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(2), output.Total)
}

func TestUpdateUserDeactivationRevokesSessions(t *testing.T) {
	store := newFakeStore()
	users := NewUserService(store, fakeHasher{}, discardLogger())
	company := store.addCompany(&entity.Company{Name: "Acme", IsActive: true})
	actor := adminActor(t, store)
	target := store.addUser(&entity.User{
		PhoneNumber: "0911111111", CompanyID: &company.ID,
		Role: entity.RoleViewer, IsActive: true,
	})
	require.NoError(t, store.NewRefreshTokenRepository().Create(context.Background(), &entity.RefreshToken{
		UserID: target.ID, TokenID: "tid-live", TokenHash: "digest:x",
	}))

	inactive := false
	updated, err := users.UpdateUser(context.Background(), actor, target.ID, usecase.UpdateUserInput{
		IsActive: &inactive,
	})
	require.NoError(t, err)

	assert.False(t, updated.IsActive)
	assert.Equal(t, 0, store.activeTokensFor(target.ID))
}

func TestUpdateUserRoleChangeIsAdminOnly(t *testing.T) {
	store := newFakeStore()
	users := NewUserService(store, fakeHasher{}, discardLogger())
	company := store.addCompany(&entity.Company{Name: "Acme", IsActive: true})
	actor := memberActor(t, store, company, entity.RoleCompanyAdmin)
	target := store.addUser(&entity.User{
		PhoneNumber: "0911111111", CompanyID: &company.ID,
		Role: entity.RoleViewer, IsActive: true,
	})

	newRole := entity.RoleAccountant
	_, err := users.UpdateUser(context.Background(), actor, target.ID, usecase.UpdateUserInput{
		Role: &newRole,
	})
	assert.ErrorIs(t, err, domainerrors.ErrForbidden)

	// Profile edits within the company remain allowed.
	newName := "Renamed"
	updated, err := users.UpdateUser(context.Background(), actor, target.ID, usecase.UpdateUserInput{
		Name: &newName,
	})
	require.NoError(t, err)
	assert.Equal(t, "Renamed", updated.Name)
}

func TestDeleteUserRemovesSessions(t *testing.T) {
	store := newFakeStore()
	users := NewUserService(store, fakeHasher{}, discardLogger())
	company := store.addCompany(&entity.Company{Name: "Acme", IsActive: true})
	actor := adminActor(t, store)
	target := store.addUser(&entity.User{
		PhoneNumber: "0911111111", CompanyID: &company.ID,
		Role: entity.RoleViewer, IsActive: true,
	})
	require.NoError(t, store.NewRefreshTokenRepository().Create(context.Background(), &entity.RefreshToken{
		UserID: target.ID, TokenID: "tid-live", TokenHash: "digest:x",
	}))

	require.NoError(t, users.DeleteUser(context.Background(), actor, target.ID))

	_, err := store.NewUserRepository().FindByID(context.Background(), target.ID)
	assert.Error(t, err)
	assert.Empty(t, store.tokens)
}

func TestDeleteUserSelfDenied(t *testing.T) {
	store := newFakeStore()
	users := NewUserService(store, fakeHasher{}, discardLogger())
	actor := adminActor(t, store)

	err := users.DeleteUser(context.Background(), actor, actor.User.ID)
	require.Error(t, err)
	assert.Equal(t, "VALIDATION_FAILED", errorCode(t, err))
}

func TestChangePasswordVerifiesCurrent(t *testing.T) {
	store := newFakeStore()
	users := NewUserService(store, fakeHasher{}, discardLogger())
	company := store.addCompany(&entity.Company{Name: "Acme", IsActive: true})
	actor := memberActor(t, store, company, entity.RoleViewer)

	err := users.ChangePassword(context.Background(), actor, usecase.ChangePasswordInput{
		CurrentPassword: "WrongPass1",
		NewPassword:     "BrandNewPass1",
	})
	assert.ErrorIs(t, err, domainerrors.ErrInvalidCredentials)
}

func TestChangePasswordRevokesAllSessions(t *testing.T) {
	store := newFakeStore()
	users := NewUserService(store, fakeHasher{}, discardLogger())
	company := store.addCompany(&entity.Company{Name: "Acme", IsActive: true})
	actor := memberActor(t, store, company, entity.RoleViewer)
	require.NoError(t, store.NewRefreshTokenRepository().Create(context.Background(), &entity.RefreshToken{
		UserID: actor.User.ID, TokenID: "tid-live", TokenHash: "digest:x",
	}))

	err := users.ChangePassword(context.Background(), actor, usecase.ChangePasswordInput{
		CurrentPassword: "MemberPass1",
		NewPassword:     "BrandNewPass1",
	})
	require.NoError(t, err)

	stored, err := store.NewUserRepository().FindByID(context.Background(), actor.User.ID)
	require.NoError(t, err)
	assert.Equal(t, "hashed:BrandNewPass1", stored.PasswordHash)
	assert.Equal(t, 0, store.activeTokensFor(actor.User.ID))
}
