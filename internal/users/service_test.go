package users

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/samuelezeh/ecommapp-backend/pkg/config"
	pkgerrors "github.com/samuelezeh/ecommapp-backend/pkg/errors"
	"github.com/samuelezeh/ecommapp-backend/pkg/security"
)

func fastPasswordConfig() config.PasswordConfig {
	return config.PasswordConfig{
		ArgonMemoryKB:    8,
		ArgonTime:        1,
		ArgonParallelism: 1,
		ArgonSaltLen:     8,
		ArgonKeyLen:      16,
	}
}

func newTestService(t *testing.T) Service {
	t.Helper()

	svc, err := NewService(ServiceParams{
		DB:             openTestDB(t),
		PasswordConfig: fastPasswordConfig(),
	})
	require.NoError(t, err)
	return svc
}

func assertErrorCode(t *testing.T, err error, code pkgerrors.Code) {
	t.Helper()
	require.Error(t, err)
	appErr := pkgerrors.As(err)
	require.NotNil(t, appErr, "expected coded error, got %v", err)
	assert.Equal(t, code, appErr.Code())
}

func TestNewServiceRequiresDB(t *testing.T) {
	_, err := NewService(ServiceParams{})
	require.Error(t, err)
}

func TestCreateUserCreatesProfile(t *testing.T) {
	svc := newTestService(t)

	user, err := svc.CreateUser(context.Background(), CreateUserInput{
		Username: "ada",
		Password: "sw0rdfish",
	})
	require.NoError(t, err)
	assert.Equal(t, "ada", user.Username)
	assert.True(t, user.IsActive)
	assert.False(t, user.IsStaff)
	assert.False(t, user.IsSuperuser)
	require.NotNil(t, user.Profile)
	assert.Empty(t, user.Profile.FirstName)
	assert.Nil(t, user.Profile.Email)
}

func TestCreateUserHashesPassword(t *testing.T) {
	svc := newTestService(t).(*service)

	created, err := svc.CreateUser(context.Background(), CreateUserInput{
		Username: "ada",
		Password: "sw0rdfish",
	})
	require.NoError(t, err)

	stored, err := NewRepository(svc.db.DB()).FindByID(context.Background(), created.ID)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(stored.PasswordHash, "$argon2id$"))

	ok, err := security.VerifyPassword("sw0rdfish", stored.PasswordHash)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestCreateUserWithoutPassword(t *testing.T) {
	svc := newTestService(t)

	user, err := svc.CreateUser(context.Background(), CreateUserInput{Username: "ada"})
	require.NoError(t, err)
	assert.Equal(t, "ada", user.Username)
}

func TestCreateUserRejectsBlankUsername(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.CreateUser(context.Background(), CreateUserInput{Username: "   "})
	assertErrorCode(t, err, pkgerrors.CodeValidation)
}

func TestCreateUserRejectsDuplicateUsername(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	_, err := svc.CreateUser(ctx, CreateUserInput{Username: "ada"})
	require.NoError(t, err)

	_, err = svc.CreateUser(ctx, CreateUserInput{Username: "ada"})
	assertErrorCode(t, err, pkgerrors.CodeValidation)
}

func TestCreateUserWithProfileFields(t *testing.T) {
	svc := newTestService(t)

	first := "Ada"
	email := "ada@example.com"
	birth := "1989-12-10"
	user, err := svc.CreateUser(context.Background(), CreateUserInput{
		Username: "ada",
		Profile: &ProfileInput{
			FirstName: &first,
			Email:     &email,
			BirthDate: &birth,
		},
	})
	require.NoError(t, err)
	require.NotNil(t, user.Profile)
	assert.Equal(t, "Ada", user.Profile.FirstName)
	require.NotNil(t, user.Profile.Email)
	assert.Equal(t, "ada@example.com", *user.Profile.Email)
	require.NotNil(t, user.Profile.BirthDate)
	assert.Equal(t, "1989-12-10", *user.Profile.BirthDate)
}

func TestCreateSuperuserForcesFlags(t *testing.T) {
	svc := newTestService(t)

	user, err := svc.CreateSuperuser(context.Background(), CreateSuperuserInput{
		Username: "root",
		Password: "sw0rdfish",
	})
	require.NoError(t, err)
	assert.True(t, user.IsStaff)
	assert.True(t, user.IsSuperuser)
}

func TestCreateSuperuserRequiresPassword(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.CreateSuperuser(context.Background(), CreateSuperuserInput{Username: "root"})
	assertErrorCode(t, err, pkgerrors.CodeValidation)
}

func TestGetUserNotFound(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.GetUser(context.Background(), uuid.New())
	assertErrorCode(t, err, pkgerrors.CodeNotFound)
}

func TestListUsers(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	for _, name := range []string{"ada", "grace"} {
		_, err := svc.CreateUser(ctx, CreateUserInput{Username: name})
		require.NoError(t, err)
	}

	users, err := svc.ListUsers(ctx)
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, "ada", users[0].Username)
	assert.Equal(t, "grace", users[1].Username)
}

func TestUpdateUserFlagsAndPassword(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	created, err := svc.CreateUser(ctx, CreateUserInput{Username: "ada", Password: "old"})
	require.NoError(t, err)

	inactive := false
	staff := true
	password := "newsecret"
	updated, err := svc.UpdateUser(ctx, created.ID, UpdateUserInput{
		Password: &password,
		IsActive: &inactive,
		IsStaff:  &staff,
	})
	require.NoError(t, err)
	assert.False(t, updated.IsActive)
	assert.True(t, updated.IsStaff)

	stored, err := NewRepository(svc.(*service).db.DB()).FindByID(ctx, created.ID)
	require.NoError(t, err)
	ok, err := security.VerifyPassword("newsecret", stored.PasswordHash)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestUpdateUserNotFound(t *testing.T) {
	svc := newTestService(t)

	active := false
	_, err := svc.UpdateUser(context.Background(), uuid.New(), UpdateUserInput{IsActive: &active})
	assertErrorCode(t, err, pkgerrors.CodeNotFound)
}

func TestDeleteUser(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	created, err := svc.CreateUser(ctx, CreateUserInput{Username: "ada"})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteUser(ctx, created.ID))

	err = svc.DeleteUser(ctx, created.ID)
	assertErrorCode(t, err, pkgerrors.CodeNotFound)
}

func TestUpdateProfilePartialPatch(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	created, err := svc.CreateUser(ctx, CreateUserInput{Username: "ada"})
	require.NoError(t, err)

	first := "Ada"
	last := "Lovelace"
	updated, err := svc.UpdateProfile(ctx, created.ID, ProfileInput{FirstName: &first, LastName: &last})
	require.NoError(t, err)
	require.NotNil(t, updated.Profile)
	assert.Equal(t, "Ada", updated.Profile.FirstName)

	// A later patch leaves untouched fields alone.
	phone := "+15551234567"
	updated, err = svc.UpdateProfile(ctx, created.ID, ProfileInput{Phone: &phone})
	require.NoError(t, err)
	assert.Equal(t, "Ada", updated.Profile.FirstName)
	assert.Equal(t, "Lovelace", updated.Profile.LastName)
	require.NotNil(t, updated.Profile.Phone)
	assert.Equal(t, "+15551234567", *updated.Profile.Phone)
}

func TestUpdateProfileRejectsBadBirthDate(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	created, err := svc.CreateUser(ctx, CreateUserInput{Username: "ada"})
	require.NoError(t, err)

	bad := "12/10/1989"
	_, err = svc.UpdateProfile(ctx, created.ID, ProfileInput{BirthDate: &bad})
	assertErrorCode(t, err, pkgerrors.CodeValidation)
}
