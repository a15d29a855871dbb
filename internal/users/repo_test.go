package users

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/samuelezeh/ecommapp-backend/pkg/config"
	"github.com/samuelezeh/ecommapp-backend/pkg/db"
	"github.com/samuelezeh/ecommapp-backend/pkg/db/models"
)

const testSchema = `
CREATE TABLE users (
    id TEXT PRIMARY KEY,
    username TEXT NOT NULL UNIQUE,
    password_hash TEXT NOT NULL DEFAULT '',
    is_active INTEGER NOT NULL DEFAULT 1,
    is_staff INTEGER NOT NULL DEFAULT 0,
    is_superuser INTEGER NOT NULL DEFAULT 0,
    created_at DATETIME NOT NULL,
    updated_at DATETIME NOT NULL
);
CREATE TABLE user_profiles (
    id TEXT PRIMARY KEY,
    user_id TEXT NOT NULL UNIQUE REFERENCES users(id) ON DELETE CASCADE,
    first_name TEXT NOT NULL DEFAULT '',
    last_name TEXT NOT NULL DEFAULT '',
    email TEXT,
    phone TEXT,
    address TEXT,
    birth_date DATE,
    created_at DATETIME NOT NULL,
    updated_at DATETIME NOT NULL
);
`

func openTestDB(t *testing.T) *db.Client {
	t.Helper()

	dsn := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared&_foreign_keys=on", t.Name(), time.Now().UnixNano())
	client, err := db.New(context.Background(), config.DBConfig{Driver: "sqlite", DSN: dsn}, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	require.NoError(t, client.DB().Exec("PRAGMA foreign_keys = ON").Error)
	require.NoError(t, client.DB().Exec(testSchema).Error)
	return client
}

func TestRepositoryCreateAndFind(t *testing.T) {
	client := openTestDB(t)
	repo := NewRepository(client.DB())
	ctx := context.Background()

	user, err := repo.Create(ctx, CreateUserDTO{Username: "ada", PasswordHash: "hash"})
	require.NoError(t, err)
	require.NotEqual(t, uuid.Nil, user.ID)
	assert.True(t, user.IsActive)
	assert.False(t, user.IsStaff)

	require.NoError(t, repo.CreateProfile(ctx, &models.UserProfile{UserID: user.ID}))

	found, err := repo.FindByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "ada", found.Username)
	require.NotNil(t, found.Profile)
	assert.Equal(t, user.ID, found.Profile.UserID)

	byName, err := repo.FindByUsername(ctx, "ada")
	require.NoError(t, err)
	assert.Equal(t, user.ID, byName.ID)
}

func TestRepositoryFindMissing(t *testing.T) {
	client := openTestDB(t)
	repo := NewRepository(client.DB())

	_, err := repo.FindByID(context.Background(), uuid.New())
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	_, err = repo.FindByUsername(context.Background(), "ghost")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestRepositoryDuplicateUsername(t *testing.T) {
	client := openTestDB(t)
	repo := NewRepository(client.DB())
	ctx := context.Background()

	_, err := repo.Create(ctx, CreateUserDTO{Username: "ada"})
	require.NoError(t, err)

	_, err = repo.Create(ctx, CreateUserDTO{Username: "ada"})
	require.Error(t, err)
	assert.True(t, db.IsUniqueViolation(err, "users_username_key"))
}

func TestRepositoryListOrdersByCreation(t *testing.T) {
	client := openTestDB(t)
	repo := NewRepository(client.DB())
	ctx := context.Background()

	for _, name := range []string{"first", "second", "third"} {
		_, err := repo.Create(ctx, CreateUserDTO{Username: name})
		require.NoError(t, err)
	}

	rows, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "first", rows[0].Username)
	assert.Equal(t, "third", rows[2].Username)
}

func TestRepositoryDelete(t *testing.T) {
	client := openTestDB(t)
	repo := NewRepository(client.DB())
	ctx := context.Background()

	user, err := repo.Create(ctx, CreateUserDTO{Username: "ada"})
	require.NoError(t, err)
	require.NoError(t, repo.CreateProfile(ctx, &models.UserProfile{UserID: user.ID}))

	require.NoError(t, repo.Delete(ctx, user.ID))
	assert.ErrorIs(t, repo.Delete(ctx, user.ID), gorm.ErrRecordNotFound)

	// Cascade removes the profile row too.
	_, err = repo.FindProfileByUserID(ctx, user.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}
