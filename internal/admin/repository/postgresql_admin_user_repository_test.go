package repository

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	adminDomain "github.com/farmapp/licensing/internal/admin/domain"
	"github.com/farmapp/licensing/internal/testutil"
)

func newTestAdminUser(username string) *adminDomain.AdminUser {
	return &adminDomain.AdminUser{
		ID:           uuid.Must(uuid.NewV7()),
		Username:     username,
		PasswordHash: "$argon2id$v=19$m=65536,t=1,p=4$c2FsdA$aGFzaA",
		CreatedAt:    time.Now().UTC(),
	}
}

func TestNewPostgreSQLAdminUserRepository(t *testing.T) {
	testutil.SkipIfNoPostgres(t)

	db := testutil.SetupPostgresDB(t)
	defer testutil.TeardownDB(t, db)

	repo := NewPostgreSQLAdminUserRepository(db)
	assert.NotNil(t, repo)
	assert.IsType(t, &PostgreSQLAdminUserRepository{}, repo)
}

func TestPostgreSQLAdminUserRepository_Create(t *testing.T) {
	testutil.SkipIfNoPostgres(t)

	db := testutil.SetupPostgresDB(t)
	defer testutil.TeardownDB(t, db)
	defer testutil.CleanupPostgresDB(t, db)

	repo := NewPostgreSQLAdminUserRepository(db)
	ctx := context.Background()

	user := newTestAdminUser("operator")
	err := repo.Create(ctx, user)
	require.NoError(t, err)

	read, err := repo.GetByUsername(ctx, "operator")
	require.NoError(t, err)

	assert.Equal(t, user.ID, read.ID)
	assert.Equal(t, user.Username, read.Username)
	assert.Equal(t, user.PasswordHash, read.PasswordHash)
	assert.WithinDuration(t, user.CreatedAt, read.CreatedAt, time.Second)
}

func TestPostgreSQLAdminUserRepository_Create_DuplicateUsername(t *testing.T) {
	testutil.SkipIfNoPostgres(t)

	db := testutil.SetupPostgresDB(t)
	defer testutil.TeardownDB(t, db)
	defer testutil.CleanupPostgresDB(t, db)

	repo := NewPostgreSQLAdminUserRepository(db)
	ctx := context.Background()

	err := repo.Create(ctx, newTestAdminUser("operator"))
	require.NoError(t, err)

	err = repo.Create(ctx, newTestAdminUser("operator"))
	assert.ErrorIs(t, err, adminDomain.ErrAdminExists)
}

func TestPostgreSQLAdminUserRepository_GetByUsername_NotFound(t *testing.T) {
	testutil.SkipIfNoPostgres(t)

	db := testutil.SetupPostgresDB(t)
	defer testutil.TeardownDB(t, db)
	defer testutil.CleanupPostgresDB(t, db)

	repo := NewPostgreSQLAdminUserRepository(db)

	user, err := repo.GetByUsername(context.Background(), "nobody")
	assert.Nil(t, user)
	assert.ErrorIs(t, err, adminDomain.ErrAdminNotFound)
}
