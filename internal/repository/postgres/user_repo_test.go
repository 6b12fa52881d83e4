package postgres_test

import (
	"context"
	"testing"

	"github.com/dom/auth-starter/internal/domain"
	"github.com/dom/auth-starter/internal/repository/postgres"
	"github.com/dom/auth-starter/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func TestUserRepository_Create(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repo := postgres.NewUserRepository(testDB.DB)
	ctx := context.Background()

	tests := []struct {
		name    string
		user    *domain.User
		wantErr error
	}{
		{
			name: "successful creation",
			user: &domain.User{
				Name:         "Alice",
				Email:        "Alice@Example.com",
				PasswordHash: strPtr("hashedpassword"),
				IsActive:     true,
			},
		},
		{
			name: "duplicate email in another case",
			user: &domain.User{
				Name:         "Alice Again",
				Email:        "alice@example.COM",
				PasswordHash: strPtr("hashedpassword2"),
				IsActive:     true,
			},
			wantErr: domain.ErrEmailTaken,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := repo.Create(ctx, tt.user)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.NotZero(t, tt.user.ID)
			assert.Equal(t, "alice@example.com", tt.user.Email)
			assert.Equal(t, domain.RoleUser, tt.user.Role)
		})
	}
}

func TestUserRepository_GetByEmail(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repo := postgres.NewUserRepository(testDB.DB)
	ctx := context.Background()

	active, _ := testutil.NewUserBuilder().WithEmail("bob@example.com").Build(t, testDB.DB)
	testutil.NewUserBuilder().WithEmail("gone@example.com").Deleted().Build(t, testDB.DB)

	tests := []struct {
		name    string
		email   string
		wantID  uint
		wantErr error
	}{
		{name: "exact match", email: "bob@example.com", wantID: active.ID},
		{name: "case and whitespace insensitive", email: "  BOB@example.com ", wantID: active.ID},
		{name: "unknown email", email: "nobody@example.com", wantErr: domain.ErrUserNotFound},
		{name: "soft deleted user is hidden", email: "gone@example.com", wantErr: domain.ErrUserNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			user, err := repo.GetByEmail(ctx, tt.email)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantID, user.ID)
		})
	}
}

func TestUserRepository_GetByID(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repo := postgres.NewUserRepository(testDB.DB)
	ctx := context.Background()

	user, _ := testutil.NewUserBuilder().WithName("Carol").Build(t, testDB.DB)

	found, err := repo.GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "Carol", found.Name)
	assert.True(t, found.HasPassword())

	_, err = repo.GetByID(ctx, user.ID+1000)
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestUserRepository_SetResetToken(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repo := postgres.NewUserRepository(testDB.DB)
	ctx := context.Background()

	user, _ := testutil.NewUserBuilder().Build(t, testDB.DB)

	require.NoError(t, repo.SetResetToken(ctx, user.ID, strPtr("reset-token")))
	found, err := repo.GetByID(ctx, user.ID)
	require.NoError(t, err)
	require.NotNil(t, found.ResetToken)
	assert.Equal(t, "reset-token", *found.ResetToken)

	require.NoError(t, repo.SetResetToken(ctx, user.ID, nil))
	found, err = repo.GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Nil(t, found.ResetToken)
}

func TestUserRepository_Update(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repo := postgres.NewUserRepository(testDB.DB)
	ctx := context.Background()

	user, _ := testutil.NewUserBuilder().Build(t, testDB.DB)

	user.IsEmailVerified = true
	user.IsActive = false
	require.NoError(t, repo.Update(ctx, user))

	found, err := repo.GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.True(t, found.IsEmailVerified)
	assert.False(t, found.IsActive)
}
