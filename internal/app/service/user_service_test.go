package service

import (
	"context"
	"testing"

	"github.com/ikkim/verification-backend/internal/app/domain"
	"github.com/ikkim/verification-backend/internal/app/repository"
	"github.com/ikkim/verification-backend/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupUserServiceTest(t *testing.T) (UserService, repository.UserRepository) {
	t.Helper()
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() { db.CleanupTestDB(testDB) })

	users := repository.NewUserRepository(testDB)
	return NewUserService(users), users
}

func TestUserService_ChangeRole(t *testing.T) {
	svc, users := setupUserServiceTest(t)
	ctx := context.Background()
	user := createTestUser(t, users, "user@example.com", domain.RoleUser)

	promoted, err := svc.ChangeRole(ctx, user.ID().String(), "ADMIN")
	require.NoError(t, err)
	assert.True(t, promoted.IsAdmin())
	assert.False(t, promoted.UpdatedAt().Before(user.UpdatedAt()))

	stored, err := users.FindByID(ctx, user.ID())
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.True(t, stored.IsAdmin())

	tests := []struct {
		name    string
		userID  string
		role    string
		wantErr error
	}{
		{name: "unknown role", userID: user.ID().String(), role: "ROOT"},
		{name: "unknown user", userID: "9999", role: "USER", wantErr: ErrUserNotFound},
		{name: "empty id", userID: "", role: "USER"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.ChangeRole(ctx, tt.userID, tt.role)
			require.Error(t, err)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.True(t, domain.IsValidationError(err))
			}
		})
	}
}

func TestUserService_ChangeName(t *testing.T) {
	svc, users := setupUserServiceTest(t)
	ctx := context.Background()
	user := createTestUser(t, users, "user@example.com", domain.RoleUser)

	renamed, err := svc.ChangeName(ctx, user.ID().String(), "New Name")
	require.NoError(t, err)
	assert.Equal(t, "New Name", renamed.Name())

	_, err = svc.ChangeName(ctx, user.ID().String(), "")
	require.Error(t, err)
	assert.Equal(t, domain.MsgNameEmpty, err.Error())

	all, err := svc.ListUsers(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "New Name", all[0].Name())
}
