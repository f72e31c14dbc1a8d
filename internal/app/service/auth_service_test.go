package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ikkim/verification-backend/internal/app/domain"
	"github.com/ikkim/verification-backend/internal/app/repository"
	"github.com/ikkim/verification-backend/internal/db"
	"github.com/ikkim/verification-backend/pkg/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const testJWTSecret = "test-jwt-secret"

type mockRevoker struct {
	mock.Mock
}

func (m *mockRevoker) Revoke(ctx context.Context, token string, expiry time.Duration) error {
	args := m.Called(ctx, token, expiry)
	return args.Error(0)
}

func (m *mockRevoker) IsRevoked(ctx context.Context, token string) (bool, error) {
	args := m.Called(ctx, token)
	return args.Bool(0), args.Error(1)
}

func setupAuthServiceTest(t *testing.T, revoker TokenRevoker) (AuthService, repository.UserRepository) {
	t.Helper()
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() { db.CleanupTestDB(testDB) })

	userRepo := repository.NewUserRepository(testDB)
	authService := NewAuthService(
		userRepo,
		revoker,
		testJWTSecret,
		15*time.Minute,
		7*24*time.Hour,
	)
	return authService, userRepo
}

func TestAuthService_Register(t *testing.T) {
	authService, _ := setupAuthServiceTest(t, nil)
	ctx := context.Background()

	tests := []struct {
		name      string
		email     string
		password  string
		userName  string
		wantErr   error
		wantValid bool
	}{
		{
			name:     "Valid registration",
			email:    "test@example.com",
			password: "password123",
			userName: "Test User",
		},
		{
			name:     "Duplicate email",
			email:    "test@example.com",
			password: "password456",
			userName: "Another User",
			wantErr:  ErrEmailAlreadyExists,
		},
		{
			name:      "Invalid email",
			email:     "not-an-email",
			password:  "password123",
			userName:  "Test User",
			wantValid: true,
		},
		{
			name:      "Empty name",
			email:     "noname@example.com",
			password:  "password123",
			userName:  "",
			wantValid: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			user, err := authService.Register(ctx, tt.email, tt.password, tt.userName, domain.RoleUser)

			switch {
			case tt.wantErr != nil:
				assert.ErrorIs(t, err, tt.wantErr)
			case tt.wantValid:
				require.Error(t, err)
				assert.True(t, domain.IsValidationError(err))
			default:
				require.NoError(t, err)
				assert.Equal(t, tt.email, user.Email().String())
				assert.Equal(t, tt.userName, user.Name())
				assert.Equal(t, domain.RoleUser, user.Role())
				assert.NotEqual(t, "0", user.ID().String())
			}
		})
	}
}

func TestAuthService_Login(t *testing.T) {
	authService, userRepo := setupAuthServiceTest(t, nil)
	ctx := context.Background()

	email := "test@example.com"
	password := "password123"
	_, err := authService.Register(ctx, email, password, "Test User", domain.RoleAdmin)
	require.NoError(t, err)

	tests := []struct {
		name     string
		email    string
		password string
		wantErr  error
	}{
		{name: "Valid login", email: email, password: password},
		{name: "Wrong password", email: email, password: "wrongpassword", wantErr: ErrInvalidCredentials},
		{name: "Non-existing user", email: "notfound@example.com", password: password, wantErr: ErrInvalidCredentials},
		{name: "Malformed email", email: "nobody", password: password, wantErr: ErrInvalidCredentials},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			user, tokens, err := authService.Login(ctx, tt.email, tt.password)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, tokens)
				return
			}
			require.NoError(t, err)
			require.NotNil(t, tokens)
			assert.Equal(t, tt.email, user.Email().String())

			claims, err := util.ValidateToken(tokens.AccessToken, testJWTSecret)
			require.NoError(t, err)
			assert.Equal(t, user.ID().String(), claims.UserID)
			assert.Equal(t, "ADMIN", claims.Role)
			assert.Equal(t, util.TokenTypeAccess, claims.TokenType)
		})
	}

	t.Run("Password is stored hashed", func(t *testing.T) {
		addr, err := domain.NewEmail(email)
		require.NoError(t, err)
		_, hash, err := userRepo.FindCredentials(ctx, addr)
		require.NoError(t, err)
		assert.NotEqual(t, password, hash)
		assert.Contains(t, hash, "$2a$")
	})
}

func TestAuthService_GetCurrentUser(t *testing.T) {
	authService, _ := setupAuthServiceTest(t, nil)
	ctx := context.Background()

	user, err := authService.Register(ctx, "test@example.com", "password123", "Test User", domain.RoleUser)
	require.NoError(t, err)

	found, err := authService.GetCurrentUser(ctx, user.ID().String())
	require.NoError(t, err)
	assert.Equal(t, user.Email(), found.Email())
	assert.Equal(t, user.Name(), found.Name())

	_, err = authService.GetCurrentUser(ctx, "9999")
	assert.ErrorIs(t, err, ErrUserNotFound)

	_, err = authService.GetCurrentUser(ctx, "")
	assert.True(t, domain.IsValidationError(err))
}

func TestAuthService_Logout(t *testing.T) {
	revoker := new(mockRevoker)
	authService, _ := setupAuthServiceTest(t, revoker)
	ctx := context.Background()

	_, err := authService.Register(ctx, "test@example.com", "password123", "Test User", domain.RoleUser)
	require.NoError(t, err)
	_, tokens, err := authService.Login(ctx, "test@example.com", "password123")
	require.NoError(t, err)

	revoker.On("Revoke", mock.Anything, tokens.AccessToken, mock.MatchedBy(func(d time.Duration) bool {
		return d > 0 && d <= 15*time.Minute
	})).Return(nil).Once()

	require.NoError(t, authService.Logout(ctx, tokens.AccessToken))
	revoker.AssertExpectations(t)

	t.Run("Invalid token", func(t *testing.T) {
		err := authService.Logout(ctx, "garbage")
		assert.ErrorIs(t, err, util.ErrInvalidToken)
	})

	t.Run("Revoker failure", func(t *testing.T) {
		failing := new(mockRevoker)
		failing.On("Revoke", mock.Anything, mock.Anything, mock.Anything).Return(errors.New("redis down"))
		svc, _ := setupAuthServiceTest(t, failing)

		_, err := svc.Register(ctx, "other@example.com", "password123", "Other", domain.RoleUser)
		require.NoError(t, err)
		_, pair, err := svc.Login(ctx, "other@example.com", "password123")
		require.NoError(t, err)

		assert.Error(t, svc.Logout(ctx, pair.AccessToken))
	})
}
