package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/verification-backend/internal/app/domain"
	apperrors "github.com/ikkim/verification-backend/internal/errors"
	"github.com/ikkim/verification-backend/pkg/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testJWTSecret = "test-jwt-secret-for-middleware"

type stubRevocations struct {
	revoked map[string]bool
	err     error
}

func (s stubRevocations) IsRevoked(_ context.Context, token string) (bool, error) {
	return s.revoked[token], s.err
}

func setupMiddlewareTest(revoked RevocationChecker) (*gin.Engine, *AuthMiddleware) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	middleware := NewAuthMiddleware(testJWTSecret, revoked)
	return router, middleware
}

func generateTestTokens(t *testing.T, userID, email, role string) *util.TokenPair {
	tokens, err := util.GenerateTokenPair(
		userID,
		email,
		role,
		testJWTSecret,
		15*time.Minute,
		7*24*time.Hour,
	)
	require.NoError(t, err)
	return tokens
}

func generateTestToken(t *testing.T, userID, email, role string) string {
	return generateTestTokens(t, userID, email, role).AccessToken
}

func TestAuthMiddleware_Authenticate_Success(t *testing.T) {
	router, authMiddleware := setupMiddlewareTest(nil)

	token := generateTestToken(t, "1", "test@example.com", "USER")

	router.GET("/test", authMiddleware.Authenticate(), func(c *gin.Context) {
		userID, _ := GetUserID(c)
		email, _ := GetUserEmail(c)
		role, _ := GetUserRole(c)
		raw, _ := GetAccessToken(c)

		c.JSON(http.StatusOK, gin.H{
			"user_id": userID,
			"email":   email,
			"role":    role,
			"same":    raw == token,
		})
	})

	req := httptest.NewRequest("GET", "/test", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"user_id":"1","email":"test@example.com","role":"USER","same":true}`, w.Body.String())
}

func TestAuthMiddleware_Authenticate_NoToken(t *testing.T) {
	router, authMiddleware := setupMiddlewareTest(nil)

	router.GET("/test", authMiddleware.Authenticate(), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "success"})
	})

	req := httptest.NewRequest("GET", "/test", nil)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), apperrors.AuthUnauthorized)
}

func TestAuthMiddleware_Authenticate_InvalidFormat(t *testing.T) {
	router, authMiddleware := setupMiddlewareTest(nil)

	router.GET("/test", authMiddleware.Authenticate(), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "success"})
	})

	tests := []struct {
		name   string
		header string
	}{
		{
			name:   "Missing Bearer prefix",
			header: "invalid-token",
		},
		{
			name:   "Wrong prefix",
			header: "Basic token123",
		},
		{
			name:   "Empty token",
			header: "Bearer ",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/test", nil)
			req.Header.Set("Authorization", tt.header)
			w := httptest.NewRecorder()

			router.ServeHTTP(w, req)

			assert.Equal(t, http.StatusUnauthorized, w.Code)
		})
	}
}

func TestAuthMiddleware_Authenticate_InvalidToken(t *testing.T) {
	router, authMiddleware := setupMiddlewareTest(nil)

	router.GET("/test", authMiddleware.Authenticate(), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "success"})
	})

	tests := []struct {
		name  string
		token string
	}{
		{name: "Malformed token", token: "invalid.jwt.token"},
		{name: "Refresh token", token: generateTestTokens(t, "1", "a@example.com", "USER").RefreshToken},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/test", nil)
			req.Header.Set("Authorization", "Bearer "+tt.token)
			w := httptest.NewRecorder()

			router.ServeHTTP(w, req)

			assert.Equal(t, http.StatusUnauthorized, w.Code)
			assert.Contains(t, w.Body.String(), apperrors.AuthTokenInvalid)
		})
	}
}

func TestAuthMiddleware_Authenticate_Revoked(t *testing.T) {
	revokedToken := generateTestToken(t, "1", "a@example.com", "USER")

	tests := []struct {
		name           string
		checker        RevocationChecker
		expectedStatus int
	}{
		{
			name:           "Revoked token",
			checker:        stubRevocations{revoked: map[string]bool{revokedToken: true}},
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "Blacklist unavailable",
			checker:        stubRevocations{err: errors.New("redis down")},
			expectedStatus: http.StatusOK,
		},
		{
			name:           "Not revoked",
			checker:        stubRevocations{revoked: map[string]bool{}},
			expectedStatus: http.StatusOK,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router, authMiddleware := setupMiddlewareTest(tt.checker)
			router.GET("/test", authMiddleware.Authenticate(), func(c *gin.Context) {
				c.Status(http.StatusOK)
			})

			req := httptest.NewRequest("GET", "/test", nil)
			req.Header.Set("Authorization", "Bearer "+revokedToken)
			w := httptest.NewRecorder()

			router.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
		})
	}
}

func TestAuthMiddleware_RequireRole(t *testing.T) {
	router, authMiddleware := setupMiddlewareTest(nil)

	router.GET("/admin",
		authMiddleware.Authenticate(),
		authMiddleware.RequireRole(domain.RoleAdmin),
		func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"message": "admin access granted"})
		},
	)

	tests := []struct {
		name           string
		role           string
		expectedStatus int
	}{
		{name: "Admin role", role: "ADMIN", expectedStatus: http.StatusOK},
		{name: "User role", role: "USER", expectedStatus: http.StatusForbidden},
		{name: "Lowercase admin", role: "admin", expectedStatus: http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token := generateTestToken(t, "1", "test@example.com", tt.role)

			req := httptest.NewRequest("GET", "/admin", nil)
			req.Header.Set("Authorization", "Bearer "+token)
			w := httptest.NewRecorder()

			router.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.expectedStatus == http.StatusForbidden {
				assert.Contains(t, w.Body.String(), apperrors.AuthzAdminOnly)
			}
		})
	}
}

func TestAuthMiddleware_RequireRole_MultipleRoles(t *testing.T) {
	router, authMiddleware := setupMiddlewareTest(nil)

	router.GET("/any",
		authMiddleware.Authenticate(),
		authMiddleware.RequireRole(domain.RoleAdmin, domain.RoleUser),
		func(c *gin.Context) {
			c.Status(http.StatusOK)
		},
	)

	for _, role := range []string{"ADMIN", "USER"} {
		t.Run(role, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/any", nil)
			req.Header.Set("Authorization", "Bearer "+generateTestToken(t, "7", "x@example.com", role))
			w := httptest.NewRecorder()

			router.ServeHTTP(w, req)

			assert.Equal(t, http.StatusOK, w.Code)
		})
	}
}

type stubRoles struct {
	users map[string]domain.UserRole
	err   error
}

func (s stubRoles) FindByID(_ context.Context, id domain.UserID) (*domain.User, error) {
	if s.err != nil {
		return nil, s.err
	}
	role, ok := s.users[id.String()]
	if !ok {
		return nil, nil
	}
	email, err := domain.NewEmail("stored@example.com")
	if err != nil {
		return nil, err
	}
	now := domain.Now()
	user, err := domain.NewUser(domain.UserProps{
		ID:        id,
		Email:     email,
		Name:      "Stored",
		Role:      role,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func TestAuthMiddleware_RequireRole_StoredRole(t *testing.T) {
	tests := []struct {
		name           string
		roles          RoleSource
		tokenRole      string
		expectedStatus int
		expectedCode   string
	}{
		{
			name:           "Demoted after token was issued",
			roles:          stubRoles{users: map[string]domain.UserRole{"1": domain.RoleUser}},
			tokenRole:      "ADMIN",
			expectedStatus: http.StatusForbidden,
			expectedCode:   apperrors.AuthzAdminOnly,
		},
		{
			name:           "Promoted after token was issued",
			roles:          stubRoles{users: map[string]domain.UserRole{"1": domain.RoleAdmin}},
			tokenRole:      "USER",
			expectedStatus: http.StatusOK,
		},
		{
			name:           "User deleted",
			roles:          stubRoles{users: map[string]domain.UserRole{}},
			tokenRole:      "ADMIN",
			expectedStatus: http.StatusForbidden,
			expectedCode:   apperrors.AuthzForbidden,
		},
		{
			name:           "Lookup fails",
			roles:          stubRoles{err: errors.New("db down")},
			tokenRole:      "ADMIN",
			expectedStatus: http.StatusInternalServerError,
			expectedCode:   apperrors.InternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router, authMiddleware := setupMiddlewareTest(nil)
			authMiddleware.WithRoleSource(tt.roles)
			router.GET("/admin",
				authMiddleware.Authenticate(),
				authMiddleware.RequireRole(domain.RoleAdmin),
				func(c *gin.Context) {
					c.Status(http.StatusOK)
				},
			)

			req := httptest.NewRequest("GET", "/admin", nil)
			req.Header.Set("Authorization", "Bearer "+generateTestToken(t, "1", "test@example.com", tt.tokenRole))
			w := httptest.NewRecorder()

			router.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.expectedCode != "" {
				assert.Contains(t, w.Body.String(), tt.expectedCode)
			}
		})
	}
}

func TestAuthMiddleware_RequireRole_WithoutAuthenticate(t *testing.T) {
	router, authMiddleware := setupMiddlewareTest(nil)
	router.GET("/admin", authMiddleware.RequireRole(domain.RoleAdmin), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest("GET", "/admin", nil)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), apperrors.AuthzForbidden)
}

func TestGetUserID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())

	userID, exists := GetUserID(c)
	assert.False(t, exists)
	assert.Empty(t, userID)

	c.Set(UserIDKey, "123")
	userID, exists = GetUserID(c)
	assert.True(t, exists)
	assert.Equal(t, "123", userID)
}

func TestGetUserEmail(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())

	email, exists := GetUserEmail(c)
	assert.False(t, exists)
	assert.Empty(t, email)

	c.Set(UserEmailKey, "test@example.com")
	email, exists = GetUserEmail(c)
	assert.True(t, exists)
	assert.Equal(t, "test@example.com", email)
}

func TestGetUserRole(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())

	role, exists := GetUserRole(c)
	assert.False(t, exists)
	assert.Empty(t, role)

	c.Set(UserRoleKey, "ADMIN")
	role, exists = GetUserRole(c)
	assert.True(t, exists)
	assert.Equal(t, "ADMIN", role)
}
