package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/verification-backend/internal/app/domain"
	"github.com/ikkim/verification-backend/internal/errors"
	"github.com/ikkim/verification-backend/pkg/util"
)

// Context keys for user information
const (
	UserIDKey      = "user_id"
	UserEmailKey   = "user_email"
	UserRoleKey    = "user_role"
	AccessTokenKey = "access_token"
)

// RevocationChecker reports whether a token was revoked by logout.
type RevocationChecker interface {
	IsRevoked(ctx context.Context, token string) (bool, error)
}

// RoleSource loads the stored user so RequireRole sees role changes made
// after the token was issued.
type RoleSource interface {
	FindByID(ctx context.Context, id domain.UserID) (*domain.User, error)
}

type AuthMiddleware struct {
	jwtSecret string
	revoked   RevocationChecker
	roles     RoleSource
}

// NewAuthMiddleware builds the JWT middleware. revoked may be nil when no
// blacklist is configured.
func NewAuthMiddleware(jwtSecret string, revoked RevocationChecker) *AuthMiddleware {
	return &AuthMiddleware{
		jwtSecret: jwtSecret,
		revoked:   revoked,
	}
}

// WithRoleSource makes RequireRole check the stored role instead of the
// token claim. Without it a demoted admin keeps access until the access token
// expires.
func (m *AuthMiddleware) WithRoleSource(roles RoleSource) *AuthMiddleware {
	m.roles = roles
	return m
}

// Authenticate validates JWT token (required)
func (m *AuthMiddleware) Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		log := GetLoggerFromContext(c)

		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			log.Warn("Missing authorization header", map[string]interface{}{
				"path": c.Request.URL.Path,
			})
			errors.Unauthorized(c, "")
			c.Abort()
			return
		}

		// Extract token from "Bearer <token>"
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			log.Warn("Invalid authorization header format", map[string]interface{}{
				"path": c.Request.URL.Path,
			})
			errors.RespondWithError(c, http.StatusUnauthorized, errors.AuthTokenInvalid, "認証形式が正しくありません")
			c.Abort()
			return
		}
		token := parts[1]

		claims, err := util.ValidateToken(token, m.jwtSecret)
		if err == nil && claims.TokenType != util.TokenTypeAccess {
			err = util.ErrInvalidToken
		}
		if err != nil {
			log.Warn("Token validation failed", map[string]interface{}{
				"path":  c.Request.URL.Path,
				"error": err.Error(),
			})

			if err == util.ErrExpiredToken {
				errors.RespondWithError(c, http.StatusUnauthorized, errors.AuthTokenExpired, "ログインの有効期限が切れました")
			} else {
				errors.RespondWithError(c, http.StatusUnauthorized, errors.AuthTokenInvalid, "無効な認証トークンです")
			}
			c.Abort()
			return
		}

		if m.revoked != nil {
			revoked, err := m.revoked.IsRevoked(c.Request.Context(), token)
			if err != nil {
				// blacklist unavailable: accept the signed token
				log.Warn("Token revocation check failed", map[string]interface{}{
					"error": err.Error(),
				})
			} else if revoked {
				log.Warn("Revoked token presented", map[string]interface{}{
					"user_id": claims.UserID,
				})
				errors.RespondWithError(c, http.StatusUnauthorized, errors.AuthTokenInvalid, "無効な認証トークンです")
				c.Abort()
				return
			}
		}

		c.Set(UserIDKey, claims.UserID)
		c.Set(UserEmailKey, claims.Email)
		c.Set(UserRoleKey, claims.Role)
		c.Set(AccessTokenKey, token)

		log.Debug("User authenticated successfully", map[string]interface{}{
			"user_id": claims.UserID,
			"email":   claims.Email,
			"role":    claims.Role,
		})

		c.Next()
	}
}

// RequireRole checks if user has required role
func (m *AuthMiddleware) RequireRole(roles ...domain.UserRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		log := GetLoggerFromContext(c)

		role, exists := GetUserRole(c)
		if !exists {
			log.Warn("Role information not found in context", map[string]interface{}{
				"path": c.Request.URL.Path,
			})
			errors.Forbidden(c, "権限情報が見つかりません")
			c.Abort()
			return
		}

		userID, _ := GetUserID(c)
		if m.roles != nil {
			current, ok := m.storedRole(c, userID)
			if !ok {
				c.Abort()
				return
			}
			role = current
		}

		for _, r := range roles {
			if role == r.String() {
				c.Next()
				return
			}
		}

		log.Warn("Insufficient permissions", map[string]interface{}{
			"user_id":   userID,
			"user_role": role,
			"path":      c.Request.URL.Path,
		})
		errors.RespondWithError(c, http.StatusForbidden, errors.AuthzAdminOnly, "管理者権限が必要です")
		c.Abort()
	}
}

func (m *AuthMiddleware) storedRole(c *gin.Context, userID string) (string, bool) {
	log := GetLoggerFromContext(c)

	id, err := domain.ParseUserID(userID)
	if err != nil {
		errors.Forbidden(c, "権限情報が見つかりません")
		return "", false
	}
	user, err := m.roles.FindByID(c.Request.Context(), id)
	if err != nil {
		log.Error("Failed to load user role", err, map[string]interface{}{
			"user_id": userID,
		})
		errors.InternalError(c, "")
		return "", false
	}
	if user == nil {
		log.Warn("Token subject no longer exists", map[string]interface{}{
			"user_id": userID,
		})
		errors.Forbidden(c, "")
		return "", false
	}
	return user.Role().String(), true
}

// GetUserID extracts user ID from context
func GetUserID(c *gin.Context) (string, bool) {
	return getString(c, UserIDKey)
}

// GetUserEmail extracts user email from context
func GetUserEmail(c *gin.Context) (string, bool) {
	return getString(c, UserEmailKey)
}

// GetUserRole extracts user role from context
func GetUserRole(c *gin.Context) (string, bool) {
	return getString(c, UserRoleKey)
}

// GetAccessToken returns the bearer token accepted by Authenticate.
func GetAccessToken(c *gin.Context) (string, bool) {
	return getString(c, AccessTokenKey)
}

func getString(c *gin.Context, key string) (string, bool) {
	v, exists := c.Get(key)
	if !exists {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}
