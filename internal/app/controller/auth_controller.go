package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/verification-backend/internal/app/service"
	apperrors "github.com/ikkim/verification-backend/internal/errors"
	"github.com/ikkim/verification-backend/internal/middleware"
)

type AuthController struct {
	authService service.AuthService
}

func NewAuthController(authService service.AuthService) *AuthController {
	return &AuthController{
		authService: authService,
	}
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// Login handles user login
// POST /api/auth/login
func (ctrl *AuthController) Login(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid login request", map[string]interface{}{
			"error": err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "入力値が正しくありません")
		return
	}

	user, tokens, err := ctrl.authService.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondError(c, err, "ログイン中にエラーが発生しました")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Login successful",
		"user":    toUserResponse(user),
		"tokens":  tokens,
	})
}

// Logout revokes the presented access token
// POST /api/auth/logout
func (ctrl *AuthController) Logout(c *gin.Context) {
	token, _ := middleware.GetAccessToken(c)

	if err := ctrl.authService.Logout(c.Request.Context(), token); err != nil {
		respondError(c, err, "ログアウト中にエラーが発生しました")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Logged out"})
}

// GetCurrentUser returns the authenticated user
// GET /api/user/current
func (ctrl *AuthController) GetCurrentUser(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "")
		return
	}

	user, err := ctrl.authService.GetCurrentUser(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			apperrors.NotFound(c, apperrors.ResourceNotFound, "ユーザーが見つかりません")
			return
		}
		respondError(c, err, "ユーザー情報の取得中にエラーが発生しました")
		return
	}

	c.JSON(http.StatusOK, toUserResponse(user))
}
