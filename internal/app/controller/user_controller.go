package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/verification-backend/internal/app/service"
	apperrors "github.com/ikkim/verification-backend/internal/errors"
	"github.com/ikkim/verification-backend/internal/middleware"
)

type UserController struct {
	userService service.UserService
}

func NewUserController(userService service.UserService) *UserController {
	return &UserController{
		userService: userService,
	}
}

type ChangeNameRequest struct {
	Name string `json:"name"`
}

type ChangeRoleRequest struct {
	Role string `json:"role" binding:"required"`
}

// UpdateName PUT /api/user/name
func (ctrl *UserController) UpdateName(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	var req ChangeNameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "入力値が正しくありません")
		return
	}

	user, err := ctrl.userService.ChangeName(c.Request.Context(), userID, req.Name)
	if err != nil {
		respondError(c, err, "ユーザー情報の更新中にエラーが発生しました")
		return
	}

	c.JSON(http.StatusOK, toUserResponse(user))
}

// ListUsers GET /api/admin/users
func (ctrl *UserController) ListUsers(c *gin.Context) {
	users, err := ctrl.userService.ListUsers(c.Request.Context())
	if err != nil {
		respondError(c, err, "ユーザー情報の取得中にエラーが発生しました")
		return
	}

	resp := make([]UserResponse, 0, len(users))
	for _, u := range users {
		resp = append(resp, toUserResponse(u))
	}
	c.JSON(http.StatusOK, resp)
}

// ChangeRole PUT /api/admin/users/:id/role
func (ctrl *UserController) ChangeRole(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req ChangeRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationRequired, "ロールは必須です")
		return
	}

	user, err := ctrl.userService.ChangeRole(c.Request.Context(), c.Param("id"), req.Role)
	if err != nil {
		respondError(c, err, "ユーザー情報の更新中にエラーが発生しました")
		return
	}

	adminID, _ := middleware.GetUserID(c)
	log.Info("User role changed", map[string]interface{}{
		"admin_id": adminID,
		"user_id":  user.ID().String(),
		"role":     user.Role().String(),
	})
	c.JSON(http.StatusOK, toUserResponse(user))
}
