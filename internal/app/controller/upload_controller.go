package controller

import (
	"context"
	"net/http"
	"path"

	"github.com/gin-gonic/gin"
	apperrors "github.com/ikkim/verification-backend/internal/errors"
	"github.com/ikkim/verification-backend/internal/middleware"
	"github.com/ikkim/verification-backend/internal/storage"
)

// Presigner issues direct-upload URLs. *storage.S3Storage satisfies it.
type Presigner interface {
	GeneratePresignedURLWithFolder(ctx context.Context, filename, contentType, folder string) (*storage.PresignedURLResponse, error)
}

type UploadController struct {
	presigner Presigner
	policy    storage.Policy
}

// NewUploadController takes a nil presigner when S3 is not configured; the
// endpoint then answers 503.
func NewUploadController(presigner Presigner, policy storage.Policy) *UploadController {
	return &UploadController{
		presigner: presigner,
		policy:    policy,
	}
}

type GeneratePresignedURLRequest struct {
	Filename    string `json:"filename" binding:"required"`
	ContentType string `json:"contentType" binding:"required"`
}

// GeneratePresignedURL generates a presigned URL for uploading a verification photo to S3
// POST /api/upload/presigned-url
func (ctrl *UploadController) GeneratePresignedURL(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	if ctrl.presigner == nil {
		apperrors.ServiceUnavailable(c, apperrors.UploadUnavailable, "直接アップロードは現在利用できません")
		return
	}

	var req GeneratePresignedURLRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid presigned URL request", map[string]interface{}{
			"error": err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "入力値が正しくありません")
		return
	}

	if err := ctrl.policy.ValidateContentType(req.ContentType); err != nil {
		log.Warn("Invalid content type", map[string]interface{}{
			"content_type": req.ContentType,
		})
		respondError(c, err, "")
		return
	}

	userID, _ := middleware.GetUserID(c)
	folder := path.Join(storage.VerificationFolder, userID)

	response, err := ctrl.presigner.GeneratePresignedURLWithFolder(c.Request.Context(), req.Filename, req.ContentType, folder)
	if err != nil {
		log.Error("Failed to generate presigned URL", err, map[string]interface{}{
			"filename":     req.Filename,
			"content_type": req.ContentType,
			"folder":       folder,
		})
		apperrors.InternalError(c, "アップロードURLの生成に失敗しました")
		return
	}

	log.Info("Presigned URL generated successfully", map[string]interface{}{
		"content_type": req.ContentType,
		"folder":       folder,
		"key":          response.Key,
	})

	c.JSON(http.StatusOK, gin.H{
		"uploadUrl": response.UploadURL,
		"fileUrl":   response.FileURL,
		"key":       response.Key,
	})
}
