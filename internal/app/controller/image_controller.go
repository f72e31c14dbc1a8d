package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/verification-backend/internal/app/service"
	apperrors "github.com/ikkim/verification-backend/internal/errors"
)

type ImageController struct {
	verificationService service.VerificationService
	maxBodyBytes        int64
}

func NewImageController(verificationService service.VerificationService, maxBodyBytes int64) *ImageController {
	return &ImageController{
		verificationService: verificationService,
		maxBodyBytes:        maxBodyBytes,
	}
}

// UploadImage stores an image without opening a request
// POST /api/images
func (ctrl *ImageController) UploadImage(c *gin.Context) {
	input, ok := bindImageInput(c, ctrl.maxBodyBytes)
	if !ok {
		return
	}

	image, err := ctrl.verificationService.UploadImage(c.Request.Context(), input)
	if err != nil {
		respondError(c, err, "画像のアップロード中にエラーが発生しました")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"id":        image.ID().String(),
		"userId":    image.UserID().String(),
		"imageUrl":  image.ImageURL(),
		"createdAt": image.CreatedAt().String(),
		"message":   "画像が正常にアップロードされました",
	})
}

// ListImages GET /api/images?userId=X|imageId=Y
func (ctrl *ImageController) ListImages(c *gin.Context) {
	filter := service.ImageFilter{
		ImageID: c.Query("imageId"),
		UserID:  c.Query("userId"),
	}

	images, err := ctrl.verificationService.ListImages(c.Request.Context(), filter)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrFilterRequired):
			apperrors.BadRequest(c, apperrors.ValidationRequired, "ユーザーIDまたは画像IDが必要です")
		case errors.Is(err, service.ErrImageNotFound):
			apperrors.NotFound(c, apperrors.VerificationImageNotFound, "画像が見つかりません")
		default:
			respondError(c, err, "画像の取得中にエラーが発生しました")
		}
		return
	}

	resp := make([]ImageResponse, 0, len(images))
	for _, image := range images {
		resp = append(resp, toImageResponse(image))
	}
	c.JSON(http.StatusOK, resp)
}

// GetImage GET /api/images/:id
func (ctrl *ImageController) GetImage(c *gin.Context) {
	image, err := ctrl.verificationService.GetImage(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err, "画像の取得中にエラーが発生しました")
		return
	}

	c.JSON(http.StatusOK, toImageResponse(*image))
}
