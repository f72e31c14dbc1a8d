package controller

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/verification-backend/internal/app/service"
	apperrors "github.com/ikkim/verification-backend/internal/errors"
	"github.com/ikkim/verification-backend/internal/middleware"
	"github.com/ikkim/verification-backend/internal/storage"
)

type VerificationController struct {
	verificationService service.VerificationService
	maxBodyBytes        int64
}

// NewVerificationController builds the controller. Image bodies larger than
// maxBodyBytes are refused before they are read; zero disables the limit.
func NewVerificationController(verificationService service.VerificationService, maxBodyBytes int64) *VerificationController {
	return &VerificationController{
		verificationService: verificationService,
		maxBodyBytes:        maxBodyBytes,
	}
}

// IDs arrive as JSON strings or numbers.
type SubmitImageRequest struct {
	UserID interface{} `json:"userId"`
	Image  string      `json:"image"`
}

type CreateRequestRequest struct {
	UserID  interface{} `json:"userId"`
	ImageID interface{} `json:"imageId"`
}

type ReviewRequestRequest struct {
	Action  string      `json:"action"`
	AdminID interface{} `json:"adminId"`
	Comment string      `json:"comment"`
}

// SubmitImage uploads a verification photo and opens a PENDING request
// POST /api/verification/images
func (ctrl *VerificationController) SubmitImage(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	input, ok := bindImageInput(c, ctrl.maxBodyBytes)
	if !ok {
		return
	}

	result, err := ctrl.verificationService.SubmitImage(c.Request.Context(), input)
	if err != nil {
		respondError(c, err, "画像のアップロード中にエラーが発生しました")
		return
	}

	log.Info("Verification image submitted", map[string]interface{}{
		"request_id": result.Request.ID(),
		"image_id":   result.Image.ID().String(),
	})

	c.JSON(http.StatusOK, gin.H{
		"message":   "本人確認用画像が送信されました",
		"requestId": result.Request.ID(),
		"imageId":   result.Image.ID().String(),
		"status":    result.Request.Status().String(),
	})
}

// CreateRequest opens a request for an already uploaded image
// POST /api/verification/requests
func (ctrl *VerificationController) CreateRequest(c *gin.Context) {
	var req CreateRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidFormat, "JSONデータの解析に失敗しました")
		return
	}

	userID, imageID := rawID(req.UserID), rawID(req.ImageID)
	if userID == "" || imageID == "" {
		apperrors.BadRequest(c, apperrors.ValidationRequired, "ユーザーIDと画像IDは必須です")
		return
	}

	request, err := ctrl.verificationService.CreateRequest(c.Request.Context(), userID, imageID)
	if err != nil {
		respondError(c, err, "リクエストの処理中にエラーが発生しました")
		return
	}

	c.JSON(http.StatusOK, toRequestResponse(request))
}

// UpdateRequest approves or rejects a request
// PUT /api/verification/requests/:id
func (ctrl *VerificationController) UpdateRequest(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req ReviewRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidFormat, "JSONデータの解析に失敗しました")
		return
	}

	// adminId must name the authenticated caller
	adminID := rawID(req.AdminID)
	if userID, ok := middleware.GetUserID(c); !ok || (adminID != "" && adminID != userID) {
		log.Warn("Review attempted on behalf of another user", map[string]interface{}{
			"user_id":  userID,
			"admin_id": adminID,
		})
		apperrors.Forbidden(c, "他のユーザーとして審査することはできません")
		return
	}

	request, err := ctrl.verificationService.ReviewRequest(c.Request.Context(), service.ReviewInput{
		RequestID: c.Param("id"),
		Action:    req.Action,
		AdminID:   adminID,
		Comment:   req.Comment,
	})
	if err != nil {
		respondError(c, err, "リクエストの更新中にエラーが発生しました")
		return
	}

	c.JSON(http.StatusOK, toRequestResponse(request))
}

// ListRequests lists requests by status or by user
// GET /api/verification/requests?status=X|userId=Y
func (ctrl *VerificationController) ListRequests(c *gin.Context) {
	views, err := ctrl.verificationService.ListRequests(c.Request.Context(), service.ListFilter{
		Status: c.Query("status"),
		UserID: c.Query("userId"),
	})
	if err != nil {
		respondError(c, err, "リクエストの取得中に予期しないエラーが発生しました")
		return
	}

	c.JSON(http.StatusOK, toRequestViews(views))
}

// GetRequest GET /api/verification/requests/:id
func (ctrl *VerificationController) GetRequest(c *gin.Context) {
	view, err := ctrl.verificationService.GetRequest(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err, "リクエストの取得中にエラーが発生しました")
		return
	}

	c.JSON(http.StatusOK, toRequestView(*view))
}

// ExportRequests streams an XLSX workbook of requests
// GET /api/verification/export?status=X
func (ctrl *VerificationController) ExportRequests(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)
	status := c.Query("status")

	views, err := ctrl.verificationService.ExportRequests(c.Request.Context(), status)
	if err != nil {
		respondError(c, err, "エクスポート中にエラーが発生しました")
		return
	}

	filename := fmt.Sprintf("verification-requests-%s.xlsx", time.Now().UTC().Format("20060102-150405"))
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Status(http.StatusOK)

	if err := service.WriteRequestsXLSX(c.Writer, views); err != nil {
		log.Error("Failed to write export workbook", err, map[string]interface{}{
			"status": status,
		})
		_ = c.Error(err)
		return
	}

	adminID, _ := middleware.GetUserID(c)
	log.Info("Verification requests exported", map[string]interface{}{
		"admin_id": adminID,
		"status":   status,
		"rows":     len(views),
	})
}

// bindImageInput reads {userId, image} from JSON or multipart form data. The
// image is a data URL, bare base64, an http(s) URL from a presigned upload, or
// (multipart only) a file part.
func bindImageInput(c *gin.Context, maxBodyBytes int64) (service.SubmitImageInput, bool) {
	var (
		userID string
		image  string
		input  service.SubmitImageInput
	)

	if maxBodyBytes > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBodyBytes)
	}

	if strings.HasPrefix(c.ContentType(), "multipart/form-data") {
		if err := c.Request.ParseMultipartForm(maxMultipartMemory); err != nil {
			if bodyTooLarge(err) {
				apperrors.BadRequest(c, apperrors.UploadFileTooLarge, "ファイルサイズが大きすぎます")
			} else {
				apperrors.BadRequest(c, apperrors.ValidationInvalidFormat, "フォームデータの解析に失敗しました")
			}
			return input, false
		}
		userID = c.PostForm("userId")
		if fh, err := c.FormFile("image"); err == nil {
			f, err := fh.Open()
			if err != nil {
				apperrors.BadRequest(c, apperrors.ValidationInvalidFormat, "フォームデータの解析に失敗しました")
				return input, false
			}
			defer f.Close()

			data, err := io.ReadAll(f)
			if err != nil {
				apperrors.BadRequest(c, apperrors.ValidationInvalidFormat, "フォームデータの解析に失敗しました")
				return input, false
			}
			input.ImageData = data
			input.ContentType = fh.Header.Get("Content-Type")
		} else {
			image = c.PostForm("image")
		}
	} else {
		var req SubmitImageRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			if bodyTooLarge(err) {
				apperrors.BadRequest(c, apperrors.UploadFileTooLarge, "ファイルサイズが大きすぎます")
			} else {
				apperrors.BadRequest(c, apperrors.ValidationInvalidFormat, "JSONデータの解析に失敗しました")
			}
			return input, false
		}
		userID = rawID(req.UserID)
		image = req.Image
	}
	input.UserID = userID

	switch {
	case input.ImageData != nil:
	case image == "":
		// left for the service to reject in its own order
	case strings.HasPrefix(image, "https://") || strings.HasPrefix(image, "http://"):
		input.ImageURL = image
	default:
		contentType, data, err := storage.DecodeDataURL(image)
		if err != nil {
			respondError(c, err, "")
			return input, false
		}
		input.ContentType = contentType
		input.ImageData = data
	}
	return input, true
}

// maxMultipartMemory matches gin's default; larger parts spill to disk.
const maxMultipartMemory = 32 << 20

func bodyTooLarge(err error) bool {
	var maxErr *http.MaxBytesError
	return errors.As(err, &maxErr)
}

func rawID(v interface{}) string {
	switch id := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(id)
	case float64:
		return strconv.FormatFloat(id, 'f', -1, 64)
	default:
		return strings.TrimSpace(fmt.Sprint(id))
	}
}
