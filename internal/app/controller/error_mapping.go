package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/verification-backend/internal/app/domain"
	"github.com/ikkim/verification-backend/internal/app/service"
	apperrors "github.com/ikkim/verification-backend/internal/errors"
	"github.com/ikkim/verification-backend/internal/middleware"
	"github.com/ikkim/verification-backend/internal/storage"
	"github.com/ikkim/verification-backend/pkg/util"
)

type errorMapping struct {
	target  error
	status  int
	code    string
	message string
}

// Checked in order; the first match wins.
var errorMappings = []errorMapping{
	{service.ErrUserIDRequired, http.StatusBadRequest, apperrors.ValidationRequired, "ユーザーIDが必要です"},
	{service.ErrImageRequired, http.StatusBadRequest, apperrors.ValidationRequired, "画像データが必要です"},
	{service.ErrFilterRequired, http.StatusBadRequest, apperrors.ValidationRequired, "フィルタリングパラメータが必要です"},
	{service.ErrInvalidRequestID, http.StatusBadRequest, apperrors.ValidationInvalidID, "有効なリクエストIDが必要です"},
	{service.ErrInvalidStatus, http.StatusBadRequest, apperrors.VerificationInvalidStatus, "無効なステータス値です"},
	{service.ErrAdminIDRequired, http.StatusBadRequest, apperrors.ValidationRequired, "管理者IDは必須です"},
	{service.ErrActionRequired, http.StatusBadRequest, apperrors.ValidationRequired, "アクションは必須です"},
	{service.ErrInvalidAction, http.StatusBadRequest, apperrors.VerificationInvalidAction, "アクションは approve または reject である必要があります"},
	{service.ErrReasonRequired, http.StatusBadRequest, apperrors.VerificationReasonRequired, "拒否理由は必須です"},
	{domain.ErrInvalidIDFormat, http.StatusBadRequest, apperrors.ValidationInvalidID, "IDの形式が正しくありません"},
	{storage.ErrFileTooLarge, http.StatusBadRequest, apperrors.UploadFileTooLarge, "ファイルサイズが大きすぎます"},
	{storage.ErrContentTypeNotAllowed, http.StatusBadRequest, apperrors.UploadInvalidFileType, "許可されていないファイル形式です"},
	{storage.ErrInvalidImageData, http.StatusBadRequest, apperrors.UploadInvalidFileType, "画像データの形式が正しくありません"},
	{service.ErrAdminRequired, http.StatusForbidden, apperrors.AuthzAdminOnly, "管理者権限が必要です"},
	{service.ErrInvalidCredentials, http.StatusUnauthorized, apperrors.AuthInvalidCredentials, "メールアドレスまたはパスワードが正しくありません"},
	{util.ErrExpiredToken, http.StatusUnauthorized, apperrors.AuthTokenExpired, "ログインの有効期限が切れました"},
	{util.ErrInvalidToken, http.StatusUnauthorized, apperrors.AuthTokenInvalid, "無効な認証トークンです"},
	{service.ErrUserNotFound, http.StatusNotFound, apperrors.VerificationUserNotFound, "指定されたユーザーが見つかりません"},
	{service.ErrImageNotFound, http.StatusNotFound, apperrors.VerificationImageNotFound, "指定された画像が見つかりません"},
	{service.ErrRequestNotFound, http.StatusNotFound, apperrors.VerificationRequestNotFound, "指定されたリクエストが見つかりません"},
	{service.ErrDuplicateRequest, http.StatusConflict, apperrors.VerificationDuplicate, "この画像に対するリクエストは既に存在します"},
	{service.ErrEmailAlreadyExists, http.StatusConflict, apperrors.AuthEmailAlreadyExists, "このメールアドレスは既に使用されています"},
}

// respondError writes the response for a service error. Domain validation and
// transition failures surface their own message; anything unclassified is
// logged and answered with a generic 500 carrying fallback.
func respondError(c *gin.Context, err error, fallback string) {
	log := middleware.GetLoggerFromContext(c)

	for _, m := range errorMappings {
		if errors.Is(err, m.target) {
			log.Warn("Request failed", map[string]interface{}{
				"status": m.status,
				"code":   m.code,
				"error":  err.Error(),
			})
			apperrors.RespondWithError(c, m.status, m.code, m.message)
			return
		}
	}

	var transition *domain.TransitionError
	if errors.As(err, &transition) {
		apperrors.BadRequest(c, apperrors.VerificationInvalidState, transition.Message)
		return
	}
	var validation *domain.ValidationError
	if errors.As(err, &validation) {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, validation.Message)
		return
	}

	log.Error("Unhandled service error", err, map[string]interface{}{
		"path": c.Request.URL.Path,
	})
	_ = c.Error(err)

	if info := apperrors.ParseError(err, ""); info.Code == apperrors.InternalDatabaseError {
		apperrors.RespondWithError(c, http.StatusInternalServerError, info.Code, info.Message)
		return
	}
	apperrors.InternalError(c, fallback)
}
