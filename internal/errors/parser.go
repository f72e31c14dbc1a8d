package errors

import (
	"errors"
	"strings"

	"gorm.io/gorm"
)

// ErrorInfo 에러 정보 구조
type ErrorInfo struct {
	Code    string // 에러 코드 (codes.go 참조)
	Message string // 사용자 친화적 메시지
}

// ParseError classifies a driver or gorm error. Both the postgres and sqlite
// drivers report constraint violations only in the error text, so matching is
// done on lowercase substrings.
func ParseError(err error, context string) ErrorInfo {
	if err == nil {
		return ErrorInfo{
			Code:    InternalServerError,
			Message: "サーバーエラーが発生しました",
		}
	}

	errStrLower := strings.ToLower(err.Error())

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrorInfo{
			Code:    ResourceNotFound,
			Message: getNotFoundMessage(context),
		}
	}

	// Unique constraint violation (23505)
	if IsDuplicateKey(err) {
		return parseDuplicateKeyError(errStrLower)
	}

	// Foreign key constraint violation (23503)
	if strings.Contains(errStrLower, "foreign key constraint") {
		return parseForeignKeyError(errStrLower)
	}

	// Not null constraint violation (23502)
	if strings.Contains(errStrLower, "violates not-null constraint") || strings.Contains(errStrLower, "not null constraint failed") {
		return ErrorInfo{Code: ValidationRequired, Message: "必須項目が不足しています"}
	}

	// Check constraint violation (23514)
	if strings.Contains(errStrLower, "check constraint") {
		if strings.Contains(errStrLower, "status") {
			return ErrorInfo{Code: VerificationInvalidStatus, Message: "無効なステータス値です"}
		}
		return ErrorInfo{Code: ValidationInvalidInput, Message: "入力値が正しくありません"}
	}

	if strings.Contains(errStrLower, "connection refused") ||
		strings.Contains(errStrLower, "no such host") ||
		strings.Contains(errStrLower, "timeout") {
		return ErrorInfo{
			Code:    InternalDatabaseError,
			Message: "データベースに接続できません。しばらくしてから再度お試しください",
		}
	}

	return ErrorInfo{
		Code:    InternalServerError,
		Message: getDefaultErrorMessage(context),
	}
}

// IsDuplicateKey reports whether err is a unique constraint violation.
func IsDuplicateKey(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	s := strings.ToLower(err.Error())
	return strings.Contains(s, "duplicate key") || strings.Contains(s, "unique constraint")
}

func parseDuplicateKeyError(errLower string) ErrorInfo {
	if strings.Contains(errLower, "email") {
		return ErrorInfo{
			Code:    AuthEmailAlreadyExists,
			Message: "このメールアドレスは既に使用されています",
		}
	}
	if strings.Contains(errLower, "image_id") {
		return ErrorInfo{
			Code:    VerificationDuplicate,
			Message: "この画像に対するリクエストは既に存在します",
		}
	}
	return ErrorInfo{
		Code:    ResourceAlreadyExists,
		Message: "既に存在するデータです",
	}
}

func parseForeignKeyError(errLower string) ErrorInfo {
	if strings.Contains(errLower, "image_id") || strings.Contains(errLower, "verification_images") {
		return ErrorInfo{Code: VerificationImageNotFound, Message: "指定された画像が見つかりません"}
	}
	if strings.Contains(errLower, "user_id") || strings.Contains(errLower, "users") {
		return ErrorInfo{Code: VerificationUserNotFound, Message: "指定されたユーザーが見つかりません"}
	}
	return ErrorInfo{Code: ResourceNotFound, Message: "参照先のデータが見つかりません"}
}

func getNotFoundMessage(context string) string {
	contextLower := strings.ToLower(context)

	switch {
	case strings.Contains(contextLower, "request"):
		return "指定されたリクエストが見つかりません"
	case strings.Contains(contextLower, "image"):
		return "指定された画像が見つかりません"
	case strings.Contains(contextLower, "user"):
		return "指定されたユーザーが見つかりません"
	}
	return "データが見つかりません"
}

func getDefaultErrorMessage(context string) string {
	contextLower := strings.ToLower(context)

	switch {
	case strings.Contains(contextLower, "save"), strings.Contains(contextLower, "create"):
		return "保存中にエラーが発生しました"
	case strings.Contains(contextLower, "find"), strings.Contains(contextLower, "list"):
		return "取得中にエラーが発生しました"
	}
	return "サーバーエラーが発生しました。しばらくしてから再度お試しください"
}
