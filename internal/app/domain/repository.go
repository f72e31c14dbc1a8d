package domain

import (
	"context"
	"fmt"
	"time"
)

// RepositoryErrorKind is the closed set of persistence failure classes.
type RepositoryErrorKind string

const (
	ErrKindInvalidIDFormat RepositoryErrorKind = "INVALID_ID_FORMAT"
	ErrKindDatabase        RepositoryErrorKind = "DATABASE_ERROR"
	ErrKindNotFound        RepositoryErrorKind = "NOT_FOUND"
	ErrKindDuplicateEmail  RepositoryErrorKind = "DUPLICATE_EMAIL"
	ErrKindInvalidData     RepositoryErrorKind = "INVALID_DATA"
	ErrKindMapping         RepositoryErrorKind = "MAPPING_ERROR"
)

// RepositoryError is returned by every repository method on failure.
// errors.Is matches two RepositoryErrors of the same Kind, so callers can test
// against the Err* values below.
type RepositoryError struct {
	Kind    RepositoryErrorKind
	Message string
	Cause   error
}

func (e *RepositoryError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *RepositoryError) Unwrap() error {
	return e.Cause
}

func (e *RepositoryError) Is(target error) bool {
	t, ok := target.(*RepositoryError)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

var (
	ErrInvalidIDFormat = &RepositoryError{Kind: ErrKindInvalidIDFormat}
	ErrDatabase        = &RepositoryError{Kind: ErrKindDatabase}
	ErrNotFound        = &RepositoryError{Kind: ErrKindNotFound}
	ErrDuplicateEmail  = &RepositoryError{Kind: ErrKindDuplicateEmail}
	ErrInvalidData     = &RepositoryError{Kind: ErrKindInvalidData}
	ErrMapping         = &RepositoryError{Kind: ErrKindMapping}
)

func NewRepositoryError(kind RepositoryErrorKind, message string, cause error) *RepositoryError {
	return &RepositoryError{Kind: kind, Message: message, Cause: cause}
}

// UserRepository persists users. Find methods return (nil, nil) when nothing matches.
type UserRepository interface {
	FindByID(ctx context.Context, id UserID) (*User, error)
	FindByEmail(ctx context.Context, email Email) (*User, error)
	FindAll(ctx context.Context) ([]User, error)
	Save(ctx context.Context, user User) (User, error)
}

type VerificationImageRepository interface {
	FindByID(ctx context.Context, id ImageID) (*VerificationImage, error)
	FindByUserID(ctx context.Context, userID UserID) ([]VerificationImage, error)
	Save(ctx context.Context, image VerificationImage) (VerificationImage, error)
}

// VerificationRequestRepository persists requests. Save is an upsert keyed by
// ID: a zero ID inserts and the returned value carries the assigned ID.
// Concurrent saves of the same request are last-write-wins.
type VerificationRequestRepository interface {
	FindByID(ctx context.Context, id uint) (*VerificationRequest, error)
	FindByUserID(ctx context.Context, userID UserID) ([]VerificationRequest, error)
	FindByImageID(ctx context.Context, imageID ImageID) ([]VerificationRequest, error)
	FindByStatus(ctx context.Context, status VerificationStatus) ([]VerificationRequest, error)
	FindAll(ctx context.Context) ([]VerificationRequest, error)
	CountByStatus(ctx context.Context, status VerificationStatus) (int64, error)
	CountByStatusCreatedBefore(ctx context.Context, status VerificationStatus, before time.Time) (int64, error)
	Save(ctx context.Context, request VerificationRequest) (VerificationRequest, error)
}
