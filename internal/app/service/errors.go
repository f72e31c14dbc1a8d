package service

import "errors"

var (
	ErrEmailAlreadyExists = errors.New("email already exists")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrUserNotFound       = errors.New("user not found")
	ErrTokenRevoked       = errors.New("token has been revoked")

	ErrUserIDRequired   = errors.New("user id is required")
	ErrImageRequired    = errors.New("image data is required")
	ErrImageNotFound    = errors.New("image not found")
	ErrFilterRequired   = errors.New("userId or imageId is required")
	ErrRequestNotFound  = errors.New("verification request not found")
	ErrInvalidRequestID = errors.New("invalid verification request id")
	ErrDuplicateRequest = errors.New("verification request already exists for image")
	ErrInvalidStatus    = errors.New("invalid status filter")
	ErrAdminIDRequired  = errors.New("admin id is required")
	ErrAdminRequired    = errors.New("admin role required")
	ErrActionRequired   = errors.New("action is required")
	ErrInvalidAction    = errors.New("action must be approve or reject")
	ErrReasonRequired   = errors.New("rejection reason is required")
)
