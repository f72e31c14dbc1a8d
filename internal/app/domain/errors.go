package domain

import "errors"

// ValidationError is returned by value object and entity factories when raw
// input fails its predicate.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// TransitionError is returned when a state transition precondition is violated.
type TransitionError struct {
	Message string
}

func (e *TransitionError) Error() string {
	return e.Message
}

func invalid(message string) error {
	return &ValidationError{Message: message}
}

// IsValidationError reports whether err (or anything it wraps) is a ValidationError.
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// IsTransitionError reports whether err (or anything it wraps) is a TransitionError.
func IsTransitionError(err error) bool {
	var te *TransitionError
	return errors.As(err, &te)
}

// Messages surfaced verbatim by the HTTP layer.
const (
	MsgOnlyPendingApprove = "Only pending requests can be approved"
	MsgOnlyPendingReject  = "Only pending requests can be rejected"
	MsgRejectionReasonReq = "Rejection reason is required"
	MsgUserIDEmpty        = "User ID cannot be empty"
	MsgUserIDNotString    = "Cannot convert User ID to string"
	MsgImageIDEmpty       = "画像IDは空にできません"
	MsgInvalidStatus      = "無効な確認ステータスです"
	MsgInvalidDate        = "Invalid date"
	MsgInvalidEmail       = "Invalid email format"
	MsgInvalidRole        = "Invalid user role"
	MsgNotANumber         = "ID cannot be interpreted as a number"
	MsgNotAnInteger       = "ID must be an integer"
	MsgNegativeNumericID  = "Numeric ID must be a non-negative integer"
	MsgImageURLEmpty      = "Image URL cannot be empty"
	MsgNameEmpty          = "Name cannot be empty"
)
