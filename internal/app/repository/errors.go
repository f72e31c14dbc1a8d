package repository

import (
	"fmt"

	"github.com/ikkim/verification-backend/internal/app/domain"
	apperrors "github.com/ikkim/verification-backend/internal/errors"
)

func invalidIDFormat(field string) error {
	return domain.NewRepositoryError(domain.ErrKindInvalidIDFormat, fmt.Sprintf("invalid %s format", field), nil)
}

func databaseError(op string, err error) error {
	return domain.NewRepositoryError(domain.ErrKindDatabase, op, err)
}

func invalidData(field string, err error) error {
	return domain.NewRepositoryError(domain.ErrKindInvalidData, fmt.Sprintf("stored %s is invalid", field), err)
}

func mappingError(entity string, err error) error {
	return domain.NewRepositoryError(domain.ErrKindMapping, fmt.Sprintf("failed to map %s row", entity), err)
}

// writeError maps a failed insert or update. Unique violations on users.email
// are the only constraint the domain names.
func writeError(op string, err error) error {
	if apperrors.IsDuplicateKey(err) && apperrors.ParseError(err, op).Code == apperrors.AuthEmailAlreadyExists {
		return domain.NewRepositoryError(domain.ErrKindDuplicateEmail, "email already registered", err)
	}
	return databaseError(op, err)
}

// numericKey projects a string identifier onto the integer primary key space.
func numericKey(id fmt.Stringer, field string) (uint, error) {
	n, err := domain.NewNumericID(id.String())
	if err != nil {
		return 0, invalidIDFormat(field)
	}
	return n.Uint(), nil
}
