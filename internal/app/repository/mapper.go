package repository

import (
	"strconv"
	"time"

	"github.com/ikkim/verification-backend/internal/app/domain"
	"github.com/ikkim/verification-backend/internal/app/model"
)

func keyString(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}

func toDomainDateTime(t time.Time, field string) (domain.DateTime, error) {
	d, err := domain.NewDateTime(t)
	if err != nil {
		return domain.DateTime{}, invalidData(field, err)
	}
	return d, nil
}

func toDomainUser(row *model.User) (domain.User, error) {
	id, err := domain.ParseUserID(keyString(row.ID))
	if err != nil {
		return domain.User{}, invalidData("id", err)
	}
	email, err := domain.NewEmail(row.Email)
	if err != nil {
		return domain.User{}, invalidData("email", err)
	}
	role, err := domain.NewUserRole(row.Role)
	if err != nil {
		return domain.User{}, invalidData("role", err)
	}
	createdAt, err := toDomainDateTime(row.CreatedAt, "createdAt")
	if err != nil {
		return domain.User{}, err
	}
	updatedAt, err := toDomainDateTime(row.UpdatedAt, "updatedAt")
	if err != nil {
		return domain.User{}, err
	}

	user, err := domain.NewUser(domain.UserProps{
		ID:        id,
		Email:     email,
		Name:      row.Name,
		Role:      role,
		CreatedAt: createdAt,
		UpdatedAt: updatedAt,
	})
	if err != nil {
		return domain.User{}, mappingError("user", err)
	}
	return user, nil
}

func toDomainImage(row *model.VerificationImage) (domain.VerificationImage, error) {
	id, err := domain.NewImageID(keyString(row.ID))
	if err != nil {
		return domain.VerificationImage{}, invalidData("id", err)
	}
	userID, err := domain.ParseUserID(keyString(row.UserID))
	if err != nil {
		return domain.VerificationImage{}, invalidData("userId", err)
	}
	createdAt, err := toDomainDateTime(row.CreatedAt, "createdAt")
	if err != nil {
		return domain.VerificationImage{}, err
	}

	image, err := domain.NewVerificationImage(domain.VerificationImageProps{
		ID:        id,
		UserID:    userID,
		ImageURL:  row.ImageURL,
		CreatedAt: createdAt,
	})
	if err != nil {
		return domain.VerificationImage{}, mappingError("verification image", err)
	}
	return image, nil
}

func toDomainRequest(row *model.VerificationRequest) (domain.VerificationRequest, error) {
	userID, err := domain.ParseUserID(keyString(row.UserID))
	if err != nil {
		return domain.VerificationRequest{}, invalidData("userId", err)
	}
	imageID, err := domain.NewImageID(keyString(row.ImageID))
	if err != nil {
		return domain.VerificationRequest{}, invalidData("imageId", err)
	}
	status, err := domain.NewVerificationStatus(row.Status)
	if err != nil {
		return domain.VerificationRequest{}, invalidData("status", err)
	}
	createdAt, err := toDomainDateTime(row.CreatedAt, "createdAt")
	if err != nil {
		return domain.VerificationRequest{}, err
	}
	updatedAt, err := toDomainDateTime(row.UpdatedAt, "updatedAt")
	if err != nil {
		return domain.VerificationRequest{}, err
	}

	props := domain.VerificationRequestProps{
		ID:        row.ID,
		UserID:    userID,
		ImageID:   imageID,
		Status:    status,
		Comment:   row.Comment,
		CreatedAt: createdAt,
		UpdatedAt: updatedAt,
	}
	if row.ReviewedBy != nil {
		reviewer, err := domain.ParseUserID(keyString(*row.ReviewedBy))
		if err != nil {
			return domain.VerificationRequest{}, invalidData("reviewedBy", err)
		}
		props.ReviewedBy = &reviewer
	}
	if row.ReviewedAt != nil {
		reviewedAt, err := toDomainDateTime(*row.ReviewedAt, "reviewedAt")
		if err != nil {
			return domain.VerificationRequest{}, err
		}
		props.ReviewedAt = &reviewedAt
	}

	request, err := domain.NewVerificationRequest(props)
	if err != nil {
		return domain.VerificationRequest{}, mappingError("verification request", err)
	}
	return request, nil
}

func toRequestRow(request domain.VerificationRequest) (*model.VerificationRequest, error) {
	userID, err := numericKey(request.UserID(), "userId")
	if err != nil {
		return nil, err
	}
	imageID, err := numericKey(request.ImageID(), "imageId")
	if err != nil {
		return nil, err
	}

	row := &model.VerificationRequest{
		ID:        request.ID(),
		UserID:    userID,
		ImageID:   imageID,
		Status:    request.Status().String(),
		CreatedAt: request.CreatedAt().Time(),
		UpdatedAt: request.UpdatedAt().Time(),
	}
	if reviewer, ok := request.ReviewedBy(); ok {
		reviewerID, err := numericKey(reviewer, "reviewedBy")
		if err != nil {
			return nil, err
		}
		row.ReviewedBy = &reviewerID
	}
	if at, ok := request.ReviewedAt(); ok {
		t := at.Time()
		row.ReviewedAt = &t
	}
	if comment, ok := request.Comment(); ok {
		row.Comment = &comment
	}
	return row, nil
}
