package repository

import (
	"context"
	"errors"
	"time"

	"github.com/ikkim/verification-backend/internal/app/domain"
	"github.com/ikkim/verification-backend/internal/app/model"
	"github.com/ikkim/verification-backend/pkg/logger"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type verificationRequestRepository struct {
	db *gorm.DB
}

func NewVerificationRequestRepository(db *gorm.DB) domain.VerificationRequestRepository {
	return &verificationRequestRepository{db: db}
}

func (r *verificationRequestRepository) FindByID(ctx context.Context, id uint) (*domain.VerificationRequest, error) {
	log := logger.FromContext(ctx)
	log.Debug("Finding verification request by ID in database", map[string]interface{}{
		"request_id": id,
	})

	var row model.VerificationRequest
	if err := r.db.WithContext(ctx).First(&row, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		log.Error("Failed to find verification request in database", err, map[string]interface{}{
			"request_id": id,
		})
		return nil, databaseError("find verification request by id", err)
	}

	request, err := toDomainRequest(&row)
	if err != nil {
		return nil, err
	}
	return &request, nil
}

func (r *verificationRequestRepository) FindByUserID(ctx context.Context, userID domain.UserID) ([]domain.VerificationRequest, error) {
	key, err := numericKey(userID, "userId")
	if err != nil {
		return nil, err
	}
	return r.findWhere(ctx, "find verification requests by user", "user_id = ?", key)
}

func (r *verificationRequestRepository) FindByImageID(ctx context.Context, imageID domain.ImageID) ([]domain.VerificationRequest, error) {
	key, err := numericKey(imageID, "imageId")
	if err != nil {
		return nil, err
	}
	return r.findWhere(ctx, "find verification requests by image", "image_id = ?", key)
}

func (r *verificationRequestRepository) FindByStatus(ctx context.Context, status domain.VerificationStatus) ([]domain.VerificationRequest, error) {
	return r.findWhere(ctx, "find verification requests by status", "status = ?", status.String())
}

func (r *verificationRequestRepository) FindAll(ctx context.Context) ([]domain.VerificationRequest, error) {
	return r.findWhere(ctx, "list verification requests", "1 = 1")
}

func (r *verificationRequestRepository) CountByStatus(ctx context.Context, status domain.VerificationStatus) (int64, error) {
	return r.count(ctx, status, r.db.WithContext(ctx).Where("status = ?", status.String()))
}

func (r *verificationRequestRepository) CountByStatusCreatedBefore(ctx context.Context, status domain.VerificationStatus, before time.Time) (int64, error) {
	return r.count(ctx, status, r.db.WithContext(ctx).Where("status = ? AND created_at < ?", status.String(), before.UTC()))
}

func (r *verificationRequestRepository) count(ctx context.Context, status domain.VerificationStatus, query *gorm.DB) (int64, error) {
	var count int64
	if err := query.Model(&model.VerificationRequest{}).Count(&count).Error; err != nil {
		logger.FromContext(ctx).Error("Failed to count verification requests in database", err, map[string]interface{}{
			"status": status.String(),
		})
		return 0, databaseError("count verification requests", err)
	}
	return count, nil
}

// Save upserts by ID. A zero ID inserts and the returned request carries the
// generated key. There is no version column, so concurrent reviews of the same
// request overwrite each other.
func (r *verificationRequestRepository) Save(ctx context.Context, request domain.VerificationRequest) (domain.VerificationRequest, error) {
	row, err := toRequestRow(request)
	if err != nil {
		return domain.VerificationRequest{}, err
	}

	log := logger.FromContext(ctx)
	log.Debug("Saving verification request in database", map[string]interface{}{
		"request_id": row.ID,
		"status":     row.Status,
	})

	tx := r.db.WithContext(ctx).Omit(clause.Associations)
	if row.ID != 0 {
		tx = tx.Clauses(clause.OnConflict{UpdateAll: true})
	}
	if err := tx.Create(row).Error; err != nil {
		log.Error("Failed to save verification request in database", err, map[string]interface{}{
			"request_id": row.ID,
		})
		return domain.VerificationRequest{}, databaseError("save verification request", err)
	}

	log.Debug("Verification request saved in database", map[string]interface{}{
		"request_id": row.ID,
		"status":     row.Status,
	})
	return toDomainRequest(row)
}

func (r *verificationRequestRepository) findWhere(ctx context.Context, op string, query string, args ...interface{}) ([]domain.VerificationRequest, error) {
	var rows []model.VerificationRequest
	err := r.db.WithContext(ctx).
		Where(query, args...).
		Order("created_at ASC, id ASC").
		Find(&rows).Error
	if err != nil {
		logger.FromContext(ctx).Error("Failed to query verification requests in database", err, map[string]interface{}{
			"operation": op,
		})
		return nil, databaseError(op, err)
	}

	requests := make([]domain.VerificationRequest, 0, len(rows))
	for i := range rows {
		request, err := toDomainRequest(&rows[i])
		if err != nil {
			return nil, err
		}
		requests = append(requests, request)
	}
	return requests, nil
}
