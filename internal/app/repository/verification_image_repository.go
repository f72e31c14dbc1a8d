package repository

import (
	"context"
	"errors"

	"github.com/ikkim/verification-backend/internal/app/domain"
	"github.com/ikkim/verification-backend/internal/app/model"
	"github.com/ikkim/verification-backend/pkg/logger"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type verificationImageRepository struct {
	db *gorm.DB
}

func NewVerificationImageRepository(db *gorm.DB) domain.VerificationImageRepository {
	return &verificationImageRepository{db: db}
}

func (r *verificationImageRepository) FindByID(ctx context.Context, id domain.ImageID) (*domain.VerificationImage, error) {
	log := logger.FromContext(ctx)
	log.Debug("Finding verification image by ID in database", map[string]interface{}{
		"image_id": id.String(),
	})

	key, err := numericKey(id, "imageId")
	if err != nil {
		return nil, err
	}

	var row model.VerificationImage
	if err := r.db.WithContext(ctx).First(&row, key).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		log.Error("Failed to find verification image in database", err, map[string]interface{}{
			"image_id": id.String(),
		})
		return nil, databaseError("find verification image by id", err)
	}

	image, err := toDomainImage(&row)
	if err != nil {
		return nil, err
	}
	return &image, nil
}

func (r *verificationImageRepository) FindByUserID(ctx context.Context, userID domain.UserID) ([]domain.VerificationImage, error) {
	key, err := numericKey(userID, "userId")
	if err != nil {
		return nil, err
	}

	var rows []model.VerificationImage
	err = r.db.WithContext(ctx).
		Where("user_id = ?", key).
		Order("created_at DESC, id DESC").
		Find(&rows).Error
	if err != nil {
		logger.FromContext(ctx).Error("Failed to list verification images in database", err, map[string]interface{}{
			"user_id": userID.String(),
		})
		return nil, databaseError("find verification images by user", err)
	}

	images := make([]domain.VerificationImage, 0, len(rows))
	for i := range rows {
		image, err := toDomainImage(&rows[i])
		if err != nil {
			return nil, err
		}
		images = append(images, image)
	}
	return images, nil
}

// Save inserts an image whose ID is "0" and upserts any other. Images are
// never modified after creation, so the update path only repairs a missing row.
func (r *verificationImageRepository) Save(ctx context.Context, image domain.VerificationImage) (domain.VerificationImage, error) {
	key, err := numericKey(image.ID(), "imageId")
	if err != nil {
		return domain.VerificationImage{}, err
	}
	userKey, err := numericKey(image.UserID(), "userId")
	if err != nil {
		return domain.VerificationImage{}, err
	}

	row := &model.VerificationImage{
		ID:        key,
		UserID:    userKey,
		ImageURL:  image.ImageURL(),
		CreatedAt: image.CreatedAt().Time(),
	}

	log := logger.FromContext(ctx)
	log.Debug("Saving verification image in database", map[string]interface{}{
		"image_id": key,
		"user_id":  userKey,
	})

	tx := r.db.WithContext(ctx).Omit(clause.Associations)
	if key != 0 {
		tx = tx.Clauses(clause.OnConflict{UpdateAll: true})
	}
	if err := tx.Create(row).Error; err != nil {
		log.Error("Failed to save verification image in database", err, map[string]interface{}{
			"user_id": userKey,
		})
		return domain.VerificationImage{}, databaseError("save verification image", err)
	}

	log.Debug("Verification image saved in database", map[string]interface{}{
		"image_id": row.ID,
	})
	return toDomainImage(row)
}
