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

// UserRepository adds credential access to the domain contract. Password
// hashes never enter domain.User.
type UserRepository interface {
	domain.UserRepository
	FindCredentials(ctx context.Context, email domain.Email) (*domain.User, string, error)
	Create(ctx context.Context, user domain.User, passwordHash string) (domain.User, error)
}

type userRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) FindByID(ctx context.Context, id domain.UserID) (*domain.User, error) {
	log := logger.FromContext(ctx)
	log.Debug("Finding user by ID in database", map[string]interface{}{
		"user_id": id.String(),
	})

	key, err := numericKey(id, "userId")
	if err != nil {
		return nil, err
	}

	var row model.User
	if err := r.db.WithContext(ctx).First(&row, key).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		log.Error("Failed to find user by ID in database", err, map[string]interface{}{
			"user_id": id.String(),
		})
		return nil, databaseError("find user by id", err)
	}

	user, err := toDomainUser(&row)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) FindByEmail(ctx context.Context, email domain.Email) (*domain.User, error) {
	user, _, err := r.findByEmail(ctx, email)
	return user, err
}

func (r *userRepository) FindCredentials(ctx context.Context, email domain.Email) (*domain.User, string, error) {
	return r.findByEmail(ctx, email)
}

func (r *userRepository) findByEmail(ctx context.Context, email domain.Email) (*domain.User, string, error) {
	log := logger.FromContext(ctx)
	log.Debug("Finding user by email in database", map[string]interface{}{
		"email": email.String(),
	})

	var row model.User
	err := r.db.WithContext(ctx).Where("email = ?", email.String()).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", nil
		}
		log.Error("Failed to find user by email in database", err, map[string]interface{}{
			"email": email.String(),
		})
		return nil, "", databaseError("find user by email", err)
	}

	user, err := toDomainUser(&row)
	if err != nil {
		return nil, "", err
	}
	return &user, row.PasswordHash, nil
}

func (r *userRepository) FindAll(ctx context.Context) ([]domain.User, error) {
	var rows []model.User
	if err := r.db.WithContext(ctx).Order("id ASC").Find(&rows).Error; err != nil {
		logger.FromContext(ctx).Error("Failed to list users in database", err)
		return nil, databaseError("list users", err)
	}

	users := make([]domain.User, 0, len(rows))
	for i := range rows {
		user, err := toDomainUser(&rows[i])
		if err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, nil
}

// Save upserts the profile columns. An unsaved user (ID "0") is inserted with
// an empty password hash; use Create to set one.
func (r *userRepository) Save(ctx context.Context, user domain.User) (domain.User, error) {
	key, err := numericKey(user.ID(), "userId")
	if err != nil {
		return domain.User{}, err
	}
	if key == 0 {
		return r.Create(ctx, user, "")
	}

	row := toUserRow(user, key)
	log := logger.FromContext(ctx)
	log.Debug("Saving user in database", map[string]interface{}{
		"user_id": key,
	})

	err = r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"email", "name", "role", "updated_at"}),
	}).Create(row).Error
	if err != nil {
		log.Error("Failed to save user in database", err, map[string]interface{}{
			"user_id": key,
		})
		return domain.User{}, writeError("save user", err)
	}
	return r.reload(ctx, row.ID)
}

func (r *userRepository) Create(ctx context.Context, user domain.User, passwordHash string) (domain.User, error) {
	row := toUserRow(user, 0)
	row.PasswordHash = passwordHash

	log := logger.FromContext(ctx)
	log.Debug("Creating user in database", map[string]interface{}{
		"email": row.Email,
	})

	if err := r.db.WithContext(ctx).Create(row).Error; err != nil {
		log.Error("Failed to create user in database", err, map[string]interface{}{
			"email": row.Email,
		})
		return domain.User{}, writeError("create user", err)
	}

	log.Debug("User created in database", map[string]interface{}{
		"user_id": row.ID,
		"email":   row.Email,
	})
	return toDomainUser(row)
}

func (r *userRepository) reload(ctx context.Context, key uint) (domain.User, error) {
	var row model.User
	if err := r.db.WithContext(ctx).First(&row, key).Error; err != nil {
		return domain.User{}, databaseError("reload user", err)
	}
	return toDomainUser(&row)
}

func toUserRow(user domain.User, key uint) *model.User {
	return &model.User{
		ID:        key,
		Email:     user.Email().String(),
		Name:      user.Name(),
		Role:      user.Role().String(),
		CreatedAt: user.CreatedAt().Time(),
		UpdatedAt: user.UpdatedAt().Time(),
	}
}
