package db

import (
	"github.com/ikkim/verification-backend/internal/app/model"
	"github.com/ikkim/verification-backend/pkg/logger"
	"gorm.io/gorm"
)

// Models lists every table owned by the service, in dependency order.
func Models() []interface{} {
	return []interface{}{
		&model.User{},
		&model.VerificationImage{},
		&model.VerificationRequest{},
	}
}

// Migrate runs gorm AutoMigrate against the global connection. Production
// deployments can use cmd/migrate with the SQL files under db/migrations instead.
func Migrate() error {
	return MigrateDB(DB)
}

func MigrateDB(conn *gorm.DB) error {
	logger.Info("Running database migrations...")

	models := Models()
	if err := conn.AutoMigrate(models...); err != nil {
		logger.Error("Failed to run migrations", err)
		return err
	}

	logger.Info("Database migrations completed successfully", map[string]interface{}{
		"models_count": len(models),
	})
	return nil
}
