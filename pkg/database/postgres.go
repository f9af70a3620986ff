package database

import (
	"fmt"
	"time"

	"github.com/Eursukkul/seasonal-booking/internal/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func NewPostgresDB(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Warn),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("database handle: %w", err)
	}
	sqlDB.SetMaxOpenConns(20)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)

	return db, nil
}

func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.User{},
		&models.EventType{},
		&models.WorkflowStatus{},
		&models.Booking{},
		&models.ActivityLog{},
	); err != nil {
		return fmt.Errorf("auto-migrate: %w", err)
	}

	// Partial unique index: at most one workflow status may be the default
	if err := db.Exec(`
		CREATE UNIQUE INDEX IF NOT EXISTS idx_workflow_status_single_default
		ON workflow_statuses ((is_default))
		WHERE is_default
	`).Error; err != nil {
		return fmt.Errorf("create default status index: %w", err)
	}

	return nil
}
