package repository

import (
	"context"

	"github.com/Eursukkul/seasonal-booking/internal/models"
	"gorm.io/gorm"
)

// ActivityRepository only appends and reads; entries are never changed.
type ActivityRepository interface {
	Create(ctx context.Context, tx *gorm.DB, entry *models.ActivityLog) error
	FindByBookingID(ctx context.Context, bookingID uint) ([]models.ActivityLog, error)
}

type activityRepository struct {
	db *gorm.DB
}

func NewActivityRepository(db *gorm.DB) ActivityRepository {
	return &activityRepository{db: db}
}

func (r *activityRepository) Create(ctx context.Context, tx *gorm.DB, entry *models.ActivityLog) error {
	return conn(r.db, tx).WithContext(ctx).Omit("Booking").Create(entry).Error
}

// FindByBookingID lists entries newest first.
func (r *activityRepository) FindByBookingID(ctx context.Context, bookingID uint) ([]models.ActivityLog, error) {
	var entries []models.ActivityLog
	err := r.db.WithContext(ctx).
		Where("booking_id = ?", bookingID).
		Order("created_at DESC, id DESC").
		Find(&entries).Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}
