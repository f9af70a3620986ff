package repository

import (
	"context"
	"time"

	"github.com/Eursukkul/seasonal-booking/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// scheduleLockKey identifies the advisory lock serialising check-then-write
// on the booking schedule.
const scheduleLockKey int64 = 0x5ea50b00c1

type BookingFilter struct {
	StatusID    *uint
	AssigneeID  *uint
	EventTypeID *uint
	From        *time.Time
	To          *time.Time
}

type BookingRepository interface {
	Transactor
	Create(ctx context.Context, tx *gorm.DB, booking *models.Booking) error
	Update(ctx context.Context, tx *gorm.DB, booking *models.Booking, columns ...string) error
	FindByID(ctx context.Context, id uint) (*models.Booking, error)
	FindByIDForUpdate(ctx context.Context, tx *gorm.DB, id uint) (*models.Booking, error)
	FindAll(ctx context.Context, filter BookingFilter) ([]models.Booking, error)
	FindStartingBetween(ctx context.Context, tx *gorm.DB, from, to time.Time, statusIDs []uint) ([]models.Booking, error)
	CountByStatus(ctx context.Context, statusID uint) (int64, error)
	CountByEventType(ctx context.Context, eventTypeID uint) (int64, error)
	LockSchedule(ctx context.Context, tx *gorm.DB) error
}

type bookingRepository struct {
	db *gorm.DB
}

func NewBookingRepository(db *gorm.DB) BookingRepository {
	return &bookingRepository{db: db}
}

func (r *bookingRepository) Transaction(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return transaction(ctx, r.db, fn)
}

func (r *bookingRepository) Create(ctx context.Context, tx *gorm.DB, booking *models.Booking) error {
	return conn(r.db, tx).WithContext(ctx).Omit(clause.Associations).Create(booking).Error
}

// Update writes only the named columns.
func (r *bookingRepository) Update(ctx context.Context, tx *gorm.DB, booking *models.Booking, columns ...string) error {
	if len(columns) == 0 {
		return nil
	}
	return conn(r.db, tx).WithContext(ctx).
		Model(booking).
		Omit(clause.Associations).
		Select(columns).
		Updates(booking).Error
}

func (r *bookingRepository) FindByID(ctx context.Context, id uint) (*models.Booking, error) {
	var booking models.Booking
	err := r.db.WithContext(ctx).
		Preload("EventType").
		Preload("Status").
		Preload("Assignee").
		First(&booking, id).Error
	if err != nil {
		return nil, err
	}
	return &booking, nil
}

// FindByIDForUpdate locks the booking row within the given transaction.
func (r *bookingRepository) FindByIDForUpdate(ctx context.Context, tx *gorm.DB, id uint) (*models.Booking, error) {
	var booking models.Booking
	err := conn(r.db, tx).WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&booking, id).Error
	if err != nil {
		return nil, err
	}
	return &booking, nil
}

func (r *bookingRepository) FindAll(ctx context.Context, filter BookingFilter) ([]models.Booking, error) {
	var bookings []models.Booking
	q := r.db.WithContext(ctx).
		Preload("EventType").
		Preload("Status").
		Preload("Assignee")
	if filter.StatusID != nil {
		q = q.Where("status_id = ?", *filter.StatusID)
	}
	if filter.AssigneeID != nil {
		q = q.Where("assignee_id = ?", *filter.AssigneeID)
	}
	if filter.EventTypeID != nil {
		q = q.Where("event_type_id = ?", *filter.EventTypeID)
	}
	if filter.From != nil {
		q = q.Where("start_at >= ?", *filter.From)
	}
	if filter.To != nil {
		q = q.Where("start_at <= ?", *filter.To)
	}
	if err := q.Order("start_at ASC, id ASC").Find(&bookings).Error; err != nil {
		return nil, err
	}
	return bookings, nil
}

// FindStartingBetween returns bookings in one of statusIDs whose unpadded
// start lies strictly between from and to.
func (r *bookingRepository) FindStartingBetween(ctx context.Context, tx *gorm.DB, from, to time.Time, statusIDs []uint) ([]models.Booking, error) {
	bookings := []models.Booking{}
	if len(statusIDs) == 0 {
		return bookings, nil
	}
	err := conn(r.db, tx).WithContext(ctx).
		Where("start_at > ? AND start_at < ? AND status_id IN ?", from, to, statusIDs).
		Order("start_at ASC, id ASC").
		Find(&bookings).Error
	if err != nil {
		return nil, err
	}
	return bookings, nil
}

func (r *bookingRepository) CountByStatus(ctx context.Context, statusID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Booking{}).
		Where("status_id = ?", statusID).
		Count(&count).Error
	return count, err
}

func (r *bookingRepository) CountByEventType(ctx context.Context, eventTypeID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Booking{}).
		Where("event_type_id = ?", eventTypeID).
		Count(&count).Error
	return count, err
}

// LockSchedule takes a transaction-scoped advisory lock. Concurrent
// creates and reschedules queue behind it until the holder commits.
func (r *bookingRepository) LockSchedule(ctx context.Context, tx *gorm.DB) error {
	return tx.WithContext(ctx).Exec("SELECT pg_advisory_xact_lock(?)", scheduleLockKey).Error
}
