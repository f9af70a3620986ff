package repository

import (
	"context"

	"github.com/Eursukkul/seasonal-booking/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type EventTypeRepository interface {
	Create(ctx context.Context, et *models.EventType) error
	Update(ctx context.Context, et *models.EventType) error
	Upsert(ctx context.Context, et *models.EventType) error
	LinkUpstream(ctx context.Context, id, upstreamID uint) error
	Delete(ctx context.Context, id uint) error
	FindByID(ctx context.Context, id uint) (*models.EventType, error)
	FindBySlug(ctx context.Context, slug string) (*models.EventType, error)
	FindByUpstreamID(ctx context.Context, upstreamID uint) (*models.EventType, error)
	FindAll(ctx context.Context, activeOnly bool) ([]models.EventType, error)
	LoadAll(ctx context.Context, tx *gorm.DB) ([]models.EventType, error)
}

type eventTypeRepository struct {
	db *gorm.DB
}

func NewEventTypeRepository(db *gorm.DB) EventTypeRepository {
	return &eventTypeRepository{db: db}
}

func (r *eventTypeRepository) Create(ctx context.Context, et *models.EventType) error {
	return r.db.WithContext(ctx).Create(et).Error
}

func (r *eventTypeRepository) Update(ctx context.Context, et *models.EventType) error {
	return r.db.WithContext(ctx).
		Model(et).
		Select("slug", "name", "duration_minutes", "buffer_before_minutes", "buffer_after_minutes", "is_active", "sort_order").
		Updates(et).Error
}

// Upsert inserts or overwrites the event type with the same upstream ID.
// Inserted rows draw their local ID from the sequence.
func (r *eventTypeRepository) Upsert(ctx context.Context, et *models.EventType) error {
	et.ID = 0
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "upstream_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"slug", "name", "duration_minutes", "buffer_before_minutes", "buffer_after_minutes",
			"is_active", "sort_order", "updated_at",
		}),
	}).Create(et).Error
}

// LinkUpstream attaches a local event type to its upstream counterpart.
func (r *eventTypeRepository) LinkUpstream(ctx context.Context, id, upstreamID uint) error {
	return r.db.WithContext(ctx).
		Model(&models.EventType{}).
		Where("id = ? AND upstream_id IS NULL", id).
		Update("upstream_id", upstreamID).Error
}

func (r *eventTypeRepository) FindByUpstreamID(ctx context.Context, upstreamID uint) (*models.EventType, error) {
	var et models.EventType
	if err := r.db.WithContext(ctx).Where("upstream_id = ?", upstreamID).First(&et).Error; err != nil {
		return nil, err
	}
	return &et, nil
}

func (r *eventTypeRepository) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&models.EventType{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *eventTypeRepository) FindByID(ctx context.Context, id uint) (*models.EventType, error) {
	var et models.EventType
	if err := r.db.WithContext(ctx).First(&et, id).Error; err != nil {
		return nil, err
	}
	return &et, nil
}

func (r *eventTypeRepository) FindBySlug(ctx context.Context, slug string) (*models.EventType, error) {
	var et models.EventType
	if err := r.db.WithContext(ctx).Where("slug = ?", slug).First(&et).Error; err != nil {
		return nil, err
	}
	return &et, nil
}

func (r *eventTypeRepository) FindAll(ctx context.Context, activeOnly bool) ([]models.EventType, error) {
	var eventTypes []models.EventType
	q := r.db.WithContext(ctx)
	if activeOnly {
		q = q.Where("is_active = ?", true)
	}
	if err := q.Order("sort_order ASC, id ASC").Find(&eventTypes).Error; err != nil {
		return nil, err
	}
	return eventTypes, nil
}

// LoadAll reads every event type, inactive ones included, on tx when given.
func (r *eventTypeRepository) LoadAll(ctx context.Context, tx *gorm.DB) ([]models.EventType, error) {
	var eventTypes []models.EventType
	if err := conn(r.db, tx).WithContext(ctx).Order("sort_order ASC, id ASC").Find(&eventTypes).Error; err != nil {
		return nil, err
	}
	return eventTypes, nil
}
