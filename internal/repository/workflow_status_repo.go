package repository

import (
	"context"

	"github.com/Eursukkul/seasonal-booking/internal/models"
	"gorm.io/gorm"
)

type WorkflowStatusRepository interface {
	Transactor
	Create(ctx context.Context, tx *gorm.DB, status *models.WorkflowStatus) error
	Update(ctx context.Context, tx *gorm.DB, status *models.WorkflowStatus) error
	Delete(ctx context.Context, id uint) error
	FindByID(ctx context.Context, id uint) (*models.WorkflowStatus, error)
	FindBySlug(ctx context.Context, slug string) (*models.WorkflowStatus, error)
	FindDefault(ctx context.Context) (*models.WorkflowStatus, error)
	FindAll(ctx context.Context, activeOnly bool) ([]models.WorkflowStatus, error)
	LoadAll(ctx context.Context, tx *gorm.DB) ([]models.WorkflowStatus, error)
	ClearDefaultExcept(ctx context.Context, tx *gorm.DB, keepID uint) error
}

type workflowStatusRepository struct {
	db *gorm.DB
}

func NewWorkflowStatusRepository(db *gorm.DB) WorkflowStatusRepository {
	return &workflowStatusRepository{db: db}
}

func (r *workflowStatusRepository) Transaction(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return transaction(ctx, r.db, fn)
}

func (r *workflowStatusRepository) Create(ctx context.Context, tx *gorm.DB, status *models.WorkflowStatus) error {
	return conn(r.db, tx).WithContext(ctx).Create(status).Error
}

func (r *workflowStatusRepository) Update(ctx context.Context, tx *gorm.DB, status *models.WorkflowStatus) error {
	return conn(r.db, tx).WithContext(ctx).
		Model(status).
		Select("slug", "name", "sort_order", "color", "is_default", "is_final", "is_active").
		Updates(status).Error
}

func (r *workflowStatusRepository) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&models.WorkflowStatus{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *workflowStatusRepository) FindByID(ctx context.Context, id uint) (*models.WorkflowStatus, error) {
	var status models.WorkflowStatus
	if err := r.db.WithContext(ctx).First(&status, id).Error; err != nil {
		return nil, err
	}
	return &status, nil
}

func (r *workflowStatusRepository) FindBySlug(ctx context.Context, slug string) (*models.WorkflowStatus, error) {
	var status models.WorkflowStatus
	if err := r.db.WithContext(ctx).Where("slug = ?", slug).First(&status).Error; err != nil {
		return nil, err
	}
	return &status, nil
}

func (r *workflowStatusRepository) FindDefault(ctx context.Context) (*models.WorkflowStatus, error) {
	var status models.WorkflowStatus
	if err := r.db.WithContext(ctx).Where("is_default = ?", true).First(&status).Error; err != nil {
		return nil, err
	}
	return &status, nil
}

func (r *workflowStatusRepository) FindAll(ctx context.Context, activeOnly bool) ([]models.WorkflowStatus, error) {
	var statuses []models.WorkflowStatus
	q := r.db.WithContext(ctx)
	if activeOnly {
		q = q.Where("is_active = ?", true)
	}
	if err := q.Order("sort_order ASC, id ASC").Find(&statuses).Error; err != nil {
		return nil, err
	}
	return statuses, nil
}

// LoadAll reads every status, inactive ones included, on tx when given.
func (r *workflowStatusRepository) LoadAll(ctx context.Context, tx *gorm.DB) ([]models.WorkflowStatus, error) {
	var statuses []models.WorkflowStatus
	if err := conn(r.db, tx).WithContext(ctx).Order("sort_order ASC, id ASC").Find(&statuses).Error; err != nil {
		return nil, err
	}
	return statuses, nil
}

// ClearDefaultExcept unsets is_default on every status other than keepID.
// Pass 0 to clear it everywhere.
func (r *workflowStatusRepository) ClearDefaultExcept(ctx context.Context, tx *gorm.DB, keepID uint) error {
	return conn(r.db, tx).WithContext(ctx).
		Model(&models.WorkflowStatus{}).
		Where("is_default = ? AND id <> ?", true, keepID).
		Update("is_default", false).Error
}
