package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/Eursukkul/seasonal-booking/internal/models"
	"github.com/Eursukkul/seasonal-booking/internal/repository"
	"gorm.io/gorm"
)

var (
	ErrStatusInUse         = errors.New("workflow status is used by bookings")
	ErrStatusIsDefault     = errors.New("the default workflow status cannot be deleted")
	ErrDefaultRequired     = errors.New("mark another status as default instead of clearing the flag")
	ErrDefaultMustBeActive = errors.New("the default workflow status must be active")
	ErrInvalidStatus       = errors.New("invalid workflow status")
)

type WorkflowStatusService interface {
	ListStatuses(ctx context.Context, activeOnly bool) ([]models.WorkflowStatus, error)
	GetStatus(ctx context.Context, id uint) (*models.WorkflowStatus, error)
	GetStatusBySlug(ctx context.Context, slug string) (*models.WorkflowStatus, error)
	GetDefaultStatus(ctx context.Context) (*models.WorkflowStatus, error)
	CreateStatus(ctx context.Context, status *models.WorkflowStatus) error
	UpdateStatus(ctx context.Context, status *models.WorkflowStatus) error
	DeleteStatus(ctx context.Context, id uint) error
}

type workflowStatusService struct {
	repo        repository.WorkflowStatusRepository
	bookingRepo repository.BookingRepository
	logger      *slog.Logger
}

func NewWorkflowStatusService(repo repository.WorkflowStatusRepository, bookingRepo repository.BookingRepository, logger *slog.Logger) WorkflowStatusService {
	return &workflowStatusService{repo: repo, bookingRepo: bookingRepo, logger: logger}
}

func (s *workflowStatusService) ListStatuses(ctx context.Context, activeOnly bool) ([]models.WorkflowStatus, error) {
	return s.repo.FindAll(ctx, activeOnly)
}

func (s *workflowStatusService) GetStatus(ctx context.Context, id uint) (*models.WorkflowStatus, error) {
	return notFoundAs(s.repo.FindByID(ctx, id))
}

func (s *workflowStatusService) GetStatusBySlug(ctx context.Context, slug string) (*models.WorkflowStatus, error) {
	return notFoundAs(s.repo.FindBySlug(ctx, slug))
}

func (s *workflowStatusService) GetDefaultStatus(ctx context.Context) (*models.WorkflowStatus, error) {
	st, err := s.repo.FindDefault(ctx)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNoDefaultStatus
	}
	return st, err
}

// CreateStatus inserts the status. When it is the new default, the flag is
// cleared on every other status in the same transaction.
func (s *workflowStatusService) CreateStatus(ctx context.Context, status *models.WorkflowStatus) error {
	if err := normalizeStatus(status); err != nil {
		return err
	}

	err := s.repo.Transaction(ctx, func(tx *gorm.DB) error {
		if status.IsDefault {
			if err := s.repo.ClearDefaultExcept(ctx, tx, 0); err != nil {
				return err
			}
		}
		return s.repo.Create(ctx, tx, status)
	})
	if err != nil {
		return mapSlugError(err)
	}

	s.logger.Info("workflow status created", "status_id", status.ID, "slug", status.Slug, "default", status.IsDefault)
	return nil
}

func (s *workflowStatusService) UpdateStatus(ctx context.Context, status *models.WorkflowStatus) error {
	current, err := s.GetStatus(ctx, status.ID)
	if err != nil {
		return err
	}
	if current.IsDefault && !status.IsDefault {
		return ErrDefaultRequired
	}
	if err := normalizeStatus(status); err != nil {
		return err
	}

	err = s.repo.Transaction(ctx, func(tx *gorm.DB) error {
		if status.IsDefault {
			if err := s.repo.ClearDefaultExcept(ctx, tx, status.ID); err != nil {
				return err
			}
		}
		return s.repo.Update(ctx, tx, status)
	})
	if err != nil {
		return mapSlugError(err)
	}

	s.logger.Info("workflow status updated", "status_id", status.ID, "slug", status.Slug, "default", status.IsDefault)
	return nil
}

func (s *workflowStatusService) DeleteStatus(ctx context.Context, id uint) error {
	status, err := s.GetStatus(ctx, id)
	if err != nil {
		return err
	}
	if status.IsDefault {
		return ErrStatusIsDefault
	}

	count, err := s.bookingRepo.CountByStatus(ctx, id)
	if err != nil {
		return err
	}
	if count > 0 {
		return ErrStatusInUse
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrForeignKeyViolated) {
			return ErrStatusInUse
		}
		return err
	}
	s.logger.Info("workflow status deleted", "status_id", id)
	return nil
}

func normalizeStatus(status *models.WorkflowStatus) error {
	status.Name = strings.TrimSpace(status.Name)
	if status.Name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidStatus)
	}
	if status.Slug = Slugify(status.Slug); status.Slug == "" {
		status.Slug = Slugify(status.Name)
	}
	if status.Slug == "" {
		return fmt.Errorf("%w: slug is required", ErrInvalidStatus)
	}
	if status.IsDefault && !status.IsActive {
		return ErrDefaultMustBeActive
	}
	return nil
}

func notFoundAs(status *models.WorkflowStatus, err error) (*models.WorkflowStatus, error) {
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrStatusNotFound
		}
		return nil, err
	}
	return status, nil
}
