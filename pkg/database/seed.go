package database

import (
	"context"
	"fmt"

	"github.com/Eursukkul/seasonal-booking/internal/models"
	"github.com/Eursukkul/seasonal-booking/pkg/auth"
	"gorm.io/gorm"
)

type SeedOptions struct {
	AdminEmail    string
	AdminPassword string
}

var seedEventTypes = []models.EventType{
	{Slug: "christmas-party", Name: "Christmas Party", DurationMinutes: 180, BufferBeforeMinutes: 60, BufferAfterMinutes: 30, IsActive: true, SortOrder: 1},
	{Slug: "nikolaus-visit", Name: "Nikolaus Visit", DurationMinutes: 60, BufferBeforeMinutes: 30, BufferAfterMinutes: 30, IsActive: true, SortOrder: 2},
	{Slug: "advent-workshop", Name: "Advent Wreath Workshop", DurationMinutes: 120, BufferBeforeMinutes: 30, BufferAfterMinutes: 15, IsActive: true, SortOrder: 3},
	{Slug: "new-years-eve-dinner", Name: "New Year's Eve Dinner", DurationMinutes: 240, BufferBeforeMinutes: 120, BufferAfterMinutes: 60, IsActive: true, SortOrder: 4},
}

var seedStatuses = []models.WorkflowStatus{
	{Slug: models.SlugPending, Name: "Pending", SortOrder: 1, Color: "gray", IsDefault: true, IsActive: true},
	{Slug: models.SlugReviewing, Name: "In Review", SortOrder: 2, Color: "blue", IsActive: true},
	{Slug: models.SlugApproved, Name: "Approved", SortOrder: 3, Color: "green", IsActive: true},
	{Slug: models.SlugCompleted, Name: "Completed", SortOrder: 4, Color: "teal", IsFinal: true, IsActive: true},
	{Slug: models.SlugRejected, Name: "Rejected", SortOrder: 5, Color: "red", IsFinal: true, IsActive: true},
	{Slug: models.SlugCancelled, Name: "Cancelled", SortOrder: 6, Color: "orange", IsFinal: true, IsActive: true},
}

// Seed inserts the reference catalog and, when a password is given, an
// admin user. Rows that already exist by slug or email are left untouched.
func Seed(ctx context.Context, db *gorm.DB, opts SeedOptions) error {
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, et := range seedEventTypes {
			if err := tx.Where(models.EventType{Slug: et.Slug}).FirstOrCreate(&et).Error; err != nil {
				return fmt.Errorf("seed event type %s: %w", et.Slug, err)
			}
		}

		var defaults int64
		if err := tx.Model(&models.WorkflowStatus{}).Where("is_default = ?", true).Count(&defaults).Error; err != nil {
			return fmt.Errorf("count default statuses: %w", err)
		}
		for _, st := range seedStatuses {
			if defaults > 0 {
				st.IsDefault = false
			}
			if err := tx.Where(models.WorkflowStatus{Slug: st.Slug}).FirstOrCreate(&st).Error; err != nil {
				return fmt.Errorf("seed status %s: %w", st.Slug, err)
			}
		}

		if opts.AdminPassword == "" {
			return nil
		}
		hash, err := auth.HashPassword(opts.AdminPassword)
		if err != nil {
			return fmt.Errorf("hash admin password: %w", err)
		}
		admin := models.User{Name: "Administrator", Email: opts.AdminEmail, PasswordHash: hash, IsAdmin: true, IsActive: true}
		if err := tx.Where(models.User{Email: opts.AdminEmail}).FirstOrCreate(&admin).Error; err != nil {
			return fmt.Errorf("seed admin user: %w", err)
		}
		return nil
	})
}
