package availability

import (
	"time"

	"github.com/Eursukkul/seasonal-booking/internal/models"
)

const (
	statusPending   uint = 1
	statusReviewing uint = 2
	statusApproved  uint = 3
	statusRejected  uint = 4
	statusArchived  uint = 5

	typeParty    uint = 10 // 30/30 buffers, 120 min
	typeSetup    uint = 11 // 120 before, 0 after
	typeTeardown uint = 12 // 0 before, 30 after
)

func testStatuses() []models.WorkflowStatus {
	return []models.WorkflowStatus{
		{ID: statusPending, Slug: models.SlugPending, Name: "Pending", IsDefault: true, IsActive: true},
		{ID: statusReviewing, Slug: models.SlugReviewing, Name: "Reviewing", IsActive: true},
		{ID: statusApproved, Slug: models.SlugApproved, Name: "Approved", IsActive: true},
		{ID: statusRejected, Slug: models.SlugRejected, Name: "Rejected", IsActive: true, IsFinal: true},
		{ID: statusArchived, Slug: "archived", Name: "Archived", IsActive: false},
	}
}

func testEventTypes() []models.EventType {
	return []models.EventType{
		{ID: typeParty, Slug: "christmas-party", Name: "Christmas Party", DurationMinutes: 120, BufferBeforeMinutes: 30, BufferAfterMinutes: 30, IsActive: true},
		{ID: typeSetup, Slug: "market-stall", Name: "Market Stall", DurationMinutes: 60, BufferBeforeMinutes: 120, IsActive: true},
		{ID: typeTeardown, Slug: "nikolaus-visit", Name: "Nikolaus Visit", DurationMinutes: 60, BufferAfterMinutes: 30, IsActive: true},
	}
}

func testCatalog() *Catalog {
	return NewCatalog(testEventTypes(), testStatuses())
}

func at(hour, minute int) time.Time {
	return time.Date(2024, 12, 13, hour, minute, 0, 0, time.UTC)
}

func ptr[T any](v T) *T {
	return &v
}

func booking(id uint, eventTypeID uint, statusID uint, start time.Time, duration int) models.Booking {
	return models.Booking{
		ID:              id,
		EventTypeID:     eventTypeID,
		StatusID:        statusID,
		StartAt:         start,
		DurationMinutes: duration,
	}
}
