package availability

import (
	"slices"
	"time"

	"github.com/Eursukkul/seasonal-booking/internal/models"
)

// BlockedSlot is an approved booking as shown on the public calendar.
// It carries no contact details, notes or assignee.
type BlockedSlot struct {
	ID             uint
	Date           string
	StartTime      string
	EndTime        string
	EventTypeLabel string
	StatusSlug     string

	start time.Time
}

// Within keeps the bookings whose padded interval overlaps [from, to].
// A nil bound leaves that side open.
func Within(bookings []models.Booking, cat *Catalog, from, to *time.Time) []models.Booking {
	kept := make([]models.Booking, 0, len(bookings))
	for _, b := range bookings {
		padded := Padded(b, cat)
		if from != nil && !padded.End.After(*from) {
			continue
		}
		if to != nil && padded.Start.After(*to) {
			continue
		}
		kept = append(kept, b)
	}
	return kept
}

// Project turns the approved bookings among the input into blocked slots
// rendered in loc, ordered by padded start. Without an approved status in
// the catalog the result is empty.
func Project(bookings []models.Booking, cat *Catalog, loc *time.Location) []BlockedSlot {
	slots := []BlockedSlot{}

	approved, ok := cat.StatusOfKind(models.StatusApproved)
	if !ok {
		return slots
	}

	for _, b := range bookings {
		if b.StatusID != approved.ID {
			continue
		}

		padded := Padded(b, cat)
		start := padded.Start.In(loc)
		end := padded.End.In(loc)

		var label string
		if et, ok := cat.EventType(b.EventTypeID); ok {
			label = et.Name
		}

		slots = append(slots, BlockedSlot{
			ID:             b.ID,
			Date:           start.Format(time.DateOnly),
			StartTime:      start.Format("15:04"),
			EndTime:        end.Format("15:04"),
			EventTypeLabel: label,
			StatusSlug:     approved.Slug,
			start:          padded.Start,
		})
	}

	slices.SortStableFunc(slots, func(a, b BlockedSlot) int {
		return a.start.Compare(b.start)
	})

	return slots
}
