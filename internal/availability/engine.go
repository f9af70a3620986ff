package availability

import (
	"time"

	"github.com/Eursukkul/seasonal-booking/internal/models"
)

// Candidate is a requested slot. ExcludeBookingID skips one existing
// booking so a rescheduled booking is not checked against itself.
type Candidate struct {
	Start            time.Time
	DurationMinutes  int
	EventTypeID      *uint
	ExcludeBookingID uint
}

func (c Candidate) Padded(cat *Catalog) Interval {
	return Span(c.Start, c.DurationMinutes).Pad(cat.Buffers(c.EventTypeID))
}

// Padded returns the booking's interval widened by its own event type's buffers.
func Padded(b models.Booking, cat *Catalog) Interval {
	id := b.EventTypeID
	return Span(b.StartAt, b.DurationMinutes).Pad(cat.Buffers(&id))
}

// Check reports whether the candidate conflicts with none of the existing
// bookings that block their slot.
func Check(cand Candidate, existing []models.Booking, cat *Catalog) bool {
	_, ok := FirstConflict(cand, existing, cat)
	return !ok
}

// FirstConflict returns the first blocking booking whose padded interval
// overlaps the candidate's.
func FirstConflict(cand Candidate, existing []models.Booking, cat *Catalog) (models.Booking, bool) {
	padded := cand.Padded(cat)
	for _, b := range existing {
		if cand.ExcludeBookingID != 0 && b.ID == cand.ExcludeBookingID {
			continue
		}
		if !cat.Blocks(b.StatusID) {
			continue
		}
		if Padded(b, cat).Overlaps(padded) {
			return b, true
		}
	}
	return models.Booking{}, false
}

// SearchWindow is the open range of unpadded start instants an existing
// booking must fall in to possibly overlap the candidate, given the
// longest allowed booking and the largest buffers in the catalog.
func SearchWindow(cand Candidate, cat *Catalog) Interval {
	padded := cand.Padded(cat)
	widest := cat.MaxBuffers()
	return Interval{
		Start: padded.Start.Add(-Minutes(models.MaxBookingDuration) - widest.After),
		End:   padded.End.Add(widest.Before),
	}
}
