package availability

import (
	"testing"
	"time"

	"github.com/Eursukkul/seasonal-booking/internal/models"
	"github.com/stretchr/testify/assert"
)

func TestPadded_UsesOwnEventTypeBuffers(t *testing.T) {
	cat := testCatalog()
	b := booking(1, typeParty, statusApproved, at(10, 0), 120)

	i := Padded(b, cat)

	assert.Equal(t, at(9, 30), i.Start)
	assert.Equal(t, at(12, 30), i.End)
}

func TestPadded_UnknownEventTypeHasNoBuffers(t *testing.T) {
	cat := testCatalog()
	b := booking(1, 999, statusApproved, at(10, 0), 120)

	i := Padded(b, cat)

	assert.Equal(t, at(10, 0), i.Start)
	assert.Equal(t, at(12, 0), i.End)
}

func TestCheck_EndToEndExample(t *testing.T) {
	cat := testCatalog()
	existing := []models.Booking{booking(1, typeParty, statusApproved, at(10, 0), 120)}

	assert.False(t, Check(Candidate{Start: at(12, 30), DurationMinutes: 60, EventTypeID: ptr(typeParty)}, existing, cat))
	assert.True(t, Check(Candidate{Start: at(13, 0), DurationMinutes: 60, EventTypeID: ptr(typeParty)}, existing, cat))
}

func TestCheck_TouchingBoundaryIsAvailable(t *testing.T) {
	cat := testCatalog()
	existing := []models.Booking{booking(1, typeParty, statusApproved, at(10, 0), 120)}

	// existing padded end is 12:30; candidate padded start is 13:00 - 30min.
	assert.True(t, Check(Candidate{Start: at(13, 0), DurationMinutes: 60, EventTypeID: ptr(typeParty)}, existing, cat))
	assert.False(t, Check(Candidate{Start: at(12, 59), DurationMinutes: 60, EventTypeID: ptr(typeParty)}, existing, cat))

	// Before the existing booking: candidate padded end must not pass 09:30.
	assert.True(t, Check(Candidate{Start: at(7, 30), DurationMinutes: 90, EventTypeID: ptr(typeParty)}, existing, cat))
	assert.False(t, Check(Candidate{Start: at(7, 31), DurationMinutes: 90, EventTypeID: ptr(typeParty)}, existing, cat))
}

func TestCheck_CandidateWithoutEventTypeStillHonoursExistingBuffers(t *testing.T) {
	cat := testCatalog()
	existing := []models.Booking{booking(1, typeParty, statusApproved, at(10, 0), 120)}

	assert.False(t, Check(Candidate{Start: at(12, 15), DurationMinutes: 30}, existing, cat))
	assert.True(t, Check(Candidate{Start: at(12, 30), DurationMinutes: 30}, existing, cat))
}

func TestCheck_PendingNeverBlocks(t *testing.T) {
	cat := testCatalog()
	existing := []models.Booking{
		booking(1, typeParty, statusPending, at(10, 0), 120),
		booking(2, typeParty, statusPending, at(11, 0), 480),
	}

	assert.True(t, Check(Candidate{Start: at(10, 0), DurationMinutes: 120, EventTypeID: ptr(typeParty)}, existing, cat))
}

func TestCheck_InactiveStatusNeverBlocks(t *testing.T) {
	cat := testCatalog()
	existing := []models.Booking{booking(1, typeParty, statusArchived, at(10, 0), 120)}

	assert.True(t, Check(Candidate{Start: at(10, 0), DurationMinutes: 120}, existing, cat))
}

func TestCheck_ReviewingAndFinalStatusesBlock(t *testing.T) {
	cat := testCatalog()

	for _, status := range []uint{statusReviewing, statusApproved, statusRejected} {
		existing := []models.Booking{booking(1, typeParty, status, at(10, 0), 120)}
		assert.False(t, Check(Candidate{Start: at(11, 0), DurationMinutes: 30}, existing, cat))
	}
}

func TestCheck_WithoutPendingStatusEveryActiveStatusBlocks(t *testing.T) {
	cat := NewCatalog(testEventTypes(), []models.WorkflowStatus{
		{ID: 1, Slug: "requested", IsDefault: true, IsActive: true},
	})
	existing := []models.Booking{booking(1, typeParty, 1, at(10, 0), 120)}

	assert.False(t, Check(Candidate{Start: at(11, 0), DurationMinutes: 30}, existing, cat))
}

func TestCheck_AsymmetricBuffers(t *testing.T) {
	cat := testCatalog()

	// Nikolaus visit (0 before, 30 after) followed by a market stall
	// (120 before, 0 after): the stall needs 30+120 minutes of gap.
	visit := []models.Booking{booking(1, typeTeardown, statusApproved, at(8, 0), 60)}
	assert.False(t, Check(Candidate{Start: at(11, 29), DurationMinutes: 60, EventTypeID: ptr(typeSetup)}, visit, cat))
	assert.True(t, Check(Candidate{Start: at(11, 30), DurationMinutes: 60, EventTypeID: ptr(typeSetup)}, visit, cat))

	// The other way round neither buffer applies, so back-to-back fits.
	stall := []models.Booking{booking(2, typeSetup, statusApproved, at(10, 0), 60)}
	assert.True(t, Check(Candidate{Start: at(11, 0), DurationMinutes: 60, EventTypeID: ptr(typeTeardown)}, stall, cat))
	assert.False(t, Check(Candidate{Start: at(10, 59), DurationMinutes: 60, EventTypeID: ptr(typeTeardown)}, stall, cat))
}

func TestCheck_ExcludedBookingIsIgnored(t *testing.T) {
	cat := testCatalog()
	existing := []models.Booking{booking(7, typeParty, statusApproved, at(10, 0), 120)}

	cand := Candidate{Start: at(10, 30), DurationMinutes: 120, EventTypeID: ptr(typeParty)}
	assert.False(t, Check(cand, existing, cat))

	cand.ExcludeBookingID = 7
	assert.True(t, Check(cand, existing, cat))
}

// Only scanning the ten bookings nearest to the candidate's start missed
// conflicts like this one; every booking in the search window is checked.
func TestCheck_ConflictBeyondTenNearestBookings(t *testing.T) {
	cat := testCatalog()

	var existing []models.Booking
	for i := range 12 {
		existing = append(existing, booking(uint(100+i), typeParty, statusPending, at(14, i), 30))
	}
	long := booking(1, typeParty, statusApproved, at(6, 0), 480)
	existing = append(existing, long)

	cand := Candidate{Start: at(14, 0), DurationMinutes: 30, EventTypeID: ptr(typeParty)}

	conflict, ok := FirstConflict(cand, existing, cat)
	assert.True(t, ok)
	assert.Equal(t, uint(1), conflict.ID)
	assert.False(t, Check(cand, existing, cat))

	window := SearchWindow(cand, cat)
	assert.True(t, long.StartAt.After(window.Start))
	assert.True(t, long.StartAt.Before(window.End))
}

func TestSearchWindow(t *testing.T) {
	cat := testCatalog()
	cand := Candidate{Start: at(12, 0), DurationMinutes: 60, EventTypeID: ptr(typeParty)}

	w := SearchWindow(cand, cat)

	// padded candidate is 11:30-13:30; widest after buffer 30, before 120.
	assert.Equal(t, at(11, 30).Add(-480*time.Minute-30*time.Minute), w.Start)
	assert.Equal(t, at(15, 30), w.End)
}

func TestSearchWindow_CoversEveryPossibleConflict(t *testing.T) {
	cat := testCatalog()
	cand := Candidate{Start: at(12, 0), DurationMinutes: 60, EventTypeID: ptr(typeParty)}
	w := SearchWindow(cand, cat)
	padded := cand.Padded(cat)

	// Slide bookings of every event type and the extreme durations across
	// the day: any conflicting start must lie strictly inside the window.
	for _, et := range testEventTypes() {
		for _, dur := range []int{models.MinBookingDuration, models.MaxBookingDuration} {
			for start := at(0, 0); start.Before(at(23, 59)); start = start.Add(5 * time.Minute) {
				b := booking(1, et.ID, statusApproved, start, dur)
				if Padded(b, cat).Overlaps(padded) {
					assert.True(t, start.After(w.Start) && start.Before(w.End), "start %s outside window", start)
				}
			}
		}
	}
}
