// Package availability decides whether a booking request fits between the
// existing bookings and projects approved bookings onto the public calendar.
// Everything here works on an already loaded Catalog and a slice of
// bookings; it never touches the database.
package availability

import "time"

// Interval is the half-open range [Start, End).
type Interval struct {
	Start time.Time
	End   time.Time
}

func Minutes(n int) time.Duration {
	return time.Duration(n) * time.Minute
}

// Span returns the range occupied by something starting at start and
// lasting durationMinutes.
func Span(start time.Time, durationMinutes int) Interval {
	return Interval{Start: start, End: start.Add(Minutes(durationMinutes))}
}

// Pad widens the interval by before at the start and after at the end.
func (i Interval) Pad(b Buffers) Interval {
	return Interval{Start: i.Start.Add(-b.Before), End: i.End.Add(b.After)}
}

// Overlaps uses strict comparisons, so intervals that only touch do not overlap.
func (i Interval) Overlaps(o Interval) bool {
	return i.Start.Before(o.End) && i.End.After(o.Start)
}
