package scheduling

import (
	"iter"
	"time"

	"expertcall/models"
)

// Overlaps reports whether a call of durationMinutes starting at
// candidateStart intersects any live booking on the same provider-local
// date. Intervals are half-open: a booking ending exactly when the
// candidate starts does not conflict. Cancelled bookings never conflict.
func Overlaps(candidateStart time.Time, durationMinutes int, bookings []models.Booking, zone *time.Location) bool {
	candidateDate, _ := Project(candidateStart, zone)
	candidateEnd := candidateStart.Add(time.Duration(durationMinutes) * time.Minute)

	for _, b := range bookings {
		if b.IsCancelled() {
			continue
		}
		if bookingDate, _ := Project(b.StartInstant, zone); bookingDate != candidateDate {
			continue
		}
		if candidateStart.Before(b.End()) && b.StartInstant.Before(candidateEnd) {
			return true
		}
	}
	return false
}

// FilterAvailable drops every candidate on date that overlaps a booking,
// keeping the order of candidates.
func FilterAvailable(date Date, zone *time.Location, candidates iter.Seq[TimeOfDay], bookings []models.Booking, durationMinutes int) iter.Seq[TimeOfDay] {
	return func(yield func(TimeOfDay) bool) {
		for t := range candidates {
			start := Resolve(date, t, zone).Instant
			if Overlaps(start, durationMinutes, bookings, zone) {
				continue
			}
			if !yield(t) {
				return
			}
		}
	}
}

// OpenSlots is the candidate slots of q minus the ones already booked.
func OpenSlots(q SlotQuery, bookings []models.Booking) iter.Seq[TimeOfDay] {
	return FilterAvailable(q.Date, q.Rule.Zone(), CandidateSlots(q), bookings, q.DurationMinutes)
}
