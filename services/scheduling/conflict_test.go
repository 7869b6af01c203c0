package scheduling

import (
	"slices"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"expertcall/models"
)

func booking(start time.Time, minutes int, status models.BookingStatus) models.Booking {
	return models.Booking{StartInstant: start, DurationMinutes: minutes, Status: status}
}

func TestOverlapsHalfOpen(t *testing.T) {
	at := func(h, m int) time.Time { return time.Date(2026, 5, 4, h, m, 0, 0, time.UTC) }
	existing := []models.Booking{booking(at(10, 0), 15, models.StatusConfirmed)}

	tests := []struct {
		name  string
		start time.Time
		want  bool
	}{
		{"same start", at(10, 0), true},
		{"ends exactly at booking start", at(9, 45), false},
		{"starts exactly at booking end", at(10, 15), false},
		{"starts inside", at(10, 10), true},
		{"ends inside", at(9, 50), true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Overlaps(tc.start, 15, existing, time.UTC))
		})
	}
}

func TestOverlapsIgnoresCancelledAndOtherDates(t *testing.T) {
	nairobi := mustZone(t, "Africa/Nairobi")
	start := time.Date(2026, 5, 4, 10, 0, 0, 0, nairobi)

	assert.False(t, Overlaps(start, 30, []models.Booking{booking(start, 30, models.StatusCancelled)}, nairobi))
	assert.True(t, Overlaps(start, 30, []models.Booking{booking(start, 30, models.StatusPending)}, nairobi))

	// Only bookings on the candidate's provider-local date are compared.
	lateCall := time.Date(2026, 5, 4, 23, 30, 0, 0, nairobi)
	nextDay := []models.Booking{booking(time.Date(2026, 5, 5, 0, 0, 0, 0, nairobi), 30, models.StatusConfirmed)}
	assert.False(t, Overlaps(lateCall, 60, nextDay, nairobi))
}

func TestAdjacentBookingsDoNotConflict(t *testing.T) {
	a := booking(time.Date(2026, 5, 4, 9, 0, 0, 0, time.UTC), 30, models.StatusConfirmed)
	b := booking(a.End(), 30, models.StatusConfirmed)

	assert.False(t, Overlaps(b.StartInstant, b.DurationMinutes, []models.Booking{a}, time.UTC))
	assert.False(t, Overlaps(a.StartInstant, a.DurationMinutes, []models.Booking{b}, time.UTC))
}

func TestFilterAvailable(t *testing.T) {
	q := SlotQuery{
		Date:            monday,
		Rule:            NewWorkingHoursRule(540, 720, "UTC"),
		StepMinutes:     30,
		DurationMinutes: 30,
		Now:             time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC),
	}

	bookings := []models.Booking{booking(time.Date(2026, 5, 4, 10, 0, 0, 0, time.UTC), 30, models.StatusConfirmed)}
	assert.Equal(t, []TimeOfDay{540, 570, 630, 660, 690}, slices.Collect(OpenSlots(q, bookings)))

	bookings = []models.Booking{booking(time.Date(2026, 5, 4, 10, 15, 0, 0, time.UTC), 30, models.StatusPending)}
	assert.Equal(t, []TimeOfDay{540, 570, 660, 690}, slices.Collect(OpenSlots(q, bookings)))

	assert.Equal(t, Slots(q), slices.Collect(OpenSlots(q, nil)))
}
