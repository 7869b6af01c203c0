package scheduling

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 2026-05-04 is a Monday.
var monday = Date{2026, time.May, 4}

func nairobiQuery(t *testing.T, now time.Time) SlotQuery {
	t.Helper()
	return SlotQuery{
		Date:            monday,
		Rule:            NewWorkingHoursRule(540, 1020, "Africa/Nairobi"),
		StepMinutes:     30,
		DurationMinutes: 15,
		Now:             now,
	}
}

func TestCandidateSlotsTodayBeforeOpening(t *testing.T) {
	nairobi := mustZone(t, "Africa/Nairobi")
	q := nairobiQuery(t, time.Date(2026, 5, 4, 8, 0, 0, 0, nairobi))

	slots := Slots(q)
	require.NotEmpty(t, slots)
	assert.Equal(t, "09:00", Format(slots[0]))
	assert.Equal(t, "16:30", Format(slots[len(slots)-1]))
	assert.Len(t, slots, 16)
}

func TestCandidateSlotsTodayDropsPastMinutes(t *testing.T) {
	nairobi := mustZone(t, "Africa/Nairobi")

	q := nairobiQuery(t, time.Date(2026, 5, 4, 10, 10, 0, 0, nairobi))
	assert.Equal(t, "10:30", Format(Slots(q)[0]))

	q = nairobiQuery(t, time.Date(2026, 5, 4, 10, 0, 30, 0, nairobi))
	assert.Equal(t, "10:00", Format(Slots(q)[0]), "a slot starting at the current minute stays bookable")
}

func TestCandidateSlotsTodayIsProviderLocal(t *testing.T) {
	// 22:30 UTC on the 3rd is already 01:30 on the 4th in Nairobi.
	q := nairobiQuery(t, time.Date(2026, 5, 3, 22, 30, 0, 0, time.UTC))
	assert.Equal(t, "09:00", Format(Slots(q)[0]))

	q.Date = Date{2026, time.May, 3}
	assert.Empty(t, Slots(q), "the 3rd is in the past for the provider")
}

func TestCandidateSlotsEmptyCases(t *testing.T) {
	base := nairobiQuery(t, time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC))

	excluded := base
	excluded.Days = NewDaySet("Tue", "Wed")
	assert.Empty(t, Slots(excluded))

	noStep := base
	noStep.StepMinutes = 0
	assert.Empty(t, Slots(noStep))

	noDuration := base
	noDuration.DurationMinutes = -15
	assert.Empty(t, Slots(noDuration))

	tooLong := base
	tooLong.DurationMinutes = 9 * 60
	assert.Empty(t, Slots(tooLong))
}

func TestCandidateSlotsAreMonotonicAndInsideWindow(t *testing.T) {
	rules := []WorkingHoursRule{
		NewWorkingHoursRule(540, 1020, "UTC"),
		NewWorkingHoursRule(540, 0, "UTC"),
		NewWorkingHoursRule(0, 0, "UTC"),
		NewWorkingHoursRule(1395, 1380, "UTC"),
	}
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	for _, rule := range rules {
		for _, step := range []int{5, 15, 30, 45, 60} {
			for _, duration := range []int{15, 30, 60, 90} {
				q := SlotQuery{Date: monday, Rule: rule, StepMinutes: step, DurationMinutes: duration, Now: now}
				prev := TimeOfDay(-1)
				for s := range CandidateSlots(q) {
					require.Greater(t, s, prev)
					require.GreaterOrEqual(t, s, rule.Start)
					require.LessOrEqual(t, s+TimeOfDay(duration), rule.End)
					prev = s
				}
			}
		}
	}
}

func TestCandidateSlotsStopsWhenConsumerStops(t *testing.T) {
	q := nairobiQuery(t, time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC))
	var seen []TimeOfDay
	for s := range CandidateSlots(q) {
		seen = append(seen, s)
		if len(seen) == 2 {
			break
		}
	}
	assert.Equal(t, []TimeOfDay{540, 570}, seen)
}

func TestNextAvailableDate(t *testing.T) {
	q := nairobiQuery(t, time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC))
	q.Days = NewDaySet("Wednesday")

	next, ok := NextAvailableDate(q, 14)
	require.True(t, ok)
	assert.Equal(t, Date{2026, time.May, 6}, next)

	_, ok = NextAvailableDate(q, 2)
	assert.False(t, ok)
}
