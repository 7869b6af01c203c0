package scheduling

import (
	"iter"
	"slices"
	"time"
)

// SlotQuery is everything CandidateSlots needs. Now is passed in so the
// calculation stays a pure function of its inputs.
type SlotQuery struct {
	Date            Date // provider-local
	Rule            WorkingHoursRule
	Days            DaySet
	StepMinutes     int
	DurationMinutes int
	Now             time.Time
}

// CandidateSlots enumerates the start times on q.Date at which a call of
// q.DurationMinutes fits in the working-hours window, in provider-local
// minutes. Today's slots before the provider's current minute are skipped;
// excluded weekdays and past dates yield nothing.
func CandidateSlots(q SlotQuery) iter.Seq[TimeOfDay] {
	return func(yield func(TimeOfDay) bool) {
		if q.StepMinutes <= 0 || q.DurationMinutes <= 0 {
			return
		}
		if !q.Days.Contains(q.Date.Weekday()) {
			return
		}

		floor := q.Rule.Start
		today, nowMinute := Project(q.Now, q.Rule.Zone())
		switch {
		case q.Date.Before(today):
			return
		case q.Date == today:
			floor = max(floor, nowMinute)
		}

		for t := q.Rule.Start; t+TimeOfDay(q.DurationMinutes) <= q.Rule.End; t += TimeOfDay(q.StepMinutes) {
			if t < floor {
				continue
			}
			if !yield(t) {
				return
			}
		}
	}
}

// Slots collects CandidateSlots.
func Slots(q SlotQuery) []TimeOfDay {
	return slices.Collect(CandidateSlots(q))
}

// NextAvailableDate walks forward from q.Date, at most horizonDays days,
// and returns the first date with at least one candidate slot.
func NextAvailableDate(q SlotQuery, horizonDays int) (Date, bool) {
	for i := 0; i < horizonDays; i++ {
		day := q
		day.Date = q.Date.AddDays(i)
		for range CandidateSlots(day) {
			return day.Date, true
		}
	}
	return Date{}, false
}
