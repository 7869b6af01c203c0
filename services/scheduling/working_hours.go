package scheduling

import (
	"sort"
	"strings"
	"time"
)

// minimumWindow is the width a malformed working-hours window is widened to.
const minimumWindow = 60

// WorkingHoursRule is a provider's daily window, in the provider's zone.
// End is exclusive and may equal MinutesPerDay (open until midnight).
type WorkingHoursRule struct {
	Start    TimeOfDay
	End      TimeOfDay
	Timezone string
}

// NewWorkingHoursRule normalises a published window. A published end of
// midnight (0 or 1440) means end of day. A window that is still empty or
// inverted after that is widened to one hour from start, capped at midnight.
func NewWorkingHoursRule(start, end TimeOfDay, timezone string) WorkingHoursRule {
	start = wrap(start)
	if end == 0 || end == MinutesPerDay {
		end = MinutesPerDay
	} else {
		end = wrap(end)
	}
	if end <= start {
		end = min(start+minimumWindow, MinutesPerDay)
	}
	return WorkingHoursRule{Start: start, End: end, Timezone: timezone}
}

// RuleFromStrings parses a published window. Each bound that cannot be
// parsed takes the matching bound of fallback; usedFallback reports it.
func RuleFromStrings(startRaw, endRaw, timezone string, fallback WorkingHoursRule) (rule WorkingHoursRule, usedFallback bool) {
	start, err := Parse(startRaw)
	if err != nil {
		start, usedFallback = fallback.Start, true
	}
	end, err := Parse(endRaw)
	if err != nil {
		end, usedFallback = fallback.End, true
	}
	return NewWorkingHoursRule(start, end, timezone), usedFallback
}

// Contains reports whether a call of durationMinutes starting at t fits in the window.
func (r WorkingHoursRule) Contains(t TimeOfDay, durationMinutes int) bool {
	return t >= r.Start && t+TimeOfDay(durationMinutes) <= r.End
}

// Zone resolves the rule's timezone, falling back to UTC for unknown names.
func (r WorkingHoursRule) Zone() *time.Location {
	return ZoneOr(r.Timezone, time.UTC)
}

// DaySet is the set of weekdays a provider takes calls on. The empty set
// means every day.
type DaySet struct {
	days map[time.Weekday]struct{}
}

var weekdayNames = map[string]time.Weekday{
	"sunday": time.Sunday, "sun": time.Sunday,
	"monday": time.Monday, "mon": time.Monday,
	"tuesday": time.Tuesday, "tue": time.Tuesday, "tues": time.Tuesday,
	"wednesday": time.Wednesday, "wed": time.Wednesday,
	"thursday": time.Thursday, "thu": time.Thursday, "thur": time.Thursday, "thurs": time.Thursday,
	"friday": time.Friday, "fri": time.Friday,
	"saturday": time.Saturday, "sat": time.Saturday,
}

// NewDaySet builds a DaySet from weekday names. Unknown names are ignored.
func NewDaySet(names ...string) DaySet {
	set := DaySet{days: make(map[time.Weekday]struct{}, 7)}
	for _, n := range names {
		if wd, ok := weekdayNames[strings.ToLower(strings.TrimSpace(n))]; ok {
			set.days[wd] = struct{}{}
		}
	}
	return set
}

// Contains reports whether calls are taken on wd.
func (s DaySet) Contains(wd time.Weekday) bool {
	if len(s.days) == 0 {
		return true
	}
	_, ok := s.days[wd]
	return ok
}

// Names lists the set in Sunday-first order.
func (s DaySet) Names() []string {
	out := make([]string, 0, len(s.days))
	for wd := range s.days {
		out = append(out, wd.String())
	}
	sort.Slice(out, func(i, j int) bool {
		return weekdayNames[strings.ToLower(out[i])] < weekdayNames[strings.ToLower(out[j])]
	})
	return out
}

func (s DaySet) Len() int {
	return len(s.days)
}
