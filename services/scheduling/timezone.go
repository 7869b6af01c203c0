package scheduling

import (
	"fmt"
	"strings"
	"time"
	_ "time/tzdata" // zone lookups must not depend on the host's zoneinfo
)

// maxConvergenceSteps caps the wall-clock search in Resolve.
const maxConvergenceSteps = 20

// Resolution is the instant found for a wall-clock reading in a zone.
// Approximate is set when the search did not converge, which happens for
// readings that do not exist in the zone (spring-forward gaps). Callers may
// use the instant but must not present it as exact.
type Resolution struct {
	Instant     time.Time
	Approximate bool
}

// LoadZone resolves an IANA zone name. An empty name is UTC.
func LoadZone(id string) (*time.Location, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return time.UTC, nil
	}
	loc, err := time.LoadLocation(id)
	if err != nil {
		return nil, fmt.Errorf("unknown timezone %q: %w", id, err)
	}
	return loc, nil
}

// ZoneOr resolves id and falls back to fallback when the name is unknown.
func ZoneOr(id string, fallback *time.Location) *time.Location {
	loc, err := LoadZone(id)
	if err != nil {
		return fallback
	}
	return loc
}

// Resolve finds the instant whose wall clock in zone reads (date, tod).
//
// The search starts from the naive UTC reading and repeatedly shifts the
// candidate by the difference between the wanted and the observed wall
// clock. A difference of one minute or less counts as converged.
func Resolve(date Date, tod TimeOfDay, zone *time.Location) Resolution {
	if zone == nil {
		zone = time.UTC
	}
	want := wallMinutes(date, tod)
	candidate := time.Date(date.Year, date.Month, date.Day, 0, int(tod), 0, 0, time.UTC)

	for i := 0; i < maxConvergenceSteps; i++ {
		observedDate, observedTod := Project(candidate, zone)
		diff := want - wallMinutes(observedDate, observedTod)
		if diff >= -1 && diff <= 1 {
			return Resolution{Instant: candidate}
		}
		candidate = candidate.Add(time.Duration(diff) * time.Minute)
	}
	return Resolution{Instant: candidate, Approximate: true}
}

// Project reads the calendar date and wall-clock minute of instant in zone.
func Project(instant time.Time, zone *time.Location) (Date, TimeOfDay) {
	if zone == nil {
		zone = time.UTC
	}
	local := instant.In(zone)
	return DateOf(local), TimeOfDay(local.Hour()*60 + local.Minute())
}

// Convert re-expresses a wall-clock reading in from as a wall-clock reading in to.
func Convert(date Date, tod TimeOfDay, from, to *time.Location) (Date, TimeOfDay, bool) {
	res := Resolve(date, tod, from)
	d, t := Project(res.Instant, to)
	return d, t, res.Approximate
}

// wallMinutes flattens a wall-clock reading onto a single minute axis so
// that differences across midnight keep their sign.
func wallMinutes(date Date, tod TimeOfDay) int64 {
	days := date.naive().Unix() / 86400
	return days*MinutesPerDay + int64(tod)
}
