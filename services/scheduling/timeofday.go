package scheduling

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// MinutesPerDay is the length of a calendar day in minutes.
const MinutesPerDay = 1440

// TimeOfDay is a wall-clock time expressed as minutes since local midnight.
// Parsed values are always in [0, 1440); 1440 is only used as the
// end-of-day bound of a working-hours window.
type TimeOfDay int

// Hour returns the hour component (0-23).
func (t TimeOfDay) Hour() int {
	return int(wrap(t)) / 60
}

// Minute returns the minute component (0-59).
func (t TimeOfDay) Minute() int {
	return int(wrap(t)) % 60
}

func (t TimeOfDay) String() string {
	return Format(t)
}

// ParseError reports a time string none of the accepted layouts recognised.
type ParseError struct {
	Raw string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("unrecognized time of day %q", e.Raw)
}

var (
	twelveHourPattern     = regexp.MustCompile(`^(\d{1,2})(?::(\d{2}))?(?::(\d{2}))?\s*([AaPp][Mm])$`)
	twentyFourHourPattern = regexp.MustCompile(`^(\d{1,2})(?::(\d{2}))?(?::(\d{2}))?$`)
	timestampLayouts      = []string{
		time.RFC3339Nano,
		time.RFC3339,
		"2006-01-02T15:04:05",
		"2006-01-02 15:04:05",
		"2006-01-02T15:04",
		"2006-01-02 15:04",
		time.RFC1123Z,
		time.RFC1123,
	}
)

// Parse converts a free-form time string into minutes since midnight.
//
// Accepted forms, in priority order:
//   - a full timestamp ("2026-03-01T14:30:00Z", "2026-03-01 14:30"), read at its own wall clock
//   - 12-hour clock "H[:MM[:SS]] AM|PM"
//   - 24-hour clock "H[:MM[:SS]]"
func Parse(raw string) (TimeOfDay, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, &ParseError{Raw: raw}
	}

	for _, layout := range timestampLayouts {
		if ts, err := time.Parse(layout, s); err == nil {
			return TimeOfDay(ts.Hour()*60 + ts.Minute()), nil
		}
	}

	if m := twelveHourPattern.FindStringSubmatch(s); m != nil {
		h, mm, ok := clockFields(m[1], m[2], m[3])
		if !ok || h < 1 || h > 12 {
			return 0, &ParseError{Raw: raw}
		}
		h %= 12
		if strings.EqualFold(m[4], "pm") {
			h += 12
		}
		return TimeOfDay(h*60 + mm), nil
	}

	if m := twentyFourHourPattern.FindStringSubmatch(s); m != nil {
		h, mm, ok := clockFields(m[1], m[2], m[3])
		if !ok || h > 23 {
			return 0, &ParseError{Raw: raw}
		}
		return TimeOfDay(h*60 + mm), nil
	}

	return 0, &ParseError{Raw: raw}
}

// ParseOr parses raw and returns fallback when it is not recognised.
func ParseOr(raw string, fallback TimeOfDay) TimeOfDay {
	t, err := Parse(raw)
	if err != nil {
		return fallback
	}
	return t
}

// Format renders t as zero-padded "HH:MM", wrapping it into a single day first.
func Format(t TimeOfDay) string {
	w := wrap(t)
	return fmt.Sprintf("%02d:%02d", int(w)/60, int(w)%60)
}

func wrap(t TimeOfDay) TimeOfDay {
	return ((t % MinutesPerDay) + MinutesPerDay) % MinutesPerDay
}

// clockFields converts the hour, minute and second captures. Seconds are
// validated but dropped.
func clockFields(hs, ms, ss string) (int, int, bool) {
	h, err := strconv.Atoi(hs)
	if err != nil {
		return 0, 0, false
	}
	m := 0
	if ms != "" {
		if m, err = strconv.Atoi(ms); err != nil || m > 59 {
			return 0, 0, false
		}
	}
	if ss != "" {
		if s, err := strconv.Atoi(ss); err != nil || s > 59 {
			return 0, 0, false
		}
	}
	return h, m, true
}
