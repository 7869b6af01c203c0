package scheduling

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNewWorkingHoursRule(t *testing.T) {
	tests := []struct {
		name       string
		start, end TimeOfDay
		wantEnd    TimeOfDay
	}{
		{"ordinary window", 540, 1020, 1020},
		{"midnight end published as zero", 540, 0, MinutesPerDay},
		{"midnight end published as 1440", 540, MinutesPerDay, MinutesPerDay},
		{"inverted window widened", 600, 540, 660},
		{"empty window widened", 600, 600, 660},
		{"widening capped at midnight", 1410, 60, MinutesPerDay},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			r := NewWorkingHoursRule(tc.start, tc.end, "UTC")
			assert.Equal(t, tc.start, r.Start)
			assert.Equal(t, tc.wantEnd, r.End)
			assert.Greater(t, r.End, r.Start)
		})
	}
}

func TestMidnightEndAllowsLateSlot(t *testing.T) {
	r := NewWorkingHoursRule(ParseOr("09:00", 0), ParseOr("00:00", 0), "UTC")
	assert.True(t, r.Contains(ParseOr("23:30", 0), 15))
	assert.True(t, r.Contains(ParseOr("23:45", 0), 15))
	assert.False(t, r.Contains(ParseOr("23:50", 0), 15))
	assert.False(t, r.Contains(ParseOr("08:45", 0), 15))
}

func TestRuleFromStrings(t *testing.T) {
	fallback := NewWorkingHoursRule(360, 1320, "UTC")

	r, usedFallback := RuleFromStrings("9am", "5:30 pm", "Africa/Nairobi", fallback)
	assert.False(t, usedFallback)
	assert.Equal(t, WorkingHoursRule{Start: 540, End: 1050, Timezone: "Africa/Nairobi"}, r)

	r, usedFallback = RuleFromStrings("9am", "late", "Africa/Nairobi", fallback)
	assert.True(t, usedFallback)
	assert.Equal(t, TimeOfDay(540), r.Start)
	assert.Equal(t, TimeOfDay(1320), r.End)

	r, usedFallback = RuleFromStrings("09:00", "00:00", "UTC", fallback)
	assert.False(t, usedFallback)
	assert.Equal(t, TimeOfDay(MinutesPerDay), r.End)
}

func TestWorkingHoursZoneFallsBackToUTC(t *testing.T) {
	assert.Equal(t, time.UTC, WorkingHoursRule{Timezone: "Nowhere/Special"}.Zone())
}

func TestDaySet(t *testing.T) {
	set := NewDaySet("Mon", "wednesday", "Funday", " WED ")
	assert.Equal(t, 2, set.Len())
	assert.True(t, set.Contains(time.Monday))
	assert.True(t, set.Contains(time.Wednesday))
	assert.False(t, set.Contains(time.Tuesday))
	assert.Equal(t, []string{"Monday", "Wednesday"}, set.Names())

	every := NewDaySet()
	for wd := time.Sunday; wd <= time.Saturday; wd++ {
		assert.True(t, every.Contains(wd))
	}
}
