package scheduling

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustZone(t *testing.T, id string) *time.Location {
	t.Helper()
	loc, err := LoadZone(id)
	require.NoError(t, err)
	return loc
}

func TestLoadZone(t *testing.T) {
	loc, err := LoadZone("")
	require.NoError(t, err)
	assert.Equal(t, time.UTC, loc)

	_, err = LoadZone("Mars/Olympus_Mons")
	assert.Error(t, err)

	assert.Equal(t, time.UTC, ZoneOr("Mars/Olympus_Mons", time.UTC))
	assert.Equal(t, "Africa/Nairobi", ZoneOr("Africa/Nairobi", time.UTC).String())
}

func TestResolve(t *testing.T) {
	tests := []struct {
		name string
		zone string
		date Date
		tod  TimeOfDay
		want time.Time
	}{
		{"utc", "UTC", Date{2026, time.January, 15}, 540, time.Date(2026, 1, 15, 9, 0, 0, 0, time.UTC)},
		{"west of utc", "America/New_York", Date{2026, time.January, 15}, 540, time.Date(2026, 1, 15, 14, 0, 0, 0, time.UTC)},
		{"half hour offset across midnight", "Asia/Kolkata", Date{2026, time.January, 15}, 60, time.Date(2026, 1, 14, 19, 30, 0, 0, time.UTC)},
		{"summer time", "Europe/London", Date{2026, time.July, 1}, 720, time.Date(2026, 7, 1, 11, 0, 0, 0, time.UTC)},
		{"repeated hour takes first occurrence", "America/New_York", Date{2026, time.November, 1}, 90, time.Date(2026, 11, 1, 5, 30, 0, 0, time.UTC)},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			res := Resolve(tc.date, tc.tod, mustZone(t, tc.zone))
			assert.False(t, res.Approximate)
			assert.True(t, tc.want.Equal(res.Instant), "got %s", res.Instant)
		})
	}
}

func TestResolveSpringForwardGapIsApproximate(t *testing.T) {
	ny := mustZone(t, "America/New_York")
	// 02:30 does not exist in New York on 2026-03-08.
	res := Resolve(Date{2026, time.March, 8}, 150, ny)
	require.True(t, res.Approximate)

	transition := time.Date(2026, 3, 8, 7, 0, 0, 0, time.UTC)
	assert.LessOrEqual(t, absDuration(res.Instant.Sub(transition)), time.Hour)
}

func TestResolveProjectRoundTrip(t *testing.T) {
	zones := []string{"UTC", "America/New_York", "Europe/Berlin", "Asia/Kolkata", "Australia/Lord_Howe", "Pacific/Chatham", "Africa/Nairobi"}
	dates := []Date{{2026, time.January, 1}, {2026, time.March, 29}, {2026, time.October, 4}, {2026, time.December, 31}}

	for _, id := range zones {
		zone := mustZone(t, id)
		for _, d := range dates {
			for tod := TimeOfDay(0); tod < MinutesPerDay; tod += 37 {
				res := Resolve(d, tod, zone)
				if res.Approximate {
					continue
				}
				gotDate, gotTod := Project(res.Instant, zone)
				diff := wallMinutes(gotDate, gotTod) - wallMinutes(d, tod)
				require.LessOrEqual(t, diff, int64(1), "%s %s %s", id, d, tod)
				require.GreaterOrEqual(t, diff, int64(-1), "%s %s %s", id, d, tod)
			}
		}
	}
}

func TestProject(t *testing.T) {
	instant := time.Date(2026, 1, 15, 23, 30, 0, 0, time.UTC)
	d, tod := Project(instant, mustZone(t, "Africa/Nairobi"))
	assert.Equal(t, Date{2026, time.January, 16}, d)
	assert.Equal(t, "02:30", Format(tod))

	d, tod = Project(instant, nil)
	assert.Equal(t, Date{2026, time.January, 15}, d)
	assert.Equal(t, TimeOfDay(1410), tod)
}

func TestConvert(t *testing.T) {
	nairobi := mustZone(t, "Africa/Nairobi")
	ny := mustZone(t, "America/New_York")

	d, tod, approx := Convert(Date{2026, time.January, 16}, 540, nairobi, ny)
	assert.False(t, approx)
	assert.Equal(t, Date{2026, time.January, 16}, d)
	assert.Equal(t, "01:00", Format(tod))

	back, backTod, _ := Convert(d, tod, ny, nairobi)
	assert.Equal(t, Date{2026, time.January, 16}, back)
	assert.Equal(t, TimeOfDay(540), backTod)
}

func absDuration(d time.Duration) time.Duration {
	if d < 0 {
		return -d
	}
	return d
}
