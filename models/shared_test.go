package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTimeRangeOverlaps(t *testing.T) {
	base := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)
	r := func(fromMin, toMin int) TimeRange {
		return TimeRange{
			Start: base.Add(time.Duration(fromMin) * time.Minute),
			End:   base.Add(time.Duration(toMin) * time.Minute),
		}
	}

	assert.True(t, r(0, 60).Overlaps(r(30, 90)))
	assert.True(t, r(0, 60).Overlaps(r(0, 60)))
	assert.True(t, r(0, 120).Overlaps(r(30, 60)), "containment counts")
	assert.False(t, r(0, 60).Overlaps(r(60, 120)), "back-to-back slots do not overlap")
	assert.False(t, r(60, 120).Overlaps(r(0, 60)))
	assert.True(t, r(0, 60).Overlaps(r(59, 120)))
}

func TestParseClock(t *testing.T) {
	m, err := ParseClock("09:30")
	require.NoError(t, err)
	assert.Equal(t, 570, m)
	assert.Equal(t, "09:30", FormatClock(m))

	for _, bad := range []string{"24:00", "10:60", "-1:00", "noon"} {
		_, err := ParseClock(bad)
		assert.Error(t, err, bad)
	}
}

func TestParseClockRange(t *testing.T) {
	r, err := ParseClockRange("18:00-20:00")
	require.NoError(t, err)
	assert.Equal(t, MinuteRange{Start: 1080, End: 1200}, r)

	_, err = ParseClockRange("18:00")
	assert.Error(t, err)
}

func TestDayKey(t *testing.T) {
	assert.Equal(t, "monday", DayKey(time.Monday))
	assert.Equal(t, "sunday", DayKey(time.Sunday))
}
