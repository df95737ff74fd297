package clock

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWeekdayOf(t *testing.T) {
	// 2026-09-07 through 2026-09-13 is a full Monday-first week.
	base := time.Date(2026, 9, 7, 0, 0, 0, 0, time.UTC)
	for i, want := range []Weekday{Monday, Tuesday, Wednesday, Thursday, Friday, Saturday, Sunday} {
		assert.Equal(t, want, WeekdayOf(base.AddDate(0, 0, i)))
	}
}

func TestWeekdayOfHistoricalDates(t *testing.T) {
	// The proleptic Gregorian calendar keeps the mapping stable far from
	// the present.
	assert.Equal(t, Thursday, WeekdayOf(time.Date(1970, 1, 1, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, Saturday, WeekdayOf(time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)))
}

func TestParseWeekday(t *testing.T) {
	d, err := ParseWeekday("WEDNESDAY")
	require.NoError(t, err)
	assert.Equal(t, Wednesday, d)

	_, err = ParseWeekday("wednesday")
	assert.Error(t, err)

	_, err = ParseWeekday("")
	assert.Error(t, err)
}

func TestNewTimeOfDay(t *testing.T) {
	v, err := NewTimeOfDay(9, 30)
	require.NoError(t, err)
	assert.Equal(t, 570, v.Minutes())
	assert.Equal(t, "09:30", v.String())

	for _, c := range [][2]int{{-1, 0}, {24, 0}, {0, -1}, {0, 60}} {
		_, err := NewTimeOfDay(c[0], c[1])
		assert.Error(t, err, "%02d:%02d", c[0], c[1])
	}
}

func TestParseTimeOfDay(t *testing.T) {
	v, err := ParseTimeOfDay("15:04")
	require.NoError(t, err)
	assert.Equal(t, 15, v.Hour())
	assert.Equal(t, 4, v.Minute())

	midnight, err := ParseTimeOfDay("00:00")
	require.NoError(t, err)
	assert.Equal(t, 0, midnight.Minutes())

	for _, raw := range []string{"24:00", "9:3", "noon", ""} {
		_, err := ParseTimeOfDay(raw)
		assert.Error(t, err, raw)
	}
}

func TestTimeOfDayOrdering(t *testing.T) {
	a, _ := NewTimeOfDay(9, 0)
	b, _ := NewTimeOfDay(13, 0)

	assert.True(t, a.Before(b))
	assert.True(t, b.After(a))
	assert.False(t, a.Before(a))
	assert.False(t, a.After(a))
}

func TestTimeOfDayTextRoundTrip(t *testing.T) {
	v, _ := NewTimeOfDay(8, 5)

	text, err := v.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "08:05", string(text))

	var parsed TimeOfDay
	require.NoError(t, parsed.UnmarshalText(text))
	assert.Equal(t, v, parsed)
}
