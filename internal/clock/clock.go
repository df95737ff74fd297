package clock

import (
	"fmt"
	"time"
)

// Weekday is the day-of-week label used by availability blocks.
// The enumeration is Monday-first and locale independent.
type Weekday string

const (
	Monday    Weekday = "MONDAY"
	Tuesday   Weekday = "TUESDAY"
	Wednesday Weekday = "WEDNESDAY"
	Thursday  Weekday = "THURSDAY"
	Friday    Weekday = "FRIDAY"
	Saturday  Weekday = "SATURDAY"
	Sunday    Weekday = "SUNDAY"
)

var weekdays = []Weekday{Monday, Tuesday, Wednesday, Thursday, Friday, Saturday, Sunday}

// WeekdayOf maps a calendar date to its weekday label. Go's time package
// uses the proleptic Gregorian calendar, so the mapping holds for any date.
func WeekdayOf(date time.Time) Weekday {
	// time.Weekday is Sunday-first; shift so Monday is index 0.
	idx := (int(date.Weekday()) + 6) % 7
	return weekdays[idx]
}

// ParseWeekday validates a stored day-of-week label.
func ParseWeekday(s string) (Weekday, error) {
	for _, d := range weekdays {
		if string(d) == s {
			return d, nil
		}
	}
	return "", fmt.Errorf("unknown weekday %q", s)
}

// TimeOfDay is a clock time with minute precision, stored as minutes since
// midnight. Appointments and blocks compare and persist these directly.
type TimeOfDay int

func NewTimeOfDay(hour, minute int) (TimeOfDay, error) {
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return 0, fmt.Errorf("time of day out of range: %02d:%02d", hour, minute)
	}
	return TimeOfDay(hour*60 + minute), nil
}

// ParseTimeOfDay parses "15:04" formatted clock times.
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return 0, fmt.Errorf("parse time of day %q: %w", s, err)
	}
	return TimeOfDay(t.Hour()*60 + t.Minute()), nil
}

func (t TimeOfDay) Hour() int   { return int(t) / 60 }
func (t TimeOfDay) Minute() int { return int(t) % 60 }

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour(), t.Minute())
}

func (t TimeOfDay) Before(other TimeOfDay) bool { return t < other }
func (t TimeOfDay) After(other TimeOfDay) bool  { return t > other }

// Minutes reports the value as minutes since midnight, the form the
// repositories persist.
func (t TimeOfDay) Minutes() int { return int(t) }

func (t TimeOfDay) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

func (t *TimeOfDay) UnmarshalText(b []byte) error {
	parsed, err := ParseTimeOfDay(string(b))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}
