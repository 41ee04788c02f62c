package models

import (
	"fmt"
	"strings"
	"time"
)

// TimeRange is a half-open [Start, End) span of time.
type TimeRange struct {
	Start time.Time `bson:"start" json:"start"`
	End   time.Time `bson:"end" json:"end"`
}

// Overlaps reports whether two half-open ranges intersect. A range ending
// exactly when the other starts does not overlap.
func (r TimeRange) Overlaps(other TimeRange) bool {
	return r.Start.Before(other.End) && other.Start.Before(r.End)
}

// Duration returns End - Start.
func (r TimeRange) Duration() time.Duration {
	return r.End.Sub(r.Start)
}

// IsValid reports whether Start precedes End.
func (r TimeRange) IsValid() bool {
	return r.Start.Before(r.End)
}

// MinuteRange is a half-open range of minutes from midnight, used for
// working hours and breaks.
type MinuteRange struct {
	Start int `bson:"start" json:"start"`
	End   int `bson:"end" json:"end"`
}

func (m MinuteRange) Overlaps(other MinuteRange) bool {
	return m.Start < other.End && other.Start < m.End
}

// MinuteOfDay converts an instant to minutes from midnight in its location.
func MinuteOfDay(t time.Time) int {
	return t.Hour()*60 + t.Minute()
}

// DayKey returns the lowercase weekday key used by weekly schedules,
// e.g. "monday".
func DayKey(d time.Weekday) string {
	return strings.ToLower(d.String())
}

// Midnight truncates an instant to the start of its calendar day.
func Midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// ParseClock parses an "HH:MM" clock string into minutes from midnight.
func ParseClock(s string) (int, error) {
	var h, m int
	if _, err := fmt.Sscanf(s, "%d:%d", &h, &m); err != nil {
		return 0, fmt.Errorf("invalid clock time %q: %w", s, err)
	}
	if h < 0 || h > 23 || m < 0 || m > 59 {
		return 0, fmt.Errorf("invalid clock time %q", s)
	}
	return h*60 + m, nil
}

// ParseClockRange parses an "HH:MM-HH:MM" window into a MinuteRange.
func ParseClockRange(s string) (MinuteRange, error) {
	parts := strings.SplitN(s, "-", 2)
	if len(parts) != 2 {
		return MinuteRange{}, fmt.Errorf("invalid clock range %q", s)
	}
	start, err := ParseClock(strings.TrimSpace(parts[0]))
	if err != nil {
		return MinuteRange{}, err
	}
	end, err := ParseClock(strings.TrimSpace(parts[1]))
	if err != nil {
		return MinuteRange{}, err
	}
	return MinuteRange{Start: start, End: end}, nil
}

// FormatClock renders minutes from midnight as "HH:MM".
func FormatClock(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}
