// Package scheduling holds the date arithmetic, conflict detection and roster
// reconciliation used by the meeting service. Everything here is pure.
package scheduling

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

const (
	// DateLayout is the storage format for meeting and sprint dates
	DateLayout = "2006-01-02"
	// ClockLayout is the storage format for meeting times and durations
	ClockLayout = "15:04:05"

	MinutesPerDay = 24 * 60
)

// InputError reports a caller-supplied value that cannot be interpreted
type InputError struct {
	Field string
	Value string
}

func (e *InputError) Error() string {
	return fmt.Sprintf("unparseable %s: %q", e.Field, e.Value)
}

// MinutesToClockTime converts minutes since midnight to "HH:MM:00".
// Values of a day or more are not rejected and roll into hours >= 24.
func MinutesToClockTime(totalMinutes int) string {
	return fmt.Sprintf("%02d:%02d:00", totalMinutes/60, totalMinutes%60)
}

// DurationFromParts formats an hours/minutes pair as "HH:MM:00"
func DurationFromParts(hours, minutes int) string {
	return fmt.Sprintf("%02d:%02d:00", hours, minutes)
}

// ParseDurationParts parses string-encoded hours and minutes. An empty part
// counts as zero.
func ParseDurationParts(hours, minutes string) (string, error) {
	h, m, err := DurationParts(hours, minutes)
	if err != nil {
		return "", err
	}
	return DurationFromParts(h, m), nil
}

// DurationParts parses string-encoded hours and minutes without range checks
func DurationParts(hours, minutes string) (int, int, error) {
	h, err := parsePart("duration_hours", hours)
	if err != nil {
		return 0, 0, err
	}
	m, err := parsePart("duration_minutes", minutes)
	if err != nil {
		return 0, 0, err
	}
	return h, m, nil
}

func parsePart(field, value string) (int, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, &InputError{Field: field, Value: value}
	}
	return n, nil
}

// To12Hour renders a stored "HH:MM:SS" time as "03:04 PM". Values that do
// not parse are returned unchanged.
func To12Hour(clock string) string {
	t, err := time.Parse(ClockLayout, clock)
	if err != nil {
		return clock
	}
	return t.Format("03:04 PM")
}

// ParseDate parses a stored "YYYY-MM-DD" date as midnight UTC
func ParseDate(field, value string) (time.Time, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(value))
	if err != nil {
		return time.Time{}, &InputError{Field: field, Value: value}
	}
	return t, nil
}

// FormatDate is the inverse of ParseDate
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// DurationHours converts a stored "HH:MM:SS" duration to fractional hours
func DurationHours(duration string) (float64, error) {
	parts := strings.Split(strings.TrimSpace(duration), ":")
	if len(parts) != 3 {
		return 0, &InputError{Field: "duration", Value: duration}
	}

	var total float64
	for i, scale := range []float64{1, 1.0 / 60, 1.0 / 3600} {
		n, err := strconv.Atoi(parts[i])
		if err != nil || n < 0 {
			return 0, &InputError{Field: "duration", Value: duration}
		}
		total += float64(n) * scale
	}
	return total, nil
}

// At combines a stored date and clock time into a UTC instant
func At(date, clock string) (time.Time, error) {
	t, err := time.Parse(DateLayout+" "+ClockLayout, date+" "+clock)
	if err != nil {
		return time.Time{}, &InputError{Field: "datetime", Value: date + " " + clock}
	}
	return t, nil
}
