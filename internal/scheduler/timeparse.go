package scheduler

import (
	"fmt"
	"strings"
	"time"
)

// Layouts without an offset are read in the scheduler's location.
var localLayouts = []string{
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
}

// ParseDate reads a calendar day. It accepts YYYY-MM-DD or any timestamp
// ParseDateTime accepts, in which case the day is taken in loc.
func ParseDate(raw string, loc *time.Location) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, fmt.Errorf("%w: date is required", ErrInvalidInput)
	}
	if day, err := time.ParseInLocation("2006-01-02", raw, loc); err == nil {
		return day, nil
	}
	t, err := ParseDateTime(raw, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: invalid date %q", ErrInvalidInput, raw)
	}
	start, _ := DayWindow(t, loc)
	return start, nil
}

// ParseDateTime reads an instant from RFC 3339 or a zone-less local timestamp.
func ParseDateTime(raw string, loc *time.Location) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, fmt.Errorf("%w: dateTime is required", ErrInvalidInput)
	}
	if t, err := time.Parse(time.RFC3339Nano, raw); err == nil {
		return t, nil
	}
	for _, layout := range localLayouts {
		if t, err := time.ParseInLocation(layout, raw, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: invalid dateTime %q", ErrInvalidInput, raw)
}
