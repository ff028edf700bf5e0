package scheduler

import (
	"fmt"
	"time"
)

const slotLength = 30 * time.Minute

// session is a half-open [start, end) range of bookable clock time, in minutes after midnight.
type session struct {
	start, end int
}

// Morning and afternoon clinics; 12:00-13:00 is lunch.
var sessions = []session{
	{start: 9 * 60, end: 12 * 60},
	{start: 13 * 60, end: 17 * 60},
}

var catalog = buildCatalog()

func buildCatalog() []string {
	step := int(slotLength / time.Minute)
	var slots []string
	for _, s := range sessions {
		for m := s.start; m < s.end; m += step {
			slots = append(slots, fmt.Sprintf("%02d:%02d", m/60, m%60))
		}
	}
	return slots
}

// Catalog returns the bookable clock times of a day in ascending "HH:MM" form.
// The same 14 entries apply to every date; the caller owns the returned slice.
func Catalog() []string {
	out := make([]string, len(catalog))
	copy(out, catalog)
	return out
}

// ClockTime formats t as "HH:MM" in loc.
func ClockTime(t time.Time, loc *time.Location) string {
	return t.In(loc).Format("15:04")
}

// DayWindow returns the inclusive bounds 00:00:00.000 and 23:59:59.999 of day in loc.
func DayWindow(day time.Time, loc *time.Location) (time.Time, time.Time) {
	y, m, d := day.In(loc).Date()
	start := time.Date(y, m, d, 0, 0, 0, 0, loc)
	end := start.AddDate(0, 0, 1).Add(-time.Millisecond)
	return start, end
}
