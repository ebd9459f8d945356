package prayer

import (
	"fmt"
	"time"
)

// Prayer is a single prayer time placed on the calendar.
type Prayer struct {
	Name Name
	Time time.Time
}

// Schedule converts a table into time.Time values on the table's date in loc,
// keeping only the selected names in the order given. Undefined times are skipped.
// A time that wrapped past midnight (Isha at 00:20 after a 22:50 Maghrib) is
// placed on the following day, and one that wrapped back before it on the
// previous day, so the result stays in prayer order.
func Schedule(t Table, loc *time.Location, selected []Name) []Prayer {
	if loc == nil {
		loc = time.Local
	}
	var prayers []Prayer
	for _, n := range selected {
		m, ok := t.Minutes(n)
		if !ok {
			continue
		}
		prayers = append(prayers, Prayer{
			Name: n,
			Time: time.Date(t.year, time.Month(t.month), t.day+dayOffset(t, n, m), m/60, m%60, 0, 0, loc),
		})
	}
	return prayers
}

// dayOffset anchors every time on Dhuhr: prayers after it that read earlier
// on the clock belong to the next day, prayers before it that read later
// belong to the previous one.
func dayOffset(t Table, n Name, m int) int {
	noon, ok := t.Minutes(Dhuhr)
	if !ok {
		return 0
	}
	switch {
	case n > Dhuhr && m < noon:
		return 1
	case n < Dhuhr && m > noon:
		return -1
	}
	return 0
}

// Upcoming finds the next upcoming prayer from the given slice, relative to now.
// If all prayers for today have passed, it returns nil (caller should compute tomorrow's Fajr).
func Upcoming(prayers []Prayer, now time.Time) *Prayer {
	for i := range prayers {
		if prayers[i].Time.After(now) {
			return &prayers[i]
		}
	}
	return nil
}

// TimeRemaining returns the duration until the given prayer time.
func TimeRemaining(prayer Prayer, now time.Time) time.Duration {
	return prayer.Time.Sub(now)
}

// FormatRemaining formats a duration as "Xh Ym" or "Ym" if less than an hour.
func FormatRemaining(d time.Duration) string {
	if d < 0 {
		return "0m"
	}
	h := int(d.Hours())
	m := int(d.Minutes()) % 60

	if h > 0 {
		return fmt.Sprintf("%dh %dm", h, m)
	}
	return fmt.Sprintf("%dm", m)
}
