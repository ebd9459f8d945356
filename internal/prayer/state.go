package prayer

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// CurrentPrayer returns the latest prayer whose start is at or before now
// ("HH:MM"). Before Fajr it is still the previous night's Isha.
func CurrentPrayer(t Table, now string) Name {
	for i := len(Names) - 1; i >= 0; i-- {
		n := Names[i]
		if !t.Defined(n) {
			continue
		}
		if t.Clock(n) <= now {
			return n
		}
	}
	return Isha
}

// NextPrayer returns the first prayer whose start is strictly after now
// ("HH:MM"). After Isha it is the next day's Fajr.
func NextPrayer(t Table, now string) Name {
	for _, n := range Names {
		if !t.Defined(n) {
			continue
		}
		if t.Clock(n) > now {
			return n
		}
	}
	return Fajr
}

// ClockOf formats the wall-clock time of tm as "HH:MM".
func ClockOf(tm time.Time) string {
	return tm.Format("15:04")
}

// ParseClock validates "H:MM" or "HH:MM" and returns the zero-padded form
// the resolver compares against.
func ParseClock(s string) (string, error) {
	s = strings.TrimSpace(s)
	parts := strings.Split(s, ":")
	if len(parts) != 2 || len(parts[1]) != 2 || len(parts[0]) == 0 || len(parts[0]) > 2 {
		return "", fmt.Errorf("invalid time format: %q", s)
	}

	hour, err := strconv.Atoi(parts[0])
	if err != nil {
		return "", fmt.Errorf("invalid hour in %q: %w", s, err)
	}
	min, err := strconv.Atoi(parts[1])
	if err != nil {
		return "", fmt.Errorf("invalid minute in %q: %w", s, err)
	}
	if hour < 0 || hour > 23 || min < 0 || min > 59 {
		return "", fmt.Errorf("time out of range: %q", s)
	}

	return fmt.Sprintf("%02d:%02d", hour, min), nil
}

func clockMinutes(clock string) int {
	var h, m int
	fmt.Sscanf(clock, "%d:%d", &h, &m)
	return h*60 + m
}
