package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/smokyabdulrahman/salat/internal/display"
	"github.com/smokyabdulrahman/salat/internal/hijri"
	"github.com/smokyabdulrahman/salat/internal/prayer"
)

func runToday(cmd *cobra.Command, args []string) error {
	cfg, err := effectiveConfig(cmd)
	if err != nil {
		return err
	}
	ctx := cmd.Context()

	s, err := newSession(ctx, cfg, cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	now := s.now()
	t, err := s.table(ctx, now)
	var undefined []prayer.Name
	if err != nil {
		ade, ok := err.(*prayer.AngleDomainError)
		if !ok {
			return err
		}
		undefined = ade.Prayers
	}

	// The resolver works on "HH:MM" strings of the local clock.
	clock := prayer.ClockOf(now)
	current := prayer.CurrentPrayer(t, clock)
	next := prayer.NextPrayer(t, clock)

	// Countdown target: tomorrow's table when the next prayer is after midnight.
	nextAt, haveNext := nextTime(ctx, s, t, next, now)

	out := cmd.OutOrStdout()
	if FlagJSON {
		return printTodayJSON(out, s, t, current, next, nextAt, haveNext, now)
	}

	printTodayRich(out, s, t, current, next, nextAt, haveNext, now)
	if len(undefined) > 0 {
		s.warnUndefined(t, &prayer.AngleDomainError{Prayers: undefined})
	}
	return nil
}

// nextTime places the next prayer on the calendar. After Isha the next
// prayer is on the following day.
func nextTime(ctx context.Context, s *session, t prayer.Table, next prayer.Name, now time.Time) (time.Time, bool) {
	day := now
	if m, ok := t.Minutes(next); !ok || m <= now.Hour()*60+now.Minute() {
		day = now.AddDate(0, 0, 1)
		// A partial table still carries the defined fields.
		t, _ = s.table(ctx, day)
	}
	m, ok := t.Minutes(next)
	if !ok {
		return time.Time{}, false
	}
	y, mo, d := day.Date()
	return time.Date(y, mo, d, m/60, m%60, 0, 0, s.tz), true
}

// formatGregorianDate returns a formatted Gregorian date string.
func formatGregorianDate(now time.Time) string {
	return now.Format("Monday, 02 January 2006")
}

// formatHijriDate returns the tabular Hijri date, or "" before the epoch.
func formatHijriDate(t prayer.Table) string {
	h, err := hijri.FromGregorian(t.Year(), t.Month(), t.Day())
	if err != nil {
		return ""
	}
	return h.Format()
}

// padRight pads a string to the given width with spaces.
func padRight(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return s + strings.Repeat(" ", width-len(s))
}

// printTodayRich renders the colored terminal output for today's prayer schedule.
func printTodayRich(out io.Writer, s *session, t prayer.Table, current, next prayer.Name, nextAt time.Time, haveNext bool, now time.Time) {
	fmt.Fprintln(out)
	fmt.Fprintf(out, "  %s\n", display.Bold("Prayer Times"))
	fmt.Fprintln(out)

	fmt.Fprintf(out, "  %s\n", buildLocationStr(s.loc))
	fmt.Fprintf(out, "  %s\n", display.Gray(fmt.Sprintf("%s · %s · %s", s.tzName, s.method.Params().Description, s.madhhab)))
	fmt.Fprintf(out, "  %s\n", formatGregorianDate(now))
	if h := formatHijriDate(t); h != "" {
		fmt.Fprintf(out, "  %s\n", h)
	}
	fmt.Fprintln(out)

	maxNameLen := 0
	for _, n := range s.names {
		if l := len(n.String()); l > maxNameLen {
			maxNameLen = l
		}
	}

	for _, n := range s.names {
		line := fmt.Sprintf("  %s  %s", padRight(n.String(), maxNameLen), s.clock(t, n))

		switch {
		case !t.Defined(n):
			fmt.Fprintln(out, display.Gray(line))
		case n == current:
			fmt.Fprintln(out, display.Dim(line))
		case n == next:
			suffix := ""
			if haveNext {
				suffix = fmt.Sprintf("  <- next in %s", prayer.FormatRemaining(nextAt.Sub(now)))
			}
			fmt.Fprintln(out, display.Accent(line+suffix))
		default:
			fmt.Fprintln(out, line)
		}
	}

	// Next prayer is tomorrow's and not part of today's list.
	if haveNext && nextAt.Day() != now.Day() {
		fmt.Fprintln(out)
		fmt.Fprintf(out, "  %s\n", display.Accent(fmt.Sprintf("Next: %s tomorrow at %s (in %s)",
			next, nextAt.Format(s.timeFmt), prayer.FormatRemaining(nextAt.Sub(now)))))
	}

	fmt.Fprintln(out)
}

// todayJSON is the JSON output structure for the root command.
type todayJSON struct {
	Location todayJSONLocation  `json:"location"`
	Date     todayJSONDate      `json:"date"`
	Method   string             `json:"method"`
	Madhhab  string             `json:"madhhab"`
	Timings  map[string]*string `json:"timings"`
	Current  string             `json:"current"`
	Next     *todayJSONNext     `json:"next"`
}

type todayJSONLocation struct {
	City      string  `json:"city,omitempty"`
	Country   string  `json:"country,omitempty"`
	Timezone  string  `json:"timezone"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

type todayJSONDate struct {
	Gregorian string `json:"gregorian"`
	Hijri     string `json:"hijri,omitempty"`
}

type todayJSONNext struct {
	Prayer    string `json:"prayer"`
	Time      string `json:"time"`
	Remaining string `json:"remaining"`
}

func jsonLocation(s *session) todayJSONLocation {
	return todayJSONLocation{
		City:      s.loc.City,
		Country:   s.loc.Country,
		Timezone:  s.tzName,
		Latitude:  s.loc.Lat,
		Longitude: s.loc.Lon,
	}
}

// jsonTimings maps the selected prayers to formatted times, null when undefined.
func jsonTimings(s *session, t prayer.Table, names []prayer.Name) map[string]*string {
	timings := make(map[string]*string, len(names))
	for _, n := range names {
		if !t.Defined(n) {
			timings[n.Key()] = nil
			continue
		}
		v := s.clock(t, n)
		timings[n.Key()] = &v
	}
	return timings
}

// printTodayJSON renders structured JSON output.
func printTodayJSON(out io.Writer, s *session, t prayer.Table, current, next prayer.Name, nextAt time.Time, haveNext bool, now time.Time) error {
	res := todayJSON{
		Location: jsonLocation(s),
		Date: todayJSONDate{
			Gregorian: t.Date(),
			Hijri:     formatHijriDate(t),
		},
		Method:  s.method.String(),
		Madhhab: s.madhhab.String(),
		Timings: jsonTimings(s, t, s.names),
		Current: current.Key(),
	}

	if haveNext {
		res.Next = &todayJSONNext{
			Prayer:    next.Key(),
			Time:      nextAt.Format(s.timeFmt),
			Remaining: prayer.FormatRemaining(nextAt.Sub(now)),
		}
	}

	return writeJSON(out, res)
}

func writeJSON(out io.Writer, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}
	fmt.Fprintln(out, string(data))
	return nil
}
