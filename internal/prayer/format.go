package prayer

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"
	"time"
)

// Status line modes.
const (
	FormatTimeRemaining      = "time-remaining"
	FormatNextPrayerTime     = "next-prayer-time"
	FormatNameAndTime        = "name-and-time"
	FormatNameAndRemaining   = "name-and-remaining"
	FormatShortNameAndTime   = "short-name-and-time"
	FormatShortNameAndRemain = "short-name-and-remaining"
	FormatCurrent            = "current"
	FormatCurrentAndNext     = "current-and-next"
	FormatFull               = "full"
)

// Status is what a one-line status renders: the prayer whose period we are
// in, the next prayer on the calendar and the names today's table could not
// place.
type Status struct {
	Current   Name
	Next      Prayer
	Undefined []Name
}

// StatusAt resolves the current prayer from today's table at now and pairs
// it with next, which the caller has already placed on the calendar.
func StatusAt(t Table, next Prayer, now time.Time) Status {
	s := Status{
		Current: CurrentPrayer(t, now.Format("15:04")),
		Next:    next,
	}
	for _, n := range Names {
		if !t.Defined(n) {
			s.Undefined = append(s.Undefined, n)
		}
	}
	return s
}

// FormatData is the data passed to custom Go templates.
type FormatData struct {
	Name         string // next prayer, e.g. "Asr"
	ShortName    string // e.g. "A"
	Time         string // "15:02" or "3:02 PM"
	Remaining    string // "2h 15m"
	Hours        int
	Minutes      int
	Current      string // prayer in progress, e.g. "Dhuhr"
	CurrentShort string
	// Tomorrow is set when the next prayer falls on a later calendar day.
	Tomorrow  bool
	Undefined []string
}

// Format renders s for display at now. timeFormat is "15:04" or "3:04 PM".
//
// A mode containing "{{" is a Go template over FormatData, e.g.
// "{{.Current}} > {{.Name}} in {{.Remaining}}". Unknown modes fall back to
// name-and-time.
func (s Status) Format(now time.Time, mode string, timeFormat string) string {
	d := TimeRemaining(s.Next, now)
	remaining := FormatRemaining(d)
	timeStr := s.Next.Time.Format(timeFormat)
	name := s.Next.Name.String()
	short := s.Next.Name.Short()

	if strings.Contains(mode, "{{") {
		return formatCustom(mode, s.data(now, timeStr, remaining, d))
	}

	switch mode {
	case FormatTimeRemaining:
		return remaining
	case FormatNextPrayerTime:
		return timeStr
	case FormatNameAndRemaining:
		return fmt.Sprintf("%s %s", name, remaining)
	case FormatShortNameAndTime:
		return fmt.Sprintf("%s %s", short, timeStr)
	case FormatShortNameAndRemain:
		return fmt.Sprintf("%s %s", short, remaining)
	case FormatCurrent:
		return s.Current.String()
	case FormatCurrentAndNext:
		return fmt.Sprintf("%s > %s %s", s.Current, name, timeStr)
	case FormatFull:
		out := fmt.Sprintf("%s %s (%s)", name, timeStr, remaining)
		if len(s.Undefined) > 0 {
			out += " [" + s.undefinedList(" ") + "]"
		}
		return out
	default:
		return fmt.Sprintf("%s %s", name, timeStr)
	}
}

func (s Status) data(now time.Time, timeStr, remaining string, d time.Duration) FormatData {
	data := FormatData{
		Name:         s.Next.Name.String(),
		ShortName:    s.Next.Name.Short(),
		Time:         timeStr,
		Remaining:    remaining,
		Hours:        int(d.Hours()),
		Minutes:      int(d.Minutes()) % 60,
		Current:      s.Current.String(),
		CurrentShort: s.Current.Short(),
		Tomorrow:     laterDay(s.Next.Time, now),
	}
	for _, n := range s.Undefined {
		data.Undefined = append(data.Undefined, n.String())
	}
	return data
}

// undefinedList renders each undefined name with the placeholder clock.
func (s Status) undefinedList(sep string) string {
	parts := make([]string, len(s.Undefined))
	for i, n := range s.Undefined {
		parts[i] = n.String() + " " + UndefinedClock
	}
	return strings.Join(parts, sep)
}

func laterDay(t, now time.Time) bool {
	t = t.In(now.Location())
	ty, tm, td := t.Date()
	ny, nm, nd := now.Date()
	return time.Date(ty, tm, td, 0, 0, 0, 0, time.UTC).After(time.Date(ny, nm, nd, 0, 0, 0, 0, time.UTC))
}

// formatCustom executes a user-provided Go template string against the FormatData.
func formatCustom(tmpl string, data FormatData) string {
	t, err := template.New("status").Parse(tmpl)
	if err != nil {
		return fmt.Sprintf("template-err: %v", err)
	}

	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return fmt.Sprintf("template-err: %v", err)
	}
	return buf.String()
}
