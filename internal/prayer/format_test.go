package prayer

import (
	"strings"
	"testing"
	"time"
)

// midAfternoon is 12:47 on the sample day, between Dhuhr (12:13) and Asr (15:02).
func midAfternoon(t *testing.T) (Status, time.Time) {
	t.Helper()
	tbl := sampleTable(t)
	now := makeTime(t, 12, 47)
	next := Schedule(tbl, time.UTC, []Name{Asr})[0]
	return StatusAt(tbl, next, now), now
}

// ---------------------------------------------------------------------------
// StatusAt
// ---------------------------------------------------------------------------

func TestStatusAt(t *testing.T) {
	s, _ := midAfternoon(t)
	if s.Current != Dhuhr {
		t.Errorf("Current = %s, want Dhuhr", s.Current)
	}
	if s.Next.Name != Asr {
		t.Errorf("Next = %s, want Asr", s.Next.Name)
	}
	if len(s.Undefined) != 0 {
		t.Errorf("Undefined = %v, want none", s.Undefined)
	}
}

func TestStatusAt_BeforeFajrIsStillIsha(t *testing.T) {
	tbl := sampleTable(t)
	now := makeTime(t, 3, 0)
	next := Schedule(tbl, time.UTC, []Name{Fajr})[0]

	if s := StatusAt(tbl, next, now); s.Current != Isha {
		t.Errorf("Current = %s, want Isha", s.Current)
	}
}

func TestStatusAt_UndefinedTwilight(t *testing.T) {
	tbl := tableOf(t, "", "03:54", "13:22", "17:40", "22:50", "")
	next := Schedule(tbl, time.UTC, []Name{Maghrib})[0]

	s := StatusAt(tbl, next, makeTime(t, 20, 0))
	if len(s.Undefined) != 2 || s.Undefined[0] != Fajr || s.Undefined[1] != Isha {
		t.Errorf("Undefined = %v, want [Fajr Isha]", s.Undefined)
	}
	if s.Current != Asr {
		t.Errorf("Current = %s, want Asr", s.Current)
	}
}

// ---------------------------------------------------------------------------
// Format
// ---------------------------------------------------------------------------

func TestFormat_Modes(t *testing.T) {
	s, now := midAfternoon(t)

	tests := []struct {
		mode string
		want string
	}{
		{FormatTimeRemaining, "2h 15m"},
		{FormatNextPrayerTime, "15:02"},
		{FormatNameAndTime, "Asr 15:02"},
		{FormatNameAndRemaining, "Asr 2h 15m"},
		{FormatShortNameAndTime, "A 15:02"},
		{FormatShortNameAndRemain, "A 2h 15m"},
		{FormatCurrent, "Dhuhr"},
		{FormatCurrentAndNext, "Dhuhr > Asr 15:02"},
		{FormatFull, "Asr 15:02 (2h 15m)"},
		{"no-such-mode", "Asr 15:02"},
	}

	for _, tt := range tests {
		t.Run(tt.mode, func(t *testing.T) {
			if got := s.Format(now, tt.mode, "15:04"); got != tt.want {
				t.Errorf("Format(%q) = %q, want %q", tt.mode, got, tt.want)
			}
		})
	}
}

func TestFormat_12Hour(t *testing.T) {
	s, now := midAfternoon(t)
	if got := s.Format(now, FormatCurrentAndNext, "3:04 PM"); got != "Dhuhr > Asr 3:02 PM" {
		t.Errorf("12h = %q, want %q", got, "Dhuhr > Asr 3:02 PM")
	}
}

func TestFormat_FullFlagsUndefined(t *testing.T) {
	tbl := tableOf(t, "", "03:54", "13:22", "17:40", "22:50", "")
	next := Schedule(tbl, time.UTC, []Name{Maghrib})[0]
	now := makeTime(t, 22, 20)

	got := StatusAt(tbl, next, now).Format(now, FormatFull, "15:04")
	want := "Maghrib 22:50 (30m) [Fajr --:-- Isha --:--]"
	if got != want {
		t.Errorf("full = %q, want %q", got, want)
	}
}

func TestFormat_Remaining(t *testing.T) {
	asr := Prayer{Name: Asr, Time: makeTime(t, 15, 2)}

	tests := []struct {
		name string
		now  time.Time
		want string
	}{
		{"under an hour", makeTime(t, 14, 37), "25m"},
		{"at the prayer", makeTime(t, 15, 2), "0m"},
		{"already started", makeTime(t, 15, 10), "0m"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := Status{Current: Dhuhr, Next: asr}
			if got := s.Format(tt.now, FormatTimeRemaining, "15:04"); got != tt.want {
				t.Errorf("remaining = %q, want %q", got, tt.want)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// Custom templates
// ---------------------------------------------------------------------------

func TestFormat_Template(t *testing.T) {
	s, now := midAfternoon(t)

	tests := []struct {
		name string
		tmpl string
		want string
	}{
		{"countdown", "{{.Name}} in {{.Remaining}}", "Asr in 2h 15m"},
		{"current period", "{{.CurrentShort}}>{{.ShortName}} {{.Time}}", "D>A 15:02"},
		{"split duration", "{{.Hours}}:{{printf \"%02d\" .Minutes}}", "2:15"},
		{"same day", "{{if .Tomorrow}}tomorrow{{else}}today{{end}}", "today"},
		{"nothing undefined", "{{len .Undefined}}", "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := s.Format(now, tt.tmpl, "15:04"); got != tt.want {
				t.Errorf("template %q = %q, want %q", tt.tmpl, got, tt.want)
			}
		})
	}
}

func TestFormat_TemplateTomorrow(t *testing.T) {
	tbl := sampleTable(t)
	now := makeTime(t, 21, 0)
	fajr := Prayer{Name: Fajr, Time: makeTime(t, 5, 17).AddDate(0, 0, 1)}

	got := StatusAt(tbl, fajr, now).Format(now, "{{.Current}} until {{if .Tomorrow}}tomorrow's {{end}}{{.Name}}", "15:04")
	if got != "Isha until tomorrow's Fajr" {
		t.Errorf("template = %q", got)
	}
}

func TestFormat_TemplateErrors(t *testing.T) {
	s, now := midAfternoon(t)

	for _, tmpl := range []string{"{{.Name", "{{.NoSuchField}}"} {
		t.Run(tmpl, func(t *testing.T) {
			if got := s.Format(now, tmpl, "15:04"); !strings.HasPrefix(got, "template-err:") {
				t.Errorf("template %q = %q, want template-err prefix", tmpl, got)
			}
		})
	}
}
