package ics

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/smokyabdulrahman/salat/internal/prayer"
)

func fixedNow(t *testing.T) {
	t.Helper()
	orig := now
	now = func() time.Time { return time.Date(2024, 3, 10, 9, 30, 0, 0, time.UTC) }
	t.Cleanup(func() { now = orig })
}

func sampleDays() [][]prayer.Prayer {
	loc := time.FixedZone("AST", 3*3600)
	at := func(day, h, m int) time.Time { return time.Date(2024, 3, day, h, m, 0, 0, loc) }
	return [][]prayer.Prayer{
		{
			{Name: prayer.Fajr, Time: at(11, 5, 16)},
			{Name: prayer.Sunrise, Time: at(11, 6, 32)},
			{Name: prayer.Dhuhr, Time: at(11, 12, 31)},
			{Name: prayer.Isha, Time: at(11, 23, 58)},
		},
		{
			{Name: prayer.Fajr, Time: at(12, 5, 15)},
		},
	}
}

func TestFromSchedule(t *testing.T) {
	cal := FromSchedule(sampleDays(), "Makkah")

	if len(cal.Events) != 4 {
		t.Fatalf("expected 4 events (sunrise skipped), got %d", len(cal.Events))
	}
	if cal.Name != "Prayer times - Makkah" {
		t.Errorf("Name = %q", cal.Name)
	}

	e := cal.Events[0]
	if e.Summary != "Fajr" || e.Location != "Makkah" || e.Description != "Dawn prayer in Makkah" {
		t.Errorf("unexpected first event %+v", e)
	}
	if e.End.Sub(e.Start) != EventDuration {
		t.Errorf("duration = %v, want %v", e.End.Sub(e.Start), EventDuration)
	}

	seen := map[string]bool{}
	for _, e := range cal.Events {
		if !strings.HasSuffix(e.UID, "@salat") || seen[e.UID] {
			t.Errorf("bad or duplicate UID %q", e.UID)
		}
		seen[e.UID] = true
	}
}

func TestWriteTo(t *testing.T) {
	fixedNow(t)
	cal := FromSchedule(sampleDays(), "Makkah, KSA")

	var buf bytes.Buffer
	n, err := cal.WriteTo(&buf)
	if err != nil {
		t.Fatalf("WriteTo error: %v", err)
	}
	if n != int64(buf.Len()) {
		t.Errorf("WriteTo returned %d, wrote %d", n, buf.Len())
	}

	out := buf.String()
	for _, want := range []string{
		"BEGIN:VCALENDAR\r\n",
		"VERSION:2.0\r\n",
		"X-WR-CALNAME:Prayer times - Makkah\\, KSA\r\n",
		"DTSTAMP:20240310T093000Z\r\n",
		"DTSTART:20240311T051600\r\n",
		"DTEND:20240311T052100\r\n",
		"SUMMARY:Fajr\r\n",
		"LOCATION:Makkah\\, KSA\r\n",
		// crosses midnight
		"DTSTART:20240311T235800\r\n",
		"DTEND:20240312T000300\r\n",
		"END:VCALENDAR\r\n",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q", want)
		}
	}

	if strings.Count(out, "BEGIN:VEVENT") != 4 {
		t.Errorf("expected 4 VEVENTs, got %d", strings.Count(out, "BEGIN:VEVENT"))
	}
	if strings.Contains(strings.ReplaceAll(out, "\r\n", ""), "\n") {
		t.Error("found bare LF line ending")
	}
}

func TestEscape(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"plain", "plain"},
		{"a,b", `a\,b`},
		{"a;b", `a\;b`},
		{`back\slash`, `back\\slash`},
		{"two\nlines", `two\nlines`},
		{"crlf\r\nline", `crlf\nline`},
	}
	for _, tt := range tests {
		if got := Escape(tt.in); got != tt.want {
			t.Errorf("Escape(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFold(t *testing.T) {
	long := "DESCRIPTION:" + strings.Repeat("x", 100)
	arabic := "LOCATION:" + strings.Repeat("مكة", 20)

	tests := []struct {
		name string
		in   string
	}{
		{"short", "SUMMARY:Fajr"},
		{"exactly 75", "X:" + strings.Repeat("a", 73)},
		{"long ascii", long},
		{"multi-byte", arabic},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Fold(tt.in)
			if !strings.HasSuffix(got, "\r\n") {
				t.Fatalf("Fold(%q) missing CRLF terminator", tt.in)
			}
			lines := strings.Split(strings.TrimSuffix(got, "\r\n"), "\r\n")
			var unfolded strings.Builder
			for i, l := range lines {
				if len(l) > 75 {
					t.Errorf("line %d is %d octets", i, len(l))
				}
				if !utf8.ValidString(l) {
					t.Errorf("line %d splits a rune: %q", i, l)
				}
				if i > 0 {
					if !strings.HasPrefix(l, " ") {
						t.Errorf("continuation %d does not start with a space", i)
					}
					l = l[1:]
				}
				unfolded.WriteString(l)
			}
			if unfolded.String() != tt.in {
				t.Errorf("unfolded = %q, want %q", unfolded.String(), tt.in)
			}
			if len(tt.in) <= 75 && len(lines) != 1 {
				t.Errorf("short line folded into %d lines", len(lines))
			}
		})
	}
}

func TestWriteTo_FoldsLongLines(t *testing.T) {
	fixedNow(t)
	place := strings.Repeat("Masjid al-Haram, ", 6)
	var buf bytes.Buffer
	if _, err := FromSchedule(sampleDays(), place).WriteTo(&buf); err != nil {
		t.Fatalf("WriteTo error: %v", err)
	}

	for i, l := range strings.Split(buf.String(), "\r\n") {
		if len(l) > 75 {
			t.Errorf("line %d is %d octets: %q", i, len(l), l)
		}
	}
	if !strings.Contains(buf.String(), "\r\n ") {
		t.Error("expected folded continuation lines")
	}
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }

func TestWriteTo_Error(t *testing.T) {
	_, err := FromSchedule(sampleDays(), "").WriteTo(failingWriter{})
	if err == nil {
		t.Fatal("expected error from failing writer")
	}
}
