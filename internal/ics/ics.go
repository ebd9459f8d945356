// Package ics writes prayer schedules as iCalendar (RFC 5545) files.
package ics

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/smokyabdulrahman/salat/internal/prayer"
)

// EventDuration is how long each prayer event lasts in the calendar.
const EventDuration = 5 * time.Minute

const (
	floatingLayout = "20060102T150405"
	utcLayout      = "20060102T150405Z"
	prodID         = "-//salat//Prayer Times//EN"
)

// now is swapped in tests.
var now = time.Now

var descriptions = map[prayer.Name]string{
	prayer.Fajr:    "Dawn prayer",
	prayer.Sunrise: "Sunrise",
	prayer.Dhuhr:   "Midday prayer",
	prayer.Asr:     "Afternoon prayer",
	prayer.Maghrib: "Sunset prayer",
	prayer.Isha:    "Night prayer",
}

// Event is one calendar entry. Start is written as floating local time.
type Event struct {
	UID         string
	Start       time.Time
	End         time.Time
	Summary     string
	Description string
	Location    string
}

// Calendar is a VCALENDAR with its events.
type Calendar struct {
	Name        string
	Description string
	Events      []Event
}

// FromSchedule builds one event per prayer. Sunrise is skipped since it is
// not a prayer.
func FromSchedule(days [][]prayer.Prayer, place string) Calendar {
	cal := Calendar{
		Name:        "Prayer times",
		Description: "Prayer times",
	}
	if place != "" {
		cal.Name += " - " + place
		cal.Description += " for " + place
	}

	for _, day := range days {
		for _, p := range day {
			if p.Name == prayer.Sunrise {
				continue
			}
			desc := descriptions[p.Name]
			if place != "" {
				desc += " in " + place
			}
			cal.Events = append(cal.Events, Event{
				UID:         uuid.NewString() + "@salat",
				Start:       p.Time,
				End:         p.Time.Add(EventDuration),
				Summary:     p.Name.String(),
				Description: desc,
				Location:    place,
			})
		}
	}
	return cal
}

// WriteTo writes the calendar with CRLF line endings.
func (c Calendar) WriteTo(w io.Writer) (int64, error) {
	cw := &countingWriter{w: w}
	bw := bufio.NewWriter(cw)
	stamp := now().UTC().Format(utcLayout)

	line := func(s string) { bw.WriteString(Fold(s)) }

	line("BEGIN:VCALENDAR")
	line("VERSION:2.0")
	line("PRODID:" + prodID)
	line("CALSCALE:GREGORIAN")
	line("METHOD:PUBLISH")
	line("X-WR-CALNAME:" + Escape(c.Name))
	line("X-WR-CALDESC:" + Escape(c.Description))
	for _, e := range c.Events {
		line("BEGIN:VEVENT")
		line("UID:" + e.UID)
		line("DTSTAMP:" + stamp)
		line("DTSTART:" + e.Start.Format(floatingLayout))
		line("DTEND:" + e.End.Format(floatingLayout))
		line("SUMMARY:" + Escape(e.Summary))
		if e.Description != "" {
			line("DESCRIPTION:" + Escape(e.Description))
		}
		if e.Location != "" {
			line("LOCATION:" + Escape(e.Location))
		}
		line("END:VEVENT")
	}
	line("END:VCALENDAR")

	if err := bw.Flush(); err != nil {
		return cw.n, fmt.Errorf("write calendar: %w", err)
	}
	return cw.n, nil
}

var escaper = strings.NewReplacer(`\`, `\\`, ";", `\;`, ",", `\,`, "\r\n", `\n`, "\n", `\n`)

// Escape quotes text values per RFC 5545 section 3.3.11.
func Escape(s string) string {
	return escaper.Replace(s)
}

// maxLineOctets is the content line limit of RFC 5545 section 3.1, CRLF excluded.
const maxLineOctets = 75

// Fold terminates a content line with CRLF, splitting it into continuation
// lines of at most 75 octets. A continuation starts with a single space and
// a multi-byte rune is never split.
func Fold(s string) string {
	var b strings.Builder
	limit := maxLineOctets
	for len(s) > limit {
		cut := limit
		for cut > 0 && !utf8.RuneStart(s[cut]) {
			cut--
		}
		b.WriteString(s[:cut])
		b.WriteString("\r\n ")
		s = s[cut:]
		// the leading space counts toward the next line
		limit = maxLineOctets - 1
	}
	b.WriteString(s)
	b.WriteString("\r\n")
	return b.String()
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}
