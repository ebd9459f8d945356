package prayer

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"
)

// Name identifies one of the six daily times, in chronological order.
type Name int

const (
	Fajr Name = iota
	Sunrise
	Dhuhr
	Asr
	Maghrib
	Isha
)

// Names lists all six times in chronological order.
var Names = []Name{Fajr, Sunrise, Dhuhr, Asr, Maghrib, Isha}

// DefaultNames are the times tracked by default.
var DefaultNames = Names

var nameStrings = [...]string{"Fajr", "Sunrise", "Dhuhr", "Asr", "Maghrib", "Isha"}

// ShortNames maps prayers to single-character abbreviations.
var ShortNames = map[Name]string{
	Fajr:    "F",
	Sunrise: "S",
	Dhuhr:   "D",
	Asr:     "A",
	Maghrib: "M",
	Isha:    "I",
}

func (n Name) String() string {
	if n < Fajr || n > Isha {
		return fmt.Sprintf("Name(%d)", int(n))
	}
	return nameStrings[n]
}

// Key is the lower-case form used in JSON and config files.
func (n Name) Key() string { return strings.ToLower(n.String()) }

// Short returns the one-letter abbreviation.
func (n Name) Short() string { return ShortNames[n] }

// MarshalText implements encoding.TextMarshaler.
func (n Name) MarshalText() ([]byte, error) { return []byte(n.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (n *Name) UnmarshalText(b []byte) error {
	v, err := ParseName(string(b))
	if err != nil {
		return err
	}
	*n = v
	return nil
}

// ParseName accepts a prayer name in any case. "Zuhr" and "Dhur" are
// accepted for Dhuhr.
func ParseName(s string) (Name, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "fajr":
		return Fajr, nil
	case "sunrise", "shuruq":
		return Sunrise, nil
	case "dhuhr", "zuhr", "dhur":
		return Dhuhr, nil
	case "asr":
		return Asr, nil
	case "maghrib":
		return Maghrib, nil
	case "isha":
		return Isha, nil
	}
	return 0, fmt.Errorf("unknown prayer name: %s", s)
}

// ParseNames parses a list of prayer names, rejecting duplicates.
func ParseNames(list []string) ([]Name, error) {
	seen := make(map[Name]bool, len(list))
	out := make([]Name, 0, len(list))
	for _, s := range list {
		n, err := ParseName(s)
		if err != nil {
			return nil, err
		}
		if seen[n] {
			return nil, fmt.Errorf("duplicate prayer name: %s", n)
		}
		seen[n] = true
		out = append(out, n)
	}
	return out, nil
}

// UndefinedClock is shown for a time the sun does not reach.
const UndefinedClock = "--:--"

// Table is the result of one calculation. It is a value type; nothing
// mutates it after Calculate returns.
type Table struct {
	year, month, day int
	hours            [6]float64
	defined          [6]bool
}

// Year, Month and Day return the calendar date the table was computed for.
func (t Table) Year() int  { return t.year }
func (t Table) Month() int { return t.month }
func (t Table) Day() int   { return t.day }

// Date formats the calendar date as DD.MM.YYYY.
func (t Table) Date() string {
	return fmt.Sprintf("%02d.%02d.%04d", t.day, t.month, t.year)
}

// Hours returns the time of n in hours in [0, 24), and false if the sun does
// not reach the required angle.
func (t Table) Hours(n Name) (float64, bool) {
	if n < Fajr || n > Isha || !t.defined[n] {
		return 0, false
	}
	return t.hours[n], true
}

// Defined reports whether n has a time.
func (t Table) Defined(n Name) bool {
	_, ok := t.Hours(n)
	return ok
}

// Complete reports whether all six times are defined.
func (t Table) Complete() bool {
	for _, ok := range t.defined {
		if !ok {
			return false
		}
	}
	return true
}

// Minutes returns n as minutes since midnight, rounded to the nearest minute.
func (t Table) Minutes(n Name) (int, bool) {
	h, ok := t.Hours(n)
	if !ok {
		return 0, false
	}
	return hoursToMinutes(h), true
}

// Clock returns n as zero-padded "HH:MM", or UndefinedClock.
func (t Table) Clock(n Name) string {
	m, ok := t.Minutes(n)
	if !ok {
		return UndefinedClock
	}
	return fmt.Sprintf("%02d:%02d", m/60, m%60)
}

// Map returns the lower-case keyed "HH:MM" strings plus "date".
func (t Table) Map() map[string]string {
	m := make(map[string]string, len(Names)+1)
	for _, n := range Names {
		m[n.Key()] = t.Clock(n)
	}
	m["date"] = t.Date()
	return m
}

func hoursToMinutes(h float64) int {
	return int(math.Round(h*60)) % (24 * 60)
}

type tableJSON struct {
	Date    string  `json:"date"`
	Fajr    *string `json:"fajr"`
	Sunrise *string `json:"sunrise"`
	Dhuhr   *string `json:"dhuhr"`
	Asr     *string `json:"asr"`
	Maghrib *string `json:"maghrib"`
	Isha    *string `json:"isha"`
}

func (j *tableJSON) fields() [6]**string {
	return [6]**string{&j.Fajr, &j.Sunrise, &j.Dhuhr, &j.Asr, &j.Maghrib, &j.Isha}
}

// MarshalJSON writes the table as "HH:MM" strings; undefined times are null.
func (t Table) MarshalJSON() ([]byte, error) {
	j := tableJSON{Date: t.Date()}
	for i, f := range j.fields() {
		if t.defined[i] {
			s := t.Clock(Name(i))
			*f = &s
		}
	}
	return json.Marshal(j)
}

// UnmarshalJSON restores a table written by MarshalJSON, at minute precision.
func (t *Table) UnmarshalJSON(b []byte) error {
	var j tableJSON
	if err := json.Unmarshal(b, &j); err != nil {
		return err
	}

	var out Table
	if _, err := fmt.Sscanf(j.Date, "%02d.%02d.%04d", &out.day, &out.month, &out.year); err != nil {
		return fmt.Errorf("invalid table date %q: %w", j.Date, err)
	}
	for i, f := range j.fields() {
		if *f == nil {
			continue
		}
		clock, err := ParseClock(**f)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", Name(i).Key(), err)
		}
		out.hours[i] = float64(clockMinutes(clock)) / 60
		out.defined[i] = true
	}

	*t = out
	return nil
}
