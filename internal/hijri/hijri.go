// Package hijri converts Gregorian dates to the tabular Islamic calendar.
//
// The tabular calendar follows a fixed 30-year leap cycle, so it can differ
// by a day from calendars based on moon sighting or Umm al-Qura.
package hijri

import (
	"errors"
	"fmt"
	"time"

	"github.com/smokyabdulrahman/salat/internal/astro"
)

// epoch is the Julian day number of 1 Muharram 1 AH.
const epoch = 1948440

// ErrBeforeEpoch is returned for dates before the start of the calendar.
var ErrBeforeEpoch = errors.New("date is before 1 Muharram 1 AH")

// Months holds the transliterated month names, Muharram first.
var Months = [12]string{
	"Muharram", "Safar", "Rabi al-Awwal", "Rabi al-Thani",
	"Jumada al-Ula", "Jumada al-Thani", "Rajab", "Shaban",
	"Ramadan", "Shawwal", "Dhu al-Qadah", "Dhu al-Hijjah",
}

// Date is a day in the Islamic calendar.
type Date struct {
	Year  int `json:"year"`
	Month int `json:"month"` // 1-12
	Day   int `json:"day"`
}

// MonthName returns the name of d's month.
func (d Date) MonthName() string {
	if d.Month < 1 || d.Month > 12 {
		return ""
	}
	return Months[d.Month-1]
}

// Format renders d as "1 Ramadan 1445 AH".
func (d Date) Format() string {
	return fmt.Sprintf("%d %s %d AH", d.Day, d.MonthName(), d.Year)
}

func (d Date) String() string { return d.Format() }

// FromGregorian converts a Gregorian calendar date.
func FromGregorian(year, month, day int) (Date, error) {
	jdn := int(astro.JulianDate(year, month, day) + 0.5)
	if jdn < epoch {
		return Date{}, ErrBeforeEpoch
	}

	l := jdn - epoch + 10632
	n := (l - 1) / 10631
	l = l - 10631*n + 354
	j := ((10985-l)/5316)*((50*l)/17719) + (l/5670)*((43*l)/15238)
	l = l - ((30-j)/15)*((17719*j)/50) - (j/16)*((15238*j)/43) + 29

	m := (24 * l) / 709
	return Date{
		Year:  30*n + j - 30,
		Month: m,
		Day:   l - (709*m)/24,
	}, nil
}

// FromTime converts the calendar date of t in its own location.
func FromTime(t time.Time) (Date, error) {
	y, m, d := t.Date()
	return FromGregorian(y, int(m), d)
}
