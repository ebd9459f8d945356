package prayer

import (
	"fmt"
	"math"
	"time"

	"github.com/smokyabdulrahman/salat/internal/astro"
)

// horizonAngle accounts for refraction and the solar disk at sunrise and sunset.
const horizonAngle = 0.833

// Params are the inputs to one calculation.
type Params struct {
	Latitude  float64
	Longitude float64
	Year      int
	Month     int
	Day       int
	Method    Method
	Madhhab   Madhhab
	// UTCOffset is the civil time zone offset in hours, e.g. 3 for UTC+3.
	UTCOffset float64
}

// Validate checks the date and coordinates.
func (p Params) Validate() error {
	if math.IsNaN(p.Latitude) || p.Latitude < -90 || p.Latitude > 90 {
		return fmt.Errorf("%w: latitude %v must be between -90 and 90", ErrInvalidCoordinates, p.Latitude)
	}
	if math.IsNaN(p.Longitude) || p.Longitude < -180 || p.Longitude > 180 {
		return fmt.Errorf("%w: longitude %v must be between -180 and 180", ErrInvalidCoordinates, p.Longitude)
	}
	if p.Month < 1 || p.Month > 12 {
		return fmt.Errorf("%w: month %d must be between 1 and 12", ErrInvalidDate, p.Month)
	}
	if p.Year < 1 || p.Year > 9999 {
		return fmt.Errorf("%w: year %d must be between 1 and 9999", ErrInvalidDate, p.Year)
	}
	if n := daysIn(p.Year, p.Month); p.Day < 1 || p.Day > n {
		return fmt.Errorf("%w: day %d must be between 1 and %d for %04d-%02d", ErrInvalidDate, p.Day, n, p.Year, p.Month)
	}
	if !p.Method.Valid() {
		return fmt.Errorf("invalid method %d", int(p.Method))
	}
	if !p.Madhhab.Valid() {
		return fmt.Errorf("invalid madhhab %d", int(p.Madhhab))
	}
	if math.IsNaN(p.UTCOffset) || p.UTCOffset < -14 || p.UTCOffset > 14 {
		return fmt.Errorf("utc offset %v must be between -14 and 14 hours", p.UTCOffset)
	}
	return nil
}

func daysIn(year, month int) int {
	return time.Date(year, time.Month(month)+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// Calculate computes the six times for one place and date.
//
// Invalid dates and coordinates fail with no table. When the sun does not
// reach a required angle, the table is still returned with those times
// undefined, together with an *AngleDomainError naming them.
func Calculate(p Params) (Table, error) {
	if err := p.Validate(); err != nil {
		return Table{}, err
	}

	jd := astro.JulianDate(p.Year, p.Month, p.Day) - p.Longitude/(15*24)
	decl := astro.SolarDeclination(jd + 0.5)
	noon := astro.LocalSolarNoon(jd + 0.5)

	method := p.Method.Params()
	lat := p.Latitude

	var raw [6]float64
	raw[Fajr] = sunAngleTime(method.FajrAngle, noon, decl, lat, true)
	raw[Sunrise] = sunAngleTime(horizonAngle, noon, decl, lat, true)
	raw[Dhuhr] = noon
	raw[Asr] = sunAngleTime(asrAngle(p.Madhhab.AsrFactor(), lat, decl), noon, decl, lat, false)
	raw[Maghrib] = sunAngleTime(horizonAngle, noon, decl, lat, false)
	if method.IshaMinutes == 0 {
		raw[Isha] = sunAngleTime(method.IshaAngle, noon, decl, lat, false)
	}

	// local solar time to civil time
	shift := p.UTCOffset - p.Longitude/15

	t := Table{year: p.Year, month: p.Month, day: p.Day}
	for i, v := range raw {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		t.hours[i] = v + shift
		t.defined[i] = true
	}

	if method.IshaMinutes != 0 {
		t.hours[Isha] = t.hours[Maghrib] + method.IshaMinutes/60
		t.defined[Isha] = t.defined[Maghrib]
	}

	var failed []Name
	for _, n := range Names {
		if !t.defined[n] {
			t.hours[n] = 0
			failed = append(failed, n)
			continue
		}
		t.hours[n] = astro.FixHour(t.hours[n])
	}

	if len(failed) > 0 {
		return t, &AngleDomainError{Prayers: failed}
	}
	return t, nil
}

// sunAngleTime returns when the sun is angle degrees below the horizon,
// before or after noon. NaN when it never gets there.
func sunAngleTime(angle, noon, decl, lat float64, beforeNoon bool) float64 {
	cosH := (-astro.Sin(angle) - astro.Sin(decl)*astro.Sin(lat)) / (astro.Cos(decl) * astro.Cos(lat))
	if cosH < -1 || cosH > 1 || math.IsNaN(cosH) {
		return math.NaN()
	}
	h := astro.Acos(cosH) / 15
	if beforeNoon {
		return noon - h
	}
	return noon + h
}

// asrAngle is the (negative) depression angle at which an object's shadow is
// factor times its length plus the noon shadow.
func asrAngle(factor, lat, decl float64) float64 {
	return -astro.Atan(1 / (factor + astro.Tan(math.Abs(lat-decl))))
}
