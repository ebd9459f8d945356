// Package astro computes the low-precision solar ephemeris needed for
// prayer time calculation. All angles are in degrees and all times of day
// in fractional hours.
package astro

import "math"

// J2000 is the Julian date of 2000-01-01 12:00 TT.
const J2000 = 2451545.0

// JulianDate converts a Gregorian calendar date to a Julian date at 00:00 UT.
func JulianDate(year, month, day int) float64 {
	if month <= 2 {
		year--
		month += 12
	}
	a := math.Floor(float64(year) / 100)
	b := 2 - a + math.Floor(a/4)

	return math.Floor(365.25*float64(year+4716)) +
		math.Floor(30.6001*float64(month+1)) +
		float64(day) + b - 1524.5
}

// position holds the intermediate solar quantities shared by declination
// and equation of time.
type position struct {
	meanLongitude float64 // L0, unnormalized
	obliquity     float64 // e
	eclipticLong  float64 // lambda
}

func sunPosition(jd float64) position {
	t := (jd - J2000) / 36525

	l0 := 280.466 + 36000.770*t
	g := 357.528 + 35999.050*t
	e := 23.43929 - 0.0130125*t

	return position{
		meanLongitude: l0,
		obliquity:     e,
		eclipticLong:  l0 + 1.915*Sin(g) + 0.020*Sin(2*g),
	}
}

// SolarDeclination returns the declination of the sun in degrees.
func SolarDeclination(jd float64) float64 {
	p := sunPosition(jd)
	return Asin(Sin(p.obliquity) * Sin(p.eclipticLong))
}

// EquationOfTime returns the equation of time in hours, normalized to [0, 24).
// LocalSolarNoon folds it back, so callers rarely need it directly.
func EquationOfTime(jd float64) float64 {
	p := sunPosition(jd)
	ra := Atan2(Cos(p.obliquity)*Sin(p.eclipticLong), Cos(p.eclipticLong)) / 15
	return FixHour(p.meanLongitude/15 - FixHour(ra))
}

// LocalSolarNoon returns the time of solar transit in local solar hours.
func LocalSolarNoon(jd float64) float64 {
	return FixHour(12 - EquationOfTime(jd))
}
