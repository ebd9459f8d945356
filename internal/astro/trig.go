package astro

import "math"

func toRad(d float64) float64 { return d * math.Pi / 180 }
func toDeg(r float64) float64 { return r * 180 / math.Pi }

// Sin returns the sine of an angle in degrees.
func Sin(d float64) float64 { return math.Sin(toRad(d)) }

// Cos returns the cosine of an angle in degrees.
func Cos(d float64) float64 { return math.Cos(toRad(d)) }

// Tan returns the tangent of an angle in degrees.
func Tan(d float64) float64 { return math.Tan(toRad(d)) }

// Asin returns the arcsine in degrees. NaN outside [-1, 1].
func Asin(x float64) float64 { return toDeg(math.Asin(x)) }

// Acos returns the arccosine in degrees. NaN outside [-1, 1].
func Acos(x float64) float64 { return toDeg(math.Acos(x)) }

// Atan returns the arctangent in degrees.
func Atan(x float64) float64 { return toDeg(math.Atan(x)) }

// Atan2 returns the angle of (x, y) in degrees.
func Atan2(y, x float64) float64 { return toDeg(math.Atan2(y, x)) }

// FixAngle reduces a to [0, 360).
func FixAngle(a float64) float64 { return fix(a, 360) }

// FixHour reduces h to [0, 24).
func FixHour(h float64) float64 { return fix(h, 24) }

func fix(a, b float64) float64 {
	a -= b * math.Floor(a/b)
	if a >= b {
		// floating point can land exactly on b for tiny negative inputs
		return 0
	}
	return a
}
