package prayer

import "time"

// OffsetHours returns loc's UTC offset in hours at local noon on the given
// date, so DST transitions in the early morning do not affect the result.
func OffsetHours(loc *time.Location, year, month, day int) float64 {
	if loc == nil {
		loc = time.Local
	}
	_, secs := time.Date(year, time.Month(month), day, 12, 0, 0, 0, loc).Zone()
	return float64(secs) / 3600
}

// ForDate builds Params for a calendar date in loc.
func ForDate(lat, lon float64, date time.Time, loc *time.Location, method Method, madhhab Madhhab) Params {
	if loc == nil {
		loc = date.Location()
	}
	y, m, d := date.In(loc).Date()
	return Params{
		Latitude:  lat,
		Longitude: lon,
		Year:      y,
		Month:     int(m),
		Day:       d,
		Method:    method,
		Madhhab:   madhhab,
		UTCOffset: OffsetHours(loc, y, int(m), d),
	}
}
