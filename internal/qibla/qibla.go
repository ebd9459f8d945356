// Package qibla computes the direction and distance to the Kaaba.
package qibla

import (
	"fmt"
	"math"

	"github.com/smokyabdulrahman/salat/internal/astro"
	"github.com/smokyabdulrahman/salat/internal/prayer"
)

const (
	KaabaLatitude  = 21.4225
	KaabaLongitude = 39.8262

	earthRadiusKm = 6371.0
)

var compassPoints = [...]string{"N", "NE", "E", "SE", "S", "SW", "W", "NW"}

// Result is the qibla as seen from one location.
type Result struct {
	Latitude   float64 `json:"latitude"`
	Longitude  float64 `json:"longitude"`
	Bearing    float64 `json:"bearing"` // degrees clockwise from true north
	Compass    string  `json:"compass"`
	DistanceKm float64 `json:"distance_km"`
}

// Direction computes the qibla for the given coordinates.
func Direction(lat, lon float64) (Result, error) {
	if math.IsNaN(lat) || lat < -90 || lat > 90 || math.IsNaN(lon) || lon < -180 || lon > 180 {
		return Result{}, fmt.Errorf("%w: %v, %v", prayer.ErrInvalidCoordinates, lat, lon)
	}

	b := Bearing(lat, lon)
	return Result{
		Latitude:   lat,
		Longitude:  lon,
		Bearing:    b,
		Compass:    Compass(b),
		DistanceKm: Distance(lat, lon, KaabaLatitude, KaabaLongitude),
	}, nil
}

// Bearing is the initial great-circle bearing from (lat, lon) to the Kaaba,
// in degrees [0, 360).
func Bearing(lat, lon float64) float64 {
	dLon := KaabaLongitude - lon
	y := astro.Sin(dLon)
	x := astro.Cos(lat)*astro.Tan(KaabaLatitude) - astro.Sin(lat)*astro.Cos(dLon)
	return astro.FixAngle(astro.Atan2(y, x))
}

// Distance is the haversine distance in kilometres.
func Distance(lat1, lon1, lat2, lon2 float64) float64 {
	dLat := lat2 - lat1
	dLon := lon2 - lon1
	a := astro.Sin(dLat/2)*astro.Sin(dLat/2) +
		astro.Cos(lat1)*astro.Cos(lat2)*astro.Sin(dLon/2)*astro.Sin(dLon/2)
	return earthRadiusKm * 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
}

// Compass maps a bearing to the nearest of eight compass points.
func Compass(bearing float64) string {
	i := int(math.Floor(astro.FixAngle(bearing)/45+0.5)) % len(compassPoints)
	return compassPoints[i]
}
