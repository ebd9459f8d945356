package qibla

import (
	"errors"
	"math"
	"testing"

	"github.com/smokyabdulrahman/salat/internal/prayer"
)

func TestDirection(t *testing.T) {
	tests := []struct {
		name        string
		lat, lon    float64
		wantBearing float64
		wantCompass string
		wantKm      float64
	}{
		{"london", 51.5074, -0.1278, 118.99, "SE", 4794},
		{"new york", 40.7128, -74.0060, 58.48, "NE", 10306},
		{"jakarta", -6.2088, 106.8456, 295.15, "NW", 7920},
		{"moscow", 55.7558, 37.6173, 176.36, "S", 3822},
		{"sydney", -33.8688, 151.2093, 277.50, "W", 13236},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Direction(tt.lat, tt.lon)
			if err != nil {
				t.Fatalf("Direction() error: %v", err)
			}
			if math.Abs(got.Bearing-tt.wantBearing) > 0.05 {
				t.Errorf("Bearing = %.2f, want %.2f", got.Bearing, tt.wantBearing)
			}
			if got.Compass != tt.wantCompass {
				t.Errorf("Compass = %q, want %q", got.Compass, tt.wantCompass)
			}
			if math.Abs(got.DistanceKm-tt.wantKm) > 1 {
				t.Errorf("DistanceKm = %.1f, want %.0f", got.DistanceKm, tt.wantKm)
			}
		})
	}
}

func TestDirection_AtKaaba(t *testing.T) {
	got, err := Direction(KaabaLatitude, KaabaLongitude)
	if err != nil {
		t.Fatalf("Direction() error: %v", err)
	}
	if got.DistanceKm > 0.001 {
		t.Errorf("DistanceKm = %v, want 0", got.DistanceKm)
	}
}

func TestDirection_InvalidCoordinates(t *testing.T) {
	for _, c := range [][2]float64{{91, 0}, {-91, 0}, {0, 181}, {0, -180.5}, {math.NaN(), 0}} {
		_, err := Direction(c[0], c[1])
		if !errors.Is(err, prayer.ErrInvalidCoordinates) {
			t.Errorf("Direction(%v, %v) error = %v, want ErrInvalidCoordinates", c[0], c[1], err)
		}
	}
}

func TestCompass(t *testing.T) {
	tests := []struct {
		bearing float64
		want    string
	}{
		{0, "N"},
		{22.4, "N"},
		{22.6, "NE"},
		{90, "E"},
		{180, "S"},
		{269, "W"},
		{337.6, "N"},
		{359.9, "N"},
		{-45, "NW"},
	}
	for _, tt := range tests {
		if got := Compass(tt.bearing); got != tt.want {
			t.Errorf("Compass(%v) = %q, want %q", tt.bearing, got, tt.want)
		}
	}
}

func TestDistance_Symmetric(t *testing.T) {
	a := Distance(51.5, -0.1, 40.7, -74.0)
	b := Distance(40.7, -74.0, 51.5, -0.1)
	if math.Abs(a-b) > 1e-9 {
		t.Errorf("Distance not symmetric: %v vs %v", a, b)
	}
	// london to new york is about 5570 km
	if math.Abs(a-5570) > 20 {
		t.Errorf("london-new york = %.0f km", a)
	}
}
