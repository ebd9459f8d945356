package geo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
)

// ErrPlaceNotFound is returned when the geocoder has no match.
var ErrPlaceNotFound = errors.New("place not found")

// nominatimURL is the OpenStreetMap search endpoint; a var so tests can
// point it at an httptest server.
var nominatimURL = "https://nominatim.openstreetmap.org/search"

// userAgent identifies us to Nominatim, whose usage policy requires one.
var userAgent = "salat/dev (+https://github.com/smokyabdulrahman/salat)"

type nominatimPlace struct {
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
	DisplayName string `json:"display_name"`
}

// Geocode looks up a city by name. The result has no Timezone; callers
// supply one from config or flags.
func Geocode(ctx context.Context, city, country string) (*Location, error) {
	q := url.Values{}
	q.Set("city", city)
	if country != "" {
		q.Set("country", country)
	}
	q.Set("format", "json")
	q.Set("limit", "1")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, nominatimURL+"?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("geocoding request failed: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("geocoding request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("geocoding API returned status %d", resp.StatusCode)
	}

	var places []nominatimPlace
	if err := json.NewDecoder(resp.Body).Decode(&places); err != nil {
		return nil, fmt.Errorf("failed to decode geocoding response: %w", err)
	}
	if len(places) == 0 {
		return nil, fmt.Errorf("%w: %s, %s", ErrPlaceNotFound, city, country)
	}

	lat, err := strconv.ParseFloat(places[0].Lat, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid latitude %q in geocoding response", places[0].Lat)
	}
	lon, err := strconv.ParseFloat(places[0].Lon, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid longitude %q in geocoding response", places[0].Lon)
	}

	return &Location{
		Latitude:  lat,
		Longitude: lon,
		City:      city,
		Country:   country,
	}, nil
}
