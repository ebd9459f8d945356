package geo

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func withNominatim(t *testing.T, h http.HandlerFunc) {
	t.Helper()
	server := httptest.NewServer(h)
	t.Cleanup(server.Close)

	orig := nominatimURL
	nominatimURL = server.URL
	t.Cleanup(func() { nominatimURL = orig })
}

func TestGeocode_Success(t *testing.T) {
	var gotQuery, gotUA string
	withNominatim(t, func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		gotUA = r.Header.Get("User-Agent")
		w.Write([]byte(`[{"lat":"55.7504461","lon":"37.6174943","display_name":"Moscow, Russia"}]`))
	})

	loc, err := Geocode(context.Background(), "Moscow", "Russia")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if loc.Latitude != 55.7504461 || loc.Longitude != 37.6174943 {
		t.Errorf("coords = %v, %v", loc.Latitude, loc.Longitude)
	}
	if loc.City != "Moscow" || loc.Country != "Russia" {
		t.Errorf("place = %q, %q", loc.City, loc.Country)
	}
	if loc.Timezone != "" {
		t.Errorf("Timezone = %q, want empty", loc.Timezone)
	}
	if !strings.Contains(gotQuery, "city=Moscow") || !strings.Contains(gotQuery, "country=Russia") || !strings.Contains(gotQuery, "limit=1") {
		t.Errorf("query = %q", gotQuery)
	}
	if !strings.HasPrefix(gotUA, "salat/") {
		t.Errorf("User-Agent = %q", gotUA)
	}
}

func TestGeocode_NoCountry(t *testing.T) {
	var gotQuery string
	withNominatim(t, func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		w.Write([]byte(`[{"lat":"21.4225","lon":"39.8262"}]`))
	})

	if _, err := Geocode(context.Background(), "Makkah", ""); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.Contains(gotQuery, "country=") {
		t.Errorf("query = %q, want no country", gotQuery)
	}
}

func TestGeocode_NotFound(t *testing.T) {
	withNominatim(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[]`))
	})

	_, err := Geocode(context.Background(), "Atlantis", "")
	if !errors.Is(err, ErrPlaceNotFound) {
		t.Fatalf("err = %v, want ErrPlaceNotFound", err)
	}
}

func TestGeocode_Errors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr string
	}{
		{"server error", http.StatusInternalServerError, "", "status 500"},
		{"malformed json", http.StatusOK, "{not json", "decode"},
		{"bad latitude", http.StatusOK, `[{"lat":"north","lon":"0"}]`, "invalid latitude"},
		{"bad longitude", http.StatusOK, `[{"lat":"0","lon":"east"}]`, "invalid longitude"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			withNominatim(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			})

			_, err := Geocode(context.Background(), "X", "Y")
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("err = %v, want containing %q", err, tt.wantErr)
			}
		})
	}
}
