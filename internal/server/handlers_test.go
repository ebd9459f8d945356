package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smokyabdulrahman/salat/internal/cache"
	"github.com/smokyabdulrahman/salat/internal/prayer"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeCache struct {
	mu      sync.Mutex
	tables  map[string]prayer.Table
	loads   int
	saves   int
	pingErr error
}

func newFakeCache() *fakeCache {
	return &fakeCache{tables: map[string]prayer.Table{}}
}

func (f *fakeCache) LoadTable(_ context.Context, p prayer.Params) (prayer.Table, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.loads++
	t, ok := f.tables[cache.Key(p)]
	return t, ok
}

func (f *fakeCache) SaveTable(_ context.Context, p prayer.Params, t prayer.Table) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.saves++
	f.tables[cache.Key(p)] = t
	return nil
}

func (f *fakeCache) Ping(context.Context) error { return f.pingErr }

// fixedNow is 2024-03-11 10:00 UTC, i.e. 13:00 in Makkah.
func fixedNow() time.Time {
	return time.Date(2024, 3, 11, 10, 0, 0, 0, time.UTC)
}

func newTestServer(c cache.TableStore) *Server {
	return New(Options{Cache: c, Logger: zerolog.Nop(), Now: fixedNow})
}

type envelope struct {
	Success bool                   `json:"success"`
	Error   string                 `json:"error"`
	Data    map[string]interface{} `json:"data"`
}

func get(t *testing.T, s *Server, url string) (int, envelope) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, url, nil)
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)

	var body envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body), w.Body.String())
	return w.Code, body
}

const makkahQuery = "/api/prayer-times?lat=21.4225&lon=39.8262&tz=3"

func makkahTable(t *testing.T) prayer.Table {
	t.Helper()
	tbl, err := prayer.Calculate(prayer.Params{
		Latitude: 21.4225, Longitude: 39.8262,
		Year: 2024, Month: 3, Day: 11,
		Method: prayer.Makkah, Madhhab: prayer.Shafi, UTCOffset: 3,
	})
	require.NoError(t, err)
	return tbl
}

// ---------------------------------------------------------------------------
// /api/prayer-times
// ---------------------------------------------------------------------------

func TestPrayerTimes_DefaultsToTodayInOffset(t *testing.T) {
	s := newTestServer(nil)

	code, body := get(t, s, makkahQuery)
	require.Equal(t, http.StatusOK, code, body.Error)
	assert.True(t, body.Success)

	want := makkahTable(t)
	for _, n := range prayer.Names {
		assert.Equal(t, want.Clock(n), body.Data[n.Key()], n.String())
	}
	assert.Equal(t, "11.03.2024", body.Data["date"])
	assert.Equal(t, "Makkah", body.Data["method"])
	assert.Equal(t, "Shafi", body.Data["madhhab"])
	assert.Equal(t, "Dhuhr", body.Data["currentPrayer"])
	assert.Equal(t, "Asr", body.Data["nextPrayer"])
	assert.Contains(t, body.Data["hijri"], "Ramadan 1445")
	assert.NotContains(t, body.Data, "undefined")
}

func TestPrayerTimes_ExplicitDateAndNow(t *testing.T) {
	s := newTestServer(nil)

	code, body := get(t, s, makkahQuery+"&year=2024&month=3&day=11&now=04:00&city=Makkah")
	require.Equal(t, http.StatusOK, code, body.Error)
	assert.Equal(t, "Isha", body.Data["currentPrayer"])
	assert.Equal(t, "Fajr", body.Data["nextPrayer"])
	assert.Equal(t, "Makkah", body.Data["city"])

	code, body = get(t, s, makkahQuery+"&year=2024&month=3&day=11&now=23:30")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "Isha", body.Data["currentPrayer"])
	assert.Equal(t, "Fajr", body.Data["nextPrayer"])
}

func TestPrayerTimes_MethodAndMadhhab(t *testing.T) {
	s := newTestServer(nil)

	_, shafi := get(t, s, "/api/prayer-times?lat=51.5074&lon=-0.1278&year=2024&month=6&day=1&method=isna&madhhab=0")
	code, hanafi := get(t, s, "/api/prayer-times?lat=51.5074&lon=-0.1278&year=2024&month=6&day=1&method=1&madhhab=hanafi")
	require.Equal(t, http.StatusOK, code, hanafi.Error)

	assert.Equal(t, "ISNA", hanafi.Data["method"])
	assert.Equal(t, "Hanafi", hanafi.Data["madhhab"])
	assert.Equal(t, shafi.Data["fajr"], hanafi.Data["fajr"])
	assert.Greater(t, hanafi.Data["asr"].(string), shafi.Data["asr"].(string))
}

func TestPrayerTimes_BadRequests(t *testing.T) {
	s := newTestServer(nil)

	tests := []struct {
		name, query, wantErr string
	}{
		{"missing coordinates", "/api/prayer-times", "lat and lon parameters are required"},
		{"missing lon", "/api/prayer-times?lat=10", "lat and lon parameters are required"},
		{"non-numeric lat", "/api/prayer-times?lat=north&lon=10", "invalid coordinates"},
		{"latitude out of range", "/api/prayer-times?lat=91&lon=10", "invalid coordinates"},
		{"longitude out of range", "/api/prayer-times?lat=10&lon=-181", "invalid coordinates"},
		{"bad month", makkahQuery + "&month=13", "invalid date"},
		{"bad day", makkahQuery + "&year=2023&month=2&day=29", "invalid date"},
		{"non-numeric year", makkahQuery + "&year=abc", "invalid year"},
		{"bad method", makkahQuery + "&method=9", "method"},
		{"bad madhhab", makkahQuery + "&madhhab=maliki", "madhhab"},
		{"bad tz", "/api/prayer-times?lat=21.4225&lon=39.8262&tz=x", "invalid tz"},
		{"tz out of range", "/api/prayer-times?lat=10&lon=10&tz=15", "utc offset"},
		{"bad now", makkahQuery + "&now=25:00", "time out of range"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, body := get(t, s, tt.query)
			assert.Equal(t, http.StatusBadRequest, code)
			assert.False(t, body.Success)
			assert.Contains(t, body.Error, tt.wantErr)
		})
	}
}

func TestPrayerTimes_PartialTable(t *testing.T) {
	s := newTestServer(nil)

	code, body := get(t, s, "/api/prayer-times?lat=75&lon=20&tz=2&year=2024&month=6&day=21&method=mwl&now=13:00")
	require.Equal(t, http.StatusUnprocessableEntity, code)
	assert.False(t, body.Success)
	assert.Contains(t, body.Error, "sun does not reach the required angle")

	require.NotNil(t, body.Data)
	assert.Nil(t, body.Data["fajr"])
	assert.Nil(t, body.Data["isha"])
	assert.NotNil(t, body.Data["dhuhr"])
	assert.ElementsMatch(t, []interface{}{"fajr", "sunrise", "maghrib", "isha"}, body.Data["undefined"])
	assert.Equal(t, "Dhuhr", body.Data["currentPrayer"])
	assert.Equal(t, "Asr", body.Data["nextPrayer"])
}

func TestPrayerTimes_UsesCache(t *testing.T) {
	fc := newFakeCache()
	s := newTestServer(fc)

	for i := 0; i < 3; i++ {
		code, _ := get(t, s, makkahQuery)
		require.Equal(t, http.StatusOK, code)
	}
	assert.Equal(t, 3, fc.loads)
	assert.Equal(t, 1, fc.saves)
}

// ---------------------------------------------------------------------------
// /api/qibla, /api/methods, /healthz
// ---------------------------------------------------------------------------

func TestQibla(t *testing.T) {
	s := newTestServer(nil)

	code, body := get(t, s, "/api/qibla?lat=51.5074&lon=-0.1278")
	require.Equal(t, http.StatusOK, code, body.Error)
	assert.InDelta(t, 119.0, body.Data["bearing"], 0.5)
	assert.Equal(t, "SE", body.Data["compass"])
	assert.InDelta(t, 4794, body.Data["distance_km"], 10)

	code, body = get(t, s, "/api/qibla?lat=100&lon=0")
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Contains(t, body.Error, "invalid coordinates")
}

func TestMethods(t *testing.T) {
	s := newTestServer(nil)

	req := httptest.NewRequest(http.MethodGet, "/api/methods", nil)
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Data []methodInfo `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Len(t, body.Data, len(prayer.Methods()))
	assert.Equal(t, "MWL", body.Data[0].Name)
	assert.Equal(t, "Makkah", body.Data[3].Name)
	assert.Equal(t, 90.0, body.Data[3].IshaMinutes)
}

func TestHealthz(t *testing.T) {
	fc := newFakeCache()
	s := newTestServer(fc)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"ok"`)

	fc.pingErr = errors.New("connection refused")
	w = httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), "connection refused")
}

func TestCORS(t *testing.T) {
	s := newTestServer(nil)

	req := httptest.NewRequest(http.MethodGet, "/api/methods", nil)
	req.Header.Set("Origin", "https://example.org")
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)
	assert.Equal(t, "https://example.org", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestRequestLogger(t *testing.T) {
	var logs strings.Builder
	s := New(Options{Logger: zerolog.New(&logs), Now: fixedNow})

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	s.Handler().ServeHTTP(httptest.NewRecorder(), req)

	assert.Contains(t, logs.String(), `"path":"/healthz"`)
	assert.Contains(t, logs.String(), `"status":200`)
}

func TestRun_StopsOnCancel(t *testing.T) {
	s := newTestServer(nil)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- s.Run(ctx, "127.0.0.1:0") }()
	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}
