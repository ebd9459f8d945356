package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/smokyabdulrahman/salat/internal/cache"
	"github.com/smokyabdulrahman/salat/internal/config"
	"github.com/smokyabdulrahman/salat/internal/geo"
	"github.com/smokyabdulrahman/salat/internal/prayer"
)

// locationMode describes how the location was obtained.
type locationMode int

const (
	locationCoords locationMode = iota
	locationCity
	locationAuto
)

// resolvedLocation holds the result of location resolution.
type resolvedLocation struct {
	Mode     locationMode
	Lat, Lon float64
	City     string
	Country  string
	Timezone string // optional hint from geo-detection
}

// detectLocation and geocode are swapped out in tests.
var (
	detectLocation = geo.DetectLocation
	geocode        = geo.Geocode
)

// resolveLocation determines the effective location.
// Priority: coordinates > city lookup > cached geolocation > IP auto-detect.
func resolveLocation(ctx context.Context, cfg *config.Config, c *cache.Cache) (resolvedLocation, error) {
	switch {
	case cfg.Latitude != 0 || cfg.Longitude != 0:
		return resolvedLocation{Mode: locationCoords, Lat: cfg.Latitude, Lon: cfg.Longitude, City: cfg.City, Country: cfg.Country}, nil
	case cfg.City != "":
		if c != nil {
			if cached := c.LoadPlace(cfg.City, cfg.Country); cached != nil {
				return resolvedLocation{Mode: locationCity, Lat: cached.Latitude, Lon: cached.Longitude, City: cfg.City, Country: cfg.Country}, nil
			}
		}
		found, err := geocode(ctx, cfg.City, cfg.Country)
		if err != nil {
			return resolvedLocation{}, fmt.Errorf("cannot locate %s: %w", cfg.City, err)
		}
		if c != nil {
			_ = c.SavePlace(cfg.City, cfg.Country, found) // best-effort
		}
		return resolvedLocation{Mode: locationCity, Lat: found.Latitude, Lon: found.Longitude, City: cfg.City, Country: cfg.Country}, nil
	default:
		// Try cached geolocation first.
		if c != nil {
			if cached := c.LoadGeo(); cached != nil {
				return autoLocation(cached), nil
			}
		}

		detected, err := detectLocation(ctx)
		if err != nil {
			return resolvedLocation{}, fmt.Errorf("no location specified and auto-detection failed: %w", err)
		}
		if c != nil {
			_ = c.SaveGeo(detected) // best-effort
		}
		return autoLocation(detected), nil
	}
}

func autoLocation(l *geo.Location) resolvedLocation {
	return resolvedLocation{
		Mode:     locationAuto,
		Lat:      l.Latitude,
		Lon:      l.Longitude,
		City:     l.City,
		Country:  l.Country,
		Timezone: l.Timezone,
	}
}

// buildLocationStr builds a "City, Country" string from available data.
func buildLocationStr(loc resolvedLocation) string {
	switch {
	case loc.City != "" && loc.Country != "":
		return loc.City + ", " + loc.Country
	case loc.City != "":
		return loc.City
	}
	return fmt.Sprintf("%.4f, %.4f", loc.Lat, loc.Lon)
}

// session bundles everything a command needs to compute tables.
type session struct {
	cfg     *config.Config
	cache   *cache.Cache
	store   cache.TableStore // file cache unless a daemon swaps in redis
	loc     resolvedLocation
	tz      *time.Location
	tzName  string
	method  prayer.Method
	madhhab prayer.Madhhab
	names   []prayer.Name
	timeFmt string
	warn    io.Writer
}

// newSession resolves config, cache, location and timezone.
func newSession(ctx context.Context, cfg *config.Config, warn io.Writer) (*session, error) {
	names, err := cfg.PrayerNames()
	if err != nil {
		return nil, err
	}

	c, err := cache.New(cfg.CacheDir)
	if err != nil {
		// Cache init failure is non-fatal; we just skip caching.
		c = nil
		fmt.Fprintf(warn, "warning: cache disabled: %v\n", err)
	}

	loc, err := resolveLocation(ctx, cfg, c)
	if err != nil {
		return nil, err
	}

	// Timezone: config/flag > detected > local.
	tzName := cfg.Timezone
	if tzName == "" {
		tzName = loc.Timezone
	}
	tz := time.Local
	if tzName != "" {
		if tz, err = time.LoadLocation(tzName); err != nil {
			return nil, fmt.Errorf("invalid timezone %q: %w", tzName, err)
		}
	} else {
		tzName = tz.String()
	}

	var store cache.TableStore
	if c != nil {
		store = c
	}

	return &session{
		cfg:     cfg,
		cache:   c,
		store:   store,
		loc:     loc,
		tz:      tz,
		tzName:  tzName,
		method:  cfg.MethodOrDefault(prayer.DefaultMethod),
		madhhab: cfg.MadhhabOrDefault(prayer.Shafi),
		names:   names,
		timeFmt: goTimeFormat(cfg.TimeFormat),
		warn:    warn,
	}, nil
}

func (s *session) params(day time.Time) prayer.Params {
	return prayer.ForDate(s.loc.Lat, s.loc.Lon, day, s.tz, s.method, s.madhhab)
}

// table computes (or loads) the table for the calendar day containing day.
// An angle-domain failure is returned alongside the partial table.
func (s *session) table(ctx context.Context, day time.Time) (prayer.Table, error) {
	t, err := cache.Compute(ctx, s.store, s.params(day), cache.OnSaveError(func(err error) {
		fmt.Fprintf(s.warn, "warning: %v\n", err)
	}))
	if err != nil && !errors.Is(err, prayer.ErrInvalidAngleDomain) {
		return prayer.Table{}, err
	}
	return t, err
}

// schedule returns the selected prayers of a day as times in the session zone.
// Undefined times are reported once on the warning writer.
func (s *session) schedule(ctx context.Context, day time.Time) ([]prayer.Prayer, prayer.Table, error) {
	t, err := s.table(ctx, day)
	if err != nil {
		var ade *prayer.AngleDomainError
		if !errors.As(err, &ade) {
			return nil, t, err
		}
		s.warnUndefined(t, ade)
	}
	return prayer.Schedule(t, s.tz, s.names), t, nil
}

func (s *session) warnUndefined(t prayer.Table, ade *prayer.AngleDomainError) {
	fmt.Fprintf(s.warn, "warning: %s on %s (shown as %s)\n", ade.Error(), t.Date(), prayer.UndefinedClock)
}

// clock formats n from t in the configured time format, or "--:--".
func (s *session) clock(t prayer.Table, n prayer.Name) string {
	m, ok := t.Minutes(n)
	if !ok {
		return prayer.UndefinedClock
	}
	return time.Date(2000, 1, 1, m/60, m%60, 0, 0, time.UTC).Format(s.timeFmt)
}

// now returns the current time in the session zone.
func (s *session) now() time.Time {
	return nowFunc().In(s.tz)
}
