// Package cache stores computed prayer tables and the detected location on disk.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/smokyabdulrahman/salat/internal/geo"
	"github.com/smokyabdulrahman/salat/internal/prayer"
)

const (
	tableCacheFile = "table_%s.json" // keyed by hash
	geoCacheFile   = "geolocation.json"
	geoTTL         = 24 * time.Hour
	placeCacheFile = "place_%s.json"
	placeTTL       = 30 * 24 * time.Hour
)

// Cache provides file-based caching for prayer tables and geolocation data.
type Cache struct {
	dir string
}

// TableCacheEntry stores one computed day along with the inputs it was computed from.
type TableCacheEntry struct {
	Date    string         `json:"date"` // YYYY-MM-DD
	Method  prayer.Method  `json:"method"`
	Madhhab prayer.Madhhab `json:"madhhab"`
	Table   prayer.Table   `json:"table"`
}

// GeoCacheEntry stores a cached geolocation result with a timestamp.
type GeoCacheEntry struct {
	Location geo.Location `json:"location"`
	CachedAt time.Time    `json:"cached_at"`
}

// DefaultDir returns ~/.cache/salat.
func DefaultDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(home, ".cache", "salat"), nil
}

// New creates a Cache rooted at the given directory.
// If dir is empty, it defaults to ~/.cache/salat/.
func New(dir string) (*Cache, error) {
	if dir == "" {
		var err error
		if dir, err = DefaultDir(); err != nil {
			return nil, err
		}
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("cannot create cache directory %s: %w", dir, err)
	}

	return &Cache{dir: dir}, nil
}

// Key builds a deterministic hash from the parameters that affect a table.
// Shared with other table stores so every backend agrees on identity.
func Key(p prayer.Params) string {
	raw := fmt.Sprintf("%04d-%02d-%02d|%.6f|%.6f|%d|%d|%.2f",
		p.Year, p.Month, p.Day, p.Latitude, p.Longitude, p.Method, p.Madhhab, p.UTCOffset)
	h := sha256.Sum256([]byte(raw))
	return fmt.Sprintf("%x", h[:8]) // 16 hex chars is plenty for uniqueness
}

func dateString(p prayer.Params) string {
	return fmt.Sprintf("%04d-%02d-%02d", p.Year, p.Month, p.Day)
}

func (c *Cache) tablePath(p prayer.Params) string {
	return filepath.Join(c.dir, fmt.Sprintf(tableCacheFile, Key(p)))
}

// LoadTable attempts to read a cached table for the given parameters.
// Returns false if the cache is missing, unreadable or for another date.
func (c *Cache) LoadTable(_ context.Context, p prayer.Params) (prayer.Table, bool) {
	data, err := os.ReadFile(c.tablePath(p))
	if err != nil {
		return prayer.Table{}, false
	}

	var entry TableCacheEntry
	if err := json.Unmarshal(data, &entry); err != nil {
		return prayer.Table{}, false
	}

	// Validate the date matches -- a hash collision with another day is useless.
	if entry.Date != dateString(p) || entry.Method != p.Method || entry.Madhhab != p.Madhhab {
		return prayer.Table{}, false
	}

	return entry.Table, true
}

// SaveTable writes a table to the cache.
func (c *Cache) SaveTable(_ context.Context, p prayer.Params, t prayer.Table) error {
	entry := TableCacheEntry{
		Date:    dateString(p),
		Method:  p.Method,
		Madhhab: p.Madhhab,
		Table:   t,
	}

	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("failed to marshal cache entry: %w", err)
	}

	if err := os.WriteFile(c.tablePath(p), data, 0o644); err != nil {
		return fmt.Errorf("failed to write cache file: %w", err)
	}

	return nil
}

// Prune removes cached tables last written before cutoff.
func (c *Cache) Prune(cutoff time.Time) (int, error) {
	matches, err := filepath.Glob(filepath.Join(c.dir, "table_*.json"))
	if err != nil {
		return 0, err
	}

	removed := 0
	for _, path := range matches {
		info, err := os.Stat(path)
		if err != nil || !info.ModTime().Before(cutoff) {
			continue
		}
		if err := os.Remove(path); err == nil {
			removed++
		}
	}
	return removed, nil
}

// LoadGeo attempts to read a cached geolocation result.
// Returns nil if the cache is missing or older than the TTL (24 hours).
func (c *Cache) LoadGeo() *geo.Location {
	path := filepath.Join(c.dir, geoCacheFile)

	data, err := os.ReadFile(path)
	if err != nil {
		return nil
	}

	var entry GeoCacheEntry
	if err := json.Unmarshal(data, &entry); err != nil {
		return nil
	}

	if time.Since(entry.CachedAt) > geoTTL {
		return nil
	}

	return &entry.Location
}

// SaveGeo writes a geolocation result to the cache.
func (c *Cache) SaveGeo(loc *geo.Location) error {
	path := filepath.Join(c.dir, geoCacheFile)

	entry := GeoCacheEntry{
		Location: *loc,
		CachedAt: time.Now(),
	}

	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("failed to marshal geo cache: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write geo cache: %w", err)
	}

	return nil
}

func (c *Cache) placePath(city, country string) string {
	h := sha256.Sum256([]byte(strings.ToLower(strings.TrimSpace(city)) + "|" + strings.ToLower(strings.TrimSpace(country))))
	return filepath.Join(c.dir, fmt.Sprintf(placeCacheFile, fmt.Sprintf("%x", h[:8])))
}

// LoadPlace returns a geocoded city, or nil if missing or older than 30 days.
func (c *Cache) LoadPlace(city, country string) *geo.Location {
	data, err := os.ReadFile(c.placePath(city, country))
	if err != nil {
		return nil
	}

	var entry GeoCacheEntry
	if err := json.Unmarshal(data, &entry); err != nil {
		return nil
	}
	if time.Since(entry.CachedAt) > placeTTL {
		return nil
	}
	return &entry.Location
}

// SavePlace stores a geocoded city.
func (c *Cache) SavePlace(city, country string, loc *geo.Location) error {
	data, err := json.Marshal(GeoCacheEntry{Location: *loc, CachedAt: time.Now()})
	if err != nil {
		return fmt.Errorf("failed to marshal place cache: %w", err)
	}
	if err := os.WriteFile(c.placePath(city, country), data, 0o644); err != nil {
		return fmt.Errorf("failed to write place cache: %w", err)
	}
	return nil
}
