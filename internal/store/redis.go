// Package store keeps computed prayer tables in redis so that several
// server replicas share one cache.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/smokyabdulrahman/salat/internal/cache"
	"github.com/smokyabdulrahman/salat/internal/prayer"
)

const keyPrefix = "salat:table:"

// DefaultTTL is used when Options.TTL is zero.
const DefaultTTL = 48 * time.Hour

// kv is the subset of *redis.Client the store needs.
type kv interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Ping(ctx context.Context) *redis.StatusCmd
	Close() error
}

// Options configures a redis connection.
type Options struct {
	Address  string
	Username string
	Password string
	DB       int
	TTL      time.Duration
}

// Redis is a table store backed by a redis server.
type Redis struct {
	rdb    kv
	ttl    time.Duration
	logger zerolog.Logger
}

// NewRedis connects to redis. The connection is lazy; call Ping to verify it.
func NewRedis(opts Options, logger zerolog.Logger) *Redis {
	rdb := redis.NewClient(&redis.Options{
		Addr:     opts.Address,
		Username: opts.Username,
		Password: opts.Password,
		DB:       opts.DB,
	})
	return newRedis(rdb, opts.TTL, logger)
}

func newRedis(rdb kv, ttl time.Duration, logger zerolog.Logger) *Redis {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Redis{rdb: rdb, ttl: ttl, logger: logger}
}

// Key returns the redis key holding the table for p.
func Key(p prayer.Params) string {
	return keyPrefix + cache.Key(p)
}

// Ping checks that the server is reachable.
func (r *Redis) Ping(ctx context.Context) error {
	if err := r.rdb.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping: %w", err)
	}
	return nil
}

// LoadTable returns the stored table for p. Any redis or decoding failure is
// logged and reported as a miss so callers fall back to computing.
func (r *Redis) LoadTable(ctx context.Context, p prayer.Params) (prayer.Table, bool) {
	key := Key(p)
	data, err := r.rdb.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			r.logger.Warn().Err(err).Str("key", key).Msg("redis get failed")
		}
		return prayer.Table{}, false
	}

	var entry cache.TableCacheEntry
	if err := json.Unmarshal(data, &entry); err != nil {
		r.logger.Warn().Err(err).Str("key", key).Msg("discarding malformed table")
		return prayer.Table{}, false
	}
	if entry.Method != p.Method || entry.Madhhab != p.Madhhab || entry.Date != isoDate(p) {
		return prayer.Table{}, false
	}
	return entry.Table, true
}

// SaveTable stores t under the key for p with the configured TTL.
func (r *Redis) SaveTable(ctx context.Context, p prayer.Params, t prayer.Table) error {
	data, err := json.Marshal(cache.TableCacheEntry{
		Date:    isoDate(p),
		Method:  p.Method,
		Madhhab: p.Madhhab,
		Table:   t,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal table: %w", err)
	}
	if err := r.rdb.Set(ctx, Key(p), data, r.ttl).Err(); err != nil {
		return fmt.Errorf("failed to add %s to redis: %w", Key(p), err)
	}
	return nil
}

// Close releases the connection pool.
func (r *Redis) Close() error {
	return r.rdb.Close()
}

func isoDate(p prayer.Params) string {
	return fmt.Sprintf("%04d-%02d-%02d", p.Year, p.Month, p.Day)
}
