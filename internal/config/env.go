package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Env holds daemon settings read from the environment. Used by `serve`,
// `notify` and `mcp`; the interactive commands only need Config.
type Env struct {
	ServerAddress string

	LogLevel  string
	LogFormat string // "console" or "json"
	LogDir    string // rotating log file directory, empty for stderr only

	RedisAddress  string
	RedisUsername string
	RedisPassword string
	RedisDB       int
	RedisTTL      time.Duration

	MQTTBroker   string
	MQTTClientID string
	MQTTTopic    string

	PollInterval time.Duration
}

// LoadEnv reads .env files (default ".env", missing files ignored) into the
// process environment without overriding variables already set, then
// builds an Env from it.
func LoadEnv(files ...string) (Env, error) {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Env{}, fmt.Errorf("failed to load %s: %w", f, err)
		}
	}

	env := Env{
		ServerAddress: getenv("SALAT_ADDR", ":8080"),

		LogLevel:  getenv("SALAT_LOG_LEVEL", "info"),
		LogFormat: getenv("SALAT_LOG_FORMAT", "console"),
		LogDir:    os.Getenv("SALAT_LOG_DIR"),

		RedisAddress:  os.Getenv("REDIS_ADDRESS"),
		RedisUsername: os.Getenv("REDIS_USERNAME"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),

		MQTTBroker:   os.Getenv("MQTT_BROKER"),
		MQTTClientID: getenv("MQTT_CLIENT_ID", "salat"),
		MQTTTopic:    getenv("MQTT_TOPIC", "salat/alerts"),
	}

	var err error
	if env.RedisDB, err = getInt("REDIS_DB", 0); err != nil {
		return Env{}, err
	}
	if env.RedisTTL, err = getDuration("REDIS_TTL", 48*time.Hour); err != nil {
		return Env{}, err
	}
	if env.PollInterval, err = getDuration("SALAT_POLL_INTERVAL", time.Minute); err != nil {
		return Env{}, err
	}
	if env.LogFormat != "console" && env.LogFormat != "json" {
		return Env{}, fmt.Errorf("invalid SALAT_LOG_FORMAT %q: must be console or json", env.LogFormat)
	}

	return env, nil
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getInt(key string, def int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: must be an integer", key, v)
	}
	return n, nil
}

func getDuration(key string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, v, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("invalid %s %q: must be positive", key, v)
	}
	return d, nil
}
