package cli

import (
	"context"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/smokyabdulrahman/salat/internal/cache"
	"github.com/smokyabdulrahman/salat/internal/config"
	"github.com/smokyabdulrahman/salat/internal/logging"
	"github.com/smokyabdulrahman/salat/internal/store"
)

var flagEnvFiles []string

// addEnvFlag registers --env-file on the long-running commands.
func addEnvFlag(cmd *cobra.Command) {
	cmd.Flags().StringSliceVar(&flagEnvFiles, "env-file", nil, "Dotenv file(s) to load (default: .env)")
}

// daemon holds what serve, notify and mcp share: environment, logger and
// the table store.
type daemon struct {
	env    config.Env
	logger zerolog.Logger
	store  cache.TableStore

	closers []io.Closer
}

// newDaemon loads the environment, builds the logger and picks the table
// store: redis when REDIS_ADDRESS is set, the file cache otherwise.
func newDaemon(ctx context.Context, cmd *cobra.Command, cacheDir string) (*daemon, error) {
	env, err := config.LoadEnv(flagEnvFiles...)
	if err != nil {
		return nil, err
	}

	logger, closer, err := logging.New(logging.Options{
		Level:  env.LogLevel,
		Format: env.LogFormat,
		Dir:    env.LogDir,
		Out:    cmd.ErrOrStderr(),
	})
	if err != nil {
		return nil, err
	}
	d := &daemon{env: env, logger: logger, closers: []io.Closer{closer}}

	if env.RedisAddress != "" {
		r := store.NewRedis(store.Options{
			Address:  env.RedisAddress,
			Username: env.RedisUsername,
			Password: env.RedisPassword,
			DB:       env.RedisDB,
			TTL:      env.RedisTTL,
		}, logger)
		if err := r.Ping(ctx); err != nil {
			// Still usable: every lookup falls through to the calculation.
			logger.Warn().Err(err).Str("address", env.RedisAddress).Msg("redis unreachable")
		}
		d.store = r
		d.closers = append(d.closers, r)
		logger.Info().Str("address", env.RedisAddress).Msg("using redis table cache")
		return d, nil
	}

	c, err := cache.New(cacheDir)
	if err != nil {
		logger.Warn().Err(err).Msg("cache disabled")
		return d, nil
	}
	d.store = c
	return d, nil
}

func (d *daemon) Close() error {
	var first error
	for i := len(d.closers) - 1; i >= 0; i-- {
		if err := d.closers[i].Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// signalContext is cancelled on SIGINT or SIGTERM.
func signalContext(parent context.Context) (context.Context, context.CancelFunc) {
	if parent == nil {
		parent = context.Background()
	}
	return signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
}
