package cli

import (
	"github.com/spf13/cobra"

	"github.com/smokyabdulrahman/salat/internal/server"
)

var flagServeAddr string

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the prayer times HTTP API",
		Long: "Serve prayer times, qibla and method data over HTTP.\n\n" +
			"Endpoints:\n  GET /api/prayer-times?lat=&lon=[&tz=&method=&madhhab=&year=&month=&day=]\n  GET /api/qibla?lat=&lon=\n  GET /api/methods\n  GET /healthz\n\n" +
			"Settings are read from the environment and .env: SALAT_ADDR, SALAT_LOG_LEVEL, SALAT_LOG_FORMAT,\nSALAT_LOG_DIR, REDIS_ADDRESS, REDIS_USERNAME, REDIS_PASSWORD, REDIS_DB, REDIS_TTL.",
		Args: cobra.NoArgs,
		RunE: runServe,
	}

	cmd.Flags().StringVar(&flagServeAddr, "addr", "", "Listen address (overrides SALAT_ADDR)")
	addEnvFlag(cmd)

	return cmd
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := effectiveConfig(cmd)
	if err != nil {
		return err
	}

	ctx, cancel := signalContext(cmd.Context())
	defer cancel()

	d, err := newDaemon(ctx, cmd, cfg.CacheDir)
	if err != nil {
		return err
	}
	defer d.Close()

	addr := d.env.ServerAddress
	if flagServeAddr != "" {
		addr = flagServeAddr
	}

	srv := server.New(server.Options{
		Cache:  d.store,
		Logger: d.logger,
		Now:    nowFunc,
	})
	return srv.Run(ctx, addr)
}
