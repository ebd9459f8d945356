package cli

import (
	"github.com/spf13/cobra"

	"github.com/smokyabdulrahman/salat/internal/mcpserver"
)

func newMCPCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "Start MCP server for AI agents",
		Long:  "Serve the get_prayer_times, get_prayer_state and get_qibla tools over the Model Context Protocol on stdio.",
		Args:  cobra.NoArgs,
		RunE:  runMCP,
	}
	addEnvFlag(cmd)
	return cmd
}

func runMCP(cmd *cobra.Command, args []string) error {
	cfg, err := effectiveConfig(cmd)
	if err != nil {
		return err
	}

	ctx, cancel := signalContext(cmd.Context())
	defer cancel()

	// Logs go to stderr; stdout carries the protocol.
	d, err := newDaemon(ctx, cmd, cfg.CacheDir)
	if err != nil {
		return err
	}
	defer d.Close()

	mcpserver.Version = cmd.Root().Version
	return mcpserver.NewServer(mcpserver.Options{
		Cache:  d.store,
		Logger: d.logger,
		Now:    nowFunc,
	}).Serve(ctx)
}
