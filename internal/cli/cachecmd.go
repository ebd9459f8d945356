package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/smokyabdulrahman/salat/internal/cache"
)

var flagPruneOlderThan time.Duration

func newCacheCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the local cache",
	}

	prune := &cobra.Command{
		Use:   "prune",
		Short: "Remove old cached tables",
		Long:  "Delete cached prayer tables written longer ago than --older-than.\nLocation lookups are kept.",
		Args:  cobra.NoArgs,
		RunE:  runCachePrune,
	}
	prune.Flags().DurationVar(&flagPruneOlderThan, "older-than", 7*24*time.Hour, "Age of tables to remove")
	cmd.AddCommand(prune)

	return cmd
}

func runCachePrune(cmd *cobra.Command, args []string) error {
	cfg, err := effectiveConfig(cmd)
	if err != nil {
		return err
	}

	c, err := cache.New(cfg.CacheDir)
	if err != nil {
		return err
	}

	n, err := c.Prune(nowFunc().Add(-flagPruneOlderThan))
	if err != nil {
		return fmt.Errorf("failed to prune cache: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Removed %d cached table(s).\n", n)
	return nil
}
