package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/smokyabdulrahman/salat/internal/prayer"
)

var (
	flagFormat  string
	flagPrayers string
)

func newNextCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "next",
		Short: "Show the next prayer with countdown",
		Long:  "Display the next upcoming prayer time with a countdown.\nThe output is a single line, suitable for status bars.",
		RunE:  runNext,
	}

	cmd.Flags().StringVar(&flagFormat, "format", prayer.FormatFull, "Display format: time-remaining, next-prayer-time, name-and-time, name-and-remaining, short-name-and-time, short-name-and-remaining, current, current-and-next, full, or a custom Go template")
	cmd.Flags().StringVar(&flagPrayers, "prayers", "", "Comma-separated list of prayers to track (overrides config)")

	return cmd
}

func runNext(cmd *cobra.Command, args []string) error {
	cfg, err := effectiveConfig(cmd)
	if err != nil {
		return err
	}

	// --prayers flag > config > defaults.
	if cmd.Flags().Changed("prayers") && flagPrayers != "" {
		cfg.Prayers = flagPrayers
	}

	ctx := cmd.Context()
	s, err := newSession(ctx, cfg, cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	now := s.now()
	prayers, today, err := s.schedule(ctx, now)
	if err != nil {
		return err
	}

	// Yesterday's Isha is still ahead when it wrapped past midnight.
	var next *prayer.Prayer
	late, err := s.table(ctx, now.AddDate(0, 0, -1))
	if err == nil || errors.Is(err, prayer.ErrInvalidAngleDomain) {
		next = prayer.Upcoming(prayer.Schedule(late, s.tz, s.names), now)
	}
	if next == nil {
		next = prayer.Upcoming(prayers, now)
	}

	// All of today's prayers have passed: take tomorrow's first.
	if next == nil {
		tomorrow, _, err := s.schedule(ctx, now.AddDate(0, 0, 1))
		if err != nil {
			return err
		}
		if len(tomorrow) > 0 {
			next = &tomorrow[0]
		}
	}

	if next == nil {
		names := make([]string, len(s.names))
		for i, n := range s.names {
			names[i] = n.String()
		}
		return fmt.Errorf("could not determine next prayer among %s", strings.Join(names, ", "))
	}

	status := prayer.StatusAt(today, *next, now)
	fmt.Fprint(cmd.OutOrStdout(), status.Format(now, flagFormat, s.timeFmt))
	return nil
}
