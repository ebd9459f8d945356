package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/smokyabdulrahman/salat/internal/ics"
	"github.com/smokyabdulrahman/salat/internal/prayer"
)

var (
	flagExportDays   string
	flagExportOutput string
)

func newExportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export prayer times as an iCalendar file",
		Long:  "Write the prayer schedule for the coming days as an .ics file that calendar apps can import.\nEach prayer becomes a 5-minute event. Sunrise is not exported.",
		Args:  cobra.NoArgs,
		RunE:  runExport,
	}

	cmd.Flags().StringVar(&flagExportDays, "days", "30", "Number of days to export (or 'week'/'month')")
	cmd.Flags().StringVarP(&flagExportOutput, "output", "o", "", "Output file (default: stdout)")

	return cmd
}

func runExport(cmd *cobra.Command, args []string) error {
	days, err := parseDays(flagExportDays)
	if err != nil {
		return fmt.Errorf("invalid --days value: %w", err)
	}

	cfg, err := effectiveConfig(cmd)
	if err != nil {
		return err
	}
	ctx := cmd.Context()

	s, err := newSession(ctx, cfg, cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	daysList, err := collectDays(ctx, s, s.now(), days)
	if err != nil {
		return err
	}

	schedule := make([][]prayer.Prayer, 0, len(daysList))
	for _, dd := range daysList {
		schedule = append(schedule, prayer.Schedule(dd.Table, s.tz, s.names))
	}
	cal := ics.FromSchedule(schedule, buildLocationStr(s.loc))

	if flagExportOutput == "" || flagExportOutput == "-" {
		_, err := cal.WriteTo(cmd.OutOrStdout())
		return err
	}

	f, err := os.Create(flagExportOutput)
	if err != nil {
		return fmt.Errorf("cannot create %s: %w", flagExportOutput, err)
	}
	if _, err := cal.WriteTo(f); err != nil {
		f.Close()
		return fmt.Errorf("failed to write %s: %w", flagExportOutput, err)
	}
	if err := f.Close(); err != nil {
		return err
	}

	fmt.Fprintf(cmd.ErrOrStderr(), "Wrote %d events to %s\n", len(cal.Events), flagExportOutput)
	return nil
}
