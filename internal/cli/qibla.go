package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/smokyabdulrahman/salat/internal/display"
	"github.com/smokyabdulrahman/salat/internal/qibla"
)

func newQiblaCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "qibla",
		Short: "Show the direction of the Kaaba",
		Long:  "Print the great-circle bearing and distance from your location to the Kaaba in Makkah.",
		Args:  cobra.NoArgs,
		RunE:  runQibla,
	}
}

func runQibla(cmd *cobra.Command, args []string) error {
	cfg, err := effectiveConfig(cmd)
	if err != nil {
		return err
	}

	s, err := newSession(cmd.Context(), cfg, cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	res, err := qibla.Direction(s.loc.Lat, s.loc.Lon)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if FlagJSON {
		return writeJSON(out, res)
	}

	fmt.Fprintln(out)
	fmt.Fprintf(out, "  %s\n", display.Bold("Qibla"))
	fmt.Fprintln(out)
	fmt.Fprintf(out, "  %s\n", buildLocationStr(s.loc))
	fmt.Fprintln(out)
	fmt.Fprintf(out, "  Direction  %s\n", display.Accent(fmt.Sprintf("%.2f° %s", res.Bearing, res.Compass)))
	fmt.Fprintf(out, "  Distance   %.0f km\n", res.DistanceKm)
	fmt.Fprintln(out)
	fmt.Fprintln(out, display.Gray("  Bearing is clockwise from true north."))
	return nil
}
