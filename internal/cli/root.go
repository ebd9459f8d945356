package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/smokyabdulrahman/salat/internal/config"
	"github.com/smokyabdulrahman/salat/internal/display"
	"github.com/smokyabdulrahman/salat/internal/prayer"
)

// Global flags shared across all subcommands.
var (
	FlagCity       string
	FlagCountry    string
	FlagLatitude   float64
	FlagLongitude  float64
	FlagTimezone   string
	FlagMethod     string
	FlagMadhhab    string
	FlagJSON       bool
	FlagCacheDir   string
	FlagTimeFormat string
)

// loadedConfig holds the config loaded during PersistentPreRunE.
// Available to all subcommand handlers.
var loadedConfig *config.Config

// nowFunc is the clock used by every command.
var nowFunc = time.Now

// NewRootCmd creates the root command for the salat CLI.
// The version parameter is set by the calling binary via ldflags.
func NewRootCmd(version string) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:     "salat",
		Short:   "Islamic prayer times CLI",
		Long:    "Calculate Islamic prayer times locally from the sun's position, for any place and date.",
		Version: version,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			loadedConfig = cfg
			if FlagJSON {
				display.SetEnabled(false)
			}
			return nil
		},
		// Default action: show today's prayer schedule.
		RunE:          runToday,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.SetVersionTemplate("salat version {{.Version}}\n")

	// Register global persistent flags.
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&FlagCity, "city", "", "City name, geocoded when no coordinates are given")
	pf.StringVar(&FlagCountry, "country", "", "Country, narrows the city lookup")
	pf.Float64Var(&FlagLatitude, "latitude", 0, "Latitude in degrees (-90 to 90)")
	pf.Float64Var(&FlagLongitude, "longitude", 0, "Longitude in degrees (-180 to 180)")
	pf.StringVar(&FlagTimezone, "timezone", "", "IANA time zone, e.g. Europe/Moscow (default: detected or local)")
	pf.StringVar(&FlagMethod, "method", "", "Calculation method: MWL, ISNA, Egypt, Makkah, Karachi, Tehran or 0-5")
	pf.StringVar(&FlagMadhhab, "madhhab", "", "Asr convention: shafi or hanafi")
	pf.BoolVar(&FlagJSON, "json", false, "Output as JSON (where supported)")
	pf.StringVar(&FlagCacheDir, "cache-dir", "", "Cache directory (default: ~/.cache/salat/)")
	pf.StringVar(&FlagTimeFormat, "time-format", "", "Time format: 12h or 24h (overrides config)")

	// Register subcommands.
	rootCmd.AddCommand(newNextCmd())
	rootCmd.AddCommand(newListCmd())
	rootCmd.AddCommand(newWeekCmd())
	rootCmd.AddCommand(newMonthCmd())
	rootCmd.AddCommand(newQueryCmd())
	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newMethodsCmd())
	rootCmd.AddCommand(newQiblaCmd())
	rootCmd.AddCommand(newExportCmd())
	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newNotifyCmd())
	rootCmd.AddCommand(newMCPCmd())
	rootCmd.AddCommand(newCacheCmd())

	return rootCmd
}

// effectiveConfig returns the merged configuration values,
// applying the priority: CLI flags > config file > defaults.
// It uses cobra's Changed() to detect whether a flag was explicitly set.
func effectiveConfig(cmd *cobra.Command) (*config.Config, error) {
	return mergeConfig(cmd, loadedConfig)
}

// mergeConfig applies the command's explicitly set flags and the defaults on
// top of a copy of base.
func mergeConfig(cmd *cobra.Command, base *config.Config) (*config.Config, error) {
	cfg := config.Config{}
	if base != nil {
		cfg = *base
	}
	defaults := config.Defaults()

	flags := cmd.Flags()
	root := cmd.Root().PersistentFlags()

	if flagWasSet(flags, root, "city") {
		cfg.City = FlagCity
	}
	if flagWasSet(flags, root, "country") {
		cfg.Country = FlagCountry
	}
	if flagWasSet(flags, root, "latitude") {
		cfg.Latitude = FlagLatitude
	}
	if flagWasSet(flags, root, "longitude") {
		cfg.Longitude = FlagLongitude
	}
	if flagWasSet(flags, root, "timezone") {
		cfg.Timezone = FlagTimezone
	}
	if flagWasSet(flags, root, "method") {
		m, err := prayer.ParseMethod(FlagMethod)
		if err != nil {
			return nil, err
		}
		cfg.Method = &m
	} else if cfg.Method == nil {
		cfg.Method = defaults.Method
	}
	if flagWasSet(flags, root, "madhhab") {
		m, err := prayer.ParseMadhhab(FlagMadhhab)
		if err != nil {
			return nil, err
		}
		cfg.Madhhab = &m
	} else if cfg.Madhhab == nil {
		cfg.Madhhab = defaults.Madhhab
	}
	if flagWasSet(flags, root, "cache-dir") {
		cfg.CacheDir = FlagCacheDir
	}
	if cfg.NotifyBefore == nil {
		cfg.NotifyBefore = defaults.NotifyBefore
	}

	// Time format: CLI flag > config > default ("24h").
	if flagWasSet(flags, root, "time-format") {
		if FlagTimeFormat != "12h" && FlagTimeFormat != "24h" {
			return nil, fmt.Errorf("invalid --time-format %q: must be 12h or 24h", FlagTimeFormat)
		}
		cfg.TimeFormat = FlagTimeFormat
	}
	if cfg.TimeFormat == "" {
		cfg.TimeFormat = defaults.TimeFormat
	}

	return &cfg, nil
}

// flagWasSet checks if a flag was explicitly set on either the local or persistent flag set.
func flagWasSet(local, persistent *pflag.FlagSet, name string) bool {
	if f := local.Lookup(name); f != nil && f.Changed {
		return true
	}
	if f := persistent.Lookup(name); f != nil && f.Changed {
		return true
	}
	return false
}

// goTimeFormat maps the "12h"/"24h" setting to a time layout.
func goTimeFormat(setting string) string {
	if setting == "12h" {
		return "3:04 PM"
	}
	return "15:04"
}
