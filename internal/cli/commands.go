package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/smokyabdulrahman/salat/internal/config"
	"github.com/smokyabdulrahman/salat/internal/display"
	"github.com/smokyabdulrahman/salat/internal/prayer"
)

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list [days]",
		Short: "Show prayer times for multiple days",
		Long:  "Display a grid of prayer times for N days (default: 7).",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(cmd, args, 7)
		},
	}
}

func newWeekCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "week",
		Short: "Show prayer times for the next 7 days",
		Long:  "Alias for 'list 7'. Display a grid of prayer times for 7 days.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(cmd, nil, 7)
		},
	}
}

func newMonthCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "month",
		Short: "Show prayer times for the next 30 days",
		Long:  "Alias for 'list 30'. Display a grid of prayer times for 30 days.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(cmd, nil, 30)
		},
	}
}

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show or modify configuration",
		Long:  "Display current configuration, or use subcommands to modify it.\nWhen run without subcommands, shows the current configuration.",
		RunE:  runConfigShow,
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set a config value",
		Long: fmt.Sprintf("Set a configuration value. Valid keys: %s\n\nExamples:\n  salat config set city Riyadh\n  salat config set country \"Saudi Arabia\"\n  salat config set method Makkah\n  salat config set madhhab hanafi\n  salat config set time_format 12h\n  salat config set prayers Fajr,Dhuhr,Asr,Maghrib,Isha\n  salat config set notify_before 10",
			strings.Join(config.ValidKeys, ", ")),
		Args: cobra.ExactArgs(2),
		RunE: runConfigSet,
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "reset",
		Short: "Reset config to defaults",
		Long:  "Delete the config file and restore all settings to defaults.",
		RunE:  runConfigReset,
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Print config file path",
		RunE:  runConfigPath,
	})

	return cmd
}

// runConfigShow displays the current configuration.
func runConfigShow(cmd *cobra.Command, args []string) error {
	path, err := config.Path()
	if err != nil {
		return err
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "  Configuration (%s)\n\n", path)

	for _, key := range config.ValidKeys {
		val, _ := cfg.Get(key)
		shown := val
		if shown == "" {
			shown = display.Gray("(not set)")
		}
		if key == "method" && cfg.Method != nil {
			shown = fmt.Sprintf("%s (%s)", val, cfg.Method.Params().Description)
		}
		fmt.Fprintf(out, "  %-14s %s\n", key, shown)
	}
	return nil
}

// runConfigSet sets a config key to the given value.
func runConfigSet(cmd *cobra.Command, args []string) error {
	key, value := args[0], args[1]

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	if err := cfg.Set(key, value); err != nil {
		return err
	}

	if err := cfg.Save(); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Set %s = %s\n", key, value)
	return nil
}

// runConfigReset deletes the config file.
func runConfigReset(cmd *cobra.Command, args []string) error {
	if err := config.Reset(); err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), "Configuration reset to defaults.")
	return nil
}

// runConfigPath prints the config file path.
func runConfigPath(cmd *cobra.Command, args []string) error {
	path, err := config.Path()
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), path)
	return nil
}

// formatAngle renders a twilight rule: "18.5°" or "90 min after Maghrib".
func formatAngle(angle, minutes float64) string {
	if minutes > 0 {
		return fmt.Sprintf("%g min after Maghrib", minutes)
	}
	return fmt.Sprintf("%g°", angle)
}

func newMethodsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "methods",
		Short: "List all calculation methods",
		Long:  "Print the table of supported calculation methods with their twilight angles.",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if FlagJSON {
				type methodJSON struct {
					ID          int     `json:"id"`
					Name        string  `json:"name"`
					Description string  `json:"description"`
					FajrAngle   float64 `json:"fajr_angle"`
					IshaAngle   float64 `json:"isha_angle,omitempty"`
					IshaMinutes float64 `json:"isha_minutes,omitempty"`
				}
				var res []methodJSON
				for _, m := range prayer.Methods() {
					p := m.Params()
					res = append(res, methodJSON{int(m), p.Name, p.Description, p.FajrAngle, p.IshaAngle, p.IshaMinutes})
				}
				return writeJSON(out, res)
			}

			fmt.Fprintln(out, "Supported calculation methods:")
			fmt.Fprintln(out)

			tbl := display.NewTable([]string{"ID", "Name", "Description", "Fajr", "Isha"})
			for _, m := range prayer.Methods() {
				p := m.Params()
				tbl.AddRow([]string{
					fmt.Sprintf("%d", int(m)),
					p.Name,
					p.Description,
					formatAngle(p.FajrAngle, 0),
					formatAngle(p.IshaAngle, p.IshaMinutes),
				})
				if m == prayer.DefaultMethod {
					tbl.SetHighlightRow(int(m))
				}
			}
			tbl.WriteTo(out)

			fmt.Fprintln(out)
			fmt.Fprintln(out, "Use --method <name or ID> to select a calculation method.")
			fmt.Fprintf(out, "If omitted, %s is used.\n", prayer.DefaultMethod)
			return nil
		},
	}
}
