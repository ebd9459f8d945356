package cli

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/smokyabdulrahman/salat/internal/display"
	"github.com/smokyabdulrahman/salat/internal/prayer"
)

// dayData holds a single day's computed table for list/query output.
type dayData struct {
	Date  time.Time
	Table prayer.Table
}

// parseDays accepts a positive integer, "week" or "month".
func parseDays(s string) (int, error) {
	switch s {
	case "week":
		return 7, nil
	case "month":
		return 30, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		return 0, fmt.Errorf("invalid number of days: %q (must be a positive integer, 'week', or 'month')", s)
	}
	return n, nil
}

// collectDays computes tables for `days` consecutive days starting at start.
// Days with undefined times are kept; a single warning lists them.
func collectDays(ctx context.Context, s *session, start time.Time, days int) ([]dayData, error) {
	var (
		result  []dayData
		partial []string
	)
	for i := 0; i < days; i++ {
		d := start.AddDate(0, 0, i)
		t, err := s.table(ctx, d)
		if err != nil {
			if _, ok := err.(*prayer.AngleDomainError); !ok {
				return nil, fmt.Errorf("failed to compute %s: %w", d.Format("2006-01-02"), err)
			}
			partial = append(partial, t.Date())
		}
		result = append(result, dayData{Date: d, Table: t})
	}
	if len(partial) > 0 {
		fmt.Fprintf(s.warn, "warning: some times are undefined at this latitude on %d day(s), starting %s (shown as %s)\n",
			len(partial), partial[0], prayer.UndefinedClock)
	}
	return result, nil
}

// runList is the handler for the list subcommand.
func runList(cmd *cobra.Command, args []string, defaultDays int) error {
	days := defaultDays
	if len(args) > 0 {
		n, err := parseDays(args[0])
		if err != nil {
			return err
		}
		days = n
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

	now := s.now()
	daysList, err := collectDays(ctx, s, now, days)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if FlagJSON {
		return printListJSON(out, s, daysList)
	}

	fmt.Fprintln(out)
	fmt.Fprintf(out, "  %s\n", display.Bold(fmt.Sprintf("Prayer Times, %d Days", days)))
	fmt.Fprintln(out)
	fmt.Fprintf(out, "  %s\n", buildLocationStr(s.loc))
	fmt.Fprintln(out)

	headers := []string{"Date"}
	for _, n := range s.names {
		headers = append(headers, n.String())
	}
	tbl := display.NewTable(headers)

	for _, dd := range daysList {
		row := []string{dd.Date.Format("Mon 02 Jan")}
		for _, n := range s.names {
			row = append(row, s.clock(dd.Table, n))
		}
		tbl.AddRow(row)
	}
	// The first row is today.
	tbl.SetHighlightRow(0)

	tbl.WriteTo(out)
	fmt.Fprintln(out)
	return nil
}

// listJSONOutput is the JSON structure for the list command.
type listJSONOutput struct {
	Location todayJSONLocation `json:"location"`
	Method   string            `json:"method"`
	Madhhab  string            `json:"madhhab"`
	Days     []listJSONDay     `json:"days"`
}

type listJSONDay struct {
	Date    string             `json:"date"`
	Hijri   string             `json:"hijri,omitempty"`
	Timings map[string]*string `json:"timings"`
}

func printListJSON(out io.Writer, s *session, daysList []dayData) error {
	res := listJSONOutput{
		Location: jsonLocation(s),
		Method:   s.method.String(),
		Madhhab:  s.madhhab.String(),
	}

	for _, dd := range daysList {
		res.Days = append(res.Days, listJSONDay{
			Date:    dd.Table.Date(),
			Hijri:   formatHijriDate(dd.Table),
			Timings: jsonTimings(s, dd.Table, s.names),
		})
	}

	return writeJSON(out, res)
}
