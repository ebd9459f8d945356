package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/smokyabdulrahman/salat/internal/display"
	"github.com/smokyabdulrahman/salat/internal/prayer"
)

var flagQueryDays string

func newQueryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "query <prayer>",
		Short: "Query a specific prayer time",
		Long: "Query a specific prayer time for today, or across multiple days with --days.\n\nValid prayer names: " +
			strings.Join(prayerNameList(), ", "),
		Args: cobra.ExactArgs(1),
		RunE: runQuery,
	}

	cmd.Flags().StringVar(&flagQueryDays, "days", "", "Number of days to show (or 'week'/'month')")

	return cmd
}

func prayerNameList() []string {
	names := make([]string, len(prayer.Names))
	for i, n := range prayer.Names {
		names[i] = n.String()
	}
	return names
}

func runQuery(cmd *cobra.Command, args []string) error {
	name, err := prayer.ParseName(args[0])
	if err != nil {
		return fmt.Errorf("unknown prayer %q; valid names: %s", args[0], strings.Join(prayerNameList(), ", "))
	}

	days := 1
	if flagQueryDays != "" {
		if days, err = parseDays(flagQueryDays); err != nil {
			return fmt.Errorf("invalid --days value: %w", err)
		}
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

	out := cmd.OutOrStdout()
	if days == 1 {
		return printQuerySingle(out, s, name, daysList[0])
	}

	if FlagJSON {
		return printQueryJSON(out, s, name, daysList)
	}

	fmt.Fprintln(out)
	fmt.Fprintf(out, "  %s\n", display.Bold(fmt.Sprintf("%s Times, %d Days", name, days)))
	fmt.Fprintln(out)
	fmt.Fprintf(out, "  %s\n", buildLocationStr(s.loc))
	fmt.Fprintln(out)

	tbl := display.NewTable([]string{"Date", name.String()})
	for i, dd := range daysList {
		tbl.AddRow([]string{dd.Date.Format("Mon 02 Jan"), s.clock(dd.Table, name)})
		if !dd.Table.Defined(name) {
			tbl.MuteRow(i)
		}
	}
	tbl.SetHighlightRow(0)

	tbl.WriteTo(out)
	fmt.Fprintln(out)
	return nil
}

func printQuerySingle(out io.Writer, s *session, name prayer.Name, dd dayData) error {
	timeStr := s.clock(dd.Table, name)

	if FlagJSON {
		res := queryJSONSingle{
			Prayer: name.Key(),
			Date:   dd.Table.Date(),
			Hijri:  formatHijriDate(dd.Table),
		}
		if dd.Table.Defined(name) {
			res.Time = &timeStr
		}
		return writeJSON(out, res)
	}

	fmt.Fprintf(out, "%s %s\n", name, timeStr)
	return nil
}

type queryJSONSingle struct {
	Prayer string  `json:"prayer"`
	Time   *string `json:"time"`
	Date   string  `json:"date"`
	Hijri  string  `json:"hijri,omitempty"`
}

type queryJSONMulti struct {
	Location todayJSONLocation `json:"location"`
	Prayer   string            `json:"prayer"`
	Days     []queryJSONDay    `json:"days"`
}

type queryJSONDay struct {
	Date  string  `json:"date"`
	Hijri string  `json:"hijri,omitempty"`
	Time  *string `json:"time"`
}

func printQueryJSON(out io.Writer, s *session, name prayer.Name, daysList []dayData) error {
	res := queryJSONMulti{
		Location: jsonLocation(s),
		Prayer:   name.Key(),
	}

	for _, dd := range daysList {
		res.Days = append(res.Days, queryJSONDay{
			Date:  dd.Table.Date(),
			Hijri: formatHijriDate(dd.Table),
			Time:  jsonTimings(s, dd.Table, []prayer.Name{name})[name.Key()],
		})
	}

	return writeJSON(out, res)
}
