package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/returns/date"
	"github.com/etnz/returns/renderer"
	"github.com/google/subcommands"
)

// summaryCmd holds the flags for the 'summary' subcommand.
type summaryCmd struct {
	start      string
	end        string
	period     string
	highlights bool
}

func (*summaryCmd) Name() string     { return "summary" }
func (*summaryCmd) Synopsis() string { return "display a performance summary" }
func (*summaryCmd) Usage() string {
	return `pfa summary [-start <date>] [-end <date>] [-period <period>] [-highlights=false]

  Compounds the daily returns over the range and displays the cumulative return
  of each series, the cash drag, the money-weighted return and highlights.
  With -period (week, month, quarter, year), a table breaks the range down by
  calendar period.
`
}

func (c *summaryCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.start, "start", "", "First day of the range. Defaults to the first transaction.")
	f.StringVar(&c.end, "end", "", "Last day of the range. Defaults to the last transaction or price.")
	f.StringVar(&c.period, "period", "", "Break the summary down by period (week, month, quarter, year).")
	f.BoolVar(&c.highlights, "highlights", true, "Display the highlights section.")
}

func (c *summaryCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	var period date.Period
	if c.period != "" {
		var err error
		if period, err = date.ParsePeriod(c.period); err != nil {
			fmt.Fprintf(os.Stderr, "Error parsing period: %v\n", err)
			return subcommands.ExitUsageError
		}
	}

	ws, err := openWorkspace()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	from, to, err := ws.dateRange(c.start, c.end)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitUsageError
	}

	rows := ws.rows(from, to)
	if len(rows) == 0 {
		fmt.Fprintf(os.Stderr, "No rows between %s and %s.\n", from, to)
		return subcommands.ExitFailure
	}

	report := renderer.NewReport("Performance Summary", rows, ws.xirr(rows))
	if c.period != "" {
		report.WithPeriods(rows, period)
	}
	ws.printMarkdown(renderer.RenderReport(report, renderer.ReportRenderOptions{
		SkipPeriods:    c.period == "",
		SkipHighlights: !c.highlights,
	}))
	return subcommands.ExitSuccess
}
