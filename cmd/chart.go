package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/returns/renderer"
	"github.com/google/subcommands"
)

type chartCmd struct {
	start  string
	end    string
	output string
}

func (*chartCmd) Name() string     { return "chart" }
func (*chartCmd) Synopsis() string { return "draw the cumulative returns as a PNG chart" }
func (*chartCmd) Usage() string {
	return `pfa chart [-start <date>] [-end <date>] [-o <file.png>]

  Draws the cumulative return of the portfolio, its risk sleeve, the blended
  benchmark and the 100% benchmark over the range.
`
}

func (c *chartCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.start, "start", "", "First day of the range. Defaults to the first transaction.")
	f.StringVar(&c.end, "end", "", "Last day of the range. Defaults to the last transaction or price.")
	f.StringVar(&c.output, "o", "returns.png", "Output PNG file.")
}

func (c *chartCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
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

	out, err := os.Create(c.output)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating %q: %v\n", c.output, err)
		return subcommands.ExitFailure
	}
	defer out.Close()

	if err := renderer.CumulativeChart(ws.rows(from, to), out); err != nil {
		fmt.Fprintf(os.Stderr, "Error drawing chart: %v\n", err)
		return subcommands.ExitFailure
	}
	ws.log.WithField("file", c.output).Info("chart written")
	return subcommands.ExitSuccess
}
