package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/returns/renderer"
	"github.com/google/subcommands"
)

type rowsCmd struct {
	start string
	end   string
	json  bool
}

func (*rowsCmd) Name() string     { return "rows" }
func (*rowsCmd) Synopsis() string { return "display the daily return rows" }
func (*rowsCmd) Usage() string {
	return `pfa rows [-start <date>] [-end <date>] [-json]

  Displays, for every day of the range, the return of the portfolio, of its
  risk sleeve, of the blended benchmark, of the 100% benchmark and of cash.
  With -json, rows are printed as JSON lines.
`
}

func (c *rowsCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.start, "start", "", "First day of the range. Defaults to the first transaction.")
	f.StringVar(&c.end, "end", "", "Last day of the range. Defaults to the last transaction or price.")
	f.BoolVar(&c.json, "json", false, "Print rows as JSON lines.")
}

func (c *rowsCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
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
	if c.json {
		if err := writeJSONL(os.Stdout, rows); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing rows: %v\n", err)
			return subcommands.ExitFailure
		}
		return subcommands.ExitSuccess
	}

	ws.printMarkdown(renderer.RenderRows(&renderer.Rows{Title: "Daily Returns", Rows: rows}))
	return subcommands.ExitSuccess
}
