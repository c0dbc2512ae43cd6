package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/returns"
	"github.com/google/subcommands"
)

type xirrCmd struct {
	start string
	end   string
}

func (*xirrCmd) Name() string     { return "xirr" }
func (*xirrCmd) Synopsis() string { return "display the money-weighted return over a range" }
func (*xirrCmd) Usage() string {
	return `pfa xirr [-start <date>] [-end <date>]

  Computes the annualized money-weighted return (XIRR) of the portfolio: the
  capital invested at start, the deposits and withdrawals of the range, and the
  value at end.
`
}

func (c *xirrCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.start, "start", "", "First day of the range. Defaults to the first transaction.")
	f.StringVar(&c.end, "end", "", "Last day of the range. Defaults to the last transaction or price.")
}

func (c *xirrCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
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
	fmt.Printf("%s to %s: %s\n", from, to, returns.AsPercent(ws.xirr(rows)).SignedString())
	return subcommands.ExitSuccess
}
