package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"slices"

	"github.com/etnz/returns"
	"github.com/etnz/returns/renderer"
	"github.com/google/subcommands"
)

type statesCmd struct {
	start string
	end   string
}

func (*statesCmd) Name() string     { return "states" }
func (*statesCmd) Synopsis() string { return "display the daily portfolio states" }
func (*statesCmd) Usage() string {
	return `pfa states [-start <date>] [-end <date>]

  Displays the NAV, cash, risk sleeve value and cash weight of the portfolio
  at the end of every day of the range.
`
}

func (c *statesCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.start, "start", "", "First day of the range. Defaults to the first transaction.")
	f.StringVar(&c.end, "end", "", "Last day of the range. Defaults to the last transaction or price.")
}

func (c *statesCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
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

	states := slices.DeleteFunc(ws.states(to), func(s returns.State) bool { return s.Date.Before(from) })
	ws.printMarkdown(renderer.RenderStates(renderer.NewStates(states, ws.policy.Currency)))
	return subcommands.ExitSuccess
}
