package cmd

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/etnz/returns"
	"github.com/google/subcommands"
)

type policyCmd struct{}

func (*policyCmd) Name() string     { return "policy" }
func (*policyCmd) Synopsis() string { return "print the cash policy in effect" }
func (*policyCmd) Usage() string {
	return `pfa policy

  Prints the normalized cash policy as JSON: the currency, the APY timeline
  with overlaps resolved, and the day count. The output is a valid -policy file.
`
}

func (*policyCmd) SetFlags(*flag.FlagSet) {}

func (*policyCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	ws, err := openWorkspace()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	if err := ws.writePolicy(os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "Error printing the cash policy: %v\n", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

func (w *workspace) writePolicy(out io.Writer) error {
	return returns.EncodeCashPolicy(out, w.policy)
}
