package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/returns"
	"github.com/etnz/returns/date"
	"github.com/google/subcommands"
	log "github.com/sirupsen/logrus"
)

type interestCmd struct {
	from    string
	date    string
	monthly bool
	dryRun  bool
}

func (*interestCmd) Name() string     { return "interest" }
func (*interestCmd) Synopsis() string { return "post the cash interest to the ledger" }
func (*interestCmd) Usage() string {
	return `pfa interest [-from <date>] [-d <date>] [-monthly] [-dry-run]

  Computes the interest earned by the cash balance under the cash policy and
  appends it to the ledger.

  By default a single daily posting is computed for -d. With -from, every day of
  [from, d] is accrued, each posting earning interest the following days. With
  -monthly, the daily accruals of the range are folded into one posting per
  month, on the policy posting day, and only the monthly postings are recorded.
  A month is posted once its posting day is in the range.

  Interest of a day is earned by the cash held at the end of the previous day.
  Days that already carry interest, and months already posted, are skipped.
`
}

func (c *interestCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.from, "from", "", "First day to accrue. Defaults to -d.")
	f.StringVar(&c.date, "d", "", "Last day to accrue. Defaults to the last transaction or price.")
	f.BoolVar(&c.monthly, "monthly", false, "Fold daily accruals into monthly postings.")
	f.BoolVar(&c.dryRun, "dry-run", false, "Print the postings without writing them.")
}

func (c *interestCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	ws, err := openWorkspace()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	to := ws.lastDate()
	if c.date != "" {
		if to, err = date.Parse(c.date); err != nil {
			fmt.Fprintf(os.Stderr, "Error parsing date: %v\n", err)
			return subcommands.ExitUsageError
		}
	}
	from := to
	if c.from != "" {
		if from, err = date.Parse(c.from); err != nil {
			fmt.Fprintf(os.Stderr, "Error parsing start date: %v\n", err)
			return subcommands.ExitUsageError
		}
	}

	postings := ws.interest(from, to, c.monthly)
	if len(postings) == 0 {
		fmt.Fprintln(os.Stderr, "No interest to post.")
		return subcommands.ExitSuccess
	}

	if c.dryRun {
		if err := returns.EncodeTransactions(os.Stdout, postings); err != nil {
			fmt.Fprintf(os.Stderr, "Error printing postings: %v\n", err)
			return subcommands.ExitFailure
		}
		return subcommands.ExitSuccess
	}
	if err := appendTransactions(ws.cfg.Data.Ledger, postings); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	fmt.Printf("Successfully appended %d interest postings to %s\n", len(postings), ws.cfg.Data.Ledger)
	return subcommands.ExitSuccess
}

// interest returns the interest postings of [from, to].
func (w *workspace) interest(from, to date.Date, monthly bool) []returns.Transaction {
	portfolio := w.cfg.Data.Portfolio
	var postings []returns.Transaction
	if monthly {
		postings = returns.AccrueMonthlyInterest(portfolio, from, to, w.txs, w.policy, w.cfg.Policy.PostingDay)
	} else {
		postings = returns.AccrueInterest(portfolio, from, to, w.txs, w.policy)
	}
	w.log.WithFields(log.Fields{"from": from, "to": to, "monthly": monthly, "postings": len(postings)}).Info("interest accrued")
	return postings
}
