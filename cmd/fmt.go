package cmd

import (
	"bytes"
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/returns"
	"github.com/google/subcommands"
	log "github.com/sirupsen/logrus"
)

type fmtCmd struct {
	check bool
}

func (*fmtCmd) Name() string { return "fmt" }
func (*fmtCmd) Synopsis() string {
	return "formats the ledger file into a canonical form"
}
func (*fmtCmd) Usage() string {
	return `pfa fmt [-check]

  Reads all transactions of the ledger, sorts them by date, and writes them back
  in a canonical JSONL form. Transactions recorded without an id get a stable
  one. Lines that are not valid transactions are reported and dropped.

  With -check, the ledger is left untouched and the command fails if it is not
  already formatted.
`
}

func (c *fmtCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.check, "check", false, "Only report whether the ledger is formatted.")
}

func (c *fmtCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	logger, err := newLogger(cfg.Log)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	changed, err := formatLedger(cfg.Data.Ledger, c.check, logger)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	switch {
	case c.check && changed:
		fmt.Fprintf(os.Stderr, "Ledger file '%s' is not formatted.\n", cfg.Data.Ledger)
		return subcommands.ExitFailure
	case c.check:
		return subcommands.ExitSuccess
	}
	fmt.Printf("Ledger file '%s' has been formatted.\n", cfg.Data.Ledger)
	return subcommands.ExitSuccess
}

// formatLedger rewrites the ledger in canonical form, unless dryRun. It reports whether
// the canonical form differs from the file content.
func formatLedger(filename string, dryRun bool, logger log.FieldLogger) (bool, error) {
	original, err := os.ReadFile(filename)
	if err != nil {
		return false, fmt.Errorf("error reading ledger file %q: %w", filename, err)
	}
	txs, err := returns.DecodeTransactions(bytes.NewReader(original), returns.DecodeOptions{Log: logger.WithField("file", filename)})
	if err != nil {
		return false, fmt.Errorf("error decoding ledger file %q: %w", filename, err)
	}
	var buf bytes.Buffer
	if err := returns.EncodeTransactions(&buf, txs); err != nil {
		return false, err
	}
	changed := !bytes.Equal(original, buf.Bytes())
	if dryRun || !changed {
		return changed, nil
	}
	if err := os.WriteFile(filename, buf.Bytes(), 0644); err != nil {
		return changed, fmt.Errorf("error writing ledger file %q: %w", filename, err)
	}
	return changed, nil
}
