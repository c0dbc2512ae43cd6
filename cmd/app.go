// Package cmd implements the pfa command-line application.
package cmd

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"os"
	"slices"

	"github.com/etnz/returns"
	"github.com/etnz/returns/date"
	"github.com/google/subcommands"
	log "github.com/sirupsen/logrus"
)

// Register the subcommands.
// A main package will call Register() to allow subcommands, and Execute() on the user-selected one.
func Register(c *subcommands.Commander) {
	c.Register(&rowsCmd{}, "report")
	c.Register(&summaryCmd{}, "report")
	c.Register(&xirrCmd{}, "report")
	c.Register(&statesCmd{}, "report")
	c.Register(&chartCmd{}, "report")

	c.Register(&interestCmd{}, "ledger")
	c.Register(&policyCmd{}, "ledger")
	c.Register(&fmtCmd{}, "ledger")

	c.Register(&topicCmd{}, "help")
}

// as a CLI application, it has a very short lived lifecycle, so it is ok to use global variables.

var (
	configFile = flag.String("config", "pfa.toml", "Path to the TOML configuration file")
	ledgerFile = flag.String("ledger", "", "Path to the ledger file (JSONL), overrides the configuration")
	pricesFile = flag.String("prices", "", "Path to the prices file, overrides the configuration")
	policyFile = flag.String("policy", "", "Path to a JSON cash policy, overrides the configuration")
	benchmark  = flag.String("benchmark", "", "Benchmark ticker, overrides the configuration")
)

// loadConfig loads the configuration file and applies the global flags.
func loadConfig() (*Config, error) {
	cfg, err := LoadConfig(*configFile)
	if err != nil {
		return nil, err
	}
	if *ledgerFile != "" {
		cfg.Data.Ledger = *ledgerFile
	}
	if *pricesFile != "" {
		cfg.Data.Prices = *pricesFile
	}
	if *policyFile != "" {
		cfg.Data.Policy = *policyFile
	}
	if *benchmark != "" {
		cfg.Data.Benchmark = *benchmark
	}
	return cfg, nil
}

// workspace is the configuration and data shared by the commands.
type workspace struct {
	cfg    *Config
	log    log.FieldLogger
	txs    []returns.Transaction
	prices returns.PriceBook
	policy returns.CashPolicy
}

// openWorkspace loads the configuration, the ledger, the prices and the cash policy.
func openWorkspace() (*workspace, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	logger, err := newLogger(cfg.Log)
	if err != nil {
		return nil, err
	}
	return newWorkspace(cfg, logger)
}

func newWorkspace(cfg *Config, logger log.FieldLogger) (*workspace, error) {
	w := &workspace{cfg: cfg, log: logger}

	txs, err := decodeLedgerFile(cfg.Data.Ledger, logger)
	if err != nil {
		return nil, err
	}
	w.txs = returns.PortfolioTransactions(txs, cfg.Data.Portfolio)

	w.prices, err = decodePricesFile(cfg.Data, logger)
	if err != nil {
		return nil, err
	}
	w.policy, err = cfg.CashPolicy()
	if err != nil {
		return nil, err
	}
	logger.WithFields(log.Fields{
		"transactions": len(w.txs),
		"tickers":      w.prices.Tickers(),
		"currency":     w.policy.Currency,
	}).Debug("workspace loaded")
	w.checkPrices()
	return w, nil
}

// checkPrices warns when the benchmark closes stop trading days before the last
// transaction. Returns on the missing days hold the last close.
func (w *workspace) checkPrices() {
	if len(w.txs) == 0 {
		return
	}
	latest, _ := w.prices.Prices(w.cfg.Data.Benchmark).Latest()
	if latest.IsZero() {
		return
	}
	last := w.txs[len(w.txs)-1].Date
	if age := date.TradingDayAge(latest, last); age > 0 {
		w.log.WithFields(log.Fields{
			"benchmark":    w.cfg.Data.Benchmark,
			"missing_from": date.NextTradingDay(latest),
			"trading_days": age,
		}).Warn("benchmark prices end before the ledger")
	}
}

// decodeLedgerFile reads a JSONL ledger.
func decodeLedgerFile(filename string, logger log.FieldLogger) ([]returns.Transaction, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("error opening ledger file %q: %w", filename, err)
	}
	defer f.Close()
	txs, err := returns.DecodeTransactions(f, returns.DecodeOptions{Log: logger.WithField("file", filename)})
	if err != nil {
		return nil, fmt.Errorf("error decoding ledger file %q: %w", filename, err)
	}
	return txs, nil
}

// decodePricesFile reads the prices. A missing prices file yields an empty book.
func decodePricesFile(cfg DataConfig, logger log.FieldLogger) (returns.PriceBook, error) {
	f, err := os.Open(cfg.Prices)
	if errors.Is(err, fs.ErrNotExist) {
		logger.WithField("file", cfg.Prices).Warn("prices file does not exist, every price is missing")
		return returns.NewPriceBook(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("error opening prices file %q: %w", cfg.Prices, err)
	}
	defer f.Close()
	prices, err := returns.DecodePrices(f, returns.DecodeOptions{
		Log:    logger.WithField("file", cfg.Prices),
		Path:   cfg.PricesPath,
		Ticker: cfg.Benchmark,
	})
	if err != nil {
		return nil, fmt.Errorf("error decoding prices file %q: %w", cfg.Prices, err)
	}
	return prices, nil
}

// printMarkdown renders md on stdout.
func (w *workspace) printMarkdown(md string) { writeMarkdown(os.Stdout, md, w.cfg.Render) }

// lastDate is the latest date of the ledger and the benchmark prices.
func (w *workspace) lastDate() date.Date {
	var last date.Date
	if len(w.txs) > 0 {
		last = w.txs[len(w.txs)-1].Date
	}
	if on, _ := w.prices.Prices(w.cfg.Data.Benchmark).Latest(); on.After(last) {
		last = on
	}
	return last
}

// dateRange parses the optional start and end flags. The range defaults to the whole
// history.
func (w *workspace) dateRange(start, end string) (from, to date.Date, err error) {
	if len(w.txs) == 0 {
		return from, to, errors.New("the ledger is empty")
	}
	from, to = w.txs[0].Date, w.lastDate()
	if start != "" {
		if from, err = date.Parse(start); err != nil {
			return from, to, fmt.Errorf("error parsing start date: %w", err)
		}
	}
	if end != "" {
		if to, err = date.Parse(end); err != nil {
			return from, to, fmt.Errorf("error parsing end date: %w", err)
		}
	}
	if to.Before(from) {
		return from, to, fmt.Errorf("end date %s is before start date %s", to, from)
	}
	return from, to, nil
}

// stateDates is the date axis from the first transaction up to to.
func (w *workspace) stateDates(to date.Date) []date.Date {
	if len(w.txs) == 0 {
		return nil
	}
	from := w.txs[0].Date
	if w.cfg.Data.Calendar == "daily" {
		return slices.Collect(date.Days(from, to))
	}
	return date.TradingDays(from, to)
}

// states returns the daily states from the first transaction up to to.
func (w *workspace) states(to date.Date) []returns.State {
	return returns.ComputeDailyStates(w.txs, w.prices, w.stateDates(to))
}

// rows returns the daily return rows in [from, to]. Returns are computed over the whole
// history so that the first row of the range is not an inception row.
func (w *workspace) rows(from, to date.Date) []returns.Row {
	states := w.states(to)
	all := returns.ComputeDailyReturnRows(returns.Inputs{
		States:          states,
		BenchmarkPrices: w.prices.Prices(w.cfg.Data.Benchmark),
		Transactions:    w.txs,
		CashPolicy:      &w.policy,
	})
	rows := slices.DeleteFunc(all, func(r returns.Row) bool { return r.Date.Before(from) })
	w.log.WithFields(log.Fields{"from": from, "to": to, "rows": len(rows)}).Info("rows computed")
	return rows
}

// xirr returns the money-weighted return over the rows date range.
func (w *workspace) xirr(rows []returns.Row) float64 {
	if len(rows) == 0 {
		return 0
	}
	from, to := rows[0].Date, rows[len(rows)-1].Date
	return returns.MoneyWeightedReturn(returns.MWRInputs{
		Transactions: w.txs,
		NAVRows:      returns.NAVPoints(w.states(to)),
		Start:        from,
		End:          to,
	})
}

// appendTransactions appends txs to the ledger file.
func appendTransactions(filename string, txs []returns.Transaction) error {
	f, err := os.OpenFile(filename, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("error opening ledger file %q: %w", filename, err)
	}
	defer f.Close()
	if err := returns.EncodeTransactions(f, txs); err != nil {
		return fmt.Errorf("error writing to ledger file %q: %w", filename, err)
	}
	return nil
}

// writeJSONL writes each value as a JSON line.
func writeJSONL[T any](w io.Writer, values []T) error {
	for _, v := range values {
		line, err := json.Marshal(v)
		if err != nil {
			return err
		}
		if _, err := fmt.Fprintf(w, "%s\n", line); err != nil {
			return err
		}
	}
	return nil
}
