package cmd

import (
	"bytes"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/etnz/returns"
	"github.com/etnz/returns/date"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testLedger = `{"id":"d1","type":"DEPOSIT","date":"2024-01-01","amount":10000}
{"id":"b1","type":"BUY","ticker":"SPY","date":"2024-01-01","quantity":100,"amount":10000}
`

const otherPortfolio = `{"id":"o1","portfolio_id":"other","type":"DEPOSIT","date":"2024-01-01","amount":999}
`

const testPrices = `{"date":"2024-01-01","ticker":"SPY","close":100}
{"date":"2024-01-02","ticker":"SPY","close":105}
{"date":"2024-01-31","ticker":"SPY","close":110}
`

// testConfig returns a configuration reading a ledger and prices written in a temporary
// directory, on the daily calendar.
func testConfig(t *testing.T, ledger, prices string) *Config {
	t.Helper()
	dir := t.TempDir()
	cfg := NewDefaultConfig()
	cfg.Data.Ledger = writeFile(t, dir, "transactions.jsonl", ledger)
	cfg.Data.Prices = filepath.Join(dir, "prices.jsonl")
	if prices != "" {
		writeFile(t, dir, "prices.jsonl", prices)
	}
	cfg.Data.Calendar = "daily"
	return cfg
}

func testWorkspace(t *testing.T, cfg *Config) *workspace {
	t.Helper()
	logger, _ := test.NewNullLogger()
	ws, err := newWorkspace(cfg, logger)
	require.NoError(t, err)
	return ws
}

func TestWorkspace(t *testing.T) {
	cfg := testConfig(t, testLedger+otherPortfolio, testPrices)
	ws := testWorkspace(t, cfg)
	assert.Len(t, ws.txs, 3)

	cfg.Data.Portfolio = "other"
	assert.Len(t, testWorkspace(t, cfg).txs, 1)
}

func TestWorkspace_Rows(t *testing.T) {
	ws := testWorkspace(t, testConfig(t, testLedger, testPrices))

	assert.Equal(t, date.MustParse("2024-01-31"), ws.lastDate())
	from, to, err := ws.dateRange("", "")
	require.NoError(t, err)
	assert.Equal(t, date.MustParse("2024-01-01"), from)
	assert.Equal(t, date.MustParse("2024-01-31"), to)

	rows := ws.rows(from, to)
	require.Len(t, rows, 31)
	assert.Equal(t, 0.05, rows[1].Port)
	assert.Equal(t, 0.05, rows[1].Spy100)

	// a narrowed range keeps the returns of the whole history.
	narrow := ws.rows(date.MustParse("2024-01-02"), date.MustParse("2024-01-02"))
	require.Len(t, narrow, 1)
	assert.Equal(t, 0.05, narrow[0].Port)

	assert.InDelta(t, math.Pow(1.1, 365.0/30.0)-1, ws.xirr(rows), 1e-6)
	assert.Equal(t, 0.0, ws.xirr(nil))

	states := ws.states(to)
	require.Len(t, states, 31)
	assert.True(t, states[30].NAV.Equal(returns.D(11000)), "last NAV = %s", states[30].NAV)
}

func TestWorkspace_TradingCalendar(t *testing.T) {
	cfg := testConfig(t, testLedger, testPrices)
	cfg.Data.Calendar = "trading"
	ws := testWorkspace(t, cfg)
	// New Year's Day is not a trading day, nor are the weekends.
	dates := ws.stateDates(date.MustParse("2024-01-07"))
	assert.Equal(t, []date.Date{
		date.MustParse("2024-01-02"),
		date.MustParse("2024-01-03"),
		date.MustParse("2024-01-04"),
		date.MustParse("2024-01-05"),
	}, dates)
}

func TestWorkspace_DateRange(t *testing.T) {
	ws := testWorkspace(t, testConfig(t, testLedger, testPrices))
	tests := []struct {
		name       string
		start, end string
		from, to   string
		wantErr    bool
	}{
		{"default", "", "", "2024-01-01", "2024-01-31", false},
		{"start", "2024-01-15", "", "2024-01-15", "2024-01-31", false},
		{"lenient end", "", "2024-1-20", "2024-01-01", "2024-01-20", false},
		{"invalid start", "yesterday", "", "", "", true},
		{"invalid end", "", "2024-13-01", "", "", true},
		{"reversed", "2024-01-20", "2024-01-10", "", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			from, to, err := ws.dateRange(tt.start, tt.end)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.from, from.String())
			assert.Equal(t, tt.to, to.String())
		})
	}
}

func TestWorkspace_EmptyLedger(t *testing.T) {
	ws := testWorkspace(t, testConfig(t, "", ""))
	_, _, err := ws.dateRange("", "")
	assert.Error(t, err)
	assert.Empty(t, ws.prices, "a missing prices file is an empty book")
}

func TestWorkspace_MissingLedger(t *testing.T) {
	cfg := testConfig(t, "", "")
	cfg.Data.Ledger = filepath.Join(t.TempDir(), "missing.jsonl")
	logger, _ := test.NewNullLogger()
	_, err := newWorkspace(cfg, logger)
	assert.Error(t, err)
}

func TestWorkspace_Interest(t *testing.T) {
	ledger := `{"id":"d1","type":"DEPOSIT","date":"2024-01-01","amount":100000}` + "\n"
	cfg := testConfig(t, ledger, "")
	cfg.Policy.APY = []returns.RawAPYEntry{{From: "2024-01-01", APY: 0.0365}}
	ws := testWorkspace(t, cfg)

	daily := ws.interest(date.MustParse("2024-01-01"), date.MustParse("2024-01-03"), false)
	require.Len(t, daily, 2)
	assert.Equal(t, date.MustParse("2024-01-02"), daily[0].Date)
	for _, tx := range daily {
		assert.True(t, tx.Amount.Equal(returns.D(10)), "%s interest = %s want 10", tx.Date, tx.Amount)
		assert.Equal(t, returns.DailyInterestNote, tx.Note)
	}

	month := ws.interest(date.MustParse("2024-01-01"), date.MustParse("2024-01-31"), false)
	monthly := ws.interest(date.MustParse("2024-01-01"), date.MustParse("2024-01-31"), true)
	require.Len(t, monthly, 1)
	assert.Equal(t, date.MustParse("2024-01-31"), monthly[0].Date)
	assert.Equal(t, returns.MonthlyInterestNote, monthly[0].Note)
	total := returns.D(0)
	for _, tx := range month {
		total = total.Add(tx.Amount)
	}
	assert.True(t, monthly[0].Amount.Equal(total), "monthly = %s want %s", monthly[0].Amount, total)

	// postings are recorded, and not posted twice.
	require.NoError(t, appendTransactions(cfg.Data.Ledger, daily))
	again := testWorkspace(t, cfg)
	assert.Len(t, again.txs, 3)
	assert.Empty(t, again.interest(date.MustParse("2024-01-01"), date.MustParse("2024-01-03"), false))
}

func TestWorkspace_InterestMonthlyTwice(t *testing.T) {
	ledger := `{"id":"d1","type":"DEPOSIT","date":"2024-01-01","amount":100000}` + "\n"
	cfg := testConfig(t, ledger, "")
	cfg.Policy.APY = []returns.RawAPYEntry{{From: "2024-01-01", APY: 0.0365}}
	from, to := date.MustParse("2024-01-01"), date.MustParse("2024-01-31")

	first := testWorkspace(t, cfg).interest(from, to, true)
	require.Len(t, first, 1)
	assert.False(t, first[0].Internal)
	require.NoError(t, appendTransactions(cfg.Data.Ledger, first))

	assert.Empty(t, testWorkspace(t, cfg).interest(from, to, true))
}

func TestWorkspace_StalePrices(t *testing.T) {
	logger, hook := test.NewNullLogger()
	_, err := newWorkspace(testConfig(t, testLedger, testPrices), logger)
	require.NoError(t, err)
	assert.Empty(t, hook.AllEntries())

	ledger := testLedger + `{"id":"d2","type":"DEPOSIT","date":"2024-01-05","amount":100}` + "\n"
	prices := `{"date":"2024-01-02","ticker":"SPY","close":105}` + "\n"
	_, err = newWorkspace(testConfig(t, ledger, prices), logger)
	require.NoError(t, err)
	entry := hook.LastEntry()
	require.NotNil(t, entry)
	assert.Equal(t, logrus.WarnLevel, entry.Level)
	assert.Equal(t, date.MustParse("2024-01-03"), entry.Data["missing_from"])
	assert.Equal(t, 3, entry.Data["trading_days"])
}

func TestWorkspace_WritePolicy(t *testing.T) {
	cfg := testConfig(t, testLedger, "")
	cfg.Policy.Currency = "eur"
	cfg.Policy.APY = []returns.RawAPYEntry{
		{From: "2024-01-01", To: "2024-12-31", APY: 0.02},
		{From: "2024-06-01", APY: 0.03},
	}
	ws := testWorkspace(t, cfg)

	var buf bytes.Buffer
	require.NoError(t, ws.writePolicy(&buf))
	assert.Contains(t, buf.String(), `"currency": "EUR"`)

	// the printout reads back as the same policy.
	cfg.Data.Policy = writeFile(t, t.TempDir(), "policy.json", buf.String())
	var again bytes.Buffer
	require.NoError(t, testWorkspace(t, cfg).writePolicy(&again))
	assert.Equal(t, buf.String(), again.String())
}

func TestFormatLedger(t *testing.T) {
	ledger := `{"type":"buy","ticker":"spy","date":"2024-01-02","quantity":1,"amount":100,"id":"b"}
{"id":"a","type":"DEPOSIT","date":"2024-01-02","amount":1000}
`
	want := `{"id":"a","type":"DEPOSIT","date":"2024-01-02","amount":1000,"currency":"USD"}
{"id":"b","type":"BUY","ticker":"SPY","date":"2024-01-02","quantity":1,"amount":100,"currency":"USD"}
`
	filename := writeFile(t, t.TempDir(), "ledger.jsonl", ledger)
	logger, _ := test.NewNullLogger()

	changed, err := formatLedger(filename, true, logger)
	require.NoError(t, err)
	assert.True(t, changed)
	got, err := os.ReadFile(filename)
	require.NoError(t, err)
	assert.Equal(t, ledger, string(got), "a dry run leaves the ledger untouched")

	changed, err = formatLedger(filename, false, logger)
	require.NoError(t, err)
	assert.True(t, changed)
	got, err = os.ReadFile(filename)
	require.NoError(t, err)
	assert.Equal(t, want, string(got))

	changed, err = formatLedger(filename, false, logger)
	require.NoError(t, err)
	assert.False(t, changed, "a formatted ledger is stable")
}

func TestWriteJSONL(t *testing.T) {
	var buf bytes.Buffer
	rows := []returns.Row{{Date: date.MustParse("2024-01-02"), Performance: returns.Performance{Port: 0.05}}}
	require.NoError(t, writeJSONL(&buf, rows))
	assert.Equal(t, `{"date":"2024-01-02","r_port":0.05,"r_ex_cash":0,"r_bench_blended":0,"r_spy_100":0,"r_cash":0}`+"\n", buf.String())
}

func TestWriteMarkdown(t *testing.T) {
	var buf bytes.Buffer
	writeMarkdown(&buf, "# Title\n", RenderConfig{Style: "raw"})
	assert.Equal(t, "# Title\n", buf.String())

	buf.Reset()
	writeMarkdown(&buf, "# Title\n", RenderConfig{Style: "notty", Width: 80})
	assert.Contains(t, buf.String(), "Title")
}
