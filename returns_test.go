package returns

import (
	"testing"

	"github.com/etnz/returns/date"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// spyScenario deposits 10000 and buys 100 SPY at 100 on 2024-01-01. SPY closes at 105 the
// next day.
func spyScenario() Inputs {
	txs := []Transaction{
		deposit("2024-01-01", 10000),
		{ID: "buy", Type: Buy, Ticker: "SPY", Date: date.MustParse("2024-01-01"), Quantity: Q(100), Amount: D(10000)},
	}
	prices := NewPriceBook()
	prices.Add("SPY", date.MustParse("2024-01-01"), D(100))
	prices.Add("SPY", date.MustParse("2024-01-02"), D(105))
	policy := policyAt("USD", 0.0365)
	return Inputs{
		States:          ComputeDailyStates(txs, prices, days("2024-01-01", "2024-01-02")),
		BenchmarkPrices: prices.Prices("SPY"),
		Transactions:    txs,
		CashPolicy:      &policy,
	}
}

func TestComputeDailyReturnRows(t *testing.T) {
	rows := ComputeDailyReturnRows(spyScenario())
	require.Len(t, rows, 2)

	want := []Row{
		{Date: date.MustParse("2024-01-01"), Performance: Performance{Port: 0, ExCash: 1, BenchBlended: 0.0001, Spy100: 0, Cash: 0.0001}},
		{Date: date.MustParse("2024-01-02"), Performance: Performance{Port: 0.05, ExCash: 0.05, BenchBlended: 0.05, Spy100: 0.05, Cash: 0.0001}},
	}
	for i := range want {
		assert.Equal(t, want[i], rows[i], "row %d", i)
	}
}

func TestComputeDailyReturnRows_StatesGiven(t *testing.T) {
	prices := NewPriceBook()
	prices.Add("SPY", date.MustParse("2024-01-01"), D(100))
	prices.Add("SPY", date.MustParse("2024-01-02"), D(105))
	policy := policyAt("USD", 0.0365)
	rows := ComputeDailyReturnRows(Inputs{
		States: []State{
			{Date: date.MustParse("2024-01-01"), NAV: D(1000), Cash: D(1000), RiskValue: D(0)},
			{Date: date.MustParse("2024-01-02"), NAV: D(1050), Cash: D(500), RiskValue: D(550)},
		},
		BenchmarkPrices: prices.Prices("SPY"),
		Transactions:    []Transaction{deposit("2024-01-01", 1000)},
		CashPolicy:      &policy,
	})
	require.Len(t, rows, 2)
	assert.Equal(t, 0.0, rows[0].Port)
	assert.Equal(t, 0.05, rows[1].Port)
	assert.Equal(t, 0.05, rows[1].Spy100)
	assert.Equal(t, 0.0001, rows[1].Cash)
	// fully in cash at the start of the day.
	assert.Equal(t, 0.0001, rows[1].BenchBlended)
}

func TestComputeDailyReturnRows_CashOnlyWithInterest(t *testing.T) {
	policy := policyAt("USD", 0.0365)
	txs := []Transaction{deposit("2024-01-01", 100000), deposit("2024-01-03", 100000)}
	txs = append(txs, AccrueInterest("", date.MustParse("2024-01-01"), date.MustParse("2024-01-04"), txs, policy)...)
	rows := ComputeDailyReturnRows(Inputs{
		States:       ComputeDailyStates(txs, NewPriceBook(), days("2024-01-01", "2024-01-02", "2024-01-03", "2024-01-04")),
		Transactions: txs,
		CashPolicy:   &policy,
	})
	require.Len(t, rows, 4)
	for _, row := range rows[1:] {
		assert.InDelta(t, row.Cash, row.Port, 1e-6, "%s r_port = %v r_cash = %v", row.Date, row.Port, row.Cash)
	}
}

func TestComputeDailyReturnRows_Deterministic(t *testing.T) {
	assert.Equal(t, ComputeDailyReturnRows(spyScenario()), ComputeDailyReturnRows(spyScenario()))
}

func TestComputeDailyReturnRows_Inception(t *testing.T) {
	tests := []struct {
		name   string
		state  State
		flow   float64
		port   float64
		exCash float64
	}{
		{"gain on capital", State{NAV: D(10200), Cash: D(200), RiskValue: D(10000)}, 10000, 0.02, 1},
		{"all cash", State{NAV: D(10000), Cash: D(10000)}, 10000, 0, 0},
		{"no deposit", State{NAV: D(500), Cash: D(500)}, 0, 0, 0},
		{"withdrawal", State{NAV: D(500), Cash: D(500)}, -100, 0, 0},
		{"empty", State{}, 1000, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.state.Date = date.MustParse("2024-01-02")
			var txs []Transaction
			switch {
			case tt.flow > 0:
				txs = append(txs, deposit("2024-01-02", tt.flow))
			case tt.flow < 0:
				txs = append(txs, withdrawal("2024-01-02", -tt.flow))
			}
			rows := ComputeDailyReturnRows(Inputs{States: []State{tt.state}, Transactions: txs})
			require.Len(t, rows, 1)
			if got := rows[0].Port; got != tt.port {
				t.Errorf("r_port = %v want %v", got, tt.port)
			}
			if got := rows[0].ExCash; got != tt.exCash {
				t.Errorf("r_ex_cash = %v want %v", got, tt.exCash)
			}
		})
	}
}

func TestComputeDailyReturnRows_Rolling(t *testing.T) {
	states := []State{
		{Date: date.MustParse("2024-01-05"), NAV: D(1000), Cash: D(500), RiskValue: D(500)},
		// 500 deposited over the weekend, risk sleeve up 10%
		{Date: date.MustParse("2024-01-08"), NAV: D(1550), Cash: D(1000), RiskValue: D(550)},
		{Date: date.MustParse("2024-01-09"), NAV: D(0), Cash: D(0), RiskValue: D(0)},
		{Date: date.MustParse("2024-01-10"), NAV: D(100), Cash: D(100), RiskValue: D(0)},
	}
	txs := []Transaction{deposit("2024-01-06", 500)}
	benchmark := seriesOf("2024-01-05", 100.0, "2024-01-08", 102.0)
	rows := ComputeDailyReturnRows(Inputs{States: states, Transactions: txs, BenchmarkPrices: benchmark})
	require.Len(t, rows, 4)

	assert.Equal(t, 0.05, rows[1].Port)
	assert.Equal(t, 0.1, rows[1].ExCash)
	// half cash at the start of the day, no cash policy.
	assert.Equal(t, 0.01, rows[1].BenchBlended)
	// the all-benchmark portfolio starts empty, the weekend deposit lands on 2024-01-08.
	assert.Equal(t, 0.0, rows[1].Spy100)
	assert.Equal(t, -1.0, rows[2].Port)
	// after a zero NAV every return is zero.
	assert.Equal(t, Row{Date: states[3].Date}, rows[3])
}

func TestComputeDailyReturnRows_LegacyRates(t *testing.T) {
	states := []State{{Date: date.MustParse("2024-01-02"), NAV: D(100), Cash: D(100)}}
	rows := ComputeDailyReturnRows(Inputs{
		States: states,
		Rates:  []RawRate{{EffectiveDate: "2024-01-01", APY: 0.0365}},
	})
	require.Len(t, rows, 1)
	assert.Equal(t, 0.0001, rows[0].Cash)
	assert.Equal(t, 0.0001, rows[0].BenchBlended)
}

func TestComputeDailyReturnRows_Empty(t *testing.T) {
	if rows := ComputeDailyReturnRows(Inputs{}); rows != nil {
		t.Errorf("ComputeDailyReturnRows(empty) = %v want nil", rows)
	}
}
