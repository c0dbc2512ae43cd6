package returns

import (
	"github.com/etnz/returns/date"
	"github.com/shopspring/decimal"
)

const (
	rowPlaces     = 8
	blendedPlaces = 10
)

// Inputs are the data needed to compute daily return rows.
type Inputs struct {
	States []State // chronological
	// Rates is the legacy cash rate list, used when CashPolicy is nil.
	Rates           []RawRate
	BenchmarkPrices *Series
	Transactions    []Transaction
	CashPolicy      *CashPolicy
}

func (in Inputs) policy() CashPolicy {
	if in.CashPolicy != nil {
		return *in.CashPolicy
	}
	return PolicyFromRates(in.Rates)
}

// seriesSet is the per-date data shared by every row.
type seriesSet struct {
	flows     Flows
	cash      *Series
	benchmark *Series
	all       *Series
}

func prepareSeries(in Inputs) seriesSet {
	dates := StateDates(in.States)
	prices := in.BenchmarkPrices
	if prices == nil {
		prices = new(Series)
	}
	flows := AlignFlows(ExternalFlowsByDate(in.Transactions), dates)
	all, _ := ComputeAllBenchmarkSeries(dates, flows, prices)
	return seriesSet{
		flows:     flows,
		cash:      BuildCashReturnSeries(in.policy(), dates[0], dates[len(dates)-1]),
		benchmark: BuildBenchmarkReturnSeries(prices),
		all:       all,
	}
}

// ComputeDailyReturnRows returns one Row per state.
//
// External flows come from the deposits and withdrawals of the transactions, aligned on
// the state dates. Each row only depends on the previous state and the date's inputs.
func ComputeDailyReturnRows(in Inputs) []Row {
	if len(in.States) == 0 {
		return nil
	}
	set := prepareSeries(in)
	rows := make([]Row, 0, len(in.States))
	var prev *State
	for i := range in.States {
		state := in.States[i]
		rows = append(rows, set.row(prev, state))
		prev = &in.States[i]
	}
	return rows
}

// row computes the returns of state given the previous state, nil on the first day.
func (set seriesSet) row(prev *State, state State) Row {
	flow := set.flows.Get(state.Date)
	port, exCash := rollingReturns(prev, state, flow)
	cash := seriesValue(set.cash, state.Date)
	bench := seriesValue(set.benchmark, state.Date)
	all, ok := set.all.Get(state.Date)
	if !ok {
		all = bench
	}
	blended := blendedReturn(cashWeight(prev), cash, bench)

	return Row{
		Date: state.Date,
		Performance: Performance{
			Port:         Float(port, rowPlaces),
			ExCash:       Float(exCash, rowPlaces),
			BenchBlended: Float(blended, rowPlaces),
			Spy100:       Float(all, rowPlaces),
			Cash:         Float(cash, rowPlaces),
		},
	}
}

func seriesValue(s *Series, on date.Date) decimal.Decimal {
	v, _ := s.Get(on)
	return v
}

func rollingReturns(prev *State, state State, flow decimal.Decimal) (port, exCash decimal.Decimal) {
	if prev == nil {
		return inceptionReturns(state, flow)
	}
	// risk sleeve flows are trades, internal to the portfolio.
	return returnStep(prev.NAV, state.NAV, flow), returnStep(prev.RiskValue, state.RiskValue, decZero)
}

// inceptionReturns measures the first day against the contributed capital.
func inceptionReturns(state State, flow decimal.Decimal) (port, exCash decimal.Decimal) {
	if !flow.IsPositive() || !state.NAV.IsPositive() {
		return decZero, decZero
	}
	capital := flow
	port = ratio(state.NAV.Sub(flow), capital)
	if !state.RiskValue.IsPositive() {
		return port, decZero
	}
	return port, ratio(state.RiskValue.Sub(capital.Sub(flow)), capital)
}

// cashWeight is the start of day cash share of NAV. A zero NAV counts as 1.
//
// On the first day the inception flow is all cash, and with no flow the portfolio is
// considered fully in cash as well.
func cashWeight(prev *State) decimal.Decimal {
	if prev == nil {
		return decOne
	}
	nav := prev.NAV
	if nav.IsZero() {
		nav = decOne
	}
	return prev.Cash.DivRound(nav, divisionPlaces)
}

func blendedReturn(weight, cash, bench decimal.Decimal) decimal.Decimal {
	return weight.Mul(cash).Add(decOne.Sub(weight).Mul(bench)).Round(blendedPlaces)
}
