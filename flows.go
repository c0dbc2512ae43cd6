package returns

import (
	"maps"
	"slices"

	"github.com/etnz/returns/date"
	"github.com/shopspring/decimal"
)

// Flows maps a date to the net external cash flow of that date.
type Flows map[date.Date]decimal.Decimal

// Get returns the flow on day, zero if none.
func (f Flows) Get(day date.Date) decimal.Decimal {
	if v, ok := f[day]; ok {
		return v
	}
	return decZero
}

// add accumulates amount on day.
func (f Flows) add(day date.Date, amount decimal.Decimal) { f[day] = f.Get(day).Add(amount) }

// Total returns the sum of all flows.
func (f Flows) Total() decimal.Decimal {
	total := decZero
	for _, v := range f {
		total = total.Add(v)
	}
	return total
}

// Dates returns the flow dates in chronological order.
func (f Flows) Dates() []date.Date { return slices.SortedFunc(maps.Keys(f), date.Date.Compare) }

// ExternalFlowsByDate sums deposits (positive) and withdrawals (negative) per date.
//
// Other transaction types are internal to the portfolio and ignored.
func ExternalFlowsByDate(txs []Transaction) Flows {
	flows := make(Flows)
	for _, tx := range txs {
		if !tx.IsExternal() {
			continue
		}
		flows.add(tx.Date, tx.ExternalAmount())
	}
	return flows
}

// AlignFlows moves every flow onto one of dates.
//
// A flow on one of dates stays there, otherwise it moves to the first later date, or to
// the last date when there is none. Flows landing on the same date are summed and zero
// flows are dropped. With no flows or no dates, AlignFlows returns a copy of flows.
// The total of the flows is preserved.
func AlignFlows(flows Flows, dates []date.Date) Flows {
	if len(flows) == 0 || len(dates) == 0 {
		return maps.Clone(flows)
	}
	sorted := slices.SortedFunc(slices.Values(dates), date.Date.Compare)
	aligned := make(Flows)
	for _, on := range flows.Dates() {
		amount := flows[on]
		if amount.IsZero() {
			continue
		}
		i, _ := slices.BinarySearchFunc(sorted, on, date.Date.Compare)
		if i == len(sorted) {
			i = len(sorted) - 1
		}
		aligned.add(sorted[i], amount)
	}
	return aligned
}
