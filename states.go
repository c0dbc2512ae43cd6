package returns

import (
	"maps"
	"slices"
	"strings"

	"github.com/etnz/returns/date"
	"github.com/shopspring/decimal"
)

// statePlaces is the precision of state values.
const statePlaces = 6

// PriceBook holds daily closing prices per ticker.
type PriceBook map[string]*Series

// NewPriceBook returns an empty PriceBook.
func NewPriceBook() PriceBook { return make(PriceBook) }

func normalizeTicker(ticker string) string { return strings.ToUpper(strings.TrimSpace(ticker)) }

// Add records the close of ticker on day. A later close for the same day replaces it.
func (b PriceBook) Add(ticker string, day date.Date, price decimal.Decimal) {
	ticker = normalizeTicker(ticker)
	s, ok := b[ticker]
	if !ok {
		s = new(Series)
		b[ticker] = s
	}
	s.Append(day, price)
}

// Prices returns the closes of ticker, never nil.
func (b PriceBook) Prices(ticker string) *Series {
	if s, ok := b[normalizeTicker(ticker)]; ok {
		return s
	}
	return new(Series)
}

// PriceAsOf returns the last close of ticker on or before day.
func (b PriceBook) PriceAsOf(ticker string, day date.Date) (decimal.Decimal, bool) {
	return b.Prices(ticker).ValueAsOf(day)
}

// Tickers returns the tickers in the book, sorted.
func (b PriceBook) Tickers() []string { return slices.Sorted(maps.Keys(b)) }

// State is the portfolio at the end of a day.
type State struct {
	Date      date.Date
	NAV       decimal.Decimal // Cash + RiskValue
	Cash      decimal.Decimal
	RiskValue decimal.Decimal // market value of the holdings
	Holdings  map[string]Quantity
}

// ComputeDailyStates folds the ledger into one State per date.
//
// Transactions are applied in SortTransactions order up to and including each date.
// Holdings are valued at the last known close, missing prices count as zero.
func ComputeDailyStates(txs []Transaction, prices PriceBook, dates []date.Date) []State {
	sorted := SortTransactions(txs)
	states := make([]State, 0, len(dates))
	cash := decZero
	holdings := make(map[string]Quantity)
	next := 0
	for _, on := range dates {
		for ; next < len(sorted) && !sorted[next].Date.After(on); next++ {
			tx := sorted[next]
			cash = cash.Add(tx.CashAmount())
			if tx.holds() {
				ticker := normalizeTicker(tx.Ticker)
				holdings[ticker] = holdings[ticker].Add(tx.Quantity)
			}
		}
		risk := decZero
		for ticker, qty := range holdings {
			if price, ok := prices.PriceAsOf(ticker, on); ok {
				risk = risk.Add(qty.Value(price))
			}
		}
		risk = risk.Round(statePlaces)
		states = append(states, State{
			Date:      on,
			NAV:       cash.Add(risk).Round(statePlaces),
			Cash:      cash,
			RiskValue: risk,
			Holdings:  maps.Clone(holdings),
		})
	}
	return states
}

// Weights returns the cash and risk shares of the state NAV, both zero when NAV is zero.
func Weights(s State) (cash, risk decimal.Decimal) {
	if s.NAV.IsZero() {
		return decZero, decZero
	}
	return s.Cash.DivRound(s.NAV, divisionPlaces), s.RiskValue.DivRound(s.NAV, divisionPlaces)
}

// StateDates returns the dates of states.
func StateDates(states []State) []date.Date {
	dates := make([]date.Date, len(states))
	for i, s := range states {
		dates[i] = s.Date
	}
	return dates
}
