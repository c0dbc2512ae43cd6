package returns

import (
	"github.com/etnz/returns/date"
	"github.com/shopspring/decimal"
)

// BuildBenchmarkReturnSeries returns the day over day simple return of prices.
//
// The first observation has a zero return, as does any observation following a non
// positive price.
func BuildBenchmarkReturnSeries(prices *Series) *Series {
	returns := new(Series)
	first := true
	prev := decZero
	for on, price := range prices.Values() {
		switch {
		case first:
			returns.Append(on, decZero)
			first = false
		default:
			returns.Append(on, priceReturn(prev, price))
		}
		prev = price
	}
	return returns
}

// ComputeAllBenchmarkSeries simulates a portfolio fully invested in the benchmark that
// receives the same external flows as the real one.
//
// For each date it returns the synthetic return, excluding the date's flow, and the
// synthetic NAV after the flow. The NAV is tracked in whole cents.
//
// A date without a price has a zero return and carries the NAV forward. The first priced
// date seeds the NAV with its flow and has a zero return. Flows dated before the first
// price are not invested. The return is zero while the synthetic NAV is not positive, and
// a zero previous price carries the NAV unchanged.
func ComputeAllBenchmarkSeries(dates []date.Date, flows Flows, prices *Series) (returns, nav *Series) {
	returns, nav = new(Series), new(Series)
	var (
		seeded    bool
		prevPrice = decZero
		navCents  int64
	)
	for _, on := range dates {
		price, ok := prices.Get(on)
		switch {
		case !ok:
			returns.Append(on, decZero)
		case !seeded:
			navCents = ToCents(flows.Get(on))
			returns.Append(on, decZero)
			seeded = true
		default:
			prevNAV := FromCents(navCents)
			before := navCents
			if !prevPrice.IsZero() {
				before = ToCents(prevNAV.Mul(price).DivRound(prevPrice, divisionPlaces))
			}
			returns.Append(on, returnStep(prevNAV, FromCents(before), decZero))
			navCents = before + ToCents(flows.Get(on))
		}
		if ok {
			prevPrice = price
		}
		nav.Append(on, FromCents(navCents))
	}
	return returns, nav
}

// priceReturn is price/prev - 1, zero when prev is not positive.
func priceReturn(prev, price decimal.Decimal) decimal.Decimal {
	if !prev.IsPositive() {
		return decZero
	}
	return ratio(price, prev).Sub(decOne)
}
