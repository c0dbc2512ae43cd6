package returns

import (
	"math"
	"slices"

	"github.com/etnz/returns/date"
	"github.com/shopspring/decimal"
)

const (
	xirrPlaces      = 12
	maxBracketSteps = 128
	maxBisections   = 100
	// minRate is the rate below which the NPV is considered infinite.
	minRate = -0.999999
	// lowestBracket is the lowest rate the bracket can expand to.
	lowestBracket = -0.9999
)

var (
	xirrTolerance = decimal.New(1, -7)
	daysPerYear   = decimal.NewFromInt(365)
)

// CashFlow is a dated amount. Money going into the investment is negative, money coming
// out is positive.
type CashFlow struct {
	Date   date.Date
	Amount decimal.Decimal
}

// timedFlow is a flow with its distance in years (ACT/365) to the first flow.
type timedFlow struct {
	years  decimal.Decimal
	amount decimal.Decimal
}

// npvValue is a net present value, possibly +∞.
type npvValue struct {
	value    decimal.Decimal
	infinite bool
}

func (v npvValue) sign() int {
	if v.infinite {
		return 1
	}
	return v.value.Sign()
}

// npv discounts flows at rate.
func npv(flows []timedFlow, rate float64) npvValue {
	if rate <= minRate {
		return npvValue{infinite: true}
	}
	growth := decOne.Add(decimal.NewFromFloat(rate))
	total := decZero
	for _, f := range flows {
		total = total.Add(f.amount.Mul(powDecimal(growth, f.years.Neg())))
	}
	return npvValue{value: total}
}

// bracket is a rate interval and the NPV at both ends.
type bracket struct {
	low, high       float64
	npvLow, npvHigh npvValue
}

func (b bracket) sameSign() bool { return b.npvLow.sign()*b.npvHigh.sign() > 0 }

// widen pushes the bracket towards a sign change: up when both NPVs are positive, down
// when both are negative. ok is false when it cannot move anymore.
func (b bracket) widen(flows []timedFlow) (bracket, bool) {
	if b.npvLow.sign() > 0 {
		b.high++
		b.npvHigh = npv(flows, b.high)
		return b, true
	}
	low := math.Max(lowestBracket, b.low-0.5)
	if low == b.low {
		return b, false
	}
	b.low = low
	b.npvLow = npv(flows, low)
	return b, true
}

// halve keeps the half of the bracket containing the sign change.
func (b bracket) halve(mid float64, npvMid npvValue) bracket {
	if b.npvLow.sign()*npvMid.sign() < 0 {
		b.high, b.npvHigh = mid, npvMid
	} else {
		b.low, b.npvLow = mid, npvMid
	}
	return b
}

// XIRR returns the annual rate that sets the net present value of flows to zero.
//
// Zero flows are ignored. It returns zero when fewer than two flows remain, when the flows
// do not include both signs, or when no sign change of the NPV is found.
// The result is rounded to 12 places.
func XIRR(flows []CashFlow) decimal.Decimal {
	timed, ok := timeFlows(flows)
	if !ok {
		return decZero
	}

	b := bracket{low: -0.999, high: 0.5}
	b.npvLow, b.npvHigh = npv(timed, b.low), npv(timed, b.high)
	for i := 0; i < maxBracketSteps && b.sameSign(); i++ {
		next, moved := b.widen(timed)
		if !moved {
			break
		}
		b = next
	}

	switch {
	case b.npvLow.sign() == 0:
		return D(b.low).Round(xirrPlaces)
	case b.npvHigh.sign() == 0:
		return D(b.high).Round(xirrPlaces)
	case b.sameSign():
		return decZero
	}

	rate := (b.low + b.high) / 2
	for i := 0; i < maxBisections; i++ {
		rate = (b.low + b.high) / 2
		v := npv(timed, rate)
		if !v.infinite && v.value.Abs().LessThanOrEqual(xirrTolerance) {
			break
		}
		b = b.halve(rate, v)
	}
	return D(rate).Round(xirrPlaces)
}

// timeFlows drops zero flows, sorts the rest by date and measures each date in years from
// the first one. ok is false when the flows cannot have a rate of return.
func timeFlows(flows []CashFlow) ([]timedFlow, bool) {
	kept := slices.DeleteFunc(slices.Clone(flows), func(f CashFlow) bool { return f.Amount.IsZero() })
	if len(kept) < 2 {
		return nil, false
	}
	slices.SortStableFunc(kept, func(a, b CashFlow) int { return a.Date.Compare(b.Date) })

	var positive, negative bool
	first := kept[0].Date
	timed := make([]timedFlow, len(kept))
	for i, f := range kept {
		positive = positive || f.Amount.IsPositive()
		negative = negative || f.Amount.IsNegative()
		days := decimal.NewFromInt(int64(f.Date.Sub(first)))
		timed[i] = timedFlow{years: days.DivRound(daysPerYear, divisionPlaces), amount: f.Amount}
	}
	return timed, positive && negative
}

// NAVPoint is the portfolio NAV at the end of a day.
type NAVPoint struct {
	Date date.Date
	NAV  decimal.Decimal
}

// NAVPoints extracts the NAV of each state.
func NAVPoints(states []State) []NAVPoint {
	points := make([]NAVPoint, len(states))
	for i, s := range states {
		points[i] = NAVPoint{Date: s.Date, NAV: s.NAV}
	}
	return points
}

// MWRInputs are the data needed by MoneyWeightedReturn.
type MWRInputs struct {
	Transactions []Transaction
	NAVRows      []NAVPoint
	Start, End   date.Date
}

// MoneyWeightedFlows returns the cash flows of an investor holding the portfolio over
// [Start, End]: the capital already invested at Start (NAV less the day's external flow)
// goes in at Start, external flows in the range are mirrored, and the NAV at End comes
// out at End.
func MoneyWeightedFlows(in MWRInputs) []CashFlow {
	if len(in.NAVRows) == 0 || in.Start.IsZero() || in.End.IsZero() {
		return nil
	}
	navs := make(map[date.Date]decimal.Decimal, len(in.NAVRows))
	for _, p := range in.NAVRows {
		navs[p.Date] = p.NAV
	}
	external := ExternalFlowsByDate(in.Transactions)
	flows := make(Flows)
	add := func(on date.Date, amount decimal.Decimal) {
		if !amount.IsZero() {
			flows.add(on, amount)
		}
	}

	startNAV, endNAV := navs[in.Start], navs[in.End]
	if capital := startNAV.Sub(external.Get(in.Start)); capital.IsPositive() {
		add(in.Start, capital.Neg())
	}
	for _, on := range external.Dates() {
		if on.Before(in.Start) || on.After(in.End) {
			continue
		}
		add(on, external[on].Neg())
	}
	if _, ok := flows[in.End]; endNAV.IsPositive() || ok {
		add(in.End, endNAV)
	}

	cashflows := make([]CashFlow, 0, len(flows))
	for _, on := range flows.Dates() {
		cashflows = append(cashflows, CashFlow{Date: on, Amount: flows[on]})
	}
	return cashflows
}

// MoneyWeightedReturn returns the XIRR of the portfolio over [Start, End], zero when it
// cannot be computed.
func MoneyWeightedReturn(in MWRInputs) float64 {
	flows := MoneyWeightedFlows(in)
	if len(flows) < 2 {
		return 0
	}
	return XIRR(flows).InexactFloat64()
}
