package returns

import (
	"slices"

	"github.com/etnz/returns/date"
	"github.com/shopspring/decimal"
)

const summaryPlaces = 6

// growth accumulates Π(1+r) for each of the five return series.
type growth struct {
	port, exCash, blended, spy, cash decimal.Decimal
}

func newGrowth() growth { return growth{decOne, decOne, decOne, decOne, decOne} }

func (g growth) add(p Performance) growth {
	return growth{
		port:    compound(g.port, p.Port),
		exCash:  compound(g.exCash, p.ExCash),
		blended: compound(g.blended, p.BenchBlended),
		spy:     compound(g.spy, p.Spy100),
		cash:    compound(g.cash, p.Cash),
	}
}

// performance returns the cumulative return of each series, rounded to n places.
func (g growth) performance(n int32) Performance {
	return Performance{
		Port:         Float(g.port.Sub(decOne), n),
		ExCash:       Float(g.exCash.Sub(decOne), n),
		BenchBlended: Float(g.blended.Sub(decOne), n),
		Spy100:       Float(g.spy.Sub(decOne), n),
		Cash:         Float(g.cash.Sub(decOne), n),
	}
}

func growthOf(rows []Row) growth {
	g := newGrowth()
	for _, r := range rows {
		g = g.add(r.Performance)
	}
	return g
}

// Summarize compounds the daily rows into one cumulative return per series.
func Summarize(rows []Row) Performance { return growthOf(rows).performance(summaryPlaces) }

// CumulativeDifference is the relative gap between the compounded ex-cash return and the
// compounded portfolio return. Positive values mean cash held the portfolio back.
//
// It is zero when the portfolio lost everything.
func CumulativeDifference(rows []Row) float64 {
	g := growthOf(rows)
	if g.port.IsZero() {
		return 0
	}
	return Float(g.exCash.Sub(g.port).DivRound(g.port, divisionPlaces), summaryPlaces)
}

// Cumulative returns, for each row, the compounded returns from the first row up to and
// including that row.
func Cumulative(rows []Row) []Row {
	cumulative := make([]Row, len(rows))
	g := newGrowth()
	for i, r := range rows {
		g = g.add(r.Performance)
		cumulative[i] = Row{Date: r.Date, Performance: g.performance(rowPlaces)}
	}
	return cumulative
}

// PeriodSummary is the compounded performance over a calendar period.
type PeriodSummary struct {
	Range date.Range
	Performance
	// CashDrag is the CumulativeDifference over the period.
	CashDrag float64
	Days     int
}

func (s PeriodSummary) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("period", s.Range.Identifier())
	w.Append("from", s.Range.From)
	w.Append("to", s.Range.To)
	w.EmbedFrom(s.Performance)
	w.Append("cash_drag", s.CashDrag)
	w.Append("days", s.Days)
	return w.MarshalJSON()
}

// SummarizeByPeriod groups rows by the calendar period containing their date and summarizes
// each group. Periods are in chronological order and only periods with rows are returned.
func SummarizeByPeriod(rows []Row, period date.Period) []PeriodSummary {
	sorted := slices.Clone(rows)
	slices.SortStableFunc(sorted, func(a, b Row) int { return a.Date.Compare(b.Date) })

	var summaries []PeriodSummary
	start := 0
	for i := 1; i <= len(sorted); i++ {
		if i < len(sorted) && date.NewRange(sorted[i].Date, period) == date.NewRange(sorted[start].Date, period) {
			continue
		}
		chunk := sorted[start:i]
		summaries = append(summaries, PeriodSummary{
			Range:       date.NewRange(chunk[0].Date, period),
			Performance: Summarize(chunk),
			CashDrag:    CumulativeDifference(chunk),
			Days:        len(chunk),
		})
		start = i
	}
	return summaries
}

// Highlights are notable points of the cumulative portfolio return.
type Highlights struct {
	Best, Worst             date.Date
	BestReturn, WorstReturn float64
	// Average is the mean of the cumulative portfolio return over all days.
	Average float64
	// TrackingGap is the mean absolute difference between the cumulative portfolio return
	// and the cumulative 100% benchmark return.
	TrackingGap float64
	Days        int
}

// ComputeHighlights scans the cumulative returns of rows. The first of equal extremes wins.
func ComputeHighlights(rows []Row) Highlights {
	cumulative := Cumulative(rows)
	if len(cumulative) == 0 {
		return Highlights{}
	}
	best, worst := cumulative[0], cumulative[0]
	sum, gap := decZero, decZero
	for _, r := range cumulative {
		if r.Port > best.Port {
			best = r
		}
		if r.Port < worst.Port {
			worst = r
		}
		sum = sum.Add(D(r.Port))
		gap = gap.Add(D(r.Port).Sub(D(r.Spy100)).Abs())
	}
	n := decimal.NewFromInt(int64(len(cumulative)))
	return Highlights{
		Best:        best.Date,
		Worst:       worst.Date,
		BestReturn:  best.Port,
		WorstReturn: worst.Port,
		Average:     Float(sum.DivRound(n, divisionPlaces), summaryPlaces),
		TrackingGap: Float(gap.DivRound(n, divisionPlaces), summaryPlaces),
		Days:        len(cumulative),
	}
}
