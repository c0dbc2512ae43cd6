package renderer

import (
	"github.com/etnz/returns"
	"github.com/etnz/returns/date"
)

// Rows is the view of the daily return rows.
type Rows struct {
	Title string
	Rows  []returns.Row
}

// Report is the view of a performance report over the days of its rows.
type Report struct {
	Title    string
	From, To date.Date
	Days     int
	Total    returns.Performance
	CashDrag float64
	// XIRR is the annualized money-weighted return over [From, To].
	XIRR float64

	Period     date.Period
	Periods    []returns.PeriodSummary
	Highlights returns.Highlights
}

// NewReport summarizes rows, which must not be empty.
func NewReport(title string, rows []returns.Row, xirr float64) *Report {
	return &Report{
		Title:      title,
		From:       rows[0].Date,
		To:         rows[len(rows)-1].Date,
		Days:       len(rows),
		Total:      returns.Summarize(rows),
		CashDrag:   returns.CumulativeDifference(rows),
		XIRR:       xirr,
		Highlights: returns.ComputeHighlights(rows),
	}
}

// WithPeriods adds the per period breakdown of rows to the report.
func (r *Report) WithPeriods(rows []returns.Row, period date.Period) *Report {
	r.Period = period
	r.Periods = returns.SummarizeByPeriod(rows, period)
	return r
}

// States is the view of daily portfolio states.
type States struct {
	Currency string
	States   []StateLine
}

// StateLine is one day of States, amounts formatted in the portfolio currency.
type StateLine struct {
	Date       date.Date
	NAV        string
	Cash       string
	Risk       string
	CashWeight float64
}

// NewStates formats states in currency.
func NewStates(states []returns.State, currency string) *States {
	s := &States{Currency: currency}
	for _, state := range states {
		cash, _ := returns.Weights(state)
		s.States = append(s.States, StateLine{
			Date:       state.Date,
			NAV:        returns.M(state.NAV, currency).String(),
			Cash:       returns.M(state.Cash, currency).String(),
			Risk:       returns.M(state.RiskValue, currency).String(),
			CashWeight: returns.Float(cash, 4),
		})
	}
	return s
}
