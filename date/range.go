package date

import (
	"fmt"
	"iter"
)

// Range is a span of days, both ends included.
type Range struct{ From, To Date }

// NewRange returns the calendar period p containing d.
func NewRange(d Date, p Period) Range { return Range{From: p.Start(d), To: p.End(d)} }

// Contains reports whether d is in r.
func (r Range) Contains(d Date) bool { return !d.Before(r.From) && !d.After(r.To) }

// Len is the number of days in r.
func (r Range) Len() int { return max(0, r.To.Sub(r.From)+1) }

// Days iterates over the days of r.
func (r Range) Days() iter.Seq[Date] { return Days(r.From, r.To) }

// Period returns the calendar period r spans exactly, if any.
func (r Range) Period() (Period, bool) {
	for p := Daily; p <= Yearly; p++ {
		if NewRange(r.From, p) == r {
			return p, true
		}
	}
	return Daily, false
}

// Identifier is the short name of r: "2025-09-08", "2025-W37", "2025-09", "2025-Q3" or
// "2025" for calendar periods, "<from>_<to>" otherwise.
func (r Range) Identifier() string {
	p, ok := r.Period()
	if !ok {
		return fmt.Sprintf("%s_%s", r.From, r.To)
	}
	switch p {
	case Weekly:
		year, week := r.From.ISOWeek()
		return fmt.Sprintf("%d-W%02d", year, week)
	case Monthly:
		return r.From.Format("2006-01")
	case Quarterly:
		return fmt.Sprintf("%d-Q%d", r.From.Year(), (r.From.Month()+2)/3)
	case Yearly:
		return r.From.Format("2006")
	default:
		return r.From.String()
	}
}
