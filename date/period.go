package date

import (
	"fmt"
	"slices"
	"strings"
	"time"
)

// Period is a calendar period used to group days in reports.
type Period int

const (
	Daily Period = iota
	Weekly
	Monthly
	Quarterly
	Yearly
)

// periodNames lists the accepted names of each period, canonical name first.
var periodNames = [...][]string{
	Daily:     {"daily", "day"},
	Weekly:    {"weekly", "week"},
	Monthly:   {"monthly", "month"},
	Quarterly: {"quarterly", "quarter"},
	Yearly:    {"yearly", "year"},
}

func (p Period) valid() bool { return p >= Daily && p <= Yearly }

func (p Period) String() string {
	if !p.valid() {
		return fmt.Sprintf("Period(%d)", int(p))
	}
	return periodNames[p][0]
}

// ParsePeriod reads a period name, case insensitive: "month" and "monthly" are both
// Monthly.
func ParsePeriod(s string) (Period, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for p, names := range periodNames {
		if slices.Contains(names, s) {
			return Period(p), nil
		}
	}
	return Daily, fmt.Errorf("unknown period %q", s)
}

// Start returns the first day of the period containing d. Weeks start on Monday.
func (p Period) Start(d Date) Date {
	switch p {
	case Daily:
		return d
	case Weekly:
		return d.Add(-(int(d.Weekday()) + 6) % 7)
	case Monthly:
		return New(d.y, d.m, 1)
	case Quarterly:
		return New(d.y, d.m-(d.m-1)%3, 1)
	case Yearly:
		return New(d.y, time.January, 1)
	}
	panic(fmt.Sprintf("unknown period %d", p))
}

// End returns the last day of the period containing d.
func (p Period) End(d Date) Date {
	switch p {
	case Daily:
		return d
	case Weekly:
		return p.Start(d).Add(6)
	}
	// day 0 of the first month of the next period is the last day of this one.
	start := p.Start(d)
	switch p {
	case Monthly:
		return New(start.y, start.m+1, 0)
	case Quarterly:
		return New(start.y, start.m+3, 0)
	default:
		return New(start.y+1, time.January, 0)
	}
}

// StartOf returns the first day of the period containing d.
func (d Date) StartOf(p Period) Date { return p.Start(d) }

// EndOf returns the last day of the period containing d.
func (d Date) EndOf(p Period) Date { return p.End(d) }
