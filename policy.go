package returns

import (
	"math"
	"regexp"
	"slices"
	"strings"

	"github.com/etnz/returns/date"
	"github.com/shopspring/decimal"
)

// DefaultDayCount is the number of days an APY is spread over.
const DefaultDayCount = 365

// RawAPYEntry is one APY timeline entry as provided by a user.
//
// The start date is read from From, EffectiveDate or Date (first non empty), the end date
// from To or Through. Dates are canonical date keys or RFC 3339 timestamps.
type RawAPYEntry struct {
	From          string  `json:"from,omitempty" toml:"from"`
	EffectiveDate string  `json:"effective_date,omitempty" toml:"effective_date"`
	Date          string  `json:"date,omitempty" toml:"date"`
	To            string  `json:"to,omitempty" toml:"to"`
	Through       string  `json:"through,omitempty" toml:"through"`
	APY           float64 `json:"apy" toml:"apy"`
}

func (e RawAPYEntry) from() (date.Date, bool) {
	for _, s := range []string{e.From, e.EffectiveDate, e.Date} {
		if s == "" {
			continue
		}
		on, err := date.ParseKey(s)
		return on, err == nil
	}
	return date.Date{}, false
}

// to returns the end date, or the zero Date when open-ended or unreadable.
func (e RawAPYEntry) to() date.Date {
	s := e.To
	if s == "" {
		s = e.Through
	}
	on, err := date.ParseKey(s)
	if err != nil {
		return date.Date{}
	}
	return on
}

// RawRate is a legacy cash rate: an APY applying from EffectiveDate onward.
type RawRate struct {
	EffectiveDate string  `json:"effective_date" toml:"effective_date"`
	APY           float64 `json:"apy" toml:"apy"`
}

// RawCashPolicy is a cash policy as provided by a user.
//
// APYTimeline takes precedence over the legacy Rates list.
type RawCashPolicy struct {
	Currency    string        `json:"currency" toml:"currency"`
	APYTimeline []RawAPYEntry `json:"apyTimeline,omitempty" toml:"apy"`
	Rates       []RawRate     `json:"rates,omitempty" toml:"rates"`
	DayCount    float64       `json:"dayCount,omitempty" toml:"day_count"`
}

// APYInterval is an APY applying to every day in [From, To]. A zero To is open-ended.
type APYInterval struct {
	From date.Date
	To   date.Date
	APY  decimal.Decimal
}

// Contains reports whether day is covered by the interval.
func (i APYInterval) Contains(day date.Date) bool {
	return !day.Before(i.From) && (i.To.IsZero() || !day.After(i.To))
}

// Raw returns the user facing form of the interval.
func (i APYInterval) Raw() RawAPYEntry {
	e := RawAPYEntry{From: i.From.String(), APY: i.APY.InexactFloat64()}
	if !i.To.IsZero() {
		e.To = i.To.String()
	}
	return e
}

// CashPolicy is a normalized cash policy.
//
// APYTimeline is sorted by From and its intervals do not overlap. Days not covered earn
// nothing.
type CashPolicy struct {
	Currency    string
	APYTimeline []APYInterval
	DayCount    int
}

// Raw returns the user facing form of the policy.
func (p CashPolicy) Raw() RawCashPolicy {
	raw := RawCashPolicy{Currency: p.Currency, DayCount: float64(p.DayCount)}
	for _, i := range p.APYTimeline {
		raw.APYTimeline = append(raw.APYTimeline, i.Raw())
	}
	return raw
}

// DailyRate returns the daily cash rate on day.
func (p CashPolicy) DailyRate(day date.Date) decimal.Decimal {
	return DailyRateFromAPY(ResolveAPY(p.APYTimeline, day), p.dayCount())
}

func (p CashPolicy) dayCount() int {
	if p.DayCount <= 0 {
		return DefaultDayCount
	}
	return p.DayCount
}

var currencyRE = regexp.MustCompile(`^[A-Z]{3}$`)

// NormalizeCurrency returns the upper-cased ISO code, or DefaultCurrency if malformed.
func NormalizeCurrency(code string) string {
	code = strings.ToUpper(strings.TrimSpace(code))
	if !currencyRE.MatchString(code) {
		return DefaultCurrency
	}
	return code
}

// NormalizeCashPolicy returns the canonical form of raw.
func NormalizeCashPolicy(raw RawCashPolicy) CashPolicy {
	if raw.APYTimeline == nil && raw.Rates != nil {
		p := PolicyFromRates(raw.Rates)
		p.DayCount = normalizeDayCount(raw.DayCount)
		return p
	}
	return CashPolicy{
		Currency:    NormalizeCurrency(raw.Currency),
		APYTimeline: NormalizeAPYTimeline(raw.APYTimeline),
		DayCount:    normalizeDayCount(raw.DayCount),
	}
}

// PolicyFromRates builds a USD policy from a legacy rate list.
//
// Rates without an effective date are ignored. Each rate is open-ended and is cut by the
// next one.
func PolicyFromRates(rates []RawRate) CashPolicy {
	entries := make([]RawAPYEntry, 0, len(rates))
	for _, r := range rates {
		if r.EffectiveDate == "" {
			continue
		}
		entries = append(entries, RawAPYEntry{From: r.EffectiveDate, APY: r.APY})
	}
	return CashPolicy{
		Currency:    DefaultCurrency,
		APYTimeline: NormalizeAPYTimeline(entries),
		DayCount:    DefaultDayCount,
	}
}

func normalizeDayCount(n float64) int {
	if math.IsNaN(n) || n <= 0 || n > 1e6 {
		return DefaultDayCount
	}
	return int(D(n).Round(0).IntPart())
}

// NormalizeAPYTimeline turns raw, possibly overlapping and unsorted, entries into sorted
// non-overlapping intervals.
//
// Entries without a readable start date are dropped, an end before the start is moved to
// the start. When two intervals overlap the later one wins: the earlier one is clipped to
// end the day before. Among entries with the same start, the last one in sorted order wins.
func NormalizeAPYTimeline(raw []RawAPYEntry) []APYInterval {
	entries := make([]APYInterval, 0, len(raw))
	for _, e := range raw {
		from, ok := e.from()
		if !ok {
			continue
		}
		i := APYInterval{From: from, To: e.to(), APY: D(e.APY)}
		if !i.To.IsZero() && i.To.Before(i.From) {
			i.To = i.From
		}
		entries = append(entries, i)
	}
	slices.SortStableFunc(entries, func(a, b APYInterval) int {
		if c := a.From.Compare(b.From); c != 0 {
			return c
		}
		return compareEnd(a.To, b.To)
	})

	var f timelineFold
	for _, next := range entries {
		f = f.step(next)
	}
	return f.result()
}

// compareEnd orders interval ends, open-ended first.
func compareEnd(a, b date.Date) int {
	switch {
	case a.IsZero() && b.IsZero():
		return 0
	case a.IsZero():
		return -1
	case b.IsZero():
		return 1
	}
	return a.Compare(b)
}

// timelineFold is the merge state: the intervals already settled and the one still open to
// clipping.
type timelineFold struct {
	closed []APYInterval
	open   *APYInterval
}

func (f timelineFold) step(next APYInterval) timelineFold {
	switch {
	case f.open == nil, !next.From.After(f.open.From):
		// first interval, or same start: next replaces the open one.
		return timelineFold{closed: f.closed, open: &next}
	case !f.open.To.IsZero() && f.open.To.Before(next.From):
		// disjoint
		return timelineFold{closed: append(f.closed, *f.open), open: &next}
	}
	clipped := *f.open
	clipped.To = next.From.Add(-1)
	return timelineFold{closed: append(f.closed, clipped), open: &next}
}

func (f timelineFold) result() []APYInterval {
	if f.open == nil {
		return f.closed
	}
	return append(f.closed, *f.open)
}
