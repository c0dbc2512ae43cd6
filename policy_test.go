package returns

import (
	"math"
	"testing"

	"github.com/etnz/returns/date"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// interval is a compact APYInterval factory, "" for an open end.
func interval(from, to string, apy float64) APYInterval {
	i := APYInterval{From: date.MustParse(from), APY: D(apy)}
	if to != "" {
		i.To = date.MustParse(to)
	}
	return i
}

func assertTimeline(t *testing.T, want, got []APYInterval) {
	t.Helper()
	require.Len(t, got, len(want), "timeline %v", got)
	for i := range want {
		assert.Equal(t, want[i].From, got[i].From, "interval %d from", i)
		assert.Equal(t, want[i].To, got[i].To, "interval %d to", i)
		assert.True(t, want[i].APY.Equal(got[i].APY), "interval %d apy = %s want %s", i, got[i].APY, want[i].APY)
	}
}

func TestNormalizeAPYTimeline(t *testing.T) {
	tests := []struct {
		name string
		raw  []RawAPYEntry
		want []APYInterval
	}{
		{
			name: "empty",
			raw:  nil,
			want: nil,
		},
		{
			name: "unsorted open ended",
			raw: []RawAPYEntry{
				{From: "2024-06-01", APY: 0.05},
				{From: "2024-01-01", APY: 0.04},
			},
			want: []APYInterval{
				interval("2024-01-01", "2024-05-31", 0.04),
				interval("2024-06-01", "", 0.05),
			},
		},
		{
			name: "disjoint intervals keep their gap",
			raw: []RawAPYEntry{
				{From: "2024-01-01", To: "2024-01-31", APY: 0.04},
				{From: "2024-03-01", To: "2024-03-31", APY: 0.05},
			},
			want: []APYInterval{
				interval("2024-01-01", "2024-01-31", 0.04),
				interval("2024-03-01", "2024-03-31", 0.05),
			},
		},
		{
			name: "later interval clips the earlier one",
			raw: []RawAPYEntry{
				{From: "2024-01-01", To: "2024-12-31", APY: 0.04},
				{From: "2024-06-15", To: "2024-07-15", APY: 0.05},
			},
			want: []APYInterval{
				interval("2024-01-01", "2024-06-14", 0.04),
				interval("2024-06-15", "2024-07-15", 0.05),
			},
		},
		{
			name: "same start last in sorted order wins",
			raw: []RawAPYEntry{
				{From: "2024-01-01", APY: 0.01},
				{From: "2024-01-01", APY: 0.02},
			},
			want: []APYInterval{
				interval("2024-01-01", "", 0.02),
			},
		},
		{
			name: "same start bounded sorts after open ended",
			raw: []RawAPYEntry{
				{From: "2024-01-01", To: "2024-01-31", APY: 0.03},
				{From: "2024-01-01", APY: 0.01},
			},
			want: []APYInterval{
				interval("2024-01-01", "2024-01-31", 0.03),
			},
		},
		{
			name: "alternate field names",
			raw: []RawAPYEntry{
				{EffectiveDate: "2024-01-01", Through: "2024-01-10", APY: 0.04},
				{Date: "2024-02-01T00:00:00Z", APY: 0.05},
			},
			want: []APYInterval{
				interval("2024-01-01", "2024-01-10", 0.04),
				interval("2024-02-01", "", 0.05),
			},
		},
		{
			name: "unreadable start is dropped",
			raw: []RawAPYEntry{
				{From: "yesterday", APY: 0.9},
				{From: "2024-01-01", APY: 0.04},
			},
			want: []APYInterval{
				interval("2024-01-01", "", 0.04),
			},
		},
		{
			name: "non finite apy is zero",
			raw: []RawAPYEntry{
				{From: "2024-01-01", APY: math.NaN()},
			},
			want: []APYInterval{
				interval("2024-01-01", "", 0),
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assertTimeline(t, tt.want, NormalizeAPYTimeline(tt.raw))
		})
	}
}

func TestNormalizeAPYTimeline_Idempotent(t *testing.T) {
	raw := []RawAPYEntry{
		{From: "2024-06-15", To: "2024-07-15", APY: 0.05},
		{From: "2024-01-01", To: "2024-12-31", APY: 0.04},
		{From: "2025-01-01", APY: 0.03},
	}
	once := NormalizeAPYTimeline(raw)
	var again []RawAPYEntry
	for _, i := range once {
		again = append(again, i.Raw())
	}
	assertTimeline(t, once, NormalizeAPYTimeline(again))

	for i := 1; i < len(once); i++ {
		if prev := once[i-1]; prev.To.IsZero() || !prev.To.Before(once[i].From) {
			t.Errorf("interval %d %v overlaps %v", i, prev, once[i])
		}
	}
}

func TestNormalizeCurrency(t *testing.T) {
	tests := []struct{ in, want string }{
		{"usd", "USD"},
		{" eur ", "EUR"},
		{"", DefaultCurrency},
		{"EURO", DefaultCurrency},
		{"U$D", DefaultCurrency},
	}
	for _, tt := range tests {
		if got := NormalizeCurrency(tt.in); got != tt.want {
			t.Errorf("NormalizeCurrency(%q) = %q want %q", tt.in, got, tt.want)
		}
	}
}

func TestNormalizeCashPolicy(t *testing.T) {
	p := NormalizeCashPolicy(RawCashPolicy{
		Currency:    "eur",
		APYTimeline: []RawAPYEntry{{From: "2024-01-01", APY: 0.03}},
		DayCount:    360,
	})
	assert.Equal(t, "EUR", p.Currency)
	assert.Equal(t, 360, p.DayCount)
	assert.Len(t, p.APYTimeline, 1)

	legacy := NormalizeCashPolicy(RawCashPolicy{
		Rates: []RawRate{{EffectiveDate: "2024-01-01", APY: 0.04}, {APY: 0.9}},
	})
	assert.Equal(t, DefaultCurrency, legacy.Currency)
	assert.Equal(t, DefaultDayCount, legacy.DayCount)
	assertTimeline(t, []APYInterval{interval("2024-01-01", "", 0.04)}, legacy.APYTimeline)
}

func TestCashPolicy_DailyRate(t *testing.T) {
	p := NormalizeCashPolicy(RawCashPolicy{
		APYTimeline: []RawAPYEntry{{From: "2024-01-01", To: "2024-01-31", APY: 0.05}},
	})
	if got := p.DailyRate(date.MustParse("2023-12-31")); !got.IsZero() {
		t.Errorf("DailyRate before the timeline = %s want 0", got)
	}
	if got := p.DailyRate(date.MustParse("2024-02-01")); !got.IsZero() {
		t.Errorf("DailyRate after the timeline = %s want 0", got)
	}
	got := p.DailyRate(date.MustParse("2024-01-15")).InexactFloat64()
	assert.InDelta(t, 0.05/365, got, 1e-15)
}
