package returns

import (
	"testing"

	"github.com/etnz/returns/date"
	"github.com/stretchr/testify/assert"
)

func flowsOf(kv map[string]float64) Flows {
	flows := make(Flows)
	for k, v := range kv {
		flows[date.MustParse(k)] = D(v)
	}
	return flows
}

func assertFlows(t *testing.T, want map[string]float64, got Flows) {
	t.Helper()
	assert.Len(t, got, len(want), "flows %v", got)
	for k, v := range want {
		if g := got.Get(date.MustParse(k)); !g.Equal(D(v)) {
			t.Errorf("flow on %s = %s want %v", k, g, v)
		}
	}
}

func TestExternalFlowsByDate(t *testing.T) {
	txs := []Transaction{
		deposit("2024-01-02", 1000),
		deposit("2024-01-02", 500),
		withdrawal("2024-01-03", 200),
		{ID: "div", Type: Dividend, Date: date.MustParse("2024-01-03"), Amount: D(10)},
		{ID: "int", Type: Interest, Date: date.MustParse("2024-01-04"), Amount: D(1)},
		{ID: "fee", Type: Fee, Date: date.MustParse("2024-01-04"), Amount: D(3)},
	}
	assertFlows(t, map[string]float64{"2024-01-02": 1500, "2024-01-03": -200}, ExternalFlowsByDate(txs))
}

func TestAlignFlows(t *testing.T) {
	// Friday and Monday
	dates := days("2024-01-08", "2024-01-05")
	tests := []struct {
		name  string
		flows map[string]float64
		want  map[string]float64
	}{
		{
			name:  "on a date",
			flows: map[string]float64{"2024-01-05": 100},
			want:  map[string]float64{"2024-01-05": 100},
		},
		{
			name:  "weekend rolls to monday",
			flows: map[string]float64{"2024-01-06": 100, "2024-01-07": 50, "2024-01-08": 25},
			want:  map[string]float64{"2024-01-08": 175},
		},
		{
			name:  "before the first date",
			flows: map[string]float64{"2024-01-01": 100},
			want:  map[string]float64{"2024-01-05": 100},
		},
		{
			name:  "after the last date collapses on it",
			flows: map[string]float64{"2024-02-01": -40},
			want:  map[string]float64{"2024-01-08": -40},
		},
		{
			name:  "zero flows are dropped",
			flows: map[string]float64{"2024-01-05": 0, "2024-01-06": 10},
			want:  map[string]float64{"2024-01-08": 10},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			flows := flowsOf(tt.flows)
			got := AlignFlows(flows, dates)
			assertFlows(t, tt.want, got)
			if !got.Total().Equal(flows.Total()) {
				t.Errorf("AlignFlows() total = %s want %s", got.Total(), flows.Total())
			}
		})
	}
}

func TestAlignFlows_NoDates(t *testing.T) {
	flows := flowsOf(map[string]float64{"2024-01-06": 100})
	got := AlignFlows(flows, nil)
	assertFlows(t, map[string]float64{"2024-01-06": 100}, got)
	got[date.MustParse("2024-01-06")] = D(1)
	assert.True(t, flows.Get(date.MustParse("2024-01-06")).Equal(D(100)), "AlignFlows shares its result with its input")
}

func TestFlows_Dates(t *testing.T) {
	flows := flowsOf(map[string]float64{"2024-01-06": 1, "2024-01-02": 2, "2024-01-04": 3})
	assert.Equal(t, days("2024-01-02", "2024-01-04", "2024-01-06"), flows.Dates())
}
