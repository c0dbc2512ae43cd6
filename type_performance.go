package returns

import (
	"encoding/json"

	"github.com/etnz/returns/date"
)

// Performance holds one figure for each of the five return series.
type Performance struct {
	Port         float64 // whole portfolio
	ExCash       float64 // risk sleeve only
	BenchBlended float64 // benchmark blended with cash at the portfolio cash weight
	Spy100       float64 // benchmark fed with the portfolio external flows
	Cash         float64 // cash sleeve yield
}

// performanceJSON is the wire form of Performance.
type performanceJSON struct {
	Port         float64 `json:"r_port"`
	ExCash       float64 `json:"r_ex_cash"`
	BenchBlended float64 `json:"r_bench_blended"`
	Spy100       float64 `json:"r_spy_100"`
	Cash         float64 `json:"r_cash"`
}

func (p Performance) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("r_port", p.Port)
	w.Append("r_ex_cash", p.ExCash)
	w.Append("r_bench_blended", p.BenchBlended)
	w.Append("r_spy_100", p.Spy100)
	w.Append("r_cash", p.Cash)
	return w.MarshalJSON()
}

func (p *Performance) UnmarshalJSON(data []byte) error {
	var v performanceJSON
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*p = Performance(v)
	return nil
}

// Row is the performance of a single day.
type Row struct {
	Date date.Date
	Performance
}

func (r Row) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("date", r.Date)
	w.EmbedFrom(r.Performance)
	return w.MarshalJSON()
}

func (r *Row) UnmarshalJSON(data []byte) error {
	var v struct {
		Date date.Date `json:"date"`
	}
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	if err := r.Performance.UnmarshalJSON(data); err != nil {
		return err
	}
	r.Date = v.Date
	return nil
}
