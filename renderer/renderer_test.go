package renderer

import (
	"bytes"
	"image/png"
	"io/fs"
	"strings"
	"testing"

	"github.com/etnz/returns"
	"github.com/etnz/returns/date"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleRows() []returns.Row {
	return []returns.Row{
		{Date: date.New(2024, 1, 30), Performance: returns.Performance{Port: 0.01, ExCash: 0.02, BenchBlended: 0.005, Spy100: 0.01, Cash: 0.0001}},
		{Date: date.New(2024, 1, 31), Performance: returns.Performance{Port: -0.02, ExCash: -0.03, BenchBlended: -0.01, Spy100: -0.02, Cash: 0.0001}},
		{Date: date.New(2024, 2, 1), Performance: returns.Performance{Port: 0.03, ExCash: 0.04, BenchBlended: 0.02, Spy100: 0.015, Cash: 0.0001}},
	}
}

// TestTemplatesParse checks that every embedded template parses with the helpers.
func TestTemplatesParse(t *testing.T) {
	files, err := fs.Glob(templates, "templates/*.md")
	require.NoError(t, err)
	require.NotEmpty(t, files)
	for _, file := range files {
		t.Run(file, func(t *testing.T) {
			content, err := fs.ReadFile(templates, file)
			require.NoError(t, err)
			_, err = newTemplate(file).Parse(string(content))
			assert.NoError(t, err)
		})
	}
}

func TestRenderRows(t *testing.T) {
	out := RenderRows(&Rows{Title: "Daily Returns", Rows: sampleRows()})

	tables := Tables(out)
	require.Len(t, tables, 1, out)
	table := tables[0]
	assert.Equal(t, []string{"Date", "Portfolio", "Ex-Cash", "Blended Bench.", "100% Bench.", "Cash"}, table[0])
	assert.Equal(t, []string{"2024-01-30", "2024-01-31", "2024-02-01"}, table.Column("Date"))
	assert.Equal(t, []string{"+1.00%", "-2.00%", "+3.00%"}, table.Column("Portfolio"))
	assert.Equal(t, []string{"+0.01%", "+0.01%", "+0.01%"}, table.Column("Cash"))
}

func TestRenderReport(t *testing.T) {
	rows := sampleRows()
	report := NewReport("Performance", rows, 0.1234).WithPeriods(rows, date.Monthly)

	out := RenderReport(report, ReportRenderOptions{})
	if strings.HasPrefix(out, "error") {
		t.Fatalf("RenderReport() failed: %s", out)
	}
	assert.Contains(t, out, "# Performance")
	assert.Contains(t, out, "From 2024-01-30 to 2024-02-01 (3 days).")
	assert.Contains(t, out, "**Money-weighted return**: +12.34% annualized")
	assert.Contains(t, out, "## Highlights")

	tables := Tables(out)
	require.Len(t, tables, 2, out)
	assert.Equal(t, []string{"2024-01", "2024-02"}, tables[1].Column("Period"))
	assert.Equal(t, []string{"2", "1"}, tables[1].Column("Days"))
	assert.Equal(t, []string{"+3.00%"}, tables[1].Column("Portfolio")[1:])

	out = RenderReport(report, ReportRenderOptions{SkipPeriods: true, SkipHighlights: true})
	assert.Len(t, Tables(out), 1)
	assert.NotContains(t, out, "## Highlights")
}

func TestRenderStates(t *testing.T) {
	states := []returns.State{
		{Date: date.New(2024, 1, 1), NAV: returns.D(10000), Cash: returns.D(10000)},
		{Date: date.New(2024, 1, 2), NAV: returns.D(10500), Cash: returns.D(0), RiskValue: returns.D(10500)},
	}
	out := RenderStates(NewStates(states, "USD"))
	tables := Tables(out)
	require.Len(t, tables, 1, out)
	assert.Equal(t, []string{"$10,000.00", "$10,500.00"}, tables[0].Column("NAV"))
	assert.Equal(t, []string{"100.00%", "0.00%"}, tables[0].Column("Cash Weight"))
}

func TestTables(t *testing.T) {
	md := "# title\n\n| a | **b** |\n|---|---|\n| 1 | `2` |\n\ntext\n\n| c |\n|---|\n| 3 |\n"
	tables := Tables(md)
	require.Len(t, tables, 2)
	assert.Equal(t, Table{{"a", "b"}, {"1", "2"}}, tables[0])
	assert.Equal(t, []string{"3"}, tables[1].Column("c"))
	assert.Nil(t, tables[1].Column("missing"))
}

func TestCumulativeChart(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, CumulativeChart(sampleRows(), &buf))
	_, err := png.Decode(&buf)
	assert.NoError(t, err)

	assert.Error(t, CumulativeChart(sampleRows()[:1], &buf))
}
