package renderer

import (
	"embed"
	"fmt"
	"io/fs"
	"strings"
	"text/template"

	"github.com/etnz/returns"
)

//go:embed templates/*.md
var templates embed.FS

// funcs are the helpers available to every template.
var funcs = template.FuncMap{
	"pct": func(r float64) string { return returns.AsPercent(r).SignedString() },
	"abs": func(r float64) string { return returns.AsPercent(r).String() },
}

// ReportRenderOptions holds configuration for rendering a report.
type ReportRenderOptions struct {
	SkipPeriods    bool // Do not render the per period table.
	SkipHighlights bool // Do not render the highlights section.
}

// RenderRows renders daily return rows as a markdown table.
func RenderRows(r *Rows) string {
	return renderTemplate("rows", "rows.md", nil, r)
}

// RenderReport renders a performance report to markdown.
func RenderReport(r *Report, opts ReportRenderOptions) string {
	partials := map[string]string{
		"report_title":      "report_title.md",
		"report_totals":     "report_totals.md",
		"report_periods":    "report_periods.md",
		"report_highlights": "report_highlights.md",
	}
	// An empty file name results in an empty template.
	if opts.SkipPeriods || len(r.Periods) == 0 {
		partials["report_periods"] = ""
	}
	if opts.SkipHighlights {
		partials["report_highlights"] = ""
	}
	return renderTemplate("report", "report.md", partials, r)
}

// RenderStates renders daily portfolio states as a markdown table.
func RenderStates(s *States) string {
	return renderTemplate("states", "states.md", nil, s)
}

func newTemplate(name string) *template.Template { return template.New(name).Funcs(funcs) }

// renderTemplate renders a main template that depends on several partials.
func renderTemplate(templateName, mainFile string, partials map[string]string, data any) string {
	mainContent, err := fs.ReadFile(templates, "templates/"+mainFile)
	if err != nil {
		return fmt.Sprintf("error reading main template %q: %v", mainFile, err)
	}

	tmpl, err := newTemplate(templateName).Parse(string(mainContent))
	if err != nil {
		return fmt.Sprintf("error parsing main template %q: %v", mainFile, err)
	}

	for name, file := range partials {
		var content []byte
		if file != "" {
			content, err = fs.ReadFile(templates, "templates/"+file)
			if err != nil {
				return fmt.Sprintf("error reading partial template %q: %v", file, err)
			}
		}
		if _, err := tmpl.New(name).Parse(string(content)); err != nil {
			return fmt.Sprintf("error parsing partial template %q for %q: %v", file, name, err)
		}
	}

	var b strings.Builder
	if err := tmpl.ExecuteTemplate(&b, templateName, data); err != nil {
		return fmt.Sprintf("error executing template %q: %v", templateName, err)
	}
	return b.String()
}
