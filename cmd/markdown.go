package cmd

import (
	"fmt"
	"io"

	"github.com/charmbracelet/glamour"
)

// writeMarkdown renders md with the configured style. The raw style, or any rendering
// failure, prints the markdown as is.
func writeMarkdown(w io.Writer, md string, cfg RenderConfig) {
	if cfg.Style == "raw" {
		fmt.Fprint(w, md)
		return
	}
	style := glamour.WithStandardStyle(cfg.Style)
	if cfg.Style == "auto" || cfg.Style == "" {
		style = glamour.WithAutoStyle()
	}
	r, err := glamour.NewTermRenderer(style, glamour.WithWordWrap(cfg.Width))
	if err != nil {
		fmt.Fprint(w, md)
		return
	}
	out, err := r.Render(md)
	if err != nil {
		fmt.Fprint(w, md)
		return
	}
	fmt.Fprint(w, out)
}
