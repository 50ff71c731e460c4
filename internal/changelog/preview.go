package changelog

import (
	"fmt"

	"github.com/charmbracelet/glamour"
)

// RenderTerminal renders changelog Markdown for display in a terminal.
// style is a glamour style name ("dark", "light", "notty", ...); "auto" or
// empty detects the terminal background.
func RenderTerminal(markdown string, width int, style string) (string, error) {
	opts := []glamour.TermRendererOption{glamour.WithWordWrap(width)}
	if style == "" || style == "auto" {
		opts = append(opts, glamour.WithAutoStyle())
	} else {
		opts = append(opts, glamour.WithStandardStyle(style))
	}

	r, err := glamour.NewTermRenderer(opts...)
	if err != nil {
		return "", fmt.Errorf("create markdown renderer: %w", err)
	}
	out, err := r.Render(markdown)
	if err != nil {
		return "", fmt.Errorf("render markdown: %w", err)
	}
	return out, nil
}
