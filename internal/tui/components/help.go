package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/glamour"
)

// HelpMarkdown documents bindings as a markdown table.
func HelpMarkdown(bindings []key.Binding) string {
	var b strings.Builder
	b.WriteString("# Bubble bar\n\n")
	b.WriteString("Click the bar to expand it, click a bubble to select it. ")
	b.WriteString("Hold a bubble or the bar to drag it to the other side or into the dismiss strip.\n\n")
	b.WriteString("| Key | Action |\n|-----|--------|\n")
	for _, k := range bindings {
		h := k.Help()
		if h.Key == "" {
			continue
		}
		fmt.Fprintf(&b, "| `%s` | %s |\n", h.Key, h.Desc)
	}
	return b.String()
}

// RenderMarkdown renders md for a terminal of the given width, falling back
// to the raw text.
func RenderMarkdown(md string, width int) string {
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle("dark"),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return md
	}
	out, err := r.Render(md)
	if err != nil {
		return md
	}
	return strings.TrimSpace(out)
}

// TruncateLines keeps at most n lines of s.
func TruncateLines(s string, n int) string {
	lines := splitLines(s)
	if n < 0 {
		n = 0
	}
	if len(lines) <= n {
		return s
	}
	return joinLines(lines[:n])
}
