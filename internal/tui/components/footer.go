package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/Dallionking/bubblebar/internal/tui/styles"
)

// KeyHint describes a single keybinding hint for display in the footer.
type KeyHint struct {
	Key  string // "e", "s", "←→"
	Desc string // "expand", "stash", "select"
}

// Button is a clickable footer action identified by a hit zone id.
type Button struct {
	ID    string
	Label string
}

// Footer renders clickable actions followed by keybinding hints.
type Footer struct {
	Buttons []Button
	Hints   []KeyHint
	// Mark wraps a button in a hit zone; nil leaves it unmarked.
	Mark  func(id, s string) string
	Width int
}

// Render returns the styled footer string.
func (f Footer) Render() string {
	width := f.Width
	if width <= 0 {
		width = 80
	}

	keyStyle := lipgloss.NewStyle().Foreground(styles.AccentPrimary).Bold(true)
	descStyle := lipgloss.NewStyle().Foreground(styles.TextMuted)
	sepStyle := lipgloss.NewStyle().Foreground(styles.TextMuted)

	var buttons []string
	for _, b := range f.Buttons {
		s := styles.Button.Render(b.Label)
		if f.Mark != nil {
			s = f.Mark(b.ID, s)
		}
		buttons = append(buttons, s)
	}

	var parts []string
	for _, h := range f.Hints {
		parts = append(parts, keyStyle.Render(h.Key)+" "+descStyle.Render(h.Desc))
	}

	content := strings.Join(buttons, " ")
	if len(parts) > 0 {
		if content != "" {
			content += sepStyle.Render("  │  ")
		}
		content += strings.Join(parts, sepStyle.Render(" • "))
	}

	return styles.Footer.Width(width).Render(content)
}
