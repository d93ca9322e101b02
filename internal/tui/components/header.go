package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/Dallionking/bubblebar/internal/tui/styles"
)

// Logo is the compact wordmark shown in the header.
const Logo = "◉ bubblebar"

// Header renders the app header bar.
type Header struct {
	State      string // "collapsed", "expanded", ...
	Location   string // "left", "right"
	Bubbles    int
	Suppressed int
	// Busy is a spinner frame while deltas are materializing, else empty.
	Busy  string
	Width int
}

// Render returns the styled header string.
func (h Header) Render() string {
	width := h.Width
	if width <= 0 {
		width = 80
	}

	logo := lipgloss.NewStyle().
		Foreground(styles.AccentPrimary).
		Bold(true).
		Render(Logo)

	sep := lipgloss.NewStyle().Foreground(styles.TextMuted).Render("  │  ")

	stateColor := styles.StatusOK
	switch h.State {
	case "stashed":
		stateColor = styles.TextMuted
	case "expanding", "collapsing", "unstashing":
		stateColor = styles.StatusWarn
	}
	state := styles.Badge(strings.ToUpper(h.State), stateColor)

	dock := styles.Label.Render("Dock: ") +
		lipgloss.NewStyle().Foreground(styles.AccentGold).Bold(true).Render(strings.ToUpper(h.Location))

	count := fmt.Sprintf("%d", h.Bubbles)
	if h.Suppressed > 0 {
		count += fmt.Sprintf(" (+%d hidden)", h.Suppressed)
	}
	bubbles := styles.Label.Render("Bubbles: ") + styles.Value.Render(count)

	content := logo + sep + state + sep + dock + sep + bubbles
	if h.Busy != "" {
		content += sep + h.Busy + styles.Label.Render(" materializing")
	}

	return styles.Header.Width(width).Render(content)
}
