package styles

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// ---------------------------------------------------------------------------
// Panels
// ---------------------------------------------------------------------------

// Flyout frames the expanded view's title and message above the bar.
var Flyout = lipgloss.NewStyle().
	Background(BgPanel).
	Foreground(TextPrimary).
	Border(RoundedBorder).
	BorderForeground(BorderFocused).
	PaddingLeft(1).
	PaddingRight(1)

// HelpPanel frames the rendered help text.
var HelpPanel = lipgloss.NewStyle().
	Border(RoundedBorder).
	BorderForeground(BorderNormal).
	Padding(0, 1)

// ---------------------------------------------------------------------------
// Header / Footer
// ---------------------------------------------------------------------------

// Header spans the full width with bold cyan text on the deepest background.
var Header = lipgloss.NewStyle().
	Background(BgDeep).
	Foreground(AccentPrimary).
	Bold(true).
	PaddingLeft(1).
	PaddingRight(1)

// Footer spans the full width with muted text on the deepest background.
var Footer = lipgloss.NewStyle().
	Background(BgDeep).
	Foreground(TextMuted).
	PaddingLeft(1).
	PaddingRight(1)

// Button is a clickable footer action.
var Button = lipgloss.NewStyle().
	Background(BgSurface).
	Foreground(TextPrimary).
	Padding(0, 1)

// ---------------------------------------------------------------------------
// Badges and typography
// ---------------------------------------------------------------------------

// Badge returns an inline colored badge such as "● EXPANDED".
func Badge(text string, color lipgloss.Color) string {
	dot := lipgloss.NewStyle().Foreground(color).Render("●")
	label := lipgloss.NewStyle().
		Foreground(color).
		Bold(true).
		Render(text)
	return dot + " " + label
}

// Title is bold AccentPrimary text for section headings.
var Title = lipgloss.NewStyle().
	Foreground(AccentPrimary).
	Bold(true)

// Label is TextMuted text for field labels.
var Label = lipgloss.NewStyle().
	Foreground(TextMuted)

// Value is bold TextPrimary text for data values.
var Value = lipgloss.NewStyle().
	Foreground(TextPrimary).
	Bold(true)

// Divider returns a horizontal rule of the given width.
func Divider(width int) string {
	if width <= 0 {
		return ""
	}
	line := strings.Repeat("─", width)
	return lipgloss.NewStyle().Foreground(BorderNormal).Render(line)
}
