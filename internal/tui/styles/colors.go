package styles

import "github.com/charmbracelet/lipgloss"

// Night palette: deep backgrounds, cyan accents.

var (
	// Backgrounds (darkest to lightest)
	BgDeep    = lipgloss.Color("#0a0e14") // stage
	BgPanel   = lipgloss.Color("#11151c") // activity log, flyout
	BgSurface = lipgloss.Color("#1a1f2e") // bar body
	BgHover   = lipgloss.Color("#232a3b") // highlighted drop zone

	// Accents
	AccentPrimary   = lipgloss.Color("#4fc1ff") // selection arrow, handle, focus
	AccentSecondary = lipgloss.Color("#39c5bb") // sources in the activity log
	AccentGold      = lipgloss.Color("#f5a623") // unseen-content dot

	// Status
	StatusOK    = lipgloss.Color("#22c55e")
	StatusWarn  = lipgloss.Color("#f59e0b")
	StatusError = lipgloss.Color("#ef4444")
	StatusInfo  = lipgloss.Color("#4fc1ff")

	// Text
	TextPrimary   = lipgloss.Color("#e2e8f0")
	TextSecondary = lipgloss.Color("#94a3b8")
	TextMuted     = lipgloss.Color("#64748b")

	// Borders
	BorderNormal  = lipgloss.Color("#2d3748")
	BorderFocused = lipgloss.Color("#4fc1ff")

	// Overflow bubble fill
	OverflowFill = lipgloss.Color("#475569")
)
