package components

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Dallionking/bubblebar/internal/tui/styles"
)

// Hit zone ids of the confirm buttons.
const (
	ConfirmYesID = "bubblebar.confirm-yes"
	ConfirmNoID  = "bubblebar.confirm-no"
)

// Confirm is a modal yes/no prompt guarding destructive bar actions.
type Confirm struct {
	Title     string
	Message   string
	Confirmed bool
	Done      bool
	// Mark wraps each button in a hit zone; nil leaves them unmarked.
	Mark func(id, s string) string
	yes  bool
}

// NewConfirm creates a prompt with No selected.
func NewConfirm(title, message string) Confirm {
	return Confirm{Title: title, Message: message}
}

// Update answers the prompt from the keyboard.
func (d Confirm) Update(msg tea.KeyMsg) Confirm {
	switch msg.String() {
	case "y", "Y":
		d.Confirmed, d.Done = true, true
	case "n", "N", "esc", "q":
		d.Confirmed, d.Done = false, true
	case "enter":
		d.Confirmed, d.Done = d.yes, true
	case "left", "h", "tab":
		d.yes = true
	case "right", "l", "shift+tab":
		d.yes = false
	}
	return d
}

// Answer settles the prompt, as a click on one of its buttons does.
func (d Confirm) Answer(yes bool) Confirm {
	d.Confirmed, d.Done = yes, true
	return d
}

// View renders the prompt box.
func (d Confirm) View() string {
	title := lipgloss.NewStyle().Foreground(styles.StatusWarn).Bold(true).Render(d.Title)
	message := lipgloss.NewStyle().Foreground(styles.TextSecondary).Render(d.Message)

	on := lipgloss.NewStyle().
		Background(styles.AccentPrimary).
		Foreground(styles.BgDeep).
		Bold(true).
		Padding(0, 1)
	off := lipgloss.NewStyle().
		Background(styles.BgSurface).
		Foreground(styles.TextSecondary).
		Padding(0, 1)

	yesBtn, noBtn := off.Render("Yes"), on.Render("No")
	if d.yes {
		yesBtn, noBtn = on.Render("Yes"), off.Render("No")
	}
	if d.Mark != nil {
		yesBtn, noBtn = d.Mark(ConfirmYesID, yesBtn), d.Mark(ConfirmNoID, noBtn)
	}

	content := lipgloss.JoinVertical(lipgloss.Center,
		title,
		"",
		message,
		"",
		lipgloss.JoinHorizontal(lipgloss.Center, yesBtn, "  ", noBtn),
		"",
		styles.Dim("y/n or ←→ + enter"),
	)
	return lipgloss.NewStyle().
		Background(styles.BgPanel).
		Border(styles.RoundedBorder).
		BorderForeground(styles.StatusWarn).
		Padding(1, 2).
		Width(44).
		Align(lipgloss.Center).
		Render(content)
}
