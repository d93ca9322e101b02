package components

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Dallionking/bubblebar/internal/tui/styles"
)

// LogLine is one entry of the activity log.
type LogLine struct {
	Time    time.Time
	Level   string // "info", "warn", "error", "success"
	Source  string // "REMOTE", "BAR", ...
	Message string
}

// ActivityLog is a scrollable record of deltas applied and commands sent.
type ActivityLog struct {
	lines      []LogLine
	viewport   viewport.Model
	autoScroll bool
	maxLines   int
}

// NewActivityLog creates a log with the given viewport dimensions.
func NewActivityLog(width, height int) ActivityLog {
	vp := viewport.New(width, height)
	vp.Style = lipgloss.NewStyle().Background(styles.BgPanel)
	return ActivityLog{
		viewport:   vp,
		autoScroll: true,
		maxLines:   500,
	}
}

// SetSize resizes the viewport.
func (l *ActivityLog) SetSize(width, height int) {
	l.viewport.Width = width
	l.viewport.Height = height
	l.viewport.SetContent(l.renderLines())
	if l.autoScroll {
		l.viewport.GotoBottom()
	}
}

// Update handles scrolling keys and viewport messages.
func (l ActivityLog) Update(msg tea.Msg) (ActivityLog, tea.Cmd) {
	var cmd tea.Cmd

	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "G":
			// Jump to bottom and re-enable auto-scroll.
			l.autoScroll = true
			l.viewport.GotoBottom()
			return l, nil
		case "down", "j":
			l.viewport, cmd = l.viewport.Update(msg)
			if l.viewport.AtBottom() {
				l.autoScroll = true
			}
			return l, cmd
		}
	}

	l.viewport, cmd = l.viewport.Update(msg)
	if !l.viewport.AtBottom() {
		l.autoScroll = false
	}
	return l, cmd
}

// View returns the title line and the viewport.
func (l ActivityLog) View() string {
	title := lipgloss.NewStyle().
		Foreground(styles.TextSecondary).
		Bold(true).
		Render("Activity")

	if !l.autoScroll {
		title += lipgloss.NewStyle().
			Foreground(styles.StatusWarn).
			Render(" (paused, press G to follow)")
	}
	return title + "\n" + l.viewport.View()
}

// Len returns the number of retained lines.
func (l ActivityLog) Len() int { return len(l.lines) }

// AddLine appends a line, dropping the oldest past the limit.
func (l *ActivityLog) AddLine(line LogLine) {
	l.lines = append(l.lines, line)
	if len(l.lines) > l.maxLines {
		l.lines = l.lines[len(l.lines)-l.maxLines:]
	}
	l.viewport.SetContent(l.renderLines())
	if l.autoScroll {
		l.viewport.GotoBottom()
	}
}

func levelColor(level string) lipgloss.Color {
	switch strings.ToLower(level) {
	case "info":
		return styles.TextSecondary
	case "warn":
		return styles.StatusWarn
	case "error":
		return styles.StatusError
	case "success":
		return styles.StatusOK
	default:
		return styles.TextMuted
	}
}

func (l *ActivityLog) renderLines() string {
	out := make([]string, 0, len(l.lines))
	for _, line := range l.lines {
		color := levelColor(line.Level)
		ts := lipgloss.NewStyle().Foreground(styles.TextMuted).
			Render(line.Time.Format("15:04:05"))
		src := lipgloss.NewStyle().Foreground(styles.AccentSecondary).
			Render(fmt.Sprintf("%-7s", line.Source))
		msg := lipgloss.NewStyle().Foreground(color).
			Render(line.Message)
		out = append(out, ts+" "+src+" "+msg)
	}
	return joinLines(out)
}
