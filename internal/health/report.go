package health

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/Dallionking/bubblebar/internal/tui/styles"
)

// categories in display order, with the command that usually repairs a
// failure in each.
var categories = []struct {
	key, label, fix string
}{
	{"config", "Configuration", "bubblebar config validate"},
	{"storage", "State & Icons", "bubblebar init"},
	{"remote", "Authority Link", "bubblebar init"},
}

var (
	reportTitle = lipgloss.NewStyle().Foreground(styles.AccentPrimary).Bold(true)
	reportCat   = lipgloss.NewStyle().Foreground(styles.AccentSecondary).Bold(true).MarginTop(1)
	reportName  = lipgloss.NewStyle().Width(18).Foreground(styles.TextPrimary)
	reportMsg   = lipgloss.NewStyle().Width(44).Foreground(styles.TextSecondary)
	reportDur   = lipgloss.NewStyle().Width(7).Foreground(styles.TextMuted).Align(lipgloss.Right)
)

// FormatReport renders r for bubblebar doctor.
func FormatReport(r *Report) string {
	var b strings.Builder
	b.WriteString("\n  " + reportTitle.Render("Bubble Bar Doctor") + "\n")
	b.WriteString("  " + styles.Divider(50) + "\n")

	var fixes []string
	for _, cat := range categories {
		var rows []CheckResult
		failed := false
		for _, res := range r.Results {
			if res.Category == cat.key {
				rows = append(rows, res)
				failed = failed || res.Status == StatusFail
			}
		}
		if len(rows) == 0 {
			continue
		}
		b.WriteString("\n  " + reportCat.Render(cat.label) + "\n")
		for _, res := range rows {
			fmt.Fprintf(&b, "  %s %s %s %s\n",
				statusSymbol(res.Status),
				reportName.Render(res.Name),
				reportMsg.Render(styles.TruncateWithEllipsis(res.Message, 42)),
				reportDur.Render(shortDuration(res.Duration)))
		}
		if failed && !contains(fixes, cat.fix) {
			fixes = append(fixes, cat.fix)
		}
	}

	b.WriteString("\n  " + styles.Divider(50) + "\n")
	summary := fmt.Sprintf("%d/%d passed", r.Passed, r.Total)
	if r.Warned > 0 {
		summary += fmt.Sprintf(", %d warning(s)", r.Warned)
	}
	if r.Failed > 0 {
		summary += fmt.Sprintf(", %d failed", r.Failed)
	}
	b.WriteString("  " + styles.Dim(summary) + "  " + overallBadge(r) + "\n")
	for _, fix := range fixes {
		b.WriteString("  next: " + styles.Cyan(fix) + "\n")
	}
	b.WriteString(styles.Dim("  completed in "+shortDuration(r.Duration)) + "\n")
	return b.String()
}

func statusSymbol(s Status) string {
	switch s {
	case StatusPass:
		return styles.Green("+")
	case StatusWarn:
		return lipgloss.NewStyle().Foreground(styles.StatusWarn).Render("!")
	case StatusFail:
		return styles.Red("x")
	default:
		return styles.Dim("?")
	}
}

func overallBadge(r *Report) string {
	switch {
	case r.Failed > 0:
		return lipgloss.NewStyle().Foreground(styles.StatusError).Bold(true).Render("UNHEALTHY")
	case r.Warned > 0:
		return lipgloss.NewStyle().Foreground(styles.StatusWarn).Bold(true).Render("DEGRADED")
	default:
		return lipgloss.NewStyle().Foreground(styles.StatusOK).Bold(true).Render("HEALTHY")
	}
}

func shortDuration(d time.Duration) string {
	switch {
	case d < time.Millisecond:
		return "<1ms"
	case d < time.Second:
		return fmt.Sprintf("%dms", d.Milliseconds())
	default:
		return fmt.Sprintf("%.1fs", d.Seconds())
	}
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
