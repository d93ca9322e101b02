package styles

import (
	"strings"
	"unicode"

	"github.com/charmbracelet/lipgloss"
)

// Dim renders s in TextMuted.
func Dim(s string) string {
	return lipgloss.NewStyle().Foreground(TextMuted).Render(s)
}

// Cyan renders s in AccentPrimary.
func Cyan(s string) string {
	return lipgloss.NewStyle().Foreground(AccentPrimary).Render(s)
}

// Green renders s in StatusOK.
func Green(s string) string {
	return lipgloss.NewStyle().Foreground(StatusOK).Render(s)
}

// Red renders s in StatusError.
func Red(s string) string {
	return lipgloss.NewStyle().Foreground(StatusError).Render(s)
}

// Bold renders s in bold TextPrimary.
func Bold(s string) string {
	return lipgloss.NewStyle().Bold(true).Foreground(TextPrimary).Render(s)
}

// TruncateWithEllipsis shortens s to max runes, appending "..." when
// truncation occurs. If max is less than 4 the string is simply cut.
func TruncateWithEllipsis(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	if max < 4 {
		return string(runes[:max])
	}
	return string(runes[:max-3]) + "..."
}

// Initials returns up to n upper-case letters naming an app: the first
// letter of each word, or the leading letters of a single word.
func Initials(name string, n int) string {
	if n <= 0 {
		return ""
	}
	words := strings.FieldsFunc(name, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	var out []rune
	if len(words) > 1 {
		for _, w := range words {
			out = append(out, []rune(w)[0])
			if len(out) == n {
				break
			}
		}
	} else if len(words) == 1 {
		out = []rune(words[0])
		if len(out) > n {
			out = out[:n]
		}
	}
	return strings.ToUpper(string(out))
}
