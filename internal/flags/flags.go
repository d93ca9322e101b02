// Package flags is the read-only feature-flag table consumed at startup.
package flags

import (
	"sort"
	"strings"
)

// Flag names understood by the bar.
const (
	BubbleBar          = "enable_bubble_bar"
	OptionalOverflow   = "enable_optional_bubble_overflow"
	BubbleToFullscreen = "enable_bubble_to_fullscreen"
	BubbleBarStash     = "enable_bubble_bar_stash"
	PersistState       = "enable_bubble_bar_persist_state"
)

// Defaults returns the value of every known flag when nothing overrides it.
func Defaults() map[string]bool {
	return map[string]bool{
		BubbleBar:          true,
		OptionalOverflow:   true,
		BubbleToFullscreen: false,
		BubbleBarStash:     true,
		PersistState:       true,
	}
}

// Table is an immutable name → bool lookup. The zero value reports every
// flag as disabled.
type Table struct {
	values map[string]bool
}

// New builds a table from the defaults overlaid with overrides. Names are
// matched case-insensitively.
func New(overrides map[string]bool) Table {
	values := Defaults()
	for name, v := range overrides {
		values[normalize(name)] = v
	}
	return Table{values: values}
}

// Enabled reports whether name is on. Unknown names are off.
func (t Table) Enabled(name string) bool {
	return t.values[normalize(name)]
}

// Known reports whether the table has a value for name.
func (t Table) Known(name string) bool {
	_, ok := t.values[normalize(name)]
	return ok
}

// Names returns every flag name, sorted.
func (t Table) Names() []string {
	names := make([]string, 0, len(t.values))
	for name := range t.values {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Map returns a copy of the table.
func (t Table) Map() map[string]bool {
	out := make(map[string]bool, len(t.values))
	for k, v := range t.values {
		out[k] = v
	}
	return out
}

func normalize(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
