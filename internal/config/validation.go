package config

import (
	"fmt"
	"sort"

	"github.com/Dallionking/bubblebar/internal/bubble"
	"github.com/Dallionking/bubblebar/internal/flags"
	"github.com/Dallionking/bubblebar/internal/logging"
)

// ValidationError describes a single config validation failure.
type ValidationError struct {
	Field   string
	Message string
}

// Error implements the error interface for a single validation error.
func (ve ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", ve.Field, ve.Message)
}

// Validate checks the Config for completeness and consistency. It returns a
// slice of all discovered issues rather than stopping at the first one.
func Validate(cfg *Config) []ValidationError {
	var errs []ValidationError
	add := func(field, format string, args ...any) {
		errs = append(errs, ValidationError{Field: field, Message: fmt.Sprintf(format, args...)})
	}

	// --- Flags ---
	known := flags.Defaults()
	var unknown []string
	for name := range cfg.Flags {
		if _, ok := known[name]; !ok {
			unknown = append(unknown, name)
		}
	}
	sort.Strings(unknown)
	for _, name := range unknown {
		add("flags."+name, "unknown feature flag")
	}

	// --- Layout ---
	l := cfg.Layout
	if l.IconSize <= 0 {
		add("layout.iconSize", "must be > 0, got %.2f", l.IconSize)
	}
	if l.Spacing < 0 {
		add("layout.spacing", "must be >= 0, got %.2f", l.Spacing)
	}
	if l.CollapsedScale <= 0 || l.CollapsedScale > 1 {
		add("layout.collapsedScale", "must be in (0, 1], got %.2f", l.CollapsedScale)
	}
	if l.MaxStacked <= 0 {
		add("layout.maxStacked", "must be > 0, got %d", l.MaxStacked)
	}

	// --- Animation ---
	a := cfg.Animation
	for field, ms := range map[string]int{
		"animation.expandMs":     a.ExpandMs,
		"animation.stashMs":      a.StashMs,
		"animation.arrowMs":      a.ArrowMs,
		"animation.populationMs": a.PopulationMs,
	} {
		if ms < 0 {
			add(field, "must be >= 0, got %d", ms)
		}
	}
	if a.FPS <= 0 || a.FPS > 240 {
		add("animation.fps", "must be in (0, 240], got %d", a.FPS)
	}
	if a.SpringFreq <= 0 {
		add("animation.springFrequency", "must be > 0, got %.2f", a.SpringFreq)
	}
	if a.SpringDamp <= 0 {
		add("animation.springDamping", "must be > 0, got %.2f", a.SpringDamp)
	}

	// --- Drag ---
	d := cfg.Drag
	if d.LongPressMs <= 0 {
		add("drag.longPressMs", "must be > 0, got %d", d.LongPressMs)
	}
	if d.Slop <= 0 {
		add("drag.slop", "must be > 0, got %.2f", d.Slop)
	}
	if d.EdgeFraction <= 0 || d.EdgeFraction >= 0.5 {
		add("drag.edgeFraction", "must be in (0, 0.5), got %.2f", d.EdgeFraction)
	}
	if d.DismissHeight < 0 || d.FullscreenHeight < 0 {
		add("drag.dismissHeight / fullscreenHeight", "must be >= 0")
	}

	// --- Screen ---
	if _, err := bubble.ParseLocation(cfg.Screen.Location); err != nil {
		add("screen.location", "%v", err)
	}

	// --- Remote, icons, state ---
	if cfg.Remote.Inbox == "" {
		add("remote.inbox", "required field is empty")
	}
	if cfg.Remote.Outbox == "" {
		add("remote.outbox", "required field is empty")
	}
	if cfg.Remote.Inbox != "" && cfg.Remote.Inbox == cfg.Remote.Outbox {
		add("remote.outbox", "must differ from remote.inbox")
	}
	if cfg.Remote.DebounceMs < 0 {
		add("remote.debounceMs", "must be >= 0, got %d", cfg.Remote.DebounceMs)
	}
	if cfg.Icons.Workers < 1 {
		add("icons.workers", "must be >= 1, got %d", cfg.Icons.Workers)
	}
	if cfg.Icons.Size <= 0 {
		add("icons.size", "must be > 0, got %d", cfg.Icons.Size)
	}
	if cfg.Icons.BadgeSize <= 0 || cfg.Icons.BadgeSize > cfg.Icons.Size {
		add("icons.badgeSize", "must be in (0, icons.size], got %d", cfg.Icons.BadgeSize)
	}
	if cfg.State.Dir == "" {
		add("state.dir", "required field is empty")
	}

	// --- Log ---
	if _, err := logging.ParseLevel(cfg.Log.Level); err != nil {
		add("log.level", "%v", err)
	}

	sort.SliceStable(errs, func(i, j int) bool { return errs[i].Field < errs[j].Field })
	return errs
}
