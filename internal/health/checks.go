package health

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/Dallionking/bubblebar/internal/config"
	"github.com/Dallionking/bubblebar/internal/flags"
	"github.com/Dallionking/bubblebar/internal/persist"
	"github.com/Dallionking/bubblebar/internal/remote"
)

// registerChecks registers the checks across three categories.
func (c *Checker) registerChecks() {
	// Config checks
	c.add("config-file", "config", c.checkConfigFile)
	c.add("config-valid", "config", c.checkConfigValid)
	c.add("bubble-bar-flag", "config", c.checkBubbleBarFlag)

	// Storage checks
	c.add("state-dir", "storage", c.writable(func() string { return c.paths.State }))
	c.add("saved-state", "storage", c.checkSavedState)
	c.add("icon-dir", "storage", c.checkIconDir)

	// Remote checks
	c.add("inbox", "remote", c.checkInbox)
	c.add("outbox", "remote", c.writable(func() string { return c.paths.Outbox }))
}

// ---------------------------------------------------------------------------
// Config checks
// ---------------------------------------------------------------------------

func (c *Checker) checkConfigFile(_ context.Context) CheckResult {
	if c.cfgFile == "" {
		return CheckResult{Status: StatusWarn, Message: "no bubblebar.json found, using defaults"}
	}
	return CheckResult{Status: StatusPass, Message: c.cfgFile}
}

func (c *Checker) checkConfigValid(_ context.Context) CheckResult {
	errs := config.Validate(c.cfg)
	if len(errs) == 0 {
		return CheckResult{Status: StatusPass, Message: "all settings in range"}
	}
	msgs := make([]string, 0, len(errs))
	for _, e := range errs {
		msgs = append(msgs, e.Error())
	}
	return CheckResult{Status: StatusFail, Message: strings.Join(msgs, "; ")}
}

func (c *Checker) checkBubbleBarFlag(_ context.Context) CheckResult {
	table := c.cfg.FlagTable()
	if !table.Enabled(flags.BubbleBar) {
		return CheckResult{Status: StatusFail, Message: flags.BubbleBar + " is off"}
	}
	var off []string
	for _, name := range table.Names() {
		if !table.Enabled(name) {
			off = append(off, name)
		}
	}
	if len(off) > 0 {
		return CheckResult{Status: StatusPass, Message: "enabled; off: " + strings.Join(off, ", ")}
	}
	return CheckResult{Status: StatusPass, Message: "enabled"}
}

// ---------------------------------------------------------------------------
// Storage checks
// ---------------------------------------------------------------------------

// writable checks a directory exists and accepts a file.
func (c *Checker) writable(dir func() string) func(context.Context) CheckResult {
	return func(_ context.Context) CheckResult {
		d := dir()
		fi, err := os.Stat(d)
		if err != nil {
			return CheckResult{Status: StatusFail, Message: fmt.Sprintf("missing: %s (run bubblebar init)", d)}
		}
		if !fi.IsDir() {
			return CheckResult{Status: StatusFail, Message: fmt.Sprintf("not a directory: %s", d)}
		}
		f, err := os.CreateTemp(d, ".doctor-*")
		if err != nil {
			return CheckResult{Status: StatusFail, Message: fmt.Sprintf("not writable: %s", d)}
		}
		f.Close()
		os.Remove(f.Name())
		return CheckResult{Status: StatusPass, Message: d}
	}
}

func (c *Checker) checkSavedState(_ context.Context) CheckResult {
	if _, err := os.Stat(c.paths.State); err != nil {
		return CheckResult{Status: StatusWarn, Message: "state directory missing"}
	}
	snap, err := persist.Open(c.paths.State, c.log).Load()
	switch {
	case errors.Is(err, persist.ErrNoState):
		return CheckResult{Status: StatusPass, Message: "nothing saved yet"}
	case err != nil:
		return CheckResult{Status: StatusFail, Message: err.Error()}
	}
	return CheckResult{
		Status: StatusPass,
		Message: fmt.Sprintf("%d visible, %d suppressed, docked %s",
			len(snap.Visible), len(snap.Suppressed), snap.Location),
	}
}

func (c *Checker) checkIconDir(_ context.Context) CheckResult {
	entries, err := os.ReadDir(c.paths.Icons)
	if err != nil {
		return CheckResult{Status: StatusWarn, Message: "icon directory missing, bubbles need a tint"}
	}
	n := 0
	for _, e := range entries {
		if !e.IsDir() && strings.EqualFold(filepath.Ext(e.Name()), ".png") {
			n++
		}
	}
	if n == 0 {
		return CheckResult{Status: StatusWarn, Message: "no .png icons found"}
	}
	return CheckResult{Status: StatusPass, Message: fmt.Sprintf("%d icons", n)}
}

// ---------------------------------------------------------------------------
// Remote checks
// ---------------------------------------------------------------------------

func (c *Checker) checkInbox(_ context.Context) CheckResult {
	if _, err := os.Stat(c.paths.Inbox.Pending); err != nil {
		return CheckResult{Status: StatusFail, Message: fmt.Sprintf("missing: %s (run bubblebar init)", c.paths.Inbox.Pending)}
	}
	dir, err := remote.NewDir(c.paths.Inbox.Pending)
	if err != nil {
		return CheckResult{Status: StatusFail, Message: err.Error()}
	}
	depth, err := dir.Depth()
	if err != nil {
		return CheckResult{Status: StatusFail, Message: err.Error()}
	}
	msg := fmt.Sprintf("%d pending, %d processed, %d failed", depth.Pending, depth.Processed, depth.Failed)
	if depth.Failed > 0 {
		return CheckResult{Status: StatusWarn, Message: msg}
	}
	return CheckResult{Status: StatusPass, Message: msg}
}
