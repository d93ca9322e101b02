package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// Paths holds all resolved filesystem paths.
type Paths struct {
	Root       string
	ConfigFile string
	State      string
	Icons      string
	LogFile    string
	Inbox      InboxPaths
	Outbox     string
}

// InboxPaths holds the delta inbox and where processed files are moved.
type InboxPaths struct {
	Pending   string
	Processed string
	Failed    string
}

// DefaultDir returns the per-user config directory, e.g.
// ~/.config/bubblebar.
func DefaultDir() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("locating user config directory: %w", err)
	}
	return filepath.Join(base, "bubblebar"), nil
}

// NewPaths resolves every relative path in cfg against root.
func NewPaths(cfg *Config, root string) *Paths {
	abs := func(p string) string {
		if p == "" || filepath.IsAbs(p) {
			return p
		}
		return filepath.Join(root, p)
	}

	p := &Paths{
		Root:       root,
		ConfigFile: filepath.Join(root, FileName),
		State:      abs(cfg.State.Dir),
		Icons:      abs(cfg.Icons.Dir),
		Outbox:     abs(cfg.Remote.Outbox),
	}
	inbox := abs(cfg.Remote.Inbox)
	p.Inbox = InboxPaths{
		Pending:   inbox,
		Processed: filepath.Join(inbox, "processed"),
		Failed:    filepath.Join(inbox, "failed"),
	}

	// The log file sits next to the state unless configured absolutely.
	if cfg.Log.File != "" {
		p.LogFile = cfg.Log.File
		if !filepath.IsAbs(p.LogFile) {
			p.LogFile = filepath.Join(p.State, p.LogFile)
		}
	}
	return p
}

// Dirs lists every directory the bar writes to or reads from.
func (p *Paths) Dirs() []string {
	return []string{
		p.State,
		p.Icons,
		p.Inbox.Pending,
		p.Inbox.Processed,
		p.Inbox.Failed,
		p.Outbox,
	}
}

// EnsureDirectories creates all directories if they do not already exist.
// Returns the first error encountered, if any.
func EnsureDirectories(p *Paths) error {
	for _, d := range p.Dirs() {
		if err := os.MkdirAll(d, 0o755); err != nil {
			return fmt.Errorf("creating directory %s: %w", d, err)
		}
	}
	return nil
}
