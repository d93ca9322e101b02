// Package persist saves the bar's bubbles across restarts.
package persist

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/peterbourgon/diskv/v3"
	"github.com/rs/zerolog"

	"github.com/Dallionking/bubblebar/internal/bubble"
)

// ErrNoState is returned by Load when nothing has been saved yet.
var ErrNoState = errors.New("no saved bar state")

const (
	stateKey      = "bar-state"
	schemaVersion = 1
)

// Snapshot is the persisted form of the bar: visible bubbles in display
// order and suppressed bubbles in suppression order. Payloads are not
// stored; they are materialized again on restore.
type Snapshot struct {
	Version    int                 `json:"version"`
	SavedAt    time.Time           `json:"saved_at"`
	Location   bubble.Location     `json:"location"`
	Selected   string              `json:"selected,omitempty"`
	Visible    []bubble.Descriptor `json:"visible"`
	Suppressed []bubble.Descriptor `json:"suppressed,omitempty"`
}

// Take captures reg and loc.
func Take(reg *bubble.Registry, loc bubble.Location, now time.Time) Snapshot {
	s := Snapshot{
		Version:  schemaVersion,
		SavedAt:  now,
		Location: loc,
		Selected: reg.SelectedKey(),
	}
	for _, e := range reg.Visible() {
		s.Visible = append(s.Visible, e.Descriptor())
	}
	for _, e := range reg.Suppressed() {
		s.Suppressed = append(s.Suppressed, e.Descriptor())
	}
	return s
}

// Build materializes a descriptor into an entry. ok is false when the
// bubble can no longer be resolved.
type Build func(d bubble.Descriptor) (e *bubble.Entry, ok bool)

// Replay rebuilds reg from s through the registry's own operations: visible
// bubbles are added front-first in reverse order so the final order matches
// the saved one, then suppressed bubbles are added and suppressed in order.
// Bubbles that no longer materialize are skipped. It returns the number of
// bubbles restored.
func Replay(s Snapshot, reg *bubble.Registry, build Build) int {
	n := 0
	restore := func(d bubble.Descriptor) bool {
		if d.Key == bubble.OverflowKey {
			reg.AddVisible(bubble.NewOverflow(), bubble.PositionFront)
			return true
		}
		e, ok := build(d)
		if !ok {
			return false
		}
		reg.AddVisible(e, bubble.PositionFront)
		n++
		return true
	}
	for i := len(s.Visible) - 1; i >= 0; i-- {
		restore(s.Visible[i])
	}
	for _, d := range s.Suppressed {
		if restore(d) {
			reg.Suppress(d.Key)
		}
	}
	if s.Selected != "" && reg.IsVisible(s.Selected) {
		reg.Select(s.Selected)
	}
	return n
}

// Store keeps snapshots on disk.
type Store struct {
	d   *diskv.Diskv
	dir string
	log zerolog.Logger
}

// Open returns a store rooted at dir.
func Open(dir string, log zerolog.Logger) *Store {
	return &Store{
		d: diskv.New(diskv.Options{
			BasePath:     dir,
			CacheSizeMax: 256 * 1024,
		}),
		dir: dir,
		log: log.With().Str("component", "persist").Logger(),
	}
}

// Dir returns the directory the store writes to.
func (s *Store) Dir() string { return s.dir }

// Save writes snap, replacing any earlier snapshot.
func (s *Store) Save(snap Snapshot) error {
	snap.Version = schemaVersion
	b, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding bar state: %w", err)
	}
	if err := s.d.Write(stateKey, b); err != nil {
		return fmt.Errorf("writing bar state: %w", err)
	}
	s.log.Info().Int("visible", len(snap.Visible)).Int("suppressed", len(snap.Suppressed)).Msg("bar state saved")
	return nil
}

// Load reads the last snapshot. It returns ErrNoState if there is none.
func (s *Store) Load() (Snapshot, error) {
	if !s.d.Has(stateKey) {
		return Snapshot{}, ErrNoState
	}
	b, err := s.d.Read(stateKey)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Snapshot{}, ErrNoState
		}
		return Snapshot{}, fmt.Errorf("reading bar state: %w", err)
	}
	var snap Snapshot
	if err := json.Unmarshal(b, &snap); err != nil {
		return Snapshot{}, fmt.Errorf("decoding bar state: %w", err)
	}
	if snap.Version > schemaVersion {
		return Snapshot{}, fmt.Errorf("bar state version %d is newer than supported %d", snap.Version, schemaVersion)
	}
	return snap, nil
}

// Clear forgets the saved snapshot.
func (s *Store) Clear() error {
	if !s.d.Has(stateKey) {
		return nil
	}
	if err := s.d.Erase(stateKey); err != nil {
		return fmt.Errorf("erasing bar state: %w", err)
	}
	return nil
}
