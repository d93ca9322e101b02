package bubble

import (
	"github.com/rs/zerolog"
)

// PositionFront inserts a new visible entry ahead of every other entry.
const PositionFront = 0

// Registry is the authoritative ordered collection of bubbles. The visible
// order is most-recent-first with the overflow entry pinned last; the
// suppressed set shares the key space but never overlaps the visible one.
//
// Registry does no locking. It is owned by the goroutine that runs the
// bar controller.
type Registry struct {
	visible    []*Entry
	suppressed []*Entry
	selected   string
	log        zerolog.Logger
}

// NewRegistry returns an empty registry that logs stale-reference no-ops
// through log.
func NewRegistry(log zerolog.Logger) *Registry {
	return &Registry{log: log.With().Str("component", "registry").Logger()}
}

// AddVisible inserts e at position. The overflow entry always goes last
// and regular entries can never be placed after it. A key that is already
// visible is updated in place and moved; a suppressed key leaves the
// suppressed set.
func (r *Registry) AddVisible(e *Entry, position int) {
	if e == nil {
		return
	}
	if i := indexOf(r.suppressed, e.key); i >= 0 {
		r.suppressed = removeAt(r.suppressed, i)
	}

	if i := indexOf(r.visible, e.key); i >= 0 {
		existing := r.visible[i]
		existing.Update(e)
		r.visible = removeAt(r.visible, i)
		e = existing
	}

	if e.overflow {
		r.visible = append(r.visible, e)
		return
	}

	limit := len(r.visible)
	if n := len(r.visible); n > 0 && r.visible[n-1].overflow {
		limit = n - 1
	}
	if position < 0 {
		position = 0
	}
	if position > limit {
		position = limit
	}

	r.visible = append(r.visible, nil)
	copy(r.visible[position+1:], r.visible[position:])
	r.visible[position] = e
}

// RemoveVisible removes key from the visible order and returns the entry.
// Removing the selected key clears the selection; choosing a replacement is
// the caller's job.
func (r *Registry) RemoveVisible(key string) (*Entry, bool) {
	i := indexOf(r.visible, key)
	if i < 0 {
		r.log.Warn().Str("key", key).Msg("remove of unknown bubble ignored")
		return nil, false
	}
	e := r.visible[i]
	r.visible = removeAt(r.visible, i)
	if r.selected == key {
		r.selected = ""
	}
	return e, true
}

// Suppress hides a visible bubble while keeping it for later restoration.
func (r *Registry) Suppress(key string) bool {
	i := indexOf(r.visible, key)
	if i < 0 {
		r.log.Warn().Str("key", key).Msg("suppress of unknown bubble ignored")
		return false
	}
	e := r.visible[i]
	if e.overflow {
		r.log.Warn().Msg("overflow entry cannot be suppressed")
		return false
	}
	r.visible = removeAt(r.visible, i)
	r.suppressed = append(r.suppressed, e)
	if r.selected == key {
		r.selected = ""
	}
	return true
}

// Unsuppress moves a suppressed bubble back to the front of the visible
// order.
func (r *Registry) Unsuppress(key string) bool {
	i := indexOf(r.suppressed, key)
	if i < 0 {
		r.log.Warn().Str("key", key).Msg("unsuppress of unknown bubble ignored")
		return false
	}
	e := r.suppressed[i]
	r.suppressed = removeAt(r.suppressed, i)
	r.AddVisible(e, PositionFront)
	return true
}

// RemoveSuppressed drops a suppressed bubble for good.
func (r *Registry) RemoveSuppressed(key string) (*Entry, bool) {
	i := indexOf(r.suppressed, key)
	if i < 0 {
		return nil, false
	}
	e := r.suppressed[i]
	r.suppressed = removeAt(r.suppressed, i)
	return e, true
}

// Reorder arranges the visible entries so the listed keys come first in the
// given order. Visible keys that are not listed keep their relative order
// after them, unknown keys are ignored and the overflow entry stays last.
func (r *Registry) Reorder(keys []string) {
	out := make([]*Entry, 0, len(r.visible))
	placed := make(map[string]bool, len(keys))
	var overflow *Entry

	for _, k := range keys {
		if placed[k] {
			continue
		}
		i := indexOf(r.visible, k)
		if i < 0 {
			r.log.Debug().Str("key", k).Msg("reorder skips unknown bubble")
			continue
		}
		placed[k] = true
		if r.visible[i].overflow {
			overflow = r.visible[i]
			continue
		}
		out = append(out, r.visible[i])
	}
	for _, e := range r.visible {
		if placed[e.key] {
			continue
		}
		if e.overflow {
			overflow = e
			continue
		}
		out = append(out, e)
	}
	if overflow != nil {
		out = append(out, overflow)
	}
	r.visible = out
}

// Select marks a visible bubble as selected.
func (r *Registry) Select(key string) bool {
	if indexOf(r.visible, key) < 0 {
		r.log.Warn().Str("key", key).Msg("select of non-visible bubble ignored")
		return false
	}
	r.selected = key
	return true
}

// ClearSelection unsets the selection.
func (r *Registry) ClearSelection() {
	r.selected = ""
}

// Clear drops every entry and the selection.
func (r *Registry) Clear() {
	r.visible = nil
	r.suppressed = nil
	r.selected = ""
}

// Visible returns the visible entries in display order.
func (r *Registry) Visible() []*Entry {
	out := make([]*Entry, len(r.visible))
	copy(out, r.visible)
	return out
}

// VisibleKeys returns the keys of the visible entries in display order.
func (r *Registry) VisibleKeys() []string {
	keys := make([]string, len(r.visible))
	for i, e := range r.visible {
		keys[i] = e.key
	}
	return keys
}

// Suppressed returns the suppressed entries in suppression order.
func (r *Registry) Suppressed() []*Entry {
	out := make([]*Entry, len(r.suppressed))
	copy(out, r.suppressed)
	return out
}

// Get looks a key up in the visible and suppressed sets.
func (r *Registry) Get(key string) (*Entry, bool) {
	if i := indexOf(r.visible, key); i >= 0 {
		return r.visible[i], true
	}
	if i := indexOf(r.suppressed, key); i >= 0 {
		return r.suppressed[i], true
	}
	return nil, false
}

// IsVisible reports whether key is in the visible order.
func (r *Registry) IsVisible(key string) bool {
	return indexOf(r.visible, key) >= 0
}

// IsSuppressed reports whether key is in the suppressed set.
func (r *Registry) IsSuppressed(key string) bool {
	return indexOf(r.suppressed, key) >= 0
}

// Selected returns the selected entry, or nil.
func (r *Registry) Selected() *Entry {
	if r.selected == "" {
		return nil
	}
	if i := indexOf(r.visible, r.selected); i >= 0 {
		return r.visible[i]
	}
	return nil
}

// SelectedKey returns the selected key, or "".
func (r *Registry) SelectedKey() string {
	return r.selected
}

// First returns the first visible entry, or nil.
func (r *Registry) First() *Entry {
	if len(r.visible) == 0 {
		return nil
	}
	return r.visible[0]
}

// Overflow returns the overflow entry if it is visible.
func (r *Registry) Overflow() *Entry {
	if n := len(r.visible); n > 0 && r.visible[n-1].overflow {
		return r.visible[n-1]
	}
	return nil
}

// Len returns the number of visible entries, overflow included.
func (r *Registry) Len() int {
	return len(r.visible)
}

// BubbleCount returns the number of visible entries excluding overflow.
func (r *Registry) BubbleCount() int {
	if r.Overflow() != nil {
		return len(r.visible) - 1
	}
	return len(r.visible)
}

func indexOf(entries []*Entry, key string) int {
	for i, e := range entries {
		if e.key == key {
			return i
		}
	}
	return -1
}

func removeAt(entries []*Entry, i int) []*Entry {
	copy(entries[i:], entries[i+1:])
	entries[len(entries)-1] = nil
	return entries[:len(entries)-1]
}
