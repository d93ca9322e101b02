package bar

import (
	"context"
	"time"

	"github.com/Dallionking/bubblebar/internal/bubble"
	"github.com/Dallionking/bubblebar/internal/flags"
	"github.com/Dallionking/bubblebar/internal/persist"
)

// Snapshot captures the bar for persistence.
func (c *Controller) Snapshot(now time.Time) persist.Snapshot {
	return persist.Take(c.reg, c.location, now)
}

// Restore replays a saved snapshot into an empty bar, materializing each
// bubble synchronously. It must run before any delta is applied.
func (c *Controller) Restore(ctx context.Context, snap persist.Snapshot, mat Materializer, now time.Time) int {
	if !c.flags.Enabled(flags.OptionalOverflow) {
		snap.Visible = withoutOverflow(snap.Visible)
		snap.Suppressed = withoutOverflow(snap.Suppressed)
	}
	n := persist.Replay(snap, c.reg, func(d bubble.Descriptor) (*bubble.Entry, bool) {
		p, ok := mat.Materialize(ctx, d)
		if !ok {
			c.log.Warn().Str("key", d.Key).Msg("saved bubble no longer resolves, skipped")
			return nil, false
		}
		return bubble.NewEntry(d, p), true
	})
	c.location = snap.Location
	c.machine.SelectionChanged(c.reg.SelectedKey(), now)
	c.log.Info().Int("bubbles", n).Str("location", c.location.String()).Msg("bar state restored")
	return n
}

func withoutOverflow(ds []bubble.Descriptor) []bubble.Descriptor {
	out := make([]bubble.Descriptor, 0, len(ds))
	for _, d := range ds {
		if d.Key != bubble.OverflowKey {
			out = append(out, d)
		}
	}
	return out
}
