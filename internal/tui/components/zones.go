package components

import (
	tea "github.com/charmbracelet/bubbletea"
	zone "github.com/lrstanley/bubblezone"

	"github.com/Dallionking/bubblebar/internal/drag"
)

// Hit zone ids of the drop strips.
const (
	ZoneDockLeftID   = "bubblebar.dock-left"
	ZoneDockRightID  = "bubblebar.dock-right"
	ZoneDismissID    = "bubblebar.dismiss"
	ZoneFullscreenID = "bubblebar.fullscreen"
)

// Bounds is a rendered hit zone.
type Bounds interface {
	InBounds(e tea.MouseMsg) bool
}

// GlobalZone looks id up in the global bubblezone manager.
func GlobalZone(id string) Bounds {
	if zi := zone.Get(id); zi != nil {
		return zi
	}
	return nil
}

// ZoneResolver resolves drop zones from the strips last rendered by Stage.
// Until a strip has been rendered it defers to Edge.
type ZoneResolver struct {
	Lookup func(id string) Bounds
	// Top is the terminal row the stage starts on.
	Top  int
	Edge drag.EdgeResolver
}

// Resolve implements drag.ZoneResolver. Dismiss wins over everything,
// then fullscreen, then the dock strips.
func (r *ZoneResolver) Resolve(p drag.Point) drag.Zone {
	lookup := r.Lookup
	if lookup == nil {
		lookup = GlobalZone
	}
	msg := tea.MouseMsg{X: col(p.X), Y: r.Top + row(p.Y)}
	order := []struct {
		id   string
		zone drag.Zone
	}{
		{ZoneDismissID, drag.ZoneDismiss},
		{ZoneFullscreenID, drag.ZoneFullscreen},
		{ZoneDockLeftID, drag.ZoneDockLeft},
		{ZoneDockRightID, drag.ZoneDockRight},
	}
	known := false
	for _, o := range order {
		if o.zone == drag.ZoneFullscreen && !r.Edge.FullscreenEnabled {
			continue
		}
		b := lookup(o.id)
		if b == nil {
			continue
		}
		known = true
		if b.InBounds(msg) {
			return o.zone
		}
	}
	if !known {
		return r.Edge.Resolve(p)
	}
	return drag.ZoneNone
}
