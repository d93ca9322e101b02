package bar

import (
	"github.com/Dallionking/bubblebar/internal/anim"
	"github.com/Dallionking/bubblebar/internal/bubble"
	"github.com/Dallionking/bubblebar/internal/drag"
	"github.com/Dallionking/bubblebar/internal/layout"
)

// View is everything a renderer needs for one frame. Coordinates in Frame
// are relative to Origin.
type View struct {
	Frame    layout.Frame
	Origin   drag.Point
	Handle   layout.Rect
	State    State
	Location bubble.Location
	Selected string
	Entries  map[string]*bubble.Entry
	Dragging bool
	Target   drag.Target
	Zone     drag.Zone
	Stuck    bool
	Screen   Screen
}

// Stashed reports whether the handle, not the bar, should be drawn.
func (v View) Stashed() bool {
	return v.State == StateStashed
}

// View computes the current frame.
func (c *Controller) View() View {
	in := c.input()
	f := c.engine.Layout(in)
	origin := c.restOrigin(f)

	v := View{
		State:    c.machine.State(),
		Location: in.Location,
		Selected: in.Selected,
		Entries:  c.entries(),
		Screen:   c.screen,
	}

	session, active := c.drag.Session()
	dragging := active && c.drag.Dragging()
	if dragging {
		v.Dragging = true
		v.Target = session.Target
		v.Zone = session.Zone
		v.Stuck = session.Stuck
	}

	overrides := make(map[string]layout.Override, len(c.frozen)+1)
	for k, o := range c.frozen {
		overrides[k] = o
	}
	switch {
	case dragging && session.Target.Bar:
		origin = c.anchor.Add(session.Translation())
	case dragging:
		if slot, ok := c.slot(f, origin, session.Target.Key); ok {
			want := c.anchor.Add(session.Translation())
			overrides[session.Target.Key] = layout.Override{DX: want.X - slot.X, DY: want.Y - slot.Y}
		}
	case c.springing && c.springBar:
		origin = origin.Add(drag.Point{X: c.spring.X, Y: c.spring.Y})
	case c.springing:
		overrides[c.springKey] = layout.Override{DX: c.spring.X, DY: c.spring.Y}
	}
	if len(overrides) > 0 {
		in.Overrides = overrides
		f = c.engine.Layout(in)
	}

	v.Frame = f
	v.Origin = origin
	h := c.engine.Handle(c.screen.Width, in.Location)
	h.Y = c.screen.Height - c.screen.Bottom - h.Height
	v.Handle = h
	return v
}

func (c *Controller) input() layout.Input {
	visible := c.reg.Visible()
	items := make([]layout.Item, 0, len(visible)+len(c.ghosts))
	for _, e := range visible {
		items = append(items, item(e))
	}
	for _, g := range c.ghosts {
		i := g.index
		if i < 0 || i > len(items) {
			i = len(items)
		}
		items = append(items, layout.Item{})
		copy(items[i+1:], items[i:])
		items[i] = item(g.entry)
	}

	var presence map[string]float64
	for _, it := range items {
		prop := anim.PresenceProperty(it.Key)
		if c.driver.Has(prop) {
			if presence == nil {
				presence = make(map[string]float64)
			}
			presence[it.Key] = c.driver.Value(prop)
		}
	}

	loc := c.location
	if s, ok := c.drag.Session(); ok && c.drag.Dragging() {
		loc = s.Preview
	}
	from, blend := c.machine.Arrow()
	return layout.Input{
		Items:      items,
		Selected:   c.machine.Displayed(),
		ArrowFrom:  from,
		ArrowBlend: blend,
		Progress:   c.machine.Progress(),
		Location:   loc,
		Stash:      c.machine.StashAmount(),
		Presence:   presence,
	}
}

func item(e *bubble.Entry) layout.Item {
	return layout.Item{Key: e.Key(), HasUnseen: e.HasUnseen, Overflow: e.IsOverflow()}
}

func (c *Controller) entries() map[string]*bubble.Entry {
	out := make(map[string]*bubble.Entry, c.reg.Len()+len(c.ghosts))
	for _, e := range c.reg.Visible() {
		out[e.Key()] = e
	}
	for _, g := range c.ghosts {
		out[g.entry.Key()] = g.entry
	}
	return out
}

// restOrigin places a frame against its docking edge.
func (c *Controller) restOrigin(f layout.Frame) drag.Point {
	pad := c.engine.Params().Padding
	x := pad
	if f.Location == bubble.LocationRight {
		x = c.screen.Width - pad - f.Width
	}
	return drag.Point{X: x, Y: c.screen.Height - c.screen.Bottom - f.Height}
}

// slot returns the screen position key occupies in f, which must have been
// laid out without overrides.
func (c *Controller) slot(f layout.Frame, origin drag.Point, key string) (drag.Point, bool) {
	n, ok := f.Node(key)
	if !ok {
		return drag.Point{}, false
	}
	return drag.Point{X: origin.X + n.X, Y: origin.Y + n.Y}, true
}

// hit resolves what a press at p lands on.
func (c *Controller) hit(p drag.Point) (target drag.Target, handle, ok bool) {
	v := c.View()
	if v.State == StateStashed || v.State == StateUnstashing {
		if v.Handle.Contains(p.X, p.Y) {
			return drag.Target{}, true, true
		}
		return drag.Target{}, false, false
	}
	local := p.Sub(v.Origin)
	if key, found := c.engine.HitTest(v.Frame, local.X, local.Y); found && c.machine.Expanded() {
		return drag.Target{Key: key}, false, true
	}
	bounds := layout.Rect{Width: v.Frame.Width, Height: v.Frame.Height}
	if c.reg.Len() > 0 && bounds.Contains(local.X, local.Y) {
		return drag.Target{Bar: true}, false, true
	}
	return drag.Target{}, false, false
}
