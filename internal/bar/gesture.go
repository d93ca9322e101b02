package bar

import (
	"time"

	"github.com/Dallionking/bubblebar/internal/bubble"
	"github.com/Dallionking/bubblebar/internal/drag"
	"github.com/Dallionking/bubblebar/internal/flags"
	"github.com/Dallionking/bubblebar/internal/layout"
)

func (c *Controller) pointerDown(p drag.Point, now time.Time) Result {
	if c.drag.Active() {
		return Result{}
	}
	target, handle, ok := c.hit(p)
	if !ok {
		return Result{}
	}
	if handle {
		c.Apply(Delta{Stashed: boolPtr(false), Source: "handle"}, now)
		return Result{Changed: true}
	}
	return Result{Timer: c.drag.Down(target, p, c.location, now)}
}

func (c *Controller) longPress(sessionID string, now time.Time) bool {
	u, ok := c.drag.LongPress(sessionID, now)
	if !ok || !u.Started {
		return false
	}
	if u.Target.Key == bubble.OverflowKey {
		c.drag.Cancel(now)
		return false
	}

	v := c.View()
	if u.Target.Bar {
		c.anchor = v.Origin
		c.machine.Collapse(now)
	} else {
		slot, found := c.slot(v.Frame, v.Origin, u.Target.Key)
		if !found {
			c.drag.Cancel(now)
			return false
		}
		c.anchor = slot
		c.machine.Expand(now)
	}
	c.springing = false
	c.dragStarted = true
	c.authority.Send(StartDrag(u.Target.Key))
	return true
}

// finish turns the end of a gesture into commands and, for commits, a local
// delta through the same funnel remote deltas use.
func (c *Controller) finish(out drag.Outcome, now time.Time) {
	started := c.dragStarted
	c.dragStarted = false

	switch {
	case out.Phase == drag.PhaseIdle:
		return
	case out.Click:
		c.click(out.Target, now)
		return
	case !started:
		return
	}

	// Where the held view is on screen right now, before anything moves.
	held := c.anchor.Add(out.Pointer.Sub(out.Origin))

	switch out.Phase {
	case drag.PhaseReleasedDismiss:
		if out.Target.Bar {
			c.Apply(Delta{Removed: c.reg.VisibleKeys(), Source: SourceDrag}, now)
			c.authority.Send(DismissAll())
			return
		}
		if slot, ok := c.slot(c.restFrame(), c.restOriginNow(), out.Target.Key); ok {
			c.frozen[out.Target.Key] = overrideFrom(held, slot)
		}
		c.Apply(Delta{Removed: []string{out.Target.Key}, Source: SourceDrag}, now)
		c.authority.Send(DismissOne(out.Target.Key))
		return

	case drag.PhaseReleasedCommit:
		if out.Zone == drag.ZoneFullscreen && !out.Target.Bar && c.flags.Enabled(flags.BubbleToFullscreen) {
			c.authority.Send(MoveToFullscreen(out.Target.Key, out.Pointer.X, out.Pointer.Y))
		} else if out.Moved() {
			loc := out.Location
			c.Apply(Delta{Location: &loc, Source: SourceDrag}, now)
			c.authority.Send(SetLocation(loc, SourceDrag))
		}
		c.authority.Send(StopDrag(c.location))

	case drag.PhaseCancelled:
		c.authority.Send(StopDrag(c.location))
	}

	c.settleHeld(out, held)
}

// settleHeld springs the released view from where it was dropped into its
// resting place.
func (c *Controller) settleHeld(out drag.Outcome, held drag.Point) {
	f := c.restFrame()
	origin := c.restOrigin(f)
	var offset drag.Point
	if out.Target.Bar {
		offset = held.Sub(origin)
	} else {
		slot, ok := c.slot(f, origin, out.Target.Key)
		if !ok {
			return
		}
		offset = held.Sub(slot)
	}
	c.spring.Launch(offset.X, offset.Y, out.Velocity.X, out.Velocity.Y, 0, 0)
	c.springing = true
	c.springBar = out.Target.Bar
	c.springKey = out.Target.Key
}

func (c *Controller) restFrame() layout.Frame {
	return c.engine.Layout(c.input())
}

func (c *Controller) restOriginNow() drag.Point {
	return c.restOrigin(c.restFrame())
}

func (c *Controller) click(target drag.Target, now time.Time) {
	if target.Bar {
		c.expand(now)
		return
	}
	if target.Key == c.reg.SelectedKey() && c.machine.Expanded() {
		c.collapse(now)
		return
	}
	c.Apply(Delta{Selected: target.Key, Source: "click"}, now)
	c.authority.Send(ShowSelected(target.Key))
}

func (c *Controller) expand(now time.Time) {
	if c.reg.Len() == 0 {
		return
	}
	sel := c.reg.SelectedKey()
	if sel == "" {
		sel = c.reg.First().Key()
	}
	c.Apply(Delta{Selected: sel, Expanded: boolPtr(true), Source: "user"}, now)
	c.authority.Send(ShowSelected(sel))
}

func (c *Controller) collapse(now time.Time) {
	if !c.machine.Expanded() {
		return
	}
	c.Apply(Delta{Expanded: boolPtr(false), Source: "user"}, now)
	c.authority.Send(Collapse())
}

func (c *Controller) request(r Request, now time.Time) {
	switch r.Kind {
	case RequestToggle:
		if c.machine.Expanded() {
			c.collapse(now)
		} else {
			c.expand(now)
		}
	case RequestExpand:
		c.expand(now)
	case RequestCollapse:
		c.collapse(now)
	case RequestStash:
		c.Apply(Delta{Stashed: boolPtr(true), Source: "user"}, now)
	case RequestUnstash:
		c.Apply(Delta{Stashed: boolPtr(false), Source: "user"}, now)
	case RequestSelect:
		c.click(drag.Target{Key: r.Key}, now)
	case RequestSelectNext, RequestSelectPrev:
		keys := c.reg.VisibleKeys()
		if len(keys) == 0 {
			return
		}
		step := 1
		if r.Kind == RequestSelectPrev {
			step = -1
		}
		i := indexOfKey(keys, c.reg.SelectedKey())
		if i < 0 {
			i = 0
		} else {
			i = (i + step + len(keys)) % len(keys)
		}
		c.Apply(Delta{Selected: keys[i], Source: "user"}, now)
		if c.machine.Expanded() {
			c.authority.Send(ShowSelected(keys[i]))
		}
	case RequestDismissSelected:
		key := c.reg.SelectedKey()
		if key == "" || key == bubble.OverflowKey {
			return
		}
		c.Apply(Delta{Removed: []string{key}, Source: "user"}, now)
		c.authority.Send(DismissOne(key))
	case RequestDismissAll:
		if c.reg.Len() == 0 {
			return
		}
		c.Apply(Delta{Removed: c.reg.VisibleKeys(), Source: "user"}, now)
		c.authority.Send(DismissAll())
	case RequestFlipLocation:
		loc := c.location.Opposite()
		c.Apply(Delta{Location: &loc, Source: SourceKeyboard}, now)
		c.authority.Send(SetLocation(loc, SourceKeyboard))
	}
}

func overrideFrom(held, slot drag.Point) layout.Override {
	return layout.Override{DX: held.X - slot.X, DY: held.Y - slot.Y}
}

func indexOfKey(keys []string, key string) int {
	for i, k := range keys {
		if k == key {
			return i
		}
	}
	return -1
}

func boolPtr(b bool) *bool { return &b }
