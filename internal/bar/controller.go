// Package bar owns the bubble bar: the expand/collapse/stash state machine,
// the remote update adapter and the controller every mutation funnels
// through. The controller is single-owner; all of its methods must be called
// from the goroutine that drains the event queue.
package bar

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/Dallionking/bubblebar/internal/anim"
	"github.com/Dallionking/bubblebar/internal/bubble"
	"github.com/Dallionking/bubblebar/internal/drag"
	"github.com/Dallionking/bubblebar/internal/flags"
	"github.com/Dallionking/bubblebar/internal/layout"
)

// ErrDisabled is returned when the bubble bar feature flag is off.
var ErrDisabled = errors.New("bubble bar disabled by feature flag")

// Screen is the area the bar lives in. Bottom is the gap between the bar
// and the bottom edge.
type Screen struct {
	Width  float64
	Height float64
	Bottom float64
}

// Spring tunes the release-to-rest spring.
type Spring struct {
	FPS              int
	AngularFrequency float64
	Damping          float64
}

// Options configures a Controller.
type Options struct {
	Layout   layout.Params
	Timing   Timing
	Drag     drag.Config
	Spring   Spring
	Flags    flags.Table
	Screen   Screen
	Location bubble.Location
	// EdgeFraction, DismissHeight and FullscreenHeight shape the default
	// zone resolver. Ignored when Resolver is set.
	EdgeFraction     float64
	DismissHeight    float64
	FullscreenHeight float64
	Resolver         drag.ZoneResolver
}

// Result reports side effects of handling an event.
type Result struct {
	// Timer is set when the host must schedule a long-press timer.
	Timer drag.TimerRequest
	// Changed reports whether anything visible may have changed.
	Changed bool
}

// HasTimer reports whether r carries a timer request.
func (r Result) HasTimer() bool { return r.Timer.SessionID != "" }

// Stats counts what the controller did, for diagnostics and tests.
type Stats struct {
	DeltasApplied         int
	DeltasBuffered        int
	PopulationTransitions int
	BarAnimations         int
}

type ghost struct {
	entry *bubble.Entry
	index int
}

type presenceSettle struct{ key string }

// Controller is the single funnel for bar state.
type Controller struct {
	opts      Options
	reg       *bubble.Registry
	engine    layout.Engine
	driver    *anim.Driver
	machine   *Machine
	drag      *drag.Controller
	authority Authority
	flags     flags.Table
	location  bubble.Location
	screen    Screen

	ghosts  []ghost
	frozen  map[string]layout.Override
	pending map[uint64]DeltaReady
	nextSeq uint64

	dragStarted bool
	anchor      drag.Point

	spring    *anim.Spring2D
	springing bool
	springKey string
	springBar bool

	stats Stats
	log   zerolog.Logger
}

// NewController builds a controller. It returns ErrDisabled when the bubble
// bar flag is off.
func NewController(opts Options, authority Authority, log zerolog.Logger) (*Controller, error) {
	if !opts.Flags.Enabled(flags.BubbleBar) {
		return nil, ErrDisabled
	}
	if authority == nil {
		authority = discard{}
	}
	if opts.Timing == (Timing{}) {
		opts.Timing = DefaultTiming()
	}
	if opts.Spring.FPS <= 0 {
		opts.Spring = Spring{FPS: 60, AngularFrequency: 7, Damping: 0.7}
	}
	if opts.EdgeFraction <= 0 {
		opts.EdgeFraction = 0.2
	}

	log = log.With().Str("component", "bar").Logger()
	driver := anim.NewDriver()
	c := &Controller{
		opts:      opts,
		reg:       bubble.NewRegistry(log),
		engine:    layout.NewEngine(opts.Layout),
		driver:    driver,
		machine:   NewMachine(driver, opts.Timing, log),
		authority: authority,
		flags:     opts.Flags,
		location:  opts.Location,
		screen:    opts.Screen,
		frozen:    make(map[string]layout.Override),
		pending:   make(map[uint64]DeltaReady),
		nextSeq:   1,
		spring:    anim.NewSpring2D(opts.Spring.FPS, opts.Spring.AngularFrequency, opts.Spring.Damping),
		log:       log,
	}
	c.drag = drag.NewController(opts.Drag, c.resolver(), log)
	return c, nil
}

// Registry exposes the registry for read access.
func (c *Controller) Registry() *bubble.Registry { return c.reg }

// Machine exposes the state machine for read access.
func (c *Controller) Machine() *Machine { return c.machine }

// Drag exposes the gesture controller for read access.
func (c *Controller) Drag() *drag.Controller { return c.drag }

// Location returns the committed docking edge.
func (c *Controller) Location() bubble.Location { return c.location }

// Flags returns the feature-flag table the controller was built with.
func (c *Controller) Flags() flags.Table { return c.flags }

// Stats returns counters.
func (c *Controller) Stats() Stats {
	s := c.stats
	s.DeltasBuffered = len(c.pending)
	s.BarAnimations = c.machine.AnimationsStarted()
	return s
}

// Animating reports whether another Tick would change anything.
func (c *Controller) Animating() bool {
	return c.driver.Animating() || c.springing
}

// Handle consumes one event.
func (c *Controller) Handle(ev Event, now time.Time) Result {
	switch ev := ev.(type) {
	case DeltaReady:
		return Result{Changed: c.receive(ev, now)}
	case PointerDown:
		return c.pointerDown(ev.P, now)
	case PointerMove:
		_, changed := c.drag.Move(ev.P, now)
		return Result{Changed: changed}
	case LongPressFired:
		return Result{Changed: c.longPress(ev.SessionID, now)}
	case PointerUp:
		c.finish(c.drag.Up(ev.P, now), now)
		return Result{Changed: true}
	case PointerCancel:
		c.finish(c.drag.Cancel(now), now)
		return Result{Changed: true}
	case Resize:
		c.Resize(ev.Width, ev.Height, now)
		return Result{Changed: true}
	case Configure:
		c.Reconfigure(ev.Timing, ev.Layout, now)
		return Result{Changed: true}
	case Request:
		c.request(ev, now)
		return Result{Changed: true}
	default:
		c.log.Warn().Msgf("unknown event %T", ev)
		return Result{}
	}
}

// Tick advances animations to now. It reports whether animations are still
// running.
func (c *Controller) Tick(now time.Time) bool {
	for _, s := range c.driver.Tick(now) {
		if ps, ok := s.Settle.(presenceSettle); ok {
			c.settlePresence(ps.key, s.Value)
			continue
		}
		c.machine.Settle(s, now)
	}
	if c.springing && c.spring.Step() {
		c.springing = false
		c.springKey = ""
		c.springBar = false
	}
	return c.Animating()
}

// Run drains q until ctx is done, ticking animations at fps and scheduling
// long-press timers itself. It is the headless counterpart of the terminal
// front end's event loop.
func (c *Controller) Run(ctx context.Context, q *Queue, fps int) error {
	if fps <= 0 {
		fps = 60
	}
	frame := time.NewTicker(time.Second / time.Duration(fps))
	defer frame.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev := <-q.Events():
			res := c.Handle(ev, time.Now())
			if res.HasTimer() {
				req := res.Timer
				time.AfterFunc(req.Delay, func() {
					_ = q.Post(ctx, LongPressFired{SessionID: req.SessionID})
				})
			}
		case now := <-frame.C:
			c.Tick(now)
		}
	}
}

// Resize adopts a new screen size. Running bar animations restart from
// their current values.
func (c *Controller) Resize(width, height float64, now time.Time) {
	c.screen.Width, c.screen.Height = width, height
	c.drag.SetResolver(c.resolver())
	c.machine.Reconfigure(c.opts.Timing, now)
}

// Reconfigure swaps timing and geometry at runtime, continuing every
// running animation from where it is.
func (c *Controller) Reconfigure(timing Timing, params layout.Params, now time.Time) {
	c.opts.Timing = timing
	c.opts.Layout = params
	c.engine = layout.NewEngine(params)
	c.machine.Reconfigure(timing, now)
}

// Apply runs a delta that needs no materialization, such as a locally
// produced one, through the funnel.
func (c *Controller) Apply(d Delta, now time.Time) {
	c.apply(d, nil, nil, now)
}

func (c *Controller) resolver() drag.ZoneResolver {
	if c.opts.Resolver != nil {
		return c.opts.Resolver
	}
	return drag.EdgeResolver{
		Width:             c.screen.Width,
		Height:            c.screen.Height,
		EdgeFraction:      c.opts.EdgeFraction,
		DismissHeight:     c.opts.DismissHeight,
		FullscreenHeight:  c.opts.FullscreenHeight,
		FullscreenEnabled: c.flags.Enabled(flags.BubbleToFullscreen),
	}
}

// receive applies deltas strictly in submission order, buffering early
// arrivals.
func (c *Controller) receive(ev DeltaReady, now time.Time) bool {
	if ev.Seq < c.nextSeq {
		c.log.Warn().Uint64("seq", ev.Seq).Msg("duplicate delta ignored")
		return false
	}
	c.pending[ev.Seq] = ev
	applied := false
	for {
		next, ok := c.pending[c.nextSeq]
		if !ok {
			break
		}
		delete(c.pending, c.nextSeq)
		c.nextSeq++
		c.apply(next.Delta, next.Built, next.Failed, now)
		applied = true
	}
	return applied
}

// apply is the single state-transition funnel. Steps run in a fixed order
// whichever fields are set: population, suppression, order, selection,
// expansion, location.
func (c *Controller) apply(d Delta, built map[string]*bubble.Entry, failed map[string]bool, now time.Time) {
	c.stats.DeltasApplied++
	log := c.log.With().Str("source", d.Source).Logger()
	prevSelected := c.reg.SelectedKey()

	removing := make(map[string]bool, len(d.Removed))
	for _, k := range d.Removed {
		removing[k] = true
	}
	var added []bubble.Descriptor
	for _, desc := range d.Added {
		if removing[desc.Key] {
			log.Debug().Str("key", desc.Key).Msg("add and remove of the same key cancel out")
			delete(removing, desc.Key)
			continue
		}
		added = append(added, desc)
	}

	population := false
	reselectFirst := false
	dropped := make(map[string]bool)

	for _, key := range d.Removed {
		if !removing[key] {
			continue
		}
		delete(removing, key)
		if key == c.reg.SelectedKey() && key == bubble.OverflowKey {
			reselectFirst = true
		}
		if c.remove(key, now) {
			population = true
		}
	}

	for _, desc := range added {
		e, ok := built[desc.Key]
		if !ok || failed[desc.Key] {
			log.Warn().Str("key", desc.Key).Msg("add dropped, no payload")
			dropped[desc.Key] = true
			continue
		}
		if c.reg.IsVisible(desc.Key) {
			c.reg.AddVisible(e, bubble.PositionFront)
			continue
		}
		c.fadeIn(e, now)
		population = true
	}

	for _, desc := range d.Updated {
		if failed[desc.Key] {
			log.Warn().Str("key", desc.Key).Msg("update failed to materialize, bubble removed")
			if c.remove(desc.Key, now) {
				population = true
			}
			continue
		}
		e, ok := built[desc.Key]
		if !ok {
			continue
		}
		existing, found := c.reg.Get(desc.Key)
		if !found {
			log.Warn().Str("key", desc.Key).Msg("update of unknown bubble ignored")
			continue
		}
		existing.Update(e)
	}

	if d.ShowOverflow != nil {
		switch {
		case !c.flags.Enabled(flags.OptionalOverflow):
			log.Debug().Msg("overflow visibility change ignored, flag off")
		case *d.ShowOverflow && c.reg.Overflow() == nil:
			c.fadeIn(bubble.NewOverflow(), now)
			population = true
		case !*d.ShowOverflow && c.reg.Overflow() != nil:
			if c.reg.SelectedKey() == bubble.OverflowKey {
				reselectFirst = true
			}
			if c.remove(bubble.OverflowKey, now) {
				population = true
			}
		}
	}
	if population {
		c.stats.PopulationTransitions++
	}

	if d.Suppressed != "" {
		c.suppress(d.Suppressed, now)
	}
	if d.Unsuppressed != "" {
		if c.reg.Unsuppress(d.Unsuppressed) {
			if e, ok := c.reg.Get(d.Unsuppressed); ok {
				c.fadeIn(e, now)
			}
		}
	}

	if len(d.Order) > 0 {
		c.reg.Reorder(d.Order)
	}

	if reselectFirst {
		if first := c.reg.First(); first != nil {
			c.reg.Select(first.Key())
		}
	}
	if d.Selected != "" {
		if dropped[d.Selected] || failed[d.Selected] {
			log.Warn().Str("key", d.Selected).Msg("selection of unmaterialized bubble dropped")
		} else {
			c.reg.Select(d.Selected)
		}
	}
	if sel := c.reg.SelectedKey(); sel != prevSelected {
		c.machine.SelectionChanged(sel, now)
	}

	if d.Expanded != nil {
		if *d.Expanded {
			if c.reg.Len() > 0 {
				c.machine.Expand(now)
			}
		} else {
			c.machine.Collapse(now)
		}
	}
	if d.Stashed != nil {
		switch {
		case !*d.Stashed:
			c.machine.Unstash(now)
		case c.flags.Enabled(flags.BubbleBarStash):
			c.machine.Stash(now)
		default:
			log.Debug().Msg("stash ignored, flag off")
		}
	}
	if c.reg.Len() == 0 && c.machine.Expanded() {
		c.machine.Collapse(now)
	}

	if d.Location != nil && *d.Location != c.location {
		log.Debug().Str("from", c.location.String()).Str("to", d.Location.String()).Msg("location")
		c.location = *d.Location
	}
}

// remove takes key out of the bar, visible or suppressed. A gesture holding
// the bubble is aborted without notifying anyone.
func (c *Controller) remove(key string, now time.Time) bool {
	if c.drag.Abort(key) {
		c.dragStarted = false
	}
	if c.springKey == key {
		c.springing = false
		c.springKey = ""
	}
	idx := -1
	for i, k := range c.reg.VisibleKeys() {
		if k == key {
			idx = i
			break
		}
	}
	if idx < 0 {
		if _, ok := c.reg.RemoveSuppressed(key); !ok {
			c.log.Warn().Str("key", key).Msg("remove of unknown bubble ignored")
		}
		return false
	}
	e, _ := c.reg.RemoveVisible(key)
	c.fadeOut(e, idx, now)
	return true
}

func (c *Controller) suppress(key string, now time.Time) {
	idx := -1
	for i, k := range c.reg.VisibleKeys() {
		if k == key {
			idx = i
			break
		}
	}
	e, _ := c.reg.Get(key)
	if !c.reg.Suppress(key) {
		return
	}
	c.fadeOut(e, idx, now)
}

func (c *Controller) fadeIn(e *bubble.Entry, now time.Time) {
	key := e.Key()
	c.dropGhost(key)
	if !c.reg.IsVisible(key) {
		c.reg.AddVisible(e, bubble.PositionFront)
	}
	prop := anim.PresenceProperty(key)
	if !c.driver.Has(prop) {
		c.driver.Set(prop, 0)
	}
	c.driver.Retarget(prop, 1, c.opts.Timing.Population, anim.EaseInOut, presenceSettle{key: key}, now)
}

func (c *Controller) fadeOut(e *bubble.Entry, idx int, now time.Time) {
	key := e.Key()
	c.dropGhost(key)
	c.ghosts = append(c.ghosts, ghost{entry: e, index: idx})
	prop := anim.PresenceProperty(key)
	if !c.driver.Has(prop) {
		c.driver.Set(prop, 1)
	}
	c.driver.Retarget(prop, 0, c.opts.Timing.Population, anim.EaseInOut, presenceSettle{key: key}, now)
}

func (c *Controller) settlePresence(key string, v float64) {
	c.driver.Forget(anim.PresenceProperty(key))
	if v == 0 {
		c.dropGhost(key)
	}
}

func (c *Controller) dropGhost(key string) {
	for i, g := range c.ghosts {
		if g.entry.Key() == key {
			c.ghosts = append(c.ghosts[:i], c.ghosts[i+1:]...)
			delete(c.frozen, key)
			return
		}
	}
}

func (c *Controller) hasGhost(key string) bool {
	for _, g := range c.ghosts {
		if g.entry.Key() == key {
			return true
		}
	}
	return false
}
