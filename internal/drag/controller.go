// Package drag implements long-press-to-drag relocation of a single bubble
// or of the whole bar. The controller only tracks the gesture; committing
// the result is left to the bar controller so location has one writer.
package drag

import (
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/Dallionking/bubblebar/internal/bubble"
)

// Phase is the gesture state.
type Phase int

const (
	PhaseIdle Phase = iota
	// PhasePressed is pointer down with the long-press timer pending.
	PhasePressed
	PhaseArmed
	PhaseDragging
	PhaseReleasedCommit
	PhaseReleasedDismiss
	PhaseCancelled
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhasePressed:
		return "pressed"
	case PhaseArmed:
		return "armed"
	case PhaseDragging:
		return "dragging"
	case PhaseReleasedCommit:
		return "released-commit"
	case PhaseReleasedDismiss:
		return "released-dismiss"
	case PhaseCancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// Defaults for Config.
const (
	DefaultLongPress = 500 * time.Millisecond
	DefaultSlop      = 1.5
)

// Config holds gesture thresholds.
type Config struct {
	LongPress      time.Duration
	Slop           float64
	VelocityWindow time.Duration
}

// Target is what a gesture holds: one bubble, or the whole bar.
type Target struct {
	Key string
	Bar bool
}

// Session is the state of one gesture. It never outlives the gesture.
type Session struct {
	ID       string
	Target   Target
	Origin   Point
	Pointer  Point
	Started  time.Time
	Zone     Zone
	Stuck    bool
	Original bubble.Location
	Preview  bubble.Location
}

// Translation is the pointer delta since pointer down.
func (s Session) Translation() Point {
	return s.Pointer.Sub(s.Origin)
}

// TimerRequest asks the host to call LongPress(SessionID) after Delay.
type TimerRequest struct {
	SessionID string
	Delay     time.Duration
}

// Update describes what a Move or LongPress changed.
type Update struct {
	Phase Phase
	// Started is set on the transition into Armed: the view detaches and the
	// authority is told a drag began.
	Started        bool
	Zone           Zone
	ZoneChanged    bool
	Stuck          bool
	Preview        bubble.Location
	PreviewChanged bool
	Translation    Point
	Target         Target
}

// Outcome is the result of a gesture ending.
type Outcome struct {
	Phase    Phase
	Target   Target
	Zone     Zone
	Location bubble.Location
	// Click is set when the pointer went up before the long press fired.
	Click    bool
	Origin   Point
	Pointer  Point
	Velocity Point
	Original bubble.Location
}

// Moved reports whether a commit changes the bar's location.
func (o Outcome) Moved() bool {
	return o.Phase == PhaseReleasedCommit && o.Location != o.Original
}

// Controller tracks at most one gesture.
type Controller struct {
	cfg      Config
	resolver ZoneResolver
	velocity *VelocityTracker
	phase    Phase
	session  Session
	newID    func() string
	log      zerolog.Logger
}

// NewController returns an idle controller. A nil resolver never reports a
// zone.
func NewController(cfg Config, resolver ZoneResolver, log zerolog.Logger) *Controller {
	if cfg.LongPress <= 0 {
		cfg.LongPress = DefaultLongPress
	}
	if cfg.Slop <= 0 {
		cfg.Slop = DefaultSlop
	}
	if resolver == nil {
		resolver = ZoneResolverFunc(func(Point) Zone { return ZoneNone })
	}
	return &Controller{
		cfg:      cfg,
		resolver: resolver,
		velocity: NewVelocityTracker(cfg.VelocityWindow),
		newID:    uuid.NewString,
		log:      log.With().Str("component", "drag").Logger(),
	}
}

// SetResolver swaps the zone resolver, e.g. after a resize.
func (c *Controller) SetResolver(r ZoneResolver) {
	if r != nil {
		c.resolver = r
	}
}

// Phase returns the current gesture phase.
func (c *Controller) Phase() Phase { return c.phase }

// Active reports whether a gesture is in progress.
func (c *Controller) Active() bool { return c.phase != PhaseIdle }

// Dragging reports whether the held view is detached from layout.
func (c *Controller) Dragging() bool {
	return c.phase == PhaseArmed || c.phase == PhaseDragging
}

// Session returns the current session, if any.
func (c *Controller) Session() (Session, bool) {
	if c.phase == PhaseIdle {
		return Session{}, false
	}
	return c.session, true
}

// Down starts a gesture on target at p. The bar's current location is
// remembered so a release outside any dock zone can restore it. A second
// pointer while a gesture is active is ignored and yields an empty request.
func (c *Controller) Down(target Target, p Point, loc bubble.Location, now time.Time) TimerRequest {
	if c.phase != PhaseIdle {
		c.log.Debug().Str("phase", c.phase.String()).Msg("pointer down ignored: gesture active")
		return TimerRequest{}
	}
	c.session = Session{
		ID:       c.newID(),
		Target:   target,
		Origin:   p,
		Pointer:  p,
		Started:  now,
		Original: loc,
		Preview:  loc,
	}
	c.phase = PhasePressed
	c.velocity.Reset()
	c.velocity.Add(p, now)
	c.log.Debug().Str("session", c.session.ID).Str("key", target.Key).Bool("bar", target.Bar).Msg("pressed")
	return TimerRequest{SessionID: c.session.ID, Delay: c.cfg.LongPress}
}

// LongPress fires the long-press timer. A timer for a finished or replaced
// session is ignored.
func (c *Controller) LongPress(sessionID string, now time.Time) (Update, bool) {
	if c.phase != PhasePressed || sessionID != c.session.ID {
		c.log.Debug().Str("session", sessionID).Msg("stale long-press timer ignored")
		return Update{}, false
	}
	c.phase = PhaseArmed
	u := c.resolve()
	u.Started = true
	c.log.Debug().Str("session", sessionID).Str("zone", u.Zone.String()).Msg("armed")
	return u, true
}

// Move tracks the pointer. Before the long press fires, moving beyond the
// slop cancels the gesture so ordinary clicks and scrolls win.
func (c *Controller) Move(p Point, now time.Time) (Update, bool) {
	switch c.phase {
	case PhasePressed:
		d := p.Sub(c.session.Origin)
		if math.Hypot(d.X, d.Y) > c.cfg.Slop {
			c.log.Debug().Str("session", c.session.ID).Msg("slop exceeded before long press")
			c.reset()
			return Update{Phase: PhaseCancelled}, true
		}
		c.session.Pointer = p
		c.velocity.Add(p, now)
		return Update{}, false
	case PhaseArmed, PhaseDragging:
		c.phase = PhaseDragging
		c.session.Pointer = p
		c.velocity.Add(p, now)
		return c.resolve(), true
	default:
		return Update{}, false
	}
}

// Up ends the gesture at p.
func (c *Controller) Up(p Point, now time.Time) Outcome {
	switch c.phase {
	case PhaseIdle:
		return Outcome{Phase: PhaseIdle}
	case PhasePressed:
		out := c.outcome(PhaseCancelled)
		out.Click = true
		c.reset()
		return out
	}

	c.session.Pointer = p
	c.velocity.Add(p, now)
	c.resolve()

	var out Outcome
	switch c.session.Zone {
	case ZoneDismiss:
		out = c.outcome(PhaseReleasedDismiss)
	default:
		out = c.outcome(PhaseReleasedCommit)
		if loc, ok := c.session.Zone.Location(); ok {
			out.Location = loc
		}
	}
	c.log.Debug().
		Str("session", c.session.ID).
		Str("phase", out.Phase.String()).
		Str("zone", out.Zone.String()).
		Str("location", out.Location.String()).
		Msg("released")
	c.reset()
	return out
}

// Cancel ends the gesture without a result and restores the pre-drag
// location.
func (c *Controller) Cancel(now time.Time) Outcome {
	if c.phase == PhaseIdle {
		return Outcome{Phase: PhaseIdle}
	}
	out := c.outcome(PhaseCancelled)
	c.log.Debug().Str("session", c.session.ID).Msg("cancelled")
	c.reset()
	return out
}

// Abort ends a gesture holding key because the bubble went away. It reports
// whether a gesture was aborted. No outcome is produced.
func (c *Controller) Abort(key string) bool {
	if c.phase == PhaseIdle || c.session.Target.Bar || c.session.Target.Key != key {
		return false
	}
	c.log.Debug().Str("session", c.session.ID).Str("key", key).Msg("held bubble removed, gesture aborted")
	c.reset()
	return true
}

func (c *Controller) resolve() Update {
	s := &c.session
	zone := c.resolver.Resolve(s.Pointer)
	u := Update{
		Phase:       c.phase,
		Zone:        zone,
		ZoneChanged: zone != s.Zone,
		Translation: s.Translation(),
		Target:      s.Target,
	}
	s.Zone = zone
	s.Stuck = zone == ZoneDismiss

	preview := s.Original
	if loc, ok := zone.Location(); ok {
		preview = loc
	}
	u.PreviewChanged = preview != s.Preview
	s.Preview = preview
	u.Preview = preview
	u.Stuck = s.Stuck
	return u
}

func (c *Controller) outcome(phase Phase) Outcome {
	s := c.session
	return Outcome{
		Phase:    phase,
		Target:   s.Target,
		Zone:     s.Zone,
		Location: s.Original,
		Origin:   s.Origin,
		Pointer:  s.Pointer,
		Velocity: c.velocity.Velocity(),
		Original: s.Original,
	}
}

func (c *Controller) reset() {
	c.phase = PhaseIdle
	c.session = Session{}
	c.velocity.Reset()
}
