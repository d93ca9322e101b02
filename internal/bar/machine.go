package bar

import (
	"time"

	"github.com/rs/zerolog"

	"github.com/Dallionking/bubblebar/internal/anim"
)

// State is the bar's expansion state.
type State int

const (
	StateCollapsed State = iota
	StateExpanding
	StateExpanded
	StateCollapsing
	StateStashed
	StateUnstashing
)

func (s State) String() string {
	switch s {
	case StateCollapsed:
		return "collapsed"
	case StateExpanding:
		return "expanding"
	case StateExpanded:
		return "expanded"
	case StateCollapsing:
		return "collapsing"
	case StateStashed:
		return "stashed"
	case StateUnstashing:
		return "unstashing"
	default:
		return "unknown"
	}
}

// Timing holds full-range animation durations.
type Timing struct {
	Expand     time.Duration
	Stash      time.Duration
	Arrow      time.Duration
	Population time.Duration
}

// DefaultTiming returns the durations used when nothing is configured.
func DefaultTiming() Timing {
	return Timing{
		Expand:     250 * time.Millisecond,
		Stash:      200 * time.Millisecond,
		Arrow:      120 * time.Millisecond,
		Population: 180 * time.Millisecond,
	}
}

type settleToken int

const (
	settleExpanded settleToken = iota + 1
	settleCollapsed
	settleUnstashed
)

// Machine is the collapsed/expanded/stashed state machine. It owns the
// expansion, stash and arrow properties on the shared driver and the
// displayed selection.
type Machine struct {
	state  State
	driver *anim.Driver
	timing Timing

	displayed  string
	arrowFrom  map[string]float64
	pending    string
	hasPending bool

	started int
	log     zerolog.Logger
}

// NewMachine returns a collapsed machine animating on driver.
func NewMachine(driver *anim.Driver, timing Timing, log zerolog.Logger) *Machine {
	driver.Set(anim.PropExpansion, 0)
	driver.Set(anim.PropStash, 0)
	driver.Set(anim.PropArrow, 1)
	return &Machine{
		state:  StateCollapsed,
		driver: driver,
		timing: timing,
		log:    log.With().Str("component", "machine").Logger(),
	}
}

// State returns the current state.
func (m *Machine) State() State { return m.state }

// Progress returns the current expansion progress.
func (m *Machine) Progress() float64 { return m.driver.Value(anim.PropExpansion) }

// StashAmount returns how far the bar has shrunk into its handle.
func (m *Machine) StashAmount() float64 { return m.driver.Value(anim.PropStash) }

// Displayed returns the selection the visuals currently reflect.
func (m *Machine) Displayed() string { return m.displayed }

// Arrow returns the weighted keys the arrow moves away from and the blend
// toward the displayed selection. The map is replaced, never mutated.
func (m *Machine) Arrow() (from map[string]float64, blend float64) {
	return m.arrowFrom, m.driver.Value(anim.PropArrow)
}

// AnimationsStarted counts bar-level animations started so far.
func (m *Machine) AnimationsStarted() int { return m.started }

// Expanded reports whether the bar is expanded or heading there.
func (m *Machine) Expanded() bool {
	return m.state == StateExpanded || m.state == StateExpanding
}

// Expand requests the expanded row. A stashed bar is unstashed on the way.
func (m *Machine) Expand(now time.Time) bool {
	switch m.state {
	case StateExpanded, StateExpanding:
		m.ignored("expand")
		return false
	case StateStashed, StateUnstashing:
		m.driver.Retarget(anim.PropStash, 0, m.timing.Stash, anim.EaseOut, nil, now)
	}
	m.retargetExpansion(1, settleExpanded, now)
	m.to(StateExpanding)
	return true
}

// Collapse requests the collapsed stack.
func (m *Machine) Collapse(now time.Time) bool {
	switch m.state {
	case StateExpanded, StateExpanding:
		m.retargetExpansion(0, settleCollapsed, now)
		m.to(StateCollapsing)
		return true
	default:
		m.ignored("collapse")
		return false
	}
}

// Stash shrinks the bar into its handle, collapsing it first if needed.
func (m *Machine) Stash(now time.Time) bool {
	switch m.state {
	case StateStashed:
		m.ignored("stash")
		return false
	case StateExpanded, StateExpanding, StateCollapsing:
		m.retargetExpansion(0, nil, now)
	}
	m.driver.Retarget(anim.PropStash, 1, m.timing.Stash, anim.EaseInOut, nil, now)
	m.started++
	m.to(StateStashed)
	m.applyPending(now)
	return true
}

// Unstash brings a stashed bar back as a collapsed stack.
func (m *Machine) Unstash(now time.Time) bool {
	if m.state != StateStashed {
		m.ignored("unstash")
		return false
	}
	m.driver.Retarget(anim.PropStash, 0, m.timing.Stash, anim.EaseInOut, settleUnstashed, now)
	m.started++
	m.to(StateUnstashing)
	return true
}

// Settle handles a finished tween. It reports whether the state changed.
func (m *Machine) Settle(s anim.Settled, now time.Time) bool {
	tok, ok := s.Settle.(settleToken)
	if !ok {
		return false
	}
	switch {
	case tok == settleExpanded && m.state == StateExpanding:
		m.to(StateExpanded)
	case tok == settleCollapsed && m.state == StateCollapsing:
		m.to(StateCollapsed)
	case tok == settleUnstashed && m.state == StateUnstashing:
		m.to(StateCollapsed)
	default:
		return false
	}
	m.applyPending(now)
	return true
}

// Reconfigure adopts new timing and restarts every running bar animation
// from its current value toward its existing target.
func (m *Machine) Reconfigure(timing Timing, now time.Time) {
	m.timing = timing
	if to, ok := m.driver.Target(anim.PropExpansion); ok {
		var settle any
		switch m.state {
		case StateExpanding:
			settle = settleExpanded
		case StateCollapsing:
			settle = settleCollapsed
		}
		m.driver.Retarget(anim.PropExpansion, to, m.timing.Expand, anim.EaseInOut, settle, now)
	}
	if to, ok := m.driver.Target(anim.PropStash); ok {
		var settle any
		if m.state == StateUnstashing {
			settle = settleUnstashed
		}
		m.driver.Retarget(anim.PropStash, to, m.timing.Stash, anim.EaseInOut, settle, now)
	}
	if m.driver.Active(anim.PropArrow) {
		m.driver.Retarget(anim.PropArrow, 1, m.timing.Arrow, anim.EaseOut, nil, now)
	}
	m.log.Debug().Str("state", m.state.String()).Msg("reconfigured")
}

// SelectionChanged brings the displayed selection in line with to. While
// collapsed the change is immediate, while expanded the arrow slides over,
// and mid-transition it waits for the transition to settle.
func (m *Machine) SelectionChanged(to string, now time.Time) {
	switch m.state {
	case StateExpanding, StateCollapsing:
		m.pending, m.hasPending = to, true
		m.log.Debug().Str("key", to).Msg("selection change deferred")
	case StateExpanded:
		m.hasPending = false
		if to == m.displayed {
			return
		}
		if m.displayed == "" || to == "" {
			m.displayed = to
			m.arrowFrom = arrowAt(to)
			m.driver.Set(anim.PropArrow, 1)
			return
		}
		m.arrowFrom = m.arrowOrigin(now)
		m.displayed = to
		m.driver.Start(anim.Descriptor{
			Property: anim.PropArrow,
			From:     0,
			To:       1,
			Duration: m.timing.Arrow,
			Easing:   anim.EaseOut,
		}, now)
	default:
		m.hasPending = false
		m.displayed = to
		m.arrowFrom = arrowAt(to)
		m.driver.Set(anim.PropArrow, 1)
	}
}

// arrowOrigin expresses where the arrow is drawn right now as weights over
// keys, so a retarget mid-slide starts from the drawn position.
func (m *Machine) arrowOrigin(now time.Time) map[string]float64 {
	blend := m.driver.Sample(anim.PropArrow, now)
	if blend >= 1 || len(m.arrowFrom) == 0 {
		return arrowAt(m.displayed)
	}
	origin := make(map[string]float64, len(m.arrowFrom)+1)
	for k, w := range m.arrowFrom {
		if w *= 1 - blend; w >= minArrowWeight {
			origin[k] += w
		}
	}
	if blend >= minArrowWeight {
		origin[m.displayed] += blend
	}
	return origin
}

// minArrowWeight bounds how many past keys an origin keeps.
const minArrowWeight = 1e-3

func arrowAt(key string) map[string]float64 {
	if key == "" {
		return nil
	}
	return map[string]float64{key: 1}
}

func (m *Machine) retargetExpansion(to float64, settle any, now time.Time) {
	m.driver.Retarget(anim.PropExpansion, to, m.timing.Expand, anim.EaseInOut, settle, now)
	m.started++
}

func (m *Machine) applyPending(now time.Time) {
	if !m.hasPending {
		return
	}
	to := m.pending
	m.hasPending = false
	m.pending = ""
	m.SelectionChanged(to, now)
}

func (m *Machine) to(s State) {
	if s == m.state {
		return
	}
	m.log.Debug().Str("from", m.state.String()).Str("to", s.String()).Msg("state")
	m.state = s
}

func (m *Machine) ignored(req string) {
	m.log.Debug().Str("request", req).Str("state", m.state.String()).Msg("request ignored")
}
