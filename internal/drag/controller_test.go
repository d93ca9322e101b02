package drag

import (
	"fmt"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/Dallionking/bubblebar/internal/bubble"
)

var t0 = time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

func at(ms int) time.Time {
	return t0.Add(time.Duration(ms) * time.Millisecond)
}

// screen is 100x40 with 20% dock regions, a 4-row dismiss strip and a
// 3-row fullscreen strip.
func testResolver() EdgeResolver {
	return EdgeResolver{
		Width:             100,
		Height:            40,
		EdgeFraction:      0.2,
		DismissHeight:     4,
		FullscreenHeight:  3,
		FullscreenEnabled: true,
	}
}

func newTestController() *Controller {
	c := NewController(Config{LongPress: 400 * time.Millisecond, Slop: 2}, testResolver(), zerolog.Nop())
	n := 0
	c.newID = func() string {
		n++
		return fmt.Sprintf("s%d", n)
	}
	return c
}

// arm presses on key at p and fires the long-press timer.
func arm(t *testing.T, c *Controller, key string, p Point, loc bubble.Location) {
	t.Helper()
	req := c.Down(Target{Key: key}, p, loc, at(0))
	if req.SessionID == "" || req.Delay != 400*time.Millisecond {
		t.Fatalf("Down returned %+v", req)
	}
	u, ok := c.LongPress(req.SessionID, at(400))
	if !ok || !u.Started || c.Phase() != PhaseArmed {
		t.Fatalf("LongPress = %+v,%v phase=%v", u, ok, c.Phase())
	}
}

func TestReleaseOutsideDockRestoresOriginalLocation(t *testing.T) {
	c := newTestController()
	arm(t, c, "B1", Point{X: 10, Y: 20}, bubble.LocationLeft)

	u, _ := c.Move(Point{X: 95, Y: 20}, at(450))
	if u.Zone != ZoneDockRight || !u.PreviewChanged || u.Preview != bubble.LocationRight {
		t.Fatalf("hover right dock: %+v", u)
	}

	u, _ = c.Move(Point{X: 50, Y: 20}, at(500))
	if u.Zone != ZoneNone || u.Preview != bubble.LocationLeft {
		t.Fatalf("back to centre: %+v", u)
	}

	out := c.Up(Point{X: 50, Y: 20}, at(520))
	if out.Phase != PhaseReleasedCommit {
		t.Fatalf("phase = %v, want released-commit", out.Phase)
	}
	if out.Location != bubble.LocationLeft || out.Moved() {
		t.Errorf("location = %v moved=%v, want left unchanged", out.Location, out.Moved())
	}
	if c.Active() {
		t.Error("gesture still active after release")
	}
}

func TestReleaseInDockCommitsNewSide(t *testing.T) {
	c := newTestController()
	arm(t, c, "B1", Point{X: 10, Y: 20}, bubble.LocationLeft)
	c.Move(Point{X: 90, Y: 20}, at(450))

	out := c.Up(Point{X: 92, Y: 20}, at(470))
	if out.Phase != PhaseReleasedCommit || out.Location != bubble.LocationRight || !out.Moved() {
		t.Errorf("outcome = %+v", out)
	}
}

func TestDismissZoneSticksAndDismisses(t *testing.T) {
	c := newTestController()
	arm(t, c, "B2", Point{X: 50, Y: 20}, bubble.LocationRight)

	u, _ := c.Move(Point{X: 50, Y: 38}, at(500))
	if u.Zone != ZoneDismiss || !u.Stuck {
		t.Fatalf("dismiss hover: %+v", u)
	}
	u, _ = c.Move(Point{X: 50, Y: 20}, at(550))
	if u.Stuck {
		t.Error("stuck should clear when leaving the dismiss zone")
	}
	c.Move(Point{X: 50, Y: 39}, at(600))

	out := c.Up(Point{X: 50, Y: 39}, at(620))
	if out.Phase != PhaseReleasedDismiss || out.Target.Key != "B2" {
		t.Errorf("outcome = %+v", out)
	}
}

func TestFullscreenZone(t *testing.T) {
	c := newTestController()
	arm(t, c, "B1", Point{X: 50, Y: 20}, bubble.LocationLeft)
	c.Move(Point{X: 50, Y: 1}, at(500))

	out := c.Up(Point{X: 50, Y: 1}, at(510))
	if out.Phase != PhaseReleasedCommit || out.Zone != ZoneFullscreen || out.Location != bubble.LocationLeft {
		t.Errorf("outcome = %+v", out)
	}
}

func TestSlopBeforeLongPressCancels(t *testing.T) {
	c := newTestController()
	req := c.Down(Target{Key: "B1"}, Point{X: 10, Y: 10}, bubble.LocationLeft, at(0))

	if _, changed := c.Move(Point{X: 11, Y: 10}, at(50)); changed {
		t.Error("move within slop should not change anything")
	}
	u, changed := c.Move(Point{X: 20, Y: 10}, at(100))
	if !changed || u.Phase != PhaseCancelled {
		t.Fatalf("move beyond slop = %+v,%v", u, changed)
	}
	if c.Active() {
		t.Fatal("gesture should be idle after slop cancel")
	}
	if _, ok := c.LongPress(req.SessionID, at(400)); ok {
		t.Error("timer for the cancelled session must be ignored")
	}
}

func TestStaleTimerIgnored(t *testing.T) {
	c := newTestController()
	first := c.Down(Target{Key: "B1"}, Point{X: 10, Y: 10}, bubble.LocationLeft, at(0))
	c.Up(Point{X: 10, Y: 10}, at(100))
	second := c.Down(Target{Key: "B2"}, Point{X: 10, Y: 10}, bubble.LocationLeft, at(200))

	if _, ok := c.LongPress(first.SessionID, at(400)); ok {
		t.Error("timer of the first session armed the second")
	}
	if c.Phase() != PhasePressed {
		t.Errorf("phase = %v, want pressed", c.Phase())
	}
	if _, ok := c.LongPress(second.SessionID, at(600)); !ok {
		t.Error("current session's timer ignored")
	}
}

func TestQuickTapIsClick(t *testing.T) {
	c := newTestController()
	c.Down(Target{Key: "B1"}, Point{X: 10, Y: 10}, bubble.LocationLeft, at(0))
	out := c.Up(Point{X: 10, Y: 10}, at(80))
	if !out.Click || out.Phase != PhaseCancelled || out.Target.Key != "B1" {
		t.Errorf("tap outcome = %+v", out)
	}
}

func TestCancelRestores(t *testing.T) {
	c := newTestController()
	arm(t, c, "B1", Point{X: 10, Y: 20}, bubble.LocationLeft)
	c.Move(Point{X: 95, Y: 20}, at(450))

	out := c.Cancel(at(460))
	if out.Phase != PhaseCancelled || out.Location != bubble.LocationLeft || out.Moved() {
		t.Errorf("cancel outcome = %+v", out)
	}
	if c.Active() {
		t.Error("gesture active after cancel")
	}
}

func TestAbortOnlyMatchesHeldBubble(t *testing.T) {
	c := newTestController()
	arm(t, c, "B1", Point{X: 10, Y: 20}, bubble.LocationLeft)
	c.Move(Point{X: 40, Y: 20}, at(450))

	if c.Abort("B2") {
		t.Error("abort of another key succeeded")
	}
	if !c.Abort("B1") {
		t.Fatal("abort of the held key failed")
	}
	if c.Active() {
		t.Error("gesture active after abort")
	}
	if out := c.Up(Point{X: 40, Y: 20}, at(500)); out.Phase != PhaseIdle {
		t.Errorf("release after abort produced %+v", out)
	}
}

func TestBarDragIsNotAbortedByKey(t *testing.T) {
	c := newTestController()
	c.Down(Target{Bar: true}, Point{X: 10, Y: 20}, bubble.LocationLeft, at(0))
	if c.Abort("") {
		t.Error("bar drag aborted by an empty key")
	}
}

func TestSecondPointerIgnored(t *testing.T) {
	c := newTestController()
	c.Down(Target{Key: "B1"}, Point{X: 10, Y: 10}, bubble.LocationLeft, at(0))
	if req := c.Down(Target{Key: "B2"}, Point{X: 20, Y: 10}, bubble.LocationLeft, at(10)); req.SessionID != "" {
		t.Errorf("second Down = %+v, want empty", req)
	}
	s, _ := c.Session()
	if s.Target.Key != "B1" {
		t.Errorf("session target = %q", s.Target.Key)
	}
}

func TestReleaseVelocity(t *testing.T) {
	c := newTestController()
	arm(t, c, "B1", Point{X: 10, Y: 20}, bubble.LocationLeft)
	c.Move(Point{X: 20, Y: 20}, at(450))
	c.Move(Point{X: 30, Y: 20}, at(500))

	out := c.Up(Point{X: 40, Y: 20}, at(550))
	if out.Velocity.X <= 0 {
		t.Errorf("velocity = %+v, want positive x", out.Velocity)
	}
}

func TestEdgeResolverZones(t *testing.T) {
	r := testResolver()
	tests := []struct {
		p    Point
		want Zone
	}{
		{Point{X: 5, Y: 20}, ZoneDockLeft},
		{Point{X: 95, Y: 20}, ZoneDockRight},
		{Point{X: 50, Y: 20}, ZoneNone},
		{Point{X: 5, Y: 38}, ZoneDismiss},
		{Point{X: 50, Y: 0}, ZoneFullscreen},
	}
	for _, tt := range tests {
		if got := r.Resolve(tt.p); got != tt.want {
			t.Errorf("Resolve(%v) = %v, want %v", tt.p, got, tt.want)
		}
	}

	r.FullscreenEnabled = false
	if got := r.Resolve(Point{X: 50, Y: 0}); got != ZoneNone {
		t.Errorf("fullscreen disabled: got %v", got)
	}
}

func TestVelocityTrackerWindow(t *testing.T) {
	v := NewVelocityTracker(100 * time.Millisecond)
	v.Add(Point{X: 0}, at(0))
	v.Add(Point{X: 100}, at(500))
	v.Add(Point{X: 110}, at(550))

	got := v.Velocity()
	// Only the last two samples are inside the window: 10 units in 50ms.
	if got.X < 199 || got.X > 201 {
		t.Errorf("velocity = %.1f, want 200", got.X)
	}
}
