package anim

import (
	"math"
	"testing"
	"time"
)

var t0 = time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

func at(ms int) time.Time {
	return t0.Add(time.Duration(ms) * time.Millisecond)
}

func near(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestTweenReachesTargetAndSettles(t *testing.T) {
	d := NewDriver()
	d.Start(Descriptor{Property: PropExpansion, From: 0, To: 1, Duration: 200 * time.Millisecond, Settle: "expanded"}, at(0))

	if settled := d.Tick(at(100)); len(settled) != 0 {
		t.Fatalf("settled early: %v", settled)
	}
	if v := d.Value(PropExpansion); !near(v, 0.5) {
		t.Errorf("linear midpoint = %.3f, want 0.5", v)
	}

	settled := d.Tick(at(250))
	if len(settled) != 1 {
		t.Fatalf("settled = %v, want one record", settled)
	}
	if settled[0].Settle != "expanded" || settled[0].Value != 1 {
		t.Errorf("settled = %+v", settled[0])
	}
	if d.Animating() {
		t.Error("driver still animating after settle")
	}
	if d.Value(PropExpansion) != 1 {
		t.Errorf("value after settle = %.3f", d.Value(PropExpansion))
	}
}

func TestRetargetContinuesFromCurrentValue(t *testing.T) {
	d := NewDriver()
	full := 400 * time.Millisecond
	d.Retarget(PropExpansion, 1, full, Linear, nil, at(0))

	// Reverse at 30% of the way.
	desc := d.Retarget(PropExpansion, 0, full, Linear, nil, at(120))
	if !near(desc.From, 0.3) {
		t.Fatalf("reversal starts at %.3f, want 0.3", desc.From)
	}
	if diff := desc.Duration - 120*time.Millisecond; diff < -time.Microsecond || diff > time.Microsecond {
		t.Errorf("reversal duration = %v, want 120ms", desc.Duration)
	}
	d.Tick(at(120))
	if v := d.Value(PropExpansion); !near(v, 0.3) {
		t.Errorf("value right after reversal = %.3f, want 0.3", v)
	}
	d.Tick(at(240))
	if v := d.Value(PropExpansion); v != 0 {
		t.Errorf("value after reversal settles = %.3f, want 0", v)
	}
}

func TestCancelKeepsValue(t *testing.T) {
	d := NewDriver()
	d.Start(Descriptor{Property: PropStash, From: 0, To: 1, Duration: 100 * time.Millisecond}, at(0))

	v, ok := d.Cancel(PropStash, at(40))
	if !ok || !near(v, 0.4) {
		t.Fatalf("Cancel = %.3f,%v want 0.4,true", v, ok)
	}
	if d.Active(PropStash) {
		t.Error("property still active after cancel")
	}
	if settled := d.Tick(at(500)); len(settled) != 0 {
		t.Errorf("cancelled tween settled: %v", settled)
	}
	if !near(d.Value(PropStash), 0.4) {
		t.Errorf("value drifted after cancel: %.3f", d.Value(PropStash))
	}
	if _, ok := d.Cancel(PropStash, at(600)); ok {
		t.Error("second cancel reported an active tween")
	}
}

func TestZeroDurationSettlesOnNextTick(t *testing.T) {
	d := NewDriver()
	d.Start(Descriptor{Property: PropArrow, From: 0, To: 1}, at(0))
	settled := d.Tick(at(0))
	if len(settled) != 1 || d.Value(PropArrow) != 1 {
		t.Errorf("zero-duration tween: settled=%v value=%.2f", settled, d.Value(PropArrow))
	}
}

func TestSettledOrderIsStable(t *testing.T) {
	d := NewDriver()
	for _, p := range []Property{PresenceProperty("z"), PropStash, PresenceProperty("a"), PropExpansion} {
		d.Start(Descriptor{Property: p, To: 1, Duration: time.Millisecond}, at(0))
	}
	settled := d.Tick(at(10))
	for i := 1; i < len(settled); i++ {
		if settled[i-1].Property > settled[i].Property {
			t.Fatalf("settled out of order: %v", settled)
		}
	}
}

func TestTargetAndForget(t *testing.T) {
	d := NewDriver()
	prop := PresenceProperty("b1")
	d.Start(Descriptor{Property: prop, From: 1, To: 0, Duration: time.Second}, at(0))

	if to, ok := d.Target(prop); !ok || to != 0 {
		t.Errorf("Target = %.1f,%v", to, ok)
	}
	d.Forget(prop)
	if d.Has(prop) || d.Active(prop) {
		t.Error("Forget left state behind")
	}
}

func TestEasingEndpoints(t *testing.T) {
	for name, fn := range map[string]Easing{"linear": Linear, "inout": EaseInOut, "out": EaseOut} {
		if !near(fn(0), 0) || !near(fn(1), 1) {
			t.Errorf("%s: f(0)=%.3f f(1)=%.3f", name, fn(0), fn(1))
		}
		prev := 0.0
		for i := 1; i <= 50; i++ {
			v := fn(float64(i) / 50)
			if v < prev {
				t.Errorf("%s is not monotonic at %d", name, i)
			}
			prev = v
		}
	}
}

func TestScaled(t *testing.T) {
	full := 300 * time.Millisecond
	tests := []struct {
		from, to float64
		want     time.Duration
	}{
		{0, 1, full},
		{1, 0, full},
		{0.5, 1, 150 * time.Millisecond},
		{0.75, 0.25, 150 * time.Millisecond},
		{0.25, 0.25, 0},
		{-1, 1, full},
	}
	for _, tt := range tests {
		if got := Scaled(full, tt.from, tt.to); got != tt.want {
			t.Errorf("Scaled(%.2f→%.2f) = %v, want %v", tt.from, tt.to, got, tt.want)
		}
	}
}

func TestSpringComesToRest(t *testing.T) {
	s := NewSpring2D(60, 8, 0.8)
	s.Launch(10, -4, 120, 0, 0, 0)

	rested := false
	for i := 0; i < 600; i++ {
		if s.Step() {
			rested = true
			break
		}
	}
	if !rested {
		t.Fatalf("spring did not settle: pos=(%.2f,%.2f) vel=(%.2f,%.2f)", s.X, s.Y, s.VX, s.VY)
	}
	if s.X != 0 || s.Y != 0 {
		t.Errorf("rest position = (%.2f,%.2f), want origin", s.X, s.Y)
	}
}
