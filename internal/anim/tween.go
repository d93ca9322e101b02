// Package anim drives time-based value transitions. An animation is a plain
// Descriptor (property, start, end, duration, settle payload); the Driver
// advances every running descriptor on each frame and reports which ones
// settled, so "what animates" stays separate from "what happens next".
package anim

import (
	"math"
	"sort"
	"time"
)

// Property names an animated scalar.
type Property string

const (
	PropExpansion Property = "expansion"
	PropStash     Property = "stash"
	PropArrow     Property = "arrow"
)

// PresenceProperty is the per-bubble population property used when a bubble
// is inserted into or removed from the bar.
func PresenceProperty(key string) Property {
	return Property("presence:" + key)
}

// Easing maps linear time in [0,1] onto eased progress in [0,1].
type Easing func(t float64) float64

// Linear is the identity easing.
func Linear(t float64) float64 { return t }

// EaseInOut is a cubic ease-in-out curve.
func EaseInOut(t float64) float64 {
	if t < 0.5 {
		return 4 * t * t * t
	}
	f := -2*t + 2
	return 1 - f*f*f/2
}

// EaseOut is a cubic ease-out curve.
func EaseOut(t float64) float64 {
	f := 1 - t
	return 1 - f*f*f
}

// Descriptor describes one transition.
type Descriptor struct {
	Property Property
	From     float64
	To       float64
	Duration time.Duration
	Easing   Easing
	// Settle is handed back in the Settled record when the tween finishes.
	Settle any
}

// Settled reports a tween that reached its end value.
type Settled struct {
	Property Property
	Value    float64
	Settle   any
}

type tween struct {
	d     Descriptor
	start time.Time
}

// Driver evaluates running tweens. It is not safe for concurrent use; it
// belongs to the goroutine that owns the bar.
type Driver struct {
	tweens map[Property]*tween
	values map[Property]float64
}

// NewDriver returns an idle driver.
func NewDriver() *Driver {
	return &Driver{
		tweens: make(map[Property]*tween),
		values: make(map[Property]float64),
	}
}

// Start runs d from d.From, replacing any tween already running on the same
// property. A zero duration settles on the next Tick.
func (dr *Driver) Start(d Descriptor, now time.Time) {
	if d.Easing == nil {
		d.Easing = Linear
	}
	dr.values[d.Property] = d.From
	dr.tweens[d.Property] = &tween{d: d, start: now}
}

// Retarget animates prop from wherever it currently is (sampled at now,
// mid-flight or at rest) toward to. This is the only way the bar redirects an
// animation, so a reversal never snaps.
func (dr *Driver) Retarget(prop Property, to float64, full time.Duration, easing Easing, settle any, now time.Time) Descriptor {
	from := dr.Sample(prop, now)
	d := Descriptor{
		Property: prop,
		From:     from,
		To:       to,
		Duration: Scaled(full, from, to),
		Easing:   easing,
		Settle:   settle,
	}
	dr.Start(d, now)
	return d
}

// Scaled shortens full in proportion to the distance left on a unit range,
// so a reversal from the middle takes half the time.
func Scaled(full time.Duration, from, to float64) time.Duration {
	dist := math.Abs(to - from)
	if dist >= 1 {
		return full
	}
	return time.Duration(float64(full) * dist)
}

// Tick advances every tween to now and returns the ones that settled, in
// property order.
func (dr *Driver) Tick(now time.Time) []Settled {
	var settled []Settled
	for prop, tw := range dr.tweens {
		v, done := tw.eval(now)
		dr.values[prop] = v
		if done {
			delete(dr.tweens, prop)
			settled = append(settled, Settled{Property: prop, Value: v, Settle: tw.d.Settle})
		}
	}
	sort.Slice(settled, func(i, j int) bool { return settled[i].Property < settled[j].Property })
	return settled
}

// Sample returns the value of prop at now without advancing the driver's
// bookkeeping for other properties.
func (dr *Driver) Sample(prop Property, now time.Time) float64 {
	if tw, ok := dr.tweens[prop]; ok {
		v, _ := tw.eval(now)
		dr.values[prop] = v
		return v
	}
	return dr.values[prop]
}

// Cancel stops prop where it is at now and returns that value. The value is
// retained so the next animation starts from it.
func (dr *Driver) Cancel(prop Property, now time.Time) (float64, bool) {
	tw, ok := dr.tweens[prop]
	if !ok {
		return dr.values[prop], false
	}
	v, _ := tw.eval(now)
	dr.values[prop] = v
	delete(dr.tweens, prop)
	return v, true
}

// Set jumps prop to v and stops any tween on it.
func (dr *Driver) Set(prop Property, v float64) {
	delete(dr.tweens, prop)
	dr.values[prop] = v
}

// Forget removes every trace of prop.
func (dr *Driver) Forget(prop Property) {
	delete(dr.tweens, prop)
	delete(dr.values, prop)
}

// Value returns the last evaluated value of prop.
func (dr *Driver) Value(prop Property) float64 {
	return dr.values[prop]
}

// Has reports whether prop has a value or a running tween.
func (dr *Driver) Has(prop Property) bool {
	_, ok := dr.values[prop]
	return ok
}

// Active reports whether prop is mid-tween.
func (dr *Driver) Active(prop Property) bool {
	_, ok := dr.tweens[prop]
	return ok
}

// Target returns where prop is heading, if it is animating.
func (dr *Driver) Target(prop Property) (float64, bool) {
	if tw, ok := dr.tweens[prop]; ok {
		return tw.d.To, true
	}
	return 0, false
}

// Animating reports whether any tween is running.
func (dr *Driver) Animating() bool {
	return len(dr.tweens) > 0
}

// Running returns the properties currently animating, sorted.
func (dr *Driver) Running() []Property {
	out := make([]Property, 0, len(dr.tweens))
	for p := range dr.tweens {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func (tw *tween) eval(now time.Time) (float64, bool) {
	d := tw.d
	if d.Duration <= 0 {
		return d.To, true
	}
	elapsed := now.Sub(tw.start)
	if elapsed <= 0 {
		return d.From, false
	}
	t := float64(elapsed) / float64(d.Duration)
	if t >= 1 {
		return d.To, true
	}
	return d.From + (d.To-d.From)*d.Easing(t), false
}
