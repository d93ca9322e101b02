package drag

import "time"

// DefaultVelocityWindow is how far back samples count toward the velocity.
const DefaultVelocityWindow = 100 * time.Millisecond

type sample struct {
	at time.Time
	p  Point
}

// VelocityTracker estimates pointer velocity from trailing samples. Only
// the release animation uses it.
type VelocityTracker struct {
	window  time.Duration
	samples []sample
}

// NewVelocityTracker returns a tracker over the given window.
func NewVelocityTracker(window time.Duration) *VelocityTracker {
	if window <= 0 {
		window = DefaultVelocityWindow
	}
	return &VelocityTracker{window: window}
}

// Add records a pointer sample and drops samples older than the window.
func (v *VelocityTracker) Add(p Point, at time.Time) {
	v.samples = append(v.samples, sample{at: at, p: p})
	cutoff := at.Add(-v.window)
	i := 0
	for i < len(v.samples)-1 && v.samples[i].at.Before(cutoff) {
		i++
	}
	v.samples = v.samples[i:]
}

// Velocity returns units per second over the retained samples.
func (v *VelocityTracker) Velocity() Point {
	if len(v.samples) < 2 {
		return Point{}
	}
	first, last := v.samples[0], v.samples[len(v.samples)-1]
	dt := last.at.Sub(first.at).Seconds()
	if dt <= 0 {
		return Point{}
	}
	d := last.p.Sub(first.p)
	return Point{X: d.X / dt, Y: d.Y / dt}
}

// Reset drops every sample.
func (v *VelocityTracker) Reset() {
	v.samples = v.samples[:0]
}
