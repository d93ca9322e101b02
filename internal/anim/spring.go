package anim

import (
	"math"

	"github.com/charmbracelet/harmonica"
)

// restThreshold is how close to the target, in both position and velocity,
// a spring must be before it counts as settled.
const restThreshold = 0.05

// Spring2D moves a point toward a target with a damped spring. It is used for
// release-to-rest after a drag so the bubble keeps the pointer's momentum.
type Spring2D struct {
	spring harmonica.Spring
	X, Y   float64
	VX, VY float64
	TX, TY float64
}

// NewSpring2D creates a spring stepped at fps frames per second.
func NewSpring2D(fps int, angularFrequency, damping float64) *Spring2D {
	if fps <= 0 {
		fps = 60
	}
	return &Spring2D{
		spring: harmonica.NewSpring(harmonica.FPS(fps), angularFrequency, damping),
	}
}

// Launch places the spring at (x, y) moving with velocity (vx, vy) in units
// per second, heading for (tx, ty).
func (s *Spring2D) Launch(x, y, vx, vy, tx, ty float64) {
	s.X, s.Y = x, y
	s.VX, s.VY = vx, vy
	s.TX, s.TY = tx, ty
}

// Step advances the spring one frame and reports whether it is at rest.
// Once at rest the position is snapped onto the target.
func (s *Spring2D) Step() bool {
	s.X, s.VX = s.spring.Update(s.X, s.VX, s.TX)
	s.Y, s.VY = s.spring.Update(s.Y, s.VY, s.TY)
	if s.AtRest() {
		s.X, s.Y = s.TX, s.TY
		s.VX, s.VY = 0, 0
		return true
	}
	return false
}

// AtRest reports whether the spring has settled on its target.
func (s *Spring2D) AtRest() bool {
	return math.Abs(s.X-s.TX) < restThreshold &&
		math.Abs(s.Y-s.TY) < restThreshold &&
		math.Abs(s.VX) < restThreshold &&
		math.Abs(s.VY) < restThreshold
}
