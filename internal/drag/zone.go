package drag

import "github.com/Dallionking/bubblebar/internal/bubble"

// Zone is a drop target hovered during a drag.
type Zone int

const (
	ZoneNone Zone = iota
	ZoneDockLeft
	ZoneDockRight
	ZoneDismiss
	ZoneFullscreen
)

func (z Zone) String() string {
	switch z {
	case ZoneDockLeft:
		return "dock-left"
	case ZoneDockRight:
		return "dock-right"
	case ZoneDismiss:
		return "dismiss"
	case ZoneFullscreen:
		return "fullscreen"
	default:
		return "none"
	}
}

// Location returns the docking edge a dock zone stands for.
func (z Zone) Location() (bubble.Location, bool) {
	switch z {
	case ZoneDockLeft:
		return bubble.LocationLeft, true
	case ZoneDockRight:
		return bubble.LocationRight, true
	default:
		return bubble.LocationLeft, false
	}
}

// Point is a pointer position in screen coordinates.
type Point struct {
	X, Y float64
}

// Add returns p + q.
func (p Point) Add(q Point) Point {
	return Point{X: p.X + q.X, Y: p.Y + q.Y}
}

// Sub returns p - q.
func (p Point) Sub(q Point) Point {
	return Point{X: p.X - q.X, Y: p.Y - q.Y}
}

// ZoneResolver maps a pointer position onto the drop zone under it.
type ZoneResolver interface {
	Resolve(p Point) Zone
}

// ZoneResolverFunc adapts a function to ZoneResolver.
type ZoneResolverFunc func(p Point) Zone

// Resolve calls f(p).
func (f ZoneResolverFunc) Resolve(p Point) Zone { return f(p) }

// EdgeResolver is the geometric default: a dismiss strip along the bottom,
// an optional fullscreen strip along the top, and a dock region on each side.
type EdgeResolver struct {
	Width, Height float64
	// EdgeFraction is the share of the width, per side, that counts as a
	// dock region.
	EdgeFraction      float64
	DismissHeight     float64
	FullscreenHeight  float64
	FullscreenEnabled bool
}

// Resolve implements ZoneResolver.
func (r EdgeResolver) Resolve(p Point) Zone {
	if r.Width <= 0 || r.Height <= 0 {
		return ZoneNone
	}
	if p.Y >= r.Height-r.DismissHeight {
		return ZoneDismiss
	}
	if r.FullscreenEnabled && p.Y < r.FullscreenHeight {
		return ZoneFullscreen
	}
	edge := r.Width * r.EdgeFraction
	switch {
	case p.X < edge:
		return ZoneDockLeft
	case p.X >= r.Width-edge:
		return ZoneDockRight
	default:
		return ZoneNone
	}
}
