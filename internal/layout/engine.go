// Package layout computes bubble bar geometry. Everything in here is a pure
// function of its inputs: the same Input always yields the same Frame, which
// is what lets an interrupted transition reverse without a visual jump.
package layout

import (
	"math"

	"github.com/Dallionking/bubblebar/internal/bubble"
)

// Params holds the geometric constants of the bar. Units are abstract; the
// terminal front end treats them as cells.
type Params struct {
	IconSize        float64
	Spacing         float64
	CollapsedOffset float64
	CollapsedScale  float64
	Padding         float64
	ElevationUnit   float64
	MaxStacked      int
	HandleWidth     float64
	HandleHeight    float64
}

// DefaultParams returns the geometry used when no configuration overrides it.
func DefaultParams() Params {
	return Params{
		IconSize:        6,
		Spacing:         2,
		CollapsedOffset: 2,
		CollapsedScale:  0.8,
		Padding:         1,
		ElevationUnit:   1,
		MaxStacked:      2,
		HandleWidth:     8,
		HandleHeight:    1,
	}
}

// Item is one visible entry as the engine sees it.
type Item struct {
	Key       string
	HasUnseen bool
	Overflow  bool
}

// Override is a per-bubble translation applied during a live drag.
type Override struct {
	DX, DY float64
}

// Input is everything the layout depends on.
type Input struct {
	Items      []Item
	Selected   string
	ArrowFrom  map[string]float64
	ArrowBlend float64
	Progress   float64
	Location   bubble.Location
	Stash      float64
	Presence   map[string]float64
	Overrides  map[string]Override
}

// Node is the computed transform of one bubble. X and Y are relative to the
// bar's top-left corner.
type Node struct {
	Key       string
	X, Y      float64
	Size      float64
	Scale     float64
	Alpha     float64
	Elevation float64
	ShowBadge bool
	ShowDot   bool
	Dragged   bool
}

// Frame is a complete layout result.
type Frame struct {
	Nodes        []Node
	Width        float64
	Height       float64
	ArrowX       float64
	ArrowVisible bool
	Location     bubble.Location
	Progress     float64
}

// Rect is an axis-aligned rectangle.
type Rect struct {
	X, Y, Width, Height float64
}

// Contains reports whether the point lies inside r.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.X && x < r.X+r.Width && y >= r.Y && y < r.Y+r.Height
}

// Engine evaluates layouts for a fixed set of Params.
type Engine struct {
	p Params
}

// NewEngine returns an engine for p. Non-positive values fall back to the
// defaults.
func NewEngine(p Params) Engine {
	d := DefaultParams()
	if p.IconSize <= 0 {
		p.IconSize = d.IconSize
	}
	if p.Spacing < 0 {
		p.Spacing = d.Spacing
	}
	if p.CollapsedOffset < 0 {
		p.CollapsedOffset = d.CollapsedOffset
	}
	if p.CollapsedScale <= 0 || p.CollapsedScale > 1 {
		p.CollapsedScale = d.CollapsedScale
	}
	if p.Padding < 0 {
		p.Padding = d.Padding
	}
	if p.ElevationUnit <= 0 {
		p.ElevationUnit = d.ElevationUnit
	}
	if p.MaxStacked <= 0 {
		p.MaxStacked = d.MaxStacked
	}
	if p.HandleWidth <= 0 {
		p.HandleWidth = d.HandleWidth
	}
	if p.HandleHeight <= 0 {
		p.HandleHeight = d.HandleHeight
	}
	return Engine{p: p}
}

// Params returns the engine's geometry constants.
func (e Engine) Params() Params { return e.p }

// Layout computes the frame for in.
//
// Expansion progress and population presence are independent inputs:
// progress blends the collapsed stack with the expanded row, presence
// scales each item's slot so insertions and removals ease in and out.
func (e Engine) Layout(in Input) Frame {
	p := e.p
	progress := clamp01(in.Progress)
	stash := clamp01(in.Stash)
	n := len(in.Items)

	// slot[i] is the presence-weighted number of items ahead of i.
	slot := make([]float64, n)
	presence := make([]float64, n)
	total := 0.0
	for i, it := range in.Items {
		slot[i] = total
		presence[i] = presenceOf(in.Presence, it.Key)
		total += presence[i]
	}

	collapsedContent := 0.0
	if total > 0 {
		collapsedContent = p.IconSize*math.Min(total, 1) + math.Min(math.Max(total-1, 0), 1)*p.CollapsedOffset
	}
	expandedContent := total*p.IconSize + math.Max(total-1, 0)*p.Spacing

	barWidth := lerp(collapsedContent, expandedContent, progress) + 2*p.Padding
	barHeight := p.IconSize + 2*p.Padding
	width := lerp(barWidth, p.HandleWidth, stash)
	height := lerp(barHeight, p.HandleHeight, stash)

	frame := Frame{
		Nodes:    make([]Node, n),
		Width:    width,
		Height:   height,
		Location: in.Location,
		Progress: progress,
	}

	expanded := progress >= 0.5
	for i, it := range in.Items {
		s := slot[i]

		collapsedDist := math.Min(s, 1) * p.CollapsedOffset
		expandedDist := s * (p.IconSize + p.Spacing)
		dist := lerp(collapsedDist, expandedDist, progress)

		collapsedScale := 1 - math.Min(s, 1)*(1-p.CollapsedScale)
		scale := lerp(collapsedScale, 1, progress) * presence[i]
		size := p.IconSize * scale

		collapsedAlpha := clamp01(float64(p.MaxStacked) - s)
		if it.Key == in.Selected {
			collapsedAlpha = 1
		}
		alpha := lerp(collapsedAlpha, 1, progress) * presence[i] * (1 - stash)

		// Center the (possibly scaled) icon inside its unscaled slot.
		inset := (p.IconSize - size) / 2
		var x float64
		if in.Location == bubble.LocationRight {
			x = width - p.Padding - dist - p.IconSize + inset
		} else {
			x = p.Padding + dist + inset
		}
		y := p.Padding + inset

		node := Node{
			Key:       it.Key,
			X:         x,
			Y:         y,
			Size:      size,
			Scale:     scale,
			Alpha:     alpha,
			Elevation: float64(n-i) * p.ElevationUnit,
		}

		if !it.Overflow {
			if expanded {
				node.ShowBadge = true
				node.ShowDot = it.HasUnseen && it.Key != in.Selected
			} else {
				node.ShowBadge = i == 0
				node.ShowDot = i == 0 && it.HasUnseen
			}
		}

		if ov, ok := in.Overrides[it.Key]; ok {
			node.X += ov.DX
			node.Y += ov.DY
			node.Dragged = true
			node.Elevation = float64(n+1) * p.ElevationUnit
		}
		frame.Nodes[i] = node
	}

	if to, ok := frame.node(in.Selected); ok && progress > 0 && stash < 1 {
		toX := to.X + to.Size/2
		fromX, total := 0.0, 0.0
		for key, w := range in.ArrowFrom {
			if from, ok := frame.node(key); ok && w > 0 {
				fromX += w * (from.X + from.Size/2)
				total += w
			}
		}
		if total > 0 {
			fromX /= total
		} else {
			fromX = toX
		}
		frame.ArrowX = lerp(fromX, toX, clamp01(in.ArrowBlend))
		frame.ArrowVisible = true
	}

	return frame
}

// Handle returns the geometry of the stash handle for a screen of the given
// width, docked at loc.
func (e Engine) Handle(screenWidth float64, loc bubble.Location) Rect {
	x := e.p.Padding
	if loc == bubble.LocationRight {
		x = screenWidth - e.p.Padding - e.p.HandleWidth
	}
	return Rect{X: x, Y: 0, Width: e.p.HandleWidth, Height: e.p.HandleHeight}
}

// HitTest returns the key of the top-most visible node containing (x, y),
// in frame coordinates.
func (e Engine) HitTest(f Frame, x, y float64) (string, bool) {
	best := -1
	for i, n := range f.Nodes {
		if n.Alpha <= 0 || n.Size <= 0 {
			continue
		}
		r := Rect{X: n.X, Y: n.Y, Width: n.Size, Height: n.Size}
		if !r.Contains(x, y) {
			continue
		}
		if best < 0 || n.Elevation > f.Nodes[best].Elevation {
			best = i
		}
	}
	if best < 0 {
		return "", false
	}
	return f.Nodes[best].Key, true
}

// Node returns the node for key.
func (f Frame) Node(key string) (Node, bool) {
	return f.node(key)
}

func (f Frame) node(key string) (Node, bool) {
	if key == "" {
		return Node{}, false
	}
	for _, n := range f.Nodes {
		if n.Key == key {
			return n, true
		}
	}
	return Node{}, false
}

func presenceOf(m map[string]float64, key string) float64 {
	if v, ok := m[key]; ok {
		return clamp01(v)
	}
	return 1
}

func lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

func clamp01(v float64) float64 {
	switch {
	case math.IsNaN(v):
		return 0
	case v < 0:
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}
