package layout

import (
	"math"
	"reflect"
	"testing"

	"github.com/Dallionking/bubblebar/internal/bubble"
)

func items(keys ...string) []Item {
	out := make([]Item, len(keys))
	for i, k := range keys {
		out[i] = Item{Key: k, Overflow: k == bubble.OverflowKey}
	}
	return out
}

func approx(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestLayoutIsDeterministic(t *testing.T) {
	e := NewEngine(DefaultParams())
	for _, loc := range []bubble.Location{bubble.LocationLeft, bubble.LocationRight} {
		for i := 0; i <= 20; i++ {
			in := Input{
				Items:     items("a", "b", "c", bubble.OverflowKey),
				Selected:  "b",
				Progress:  float64(i) / 20,
				Location:  loc,
				Presence:  map[string]float64{"c": 0.5},
				Overrides: map[string]Override{"a": {DX: 1, DY: -2}},
			}
			first := e.Layout(in)
			second := e.Layout(in)
			if !reflect.DeepEqual(first, second) {
				t.Fatalf("loc=%v p=%.2f: layouts differ", loc, in.Progress)
			}
		}
	}
}

func TestCollapsedStackShowsTwoPlusSelected(t *testing.T) {
	e := NewEngine(DefaultParams())
	f := e.Layout(Input{Items: items("a", "b", "c", "d"), Selected: "d"})

	wantAlpha := map[string]float64{"a": 1, "b": 1, "c": 0, "d": 1}
	for _, n := range f.Nodes {
		if !approx(n.Alpha, wantAlpha[n.Key]) {
			t.Errorf("alpha(%s) = %.2f, want %.2f", n.Key, n.Alpha, wantAlpha[n.Key])
		}
	}
	if f.ArrowVisible {
		t.Error("arrow should be hidden while collapsed")
	}
	if !f.Nodes[0].ShowBadge || f.Nodes[1].ShowBadge {
		t.Error("only the first collapsed bubble shows its badge")
	}
}

func TestCollapsedDotOnlyOnFirst(t *testing.T) {
	e := NewEngine(DefaultParams())
	in := Input{Items: []Item{{Key: "a", HasUnseen: true}, {Key: "b", HasUnseen: true}}}
	f := e.Layout(in)
	if !f.Nodes[0].ShowDot || f.Nodes[1].ShowDot {
		t.Errorf("collapsed dots = %v/%v, want true/false", f.Nodes[0].ShowDot, f.Nodes[1].ShowDot)
	}
}

func TestExpandedRowSpacingAndElevation(t *testing.T) {
	p := DefaultParams()
	e := NewEngine(p)
	f := e.Layout(Input{
		Items:    []Item{{Key: "a", HasUnseen: true}, {Key: "b", HasUnseen: true}, {Key: "c"}},
		Selected: "a",
		Progress: 1,
	})

	stride := p.IconSize + p.Spacing
	for i, n := range f.Nodes {
		wantX := p.Padding + float64(i)*stride
		if !approx(n.X, wantX) {
			t.Errorf("x(%s) = %.2f, want %.2f", n.Key, n.X, wantX)
		}
		if i > 0 && !(f.Nodes[i-1].Elevation > n.Elevation) {
			t.Errorf("elevation must descend with index: %v", f.Nodes)
		}
	}
	if f.Nodes[0].ShowDot {
		t.Error("selected bubble's dot must be hidden when expanded")
	}
	if !f.Nodes[1].ShowDot {
		t.Error("unselected unseen bubble should show its dot when expanded")
	}
	wantWidth := 3*p.IconSize + 2*p.Spacing + 2*p.Padding
	if !approx(f.Width, wantWidth) {
		t.Errorf("width = %.2f, want %.2f", f.Width, wantWidth)
	}
	if !f.ArrowVisible || !approx(f.ArrowX, f.Nodes[0].X+p.IconSize/2) {
		t.Errorf("arrow = %.2f visible=%v, want centered on a", f.ArrowX, f.ArrowVisible)
	}
}

func TestRightLocationMirrorsRow(t *testing.T) {
	e := NewEngine(DefaultParams())
	in := Input{Items: items("a", "b", "c"), Progress: 1}

	left := e.Layout(in)
	in.Location = bubble.LocationRight
	right := e.Layout(in)

	for i := range left.Nodes {
		l, r := left.Nodes[i], right.Nodes[i]
		mirrored := left.Width - r.X - r.Size
		if !approx(l.X, mirrored) {
			t.Errorf("node %s: left x %.2f, mirrored right x %.2f", l.Key, l.X, mirrored)
		}
	}
	if !(right.Nodes[0].X > right.Nodes[1].X) {
		t.Error("on the right edge the most recent bubble should sit closest to the edge")
	}
}

func TestProgressInterpolatesContinuously(t *testing.T) {
	e := NewEngine(DefaultParams())
	in := Input{Items: items("a", "b", "c")}

	prev := e.Layout(in)
	for i := 1; i <= 100; i++ {
		in.Progress = float64(i) / 100
		cur := e.Layout(in)
		if math.Abs(cur.Width-prev.Width) > 1 {
			t.Fatalf("width jumped from %.2f to %.2f at p=%.2f", prev.Width, cur.Width, in.Progress)
		}
		for j := range cur.Nodes {
			if math.Abs(cur.Nodes[j].X-prev.Nodes[j].X) > 1 {
				t.Fatalf("node %d jumped at p=%.2f", j, in.Progress)
			}
		}
		prev = cur
	}
}

func TestProgressIsClamped(t *testing.T) {
	e := NewEngine(DefaultParams())
	in := Input{Items: items("a", "b")}

	in.Progress = -3
	below := e.Layout(in)
	in.Progress = 0
	zero := e.Layout(in)
	if !reflect.DeepEqual(below, zero) {
		t.Error("negative progress should clamp to 0")
	}

	in.Progress = 7
	above := e.Layout(in)
	in.Progress = 1
	one := e.Layout(in)
	if !reflect.DeepEqual(above, one) {
		t.Error("progress above 1 should clamp to 1")
	}
}

func TestPresenceEasesInsertion(t *testing.T) {
	p := DefaultParams()
	e := NewEngine(p)
	in := Input{Items: items("new", "a", "b"), Progress: 1, Presence: map[string]float64{"new": 0}}

	f := e.Layout(in)
	if f.Nodes[0].Alpha != 0 || f.Nodes[0].Size != 0 {
		t.Errorf("absent item should be invisible, got alpha=%.2f size=%.2f", f.Nodes[0].Alpha, f.Nodes[0].Size)
	}
	if !approx(f.Nodes[1].X, p.Padding) {
		t.Errorf("with zero presence the next item should take slot 0, x=%.2f", f.Nodes[1].X)
	}

	in.Presence["new"] = 1
	full := e.Layout(in)
	if !(full.Width > f.Width) {
		t.Error("bar should widen as the inserted item becomes present")
	}
}

func TestStashShrinksToHandle(t *testing.T) {
	p := DefaultParams()
	e := NewEngine(p)
	f := e.Layout(Input{Items: items("a", "b"), Stash: 1, Selected: "a", Progress: 0})

	if !approx(f.Width, p.HandleWidth) || !approx(f.Height, p.HandleHeight) {
		t.Errorf("stashed frame = %.2fx%.2f, want handle %.2fx%.2f", f.Width, f.Height, p.HandleWidth, p.HandleHeight)
	}
	for _, n := range f.Nodes {
		if n.Alpha != 0 {
			t.Errorf("node %s visible while stashed", n.Key)
		}
	}
}

func TestArrowBlendBetweenSelections(t *testing.T) {
	e := NewEngine(DefaultParams())
	in := Input{Items: items("a", "b", "c"), Progress: 1, Selected: "c", ArrowFrom: map[string]float64{"a": 1}}

	in.ArrowBlend = 0
	start := e.Layout(in)
	in.ArrowBlend = 1
	end := e.Layout(in)
	in.ArrowBlend = 0.5
	mid := e.Layout(in)

	a, _ := start.Node("a")
	c, _ := end.Node("c")
	if !approx(start.ArrowX, a.X+a.Size/2) {
		t.Errorf("blend 0 arrow = %.2f, want over a", start.ArrowX)
	}
	if !approx(end.ArrowX, c.X+c.Size/2) {
		t.Errorf("blend 1 arrow = %.2f, want over c", end.ArrowX)
	}
	if !approx(mid.ArrowX, (start.ArrowX+end.ArrowX)/2) {
		t.Errorf("blend 0.5 arrow = %.2f, want midpoint", mid.ArrowX)
	}
}

func TestArrowFromWeightedOrigin(t *testing.T) {
	e := NewEngine(DefaultParams())
	in := Input{
		Items:      items("a", "b", "c"),
		Progress:   1,
		Selected:   "c",
		ArrowFrom:  map[string]float64{"a": 0.25, "b": 0.75, "gone": 5},
		ArrowBlend: 0,
	}
	f := e.Layout(in)
	a, _ := f.Node("a")
	b, _ := f.Node("b")
	want := 0.25*(a.X+a.Size/2) + 0.75*(b.X+b.Size/2)
	if !approx(f.ArrowX, want) {
		t.Errorf("arrow = %.2f, want %.2f between a and b", f.ArrowX, want)
	}

	in.ArrowFrom = map[string]float64{"gone": 1}
	f = e.Layout(in)
	c, _ := f.Node("c")
	if !approx(f.ArrowX, c.X+c.Size/2) {
		t.Errorf("arrow from a missing key = %.2f, want over c", f.ArrowX)
	}
}

func TestOverrideLiftsDraggedBubble(t *testing.T) {
	e := NewEngine(DefaultParams())
	base := e.Layout(Input{Items: items("a", "b", "c"), Progress: 1})
	dragged := e.Layout(Input{
		Items:     items("a", "b", "c"),
		Progress:  1,
		Overrides: map[string]Override{"c": {DX: 5, DY: 3}},
	})

	b, _ := base.Node("c")
	d, _ := dragged.Node("c")
	if !approx(d.X, b.X+5) || !approx(d.Y, b.Y+3) {
		t.Errorf("override not applied: %+v vs %+v", d, b)
	}
	for _, n := range dragged.Nodes {
		if n.Key != "c" && n.Elevation >= d.Elevation {
			t.Errorf("dragged bubble must be top-most, %s has elevation %.1f", n.Key, n.Elevation)
		}
	}
}

func TestHitTestPicksTopMost(t *testing.T) {
	p := DefaultParams()
	e := NewEngine(p)
	f := e.Layout(Input{Items: items("a", "b"), Progress: 0})

	// Collapsed bubbles overlap; the most recent is on top.
	key, ok := e.HitTest(f, p.Padding+p.CollapsedOffset+0.5, p.Padding+p.IconSize/2)
	if !ok || key != "a" {
		t.Errorf("HitTest in overlap = %q,%v, want a", key, ok)
	}
	if _, ok := e.HitTest(f, -10, -10); ok {
		t.Error("HitTest outside the bar should miss")
	}
}

func TestHandlePlacement(t *testing.T) {
	p := DefaultParams()
	e := NewEngine(p)
	left := e.Handle(100, bubble.LocationLeft)
	right := e.Handle(100, bubble.LocationRight)
	if !approx(left.X, p.Padding) {
		t.Errorf("left handle x = %.2f", left.X)
	}
	if !approx(right.X+right.Width, 100-p.Padding) {
		t.Errorf("right handle ends at %.2f", right.X+right.Width)
	}
}
