package components

import (
	"image/color"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Dallionking/bubblebar/internal/bar"
	"github.com/Dallionking/bubblebar/internal/bubble"
	"github.com/Dallionking/bubblebar/internal/drag"
	"github.com/Dallionking/bubblebar/internal/layout"
)

func rowText(c *Canvas, y int) string {
	var b strings.Builder
	for x := 0; x < c.Width(); x++ {
		b.WriteRune(c.Rune(x, y))
	}
	return b.String()
}

func TestCanvasClipsAndRenders(t *testing.T) {
	c := NewCanvas(4, 2, "")
	c.Text(1, 0, "abcdef", "", false)
	c.Set(-1, 0, 'x', "")
	c.Set(3, 5, 'x', "")

	if got := rowText(c, 0); got != " abc" {
		t.Errorf("row 0 = %q", got)
	}
	if c.Rune(9, 9) != 0 {
		t.Error("rune outside the grid should be 0")
	}
	out := c.String()
	if h := lipgloss.Height(out); h != 2 {
		t.Errorf("height = %d, want 2", h)
	}
	for _, line := range strings.Split(out, "\n") {
		if w := lipgloss.Width(line); w != 4 {
			t.Errorf("line %q width = %d, want 4", line, w)
		}
	}
	if r := c.Region(3, 0, 99, 1); lipgloss.Width(r) != 1 {
		t.Errorf("clipped region = %q", r)
	}
}

func expandedView() bar.View {
	e := bubble.NewEntry(
		bubble.Descriptor{Key: "B1", AppName: "Mail App"},
		bubble.Payload{
			AppName:  "Mail App",
			DotColor: color.RGBA{R: 200, A: 255},
			Flyout:   bubble.Flyout{Title: "Hello", Message: "world"},
		},
	)
	return bar.View{
		Frame: layout.Frame{
			Nodes:        []layout.Node{{Key: "B1", X: 1, Y: 1, Size: 6, Scale: 1, Alpha: 1, ShowDot: true}},
			Width:        8,
			Height:       8,
			ArrowVisible: true,
			ArrowX:       4,
			Progress:     1,
		},
		Origin:   drag.Point{X: 2, Y: 20},
		State:    bar.StateExpanded,
		Selected: "B1",
		Entries:  map[string]*bubble.Entry{"B1": e},
	}
}

func TestStageDrawsBubbleAndFlyout(t *testing.T) {
	c := Stage{}.Draw(expandedView(), 40, 20)

	if c.Rune(5, 11) != 'M' || c.Rune(6, 11) != 'A' {
		t.Errorf("label row = %q", rowText(c, 11))
	}
	if c.Rune(8, 10) != '●' {
		t.Errorf("unseen dot missing: %q", rowText(c, 10))
	}
	if c.Rune(6, 9) != '▼' {
		t.Errorf("arrow missing: %q", rowText(c, 9))
	}
	if c.Rune(2, 6) != '╭' || !strings.Contains(rowText(c, 7), "Hello") || !strings.Contains(rowText(c, 8), "world") {
		t.Errorf("flyout:\n%s\n%s\n%s", rowText(c, 6), rowText(c, 7), rowText(c, 8))
	}
}

func TestStageDrawsHandleWhenStashed(t *testing.T) {
	v := expandedView()
	v.State = bar.StateStashed
	v.Handle = layout.Rect{X: 1, Y: 30, Width: 8, Height: 1}
	c := Stage{}.Draw(v, 40, 20)

	if c.Rune(1, 15) != '▀' || c.Rune(8, 15) != '▀' || c.Rune(9, 15) != ' ' {
		t.Errorf("handle row = %q", rowText(c, 15))
	}
	if c.Rune(5, 11) == 'M' {
		t.Error("stashed bar should not draw bubbles")
	}
}

func TestStageHighlightsDropZonesWhileDragging(t *testing.T) {
	s := Stage{Zones: Zones{EdgeFraction: 0.25, DismissHeight: 4}}
	v := bar.View{Dragging: true, Zone: drag.ZoneDismiss}
	c := s.Draw(v, 40, 20)

	if !strings.Contains(rowText(c, 19), "dismiss") {
		t.Errorf("dismiss strip = %q", rowText(c, 19))
	}
	if !strings.Contains(rowText(c, 9), "dock") {
		t.Errorf("dock strips = %q", rowText(c, 9))
	}
}

func TestStageRenderMarksStrips(t *testing.T) {
	var marked []string
	s := Stage{
		Zones: Zones{EdgeFraction: 0.25, DismissHeight: 4},
		Mark: func(id, v string) string {
			marked = append(marked, id)
			return v
		},
	}
	out := s.Render(expandedView(), 40, 20)

	if h := lipgloss.Height(out); h != 20 {
		t.Errorf("height = %d, want 20", h)
	}
	want := map[string]bool{ZoneDockLeftID: true, ZoneDockRightID: true, ZoneDismissID: true}
	if len(marked) != len(want) {
		t.Fatalf("marked = %v", marked)
	}
	for _, id := range marked {
		if !want[id] {
			t.Errorf("unexpected zone %s", id)
		}
	}
}

func TestZonesStrips(t *testing.T) {
	tests := []struct {
		name                string
		z                   Zones
		cols, rows          int
		full, dismiss, edge int
	}{
		{"defaults", Zones{EdgeFraction: 0.2, DismissHeight: 3}, 80, 20, 0, 2, 16},
		{"fullscreen", Zones{EdgeFraction: 0.2, DismissHeight: 4, FullscreenHeight: 2, FullscreenEnabled: true}, 80, 20, 1, 2, 16},
		{"fullscreen off", Zones{FullscreenHeight: 6}, 80, 20, 0, 0, 0},
		{"tiny", Zones{EdgeFraction: 0.9, DismissHeight: 40}, 10, 3, 0, 3, 5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			full, dismiss, edge := tt.z.Strips(tt.cols, tt.rows)
			if full != tt.full || dismiss != tt.dismiss || edge != tt.edge {
				t.Errorf("Strips = %d, %d, %d; want %d, %d, %d", full, dismiss, edge, tt.full, tt.dismiss, tt.edge)
			}
		})
	}
}

type rect struct{ x0, y0, x1, y1 int }

func (r rect) InBounds(e tea.MouseMsg) bool {
	return e.X >= r.x0 && e.X <= r.x1 && e.Y >= r.y0 && e.Y <= r.y1
}

func TestZoneResolver(t *testing.T) {
	edge := drag.EdgeResolver{Width: 40, Height: 40, EdgeFraction: 0.25, DismissHeight: 4}

	t.Run("falls back before the first render", func(t *testing.T) {
		r := &ZoneResolver{Lookup: func(string) Bounds { return nil }, Top: 1, Edge: edge}
		if z := r.Resolve(drag.Point{X: 1, Y: 10}); z != drag.ZoneDockLeft {
			t.Errorf("zone = %v, want dock left", z)
		}
	})

	t.Run("uses rendered strips", func(t *testing.T) {
		strips := map[string]Bounds{
			ZoneDockLeftID:  rect{0, 1, 9, 18},
			ZoneDockRightID: rect{30, 1, 39, 18},
			ZoneDismissID:   rect{0, 19, 39, 20},
		}
		r := &ZoneResolver{Lookup: func(id string) Bounds { return strips[id] }, Top: 1, Edge: edge}
		tests := []struct {
			p    drag.Point
			want drag.Zone
		}{
			{drag.Point{X: 35, Y: 10}, drag.ZoneDockRight},
			{drag.Point{X: 2, Y: 10}, drag.ZoneDockLeft},
			{drag.Point{X: 20, Y: 10}, drag.ZoneNone},
			{drag.Point{X: 35, Y: 37}, drag.ZoneDismiss},
		}
		for _, tt := range tests {
			if z := r.Resolve(tt.p); z != tt.want {
				t.Errorf("Resolve(%v) = %v, want %v", tt.p, z, tt.want)
			}
		}
	})
}

func TestHeaderAndFooter(t *testing.T) {
	h := Header{State: "expanded", Location: "right", Bubbles: 3, Suppressed: 1, Busy: "*", Width: 100}.Render()
	for _, want := range []string{"EXPANDED", "RIGHT", "3 (+1 hidden)", "materializing"} {
		if !strings.Contains(h, want) {
			t.Errorf("header missing %q: %s", want, h)
		}
	}

	var ids []string
	f := Footer{
		Buttons: []Button{{ID: "a", Label: "expand"}, {ID: "b", Label: "stash"}},
		Hints:   []KeyHint{{Key: "q", Desc: "quit"}},
		Mark:    func(id, s string) string { ids = append(ids, id); return s },
		Width:   80,
	}.Render()
	if !strings.Contains(f, "expand") || !strings.Contains(f, "quit") || len(ids) != 2 {
		t.Errorf("footer = %q, marked %v", f, ids)
	}
}

func TestHelpMarkdown(t *testing.T) {
	md := HelpMarkdown([]key.Binding{
		key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "stash or unstash")),
		key.NewBinding(key.WithKeys("z")),
	})
	if !strings.Contains(md, "| `s` | stash or unstash |") {
		t.Errorf("markdown:\n%s", md)
	}
	if strings.Contains(md, "`z`") {
		t.Error("bindings without help should be skipped")
	}
	if out := RenderMarkdown(md, 60); !strings.Contains(out, "unstash") {
		t.Errorf("rendered:\n%s", out)
	}
	if got := TruncateLines("a\nb\nc", 2); got != "a\nb" {
		t.Errorf("TruncateLines = %q", got)
	}
}

func TestActivityLog(t *testing.T) {
	l := NewActivityLog(60, 5)
	l.maxLines = 3
	at := time.Date(2026, 1, 1, 9, 30, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		l.AddLine(LogLine{Time: at, Level: "info", Source: "BAR", Message: "line " + string(rune('a'+i))})
	}
	if l.Len() != 3 {
		t.Errorf("len = %d, want 3", l.Len())
	}
	out := l.View()
	if !strings.Contains(out, "Activity") || !strings.Contains(out, "line e") || strings.Contains(out, "line a") {
		t.Errorf("view:\n%s", out)
	}
}

func TestConfirm(t *testing.T) {
	keyMsg := func(s string) tea.KeyMsg {
		switch s {
		case "enter":
			return tea.KeyMsg{Type: tea.KeyEnter}
		case "left":
			return tea.KeyMsg{Type: tea.KeyLeft}
		}
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
	}

	tests := []struct {
		name string
		keys []string
		done bool
		yes  bool
	}{
		{"enter defaults to no", []string{"enter"}, true, false},
		{"left then enter", []string{"left", "enter"}, true, true},
		{"y", []string{"y"}, true, true},
		{"n", []string{"n"}, true, false},
		{"other keys wait", []string{"z"}, false, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := NewConfirm("Dismiss all bubbles?", "3 bubbles will be removed.")
			for _, k := range tt.keys {
				d = d.Update(keyMsg(k))
			}
			if d.Done != tt.done || d.Confirmed != tt.yes {
				t.Errorf("done=%v confirmed=%v, want %v %v", d.Done, d.Confirmed, tt.done, tt.yes)
			}
		})
	}

	var marked []string
	d := NewConfirm("Dismiss all bubbles?", "3 bubbles will be removed.")
	d.Mark = func(id, s string) string { marked = append(marked, id); return s }
	if out := d.View(); !strings.Contains(out, "Yes") || !strings.Contains(out, "3 bubbles") {
		t.Errorf("view = %q", out)
	}
	if len(marked) != 2 || marked[0] != ConfirmYesID || marked[1] != ConfirmNoID {
		t.Errorf("marked = %v", marked)
	}
	if a := d.Answer(true); !a.Done || !a.Confirmed {
		t.Errorf("answer = %+v", a)
	}
}
