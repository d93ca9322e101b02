package components

import (
	"image/color"
	"math"
	"sort"

	"github.com/charmbracelet/lipgloss"
	colorful "github.com/lucasb-eyer/go-colorful"

	"github.com/Dallionking/bubblebar/internal/bar"
	"github.com/Dallionking/bubblebar/internal/bubble"
	"github.com/Dallionking/bubblebar/internal/drag"
	"github.com/Dallionking/bubblebar/internal/layout"
	"github.com/Dallionking/bubblebar/internal/tui/styles"
)

// RowUnits is how many layout units one terminal row spans. Columns map one
// unit each, which keeps square icons roughly square on screen.
const RowUnits = 2.0

// Zones mirrors the drop-zone geometry the drag controller resolves
// against, in layout units.
type Zones struct {
	EdgeFraction      float64
	DismissHeight     float64
	FullscreenHeight  float64
	FullscreenEnabled bool
}

// Strips returns the drop strips in cells: rows of the top fullscreen strip,
// rows of the bottom dismiss strip and columns of each dock strip.
func (z Zones) Strips(cols, rows int) (full, dismiss, edge int) {
	if z.FullscreenEnabled {
		full = int(math.Ceil(z.FullscreenHeight / RowUnits))
	}
	dismiss = int(math.Ceil(z.DismissHeight / RowUnits))
	if dismiss > rows {
		dismiss = rows
	}
	if full > rows-dismiss {
		full = rows - dismiss
	}
	edge = int(float64(cols) * z.EdgeFraction)
	if 2*edge > cols {
		edge = cols / 2
	}
	return full, dismiss, edge
}

// Stage draws the bar, its handle, the flyout and the drop zones.
type Stage struct {
	Zones Zones
	// Mark wraps a drop strip in a hit zone; nil leaves it unmarked.
	Mark func(id, s string) string
}

// Render draws v into a cols x rows block. Each drop strip is rendered as
// its own block so it can carry a hit zone.
func (s Stage) Render(v bar.View, cols, rows int) string {
	c := s.Draw(v, cols, rows)
	mark := s.Mark
	if mark == nil {
		mark = func(_, s string) string { return s }
	}
	full, dismiss, edge := s.Zones.Strips(cols, rows)

	var parts []string
	if full > 0 {
		parts = append(parts, mark(ZoneFullscreenID, c.Region(0, 0, cols, full)))
	}
	if mid := rows - dismiss; mid > full {
		if edge > 0 {
			parts = append(parts, lipgloss.JoinHorizontal(lipgloss.Top,
				mark(ZoneDockLeftID, c.Region(0, full, edge, mid)),
				c.Region(edge, full, cols-edge, mid),
				mark(ZoneDockRightID, c.Region(cols-edge, full, cols, mid)),
			))
		} else {
			parts = append(parts, c.Region(0, full, cols, mid))
		}
	}
	if dismiss > 0 {
		parts = append(parts, mark(ZoneDismissID, c.Region(0, rows-dismiss, cols, rows)))
	}
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

// Draw paints v onto a fresh canvas.
func (s Stage) Draw(v bar.View, cols, rows int) *Canvas {
	c := NewCanvas(cols, rows, styles.BgDeep)
	if v.Dragging {
		s.drawZones(c, v.Zone)
	}
	if v.Stashed() {
		drawHandle(c, v.Handle)
		return c
	}
	drawBar(c, v)
	return c
}

func (s Stage) drawZones(c *Canvas, active drag.Zone) {
	full, dismiss, edge := s.Zones.Strips(c.Width(), c.Height())
	shade := func(x0, y0, x1, y1 int, z drag.Zone, label string) {
		bg, fg := styles.BgPanel, styles.TextMuted
		if z == active {
			bg, fg = styles.BgHover, styles.AccentPrimary
		}
		c.Fill(x0, y0, x1, y1, bg)
		if w := lipgloss.Width(label); x1-x0 >= w && y1 > y0 {
			c.Text(x0+(x1-x0-w)/2, y0+(y1-y0)/2, label, fg, z == active)
		}
	}
	cols, rows := c.Width(), c.Height()
	if full > 0 {
		shade(0, 0, cols, full, drag.ZoneFullscreen, "▲ fullscreen")
	}
	if edge > 0 {
		shade(0, full, edge, rows-dismiss, drag.ZoneDockLeft, "◀ dock")
		shade(cols-edge, full, cols, rows-dismiss, drag.ZoneDockRight, "dock ▶")
	}
	if dismiss > 0 {
		shade(0, rows-dismiss, cols, rows, drag.ZoneDismiss, "✕ dismiss")
	}
}

func drawHandle(c *Canvas, h layout.Rect) {
	x0, x1 := col(h.X), colEnd(h.X+h.Width)
	y0 := row(h.Y)
	y1 := max(rowEnd(h.Y+h.Height), y0+1)
	for y := y0; y < y1; y++ {
		for x := x0; x < x1; x++ {
			c.Set(x, y, '▀', styles.AccentPrimary)
		}
	}
}

func drawBar(c *Canvas, v bar.View) {
	f := v.Frame
	if len(f.Nodes) == 0 {
		return
	}
	ox, oy := v.Origin.X, v.Origin.Y
	bx0, bx1 := col(ox), colEnd(ox+f.Width)
	by0, by1 := row(oy), rowEnd(oy+f.Height)
	c.Fill(bx0, by0, bx1, by1, styles.BgSurface)

	nodes := append([]layout.Node(nil), f.Nodes...)
	sort.SliceStable(nodes, func(i, j int) bool { return nodes[i].Elevation < nodes[j].Elevation })
	for _, n := range nodes {
		drawNode(c, v, n)
	}

	if f.ArrowVisible && f.Progress >= 0.5 {
		drawFlyout(c, v, col(ox+f.ArrowX), bx0, bx1, by0)
	}
}

func drawNode(c *Canvas, v bar.View, n layout.Node) {
	if n.Alpha < 0.05 || n.Size < 1 {
		return
	}
	e := v.Entries[n.Key]
	ox, oy := v.Origin.X, v.Origin.Y
	x0 := col(ox + n.X)
	x1 := max(colEnd(ox+n.X+n.Size), x0+1)
	y0 := row(oy + n.Y)
	y1 := max(rowEnd(oy+n.Y+n.Size), y0+1)

	fill := styles.OverflowFill
	label := "…"
	if e != nil && !e.IsOverflow() {
		fill = blend(e.Payload.DotColor, styles.BgSurface, n.Alpha)
		label = styles.Initials(appName(e), min(2, x1-x0))
	}
	c.Fill(x0, y0, x1, y1, fill)
	w := lipgloss.Width(label)
	c.Text(x0+(x1-x0-w)/2, y0+(y1-y0-1)/2, label, styles.TextPrimary, n.Key == v.Selected || n.Dragged)

	if n.ShowDot {
		c.Set(x1-1, y0, '●', styles.AccentGold)
	}
	if n.ShowBadge && e != nil && e.Payload.Badge != nil {
		c.Set(x1-1, y1-1, '◆', styles.AccentPrimary)
	}
}

// drawFlyout draws the selected bubble's title and message in a box above
// the bar, with the selection arrow on its bottom border.
func drawFlyout(c *Canvas, v bar.View, arrow, bx0, bx1, by0 int) {
	bottom := by0 - 1
	if bottom < 0 {
		return
	}
	e := v.Entries[v.Selected]
	if e == nil || bottom < 3 {
		c.Set(arrow, bottom, '▼', styles.AccentPrimary)
		return
	}
	title := e.Payload.Flyout.Title
	if title == "" {
		title = appName(e)
	}
	msg := e.Payload.Flyout.Message

	inner := max(lipgloss.Width(title), lipgloss.Width(msg), 1)
	inner = min(inner, 36, c.Width()-4)
	if inner < 1 {
		return
	}
	title = styles.TruncateWithEllipsis(title, inner)
	msg = styles.TruncateWithEllipsis(msg, inner)
	w := inner + 4

	x0 := bx0
	if v.Location == bubble.LocationRight {
		x0 = bx1 - w
	}
	x0 = clampInt(x0, 0, max(c.Width()-w, 0))
	x1 := x0 + w
	top := bottom - 3

	c.Fill(x0, top, x1, bottom+1, styles.BgPanel)
	border := styles.BorderFocused
	for x := x0 + 1; x < x1-1; x++ {
		c.Set(x, top, '─', border)
		c.Set(x, bottom, '─', border)
	}
	c.Set(x0, top, '╭', border)
	c.Set(x1-1, top, '╮', border)
	c.Set(x0, bottom, '╰', border)
	c.Set(x1-1, bottom, '╯', border)
	for y := top + 1; y < bottom; y++ {
		c.Set(x0, y, '│', border)
		c.Set(x1-1, y, '│', border)
	}
	c.Text(x0+2, top+1, title, styles.TextPrimary, true)
	c.Text(x0+2, top+2, msg, styles.TextSecondary, false)
	c.Set(clampInt(arrow, x0+1, x1-2), bottom, '▼', styles.AccentPrimary)
}

func appName(e *bubble.Entry) string {
	if e.Payload.AppName != "" {
		return e.Payload.AppName
	}
	if d := e.Descriptor(); d.AppName != "" {
		return d.AppName
	}
	return e.Key()
}

// blend mixes fg over bg at alpha.
func blend(fg color.RGBA, bg lipgloss.Color, alpha float64) lipgloss.Color {
	base, err := colorful.Hex(string(bg))
	if err != nil {
		base = colorful.Color{}
	}
	top, ok := colorful.MakeColor(fg)
	if !ok {
		top, _ = colorful.Hex(string(styles.TextMuted))
	}
	return lipgloss.Color(base.BlendRgb(top, math.Min(math.Max(alpha, 0), 1)).Clamped().Hex())
}

func col(u float64) int    { return int(math.Floor(u)) }
func colEnd(u float64) int { return int(math.Ceil(u)) }
func row(u float64) int    { return int(math.Floor(u / RowUnits)) }
func rowEnd(u float64) int { return int(math.Ceil(u / RowUnits)) }
