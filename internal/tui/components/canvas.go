package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

type cell struct {
	r    rune
	fg   lipgloss.Color
	bg   lipgloss.Color
	bold bool
}

// Canvas is a grid of styled terminal cells. Drawing outside the grid is
// clipped.
type Canvas struct {
	w, h  int
	cells []cell
}

// NewCanvas returns a w x h canvas filled with blanks on bg.
func NewCanvas(w, h int, bg lipgloss.Color) *Canvas {
	if w < 0 {
		w = 0
	}
	if h < 0 {
		h = 0
	}
	c := &Canvas{w: w, h: h, cells: make([]cell, w*h)}
	for i := range c.cells {
		c.cells[i] = cell{r: ' ', bg: bg}
	}
	return c
}

// Width returns the number of columns.
func (c *Canvas) Width() int { return c.w }

// Height returns the number of rows.
func (c *Canvas) Height() int { return c.h }

func (c *Canvas) at(x, y int) *cell {
	if x < 0 || y < 0 || x >= c.w || y >= c.h {
		return nil
	}
	return &c.cells[y*c.w+x]
}

// Set draws r at (x, y) in fg, keeping the background.
func (c *Canvas) Set(x, y int, r rune, fg lipgloss.Color) {
	if p := c.at(x, y); p != nil {
		p.r, p.fg, p.bold = r, fg, false
	}
}

// Fill blanks the rectangle [x0, x1) x [y0, y1) on bg.
func (c *Canvas) Fill(x0, y0, x1, y1 int, bg lipgloss.Color) {
	for y := y0; y < y1; y++ {
		for x := x0; x < x1; x++ {
			if p := c.at(x, y); p != nil {
				*p = cell{r: ' ', bg: bg}
			}
		}
	}
}

// Shade changes the background of the rectangle, keeping its runes.
func (c *Canvas) Shade(x0, y0, x1, y1 int, bg lipgloss.Color) {
	for y := y0; y < y1; y++ {
		for x := x0; x < x1; x++ {
			if p := c.at(x, y); p != nil {
				p.bg = bg
			}
		}
	}
}

// Text writes s starting at (x, y), one rune per cell.
func (c *Canvas) Text(x, y int, s string, fg lipgloss.Color, bold bool) {
	for i, r := range []rune(s) {
		if p := c.at(x+i, y); p != nil {
			p.r, p.fg, p.bold = r, fg, bold
		}
	}
}

// Rune returns the rune at (x, y), or 0 outside the grid.
func (c *Canvas) Rune(x, y int) rune {
	if p := c.at(x, y); p != nil {
		return p.r
	}
	return 0
}

// Region renders the rectangle [x0, x1) x [y0, y1) as styled lines. Runs of
// identically styled cells share one style.
func (c *Canvas) Region(x0, y0, x1, y1 int) string {
	x0, x1 = clampInt(x0, 0, c.w), clampInt(x1, 0, c.w)
	y0, y1 = clampInt(y0, 0, c.h), clampInt(y1, 0, c.h)
	lines := make([]string, 0, y1-y0)
	for y := y0; y < y1; y++ {
		var b strings.Builder
		var run []rune
		var style cell
		flush := func() {
			if len(run) == 0 {
				return
			}
			st := lipgloss.NewStyle().Bold(style.bold)
			if style.fg != "" {
				st = st.Foreground(style.fg)
			}
			if style.bg != "" {
				st = st.Background(style.bg)
			}
			b.WriteString(st.Render(string(run)))
			run = run[:0]
		}
		for x := x0; x < x1; x++ {
			p := c.cells[y*c.w+x]
			if len(run) > 0 && (p.fg != style.fg || p.bg != style.bg || p.bold != style.bold) {
				flush()
			}
			style = p
			run = append(run, p.r)
		}
		flush()
		lines = append(lines, b.String())
	}
	return joinLines(lines)
}

// String renders the whole canvas.
func (c *Canvas) String() string {
	return c.Region(0, 0, c.w, c.h)
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
