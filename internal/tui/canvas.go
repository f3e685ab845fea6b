package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/san-kum/glyphsim/internal/particle"
)

// defaultFade is the per-frame opacity loss for particles that do not set
// their own.
const defaultFade = 0.05

type cell struct {
	glyph   rune
	color   RGB
	opacity float64
	fade    float64
}

// Canvas is a character grid onto which the world is scaled. Every frame
// the previous contents fade, leaving a trail behind moving glyphs.
type Canvas struct {
	Width, Height int
	cells         []cell
}

func NewCanvas(w, h int) *Canvas {
	c := &Canvas{}
	c.Resize(w, h)
	return c
}

// Resize discards the contents and reallocates the grid.
func (c *Canvas) Resize(w, h int) {
	c.Width, c.Height = max(w, 1), max(h, 1)
	c.cells = make([]cell, c.Width*c.Height)
}

func (c *Canvas) Clear() {
	clear(c.cells)
}

// Fade lowers every cell's opacity by its fade rate and empties cells that
// reach zero.
func (c *Canvas) Fade() {
	for i := range c.cells {
		cl := &c.cells[i]
		if cl.opacity <= 0 {
			continue
		}
		cl.opacity -= cl.fade
		if cl.opacity <= 0 {
			*cl = cell{}
		}
	}
}

// Stamp draws every live particle at full opacity. World coordinates in
// [0,worldW]x[0,worldH] are scaled onto the grid.
func (c *Canvas) Stamp(ps []*particle.Particle, worldW, worldH float64, theme Theme) {
	for _, p := range ps {
		if p.Removed() || p.Visual.Glyph == 0 {
			continue
		}
		col := int(p.X / worldW * float64(c.Width))
		row := int(p.Y / worldH * float64(c.Height))
		if col < 0 || col >= c.Width || row < 0 || row >= c.Height {
			continue
		}
		fade := p.Visual.Fade
		if fade <= 0 {
			fade = defaultFade
		}
		c.cells[row*c.Width+col] = cell{
			glyph:   p.Visual.Glyph,
			color:   theme.ParticleColor(p.Visual.Color, p.Phase),
			opacity: 1,
			fade:    fade,
		}
	}
}

// At returns the glyph and opacity of a cell.
func (c *Canvas) At(col, row int) (rune, float64) {
	if col < 0 || col >= c.Width || row < 0 || row >= c.Height {
		return 0, 0
	}
	cl := c.cells[row*c.Width+col]
	return cl.glyph, cl.opacity
}

// Lines renders each row. Wide glyphs take their own cell and the one to
// their right, so rows stay Width columns wide.
func (c *Canvas) Lines() []string {
	lines := make([]string, c.Height)
	var b strings.Builder
	for row := 0; row < c.Height; row++ {
		b.Reset()
		for col := 0; col < c.Width; col++ {
			cl := c.cells[row*c.Width+col]
			if cl.opacity <= 0 || cl.glyph == 0 {
				b.WriteByte(' ')
				continue
			}
			w := runewidth.RuneWidth(cl.glyph)
			if w == 0 || (w == 2 && col == c.Width-1) {
				b.WriteByte(' ')
				continue
			}
			style := lipgloss.NewStyle().Foreground(cl.color.Scale(cl.opacity).Color())
			b.WriteString(style.Render(string(cl.glyph)))
			if w == 2 {
				col++
			}
		}
		lines[row] = b.String()
	}
	return lines
}

func (c *Canvas) String() string {
	return strings.Join(c.Lines(), "\n")
}

// Each calls fn for every visible cell with its glyph, colour and opacity.
func (c *Canvas) Each(fn func(col, row int, glyph rune, color RGB, opacity float64)) {
	for i, cl := range c.cells {
		if cl.opacity <= 0 || cl.glyph == 0 {
			continue
		}
		fn(i%c.Width, i/c.Width, cl.glyph, cl.color, cl.opacity)
	}
}
