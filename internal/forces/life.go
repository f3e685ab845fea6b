package forces

import (
	"github.com/san-kum/glyphsim/internal/particle"
)

// LifeStyle is the pair of glyphs a cell shows when alive and dead.
type LifeStyle struct {
	Alive, Dead rune
}

var (
	LifeSquares = LifeStyle{Alive: '■', Dead: '□'}
	LifeBinary  = LifeStyle{Alive: '1', Dead: '0'}
)

// Colours used by life cells.
const (
	AliveColor = "rgb(0,255,70)"
	DeadColor  = "rgb(50,50,50)"
)

// LifeGrid is a Conway's Game of Life board on a torus. Each cell is a
// particle carrying the force returned by Cell. The board advances one
// generation whenever Interval seconds of simulation time have passed since
// the last one; every cell then reads the new generation, so updates are
// simultaneous.
type LifeGrid struct {
	Cols, Rows int
	Interval   float64
	Style      LifeStyle

	alive      []bool
	next       []bool
	clock      generationClock
	generation int
}

// NewLifeGrid returns an empty board.
func NewLifeGrid(cols, rows int, interval float64, style LifeStyle) *LifeGrid {
	return &LifeGrid{
		Cols:     cols,
		Rows:     rows,
		Interval: interval,
		Style:    style,
		alive:    make([]bool, cols*rows),
		next:     make([]bool, cols*rows),
	}
}

func (g *LifeGrid) index(col, row int) int {
	col = ((col % g.Cols) + g.Cols) % g.Cols
	row = ((row % g.Rows) + g.Rows) % g.Rows
	return row*g.Cols + col
}

// Alive reports the state of (col, row). Coordinates wrap.
func (g *LifeGrid) Alive(col, row int) bool { return g.alive[g.index(col, row)] }

// Set sets the state of (col, row).
func (g *LifeGrid) Set(col, row int, alive bool) { g.alive[g.index(col, row)] = alive }

// Generation returns the number of generations computed so far.
func (g *LifeGrid) Generation() int { return g.generation }

// Population returns the number of live cells.
func (g *LifeGrid) Population() int {
	n := 0
	for _, a := range g.alive {
		if a {
			n++
		}
	}
	return n
}

// LiveNeighbors counts the live cells among the eight around (col, row).
func (g *LifeGrid) LiveNeighbors(col, row int) int {
	n := 0
	for dy := -1; dy <= 1; dy++ {
		for dx := -1; dx <= 1; dx++ {
			if (dx != 0 || dy != 0) && g.Alive(col+dx, row+dy) {
				n++
			}
		}
	}
	return n
}

// Step computes the next generation for the whole board.
func (g *LifeGrid) Step() {
	for row := 0; row < g.Rows; row++ {
		for col := 0; col < g.Cols; col++ {
			n := g.LiveNeighbors(col, row)
			i := g.index(col, row)
			if g.alive[i] {
				g.next[i] = n == 2 || n == 3
			} else {
				g.next[i] = n == 3
			}
		}
	}
	g.alive, g.next = g.next, g.alive
	g.generation++
}

// advance steps the board once when the clock has moved past the last
// generation by at least Interval. Repeated calls at the same t are no-ops.
func (g *LifeGrid) advance(t float64) {
	if g.clock.due(t, g.Interval) {
		g.Step()
	}
}

// Cell returns the behavior for the particle at (col, row). It keeps the
// particle's glyph and colour in sync with the board.
func (g *LifeGrid) Cell(col, row int) particle.Force {
	return lifeCell{grid: g, col: col, row: row}
}

type lifeCell struct {
	grid     *LifeGrid
	col, row int
}

func (c lifeCell) Apply(p *particle.Particle, ctx particle.Context) (float64, float64) {
	c.grid.advance(ctx.Time())
	c.grid.Paint(p, c.col, c.row)
	return 0, 0
}

// Paint sets p's glyph and colour from the state of (col, row).
func (g *LifeGrid) Paint(p *particle.Particle, col, row int) {
	if g.Alive(col, row) {
		p.Visual.Glyph = g.Style.Alive
		p.Visual.Color = AliveColor
	} else {
		p.Visual.Glyph = g.Style.Dead
		p.Visual.Color = DeadColor
	}
}
