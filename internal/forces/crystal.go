package forces

import (
	"fmt"
	"math"

	"github.com/san-kum/glyphsim/internal/particle"
)

// CrystalState is the growth stage of one crystal cell.
type CrystalState uint8

const (
	CrystalEmpty CrystalState = iota
	CrystalGrowing
	CrystalSolid
	CrystalActive
	CrystalStable
)

var crystalStateNames = [...]string{"empty", "growing", "solid", "active", "stable"}

func (s CrystalState) String() string {
	if int(s) < len(crystalStateNames) {
		return crystalStateNames[s]
	}
	return fmt.Sprintf("CrystalState(%d)", uint8(s))
}

// Offset is a (dx, dy) step on a grid.
type Offset struct{ DX, DY int }

// Neighborhoods for crystal growth.
var (
	VonNeumann = []Offset{{0, 1}, {1, 0}, {0, -1}, {-1, 0}}
	Moore      = []Offset{{0, 1}, {1, 1}, {1, 0}, {1, -1}, {0, -1}, {-1, -1}, {-1, 0}, {-1, 1}}
	Extended   = append([]Offset{{0, 2}, {2, 0}, {0, -2}, {-2, 0}}, Moore...)
)

// Neighborhood returns the offsets for von_neumann, moore or extended.
func Neighborhood(name string) ([]Offset, error) {
	switch name {
	case "von_neumann":
		return VonNeumann, nil
	case "moore":
		return Moore, nil
	case "extended":
		return Extended, nil
	}
	return nil, fmt.Errorf("forces: unknown neighborhood %q", name)
}

// CrystalGlyphs holds the glyph of each state, indexed by CrystalState,
// for the sets the automaton supports.
var CrystalGlyphs = map[string][5]rune{
	"binary":   {'0', '1', '▣', '▤', '▥'},
	"aramaic":  {'ܐ', 'ܒ', 'ܓ', 'ܕ', 'ܗ'},
	"sanskrit": {'अ', 'आ', 'इ', 'ई', 'उ'},
}

// Crystal colour schemes.
const (
	SchemeState     = "state"
	SchemeEnergy    = "energy"
	SchemeAge       = "age"
	SchemeDirection = "direction"
)

type crystalCell struct {
	state  CrystalState
	age    int
	energy float64
}

// CrystalGrid grows crystals on a torus from seed cells. An empty cell with
// at least Threshold solid or active neighbors starts growing, a growing
// cell solidifies, and a solid cell settles as stable when crowded past
// Threshold+1 and as active otherwise. Generations advance every Interval
// seconds of simulation time and are computed into a second buffer, so all
// cells change together.
type CrystalGrid struct {
	Cols, Rows   int
	Interval     float64
	Threshold    int
	Neighborhood []Offset
	Glyphs       [5]rune
	Scheme       string
	Saturation   float64

	cells      []crystalCell
	next       []crystalCell
	clock      generationClock
	generation int
}

// NewCrystalGrid returns a grid of empty cells drawn with the binary glyphs
// and the state colour scheme.
func NewCrystalGrid(cols, rows int, interval float64, hood []Offset, threshold int) *CrystalGrid {
	return &CrystalGrid{
		Cols:         cols,
		Rows:         rows,
		Interval:     interval,
		Threshold:    threshold,
		Neighborhood: hood,
		Glyphs:       CrystalGlyphs["binary"],
		Scheme:       SchemeState,
		Saturation:   0.8,
		cells:        make([]crystalCell, cols*rows),
		next:         make([]crystalCell, cols*rows),
	}
}

func (g *CrystalGrid) index(col, row int) int {
	col = ((col % g.Cols) + g.Cols) % g.Cols
	row = ((row % g.Rows) + g.Rows) % g.Rows
	return row*g.Cols + col
}

// State returns the state of (col, row). Coordinates wrap.
func (g *CrystalGrid) State(col, row int) CrystalState { return g.cells[g.index(col, row)].state }

// Seed makes (col, row) a solid crystal. Seeds outside the grid are ignored.
func (g *CrystalGrid) Seed(col, row int) {
	if col < 0 || col >= g.Cols || row < 0 || row >= g.Rows {
		return
	}
	g.cells[g.index(col, row)] = crystalCell{state: CrystalSolid, energy: 1}
}

func (g *CrystalGrid) Generation() int { return g.generation }

// Count returns how many cells are in state s.
func (g *CrystalGrid) Count(s CrystalState) int {
	n := 0
	for _, c := range g.cells {
		if c.state == s {
			n++
		}
	}
	return n
}

func (g *CrystalGrid) bonded(col, row int) int {
	n := 0
	for _, o := range g.Neighborhood {
		switch g.State(col+o.DX, row+o.DY) {
		case CrystalSolid, CrystalActive:
			n++
		}
	}
	return n
}

// Step computes the next generation for the whole grid.
func (g *CrystalGrid) Step() {
	for row := 0; row < g.Rows; row++ {
		for col := 0; col < g.Cols; col++ {
			i := g.index(col, row)
			c := g.cells[i]
			n := g.bonded(col, row)
			switch c.state {
			case CrystalEmpty:
				if n >= g.Threshold {
					c.state, c.energy = CrystalGrowing, 1
				}
			case CrystalGrowing:
				c.state, c.energy = CrystalSolid, 0.8
			case CrystalSolid:
				if n > g.Threshold+1 {
					c.state, c.energy = CrystalStable, 0.5
				} else {
					c.state, c.energy = CrystalActive, 0.7
				}
			}
			c.age++
			g.next[i] = c
		}
	}
	g.cells, g.next = g.next, g.cells
	g.generation++
}

func (g *CrystalGrid) advance(t float64) {
	if g.clock.due(t, g.Interval) {
		g.Step()
	}
}

// Cell returns the behavior for the particle at (col, row). It keeps the
// particle's glyph and colour in sync with the grid.
func (g *CrystalGrid) Cell(col, row int) particle.Force {
	return crystalSite{grid: g, col: col, row: row}
}

type crystalSite struct {
	grid     *CrystalGrid
	col, row int
}

func (s crystalSite) Apply(p *particle.Particle, ctx particle.Context) (float64, float64) {
	s.grid.advance(ctx.Time())
	s.grid.Paint(p, s.col, s.row)
	return 0, 0
}

// Paint sets p's glyph and colour from the cell at (col, row). Empty cells
// clear the explicit colour so the phase colour shows through.
func (g *CrystalGrid) Paint(p *particle.Particle, col, row int) {
	c := g.cells[g.index(col, row)]
	p.Visual.Glyph = g.Glyphs[c.state]
	if c.state == CrystalEmpty {
		p.Visual.Color = ""
		return
	}
	p.Visual.Color = g.color(col, row, c)
}

func (g *CrystalGrid) color(col, row int, c crystalCell) string {
	sat := g.Saturation * 100
	switch g.Scheme {
	case SchemeEnergy:
		return hsl(c.energy*360, sat, 50)
	case SchemeAge:
		return hsl(60, math.Min(100, float64(c.age)*10), 50)
	case SchemeDirection:
		angle := math.Atan2(float64(row)-float64(g.Rows)/2, float64(col)-float64(g.Cols)/2)
		return hsl(angle/(2*math.Pi)*360, sat, 50)
	default:
		return hsl(float64(c.state)*72, sat, 50)
	}
}

// hsl formats a colour with the hue folded into [0, 360) and lightness
// clamped to [0, 100].
func hsl(h, s, l float64) string {
	h = math.Mod(h, 360)
	if h < 0 {
		h += 360
	}
	return fmt.Sprintf("hsl(%.0f,%.0f%%,%.0f%%)", h, s, math.Max(0, math.Min(l, 100)))
}
