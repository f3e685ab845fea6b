package metrics

import (
	"math"

	"github.com/san-kum/glyphsim/internal/sim"
)

// Population tracks the live particle count. Value is the latest count;
// Peak and Births/Deaths cover the whole run.
type Population struct {
	name   string
	last   int
	peak   int
	births int
	deaths int
}

func NewPopulation() *Population {
	return &Population{name: "population"}
}

func (p *Population) Name() string { return p.name }

func (p *Population) Observe(f sim.Frame) {
	p.last = f.Stats.Live
	if p.last > p.peak {
		p.peak = p.last
	}
	p.births += f.Stats.Added
	p.deaths += f.Stats.Removed
}

func (p *Population) Value() float64 { return float64(p.last) }
func (p *Population) Peak() int      { return p.peak }
func (p *Population) Births() int    { return p.births }
func (p *Population) Deaths() int    { return p.deaths }

func (p *Population) Reset() {
	*p = Population{name: p.name}
}

// Momentum is the magnitude of total linear momentum at the latest tick.
type Momentum struct {
	name  string
	value float64
}

func NewMomentum() *Momentum {
	return &Momentum{name: "momentum"}
}

func (m *Momentum) Name() string { return m.name }

func (m *Momentum) Observe(f sim.Frame) {
	m.value = TotalMomentum(f)
}

func (m *Momentum) Value() float64 { return m.value }
func (m *Momentum) Reset()         { m.value = 0 }

// TotalMomentum returns |Σ m·v| over the frame's live particles.
func TotalMomentum(f sim.Frame) float64 {
	var px, py float64
	for _, p := range f.Particles {
		if p.Removed() {
			continue
		}
		px += p.Mass * p.VX
		py += p.Mass * p.VY
	}
	return math.Hypot(px, py)
}

// Collisions counts impulses applied by the collision resolver.
type Collisions struct {
	name  string
	total int
}

func NewCollisions() *Collisions {
	return &Collisions{name: "collisions"}
}

func (c *Collisions) Name() string        { return c.name }
func (c *Collisions) Observe(f sim.Frame) { c.total += f.Stats.Collisions }
func (c *Collisions) Value() float64      { return float64(c.total) }
func (c *Collisions) Reset()              { c.total = 0 }
