package forces

import (
	"math"

	"github.com/san-kum/glyphsim/internal/particle"
)

// Helix holds a particle on one strand of a vertical double helix centred
// in the simulation bounds. The strand's x at height y is
//
//	width/2 + Side·Radius·cos(2π·y/height)
//
// and the particle is pulled toward it with a spring of Stiffness (x only).
// When the nearest neighbor is closer than SwapDistance and the particle's
// glyph interval has elapsed, the particle takes the neighbor's glyph and
// the two exchange phases.
type Helix struct {
	Side         float64
	Radius       float64
	Stiffness    float64
	SwapDistance float64
}

func (Helix) NeedsNeighbors() bool { return true }

// TargetX returns the strand's x at height y for the given bounds.
func (h Helix) TargetX(y, width, height float64) float64 {
	return width/2 + h.Side*h.Radius*math.Cos(y/height*2*math.Pi)
}

func (h Helix) Apply(p *particle.Particle, ctx particle.Context) (float64, float64) {
	w, ht := ctx.Bounds()
	dx := h.TargetX(p.Y, w, ht) - p.X

	if n, ok := Nearest(p, ctx, nil); ok && n.Distance < h.SwapDistance {
		h.swap(p, n.Particle, ctx.Time())
	}
	return h.Stiffness * dx * p.Mass, 0
}

func (h Helix) swap(p, other *particle.Particle, now float64) {
	if p.Visual.GlyphRate <= 0 {
		return
	}
	if p.Visual.LastUpdate > 0 && now-p.Visual.LastUpdate < 1/p.Visual.GlyphRate {
		return
	}
	p.Visual.Glyph = other.Visual.Glyph
	p.Phase, other.Phase = other.Phase, p.Phase
	p.Visual.LastUpdate = now
}
