package forces

import (
	"math"

	"github.com/san-kum/glyphsim/internal/particle"
)

// Gravity is softened pairwise attraction over the neighbor map:
//
//	F = G·m1·m2 / (r² + ε)^(3/2) · (dx, dy)
//
// With Merge set, a neighbor whose softened squared distance r² + ε is
// below the mean of the two sizes is absorbed: momentum is conserved, the survivor's mass is the sum and its
// size grows with the cube root of the mass ratio, and the absorbed
// particle is marked for removal.
type Gravity struct {
	G         float64
	Softening float64
	Merge     bool
}

func (Gravity) NeedsNeighbors() bool { return true }

func (g Gravity) Apply(p *particle.Particle, ctx particle.Context) (float64, float64) {
	var fx, fy float64
	for _, n := range ctx.Neighbors(p.ID()) {
		other := n.Particle
		if other.Removed() {
			continue
		}
		r2 := n.DistanceSq + g.Softening
		if r2 <= 0 {
			continue
		}
		f := g.G * p.Mass * other.Mass / (r2 * math.Sqrt(r2))
		fx += f * n.DX
		fy += f * n.DY

		if g.Merge && r2 < (p.Size+other.Size)*0.5 {
			Absorb(p, other)
		}
	}
	return fx, fy
}

// Absorb merges other into p conserving momentum and marks other for
// removal. It is a no-op if either particle is already removed.
func Absorb(p, other *particle.Particle) {
	if p.Removed() || other.Removed() {
		return
	}
	total := p.Mass + other.Mass
	ratio := other.Mass / total
	p.VX = p.VX*(1-ratio) + other.VX*ratio
	p.VY = p.VY*(1-ratio) + other.VY*ratio
	p.Mass = total
	p.Size *= math.Cbrt(ratio + 1)
	other.MarkForRemoval()
}
