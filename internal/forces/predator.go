package forces

import (
	"math"

	"github.com/san-kum/glyphsim/internal/particle"
)

// Kinded is implemented by payloads that tag a particle with a species or
// role.
type Kinded interface {
	Kind() string
}

// Matcher selects neighbors a behavior reacts to.
type Matcher func(*particle.Particle) bool

// OfKind matches particles whose payload implements Kinded with the given
// kind.
func OfKind(kind string) Matcher {
	return func(p *particle.Particle) bool {
		k, ok := p.Payload.(Kinded)
		return ok && k.Kind() == kind
	}
}

// Flee pushes away from every matching neighbor within Radius with an
// inverse-square magnitude Strength/d².
type Flee struct {
	Threat   Matcher
	Radius   float64
	Strength float64
}

func (Flee) NeedsNeighbors() bool { return true }

func (f Flee) Apply(p *particle.Particle, ctx particle.Context) (float64, float64) {
	var fx, fy float64
	for _, n := range ctx.Neighbors(p.ID()) {
		if n.Distance <= 0 || n.Distance >= f.Radius || n.Particle.Removed() {
			continue
		}
		if f.Threat != nil && !f.Threat(n.Particle) {
			continue
		}
		repel := f.Strength / n.DistanceSq
		fx -= repel * n.DX / n.Distance
		fy -= repel * n.DY / n.Distance
	}
	return fx, fy
}

// Chase steers toward the nearest matching neighbor with magnitude
// Strength/(d+1). When the target is closer than CatchRadius, OnCatch is
// called once with the hunter and the target.
type Chase struct {
	Target      Matcher
	Strength    float64
	CatchRadius float64
	OnCatch     func(hunter, prey *particle.Particle)
}

func (Chase) NeedsNeighbors() bool { return true }

func (c Chase) Apply(p *particle.Particle, ctx particle.Context) (float64, float64) {
	nearest, ok := Nearest(p, ctx, c.Target)
	if !ok || nearest.Distance <= 0 {
		return 0, 0
	}
	attract := c.Strength / (nearest.Distance + 1)
	fx := attract * nearest.DX / nearest.Distance
	fy := attract * nearest.DY / nearest.Distance

	if nearest.Distance < c.CatchRadius && c.OnCatch != nil {
		c.OnCatch(p, nearest.Particle)
	}
	return fx, fy
}

// Nearest returns the closest live neighbor of p accepted by match. Ties
// go to the lower id.
func Nearest(p *particle.Particle, ctx particle.Context, match Matcher) (particle.Neighbor, bool) {
	var best particle.Neighbor
	found := false
	bestDist := math.Inf(1)
	for id, n := range ctx.Neighbors(p.ID()) {
		if n.Particle.Removed() {
			continue
		}
		if match != nil && !match(n.Particle) {
			continue
		}
		if n.Distance < bestDist || (found && n.Distance == bestDist && id < best.Particle.ID()) {
			best, bestDist, found = n, n.Distance, true
		}
	}
	return best, found
}
