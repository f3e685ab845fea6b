package sim

import (
	"math/rand"

	"github.com/san-kum/glyphsim/internal/particle"
)

// boundaryResult reports side effects that reach beyond the particle.
type boundaryResult struct {
	reset bool
}

// applyBoundaries checks each edge in order top, bottom, left, right and
// applies the edge's policy when p is strictly beyond it. A reset is only
// requested here; the caller applies it after the particle loop.
// Unknown policies leave the particle where it is. Periodic and randomDelay
// wraps place the particle exactly on the opposite edge and keep its
// velocity.
func applyBoundaries(p *particle.Particle, width, height float64, rng *rand.Rand) boundaryResult {
	var res boundaryResult
	b := p.Boundaries

	if p.Y < 0 {
		switch b.Top {
		case particle.Reflecting:
			p.Y = 0
			p.VY = -p.VY * p.Restitution
		case particle.Periodic:
			p.Y = height
		case particle.RandomDelay:
			if wrapNow(b.Probability, rng) {
				p.Y = height
			}
		case particle.Reset:
			res.reset = true
		}
	}

	if p.Y > height {
		switch b.Bottom {
		case particle.Reflecting:
			p.Y = height
			p.VY = -p.VY * p.Restitution
		case particle.Periodic:
			p.Y = 0
		case particle.RandomDelay:
			if wrapNow(b.Probability, rng) {
				p.Y = 0
			}
		case particle.Reset:
			res.reset = true
		}
	}

	if p.X < 0 {
		switch b.Left {
		case particle.Reflecting:
			p.X = 0
			p.VX = -p.VX * p.Restitution
		case particle.Periodic:
			p.X = width
		case particle.RandomDelay:
			if wrapNow(b.Probability, rng) {
				p.X = width
			}
		case particle.Reset:
			res.reset = true
		}
	}

	if p.X > width {
		switch b.Right {
		case particle.Reflecting:
			p.X = width
			p.VX = -p.VX * p.Restitution
		case particle.Periodic:
			p.X = 0
		case particle.RandomDelay:
			if wrapNow(b.Probability, rng) {
				p.X = 0
			}
		case particle.Reset:
			res.reset = true
		}
	}

	return res
}

// wrapNow draws once: the wrap happens with probability 1-prob.
func wrapNow(prob float64, rng *rand.Rand) bool {
	return rng.Float64() > prob
}
