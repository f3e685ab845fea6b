package sim

import (
	"math"
	"slices"

	"github.com/san-kum/glyphsim/internal/particle"
)

const (
	// restingThreshold treats normal approach speeds above -ε as separating
	// or resting, so numerical noise does not cause sticking or jitter.
	restingThreshold = -0.01

	// separationSpeed is the approach speed at which positional correction
	// removes the full overlap.
	separationSpeed = 10.0
)

// resolveCollisions applies impulse and positional correction to every
// overlapping, approaching pair of collidable particles in ix. Each
// unordered pair is handled once, from the side with the lower id, using
// the displacement recorded at index time. Pairs are visited in collection
// order, then by ascending neighbor id, so results are reproducible.
func resolveCollisions(ps []*particle.Particle, ix Index) int {
	applied := 0
	var ids []particle.ID
	for _, p1 := range ps {
		if !p1.Collidable {
			continue
		}
		neighbors := ix[p1.ID()]
		ids = ids[:0]
		for id2, n := range neighbors {
			if id2 > p1.ID() && n.Particle.Collidable {
				ids = append(ids, id2)
			}
		}
		slices.Sort(ids)
		for _, id2 := range ids {
			n := neighbors[id2]
			if collide(p1, n.Particle, n) {
				applied++
			}
		}
	}
	return applied
}

// collide resolves one pair. n describes p2 as seen from p1. It reports
// whether an impulse was applied.
func collide(p1, p2 *particle.Particle, n particle.Neighbor) bool {
	minDist := p1.Radius() + p2.Radius()
	if !(n.Distance < minDist) {
		return false
	}
	// Coincident particles have no contact normal; leave them to forces
	// rather than dividing by zero.
	if n.Distance <= 0 {
		return false
	}

	nx := n.DX / n.Distance
	ny := n.DY / n.Distance

	dvx := p2.VX - p1.VX
	dvy := p2.VY - p1.VY
	vrn := dvx*nx + dvy*ny
	if vrn >= restingThreshold {
		return false
	}

	invM1, invM2 := 1/p1.Mass, 1/p2.Mass
	restitution := (p1.Restitution + p2.Restitution) / 2
	j := -(1 + restitution) * vrn / (invM1 + invM2)
	jx, jy := j*nx, j*ny

	p1.VX -= jx * invM1
	p1.VY -= jy * invM1
	p2.VX += jx * invM2
	p2.VY += jy * invM2

	overlap := minDist - n.Distance
	correction := overlap * math.Min(1, math.Abs(vrn)/separationSpeed)
	total := p1.Mass + p2.Mass
	w1, w2 := p2.Mass/total, p1.Mass/total

	p1.X -= correction * w1 * nx
	p1.Y -= correction * w1 * ny
	p2.X += correction * w2 * nx
	p2.Y += correction * w2 * ny
	return true
}
