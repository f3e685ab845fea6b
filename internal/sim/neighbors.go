package sim

import (
	"math"

	"github.com/san-kum/glyphsim/internal/particle"
)

// pruneFactor scales the larger interaction radius of a pair into the
// broad-phase cutoff. Consumers filter again with their own threshold.
const pruneFactor = 4.0

// Index maps a particle id to its neighbors. It is symmetric: if B is under
// A with displacement (dx, dy), A is under B with (-dx, -dy) and the same
// distance.
type Index map[particle.ID]map[particle.ID]particle.Neighbor

// Of returns the neighbor map for id, or a fresh empty map when id has no
// entry. The returned map belongs to the index; callers must not modify it.
func (ix Index) Of(id particle.ID) map[particle.ID]particle.Neighbor {
	if m, ok := ix[id]; ok {
		return m
	}
	return map[particle.ID]particle.Neighbor{}
}

// Pairs returns the number of unordered pairs in the index.
func (ix Index) Pairs() int {
	n := 0
	for _, m := range ix {
		n += len(m)
	}
	return n / 2
}

// buildIndex scans all pairs of the active particles. It is O(n²) in
// len(active), which is fine for a few hundred particles; a uniform grid
// can replace it without changing Index.
func buildIndex(active []*particle.Particle, minRadius float64) Index {
	ix := make(Index, len(active))
	for _, p := range active {
		ix[p.ID()] = make(map[particle.ID]particle.Neighbor)
	}

	for i := 0; i < len(active); i++ {
		p1 := active[i]
		r1 := p1.Radius()
		for j := i + 1; j < len(active); j++ {
			p2 := active[j]

			dx := p2.X - p1.X
			dy := p2.Y - p1.Y
			r2 := dx*dx + dy*dy

			cutoff := pruneFactor * math.Max(r1, p2.Radius())
			if minRadius > cutoff {
				cutoff = minRadius
			}
			if !(r2 < cutoff*cutoff) {
				continue
			}

			dist := math.Sqrt(r2)
			ix[p1.ID()][p2.ID()] = particle.Neighbor{Particle: p2, DX: dx, DY: dy, Distance: dist, DistanceSq: r2}
			ix[p2.ID()][p1.ID()] = particle.Neighbor{Particle: p1, DX: -dx, DY: -dy, Distance: dist, DistanceSq: r2}
		}
	}
	return ix
}

// activeSet returns the live particles that need neighbor context.
func activeSet(ps []*particle.Particle) []*particle.Particle {
	var active []*particle.Particle
	for _, p := range ps {
		if p.NeedsNeighbors() {
			active = append(active, p)
		}
	}
	return active
}
