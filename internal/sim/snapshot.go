package sim

import "github.com/san-kum/glyphsim/internal/particle"

// snapshotEntry is the state restored by the reset policy.
type snapshotEntry struct {
	x, y       float64
	vx, vy     float64
	phase      float64
	phaseRate  float64
	mass       float64
	forces     []particle.Force
	boundaries particle.Boundaries
}

// Snapshot is the immutable initial state of the particles present when
// the first batch was merged, keyed by id.
type Snapshot struct {
	entries map[particle.ID]snapshotEntry
}

func takeSnapshot(ps []*particle.Particle) *Snapshot {
	s := &Snapshot{entries: make(map[particle.ID]snapshotEntry, len(ps))}
	for _, p := range ps {
		s.entries[p.ID()] = snapshotEntry{
			x:          p.X,
			y:          p.Y,
			vx:         p.VX,
			vy:         p.VY,
			phase:      p.Phase,
			phaseRate:  p.PhaseRate,
			mass:       p.Mass,
			forces:     append([]particle.Force(nil), p.Forces()...),
			boundaries: p.Boundaries,
		}
	}
	return s
}

// Len returns the number of particles captured.
func (s *Snapshot) Len() int {
	if s == nil {
		return 0
	}
	return len(s.entries)
}

// Has reports whether id was captured.
func (s *Snapshot) Has(id particle.ID) bool {
	if s == nil {
		return false
	}
	_, ok := s.entries[id]
	return ok
}

// restore writes captured fields back into every particle in ps that has
// an entry. Particles added after the snapshot are left untouched.
func (s *Snapshot) restore(ps []*particle.Particle) int {
	if s == nil {
		return 0
	}
	n := 0
	for _, p := range ps {
		e, ok := s.entries[p.ID()]
		if !ok {
			continue
		}
		p.X, p.Y = e.x, e.y
		p.VX, p.VY = e.vx, e.vy
		p.AX, p.AY = 0, 0
		p.Phase = e.phase
		p.PhaseRate = e.phaseRate
		p.Mass = e.mass
		p.SetForces(e.forces)
		p.Boundaries = e.boundaries
		n++
	}
	return n
}
