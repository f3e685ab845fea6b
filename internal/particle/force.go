package particle

import (
	"math/rand"
	"reflect"
)

// Neighbor is one entry of a particle's neighbor map. DX/DY point from the
// owning particle to Particle.
type Neighbor struct {
	Particle   *Particle
	DX, DY     float64
	Distance   float64
	DistanceSq float64
}

// Context is what a force behavior may read or stage during a tick.
type Context interface {
	// Neighbors returns the neighbor map computed for id at the start of
	// the tick. The map is empty, never nil, when id has no entry. It is
	// shared with the index and read-only.
	Neighbors(id ID) map[ID]Neighbor
	// AddParticles stages particles for inclusion on the next tick.
	AddParticles(ps ...*Particle) error
	// Bounds returns the current simulation width and height.
	Bounds() (width, height float64)
	// Time returns the accumulated simulation time in seconds.
	Time() float64
	// Rand returns the simulation's random source.
	Rand() *rand.Rand
}

// Force returns the net force (not acceleration) it contributes to p. The
// simulation divides by mass when accumulating. Side effects on the
// payload, on other particles' removal flags, or staging new particles
// through ctx are allowed.
type Force interface {
	Apply(p *Particle, ctx Context) (fx, fy float64)
}

// ForceFunc adapts a plain function to Force.
type ForceFunc func(p *Particle, ctx Context) (fx, fy float64)

func (f ForceFunc) Apply(p *Particle, ctx Context) (float64, float64) {
	return f(p, ctx)
}

// NeighborAware is implemented by forces that read Context.Neighbors. Only
// particles that are collidable or carry such a force take part in the
// neighbor scan.
type NeighborAware interface {
	NeedsNeighbors() bool
}

// ForceCloner is implemented by forces that hold per-particle mutable
// state. Clone calls CloneForce instead of sharing the value.
type ForceCloner interface {
	CloneForce() Force
}

type neighborForce struct {
	Force
}

func (neighborForce) NeedsNeighbors() bool { return true }

// WithNeighbors flags f as needing neighbor context.
func WithNeighbors(f Force) Force {
	if NeedsNeighbors(f) {
		return f
	}
	return neighborForce{f}
}

// NeedsNeighbors reports whether f declared the neighbor capability.
func NeedsNeighbors(f Force) bool {
	na, ok := f.(NeighborAware)
	return ok && na.NeedsNeighbors()
}

func sameForce(a, b Force) bool {
	if a == nil || b == nil {
		return a == b
	}
	if na, ok := a.(neighborForce); ok {
		a = na.Force
	}
	if nb, ok := b.(neighborForce); ok {
		b = nb.Force
	}
	ta, tb := reflect.TypeOf(a), reflect.TypeOf(b)
	if ta != tb {
		return false
	}
	if ta.Kind() == reflect.Func {
		return reflect.ValueOf(a).Pointer() == reflect.ValueOf(b).Pointer()
	}
	if ta.Comparable() {
		return a == b
	}
	return false
}
