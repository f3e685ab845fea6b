package particle

import (
	"fmt"
	"math"
)

const (
	// TwoPi is the period of the phase.
	TwoPi = 2 * math.Pi

	// DefaultSize is the visual size used when Options.Size is zero.
	DefaultSize = 14.0

	// fallbackRadius applies when neither a collision radius nor a size is set.
	fallbackRadius = 7.0
)

// Options describes a particle to construct. Zero values select defaults:
// mass 1, size DefaultSize, restitution 1, periodic edges and
// DefaultBoundaryProbability.
type Options struct {
	X, Y      float64
	VX, VY    float64
	Mass      float64
	Size      float64
	Phase     float64
	PhaseRate float64

	Collidable      bool
	CollisionRadius float64
	// Restitution is used by collisions and reflecting edges. Nil means 1.
	Restitution *float64

	Boundaries Boundaries
	Forces     []Force
	Payload    Payload
	Visual     Visual
}

// Particle is one simulated entity. Acceleration is derived state and is
// reset by the simulation before every force accumulation.
type Particle struct {
	id ID

	X, Y      float64
	VX, VY    float64
	AX, AY    float64
	Mass      float64
	Size      float64
	Phase     float64
	PhaseRate float64

	Collidable      bool
	CollisionRadius float64
	Restitution     float64

	Boundaries Boundaries
	Payload    Payload
	Visual     Visual

	forces  []Force
	removed bool
}

// Restitution returns a pointer to v for use in Options.
func Restitution(v float64) *float64 {
	return &v
}

// New validates opts and returns a particle with a fresh id.
func New(opts Options) (*Particle, error) {
	for _, v := range []float64{opts.X, opts.Y, opts.VX, opts.VY, opts.Phase, opts.PhaseRate, opts.Size, opts.CollisionRadius} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, ErrNonFinite
		}
	}

	mass := opts.Mass
	if mass == 0 {
		mass = 1
	}
	if !(mass > 0) || math.IsInf(mass, 0) {
		return nil, fmt.Errorf("%w: %v", ErrInvalidMass, opts.Mass)
	}

	restitution := 1.0
	if opts.Restitution != nil {
		restitution = *opts.Restitution
	}
	if !(restitution >= 0) || math.IsInf(restitution, 0) {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRestitution, restitution)
	}

	bounds := opts.Boundaries.withDefaults()
	if err := bounds.validate(); err != nil {
		return nil, err
	}

	size := opts.Size
	if size == 0 {
		size = DefaultSize
	}

	p := &Particle{
		id:              nextID(),
		X:               opts.X,
		Y:               opts.Y,
		VX:              opts.VX,
		VY:              opts.VY,
		Mass:            mass,
		Size:            size,
		Phase:           wrapPhase(opts.Phase),
		PhaseRate:       opts.PhaseRate,
		Collidable:      opts.Collidable,
		CollisionRadius: opts.CollisionRadius,
		Restitution:     restitution,
		Boundaries:      bounds,
		Payload:         opts.Payload,
		Visual:          opts.Visual,
	}
	for _, f := range opts.Forces {
		p.AddForce(f)
	}
	return p, nil
}

// MustNew is New for generators whose inputs are known to be valid.
func MustNew(opts Options) *Particle {
	p, err := New(opts)
	if err != nil {
		panic(err)
	}
	return p
}

func (p *Particle) ID() ID { return p.id }

// Radius is the interaction radius: CollisionRadius if set, else half the
// visual size.
func (p *Particle) Radius() float64 {
	if p.CollisionRadius > 0 {
		return p.CollisionRadius
	}
	if p.Size > 0 {
		return p.Size / 2
	}
	return fallbackRadius
}

// Integrate advances the particle by dt with semi-implicit Euler and wraps
// the phase into [0, 2π). It does nothing once the particle is marked for
// removal.
func (p *Particle) Integrate(dt float64) {
	if p.removed {
		return
	}
	p.VX += p.AX * dt
	p.VY += p.AY * dt
	p.X += p.VX * dt
	p.Y += p.VY * dt
	p.Phase = wrapPhase(p.Phase + p.PhaseRate*dt)
}

func wrapPhase(phase float64) float64 {
	if math.IsNaN(phase) || math.IsInf(phase, 0) {
		return 0
	}
	phase = math.Mod(phase, TwoPi)
	if phase < 0 {
		phase += TwoPi
	}
	// Mod of a tiny negative value can round up to exactly 2π.
	if phase >= TwoPi {
		phase = 0
	}
	return phase
}

// AddForce appends f. Forces run in insertion order.
func (p *Particle) AddForce(f Force) {
	if f == nil {
		return
	}
	p.forces = append(p.forces, f)
}

// RemoveForce removes the first occurrence of f and reports whether one was
// found. Function values compare by code pointer.
func (p *Particle) RemoveForce(f Force) bool {
	for i, g := range p.forces {
		if sameForce(g, f) {
			p.forces = append(p.forces[:i:i], p.forces[i+1:]...)
			return true
		}
	}
	return false
}

// Forces returns the attached behaviors in execution order. The slice must
// not be modified.
func (p *Particle) Forces() []Force { return p.forces }

// SetForces replaces the behavior list with a copy of fs.
func (p *Particle) SetForces(fs []Force) {
	p.forces = append([]Force(nil), fs...)
}

// NeedsNeighbors reports whether the particle takes part in the neighbor
// scan: it is collidable or any behavior asks for neighbors.
func (p *Particle) NeedsNeighbors() bool {
	if p.Collidable {
		return true
	}
	for _, f := range p.forces {
		if NeedsNeighbors(f) {
			return true
		}
	}
	return false
}

// MarkForRemoval flags the particle; the simulation drops it at the start
// of the next tick.
func (p *Particle) MarkForRemoval() { p.removed = true }

// Removed reports whether the particle is pending removal.
func (p *Particle) Removed() bool { return p.removed }

// Clone returns a new particle with a fresh id, copied kinematic and
// visual fields and a deep-copied payload. The behavior list is a new
// slice: forces implementing ForceCloner are cloned, all others are shared
// with the original. The clone is never pending removal.
func (p *Particle) Clone() *Particle {
	c := *p
	c.id = nextID()
	c.removed = false
	c.AX, c.AY = 0, 0
	if p.Payload != nil {
		c.Payload = p.Payload.ClonePayload()
	}
	c.forces = make([]Force, len(p.forces))
	for i, f := range p.forces {
		c.forces[i] = cloneForce(f)
	}
	return &c
}

func cloneForce(f Force) Force {
	switch v := f.(type) {
	case neighborForce:
		return neighborForce{cloneForce(v.Force)}
	case ForceCloner:
		return v.CloneForce()
	}
	return f
}

// Speed returns the magnitude of the velocity.
func (p *Particle) Speed() float64 {
	return math.Hypot(p.VX, p.VY)
}

// KineticEnergy returns ½mv².
func (p *Particle) KineticEnergy() float64 {
	return 0.5 * p.Mass * (p.VX*p.VX + p.VY*p.VY)
}

func (p *Particle) String() string {
	return fmt.Sprintf("%s(%.2f, %.2f)", p.id, p.X, p.Y)
}
