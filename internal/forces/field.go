package forces

import (
	"math"

	"github.com/san-kum/glyphsim/internal/particle"
)

// Uniform is a constant acceleration field such as gravity or wind. The
// force scales with mass so every particle accelerates equally.
type Uniform struct {
	GX, GY float64
}

func (u Uniform) Apply(p *particle.Particle, _ particle.Context) (float64, float64) {
	return u.GX * p.Mass, u.GY * p.Mass
}

// Drag is linear velocity damping, F = -K·v.
type Drag struct {
	K float64
}

func (d Drag) Apply(p *particle.Particle, _ particle.Context) (float64, float64) {
	return -d.K * p.VX, -d.K * p.VY
}

// CentralOrbit pulls toward (CX, CY) with the centripetal force that keeps
// a particle moving at Speed on a circle of Radius.
type CentralOrbit struct {
	CX, CY float64
	Speed  float64
	Radius float64
}

func (o CentralOrbit) Apply(p *particle.Particle, _ particle.Context) (float64, float64) {
	if o.Radius <= 0 {
		return 0, 0
	}
	angle := math.Atan2(p.Y-o.CY, p.X-o.CX)
	a := o.Speed * o.Speed / o.Radius
	return -a * math.Cos(angle) * p.Mass, -a * math.Sin(angle) * p.Mass
}

// Spring ties a particle to an anchor point with a damped Hooke spring.
type Spring struct {
	AnchorX, AnchorY float64
	K                float64
	Damping          float64
}

func (s Spring) Apply(p *particle.Particle, _ particle.Context) (float64, float64) {
	fx := -s.K*(p.X-s.AnchorX) - s.Damping*p.VX
	fy := -s.K*(p.Y-s.AnchorY) - s.Damping*p.VY
	return fx, fy
}

// Wander adds a uniform random kick in [-Strength/2, Strength/2) on each
// axis, drawn from the simulation's random source.
type Wander struct {
	Strength float64
}

func (w Wander) Apply(_ *particle.Particle, ctx particle.Context) (float64, float64) {
	rng := ctx.Rand()
	return (rng.Float64() - 0.5) * w.Strength, (rng.Float64() - 0.5) * w.Strength
}

// Torus keeps a particle's position inside [0, width) × [0, height) by
// wrapping it before integration. It contributes no force.
type Torus struct{}

func (Torus) Apply(p *particle.Particle, ctx particle.Context) (float64, float64) {
	w, h := ctx.Bounds()
	p.X = wrap(p.X, w)
	p.Y = wrap(p.Y, h)
	return 0, 0
}

func wrap(v, size float64) float64 {
	v = math.Mod(v, size)
	if v < 0 {
		v += size
	}
	return v
}
