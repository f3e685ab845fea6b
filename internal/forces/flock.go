package forces

import (
	"math"

	"github.com/san-kum/glyphsim/internal/particle"
)

// Flocking implements the three boids rules over the neighbor map:
// separation from neighbors inside ProtectedRange, and alignment and
// cohesion with neighbors inside VisualRange. Forces scale with mass so
// the factors act as velocity gains. MaxSpeed, when positive, adds a brake
// once the particle exceeds it.
type Flocking struct {
	VisualRange    float64
	ProtectedRange float64
	Separation     float64
	Alignment      float64
	Cohesion       float64
	MaxSpeed       float64
}

func (Flocking) NeedsNeighbors() bool { return true }

func (f Flocking) Apply(p *particle.Particle, ctx particle.Context) (float64, float64) {
	var closeX, closeY float64
	var velX, velY, posX, posY float64
	count := 0.0

	for _, n := range ctx.Neighbors(p.ID()) {
		if n.Distance < f.ProtectedRange {
			closeX -= n.DX
			closeY -= n.DY
		}
		if n.Distance < f.VisualRange {
			velX += n.Particle.VX
			velY += n.Particle.VY
			posX += n.DX
			posY += n.DY
			count++
		}
	}

	dvx := closeX * f.Separation
	dvy := closeY * f.Separation
	if count > 0 {
		dvx += (velX/count - p.VX) * f.Alignment
		dvy += (velY/count - p.VY) * f.Alignment
		dvx += posX / count * f.Cohesion
		dvy += posY / count * f.Cohesion
	}

	if f.MaxSpeed > 0 {
		if speed := math.Hypot(p.VX, p.VY); speed > f.MaxSpeed {
			excess := (speed - f.MaxSpeed) / speed
			dvx -= p.VX * excess
			dvy -= p.VY * excess
		}
	}
	return dvx * p.Mass, dvy * p.Mass
}
