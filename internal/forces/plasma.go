package forces

import (
	"fmt"
	"math"

	"github.com/san-kum/glyphsim/internal/particle"
)

// Plasma is a time-varying electromagnetic field with short-range pressure,
// vorticity and phase coupling between neighbors.
//
// The field at (x, y, t) is
//
//	Ex = cos(f·t + x/100)·sin(y/150)
//	Ey = sin(f·t + y/100)·cos(x/150)
//	Bz = sin(f·t + (x+y)/200)
//
// and pushes with (Ey, -Ex)·Magnetic. Temperature adds random diffusion.
// Neighbors inside Range repel with Pressure·(1-d/Range), add a rotational
// term of strength Vorticity, and pull the particle's phase rate toward
// their phase with gain Coupling around BasePhaseRate. The particle's
// colour is set from the direction and strength of the result.
type Plasma struct {
	Magnetic      float64
	Frequency     float64
	Temperature   float64
	Pressure      float64
	Vorticity     float64
	Range         float64
	Coupling      float64
	BasePhaseRate float64
}

func (Plasma) NeedsNeighbors() bool { return true }

// Field returns the electric components and the magnetic component at
// (x, y) and time t.
func (pl Plasma) Field(x, y, t float64) (ex, ey, bz float64) {
	f := pl.Frequency
	ex = math.Cos(f*t+x/100) * math.Sin(y/150)
	ey = math.Sin(f*t+y/100) * math.Cos(x/150)
	bz = math.Sin(f*t + (x+y)/200)
	return ex, ey, bz
}

func (pl Plasma) Apply(p *particle.Particle, ctx particle.Context) (float64, float64) {
	ex, ey, _ := pl.Field(p.X, p.Y, ctx.Time())

	fx := ey * pl.Magnetic
	fy := -ex * pl.Magnetic

	rng := ctx.Rand()
	fx += (rng.Float64() - 0.5) * pl.Temperature
	fy += (rng.Float64() - 0.5) * pl.Temperature

	coupling := 0.0
	for _, n := range ctx.Neighbors(p.ID()) {
		if n.Distance <= 0 || n.Distance >= pl.Range {
			continue
		}
		ux, uy := n.DX/n.Distance, n.DY/n.Distance

		pressure := pl.Pressure * (1 - n.Distance/pl.Range)
		fx -= pressure * ux
		fy -= pressure * uy

		fx += pl.Vorticity * uy
		fy -= pl.Vorticity * ux

		coupling += math.Sin(n.Particle.Phase - p.Phase)
	}
	p.PhaseRate = pl.BasePhaseRate + pl.Coupling*coupling

	energy := math.Hypot(fx, fy)
	strength := math.Hypot(ex, ey)
	hue := (math.Atan2(fy, fx)/math.Pi + 1) * 180
	sat := math.Min(100, strength*50)
	lum := math.Min(70, 30+energy*20)
	p.Visual.Color = fmt.Sprintf("hsl(%.0f,%.0f%%,%.0f%%)", hue, sat, lum)

	return fx * p.Mass, fy * p.Mass
}
