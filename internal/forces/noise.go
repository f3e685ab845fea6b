package forces

import (
	"math"

	"github.com/aquilax/go-perlin"

	"github.com/san-kum/glyphsim/internal/particle"
)

// Perlin generator parameters: smoothness, frequency ratio and octaves.
const (
	noiseAlpha   = 2.0
	noiseBeta    = 2.0
	noiseOctaves = 3
)

// NoiseFlow pushes particles along a Perlin noise field. The field angle at
// (x, y) is the noise value mapped onto a full turn; TimeScale drifts the
// field with the simulation clock.
type NoiseFlow struct {
	Scale     float64
	Strength  float64
	TimeScale float64

	noise *perlin.Perlin
}

// NewNoiseFlow returns a flow field seeded with seed.
func NewNoiseFlow(seed int64, scale, strength, timeScale float64) *NoiseFlow {
	return &NoiseFlow{
		Scale:     scale,
		Strength:  strength,
		TimeScale: timeScale,
		noise:     perlin.NewPerlin(noiseAlpha, noiseBeta, noiseOctaves, seed),
	}
}

// Angle returns the field direction at (x, y) and time t, in radians.
func (f *NoiseFlow) Angle(x, y, t float64) float64 {
	n := f.noise.Noise2D(x*f.Scale+t*f.TimeScale, y*f.Scale)
	return (n + 1) * math.Pi
}

func (f *NoiseFlow) Apply(p *particle.Particle, ctx particle.Context) (float64, float64) {
	angle := f.Angle(p.X, p.Y, ctx.Time())
	return math.Cos(angle) * f.Strength * p.Mass, math.Sin(angle) * f.Strength * p.Mass
}
