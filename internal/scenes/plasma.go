package scenes

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/san-kum/glyphsim/internal/config"
	"github.com/san-kum/glyphsim/internal/forces"
	"github.com/san-kum/glyphsim/internal/particle"
)

const (
	plasmaTemperature = 2.0
	plasmaMagnetic    = 1.0
	plasmaPressure    = 0.5
	plasmaFrequency   = 1.0
	plasmaVorticity   = 0.5
	plasmaRange       = 50.0
	plasmaCoupling    = 0.2
	plasmaTurbulence  = 0.5
	plasmaNoiseScale  = 0.004
)

// PlasmaFlow seeds a jittered grid of charged glyphs in a time-varying
// electromagnetic field with Perlin turbulence on top.
func PlasmaFlow() Scene {
	return Scene{
		Name:        "plasma_flow",
		Description: "Complex plasma dynamics with electromagnetic waves",
		Defaults: func(cfg *config.Config) {
			cfg.Glyphs.Set = "katakana"
			cfg.Glyphs.Rate = 10
			cfg.Glyphs.Fade = 0.03
			cfg.Particle.Collisions = true
			setBoundaries(cfg, particle.Periodic)
			cfg.NeighborRadius = plasmaRange
			cfg.SetParam("temperature", plasmaTemperature)
			cfg.SetParam("magnetic", plasmaMagnetic)
			cfg.SetParam("pressure", plasmaPressure)
			cfg.SetParam("frequency", plasmaFrequency)
			cfg.SetParam("vorticity", plasmaVorticity)
			cfg.SetParam("range", plasmaRange)
			cfg.SetParam("coupling", plasmaCoupling)
			cfg.SetParam("turbulence", plasmaTurbulence)
		},
		Build: buildPlasmaFlow,
	}
}

func buildPlasmaFlow(cfg *config.Config, rng *rand.Rand) ([]*particle.Particle, error) {
	opts, err := baseOptions(cfg)
	if err != nil {
		return nil, err
	}
	size := cellSize(cfg)
	frequency := cfg.Param("frequency", plasmaFrequency)
	plasma := forces.Plasma{
		Magnetic:      cfg.Param("magnetic", plasmaMagnetic),
		Frequency:     frequency,
		Temperature:   cfg.Param("temperature", plasmaTemperature),
		Pressure:      cfg.Param("pressure", plasmaPressure),
		Vorticity:     cfg.Param("vorticity", plasmaVorticity),
		Range:         cfg.Param("range", plasmaRange),
		Coupling:      cfg.Param("coupling", plasmaCoupling),
		BasePhaseRate: frequency,
	}
	behaviors := []particle.Force{plasma}
	if t := cfg.Param("turbulence", plasmaTurbulence); t > 0 {
		behaviors = append(behaviors, forces.NewNoiseFlow(rng.Int63(), plasmaNoiseScale, t, 0.1))
	}

	cols := int(math.Floor(cfg.Width / (size * 2)))
	rows := int(math.Floor(cfg.Height / (size * 2)))
	ps := make([]*particle.Particle, 0, cols*rows)
	for i := 0; i < cols; i++ {
		for j := 0; j < rows; j++ {
			x := (float64(i) + 0.5 + (rng.Float64() - 0.5)) * size * 2
			y := (float64(j) + 0.5 + (rng.Float64() - 0.5)) * size * 2
			ex, ey, _ := plasma.Field(x, y, 0)
			angle := math.Atan2(ey, ex)
			strength := math.Hypot(ex, ey)

			o := opts
			o.X, o.Y = x, y
			o.VX = strength * math.Cos(angle)
			o.VY = strength * math.Sin(angle)
			o.Mass = 1 + rng.Float64()*0.5
			o.Phase = angle
			o.PhaseRate = frequency
			o.Forces = behaviors
			o.Visual.Color = fmt.Sprintf("hsl(%.0f,70%%,50%%)", (angle/math.Pi+1)*180)
			p, err := particle.New(o)
			if err != nil {
				return nil, err
			}
			ps = append(ps, p)
		}
	}
	return ps, nil
}
