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
	waveFrequency  = 2.0
	waveSources    = 2
	waveCoupling   = 0.5
	waveSaturation = 0.8
	wavePhaseRate  = 2.0
	waveDensity    = 0.5
	waveSourceRing = 0.3
)

// WaveFunction lays a static lattice over the interference pattern of a
// ring of point sources. Colour and phase follow the field and neighboring
// cells pull each other's phase rates together.
func WaveFunction() Scene {
	return Scene{
		Name:        "wave_function",
		Description: "Quantum-inspired wave interference patterns",
		Defaults: func(cfg *config.Config) {
			cfg.Particle.Size = 20
			cfg.Particle.VX, cfg.Particle.VY = 0, 0
			cfg.Glyphs.Set = "binary"
			cfg.Glyphs.Rate = 5
			cfg.Glyphs.Fade = 0.05
			setBoundaries(cfg, particle.Periodic)
			cfg.SetParam("frequency", waveFrequency)
			cfg.SetParam("sources", waveSources)
			cfg.SetParam("coupling", waveCoupling)
			cfg.SetParam("saturation", waveSaturation)
			cfg.SetParam("phase_rate", wavePhaseRate)
			cfg.SetParam("density", waveDensity)
			cfg.SetOption("color_mode", forces.WaveComplex)
			cfg.SetOption("symbol_mode", "phase")
		},
		Build: buildWaveFunction,
	}
}

func buildWaveFunction(cfg *config.Config, _ *rand.Rand) ([]*particle.Particle, error) {
	opts, err := baseOptions(cfg)
	if err != nil {
		return nil, err
	}
	density := cfg.Param("density", waveDensity)
	if density <= 0 {
		return nil, fmt.Errorf("scenes: wave_function density must be positive, got %v", density)
	}
	size := cellSize(cfg)
	spacing := size / density
	cols := int(math.Floor(cfg.Width / spacing))
	rows := int(math.Floor(cfg.Height / spacing))

	wave := forces.Wave{
		Sources: forces.RingSources(
			int(cfg.Param("sources", waveSources)),
			cfg.Width/2, cfg.Height/2,
			math.Min(cfg.Width, cfg.Height)*waveSourceRing,
		),
		Frequency: cfg.Param("frequency", waveFrequency),
	}
	rate := cfg.Param("phase_rate", wavePhaseRate)
	saturation := cfg.Param("saturation", waveSaturation)
	colorMode := cfg.Option("color_mode", forces.WaveComplex)
	behaviors := []particle.Force{
		forces.PhaseCoupling{Range: spacing * 2, BaseRate: rate, Coupling: cfg.Param("coupling", waveCoupling)},
		forces.WaveCell{
			Wave:       wave,
			ColorMode:  colorMode,
			SymbolMode: cfg.Option("symbol_mode", "phase"),
			Saturation: saturation,
			BaseRate:   rate,
		},
	}

	ps := make([]*particle.Particle, 0, cols*rows)
	for i := 0; i < cols; i++ {
		for j := 0; j < rows; j++ {
			x := float64(i)*spacing + spacing/2
			y := float64(j)*spacing + spacing/2
			amp, phase := wave.Sample(x, y, 0)

			o := opts
			o.X, o.Y = x, y
			o.VX, o.VY = 0, 0
			o.Mass = 1
			o.Collidable = false
			// The pruning cutoff is four interaction radii, which covers
			// the coupling range of two lattice spacings.
			o.CollisionRadius = spacing / 2
			o.Phase = phase
			o.PhaseRate = rate
			o.Forces = behaviors
			o.Visual.Color = forces.WaveColor(colorMode, amp, phase, saturation)
			p, err := particle.New(o)
			if err != nil {
				return nil, err
			}
			ps = append(ps, p)
		}
	}
	return ps, nil
}
