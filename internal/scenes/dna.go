package scenes

import (
	"math"
	"math/rand"

	"github.com/san-kum/glyphsim/internal/config"
	"github.com/san-kum/glyphsim/internal/forces"
	"github.com/san-kum/glyphsim/internal/particle"
)

const (
	helixSpeed     = 30.0
	helixRadius    = 100.0
	helixSpacing   = 20.0
	helixStiffness = 10.0
	helixRateJit   = 0.1
)

// DNAHelix climbs two strands of nucleotide glyphs down the screen. Each
// glyph is sprung onto its strand and trades symbols and phases with its
// nearest neighbor. Top and bottom wrap; leaving sideways resets the helix.
func DNAHelix() Scene {
	return Scene{
		Name:        "dna_helix",
		Description: "Double helix with character swapping",
		Defaults: func(cfg *config.Config) {
			cfg.Particle.Size = 28
			cfg.Particle.VX, cfg.Particle.VY = 0, helixSpeed
			cfg.Glyphs.Set = "dna"
			cfg.Glyphs.Rate = 1
			cfg.Glyphs.Fade = 0.05
			cfg.Boundaries.Top = string(particle.Periodic)
			cfg.Boundaries.Bottom = string(particle.Periodic)
			cfg.Boundaries.Left = string(particle.Reset)
			cfg.Boundaries.Right = string(particle.Reset)
			cfg.SetParam("radius", helixRadius)
		},
		Build: buildDNAHelix,
	}
}

func buildDNAHelix(cfg *config.Config, rng *rand.Rand) ([]*particle.Particle, error) {
	opts, err := baseOptions(cfg)
	if err != nil {
		return nil, err
	}
	size := cellSize(cfg)
	radius := cfg.Param("radius", helixRadius)
	cx := cfg.Width / 2
	n := int(math.Floor(cfg.Height/helixSpacing)) * 2

	strands := [2]particle.Force{
		forces.Helix{Side: -1, Radius: radius, Stiffness: helixStiffness, SwapDistance: size},
		forces.Helix{Side: 1, Radius: radius, Stiffness: helixStiffness, SwapDistance: size},
	}

	ps := make([]*particle.Particle, 0, n)
	for i := 0; i < n; i++ {
		strand := i % 2
		side := float64(2*strand - 1)
		y := math.Mod(float64(i/2)*helixSpacing, cfg.Height)
		phase := y / cfg.Height * 2 * math.Pi

		o := opts
		o.X = cx + side*radius*math.Cos(phase)
		o.Y = y
		o.VX = 0
		o.Phase = -side * phase
		o.PhaseRate = 0
		o.Forces = []particle.Force{strands[strand]}
		o.Visual.GlyphRate = cfg.Glyphs.Rate * (1 + rng.Float64()*helixRateJit)
		p, err := particle.New(o)
		if err != nil {
			return nil, err
		}
		ps = append(ps, p)
	}
	return ps, nil
}
