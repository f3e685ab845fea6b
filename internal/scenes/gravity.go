package scenes

import (
	"math"
	"math/rand"

	"github.com/san-kum/glyphsim/internal/config"
	"github.com/san-kum/glyphsim/internal/forces"
	"github.com/san-kum/glyphsim/internal/particle"
)

const (
	gravityG         = 1000.0
	gravitySoftening = 50.0
	gravityBodies    = 100
	gravityRotation  = 0.5
	gravityRadius    = 200.0
)

// GravityField is a softened N-body system. Bodies that come close enough
// merge.
func GravityField() Scene {
	return Scene{
		Name:        "gravity_field",
		Description: "N-body gravitational system with emergent behaviors",
		Defaults: func(cfg *config.Config) {
			cfg.Glyphs.Set = "binary"
			cfg.Glyphs.Rate = 5
			cfg.Glyphs.Fade = 0.01
			cfg.Particle.Collisions = true
			cfg.NeighborRadius = gravityRadius
			setBoundaries(cfg, particle.Periodic)
			cfg.Boundaries.Probability = 1
			cfg.SetParam("g", gravityG)
			cfg.SetParam("softening", gravitySoftening)
			cfg.SetParam("bodies", gravityBodies)
			cfg.SetParam("rotation", gravityRotation)
			cfg.SetParam("merge", 1)
			cfg.SetOption("distribution", "disk")
			cfg.SetOption("mass_distribution", "uniform")
		},
		Build: buildGravityField,
	}
}

func buildGravityField(cfg *config.Config, rng *rand.Rand) ([]*particle.Particle, error) {
	opts, err := baseOptions(cfg)
	if err != nil {
		return nil, err
	}
	g := cfg.Param("g", gravityG)
	gravity := forces.Gravity{
		G:         g,
		Softening: cfg.Param("softening", gravitySoftening),
		Merge:     cfg.Param("merge", 1) != 0,
	}
	n := int(cfg.Param("bodies", gravityBodies))
	rotation := cfg.Param("rotation", gravityRotation)
	distribution := cfg.Option("distribution", "disk")
	massDist := cfg.Option("mass_distribution", "uniform")
	cx, cy := cfg.Width/2, cfg.Height/2
	size := cellSize(cfg)

	ps := make([]*particle.Particle, 0, n)
	for i := 0; i < n; i++ {
		o := opts
		angle := 2 * math.Pi * float64(i) / float64(n)

		switch distribution {
		case "disk":
			r := math.Max(math.Sqrt(rng.Float64())*cfg.Height*0.2, 1)
			o.X = cx + r*math.Cos(angle)
			o.Y = cy + r*math.Sin(angle)
			v := math.Sqrt(g*1000/r) * rotation
			o.VX = -v * math.Sin(angle)
			o.VY = v * math.Cos(angle)
		case "binary":
			sep := cfg.Height * 0.2
			o.X = cx + sep/2
			if i < n/2 {
				o.X = cx - sep/2
			}
			o.Y = cy + (rng.Float64()-0.5)*sep/4
			o.VX = (rng.Float64() - 0.5) * 10
			o.VY = (rng.Float64() - 0.5) * 10
		default:
			o.X = rng.Float64() * cfg.Width
			o.Y = rng.Float64() * cfg.Height
			o.VX = (rng.Float64() - 0.5) * 10
			o.VY = (rng.Float64() - 0.5) * 10
		}

		o.Mass = bodyMass(massDist, rng)
		o.Size = size * math.Cbrt(o.Mass)
		o.Phase = rng.Float64() * 2 * math.Pi
		o.PhaseRate = 0.5
		o.Visual.GlyphRate = cfg.Glyphs.Rate * (1 + rng.Float64()*0.1)
		o.Forces = []particle.Force{gravity}

		p, err := particle.New(o)
		if err != nil {
			return nil, err
		}
		ps = append(ps, p)
	}
	return ps, nil
}

func bodyMass(dist string, rng *rand.Rand) float64 {
	switch dist {
	case "logarithmic":
		return math.Exp(rng.Float64() * 3)
	case "powerlaw":
		return math.Pow(math.Max(rng.Float64(), 0.01), -1.5)
	default:
		return 1 + rng.Float64()
	}
}
