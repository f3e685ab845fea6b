package scenes

import (
	"math"
	"math/rand"

	"github.com/san-kum/glyphsim/internal/config"
	"github.com/san-kum/glyphsim/internal/forces"
	"github.com/san-kum/glyphsim/internal/particle"
)

const (
	swarmCount          = 150
	swarmVisualRange    = 75.0
	swarmProtectedRange = 20.0
	swarmCohesion       = 0.5
	swarmAlignment      = 1.0
	swarmSeparation     = 2.0
	swarmMaxSpeed       = 120.0
	swarmNoiseStrength  = 20.0
	swarmNoiseScale     = 0.005
)

// Swarm is a boids flock drifting through a Perlin flow field.
func Swarm() Scene {
	return Scene{
		Name:        "swarm",
		Description: "Flocking glyphs riding a noise current",
		Defaults: func(cfg *config.Config) {
			cfg.Particle.Size = 18
			cfg.Glyphs.Set = "hiragana"
			cfg.Glyphs.Rate = 2
			cfg.Glyphs.Fade = 0.1
			setBoundaries(cfg, particle.Periodic)
			cfg.NeighborRadius = swarmVisualRange
			cfg.SetParam("count", swarmCount)
			cfg.SetParam("visual_range", swarmVisualRange)
			cfg.SetParam("protected_range", swarmProtectedRange)
			cfg.SetParam("cohesion", swarmCohesion)
			cfg.SetParam("alignment", swarmAlignment)
			cfg.SetParam("separation", swarmSeparation)
			cfg.SetParam("max_speed", swarmMaxSpeed)
			cfg.SetParam("noise_strength", swarmNoiseStrength)
			cfg.SetParam("noise_scale", swarmNoiseScale)
		},
		Build: buildSwarm,
	}
}

func buildSwarm(cfg *config.Config, rng *rand.Rand) ([]*particle.Particle, error) {
	opts, err := baseOptions(cfg)
	if err != nil {
		return nil, err
	}
	maxSpeed := cfg.Param("max_speed", swarmMaxSpeed)
	behaviors := []particle.Force{
		forces.Flocking{
			VisualRange:    cfg.Param("visual_range", swarmVisualRange),
			ProtectedRange: cfg.Param("protected_range", swarmProtectedRange),
			Cohesion:       cfg.Param("cohesion", swarmCohesion),
			Alignment:      cfg.Param("alignment", swarmAlignment),
			Separation:     cfg.Param("separation", swarmSeparation),
			MaxSpeed:       maxSpeed,
		},
		forces.NewNoiseFlow(rng.Int63(),
			cfg.Param("noise_scale", swarmNoiseScale),
			cfg.Param("noise_strength", swarmNoiseStrength),
			0.05),
	}

	n := int(cfg.Param("count", swarmCount))
	ps := make([]*particle.Particle, 0, n)
	for i := 0; i < n; i++ {
		heading := rng.Float64() * 2 * math.Pi
		speed := maxSpeed * (0.25 + 0.5*rng.Float64())

		o := opts
		o.X = rng.Float64() * cfg.Width
		o.Y = rng.Float64() * cfg.Height
		o.VX = speed * math.Cos(heading)
		o.VY = speed * math.Sin(heading)
		o.Phase = heading
		o.PhaseRate = 0.2
		o.Forces = behaviors
		p, err := particle.New(o)
		if err != nil {
			return nil, err
		}
		ps = append(ps, p)
	}
	return ps, nil
}
