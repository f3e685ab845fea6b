package scenes

import (
	"math"
	"math/rand"

	"github.com/san-kum/glyphsim/internal/config"
	"github.com/san-kum/glyphsim/internal/particle"
)

// MatrixRain drops one column of glyphs per cell width. Columns wrap at the
// bottom after a random delay so they fall out of step.
func MatrixRain() Scene {
	return Scene{
		Name:        "matrix_rain",
		Description: "Classic matrix-style falling characters",
		Defaults: func(cfg *config.Config) {
			cfg.Particle.VY = 560
			cfg.Glyphs.Rate = 20
			cfg.Glyphs.Fade = 0.01
			cfg.Boundaries.Bottom = string(particle.RandomDelay)
		},
		Build: buildMatrixRain,
	}
}

func buildMatrixRain(cfg *config.Config, rng *rand.Rand) ([]*particle.Particle, error) {
	opts, err := baseOptions(cfg)
	if err != nil {
		return nil, err
	}
	opts.Boundaries.Left = particle.Reflecting
	opts.Boundaries.Right = particle.Reflecting
	opts.VX = 0

	size := cellSize(cfg)
	columns := int(math.Floor(cfg.Width / size))
	ps := make([]*particle.Particle, 0, columns)
	for i := 0; i < columns; i++ {
		o := opts
		o.X = size/2 + float64(i)*size
		o.Y = rng.Float64() * cfg.Height
		p, err := particle.New(o)
		if err != nil {
			return nil, err
		}
		ps = append(ps, p)
	}
	return ps, nil
}
