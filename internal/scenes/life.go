package scenes

import (
	"math"
	"math/rand"

	"github.com/san-kum/glyphsim/internal/config"
	"github.com/san-kum/glyphsim/internal/forces"
	"github.com/san-kum/glyphsim/internal/particle"
)

const (
	lifeCellSize  = 30.0
	lifeRate      = 2.0
	lifeDensity   = 0.3
	lifeStyleName = "squares"
)

// GameOfLife lays static cells on a grid; each generation is computed on a
// shared board at the evolution rate.
func GameOfLife() Scene {
	return Scene{
		Name:        "game_of_life",
		Description: "Conway's Game of Life with style options",
		Defaults: func(cfg *config.Config) {
			cfg.Particle.Size = lifeCellSize
			cfg.Particle.VX, cfg.Particle.VY = 0, 0
			cfg.Glyphs.Fade = 1
			cfg.SetParam("evolution_rate", lifeRate)
			cfg.SetParam("density", lifeDensity)
			cfg.SetOption("style", lifeStyleName)
		},
		Build: buildGameOfLife,
	}
}

func buildGameOfLife(cfg *config.Config, rng *rand.Rand) ([]*particle.Particle, error) {
	opts, err := baseOptions(cfg)
	if err != nil {
		return nil, err
	}
	size := cellSize(cfg)
	cols := int(math.Floor(cfg.Width / size))
	rows := int(math.Floor(cfg.Height / size))
	if cols == 0 || rows == 0 {
		return nil, nil
	}

	style := forces.LifeSquares
	if cfg.Option("style", lifeStyleName) == "binary" {
		style = forces.LifeBinary
	}
	rate := cfg.Param("evolution_rate", lifeRate)
	interval := math.Inf(1)
	if rate > 0 {
		interval = 1 / rate
	}
	grid := forces.NewLifeGrid(cols, rows, interval, style)
	density := cfg.Param("density", lifeDensity)

	ps := make([]*particle.Particle, 0, cols*rows)
	for col := 0; col < cols; col++ {
		for row := 0; row < rows; row++ {
			grid.Set(col, row, rng.Float64() < density)

			o := opts
			o.X = float64(col)*size + size/2
			o.Y = float64(row)*size + size/2
			o.VX, o.VY = 0, 0
			o.Collidable = false
			o.Visual.LockGlyph = true
			o.Forces = []particle.Force{grid.Cell(col, row)}
			p, err := particle.New(o)
			if err != nil {
				return nil, err
			}
			grid.Paint(p, col, row)
			ps = append(ps, p)
		}
	}
	return ps, nil
}
