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
	crystalRate       = 2.0
	crystalThreshold  = 1
	crystalSeeds      = 1
	crystalSaturation = 0.8
)

// CrystalAutomata grows crystals across a static lattice from seed cells.
// Each cell's glyph and colour show its growth stage.
func CrystalAutomata() Scene {
	return Scene{
		Name:        "crystal_automata",
		Description: "Crystalline growth with rich state visualization",
		Defaults: func(cfg *config.Config) {
			cfg.Particle.Size = 20
			cfg.Particle.VX, cfg.Particle.VY = 0, 0
			cfg.Glyphs.Set = "binary"
			cfg.Glyphs.Fade = 1
			cfg.SetParam("evolution_rate", crystalRate)
			cfg.SetParam("threshold", crystalThreshold)
			cfg.SetParam("seed_count", crystalSeeds)
			cfg.SetParam("saturation", crystalSaturation)
			cfg.SetOption("neighborhood", "von_neumann")
			cfg.SetOption("seed", "center")
			cfg.SetOption("scheme", forces.SchemeState)
		},
		Build: buildCrystalAutomata,
	}
}

func buildCrystalAutomata(cfg *config.Config, rng *rand.Rand) ([]*particle.Particle, error) {
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

	hood, err := forces.Neighborhood(cfg.Option("neighborhood", "von_neumann"))
	if err != nil {
		return nil, err
	}
	rate := cfg.Param("evolution_rate", crystalRate)
	interval := math.Inf(1)
	if rate > 0 {
		interval = 1 / rate
	}
	grid := forces.NewCrystalGrid(cols, rows, interval, hood, int(cfg.Param("threshold", crystalThreshold)))
	if g, ok := forces.CrystalGlyphs[cfg.Glyphs.Set]; ok {
		grid.Glyphs = g
	}
	grid.Scheme = cfg.Option("scheme", forces.SchemeState)
	grid.Saturation = cfg.Param("saturation", crystalSaturation)

	if err := placeCrystalSeeds(grid, cfg.Option("seed", "center"), int(cfg.Param("seed_count", crystalSeeds)), rng); err != nil {
		return nil, err
	}

	ps := make([]*particle.Particle, 0, cols*rows)
	for col := 0; col < cols; col++ {
		for row := 0; row < rows; row++ {
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

func placeCrystalSeeds(g *forces.CrystalGrid, pattern string, count int, rng *rand.Rand) error {
	count = max(count, 1)
	switch pattern {
	case "center":
		g.Seed(g.Cols/2, g.Rows/2)
	case "random":
		for i := 0; i < count; i++ {
			g.Seed(rng.Intn(g.Cols), rng.Intn(g.Rows))
		}
	case "line":
		mid := g.Rows / 2
		third := float64(g.Cols) / 3
		for i := 0; i < count; i++ {
			g.Seed(int(third+third*float64(i)/float64(count)), mid)
		}
	case "scattered":
		radius := float64(min(g.Cols, g.Rows)) / 4
		for i := 0; i < count; i++ {
			angle := 2 * math.Pi * float64(i) / float64(count)
			g.Seed(int(float64(g.Cols)/2+radius*math.Cos(angle)), int(float64(g.Rows)/2+radius*math.Sin(angle)))
		}
	default:
		return fmt.Errorf("scenes: unknown crystal seed pattern %q", pattern)
	}
	return nil
}
