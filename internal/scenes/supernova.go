package scenes

import (
	"math"
	"math/rand"

	"github.com/san-kum/glyphsim/internal/config"
	"github.com/san-kum/glyphsim/internal/forces"
	"github.com/san-kum/glyphsim/internal/particle"
)

const (
	supernovaVelocity   = 0.01
	supernovaInnerRatio = 0.8
	supernovaOuterColor = "rgb(255,215,0)"
	supernovaInnerColor = "rgb(0,255,255)"
)

// Supernova places two counter-rotating rings held by central orbit
// forces. Any glyph leaving the screen resets the whole formation.
func Supernova() Scene {
	return Scene{
		Name:        "supernova",
		Description: "Dual-ring celestial formation",
		Defaults: func(cfg *config.Config) {
			cfg.Particle.Size = 28
			cfg.Glyphs.Rate = 0.01
			cfg.Glyphs.Fade = 0.01
			setBoundaries(cfg, particle.Reset)
			cfg.SetParam("velocity", supernovaVelocity)
			cfg.SetParam("inner_ratio", supernovaInnerRatio)
			cfg.SetOption("outer_set", "aramaic")
			cfg.SetOption("inner_set", "sanskrit")
		},
		Build: buildSupernova,
	}
}

func buildSupernova(cfg *config.Config, _ *rand.Rand) ([]*particle.Particle, error) {
	opts, err := baseOptions(cfg)
	if err != nil {
		return nil, err
	}
	size := cellSize(cfg)
	cx, cy := cfg.Width/2, cfg.Height/2
	outer := cfg.Height / 3
	inner := cfg.Param("inner_ratio", supernovaInnerRatio) * outer
	n := int(math.Floor(cfg.Width / size))

	rate := math.Max(cfg.Glyphs.Rate, 0.001)
	v := size / (rate * 10) * cfg.Param("velocity", supernovaVelocity)

	rings := []struct {
		radius float64
		dir    float64
		phase  float64
		set    string
		color  string
	}{
		{outer, 1, 0.55, cfg.Option("outer_set", "aramaic"), supernovaOuterColor},
		{inner, -1, 0, cfg.Option("inner_set", "sanskrit"), supernovaInnerColor},
	}

	ps := make([]*particle.Particle, 0, 2*n)
	for _, ring := range rings {
		orbit := forces.CentralOrbit{CX: cx, CY: cy, Speed: v, Radius: ring.radius}
		for i := 0; i < n; i++ {
			angle := 2 * math.Pi * float64(i) / float64(n)
			o := opts
			o.X = cx + ring.radius*math.Cos(angle)
			o.Y = cy + ring.radius*math.Sin(angle)
			o.VX = ring.dir * v * math.Sin(angle)
			o.VY = -ring.dir * v * math.Cos(angle)
			o.Phase = ring.phase
			o.PhaseRate = 0
			o.Forces = []particle.Force{orbit}
			o.Visual.GlyphSet = ring.set
			o.Visual.Color = ring.color
			p, err := particle.New(o)
			if err != nil {
				return nil, err
			}
			ps = append(ps, p)
		}
	}
	return ps, nil
}
