package scenes

import (
	"math"
	"math/rand"

	"github.com/san-kum/glyphsim/internal/config"
	"github.com/san-kum/glyphsim/internal/forces"
	"github.com/san-kum/glyphsim/internal/particle"
)

const (
	billiardRows     = 5
	billiardCueSpeed = 600.0
	billiardFriction = 0.3
)

// Billiards racks numbered balls in a triangle and fires a cue ball into
// them inside reflecting cushions.
func Billiards() Scene {
	return Scene{
		Name:        "billiards",
		Description: "Elastic collisions on a cushioned table",
		Defaults: func(cfg *config.Config) {
			cfg.Particle.Size = 24
			cfg.Particle.Collisions = true
			cfg.Particle.Restitution = 0.95
			cfg.Particle.VX, cfg.Particle.VY = 0, 0
			cfg.Glyphs.Fade = 0.2
			setBoundaries(cfg, particle.Reflecting)
			cfg.SetParam("rows", billiardRows)
			cfg.SetParam("cue_speed", billiardCueSpeed)
			cfg.SetParam("friction", billiardFriction)
		},
		Build: buildBilliards,
	}
}

func buildBilliards(cfg *config.Config, rng *rand.Rand) ([]*particle.Particle, error) {
	opts, err := baseOptions(cfg)
	if err != nil {
		return nil, err
	}
	opts.Collidable = true
	opts.VX, opts.VY = 0, 0
	opts.Visual.LockGlyph = true
	if f := cfg.Param("friction", billiardFriction); f > 0 {
		opts.Forces = []particle.Force{forces.Drag{K: f}}
	}

	size := cellSize(cfg)
	gap := size * 1.02
	rows := int(cfg.Param("rows", billiardRows))
	apexX := cfg.Width * 0.65
	cy := cfg.Height / 2

	var ps []*particle.Particle
	number := 1
	for row := 0; row < rows; row++ {
		x := apexX + float64(row)*gap*math.Sqrt(3)/2
		for k := 0; k <= row; k++ {
			o := opts
			o.X = x
			o.Y = cy + (float64(k)-float64(row)/2)*gap
			o.Phase = float64(number) / float64(rows*(rows+1)/2) * 2 * math.Pi
			o.Visual.Glyph = ballGlyph(number)
			p, err := particle.New(o)
			if err != nil {
				return nil, err
			}
			ps = append(ps, p)
			number++
		}
	}

	speed := cfg.Param("cue_speed", billiardCueSpeed)
	aim := (rng.Float64() - 0.5) * 0.02
	cue := opts
	cue.X = cfg.Width * 0.2
	cue.Y = cy
	cue.VX = speed * math.Cos(aim)
	cue.VY = speed * math.Sin(aim)
	cue.Visual.Glyph = 'O'
	cue.Visual.Color = "rgb(255,255,255)"
	p, err := particle.New(cue)
	if err != nil {
		return nil, err
	}
	return append(ps, p), nil
}

func ballGlyph(n int) rune {
	const glyphs = "123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	return rune(glyphs[(n-1)%len(glyphs)])
}
