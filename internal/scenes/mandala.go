package scenes

import (
	"math"
	"math/rand"

	"github.com/san-kum/glyphsim/internal/config"
	"github.com/san-kum/glyphsim/internal/forces"
	"github.com/san-kum/glyphsim/internal/particle"
)

const (
	mandalaLayers        = 8
	mandalaMaxLayers     = 9
	mandalaOuterRadius   = 0.33
	mandalaInnerRadius   = 0.2
	mandalaVelocity      = 10.0
	mandalaVelocityRatio = 1.2
	mandalaHaloPhase     = 0.55
	mandalaCyan          = "rgb(0,255,255)"
)

// SacredMandala nests a golden halo, a counter-rotating cyan halo and
// concentric layers of orbiting scripts. Every edge resets the formation.
func SacredMandala() Scene {
	return Scene{
		Name:        "sacred_mandala",
		Description: "Multi-layered rotating mandala with glowing scripts",
		Defaults: func(cfg *config.Config) {
			cfg.Particle.Size = 28
			cfg.Particle.VX, cfg.Particle.VY = 0, 0
			cfg.Glyphs.Rate = 0.01
			cfg.Glyphs.Fade = 0.01
			setBoundaries(cfg, particle.Reset)
			cfg.SetParam("layers", mandalaLayers)
			cfg.SetParam("outer_radius", mandalaOuterRadius)
			cfg.SetParam("inner_radius", mandalaInnerRadius)
			cfg.SetParam("velocity", mandalaVelocity)
			cfg.SetParam("velocity_ratio", mandalaVelocityRatio)
			cfg.SetOption("outer_set", "aramaic")
			cfg.SetOption("inner_set", "sanskrit")
		},
		Build: buildSacredMandala,
	}
}

// orbitRing is one circle of orbiting particles.
type orbitRing struct {
	radius float64
	count  int
	speed  float64
	dir    float64 // +1 counterclockwise on screen, -1 clockwise
	size   float64
	phase  float64
	set    string
	color  string
}

func (r orbitRing) build(opts particle.Options, cx, cy float64) ([]*particle.Particle, error) {
	orbit := forces.CentralOrbit{CX: cx, CY: cy, Speed: r.speed, Radius: r.radius}
	ps := make([]*particle.Particle, 0, r.count)
	for i := 0; i < r.count; i++ {
		angle := 2 * math.Pi * float64(i) / float64(r.count)
		o := opts
		o.X = cx + r.radius*math.Cos(angle)
		o.Y = cy + r.radius*math.Sin(angle)
		o.VX = r.dir * r.speed * math.Sin(angle)
		o.VY = -r.dir * r.speed * math.Cos(angle)
		o.Size = r.size
		o.Phase = r.phase
		o.PhaseRate = 0
		o.Forces = []particle.Force{orbit}
		o.Visual.GlyphSet = r.set
		o.Visual.Color = r.color
		p, err := particle.New(o)
		if err != nil {
			return nil, err
		}
		ps = append(ps, p)
	}
	return ps, nil
}

func buildSacredMandala(cfg *config.Config, _ *rand.Rand) ([]*particle.Particle, error) {
	opts, err := baseOptions(cfg)
	if err != nil {
		return nil, err
	}
	size := cellSize(cfg)
	cx, cy := cfg.Width/2, cfg.Height/2
	base := cfg.Param("velocity", mandalaVelocity)
	halo := cfg.Height * cfg.Param("outer_radius", mandalaOuterRadius)
	core := cfg.Height * cfg.Param("inner_radius", mandalaInnerRadius)
	haloSpeed := base * 2
	haloCount := int(math.Floor(cfg.Width / size))

	rings := []orbitRing{
		{halo, haloCount, haloSpeed, 1, size, mandalaHaloPhase, cfg.Option("outer_set", "aramaic"), ""},
		{0.8 * halo, haloCount, haloSpeed * cfg.Param("velocity_ratio", mandalaVelocityRatio), -1, size, 0, cfg.Option("inner_set", "sanskrit"), mandalaCyan},
	}

	// Layers shrink by a tenth each; past the ninth they would vanish.
	layers := min(max(int(cfg.Param("layers", mandalaLayers)), 0), mandalaMaxLayers)
	for layer := 0; layer < layers; layer++ {
		shrink := 1 - float64(layer)*0.1
		radius := core * shrink
		r := orbitRing{
			radius: radius,
			count:  12 + layer*4,
			speed:  base * math.Sqrt(core/radius),
			dir:    -1,
			size:   size * shrink,
			phase:  mandalaHaloPhase,
			set:    "aramaic",
		}
		if layer < 4 {
			r.set = "sanskrit"
		}
		if layer%2 == 1 {
			r.color = mandalaCyan
		}
		rings = append(rings, r)
	}

	var ps []*particle.Particle
	for _, r := range rings {
		if r.radius <= 0 || r.count <= 0 {
			continue
		}
		built, err := r.build(opts, cx, cy)
		if err != nil {
			return nil, err
		}
		ps = append(ps, built...)
	}
	return ps, nil
}
