// Package scenes generates the initial particle sets for the named
// simulations and keeps them in a registry.
package scenes

import (
	"errors"
	"fmt"
	"math/rand"
	"sort"

	"github.com/san-kum/glyphsim/internal/config"
	"github.com/san-kum/glyphsim/internal/particle"
)

var ErrUnknownScene = errors.New("scenes: unknown scene")

// Scene describes one simulation setup. Defaults adjusts a configuration
// with the scene's own settings before presets, files and flags apply.
// Build creates the initial particles from the final configuration.
type Scene struct {
	Name        string
	Description string
	Defaults    func(cfg *config.Config)
	Build       func(cfg *config.Config, rng *rand.Rand) ([]*particle.Particle, error)
}

// Configure returns a copy of base with the scene selected and its
// defaults applied.
func (s Scene) Configure(base *config.Config) *config.Config {
	cfg := base.Clone()
	cfg.Scene = s.Name
	if s.Defaults != nil {
		s.Defaults(cfg)
	}
	return cfg
}

type Registry struct {
	scenes map[string]Scene
}

// NewRegistry returns a registry holding every built-in scene.
func NewRegistry() *Registry {
	r := &Registry{scenes: make(map[string]Scene)}
	for _, s := range []Scene{
		MatrixRain(),
		Supernova(),
		GravityField(),
		Ecosystem(),
		GameOfLife(),
		PlasmaFlow(),
		SacredMandala(),
		DNAHelix(),
		WaveFunction(),
		CrystalAutomata(),
		Swarm(),
		Billiards(),
	} {
		r.Register(s)
	}
	return r
}

// Register adds or replaces a scene.
func (r *Registry) Register(s Scene) {
	r.scenes[s.Name] = s
}

func (r *Registry) Get(name string) (Scene, error) {
	s, ok := r.scenes[name]
	if !ok {
		return Scene{}, fmt.Errorf("%w: %s", ErrUnknownScene, name)
	}
	return s, nil
}

func (r *Registry) List() []Scene {
	out := make([]Scene, 0, len(r.scenes))
	for _, name := range r.Names() {
		out = append(out, r.scenes[name])
	}
	return out
}

func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.scenes))
	for name := range r.scenes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// baseOptions maps the shared particle, glyph and boundary settings onto
// particle options.
func baseOptions(cfg *config.Config) (particle.Options, error) {
	b, err := cfg.ParticleBoundaries()
	if err != nil {
		return particle.Options{}, err
	}
	return particle.Options{
		VX:          cfg.Particle.VX,
		VY:          cfg.Particle.VY,
		Mass:        cfg.Particle.Mass,
		Size:        cfg.Particle.Size,
		Collidable:  cfg.Particle.Collisions,
		Restitution: particle.Restitution(cfg.Particle.Restitution),
		Boundaries:  b,
		Visual: particle.Visual{
			GlyphSet:  cfg.Glyphs.Set,
			GlyphRate: cfg.Glyphs.Rate,
			Fade:      cfg.Glyphs.Fade,
		},
	}, nil
}

func setBoundaries(cfg *config.Config, p particle.Policy) {
	cfg.Boundaries.Top = string(p)
	cfg.Boundaries.Bottom = string(p)
	cfg.Boundaries.Left = string(p)
	cfg.Boundaries.Right = string(p)
}

func cellSize(cfg *config.Config) float64 {
	if cfg.Particle.Size > 0 {
		return cfg.Particle.Size
	}
	return config.DefaultSize
}
