package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"gopkg.in/gcfg.v1"
)

// gcfgFile mirrors Config in git-config syntax:
//
//	[sim]
//	scene = ecosystem
//	dt = 0.02
//	[glyphs]
//	set = binary
//	[param "prey_density"]
//	value = 0.2
type gcfgFile struct {
	Sim struct {
		Scene           string
		Width           float64
		Height          float64
		Dt              float64
		Duration        float64
		Seed            int64
		FrameRate       int     `gcfg:"frame-rate"`
		NeighborRadius  float64 `gcfg:"neighbor-radius"`
		IsolateFailures bool    `gcfg:"isolate-failures"`
	}
	Particle struct {
		Size        float64
		Mass        float64
		VX          float64
		VY          float64
		Collisions  bool
		Restitution float64
	}
	Glyphs struct {
		Set  string
		Rate float64
		Fade float64
	}
	Boundaries struct {
		Top         string
		Bottom      string
		Left        string
		Right       string
		Probability float64
	}
	Param map[string]*struct {
		Value float64
	}
	Option map[string]*struct {
		Value string
	}
}

// isGcfg reports whether path names an INI-style file.
func isGcfg(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".gcfg", ".ini", ".conf":
		return true
	}
	return false
}

// loadGcfg reads an INI-style file over cfg. Variables absent from the file
// keep cfg's values because the wrapper starts out as a copy of cfg.
func loadGcfg(path string, cfg *Config) error {
	f := toGcfg(cfg)
	if err := gcfg.ReadFileInto(f, path); err != nil {
		return fmt.Errorf("config: parse %s: %w", path, err)
	}
	fromGcfg(f, cfg)
	return nil
}

func toGcfg(c *Config) *gcfgFile {
	f := &gcfgFile{}
	f.Sim.Scene = c.Scene
	f.Sim.Width, f.Sim.Height = c.Width, c.Height
	f.Sim.Dt, f.Sim.Duration = c.Dt, c.Duration
	f.Sim.Seed = c.Seed
	f.Sim.FrameRate = c.FrameRate
	f.Sim.NeighborRadius = c.NeighborRadius
	f.Sim.IsolateFailures = c.IsolateFailures

	f.Particle.Size = c.Particle.Size
	f.Particle.Mass = c.Particle.Mass
	f.Particle.VX, f.Particle.VY = c.Particle.VX, c.Particle.VY
	f.Particle.Collisions = c.Particle.Collisions
	f.Particle.Restitution = c.Particle.Restitution

	f.Glyphs.Set, f.Glyphs.Rate, f.Glyphs.Fade = c.Glyphs.Set, c.Glyphs.Rate, c.Glyphs.Fade

	f.Boundaries.Top, f.Boundaries.Bottom = c.Boundaries.Top, c.Boundaries.Bottom
	f.Boundaries.Left, f.Boundaries.Right = c.Boundaries.Left, c.Boundaries.Right
	f.Boundaries.Probability = c.Boundaries.Probability
	return f
}

func fromGcfg(f *gcfgFile, c *Config) {
	c.Scene = f.Sim.Scene
	c.Width, c.Height = f.Sim.Width, f.Sim.Height
	c.Dt, c.Duration = f.Sim.Dt, f.Sim.Duration
	c.Seed = f.Sim.Seed
	c.FrameRate = f.Sim.FrameRate
	c.NeighborRadius = f.Sim.NeighborRadius
	c.IsolateFailures = f.Sim.IsolateFailures

	c.Particle = ParticleConfig{
		Size:        f.Particle.Size,
		Mass:        f.Particle.Mass,
		VX:          f.Particle.VX,
		VY:          f.Particle.VY,
		Collisions:  f.Particle.Collisions,
		Restitution: f.Particle.Restitution,
	}
	c.Glyphs = GlyphConfig{Set: f.Glyphs.Set, Rate: f.Glyphs.Rate, Fade: f.Glyphs.Fade}
	c.Boundaries = BoundaryConfig{
		Top:         f.Boundaries.Top,
		Bottom:      f.Boundaries.Bottom,
		Left:        f.Boundaries.Left,
		Right:       f.Boundaries.Right,
		Probability: f.Boundaries.Probability,
	}

	if c.Params == nil {
		c.Params = map[string]float64{}
	}
	for name, p := range f.Param {
		if p != nil {
			c.Params[name] = p.Value
		}
	}
	if c.Options == nil {
		c.Options = map[string]string{}
	}
	for name, o := range f.Option {
		if o != nil {
			c.Options[name] = o.Value
		}
	}
}
