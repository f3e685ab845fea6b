package config

import (
	"errors"
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/glyphsim/internal/glyphs"
	"github.com/san-kum/glyphsim/internal/particle"
)

const (
	DefaultWidth       = 1280.0
	DefaultHeight      = 720.0
	DefaultDt          = 1.0 / 60
	DefaultDuration    = 30.0
	DefaultFrameRate   = 30
	DefaultSize        = 28.0
	DefaultMass        = 1.0
	DefaultRestitution = 1.0
	DefaultGlyphRate   = 1.0
	DefaultFade        = 0.05
)

var ErrInvalidConfig = errors.New("config: invalid configuration")

type Config struct {
	Scene           string             `yaml:"scene"`
	Width           float64            `yaml:"width"`
	Height          float64            `yaml:"height"`
	Dt              float64            `yaml:"dt"`
	Duration        float64            `yaml:"duration"`
	Seed            int64              `yaml:"seed"`
	FrameRate       int                `yaml:"frame_rate"`
	NeighborRadius  float64            `yaml:"neighbor_radius"`
	IsolateFailures bool               `yaml:"isolate_failures"`
	Particle        ParticleConfig     `yaml:"particle"`
	Glyphs          GlyphConfig        `yaml:"glyphs"`
	Boundaries      BoundaryConfig     `yaml:"boundaries"`
	Params          map[string]float64 `yaml:"params,omitempty"`
	Options         map[string]string  `yaml:"options,omitempty"`
}

type ParticleConfig struct {
	Size        float64 `yaml:"size"`
	Mass        float64 `yaml:"mass"`
	VX          float64 `yaml:"vx"`
	VY          float64 `yaml:"vy"`
	Collisions  bool    `yaml:"collisions"`
	Restitution float64 `yaml:"restitution"`
}

type GlyphConfig struct {
	Set  string  `yaml:"set"`
	Rate float64 `yaml:"rate"`
	Fade float64 `yaml:"fade"`
}

type BoundaryConfig struct {
	Top         string  `yaml:"top"`
	Bottom      string  `yaml:"bottom"`
	Left        string  `yaml:"left"`
	Right       string  `yaml:"right"`
	Probability float64 `yaml:"probability"`
}

func DefaultConfig() *Config {
	periodic := string(particle.Periodic)
	return &Config{
		Scene:     "matrix_rain",
		Width:     DefaultWidth,
		Height:    DefaultHeight,
		Dt:        DefaultDt,
		Duration:  DefaultDuration,
		FrameRate: DefaultFrameRate,
		Particle: ParticleConfig{
			Size:        DefaultSize,
			Mass:        DefaultMass,
			Restitution: DefaultRestitution,
		},
		Glyphs: GlyphConfig{
			Set:  glyphs.DefaultSet,
			Rate: DefaultGlyphRate,
			Fade: DefaultFade,
		},
		Boundaries: BoundaryConfig{
			Top:         periodic,
			Bottom:      periodic,
			Left:        periodic,
			Right:       periodic,
			Probability: particle.DefaultBoundaryProbability,
		},
		Params:  map[string]float64{},
		Options: map[string]string{},
	}
}

// Load reads a configuration file over the defaults. Files ending in
// .gcfg, .ini or .conf use git-config syntax; anything else is YAML.
func Load(path string) (*Config, error) {
	return LoadOnto(path, DefaultConfig())
}

// LoadOnto reads a configuration file over a copy of base. Keys absent
// from the file keep base's values.
func LoadOnto(path string, base *Config) (*Config, error) {
	cfg := base.Clone()
	if isGcfg(path) {
		if err := loadGcfg(path, cfg); err != nil {
			return nil, err
		}
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Clone returns a deep copy.
func (c *Config) Clone() *Config {
	out := *c
	out.Params = make(map[string]float64, len(c.Params))
	for k, v := range c.Params {
		out.Params[k] = v
	}
	out.Options = make(map[string]string, len(c.Options))
	for k, v := range c.Options {
		out.Options[k] = v
	}
	return &out
}

// Param returns a scene parameter, or def when unset.
func (c *Config) Param(name string, def float64) float64 {
	if v, ok := c.Params[name]; ok {
		return v
	}
	return def
}

// Option returns a scene option, or def when unset.
func (c *Config) Option(name, def string) string {
	if v, ok := c.Options[name]; ok && v != "" {
		return v
	}
	return def
}

// SetParam sets a scene parameter if it has no value yet.
func (c *Config) SetParam(name string, v float64) {
	if c.Params == nil {
		c.Params = map[string]float64{}
	}
	if _, ok := c.Params[name]; !ok {
		c.Params[name] = v
	}
}

// SetOption sets a scene option if it has no value yet.
func (c *Config) SetOption(name, v string) {
	if c.Options == nil {
		c.Options = map[string]string{}
	}
	if _, ok := c.Options[name]; !ok {
		c.Options[name] = v
	}
}

// Ticks returns the number of steps covering Duration.
func (c *Config) Ticks() int {
	if c.Dt <= 0 {
		return 0
	}
	return int(math.Round(c.Duration / c.Dt))
}

// ParticleBoundaries converts the boundary section into particle tags.
func (c *Config) ParticleBoundaries() (particle.Boundaries, error) {
	var b particle.Boundaries
	edges := []struct {
		name string
		raw  string
		dst  *particle.Policy
	}{
		{"top", c.Boundaries.Top, &b.Top},
		{"bottom", c.Boundaries.Bottom, &b.Bottom},
		{"left", c.Boundaries.Left, &b.Left},
		{"right", c.Boundaries.Right, &b.Right},
	}
	for _, e := range edges {
		if e.raw == "" {
			*e.dst = particle.Periodic
			continue
		}
		p, err := particle.ParsePolicy(e.raw)
		if err != nil {
			return b, fmt.Errorf("%w: boundaries.%s: %w", ErrInvalidConfig, e.name, err)
		}
		*e.dst = p
	}
	b.Probability = c.Boundaries.Probability
	return b, nil
}

func (c *Config) Validate() error {
	switch {
	case !(c.Width > 0) || !(c.Height > 0):
		return fmt.Errorf("%w: bounds must be positive, got %vx%v", ErrInvalidConfig, c.Width, c.Height)
	case !(c.Dt > 0):
		return fmt.Errorf("%w: dt must be positive, got %v", ErrInvalidConfig, c.Dt)
	case c.Duration < 0:
		return fmt.Errorf("%w: duration must not be negative, got %v", ErrInvalidConfig, c.Duration)
	case c.FrameRate < 0:
		return fmt.Errorf("%w: frame_rate must not be negative, got %d", ErrInvalidConfig, c.FrameRate)
	case c.NeighborRadius < 0:
		return fmt.Errorf("%w: neighbor_radius must not be negative, got %v", ErrInvalidConfig, c.NeighborRadius)
	case !(c.Particle.Mass > 0):
		return fmt.Errorf("%w: particle.mass must be positive, got %v", ErrInvalidConfig, c.Particle.Mass)
	case c.Particle.Size < 0:
		return fmt.Errorf("%w: particle.size must not be negative, got %v", ErrInvalidConfig, c.Particle.Size)
	case c.Particle.Restitution < 0:
		return fmt.Errorf("%w: particle.restitution must not be negative, got %v", ErrInvalidConfig, c.Particle.Restitution)
	case c.Boundaries.Probability < 0 || c.Boundaries.Probability > 1:
		return fmt.Errorf("%w: boundaries.probability must be in [0,1], got %v", ErrInvalidConfig, c.Boundaries.Probability)
	case c.Glyphs.Rate < 0:
		return fmt.Errorf("%w: glyphs.rate must not be negative, got %v", ErrInvalidConfig, c.Glyphs.Rate)
	case c.Glyphs.Fade < 0 || c.Glyphs.Fade > 1:
		return fmt.Errorf("%w: glyphs.fade must be in [0,1], got %v", ErrInvalidConfig, c.Glyphs.Fade)
	case !glyphs.Valid(c.Glyphs.Set):
		return fmt.Errorf("%w: glyphs.set %q: %w", ErrInvalidConfig, c.Glyphs.Set, glyphs.ErrUnknownSet)
	}
	_, err := c.ParticleBoundaries()
	return err
}
