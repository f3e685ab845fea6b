package experiment

import (
	"github.com/san-kum/glyphsim/internal/config"
	"github.com/san-kum/glyphsim/internal/metrics"
	"github.com/san-kum/glyphsim/internal/scenes"
	"github.com/san-kum/glyphsim/internal/sim"
)

// stabilityLimit is the speed, in px/s, above which a tick counts as
// unstable.
const stabilityLimit = 5000.0

type Registry struct {
	scenes *scenes.Registry
}

func NewRegistry() *Registry {
	return &Registry{scenes: scenes.NewRegistry()}
}

func (r *Registry) GetScene(name string) (scenes.Scene, error) {
	return r.scenes.Get(name)
}

func (r *Registry) ListScenes() []scenes.Scene {
	return r.scenes.List()
}

// Configure resolves a configuration for the named scene: base, then the
// scene's defaults, then the named preset if any.
func (r *Registry) Configure(base *config.Config, scene, preset string) (*config.Config, error) {
	s, err := r.scenes.Get(scene)
	if err != nil {
		return nil, err
	}
	cfg := s.Configure(base)
	if preset != "" {
		p := config.GetPreset(scene, preset)
		if p == nil {
			return nil, &PresetError{Scene: scene, Preset: preset}
		}
		cfg = config.Overlay(cfg, p)
	}
	return cfg, nil
}

// DefaultMetrics returns a fresh set of metrics for one run.
func (r *Registry) DefaultMetrics(scene string) []sim.Metric {
	ms := metrics.Standard()
	return append(ms, metrics.NewStability(stabilityLimit))
}

// PresetError reports an unknown preset name.
type PresetError struct {
	Scene, Preset string
}

func (e *PresetError) Error() string {
	return "unknown preset " + e.Preset + " for scene " + e.Scene
}
