package config

import "sort"

// Presets holds partial configurations keyed by scene then preset name.
// Only non-zero fields of a preset override the configuration it is
// applied to.
var Presets = map[string]map[string]*Config{
	"matrix_rain": {
		"downpour": {
			Particle: ParticleConfig{Size: 20, VY: 900},
			Glyphs:   GlyphConfig{Rate: 40, Fade: 0.01},
		},
		"drizzle": {
			Particle: ParticleConfig{Size: 32, VY: 240},
			Glyphs:   GlyphConfig{Rate: 5, Fade: 0.08},
		},
		"binary": {
			Glyphs: GlyphConfig{Set: "binary", Rate: 20},
		},
	},
	"supernova": {
		"tight": {
			Params: map[string]float64{"velocity": 0.02, "inner_ratio": 0.6},
		},
		"sanskrit": {
			Options: map[string]string{"outer_set": "sanskrit", "inner_set": "aramaic"},
		},
	},
	"gravity_field": {
		"binary": {
			Duration: 60,
			Params:   map[string]float64{"bodies": 80},
			Options:  map[string]string{"distribution": "binary"},
		},
		"heavy": {
			Params:  map[string]float64{"g": 3000, "softening": 20},
			Options: map[string]string{"mass_distribution": "powerlaw"},
		},
		"dust": {
			Params:  map[string]float64{"bodies": 300, "g": 400},
			Options: map[string]string{"distribution": "random"},
		},
	},
	"ecosystem": {
		"crowded": {
			Params: map[string]float64{"prey_density": 0.3, "predator_ratio": 0.05},
		},
		"hungry": {
			Params: map[string]float64{"predator_ratio": 0.3, "energy_drain": 9},
		},
	},
	"game_of_life": {
		"fast": {
			Params: map[string]float64{"evolution_rate": 10},
		},
		"sparse": {
			Params:  map[string]float64{"density": 0.12},
			Options: map[string]string{"style": "binary"},
		},
	},
	"plasma_flow": {
		"hot": {
			Params: map[string]float64{"temperature": 5, "pressure": 1.5},
		},
		"calm": {
			Params: map[string]float64{"temperature": 0.3, "vorticity": 0.1, "magnetic": 0.5},
		},
	},
	"sacred_mandala": {
		"lotus": {
			Params: map[string]float64{"layers": 5, "velocity": 25},
		},
		"slow": {
			Params: map[string]float64{"velocity": 3, "velocity_ratio": 0.6},
		},
	},
	"dna_helix": {
		"wide": {
			Particle: ParticleConfig{VY: 60},
			Params:   map[string]float64{"radius": 180},
		},
	},
	"wave_function": {
		"chorus": {
			Params: map[string]float64{"sources": 4, "frequency": 4},
		},
		"interference": {
			Options: map[string]string{"color_mode": "interference", "symbol_mode": "amplitude"},
		},
	},
	"crystal_automata": {
		"snowflake": {
			Options: map[string]string{"neighborhood": "moore", "scheme": "direction"},
		},
		"scattered": {
			Params:  map[string]float64{"seed_count": 6},
			Options: map[string]string{"seed": "scattered", "scheme": "age"},
		},
	},
	"swarm": {
		"tight": {
			Params: map[string]float64{"cohesion": 0.02, "separation": 0.2},
		},
		"turbulent": {
			Params: map[string]float64{"noise_strength": 80, "noise_scale": 0.01},
		},
	},
	"billiards": {
		"break": {
			Params: map[string]float64{"cue_speed": 900},
		},
		"inelastic": {
			Particle: ParticleConfig{Restitution: 0.7},
		},
	},
}

func GetPreset(scene, preset string) *Config {
	scenePresets, ok := Presets[scene]
	if !ok {
		return nil
	}
	cfg, ok := scenePresets[preset]
	if !ok {
		return nil
	}
	return cfg
}

func ListPresets(scene string) []string {
	scenePresets, ok := Presets[scene]
	if !ok {
		return nil
	}
	names := make([]string, 0, len(scenePresets))
	for name := range scenePresets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Overlay returns a copy of base with every non-zero field of over applied.
// Boolean fields only ever switch on.
func Overlay(base, over *Config) *Config {
	out := base.Clone()
	if over == nil {
		return out
	}
	setString(&out.Scene, over.Scene)
	setFloat(&out.Width, over.Width)
	setFloat(&out.Height, over.Height)
	setFloat(&out.Dt, over.Dt)
	setFloat(&out.Duration, over.Duration)
	setFloat(&out.NeighborRadius, over.NeighborRadius)
	if over.Seed != 0 {
		out.Seed = over.Seed
	}
	if over.FrameRate != 0 {
		out.FrameRate = over.FrameRate
	}
	out.IsolateFailures = out.IsolateFailures || over.IsolateFailures

	setFloat(&out.Particle.Size, over.Particle.Size)
	setFloat(&out.Particle.Mass, over.Particle.Mass)
	setFloat(&out.Particle.VX, over.Particle.VX)
	setFloat(&out.Particle.VY, over.Particle.VY)
	setFloat(&out.Particle.Restitution, over.Particle.Restitution)
	out.Particle.Collisions = out.Particle.Collisions || over.Particle.Collisions

	setString(&out.Glyphs.Set, over.Glyphs.Set)
	setFloat(&out.Glyphs.Rate, over.Glyphs.Rate)
	setFloat(&out.Glyphs.Fade, over.Glyphs.Fade)

	setString(&out.Boundaries.Top, over.Boundaries.Top)
	setString(&out.Boundaries.Bottom, over.Boundaries.Bottom)
	setString(&out.Boundaries.Left, over.Boundaries.Left)
	setString(&out.Boundaries.Right, over.Boundaries.Right)
	setFloat(&out.Boundaries.Probability, over.Boundaries.Probability)

	for k, v := range over.Params {
		out.Params[k] = v
	}
	for k, v := range over.Options {
		out.Options[k] = v
	}
	return out
}

func setFloat(dst *float64, v float64) {
	if v != 0 {
		*dst = v
	}
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
