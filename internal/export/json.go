package export

import (
	"encoding/json"
	"io"
	"os"

	"github.com/san-kum/glyphsim/internal/config"
	"github.com/san-kum/glyphsim/internal/experiment"
	"github.com/san-kum/glyphsim/internal/particle"
)

type ExportData struct {
	Scene    string               `json:"scene"`
	Seed     int64                `json:"seed"`
	Dt       float64              `json:"dt"`
	Duration float64              `json:"duration"`
	Steps    int                  `json:"steps"`
	Times    []float64            `json:"times"`
	Series   map[string][]float64 `json:"series"`
	Metrics  map[string]float64   `json:"metrics"`
}

func newExportData(cfg *config.Config, result *experiment.Result) ExportData {
	return ExportData{
		Scene:    result.Scene,
		Seed:     result.Seed,
		Dt:       cfg.Dt,
		Duration: cfg.Duration,
		Steps:    len(result.Times),
		Times:    result.Times,
		Series:   result.Series,
		Metrics:  result.Metrics,
	}
}

// WriteJSON encodes a run to w.
func WriteJSON(w io.Writer, cfg *config.Config, result *experiment.Result) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(newExportData(cfg, result))
}

func ExportJSON(path string, cfg *config.Config, result *experiment.Result) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()
	return WriteJSON(file, cfg, result)
}

// ParticleState is one particle's exported state.
type ParticleState struct {
	ID    string  `json:"id"`
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	VX    float64 `json:"vx"`
	VY    float64 `json:"vy"`
	Mass  float64 `json:"mass"`
	Phase float64 `json:"phase"`
	Glyph string  `json:"glyph,omitempty"`
	Color string  `json:"color,omitempty"`
}

// WriteParticles encodes the live collection to w, one object per
// particle.
func WriteParticles(w io.Writer, ps []*particle.Particle) error {
	out := make([]ParticleState, 0, len(ps))
	for _, p := range ps {
		st := ParticleState{
			ID:    p.ID().String(),
			X:     p.X,
			Y:     p.Y,
			VX:    p.VX,
			VY:    p.VY,
			Mass:  p.Mass,
			Phase: p.Phase,
			Color: p.Visual.Color,
		}
		if p.Visual.Glyph != 0 {
			st.Glyph = string(p.Visual.Glyph)
		}
		out = append(out, st)
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
