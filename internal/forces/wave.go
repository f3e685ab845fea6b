package forces

import (
	"fmt"
	"math"

	"github.com/san-kum/glyphsim/internal/particle"
)

// waveLength is the distance, in pixels, over which a source's phase
// advances by Frequency radians.
const waveLength = 50.0

// WaveSource is a point emitter of the interference field.
type WaveSource struct {
	X, Y float64
}

// RingSources places n sources evenly on a circle around (cx, cy).
func RingSources(n int, cx, cy, radius float64) []WaveSource {
	out := make([]WaveSource, 0, n)
	for i := 0; i < n; i++ {
		angle := 2 * math.Pi * float64(i) / float64(n)
		out = append(out, WaveSource{X: cx + radius*math.Cos(angle), Y: cy + radius*math.Sin(angle)})
	}
	return out
}

// Wave superposes circular waves. A source at distance r contributes
//
//	exp(i·f·(r/50 − t)) / √(r+1)
//
// and Sample returns the modulus and argument of the sum.
type Wave struct {
	Sources   []WaveSource
	Frequency float64
}

func (w Wave) Sample(x, y, t float64) (amplitude, phase float64) {
	var re, im float64
	for _, s := range w.Sources {
		r := math.Hypot(x-s.X, y-s.Y)
		ph := w.Frequency * (r/waveLength - t)
		damp := 1 / math.Sqrt(r+1)
		re += math.Cos(ph) * damp
		im += math.Sin(ph) * damp
	}
	return math.Hypot(re, im), math.Atan2(im, re)
}

// Wave colour modes.
const (
	WaveComplex      = "complex"
	WaveAmplitude    = "amplitude"
	WaveInterference = "interference"
)

// WaveColor maps a field sample to a CSS colour.
func WaveColor(mode string, amplitude, phase, saturation float64) string {
	sat := saturation * 100
	switch mode {
	case WaveAmplitude:
		return hsl(amplitude*260, sat, 50)
	case WaveInterference:
		b := math.Min(amplitude*255, 255)
		return fmt.Sprintf("rgb(%.0f,%.0f,%.0f)", math.Cos(phase)*127+128, math.Sin(phase)*127+128, b)
	default:
		return hsl((phase/(2*math.Pi)+1)*360, sat, 50+amplitude*25)
	}
}

// WaveCell recolours a particle from the field at its position each tick.
// In "phase" symbol mode the particle's phase follows the field; in
// "amplitude" mode its phase rate is the amplitude times BaseRate. It
// contributes no force.
type WaveCell struct {
	Wave       Wave
	ColorMode  string
	SymbolMode string
	Saturation float64
	BaseRate   float64
}

func (c WaveCell) Apply(p *particle.Particle, ctx particle.Context) (float64, float64) {
	amp, ph := c.Wave.Sample(p.X, p.Y, ctx.Time())
	p.Visual.Color = WaveColor(c.ColorMode, amp, ph, c.Saturation)
	switch c.SymbolMode {
	case "phase":
		p.Phase = ph
	case "amplitude":
		p.PhaseRate = amp * c.BaseRate
	}
	return 0, 0
}

// PhaseCoupling is Kuramoto-style synchronisation: the phase rate becomes
// BaseRate + Coupling·Σ sin(φj − φi) over neighbors closer than Range. It
// contributes no force.
type PhaseCoupling struct {
	Range    float64
	BaseRate float64
	Coupling float64
}

func (PhaseCoupling) NeedsNeighbors() bool { return true }

func (c PhaseCoupling) Apply(p *particle.Particle, ctx particle.Context) (float64, float64) {
	sum := 0.0
	for _, n := range ctx.Neighbors(p.ID()) {
		if n.Distance < c.Range {
			sum += math.Sin(n.Particle.Phase - p.Phase)
		}
	}
	p.PhaseRate = c.BaseRate + c.Coupling*sum
	return 0, 0
}
