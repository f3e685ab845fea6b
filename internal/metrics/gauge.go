package metrics

import (
	"fmt"
	"sort"

	"github.com/san-kum/glyphsim/internal/sim"
)

// Gauge samples one instantaneous value from a frame. Gauges feed the
// per-tick series recorded by experiments and shown by the live view.
type Gauge func(sim.Frame) float64

var gauges = map[string]Gauge{
	"population":     func(f sim.Frame) float64 { return float64(f.Stats.Live) },
	"kinetic_energy": TotalKinetic,
	"momentum":       TotalMomentum,
	"collisions":     func(f sim.Frame) float64 { return float64(f.Stats.Collisions) },
	"pairs":          func(f sim.Frame) float64 { return float64(f.Stats.Pairs) },
}

// GetGauge returns the named gauge.
func GetGauge(name string) (Gauge, error) {
	p, ok := gauges[name]
	if !ok {
		return nil, fmt.Errorf("unknown gauge: %s", name)
	}
	return p, nil
}

// GaugeNames lists the available gauges in sorted order.
func GaugeNames() []string {
	names := make([]string, 0, len(gauges))
	for name := range gauges {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Standard returns the metrics attached to every experiment.
func Standard() []sim.Metric {
	return []sim.Metric{
		NewPopulation(),
		NewKineticEnergy(),
		NewEnergyDrift(),
		NewMomentum(),
		NewCollisions(),
	}
}
