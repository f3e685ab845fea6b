package experiment

import (
	"context"
	"fmt"
	"math/rand"

	"github.com/charmbracelet/log"

	"github.com/san-kum/glyphsim/internal/config"
	"github.com/san-kum/glyphsim/internal/metrics"
	"github.com/san-kum/glyphsim/internal/scenes"
	"github.com/san-kum/glyphsim/internal/sim"
)

// Result holds one headless run: a time axis, one series per gauge, and
// the final value of every attached metric.
type Result struct {
	Scene   string
	Seed    int64
	Ticks   int
	Times   []float64
	Series  map[string][]float64
	Metrics map[string]float64
	Final   sim.Stats
}

type Experiment struct {
	cfg     *config.Config
	scene   scenes.Scene
	logger  *log.Logger
	system  *sim.System
	metrics []sim.Metric
	gauges  []string
}

func New(cfg *config.Config, scene scenes.Scene, logger *log.Logger) *Experiment {
	if logger == nil {
		logger = log.Default()
	}
	return &Experiment{
		cfg:    cfg,
		scene:  scene,
		logger: logger,
		gauges: metrics.GaugeNames(),
	}
}

// SystemConfig maps the run configuration onto the simulation's.
func SystemConfig(cfg *config.Config, logger *log.Logger) sim.Config {
	policy := sim.FailFast
	if cfg.IsolateFailures {
		policy = sim.Isolate
	}
	return sim.Config{
		Width:          cfg.Width,
		Height:         cfg.Height,
		Seed:           cfg.Seed,
		NeighborRadius: cfg.NeighborRadius,
		FailurePolicy:  policy,
		ValidateState:  true,
		Logger:         logger,
	}
}

// Setup validates the configuration, builds the scene into a fresh System
// and attaches ms.
func (e *Experiment) Setup(ms []sim.Metric) error {
	if err := e.cfg.Validate(); err != nil {
		return err
	}
	system, err := sim.New(SystemConfig(e.cfg, e.logger))
	if err != nil {
		return err
	}
	ps, err := e.scene.Build(e.cfg, rand.New(rand.NewSource(e.cfg.Seed)))
	if err != nil {
		return fmt.Errorf("build scene %s: %w", e.scene.Name, err)
	}
	if err := system.AddParticles(ps...); err != nil {
		return err
	}
	for _, m := range ms {
		system.AddMetric(m)
	}
	e.system = system
	e.metrics = ms
	e.logger.Debug("experiment ready", "scene", e.scene.Name, "particles", len(ps), "seed", e.cfg.Seed)
	return nil
}

// Run advances the System for the configured duration, checking ctx
// between ticks.
func (e *Experiment) Run(ctx context.Context) (*Result, error) {
	if e.system == nil {
		return nil, fmt.Errorf("experiment not setup")
	}

	gauges := make([]metrics.Gauge, len(e.gauges))
	for i, name := range e.gauges {
		p, err := metrics.GetGauge(name)
		if err != nil {
			return nil, err
		}
		gauges[i] = p
	}

	ticks := e.cfg.Ticks()
	res := &Result{
		Scene:   e.scene.Name,
		Seed:    e.cfg.Seed,
		Times:   make([]float64, 0, ticks),
		Series:  make(map[string][]float64, len(e.gauges)),
		Metrics: make(map[string]float64, len(e.metrics)),
	}
	for _, name := range e.gauges {
		res.Series[name] = make([]float64, 0, ticks)
	}

	for i := 0; i < ticks; i++ {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		if err := e.system.Update(e.cfg.Dt); err != nil {
			return nil, fmt.Errorf("tick %d: %w", i+1, err)
		}

		frame := e.system.Frame()
		res.Times = append(res.Times, frame.Time)
		for j, name := range e.gauges {
			res.Series[name] = append(res.Series[name], gauges[j](frame))
		}
	}

	res.Ticks = e.system.Tick()
	res.Final = e.system.Stats()
	for _, m := range e.metrics {
		res.Metrics[m.Name()] = m.Value()
	}
	return res, nil
}

// System returns the underlying simulation for adding observers.
func (e *Experiment) System() *sim.System {
	return e.system
}
