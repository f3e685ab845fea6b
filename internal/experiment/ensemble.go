package experiment

import (
	"context"
	"math"
	"runtime"
	"sort"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/san-kum/glyphsim/internal/config"
)

// Ensemble runs the same scene over consecutive seeds in parallel. Each
// run owns its System; nothing is shared between goroutines.
type Ensemble struct {
	registry  *Registry
	cfg       *config.Config
	numRuns   int
	seedStart int64
	logger    *log.Logger
}

func NewEnsemble(r *Registry, cfg *config.Config, numRuns int, seedStart int64, logger *log.Logger) *Ensemble {
	if logger == nil {
		logger = log.Default()
	}
	return &Ensemble{registry: r, cfg: cfg, numRuns: numRuns, seedStart: seedStart, logger: logger}
}

// Run executes every seed and returns results in seed order. The first
// failure cancels the remaining runs.
func (e *Ensemble) Run(ctx context.Context) ([]*Result, error) {
	scene, err := e.registry.GetScene(e.cfg.Scene)
	if err != nil {
		return nil, err
	}

	results := make([]*Result, e.numRuns)
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())

	for i := 0; i < e.numRuns; i++ {
		idx := i
		g.Go(func() error {
			cfg := e.cfg.Clone()
			cfg.Seed = e.seedStart + int64(idx)

			exp := New(cfg, scene, e.logger.With("seed", cfg.Seed))
			if err := exp.Setup(e.registry.DefaultMetrics(cfg.Scene)); err != nil {
				return err
			}
			res, err := exp.Run(ctx)
			if err != nil {
				return err
			}
			results[idx] = res
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// Summary describes one metric across an ensemble.
type Summary struct {
	Mean, Std, Min, Max float64
}

// Summarize aggregates each metric over results.
func Summarize(results []*Result) map[string]Summary {
	values := map[string][]float64{}
	for _, r := range results {
		for name, v := range r.Metrics {
			values[name] = append(values[name], v)
		}
	}

	out := make(map[string]Summary, len(values))
	for name, vs := range values {
		sort.Float64s(vs)
		sum := 0.0
		for _, v := range vs {
			sum += v
		}
		mean := sum / float64(len(vs))
		variance := 0.0
		for _, v := range vs {
			variance += (v - mean) * (v - mean)
		}
		out[name] = Summary{
			Mean: mean,
			Std:  math.Sqrt(variance / float64(len(vs))),
			Min:  vs[0],
			Max:  vs[len(vs)-1],
		}
	}
	return out
}
