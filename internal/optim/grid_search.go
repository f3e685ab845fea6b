package optim

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/san-kum/glyphsim/internal/experiment"
)

// Trial is one evaluated point of the grid.
type Trial struct {
	Params map[string]float64
	Value  float64
	Err    error
}

// GridSearch evaluates a metric at every combination of parameter values.
type GridSearch struct {
	paramNames []string
	ranges     [][]float64
	maximize   bool
}

func NewGridSearch(params []string, ranges [][]float64) *GridSearch {
	return &GridSearch{paramNames: params, ranges: ranges}
}

// Maximize makes Search prefer larger metric values.
func (g *GridSearch) Maximize() *GridSearch {
	g.maximize = true
	return g
}

// Size is the number of grid points.
func (g *GridSearch) Size() int {
	if len(g.ranges) == 0 {
		return 0
	}
	n := 1
	for _, r := range g.ranges {
		n *= len(r)
	}
	return n
}

// Search runs buildExperiment at every grid point and returns the best
// parameters and metric value along with every trial. Failed trials are
// recorded and skipped; a cancelled ctx stops the search.
func (g *GridSearch) Search(
	ctx context.Context,
	buildExperiment func(params map[string]float64) (*experiment.Experiment, error),
	metricName string,
) (map[string]float64, float64, []Trial, error) {
	if len(g.paramNames) != len(g.ranges) {
		return nil, 0, nil, fmt.Errorf("optim: %d params but %d ranges", len(g.paramNames), len(g.ranges))
	}

	best := math.Inf(1)
	if g.maximize {
		best = math.Inf(-1)
	}
	var bestParams map[string]float64
	var trials []Trial

	err := g.searchRecursive(ctx, 0, make(map[string]float64), func(params map[string]float64) {
		trial := Trial{Params: params}
		exp, err := buildExperiment(params)
		if err == nil {
			var result *experiment.Result
			result, err = exp.Run(ctx)
			if err == nil {
				v, ok := result.Metrics[metricName]
				if !ok {
					err = fmt.Errorf("optim: metric %s not recorded", metricName)
				}
				trial.Value = v
			}
		}
		trial.Err = err
		trials = append(trials, trial)
		if err != nil {
			return
		}
		if (g.maximize && trial.Value > best) || (!g.maximize && trial.Value < best) {
			best = trial.Value
			bestParams = params
		}
	})
	if err != nil {
		return nil, 0, trials, err
	}
	if bestParams == nil {
		return nil, 0, trials, fmt.Errorf("optim: no trial succeeded")
	}
	return bestParams, best, trials, nil
}

func (g *GridSearch) searchRecursive(
	ctx context.Context,
	depth int,
	current map[string]float64,
	eval func(map[string]float64),
) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if depth == len(g.paramNames) {
		eval(current)
		return nil
	}

	paramName := g.paramNames[depth]
	for _, val := range g.ranges[depth] {
		newParams := make(map[string]float64, len(current)+1)
		for k, v := range current {
			newParams[k] = v
		}
		newParams[paramName] = val

		if err := g.searchRecursive(ctx, depth+1, newParams, eval); err != nil {
			return err
		}
	}
	return nil
}

// ParseGrid reads "name=v1,v2,..." or "name=start:stop:count" into a
// parameter name and its values.
func ParseGrid(spec string) (string, []float64, error) {
	name, values, ok := strings.Cut(spec, "=")
	if !ok || name == "" || values == "" {
		return "", nil, fmt.Errorf("optim: expected name=values, got %q", spec)
	}

	if parts := strings.Split(values, ":"); len(parts) == 3 {
		start, err1 := strconv.ParseFloat(parts[0], 64)
		stop, err2 := strconv.ParseFloat(parts[1], 64)
		count, err3 := strconv.Atoi(parts[2])
		if err1 != nil || err2 != nil || err3 != nil || count < 1 {
			return "", nil, fmt.Errorf("optim: bad range %q", values)
		}
		out := make([]float64, count)
		for i := range out {
			if count == 1 {
				out[i] = start
				continue
			}
			out[i] = start + (stop-start)*float64(i)/float64(count-1)
		}
		return name, out, nil
	}

	var out []float64
	for _, s := range strings.Split(values, ",") {
		v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil {
			return "", nil, fmt.Errorf("optim: bad value %q: %w", s, err)
		}
		out = append(out, v)
	}
	return name, out, nil
}

// SortTrials orders trials best first, failures last.
func (g *GridSearch) SortTrials(trials []Trial) {
	sort.SliceStable(trials, func(i, j int) bool {
		a, b := trials[i], trials[j]
		if (a.Err == nil) != (b.Err == nil) {
			return a.Err == nil
		}
		if g.maximize {
			return a.Value > b.Value
		}
		return a.Value < b.Value
	})
}
