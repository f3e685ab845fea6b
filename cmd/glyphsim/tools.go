package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/san-kum/glyphsim/internal/config"
	"github.com/san-kum/glyphsim/internal/experiment"
	"github.com/san-kum/glyphsim/internal/export"
	"github.com/san-kum/glyphsim/internal/glyphs"
	"github.com/san-kum/glyphsim/internal/optim"
)

var (
	withParticles bool
	numRuns       int
	grids         []string
	metricName    string
	maximize      bool
)

func listScenes(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SCENE\tPRESETS\tDESCRIPTION")
	for _, s := range experiment.NewRegistry().ListScenes() {
		fmt.Fprintf(w, "%s\t%s\t%s\n", s.Name, strings.Join(config.ListPresets(s.Name), ","), s.Description)
	}
	return w.Flush()
}

func listPresets(cmd *cobra.Command, args []string) error {
	var names []string
	if len(args) > 0 {
		names = args
	} else {
		for _, s := range experiment.NewRegistry().ListScenes() {
			names = append(names, s.Name)
		}
	}
	for _, scene := range names {
		presets := config.ListPresets(scene)
		if len(presets) == 0 {
			if len(args) > 0 {
				fmt.Printf("no presets for %s\n", scene)
			}
			continue
		}
		fmt.Printf("%s:\n", scene)
		for _, p := range presets {
			fmt.Printf("  %s\n", p)
		}
	}
	return nil
}

// newExperiment resolves cfg's scene and prepares a run with the default
// metrics.
func newExperiment(cfg *config.Config) (*experiment.Experiment, error) {
	registry := experiment.NewRegistry()
	scene, err := registry.GetScene(cfg.Scene)
	if err != nil {
		return nil, err
	}
	exp := experiment.New(cfg, scene, logger)
	return exp, exp.Setup(registry.DefaultMetrics(cfg.Scene))
}

func exportSVG(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd, args)
	if err != nil {
		return err
	}
	exp, err := newExperiment(cfg)
	if err != nil {
		return err
	}
	system := exp.System()
	system.AddObserver(glyphs.NewUpdater(system.Rand()))
	if _, err := exp.Run(context.Background()); err != nil {
		return err
	}

	path := outputPath(cfg.Scene + ".svg")
	svg := export.FrameToSVG(system.Particles(), cfg.Width, cfg.Height)
	if err := os.WriteFile(path, []byte(svg), 0644); err != nil {
		return err
	}
	fmt.Printf("wrote %s (%d particles at t=%.2fs)\n", path, len(system.Particles()), system.Time())

	if withParticles {
		jsonPath := strings.TrimSuffix(path, ".svg") + ".particles.json"
		f, err := os.Create(jsonPath)
		if err != nil {
			return err
		}
		defer f.Close()
		if err := export.WriteParticles(f, system.Particles()); err != nil {
			return err
		}
		fmt.Printf("wrote %s\n", jsonPath)
	}
	return nil
}

func benchScene(cmd *cobra.Command, args []string) error {
	base, err := buildConfig(cmd, args)
	if err != nil {
		return err
	}

	durations := []float64{1.0, 5.0}
	dts := []float64{1.0 / 120, 1.0 / 60, 1.0 / 30}

	fmt.Printf("benchmarking %s\n\n", base.Scene)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "DURATION\tDT\tTICKS\tLIVE\tPAIRS\tTIME\tTICKS/SEC")

	for _, dur := range durations {
		for _, step := range dts {
			cfg := base.Clone()
			cfg.Duration, cfg.Dt = dur, step

			exp, err := newExperiment(cfg)
			if err != nil {
				return err
			}

			start := time.Now()
			result, err := exp.Run(context.Background())
			if err != nil {
				return err
			}
			elapsed := time.Since(start)

			fmt.Fprintf(w, "%.1fs\t%.4fs\t%d\t%d\t%d\t%v\t%.0f\n",
				dur, step, result.Ticks, result.Final.Live, result.Final.Pairs,
				elapsed.Round(time.Microsecond), float64(result.Ticks)/elapsed.Seconds())
		}
	}

	return w.Flush()
}

func runEnsemble(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd, args)
	if err != nil {
		return err
	}
	if numRuns <= 0 {
		return fmt.Errorf("runs must be positive, got %d", numRuns)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	logger.Info("ensemble", "scene", cfg.Scene, "runs", numRuns, "seed", cfg.Seed)
	start := time.Now()
	results, err := experiment.NewEnsemble(experiment.NewRegistry(), cfg, numRuns, cfg.Seed, logger).Run(ctx)
	if err != nil {
		return err
	}
	logger.Info("ensemble done", "elapsed", time.Since(start))

	summary := experiment.Summarize(results)
	names := make([]string, 0, len(summary))
	for name := range summary {
		names = append(names, name)
	}
	sort.Strings(names)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "METRIC\tMEAN\tSTD\tMIN\tMAX")
	for _, name := range names {
		s := summary[name]
		fmt.Fprintf(w, "%s\t%.6g\t%.6g\t%.6g\t%.6g\n", name, s.Mean, s.Std, s.Min, s.Max)
	}
	return w.Flush()
}

func sweepScene(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd, args)
	if err != nil {
		return err
	}
	if len(grids) == 0 {
		return fmt.Errorf("at least one --grid is required")
	}

	var names []string
	var ranges [][]float64
	for _, spec := range grids {
		name, values, err := optim.ParseGrid(spec)
		if err != nil {
			return err
		}
		names = append(names, name)
		ranges = append(ranges, values)
	}

	g := optim.NewGridSearch(names, ranges)
	if maximize {
		g.Maximize()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	logger.Info("sweep", "scene", cfg.Scene, "points", g.Size(), "metric", metricName)
	best, value, trials, err := g.Search(ctx, func(ps map[string]float64) (*experiment.Experiment, error) {
		c := cfg.Clone()
		for k, v := range ps {
			c.Params[k] = v
		}
		return newExperiment(c)
	}, metricName)
	if err != nil {
		return err
	}

	g.SortTrials(trials)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, strings.Join(names, "\t")+"\t"+strings.ToUpper(metricName))
	for _, t := range trials {
		cols := make([]string, 0, len(names)+1)
		for _, n := range names {
			cols = append(cols, fmt.Sprintf("%.4g", t.Params[n]))
		}
		if t.Err != nil {
			cols = append(cols, "error: "+t.Err.Error())
		} else {
			cols = append(cols, fmt.Sprintf("%.6g", t.Value))
		}
		fmt.Fprintln(w, strings.Join(cols, "\t"))
	}
	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Printf("\nbest %s = %.6g at", metricName, value)
	for _, n := range names {
		fmt.Printf(" %s=%.4g", n, best[n])
	}
	fmt.Println()
	return nil
}

func sortedKeys(m map[string]float64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
