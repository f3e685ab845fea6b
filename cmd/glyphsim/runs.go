package main

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"text/tabwriter"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/glyphsim/internal/analysis"
	"github.com/san-kum/glyphsim/internal/audio"
	"github.com/san-kum/glyphsim/internal/config"
	"github.com/san-kum/glyphsim/internal/experiment"
	"github.com/san-kum/glyphsim/internal/export"
	"github.com/san-kum/glyphsim/internal/storage"
)

var (
	svgOut      string
	outPath     string
	audioLength time.Duration
	seriesName  string
	vsName      string
)

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSCENE\tTIME\tDURATION\tDT\tSEED\tLIVE")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%.2fs\t%.4fs\t%d\t%d\n",
			run.ID,
			run.Scene,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Duration,
			run.Dt,
			run.Seed,
			run.Live,
		)
	}

	return w.Flush()
}

// loadRun rebuilds a stored run's configuration and result.
func loadRun(runID string) (*config.Config, *experiment.Result, error) {
	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return nil, nil, err
	}
	times, series, err := st.LoadSeries(runID)
	if err != nil {
		return nil, nil, err
	}

	cfg := meta.Config
	if cfg == nil {
		cfg = config.DefaultConfig()
		cfg.Scene, cfg.Seed = meta.Scene, meta.Seed
		cfg.Dt, cfg.Duration = meta.Dt, meta.Duration
		cfg.Width, cfg.Height = meta.Width, meta.Height
	}
	return cfg, &experiment.Result{
		Scene:   meta.Scene,
		Seed:    meta.Seed,
		Ticks:   meta.Ticks,
		Times:   times,
		Series:  series,
		Metrics: meta.Metrics,
	}, nil
}

func plotRun(cmd *cobra.Command, args []string) error {
	runID := args[0]
	_, result, err := loadRun(runID)
	if err != nil {
		return err
	}
	if len(result.Times) == 0 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\n", runID)
	fmt.Printf("scene: %s\n", result.Scene)
	fmt.Printf("samples: %d\n\n", len(result.Times))

	if svgOut != "" {
		if err := os.MkdirAll(svgOut, 0755); err != nil {
			return err
		}
	}

	for _, name := range storage.SeriesNames(result) {
		data := result.Series[name]
		if len(data) == 0 {
			continue
		}
		graph := asciigraph.Plot(data,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(name),
		)
		fmt.Println(graph)
		fmt.Println()

		if svgOut != "" {
			svg := export.SeriesToSVG(result.Times, data, 800, 300, "#00ff46")
			if svg == "" {
				continue
			}
			path := filepath.Join(svgOut, name+".svg")
			if err := os.WriteFile(path, []byte(svg), 0644); err != nil {
				return err
			}
			logger.Info("wrote svg", "path", path)
		}
	}
	return nil
}

func exportRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(meta)
}

func outputPath(def string) string {
	if outPath != "" {
		return outPath
	}
	return def
}

func exportCSV(cmd *cobra.Command, args []string) error {
	runID := args[0]
	_, result, err := loadRun(runID)
	if err != nil {
		return err
	}
	path := outputPath(runID + ".csv")
	if err := storage.WriteSeriesCSV(path, result); err != nil {
		return err
	}
	fmt.Printf("exported %d samples to %s\n", len(result.Times), path)
	return nil
}

func exportJSON(cmd *cobra.Command, args []string) error {
	runID := args[0]
	cfg, result, err := loadRun(runID)
	if err != nil {
		return err
	}
	path := outputPath(runID + ".json")
	if err := export.ExportJSON(path, cfg, result); err != nil {
		return err
	}
	fmt.Printf("exported to %s\n", path)
	return nil
}

func exportWAV(cmd *cobra.Command, args []string) error {
	runID := args[0]
	cfg, result, err := loadRun(runID)
	if err != nil {
		return err
	}

	length := audioLength
	if length <= 0 {
		length = time.Duration(cfg.Duration * float64(time.Second))
	}
	events := audio.EventTimes(result.Times, result.Series["collisions"])
	pad, err := audio.NewPad(audio.SampleRate, result.Times, result.Series["kinetic_energy"], length, events)
	if err != nil {
		return err
	}

	path := outputPath(runID + ".wav")
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := audio.WriteWAV(f, pad, audio.SampleRate); err != nil {
		return err
	}
	fmt.Printf("wrote %v of audio with %d events to %s\n", length, len(events), path)
	return nil
}

func analyzeRun(cmd *cobra.Command, args []string) error {
	runID := args[0]
	_, result, err := loadRun(runID)
	if err != nil {
		return err
	}
	values, ok := result.Series[seriesName]
	if !ok || len(values) == 0 {
		return fmt.Errorf("series %s not recorded (have %v)", seriesName, storage.SeriesNames(result))
	}

	fmt.Printf("analysis: %s\n", runID)
	fmt.Printf("scene: %s  series: %s\n\n", result.Scene, seriesName)

	spectrum := analysis.PowerSpectrum(values)
	if len(spectrum) > 1 {
		graph := asciigraph.Plot(spectrum[:max(len(spectrum)/4, 2)],
			asciigraph.Height(12),
			asciigraph.Width(80),
			asciigraph.Caption("power spectrum ("+seriesName+")"),
		)
		fmt.Println(graph)
		fmt.Println()
	}

	period, power := analysis.DominantPeriod(result.Times, values)
	if period > 0 {
		fmt.Printf("dominant period: %.3f s (%.3f hz, power %.3g)\n", period, 1/period, power)
	} else {
		fmt.Println("no dominant period")
	}

	mean := 0.0
	for _, v := range values {
		mean += v
	}
	mean /= float64(len(values))
	crossings := analysis.Crossings(result.Times, values, mean)
	fmt.Printf("upward crossings of mean %.4g: %d\n", mean, len(crossings))
	if len(crossings) > 1 {
		span := crossings[len(crossings)-1] - crossings[0]
		fmt.Printf("mean crossing interval: %.3f s\n", span/float64(len(crossings)-1))
	}

	if vsName != "" {
		ys, ok := result.Series[vsName]
		if !ok {
			return fmt.Errorf("series %s not recorded", vsName)
		}
		fmt.Println()
		fmt.Println(analysis.NewPortrait(seriesName, values, vsName, ys).ASCII(70, 24))
	}

	lo, hi := math.Inf(1), math.Inf(-1)
	for _, v := range values {
		lo, hi = min(lo, v), max(hi, v)
	}
	fmt.Printf("\nrange: [%.4g, %.4g]\n", lo, hi)
	return nil
}
