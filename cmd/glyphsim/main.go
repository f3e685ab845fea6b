package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/san-kum/glyphsim/internal/config"
	"github.com/san-kum/glyphsim/internal/experiment"
	"github.com/san-kum/glyphsim/internal/export"
	"github.com/san-kum/glyphsim/internal/glyphs"
	"github.com/san-kum/glyphsim/internal/gui"
	"github.com/san-kum/glyphsim/internal/storage"
	"github.com/san-kum/glyphsim/internal/tui"
)

var (
	dataDir    string
	configFile string
	logLevel   string
	logFormat  string

	preset   string
	seed     int64
	dt       float64
	duration float64
	width    float64
	height   float64
	params   []string
	options  []string
	isolate  bool

	watch     string
	jsonOut   bool
	themeName string

	logger *log.Logger
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "glyphsim",
		Short:         "glyph particle simulation engine",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			logger, err = newLogger(logLevel, logFormat)
			return err
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			base := config.DefaultConfig()
			if configFile != "" {
				var err error
				if base, err = config.Load(configFile); err != nil {
					return fmt.Errorf("failed to load config: %w", err)
				}
			}
			return tui.RunInteractive(base, "", tui.GetTheme(themeName), logger)
		},
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&dataDir, "data", ".glyphsim", "data directory")
	pf.StringVar(&configFile, "config", "", "config file path (yaml, or gcfg/ini)")
	pf.StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	pf.StringVar(&logFormat, "log-format", "text", "log format (text, json, logfmt)")
	pf.StringVar(&themeName, "theme", "phase", "colour theme ("+strings.Join(tui.ThemeNames(), ", ")+")")

	runCmd := &cobra.Command{
		Use:   "run [scene]",
		Short: "run a scene headless and store the series",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runScene,
	}
	addSceneFlags(runCmd)
	runCmd.Flags().StringVar(&watch, "watch", "", "watch the run in the terminal (screen or ansi)")
	runCmd.Flags().Lookup("watch").NoOptDefVal = "screen"
	runCmd.Flags().BoolVar(&jsonOut, "json", false, "print the result as json")

	liveCmd := &cobra.Command{
		Use:   "live [scene]",
		Short: "run a scene in the interactive terminal view",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := buildConfig(cmd, args)
			if err != nil {
				return err
			}
			return tui.RunInteractive(cfg, cfg.Scene, tui.GetTheme(themeName), logger)
		},
	}
	addSceneFlags(liveCmd)

	guiCmd := &cobra.Command{
		Use:   "gui [scene]",
		Short: "run a scene in a window",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 && configFile == "" {
				return gui.Run(config.DefaultConfig(), "", tui.GetTheme(themeName), logger)
			}
			cfg, err := buildConfig(cmd, args)
			if err != nil {
				return err
			}
			return gui.Run(cfg, cfg.Scene, tui.GetTheme(themeName), logger)
		},
	}
	addSceneFlags(guiCmd)

	scenesCmd := &cobra.Command{
		Use:   "scenes",
		Short: "list scenes",
		RunE:  listScenes,
	}

	presetsCmd := &cobra.Command{
		Use:   "presets [scene]",
		Short: "list presets",
		Args:  cobra.MaximumNArgs(1),
		RunE:  listPresets,
	}

	glyphsCmd := &cobra.Command{
		Use:   "glyphs",
		Short: "list glyph sets",
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, name := range glyphs.Names() {
				set, err := glyphs.Set(name)
				if err != nil {
					return err
				}
				sample := set
				if len(sample) > 24 {
					sample = sample[:24]
				}
				fmt.Printf("%-10s %4d  %s\n", name, len(set), string(sample))
			}
			return nil
		},
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot run series",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().StringVar(&svgOut, "svg", "", "also write each series as svg into this directory")

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "print run metadata",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun,
	}

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export run series to csv",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}
	exportCSVCmd.Flags().StringVarP(&outPath, "output", "o", "", "output file (default <run_id>.csv)")

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export run series to json",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}
	exportJSONCmd.Flags().StringVarP(&outPath, "output", "o", "", "output file (default <run_id>.json)")

	exportSVGCmd := &cobra.Command{
		Use:   "export-svg [scene]",
		Short: "run a scene and write its final frame as svg",
		Args:  cobra.MaximumNArgs(1),
		RunE:  exportSVG,
	}
	addSceneFlags(exportSVGCmd)
	exportSVGCmd.Flags().StringVarP(&outPath, "output", "o", "", "output file (default <scene>.svg)")
	exportSVGCmd.Flags().BoolVar(&withParticles, "particles", false, "also write the final particle states as json")

	exportWAVCmd := &cobra.Command{
		Use:   "export-wav [run_id]",
		Short: "render a run's energy as audio",
		Args:  cobra.ExactArgs(1),
		RunE:  exportWAV,
	}
	exportWAVCmd.Flags().StringVarP(&outPath, "output", "o", "", "output file (default <run_id>.wav)")
	exportWAVCmd.Flags().DurationVar(&audioLength, "length", 0, "audio length (default the run duration)")

	analyzeCmd := &cobra.Command{
		Use:   "analyze [run_id]",
		Short: "period and crossing analysis of a series",
		Args:  cobra.ExactArgs(1),
		RunE:  analyzeRun,
	}
	analyzeCmd.Flags().StringVar(&seriesName, "series", "kinetic_energy", "series to analyze")
	analyzeCmd.Flags().StringVar(&vsName, "vs", "", "second series for a phase portrait")

	benchCmd := &cobra.Command{
		Use:   "bench [scene]",
		Short: "benchmark a scene",
		Args:  cobra.MaximumNArgs(1),
		RunE:  benchScene,
	}
	addSceneFlags(benchCmd)

	ensembleCmd := &cobra.Command{
		Use:   "ensemble [scene]",
		Short: "run a scene over consecutive seeds",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runEnsemble,
	}
	addSceneFlags(ensembleCmd)
	ensembleCmd.Flags().IntVar(&numRuns, "runs", 8, "number of runs")

	sweepCmd := &cobra.Command{
		Use:   "sweep [scene]",
		Short: "grid search scene parameters",
		Args:  cobra.MaximumNArgs(1),
		RunE:  sweepScene,
	}
	addSceneFlags(sweepCmd)
	sweepCmd.Flags().StringArrayVar(&grids, "grid", nil, "parameter grid name=v1,v2 or name=start:stop:count (repeatable)")
	sweepCmd.Flags().StringVar(&metricName, "metric", "kinetic_energy", "metric to optimize")
	sweepCmd.Flags().BoolVar(&maximize, "maximize", false, "maximize instead of minimize")

	configCmd := &cobra.Command{
		Use:   "config",
		Short: "configuration files",
	}
	configInitCmd := &cobra.Command{
		Use:   "init [path]",
		Short: "write a configuration file with the resolved settings",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "glyphsim.yaml"
			if len(args) > 0 {
				path = args[0]
			}
			cfg, err := buildConfig(cmd, nil)
			if err != nil {
				return err
			}
			if err := config.Save(path, cfg); err != nil {
				return err
			}
			fmt.Printf("wrote %s\n", path)
			return nil
		},
	}
	addSceneFlags(configInitCmd)
	configCmd.AddCommand(configInitCmd)

	rootCmd.AddCommand(runCmd, liveCmd, guiCmd, scenesCmd, presetsCmd, glyphsCmd,
		listCmd, plotCmd, exportCmd, exportCSVCmd, exportJSONCmd, exportSVGCmd, exportWAVCmd,
		analyzeCmd, benchCmd, ensembleCmd, sweepCmd, configCmd)

	if err := rootCmd.Execute(); err != nil {
		if logger == nil {
			logger = log.Default()
		}
		logger.Error(err.Error())
		os.Exit(1)
	}
}

func addSceneFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringVar(&preset, "preset", "", "use preset configuration")
	f.Int64Var(&seed, "seed", 0, "random seed (default from config, else the clock)")
	f.Float64Var(&dt, "dt", config.DefaultDt, "timestep in seconds")
	f.Float64Var(&duration, "time", config.DefaultDuration, "duration in seconds")
	f.Float64Var(&width, "width", config.DefaultWidth, "world width")
	f.Float64Var(&height, "height", config.DefaultHeight, "world height")
	f.StringArrayVar(&params, "param", nil, "scene parameter name=value (repeatable)")
	f.StringArrayVar(&options, "option", nil, "scene option name=value (repeatable)")
	f.BoolVar(&isolate, "isolate", false, "log and skip failing behaviors instead of stopping")
}

func newLogger(level, format string) (*log.Logger, error) {
	lvl, err := log.ParseLevel(level)
	if err != nil {
		return nil, err
	}
	l := log.NewWithOptions(os.Stderr, log.Options{
		Level:           lvl,
		ReportTimestamp: true,
		Prefix:          "glyphsim",
	})
	switch format {
	case "", "text":
	case "json":
		l.SetFormatter(log.JSONFormatter)
	case "logfmt":
		l.SetFormatter(log.LogfmtFormatter)
	default:
		return nil, fmt.Errorf("unknown log format: %s", format)
	}
	return l, nil
}

// buildConfig resolves a run configuration. Later sources win: defaults,
// the scene's defaults, the preset, the config file, then flags that were
// set explicitly. The scene comes from args, else the config file.
func buildConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	scene := config.DefaultConfig().Scene
	if configFile != "" {
		fileCfg, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		scene = fileCfg.Scene
	}
	if len(args) > 0 {
		scene = args[0]
	}

	registry := experiment.NewRegistry()
	cfg, err := registry.Configure(config.DefaultConfig(), scene, preset)
	if err != nil {
		var pe *experiment.PresetError
		if errors.As(err, &pe) {
			return nil, fmt.Errorf("%w (available: %v)", pe, config.ListPresets(scene))
		}
		return nil, err
	}
	if configFile != "" {
		if cfg, err = config.LoadOnto(configFile, cfg); err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg.Scene = scene
	}

	flags := cmd.Flags()
	if flags.Changed("seed") {
		cfg.Seed = seed
	}
	if flags.Changed("dt") {
		cfg.Dt = dt
	}
	if flags.Changed("time") {
		cfg.Duration = duration
	}
	if flags.Changed("width") {
		cfg.Width = width
	}
	if flags.Changed("height") {
		cfg.Height = height
	}
	if flags.Changed("isolate") {
		cfg.IsolateFailures = isolate
	}
	for _, kv := range params {
		name, raw, err := splitKV(kv)
		if err != nil {
			return nil, err
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, fmt.Errorf("param %s: %w", name, err)
		}
		cfg.Params[name] = v
	}
	for _, kv := range options {
		name, v, err := splitKV(kv)
		if err != nil {
			return nil, err
		}
		cfg.Options[name] = v
	}
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}
	return cfg, cfg.Validate()
}

func splitKV(kv string) (string, string, error) {
	name, v, ok := strings.Cut(kv, "=")
	name = strings.TrimSpace(name)
	if !ok || name == "" {
		return "", "", fmt.Errorf("expected name=value, got %q", kv)
	}
	return name, strings.TrimSpace(v), nil
}

func runScene(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd, args)
	if err != nil {
		return err
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	registry := experiment.NewRegistry()
	scene, err := registry.GetScene(cfg.Scene)
	if err != nil {
		return err
	}
	exp := experiment.New(cfg, scene, logger)
	if err := exp.Setup(registry.DefaultMetrics(cfg.Scene)); err != nil {
		return err
	}
	system := exp.System()
	system.AddObserver(glyphs.NewUpdater(system.Rand()))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	theme := tui.GetTheme(themeName)
	switch watch {
	case "":
	case "screen":
		screen, err := tui.OpenScreen()
		if err != nil {
			return err
		}
		r := tui.NewScreenRenderer(screen, cfg.Scene, theme)
		defer r.Close()
		system.AddObserver(r)
		go r.Watch(ctx, cancel)
	case "ansi":
		r := tui.NewLiveRenderer(os.Stdout, cfg.Scene, cfg.FrameRate, 80, 24, theme)
		r.Start()
		defer r.Stop()
		system.AddObserver(r)
	default:
		return fmt.Errorf("unknown watch mode: %s", watch)
	}

	logger.Info("running", "scene", cfg.Scene, "seed", cfg.Seed, "ticks", cfg.Ticks())
	start := time.Now()
	result, err := exp.Run(ctx)
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	runID, err := st.Save(cfg, result)
	if err != nil {
		return err
	}
	logger.Info("completed", "run", runID, "elapsed", elapsed, "ticks", result.Ticks)

	if jsonOut {
		return export.WriteJSON(os.Stdout, cfg, result)
	}
	fmt.Printf("run id: %s\n", runID)
	fmt.Printf("ticks: %d  live: %d  elapsed: %v\n", result.Ticks, result.Final.Live, elapsed.Round(time.Millisecond))
	fmt.Println("\nmetrics:")
	for _, name := range sortedKeys(result.Metrics) {
		fmt.Printf("  %s: %.6f\n", name, result.Metrics[name])
	}
	return nil
}
