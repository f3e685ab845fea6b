package gui

import (
	"fmt"
	"math"
	"slices"

	"github.com/charmbracelet/log"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/san-kum/glyphsim/internal/config"
	"github.com/san-kum/glyphsim/internal/experiment"
	"github.com/san-kum/glyphsim/internal/glyphs"
	"github.com/san-kum/glyphsim/internal/metrics"
	"github.com/san-kum/glyphsim/internal/sim"
	"github.com/san-kum/glyphsim/internal/tui"
)

const (
	ticksPerSecond = 60
	maxTelemetry   = 200
)

// App is an ebiten.Game over one scene at a time. It opens on the scene
// menu unless a scene was named. As in the terminal browser, a base whose
// Scene equals the named scene is used unchanged.
type App struct {
	registry *experiment.Registry
	base     *config.Config
	logger   *log.Logger
	theme    tui.Theme

	scenes   []string
	selected int
	inMenu   bool

	cfg       *config.Config
	system    *sim.System
	running   bool
	speed     float64
	telemetry []float64
	err       error

	trails *ebiten.Image
}

func NewApp(base *config.Config, scene string, theme tui.Theme, logger *log.Logger) *App {
	registry := experiment.NewRegistry()
	var names []string
	for _, s := range registry.ListScenes() {
		names = append(names, s.Name)
	}
	slices.Sort(names)

	a := &App{
		registry: registry,
		base:     base,
		logger:   logger,
		theme:    theme,
		scenes:   names,
		inMenu:   scene == "",
		speed:    1,
	}
	if scene != "" {
		if i := slices.Index(names, scene); i >= 0 {
			a.selected = i
		}
		if base.Scene == scene {
			a.cfg = base.Clone()
			a.start()
		} else {
			a.load(scene)
		}
	}
	return a
}

// Run opens the window and blocks until it is closed or q is pressed.
func Run(base *config.Config, scene string, theme tui.Theme, logger *log.Logger) error {
	ebiten.SetWindowSize(int(base.Width), int(base.Height))
	ebiten.SetWindowTitle("glyphsim")
	ebiten.SetTPS(ticksPerSecond)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)

	err := ebiten.RunGame(NewApp(base, scene, theme, logger))
	if err == ebiten.Termination {
		return nil
	}
	return err
}

func (a *App) load(scene string) {
	a.err = nil
	a.telemetry = a.telemetry[:0]
	a.trails = nil

	cfg, err := a.registry.Configure(a.base, scene, "")
	if err != nil {
		a.cfg = a.base.Clone()
		a.fail(err)
		return
	}
	a.cfg = cfg
	a.start()
}

func (a *App) start() {
	scene, err := a.registry.GetScene(a.cfg.Scene)
	if err != nil {
		a.fail(err)
		return
	}
	exp := experiment.New(a.cfg, scene, a.logger)
	if err := exp.Setup(nil); err != nil {
		a.fail(err)
		return
	}
	a.system = exp.System()
	a.system.AddObserver(glyphs.NewUpdater(a.system.Rand()))
	a.running = true
	a.logger.Info("scene started", "scene", a.cfg.Scene, "seed", a.cfg.Seed)
}

func (a *App) fail(err error) {
	a.err = err
	a.system = nil
	a.running = false
	a.logger.Error("scene failed to start", "scene", a.cfg.Scene, "err", err)
}

func (a *App) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyQ) {
		return ebiten.Termination
	}

	if a.inMenu {
		a.updateMenu()
		return nil
	}

	switch {
	case inpututil.IsKeyJustPressed(ebiten.KeyEscape):
		a.inMenu = true
		a.system = nil
		return nil
	case inpututil.IsKeyJustPressed(ebiten.KeySpace):
		a.running = !a.running
	case inpututil.IsKeyJustPressed(ebiten.KeyR):
		if a.system != nil {
			a.system.ResetToInitial()
			a.clearTrails()
		}
	case inpututil.IsKeyJustPressed(ebiten.KeyN):
		a.cfg.Seed++
		a.clearTrails()
		a.start()
	case inpututil.IsKeyJustPressed(ebiten.KeyT):
		a.theme = tui.NextTheme(a.theme.Name)
		a.clearTrails()
	case inpututil.IsKeyJustPressed(ebiten.KeyEqual), inpututil.IsKeyJustPressed(ebiten.KeyKPAdd):
		a.speed = math.Min(a.speed*2, 16)
	case inpututil.IsKeyJustPressed(ebiten.KeyMinus), inpututil.IsKeyJustPressed(ebiten.KeyKPSubtract):
		a.speed = math.Max(a.speed/2, 0.125)
	case inpututil.IsKeyJustPressed(ebiten.Key0):
		a.speed = 1
	}

	if !a.running || a.system == nil {
		return nil
	}
	for i := 0; i < stepsPerTick(a.cfg.Dt, a.speed, ticksPerSecond); i++ {
		if err := a.system.Update(a.cfg.Dt); err != nil {
			a.logger.Error("update failed", "scene", a.cfg.Scene, "tick", a.system.Tick(), "err", err)
			a.err = err
			a.running = false
			return nil
		}
	}
	a.telemetry = appendTelemetry(a.telemetry, metrics.TotalKinetic(a.system.Frame()))
	return nil
}

func (a *App) updateMenu() {
	if len(a.scenes) == 0 {
		return
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyDown) || inpututil.IsKeyJustPressed(ebiten.KeyJ) {
		a.selected = (a.selected + 1) % len(a.scenes)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyUp) || inpututil.IsKeyJustPressed(ebiten.KeyK) {
		a.selected = (a.selected - 1 + len(a.scenes)) % len(a.scenes)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEnter) || inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		a.inMenu = false
		a.load(a.scenes[a.selected])
	}
}

// Layout renders at world resolution; ebiten scales it to the window.
func (a *App) Layout(outsideWidth, outsideHeight int) (int, int) {
	if a.cfg == nil {
		return int(a.base.Width), int(a.base.Height)
	}
	return int(a.cfg.Width), int(a.cfg.Height)
}

func (a *App) status() string {
	if a.err != nil {
		return fmt.Sprintf("error: %v", a.err)
	}
	state := "RUNNING"
	if !a.running {
		state = "PAUSED"
	}
	return state
}

// stepsPerTick is the number of dt steps that cover one display tick at
// the given speed, at least one.
func stepsPerTick(dt, speed float64, tps int) int {
	if dt <= 0 || tps <= 0 {
		return 1
	}
	return max(1, int(math.Round(speed/(float64(tps)*dt))))
}

func appendTelemetry(t []float64, v float64) []float64 {
	t = append(t, v)
	if len(t) > maxTelemetry {
		t = t[len(t)-maxTelemetry:]
	}
	return t
}
