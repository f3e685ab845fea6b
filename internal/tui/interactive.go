package tui

import (
	"fmt"
	"io"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/glyphsim/internal/config"
	"github.com/san-kum/glyphsim/internal/experiment"
	"github.com/san-kum/glyphsim/internal/glyphs"
	"github.com/san-kum/glyphsim/internal/metrics"
	"github.com/san-kum/glyphsim/internal/scenes"
	"github.com/san-kum/glyphsim/internal/sim"
)

const historyLen = 120

type state int

const (
	stateMenu state = iota
	stateConfig
	stateSim
)

type styles struct {
	primary, text, muted, accent, success, warning, errorText lipgloss.Style
}

func newStyles(t Theme) styles {
	fg := func(c lipgloss.Color) lipgloss.Style { return lipgloss.NewStyle().Foreground(c) }
	return styles{
		primary:   fg(t.Primary),
		text:      fg(t.Text),
		muted:     fg(t.Muted),
		accent:    fg(t.Accent),
		success:   fg(t.Success),
		warning:   fg(t.Warning),
		errorText: fg(t.Error),
	}
}

// energyHistory records the total kinetic energy of each tick.
type energyHistory struct {
	values []float64
}

func (h *energyHistory) OnTick(f sim.Frame) {
	h.values = append(h.values, metrics.TotalKinetic(f))
	if len(h.values) > historyLen {
		h.values = h.values[len(h.values)-historyLen:]
	}
}

type model struct {
	state    state
	registry *experiment.Registry
	scenes   []scenes.Scene
	cursor   int
	base     *config.Config
	logger   *log.Logger

	cfg         *config.Config
	paramNames  []string
	paramCursor int
	editing     bool
	editBuf     string

	system    *sim.System
	canvas    *Canvas
	history   *energyHistory
	theme     Theme
	styles    styles
	paused    bool
	speed     float64
	lastFrame time.Time
	fps       float64
	err       error

	width  int
	height int
}

// NewInteractiveApp returns the scene browser. base supplies every setting
// a scene does not override. If scene names a registered scene the app
// starts straight into it; a base whose Scene already equals scene is
// taken as fully resolved and used unchanged.
func NewInteractiveApp(base *config.Config, scene string, theme Theme, logger *log.Logger) *model {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	r := experiment.NewRegistry()
	m := &model{
		state:    stateMenu,
		registry: r,
		scenes:   r.ListScenes(),
		base:     base,
		logger:   logger,
		theme:    theme,
		styles:   newStyles(theme),
		speed:    1,
		canvas:   NewCanvas(74, 20),
		width:    80,
		height:   30,
	}
	for i, s := range m.scenes {
		if s.Name != scene {
			continue
		}
		m.cursor = i
		if base.Scene == scene {
			m.setConfig(base.Clone())
		} else {
			m.selectScene()
		}
		m.start()
	}
	return m
}

func (m model) Init() tea.Cmd {
	if m.state == stateSim {
		return m.tick()
	}
	return nil
}

type tickMsg time.Time

func (m model) tick() tea.Cmd {
	rate := 30
	if m.cfg != nil && m.cfg.FrameRate > 0 {
		rate = m.cfg.FrameRate
	}
	return tea.Tick(time.Second/time.Duration(rate), func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.canvas.Resize(m.canvasSize())
		return m, nil
	case tickMsg:
		if m.state != stateSim {
			return m, nil
		}
		if !m.paused && m.system != nil {
			now := time.Time(msg)
			if !m.lastFrame.IsZero() {
				if dt := now.Sub(m.lastFrame).Seconds(); dt > 0 {
					m.fps = 1 / dt
				}
			}
			m.lastFrame = now
			m.advance()
		}
		return m, m.tick()
	}
	return m, nil
}

// stepsPerFrame is how many updates cover one display frame at the
// current speed.
func (m model) stepsPerFrame() int {
	if m.cfg == nil || m.cfg.FrameRate <= 0 || m.cfg.Dt <= 0 {
		return 1
	}
	n := int(math.Round(m.speed / (float64(m.cfg.FrameRate) * m.cfg.Dt)))
	return max(n, 1)
}

func (m *model) advance() {
	for i := 0; i < m.stepsPerFrame(); i++ {
		if err := m.system.Update(m.cfg.Dt); err != nil {
			m.err = err
			m.paused = true
			m.logger.Error("update failed", "scene", m.cfg.Scene, "err", err)
			return
		}
		w, h := m.system.Bounds()
		m.canvas.Fade()
		m.canvas.Stamp(m.system.Particles(), w, h, m.theme)
	}
}

func (m model) handleKey(msg tea.KeyMsg) (model, tea.Cmd) {
	switch m.state {
	case stateMenu:
		return m.menuKey(msg)
	case stateConfig:
		return m.configKey(msg)
	case stateSim:
		return m.simKey(msg)
	}
	return m, nil
}

func (m model) menuKey(msg tea.KeyMsg) (model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.scenes)-1 {
			m.cursor++
		}
	case "enter", " ":
		m.selectScene()
		m.state = stateConfig
	}
	return m, nil
}

func (m model) configKey(msg tea.KeyMsg) (model, tea.Cmd) {
	if m.editing {
		switch msg.String() {
		case "enter":
			if v, err := strconv.ParseFloat(m.editBuf, 64); err == nil {
				m.setParam(v)
			}
			m.editing = false
			m.editBuf = ""
		case "esc":
			m.editing = false
			m.editBuf = ""
		case "backspace":
			if len(m.editBuf) > 0 {
				m.editBuf = m.editBuf[:len(m.editBuf)-1]
			}
		default:
			if s := msg.String(); len(s) == 1 {
				c := s[0]
				if (c >= '0' && c <= '9') || c == '.' || c == '-' {
					m.editBuf += s
				}
			}
		}
		return m, nil
	}

	switch msg.String() {
	case "q", "esc":
		m.state = stateMenu
	case "ctrl+c":
		return m, tea.Quit
	case "up", "k":
		if m.paramCursor > 0 {
			m.paramCursor--
		}
	case "down", "j":
		if m.paramCursor < len(m.paramNames)-1 {
			m.paramCursor++
		}
	case "enter", " ":
		if len(m.paramNames) > 0 {
			m.editing = true
			m.editBuf = strconv.FormatFloat(m.param(), 'f', -1, 64)
		}
	case "left", "h":
		m.nudge(-0.1)
	case "right", "l":
		m.nudge(0.1)
	case "s":
		m.start()
		return m, tea.Batch(tea.ClearScreen, m.tick())
	}
	return m, nil
}

func (m model) simKey(msg tea.KeyMsg) (model, tea.Cmd) {
	switch msg.String() {
	case "q", "esc":
		m.state = stateMenu
		m.stop()
		return m, tea.ClearScreen
	case "ctrl+c":
		return m, tea.Quit
	case " ", "p":
		m.paused = !m.paused
	case "r":
		if m.system != nil {
			m.system.ResetToInitial()
			m.canvas.Clear()
		}
	case "n":
		m.cfg.Seed++
		m.start()
	case "t":
		m.theme = NextTheme(m.theme.Name)
		m.styles = newStyles(m.theme)
	case "c":
		m.state = stateConfig
		m.stop()
		return m, tea.ClearScreen
	case "+", "=":
		m.speed = math.Min(m.speed*2, 16)
	case "-", "_":
		m.speed = math.Max(m.speed/2, 0.25)
	case "0":
		m.speed = 1
	}
	return m, nil
}

// selectScene resolves the configuration for the scene under the cursor.
func (m *model) selectScene() {
	m.setConfig(m.scenes[m.cursor].Configure(m.base))
}

func (m *model) setConfig(cfg *config.Config) {
	m.cfg = cfg
	m.paramNames = m.paramNames[:0]
	for name := range m.cfg.Params {
		m.paramNames = append(m.paramNames, name)
	}
	sort.Strings(m.paramNames)
	m.paramCursor = 0
}

func (m model) param() float64 {
	return m.cfg.Params[m.paramNames[m.paramCursor]]
}

func (m *model) setParam(v float64) {
	m.cfg.Params[m.paramNames[m.paramCursor]] = v
}

// nudge changes the selected parameter by frac of its magnitude, or by
// frac itself when it is zero.
func (m *model) nudge(frac float64) {
	if len(m.paramNames) == 0 {
		return
	}
	v := m.param()
	step := math.Abs(v) * frac
	if step == 0 {
		step = frac
	}
	m.setParam(v + step)
}

func (m *model) start() {
	m.err = nil
	m.paused = false
	m.speed = 1
	m.lastFrame = time.Time{}
	m.canvas.Resize(m.canvasSize())
	m.state = stateSim

	scene, err := m.registry.GetScene(m.cfg.Scene)
	if err != nil {
		m.fail(err)
		return
	}
	exp := experiment.New(m.cfg, scene, m.logger)
	if err := exp.Setup(nil); err != nil {
		m.fail(err)
		return
	}
	m.system = exp.System()
	m.history = &energyHistory{}
	m.system.AddObserver(glyphs.NewUpdater(m.system.Rand()))
	m.system.AddObserver(m.history)
}

func (m *model) fail(err error) {
	m.err = err
	m.paused = true
	m.system = nil
	m.logger.Error("scene failed to start", "scene", m.cfg.Scene, "err", err)
}

func (m *model) stop() {
	m.system = nil
	m.history = nil
	m.canvas.Clear()
}

func (m model) canvasSize() (int, int) {
	return max(m.width-6, 20), max(m.height-12, 8)
}

func (m model) View() string {
	switch m.state {
	case stateMenu:
		return m.viewMenu()
	case stateConfig:
		return m.viewConfig()
	case stateSim:
		return m.viewSim()
	}
	return ""
}

func (m model) viewMenu() string {
	st := m.styles
	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(st.muted.Render("    ╺━━━━━━━━━━━━━━━━━━━━━━━━╸") + "\n")
	b.WriteString("          " + st.primary.Render("g l y p h s i m") + "\n")
	b.WriteString(st.muted.Render("    ╺━━━━━━━━━━━━━━━━━━━━━━━━╸") + "\n")
	b.WriteString("\n")

	for i, s := range m.scenes {
		if i == m.cursor {
			b.WriteString("      " + st.primary.Render("▸ ") + st.text.Render(fmt.Sprintf("%-14s", s.Name)) + st.muted.Render(s.Description) + "\n")
		} else {
			b.WriteString("        " + st.muted.Render(fmt.Sprintf("%-14s", s.Name)) + "\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(st.muted.Render("      ↑↓ select   enter configure   q quit") + "\n")
	return b.String()
}

func (m model) viewConfig() string {
	st := m.styles
	var b strings.Builder

	b.WriteString("\n")
	b.WriteString("      " + st.primary.Render(m.cfg.Scene) + "  " + st.muted.Render(fmt.Sprintf("seed %d", m.cfg.Seed)) + "\n")
	b.WriteString(st.muted.Render("      "+strings.Repeat("─", 34)) + "\n\n")

	if len(m.paramNames) == 0 {
		b.WriteString("        " + st.muted.Render("no parameters") + "\n")
	}
	for i, name := range m.paramNames {
		val := fmt.Sprintf("%10.3f", m.cfg.Params[name])
		if m.editing && i == m.paramCursor {
			val = fmt.Sprintf("%10s", m.editBuf+"▋")
		}
		if i == m.paramCursor {
			b.WriteString("      " + st.primary.Render("▸ ") + st.text.Render(fmt.Sprintf("%-18s", name)) + st.accent.Render(val) + "\n")
		} else {
			b.WriteString("        " + st.muted.Render(fmt.Sprintf("%-18s", name)) + st.muted.Render(val) + "\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(st.muted.Render("      ↑↓ select  ←→ adjust  enter edit  s start  esc back") + "\n")
	return b.String()
}

func (m model) viewSim() string {
	st := m.styles
	var b strings.Builder

	statusIcon, statusText := st.success.Render("●"), st.success.Render("running")
	if m.paused {
		statusIcon, statusText = st.warning.Render("○"), st.warning.Render("paused")
	}
	b.WriteString(fmt.Sprintf("\n   %s %s  %s  %s\n", statusIcon, st.primary.Render(m.cfg.Scene), statusText,
		st.muted.Render(fmt.Sprintf("seed %d  theme %s  %.2gx", m.cfg.Seed, m.theme.Name, m.speed))))

	if m.system != nil {
		stats := m.system.Stats()
		b.WriteString(fmt.Sprintf("   %s  %s  %s  %s\n\n",
			st.muted.Render(fmt.Sprintf("t=%.1fs", m.system.Time())),
			st.text.Render(fmt.Sprintf("%d live", stats.Live)),
			st.muted.Render(fmt.Sprintf("%d pairs  %d collisions", stats.Pairs, stats.Collisions)),
			st.muted.Render(fmt.Sprintf("%.0ffps", m.fps))))
	} else {
		b.WriteString("\n")
	}

	for _, line := range m.canvas.Lines() {
		b.WriteString("   " + line + "\n")
	}

	if m.err != nil {
		b.WriteString("\n   " + st.errorText.Render(m.err.Error()) + "\n")
	}

	if m.history != nil && len(m.history.values) > 1 {
		graph := asciigraph.Plot(m.history.values,
			asciigraph.Height(3),
			asciigraph.Width(min(m.canvas.Width-10, historyLen)),
			asciigraph.Caption("kinetic energy"))
		for _, line := range strings.Split(graph, "\n") {
			b.WriteString("   " + st.primary.Render(line) + "\n")
		}
	}

	b.WriteString("\n" + st.muted.Render("   space pause  ±speed  r reset  n reseed  t theme  c config  q menu") + "\n")
	return b.String()
}

// RunInteractive opens the scene browser in the alternate screen.
func RunInteractive(base *config.Config, scene string, theme Theme, logger *log.Logger) error {
	p := tea.NewProgram(NewInteractiveApp(base, scene, theme, logger), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
