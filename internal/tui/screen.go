package tui

import (
	"context"
	"fmt"
	"sync"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"

	"github.com/san-kum/glyphsim/internal/sim"
)

// ScreenRenderer is a sim.Observer that draws onto a full-screen tcell
// surface. The canvas follows the terminal size; two rows are kept for the
// status line.
type ScreenRenderer struct {
	mu     sync.Mutex
	screen tcell.Screen
	scene  string
	theme  Theme
	canvas *Canvas
}

// NewScreenRenderer takes ownership of an initialised screen. Pass a
// tcell.NewSimulationScreen in tests.
func NewScreenRenderer(screen tcell.Screen, scene string, theme Theme) *ScreenRenderer {
	w, h := screen.Size()
	return &ScreenRenderer{
		screen: screen,
		scene:  scene,
		theme:  theme,
		canvas: NewCanvas(w, max(h-2, 1)),
	}
}

// OpenScreen creates and initialises the terminal screen.
func OpenScreen() (tcell.Screen, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, err
	}
	if err := screen.Init(); err != nil {
		return nil, err
	}
	screen.HideCursor()
	return screen, nil
}

func (r *ScreenRenderer) OnTick(f sim.Frame) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.canvas.Fade()
	r.canvas.Stamp(f.Particles, f.Width, f.Height, r.theme)
	r.draw(f)
}

func (r *ScreenRenderer) draw(f sim.Frame) {
	s := r.screen
	s.Clear()

	base := tcell.StyleDefault.Background(tcellColor(ToRGB(r.theme.Background)))
	r.canvas.Each(func(col, row int, glyph rune, c RGB, opacity float64) {
		if runewidth.RuneWidth(glyph) == 2 && col == r.canvas.Width-1 {
			return
		}
		c = c.Scale(opacity)
		s.SetContent(col, row, glyph, nil, base.Foreground(tcellColor(c)))
	})

	status := fmt.Sprintf(" %s  t=%.2fs  live=%d  collisions=%d  [q] quit", r.scene, f.Time, f.Stats.Live, f.Stats.Collisions)
	muted := base.Foreground(tcellColor(ToRGB(r.theme.Muted)))
	row := r.canvas.Height + 1
	col := 0
	for _, ch := range status {
		s.SetContent(col, row, ch, nil, muted)
		col += runewidth.RuneWidth(ch)
	}
	s.Show()
}

// Resize fits the canvas to a new terminal size, dropping the trails.
func (r *ScreenRenderer) Resize(w, h int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.canvas.Resize(w, max(h-2, 1))
	r.screen.Sync()
}

// Watch polls terminal events until ctx is done or the user asks to quit,
// in which case cancel is called. Resize events refit the canvas. The
// polling goroutine exits once the screen is closed.
func (r *ScreenRenderer) Watch(ctx context.Context, cancel context.CancelFunc) {
	events := make(chan tcell.Event, 16)
	go func() {
		defer close(events)
		for {
			ev := r.screen.PollEvent()
			if ev == nil {
				return
			}
			select {
			case events <- ev:
			case <-ctx.Done():
				return
			}
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-events:
			if !ok {
				return
			}
			switch ev := ev.(type) {
			case *tcell.EventResize:
				r.Resize(ev.Size())
			case *tcell.EventKey:
				if quitKey(ev) {
					cancel()
					return
				}
			}
		}
	}
}

func quitKey(ev *tcell.EventKey) bool {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return true
	case tcell.KeyRune:
		return ev.Rune() == 'q'
	}
	return false
}

// Close restores the terminal.
func (r *ScreenRenderer) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.screen.Fini()
}

func tcellColor(c RGB) tcell.Color {
	return tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B))
}
