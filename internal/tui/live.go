package tui

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/san-kum/glyphsim/internal/sim"
)

const (
	clearScreen = "\033[2J\033[H"
	hideCursor  = "\033[?25l"
	showCursor  = "\033[?25h"
)

// LiveRenderer is a sim.Observer that repaints the terminal at most
// frameRate times per second of wall time. It is used by headless runs
// that want to watch progress without the interactive view.
type LiveRenderer struct {
	out       io.Writer
	scene     string
	frameRate int
	theme     Theme
	canvas    *Canvas
	lastFrame time.Time
	now       func() time.Time
}

func NewLiveRenderer(out io.Writer, scene string, frameRate, width, height int, theme Theme) *LiveRenderer {
	if frameRate <= 0 {
		frameRate = 30
	}
	return &LiveRenderer{
		out:       out,
		scene:     scene,
		frameRate: frameRate,
		theme:     theme,
		canvas:    NewCanvas(width, height),
		now:       time.Now,
	}
}

// OnTick fades and stamps every tick so trails match the simulation rate,
// but only writes when a frame is due.
func (r *LiveRenderer) OnTick(f sim.Frame) {
	r.canvas.Fade()
	r.canvas.Stamp(f.Particles, f.Width, f.Height, r.theme)

	now := r.now()
	if now.Sub(r.lastFrame) < time.Second/time.Duration(r.frameRate) {
		return
	}
	r.lastFrame = now
	r.render(f)
}

func (r *LiveRenderer) render(f sim.Frame) {
	var b strings.Builder
	b.WriteString(clearScreen)
	b.WriteString(fmt.Sprintf("  %s  t=%.2fs  live=%d\n", r.scene, f.Time, f.Stats.Live))
	b.WriteString("  " + strings.Repeat("-", r.canvas.Width) + "\n")
	for _, line := range r.canvas.Lines() {
		b.WriteString("  ")
		b.WriteString(line)
		b.WriteString("\n")
	}
	b.WriteString("  " + strings.Repeat("-", r.canvas.Width) + "\n")
	fmt.Fprint(r.out, b.String())
}

func (r *LiveRenderer) Start() { fmt.Fprint(r.out, hideCursor) }
func (r *LiveRenderer) Stop()  { fmt.Fprint(r.out, showCursor) }
