package gui

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/san-kum/glyphsim/internal/config"
	"github.com/san-kum/glyphsim/internal/particle"
	"github.com/san-kum/glyphsim/internal/tui"
)

// dotScale shrinks a particle's visual size to the drawn dot radius.
const dotScale = 0.25

func (a *App) Draw(screen *ebiten.Image) {
	screen.Fill(rgba(tui.ToRGB(a.theme.Background), 1))

	if a.inMenu {
		a.drawMenu(screen)
		return
	}
	a.drawSim(screen)
	a.drawHUD(screen)
}

// drawSim paints particles onto a persistent layer that is dimmed each
// frame by a translucent background rect, leaving fading trails.
func (a *App) drawSim(screen *ebiten.Image) {
	w, h := screen.Bounds().Dx(), screen.Bounds().Dy()
	if a.trails == nil || a.trails.Bounds().Dx() != w || a.trails.Bounds().Dy() != h {
		a.trails = ebiten.NewImage(w, h)
	}

	if a.system != nil {
		vector.DrawFilledRect(a.trails, 0, 0, float32(w), float32(h), rgba(tui.ToRGB(a.theme.Background), trailFade(a.cfg)), false)
		for _, p := range a.system.Particles() {
			if p.Removed() {
				continue
			}
			vector.DrawFilledCircle(a.trails, float32(p.X), float32(p.Y), dotRadius(p), particleColor(a.theme, p), true)
		}
	}
	screen.DrawImage(a.trails, nil)
}

func (a *App) clearTrails() {
	if a.trails != nil {
		a.trails.Clear()
	}
}

func (a *App) drawHUD(screen *ebiten.Image) {
	name := ""
	if a.cfg != nil {
		name = a.cfg.Scene
	}
	ebitenutil.DebugPrintAt(screen, fmt.Sprintf("glyphsim :: %s  [%s]  x%.3g", name, a.status(), a.speed), 12, 10)
	if a.system != nil {
		st := a.system.Stats()
		ebitenutil.DebugPrintAt(screen, fmt.Sprintf("t=%.2fs  live=%d  collisions=%d  seed=%d", st.Time, st.Live, st.Collisions, a.cfg.Seed), 12, 26)
	}
	h := screen.Bounds().Dy()
	a.drawTelemetry(screen, 12, float32(h-80), 300, 50)
	ebitenutil.DebugPrintAt(screen, fmt.Sprintf("%.0f FPS  [SPACE] PAUSE  [R] RESET  [N] RESEED  [T] THEME  [+/-] SPEED  [ESC] MENU  [Q] QUIT", ebiten.ActualFPS()), 12, h-20)
}

func (a *App) drawTelemetry(screen *ebiten.Image, x, y, w, h float32) {
	if len(a.telemetry) < 2 {
		return
	}
	lo, hi := a.telemetry[0], a.telemetry[0]
	for _, v := range a.telemetry {
		lo, hi = min(lo, v), max(hi, v)
	}
	if hi == lo {
		hi = lo + 1
	}
	col := rgba(tui.ToRGB(a.theme.Accent), 1)
	n := float32(len(a.telemetry))
	for i := 1; i < len(a.telemetry); i++ {
		x0 := x + float32(i-1)/n*w
		x1 := x + float32(i)/n*w
		y0 := y + h - float32((a.telemetry[i-1]-lo)/(hi-lo))*h
		y1 := y + h - float32((a.telemetry[i]-lo)/(hi-lo))*h
		vector.StrokeLine(screen, x0, y0, x1, y1, 1, col, true)
	}
	ebitenutil.DebugPrintAt(screen, fmt.Sprintf("KE %.2e", a.telemetry[len(a.telemetry)-1]), int(x+w)+8, int(y+h)-12)
}

func (a *App) drawMenu(screen *ebiten.Image) {
	ebitenutil.DebugPrintAt(screen, "glyphsim", 40, 40)
	ebitenutil.DebugPrintAt(screen, "select scene", 40, 60)
	y := 100
	for i, name := range a.scenes {
		prefix := "  "
		if i == a.selected {
			prefix = "> "
		}
		ebitenutil.DebugPrintAt(screen, prefix+name, 40, y)
		y += 20
	}
	if a.err != nil {
		ebitenutil.DebugPrintAt(screen, "error: "+a.err.Error(), 40, y+20)
	}
	ebitenutil.DebugPrintAt(screen, "ARROWS: NAVIGATE  ENTER: SELECT  Q: QUIT", 40, screen.Bounds().Dy()-30)
}

func rgba(c tui.RGB, alpha float64) color.RGBA {
	// color.RGBA is alpha-premultiplied.
	a := clampUnit(alpha)
	return color.RGBA{
		R: uint8(float64(c.R) * a),
		G: uint8(float64(c.G) * a),
		B: uint8(float64(c.B) * a),
		A: uint8(255 * a),
	}
}

func particleColor(theme tui.Theme, p *particle.Particle) color.RGBA {
	return rgba(theme.ParticleColor(p.Visual.Color, p.Phase), 1)
}

// trailFade is the opacity of the dimming rect drawn each frame.
func trailFade(cfg *config.Config) float64 {
	if cfg == nil || cfg.Glyphs.Fade <= 0 {
		return config.DefaultFade
	}
	return clampUnit(cfg.Glyphs.Fade)
}

func dotRadius(p *particle.Particle) float32 {
	return float32(max(p.Size*dotScale, 1))
}

func clampUnit(v float64) float64 {
	return max(0, min(v, 1))
}
