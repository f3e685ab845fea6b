package glyphs

import (
	"math/rand"

	"github.com/san-kum/glyphsim/internal/particle"
	"github.com/san-kum/glyphsim/internal/sim"
)

// Updater changes particle glyphs over time. A particle without a glyph is
// seeded immediately; afterwards its glyph changes at most Visual.GlyphRate
// times per second. Locked glyphs are never touched.
type Updater struct {
	rng *rand.Rand
}

func NewUpdater(rng *rand.Rand) *Updater {
	return &Updater{rng: rng}
}

// Update refreshes p's glyph for the clock value now, in seconds. It
// reports whether the glyph changed.
func (u *Updater) Update(p *particle.Particle, now float64) bool {
	v := &p.Visual
	if v.LockGlyph {
		return false
	}
	if v.Glyph == 0 {
		v.Glyph = Random(v.GlyphSet, u.rng)
		v.LastUpdate = now
		return true
	}
	if v.GlyphRate <= 0 {
		return false
	}
	if now-v.LastUpdate >= 1/v.GlyphRate {
		v.Glyph = Random(v.GlyphSet, u.rng)
		v.LastUpdate = now
		return true
	}
	return false
}

// UpdateAll runs Update over ps and returns how many glyphs changed.
func (u *Updater) UpdateAll(ps []*particle.Particle, now float64) int {
	n := 0
	for _, p := range ps {
		if u.Update(p, now) {
			n++
		}
	}
	return n
}

// OnTick updates glyphs against simulation time, so an Updater can be
// attached to a System as an observer.
func (u *Updater) OnTick(f sim.Frame) {
	u.UpdateAll(f.Particles, f.Time)
}
