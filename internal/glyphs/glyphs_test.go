package glyphs

import (
	"math/rand"
	"slices"
	"testing"

	"github.com/san-kum/glyphsim/internal/particle"
)

func TestSetsStripWhitespace(t *testing.T) {
	tests := []struct {
		name string
		size int
	}{
		{"binary", 2},
		{"digits", 10},
		{"latin", 26},
		{"dna", 4},
		{"aramaic", 22},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rs, err := Set(tt.name)
			if err != nil {
				t.Fatalf("Set(%q): %v", tt.name, err)
			}
			if len(rs) != tt.size {
				t.Errorf("len = %d, want %d", len(rs), tt.size)
			}
			if slices.Contains(rs, ' ') {
				t.Error("set contains a space")
			}
		})
	}
}

func TestAllIsUnion(t *testing.T) {
	all, _ := Set(All)
	total := 0
	for _, name := range Names() {
		if name == All {
			continue
		}
		rs, _ := Set(name)
		total += len(rs)
	}
	if len(all) != total {
		t.Errorf("all has %d runes, want %d", len(all), total)
	}
}

func TestUnknownSet(t *testing.T) {
	if _, err := Set("klingon"); err != ErrUnknownSet {
		t.Errorf("expected ErrUnknownSet, got %v", err)
	}
	if Valid("klingon") {
		t.Error("klingon should not be valid")
	}
	if !Valid("") {
		t.Error("empty name means default and is valid")
	}

	rng := rand.New(rand.NewSource(1))
	kata, _ := Set(DefaultSet)
	if g := Random("klingon", rng); !slices.Contains(kata, g) {
		t.Errorf("fallback glyph %q not in %s", g, DefaultSet)
	}
}

func TestUpdaterSeedsAndRespectsRate(t *testing.T) {
	u := NewUpdater(rand.New(rand.NewSource(1)))
	p := particle.MustNew(particle.Options{Visual: particle.Visual{GlyphSet: "binary", GlyphRate: 2}})

	if !u.Update(p, 10) {
		t.Fatal("expected a glyph to be seeded")
	}
	if p.Visual.Glyph != '0' && p.Visual.Glyph != '1' {
		t.Errorf("glyph %q not binary", p.Visual.Glyph)
	}
	if p.Visual.LastUpdate != 10 {
		t.Errorf("last update = %v, want 10", p.Visual.LastUpdate)
	}

	if u.Update(p, 10.4) {
		t.Error("changed before 1/rate elapsed")
	}
	if !u.Update(p, 10.5) {
		t.Error("expected change once 1/rate elapsed")
	}
	if p.Visual.LastUpdate != 10.5 {
		t.Errorf("last update = %v, want 10.5", p.Visual.LastUpdate)
	}
}

func TestUpdaterLocked(t *testing.T) {
	u := NewUpdater(rand.New(rand.NewSource(1)))
	p := particle.MustNew(particle.Options{Visual: particle.Visual{Glyph: '■', LockGlyph: true, GlyphRate: 100}})
	if u.Update(p, 100) || p.Visual.Glyph != '■' {
		t.Error("locked glyph changed")
	}
}

func TestUpdaterZeroRateKeepsGlyph(t *testing.T) {
	u := NewUpdater(rand.New(rand.NewSource(1)))
	p := particle.MustNew(particle.Options{Visual: particle.Visual{Glyph: 'A'}})
	if u.Update(p, 1e6) {
		t.Error("zero rate should never change the glyph")
	}
}

func TestUpdateAllCounts(t *testing.T) {
	u := NewUpdater(rand.New(rand.NewSource(1)))
	ps := []*particle.Particle{
		particle.MustNew(particle.Options{}),
		particle.MustNew(particle.Options{Visual: particle.Visual{Glyph: 'x', LockGlyph: true}}),
		particle.MustNew(particle.Options{}),
	}
	if n := u.UpdateAll(ps, 0); n != 2 {
		t.Errorf("changed %d, want 2", n)
	}
}
