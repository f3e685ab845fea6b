package sim

import (
	"math/rand"
	"testing"

	"github.com/san-kum/glyphsim/internal/particle"
)

func newTestParticle(t *testing.T, opts particle.Options) *particle.Particle {
	t.Helper()
	p, err := particle.New(opts)
	if err != nil {
		t.Fatalf("particle.New: %v", err)
	}
	return p
}

func TestApplyBoundaries(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	const w, h = 800.0, 600.0

	tests := []struct {
		name      string
		opts      particle.Options
		wantX     float64
		wantY     float64
		wantVX    float64
		wantVY    float64
		wantReset bool
	}{
		{
			name:  "periodic right",
			opts:  particle.Options{X: w + 1, Y: 100, VX: 3, Boundaries: particle.Boundaries{Right: particle.Periodic}},
			wantX: 0, wantY: 100, wantVX: 3,
		},
		{
			name:  "periodic left",
			opts:  particle.Options{X: -1, Y: 100, VX: -3},
			wantX: w, wantY: 100, wantVX: -3,
		},
		{
			name:  "periodic top",
			opts:  particle.Options{X: 5, Y: -2, VY: -1},
			wantX: 5, wantY: h, wantVY: -1,
		},
		{
			name:  "reflecting top",
			opts:  particle.Options{X: 5, Y: -1, VY: -5, Restitution: particle.Restitution(0.8), Boundaries: particle.Boundaries{Top: particle.Reflecting}},
			wantX: 5, wantY: 0, wantVY: 4,
		},
		{
			name:  "reflecting bottom",
			opts:  particle.Options{X: 5, Y: h + 3, VY: 10, Boundaries: particle.Boundaries{Bottom: particle.Reflecting}},
			wantX: 5, wantY: h, wantVY: -10,
		},
		{
			name:  "reflecting right",
			opts:  particle.Options{X: w + 3, Y: 1, VX: 2, Restitution: particle.Restitution(0.5), Boundaries: particle.Boundaries{Right: particle.Reflecting}},
			wantX: w, wantY: 1, wantVX: -1,
		},
		{
			name:  "reset requested",
			opts:  particle.Options{X: w + 3, Y: 1, Boundaries: particle.AllEdges(particle.Reset)},
			wantX: w + 3, wantY: 1, wantReset: true,
		},
		{
			name:  "on the edge is inside",
			opts:  particle.Options{X: w, Y: 0, Boundaries: particle.AllEdges(particle.Reflecting)},
			wantX: w, wantY: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := newTestParticle(t, tt.opts)
			res := applyBoundaries(p, w, h, rng)
			if p.X != tt.wantX || p.Y != tt.wantY {
				t.Errorf("position = (%v, %v), want (%v, %v)", p.X, p.Y, tt.wantX, tt.wantY)
			}
			if p.VX != tt.wantVX || p.VY != tt.wantVY {
				t.Errorf("velocity = (%v, %v), want (%v, %v)", p.VX, p.VY, tt.wantVX, tt.wantVY)
			}
			if res.reset != tt.wantReset {
				t.Errorf("reset = %v, want %v", res.reset, tt.wantReset)
			}
		})
	}
}

func TestApplyBoundaries_UnknownPolicyIsNoop(t *testing.T) {
	p := newTestParticle(t, particle.Options{X: -5, Y: 10, VX: -1})
	p.Boundaries.Left = "sticky"

	applyBoundaries(p, 100, 100, rand.New(rand.NewSource(1)))

	if p.X != -5 || p.VX != -1 {
		t.Errorf("unknown policy moved particle to x=%v vx=%v", p.X, p.VX)
	}
}

func TestApplyBoundaries_RandomDelay(t *testing.T) {
	rng := rand.New(rand.NewSource(7))

	never := newTestParticle(t, particle.Options{Y: 101, VY: 5, Boundaries: particle.Boundaries{Bottom: particle.RandomDelay, Probability: 1}})
	for i := 0; i < 1000; i++ {
		applyBoundaries(never, 100, 100, rng)
	}
	if never.Y != 101 {
		t.Errorf("probability 1 wrapped to y=%v", never.Y)
	}

	wrapped := 0
	for i := 0; i < 1000; i++ {
		p := newTestParticle(t, particle.Options{Y: 101, VY: 5, Boundaries: particle.Boundaries{Bottom: particle.RandomDelay, Probability: 0.5}})
		applyBoundaries(p, 100, 100, rng)
		if p.Y == 0 {
			wrapped++
		}
		if p.VY != 5 {
			t.Fatalf("random delay changed velocity to %v", p.VY)
		}
	}
	if wrapped < 400 || wrapped > 600 {
		t.Errorf("expected ~500 wraps at probability 0.5, got %d", wrapped)
	}
}

func TestApplyBoundaries_RandomDelayHorizontalKeepsVelocity(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	edges := particle.Boundaries{Left: particle.RandomDelay, Right: particle.RandomDelay, Probability: 1e-9}

	left := newTestParticle(t, particle.Options{X: -2, Y: 50, VX: -4, Boundaries: edges})
	applyBoundaries(left, 100, 100, rng)
	if left.X != 100 || left.VX != -4 {
		t.Errorf("left wrap: got x=%v vx=%v, want x=100 vx=-4", left.X, left.VX)
	}

	right := newTestParticle(t, particle.Options{X: 103, Y: 50, VX: 6, Boundaries: edges})
	applyBoundaries(right, 100, 100, rng)
	if right.X != 0 || right.VX != 6 {
		t.Errorf("right wrap: got x=%v vx=%v, want x=0 vx=6", right.X, right.VX)
	}
}

func TestBuildIndex_Pruning(t *testing.T) {
	tests := []struct {
		name     string
		distance float64
		want     bool
	}{
		{"inside 4r", 15, true},
		{"just inside", 39.9, true},
		{"at 4r", 40, false},
		{"outside 4r", 45, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := newTestParticle(t, particle.Options{X: 100, Y: 100, CollisionRadius: 10, Collidable: true})
			b := newTestParticle(t, particle.Options{X: 100 + tt.distance, Y: 100, CollisionRadius: 10, Collidable: true})

			ix := buildIndex([]*particle.Particle{a, b}, 0)

			_, got := ix.Of(a.ID())[b.ID()]
			if got != tt.want {
				t.Errorf("pair at %v admitted = %v, want %v", tt.distance, got, tt.want)
			}
		})
	}
}

func TestBuildIndex_UsesLargerRadius(t *testing.T) {
	small := newTestParticle(t, particle.Options{X: 0, Y: 0, CollisionRadius: 1, Collidable: true})
	large := newTestParticle(t, particle.Options{X: 30, Y: 0, CollisionRadius: 10, Collidable: true})

	ix := buildIndex([]*particle.Particle{small, large}, 0)
	if _, ok := ix.Of(small.ID())[large.ID()]; !ok {
		t.Error("cutoff should use the larger of the two radii")
	}
}

func TestBuildIndex_MinRadius(t *testing.T) {
	a := newTestParticle(t, particle.Options{X: 0, Y: 0, CollisionRadius: 1, Collidable: true})
	b := newTestParticle(t, particle.Options{X: 40, Y: 0, CollisionRadius: 1, Collidable: true})

	if _, ok := buildIndex([]*particle.Particle{a, b}, 0).Of(a.ID())[b.ID()]; ok {
		t.Error("pair admitted without explicit radius")
	}
	if _, ok := buildIndex([]*particle.Particle{a, b}, 50).Of(a.ID())[b.ID()]; !ok {
		t.Error("explicit radius 50 should admit pair at distance 40")
	}
}

func TestCollide_CoincidentSkipped(t *testing.T) {
	a := newTestParticle(t, particle.Options{X: 10, Y: 10, VX: 1, Collidable: true})
	b := newTestParticle(t, particle.Options{X: 10, Y: 10, VX: -1, Collidable: true})

	ix := buildIndex([]*particle.Particle{a, b}, 0)
	if n := resolveCollisions([]*particle.Particle{a, b}, ix); n != 0 {
		t.Errorf("expected coincident pair to be skipped, got %d impulses", n)
	}
	if a.VX != 1 || b.VX != -1 {
		t.Error("coincident pair velocities changed")
	}
}

func TestCollide_SeparatingSkipped(t *testing.T) {
	a := newTestParticle(t, particle.Options{X: 0, Y: 0, VX: -1, Size: 20, Collidable: true})
	b := newTestParticle(t, particle.Options{X: 10, Y: 0, VX: 1, Size: 20, Collidable: true})

	ix := buildIndex([]*particle.Particle{a, b}, 0)
	if n := resolveCollisions([]*particle.Particle{a, b}, ix); n != 0 {
		t.Errorf("separating pair collided %d times", n)
	}
}

func TestCollide_MassWeightedCorrection(t *testing.T) {
	light := newTestParticle(t, particle.Options{X: 0, Y: 0, VX: 20, Mass: 1, Size: 20, Collidable: true})
	heavy := newTestParticle(t, particle.Options{X: 10, Y: 0, VX: 0, Mass: 3, Size: 20, Collidable: true})

	ix := buildIndex([]*particle.Particle{light, heavy}, 0)
	resolveCollisions([]*particle.Particle{light, heavy}, ix)

	// overlap 10, |vrn| 20 => full correction, split 3:1.
	if got := -light.X; got < 7.49 || got > 7.51 {
		t.Errorf("light particle moved %v, want 7.5", got)
	}
	if got := heavy.X - 10; got < 2.49 || got > 2.51 {
		t.Errorf("heavy particle moved %v, want 2.5", got)
	}

	px := light.Mass*light.VX + heavy.Mass*heavy.VX
	if px < 19.999 || px > 20.001 {
		t.Errorf("momentum not conserved: %v", px)
	}
}
