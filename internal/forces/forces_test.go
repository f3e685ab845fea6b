package forces

import (
	"math"
	"math/rand"
	"testing"

	"github.com/san-kum/glyphsim/internal/particle"
)

type fakeContext struct {
	neighbors map[particle.ID]map[particle.ID]particle.Neighbor
	added     []*particle.Particle
	w, h      float64
	t         float64
	rng       *rand.Rand
}

func newFakeContext() *fakeContext {
	return &fakeContext{
		neighbors: make(map[particle.ID]map[particle.ID]particle.Neighbor),
		w:         800,
		h:         600,
		rng:       rand.New(rand.NewSource(1)),
	}
}

// link records b as a neighbor of a and vice versa using current positions.
func (c *fakeContext) link(a, b *particle.Particle) {
	dx, dy := b.X-a.X, b.Y-a.Y
	r2 := dx*dx + dy*dy
	d := math.Sqrt(r2)
	if c.neighbors[a.ID()] == nil {
		c.neighbors[a.ID()] = make(map[particle.ID]particle.Neighbor)
	}
	if c.neighbors[b.ID()] == nil {
		c.neighbors[b.ID()] = make(map[particle.ID]particle.Neighbor)
	}
	c.neighbors[a.ID()][b.ID()] = particle.Neighbor{Particle: b, DX: dx, DY: dy, Distance: d, DistanceSq: r2}
	c.neighbors[b.ID()][a.ID()] = particle.Neighbor{Particle: a, DX: -dx, DY: -dy, Distance: d, DistanceSq: r2}
}

func (c *fakeContext) Neighbors(id particle.ID) map[particle.ID]particle.Neighbor {
	if m, ok := c.neighbors[id]; ok {
		return m
	}
	return map[particle.ID]particle.Neighbor{}
}

func (c *fakeContext) AddParticles(ps ...*particle.Particle) error {
	c.added = append(c.added, ps...)
	return nil
}

func (c *fakeContext) Bounds() (float64, float64) { return c.w, c.h }
func (c *fakeContext) Time() float64              { return c.t }
func (c *fakeContext) Rand() *rand.Rand           { return c.rng }

type creature string

func (c creature) Kind() string                   { return string(c) }
func (c creature) ClonePayload() particle.Payload { return c }

func approx(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func TestUniformScalesWithMass(t *testing.T) {
	p := particle.MustNew(particle.Options{Mass: 3})
	fx, fy := Uniform{GX: 1, GY: -2}.Apply(p, newFakeContext())
	if fx != 3 || fy != -6 {
		t.Errorf("got (%v, %v), want (3, -6)", fx, fy)
	}
}

func TestDragOpposesVelocity(t *testing.T) {
	p := particle.MustNew(particle.Options{VX: 4, VY: -2})
	fx, fy := Drag{K: 0.5}.Apply(p, newFakeContext())
	if fx != -2 || fy != 1 {
		t.Errorf("got (%v, %v), want (-2, 1)", fx, fy)
	}
}

func TestCentralOrbit(t *testing.T) {
	tests := []struct {
		name   string
		x, y   float64
		wantFX float64
		wantFY float64
	}{
		{"right of centre", 200, 100, -1, 0},
		{"below centre", 100, 200, 0, -1},
		{"left of centre", 0, 100, 1, 0},
	}

	o := CentralOrbit{CX: 100, CY: 100, Speed: 10, Radius: 100}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := particle.MustNew(particle.Options{X: tt.x, Y: tt.y})
			fx, fy := o.Apply(p, newFakeContext())
			if !approx(fx, tt.wantFX) || !approx(fy, tt.wantFY) {
				t.Errorf("got (%v, %v), want (%v, %v)", fx, fy, tt.wantFX, tt.wantFY)
			}
		})
	}

	if fx, fy := (CentralOrbit{Speed: 1}).Apply(particle.MustNew(particle.Options{X: 5}), newFakeContext()); fx != 0 || fy != 0 {
		t.Error("zero radius should produce no force")
	}
}

func TestSpring(t *testing.T) {
	p := particle.MustNew(particle.Options{X: 12, Y: 10, VX: 1})
	fx, fy := Spring{AnchorX: 10, AnchorY: 10, K: 2, Damping: 0.5}.Apply(p, newFakeContext())
	if fx != -4.5 || fy != 0 {
		t.Errorf("got (%v, %v), want (-4.5, 0)", fx, fy)
	}
}

func TestWanderBounded(t *testing.T) {
	ctx := newFakeContext()
	p := particle.MustNew(particle.Options{})
	w := Wander{Strength: 4}
	for i := 0; i < 500; i++ {
		fx, fy := w.Apply(p, ctx)
		if fx < -2 || fx >= 2 || fy < -2 || fy >= 2 {
			t.Fatalf("kick (%v, %v) out of range", fx, fy)
		}
	}
}

func TestTorusWrapsPosition(t *testing.T) {
	ctx := newFakeContext()
	p := particle.MustNew(particle.Options{X: -10, Y: 610})
	fx, fy := Torus{}.Apply(p, ctx)
	if fx != 0 || fy != 0 {
		t.Errorf("torus returned force (%v, %v)", fx, fy)
	}
	if p.X != 790 || !approx(p.Y, 10) {
		t.Errorf("wrapped to (%v, %v), want (790, 10)", p.X, p.Y)
	}
}

func TestGravityAttracts(t *testing.T) {
	ctx := newFakeContext()
	a := particle.MustNew(particle.Options{X: 0, Y: 0, Mass: 2})
	b := particle.MustNew(particle.Options{X: 10, Y: 0, Mass: 3})
	ctx.link(a, b)

	g := Gravity{G: 100, Softening: 0}
	fx, fy := g.Apply(a, ctx)
	want := 100 * 2 * 3 / 1000.0 * 10
	if !approx(fx, want) || fy != 0 {
		t.Errorf("got (%v, %v), want (%v, 0)", fx, fy, want)
	}

	bx, _ := g.Apply(b, ctx)
	if !approx(bx, -fx) {
		t.Errorf("forces not equal and opposite: %v vs %v", fx, bx)
	}
}

func TestGravityMerge(t *testing.T) {
	ctx := newFakeContext()
	a := particle.MustNew(particle.Options{X: 0, Y: 0, VX: 2, Mass: 1, Size: 10})
	b := particle.MustNew(particle.Options{X: 1, Y: 0, VX: -1, Mass: 1, Size: 10})
	ctx.link(a, b)

	Gravity{G: 1, Softening: 1, Merge: true}.Apply(a, ctx)

	if !b.Removed() {
		t.Fatal("expected neighbor to be absorbed")
	}
	if a.Mass != 2 {
		t.Errorf("mass = %v, want 2", a.Mass)
	}
	if !approx(a.VX, 0.5) {
		t.Errorf("vx = %v, want 0.5", a.VX)
	}
	if !approx(a.Size, 10*math.Cbrt(1.5)) {
		t.Errorf("size = %v", a.Size)
	}

	// b is gone; applying b must not absorb a back.
	Gravity{G: 1, Softening: 1, Merge: true}.Apply(b, ctx)
	if a.Removed() {
		t.Error("removed particle absorbed its absorber")
	}
}

func TestGravityMergeComparesSoftenedSquaredDistance(t *testing.T) {
	tests := []struct {
		distance float64
		merge    bool
	}{
		{2.9, true}, // 8.41 + 1 < 10
		{3, false},  // 9 + 1 is not below 10
		{5, false},  // plain distance 5 is below 10, squared is not
	}
	for _, tt := range tests {
		ctx := newFakeContext()
		a := particle.MustNew(particle.Options{Mass: 1, Size: 10})
		b := particle.MustNew(particle.Options{X: tt.distance, Mass: 1, Size: 10})
		ctx.link(a, b)

		Gravity{G: 1, Softening: 1, Merge: true}.Apply(a, ctx)
		if b.Removed() != tt.merge {
			t.Errorf("distance %v: merged=%v, want %v", tt.distance, b.Removed(), tt.merge)
		}
	}
}

func TestFleeOnlyFromThreats(t *testing.T) {
	ctx := newFakeContext()
	prey := particle.MustNew(particle.Options{X: 100, Y: 100, Payload: creature("prey")})
	wolf := particle.MustNew(particle.Options{X: 110, Y: 100, Payload: creature("predator")})
	sheep := particle.MustNew(particle.Options{X: 100, Y: 110, Payload: creature("prey")})
	ctx.link(prey, wolf)
	ctx.link(prey, sheep)

	fx, fy := Flee{Threat: OfKind("predator"), Radius: 50, Strength: 100}.Apply(prey, ctx)
	if !approx(fx, -1) || fy != 0 {
		t.Errorf("got (%v, %v), want (-1, 0)", fx, fy)
	}
}

func TestChaseNearestAndCatch(t *testing.T) {
	ctx := newFakeContext()
	wolf := particle.MustNew(particle.Options{X: 100, Y: 100, Payload: creature("predator")})
	near := particle.MustNew(particle.Options{X: 103, Y: 100, Payload: creature("prey")})
	far := particle.MustNew(particle.Options{X: 100, Y: 140, Payload: creature("prey")})
	ctx.link(wolf, near)
	ctx.link(wolf, far)

	var caught *particle.Particle
	c := Chase{
		Target:      OfKind("prey"),
		Strength:    8,
		CatchRadius: 5,
		OnCatch:     func(_, prey *particle.Particle) { caught = prey },
	}
	fx, fy := c.Apply(wolf, ctx)
	if !approx(fx, 2) || fy != 0 {
		t.Errorf("got (%v, %v), want (2, 0)", fx, fy)
	}
	if caught != near {
		t.Error("expected the nearest prey to be caught")
	}
}

func TestNearestSkipsRemoved(t *testing.T) {
	ctx := newFakeContext()
	p := particle.MustNew(particle.Options{})
	a := particle.MustNew(particle.Options{X: 1})
	b := particle.MustNew(particle.Options{X: 5})
	ctx.link(p, a)
	ctx.link(p, b)
	a.MarkForRemoval()

	n, ok := Nearest(p, ctx, nil)
	if !ok || n.Particle != b {
		t.Errorf("expected live neighbor b, got %v ok=%v", n.Particle, ok)
	}
}

func TestFlockingCohesion(t *testing.T) {
	ctx := newFakeContext()
	p := particle.MustNew(particle.Options{X: 0, Y: 0})
	q := particle.MustNew(particle.Options{X: 20, Y: 0})
	ctx.link(p, q)

	fx, _ := Flocking{VisualRange: 50, Cohesion: 0.1}.Apply(p, ctx)
	if !approx(fx, 2) {
		t.Errorf("cohesion force = %v, want 2", fx)
	}

	fx, _ = Flocking{VisualRange: 50, ProtectedRange: 30, Separation: 0.1}.Apply(p, ctx)
	if !approx(fx, -2) {
		t.Errorf("separation force = %v, want -2", fx)
	}
}

func TestFlockingSpeedLimit(t *testing.T) {
	p := particle.MustNew(particle.Options{VX: 20})
	fx, _ := Flocking{MaxSpeed: 10}.Apply(p, newFakeContext())
	if !approx(fx, -10) {
		t.Errorf("brake = %v, want -10", fx)
	}
}

func TestNoiseFlowDeterministic(t *testing.T) {
	a := NewNoiseFlow(42, 0.01, 2, 0)
	b := NewNoiseFlow(42, 0.01, 2, 0)
	ctx := newFakeContext()
	p := particle.MustNew(particle.Options{X: 123, Y: 456})

	ax, ay := a.Apply(p, ctx)
	bx, by := b.Apply(p, ctx)
	if ax != bx || ay != by {
		t.Errorf("same seed gave different forces: (%v,%v) vs (%v,%v)", ax, ay, bx, by)
	}
	if mag := math.Hypot(ax, ay); !approx(mag, 2) {
		t.Errorf("magnitude = %v, want 2", mag)
	}
}

func TestPlasmaPressureAndColour(t *testing.T) {
	ctx := newFakeContext()
	a := particle.MustNew(particle.Options{X: 100, Y: 100})
	b := particle.MustNew(particle.Options{X: 110, Y: 100, Phase: math.Pi / 2})
	ctx.link(a, b)

	pl := Plasma{Pressure: 1, Range: 20, Coupling: 0.5, BasePhaseRate: 1}
	fx, fy := pl.Apply(a, ctx)
	if !approx(fx, -0.5) || !approx(fy, 0) {
		t.Errorf("got (%v, %v), want (-0.5, 0)", fx, fy)
	}
	if !approx(a.PhaseRate, 1.5) {
		t.Errorf("phase rate = %v, want 1.5", a.PhaseRate)
	}
	if a.Visual.Color == "" {
		t.Error("expected plasma to set a colour")
	}
}

func TestLifeGridBlinker(t *testing.T) {
	g := NewLifeGrid(5, 5, 1, LifeSquares)
	g.Set(1, 2, true)
	g.Set(2, 2, true)
	g.Set(3, 2, true)

	g.Step()
	for _, c := range [][2]int{{2, 1}, {2, 2}, {2, 3}} {
		if !g.Alive(c[0], c[1]) {
			t.Errorf("cell %v should be alive", c)
		}
	}
	if g.Alive(1, 2) || g.Alive(3, 2) {
		t.Error("horizontal arm should have died")
	}
	if g.Population() != 3 || g.Generation() != 1 {
		t.Errorf("population=%d generation=%d", g.Population(), g.Generation())
	}
}

func TestLifeGridWraps(t *testing.T) {
	g := NewLifeGrid(4, 4, 1, LifeBinary)
	g.Set(0, 0, true)
	if g.LiveNeighbors(3, 3) != 1 {
		t.Error("corner cells should neighbor across the torus")
	}
}

func TestLifeCellAdvancesOncePerInterval(t *testing.T) {
	ctx := newFakeContext()
	g := NewLifeGrid(3, 3, 0.5, LifeBinary)
	g.Set(1, 1, true)

	cells := make([]*particle.Particle, 0, 9)
	for row := 0; row < 3; row++ {
		for col := 0; col < 3; col++ {
			cells = append(cells, particle.MustNew(particle.Options{Forces: []particle.Force{g.Cell(col, row)}}))
		}
	}
	apply := func() {
		for _, c := range cells {
			for _, f := range c.Forces() {
				f.Apply(c, ctx)
			}
		}
	}

	ctx.t = 0.25
	apply()
	if g.Generation() != 0 {
		t.Fatalf("advanced before interval: generation %d", g.Generation())
	}
	if cells[4].Visual.Glyph != '1' {
		t.Errorf("centre glyph = %q, want '1'", cells[4].Visual.Glyph)
	}

	ctx.t = 0.5
	apply()
	if g.Generation() != 1 {
		t.Fatalf("generation = %d, want 1", g.Generation())
	}
	if cells[4].Visual.Glyph != '0' || cells[4].Visual.Color != DeadColor {
		t.Error("isolated cell should have died")
	}
}

func TestHelixPullsTowardStrand(t *testing.T) {
	ctx := newFakeContext()
	p := particle.MustNew(particle.Options{X: 350, Y: 0, Mass: 2})
	h := Helix{Side: -1, Radius: 100, Stiffness: 10, SwapDistance: 28}

	if got := h.TargetX(0, 800, 600); got != 300 {
		t.Fatalf("target = %v, want 300", got)
	}
	if got := h.TargetX(300, 800, 600); got != 500 {
		t.Fatalf("target at half height = %v, want 500", got)
	}
	fx, fy := h.Apply(p, ctx)
	if !approx(fx, -1000) || fy != 0 {
		t.Errorf("got (%v, %v), want (-1000, 0)", fx, fy)
	}
	if !particle.NeedsNeighbors(h) {
		t.Error("helix should request neighbors")
	}
}

func TestHelixSwapsWithNearest(t *testing.T) {
	ctx := newFakeContext()
	glyph := func(r rune, phase float64) particle.Options {
		return particle.Options{X: 300, Phase: phase, Visual: particle.Visual{Glyph: r, GlyphRate: 1}}
	}
	a := particle.MustNew(glyph('A', 1))
	b := particle.MustNew(glyph('T', 2))
	c := particle.MustNew(glyph('G', 3))
	b.Y, c.Y = 20, 25
	ctx.link(a, b)
	ctx.link(a, c)
	h := Helix{Side: -1, Radius: 100, Stiffness: 10, SwapDistance: 28}

	ctx.t = 5
	h.Apply(a, ctx)
	if a.Visual.Glyph != 'T' || a.Phase != 2 || b.Phase != 1 {
		t.Fatalf("swap: glyph=%q phases=(%v, %v)", a.Visual.Glyph, a.Phase, b.Phase)
	}
	if c.Phase != 3 {
		t.Error("farther neighbor should be untouched")
	}

	b.Visual.Glyph = 'C'
	ctx.t = 5.5
	h.Apply(a, ctx)
	if a.Visual.Glyph != 'T' {
		t.Error("swapped again before the glyph interval elapsed")
	}

	ctx.t = 6
	h.Apply(a, ctx)
	if a.Visual.Glyph != 'C' {
		t.Errorf("glyph = %q after interval, want 'C'", a.Visual.Glyph)
	}
}

func TestHelixIgnoresDistantNeighbors(t *testing.T) {
	ctx := newFakeContext()
	a := particle.MustNew(particle.Options{X: 300, Visual: particle.Visual{Glyph: 'A', GlyphRate: 1}})
	b := particle.MustNew(particle.Options{X: 300, Y: 30, Visual: particle.Visual{Glyph: 'T', GlyphRate: 1}})
	ctx.link(a, b)
	ctx.t = 5

	Helix{Side: -1, Radius: 100, Stiffness: 10, SwapDistance: 28}.Apply(a, ctx)
	if a.Visual.Glyph != 'A' {
		t.Error("swapped with a neighbor beyond the swap distance")
	}
}

func TestWaveSample(t *testing.T) {
	one := Wave{Sources: []WaveSource{{0, 0}}, Frequency: 2}
	amp, phase := one.Sample(50, 0, 0)
	if !approx(amp, 1/math.Sqrt(51)) || !approx(phase, 2) {
		t.Errorf("single source: amp=%v phase=%v", amp, phase)
	}

	two := Wave{Sources: []WaveSource{{-50, 0}, {50, 0}}, Frequency: 2}
	amp, _ = two.Sample(0, 0, 0)
	if !approx(amp, 2/math.Sqrt(51)) {
		t.Errorf("in-phase sources should add: amp=%v", amp)
	}

	_, later := one.Sample(50, 0, 0.5)
	if !approx(later, 1) {
		t.Errorf("phase after 0.5s = %v, want 1", later)
	}
}

func TestRingSources(t *testing.T) {
	s := RingSources(4, 0, 0, 10)
	if len(s) != 4 {
		t.Fatalf("got %d sources", len(s))
	}
	if !approx(s[0].X, 10) || !approx(s[0].Y, 0) || !approx(s[1].X, 0) || !approx(s[1].Y, 10) {
		t.Errorf("sources = %v", s)
	}
}

func TestWaveColor(t *testing.T) {
	tests := []struct {
		mode       string
		amp, phase float64
		want       string
	}{
		{WaveComplex, 0, 0, "hsl(0,80%,50%)"},
		{WaveComplex, 4, -math.Pi / 2, "hsl(270,80%,100%)"},
		{WaveAmplitude, 1, 0, "hsl(260,80%,50%)"},
		{WaveInterference, 2, 0, "rgb(255,128,255)"},
	}
	for _, tt := range tests {
		if got := WaveColor(tt.mode, tt.amp, tt.phase, 0.8); got != tt.want {
			t.Errorf("%s(%v, %v) = %s, want %s", tt.mode, tt.amp, tt.phase, got, tt.want)
		}
	}
}

func TestWaveCellModes(t *testing.T) {
	ctx := newFakeContext()
	wave := Wave{Sources: []WaveSource{{0, 0}}, Frequency: 2}
	amp, phase := wave.Sample(50, 0, 0)

	p := particle.MustNew(particle.Options{X: 50, PhaseRate: 7})
	WaveCell{Wave: wave, ColorMode: WaveComplex, SymbolMode: "phase", Saturation: 1, BaseRate: 3}.Apply(p, ctx)
	if !approx(p.Phase, phase) || p.PhaseRate != 7 || p.Visual.Color == "" {
		t.Errorf("phase mode: phase=%v rate=%v colour=%q", p.Phase, p.PhaseRate, p.Visual.Color)
	}

	q := particle.MustNew(particle.Options{X: 50, Phase: 0.25})
	WaveCell{Wave: wave, ColorMode: WaveAmplitude, SymbolMode: "amplitude", Saturation: 1, BaseRate: 3}.Apply(q, ctx)
	if q.Phase != 0.25 || !approx(q.PhaseRate, amp*3) {
		t.Errorf("amplitude mode: phase=%v rate=%v", q.Phase, q.PhaseRate)
	}
}

func TestPhaseCoupling(t *testing.T) {
	ctx := newFakeContext()
	a := particle.MustNew(particle.Options{})
	near := particle.MustNew(particle.Options{X: 10, Phase: math.Pi / 2})
	far := particle.MustNew(particle.Options{X: 50, Phase: math.Pi / 2})
	ctx.link(a, near)
	ctx.link(a, far)

	c := PhaseCoupling{Range: 40, BaseRate: 2, Coupling: 0.5}
	fx, fy := c.Apply(a, ctx)
	if fx != 0 || fy != 0 {
		t.Errorf("coupling produced force (%v, %v)", fx, fy)
	}
	if !approx(a.PhaseRate, 2.5) {
		t.Errorf("phase rate = %v, want 2.5", a.PhaseRate)
	}
	if !particle.NeedsNeighbors(c) {
		t.Error("coupling should request neighbors")
	}
}

func TestCrystalGridGrowth(t *testing.T) {
	g := NewCrystalGrid(7, 7, 1, VonNeumann, 1)
	g.Seed(3, 3)

	g.Step()
	if g.State(3, 3) != CrystalActive {
		t.Errorf("seed = %v, want active", g.State(3, 3))
	}
	for _, c := range [][2]int{{3, 2}, {4, 3}, {3, 4}, {2, 3}} {
		if g.State(c[0], c[1]) != CrystalGrowing {
			t.Errorf("cell %v = %v, want growing", c, g.State(c[0], c[1]))
		}
	}
	if g.State(2, 2) != CrystalEmpty {
		t.Error("diagonal cell grew under von Neumann growth")
	}

	g.Step()
	if g.State(3, 2) != CrystalSolid || g.Count(CrystalSolid) != 4 {
		t.Errorf("arms should solidify: %v, %d solid", g.State(3, 2), g.Count(CrystalSolid))
	}

	g.Step()
	if g.State(3, 2) != CrystalActive || g.State(2, 2) != CrystalGrowing || g.State(3, 1) != CrystalGrowing {
		t.Errorf("third generation: arm=%v diagonal=%v tip=%v", g.State(3, 2), g.State(2, 2), g.State(3, 1))
	}
	if g.Generation() != 3 {
		t.Errorf("generation = %d", g.Generation())
	}
}

func TestCrystalGridThreshold(t *testing.T) {
	g := NewCrystalGrid(7, 7, 1, VonNeumann, 3)
	g.Seed(3, 3)
	g.Step()
	if g.State(3, 2) != CrystalEmpty {
		t.Error("a single bond should not reach threshold 3")
	}

	m := NewCrystalGrid(7, 7, 1, Moore, 1)
	m.Seed(3, 3)
	m.Step()
	if m.State(2, 2) != CrystalGrowing {
		t.Error("moore growth should reach the diagonal")
	}
}

func TestCrystalGridPaint(t *testing.T) {
	g := NewCrystalGrid(5, 5, 1, VonNeumann, 1)
	g.Seed(2, 2)
	g.Seed(9, 9)

	p := particle.MustNew(particle.Options{Visual: particle.Visual{Color: "red"}})
	g.Paint(p, 2, 2)
	if p.Visual.Glyph != '▣' || p.Visual.Color != "hsl(144,80%,50%)" {
		t.Errorf("seed painted %q %q", p.Visual.Glyph, p.Visual.Color)
	}
	g.Paint(p, 0, 0)
	if p.Visual.Glyph != '0' || p.Visual.Color != "" {
		t.Errorf("empty painted %q %q", p.Visual.Glyph, p.Visual.Color)
	}
	if g.Count(CrystalSolid) != 1 {
		t.Error("out of range seed should be ignored")
	}
}

func TestCrystalCellAdvancesOncePerInterval(t *testing.T) {
	ctx := newFakeContext()
	g := NewCrystalGrid(3, 3, 0.5, VonNeumann, 1)
	g.Seed(1, 1)

	cells := make([]*particle.Particle, 0, 9)
	for row := 0; row < 3; row++ {
		for col := 0; col < 3; col++ {
			cells = append(cells, particle.MustNew(particle.Options{Forces: []particle.Force{g.Cell(col, row)}}))
		}
	}
	apply := func() {
		for _, c := range cells {
			for _, f := range c.Forces() {
				f.Apply(c, ctx)
			}
		}
	}

	ctx.t = 0.25
	apply()
	if g.Generation() != 0 {
		t.Fatalf("advanced before interval: generation %d", g.Generation())
	}

	ctx.t = 0.5
	apply()
	apply()
	if g.Generation() != 1 {
		t.Fatalf("generation = %d, want 1", g.Generation())
	}
	if cells[4].Visual.Glyph != '▤' || cells[1].Visual.Glyph != '1' {
		t.Errorf("glyphs after one generation: centre %q, arm %q", cells[4].Visual.Glyph, cells[1].Visual.Glyph)
	}
}

func TestNeighborhood(t *testing.T) {
	for name, want := range map[string]int{"von_neumann": 4, "moore": 8, "extended": 12} {
		hood, err := Neighborhood(name)
		if err != nil || len(hood) != want {
			t.Errorf("%s: %d offsets, err %v", name, len(hood), err)
		}
	}
	if _, err := Neighborhood("hex"); err == nil {
		t.Error("expected error for unknown neighborhood")
	}
	if CrystalStable.String() != "stable" || CrystalState(9).String() != "CrystalState(9)" {
		t.Error("state names")
	}
}
