package sim

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"slices"

	"github.com/charmbracelet/log"

	"github.com/san-kum/glyphsim/internal/particle"
)

// System is the simulation loop. It owns the live particle collection, the
// staging buffer and the neighbor index. It is not safe for concurrent use;
// readers may inspect Particles between calls to Update.
type System struct {
	cfg    Config
	width  float64
	height float64

	particles []*particle.Particle
	pending   []*particle.Particle
	ids       map[particle.ID]struct{}
	neighbors Index
	snapshot  *Snapshot

	time   float64
	dt     float64
	tick   int
	stats  Stats
	rng    *rand.Rand
	logger *log.Logger

	metrics   []Metric
	observers []Observer
}

var _ particle.Context = (*System)(nil)

func New(cfg Config) (*System, error) {
	if err := validBounds(cfg.Width, cfg.Height); err != nil {
		return nil, err
	}
	logger := cfg.Logger
	if logger == nil {
		logger = log.Default()
	}
	return &System{
		cfg:       cfg,
		width:     cfg.Width,
		height:    cfg.Height,
		ids:       make(map[particle.ID]struct{}),
		neighbors: make(Index),
		rng:       rand.New(rand.NewSource(cfg.Seed)),
		logger:    logger,
		metrics:   make([]Metric, 0),
		observers: make([]Observer, 0),
	}, nil
}

func (s *System) AddMetric(m Metric)     { s.metrics = append(s.metrics, m) }
func (s *System) AddObserver(o Observer) { s.observers = append(s.observers, o) }

// AddParticles stages ps for inclusion at the start of the next Update.
// The batch is rejected as a whole if it contains nil entries or ids that
// are already live, staged, or repeated within the batch.
func (s *System) AddParticles(ps ...*particle.Particle) error {
	seen := make(map[particle.ID]struct{}, len(ps))
	for _, p := range ps {
		if p == nil {
			return ErrNilParticle
		}
		id := p.ID()
		if _, dup := s.ids[id]; dup {
			return fmt.Errorf("%w: %s", ErrDuplicateID, id)
		}
		if _, dup := seen[id]; dup {
			return fmt.Errorf("%w: %s", ErrDuplicateID, id)
		}
		seen[id] = struct{}{}
	}
	for id := range seen {
		s.ids[id] = struct{}{}
	}
	s.pending = append(s.pending, ps...)
	return nil
}

// Clear empties the live and staged collections and discards the snapshot.
// The next batch merged becomes the new snapshot.
func (s *System) Clear() {
	s.particles = nil
	s.pending = nil
	s.ids = make(map[particle.ID]struct{})
	s.neighbors = make(Index)
	s.snapshot = nil
}

// Resize updates the bounds used by boundary handling. Particles are not
// moved.
func (s *System) Resize(width, height float64) error {
	if err := validBounds(width, height); err != nil {
		return err
	}
	s.width, s.height = width, height
	return nil
}

// Update advances the simulation by dt seconds:
//
//  1. drop particles pending removal
//  2. merge staged particles, taking the snapshot on the first merge
//  3. rebuild the neighbor index if any particle needs it
//  4. resolve collisions against that index
//  5. per particle: accumulate forces, integrate, apply boundaries
//
// A reset requested by a boundary is applied once after step 5.
func (s *System) Update(dt float64) error {
	if !(dt >= 0) || math.IsInf(dt, 0) {
		return fmt.Errorf("%w: %v", ErrInvalidTimestep, dt)
	}

	s.tick++
	s.time += dt
	s.dt = dt
	st := Stats{Tick: s.tick, Time: s.time}

	before := len(s.particles)
	s.particles = slices.DeleteFunc(s.particles, func(p *particle.Particle) bool {
		if p.Removed() {
			delete(s.ids, p.ID())
			return true
		}
		return false
	})
	st.Removed = before - len(s.particles)

	if len(s.pending) > 0 {
		batch := s.pending
		s.pending = nil
		s.particles = append(s.particles, batch...)
		st.Added = len(batch)
		if s.snapshot == nil {
			s.snapshot = takeSnapshot(s.particles)
		}
	}

	if active := activeSet(s.particles); len(active) > 0 {
		s.neighbors = buildIndex(active, s.cfg.NeighborRadius)
		st.Active = len(active)
		st.Pairs = s.neighbors.Pairs()
		st.Collisions = resolveCollisions(s.particles, s.neighbors)
	}

	reset := false
	for _, p := range s.particles {
		if p.Removed() {
			continue
		}
		if err := s.accumulate(p, &st); err != nil {
			s.stats = st
			return err
		}
		p.Integrate(dt)
		if applyBoundaries(p, s.width, s.height, s.rng).reset {
			reset = true
		}
	}
	if reset {
		s.ResetToInitial()
		st.Resets++
	}

	if s.cfg.ValidateState {
		for _, p := range s.particles {
			if !finite(p.X) || !finite(p.Y) || !finite(p.VX) || !finite(p.VY) {
				s.stats = st
				return fmt.Errorf("%w: particle %s at tick %d", ErrInvalidState, p.ID(), s.tick)
			}
		}
	}

	st.Live = len(s.particles)
	s.stats = st
	s.notify()
	return nil
}

// accumulate resets acceleration and sums every behavior's force divided
// by mass, in insertion order.
func (s *System) accumulate(p *particle.Particle, st *Stats) error {
	p.AX, p.AY = 0, 0
	if !(p.Mass > 0) || math.IsInf(p.Mass, 0) {
		return fmt.Errorf("%w: particle %s mass %v", ErrInvalidMass, p.ID(), p.Mass)
	}

	for i, f := range p.Forces() {
		fx, fy, err := s.apply(f, p)
		if err == nil && (!finite(fx) || !finite(fy)) {
			err = ErrNonFiniteForce
		}
		if err != nil {
			if s.cfg.FailurePolicy == Isolate {
				st.Failures++
				s.logger.Warn("behavior failed", "particle", p.ID(), "index", i, "tick", s.tick, "err", err)
				continue
			}
			return &BehaviorError{ParticleID: p.ID(), Index: i, Tick: s.tick, Cause: err}
		}
		p.AX += fx / p.Mass
		p.AY += fy / p.Mass
	}
	return nil
}

func (s *System) apply(f particle.Force, p *particle.Particle) (fx, fy float64, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &PanicError{Value: r}
		}
	}()
	fx, fy = f.Apply(p, s)
	return fx, fy, nil
}

func (s *System) notify() {
	if len(s.metrics) == 0 && len(s.observers) == 0 {
		return
	}
	frame := s.Frame()
	for _, m := range s.metrics {
		m.Observe(frame)
	}
	for _, o := range s.observers {
		o.OnTick(frame)
	}
}

// ComputeNeighbors rebuilds the neighbor index from the live particles
// now, ahead of the rebuild inside Update. A positive radius raises every
// pair's pruning cutoff to at least radius. Staged particles are not
// included. When no particle needs neighbors the index is left as is.
func (s *System) ComputeNeighbors(radius float64) {
	active := activeSet(s.particles)
	if len(active) == 0 {
		return
	}
	if radius < s.cfg.NeighborRadius {
		radius = s.cfg.NeighborRadius
	}
	s.neighbors = buildIndex(active, radius)
}

// Neighbors returns the neighbor map for id from the most recent rebuild.
// The map is empty when id has no entry and must not be modified.
func (s *System) Neighbors(id particle.ID) map[particle.ID]particle.Neighbor {
	return s.neighbors.Of(id)
}

// ResetToInitial restores every snapshotted particle's position, velocity,
// phase, phase rate, mass, behaviors and boundaries. Particles added after
// the snapshot keep their state.
func (s *System) ResetToInitial() {
	n := s.snapshot.restore(s.particles)
	s.logger.Debug("reset to initial state", "restored", n, "tick", s.tick)
}

// Run calls Update ticks times, stopping early if ctx is done.
func (s *System) Run(ctx context.Context, dt float64, ticks int) error {
	for i := 0; i < ticks; i++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		if err := s.Update(dt); err != nil {
			return err
		}
	}
	return nil
}

// Frame describes the state after the most recent Update.
func (s *System) Frame() Frame {
	return Frame{
		Tick:      s.tick,
		Time:      s.time,
		Dt:        s.dt,
		Width:     s.width,
		Height:    s.height,
		Particles: s.particles,
		Stats:     s.stats,
	}
}

// Particles returns the live collection. Callers must not modify the slice
// or the particles' physical fields.
func (s *System) Particles() []*particle.Particle { return s.particles }

// Pending returns the number of staged particles.
func (s *System) Pending() int { return len(s.pending) }

// Snapshot returns the initial-state snapshot, or nil before the first
// merge.
func (s *System) Snapshot() *Snapshot { return s.snapshot }

func (s *System) Bounds() (float64, float64) { return s.width, s.height }
func (s *System) Time() float64              { return s.time }
func (s *System) Tick() int                  { return s.tick }
func (s *System) Stats() Stats               { return s.stats }
func (s *System) Rand() *rand.Rand           { return s.rng }
func (s *System) Logger() *log.Logger        { return s.logger }

func validBounds(w, h float64) error {
	if !(w > 0) || !(h > 0) || math.IsInf(w, 0) || math.IsInf(h, 0) {
		return fmt.Errorf("%w: %vx%v", ErrInvalidBounds, w, h)
	}
	return nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
