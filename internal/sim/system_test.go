package sim_test

import (
	"context"
	"errors"
	"io"
	"math"
	"math/rand"

	"github.com/charmbracelet/log"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/glyphsim/internal/particle"
	"github.com/san-kum/glyphsim/internal/sim"
)

func newSystem(w, h float64) *sim.System {
	s, err := sim.New(sim.Config{
		Width:         w,
		Height:        h,
		Seed:          1,
		ValidateState: true,
		Logger:        log.New(io.Discard),
	})
	Expect(err).NotTo(HaveOccurred())
	return s
}

func kinetic(ps ...*particle.Particle) float64 {
	e := 0.0
	for _, p := range ps {
		e += p.KineticEnergy()
	}
	return e
}

type spawner struct{ done bool }

func (s *spawner) Apply(p *particle.Particle, ctx particle.Context) (float64, float64) {
	if !s.done {
		s.done = true
		child := p.Clone()
		child.X += 5
		child.SetForces(nil)
		Expect(ctx.AddParticles(child)).To(Succeed())
	}
	return 0, 0
}

var _ = Describe("System", func() {
	var s *sim.System

	BeforeEach(func() {
		s = newSystem(800, 600)
	})

	Describe("construction", func() {
		It("rejects non-positive bounds", func() {
			_, err := sim.New(sim.Config{Width: 0, Height: 10})
			Expect(err).To(MatchError(sim.ErrInvalidBounds))

			_, err = sim.New(sim.Config{Width: 10, Height: math.Inf(1)})
			Expect(err).To(MatchError(sim.ErrInvalidBounds))
		})

		It("rejects invalid resize and keeps old bounds", func() {
			Expect(s.Resize(-1, 5)).To(MatchError(sim.ErrInvalidBounds))
			w, h := s.Bounds()
			Expect(w).To(Equal(800.0))
			Expect(h).To(Equal(600.0))

			Expect(s.Resize(100, 50)).To(Succeed())
			w, h = s.Bounds()
			Expect(w).To(Equal(100.0))
			Expect(h).To(Equal(50.0))
		})
	})

	Describe("Update", func() {
		It("rejects negative and non-finite timesteps", func() {
			Expect(s.Update(-0.1)).To(MatchError(sim.ErrInvalidTimestep))
			Expect(s.Update(math.NaN())).To(MatchError(sim.ErrInvalidTimestep))
			Expect(s.Update(math.Inf(1))).To(MatchError(sim.ErrInvalidTimestep))
			Expect(s.Tick()).To(Equal(0))
		})

		It("accumulates simulated time", func() {
			Expect(s.Update(0.5)).To(Succeed())
			Expect(s.Update(0.25)).To(Succeed())
			Expect(s.Time()).To(BeNumerically("~", 0.75, 1e-12))
			Expect(s.Tick()).To(Equal(2))
		})

		It("integrates with semi-implicit Euler", func() {
			p := particle.MustNew(particle.Options{X: 100, Y: 100, Mass: 2,
				Forces: []particle.Force{particle.ForceFunc(func(*particle.Particle, particle.Context) (float64, float64) {
					return 4, 0
				})}})
			Expect(s.AddParticles(p)).To(Succeed())
			Expect(s.Update(1)).To(Succeed())

			Expect(p.AX).To(Equal(2.0))
			Expect(p.VX).To(Equal(2.0))
			Expect(p.X).To(Equal(102.0))
		})

		It("keeps phase in [0, 2π)", func() {
			p := particle.MustNew(particle.Options{X: 10, Y: 10, Phase: 6, PhaseRate: 1})
			Expect(s.AddParticles(p)).To(Succeed())
			Expect(s.Update(0.5)).To(Succeed())
			Expect(p.Phase).To(BeNumerically("~", 6.5-2*math.Pi, 1e-9))
			Expect(p.Phase).To(BeNumerically(">=", 0))
			Expect(p.Phase).To(BeNumerically("<", 2*math.Pi))
		})
	})

	Describe("staging", func() {
		It("merges particles at the start of the next update", func() {
			p := particle.MustNew(particle.Options{X: 1, Y: 1})
			Expect(s.AddParticles(p)).To(Succeed())
			Expect(s.Particles()).To(BeEmpty())
			Expect(s.Pending()).To(Equal(1))

			Expect(s.Update(0)).To(Succeed())
			Expect(s.Particles()).To(ConsistOf(p))
			Expect(s.Stats().Added).To(Equal(1))
		})

		It("rejects nil and duplicate particles atomically", func() {
			p := particle.MustNew(particle.Options{})
			q := particle.MustNew(particle.Options{})

			Expect(s.AddParticles(p, nil)).To(MatchError(sim.ErrNilParticle))
			Expect(s.AddParticles(q, q)).To(MatchError(sim.ErrDuplicateID))
			Expect(s.Pending()).To(Equal(0))

			Expect(s.AddParticles(p)).To(Succeed())
			Expect(s.AddParticles(p)).To(MatchError(sim.ErrDuplicateID))
			Expect(s.Update(0)).To(Succeed())
			Expect(s.AddParticles(p)).To(MatchError(sim.ErrDuplicateID))
		})

		It("keeps particles added by a behavior out of the current tick", func() {
			parent := particle.MustNew(particle.Options{X: 100, Y: 100, Collidable: true,
				Forces: []particle.Force{&spawner{}}})
			Expect(s.AddParticles(parent)).To(Succeed())

			Expect(s.Update(0)).To(Succeed())
			Expect(s.Particles()).To(HaveLen(1))
			Expect(s.Pending()).To(Equal(1))
			Expect(s.Neighbors(parent.ID())).To(BeEmpty())

			Expect(s.Update(0)).To(Succeed())
			Expect(s.Particles()).To(HaveLen(2))
			child := s.Particles()[1]
			Expect(s.Neighbors(parent.ID())).To(HaveKey(child.ID()))
		})

		It("removes flagged particles on the following tick", func() {
			p := particle.MustNew(particle.Options{X: 10, Y: 10, VX: 1})
			Expect(s.AddParticles(p)).To(Succeed())
			Expect(s.Update(0)).To(Succeed())

			p.MarkForRemoval()
			Expect(s.Update(1)).To(Succeed())
			Expect(s.Particles()).To(BeEmpty())
			Expect(s.Stats().Removed).To(Equal(1))
			Expect(p.X).To(Equal(10.0))
		})

		It("frees the id of a removed particle", func() {
			p := particle.MustNew(particle.Options{})
			Expect(s.AddParticles(p)).To(Succeed())
			Expect(s.Update(0)).To(Succeed())
			p.MarkForRemoval()
			Expect(s.Update(0)).To(Succeed())
			Expect(s.AddParticles(particle.MustNew(particle.Options{}))).To(Succeed())
		})

		It("clears live, staged and snapshot state", func() {
			Expect(s.AddParticles(particle.MustNew(particle.Options{}))).To(Succeed())
			Expect(s.Update(0)).To(Succeed())
			Expect(s.AddParticles(particle.MustNew(particle.Options{}))).To(Succeed())

			s.Clear()
			Expect(s.Particles()).To(BeEmpty())
			Expect(s.Pending()).To(Equal(0))
			Expect(s.Snapshot()).To(BeNil())

			q := particle.MustNew(particle.Options{X: 3})
			Expect(s.AddParticles(q)).To(Succeed())
			Expect(s.Update(0)).To(Succeed())
			Expect(s.Snapshot().Len()).To(Equal(1))
			Expect(s.Snapshot().Has(q.ID())).To(BeTrue())
		})
	})

	Describe("neighbor index", func() {
		It("is symmetric", func() {
			rng := rand.New(rand.NewSource(42))
			var ps []*particle.Particle
			for i := 0; i < 60; i++ {
				ps = append(ps, particle.MustNew(particle.Options{
					X: rng.Float64() * 200, Y: rng.Float64() * 200,
					Size: 10, Collidable: true,
				}))
			}
			Expect(s.AddParticles(ps...)).To(Succeed())
			Expect(s.Update(0)).To(Succeed())

			for _, a := range ps {
				for id, n := range s.Neighbors(a.ID()) {
					back, ok := s.Neighbors(id)[a.ID()]
					Expect(ok).To(BeTrue())
					Expect(back.DX).To(Equal(-n.DX))
					Expect(back.DY).To(Equal(-n.DY))
					Expect(back.Distance).To(Equal(n.Distance))
				}
			}
		})

		It("prunes pairs beyond four times the interaction radius", func() {
			a := particle.MustNew(particle.Options{X: 100, Y: 100, Size: 20, Collidable: true})
			near := particle.MustNew(particle.Options{X: 115, Y: 100, Size: 20, Collidable: true})
			far := particle.MustNew(particle.Options{X: 100, Y: 145, Size: 20, Collidable: true})
			Expect(s.AddParticles(a, near, far)).To(Succeed())
			Expect(s.Update(0)).To(Succeed())

			Expect(s.Neighbors(a.ID())).To(HaveKey(near.ID()))
			Expect(s.Neighbors(a.ID())).NotTo(HaveKey(far.ID()))
		})

		It("skips particles that need no neighbor context", func() {
			a := particle.MustNew(particle.Options{X: 10, Y: 10, Collidable: true})
			b := particle.MustNew(particle.Options{X: 12, Y: 10})
			Expect(s.AddParticles(a, b)).To(Succeed())
			Expect(s.Update(0)).To(Succeed())

			Expect(s.Neighbors(a.ID())).To(BeEmpty())
			Expect(s.Neighbors(b.ID())).To(BeEmpty())
		})

		It("includes neighbor-aware behaviors", func() {
			seen := 0
			counter := particle.WithNeighbors(particle.ForceFunc(func(p *particle.Particle, ctx particle.Context) (float64, float64) {
				seen = len(ctx.Neighbors(p.ID()))
				return 0, 0
			}))
			a := particle.MustNew(particle.Options{X: 10, Y: 10, Forces: []particle.Force{counter}})
			b := particle.MustNew(particle.Options{X: 20, Y: 10, Collidable: true})
			Expect(s.AddParticles(a, b)).To(Succeed())
			Expect(s.Update(0)).To(Succeed())
			Expect(seen).To(Equal(1))
		})

		It("honors an explicit minimum radius", func() {
			a := particle.MustNew(particle.Options{X: 0, Y: 0, CollisionRadius: 1, Collidable: true})
			b := particle.MustNew(particle.Options{X: 50, Y: 0, CollisionRadius: 1, Collidable: true})
			Expect(s.AddParticles(a, b)).To(Succeed())
			Expect(s.Update(0)).To(Succeed())
			Expect(s.Neighbors(a.ID())).To(BeEmpty())

			s.ComputeNeighbors(60)
			Expect(s.Neighbors(a.ID())).To(HaveKey(b.ID()))
		})

		It("leaves the index stale when no particle needs neighbors", func() {
			a := particle.MustNew(particle.Options{X: 100, Y: 100, Size: 20, Collidable: true})
			b := particle.MustNew(particle.Options{X: 130, Y: 100, Size: 20, Collidable: true})
			Expect(s.AddParticles(a, b)).To(Succeed())
			Expect(s.Update(0)).To(Succeed())
			Expect(s.Neighbors(a.ID())).To(HaveLen(1))

			a.Collidable, b.Collidable = false, false
			b.X = 700
			Expect(s.Update(0)).To(Succeed())
			Expect(s.Neighbors(a.ID())).To(HaveKey(b.ID()))
			Expect(s.Neighbors(a.ID())[b.ID()].Distance).To(Equal(30.0))
		})

		It("leaves staged particles out of ComputeNeighbors", func() {
			a := particle.MustNew(particle.Options{X: 100, Y: 100, Size: 20, Collidable: true})
			b := particle.MustNew(particle.Options{X: 120, Y: 100, Size: 20, Collidable: true})
			Expect(s.AddParticles(a, b)).To(Succeed())
			Expect(s.Update(0)).To(Succeed())

			c := particle.MustNew(particle.Options{X: 100, Y: 110, Size: 20, Collidable: true})
			Expect(s.AddParticles(c)).To(Succeed())
			Expect(s.Pending()).To(Equal(1))

			s.ComputeNeighbors(0)
			Expect(s.Neighbors(a.ID())).To(HaveKey(b.ID()))
			Expect(s.Neighbors(a.ID())).NotTo(HaveKey(c.ID()))
			Expect(s.Neighbors(c.ID())).To(BeEmpty())

			Expect(s.Update(0)).To(Succeed())
			Expect(s.Neighbors(a.ID())).To(HaveKey(c.ID()))
		})

		It("returns independent empty maps for unknown ids", func() {
			a := particle.MustNew(particle.Options{X: 10, Y: 10})
			b := particle.MustNew(particle.Options{X: 20, Y: 10})
			Expect(s.AddParticles(a, b)).To(Succeed())
			Expect(s.Update(0)).To(Succeed())

			m := s.Neighbors(a.ID())
			m[b.ID()] = particle.Neighbor{Particle: b, Distance: 10}
			Expect(s.Neighbors(b.ID())).To(BeEmpty())
			Expect(s.Neighbors(a.ID())).To(BeEmpty())
		})
	})

	Describe("collisions", func() {
		It("exchanges velocities in a head-on elastic collision", func() {
			a := particle.MustNew(particle.Options{X: 100, Y: 100, VX: 5, Size: 20, Collidable: true})
			b := particle.MustNew(particle.Options{X: 110, Y: 100, VX: -5, Size: 20, Collidable: true})
			Expect(s.AddParticles(a, b)).To(Succeed())
			Expect(s.Update(0)).To(Succeed())

			Expect(a.VX).To(BeNumerically("~", -5, 1e-9))
			Expect(b.VX).To(BeNumerically("~", 5, 1e-9))
			Expect(a.Mass*a.VX + b.Mass*b.VX).To(BeNumerically("~", 0, 1e-9))
			Expect(s.Stats().Collisions).To(Equal(1))
		})

		It("conserves momentum for unequal masses", func() {
			a := particle.MustNew(particle.Options{X: 100, Y: 100, VX: 3, VY: 1, Mass: 2, Size: 20, Collidable: true})
			b := particle.MustNew(particle.Options{X: 108, Y: 104, VX: -1, Mass: 5, Size: 20, Collidable: true})
			px := a.Mass*a.VX + b.Mass*b.VX
			py := a.Mass*a.VY + b.Mass*b.VY
			Expect(s.AddParticles(a, b)).To(Succeed())
			Expect(s.Update(0)).To(Succeed())

			Expect(a.Mass*a.VX + b.Mass*b.VX).To(BeNumerically("~", px, 1e-9))
			Expect(a.Mass*a.VY + b.Mass*b.VY).To(BeNumerically("~", py, 1e-9))
		})

		It("does not increase kinetic energy when restitution is below one", func() {
			rng := rand.New(rand.NewSource(3))
			for i := 0; i < 50; i++ {
				sys := newSystem(800, 600)
				e := particle.Restitution(rng.Float64() * 0.99)
				a := particle.MustNew(particle.Options{X: 100, Y: 100,
					VX: rng.Float64()*10 - 5, VY: rng.Float64()*10 - 5,
					Mass: 0.5 + rng.Float64()*3, Size: 20, Collidable: true, Restitution: e})
				b := particle.MustNew(particle.Options{X: 100 + rng.Float64()*10 - 5, Y: 100 + rng.Float64()*10 - 5,
					VX: rng.Float64()*10 - 5, VY: rng.Float64()*10 - 5,
					Mass: 0.5 + rng.Float64()*3, Size: 20, Collidable: true, Restitution: e})
				before := kinetic(a, b)
				Expect(sys.AddParticles(a, b)).To(Succeed())
				Expect(sys.Update(0)).To(Succeed())
				Expect(kinetic(a, b)).To(BeNumerically("<=", before+1e-9))
			}
		})

		It("ignores non-collidable particles", func() {
			a := particle.MustNew(particle.Options{X: 100, Y: 100, VX: 5, Size: 20, Collidable: true})
			b := particle.MustNew(particle.Options{X: 105, Y: 100, VX: -5, Size: 20})
			Expect(s.AddParticles(a, b)).To(Succeed())
			Expect(s.Update(0)).To(Succeed())
			Expect(a.VX).To(Equal(5.0))
			Expect(b.VX).To(Equal(-5.0))
		})
	})

	Describe("boundaries", func() {
		It("wraps periodic edges", func() {
			p := particle.MustNew(particle.Options{X: 801, Y: 100})
			Expect(s.AddParticles(p)).To(Succeed())
			Expect(s.Update(0)).To(Succeed())
			Expect(p.X).To(Equal(0.0))
		})

		It("reflects with restitution", func() {
			p := particle.MustNew(particle.Options{X: 100, Y: -1, VY: -5,
				Restitution: particle.Restitution(0.8),
				Boundaries:  particle.AllEdges(particle.Reflecting)})
			Expect(s.AddParticles(p)).To(Succeed())
			Expect(s.Update(0)).To(Succeed())
			Expect(p.Y).To(Equal(0.0))
			Expect(p.VY).To(BeNumerically("~", 4, 1e-12))
		})

		It("restores every particle when one crosses a reset edge", func() {
			a := particle.MustNew(particle.Options{X: 10, Y: 10, Boundaries: particle.AllEdges(particle.Reset)})
			b := particle.MustNew(particle.Options{X: 50, Y: 60, VX: 1})
			Expect(s.AddParticles(a, b)).To(Succeed())
			Expect(s.Update(0)).To(Succeed())
			Expect(s.Snapshot().Len()).To(Equal(2))

			a.X, a.Y = 500, 500
			b.X, b.VX = 300, 7
			Expect(s.Update(0)).To(Succeed())
			Expect(a.X).To(Equal(500.0))

			a.X = 900
			Expect(s.Update(0)).To(Succeed())
			Expect(a.X).To(Equal(10.0))
			Expect(a.Y).To(Equal(10.0))
			Expect(b.X).To(Equal(50.0))
			Expect(b.Y).To(Equal(60.0))
			Expect(b.VX).To(Equal(1.0))
			Expect(s.Stats().Resets).To(Equal(1))
		})

		It("leaves particles added after the snapshot alone on reset", func() {
			a := particle.MustNew(particle.Options{X: 10, Y: 10, Boundaries: particle.AllEdges(particle.Reset)})
			Expect(s.AddParticles(a)).To(Succeed())
			Expect(s.Update(0)).To(Succeed())

			late := particle.MustNew(particle.Options{X: 400, Y: 400})
			Expect(s.AddParticles(late)).To(Succeed())
			Expect(s.Update(0)).To(Succeed())

			a.X = -20
			Expect(s.Update(0)).To(Succeed())
			Expect(a.X).To(Equal(10.0))
			Expect(late.X).To(Equal(400.0))
		})

		It("restores the snapshotted behavior list", func() {
			push := particle.ForceFunc(func(*particle.Particle, particle.Context) (float64, float64) { return 0, 0 })
			a := particle.MustNew(particle.Options{X: 10, Y: 10, Forces: []particle.Force{push},
				Boundaries: particle.AllEdges(particle.Reset)})
			Expect(s.AddParticles(a)).To(Succeed())
			Expect(s.Update(0)).To(Succeed())

			a.SetForces(nil)
			a.X = -1
			Expect(s.Update(0)).To(Succeed())
			Expect(a.Forces()).To(HaveLen(1))
		})
	})

	Describe("behavior failures", func() {
		var good, bad particle.Force

		BeforeEach(func() {
			good = particle.ForceFunc(func(*particle.Particle, particle.Context) (float64, float64) { return 1, 0 })
			bad = particle.ForceFunc(func(*particle.Particle, particle.Context) (float64, float64) { panic("boom") })
		})

		It("stops the tick under FailFast", func() {
			p := particle.MustNew(particle.Options{Forces: []particle.Force{good, bad}})
			Expect(s.AddParticles(p)).To(Succeed())

			err := s.Update(1)
			var be *sim.BehaviorError
			Expect(errors.As(err, &be)).To(BeTrue())
			Expect(be.ParticleID).To(Equal(p.ID()))
			Expect(be.Index).To(Equal(1))

			var pe *sim.PanicError
			Expect(errors.As(err, &pe)).To(BeTrue())
			Expect(pe.Value).To(Equal("boom"))
		})

		It("skips the failing behavior under Isolate", func() {
			iso, err := sim.New(sim.Config{Width: 100, Height: 100, FailurePolicy: sim.Isolate, Logger: log.New(io.Discard)})
			Expect(err).NotTo(HaveOccurred())

			p := particle.MustNew(particle.Options{X: 10, Y: 10, Forces: []particle.Force{bad, good}})
			Expect(iso.AddParticles(p)).To(Succeed())
			Expect(iso.Update(1)).To(Succeed())

			Expect(p.VX).To(Equal(1.0))
			Expect(iso.Stats().Failures).To(Equal(1))
		})

		It("treats non-finite forces as failures", func() {
			nan := particle.ForceFunc(func(*particle.Particle, particle.Context) (float64, float64) { return math.NaN(), 0 })
			p := particle.MustNew(particle.Options{Forces: []particle.Force{nan}})
			Expect(s.AddParticles(p)).To(Succeed())
			Expect(s.Update(1)).To(MatchError(sim.ErrNonFiniteForce))
		})

		It("rejects a mass made invalid after construction", func() {
			p := particle.MustNew(particle.Options{})
			Expect(s.AddParticles(p)).To(Succeed())
			p.Mass = 0
			Expect(s.Update(1)).To(MatchError(sim.ErrInvalidMass))
		})
	})

	Describe("Run", func() {
		It("stops when the context is cancelled", func() {
			ctx, cancel := context.WithCancel(context.Background())
			cancel()
			Expect(s.Run(ctx, 0.1, 10)).To(MatchError(context.Canceled))
			Expect(s.Tick()).To(Equal(0))
		})

		It("notifies metrics and observers every tick", func() {
			obs := &countingObserver{}
			s.AddObserver(obs)
			Expect(s.AddParticles(particle.MustNew(particle.Options{}))).To(Succeed())
			Expect(s.Run(context.Background(), 0.1, 5)).To(Succeed())
			Expect(obs.ticks).To(Equal(5))
			Expect(obs.last.Stats.Live).To(Equal(1))
		})
	})
})

type countingObserver struct {
	ticks int
	last  sim.Frame
}

func (o *countingObserver) OnTick(f sim.Frame) {
	o.ticks++
	o.last = f
}
