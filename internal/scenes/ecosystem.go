package scenes

import (
	"math"
	"math/rand"

	"github.com/san-kum/glyphsim/internal/config"
	"github.com/san-kum/glyphsim/internal/forces"
	"github.com/san-kum/glyphsim/internal/particle"
)

const (
	Prey     = "prey"
	Predator = "predator"
)

const (
	preyDensity        = 0.15
	predatorRatio      = 0.1
	preySpeed          = 1.0
	fleeRadius         = 5.0
	reproductionEnergy = 150.0
	spawnCost          = 75.0
	spawnCooldown      = 5.0
	grazeRate          = 10.0
	predatorSpeed      = 1.5
	huntRadius         = 1.0
	energyDrain        = 3.0
	energyGain         = 100.0
	ecosystemDrag      = 0.5
)

// Creature is the ecosystem payload. Energy changes with elapsed
// simulation time measured from Clock.
type Creature struct {
	Species   string
	Energy    float64
	LastSpawn float64
	Clock     float64
}

func (c *Creature) Kind() string { return c.Species }

func (c *Creature) ClonePayload() particle.Payload {
	cp := *c
	return &cp
}

// elapsed advances the creature's clock to now and returns the time since
// the previous call.
func (c *Creature) elapsed(now float64) float64 {
	dt := now - c.Clock
	c.Clock = now
	if dt < 0 {
		return 0
	}
	return dt
}

// Ecosystem is a predator-prey system. Prey graze, flee predators and
// split when they have stored enough energy; predators burn energy, chase
// the nearest prey and starve when they run out.
func Ecosystem() Scene {
	return Scene{
		Name:        "ecosystem",
		Description: "Predator-prey dynamics with wolves and sheep",
		Defaults: func(cfg *config.Config) {
			cfg.Particle.Size = 28
			setBoundaries(cfg, particle.Periodic)
			cfg.NeighborRadius = cfg.Particle.Size * fleeRadius
			cfg.SetParam("prey_density", preyDensity)
			cfg.SetParam("predator_ratio", predatorRatio)
			cfg.SetParam("prey_speed", preySpeed)
			cfg.SetParam("flee_radius", fleeRadius)
			cfg.SetParam("reproduction_energy", reproductionEnergy)
			cfg.SetParam("graze_rate", grazeRate)
			cfg.SetParam("predator_speed", predatorSpeed)
			cfg.SetParam("hunt_radius", huntRadius)
			cfg.SetParam("energy_drain", energyDrain)
			cfg.SetParam("energy_gain", energyGain)
		},
		Build: buildEcosystem,
	}
}

type preyBehavior struct {
	flee      forces.Flee
	wander    forces.Wander
	cell      float64
	threshold float64
	graze     float64
}

func (preyBehavior) NeedsNeighbors() bool { return true }

func (b preyBehavior) Apply(p *particle.Particle, ctx particle.Context) (float64, float64) {
	fx, fy := b.flee.Apply(p, ctx)
	wx, wy := b.wander.Apply(p, ctx)
	fx += wx
	fy += wy

	c, ok := p.Payload.(*Creature)
	if !ok {
		return fx, fy
	}
	now := ctx.Time()
	c.Energy += b.graze * c.elapsed(now)

	if c.Energy >= b.threshold && now-c.LastSpawn > spawnCooldown {
		c.Energy -= spawnCost
		c.LastSpawn = now

		child := p.Clone()
		rng := ctx.Rand()
		child.X += rng.Float64()*b.cell - b.cell/2
		child.Y += rng.Float64()*b.cell - b.cell/2
		if cc, ok := child.Payload.(*Creature); ok {
			cc.Energy = spawnCost
			cc.LastSpawn = now
		}
		if err := ctx.AddParticles(child); err != nil {
			panic(err)
		}
	}
	return fx, fy
}

type predatorBehavior struct {
	chase  forces.Chase
	wander forces.Wander
	drain  float64
	gain   float64
}

func (predatorBehavior) NeedsNeighbors() bool { return true }

func (b predatorBehavior) Apply(p *particle.Particle, ctx particle.Context) (float64, float64) {
	c, ok := p.Payload.(*Creature)
	if ok {
		c.Energy -= b.drain * c.elapsed(ctx.Time())
		if c.Energy <= 0 {
			p.MarkForRemoval()
			return 0, 0
		}
	}

	if _, found := forces.Nearest(p, ctx, b.chase.Target); !found {
		return b.wander.Apply(p, ctx)
	}
	chase := b.chase
	chase.OnCatch = func(hunter, prey *particle.Particle) {
		prey.MarkForRemoval()
		if hc, ok := hunter.Payload.(*Creature); ok {
			hc.Energy += b.gain
		}
	}
	return chase.Apply(p, ctx)
}

func buildEcosystem(cfg *config.Config, rng *rand.Rand) ([]*particle.Particle, error) {
	opts, err := baseOptions(cfg)
	if err != nil {
		return nil, err
	}
	cell := cellSize(cfg)
	cols := math.Floor(cfg.Width / cell)
	rows := math.Floor(cfg.Height / cell)
	preyCount := int(cols * rows * cfg.Param("prey_density", preyDensity))
	predatorCount := int(float64(preyCount) * cfg.Param("predator_ratio", predatorRatio))

	drag := forces.Drag{K: ecosystemDrag}
	prey := preyBehavior{
		flee: forces.Flee{
			Threat:   forces.OfKind(Predator),
			Radius:   cell * cfg.Param("flee_radius", fleeRadius),
			Strength: 10 * cell,
		},
		wander:    forces.Wander{Strength: cell * cfg.Param("prey_speed", preySpeed)},
		cell:      cell,
		threshold: cfg.Param("reproduction_energy", reproductionEnergy),
		graze:     cfg.Param("graze_rate", grazeRate),
	}
	speed := cfg.Param("predator_speed", predatorSpeed)
	predator := predatorBehavior{
		chase: forces.Chase{
			Target:      forces.OfKind(Prey),
			Strength:    8 * cell * speed,
			CatchRadius: cell * cfg.Param("hunt_radius", huntRadius),
		},
		wander: forces.Wander{Strength: cell * speed},
		drain:  cfg.Param("energy_drain", energyDrain),
		gain:   cfg.Param("energy_gain", energyGain),
	}

	ps := make([]*particle.Particle, 0, preyCount+predatorCount)
	spawn := func(species string, n int, scale float64, glyph rune, color string, energy float64, behavior particle.Force) error {
		for i := 0; i < n; i++ {
			o := opts
			o.X = rng.Float64() * cfg.Width
			o.Y = rng.Float64() * cfg.Height
			o.VX = (rng.Float64() - 0.5) * cell * scale
			o.VY = (rng.Float64() - 0.5) * cell * scale
			o.Size = cell * scale
			o.Visual.Glyph = glyph
			o.Visual.LockGlyph = true
			o.Visual.Color = color
			o.Payload = &Creature{Species: species, Energy: energy}
			o.Forces = []particle.Force{behavior, drag, forces.Torus{}}
			p, err := particle.New(o)
			if err != nil {
				return err
			}
			ps = append(ps, p)
		}
		return nil
	}

	if err := spawn(Prey, preyCount, 1, '🐑', "rgb(0,255,0)", 100, prey); err != nil {
		return nil, err
	}
	if err := spawn(Predator, predatorCount, 1.2, '🐺', "rgb(255,0,0)", 150, predator); err != nil {
		return nil, err
	}
	return ps, nil
}

// Census counts live particles per species.
func Census(ps []*particle.Particle) map[string]int {
	out := map[string]int{}
	for _, p := range ps {
		if p.Removed() {
			continue
		}
		if c, ok := p.Payload.(*Creature); ok {
			out[c.Species]++
		}
	}
	return out
}
