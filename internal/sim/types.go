package sim

import (
	"github.com/charmbracelet/log"

	"github.com/san-kum/glyphsim/internal/particle"
)

// FailurePolicy decides what happens when a force behavior panics or
// returns a non-finite force.
type FailurePolicy int

const (
	// FailFast aborts the tick and returns a *BehaviorError from Update.
	FailFast FailurePolicy = iota
	// Isolate logs the failure and drops that behavior's contribution for
	// the current tick.
	Isolate
)

func (f FailurePolicy) String() string {
	if f == Isolate {
		return "isolate"
	}
	return "fail-fast"
}

// Config holds construction parameters for a System.
type Config struct {
	Width  float64
	Height float64
	Seed   int64

	// NeighborRadius is a lower bound on the pruning cutoff used by the
	// per-tick neighbor rebuild. Zero keeps the 4×radius rule alone.
	NeighborRadius float64

	FailurePolicy FailurePolicy

	// ValidateState makes Update fail with ErrInvalidState when a particle
	// ends the tick with NaN or Inf position or velocity.
	ValidateState bool

	Logger *log.Logger
}

func DefaultConfig() Config {
	return Config{
		Width:         1280,
		Height:        720,
		FailurePolicy: FailFast,
		ValidateState: true,
	}
}

// Stats summarises the most recent tick.
type Stats struct {
	Tick       int
	Time       float64
	Live       int
	Added      int
	Removed    int
	Active     int // particles in the neighbor scan
	Pairs      int // unordered pairs admitted to the neighbor index
	Collisions int // impulses applied
	Resets     int // snapshot restores triggered by the reset policy
	Failures   int // isolated behavior failures
}

// Frame is what metrics and observers see after each tick. Particles is the
// live collection and must not be mutated.
type Frame struct {
	Tick      int
	Time      float64
	Dt        float64
	Width     float64
	Height    float64
	Particles []*particle.Particle
	Stats     Stats
}

type Metric interface {
	Name() string
	Observe(f Frame)
	Value() float64
	Reset()
}

type Observer interface {
	OnTick(f Frame)
}
