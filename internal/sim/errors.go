package sim

import (
	"errors"
	"fmt"

	"github.com/san-kum/glyphsim/internal/particle"
)

// Domain errors for simulation operations.
var (
	// ErrInvalidTimestep indicates a negative or non-finite dt.
	ErrInvalidTimestep = errors.New("sim: timestep must be non-negative and finite")

	// ErrInvalidBounds indicates a non-positive or non-finite width or height.
	ErrInvalidBounds = errors.New("sim: bounds must be positive and finite")

	// ErrNilParticle indicates a nil entry passed to AddParticles.
	ErrNilParticle = errors.New("sim: nil particle")

	// ErrDuplicateID indicates a particle whose id is already live or staged.
	ErrDuplicateID = errors.New("sim: duplicate particle id")

	// ErrInvalidState indicates NaN or Inf in a particle after integration.
	ErrInvalidState = errors.New("sim: invalid particle state (NaN or Inf detected)")

	// ErrNonFiniteForce indicates a behavior returned NaN or Inf.
	ErrNonFiniteForce = errors.New("sim: behavior returned non-finite force")

	// ErrInvalidMass indicates a live particle whose mass was mutated to a
	// non-positive value.
	ErrInvalidMass = errors.New("sim: particle mass must be positive")
)

// BehaviorError wraps a failure raised by one force behavior.
type BehaviorError struct {
	ParticleID particle.ID
	Index      int // position in the particle's force list
	Tick       int
	Cause      error
}

func (e *BehaviorError) Error() string {
	return fmt.Sprintf("tick %d: particle %s behavior %d: %v", e.Tick, e.ParticleID, e.Index, e.Cause)
}

func (e *BehaviorError) Unwrap() error {
	return e.Cause
}

// PanicError carries a value recovered from a panicking behavior.
type PanicError struct {
	Value any
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("behavior panicked: %v", e.Value)
}
