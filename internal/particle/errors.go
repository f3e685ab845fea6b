package particle

import "errors"

// Construction errors. New rejects invalid input instead of clamping it.
var (
	// ErrInvalidMass indicates a mass that is zero, negative or not finite.
	ErrInvalidMass = errors.New("particle: mass must be positive and finite")

	// ErrInvalidRestitution indicates a negative or non-finite restitution.
	ErrInvalidRestitution = errors.New("particle: restitution must be non-negative")

	// ErrInvalidProbability indicates a boundary probability outside [0, 1].
	ErrInvalidProbability = errors.New("particle: boundary probability outside [0, 1]")

	// ErrNonFinite indicates a NaN or Inf kinematic value.
	ErrNonFinite = errors.New("particle: non-finite kinematic value")

	// ErrUnknownPolicy indicates a boundary tag that does not name a policy.
	ErrUnknownPolicy = errors.New("particle: unknown boundary policy")
)
