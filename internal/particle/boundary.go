package particle

import (
	"fmt"
	"strings"
)

// Policy names the rule applied when a particle is beyond one edge of the
// simulation bounds.
type Policy string

const (
	// Periodic teleports the particle to the opposite edge.
	Periodic Policy = "periodic"
	// Reflecting clamps to the edge and inverts the normal velocity,
	// scaled by restitution.
	Reflecting Policy = "reflecting"
	// RandomDelay teleports to the opposite edge with probability
	// 1-Probability per tick, giving a staggered wrap.
	RandomDelay Policy = "randomDelay"
	// Reset rolls the whole simulation back to its initial snapshot.
	Reset Policy = "reset"
)

// DefaultBoundaryProbability is used when Boundaries.Probability is zero.
const DefaultBoundaryProbability = 0.975

// Policies lists every known policy in a stable order.
var Policies = []Policy{Periodic, Reflecting, RandomDelay, Reset}

// Valid reports whether p names a known policy.
func (p Policy) Valid() bool {
	switch p {
	case Periodic, Reflecting, RandomDelay, Reset:
		return true
	}
	return false
}

// ParsePolicy resolves a configuration tag. Matching ignores case and
// accepts snake_case and kebab-case spellings of randomDelay.
func ParsePolicy(s string) (Policy, error) {
	norm := strings.ToLower(strings.NewReplacer("_", "", "-", "").Replace(strings.TrimSpace(s)))
	switch norm {
	case "periodic":
		return Periodic, nil
	case "reflecting":
		return Reflecting, nil
	case "randomdelay":
		return RandomDelay, nil
	case "reset":
		return Reset, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownPolicy, s)
}

// Edge identifies one side of the bounds.
type Edge uint8

const (
	Top Edge = iota
	Bottom
	Left
	Right
)

func (e Edge) String() string {
	switch e {
	case Top:
		return "top"
	case Bottom:
		return "bottom"
	case Left:
		return "left"
	case Right:
		return "right"
	}
	return fmt.Sprintf("edge(%d)", uint8(e))
}

// Boundaries holds one policy per edge plus the probability used by
// RandomDelay. An empty policy defaults to Periodic at construction.
type Boundaries struct {
	Top         Policy
	Bottom      Policy
	Left        Policy
	Right       Policy
	Probability float64
}

// AllEdges returns Boundaries with the same policy on every edge.
func AllEdges(p Policy) Boundaries {
	return Boundaries{Top: p, Bottom: p, Left: p, Right: p}
}

// Policy returns the policy configured for edge e.
func (b Boundaries) Policy(e Edge) Policy {
	switch e {
	case Top:
		return b.Top
	case Bottom:
		return b.Bottom
	case Left:
		return b.Left
	case Right:
		return b.Right
	}
	return ""
}

func (b Boundaries) withDefaults() Boundaries {
	if b.Top == "" {
		b.Top = Periodic
	}
	if b.Bottom == "" {
		b.Bottom = Periodic
	}
	if b.Left == "" {
		b.Left = Periodic
	}
	if b.Right == "" {
		b.Right = Periodic
	}
	if b.Probability == 0 {
		b.Probability = DefaultBoundaryProbability
	}
	return b
}

func (b Boundaries) validate() error {
	for _, e := range []Edge{Top, Bottom, Left, Right} {
		if p := b.Policy(e); !p.Valid() {
			return fmt.Errorf("%w: %s edge %q", ErrUnknownPolicy, e, p)
		}
	}
	if b.Probability < 0 || b.Probability > 1 || b.Probability != b.Probability {
		return fmt.Errorf("%w: %v", ErrInvalidProbability, b.Probability)
	}
	return nil
}
