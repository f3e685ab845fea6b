// Package particle defines the physical entity animated by the simulation
// engine and the contracts that plug behavior into it.
//
//   - [Particle]: kinematic state, collision and boundary attributes,
//     an ordered list of force behaviors and an opaque payload
//   - [Force]: a behavior contributing net force each tick
//   - [Context]: the read/stage surface a behavior sees (implemented by
//     the simulation loop)
//   - [Payload]: scene-defined state the engine only carries and clones
//
// # Example
//
//	p, err := particle.New(particle.Options{
//		X: 10, Y: 10, VY: 560, Size: 28,
//		Boundaries: particle.Boundaries{Bottom: particle.RandomDelay},
//	})
//	p.AddForce(forces.Uniform(0, 98))
//
// Particles are owned by the simulation once added. Readers may inspect
// fields between ticks but must not mutate physical state.
package particle
