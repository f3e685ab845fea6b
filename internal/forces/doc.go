// Package forces is a library of reusable force behaviors.
//
// Every behavior implements [particle.Force] and returns a force, not an
// acceleration; the simulation divides by mass. Behaviors that read
// neighbor data implement [particle.NeighborAware] so the particles that
// carry them take part in the neighbor scan.
//
// Field behaviors ([Uniform], [Drag], [CentralOrbit], [Spring],
// [NoiseFlow], [WaveCell]) depend only on the particle and the clock.
// Interaction behaviors ([Gravity], [Flee], [Chase], [Flocking], [Plasma],
// [Helix], [PhaseCoupling]) read [particle.Context.Neighbors]. [LifeGrid]
// and [CrystalGrid] drive cellular automata through display state and
// contribute no force.
package forces
