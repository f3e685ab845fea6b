// Package sim provides the particle simulation loop.
//
// A [System] advances a collection of [particle.Particle] values once per
// host frame. Each call to [System.Update] runs a fixed sequence:
//
//   - removal of particles flagged in the previous tick
//   - merge of particles staged with [System.AddParticles]
//   - neighbor index rebuild ([Index]) for collidable and neighbor-aware
//     particles
//   - collision impulses and positional correction
//   - force accumulation, semi-implicit Euler integration and per-edge
//     boundary policies
//
// Neighbor data seen by collisions and forces in one tick always reflects
// positions from before that tick's integration.
//
// # Example
//
//	sys, _ := sim.New(sim.Config{Width: 800, Height: 600})
//	sys.AddParticles(scene...)
//	for running {
//		if err := sys.Update(1.0 / 60); err != nil {
//			return err
//		}
//	}
//
// # Thread Safety
//
// System is NOT thread-safe. It is driven synchronously by one host loop;
// run independent Systems in separate goroutines for parallel batches.
package sim
