// Package dynamo provides the core types of a swing-by simulation.
//
// A run is described by a [Params] value and produces an immutable
// [Trajectory]:
//
//   - [BodyState]: position and velocity of one body, in SI units
//   - [Params]: gravitational constant, masses, initial states and time grid
//   - [Trajectory]: per-sample positions and velocities of both bodies
//   - [Status]: how the integration ended (completed, collided, ...)
//
// # Example
//
//	p := dynamo.DefaultParams()
//	p.Probe.Position = r2.Vec{X: 1e10, Y: 1e9}
//	traj, err := integrators.NewEuler().Integrate(ctx, p)
//	speeds := traj.Speeds()
//
// # Thread Safety
//
// Params and Trajectory values are not mutated once built and can be
// shared between goroutines.
package dynamo
