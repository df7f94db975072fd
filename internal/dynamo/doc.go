// Package dynamo provides core simulation primitives for dynamical systems.
//
// The package defines the fundamental interfaces and types for numerical
// simulation of ordinary differential equations (ODEs):
//
//   - [State]: vector representing system state
//   - [System]: interface for ODE systems (dX/dt = f(X, t))
//   - [Integrator]: numerical stepping scheme
//   - [TimeGrid]: evenly spaced sample times a run is observed at
//   - [Trajectory]: the sampled solution of a run
//
// # Example
//
//	dyn := models.NewCooperation(models.DefaultParams())
//	grid, _ := dynamo.NewTimeGrid(50, dynamo.SamplesPerUnit)
//	s := sim.New(dyn, integrators.NewRK45())
//	tr, err := s.Run(ctx, dynamo.State{20, 20}, grid, dynamo.DefaultConfig())
//
// # Failure
//
// A run either yields a complete [Trajectory] or an error wrapping one of the
// sentinel errors below in a [SimulationError]. Partial trajectories are
// never returned.
package dynamo
