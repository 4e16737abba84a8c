// Package physics provides the force law and body catalogue of a swing-by.
//
// The primary body (a planet) moves in a straight line and pulls the probe;
// the probe does not pull back:
//
//   - [Acceleration]: Newtonian acceleration of the probe towards the primary
//   - [SpecificEnergy]: two-body orbital energy of the probe per unit mass
//   - [Body]: named primary presets with mass and mean radius
//
// # Collision
//
// A body's radius is used as the collision threshold of a run:
//
//	jup, _ := physics.Lookup("jupiter")
//	p := dynamo.DefaultParams()
//	jup.Apply(&p)
package physics
