package physics

import (
	"math"

	"github.com/san-kum/swingby/internal/dynamo"
	"gonum.org/v1/gonum/spatial/r2"
)

// Acceleration of a probe at probe due to a primary of mass m at primary.
// The coefficient G·m/d³ is applied to both components of primary-probe.
// At zero separation the result is Inf or NaN.
func Acceleration(g, m float64, primary, probe r2.Vec) r2.Vec {
	d := dynamo.Separation(probe, primary)
	k := g * m / math.Pow(d, 3)
	return r2.Scale(k, r2.Sub(primary, probe))
}

// SpecificEnergy is the probe's kinetic plus potential energy per unit
// mass in the primary's rest frame. Negative means bound to the primary.
func SpecificEnergy(g, m float64, primary, probe dynamo.BodyState) float64 {
	rel := r2.Sub(probe.Velocity, primary.Velocity)
	d := dynamo.Separation(probe.Position, primary.Position)
	return 0.5*r2.Norm2(rel) - g*m/d
}

// EscapeSpeed at distance d from a body of mass m.
func EscapeSpeed(g, m, d float64) float64 {
	return math.Sqrt(2 * g * m / d)
}
