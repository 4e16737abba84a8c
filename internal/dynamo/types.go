package dynamo

import (
	"context"
	"fmt"
	"math"
	"strings"

	"gonum.org/v1/gonum/spatial/r2"
)

const (
	// GravitationalConstant in m³·kg⁻¹·s⁻².
	GravitationalConstant = 6.674e-11

	// DefaultPrimaryMass is the mass of Jupiter in kg.
	DefaultPrimaryMass = 1.898e27

	// DefaultCollisionRadius is the radius of Jupiter in m.
	DefaultCollisionRadius = 69.911e6

	Hour = 60.0 * 60.0
	Day  = 24 * Hour

	// MaxSamples bounds the time grid of a single run, about 640 MB of
	// samples.
	MaxSamples = 10_000_000
)

// BodyState is the position (m) and velocity (m/s) of a body.
type BodyState struct {
	Position r2.Vec
	Velocity r2.Vec
}

// Params describes a single swing-by run. The probe mass is carried along
// but the force law only uses the primary mass: the primary moves in a
// straight line and is not pulled by the probe.
type Params struct {
	G           float64
	PrimaryMass float64
	ProbeMass   float64
	Primary     BodyState
	Probe       BodyState
	Duration    float64
	Dt          float64

	// CollisionRadius is the separation below which the run ends in impact.
	CollisionRadius float64

	// MaxSteps caps the number of integration steps, 0 means no cap.
	MaxSteps int
}

// DefaultParams returns a Jupiter flyby lasting 36 days with a half hour step.
func DefaultParams() Params {
	return Params{
		G:           GravitationalConstant,
		PrimaryMass: DefaultPrimaryMass,
		ProbeMass:   825,
		Primary: BodyState{
			Position: r2.Vec{X: 20.18e9},
			Velocity: r2.Vec{X: -13e3},
		},
		Probe: BodyState{
			Position: r2.Vec{X: 10e9, Y: 1e9},
		},
		Duration:        36 * Day,
		Dt:              0.5 * Hour,
		CollisionRadius: DefaultCollisionRadius,
	}
}

// Validate reports the first parameter that makes the run degenerate.
func (p Params) Validate() error {
	positive := []struct {
		name  string
		value float64
	}{
		{"g", p.G},
		{"primary_mass", p.PrimaryMass},
		{"probe_mass", p.ProbeMass},
		{"duration", p.Duration},
		{"dt", p.Dt},
		{"collision_radius", p.CollisionRadius},
	}
	for _, f := range positive {
		if !(f.value > 0) || math.IsInf(f.value, 0) {
			return &ParamError{Field: f.name, Value: f.value}
		}
	}

	finite := []struct {
		name string
		v    r2.Vec
	}{
		{"primary.position", p.Primary.Position},
		{"primary.velocity", p.Primary.Velocity},
		{"probe.position", p.Probe.Position},
		{"probe.velocity", p.Probe.Velocity},
	}
	for _, f := range finite {
		if !isFinite(f.v.X) {
			return &ParamError{Field: f.name + ".x", Value: f.v.X}
		}
		if !isFinite(f.v.Y) {
			return &ParamError{Field: f.name + ".y", Value: f.v.Y}
		}
	}

	if p.MaxSteps < 0 {
		return &ParamError{Field: "max_steps", Value: float64(p.MaxSteps)}
	}

	// NaN fails the comparison as well
	if grid := math.Ceil(p.Duration / p.Dt); !(grid <= MaxSamples) {
		return &ParamError{Field: "dt", Value: p.Dt}
	}
	return nil
}

// Samples is the number of grid points t_n = n·dt with t_n < Duration.
// It is only meaningful for parameters that pass Validate.
func (p Params) Samples() int {
	return int(math.Ceil(p.Duration / p.Dt))
}

// Capacity is the most samples a run of p can produce, taking the step
// budget into account.
func (p Params) Capacity() int {
	n := p.Samples()
	if p.MaxSteps > 0 && p.MaxSteps+1 < n {
		return p.MaxSteps + 1
	}
	return n
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// Separation is the Euclidean distance between a and b, summed as
// sqrt(dx²+dy²) rather than with math.Hypot.
func Separation(a, b r2.Vec) float64 {
	d := r2.Sub(a, b)
	return math.Sqrt(d.X*d.X + d.Y*d.Y)
}

// Integrator turns one parameter set into a trajectory.
type Integrator interface {
	Integrate(ctx context.Context, p Params) (*Trajectory, error)
}

// Status tells how an integration ended.
type Status int

const (
	Completed Status = iota
	Collided
	Budget
	Canceled
)

var statusNames = [...]string{"completed", "collided", "budget", "canceled"}

func (s Status) String() string {
	if s < 0 || int(s) >= len(statusNames) {
		return fmt.Sprintf("status(%d)", int(s))
	}
	return statusNames[s]
}

// ParseStatus is the inverse of Status.String.
func ParseStatus(name string) (Status, error) {
	for i, n := range statusNames {
		if strings.EqualFold(n, name) {
			return Status(i), nil
		}
	}
	return 0, fmt.Errorf("dynamo: unknown status %q", name)
}

// Trajectory holds one sample per time index for both bodies. All four
// sequences have the same length and index 0 is the initial condition.
type Trajectory struct {
	Dt      float64
	Planned int

	PrimaryPositions  []r2.Vec
	ProbePositions    []r2.Vec
	PrimaryVelocities []r2.Vec
	ProbeVelocities   []r2.Vec

	Status Status

	// CollisionIndex is the sample whose separation fell below the
	// collision radius, or -1.
	CollisionIndex int
}

// Len is the number of samples actually produced.
func (t *Trajectory) Len() int { return len(t.ProbePositions) }

func (t *Trajectory) Collided() bool { return t.Status == Collided }

// Time converts a sample index to elapsed seconds.
func (t *Trajectory) Time(i int) float64 { return float64(i) * t.Dt }

func (t *Trajectory) Times() []float64 {
	times := make([]float64, t.Len())
	for i := range times {
		times[i] = t.Time(i)
	}
	return times
}

// Speeds returns the probe speed |vS| at every sample.
func (t *Trajectory) Speeds() []float64 {
	speeds := make([]float64, len(t.ProbeVelocities))
	for i, v := range t.ProbeVelocities {
		speeds[i] = r2.Norm(v)
	}
	return speeds
}

// Separations returns the primary to probe distance at every sample.
func (t *Trajectory) Separations() []float64 {
	d := make([]float64, t.Len())
	for i := range d {
		d[i] = Separation(t.ProbePositions[i], t.PrimaryPositions[i])
	}
	return d
}

// Sample returns both body states at index i.
func (t *Trajectory) Sample(i int) (primary, probe BodyState) {
	primary = BodyState{Position: t.PrimaryPositions[i], Velocity: t.PrimaryVelocities[i]}
	probe = BodyState{Position: t.ProbePositions[i], Velocity: t.ProbeVelocities[i]}
	return primary, probe
}

// Last returns the final sample of both bodies.
func (t *Trajectory) Last() (primary, probe BodyState, err error) {
	if t.Len() == 0 {
		return BodyState{}, BodyState{}, ErrNoSamples
	}
	primary, probe = t.Sample(t.Len() - 1)
	return primary, probe, nil
}
