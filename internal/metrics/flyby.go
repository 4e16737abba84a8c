package metrics

import (
	"math"

	"github.com/san-kum/swingby/internal/dynamo"
	"github.com/san-kum/swingby/internal/physics"
	"gonum.org/v1/gonum/spatial/r2"
)

// Metric accumulates a scalar over the samples of a trajectory.
type Metric interface {
	Name() string
	Observe(primary, probe dynamo.BodyState, t float64)
	Value() float64
	Reset()
}

// Evaluate feeds every sample of traj to ms and collects their values.
func Evaluate(traj *dynamo.Trajectory, ms ...Metric) map[string]float64 {
	for _, m := range ms {
		m.Reset()
	}
	for i := 0; i < traj.Len(); i++ {
		primary, probe := traj.Sample(i)
		t := traj.Time(i)
		for _, m := range ms {
			m.Observe(primary, probe, t)
		}
	}
	out := make(map[string]float64, len(ms))
	for _, m := range ms {
		out[m.Name()] = m.Value()
	}
	return out
}

// Defaults returns the flyby metrics for a run of p.
func Defaults(p dynamo.Params) []Metric {
	return []Metric{
		NewClosestApproach(),
		NewClosestApproachTime(),
		NewPeakSpeed(),
		NewSpeedGain(),
		NewEnergyChange(p.G, p.PrimaryMass),
	}
}

// ClosestApproach is the minimum primary to probe separation in m.
type ClosestApproach struct {
	name string
	min  float64
	at   float64
}

func NewClosestApproach() *ClosestApproach {
	c := &ClosestApproach{name: "closest_approach"}
	c.Reset()
	return c
}

func (c *ClosestApproach) Name() string { return c.name }

func (c *ClosestApproach) Observe(primary, probe dynamo.BodyState, t float64) {
	d := dynamo.Separation(probe.Position, primary.Position)
	if d < c.min {
		c.min = d
		c.at = t
	}
}

func (c *ClosestApproach) Value() float64 { return c.min }

func (c *ClosestApproach) Reset() {
	c.min = math.Inf(1)
	c.at = 0
}

// ClosestApproachTime is the elapsed time in s of the closest approach.
type ClosestApproachTime struct {
	ClosestApproach
}

func NewClosestApproachTime() *ClosestApproachTime {
	c := &ClosestApproachTime{}
	c.Reset()
	c.name = "closest_approach_time"
	return c
}

func (c *ClosestApproachTime) Value() float64 { return c.at }

// PeakSpeed is the highest probe speed in m/s.
type PeakSpeed struct {
	max float64
}

func NewPeakSpeed() *PeakSpeed { return &PeakSpeed{} }

func (p *PeakSpeed) Name() string { return "peak_speed" }

func (p *PeakSpeed) Observe(_, probe dynamo.BodyState, _ float64) {
	p.max = math.Max(p.max, r2.Norm(probe.Velocity))
}

func (p *PeakSpeed) Value() float64 { return p.max }
func (p *PeakSpeed) Reset()         { p.max = 0 }

// SpeedGain is the final minus the initial probe speed in m/s.
type SpeedGain struct {
	first, last float64
	samples     int
}

func NewSpeedGain() *SpeedGain { return &SpeedGain{} }

func (s *SpeedGain) Name() string { return "speed_gain" }

func (s *SpeedGain) Observe(_, probe dynamo.BodyState, _ float64) {
	v := r2.Norm(probe.Velocity)
	if s.samples == 0 {
		s.first = v
	}
	s.last = v
	s.samples++
}

func (s *SpeedGain) Value() float64 {
	if s.samples == 0 {
		return 0
	}
	return s.last - s.first
}

func (s *SpeedGain) Reset() {
	s.first, s.last, s.samples = 0, 0, 0
}

// EnergyChange is the change of the probe's specific orbital energy
// relative to the primary, in J/kg.
type EnergyChange struct {
	g, mass     float64
	first, last float64
	samples     int
}

func NewEnergyChange(g, mass float64) *EnergyChange {
	return &EnergyChange{g: g, mass: mass}
}

func (e *EnergyChange) Name() string { return "energy_change" }

func (e *EnergyChange) Observe(primary, probe dynamo.BodyState, _ float64) {
	energy := physics.SpecificEnergy(e.g, e.mass, primary, probe)
	if e.samples == 0 {
		e.first = energy
	}
	e.last = energy
	e.samples++
}

func (e *EnergyChange) Value() float64 {
	if e.samples == 0 {
		return 0
	}
	return e.last - e.first
}

func (e *EnergyChange) Reset() {
	e.first, e.last, e.samples = 0, 0, 0
}
