package dynamo

import (
	"errors"
	"math"
	"testing"

	"gonum.org/v1/gonum/spatial/r2"
)

func TestParams_Validate(t *testing.T) {
	tests := []struct {
		name  string
		edit  func(p *Params)
		field string
	}{
		{"default", func(p *Params) {}, ""},
		{"zero dt", func(p *Params) { p.Dt = 0 }, "dt"},
		{"negative dt", func(p *Params) { p.Dt = -1 }, "dt"},
		{"zero duration", func(p *Params) { p.Duration = 0 }, "duration"},
		{"zero primary mass", func(p *Params) { p.PrimaryMass = 0 }, "primary_mass"},
		{"negative probe mass", func(p *Params) { p.ProbeMass = -3 }, "probe_mass"},
		{"NaN g", func(p *Params) { p.G = math.NaN() }, "g"},
		{"Inf duration", func(p *Params) { p.Duration = math.Inf(1) }, "duration"},
		{"zero radius", func(p *Params) { p.CollisionRadius = 0 }, "collision_radius"},
		{"NaN probe x", func(p *Params) { p.Probe.Position.X = math.NaN() }, "probe.position.x"},
		{"Inf primary vy", func(p *Params) { p.Primary.Velocity.Y = math.Inf(-1) }, "primary.velocity.y"},
		{"negative budget", func(p *Params) { p.MaxSteps = -1 }, "max_steps"},
		{"grid overflows int", func(p *Params) { p.Dt = 1e-300; p.MaxSteps = 10 }, "dt"},
		{"grid too large", func(p *Params) { p.Dt = 1e-6; p.MaxSteps = 10 }, "dt"},
		{"largest grid", func(p *Params) { p.Duration = MaxSamples; p.Dt = 1 }, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := DefaultParams()
			tt.edit(&p)
			err := p.Validate()
			if tt.field == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, ErrParameterBounds) {
				t.Fatalf("expected ErrParameterBounds, got %v", err)
			}
			var pe *ParamError
			if !errors.As(err, &pe) || pe.Field != tt.field {
				t.Errorf("expected field %q, got %v", tt.field, err)
			}
		})
	}
}

func TestParams_Samples(t *testing.T) {
	tests := []struct {
		duration, dt float64
		expected     int
	}{
		{36 * Day, 0.5 * Hour, 1728},
		{10, 1, 10},
		{10, 3, 4},
		{1, 2, 1},
	}

	for _, tt := range tests {
		p := Params{Duration: tt.duration, Dt: tt.dt}
		if got := p.Samples(); got != tt.expected {
			t.Errorf("Samples(T=%v, dt=%v) = %d, want %d", tt.duration, tt.dt, got, tt.expected)
		}
	}
}

func TestParams_Capacity(t *testing.T) {
	tests := []struct {
		name     string
		maxSteps int
		expected int
	}{
		{"no budget", 0, 1728},
		{"budget below grid", 10, 11},
		{"budget at grid", 1727, 1728},
		{"budget above grid", 5000, 1728},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := DefaultParams()
			p.MaxSteps = tt.maxSteps
			if got := p.Capacity(); got != tt.expected {
				t.Errorf("Capacity() = %d, want %d", got, tt.expected)
			}
		})
	}
}

func TestSeparation(t *testing.T) {
	tests := []struct {
		a, b     r2.Vec
		expected float64
	}{
		{r2.Vec{X: 3, Y: 4}, r2.Vec{}, 5},
		{r2.Vec{X: 1, Y: 1}, r2.Vec{X: 1, Y: 1}, 0},
		{r2.Vec{X: -2}, r2.Vec{X: 2}, 4},
	}

	for _, tt := range tests {
		if got := Separation(tt.a, tt.b); got != tt.expected {
			t.Errorf("Separation(%v, %v) = %v, want %v", tt.a, tt.b, got, tt.expected)
		}
	}
}

func TestStatus_RoundTrip(t *testing.T) {
	for _, s := range []Status{Completed, Collided, Budget, Canceled} {
		got, err := ParseStatus(s.String())
		if err != nil {
			t.Fatalf("ParseStatus(%q): %v", s, err)
		}
		if got != s {
			t.Errorf("ParseStatus(%q) = %v", s, got)
		}
	}

	if _, err := ParseStatus("exploded"); err == nil {
		t.Error("expected error for unknown status")
	}
	if Status(42).String() != "status(42)" {
		t.Errorf("unexpected name %q", Status(42).String())
	}
}

func TestTrajectory_Derived(t *testing.T) {
	traj := &Trajectory{
		Dt:                2,
		PrimaryPositions:  []r2.Vec{{X: 10}, {X: 8}},
		ProbePositions:    []r2.Vec{{}, {X: 2}},
		PrimaryVelocities: []r2.Vec{{X: -1}, {X: -1}},
		ProbeVelocities:   []r2.Vec{{X: 3, Y: 4}, {X: 0, Y: -2}},
		CollisionIndex:    -1,
	}

	if traj.Len() != 2 {
		t.Fatalf("Len() = %d", traj.Len())
	}

	times := traj.Times()
	if times[0] != 0 || times[1] != 2 {
		t.Errorf("Times() = %v", times)
	}

	speeds := traj.Speeds()
	if speeds[0] != 5 || speeds[1] != 2 {
		t.Errorf("Speeds() = %v", speeds)
	}

	seps := traj.Separations()
	if seps[0] != 10 || seps[1] != 6 {
		t.Errorf("Separations() = %v", seps)
	}

	primary, probe, err := traj.Last()
	if err != nil {
		t.Fatal(err)
	}
	if primary.Position.X != 8 || probe.Velocity.Y != -2 {
		t.Errorf("Last() = %v, %v", primary, probe)
	}

	if _, _, err := (&Trajectory{}).Last(); !errors.Is(err, ErrNoSamples) {
		t.Errorf("expected ErrNoSamples, got %v", err)
	}
}
