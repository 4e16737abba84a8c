package config

import (
	"math"
	"os"

	"github.com/san-kum/swingby/internal/dynamo"
	"github.com/san-kum/swingby/internal/physics"
	"gopkg.in/yaml.v3"
	"gonum.org/v1/gonum/spatial/r2"
)

const (
	DefaultBody         = "jupiter"
	DefaultDurationDays = 36.0
	DefaultDtHours      = 0.5
	DefaultProbeMass    = 825.0
	DefaultPrimaryX     = 20.18e9
	DefaultPrimaryVX    = -13e3
	DefaultProbeXGm     = 10.0
	DefaultProbeYGm     = 1.0
)

// Config is a swing-by scenario as written in a YAML file. The primary is
// given in SI units; the probe uses the units of the input form: position
// in 10⁹ m, launch speed in km/s and launch angle in degrees.
type Config struct {
	Name         string        `yaml:"name"`
	Body         string        `yaml:"body"`
	G            float64       `yaml:"g"`
	DurationDays float64       `yaml:"duration_days"`
	DtHours      float64       `yaml:"dt_hours"`
	MaxSteps     int           `yaml:"max_steps"`
	Radius       float64       `yaml:"collision_radius"`
	Primary      PrimaryConfig `yaml:"primary"`
	Probe        ProbeConfig   `yaml:"probe"`
}

type PrimaryConfig struct {
	X  float64 `yaml:"x"`
	Y  float64 `yaml:"y"`
	VX float64 `yaml:"vx"`
	VY float64 `yaml:"vy"`
}

type ProbeConfig struct {
	Mass     float64 `yaml:"mass"`
	XGm      float64 `yaml:"x_gm"`
	YGm      float64 `yaml:"y_gm"`
	SpeedKms float64 `yaml:"speed_kms"`
	AngleDeg float64 `yaml:"angle_deg"`
}

func DefaultConfig() *Config {
	return &Config{
		Name:         "flyby",
		Body:         DefaultBody,
		G:            dynamo.GravitationalConstant,
		DurationDays: DefaultDurationDays,
		DtHours:      DefaultDtHours,
		Primary: PrimaryConfig{
			X:  DefaultPrimaryX,
			VX: DefaultPrimaryVX,
		},
		Probe: ProbeConfig{
			Mass: DefaultProbeMass,
			XGm:  DefaultProbeXGm,
			YGm:  DefaultProbeYGm,
		},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Params converts the scenario to SI simulation parameters. The body
// supplies the primary mass and, unless overridden, the collision radius.
func (c *Config) Params() (dynamo.Params, error) {
	body, err := physics.Lookup(c.Body)
	if err != nil {
		return dynamo.Params{}, err
	}

	p := dynamo.Params{
		G:         c.G,
		ProbeMass: c.Probe.Mass,
		Primary: dynamo.BodyState{
			Position: r2.Vec{X: c.Primary.X, Y: c.Primary.Y},
			Velocity: r2.Vec{X: c.Primary.VX, Y: c.Primary.VY},
		},
		Probe: dynamo.BodyState{
			Position: r2.Vec{X: c.Probe.XGm * 1e9, Y: c.Probe.YGm * 1e9},
			Velocity: LaunchVelocity(c.Probe.SpeedKms, c.Probe.AngleDeg),
		},
		Duration: c.DurationDays * dynamo.Day,
		Dt:       c.DtHours * dynamo.Hour,
		MaxSteps: c.MaxSteps,
	}
	body.Apply(&p)
	if c.Radius > 0 {
		p.CollisionRadius = c.Radius
	}
	return p, nil
}

// LaunchVelocity converts a speed in km/s and an angle in degrees from
// the +x axis to a velocity in m/s.
func LaunchVelocity(speedKms, angleDeg float64) r2.Vec {
	v := speedKms * 1e3
	alpha := angleDeg * math.Pi / 180
	return r2.Vec{X: v * math.Cos(alpha), Y: v * math.Sin(alpha)}
}
