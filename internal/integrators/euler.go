package integrators

import (
	"context"

	"github.com/san-kum/swingby/internal/dynamo"
	"github.com/san-kum/swingby/internal/physics"
	"gonum.org/v1/gonum/spatial/r2"
)

// Euler integrates a swing-by with a fixed-step explicit Euler scheme.
//
// Per step n the probe velocity is updated from the acceleration at
// (rS_n, rP_n), the primary advances with its initial velocity and the
// probe advances with its velocity before this step's update. The
// separation at (rS_n, rP_n) is then checked against the collision radius.
type Euler struct{}

func NewEuler() *Euler {
	return &Euler{}
}

// Integrate runs p to completion, collision, step budget or cancellation.
// On cancellation the samples produced so far are returned with ctx.Err().
func (e *Euler) Integrate(ctx context.Context, p dynamo.Params) (*dynamo.Trajectory, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	n, size := p.Samples(), p.Capacity()
	traj := &dynamo.Trajectory{
		Dt:                p.Dt,
		Planned:           n,
		PrimaryPositions:  make([]r2.Vec, 0, size),
		ProbePositions:    make([]r2.Vec, 0, size),
		PrimaryVelocities: make([]r2.Vec, 0, size),
		ProbeVelocities:   make([]r2.Vec, 0, size),
		Status:            dynamo.Completed,
		CollisionIndex:    -1,
	}

	dt := p.Dt
	v0P := p.Primary.Velocity
	rP, rS, vS := p.Primary.Position, p.Probe.Position, p.Probe.Velocity
	appendSample(traj, rP, rS, v0P, vS)

	for i := 0; i < n-1; i++ {
		select {
		case <-ctx.Done():
			traj.Status = dynamo.Canceled
			return traj, ctx.Err()
		default:
		}

		if p.MaxSteps > 0 && i >= p.MaxSteps {
			traj.Status = dynamo.Budget
			return traj, nil
		}

		a := physics.Acceleration(p.G, p.PrimaryMass, rP, rS)
		vSNext := r2.Add(vS, r2.Scale(dt, a))
		rPNext := r2.Add(rP, r2.Scale(dt, v0P))
		rSNext := r2.Add(rS, r2.Scale(dt, vS))
		appendSample(traj, rPNext, rSNext, v0P, vSNext)

		d := dynamo.Separation(rS, rP)
		rP, rS, vS = rPNext, rSNext, vSNext

		if d < p.CollisionRadius {
			traj.Status = dynamo.Collided
			traj.CollisionIndex = i
			break
		}
	}

	return traj, nil
}

func appendSample(t *dynamo.Trajectory, rP, rS, vP, vS r2.Vec) {
	t.PrimaryPositions = append(t.PrimaryPositions, rP)
	t.ProbePositions = append(t.ProbePositions, rS)
	t.PrimaryVelocities = append(t.PrimaryVelocities, vP)
	t.ProbeVelocities = append(t.ProbeVelocities, vS)
}
