package integrators

import (
	"context"
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/swingby/internal/dynamo"
	"gonum.org/v1/gonum/spatial/r2"
)

// slowApproach is a run with negligible gravity where the primary closes
// in on a resting probe by half a radius per step.
func slowApproach() dynamo.Params {
	return dynamo.Params{
		G:               1e-30,
		PrimaryMass:     1,
		ProbeMass:       1,
		Primary:         dynamo.BodyState{Position: r2.Vec{X: 10.25}, Velocity: r2.Vec{X: -1}},
		Duration:        100,
		Dt:              0.5,
		CollisionRadius: 1,
	}
}

var _ = Describe("Euler", func() {
	var (
		ctx   context.Context
		euler *Euler
		p     dynamo.Params
	)

	BeforeEach(func() {
		ctx = context.Background()
		euler = NewEuler()
		p = dynamo.DefaultParams()
	})

	Context("on the default Jupiter flyby", func() {
		var traj *dynamo.Trajectory

		BeforeEach(func() {
			var err error
			traj, err = euler.Integrate(ctx, p)
			Expect(err).NotTo(HaveOccurred())
		})

		It("runs the full grid without collision", func() {
			Expect(traj.Status).To(Equal(dynamo.Completed))
			Expect(traj.CollisionIndex).To(Equal(-1))
			Expect(traj.Planned).To(Equal(1728))
			Expect(traj.Len()).To(Equal(1728))
		})

		It("keeps all sequences the same length", func() {
			Expect(traj.PrimaryPositions).To(HaveLen(traj.Len()))
			Expect(traj.PrimaryVelocities).To(HaveLen(traj.Len()))
			Expect(traj.ProbeVelocities).To(HaveLen(traj.Len()))
			Expect(traj.Len()).To(BeNumerically("<=", p.Samples()))
		})

		It("starts exactly at the initial conditions", func() {
			primary, probe := traj.Sample(0)
			Expect(primary).To(Equal(p.Primary))
			Expect(probe).To(Equal(p.Probe))
		})

		It("holds the primary velocity constant", func() {
			for _, v := range traj.PrimaryVelocities {
				Expect(v).To(Equal(p.Primary.Velocity))
			}
		})

		It("moves the primary in a straight line", func() {
			primary, _, err := traj.Last()
			Expect(err).NotTo(HaveOccurred())
			steps := float64(traj.Len() - 1)
			Expect(primary.Position.X).To(Equal(p.Primary.Position.X + p.Primary.Velocity.X*steps*p.Dt))
			Expect(primary.Position.Y).To(Equal(0.0))
		})

		It("derives non-negative probe speeds", func() {
			speeds := traj.Speeds()
			Expect(speeds).To(HaveLen(traj.Len()))
			Expect(speeds[0]).To(Equal(r2.Norm(p.Probe.Velocity)))
			for _, s := range speeds {
				Expect(s).To(BeNumerically(">=", 0))
			}
		})

		It("bends the probe towards the primary", func() {
			_, probe, err := traj.Last()
			Expect(err).NotTo(HaveOccurred())
			Expect(probe.Velocity.X).To(BeNumerically("<", 0))
			Expect(probe.Velocity.Y).To(BeNumerically("<", 0))
		})

		It("is reproducible bit for bit", func() {
			again, err := euler.Integrate(ctx, p)
			Expect(err).NotTo(HaveOccurred())
			Expect(again).To(Equal(traj))
		})
	})

	It("updates velocity from the old position and position from the old velocity", func() {
		p.Probe.Velocity = r2.Vec{X: 1500, Y: -200}
		p.Duration = 3 * p.Dt
		traj, err := euler.Integrate(ctx, p)
		Expect(err).NotTo(HaveOccurred())
		Expect(traj.Len()).To(Equal(3))

		dt := p.Dt
		rP0, rS0, vS0 := p.Primary.Position, p.Probe.Position, p.Probe.Velocity
		d0 := math.Sqrt((rS0.X-rP0.X)*(rS0.X-rP0.X) + (rS0.Y-rP0.Y)*(rS0.Y-rP0.Y))
		k0 := p.G * p.PrimaryMass / math.Pow(d0, 3)
		vS1 := r2.Vec{
			X: vS0.X + dt*(k0*(rP0.X-rS0.X)),
			Y: vS0.Y + dt*(k0*(rP0.Y-rS0.Y)),
		}
		rS1 := r2.Vec{X: rS0.X + dt*vS0.X, Y: rS0.Y + dt*vS0.Y}
		rP1 := r2.Vec{X: rP0.X + dt*p.Primary.Velocity.X, Y: rP0.Y + dt*p.Primary.Velocity.Y}

		Expect(traj.ProbeVelocities[1]).To(Equal(vS1))
		Expect(traj.ProbePositions[1]).To(Equal(rS1))
		Expect(traj.PrimaryPositions[1]).To(Equal(rP1))

		// The second position update uses the velocity after the first step.
		rS2 := r2.Vec{X: rS1.X + dt*vS1.X, Y: rS1.Y + dt*vS1.Y}
		Expect(traj.ProbePositions[2]).To(Equal(rS2))
	})

	It("collides when the probe starts at rest on the primary's path", func() {
		p.Probe.Position = r2.Vec{X: 1e10}
		traj, err := euler.Integrate(ctx, p)
		Expect(err).NotTo(HaveOccurred())
		Expect(traj.Status).To(Equal(dynamo.Collided))
		Expect(traj.CollisionIndex).To(Equal(380))
		Expect(traj.Len()).To(Equal(382))
		Expect(traj.Len()).To(BeNumerically("<", traj.Planned))
	})

	It("ignores the probe mass", func() {
		a, err := euler.Integrate(ctx, p)
		Expect(err).NotTo(HaveOccurred())
		p.ProbeMass *= 1e6
		b, err := euler.Integrate(ctx, p)
		Expect(err).NotTo(HaveOccurred())
		Expect(b.ProbePositions).To(Equal(a.ProbePositions))
	})

	Context("when the bodies meet", func() {
		It("stops right after starting inside the collision radius", func() {
			p.Probe.Position = r2.Add(p.Primary.Position, r2.Vec{X: 1e7})
			traj, err := euler.Integrate(ctx, p)
			Expect(err).NotTo(HaveOccurred())
			Expect(traj.Collided()).To(BeTrue())
			Expect(traj.CollisionIndex).To(Equal(0))
			Expect(traj.Len()).To(Equal(2))
			Expect(traj.ProbePositions).To(HaveLen(2))
			Expect(traj.PrimaryVelocities).To(HaveLen(2))
		})

		It("flags the first sample below the radius", func() {
			sp := slowApproach()
			traj, err := euler.Integrate(ctx, sp)
			Expect(err).NotTo(HaveOccurred())
			Expect(traj.Status).To(Equal(dynamo.Collided))
			Expect(traj.CollisionIndex).To(Equal(19))
			Expect(traj.Len()).To(Equal(21))
			Expect(traj.Separations()[19]).To(BeNumerically("<", sp.CollisionRadius))
			Expect(traj.Separations()[18]).To(BeNumerically(">=", sp.CollisionRadius))
		})

		It("honours a custom collision radius", func() {
			sp := slowApproach()
			sp.CollisionRadius = 3
			traj, err := euler.Integrate(ctx, sp)
			Expect(err).NotTo(HaveOccurred())
			Expect(traj.CollisionIndex).To(Equal(15))
			Expect(traj.Len()).To(Equal(17))
		})
	})

	It("returns a single sample when the duration is shorter than a step", func() {
		p.Duration = p.Dt / 2
		p.Probe.Position = p.Primary.Position
		traj, err := euler.Integrate(ctx, p)
		Expect(err).NotTo(HaveOccurred())
		Expect(traj.Len()).To(Equal(1))
		Expect(traj.Status).To(Equal(dynamo.Completed))
	})

	It("stops at the step budget", func() {
		p.MaxSteps = 5
		traj, err := euler.Integrate(ctx, p)
		Expect(err).NotTo(HaveOccurred())
		Expect(traj.Status).To(Equal(dynamo.Budget))
		Expect(traj.Len()).To(Equal(6))
	})

	It("sizes the budgeted run by its budget, not by the full grid", func() {
		p.Dt = 1
		p.MaxSteps = 10
		traj, err := euler.Integrate(ctx, p)
		Expect(err).NotTo(HaveOccurred())
		Expect(traj.Status).To(Equal(dynamo.Budget))
		Expect(traj.Planned).To(Equal(p.Samples()))
		Expect(traj.Len()).To(Equal(11))
		Expect(cap(traj.ProbePositions)).To(Equal(11))
		Expect(cap(traj.PrimaryVelocities)).To(Equal(11))
	})

	It("returns the partial trajectory when canceled", func() {
		canceled, cancel := context.WithCancel(ctx)
		cancel()
		traj, err := euler.Integrate(canceled, p)
		Expect(err).To(MatchError(context.Canceled))
		Expect(traj.Status).To(Equal(dynamo.Canceled))
		Expect(traj.Len()).To(Equal(1))
	})

	DescribeTable("rejects degenerate parameters",
		func(edit func(*dynamo.Params)) {
			edit(&p)
			traj, err := euler.Integrate(ctx, p)
			Expect(err).To(MatchError(dynamo.ErrParameterBounds))
			Expect(traj).To(BeNil())
		},
		Entry("zero dt", func(p *dynamo.Params) { p.Dt = 0 }),
		Entry("negative duration", func(p *dynamo.Params) { p.Duration = -1 }),
		Entry("zero primary mass", func(p *dynamo.Params) { p.PrimaryMass = 0 }),
		Entry("zero probe mass", func(p *dynamo.Params) { p.ProbeMass = 0 }),
		Entry("NaN velocity", func(p *dynamo.Params) { p.Probe.Velocity.X = math.NaN() }),
		Entry("grid beyond int range", func(p *dynamo.Params) { p.Dt = 1e-300; p.MaxSteps = 10 }),
		Entry("grid beyond the sample limit", func(p *dynamo.Params) { p.Dt = 1e-6; p.MaxSteps = 10 }),
	)
})
