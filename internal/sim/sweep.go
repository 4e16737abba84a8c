package sim

import (
	"context"
	"fmt"
	"math"
	"runtime"

	"github.com/go-kit/kit/log"
	"github.com/san-kum/swingby/internal/dynamo"
	"golang.org/x/sync/errgroup"
)

// Sweep integrates many independent parameter sets concurrently.
type Sweep struct {
	integrator dynamo.Integrator
	workers    int
	logger     log.Logger
}

// NewSweep returns a sweep over integ. workers <= 0 uses GOMAXPROCS and a
// nil logger discards output.
func NewSweep(integ dynamo.Integrator, workers int, logger log.Logger) *Sweep {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	if logger == nil {
		logger = log.NewNopLogger()
	}
	return &Sweep{integrator: integ, workers: workers, logger: log.With(logger, "component", "sweep")}
}

// Run returns one trajectory per parameter set in input order. The first
// failing run cancels the others.
func (s *Sweep) Run(ctx context.Context, params []dynamo.Params) ([]*dynamo.Trajectory, error) {
	results := make([]*dynamo.Trajectory, len(params))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)

	for i := range params {
		idx := i
		g.Go(func() error {
			traj, err := s.integrator.Integrate(ctx, params[idx])
			if err != nil {
				return fmt.Errorf("run %d: %w", idx, err)
			}
			s.logger.Log("run", idx, "samples", traj.Len(), "status", traj.Status)
			results[idx] = traj
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// Best returns the index of the run maximizing score. NaN scores are
// skipped; -1 means no run had a usable score.
func Best(results []*dynamo.Trajectory, score func(i int, traj *dynamo.Trajectory) float64) (int, float64) {
	best, bestVal := -1, math.Inf(-1)
	for i, traj := range results {
		v := score(i, traj)
		if math.IsNaN(v) {
			continue
		}
		if best < 0 || v > bestVal {
			best, bestVal = i, v
		}
	}
	return best, bestVal
}
