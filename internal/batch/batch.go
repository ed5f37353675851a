package batch

// #region imports
import (
	"context"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/mat"

	"github.com/Sanket-HP/sifra-ai-backend-brain/internal/orchestrator"
)

// #endregion

// #region types

// Job is one independent (goal, matrix) pair.
type Job struct {
	ID     string
	Goal   string
	Matrix mat.Matrix
}

// JobError identifies the job that stopped a batch.
type JobError struct {
	Index int
	ID    string
	Err   error
}

func (e *JobError) Error() string {
	if e.ID == "" {
		return fmt.Sprintf("job %d: %v", e.Index, e.Err)
	}
	return fmt.Sprintf("job %d (%s): %v", e.Index, e.ID, e.Err)
}

func (e *JobError) Unwrap() error { return e.Err }

// #endregion

// #region run

// Run executes jobs on p with at most workers concurrent runs and returns the
// results in job order. The first failure cancels jobs not yet started and is
// returned as a *JobError. workers <= 0 uses GOMAXPROCS.
func Run(ctx context.Context, p *orchestrator.Pipeline, jobs []Job, workers int) ([]orchestrator.Result, error) {
	if p == nil {
		p = orchestrator.NewPipeline(nil)
	}
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	results := make([]orchestrator.Result, len(jobs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i, job := range jobs {
		if gctx.Err() != nil {
			break
		}
		i, job := i, job
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			res, err := p.Run(job.Goal, job.Matrix)
			if err != nil {
				return &JobError{Index: i, ID: job.ID, Err: err}
			}
			results[i] = res
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("batch: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("batch: %w", err)
	}
	return results, nil
}

// #endregion
