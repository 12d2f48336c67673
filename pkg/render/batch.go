package render

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"
)

// Job names a program and the data to render it against.
type Job struct {
	Name string
	Data any
}

// RenderBatch renders jobs concurrently with at most limit renders in
// flight. Results are returned in job order. The first failing job cancels
// the jobs that have not started yet. limit <= 0 means no limit.
func (e *Engine) RenderBatch(ctx context.Context, jobs []Job, limit int) ([]Result, error) {
	results := make([]Result, len(jobs))
	group, ctx := errgroup.WithContext(ctx)
	if limit > 0 {
		group.SetLimit(limit)
	}

	for i, job := range jobs {
		i, job := i, job
		group.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			res, err := e.Render(job.Name, job.Data)
			if err != nil {
				return fmt.Errorf("render: job %d (%s): %w", i, job.Name, err)
			}
			results[i] = res
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return results, err
	}
	return results, nil
}
