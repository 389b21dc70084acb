package racadm

import (
	"context"
	stderrors "errors"
	"time"

	"golang.org/x/sync/errgroup"
)

// WaitJobs polls several jobs of one controller at the same time. Each job
// gets its own poller; a failing job does not stop the others. The returned
// slice follows the order of jobIDs and the error joins every job error.
func (t *Tool) WaitJobs(ctx context.Context, target Target, jobIDs []string, initialDelay time.Duration) ([]JobResult, error) {
	results := make([]JobResult, len(jobIDs))

	// The group only bounds concurrency; job errors stay in results
	var g errgroup.Group
	if t.concurrency > 0 {
		g.SetLimit(t.concurrency)
	}

	for i, jobID := range jobIDs {
		i, jobID := i, jobID
		g.Go(func() error {
			outcome, err := t.WaitJobDone(ctx, target, jobID, initialDelay)
			results[i] = JobResult{JobID: jobID, Outcome: outcome, Err: err}
			return nil
		})
	}
	_ = g.Wait()

	// Join in job order
	var errs []error
	for _, r := range results {
		if r.Err != nil {
			errs = append(errs, r.Err)
		}
	}
	return results, stderrors.Join(errs...)
}
