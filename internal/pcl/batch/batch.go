// Package batch runs the transect pipeline over many transects in
// parallel. Transects share no mutable state, so the pool needs no
// locking: each worker owns its transect, grid and result outright,
// and the batch synchronises only at completion.
package batch

import (
	"context"
	"fmt"
	"log"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/forest-data/canopy.report/internal/pcl"
)

// Job is one transect to process: an identifier (usually the source
// filename) and its pulse records.
type Job struct {
	ID     string
	Pulses []pcl.PulseRecord
}

// Outcome is the per-transect result slot. Err carries configuration
// or incomplete-result failures; those are fatal for the transect
// only and never stop the batch.
type Outcome struct {
	Index  int
	ID     string
	Result *pcl.Result
	Err    error
}

// Failed reports whether the transect's pipeline aborted.
func (o Outcome) Failed() bool { return o.Err != nil }

// Run processes the jobs with up to workers concurrent transects
// (workers <= 0 means GOMAXPROCS). Outcomes are returned in job
// order regardless of completion order; per-transect results are
// deterministic and independent of scheduling. The only error Run
// itself returns is context cancellation, which aborts at
// whole-transect granularity.
func Run(ctx context.Context, jobs []Job, cfg *pcl.Config, workers int) ([]Outcome, error) {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	outcomes := make([]Outcome, len(jobs))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, job := range jobs {
		i, job := i, job
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			res, err := pcl.Process(job.ID, job.Pulses, cfg)
			if err != nil {
				log.Printf("Transect %s failed: %v", job.ID, err)
			}
			outcomes[i] = Outcome{Index: i, ID: job.ID, Result: res, Err: err}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("batch aborted: %w", err)
	}
	return outcomes, nil
}

// Records collects the OutputRecords of successful transects, in job
// order.
func Records(outcomes []Outcome) []pcl.OutputRecord {
	records := make([]pcl.OutputRecord, 0, len(outcomes))
	for _, o := range outcomes {
		if o.Failed() {
			continue
		}
		records = append(records, o.Result.Record)
	}
	return records
}
