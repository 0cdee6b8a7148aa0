package pipeline

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/jonathan/career-news/internal/types"
)

// DefaultConcurrency bounds RunMany when no limit is given.
const DefaultConcurrency = 4

// Job is one owner's collection request.
type Job struct {
	OwnerID         string           `json:"owner_id"`
	Profile         types.JobProfile `json:"profile"`
	LimitPerKeyword int              `json:"limit_per_keyword"`
}

// RunMany runs independent jobs concurrently, at most concurrency at a time.
// Reports are returned in job order. Run state is per job; the components are
// shared, so the store, the call limiter and the enricher's host throttle,
// cache and robots rules apply across all jobs at once.
func (o *Orchestrator) RunMany(ctx context.Context, jobs []Job, concurrency int) ([]*RunReport, error) {
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}
	reports := make([]*RunReport, len(jobs))

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)
	for i, job := range jobs {
		g.Go(func() error {
			reports[i] = o.RunWithReport(gCtx, job.OwnerID, job.Profile, job.LimitPerKeyword)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return reports, err
	}
	return reports, ctx.Err()
}

// Total sums the summaries of several reports.
func Total(reports []*RunReport) types.RunSummary {
	var total types.RunSummary
	for _, rep := range reports {
		if rep != nil {
			total.Add(rep.Summary)
		}
	}
	return total
}
