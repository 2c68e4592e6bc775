package app

import (
	"context"
	"sort"
	"sync"
	"time"

	"golang.org/x/sync/semaphore"

	"peoplestats/domain/core"
	"peoplestats/internal"
)

// PersonYearResult is one unit of a batch run.
type PersonYearResult struct {
	Person       string          `json:"person"`
	Year         string          `json:"year"`
	AverageScore float64         `json:"average_score"`
	Scores       []BehaviorScore `json:"scores"`
}

// BatchFailure records a unit that could not be analyzed. Failures are data
// findings, not run errors.
type BatchFailure struct {
	Person string `json:"person"`
	Year   string `json:"year"`
	Reason string `json:"reason"`
}

// BatchResult is the outcome of analyzing every (person, year) pair.
type BatchResult struct {
	RunID    core.RunID         `json:"run_id"`
	Started  time.Time          `json:"started"`
	Finished time.Time          `json:"finished"`
	Results  []PersonYearResult `json:"results"`
	Failures []BatchFailure     `json:"failures,omitempty"`
}

// BatchRunner fans the analysis out over every (person, year) pair with
// bounded concurrency. A malformed unit is recorded and skipped; it never
// aborts the run.
type BatchRunner struct {
	svc         *AnalysisService
	concurrency int64
	log         *internal.Logger
}

// NewBatchRunner creates a runner with the given fan-out bound.
func NewBatchRunner(svc *AnalysisService, concurrency int, log *internal.Logger) *BatchRunner {
	if concurrency < 1 {
		concurrency = 1
	}
	return &BatchRunner{svc: svc, concurrency: int64(concurrency), log: log}
}

// Run analyzes the whole dataset. The only error it returns is context
// cancellation; everything else lands in Failures.
func (r *BatchRunner) Run(ctx context.Context) (BatchResult, error) {
	result := BatchResult{
		RunID:   core.RunID(core.NewID()),
		Started: time.Now(),
	}

	type unit struct{ person, year string }
	var units []unit
	for _, person := range r.svc.People() {
		for _, year := range r.svc.index.YearsFor(person) {
			units = append(units, unit{person, year})
		}
	}
	r.log.Info("batch run %s: %d person-year units", result.RunID, len(units))

	sem := semaphore.NewWeighted(r.concurrency)
	var mu sync.Mutex
	var wg sync.WaitGroup

	for _, u := range units {
		if err := sem.Acquire(ctx, 1); err != nil {
			wg.Wait()
			return result, err
		}
		wg.Add(1)
		go func(u unit) {
			defer sem.Release(1)
			defer wg.Done()

			scores, err := r.svc.BehaviorScores(u.person, u.year)
			if err != nil {
				r.log.Warn("batch unit %s/%s: %v", u.person, u.year, err)
				mu.Lock()
				result.Failures = append(result.Failures, BatchFailure{
					Person: u.person,
					Year:   u.year,
					Reason: err.Error(),
				})
				mu.Unlock()
				return
			}

			avg, err := r.svc.AverageScore(u.person, u.year)
			if err != nil {
				mu.Lock()
				result.Failures = append(result.Failures, BatchFailure{
					Person: u.person,
					Year:   u.year,
					Reason: err.Error(),
				})
				mu.Unlock()
				return
			}

			mu.Lock()
			result.Results = append(result.Results, PersonYearResult{
				Person:       u.person,
				Year:         u.year,
				AverageScore: avg,
				Scores:       scores,
			})
			mu.Unlock()
		}(u)
	}

	wg.Wait()

	sort.SliceStable(result.Results, func(i, j int) bool {
		if result.Results[i].Person != result.Results[j].Person {
			return result.Results[i].Person < result.Results[j].Person
		}
		return result.Results[i].Year < result.Results[j].Year
	})

	result.Finished = time.Now()
	r.log.Info("batch run %s: %d results, %d failures",
		result.RunID, len(result.Results), len(result.Failures))
	return result, nil
}
