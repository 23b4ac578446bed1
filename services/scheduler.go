package services

import (
	"context"
	"fmt"
	"time"

	"github.com/Govind-619/Bookstore/utils"
	"github.com/robfig/cron/v3"
)

// jobTimeout bounds a single scheduled run
const jobTimeout = 10 * time.Minute

// JobRunner runs a maintenance job by name
type JobRunner interface {
	Run(ctx context.Context, name string) (any, error)
}

// Scheduler triggers jobs on cron schedules
type Scheduler struct {
	cron   *cron.Cron
	runner JobRunner
}

// NewScheduler registers every job in specs (job name to five-field cron
// expression). An empty expression disables the job.
func NewScheduler(runner JobRunner, specs map[string]string) (*Scheduler, error) {
	s := &Scheduler{cron: cron.New(), runner: runner}
	for name, spec := range specs {
		if spec == "" {
			utils.LogWarning("Job %s has no schedule and is disabled", name)
			continue
		}
		name := name
		if _, err := s.cron.AddFunc(spec, func() { s.runJob(name) }); err != nil {
			return nil, fmt.Errorf("schedule job %s (%q): %w", name, spec, err)
		}
		utils.LogInfo("Scheduled job %s at %q", name, spec)
	}
	return s, nil
}

func (s *Scheduler) runJob(name string) {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	utils.LogInfo("Running scheduled job %s", name)
	if _, err := s.runner.Run(ctx, name); err != nil {
		utils.LogError("Scheduled job %s failed: %v", name, err)
	}
}

// Start runs the scheduler in its own goroutine
func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop halts the scheduler and waits for running jobs until ctx is done
func (s *Scheduler) Stop(ctx context.Context) {
	done := s.cron.Stop()
	select {
	case <-done.Done():
	case <-ctx.Done():
		utils.LogWarning("Scheduler stopped before running jobs finished")
	}
}

// Entries returns the number of scheduled jobs
func (s *Scheduler) Entries() int {
	return len(s.cron.Entries())
}
