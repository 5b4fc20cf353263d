package cron

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// Job represents a scheduled job
type Job struct {
	Name     string
	Interval time.Duration
	Fn       func(ctx context.Context) error

	trigger chan struct{}
}

// Scheduler runs jobs on fixed intervals until its context is cancelled or
// Stop is called. Each job runs once immediately, then on every tick. A tick
// that fires while a run is still in progress is discarded once the run
// ends, so a slow job never gets a back-to-back catch-up run.
type Scheduler struct {
	jobs    []Job
	ctx     context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	mu      sync.Mutex
	started bool
}

// NewScheduler creates a scheduler bound to parent. Cancelling parent stops
// the jobs just like Stop does.
func NewScheduler(parent context.Context) *Scheduler {
	ctx, cancel := context.WithCancel(parent)
	return &Scheduler{
		jobs:   make([]Job, 0),
		ctx:    ctx,
		cancel: cancel,
	}
}

// AddJob adds a job to the scheduler. Jobs added after Start are not run on
// a schedule.
func (s *Scheduler) AddJob(name string, interval time.Duration, fn func(ctx context.Context) error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.jobs = append(s.jobs, Job{
		Name:     name,
		Interval: interval,
		Fn:       fn,
		trigger:  make(chan struct{}, 1),
	})
	slog.Debug("Cron job registered", "name", name, "interval", interval)
}

// Start begins running all scheduled jobs. Calling it twice is a no-op.
func (s *Scheduler) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return
	}
	s.started = true

	for _, job := range s.jobs {
		s.wg.Add(1)
		go s.runJob(job)
	}

	slog.Debug("Cron scheduler started", "job_count", len(s.jobs))
}

// Stop cancels all jobs and waits for running ones to return.
func (s *Scheduler) Stop() {
	s.cancel()
	s.wg.Wait()
	slog.Debug("Cron scheduler stopped")
}

// Done is closed once the scheduler has been stopped or its parent cancelled.
func (s *Scheduler) Done() <-chan struct{} {
	return s.ctx.Done()
}

// runJob runs a single job on its schedule
func (s *Scheduler) runJob(job Job) {
	defer s.wg.Done()

	ticker := time.NewTicker(job.Interval)
	defer ticker.Stop()

	// Run immediately on start
	s.executeJob(s.ctx, job)
	drain(ticker.C)

	for {
		select {
		case <-s.ctx.Done():
			slog.Debug("Cron job stopping", "name", job.Name)
			return
		case <-ticker.C:
		case <-job.trigger:
		}
		s.executeJob(s.ctx, job)
		drain(ticker.C)
	}
}

func drain(c <-chan time.Time) {
	select {
	case <-c:
	default:
	}
}

// executeJob executes a job and logs results
func (s *Scheduler) executeJob(ctx context.Context, job Job) {
	if ctx.Err() != nil {
		return
	}

	start := time.Now()
	if err := job.Fn(ctx); err != nil {
		slog.Error("Cron job failed", "name", job.Name, "error", err, "duration", time.Since(start))
	}
}

// RunOnce runs all jobs once with ctx, outside their schedule.
func (s *Scheduler) RunOnce(ctx context.Context) {
	for _, job := range s.snapshot() {
		s.executeJob(ctx, job)
	}
}

// Trigger asks the named job's loop to run it as soon as it is free, without
// waiting for the next tick. It never blocks; triggers arriving while one is
// already pending are merged into it. Before Start the run happens right
// after the initial one.
func (s *Scheduler) Trigger(name string) error {
	for _, job := range s.snapshot() {
		if job.Name == name {
			select {
			case job.trigger <- struct{}{}:
			default:
			}
			return nil
		}
	}
	return fmt.Errorf("cron job %q is not registered", name)
}

// Run runs the named job once on the caller's goroutine, outside its schedule.
func (s *Scheduler) Run(ctx context.Context, name string) error {
	for _, job := range s.snapshot() {
		if job.Name == name {
			s.executeJob(ctx, job)
			return nil
		}
	}
	return fmt.Errorf("cron job %q is not registered", name)
}

func (s *Scheduler) snapshot() []Job {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Job(nil), s.jobs...)
}
