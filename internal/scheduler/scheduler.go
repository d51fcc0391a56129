// Package scheduler runs a job on a fixed interval with at most one
// execution in flight at a time.
package scheduler

import (
	"context"
	"log"
	"sync"
	"time"
)

// Job is a unit of scheduled work.
type Job func(ctx context.Context) error

// Scheduler triggers a job immediately on Start and then on every interval
// tick. A tick that fires while the job is still running is skipped, not
// queued, so a slow run never stacks executions behind it.
type Scheduler struct {
	name     string
	interval time.Duration
	job      Job
	logger   *log.Logger

	mu      sync.Mutex
	wg      sync.WaitGroup
	running bool
	runs    int
	skips   int
	errors  int
	lastRun time.Time
	lastErr error
}

// New creates a scheduler. The logger defaults to log.Default when nil.
func New(name string, interval time.Duration, job Job, logger *log.Logger) *Scheduler {
	if logger == nil {
		logger = log.Default()
	}
	return &Scheduler{
		name:     name,
		interval: interval,
		job:      job,
		logger:   logger,
	}
}

// Start blocks until ctx is cancelled, then waits for any in-flight run
// before returning ctx.Err(). The job runs once immediately, then on every
// tick.
func (s *Scheduler) Start(ctx context.Context) error {
	s.logger.Printf("Starting %s scheduler (interval: %s)", s.name, s.interval)

	s.runOnce(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Printf("Stopping %s scheduler", s.name)
			s.wg.Wait()
			return ctx.Err()
		case <-ticker.C:
			s.runOnce(ctx)
		}
	}
}

// runOnce starts the job on its own goroutine unless a previous execution
// is still in flight. The tick path never blocks on the job, so a tick that
// fires mid-run observes the running flag and is dropped rather than
// executing after the run ends.
func (s *Scheduler) runOnce(ctx context.Context) {
	s.mu.Lock()
	if s.running {
		s.skips++
		s.mu.Unlock()
		s.logger.Printf("%s already running, skipping...", s.name)
		return
	}
	s.running = true
	s.mu.Unlock()

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer func() {
			if r := recover(); r != nil {
				s.logger.Printf("%s panicked: %v", s.name, r)
			}
			s.mu.Lock()
			s.running = false
			s.lastRun = time.Now()
			s.mu.Unlock()
		}()

		start := time.Now()
		err := s.job(ctx)

		s.mu.Lock()
		s.runs++
		s.lastErr = err
		if err != nil {
			s.errors++
		}
		s.mu.Unlock()

		if err != nil {
			s.logger.Printf("%s failed after %s: %v", s.name, time.Since(start).Round(time.Millisecond), err)
			return
		}
		s.logger.Printf("%s completed in %s", s.name, time.Since(start).Round(time.Millisecond))
	}()
}

// Stats is a point-in-time snapshot of scheduler activity.
type Stats struct {
	Name    string    `json:"name"`
	Running bool      `json:"running"`
	Runs    int       `json:"runs"`
	Skips   int       `json:"skips"`
	Errors  int       `json:"errors"`
	LastRun time.Time `json:"last_run"`
}

// Stats returns current counters.
func (s *Scheduler) Stats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Stats{
		Name:    s.name,
		Running: s.running,
		Runs:    s.runs,
		Skips:   s.skips,
		Errors:  s.errors,
		LastRun: s.lastRun,
	}
}
