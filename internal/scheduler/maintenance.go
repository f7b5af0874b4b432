// Package scheduler runs periodic housekeeping jobs on cron schedules.
package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
)

var scheduleParser = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)

// Job is one named housekeeping routine.
type Job struct {
	Name     string
	Schedule string // Standard 5-field cron expression
	Run      func(ctx context.Context) error
}

// Scheduler runs registered jobs on their schedules. A job never overlaps
// with itself; a tick that arrives while the previous run is active is skipped.
type Scheduler struct {
	cron      *cron.Cron
	mu        sync.Mutex
	entries   map[string]cron.EntryID
	jobs      map[string]Job
	running   map[string]bool
	isRunning bool
	timeout   time.Duration
}

func New() *Scheduler {
	return &Scheduler{
		cron:    cron.New(cron.WithParser(scheduleParser)),
		entries: make(map[string]cron.EntryID),
		jobs:    make(map[string]Job),
		running: make(map[string]bool),
		timeout: 5 * time.Minute,
	}
}

// ValidateSchedule checks that a cron expression is parseable.
func ValidateSchedule(schedule string) error {
	_, err := scheduleParser.Parse(schedule)
	return err
}

// Add registers a job. Jobs with an empty schedule are ignored.
func (s *Scheduler) Add(job Job) error {
	if job.Schedule == "" {
		slog.Info("scheduled job disabled", "job", job.Name)
		return nil
	}
	if err := ValidateSchedule(job.Schedule); err != nil {
		return fmt.Errorf("invalid cron schedule '%s' for %s: %w", job.Schedule, job.Name, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.entries[job.Name]; exists {
		return fmt.Errorf("job %s already registered", job.Name)
	}

	id, err := s.cron.AddFunc(job.Schedule, func() { s.runJob(job) })
	if err != nil {
		return fmt.Errorf("failed to schedule %s: %w", job.Name, err)
	}
	s.entries[job.Name] = id
	s.jobs[job.Name] = job
	return nil
}

// Start begins the cron loop and stops it when ctx is cancelled.
func (s *Scheduler) Start(ctx context.Context) {
	s.mu.Lock()
	if s.isRunning {
		s.mu.Unlock()
		return
	}
	s.cron.Start()
	s.isRunning = true
	jobs := len(s.entries)
	s.mu.Unlock()

	slog.Info("scheduler started", "jobs", jobs)

	go func() {
		<-ctx.Done()
		s.Stop()
	}()
}

// Stop waits for running jobs to finish.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	if !s.isRunning {
		s.mu.Unlock()
		return
	}
	s.isRunning = false
	s.mu.Unlock()

	<-s.cron.Stop().Done()
	slog.Info("scheduler stopped")
}

// RunNow executes a registered job synchronously.
func (s *Scheduler) RunNow(name string) error {
	s.mu.Lock()
	job, ok := s.jobs[name]
	s.mu.Unlock()
	if !ok {
		return fmt.Errorf("job %s not registered", name)
	}
	s.runJob(job)
	return nil
}

// NextRun returns when the named job fires next.
func (s *Scheduler) NextRun(name string) (time.Time, bool) {
	s.mu.Lock()
	id, ok := s.entries[name]
	s.mu.Unlock()
	if !ok {
		return time.Time{}, false
	}
	next := s.cron.Entry(id).Next
	return next, !next.IsZero()
}

func (s *Scheduler) runJob(job Job) {
	s.mu.Lock()
	if s.running[job.Name] {
		s.mu.Unlock()
		slog.Debug("scheduled job skipped, previous run still active", "job", job.Name)
		return
	}
	s.running[job.Name] = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		delete(s.running, job.Name)
		s.mu.Unlock()
	}()

	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	start := time.Now()
	if err := job.Run(ctx); err != nil {
		slog.Error("scheduled job failed", "job", job.Name, "error", err)
		return
	}
	slog.Debug("scheduled job finished", "job", job.Name, "duration", time.Since(start).Round(time.Millisecond))
}
