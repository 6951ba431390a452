// Package scheduler runs periodic maintenance jobs.
package scheduler

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/go-co-op/gocron"
)

// Job is one periodic task.
type Job struct {
	Name     string
	Interval time.Duration
	Run      func()
}

// Scheduler runs Jobs on their own intervals.
type Scheduler struct {
	scheduler *gocron.Scheduler
	jobs      []Job
	logger    *slog.Logger
}

// New creates a Scheduler. Jobs are not started until Start.
func New(logger *slog.Logger, jobs ...Job) *Scheduler {
	s := gocron.NewScheduler(time.UTC)
	s.SingletonModeAll()
	return &Scheduler{scheduler: s, jobs: jobs, logger: logger}
}

// Start schedules every job and starts the scheduler in the background.
func (s *Scheduler) Start() error {
	for _, job := range s.jobs {
		if job.Interval <= 0 {
			s.logger.Info("scheduler: job disabled", "job", job.Name)
			continue
		}
		job := job
		_, err := s.scheduler.Every(job.Interval).WaitForSchedule().Do(func() {
			start := time.Now()
			job.Run()
			s.logger.Debug("scheduler: job finished", "job", job.Name, "duration", time.Since(start))
		})
		if err != nil {
			return fmt.Errorf("schedule %s: %w", job.Name, err)
		}
	}
	s.scheduler.StartAsync()
	return nil
}

// Stop stops the scheduler and waits for running jobs.
func (s *Scheduler) Stop() {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
}

// Len returns the number of scheduled jobs.
func (s *Scheduler) Len() int {
	return s.scheduler.Len()
}
