// Package scheduler provides cron-based background job scheduling for BarIA,
// such as the periodic expired-session sweep.
package scheduler

import (
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
)

// DefaultSweepInterval is how often the expired-session sweep runs.
const DefaultSweepInterval = 10 * time.Minute

// Scheduler provides cron-based job scheduling.
type Scheduler struct {
	cron *cron.Cron
}

// NewScheduler creates and starts a cron scheduler.
func NewScheduler() *Scheduler {
	// Standard 5-field cron parser (min, hour, dom, month, dow), with panic
	// recovery so one failing job never kills the scheduler.
	parser := cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)
	c := cron.New(cron.WithParser(parser), cron.WithChain(cron.Recover(cron.DefaultLogger)))
	c.Start()
	return &Scheduler{cron: c}
}

// AddJob schedules a task using the provided cron expression. It returns an
// error if the expression is invalid.
func (s *Scheduler) AddJob(expr string, task func()) error {
	_, err := s.cron.AddFunc(expr, task)
	return err
}

// AddEvery schedules a task at a fixed interval. Intervals below one second
// are rejected.
func (s *Scheduler) AddEvery(interval time.Duration, task func()) error {
	if interval < time.Second {
		return fmt.Errorf("interval %v too short, minimum is 1s", interval)
	}
	s.cron.Schedule(cron.Every(interval), cron.FuncJob(task))
	return nil
}

// Stop stops the cron scheduler; running jobs finish on their own goroutines.
func (s *Scheduler) Stop() {
	s.cron.Stop()
}
