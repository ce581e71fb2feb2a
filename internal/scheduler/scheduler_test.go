package scheduler

import (
	"testing"
	"time"
)

func TestSchedulerAddJob(t *testing.T) {
	s := NewScheduler()
	defer s.Stop()
	if err := s.AddJob("* * * * *", func() {}); err != nil {
		t.Errorf("expected no error adding job, got %v", err)
	}
	if err := s.AddJob("not a cron expr", func() {}); err == nil {
		t.Error("expected error for invalid cron expression")
	}
}

func TestSchedulerAddEvery(t *testing.T) {
	s := NewScheduler()
	defer s.Stop()
	if err := s.AddEvery(time.Minute, func() {}); err != nil {
		t.Errorf("expected no error adding interval job, got %v", err)
	}
	if err := s.AddEvery(time.Millisecond, func() {}); err == nil {
		t.Error("expected error for sub-second interval")
	}
}
