package session

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/baria-bot/baria/internal/models"
)

func TestGetCreatesLazily(t *testing.T) {
	st := NewStore()
	if st.Len() != 0 {
		t.Fatalf("new store should be empty, has %d", st.Len())
	}
	s := st.Get("user-1")
	if s == nil {
		t.Fatal("Get returned nil")
	}
	if s.State != models.StateInitial {
		t.Errorf("fresh session state = %q, want %q", s.State, models.StateInitial)
	}
	if st.Len() != 1 {
		t.Errorf("store should hold 1 session, has %d", st.Len())
	}
	if st.Get("user-1") != s {
		t.Error("second Get must return the same session")
	}
}

func TestReset(t *testing.T) {
	st := NewStore()
	s := st.Get("user-1")
	s.Lock()
	s.State = models.StateCompleted
	s.Unlock()

	st.Reset("user-1")
	fresh := st.Get("user-1")
	if fresh == s {
		t.Error("Reset must discard the old session instance")
	}
	if fresh.State != models.StateInitial {
		t.Errorf("post-reset state = %q, want %q", fresh.State, models.StateInitial)
	}
}

func TestSweepEvictsIdleSessions(t *testing.T) {
	st := NewStore(WithRetention(time.Hour))
	s := st.Get("idle-user")
	st.Get("active-user")

	s.Lock()
	s.LastActivity = time.Now().Add(-2 * time.Hour)
	s.Unlock()

	if evicted := st.Sweep(); evicted != 1 {
		t.Errorf("Sweep evicted %d, want 1", evicted)
	}
	if st.Len() != 1 {
		t.Errorf("store should hold 1 session after sweep, has %d", st.Len())
	}

	// A message arriving after eviction transparently starts over.
	fresh := st.Get("idle-user")
	if fresh == s {
		t.Error("evicted session instance must not be resurrected")
	}
	if fresh.State != models.StateInitial {
		t.Errorf("post-eviction state = %q, want %q", fresh.State, models.StateInitial)
	}
}

func TestSweepKeepsRecentSessions(t *testing.T) {
	st := NewStore(WithRetention(time.Hour))
	st.Get("user-1")
	if evicted := st.Sweep(); evicted != 0 {
		t.Errorf("Sweep evicted %d recent sessions, want 0", evicted)
	}
}

func TestHistoryBound(t *testing.T) {
	st := NewStore(WithHistoryLimit(5))
	s := st.Get("user-1")
	s.Lock()
	for i := 0; i < 12; i++ {
		s.AppendHistory("user", fmt.Sprintf("message %d", i))
	}
	s.Unlock()

	if len(s.History) != 5 {
		t.Fatalf("history length = %d, want 5", len(s.History))
	}
	if s.History[0].Text != "message 7" {
		t.Errorf("oldest retained entry = %q, want %q", s.History[0].Text, "message 7")
	}
	if s.History[4].Text != "message 11" {
		t.Errorf("newest retained entry = %q, want %q", s.History[4].Text, "message 11")
	}
}

func TestHistorySnapshotIsACopy(t *testing.T) {
	st := NewStore()
	s := st.Get("user-1")
	s.Lock()
	s.AppendHistory("user", "original")
	snap := s.HistorySnapshot()
	s.Unlock()

	snap[0].Text = "mutated"
	if s.History[0].Text != "original" {
		t.Error("mutating the snapshot must not affect the session history")
	}
}

func TestConcurrentAccessDistinctUsers(t *testing.T) {
	st := NewStore()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			id := fmt.Sprintf("user-%d", i%10)
			s := st.Get(id)
			s.Lock()
			s.AppendHistory("user", "hello")
			s.Unlock()
		}(i)
	}
	wg.Wait()
	if st.Len() != 10 {
		t.Errorf("store should hold 10 sessions, has %d", st.Len())
	}
}

func TestSweepRacesWithGet(t *testing.T) {
	st := NewStore(WithRetention(time.Nanosecond))
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			st.Sweep()
		}()
		go func(i int) {
			defer wg.Done()
			s := st.Get(fmt.Sprintf("user-%d", i))
			s.Lock()
			s.Touch()
			s.Unlock()
		}(i)
	}
	wg.Wait()
	// No assertion beyond "did not deadlock or panic": eviction is advisory.
}
