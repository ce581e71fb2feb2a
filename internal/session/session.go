// Package session provides the in-memory per-user session store.
//
// Sessions are created lazily on first contact, keyed by an opaque user id,
// and evicted after a fixed inactivity window. The store is sharded so that
// sessions for different users never contend on a single lock; messages from
// the same user serialize on the session's own mutex.
package session

import (
	"hash/fnv"
	"log/slog"
	"sync"
	"time"

	"github.com/baria-bot/baria/internal/models"
)

// Store configuration defaults.
const (
	// DefaultRetention is the inactivity window after which a session is
	// eligible for eviction.
	DefaultRetention = time.Hour
	// DefaultHistoryLimit bounds the conversation history kept per session
	// for Answer Service context; oldest entries are evicted first.
	DefaultHistoryLimit = 20
	// shardCount is the number of independent map shards.
	shardCount = 32
)

// Session is the mutable per-user record tracking dialogue position and
// collected profile fields. All fields except UserID are guarded by the
// session mutex; callers must hold it across a read-modify-write.
type Session struct {
	mu sync.Mutex

	UserID       string
	State        models.State
	Profile      models.Profile
	History      []models.ConversationEntry
	LastActivity time.Time

	// QuickHeightCm is scratch space for the one-off BMI side path; it never
	// touches the profile.
	QuickHeightCm float64

	historyLimit int
}

// Lock acquires the per-session mutex.
func (s *Session) Lock() { s.mu.Lock() }

// Unlock releases the per-session mutex.
func (s *Session) Unlock() { s.mu.Unlock() }

// Touch updates the activity timestamp. Callers must hold the session lock.
func (s *Session) Touch() { s.LastActivity = time.Now() }

// AppendHistory records one (role, text) exchange entry, evicting the oldest
// entries beyond the history limit. Callers must hold the session lock.
func (s *Session) AppendHistory(role, text string) {
	s.History = append(s.History, models.ConversationEntry{Role: role, Text: text, Time: time.Now()})
	limit := s.historyLimit
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	if len(s.History) > limit {
		s.History = s.History[len(s.History)-limit:]
	}
}

// HistorySnapshot returns a copy of the conversation history for use outside
// the session lock (e.g. while an Answer Service call is in flight).
func (s *Session) HistorySnapshot() []models.ConversationEntry {
	snapshot := make([]models.ConversationEntry, len(s.History))
	copy(snapshot, s.History)
	return snapshot
}

type shard struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

// Store owns all Session instances. Get lazily creates; the periodic sweep is
// the only destructor besides the operator reset.
type Store struct {
	shards       [shardCount]*shard
	retention    time.Duration
	historyLimit int
}

// Option defines a configuration option for the session store.
type Option func(*Store)

// WithRetention overrides the inactivity window after which sessions expire.
func WithRetention(d time.Duration) Option {
	return func(st *Store) { st.retention = d }
}

// WithHistoryLimit overrides the per-session conversation history bound.
func WithHistoryLimit(n int) Option {
	return func(st *Store) { st.historyLimit = n }
}

// NewStore creates an empty session store.
func NewStore(opts ...Option) *Store {
	st := &Store{retention: DefaultRetention, historyLimit: DefaultHistoryLimit}
	for _, opt := range opts {
		opt(st)
	}
	for i := range st.shards {
		st.shards[i] = &shard{sessions: make(map[string]*Session)}
	}
	slog.Debug("session.NewStore: store created", "retention", st.retention, "historyLimit", st.historyLimit)
	return st
}

func (st *Store) shardFor(userID string) *shard {
	h := fnv.New32a()
	h.Write([]byte(userID))
	return st.shards[h.Sum32()%shardCount]
}

// Get returns the existing session for userID or creates and registers a new
// one in the INITIAL state. The activity timestamp is refreshed on every call.
func (st *Store) Get(userID string) *Session {
	sh := st.shardFor(userID)

	sh.mu.RLock()
	s, ok := sh.sessions[userID]
	sh.mu.RUnlock()
	if ok {
		s.Lock()
		s.LastActivity = time.Now()
		s.Unlock()
		return s
	}

	sh.mu.Lock()
	defer sh.mu.Unlock()
	// Re-check: another goroutine may have created it between the locks.
	if s, ok := sh.sessions[userID]; ok {
		return s
	}
	s = &Session{
		UserID:       userID,
		State:        models.StateInitial,
		LastActivity: time.Now(),
		historyLimit: st.historyLimit,
	}
	sh.sessions[userID] = s
	slog.Debug("session.Store.Get: session created", "userID", userID)
	return s
}

// Reset unconditionally discards the session for userID. The next Get starts
// a fresh INITIAL session.
func (st *Store) Reset(userID string) {
	sh := st.shardFor(userID)
	sh.mu.Lock()
	delete(sh.sessions, userID)
	sh.mu.Unlock()
	slog.Info("session.Store.Reset: session discarded", "userID", userID)
}

// Len returns the number of live sessions across all shards.
func (st *Store) Len() int {
	total := 0
	for _, sh := range st.shards {
		sh.mu.RLock()
		total += len(sh.sessions)
		sh.mu.RUnlock()
	}
	return total
}

// Sweep removes sessions whose last activity predates the retention window
// and returns the number evicted. Eviction is advisory: a message racing the
// sweep simply starts a fresh session on its next Get.
func (st *Store) Sweep() int {
	cutoff := time.Now().Add(-st.retention)
	evicted := 0
	for _, sh := range st.shards {
		sh.mu.Lock()
		for id, s := range sh.sessions {
			s.Lock()
			idle := s.LastActivity.Before(cutoff)
			s.Unlock()
			if idle {
				delete(sh.sessions, id)
				evicted++
			}
		}
		sh.mu.Unlock()
	}
	if evicted > 0 {
		slog.Info("session.Store.Sweep: expired sessions removed", "count", evicted)
	}
	return evicted
}
