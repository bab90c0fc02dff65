package session

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Store is the in-memory session map. Sessions are created lazily on first
// reference and evicted after sitting idle past the TTL; a zero TTL keeps
// sessions for the process lifetime.
type Store struct {
	mu       sync.Mutex
	ttl      time.Duration
	sessions map[string]*entry
	done     chan struct{}
	once     sync.Once
}

type entry struct {
	mu       sync.Mutex
	sess     *Session
	lastSeen time.Time
}

const janitorInterval = time.Minute

// NewStore creates a store. A positive ttl starts a janitor goroutine that
// sweeps idle sessions; call Close to stop it.
func NewStore(ttl time.Duration) *Store {
	s := &Store{
		ttl:      ttl,
		sessions: make(map[string]*entry),
		done:     make(chan struct{}),
	}
	if ttl > 0 {
		go s.janitor()
	}
	return s
}

// GetOrCreate returns the canonical session id, creating the session if it
// has not been seen. An empty id allocates a fresh one.
func (s *Store) GetOrCreate(id string) string {
	if id == "" {
		id = uuid.New().String()
	}
	s.mu.Lock()
	s.touch(id)
	s.mu.Unlock()
	return id
}

// Get returns a snapshot view of an existing session without creating it.
func (s *Store) Get(id string) (*Session, bool) {
	s.mu.Lock()
	e, ok := s.sessions[id]
	s.mu.Unlock()
	if !ok {
		return nil, false
	}
	return e.sess, true
}

// Mutate runs fn on the session under its per-session mutex, creating the
// session if needed. The whole orchestration turn for a session runs inside
// one Mutate call so concurrent requests for the same id cannot interleave
// cart reads and writes.
func (s *Store) Mutate(id string, fn func(*Session) error) error {
	s.mu.Lock()
	e := s.touch(id)
	s.mu.Unlock()

	e.mu.Lock()
	defer e.mu.Unlock()
	return fn(e.sess)
}

// Remove deletes a session.
func (s *Store) Remove(id string) {
	s.mu.Lock()
	delete(s.sessions, id)
	s.mu.Unlock()
}

// Len returns the number of live sessions.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// Close stops the janitor.
func (s *Store) Close() {
	s.once.Do(func() { close(s.done) })
}

// touch returns the entry for id, creating it if absent, and bumps its
// idle clock. Caller must hold s.mu.
func (s *Store) touch(id string) *entry {
	e, ok := s.sessions[id]
	if !ok {
		e = &entry{sess: &Session{ID: id}}
		s.sessions[id] = e
	}
	e.lastSeen = time.Now()
	return e
}

func (s *Store) janitor() {
	ticker := time.NewTicker(janitorInterval)
	defer ticker.Stop()
	for {
		select {
		case <-s.done:
			return
		case now := <-ticker.C:
			s.sweep(now)
		}
	}
}

func (s *Store) sweep(now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, e := range s.sessions {
		if now.Sub(e.lastSeen) > s.ttl {
			delete(s.sessions, id)
		}
	}
}
