package session

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
)

var ErrNotFound = errors.New("session not found")

type Config struct {
	CookieName string        `mapstructure:"cookieName"`
	TTL        time.Duration `mapstructure:"ttl"`
	Secure     bool          `mapstructure:"secure"`
}

// Store keeps sessions in memory. Every mutation goes through Apply, which
// runs its patches under one lock and bumps the version.
type Store struct {
	mu       sync.Mutex
	sessions map[string]*Snapshot
	ttl      time.Duration
	now      func() time.Time
}

func NewStore(ttl time.Duration) *Store {
	return &Store{
		sessions: make(map[string]*Snapshot),
		ttl:      ttl,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

func (s *Store) Create() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := newSnapshot(uuid.NewString(), s.now())
	s.sessions[snapshot.ID] = snapshot
	return snapshot.clone()
}

// Get returns a copy of the session and marks it as seen.
func (s *Store) Get(id string) (Snapshot, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot, ok := s.sessions[id]
	if !ok {
		return Snapshot{}, false
	}
	now := s.now()
	if s.expired(snapshot, now) {
		delete(s.sessions, id)
		return Snapshot{}, false
	}
	snapshot.lastSeen = now
	return snapshot.clone(), true
}

func (s *Store) Apply(id string, patches ...Patch) (Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot, ok := s.sessions[id]
	if !ok {
		return Snapshot{}, ErrNotFound
	}

	for _, p := range patches {
		p.apply(snapshot)
	}
	now := s.now()
	snapshot.Version++
	snapshot.UpdatedAt = now
	snapshot.lastSeen = now

	return snapshot.clone(), nil
}

func (s *Store) Delete(id string) {
	s.mu.Lock()
	delete(s.sessions, id)
	s.mu.Unlock()
}

// Purge drops sessions idle for longer than the TTL and returns how many
// were removed.
func (s *Store) Purge() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	removed := 0
	for id, snapshot := range s.sessions {
		if s.expired(snapshot, now) {
			delete(s.sessions, id)
			removed++
		}
	}
	return removed
}

func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

func (s *Store) expired(snapshot *Snapshot, now time.Time) bool {
	return s.ttl > 0 && now.Sub(snapshot.lastSeen) > s.ttl
}
