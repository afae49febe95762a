package sketch

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// DefaultTTL is how long an idle session is kept.
const DefaultTTL = 30 * time.Minute

// Store keeps independent in-memory sessions keyed by ID. Nothing is
// persisted.
type Store struct {
	describer Describer
	generator Generator

	options []Option

	ttl time.Duration

	mu       sync.Mutex
	sessions map[string]*Session
}

func NewStore(describer Describer, generator Generator, ttl time.Duration, options ...Option) *Store {
	if ttl <= 0 {
		ttl = DefaultTTL
	}

	return &Store{
		describer: describer,
		generator: generator,

		options: options,

		ttl: ttl,

		sessions: make(map[string]*Session),
	}
}

func (s *Store) Create(owner string) *Session {
	options := append(s.options[:len(s.options):len(s.options)], WithOwner(owner))
	session := New(s.describer, s.generator, options...)

	s.mu.Lock()
	defer s.mu.Unlock()

	s.sessions[session.ID()] = session

	return session
}

// Get returns the session with the given ID if it belongs to owner.
func (s *Store) Get(id, owner string) (*Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.sessions[id]

	if !ok || session.Owner() != owner {
		return nil, ErrNotFound
	}

	session.touch()

	return session, nil
}

func (s *Store) Delete(id, owner string) error {
	s.mu.Lock()

	session, ok := s.sessions[id]

	if !ok || session.Owner() != owner {
		s.mu.Unlock()
		return ErrNotFound
	}

	delete(s.sessions, id)
	s.mu.Unlock()

	session.Close()

	return nil
}

func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.sessions)
}

// Sweep closes and removes sessions idle since before now minus the TTL.
// Busy sessions are kept.
func (s *Store) Sweep(now time.Time) int {
	var expired []*Session

	s.mu.Lock()

	for id, session := range s.sessions {
		if session.Busy() {
			continue
		}

		if now.Sub(session.LastUsed()) < s.ttl {
			continue
		}

		delete(s.sessions, id)
		expired = append(expired, session)
	}

	s.mu.Unlock()

	for _, session := range expired {
		session.Close()
	}

	return len(expired)
}

// Run sweeps expired sessions until ctx is done.
func (s *Store) Run(ctx context.Context) {
	interval := max(s.ttl/4, time.Second)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return

		case now := <-ticker.C:
			if n := s.Sweep(now); n > 0 {
				slog.DebugContext(ctx, "expired sessions", "count", n)
			}
		}
	}
}

// Close closes every session and empties the store.
func (s *Store) Close() {
	s.mu.Lock()

	sessions := s.sessions
	s.sessions = make(map[string]*Session)

	s.mu.Unlock()

	for _, session := range sessions {
		session.Close()
	}
}
