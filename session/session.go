package session

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
)

var (
	// ErrSessionNotFound is returned when a session is not found.
	ErrSessionNotFound = errors.New("session not found")

	// ErrSessionExpired is returned when a session has expired.
	ErrSessionExpired = errors.New("session expired")
)

// Session is an authenticated admin session.
type Session struct {
	ID        uuid.UUID
	Subject   string
	CreatedAt time.Time
	ExpiresAt time.Time
}

// ExpiredAt reports whether the session is no longer valid at now.
// A session is valid up to and including its expiry instant.
func (s Session) ExpiredAt(now time.Time) bool {
	return now.After(s.ExpiresAt)
}

// Store keeps sessions in memory. It has no clock of its own: callers pass
// the time that expiry is judged against.
type Store struct {
	mu       sync.RWMutex
	sessions map[uuid.UUID]Session
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{
		sessions: make(map[uuid.UUID]Session),
	}
}

// Set adds or replaces a session.
func (s *Store) Set(session Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[session.ID] = session
}

// Get returns a copy of the session with id if it is still valid at now.
func (s *Store) Get(id uuid.UUID, now time.Time) (*Session, error) {
	s.mu.RLock()
	session, ok := s.sessions[id]
	s.mu.RUnlock()

	if !ok {
		return nil, ErrSessionNotFound
	}
	if session.ExpiredAt(now) {
		return nil, ErrSessionExpired
	}
	return &session, nil
}

// Delete removes a session. Unknown IDs are ignored.
func (s *Store) Delete(id uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
}

// Len returns the number of stored sessions, expired ones included.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// Cleanup drops every session expired at now and returns how many went.
func (s *Store) Cleanup(now time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	before := len(s.sessions)
	for id, session := range s.sessions {
		if session.ExpiredAt(now) {
			delete(s.sessions, id)
		}
	}
	return before - len(s.sessions)
}
