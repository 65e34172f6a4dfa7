package session

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/udayip/portfolio/logger"
)

// Manager issues admin sessions and expires them in the background.
type Manager struct {
	store    *Store
	duration time.Duration
	logger   logger.Logger
	now      func() time.Time

	stopOnce sync.Once
	stopCh   chan struct{}
	done     chan struct{}
}

// NewManager creates a new session manager with the given duration.
func NewManager(duration time.Duration, log logger.Logger) *Manager {
	return &Manager{
		store:    NewStore(),
		duration: duration,
		logger:   log,
		now:      time.Now,
		stopCh:   make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// Duration returns how long new sessions live.
func (m *Manager) Duration() time.Duration {
	return m.duration
}

// Create starts a session for subject.
func (m *Manager) Create(ctx context.Context, subject string) (*Session, error) {
	id, err := uuid.NewRandom()
	if err != nil {
		return nil, err
	}

	now := m.now()
	session := Session{
		ID:        id,
		Subject:   subject,
		CreatedAt: now,
		ExpiresAt: now.Add(m.duration),
	}

	m.store.Set(session)

	m.logger.Info(ctx, "session created", map[string]interface{}{
		"session_id": id.String(),
		"subject":    subject,
		"expires_at": session.ExpiresAt,
	})

	return &session, nil
}

// Get retrieves a session by its string ID. Malformed IDs are reported as not found.
func (m *Manager) Get(id string) (*Session, error) {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return nil, ErrSessionNotFound
	}
	return m.store.Get(parsed, m.now())
}

// Delete deletes a session by ID.
func (m *Manager) Delete(ctx context.Context, id string) {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return
	}
	m.store.Delete(parsed)
	m.logger.Info(ctx, "session deleted", map[string]interface{}{
		"session_id": id,
	})
}

// StartCleanup starts a background goroutine that periodically cleans up expired sessions.
func (m *Manager) StartCleanup(interval time.Duration) {
	ticker := time.NewTicker(interval)
	go func() {
		defer close(m.done)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				removed := m.store.Cleanup(m.now())
				if removed > 0 {
					m.logger.Info(context.Background(), "cleaned up expired sessions", map[string]interface{}{
						"removed_count": removed,
					})
				}
			case <-m.stopCh:
				return
			}
		}
	}()
}

// StopCleanup stops the cleanup goroutine and waits for it to exit.
// It must only be called after StartCleanup and is safe to call twice.
func (m *Manager) StopCleanup() {
	m.stopOnce.Do(func() {
		close(m.stopCh)
		<-m.done
	})
}
