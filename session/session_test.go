package session

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/udayip/portfolio/logger"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

var epoch = time.Date(2024, 3, 5, 6, 0, 0, 0, time.UTC)

// fakeClock is a settable time source shared with the cleanup goroutine.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func newTestManager(duration time.Duration, log logger.Logger) (*Manager, *fakeClock) {
	clock := &fakeClock{now: epoch}
	manager := NewManager(duration, log)
	manager.now = clock.Now
	return manager, clock
}

func TestSession_ExpiredAt(t *testing.T) {
	session := Session{ExpiresAt: epoch}

	tests := []struct {
		name string
		now  time.Time
		want bool
	}{
		{name: "before expiry", now: epoch.Add(-time.Hour), want: false},
		{name: "at expiry", now: epoch, want: false},
		{name: "just after expiry", now: epoch.Add(time.Nanosecond), want: true},
		{name: "long after expiry", now: epoch.Add(time.Hour), want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, session.ExpiredAt(tt.now))
		})
	}
}

func newSession(ttl time.Duration) Session {
	return Session{
		ID:        uuid.New(),
		Subject:   "admin",
		CreatedAt: epoch,
		ExpiresAt: epoch.Add(ttl),
	}
}

func TestStore_SetGetDelete(t *testing.T) {
	store := NewStore()
	session := newSession(time.Hour)

	store.Set(session)

	retrieved, err := store.Get(session.ID, epoch)
	require.NoError(t, err)
	assert.Equal(t, session, *retrieved)

	retrieved.Subject = "changed"
	again, err := store.Get(session.ID, epoch)
	require.NoError(t, err)
	assert.Equal(t, "admin", again.Subject, "callers get a copy")

	store.Delete(session.ID)
	_, err = store.Get(session.ID, epoch)
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestStore_GetExpired(t *testing.T) {
	store := NewStore()
	session := newSession(time.Hour)
	store.Set(session)

	_, err := store.Get(session.ID, epoch.Add(time.Hour))
	assert.NoError(t, err)
	_, err = store.Get(session.ID, epoch.Add(time.Hour+time.Second))
	assert.ErrorIs(t, err, ErrSessionExpired)
}

func TestStore_Cleanup(t *testing.T) {
	store := NewStore()
	active := newSession(time.Hour)
	expired := newSession(-time.Hour)
	store.Set(active)
	store.Set(expired)

	assert.Equal(t, 0, store.Cleanup(epoch.Add(-2*time.Hour)), "nothing has expired yet")
	assert.Equal(t, 1, store.Cleanup(epoch))
	assert.Equal(t, 1, store.Len())

	_, err := store.Get(active.ID, epoch)
	assert.NoError(t, err)
	_, err = store.Get(expired.ID, epoch)
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestManager_CreateAndGet(t *testing.T) {
	log := logger.NewTestLogger()
	manager, _ := newTestManager(12*time.Hour, log)
	ctx := logger.WithRequestID(context.Background(), "req-1")

	created, err := manager.Create(ctx, "admin")
	require.NoError(t, err)
	assert.Equal(t, "admin", created.Subject)
	assert.Equal(t, epoch, created.CreatedAt)
	assert.Equal(t, epoch.Add(12*time.Hour), created.ExpiresAt)

	retrieved, err := manager.Get(created.ID.String())
	require.NoError(t, err)
	assert.Equal(t, created.ID, retrieved.ID)

	entries := log.Entries()
	require.Len(t, entries, 1)
	assert.Equal(t, "session created", entries[0].Message)
	assert.Equal(t, "req-1", entries[0].Fields["request_id"])
}

func TestManager_GetInvalidID(t *testing.T) {
	manager := NewManager(time.Hour, logger.NewTestLogger())

	for _, id := range []string{"", "not-a-uuid", uuid.NewString()} {
		_, err := manager.Get(id)
		assert.ErrorIs(t, err, ErrSessionNotFound, id)
	}
}

func TestManager_GetExpired(t *testing.T) {
	manager, clock := newTestManager(time.Hour, logger.NewTestLogger())

	created, err := manager.Create(context.Background(), "admin")
	require.NoError(t, err)

	clock.Advance(time.Hour)
	_, err = manager.Get(created.ID.String())
	require.NoError(t, err, "valid through its expiry instant")

	clock.Advance(time.Second)
	_, err = manager.Get(created.ID.String())
	assert.ErrorIs(t, err, ErrSessionExpired)
}

func TestManager_Delete(t *testing.T) {
	manager := NewManager(time.Hour, logger.NewTestLogger())

	created, err := manager.Create(context.Background(), "admin")
	require.NoError(t, err)

	manager.Delete(context.Background(), created.ID.String())
	manager.Delete(context.Background(), "garbage")

	_, err = manager.Get(created.ID.String())
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestManager_BackgroundCleanup(t *testing.T) {
	log := logger.NewTestLogger()
	manager, clock := newTestManager(time.Hour, log)

	_, err := manager.Create(context.Background(), "admin")
	require.NoError(t, err)
	clock.Advance(2 * time.Hour)

	manager.StartCleanup(5 * time.Millisecond)
	defer manager.StopCleanup()

	assert.Eventually(t, func() bool {
		return manager.store.Len() == 0
	}, time.Second, 5*time.Millisecond)
	assert.Eventually(t, func() bool {
		return log.HasEntry("info", "cleaned up expired sessions")
	}, time.Second, 5*time.Millisecond)
}

func TestManager_StopCleanupTwice(t *testing.T) {
	manager := NewManager(time.Hour, logger.NewTestLogger())
	manager.StartCleanup(time.Hour)

	manager.StopCleanup()
	manager.StopCleanup()
}

func TestManager_Concurrent(t *testing.T) {
	manager := NewManager(24*time.Hour, logger.NewTestLogger())

	var wg sync.WaitGroup
	ids := make(chan string, 100)

	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			session, err := manager.Create(context.Background(), "admin")
			if err == nil {
				ids <- session.ID.String()
			}
		}()
	}

	wg.Wait()
	close(ids)

	count := 0
	for id := range ids {
		_, err := manager.Get(id)
		assert.NoError(t, err)
		count++
	}
	assert.Equal(t, 100, count)
}
