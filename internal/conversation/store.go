package conversation

import (
	"sync"
	"time"
)

// Store keeps one session per conversation ID. Implementations must
// isolate sessions from each other.
type Store interface {
	// Get returns the session for id, or nil if none exists.
	Get(id string) (*Session, error)
	// GetOrCreate returns the existing session for id or creates a
	// fresh one at the initial stage.
	GetOrCreate(id string) (*Session, error)
	// Save persists the session after a turn.
	Save(s *Session) error
	// Delete removes the session for id.
	Delete(id string) error
}

// MemoryStore is the default in-process session store.
type MemoryStore struct {
	sessions map[string]*Session
	mu       sync.RWMutex
	timeout  time.Duration
}

// NewMemoryStore creates a memory store with the given idle timeout.
func NewMemoryStore(timeout time.Duration) *MemoryStore {
	if timeout <= 0 {
		timeout = 30 * time.Minute
	}
	return &MemoryStore{
		sessions: make(map[string]*Session),
		timeout:  timeout,
	}
}

func (ms *MemoryStore) Get(id string) (*Session, error) {
	ms.mu.RLock()
	defer ms.mu.RUnlock()
	return ms.sessions[id], nil
}

func (ms *MemoryStore) GetOrCreate(id string) (*Session, error) {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	session, ok := ms.sessions[id]
	if ok && !session.IsExpired(ms.timeout) {
		return session, nil
	}

	session = NewSession(id)
	ms.sessions[id] = session
	return session, nil
}

// Save is a no-op for the memory store: callers hold the live pointer.
func (ms *MemoryStore) Save(s *Session) error {
	return nil
}

func (ms *MemoryStore) Delete(id string) error {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	delete(ms.sessions, id)
	return nil
}

// Cleanup removes expired sessions and returns how many were dropped.
func (ms *MemoryStore) Cleanup() int {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	removed := 0
	for id, session := range ms.sessions {
		if session.IsExpired(ms.timeout) {
			delete(ms.sessions, id)
			removed++
		}
	}
	return removed
}

// StartCleanup runs Cleanup on the given interval until ctx is done.
func (ms *MemoryStore) StartCleanup(done <-chan struct{}, interval time.Duration) {
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			ms.Cleanup()
		}
	}
}
