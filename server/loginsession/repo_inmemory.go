package loginsession

import (
	"errors"
	"sync"
)

// InMemoryRepo is a thread-safe in-memory implementation of the Repo interface
type InMemoryRepo struct {
	mu       sync.RWMutex
	sessions map[string]Session
}

// NewInMemoryRepo creates a new in-memory login session repository
func NewInMemoryRepo() *InMemoryRepo {
	return &InMemoryRepo{
		sessions: make(map[string]Session),
	}
}

// Upsert stores or updates a login session
func (r *InMemoryRepo) Upsert(sessionID string, session Session) error {
	if sessionID == "" {
		return errors.New("sessionID cannot be empty")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.sessions[sessionID] = session
	return nil
}

// Get retrieves a login session by its id
func (r *InMemoryRepo) Get(sessionID string) (*Session, error) {
	if sessionID == "" {
		return nil, errors.New("sessionID cannot be empty")
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	session, exists := r.sessions[sessionID]
	if !exists {
		return nil, errors.New("session not found")
	}

	return &session, nil
}

// Delete removes a login session
func (r *InMemoryRepo) Delete(sessionID string) error {
	if sessionID == "" {
		return errors.New("sessionID cannot be empty")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.sessions, sessionID)
	return nil
}
