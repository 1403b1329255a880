package flowrepo

import (
	"errors"
	"sync"
	"time"
)

const defaultTTL = 15 * time.Minute

// InMemoryRepo is a thread-safe in-memory implementation of the Repo
// interface. Expired attempts are swept lazily on access.
type InMemoryRepo struct {
	mu       sync.RWMutex
	attempts map[string]*PendingAttempt
	ttl      time.Duration
	nowTime  func() time.Time
}

// NewInMemoryRepo creates a new in-memory pending attempt repository.
func NewInMemoryRepo() *InMemoryRepo {
	return &InMemoryRepo{
		attempts: make(map[string]*PendingAttempt),
		ttl:      defaultTTL,
		nowTime:  time.Now,
	}
}

// Upsert stores or updates a pending attempt.
func (r *InMemoryRepo) Upsert(attemptID string, attempt *PendingAttempt) error {
	if attemptID == "" {
		return errors.New("attemptID cannot be empty")
	}
	if attempt == nil || attempt.Session == nil {
		return errors.New("attempt cannot be nil")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.sweepLocked()
	r.attempts[attemptID] = &PendingAttempt{
		Session:   attempt.Session,
		CreatedAt: attempt.CreatedAt,
	}

	return nil
}

// Get retrieves a pending attempt by its id.
func (r *InMemoryRepo) Get(attemptID string) (*PendingAttempt, error) {
	if attemptID == "" {
		return nil, errors.New("attemptID cannot be empty")
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	attempt, exists := r.attempts[attemptID]
	if !exists {
		return nil, errors.New("attempt not found")
	}
	if r.nowTime().Sub(attempt.CreatedAt) > r.ttl {
		return nil, errors.New("attempt expired")
	}

	return &PendingAttempt{
		Session:   attempt.Session,
		CreatedAt: attempt.CreatedAt,
	}, nil
}

// Delete removes a pending attempt.
func (r *InMemoryRepo) Delete(attemptID string) error {
	if attemptID == "" {
		return errors.New("attemptID cannot be empty")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.attempts, attemptID)
	return nil
}

func (r *InMemoryRepo) sweepLocked() {
	now := r.nowTime()
	for id, attempt := range r.attempts {
		if now.Sub(attempt.CreatedAt) > r.ttl {
			delete(r.attempts, id)
		}
	}
}
