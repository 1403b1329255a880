package flowrepo

import (
	"time"

	"github.com/jrsteele09/go-google-auth/flow"
)

// PendingAttempt tracks one authentication attempt between the redirect to
// Google and the browser's return. Attempts are short-lived; anything older
// than the repo's TTL is discarded.
type PendingAttempt struct {
	Session   *flow.Session
	CreatedAt time.Time
}

type Repo interface {
	Upsert(attemptID string, attempt *PendingAttempt) error
	Get(attemptID string) (*PendingAttempt, error)
	Delete(attemptID string) error
}
