package loginsession

import "time"

// Session holds the authenticated identity bound to a browser session. Only
// the serialized principal envelope is kept; the ID token and claims are
// discarded once the principal is bound.
type Session struct {
	SerializedPrincipal string
	CreatedAt           time.Time
}

type Repo interface {
	Upsert(sessionID string, session Session) error
	Get(sessionID string) (*Session, error)
	Delete(sessionID string) error
}
