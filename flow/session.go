package flow

import (
	"github.com/jrsteele09/go-google-auth/integration"
	"github.com/jrsteele09/go-google-auth/token"
)

// State identifies where an authentication attempt is in its lifecycle.
type State string

// Redirect flow: Initiated -> RedirectedToProvider -> CodeReceived ->
// TokenExchanged -> ClaimsTrusted -> PrincipalBound.
// Form-post flow: TokenPosted -> ClaimsVerified -> PrincipalBound.
// Any guard failure lands in Failed, which is terminal: the attempt never
// proceeds or retries, the user must start over from a fresh session.
const (
	StateInitiated            State = "INITIATED"
	StateRedirectedToProvider State = "REDIRECTED_TO_PROVIDER"
	StateCodeReceived         State = "CODE_RECEIVED"
	StateTokenExchanged       State = "TOKEN_EXCHANGED"
	StateClaimsTrusted        State = "CLAIMS_TRUSTED"
	StateTokenPosted          State = "TOKEN_POSTED"
	StateClaimsVerified       State = "CLAIMS_VERIFIED"
	StatePrincipalBound       State = "PRINCIPAL_BOUND"
	StateFailed               State = "FAILED"
)

// Session carries the mutable state of a single authentication attempt.
// A session is owned by exactly one attempt from creation to principal
// binding (or failure) and must never be shared between users or concurrent
// attempts. The integration reference is shared and read-only.
type Session struct {
	Integration *integration.Integration
	StateToken  string
	RedirectURI string
	RawIDToken  string
	Claims      *token.Claims

	state   State
	failure error
}

// NewSession creates a session at the start of a redirect-flow attempt.
func NewSession(integ *integration.Integration) *Session {
	return &Session{
		Integration: integ,
		state:       StateInitiated,
	}
}

// newFormPostSession creates a session for a form-post attempt, which skips
// the redirect round trip and begins at TokenPosted.
func newFormPostSession(integ *integration.Integration) *Session {
	return &Session{
		Integration: integ,
		state:       StateTokenPosted,
	}
}

// State returns the attempt's current lifecycle state.
func (s *Session) State() State {
	return s.state
}

// Failure returns the error that moved the session to StateFailed, or nil.
func (s *Session) Failure() error {
	return s.failure
}

func (s *Session) advance(next State) {
	s.state = next
}

// fail marks the session terminally failed and returns the error for the
// caller to propagate.
func (s *Session) fail(err error) error {
	s.state = StateFailed
	s.failure = err
	return err
}
