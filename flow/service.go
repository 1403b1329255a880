package flow

import (
	"context"
	"fmt"

	"github.com/jrsteele09/go-google-auth/integration"
	"github.com/jrsteele09/go-google-auth/principal"
	"github.com/jrsteele09/go-google-auth/token"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Exchanger redeems a one-time authorization code for a raw ID token.
// Implemented by token.ExchangeClient.
type Exchanger interface {
	Exchange(ctx context.Context, code, redirectURI string) (string, error)
}

// Verifier cryptographically verifies an ID token received over an untrusted
// channel. Implemented by token.Verifier.
type Verifier interface {
	Verify(ctx context.Context, rawToken, expectedAudience string) (*token.Claims, error)
}

// Service drives the authentication flow state machine. The same ID token
// artifact is trusted through one of two strategies selected by the inbound
// channel, never by configuration: tokens obtained by the service itself from
// the token endpoint are decoded only (CompleteRedirect), tokens handed over
// by a browser-controlled client are always fully verified
// (CompleteFormPost).
type Service struct {
	integration  *integration.Integration
	exchanger    Exchanger
	verifier     Verifier
	hostedDomain string
	logger       zerolog.Logger
}

// ServiceOption defines a function type to modify the Service instance.
type ServiceOption func(*Service)

// WithHostedDomain restricts sign-in to accounts whose hd claim matches the
// given Google Workspace domain.
func WithHostedDomain(domain string) ServiceOption {
	return func(s *Service) {
		s.hostedDomain = domain
	}
}

// WithLogger sets the logger used for flow diagnostics.
func WithLogger(logger zerolog.Logger) ServiceOption {
	return func(s *Service) {
		s.logger = logger
	}
}

// NewService initializes a Service with its required collaborators.
func NewService(integ *integration.Integration, exchanger Exchanger, verifier Verifier, options ...ServiceOption) (*Service, error) {
	if integ == nil {
		return nil, fmt.Errorf("[NewService] integration is required")
	}
	if exchanger == nil {
		return nil, fmt.Errorf("[NewService] exchanger is required")
	}
	if verifier == nil {
		return nil, fmt.Errorf("[NewService] verifier is required")
	}

	service := &Service{
		integration: integ,
		exchanger:   exchanger,
		verifier:    verifier,
		logger:      log.Logger,
	}

	for _, opt := range options {
		opt(service)
	}

	return service, nil
}

// Initiate starts a redirect-flow attempt: it mints a fresh anti forgery
// state token, computes the redirect URI from the inbound request and returns
// the session together with the provider authorization URL the browser must
// be sent to. The caller owns persisting the session across the redirect
// round trip.
func (s *Service) Initiate(scheme, host, resumePath string) (*Session, string) {
	session := NewSession(s.integration)
	session.StateToken = GenerateStateToken()
	session.RedirectURI = RedirectURI(scheme, host, resumePath)

	authorizationURL := AuthorizationURL(s.integration, session.StateToken, session.RedirectURI)
	session.advance(StateRedirectedToProvider)

	s.logger.Debug().
		Str("client_id", s.integration.ClientID()).
		Str("redirect_uri", session.RedirectURI).
		Msg("initiated Google authentication flow")

	return session, authorizationURL
}

// CompleteRedirect finishes a redirect-flow attempt: it checks the anti
// forgery state token, exchanges the one-time authorization code for an ID
// token over the trusted server-to-server channel, decodes the token's
// claims and binds a principal. Every guard failure is terminal for the
// session.
func (s *Service) CompleteRedirect(ctx context.Context, code, state string, session *Session) (*principal.Principal, error) {
	if session == nil {
		return nil, fmt.Errorf("[CompleteRedirect] session is required")
	}

	if !StateTokenMatches(session.StateToken, state) {
		s.logger.Debug().Msg("anti forgery state token absent or not equal to the issued token")
		return nil, session.fail(fmt.Errorf("%w: state parameter does not match issued token", ErrAntiForgeryMismatch))
	}

	if code == "" {
		s.logger.Debug().Msg("no one-time authorization code in request")
		return nil, session.fail(fmt.Errorf("%w: missing authorization code", ErrMissingCredential))
	}
	session.advance(StateCodeReceived)

	rawIDToken, err := s.exchanger.Exchange(ctx, code, session.RedirectURI)
	if err != nil {
		s.logger.Warn().Err(err).Msg("authorization code exchange failed")
		return nil, session.fail(err)
	}
	session.RawIDToken = rawIDToken
	session.advance(StateTokenExchanged)

	// The token came straight from the token endpoint over TLS with the
	// client secret, so it is decoded without signature verification.
	claims, err := token.Decode(rawIDToken)
	if err != nil {
		s.logger.Warn().Err(err).Msg("failed to decode exchanged id token")
		return nil, session.fail(err)
	}
	session.Claims = claims
	session.advance(StateClaimsTrusted)

	return s.bindPrincipal(session)
}

// CompleteFormPost finishes a form-post attempt: the raw token arrived from a
// browser-controlled client with no provenance guarantee, so it is fully
// verified (signature, issuer, audience, expiry) before any claim in it is
// trusted.
func (s *Service) CompleteFormPost(ctx context.Context, rawToken, expectedAudience string) (*principal.Principal, error) {
	session := newFormPostSession(s.integration)

	if rawToken == "" {
		s.logger.Debug().Msg("no Google ID token in request")
		return nil, session.fail(fmt.Errorf("%w: missing id token", ErrMissingCredential))
	}
	session.RawIDToken = rawToken

	claims, err := s.verifier.Verify(ctx, rawToken, expectedAudience)
	if err != nil {
		s.logger.Warn().Err(err).Msg("id token verification failed")
		return nil, session.fail(err)
	}
	session.Claims = claims
	session.advance(StateClaimsVerified)

	return s.bindPrincipal(session)
}

// bindPrincipal applies the final guards shared by both flows and moves the
// session to its success terminal state.
func (s *Service) bindPrincipal(session *Session) (*principal.Principal, error) {
	claims := session.Claims

	if s.hostedDomain != "" && claims.HostedDomain != s.hostedDomain {
		err := fmt.Errorf("%w: account is not in hosted domain %q", principal.ErrInvalidClaims, s.hostedDomain)
		s.logger.Debug().Msg("hosted domain restriction rejected account")
		return nil, session.fail(err)
	}

	p, err := principal.FromClaims(claims)
	if err != nil {
		s.logger.Warn().Err(err).Msg("claims did not yield a principal")
		return nil, session.fail(err)
	}
	session.advance(StatePrincipalBound)

	s.logger.Info().Str("sub", p.SubjectClaim).Msg("login succeeded")

	return p, nil
}
