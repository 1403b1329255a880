package token

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/jrsteele09/go-google-auth/integration"
	"github.com/lestrrat-go/httprc/v3"
	"github.com/lestrrat-go/jwx/v3/jwk"
)

const (
	defaultKeyFetchTimeout = 5 * time.Second
	defaultClockLeeway     = 2 * time.Minute
)

// Verifier fully verifies ID tokens that arrived over an untrusted channel:
// signature against the provider's published signing keys, issuer, audience
// and expiry. Any single failing check rejects the token, including a failed
// key fetch; there is no offline fallback.
//
// The signing key set is process-wide shared state. It is cached with
// background refresh and read concurrently without blocking; registration of
// the JWKS endpoint happens lazily on first use.
type Verifier struct {
	issuer    string
	jwksURL   string
	jwksCache *jwk.Cache
	leeway    time.Duration
	nowTime   func() time.Time

	jwksRegistered     bool
	jwksRegistrationMu sync.Mutex
}

// VerifierOption modifies a Verifier instance.
type VerifierOption func(*Verifier)

// WithClockLeeway sets the clock skew tolerance applied to the exp and iat
// checks.
func WithClockLeeway(leeway time.Duration) VerifierOption {
	return func(v *Verifier) {
		v.leeway = leeway
	}
}

// WithVerifierNowTime sets the now time function (primarily for testing).
func WithVerifierNowTime(nowFunc func() time.Time) VerifierOption {
	return func(v *Verifier) {
		v.nowTime = nowFunc
	}
}

// NewVerifier creates a Verifier that fetches signing keys from the
// integration's JWKS endpoint. The provided context bounds the lifetime of
// the background key refresh.
func NewVerifier(ctx context.Context, integ *integration.Integration, options ...VerifierOption) (*Verifier, error) {
	if integ == nil {
		return nil, fmt.Errorf("[NewVerifier] integration is required")
	}

	httpClient := &http.Client{Timeout: defaultKeyFetchTimeout}
	httprcClient := httprc.NewClient(httprc.WithHTTPClient(httpClient))
	cache, err := jwk.NewCache(ctx, httprcClient)
	if err != nil {
		return nil, fmt.Errorf("[NewVerifier] failed to create JWKS cache: %w", err)
	}

	verifier := &Verifier{
		issuer:    integ.Issuer(),
		jwksURL:   integ.JWKSEndpoint(),
		jwksCache: cache,
		leeway:    defaultClockLeeway,
		nowTime:   time.Now,
	}

	for _, opt := range options {
		opt(verifier)
	}

	return verifier, nil
}

// Verify checks the token's signature, issuer, audience and validity window
// and returns its claims. Every failure, including an unreachable key
// endpoint, wraps ErrVerification.
func (v *Verifier) Verify(ctx context.Context, rawToken, expectedAudience string) (*Claims, error) {
	if strings.TrimSpace(rawToken) == "" {
		return nil, fmt.Errorf("%w: no token provided", ErrVerification)
	}
	if expectedAudience == "" {
		return nil, fmt.Errorf("%w: no expected audience configured", ErrVerification)
	}

	parsed, err := jwtlib.Parse(rawToken,
		func(t *jwtlib.Token) (any, error) { return v.keyFromJWKS(ctx, t) },
		jwtlib.WithValidMethods([]string{"RS256", "ES256"}),
		jwtlib.WithIssuer(v.issuer),
		jwtlib.WithAudience(expectedAudience),
		jwtlib.WithExpirationRequired(),
		jwtlib.WithIssuedAt(),
		jwtlib.WithLeeway(v.leeway),
		jwtlib.WithTimeFunc(v.nowTime),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrVerification, err)
	}
	if !parsed.Valid {
		return nil, fmt.Errorf("%w: token is not valid", ErrVerification)
	}

	// The signature checked out, so the payload can now be trusted.
	claims, err := Decode(rawToken)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrVerification, err)
	}

	return claims, nil
}

// ensureJWKSRegistered registers the JWKS endpoint with the cache on first
// use so construction never blocks on the network.
func (v *Verifier) ensureJWKSRegistered(ctx context.Context) error {
	v.jwksRegistrationMu.Lock()
	defer v.jwksRegistrationMu.Unlock()

	if v.jwksRegistered {
		return nil
	}

	registrationCtx, cancel := context.WithTimeout(ctx, defaultKeyFetchTimeout)
	defer cancel()

	if err := v.jwksCache.Register(registrationCtx, v.jwksURL); err != nil {
		return fmt.Errorf("failed to register JWKS endpoint: %w", err)
	}

	v.jwksRegistered = true
	return nil
}

// keyFromJWKS resolves the public key identified by the token header's kid
// from the cached key set.
func (v *Verifier) keyFromJWKS(ctx context.Context, t *jwtlib.Token) (any, error) {
	if err := v.ensureJWKSRegistered(ctx); err != nil {
		return nil, err
	}

	kid, ok := t.Header["kid"].(string)
	if !ok || kid == "" {
		return nil, fmt.Errorf("token header missing kid")
	}

	keySet, err := v.jwksCache.Lookup(ctx, v.jwksURL)
	if err != nil {
		return nil, fmt.Errorf("failed to look up JWKS: %w", err)
	}

	key, found := keySet.LookupKeyID(kid)
	if !found {
		// The provider may have rotated keys since the last fetch.
		keySet, err = v.jwksCache.Refresh(ctx, v.jwksURL)
		if err != nil {
			return nil, fmt.Errorf("failed to refresh JWKS: %w", err)
		}
		if key, found = keySet.LookupKeyID(kid); !found {
			return nil, fmt.Errorf("key id %q not found in JWKS", kid)
		}
	}

	var rawKey any
	if err := jwk.Export(key, &rawKey); err != nil {
		return nil, fmt.Errorf("failed to export signing key: %w", err)
	}

	return rawKey, nil
}
