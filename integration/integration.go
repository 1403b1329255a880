package integration

import (
	"context"
	"fmt"
	"net/url"

	"github.com/coreos/go-oidc/v3/oidc"
	"golang.org/x/oauth2"
)

// Google's published OAuth2/OIDC endpoints, used when the deployment does not
// resolve them through discovery.
const (
	GoogleIssuer                = "https://accounts.google.com"
	GoogleAuthorizationEndpoint = "https://accounts.google.com/o/oauth2/v2/auth"
	GoogleTokenEndpoint         = "https://oauth2.googleapis.com/token"
	GoogleJWKSEndpoint          = "https://www.googleapis.com/oauth2/v3/certs"
)

// Integration holds the OAuth2 client registration for one Google web
// application. Immutable once constructed; a single Integration is shared
// read-only by every authentication attempt in the deployment.
type Integration struct {
	clientID              string
	clientSecret          string
	authorizationEndpoint string
	tokenEndpoint         string
	issuer                string
	jwksEndpoint          string
}

// New creates an Integration after validating the client registration and
// endpoint URLs.
func New(clientID, clientSecret, authorizationEndpoint, tokenEndpoint, issuer, jwksEndpoint string) (*Integration, error) {
	if clientID == "" {
		return nil, fmt.Errorf("[integration New] client id is required")
	}
	if clientSecret == "" {
		return nil, fmt.Errorf("[integration New] client secret is required")
	}
	for name, endpoint := range map[string]string{
		"authorization endpoint": authorizationEndpoint,
		"token endpoint":         tokenEndpoint,
		"issuer":                 issuer,
		"jwks endpoint":          jwksEndpoint,
	} {
		u, err := url.Parse(endpoint)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return nil, fmt.Errorf("[integration New] invalid %s %q", name, endpoint)
		}
	}

	return &Integration{
		clientID:              clientID,
		clientSecret:          clientSecret,
		authorizationEndpoint: authorizationEndpoint,
		tokenEndpoint:         tokenEndpoint,
		issuer:                issuer,
		jwksEndpoint:          jwksEndpoint,
	}, nil
}

// NewGoogle creates an Integration using Google's published endpoints.
func NewGoogle(clientID, clientSecret string) (*Integration, error) {
	return New(clientID, clientSecret, GoogleAuthorizationEndpoint, GoogleTokenEndpoint, GoogleIssuer, GoogleJWKSEndpoint)
}

// Discover builds an Integration from the issuer's OIDC discovery document,
// resolving the authorization, token and signing key endpoints at runtime.
func Discover(ctx context.Context, issuer, clientID, clientSecret string) (*Integration, error) {
	provider, err := oidc.NewProvider(ctx, issuer)
	if err != nil {
		return nil, fmt.Errorf("[integration Discover] failed to fetch discovery document: %w", err)
	}

	var meta struct {
		JWKSURI string `json:"jwks_uri"`
	}
	if err := provider.Claims(&meta); err != nil {
		return nil, fmt.Errorf("[integration Discover] failed to parse discovery document: %w", err)
	}
	if meta.JWKSURI == "" {
		return nil, fmt.Errorf("[integration Discover] discovery document missing jwks_uri")
	}

	endpoint := provider.Endpoint()
	return New(clientID, clientSecret, endpoint.AuthURL, endpoint.TokenURL, issuer, meta.JWKSURI)
}

func (i *Integration) ClientID() string {
	return i.clientID
}

func (i *Integration) ClientSecret() string {
	return i.clientSecret
}

func (i *Integration) AuthorizationEndpoint() string {
	return i.authorizationEndpoint
}

func (i *Integration) TokenEndpoint() string {
	return i.tokenEndpoint
}

func (i *Integration) Issuer() string {
	return i.issuer
}

func (i *Integration) JWKSEndpoint() string {
	return i.jwksEndpoint
}

// OAuth2Config derives the oauth2 client configuration for one authentication
// attempt. AuthStyleInParams keeps the client credentials in the POST body,
// which is how the token endpoint expects them.
func (i *Integration) OAuth2Config(redirectURI string) *oauth2.Config {
	return &oauth2.Config{
		ClientID:     i.clientID,
		ClientSecret: i.clientSecret,
		Endpoint: oauth2.Endpoint{
			AuthURL:   i.authorizationEndpoint,
			TokenURL:  i.tokenEndpoint,
			AuthStyle: oauth2.AuthStyleInParams,
		},
		RedirectURL: redirectURI,
		Scopes:      []string{oidc.ScopeOpenID, "email", "profile"},
	}
}
