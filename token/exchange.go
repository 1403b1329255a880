package token

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/jrsteele09/go-google-auth/integration"
	"golang.org/x/oauth2"
)

const defaultExchangeTimeout = 10 * time.Second

// ExchangeClient redeems a one-time authorization code for a raw ID token at
// the integration's token endpoint. The exchange is a single POST with no
// retry: a failed exchange fails the attempt because the code has already
// been consumed.
type ExchangeClient struct {
	integration *integration.Integration
	httpClient  *http.Client
}

// ExchangeClientOption modifies an ExchangeClient instance.
type ExchangeClientOption func(*ExchangeClient)

// WithHTTPClient sets the HTTP client used for the token endpoint POST
// (primarily for testing and custom timeouts).
func WithHTTPClient(client *http.Client) ExchangeClientOption {
	return func(c *ExchangeClient) {
		c.httpClient = client
	}
}

// NewExchangeClient creates an ExchangeClient for the given integration.
func NewExchangeClient(integ *integration.Integration, options ...ExchangeClientOption) (*ExchangeClient, error) {
	if integ == nil {
		return nil, fmt.Errorf("[NewExchangeClient] integration is required")
	}

	client := &ExchangeClient{
		integration: integ,
		httpClient:  &http.Client{Timeout: defaultExchangeTimeout},
	}

	for _, opt := range options {
		opt(client)
	}

	return client, nil
}

// Exchange POSTs the authorization code grant to the token endpoint and
// returns the compact ID token from the JSON response. The redirectURI must
// be byte-identical to the one sent with the authorization request.
func (c *ExchangeClient) Exchange(ctx context.Context, code, redirectURI string) (string, error) {
	if code == "" {
		return "", fmt.Errorf("%w: no authorization code", ErrTokenExchange)
	}

	ctx = context.WithValue(ctx, oauth2.HTTPClient, c.httpClient)

	oauth2Token, err := c.integration.OAuth2Config(redirectURI).Exchange(ctx, code)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrTokenExchange, err)
	}

	rawIDToken, ok := oauth2Token.Extra("id_token").(string)
	if !ok || rawIDToken == "" {
		return "", fmt.Errorf("%w: no id_token in token response", ErrTokenExchange)
	}

	return rawIDToken, nil
}
