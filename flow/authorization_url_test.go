package flow_test

import (
	"net/url"
	"testing"

	"github.com/jrsteele09/go-google-auth/flow"
	"github.com/jrsteele09/go-google-auth/integration"
	"github.com/stretchr/testify/require"
)

func TestRedirectURI(t *testing.T) {
	t.Run("concatenates scheme host and resume path", func(t *testing.T) {
		got := flow.RedirectURI("https", "idp.example.org", "/auth/google/callback?attempt=a1")
		require.Equal(t, "https://idp.example.org/auth/google/callback?attempt=a1&_eventId=proceed", got)
	})

	t.Run("is a pure function of its inputs", func(t *testing.T) {
		first := flow.RedirectURI("http", "localhost:8080", "/auth/google/callback?attempt=a2")
		second := flow.RedirectURI("http", "localhost:8080", "/auth/google/callback?attempt=a2")
		require.Equal(t, first, second)
	})
}

func TestAuthorizationURL(t *testing.T) {
	integ, err := integration.NewGoogle("client-id.apps.googleusercontent.com", "client-secret")
	require.NoError(t, err)

	redirectURI := flow.RedirectURI("https", "idp.example.org", "/auth/google/callback?attempt=a1")
	authURL := flow.AuthorizationURL(integ, "statetoken123", redirectURI)

	parsed, err := url.Parse(authURL)
	require.NoError(t, err)
	require.Equal(t, "accounts.google.com", parsed.Host)
	require.Equal(t, "/o/oauth2/v2/auth", parsed.Path)

	query := parsed.Query()
	require.Equal(t, "code", query.Get("response_type"))
	require.Equal(t, "client-id.apps.googleusercontent.com", query.Get("client_id"))
	require.Equal(t, "openid email profile", query.Get("scope"))
	require.Equal(t, "statetoken123", query.Get("state"))
	require.Equal(t, "select_account", query.Get("prompt"))
	require.Equal(t, redirectURI, query.Get("redirect_uri"))
	require.NotContains(t, authURL, "client-secret")
}
