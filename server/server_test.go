package server_test

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/jrsteele09/go-google-auth/flow"
	"github.com/jrsteele09/go-google-auth/integration"
	"github.com/jrsteele09/go-google-auth/internal/config"
	"github.com/jrsteele09/go-google-auth/server"
	"github.com/jrsteele09/go-google-auth/server/flowrepo"
	"github.com/jrsteele09/go-google-auth/server/loginsession"
	"github.com/jrsteele09/go-google-auth/token"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

const testClientID = "client-id.apps.googleusercontent.com"

type testConfig struct {
	config.EnvVars
	config.Google
}

func (testConfig) GetEnv() string            { return "TEST" }
func (testConfig) GetGoogleClientID() string { return testClientID }

type fakeVerifier struct {
	claims      *token.Claims
	err         error
	gotToken    string
	gotAudience string
}

func (f *fakeVerifier) Verify(_ context.Context, rawToken, expectedAudience string) (*token.Claims, error) {
	f.gotToken = rawToken
	f.gotAudience = expectedAudience
	return f.claims, f.err
}

// testServer wires a Server against an httptest token endpoint so the
// redirect flow's code exchange runs for real, while form-post verification
// goes through the fake verifier.
type testServer struct {
	server   *server.Server
	verifier *fakeVerifier
	logins   loginsession.Repo
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	idTokenPayload, err := json.Marshal(map[string]any{
		"iss":   "https://accounts.google.com",
		"sub":   "10769150350006150715113082367",
		"aud":   testClientID,
		"email": "jane@example.com",
		"name":  "Jane Doe",
	})
	require.NoError(t, err)
	idToken := base64.RawURLEncoding.EncodeToString([]byte(`{"alg":"RS256"}`)) +
		"." + base64.RawURLEncoding.EncodeToString(idTokenPayload) + ".sig"

	tokenEndpoint := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		if r.PostForm.Get("code") != "good-code" {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusBadRequest)
			fmt.Fprint(w, `{"error":"invalid_grant"}`)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, `{"access_token":"at","token_type":"Bearer","expires_in":3600,"id_token":%q}`, idToken)
	}))
	t.Cleanup(tokenEndpoint.Close)

	integ, err := integration.New(testClientID, "client-secret",
		tokenEndpoint.URL+"/auth", tokenEndpoint.URL+"/token",
		"https://accounts.google.com", tokenEndpoint.URL+"/certs")
	require.NoError(t, err)

	exchanger, err := token.NewExchangeClient(integ)
	require.NoError(t, err)

	verifier := &fakeVerifier{}
	flowService, err := flow.NewService(integ, exchanger, verifier, flow.WithLogger(zerolog.Nop()))
	require.NoError(t, err)

	logins := loginsession.NewInMemoryRepo()
	srv, err := server.New(testConfig{}, flowService, flowrepo.NewInMemoryRepo(), logins)
	require.NoError(t, err)

	return &testServer{server: srv, verifier: verifier, logins: logins}
}

// login drives the login handler and returns the attempt id and state token
// parsed out of the provider redirect.
func (ts *testServer) login(t *testing.T) (attemptID, state string) {
	t.Helper()

	rec := httptest.NewRecorder()
	ts.server.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "http://idp.example.org"+server.RouteGoogleLogin, nil))
	require.Equal(t, http.StatusSeeOther, rec.Code)

	location, err := url.Parse(rec.Header().Get("Location"))
	require.NoError(t, err)
	state = location.Query().Get("state")
	require.NotEmpty(t, state)

	redirectURI, err := url.Parse(location.Query().Get("redirect_uri"))
	require.NoError(t, err)
	attemptID = redirectURI.Query().Get("attempt")
	require.NotEmpty(t, attemptID)
	return attemptID, state
}

func callback(ts *testServer, attemptID, state, code string) *httptest.ResponseRecorder {
	target := "http://idp.example.org" + server.RouteGoogleCallback +
		"?attempt=" + url.QueryEscape(attemptID) +
		"&state=" + url.QueryEscape(state) +
		"&code=" + url.QueryEscape(code)
	rec := httptest.NewRecorder()
	ts.server.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func sessionCookie(t *testing.T, rec *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, cookie := range rec.Result().Cookies() {
		if cookie.Name == "loggedInSessionId" {
			return cookie
		}
	}
	t.Fatal("no login session cookie set")
	return nil
}

func TestGoogleLoginHandler(t *testing.T) {
	ts := newTestServer(t)

	rec := httptest.NewRecorder()
	ts.server.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "http://idp.example.org"+server.RouteGoogleLogin, nil))
	require.Equal(t, http.StatusSeeOther, rec.Code)

	location, err := url.Parse(rec.Header().Get("Location"))
	require.NoError(t, err)
	query := location.Query()
	require.Equal(t, "code", query.Get("response_type"))
	require.Equal(t, testClientID, query.Get("client_id"))
	require.NotEmpty(t, query.Get("state"))
	require.Contains(t, query.Get("redirect_uri"), "http://idp.example.org"+server.RouteGoogleCallback+"?attempt=")
	require.Contains(t, query.Get("redirect_uri"), "&_eventId=proceed")
}

func TestGoogleCallbackHandler(t *testing.T) {
	t.Run("completes the flow and binds a login session", func(t *testing.T) {
		ts := newTestServer(t)
		attemptID, state := ts.login(t)

		rec := callback(ts, attemptID, state, "good-code")
		require.Equal(t, http.StatusSeeOther, rec.Code)
		require.Equal(t, "/", rec.Header().Get("Location"))

		cookie := sessionCookie(t, rec)
		require.True(t, cookie.HttpOnly)
		require.Equal(t, http.SameSiteLaxMode, cookie.SameSite)

		session, err := ts.logins.Get(cookie.Value)
		require.NoError(t, err)
		require.Contains(t, session.SerializedPrincipal, `{"Google":`)
	})

	t.Run("rejects a forged state with the generic failure", func(t *testing.T) {
		ts := newTestServer(t)
		attemptID, _ := ts.login(t)

		rec := callback(ts, attemptID, "forged-state", "good-code")
		require.Equal(t, http.StatusUnauthorized, rec.Code)
		require.Contains(t, rec.Body.String(), "Authentication failed")
		require.NotContains(t, rec.Body.String(), "state")
	})

	t.Run("an attempt is single use", func(t *testing.T) {
		ts := newTestServer(t)
		attemptID, state := ts.login(t)

		require.Equal(t, http.StatusSeeOther, callback(ts, attemptID, state, "good-code").Code)
		require.Equal(t, http.StatusUnauthorized, callback(ts, attemptID, state, "good-code").Code)
	})

	t.Run("a failed attempt is also consumed", func(t *testing.T) {
		ts := newTestServer(t)
		attemptID, state := ts.login(t)

		require.Equal(t, http.StatusUnauthorized, callback(ts, attemptID, "forged-state", "good-code").Code)
		require.Equal(t, http.StatusUnauthorized, callback(ts, attemptID, state, "good-code").Code)
	})

	t.Run("rejects an unknown attempt", func(t *testing.T) {
		ts := newTestServer(t)
		rec := callback(ts, "no-such-attempt", "state", "good-code")
		require.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("a spent code fails with the generic failure", func(t *testing.T) {
		ts := newTestServer(t)
		attemptID, state := ts.login(t)

		rec := callback(ts, attemptID, state, "spent-code")
		require.Equal(t, http.StatusUnauthorized, rec.Code)
		require.Contains(t, rec.Body.String(), "Authentication failed")
	})

	t.Run("surfaces a provider error response", func(t *testing.T) {
		ts := newTestServer(t)
		attemptID, _ := ts.login(t)

		target := "http://idp.example.org" + server.RouteGoogleCallback +
			"?attempt=" + attemptID + "&error=access_denied&error_description=user+cancelled"
		rec := httptest.NewRecorder()
		ts.server.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
		require.Equal(t, http.StatusBadRequest, rec.Code)
		require.Contains(t, rec.Body.String(), "access_denied")
	})
}

func TestTokenSignInHandler(t *testing.T) {
	postToken := func(ts *testServer, rawToken string) *httptest.ResponseRecorder {
		form := url.Values{"google_id_token": {rawToken}}
		req := httptest.NewRequest(http.MethodPost, "http://idp.example.org"+server.RouteTokenSignIn, strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		rec := httptest.NewRecorder()
		ts.server.ServeHTTP(rec, req)
		return rec
	}

	t.Run("verified token binds a login session", func(t *testing.T) {
		ts := newTestServer(t)
		ts.verifier.claims = &token.Claims{Subject: "u7", Email: "john@example.com"}

		rec := postToken(ts, "posted.id.token")
		require.Equal(t, http.StatusSeeOther, rec.Code)
		require.Equal(t, "posted.id.token", ts.verifier.gotToken)
		require.Equal(t, testClientID, ts.verifier.gotAudience, "the configured client id is the expected audience")

		cookie := sessionCookie(t, rec)
		session, err := ts.logins.Get(cookie.Value)
		require.NoError(t, err)
		require.Contains(t, session.SerializedPrincipal, "u7")
	})

	t.Run("verification failure yields the generic failure", func(t *testing.T) {
		ts := newTestServer(t)
		ts.verifier.err = fmt.Errorf("%w: signature invalid", token.ErrVerification)

		rec := postToken(ts, "tampered.id.token")
		require.Equal(t, http.StatusUnauthorized, rec.Code)
		require.Contains(t, rec.Body.String(), "Authentication failed")
		require.NotContains(t, rec.Body.String(), "signature")
	})

	t.Run("missing token yields the generic failure", func(t *testing.T) {
		ts := newTestServer(t)
		ts.verifier.err = errors.New("should not be called")

		rec := postToken(ts, "")
		require.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestPrincipalHandler(t *testing.T) {
	principalRequest := func(ts *testServer, cookie *http.Cookie) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "http://idp.example.org"+server.RoutePrincipal, nil)
		if cookie != nil {
			req.AddCookie(cookie)
		}
		rec := httptest.NewRecorder()
		ts.server.ServeHTTP(rec, req)
		return rec
	}

	t.Run("resolves the logged-in principal", func(t *testing.T) {
		ts := newTestServer(t)
		attemptID, state := ts.login(t)
		cookie := sessionCookie(t, callback(ts, attemptID, state, "good-code"))

		rec := principalRequest(ts, cookie)
		require.Equal(t, http.StatusOK, rec.Code)

		var resp map[string]string
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		require.Equal(t, "10769150350006150715113082367", resp["subject"])
		require.Equal(t, "jane@example.com", resp["email"])
		require.Equal(t, "Jane Doe", resp["name"])
	})

	t.Run("no cookie means no principal", func(t *testing.T) {
		ts := newTestServer(t)
		require.Equal(t, http.StatusUnauthorized, principalRequest(ts, nil).Code)
	})

	t.Run("unknown session means no principal", func(t *testing.T) {
		ts := newTestServer(t)
		cookie := &http.Cookie{Name: "loggedInSessionId", Value: "no-such-session"}
		require.Equal(t, http.StatusUnauthorized, principalRequest(ts, cookie).Code)
	})

	t.Run("a foreign principal envelope is not resolved", func(t *testing.T) {
		ts := newTestServer(t)
		require.NoError(t, ts.logins.Upsert("s1", loginsession.Session{SerializedPrincipal: `{"SAML":"assertion"}`}))

		cookie := &http.Cookie{Name: "loggedInSessionId", Value: "s1"}
		require.Equal(t, http.StatusUnauthorized, principalRequest(ts, cookie).Code)
	})
}
