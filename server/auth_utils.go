package server

import (
	"net/http"
)

const (
	// loggedInSessionID is the name of the cookie carrying the login session id
	loggedInSessionID = "loggedInSessionId"
	// loginSessionMaxAge bounds how long a bound principal stays resolvable
	loginSessionMaxAge = 8 * 60 * 60 // 8 hours in seconds
)

func (s *Server) SetLoginSessionCookie(w http.ResponseWriter, r *http.Request, sessionID string, maxAge int) {
	http.SetCookie(w, &http.Cookie{
		Name:     loggedInSessionID,
		Value:    sessionID,
		Path:     "/",
		HttpOnly: true,
		Secure:   getScheme(r) == "https",
		SameSite: http.SameSiteLaxMode,
		MaxAge:   maxAge,
	})
}

// getScheme resolves the scheme the client used, honouring proxies that
// terminate TLS upstream.
func getScheme(r *http.Request) string {
	if proto := r.Header.Get("X-Forwarded-Proto"); proto != "" {
		return proto
	}
	if r.TLS != nil {
		return "https"
	}
	return "http"
}

// renderAuthFailure surfaces the generic authentication-failed outcome.
// Error detail stays in the logs for operator diagnostics and never reaches
// the response.
func renderAuthFailure(w http.ResponseWriter) {
	http.Error(w, "Authentication failed", http.StatusUnauthorized)
}
