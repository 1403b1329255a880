package server

import (
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/jrsteele09/go-google-auth/principal"
	"github.com/jrsteele09/go-google-auth/server/loginsession"
	"github.com/rs/zerolog/log"
)

// GoogleCallbackHandler completes a redirect-flow attempt when the browser
// returns from Google with the state token and one-time authorization code.
func (s *Server) GoogleCallbackHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		// Parse form to support both GET (query params) and POST (form_post
		// response mode); r.FormValue works for both.
		state := r.FormValue("state")
		code := r.FormValue("code")
		errorParam := r.FormValue("error")
		errorDesc := r.FormValue("error_description")

		if errorParam != "" {
			http.Error(w, fmt.Sprintf("Authorization failed: %s - %s", errorParam, errorDesc), http.StatusBadRequest)
			return
		}

		attemptID := r.FormValue("attempt")
		attempt, err := s.attempts.Get(attemptID)
		if err != nil {
			log.Err(err).Msg("callback for unknown or expired authentication attempt")
			renderAuthFailure(w)
			return
		}

		// Single use either way: the attempt never survives its callback
		if err := s.attempts.Delete(attemptID); err != nil {
			log.Err(err).Msg("failed to delete pending authentication attempt")
			http.Error(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		p, err := s.flows.CompleteRedirect(r.Context(), code, state, attempt.Session)
		if err != nil {
			log.Err(err).Msg("Google redirect flow failed")
			renderAuthFailure(w)
			return
		}

		s.bindLoginSession(w, r, p)
	}
}

// bindLoginSession persists the principal in its serialized envelope form and
// hands the browser a login session cookie.
func (s *Server) bindLoginSession(w http.ResponseWriter, r *http.Request, p *principal.Principal) {
	serialized, err := s.serializer.Serialize(p)
	if err != nil {
		log.Err(err).Msg("failed to serialize principal")
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	sessionID := uuid.NewString()
	err = s.logins.Upsert(sessionID, loginsession.Session{
		SerializedPrincipal: serialized,
		CreatedAt:           time.Now(),
	})
	if err != nil {
		log.Err(err).Msg("failed to create login session")
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	s.SetLoginSessionCookie(w, r, sessionID, loginSessionMaxAge)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}
