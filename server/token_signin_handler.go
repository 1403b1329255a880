package server

import (
	"net/http"

	"github.com/rs/zerolog/log"
)

// TokenSignInHandler completes a form-post attempt: the sign-in widget posts
// the raw ID token it obtained in the browser, so the token is fully verified
// before any claim in it is trusted.
func (s *Server) TokenSignInHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Failed to parse form data", http.StatusBadRequest)
			return
		}

		rawIDToken := r.FormValue("google_id_token")

		p, err := s.flows.CompleteFormPost(r.Context(), rawIDToken, s.config.GetGoogleClientID())
		if err != nil {
			log.Err(err).Msg("Google form-post flow failed")
			renderAuthFailure(w)
			return
		}

		s.bindLoginSession(w, r, p)
	}
}
