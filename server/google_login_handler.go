package server

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/jrsteele09/go-google-auth/server/flowrepo"
	"github.com/rs/zerolog/log"
)

// GoogleLoginHandler starts a redirect-flow attempt and sends the browser to
// Google's authorization endpoint. The pending session is persisted under an
// opaque attempt id that rides along in the redirect URI so the callback can
// resume the same attempt.
func (s *Server) GoogleLoginHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		attemptID := uuid.NewString()
		resumePath := RouteGoogleCallback + "?attempt=" + attemptID

		session, authorizationURL := s.flows.Initiate(getScheme(r), r.Host, resumePath)

		err := s.attempts.Upsert(attemptID, &flowrepo.PendingAttempt{
			Session:   session,
			CreatedAt: time.Now(),
		})
		if err != nil {
			log.Err(err).Msg("failed to persist pending authentication attempt")
			http.Error(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		http.Redirect(w, r, authorizationURL, http.StatusSeeOther)
	}
}
