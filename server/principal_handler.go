package server

import (
	"encoding/json"
	"net/http"

	"github.com/jrsteele09/go-google-auth/internal/utils"
	"github.com/rs/zerolog/log"
)

// PrincipalHandler resolves the logged-in browser session back to its
// principal. The stored value is checked with Recognizes before parsing so a
// slot shared with other principal kinds never causes a parse failure here.
func (s *Server) PrincipalHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(loggedInSessionID)
		if err != nil || cookie.Value == "" {
			renderAuthFailure(w)
			return
		}

		session, err := s.logins.Get(cookie.Value)
		if err != nil {
			renderAuthFailure(w)
			return
		}

		if !s.serializer.Recognizes(session.SerializedPrincipal) {
			renderAuthFailure(w)
			return
		}

		p, err := s.serializer.Deserialize(session.SerializedPrincipal)
		if err != nil {
			log.Err(err).Msg("stored principal envelope did not deserialize")
			renderAuthFailure(w)
			return
		}

		resp := map[string]string{
			"subject": p.SubjectClaim,
			"email":   utils.Value(p.EmailClaim),
			"name":    utils.Value(p.NameClaim),
		}

		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		_ = json.NewEncoder(w).Encode(resp)
	}
}
