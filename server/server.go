package server

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/jrsteele09/go-google-auth/flow"
	"github.com/jrsteele09/go-google-auth/internal/config"
	"github.com/jrsteele09/go-google-auth/principal"
	"github.com/jrsteele09/go-google-auth/server/flowrepo"
	"github.com/jrsteele09/go-google-auth/server/loginsession"
	"github.com/rs/zerolog/log"
)

type Server struct {
	env        string // Environment (e.g., "DEV", "production")
	mux        *http.ServeMux
	routes     []string
	config     config.Config
	flows      *flow.Service
	serializer *principal.Serializer
	attempts   flowrepo.Repo
	logins     loginsession.Repo
}

func New(cfg config.Config, flowService *flow.Service, attemptRepo flowrepo.Repo, loginRepo loginsession.Repo) (*Server, error) {
	if flowService == nil {
		return nil, fmt.Errorf("[Server New] flow service is required")
	}
	if attemptRepo == nil {
		return nil, fmt.Errorf("[Server New] attempt repo is required")
	}
	if loginRepo == nil {
		return nil, fmt.Errorf("[Server New] login session repo is required")
	}

	s := &Server{
		mux:        http.NewServeMux(),
		config:     cfg,
		flows:      flowService,
		serializer: principal.NewSerializer(),
		attempts:   attemptRepo,
		logins:     loginRepo,
	}
	s.env = cfg.GetEnv()

	s.initRoutes()
	s.logRoutes()

	return s, nil
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

func (s *Server) RegisterRouteFunc(pattern string, handler func(http.ResponseWriter, *http.Request)) {
	s.routes = append(s.routes, pattern)
	s.mux.HandleFunc(pattern, handler)
}

func (s *Server) logRoutes() {
	if s.env != "DEV" {
		return // Skip logging in non-development environments
	}
	for _, route := range s.routes {
		parts := strings.SplitN(route, " ", 2)
		if len(parts) > 1 {
			log.Debug().Str("method", parts[0]).Str("path", parts[1]).Msg("registered route")
		} else {
			log.Debug().Str("path", parts[0]).Msg("registered route")
		}
	}
}
