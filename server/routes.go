package server

func (s *Server) initRoutes() {
	s.RegisterRouteFunc("GET "+RouteGoogleLogin, ChainMiddleware(s.GoogleLoginHandler(), s.WebMiddleware()...))
	s.RegisterRouteFunc("GET "+RouteGoogleCallback, ChainMiddleware(s.GoogleCallbackHandler(), s.WebMiddleware()...))
	s.RegisterRouteFunc("POST "+RouteGoogleCallback, ChainMiddleware(s.GoogleCallbackHandler(), s.WebMiddleware()...))
	s.RegisterRouteFunc("POST "+RouteTokenSignIn, ChainMiddleware(s.TokenSignInHandler(), s.WebMiddleware()...))
	s.RegisterRouteFunc("GET "+RoutePrincipal, ChainMiddleware(s.PrincipalHandler(), s.WebMiddleware()...))
}
