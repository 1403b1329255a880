package server

const (
	RouteGoogleLogin    = "/auth/google/login"
	RouteGoogleCallback = "/auth/google/callback"
	RouteTokenSignIn    = "/auth/google/token-signin"
	RoutePrincipal      = "/auth/google/principal"
)
