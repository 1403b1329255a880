package config

type Google struct{}

var _ GoogleConfig = Google{}

func (Google) GetGoogleClientID() string {
	return GetEnv("GOOGLE_CLIENT_ID", "")
}

func (Google) GetGoogleClientSecret() string {
	return GetEnv("GOOGLE_CLIENT_SECRET", "")
}

func (Google) GetGoogleIssuer() string {
	return GetEnv("GOOGLE_ISSUER", "https://accounts.google.com")
}

// GetHostedDomain returns the Google Workspace domain sign-in is restricted
// to, or empty for no restriction.
func (Google) GetHostedDomain() string {
	return GetEnv("GOOGLE_HOSTED_DOMAIN", "")
}

// GetDiscoverEndpoints reports whether endpoint URLs should be resolved from
// the issuer's OIDC discovery document instead of the published defaults.
func (Google) GetDiscoverEndpoints() bool {
	return GetEnv("GOOGLE_DISCOVER_ENDPOINTS", "false") == "true"
}
