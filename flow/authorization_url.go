package flow

import (
	"github.com/jrsteele09/go-google-auth/integration"
	"golang.org/x/oauth2"
)

// flowResumeSuffix is appended to the resumption path so the surrounding
// framework proceeds with the suspended flow when the browser returns.
const flowResumeSuffix = "&_eventId=proceed"

// RedirectURI computes the OAuth2 redirect_uri from the inbound request's
// scheme and host plus the path the flow resumes at. Pure function of its
// inputs: the token exchange must later send the byte-identical value.
func RedirectURI(scheme, host, resumePath string) string {
	return scheme + "://" + host + resumePath + flowResumeSuffix
}

// AuthorizationURL computes the URL the browser is sent to at the provider's
// authorization endpoint, carrying the client id, the openid/email/profile
// scopes, the redirect URI, account selection prompt and the anti forgery
// state token.
func AuthorizationURL(integ *integration.Integration, stateToken, redirectURI string) string {
	return integ.OAuth2Config(redirectURI).AuthCodeURL(
		stateToken,
		oauth2.SetAuthURLParam("prompt", "select_account"),
	)
}
