package token

// Claims is the decoded payload of an OIDC ID token as issued by Google.
// Issuer, Subject, Audience, Expiry and IssuedAt are always asserted; every
// other field is optional and stays at its zero value when Google does not
// assert it.
type Claims struct {
	Issuer   string `json:"iss"`
	Subject  string `json:"sub"`
	Audience string `json:"aud"`
	Expiry   int64  `json:"exp"`
	IssuedAt int64  `json:"iat"`

	AccessTokenHash string `json:"at_hash,omitempty"`
	AuthorizedParty string `json:"azp,omitempty"`
	Email           string `json:"email,omitempty"`
	EmailVerified   *bool  `json:"email_verified,omitempty"`
	Name            string `json:"name,omitempty"`
	Picture         string `json:"picture,omitempty"`
	Profile         string `json:"profile,omitempty"`
	HostedDomain    string `json:"hd,omitempty"`
}
