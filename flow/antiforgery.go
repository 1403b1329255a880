package flow

import (
	"crypto/rand"
	"encoding/base32"
	"strings"
)

// stateTokenBytes gives 160 bits of entropy, comfortably above the 128-bit
// floor for a single-use CSRF token.
const stateTokenBytes = 20

var stateTokenEncoding = base32.StdEncoding.WithPadding(base32.NoPadding)

// GenerateStateToken mints the single-use anti forgery value round-tripped
// through the provider redirect as the OAuth2 state parameter.
func GenerateStateToken() string {
	b := make([]byte, stateTokenBytes)
	rand.Read(b)
	return strings.ToLower(stateTokenEncoding.EncodeToString(b))
}

// StateTokenMatches reports whether the state returned by the provider equals
// the token issued for this attempt. An absent or empty received value never
// matches. The token is single-use and discarded either way, so exact string
// comparison is sufficient.
func StateTokenMatches(expected, received string) bool {
	if expected == "" || received == "" {
		return false
	}
	return expected == received
}
