package token

import (
	"encoding/json"
	"fmt"
	"strings"

	jwtlib "github.com/golang-jwt/jwt/v5"
)

// Decode extracts the claims from a compact JWT without verifying its
// signature, issuer, audience or expiry.
//
// This is only safe for tokens received directly from the provider's token
// endpoint: that response arrived over TLS on a request carrying the client
// secret, so the transport already authenticates the issuer and the token is
// never passed through the browser. Tokens from any other channel must go
// through Verifier instead.
func Decode(raw string) (*Claims, error) {
	segments := strings.Split(raw, ".")
	if len(segments) != 3 {
		return nil, fmt.Errorf("%w: expected 3 segments, found %d", ErrDecode, len(segments))
	}

	payload, err := jwtlib.NewParser(jwtlib.WithPaddingAllowed()).DecodeSegment(segments[1])
	if err != nil {
		return nil, fmt.Errorf("%w: payload segment is not valid base64url: %v", ErrDecode, err)
	}

	var claims Claims
	if err := json.Unmarshal(payload, &claims); err != nil {
		return nil, fmt.Errorf("%w: payload is not valid JSON: %v", ErrDecode, err)
	}

	return &claims, nil
}
