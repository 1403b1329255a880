package principal

import "errors"

var (
	ErrInvalidClaims   = errors.New("invalid id token claims")
	ErrDeserialization = errors.New("malformed serialized principal")
)
