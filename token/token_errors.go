package token

import "errors"

var (
	ErrTokenExchange = errors.New("token exchange failed")
	ErrDecode        = errors.New("malformed id token")
	ErrVerification  = errors.New("id token verification failed")
)
