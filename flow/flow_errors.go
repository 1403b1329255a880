package flow

import "errors"

var (
	ErrMissingCredential   = errors.New("no credential present in request")
	ErrAntiForgeryMismatch = errors.New("anti forgery state token mismatch")
)
