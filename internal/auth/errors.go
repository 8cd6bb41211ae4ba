package auth

import "errors"

// Authentication failure sentinels. Handlers map all of them to a generic
// 401; the messages deliberately do not distinguish unknown email from
// wrong password, or an unknown token from an expired one.
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrMissingToken       = errors.New("missing session token")
	ErrSessionInvalid     = errors.New("session expired or unknown")
)
