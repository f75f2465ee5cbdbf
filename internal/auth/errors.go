// Package auth implements the credential and token lifecycle: bcrypt
// password hashing, HS256 access/refresh token issuance and validation,
// and the login/refresh/bearer orchestration on top of a credential store.
package auth

import "errors"

// ErrInvalidToken is returned by Validate for any token that cannot be
// trusted: bad signature, malformed structure, unexpected algorithm or an
// expired exp claim. It never crosses the Authenticator boundary.
var ErrInvalidToken = errors.New("invalid token")

// ErrAuthentication is the single failure value for login, refresh and
// bearer resolution. Callers must not be able to tell which step failed.
var ErrAuthentication = errors.New("authentication failed")
