package auth

import "errors"

// ErrTooManyAttempts is returned by Login when the per-username rate
// limit is enabled and exhausted.
var ErrTooManyAttempts = errors.New("auth: too many login attempts")
