package identity

import "errors"

var (
	// ErrUnauthorized means no session token, an unauthenticated one, or a
	// token whose subject does not match the target identity.
	ErrUnauthorized = errors.New("identity: unauthorized")

	// ErrNotFound is a username or id lookup miss.
	ErrNotFound = errors.New("identity: not found")

	// ErrCredentialMismatch is returned when the presented secret does not
	// match the stored one.
	ErrCredentialMismatch = errors.New("identity: credential mismatch")

	// ErrDuplicate is a username collision at creation time.
	ErrDuplicate = errors.New("identity: already exists")

	// ErrMissingID means a credential carried no identifier.
	ErrMissingID = errors.New("identity: missing identifier")

	// ErrDataIntegrity signals repository inconsistency, such as an identity
	// without its paired credential. Fatal condition, not a user-input error.
	ErrDataIntegrity = errors.New("identity: data integrity violation")
)
