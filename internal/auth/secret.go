package auth

import (
	"errors"

	"golang.org/x/crypto/bcrypt"

	"fincore.org/internal/identity"
)

// Scheme names a secret storage and comparison strategy.
type Scheme string

const (
	// SchemePlain stores the secret as given and compares by equality.
	SchemePlain Scheme = "plain"

	// SchemeBcrypt stores a bcrypt hash and compares with bcrypt. Opting
	// in changes the stored secret format.
	SchemeBcrypt Scheme = "bcrypt"
)

// HashSecret prepares a secret for storage under the given scheme.
func HashSecret(scheme Scheme, secret string) (string, error) {
	if secret == "" {
		return "", errors.New("auth: secret is empty")
	}
	switch scheme {
	case SchemeBcrypt:
		hash, err := bcrypt.GenerateFromPassword([]byte(secret), bcrypt.DefaultCost)
		if err != nil {
			return "", err
		}
		return string(hash), nil
	default:
		return secret, nil
	}
}

// VerifySecret compares a presented secret against the stored value.
// Returns identity.ErrCredentialMismatch on inequality.
func VerifySecret(scheme Scheme, stored, presented string) error {
	switch scheme {
	case SchemeBcrypt:
		if err := bcrypt.CompareHashAndPassword([]byte(stored), []byte(presented)); err != nil {
			return identity.ErrCredentialMismatch
		}
		return nil
	default:
		if stored != presented {
			return identity.ErrCredentialMismatch
		}
		return nil
	}
}
