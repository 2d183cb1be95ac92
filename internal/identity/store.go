package identity

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Repository describes persistence operations required by the banking core.
// Implementations return ErrNotFound for lookup misses and ErrDataIntegrity
// when an identity's paired credential is absent during delete.
type Repository interface {
	// FindByUsername matches case-insensitively.
	FindByUsername(ctx context.Context, username string) (*Identity, error)

	GetIdentity(ctx context.Context, id uuid.UUID) (*Identity, error)
	GetCredential(ctx context.Context, id uuid.UUID) (*Credential, error)

	// SaveNew persists a freshly created identity together with its credential.
	SaveNew(ctx context.Context, cred *Credential, ident *Identity) error

	// SaveUpdated replaces the stored identity. This is a true upsert; the
	// system this replaces appended a duplicate entry instead.
	SaveUpdated(ctx context.Context, ident *Identity) error

	// Delete removes the identity and its paired credential.
	Delete(ctx context.Context, ident *Identity) error

	ListIdentities(ctx context.Context) ([]*Identity, error)
	ListCredentials(ctx context.Context) ([]*Credential, error)

	// Balance reads the identity's current account balance.
	Balance(ctx context.Context, id uuid.UUID) (decimal.Decimal, error)
}
