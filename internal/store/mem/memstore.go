// Package mem provides the reference in-memory implementation of the
// identity repository. It is process-local and non-persistent; the system
// it replaces backed this with flat lists and linear scans.
package mem

import (
	"context"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"fincore.org/internal/identity"
)

// Store implements identity.Repository with in-process concurrency safety.
type Store struct {
	mu     sync.RWMutex
	idents map[uuid.UUID]*identity.Identity
	creds  map[uuid.UUID]*identity.Credential
}

var _ identity.Repository = (*Store)(nil)

// New creates an empty store.
func New() *Store {
	return &Store{
		idents: make(map[uuid.UUID]*identity.Identity),
		creds:  make(map[uuid.UUID]*identity.Credential),
	}
}

func (s *Store) FindByUsername(ctx context.Context, username string) (*identity.Identity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, ident := range s.idents {
		if strings.EqualFold(ident.Username, username) {
			return ident, nil
		}
	}
	return nil, identity.ErrNotFound
}

func (s *Store) GetIdentity(ctx context.Context, id uuid.UUID) (*identity.Identity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ident, ok := s.idents[id]
	if !ok {
		return nil, identity.ErrNotFound
	}
	return ident, nil
}

func (s *Store) GetCredential(ctx context.Context, id uuid.UUID) (*identity.Credential, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	cred, ok := s.creds[id]
	if !ok {
		return nil, identity.ErrNotFound
	}
	return cred, nil
}

func (s *Store) SaveNew(ctx context.Context, cred *identity.Credential, ident *identity.Identity) error {
	if cred == nil || ident == nil {
		return identity.ErrMissingID
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.creds[cred.ID] = cred
	s.idents[ident.ID] = ident
	return nil
}

// SaveUpdated replaces the stored identity in place. Exactly one record
// per identity ID exists at all times.
func (s *Store) SaveUpdated(ctx context.Context, ident *identity.Identity) error {
	if ident == nil || ident.ID == uuid.Nil {
		return identity.ErrMissingID
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.idents[ident.ID] = ident
	return nil
}

func (s *Store) Delete(ctx context.Context, ident *identity.Identity) error {
	if ident == nil || ident.ID == uuid.Nil {
		return identity.ErrMissingID
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.idents[ident.ID]; !ok {
		return identity.ErrNotFound
	}
	if _, ok := s.creds[ident.ID]; !ok {
		// An identity without its credential means the store is inconsistent.
		return identity.ErrDataIntegrity
	}
	delete(s.idents, ident.ID)
	delete(s.creds, ident.ID)
	return nil
}

func (s *Store) ListIdentities(ctx context.Context) ([]*identity.Identity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*identity.Identity, 0, len(s.idents))
	for _, ident := range s.idents {
		out = append(out, ident)
	}
	return out, nil
}

func (s *Store) ListCredentials(ctx context.Context) ([]*identity.Credential, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*identity.Credential, 0, len(s.creds))
	for _, cred := range s.creds {
		out = append(out, cred)
	}
	return out, nil
}

func (s *Store) Balance(ctx context.Context, id uuid.UUID) (decimal.Decimal, error) {
	s.mu.RLock()
	ident, ok := s.idents[id]
	s.mu.RUnlock()
	if !ok {
		return decimal.Decimal{}, identity.ErrNotFound
	}
	if ident.Account == nil {
		return decimal.Decimal{}, identity.ErrDataIntegrity
	}
	return ident.Account.Balance(), nil
}
