// Package bank implements the balance-affecting and identity-lifecycle
// operations of the ledger, each independently authorization-gated, and
// the facade callers go through.
package bank

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"fincore.org/internal/auth"
	"fincore.org/internal/identity"
)

// ErrInsufficientFunds is returned by Withdraw only when overdrafts are
// disallowed by configuration.
var ErrInsufficientFunds = errors.New("bank: insufficient funds")

// Service orchestrates authorization checks and account mutation.
type Service struct {
	repo     identity.Repository
	sessions *auth.Sessions

	scheme         auth.Scheme
	allowOverdraft bool
}

// ServiceOption configures Service behavior.
type ServiceOption func(*Service)

// WithSecretScheme selects how new credentials are stored. Must match the
// scheme the session layer verifies with.
func WithSecretScheme(scheme auth.Scheme) ServiceOption {
	return func(s *Service) { s.scheme = scheme }
}

// WithOverdraft controls whether withdrawals may drive a balance negative.
// Allowed by default.
func WithOverdraft(allow bool) ServiceOption {
	return func(s *Service) { s.allowOverdraft = allow }
}

// NewService creates the account service.
func NewService(repo identity.Repository, sessions *auth.Sessions, opts ...ServiceOption) *Service {
	s := &Service{
		repo:           repo,
		sessions:       sessions,
		scheme:         auth.SchemePlain,
		allowOverdraft: true,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// GetBalance returns the identity's current balance. The token must be
// authenticated for that same identity.
func (s *Service) GetBalance(ctx context.Context, id uuid.UUID, tok auth.Token) (decimal.Decimal, error) {
	if !s.sessions.AuthorizeAction(id, tok) {
		return decimal.Decimal{}, identity.ErrUnauthorized
	}
	return s.repo.Balance(ctx, id)
}

// Deposit credits amount to the identity's account and persists it.
// Amount sign is not checked here; callers validate input.
func (s *Service) Deposit(ctx context.Context, ident *identity.Identity, amount decimal.Decimal, tok auth.Token) error {
	if !s.sessions.AuthorizeAction(ident.ID, tok) {
		return identity.ErrUnauthorized
	}
	if ident.Account == nil {
		return fmt.Errorf("deposit for %s: %w", ident.ID, identity.ErrDataIntegrity)
	}
	ident.Account.Add(amount)
	return s.repo.SaveUpdated(ctx, ident)
}

// Withdraw debits amount from the identity's account and persists it. The
// balance may go negative unless overdrafts were disallowed.
func (s *Service) Withdraw(ctx context.Context, ident *identity.Identity, amount decimal.Decimal, tok auth.Token) error {
	if !s.sessions.AuthorizeAction(ident.ID, tok) {
		return identity.ErrUnauthorized
	}
	if ident.Account == nil {
		return fmt.Errorf("withdraw for %s: %w", ident.ID, identity.ErrDataIntegrity)
	}
	if !s.allowOverdraft && ident.Account.Balance().LessThan(amount) {
		return ErrInsufficientFunds
	}
	ident.Account.Subtract(amount)
	return s.repo.SaveUpdated(ctx, ident)
}

// CreateIndividual registers a person, persists identity and credential
// together, and auto-logs the new identity in.
func (s *Service) CreateIndividual(ctx context.Context, username, secret, first, last string) (*identity.Identity, error) {
	ident := identity.NewIndividual(username, first, last)
	return s.create(ctx, ident, secret)
}

// CreateOrganization registers a business. The display name is the username.
func (s *Service) CreateOrganization(ctx context.Context, name, secret string) (*identity.Identity, error) {
	ident := identity.NewOrganization(name)
	return s.create(ctx, ident, secret)
}

func (s *Service) create(ctx context.Context, ident *identity.Identity, secret string) (*identity.Identity, error) {
	if _, err := s.repo.FindByUsername(ctx, ident.Username); err == nil {
		return nil, identity.ErrDuplicate
	} else if !errors.Is(err, identity.ErrNotFound) {
		return nil, err
	}

	stored, err := auth.HashSecret(s.scheme, secret)
	if err != nil {
		return nil, err
	}
	cred := &identity.Credential{ID: ident.ID, Secret: stored}
	if err := s.repo.SaveNew(ctx, cred, ident); err != nil {
		return nil, err
	}

	created, err := s.repo.GetIdentity(ctx, ident.ID)
	if err != nil {
		return nil, fmt.Errorf("read back %s: %w", ident.ID, identity.ErrDataIntegrity)
	}
	if err := s.sessions.CreateSession(ctx, cred); err != nil {
		return nil, err
	}
	return created, nil
}

// DeleteIdentity removes the identity and its credential. A missing
// credential during delete surfaces as identity.ErrDataIntegrity.
func (s *Service) DeleteIdentity(ctx context.Context, ident *identity.Identity, tok auth.Token) error {
	if !s.sessions.AuthorizeAction(ident.ID, tok) {
		return identity.ErrUnauthorized
	}
	return s.repo.Delete(ctx, ident)
}
