package auth

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"fincore.org/internal/identity"
)

// Token is ephemeral proof of a successful login, keyed by subject id in
// the session table. There is no expiry; the authenticated flag is the
// sole guard.
type Token struct {
	SubjectID     uuid.UUID
	Authenticated bool
}

// Sessions owns the process-wide mapping from identity to session token.
// Constructed once at startup and passed to collaborators; at most one
// live token exists per subject, a new login overwrites the old one.
type Sessions struct {
	mu    sync.RWMutex
	table map[uuid.UUID]Token

	repo               identity.Repository
	scheme             Scheme
	limiter            *loginLimiter
	invalidateOnLogout bool
}

// Option configures Sessions behavior.
type Option func(*Sessions)

// WithScheme selects the secret verification scheme. Default is SchemePlain.
func WithScheme(scheme Scheme) Option {
	return func(s *Sessions) { s.scheme = scheme }
}

// WithLoginRate enables a per-username token bucket on login attempts.
// Disabled when not set.
func WithLoginRate(perMinute, burst int) Option {
	return func(s *Sessions) {
		if perMinute > 0 && burst > 0 {
			s.limiter = newLoginLimiter(perMinute, burst)
		}
	}
}

// WithLogoutInvalidation makes Logout actually drop the session instead
// of the default no-op.
func WithLogoutInvalidation() Option {
	return func(s *Sessions) { s.invalidateOnLogout = true }
}

// NewSessions creates an empty session table backed by the given repository.
func NewSessions(repo identity.Repository, opts ...Option) *Sessions {
	s := &Sessions{
		table:  make(map[uuid.UUID]Token),
		repo:   repo,
		scheme: SchemePlain,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Login authenticates the username/secret pair and installs an
// authenticated token for the identity, overwriting any prior one.
// Returns identity.ErrNotFound when the username is unknown or the
// identity has no auth record, identity.ErrCredentialMismatch when the
// secret does not match. No token is left behind on failure.
func (s *Sessions) Login(ctx context.Context, username, secret string) (*identity.Identity, error) {
	if s.limiter != nil && !s.limiter.allow(username) {
		return nil, ErrTooManyAttempts
	}

	ident, err := s.repo.FindByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	cred, err := s.repo.GetCredential(ctx, ident.ID)
	if err != nil {
		// An identity without its auth record is a lookup failure, not a
		// bad password.
		return nil, fmt.Errorf("load credential for %s: %w", ident.ID, err)
	}
	if err := VerifySecret(s.scheme, cred.Secret, secret); err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.table[ident.ID] = Token{SubjectID: ident.ID, Authenticated: true}
	s.mu.Unlock()
	return ident, nil
}

// CreateSession installs an authenticated token for the credential's
// subject without a password check. Used by account-creation flows to
// auto-login a newly registered identity.
func (s *Sessions) CreateSession(ctx context.Context, cred *identity.Credential) error {
	if cred == nil || cred.ID == uuid.Nil {
		return identity.ErrMissingID
	}
	s.mu.Lock()
	s.table[cred.ID] = Token{SubjectID: cred.ID, Authenticated: true}
	s.mu.Unlock()
	return nil
}

// Logout is a no-op by default; sessions are never actively invalidated.
// Real invalidation is available via WithLogoutInvalidation.
func (s *Sessions) Logout(ctx context.Context, subjectID uuid.UUID) {
	if !s.invalidateOnLogout {
		return
	}
	s.mu.Lock()
	delete(s.table, subjectID)
	s.mu.Unlock()
}

// AuthorizeAction reports whether the token permits acting on subjectID:
// the token must be authenticated and its subject must equal the target.
func (s *Sessions) AuthorizeAction(subjectID uuid.UUID, tok Token) bool {
	if !tok.Authenticated {
		return false
	}
	return tok.SubjectID == subjectID
}

// SessionToken returns the live token for the subject, if any.
func (s *Sessions) SessionToken(subjectID uuid.UUID) (Token, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	tok, ok := s.table[subjectID]
	return tok, ok
}

// Active returns the number of live sessions.
func (s *Sessions) Active() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.table)
}
