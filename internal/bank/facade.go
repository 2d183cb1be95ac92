package bank

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"fincore.org/internal/audit"
	"fincore.org/internal/auth"
	"fincore.org/internal/identity"
	"fincore.org/internal/obs"
)

// Facade is the single entry point callers use. It never trusts a cached
// token: every balance-reading or mutating call resolves the live session
// for the acting identity and hands that same token to the service, which
// re-checks it. The double check is intentional; it tolerates out-of-band
// session changes between the facade and the service boundary.
type Facade struct {
	sessions *auth.Sessions
	svc      *Service
}

// NewFacade composes the session layer and the account service.
func NewFacade(sessions *auth.Sessions, svc *Service) *Facade {
	return &Facade{sessions: sessions, svc: svc}
}

// liveToken fetches the current session for the subject. Missing or
// unauthenticated sessions fail the call before it reaches the service.
func (f *Facade) liveToken(subjectID uuid.UUID) (auth.Token, error) {
	tok, ok := f.sessions.SessionToken(subjectID)
	if !ok || !tok.Authenticated {
		return auth.Token{}, identity.ErrUnauthorized
	}
	return tok, nil
}

// Login authenticates and installs a session for the identity.
func (f *Facade) Login(ctx context.Context, username, secret string) (*identity.Identity, error) {
	start := time.Now()
	ident, err := f.sessions.Login(ctx, username, secret)
	f.finish(ctx, "login", start, err, map[string]any{"username": username})
	obs.LoginAttempt(loginResult(err))
	obs.SetActiveSessions(f.sessions.Active())
	return ident, err
}

// Logout passes through to the session layer. A no-op unless logout
// invalidation was enabled.
func (f *Facade) Logout(ctx context.Context, subjectID uuid.UUID) {
	f.sessions.Logout(ctx, subjectID)
	_ = audit.LogEvent(ctx, "bank.logout", map[string]any{"identity_id": subjectID.String()})
	obs.SetActiveSessions(f.sessions.Active())
}

// Balance returns the identity's current balance.
func (f *Facade) Balance(ctx context.Context, subjectID uuid.UUID) (decimal.Decimal, error) {
	start := time.Now()
	tok, err := f.liveToken(subjectID)
	if err != nil {
		f.finish(ctx, "balance", start, err, map[string]any{"identity_id": subjectID.String()})
		return decimal.Decimal{}, err
	}
	bal, err := f.svc.GetBalance(ctx, subjectID, tok)
	f.finish(ctx, "balance", start, err, map[string]any{"identity_id": subjectID.String()})
	return bal, err
}

// Deposit credits the identity's account.
func (f *Facade) Deposit(ctx context.Context, ident *identity.Identity, amount decimal.Decimal) error {
	start := time.Now()
	fields := map[string]any{"identity_id": ident.ID.String(), "amount": amount.String()}
	tok, err := f.liveToken(ident.ID)
	if err == nil {
		err = f.svc.Deposit(ctx, ident, amount, tok)
	}
	f.finish(ctx, "deposit", start, err, fields)
	return err
}

// Withdraw debits the identity's account.
func (f *Facade) Withdraw(ctx context.Context, ident *identity.Identity, amount decimal.Decimal) error {
	start := time.Now()
	fields := map[string]any{"identity_id": ident.ID.String(), "amount": amount.String()}
	tok, err := f.liveToken(ident.ID)
	if err == nil {
		err = f.svc.Withdraw(ctx, ident, amount, tok)
	}
	f.finish(ctx, "withdraw", start, err, fields)
	return err
}

// CreateIndividual opens a personal account. The new identity is logged in.
func (f *Facade) CreateIndividual(ctx context.Context, username, secret, first, last string) (*identity.Identity, error) {
	start := time.Now()
	ident, err := f.svc.CreateIndividual(ctx, username, secret, first, last)
	fields := map[string]any{"username": username, "kind": string(identity.KindIndividual)}
	if ident != nil {
		fields["identity_id"] = ident.ID.String()
	}
	f.finish(ctx, "create_identity", start, err, fields)
	obs.SetActiveSessions(f.sessions.Active())
	return ident, err
}

// CreateOrganization opens a business account. The new identity is logged in.
func (f *Facade) CreateOrganization(ctx context.Context, name, secret string) (*identity.Identity, error) {
	start := time.Now()
	ident, err := f.svc.CreateOrganization(ctx, name, secret)
	fields := map[string]any{"username": name, "kind": string(identity.KindOrganization)}
	if ident != nil {
		fields["identity_id"] = ident.ID.String()
	}
	f.finish(ctx, "create_identity", start, err, fields)
	obs.SetActiveSessions(f.sessions.Active())
	return ident, err
}

// DeleteIdentity removes the identity and its credential.
func (f *Facade) DeleteIdentity(ctx context.Context, ident *identity.Identity) error {
	start := time.Now()
	fields := map[string]any{"identity_id": ident.ID.String()}
	tok, err := f.liveToken(ident.ID)
	if err == nil {
		err = f.svc.DeleteIdentity(ctx, ident, tok)
	}
	f.finish(ctx, "delete_identity", start, err, fields)
	return err
}

// finish records metrics and the audit trail for one operation. Errors are
// surfaced to the caller untranslated; repository inconsistencies get a
// dedicated audit event since they signal corruption, not bad input.
func (f *Facade) finish(ctx context.Context, op string, start time.Time, err error, fields map[string]any) {
	obs.ObserveOp(op, time.Since(start), err)
	if err != nil {
		fields["error"] = err.Error()
	}
	_ = audit.LogEvent(ctx, "bank."+op, fields)
	if errors.Is(err, identity.ErrDataIntegrity) {
		_ = audit.LogEvent(ctx, "bank.integrity_fault", map[string]any{"op": op, "error": err.Error()})
	}
}

func loginResult(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, identity.ErrNotFound):
		return "not_found"
	case errors.Is(err, identity.ErrCredentialMismatch):
		return "mismatch"
	case errors.Is(err, auth.ErrTooManyAttempts):
		return "rate_limited"
	default:
		return "error"
	}
}
