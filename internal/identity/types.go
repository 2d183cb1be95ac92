package identity

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Kind discriminates the two identity variants.
type Kind string

const (
	KindIndividual   Kind = "individual"
	KindOrganization Kind = "organization"
)

// Identity is a person or business holding exactly one account.
// Immutable after creation except for the account it owns.
type Identity struct {
	ID        uuid.UUID
	Username  string
	Kind      Kind
	CreatedAt time.Time

	// Individual variant.
	FirstName string
	LastName  string

	// Organization variant. Display name equals the username.
	Name string

	Account *Account
}

// NewIndividual creates a person identity with a fresh id and a zero-balance account.
func NewIndividual(username, first, last string) *Identity {
	return &Identity{
		ID:        uuid.New(),
		Username:  username,
		Kind:      KindIndividual,
		CreatedAt: time.Now().UTC(),
		FirstName: first,
		LastName:  last,
		Account:   NewAccount(),
	}
}

// NewOrganization creates a business identity with a fresh id and a zero-balance account.
func NewOrganization(name string) *Identity {
	return &Identity{
		ID:        uuid.New(),
		Username:  name,
		Kind:      KindOrganization,
		CreatedAt: time.Now().UTC(),
		Name:      name,
		Account:   NewAccount(),
	}
}

// DisplayName renders the holder name per variant.
func (i *Identity) DisplayName() string {
	if i.Kind == KindOrganization {
		return i.Name
	}
	return i.FirstName + " " + i.LastName
}

// Credential is the secret bound to an identity, one-to-one, created
// atomically with it. The secret is stored as given; whether it is
// plaintext or a bcrypt hash is decided by the configured scheme.
type Credential struct {
	ID     uuid.UUID
	Secret string
}

// Account is a mutable monetary balance. Amounts are arbitrary-precision
// decimals; the account itself never rounds. Balances may go negative,
// there is no floor at this layer.
type Account struct {
	mu      sync.Mutex
	balance decimal.Decimal
}

// NewAccount returns an account with a zero balance.
func NewAccount() *Account {
	return &Account{balance: decimal.Zero}
}

// RestoreAccount rebuilds an account from a persisted balance.
func RestoreAccount(balance decimal.Decimal) *Account {
	return &Account{balance: balance}
}

// Add credits amount and returns the new balance.
func (a *Account) Add(amount decimal.Decimal) decimal.Decimal {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.balance = a.balance.Add(amount)
	return a.balance
}

// Subtract debits amount and returns the new balance.
func (a *Account) Subtract(amount decimal.Decimal) decimal.Decimal {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.balance = a.balance.Sub(amount)
	return a.balance
}

// Balance returns the current balance.
func (a *Account) Balance() decimal.Decimal {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.balance
}
