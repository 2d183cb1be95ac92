package identity

import (
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func TestNewIndividual(t *testing.T) {
	ident := NewIndividual("alice-smith", "Alice", "Smith")
	if ident.ID == uuid.Nil {
		t.Fatal("expected a fresh id")
	}
	if ident.Kind != KindIndividual {
		t.Fatalf("unexpected kind: %s", ident.Kind)
	}
	if got := ident.DisplayName(); got != "Alice Smith" {
		t.Fatalf("unexpected display name: %q", got)
	}
	if !ident.Account.Balance().IsZero() {
		t.Fatalf("expected zero opening balance, got %s", ident.Account.Balance())
	}
}

func TestNewOrganization(t *testing.T) {
	ident := NewOrganization("AcmeTrading")
	if ident.Kind != KindOrganization {
		t.Fatalf("unexpected kind: %s", ident.Kind)
	}
	if got := ident.DisplayName(); got != "AcmeTrading" {
		t.Fatalf("unexpected display name: %q", got)
	}
	if ident.Username != "AcmeTrading" {
		t.Fatalf("display name should equal username, got %q", ident.Username)
	}
}

func TestAccountRoundTrip(t *testing.T) {
	acc := NewAccount()
	amount := decimal.RequireFromString("123.456789")

	acc.Add(amount)
	acc.Subtract(amount)
	if !acc.Balance().IsZero() {
		t.Fatalf("deposit then withdrawal of equal amounts must restore the balance exactly, got %s", acc.Balance())
	}
}

func TestAccountAllowsNegativeBalance(t *testing.T) {
	acc := NewAccount()
	acc.Subtract(decimal.RequireFromString("10"))
	if acc.Balance().String() != "-10" {
		t.Fatalf("no balance floor expected, got %s", acc.Balance())
	}
}

func TestAccountConcurrentMutation(t *testing.T) {
	acc := NewAccount()
	amount := decimal.RequireFromString("0.01")

	var wg sync.WaitGroup
	const n = 100
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			acc.Add(amount)
		}()
	}
	wg.Wait()

	want := amount.Mul(decimal.NewFromInt(n))
	if !acc.Balance().Equal(want) {
		t.Fatalf("lost updates: got %s, want %s", acc.Balance(), want)
	}
}
