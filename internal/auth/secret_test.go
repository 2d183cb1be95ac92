package auth

import (
	"errors"
	"testing"

	"fincore.org/internal/identity"
)

func TestPlainSchemeStoresSecretAsGiven(t *testing.T) {
	stored, err := HashSecret(SchemePlain, "Pa55word!!123")
	if err != nil {
		t.Fatalf("HashSecret: %v", err)
	}
	if stored != "Pa55word!!123" {
		t.Fatalf("plain scheme must not transform the secret, got %q", stored)
	}
	if err := VerifySecret(SchemePlain, stored, "Pa55word!!123"); err != nil {
		t.Fatalf("VerifySecret: %v", err)
	}
	if err := VerifySecret(SchemePlain, stored, "other"); !errors.Is(err, identity.ErrCredentialMismatch) {
		t.Fatalf("expected mismatch, got %v", err)
	}
}

func TestBcryptScheme(t *testing.T) {
	stored, err := HashSecret(SchemeBcrypt, "Pa55word!!123")
	if err != nil {
		t.Fatalf("HashSecret: %v", err)
	}
	if stored == "Pa55word!!123" {
		t.Fatal("bcrypt scheme must not store the plaintext")
	}
	if err := VerifySecret(SchemeBcrypt, stored, "Pa55word!!123"); err != nil {
		t.Fatalf("VerifySecret: %v", err)
	}
	if err := VerifySecret(SchemeBcrypt, stored, "other"); !errors.Is(err, identity.ErrCredentialMismatch) {
		t.Fatalf("expected mismatch, got %v", err)
	}
}

func TestHashSecretEmpty(t *testing.T) {
	if _, err := HashSecret(SchemePlain, ""); err == nil {
		t.Fatal("expected an error for an empty secret")
	}
}
