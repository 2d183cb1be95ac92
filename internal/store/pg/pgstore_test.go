package pg

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"

	"fincore.org/internal/identity"
)

func newMockStore(t *testing.T) (*Store, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return NewWithDB(db), mock
}

func identityRow(id uuid.UUID) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "username", "kind", "first_name", "last_name", "org_name", "balance", "created_at"}).
		AddRow(id.String(), "TestCustA", "individual", "John", "Test", "", "100.50", time.Now().UTC())
}

func TestFindByUsername(t *testing.T) {
	store, mock := newMockStore(t)
	id := uuid.New()

	mock.ExpectQuery("select (.+) from identities where lower").
		WillReturnRows(identityRow(id))

	ident, err := store.FindByUsername(context.Background(), "testcusta")
	if err != nil {
		t.Fatalf("FindByUsername: %v", err)
	}
	if ident.ID != id || ident.Kind != identity.KindIndividual {
		t.Fatalf("unexpected identity: %+v", ident)
	}
	if ident.Account.Balance().StringFixedBank(2) != "100.50" {
		t.Fatalf("unexpected balance: %s", ident.Account.Balance())
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestFindByUsernameMiss(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectQuery("select (.+) from identities where lower").
		WillReturnError(sql.ErrNoRows)

	if _, err := store.FindByUsername(context.Background(), "nobody"); !errors.Is(err, identity.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestGetCredential(t *testing.T) {
	store, mock := newMockStore(t)
	id := uuid.New()

	mock.ExpectQuery("select identity_id, secret from credentials").
		WillReturnRows(sqlmock.NewRows([]string{"identity_id", "secret"}).AddRow(id.String(), "Pa55word!!123"))

	cred, err := store.GetCredential(context.Background(), id)
	if err != nil {
		t.Fatalf("GetCredential: %v", err)
	}
	if cred.ID != id || cred.Secret != "Pa55word!!123" {
		t.Fatalf("unexpected credential: %+v", cred)
	}
}

func TestGetCredentialMiss(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectQuery("select identity_id, secret from credentials").
		WillReturnError(sql.ErrNoRows)

	if _, err := store.GetCredential(context.Background(), uuid.New()); !errors.Is(err, identity.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestSaveNew(t *testing.T) {
	store, mock := newMockStore(t)
	ident := identity.NewIndividual("TestCustA", "John", "Test")
	cred := &identity.Credential{ID: ident.ID, Secret: "Pa55word!!123"}

	mock.ExpectBegin()
	mock.ExpectExec("insert into identities").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("insert into credentials").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	if err := store.SaveNew(context.Background(), cred, ident); err != nil {
		t.Fatalf("SaveNew: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestSaveNewDuplicateUsername(t *testing.T) {
	store, mock := newMockStore(t)
	ident := identity.NewIndividual("TestCustA", "John", "Test")
	cred := &identity.Credential{ID: ident.ID, Secret: "Pa55word!!123"}

	mock.ExpectBegin()
	mock.ExpectExec("insert into identities").WillReturnError(&pgconn.PgError{Code: "23505"})
	mock.ExpectRollback()

	if err := store.SaveNew(context.Background(), cred, ident); !errors.Is(err, identity.ErrDuplicate) {
		t.Fatalf("expected duplicate mapping for unique violation, got %v", err)
	}
}

func TestSaveUpdatedUpserts(t *testing.T) {
	store, mock := newMockStore(t)
	ident := identity.NewIndividual("TestCustA", "John", "Test")
	ident.Account.Add(decimal.RequireFromString("42.42"))

	mock.ExpectExec("insert into identities").WillReturnResult(sqlmock.NewResult(0, 1))

	if err := store.SaveUpdated(context.Background(), ident); err != nil {
		t.Fatalf("SaveUpdated: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestDelete(t *testing.T) {
	store, mock := newMockStore(t)
	ident := identity.NewIndividual("TestCustA", "John", "Test")

	mock.ExpectBegin()
	mock.ExpectExec("delete from identities").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("delete from credentials").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	if err := store.Delete(context.Background(), ident); err != nil {
		t.Fatalf("Delete: %v", err)
	}
}

func TestDeleteUnknownIdentity(t *testing.T) {
	store, mock := newMockStore(t)
	ident := identity.NewIndividual("TestCustA", "John", "Test")

	mock.ExpectBegin()
	mock.ExpectExec("delete from identities").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	if err := store.Delete(context.Background(), ident); !errors.Is(err, identity.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestDeleteMissingCredentialFailsLoudly(t *testing.T) {
	store, mock := newMockStore(t)
	ident := identity.NewIndividual("TestCustA", "John", "Test")

	mock.ExpectBegin()
	mock.ExpectExec("delete from identities").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("delete from credentials").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	if err := store.Delete(context.Background(), ident); !errors.Is(err, identity.ErrDataIntegrity) {
		t.Fatalf("expected data integrity failure, got %v", err)
	}
}

func TestBalance(t *testing.T) {
	store, mock := newMockStore(t)
	id := uuid.New()

	mock.ExpectQuery("select balance from identities").
		WillReturnRows(sqlmock.NewRows([]string{"balance"}).AddRow("100.50"))

	bal, err := store.Balance(context.Background(), id)
	if err != nil {
		t.Fatalf("Balance: %v", err)
	}
	if !bal.Equal(decimal.RequireFromString("100.50")) {
		t.Fatalf("got %s, want 100.50", bal)
	}
}

func TestBalanceMiss(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectQuery("select balance from identities").
		WillReturnError(sql.ErrNoRows)

	if _, err := store.Balance(context.Background(), uuid.New()); !errors.Is(err, identity.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}
