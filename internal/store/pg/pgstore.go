// Package pg implements the identity repository over Postgres.
package pg

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"github.com/shopspring/decimal"

	"fincore.org/internal/identity"
	"fincore.org/internal/store/pg/migrations"
)

// Store implements identity.Repository backed by Postgres.
type Store struct {
	db *sql.DB
}

var _ identity.Repository = (*Store)(nil)

// Open connects to the database. Pool defaults are conservative; adjust
// under load tests.
func Open(dsn string) (*Store, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(15 * time.Minute)
	db.SetConnMaxIdleTime(5 * time.Minute)
	return &Store{db: db}, nil
}

// NewWithDB wraps an existing connection, mainly for tests.
func NewWithDB(db *sql.DB) *Store { return &Store{db: db} }

func (s *Store) Close() error { return s.db.Close() }

func (s *Store) DB() *sql.DB { return s.db }

// Migrate applies the embedded schema migrations.
func (s *Store) Migrate(ctx context.Context) error {
	goose.SetBaseFS(migrations.Migrations)
	return goose.UpContext(ctx, s.db, ".")
}

const identityColumns = `id, username, kind, first_name, last_name, org_name, balance, created_at`

func scanIdentity(row interface{ Scan(...any) error }) (*identity.Identity, error) {
	var (
		ident   identity.Identity
		kind    string
		balance decimal.Decimal
	)
	err := row.Scan(&ident.ID, &ident.Username, &kind, &ident.FirstName, &ident.LastName, &ident.Name, &balance, &ident.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, identity.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	ident.Kind = identity.Kind(kind)
	ident.Account = identity.RestoreAccount(balance)
	return &ident, nil
}

func (s *Store) FindByUsername(ctx context.Context, username string) (*identity.Identity, error) {
	row := s.db.QueryRowContext(ctx, `
		select `+identityColumns+` from identities where lower(username) = lower($1)
	`, username)
	return scanIdentity(row)
}

func (s *Store) GetIdentity(ctx context.Context, id uuid.UUID) (*identity.Identity, error) {
	row := s.db.QueryRowContext(ctx, `
		select `+identityColumns+` from identities where id = $1
	`, id)
	return scanIdentity(row)
}

func (s *Store) GetCredential(ctx context.Context, id uuid.UUID) (*identity.Credential, error) {
	var cred identity.Credential
	err := s.db.QueryRowContext(ctx, `
		select identity_id, secret from credentials where identity_id = $1
	`, id).Scan(&cred.ID, &cred.Secret)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, identity.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &cred, nil
}

func (s *Store) SaveNew(ctx context.Context, cred *identity.Credential, ident *identity.Identity) error {
	if cred == nil || ident == nil || ident.ID == uuid.Nil {
		return identity.ErrMissingID
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `
		insert into identities (`+identityColumns+`)
		values ($1,$2,$3,$4,$5,$6,$7,$8)
	`, ident.ID, ident.Username, string(ident.Kind), ident.FirstName, ident.LastName, ident.Name,
		ident.Account.Balance(), ident.CreatedAt); err != nil {
		return mapUnique(err)
	}
	if _, err := tx.ExecContext(ctx, `
		insert into credentials (identity_id, secret) values ($1,$2)
	`, cred.ID, cred.Secret); err != nil {
		return err
	}
	return tx.Commit()
}

// SaveUpdated upserts the identity row. Only the balance ever changes
// after creation, but the full row is written to keep the statement total.
func (s *Store) SaveUpdated(ctx context.Context, ident *identity.Identity) error {
	if ident == nil || ident.ID == uuid.Nil {
		return identity.ErrMissingID
	}
	_, err := s.db.ExecContext(ctx, `
		insert into identities (`+identityColumns+`)
		values ($1,$2,$3,$4,$5,$6,$7,$8)
		on conflict (id) do update set balance = excluded.balance
	`, ident.ID, ident.Username, string(ident.Kind), ident.FirstName, ident.LastName, ident.Name,
		ident.Account.Balance(), ident.CreatedAt)
	return err
}

func (s *Store) Delete(ctx context.Context, ident *identity.Identity) error {
	if ident == nil || ident.ID == uuid.Nil {
		return identity.ErrMissingID
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx, `delete from identities where id = $1`, ident.ID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return identity.ErrNotFound
	}
	res, err = tx.ExecContext(ctx, `delete from credentials where identity_id = $1`, ident.ID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		// The identity existed but its auth record did not.
		return identity.ErrDataIntegrity
	}
	return tx.Commit()
}

func (s *Store) ListIdentities(ctx context.Context) ([]*identity.Identity, error) {
	rows, err := s.db.QueryContext(ctx, `
		select `+identityColumns+` from identities order by created_at
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*identity.Identity
	for rows.Next() {
		ident, err := scanIdentity(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, ident)
	}
	return out, rows.Err()
}

func (s *Store) ListCredentials(ctx context.Context) ([]*identity.Credential, error) {
	rows, err := s.db.QueryContext(ctx, `select identity_id, secret from credentials`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*identity.Credential
	for rows.Next() {
		var cred identity.Credential
		if err := rows.Scan(&cred.ID, &cred.Secret); err != nil {
			return nil, err
		}
		out = append(out, &cred)
	}
	return out, rows.Err()
}

func (s *Store) Balance(ctx context.Context, id uuid.UUID) (decimal.Decimal, error) {
	var bal decimal.Decimal
	err := s.db.QueryRowContext(ctx, `select balance from identities where id = $1`, id).Scan(&bal)
	if errors.Is(err, sql.ErrNoRows) {
		return decimal.Decimal{}, identity.ErrNotFound
	}
	if err != nil {
		return decimal.Decimal{}, err
	}
	return bal, nil
}

func mapUnique(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return identity.ErrDuplicate
	}
	return err
}
