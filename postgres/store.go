package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/nmalhotra/identity"
)

const uniqueViolation = "23505"

const schema = `
CREATE TABLE IF NOT EXISTS accounts (
	id            TEXT PRIMARY KEY,
	email         TEXT NOT NULL UNIQUE,
	name          TEXT,
	password_hash TEXT,
	oauth_id      TEXT UNIQUE,
	created_at    TIMESTAMPTZ NOT NULL DEFAULT now(),
	CHECK (password_hash IS NOT NULL OR oauth_id IS NOT NULL)
)`

// Store implements identity.AccountStore on a pgx connection pool. It holds
// no business logic; every method is a single statement so the database's
// constraints arbitrate races.
type Store struct {
	pool *pgxpool.Pool
}

var _ identity.AccountStore = (*Store)(nil)

func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// EnsureSchema creates the accounts table if missing. Idempotent.
func (s *Store) EnsureSchema(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("%w: %v", identity.ErrStoreUnavailable, err)
	}
	return nil
}

const selectColumns = `SELECT id, email, name, password_hash, oauth_id FROM accounts`

func (s *Store) FindByEmail(ctx context.Context, email string) (*identity.Account, error) {
	return s.scanOne(s.pool.QueryRow(ctx, selectColumns+` WHERE email = $1`, email))
}

func (s *Store) FindByOAuthID(ctx context.Context, oauthID string) (*identity.Account, error) {
	return s.scanOne(s.pool.QueryRow(ctx, selectColumns+` WHERE oauth_id = $1`, oauthID))
}

func (s *Store) FindByID(ctx context.Context, id string) (*identity.Account, error) {
	return s.scanOne(s.pool.QueryRow(ctx, selectColumns+` WHERE id = $1`, id))
}

func (s *Store) Create(ctx context.Context, input identity.CreateAccountInput) (*identity.Account, error) {
	row := s.pool.QueryRow(ctx,
		`INSERT INTO accounts (id, email, name, password_hash, oauth_id)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id, email, name, password_hash, oauth_id`,
		input.ID, input.Email, nullIfEmpty(input.Name),
		nullIfEmpty(input.PasswordHash), nullIfEmpty(input.OAuthID),
	)
	return s.scanOne(row)
}

// UpdateOAuthID links a provider subject to an unlinked account. The WHERE
// clause makes the link conditional, so two concurrent link attempts cannot
// overwrite each other: the loser sees no row and gets ErrDuplicateKey,
// which sends the Engine back through resolution.
func (s *Store) UpdateOAuthID(ctx context.Context, id, oauthID string) (*identity.Account, error) {
	row := s.pool.QueryRow(ctx,
		`UPDATE accounts SET oauth_id = $2
		 WHERE id = $1 AND oauth_id IS NULL
		 RETURNING id, email, name, password_hash, oauth_id`,
		id, oauthID,
	)
	account, err := s.scanOne(row)
	if errors.Is(err, identity.ErrAccountNotFound) {
		return nil, identity.ErrDuplicateKey
	}
	return account, err
}

func (s *Store) scanOne(row pgx.Row) (*identity.Account, error) {
	var (
		account             identity.Account
		name, hash, oauthID *string
	)
	err := row.Scan(&account.ID, &account.Email, &name, &hash, &oauthID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, identity.ErrAccountNotFound
		}
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return nil, identity.ErrDuplicateKey
		}
		return nil, fmt.Errorf("%w: %v", identity.ErrStoreUnavailable, err)
	}
	account.Name = deref(name)
	account.PasswordHash = deref(hash)
	account.OAuthID = deref(oauthID)
	return &account, nil
}

func nullIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
