package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/readloop/readloop/internal/store"
)

// ErrNotFound indicates the requested entity does not exist.
var ErrNotFound = errors.New("repository: not found")

// ErrConflict indicates a uniqueness constraint was violated, e.g. a second
// review for the same (book, user) pair or a duplicate email.
var ErrConflict = errors.New("repository: conflict")

// Querier is the subset of pgx operations shared by *pgxpool.Pool and pgx.Tx,
// so repositories work identically inside and outside a transaction.
type Querier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// Repository aggregates all domain-specific repositories.
type Repository struct {
	pool *pgxpool.Pool

	Users      *UsersRepository
	Books      *BooksRepository
	Reviews    *ReviewsRepository
	Aggregates *AggregatesRepository
}

// New constructs a Repository backed by the provided store.
func New(st *store.Store) *Repository {
	return NewWithPool(st.Pool())
}

// NewWithPool allows constructing repositories directly from a pgx pool.
func NewWithPool(pool *pgxpool.Pool) *Repository {
	r := newWithQuerier(pool)
	r.pool = pool
	return r
}

func newWithQuerier(db Querier) *Repository {
	return &Repository{
		Users:      &UsersRepository{db: db},
		Books:      &BooksRepository{db: db},
		Reviews:    &ReviewsRepository{db: db},
		Aggregates: &AggregatesRepository{db: db},
	}
}

// InTx runs fn against a repository bound to a single transaction. All writes
// made through it commit together or roll back together.
func (r *Repository) InTx(ctx context.Context, fn func(tx *Repository) error) error {
	if r.pool == nil {
		return fmt.Errorf("repository: InTx requires a pool-backed repository")
	}
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(newWithQuerier(tx)); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

func isForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23503"
}

// isInvalidID reports a malformed UUID literal (invalid_text_representation).
// Callers treat it like a lookup miss: a garbage ID names nothing.
func isInvalidID(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "22P02"
}

func notFoundErr(err error) bool {
	return errors.Is(err, pgx.ErrNoRows) || isInvalidID(err)
}
