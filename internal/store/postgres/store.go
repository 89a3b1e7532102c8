// Package postgres implements core.Store on PostgreSQL through pgx.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"mealplanner/internal/core"
)

// querier is satisfied by both *pgxpool.Pool and pgx.Tx.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// queries implements core.Queries. Unit ids read from the database are
// resolved through the catalog, and normalized recipe quantities are
// recomputed rather than trusted.
type queries struct {
	db      querier
	catalog *core.UnitCatalog
	inTx    bool
}

// Store is a core.Store over a pgx pool.
type Store struct {
	queries
	pool *pgxpool.Pool
}

var _ core.Store = (*Store)(nil)

func New(pool *pgxpool.Pool, catalog *core.UnitCatalog) *Store {
	return &Store{queries: queries{db: pool, catalog: catalog}, pool: pool}
}

// RunInTx runs fn in one database transaction. Row reads that lock
// (GetMeal, GetStockEntry) take FOR UPDATE locks held until commit.
func (s *Store) RunInTx(ctx context.Context, fn func(q core.Queries) error) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := fn(&queries{db: tx, catalog: s.catalog, inTx: true}); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// lockClause returns a row-lock clause inside a transaction, scoped to
// table alias of when the query joins.
func (q *queries) lockClause(of string) string {
	switch {
	case !q.inTx:
		return ""
	case of != "":
		return " FOR UPDATE OF " + of
	default:
		return " FOR UPDATE"
	}
}

// nullTime maps the zero time to NULL so column defaults apply.
func nullTime(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}

func (q *queries) unit(id int64) (core.Unit, error) {
	u, err := q.catalog.FindByID(id)
	if err != nil {
		return core.Unit{}, fmt.Errorf("row references unit %d: %w", id, err)
	}
	return u, nil
}

func notFound(err error, what string, id any) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("%s %v: %w", what, id, core.ErrNotFound)
	}
	return fmt.Errorf("failed to load %s %v: %w", what, id, err)
}

func requireRow(tag pgconn.CommandTag, what string, id any) error {
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%s %v: %w", what, id, core.ErrNotFound)
	}
	return nil
}
