package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"mealplanner/internal/core"
)

// UnitSource loads the catalog from the units table.
type UnitSource struct {
	pool *pgxpool.Pool
}

func NewUnitSource(pool *pgxpool.Pool) *UnitSource {
	return &UnitSource{pool: pool}
}

func (s *UnitSource) LoadUnits(ctx context.Context) ([]core.Unit, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, code, family, base_unit, conversion_ratio, is_displayable, needs_article
		FROM units
		ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query units: %w", err)
	}
	defer rows.Close()

	var units []core.Unit
	for rows.Next() {
		var (
			u            core.Unit
			family, base string
		)
		if err := rows.Scan(&u.ID, &u.Code, &family, &base, &u.ConversionRatio, &u.IsDisplayable, &u.NeedsArticle); err != nil {
			return nil, fmt.Errorf("failed to scan unit: %w", err)
		}
		u.Family = core.Family(family)
		u.BaseUnit = core.BaseUnit(base)
		units = append(units, u)
	}
	return units, rows.Err()
}

// SyncUnits upserts units into the units table in one transaction. Units
// already referenced by recipes or stock keep their id; only their
// attributes change.
func SyncUnits(ctx context.Context, pool *pgxpool.Pool, units []core.Unit) (int, error) {
	for _, u := range units {
		if err := u.Validate(); err != nil {
			return 0, err
		}
	}

	tx, err := pool.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	batch := &pgx.Batch{}
	for _, u := range units {
		batch.Queue(`
			INSERT INTO units (id, code, family, base_unit, conversion_ratio, is_displayable, needs_article)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			ON CONFLICT (id) DO UPDATE SET
				code             = EXCLUDED.code,
				family           = EXCLUDED.family,
				base_unit        = EXCLUDED.base_unit,
				conversion_ratio = EXCLUDED.conversion_ratio,
				is_displayable   = EXCLUDED.is_displayable,
				needs_article    = EXCLUDED.needs_article
		`, u.ID, u.Code, string(u.Family), string(u.BaseUnit), u.ConversionRatio, u.IsDisplayable, u.NeedsArticle)
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return 0, fmt.Errorf("failed to upsert units: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("failed to commit units: %w", err)
	}
	return len(units), nil
}
