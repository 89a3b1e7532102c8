package postgres

import (
	"context"
	"fmt"

	"mealplanner/internal/core"
)

const stockColumns = `
	s.ingredient_id, i.name, s.quantity, s.unit_id, s.quantity_normalized, s.expiry_date, s.updated_at
`

type rowScanner interface {
	Scan(dest ...any) error
}

func (q *queries) scanStock(row rowScanner) (core.StockEntry, error) {
	var (
		e      core.StockEntry
		unitID int64
	)
	if err := row.Scan(&e.IngredientID, &e.IngredientName, &e.Quantity, &unitID, &e.QuantityNormalized, &e.ExpiryDate, &e.UpdatedAt); err != nil {
		return e, err
	}
	unit, err := q.unit(unitID)
	if err != nil {
		return e, err
	}
	e.Unit = unit
	return e, nil
}

func (q *queries) GetStock(ctx context.Context) ([]core.StockEntry, error) {
	rows, err := q.db.Query(ctx, `
		SELECT `+stockColumns+`
		FROM stock_entries s
		JOIN ingredients i ON i.id = s.ingredient_id
		ORDER BY i.name, s.ingredient_id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query stock: %w", err)
	}
	defer rows.Close()

	var out []core.StockEntry
	for rows.Next() {
		e, err := q.scanStock(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan stock entry: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (q *queries) GetStockEntry(ctx context.Context, ingredientID int64) (*core.StockEntry, error) {
	row := q.db.QueryRow(ctx, `
		SELECT `+stockColumns+`
		FROM stock_entries s
		JOIN ingredients i ON i.id = s.ingredient_id
		WHERE s.ingredient_id = $1`+q.lockClause("s"),
		ingredientID,
	)
	e, err := q.scanStock(row)
	if err != nil {
		return nil, notFound(err, "stock entry for ingredient", ingredientID)
	}
	return &e, nil
}

func (q *queries) UpsertStock(ctx context.Context, e core.StockEntry) error {
	_, err := q.db.Exec(ctx, `
		INSERT INTO stock_entries (ingredient_id, quantity, unit_id, quantity_normalized, expiry_date, updated_at)
		VALUES ($1, GREATEST($2::numeric, 0), $3, GREATEST($4::numeric, 0), $5, COALESCE($6::timestamptz, NOW()))
		ON CONFLICT (ingredient_id) DO UPDATE SET
			quantity            = EXCLUDED.quantity,
			unit_id             = EXCLUDED.unit_id,
			quantity_normalized = EXCLUDED.quantity_normalized,
			expiry_date         = EXCLUDED.expiry_date,
			updated_at          = EXCLUDED.updated_at
	`, e.IngredientID, e.Quantity, e.Unit.ID, e.QuantityNormalized, e.ExpiryDate, nullTime(e.UpdatedAt))
	if err != nil {
		return fmt.Errorf("failed to upsert stock entry: %w", err)
	}
	return nil
}

func (q *queries) DeleteStock(ctx context.Context, ingredientID int64) error {
	tag, err := q.db.Exec(ctx, "DELETE FROM stock_entries WHERE ingredient_id = $1", ingredientID)
	if err != nil {
		return fmt.Errorf("failed to delete stock entry: %w", err)
	}
	return requireRow(tag, "stock entry for ingredient", ingredientID)
}

func (q *queries) InsertMovement(ctx context.Context, m core.StockMovement) error {
	_, err := q.db.Exec(ctx, `
		INSERT INTO stock_movements (ingredient_id, delta, base_unit, reason, meal_id, created_at)
		VALUES ($1, $2, $3, $4, $5, COALESCE($6::timestamptz, NOW()))
	`, m.IngredientID, m.Delta, string(m.BaseUnit), string(m.Reason), m.MealID, nullTime(m.CreatedAt))
	if err != nil {
		return fmt.Errorf("failed to insert stock movement: %w", err)
	}
	return nil
}

func (q *queries) ListMovements(ctx context.Context, ingredientID int64) ([]core.StockMovement, error) {
	rows, err := q.db.Query(ctx, `
		SELECT id, ingredient_id, delta, base_unit, reason, meal_id, created_at
		FROM stock_movements
		WHERE ingredient_id = $1
		ORDER BY id
	`, ingredientID)
	if err != nil {
		return nil, fmt.Errorf("failed to query stock movements: %w", err)
	}
	defer rows.Close()

	var out []core.StockMovement
	for rows.Next() {
		var (
			m            core.StockMovement
			base, reason string
		)
		if err := rows.Scan(&m.ID, &m.IngredientID, &m.Delta, &base, &reason, &m.MealID, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan stock movement: %w", err)
		}
		m.BaseUnit = core.BaseUnit(base)
		m.Reason = core.MovementReason(reason)
		out = append(out, m)
	}
	return out, rows.Err()
}
