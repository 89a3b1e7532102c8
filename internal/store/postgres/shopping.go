package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"mealplanner/internal/core"
)

// ReplaceShoppingList deletes the week's list (items cascade) and inserts the
// new one. Outside a transaction the two steps are not atomic; callers that
// need that run it through RunInTx.
func (q *queries) ReplaceShoppingList(ctx context.Context, weekStart time.Time, items []core.ShoppingListItem) (int64, error) {
	week := core.DateOf(weekStart)
	if _, err := q.db.Exec(ctx, "DELETE FROM shopping_lists WHERE week_start = $1", week); err != nil {
		return 0, fmt.Errorf("failed to delete previous shopping list: %w", err)
	}

	var listID int64
	if err := q.db.QueryRow(ctx,
		"INSERT INTO shopping_lists (week_start) VALUES ($1) RETURNING id", week,
	).Scan(&listID); err != nil {
		return 0, fmt.Errorf("failed to insert shopping list: %w", err)
	}

	if len(items) == 0 {
		return listID, nil
	}
	batch := &pgx.Batch{}
	for i, it := range items {
		batch.Queue(`
			INSERT INTO shopping_list_items
				(list_id, position, ingredient_id, quantity_needed, unit_id, quantity_normalized, checked, sources)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		`, listID, i+1, it.IngredientID, it.QuantityNeeded, it.Unit.ID, it.QuantityNormalized, it.Checked, it.Sources)
	}
	if err := sendBatch(ctx, q.db, batch); err != nil {
		return 0, fmt.Errorf("failed to insert shopping list items: %w", err)
	}
	return listID, nil
}

func (q *queries) GetShoppingList(ctx context.Context, weekStart time.Time) (*core.ShoppingList, error) {
	week := core.DateOf(weekStart)
	var list core.ShoppingList
	err := q.db.QueryRow(ctx,
		"SELECT id, week_start, generated_at, completed_at FROM shopping_lists WHERE week_start = $1", week,
	).Scan(&list.ID, &list.WeekStart, &list.GeneratedAt, &list.CompletedAt)
	if err != nil {
		return nil, notFound(err, "shopping list for week", week.Format("2006-01-02"))
	}
	list.WeekStart = core.DateOf(list.WeekStart)

	rows, err := q.db.Query(ctx, `
		SELECT it.id, it.ingredient_id, i.name, i.category, it.quantity_needed, it.unit_id,
		       it.quantity_normalized, it.checked, it.sources
		FROM shopping_list_items it
		JOIN ingredients i ON i.id = it.ingredient_id
		WHERE it.list_id = $1
		ORDER BY it.position
	`, list.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to query shopping list items: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			it     core.ShoppingListItem
			unitID int64
		)
		if err := rows.Scan(&it.ID, &it.IngredientID, &it.IngredientName, &it.Category, &it.QuantityNeeded,
			&unitID, &it.QuantityNormalized, &it.Checked, &it.Sources); err != nil {
			return nil, fmt.Errorf("failed to scan shopping list item: %w", err)
		}
		if it.Unit, err = q.unit(unitID); err != nil {
			return nil, err
		}
		list.Items = append(list.Items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read shopping list items: %w", err)
	}
	return &list, nil
}

func (q *queries) SetShoppingItemChecked(ctx context.Context, itemID int64, checked bool) error {
	tag, err := q.db.Exec(ctx, "UPDATE shopping_list_items SET checked = $2 WHERE id = $1", itemID, checked)
	if err != nil {
		return fmt.Errorf("failed to update shopping item: %w", err)
	}
	return requireRow(tag, "shopping item", itemID)
}

// MarkShoppingListCompleted stamps the list once; later calls report false.
func (q *queries) MarkShoppingListCompleted(ctx context.Context, listID int64, at time.Time) (bool, error) {
	tag, err := q.db.Exec(ctx,
		"UPDATE shopping_lists SET completed_at = $2 WHERE id = $1 AND completed_at IS NULL", listID, at)
	if err != nil {
		return false, fmt.Errorf("failed to complete shopping list: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}
