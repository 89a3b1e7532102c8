package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"mealplanner/internal/core"
)

func (q *queries) GetRecipe(ctx context.Context, id int64) (*core.Recipe, error) {
	var r core.Recipe
	err := q.db.QueryRow(ctx,
		"SELECT id, name, base_servings, created_at FROM recipes WHERE id = $1", id,
	).Scan(&r.ID, &r.Name, &r.BaseServings, &r.CreatedAt)
	if err != nil {
		return nil, notFound(err, "recipe", id)
	}

	lines, err := q.recipeLines(ctx, []int64{id})
	if err != nil {
		return nil, err
	}
	r.Lines = lines[id]
	return &r, nil
}

func (q *queries) ListRecipes(ctx context.Context, filter core.RecipeFilter) ([]core.Recipe, error) {
	var (
		where []string
		args  []any
	)
	if len(filter.IDs) > 0 {
		args = append(args, filter.IDs)
		where = append(where, fmt.Sprintf("id = ANY($%d)", len(args)))
	}
	if filter.NameContains != "" {
		args = append(args, "%"+filter.NameContains+"%")
		where = append(where, fmt.Sprintf("name ILIKE $%d", len(args)))
	}
	sql := "SELECT id, name, base_servings, created_at FROM recipes"
	if len(where) > 0 {
		sql += " WHERE " + strings.Join(where, " AND ")
	}
	sql += " ORDER BY name, id"

	rows, err := q.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query recipes: %w", err)
	}
	defer rows.Close()

	var recipes []core.Recipe
	var ids []int64
	for rows.Next() {
		var r core.Recipe
		if err := rows.Scan(&r.ID, &r.Name, &r.BaseServings, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan recipe: %w", err)
		}
		recipes = append(recipes, r)
		ids = append(ids, r.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read recipes: %w", err)
	}
	if len(ids) == 0 {
		return recipes, nil
	}

	lines, err := q.recipeLines(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range recipes {
		recipes[i].Lines = lines[recipes[i].ID]
	}
	return recipes, nil
}

// recipeLines loads lines for several recipes in one query.
func (q *queries) recipeLines(ctx context.Context, recipeIDs []int64) (map[int64][]core.RecipeLine, error) {
	rows, err := q.db.Query(ctx, `
		SELECT ri.recipe_id, ri.ingredient_id, i.name, ri.quantity, ri.unit_id
		FROM recipe_ingredients ri
		JOIN ingredients i ON i.id = ri.ingredient_id
		WHERE ri.recipe_id = ANY($1)
		ORDER BY ri.recipe_id, ri.line_no
	`, recipeIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to query recipe lines: %w", err)
	}
	defer rows.Close()

	out := make(map[int64][]core.RecipeLine, len(recipeIDs))
	for rows.Next() {
		var (
			recipeID, ingredientID, unitID int64
			name                           string
			qty                            decimal.Decimal
		)
		if err := rows.Scan(&recipeID, &ingredientID, &name, &qty, &unitID); err != nil {
			return nil, fmt.Errorf("failed to scan recipe line: %w", err)
		}
		unit, err := q.unit(unitID)
		if err != nil {
			return nil, err
		}
		out[recipeID] = append(out[recipeID], core.NewRecipeLine(ingredientID, name, qty, unit))
	}
	return out, rows.Err()
}

func (q *queries) CreateRecipe(ctx context.Context, r core.Recipe) (*core.Recipe, error) {
	err := q.db.QueryRow(ctx,
		"INSERT INTO recipes (name, base_servings) VALUES ($1, $2) RETURNING id, created_at",
		r.Name, r.BaseServings,
	).Scan(&r.ID, &r.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to insert recipe: %w", err)
	}

	batch := &pgx.Batch{}
	for i, l := range r.Lines {
		batch.Queue(`
			INSERT INTO recipe_ingredients (recipe_id, ingredient_id, line_no, quantity, unit_id, quantity_normalized)
			VALUES ($1, $2, $3, $4, $5, $6)
		`, r.ID, l.IngredientID, i+1, l.Quantity, l.Unit.ID, l.Normalized())
	}
	if batch.Len() > 0 {
		if err := sendBatch(ctx, q.db, batch); err != nil {
			return nil, fmt.Errorf("failed to insert recipe lines: %w", err)
		}
	}
	return q.GetRecipe(ctx, r.ID)
}

type batchSender interface {
	SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults
}

func sendBatch(ctx context.Context, db querier, b *pgx.Batch) error {
	sender, ok := db.(batchSender)
	if !ok {
		return fmt.Errorf("connection does not support batches")
	}
	return sender.SendBatch(ctx, b).Close()
}

// ── Ingredients ──────────────────────────────────────────────────────────────

func (q *queries) ListIngredients(ctx context.Context) ([]core.Ingredient, error) {
	rows, err := q.db.Query(ctx, "SELECT id, name, category, is_staple, created_at FROM ingredients ORDER BY name")
	if err != nil {
		return nil, fmt.Errorf("failed to query ingredients: %w", err)
	}
	defer rows.Close()

	var out []core.Ingredient
	for rows.Next() {
		var in core.Ingredient
		if err := rows.Scan(&in.ID, &in.Name, &in.Category, &in.IsStaple, &in.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan ingredient: %w", err)
		}
		out = append(out, in)
	}
	return out, rows.Err()
}

func (q *queries) FindIngredientByName(ctx context.Context, name string) (*core.Ingredient, error) {
	var in core.Ingredient
	err := q.db.QueryRow(ctx,
		"SELECT id, name, category, is_staple, created_at FROM ingredients WHERE name = $1", name,
	).Scan(&in.ID, &in.Name, &in.Category, &in.IsStaple, &in.CreatedAt)
	if err != nil {
		return nil, notFound(err, "ingredient", name)
	}
	return &in, nil
}

func (q *queries) CreateIngredient(ctx context.Context, in core.Ingredient) (*core.Ingredient, error) {
	err := q.db.QueryRow(ctx,
		"INSERT INTO ingredients (name, category, is_staple) VALUES ($1, $2, $3) RETURNING id, created_at",
		in.Name, in.Category, in.IsStaple,
	).Scan(&in.ID, &in.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to insert ingredient %q: %w", in.Name, err)
	}
	return &in, nil
}
