package postgres

import (
	"context"
	"fmt"
	"time"

	"mealplanner/internal/core"
)

const mealColumns = "id, meal_date, meal_type, recipe_id, servings, is_prepared, prepared_at, created_at"

func scanMeal(row rowScanner) (core.PlannedMeal, error) {
	var (
		m        core.PlannedMeal
		mealType string
	)
	err := row.Scan(&m.ID, &m.Date, &mealType, &m.RecipeID, &m.Servings, &m.IsPrepared, &m.PreparedAt, &m.CreatedAt)
	m.MealType = core.MealType(mealType)
	m.Date = core.DateOf(m.Date)
	return m, err
}

func (q *queries) GetMeal(ctx context.Context, id int64) (*core.PlannedMeal, error) {
	row := q.db.QueryRow(ctx, "SELECT "+mealColumns+" FROM planned_meals WHERE id = $1"+q.lockClause(""), id)
	m, err := scanMeal(row)
	if err != nil {
		return nil, notFound(err, "meal", id)
	}
	return &m, nil
}

func (q *queries) listMeals(ctx context.Context, where string, args ...any) ([]core.PlannedMeal, error) {
	rows, err := q.db.Query(ctx, "SELECT "+mealColumns+" FROM planned_meals WHERE "+where+" ORDER BY meal_date, id", args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query meals: %w", err)
	}
	defer rows.Close()

	var out []core.PlannedMeal
	for rows.Next() {
		m, err := scanMeal(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan meal: %w", err)
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func (q *queries) GetMealsInRange(ctx context.Context, start, end time.Time) ([]core.PlannedMeal, error) {
	return q.listMeals(ctx, "meal_date BETWEEN $1 AND $2", core.DateOf(start), core.DateOf(end))
}

func (q *queries) ListUnpreparedBefore(ctx context.Context, day time.Time) ([]core.PlannedMeal, error) {
	return q.listMeals(ctx, "meal_date < $1 AND is_prepared = FALSE", core.DateOf(day))
}

func (q *queries) InsertMeal(ctx context.Context, m core.PlannedMeal) (int64, error) {
	var id int64
	err := q.db.QueryRow(ctx, `
		INSERT INTO planned_meals (meal_date, meal_type, recipe_id, servings)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`, core.DateOf(m.Date), string(m.MealType), m.RecipeID, m.Servings).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to insert meal: %w", err)
	}
	return id, nil
}

func (q *queries) UpdateMealServings(ctx context.Context, id int64, servings int) error {
	tag, err := q.db.Exec(ctx, "UPDATE planned_meals SET servings = $2 WHERE id = $1", id, servings)
	if err != nil {
		return fmt.Errorf("failed to update meal servings: %w", err)
	}
	return requireRow(tag, "meal", id)
}

// MarkMealPrepared is a compare-and-set: it only matches a row still unprepared.
func (q *queries) MarkMealPrepared(ctx context.Context, id int64, at time.Time) (bool, error) {
	tag, err := q.db.Exec(ctx, `
		UPDATE planned_meals
		SET is_prepared = TRUE, prepared_at = $2
		WHERE id = $1 AND is_prepared = FALSE
	`, id, at)
	if err != nil {
		return false, fmt.Errorf("failed to mark meal prepared: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

func (q *queries) DeleteMeal(ctx context.Context, id int64) error {
	tag, err := q.db.Exec(ctx, "DELETE FROM planned_meals WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("failed to delete meal: %w", err)
	}
	return requireRow(tag, "meal", id)
}
