package memory

import (
	"context"
	"time"

	"mealplanner/internal/core"
)

// Outside RunInTx every call is its own transaction.

func (s *Store) GetRecipe(ctx context.Context, id int64) (r *core.Recipe, err error) {
	err = s.live(func(t *txn) error { r, err = t.GetRecipe(ctx, id); return err })
	return r, err
}

func (s *Store) ListRecipes(ctx context.Context, filter core.RecipeFilter) (out []core.Recipe, err error) {
	err = s.live(func(t *txn) error { out, err = t.ListRecipes(ctx, filter); return err })
	return out, err
}

func (s *Store) CreateRecipe(ctx context.Context, r core.Recipe) (out *core.Recipe, err error) {
	err = s.live(func(t *txn) error { out, err = t.CreateRecipe(ctx, r); return err })
	return out, err
}

func (s *Store) ListIngredients(ctx context.Context) (out []core.Ingredient, err error) {
	err = s.live(func(t *txn) error { out, err = t.ListIngredients(ctx); return err })
	return out, err
}

func (s *Store) FindIngredientByName(ctx context.Context, name string) (out *core.Ingredient, err error) {
	err = s.live(func(t *txn) error { out, err = t.FindIngredientByName(ctx, name); return err })
	return out, err
}

func (s *Store) CreateIngredient(ctx context.Context, in core.Ingredient) (out *core.Ingredient, err error) {
	err = s.live(func(t *txn) error { out, err = t.CreateIngredient(ctx, in); return err })
	return out, err
}

func (s *Store) GetStock(ctx context.Context) (out []core.StockEntry, err error) {
	err = s.live(func(t *txn) error { out, err = t.GetStock(ctx); return err })
	return out, err
}

func (s *Store) GetStockEntry(ctx context.Context, ingredientID int64) (out *core.StockEntry, err error) {
	err = s.live(func(t *txn) error { out, err = t.GetStockEntry(ctx, ingredientID); return err })
	return out, err
}

func (s *Store) UpsertStock(ctx context.Context, e core.StockEntry) error {
	return s.live(func(t *txn) error { return t.UpsertStock(ctx, e) })
}

func (s *Store) DeleteStock(ctx context.Context, ingredientID int64) error {
	return s.live(func(t *txn) error { return t.DeleteStock(ctx, ingredientID) })
}

func (s *Store) InsertMovement(ctx context.Context, m core.StockMovement) error {
	return s.live(func(t *txn) error { return t.InsertMovement(ctx, m) })
}

func (s *Store) ListMovements(ctx context.Context, ingredientID int64) (out []core.StockMovement, err error) {
	err = s.live(func(t *txn) error { out, err = t.ListMovements(ctx, ingredientID); return err })
	return out, err
}

func (s *Store) GetMeal(ctx context.Context, id int64) (out *core.PlannedMeal, err error) {
	err = s.live(func(t *txn) error { out, err = t.GetMeal(ctx, id); return err })
	return out, err
}

func (s *Store) GetMealsInRange(ctx context.Context, start, end time.Time) (out []core.PlannedMeal, err error) {
	err = s.live(func(t *txn) error { out, err = t.GetMealsInRange(ctx, start, end); return err })
	return out, err
}

func (s *Store) ListUnpreparedBefore(ctx context.Context, day time.Time) (out []core.PlannedMeal, err error) {
	err = s.live(func(t *txn) error { out, err = t.ListUnpreparedBefore(ctx, day); return err })
	return out, err
}

func (s *Store) InsertMeal(ctx context.Context, m core.PlannedMeal) (id int64, err error) {
	err = s.live(func(t *txn) error { id, err = t.InsertMeal(ctx, m); return err })
	return id, err
}

func (s *Store) UpdateMealServings(ctx context.Context, id int64, servings int) error {
	return s.live(func(t *txn) error { return t.UpdateMealServings(ctx, id, servings) })
}

func (s *Store) MarkMealPrepared(ctx context.Context, id int64, at time.Time) (ok bool, err error) {
	err = s.live(func(t *txn) error { ok, err = t.MarkMealPrepared(ctx, id, at); return err })
	return ok, err
}

func (s *Store) DeleteMeal(ctx context.Context, id int64) error {
	return s.live(func(t *txn) error { return t.DeleteMeal(ctx, id) })
}

func (s *Store) ReplaceShoppingList(ctx context.Context, weekStart time.Time, items []core.ShoppingListItem) (id int64, err error) {
	err = s.live(func(t *txn) error { id, err = t.ReplaceShoppingList(ctx, weekStart, items); return err })
	return id, err
}

func (s *Store) GetShoppingList(ctx context.Context, weekStart time.Time) (out *core.ShoppingList, err error) {
	err = s.live(func(t *txn) error { out, err = t.GetShoppingList(ctx, weekStart); return err })
	return out, err
}

func (s *Store) SetShoppingItemChecked(ctx context.Context, itemID int64, checked bool) error {
	return s.live(func(t *txn) error { return t.SetShoppingItemChecked(ctx, itemID, checked) })
}

func (s *Store) MarkShoppingListCompleted(ctx context.Context, listID int64, at time.Time) (ok bool, err error) {
	err = s.live(func(t *txn) error { ok, err = t.MarkShoppingListCompleted(ctx, listID, at); return err })
	return ok, err
}
