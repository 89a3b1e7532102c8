package core

import (
	"context"
	"time"
)

// Queries is the read/write surface shared by a Store and its transactions.
// Lookups of a single record return an error wrapping ErrNotFound when the
// record does not exist. Inside a transaction, GetMeal and GetStockEntry lock
// the row they return until the transaction ends.
type Queries interface {
	// Recipes
	GetRecipe(ctx context.Context, id int64) (*Recipe, error)
	ListRecipes(ctx context.Context, filter RecipeFilter) ([]Recipe, error)
	CreateRecipe(ctx context.Context, r Recipe) (*Recipe, error)

	// Ingredients
	ListIngredients(ctx context.Context) ([]Ingredient, error)
	FindIngredientByName(ctx context.Context, name string) (*Ingredient, error)
	CreateIngredient(ctx context.Context, in Ingredient) (*Ingredient, error)

	// Stock
	GetStock(ctx context.Context) ([]StockEntry, error)
	GetStockEntry(ctx context.Context, ingredientID int64) (*StockEntry, error)
	UpsertStock(ctx context.Context, e StockEntry) error
	DeleteStock(ctx context.Context, ingredientID int64) error
	InsertMovement(ctx context.Context, m StockMovement) error
	ListMovements(ctx context.Context, ingredientID int64) ([]StockMovement, error)

	// Planned meals
	GetMeal(ctx context.Context, id int64) (*PlannedMeal, error)
	GetMealsInRange(ctx context.Context, start, end time.Time) ([]PlannedMeal, error)
	ListUnpreparedBefore(ctx context.Context, day time.Time) ([]PlannedMeal, error)
	InsertMeal(ctx context.Context, m PlannedMeal) (int64, error)
	UpdateMealServings(ctx context.Context, id int64, servings int) error
	// MarkMealPrepared flips is_prepared only if it is still false and reports
	// whether this call performed the flip.
	MarkMealPrepared(ctx context.Context, id int64, at time.Time) (bool, error)
	DeleteMeal(ctx context.Context, id int64) error

	// Shopping lists
	ReplaceShoppingList(ctx context.Context, weekStart time.Time, items []ShoppingListItem) (int64, error)
	GetShoppingList(ctx context.Context, weekStart time.Time) (*ShoppingList, error)
	SetShoppingItemChecked(ctx context.Context, itemID int64, checked bool) error
	MarkShoppingListCompleted(ctx context.Context, listID int64, at time.Time) (bool, error)
}

// Store is the persistence boundary. RunInTx commits when fn returns nil and
// rolls back every write made through q otherwise.
type Store interface {
	Queries
	RunInTx(ctx context.Context, fn func(q Queries) error) error
}
