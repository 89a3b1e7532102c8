package app

import (
	"context"

	"mealplanner/internal/core"
)

// ApplicationService is the single interface all UI adapters (CLI, Web) call.
// It decouples presentation from the planner's services. Implementations must
// contain no fmt.Println, no ANSI codes, and no display logic of any kind.
// Dates are "YYYY-MM-DD" strings; an empty date means today.
type ApplicationService interface {
	// ListUnits returns the unit catalog.
	ListUnits(ctx context.Context) (*UnitListResult, error)

	// ReloadUnits re-reads the unit catalog from its source.
	ReloadUnits(ctx context.Context) (*UnitListResult, error)

	// ImportRecipe creates a recipe, creating missing ingredients by name.
	ImportRecipe(ctx context.Context, req core.RecipeImport) (*RecipeResult, error)

	// GetRecipe returns a recipe with its lines.
	GetRecipe(ctx context.Context, id int64) (*RecipeResult, error)

	// ListRecipes returns recipes whose name contains search (all when empty).
	ListRecipes(ctx context.Context, search string) (*RecipeListResult, error)

	// ListIngredients returns every known ingredient.
	ListIngredients(ctx context.Context) (*IngredientListResult, error)

	// ListMeals returns planned meals between two dates, inclusive.
	// When both are empty, the current week is listed.
	ListMeals(ctx context.Context, from, to string) (*MealListResult, error)

	// AddMeal schedules a meal. A meal dated in the past is prepared immediately.
	AddMeal(ctx context.Context, req AddMealRequest) (*MealResult, error)

	// GetMeal returns a single planned meal.
	GetMeal(ctx context.Context, id int64) (*MealResult, error)

	// MarkPrepared deducts the meal's ingredients from stock once.
	MarkPrepared(ctx context.Context, id int64) (*MealResult, error)

	// UpdateServings changes a meal's servings, reconciling stock if it was prepared.
	UpdateServings(ctx context.Context, id int64, servings int) (*MealResult, error)

	// RemoveMeal deletes a meal, restoring consumed stock.
	RemoveMeal(ctx context.Context, id int64) error

	// RunSweep prepares every past meal still planned.
	RunSweep(ctx context.Context) (*SweepResult, error)

	// GetStock returns the pantry with a readable quantity per entry.
	GetStock(ctx context.Context) (*StockResult, error)

	// SetStock sets an ingredient's stock, creating the ingredient if needed.
	SetStock(ctx context.Context, req SetStockRequest) (*StockEntryResult, error)

	// AdjustStock adds to or removes from an ingredient's stock.
	AdjustStock(ctx context.Context, req AdjustStockRequest) (*StockEntryResult, error)

	// RemoveStock stops tracking an ingredient.
	RemoveStock(ctx context.Context, ingredient string) error

	// StockMovements returns the stock history of an ingredient.
	StockMovements(ctx context.Context, ingredient string) (*MovementListResult, error)

	// GenerateShoppingList rebuilds the list for the week containing day.
	GenerateShoppingList(ctx context.Context, day string) (*ShoppingListResult, error)

	// GetShoppingList returns the stored list for the week containing day.
	GetShoppingList(ctx context.Context, day string) (*ShoppingListResult, error)

	// CheckShoppingItem ticks or unticks a list item.
	CheckShoppingItem(ctx context.Context, itemID int64, checked bool) error

	// CompleteShoppingList adds checked items to stock and closes the list.
	CompleteShoppingList(ctx context.Context, day string) (*ShoppingListResult, error)
}
