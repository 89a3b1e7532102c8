package app

import "mealplanner/internal/core"

// UnitListResult is returned by ListUnits and ReloadUnits.
type UnitListResult struct {
	Units []core.Unit `json:"units"`
}

// RecipeResult is returned by recipe operations.
type RecipeResult struct {
	Recipe *core.Recipe `json:"recipe"`
}

// RecipeListResult is returned by ListRecipes.
type RecipeListResult struct {
	Recipes []core.Recipe `json:"recipes"`
}

// IngredientListResult is returned by ListIngredients.
type IngredientListResult struct {
	Ingredients []core.Ingredient `json:"ingredients"`
}

// MealResult is returned by single-meal operations.
type MealResult struct {
	Meal *core.PlannedMeal `json:"meal"`
}

// MealListResult is returned by ListMeals.
type MealListResult struct {
	From  string             `json:"from"`
	To    string             `json:"to"`
	Meals []core.PlannedMeal `json:"meals"`
}

// SweepResult is returned by RunSweep.
type SweepResult struct {
	core.SweepResult
	Message string `json:"message"`
}

// StockEntryResult pairs an entry with the quantity to show for it.
type StockEntryResult struct {
	Entry   core.StockEntry      `json:"entry"`
	Display core.DisplayQuantity `json:"display"`
}

// StockResult is returned by GetStock.
type StockResult struct {
	Entries []StockEntryResult `json:"entries"`
}

// MovementListResult is returned by StockMovements.
type MovementListResult struct {
	Ingredient string               `json:"ingredient"`
	Movements  []core.StockMovement `json:"movements"`
}

// ShoppingListResult is returned by shopping list operations.
type ShoppingListResult struct {
	List *core.ShoppingList `json:"list"`
}
