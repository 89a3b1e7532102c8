package app

import "github.com/shopspring/decimal"

// AddMealRequest is the input for AddMeal.
type AddMealRequest struct {
	Date     string `json:"date"`      // YYYY-MM-DD, defaults to today
	MealType string `json:"meal_type"` // breakfast, lunch, dinner or snack
	RecipeID *int64 `json:"recipe_id,omitempty"`
	Servings int    `json:"servings"`
}

// SetStockRequest is the input for SetStock.
type SetStockRequest struct {
	Ingredient string          `json:"ingredient"` // name; created when unknown
	Quantity   decimal.Decimal `json:"quantity"`
	Unit       string          `json:"unit"`
	ExpiryDate string          `json:"expiry_date,omitempty"` // YYYY-MM-DD
}

// AdjustStockRequest is the input for AdjustStock. A negative Quantity removes stock.
type AdjustStockRequest struct {
	Ingredient string          `json:"ingredient"`
	Quantity   decimal.Decimal `json:"quantity"`
	Unit       string          `json:"unit"`
}
