package core

import (
	"time"

	"github.com/shopspring/decimal"
)

// ShoppingList is a disposable, week-scoped snapshot of deficits.
type ShoppingList struct {
	ID          int64              `json:"id"`
	WeekStart   time.Time          `json:"week_start"`
	GeneratedAt time.Time          `json:"generated_at"`
	CompletedAt *time.Time         `json:"completed_at,omitempty"`
	Items       []ShoppingListItem `json:"items"`
}

// ShoppingListItem is one ingredient to buy. QuantityNeeded is rounded up in
// Unit; QuantityNormalized is the exact deficit in base units.
type ShoppingListItem struct {
	ID                 int64           `json:"id"`
	IngredientID       int64           `json:"ingredient_id"`
	IngredientName     string          `json:"ingredient_name"`
	Category           *string         `json:"category,omitempty"`
	QuantityNeeded     decimal.Decimal `json:"quantity_needed"`
	Unit               Unit            `json:"unit"`
	QuantityNormalized decimal.Decimal `json:"quantity_normalized"`
	Checked            bool            `json:"checked"`
	Sources            string          `json:"sources"` // contributing recipes, truncated
}
