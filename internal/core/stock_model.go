package core

import (
	"time"

	"github.com/shopspring/decimal"
)

// StockEntry is the pantry holding of one ingredient. An ingredient has at most
// one entry, in a single unit family.
type StockEntry struct {
	IngredientID       int64           `json:"ingredient_id"`
	IngredientName     string          `json:"ingredient_name"` // joined from ingredients
	Quantity           decimal.Decimal `json:"quantity"`
	Unit               Unit            `json:"unit"`
	QuantityNormalized decimal.Decimal `json:"quantity_normalized"` // never negative
	ExpiryDate         *time.Time      `json:"expiry_date,omitempty"`
	UpdatedAt          time.Time       `json:"updated_at"`
}

// MovementReason records why stock changed.
type MovementReason string

const (
	MovementManual         MovementReason = "MANUAL"
	MovementPrepare        MovementReason = "PREPARE"
	MovementServingsAdjust MovementReason = "SERVINGS_ADJUST"
	MovementMealRemoved    MovementReason = "MEAL_REMOVED"
	MovementShopping       MovementReason = "SHOPPING"
)

// StockMovement is an append-only record of an applied stock change.
// Delta is normalized and signed, and is what was actually applied after clamping.
type StockMovement struct {
	ID           int64           `json:"id"`
	IngredientID int64           `json:"ingredient_id"`
	Delta        decimal.Decimal `json:"delta"`
	BaseUnit     BaseUnit        `json:"base_unit"`
	Reason       MovementReason  `json:"reason"`
	MealID       *int64          `json:"meal_id,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
}

// StockDelta is a requested change to one ingredient's stock, in base units.
// Positive deltas may create a missing entry in Unit; negative deltas never do.
type StockDelta struct {
	IngredientID int64
	Normalized   decimal.Decimal
	Unit         Unit // unit of the originating line; its BaseUnit must match the entry's
	Reason       MovementReason
	MealID       *int64
}

// UpsertStockInput sets an ingredient's stock outright.
type UpsertStockInput struct {
	IngredientID int64
	Quantity     decimal.Decimal
	UnitCode     string
	ExpiryDate   *time.Time
}
