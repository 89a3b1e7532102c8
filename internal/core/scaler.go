package core

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// ScaledLine is a recipe line scaled to a serving count. Quantities keep full
// precision; rounding is left to whoever displays them.
type ScaledLine struct {
	IngredientID       int64           `json:"ingredient_id"`
	IngredientName     string          `json:"ingredient_name"`
	Quantity           decimal.Decimal `json:"quantity"`
	Unit               Unit            `json:"unit"`
	QuantityNormalized decimal.Decimal `json:"quantity_normalized"`
}

// DisplayQuantity rounds the scaled quantity to one decimal.
func (l ScaledLine) DisplayQuantity() decimal.Decimal {
	return l.Quantity.Round(1)
}

// Scale multiplies every line by targetServings / baseServings.
func Scale(lines []RecipeLine, baseServings, targetServings int) ([]ScaledLine, error) {
	if baseServings <= 0 {
		return nil, fmt.Errorf("base servings %d: %w", baseServings, ErrInvalidServings)
	}
	if targetServings <= 0 {
		return nil, fmt.Errorf("target servings %d: %w", targetServings, ErrInvalidServings)
	}

	target := decimal.NewFromInt(int64(targetServings))
	base := decimal.NewFromInt(int64(baseServings))

	out := make([]ScaledLine, 0, len(lines))
	for _, l := range lines {
		// Multiply before dividing so that evenly divisible ratios stay exact.
		out = append(out, ScaledLine{
			IngredientID:       l.IngredientID,
			IngredientName:     l.IngredientName,
			Quantity:           l.Quantity.Mul(target).Div(base),
			Unit:               l.Unit,
			QuantityNormalized: l.Normalized().Mul(target).Div(base),
		})
	}
	return out, nil
}
