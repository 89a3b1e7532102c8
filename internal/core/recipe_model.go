package core

import (
	"time"

	"github.com/shopspring/decimal"
)

// Ingredient is a pantry item. Staples are assumed always available and never
// appear on shopping lists.
type Ingredient struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Category  *string   `json:"category,omitempty"`
	IsStaple  bool      `json:"is_staple"`
	CreatedAt time.Time `json:"created_at"`
}

// Recipe lists ingredient quantities for BaseServings servings.
type Recipe struct {
	ID           int64        `json:"id"`
	Name         string       `json:"name"`
	BaseServings int          `json:"base_servings"`
	Lines        []RecipeLine `json:"lines"`
	CreatedAt    time.Time    `json:"created_at"`
}

// RecipeLine is one ingredient of a recipe, in the line's own display unit.
type RecipeLine struct {
	IngredientID       int64           `json:"ingredient_id"`
	IngredientName     string          `json:"ingredient_name"` // joined from ingredients
	Quantity           decimal.Decimal `json:"quantity"`
	Unit               Unit            `json:"unit"`
	QuantityNormalized decimal.Decimal `json:"quantity_normalized"`
}

// Normalized recomputes Quantity × Unit.ConversionRatio. Stored values are never trusted.
func (l RecipeLine) Normalized() decimal.Decimal {
	return Normalize(l.Quantity, l.Unit)
}

// NewRecipeLine builds a line with its normalized quantity filled in.
func NewRecipeLine(ingredientID int64, ingredientName string, quantity decimal.Decimal, unit Unit) RecipeLine {
	return RecipeLine{
		IngredientID:       ingredientID,
		IngredientName:     ingredientName,
		Quantity:           quantity,
		Unit:               unit,
		QuantityNormalized: Normalize(quantity, unit),
	}
}

// RecipeFilter narrows ListRecipes. Zero value lists everything.
type RecipeFilter struct {
	NameContains string
	IDs          []int64
}

// RecipeImport describes a recipe by ingredient names and unit codes.
type RecipeImport struct {
	Name         string             `json:"name" yaml:"name"`
	BaseServings int                `json:"base_servings" yaml:"base_servings"`
	Lines        []RecipeImportLine `json:"lines" yaml:"lines"`
}

// RecipeImportLine is one ingredient of a RecipeImport. Category and IsStaple
// apply only when the ingredient does not exist yet.
type RecipeImportLine struct {
	Ingredient string          `json:"ingredient" yaml:"ingredient"`
	Category   *string         `json:"category,omitempty" yaml:"category"`
	IsStaple   bool            `json:"is_staple,omitempty" yaml:"staple"`
	Quantity   decimal.Decimal `json:"quantity" yaml:"quantity"`
	Unit       string          `json:"unit" yaml:"unit"`
}
