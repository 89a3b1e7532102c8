package core

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"
)

// DemandKey buckets demand by ingredient and unit family. One ingredient
// counted in pieces and weighed in grams yields two keys that are never summed.
type DemandKey struct {
	IngredientID int64
	BaseUnit     BaseUnit
}

func (k DemandKey) String() string {
	return fmt.Sprintf("%d/%s", k.IngredientID, k.BaseUnit)
}

// AggregatedDemand is the total need for one DemandKey.
type AggregatedDemand struct {
	Key            DemandKey
	IngredientName string
	Normalized     decimal.Decimal
	DisplayUnit    Unit     // first unit encountered for this key
	RecipeNames    []string // distinct, in order of first contribution
}

func (d *AggregatedDemand) addRecipe(name string) {
	for _, n := range d.RecipeNames {
		if n == name {
			return
		}
	}
	d.RecipeNames = append(d.RecipeNames, name)
}

// SkippedMeal is a meal that contributed nothing because of an error.
type SkippedMeal struct {
	MealID int64
	Err    error
}

// Demand is the output of AggregateDemand.
type Demand struct {
	Buckets map[DemandKey]*AggregatedDemand
	Skipped []SkippedMeal
}

// Keys returns the bucket keys in a stable order.
func (d Demand) Keys() []DemandKey {
	keys := make([]DemandKey, 0, len(d.Buckets))
	for k := range d.Buckets {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].IngredientID != keys[j].IngredientID {
			return keys[i].IngredientID < keys[j].IngredientID
		}
		return keys[i].BaseUnit < keys[j].BaseUnit
	})
	return keys
}

// AggregateDemand scales every meal's recipe to the meal's servings and sums
// the normalized quantities per DemandKey. Meals without a recipe are ignored;
// meals whose recipe is missing or whose servings are invalid are reported in
// Skipped and the rest is still aggregated.
func AggregateDemand(meals []PlannedMeal, recipesByID map[int64]Recipe) Demand {
	out := Demand{Buckets: make(map[DemandKey]*AggregatedDemand)}

	for _, meal := range meals {
		if meal.RecipeID == nil {
			continue
		}
		recipe, ok := recipesByID[*meal.RecipeID]
		if !ok {
			out.Skipped = append(out.Skipped, SkippedMeal{
				MealID: meal.ID,
				Err:    fmt.Errorf("meal %d references recipe %d: %w", meal.ID, *meal.RecipeID, ErrMissingRecipeReference),
			})
			continue
		}

		scaled, err := Scale(recipe.Lines, recipe.BaseServings, meal.Servings)
		if err != nil {
			out.Skipped = append(out.Skipped, SkippedMeal{MealID: meal.ID, Err: fmt.Errorf("meal %d: %w", meal.ID, err)})
			continue
		}

		for _, line := range scaled {
			key := DemandKey{IngredientID: line.IngredientID, BaseUnit: line.Unit.BaseUnit}
			bucket, exists := out.Buckets[key]
			if !exists {
				bucket = &AggregatedDemand{
					Key:            key,
					IngredientName: line.IngredientName,
					Normalized:     decimal.Zero,
					DisplayUnit:    line.Unit,
				}
				out.Buckets[key] = bucket
			}
			bucket.Normalized = bucket.Normalized.Add(line.QuantityNormalized)
			bucket.addRecipe(recipe.Name)
		}
	}
	return out
}
