package core

import (
	"sort"
	"strings"

	"github.com/shopspring/decimal"
)

// maxSourcesLen caps the provenance string shown next to an item.
const maxSourcesLen = 60

// BuildShoppingList nets demand against stock and returns what must be bought.
// Staple ingredients never appear. Quantities are rounded up in each bucket's
// display unit so the list never under-buys.
func BuildShoppingList(demand Demand, stock []StockEntry, ingredients []Ingredient) []ShoppingListItem {
	onHand := make(map[DemandKey]decimal.Decimal, len(stock))
	for _, e := range stock {
		key := DemandKey{IngredientID: e.IngredientID, BaseUnit: e.Unit.BaseUnit}
		onHand[key] = onHand[key].Add(e.QuantityNormalized)
	}

	byID := make(map[int64]Ingredient, len(ingredients))
	for _, in := range ingredients {
		byID[in.ID] = in
	}

	var items []ShoppingListItem
	for _, key := range demand.Keys() {
		bucket := demand.Buckets[key]
		ing, known := byID[key.IngredientID]
		if known && ing.IsStaple {
			continue
		}

		deficit := decimal.Max(decimal.Zero, bucket.Normalized.Sub(onHand[key]))
		if !deficit.Round(noisePlaces).IsPositive() {
			continue
		}

		name := bucket.IngredientName
		var category *string
		if known {
			name = ing.Name
			category = ing.Category
		}

		items = append(items, ShoppingListItem{
			IngredientID:       key.IngredientID,
			IngredientName:     name,
			Category:           category,
			QuantityNeeded:     roundUpIn(deficit, bucket.DisplayUnit),
			Unit:               bucket.DisplayUnit,
			QuantityNormalized: deficit,
			Sources:            truncateSources(bucket.RecipeNames),
		})
	}

	sortShoppingItems(items)
	return items
}

// roundUpIn expresses a base quantity in unit, rounded up to a whole unit.
func roundUpIn(base decimal.Decimal, unit Unit) decimal.Decimal {
	q, err := Denormalize(base, unit.BaseUnit, unit)
	if err != nil {
		return base.Round(noisePlaces).Ceil()
	}
	return q.Round(noisePlaces).Ceil()
}

// sortShoppingItems orders by category (uncategorized last), then name.
func sortShoppingItems(items []ShoppingListItem) {
	sort.SliceStable(items, func(i, j int) bool {
		a, b := items[i], items[j]
		if (a.Category == nil) != (b.Category == nil) {
			return a.Category != nil
		}
		if a.Category != nil {
			ac, bc := strings.ToLower(*a.Category), strings.ToLower(*b.Category)
			if ac != bc {
				return ac < bc
			}
		}
		an, bn := strings.ToLower(a.IngredientName), strings.ToLower(b.IngredientName)
		if an != bn {
			return an < bn
		}
		return a.IngredientID < b.IngredientID
	})
}

func truncateSources(names []string) string {
	s := strings.Join(names, ", ")
	r := []rune(s)
	if len(r) <= maxSourcesLen {
		return s
	}
	return string(r[:maxSourcesLen-1]) + "…"
}
