package core_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"mealplanner/internal/core"
	"mealplanner/internal/store/memory"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func unitOf(id int64, code string, family core.Family, ratio string, displayable bool) core.Unit {
	return core.Unit{
		ID:              id,
		Code:            code,
		Family:          family,
		BaseUnit:        core.BaseUnitOf(family),
		ConversionRatio: d(ratio),
		IsDisplayable:   displayable,
	}
}

var testUnits = []core.Unit{
	unitOf(1, "mg", core.FamilyMass, "0.001", false),
	unitOf(2, "g", core.FamilyMass, "1", true),
	unitOf(3, "kg", core.FamilyMass, "1000", true),
	unitOf(4, "ml", core.FamilyVolume, "1", true),
	unitOf(5, "cl", core.FamilyVolume, "10", true),
	unitOf(6, "l", core.FamilyVolume, "1000", true),
	unitOf(7, "cas", core.FamilyVolume, "15", false),
	unitOf(8, "piece", core.FamilyCount, "1", true),
	unitOf(9, "douzaine", core.FamilyCount, "12", true),
}

func testCatalog(t *testing.T) *core.UnitCatalog {
	t.Helper()
	c, err := core.NewStaticUnitCatalog(testUnits)
	if err != nil {
		t.Fatalf("failed to build catalog: %v", err)
	}
	return c
}

func mustUnit(t *testing.T, c *core.UnitCatalog, code string) core.Unit {
	t.Helper()
	u, err := c.FindByCode(code)
	if err != nil {
		t.Fatalf("unit %s: %v", code, err)
	}
	return u
}

// Wednesday; the week starts Monday 2024-03-11.
var testToday = time.Date(2024, 3, 13, 12, 0, 0, 0, time.UTC)

func day(offset int) time.Time {
	return core.DateOf(testToday).AddDate(0, 0, offset)
}

type fixture struct {
	ctx      context.Context
	store    core.Store
	catalog  *core.UnitCatalog
	recipes  core.RecipeService
	stock    core.StockLedger
	meals    core.MealService
	shopping core.ShoppingListService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	return newFixtureWithStore(t, memory.New())
}

func newFixtureWithStore(t *testing.T, store core.Store) *fixture {
	t.Helper()
	catalog := testCatalog(t)
	clock := func() time.Time { return testToday }
	stock := core.NewStockLedger(store, catalog, clock, nil, nil)
	return &fixture{
		ctx:      context.Background(),
		store:    store,
		catalog:  catalog,
		recipes:  core.NewRecipeService(store, catalog, nil),
		stock:    stock,
		meals:    core.NewMealService(store, stock, clock, nil, nil),
		shopping: core.NewShoppingListService(store, stock, clock, nil, nil),
	}
}

func (f *fixture) importRecipe(t *testing.T, name string, baseServings int, lines ...core.RecipeImportLine) *core.Recipe {
	t.Helper()
	r, err := f.recipes.Import(f.ctx, core.RecipeImport{Name: name, BaseServings: baseServings, Lines: lines})
	if err != nil {
		t.Fatalf("import %s: %v", name, err)
	}
	return r
}

func line(ingredient, qty, unit string) core.RecipeImportLine {
	return core.RecipeImportLine{Ingredient: ingredient, Quantity: d(qty), Unit: unit}
}

func (f *fixture) ingredientID(t *testing.T, name string) int64 {
	t.Helper()
	ing, err := f.recipes.EnsureIngredient(f.ctx, name, nil, false)
	if err != nil {
		t.Fatalf("ingredient %s: %v", name, err)
	}
	return ing.ID
}

func (f *fixture) setStock(t *testing.T, ingredient, qty, unit string) {
	t.Helper()
	_, err := f.stock.Upsert(f.ctx, core.UpsertStockInput{IngredientID: f.ingredientID(t, ingredient), Quantity: d(qty), UnitCode: unit})
	if err != nil {
		t.Fatalf("set stock %s: %v", ingredient, err)
	}
}

// stockOf returns the normalized stock of ingredient, and false if untracked.
func (f *fixture) stockOf(t *testing.T, ingredient string) (decimal.Decimal, bool) {
	t.Helper()
	e, err := f.store.GetStockEntry(f.ctx, f.ingredientID(t, ingredient))
	if errors.Is(err, core.ErrNotFound) {
		return decimal.Zero, false
	}
	if err != nil {
		t.Fatalf("stock %s: %v", ingredient, err)
	}
	return e.QuantityNormalized, true
}

func (f *fixture) assertStock(t *testing.T, ingredient, want string) {
	t.Helper()
	got, ok := f.stockOf(t, ingredient)
	if !ok {
		t.Fatalf("expected stock entry for %s", ingredient)
	}
	if !got.Equal(d(want)) {
		t.Errorf("stock of %s = %s, want %s", ingredient, got, want)
	}
}

func (f *fixture) addMeal(t *testing.T, date time.Time, recipe *core.Recipe, servings int) *core.PlannedMeal {
	t.Helper()
	in := core.AddMealInput{Date: date, MealType: core.MealDinner, Servings: servings}
	if recipe != nil {
		in.RecipeID = &recipe.ID
	}
	m, err := f.meals.AddMeal(f.ctx, in)
	if err != nil {
		t.Fatalf("add meal: %v", err)
	}
	return m
}

func decimalInt(n int) decimal.Decimal { return decimal.NewFromInt(int64(n)) }
