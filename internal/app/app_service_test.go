package app_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"mealplanner/internal/app"
	"mealplanner/internal/core"
	"mealplanner/internal/store/memory"
	"mealplanner/internal/store/unitfile"
)

// Wednesday 2024-03-13.
var today = time.Date(2024, 3, 13, 18, 30, 0, 0, time.UTC)

func newService(t *testing.T) app.ApplicationService {
	t.Helper()
	catalog, err := core.NewUnitCatalog(context.Background(), unitfile.New("../../config/units.yaml"))
	if err != nil {
		t.Fatalf("catalog: %v", err)
	}
	return app.Wire(memory.New(), catalog, func() time.Time { return today }, nil, nil)
}

func TestSetStockCreatesIngredientAndPicksDisplayUnit(t *testing.T) {
	ctx := context.Background()
	svc := newService(t)

	res, err := svc.SetStock(ctx, app.SetStockRequest{Ingredient: "flour", Quantity: decimal.NewFromInt(2000), Unit: "g"})
	if err != nil {
		t.Fatalf("SetStock: %v", err)
	}
	if res.Display.Unit.Code != "kg" || !res.Display.Quantity.Equal(decimal.NewFromInt(2)) {
		t.Errorf("display = %s %s, want 2 kg", res.Display.Quantity, res.Display.Unit.Code)
	}

	res, err = svc.AdjustStock(ctx, app.AdjustStockRequest{Ingredient: "flour", Quantity: decimal.NewFromInt(-500), Unit: "g"})
	if err != nil {
		t.Fatalf("AdjustStock: %v", err)
	}
	if !res.Entry.QuantityNormalized.Equal(decimal.NewFromInt(1500)) {
		t.Errorf("stock = %s, want 1500", res.Entry.QuantityNormalized)
	}

	movements, err := svc.StockMovements(ctx, "flour")
	if err != nil {
		t.Fatalf("StockMovements: %v", err)
	}
	if len(movements.Movements) != 2 {
		t.Errorf("movements = %d, want 2", len(movements.Movements))
	}

	if err := svc.RemoveStock(ctx, "flour"); err != nil {
		t.Fatalf("RemoveStock: %v", err)
	}
	if err := svc.RemoveStock(ctx, "saffron"); !errors.Is(err, core.ErrNotFound) {
		t.Errorf("RemoveStock(saffron) = %v, want ErrNotFound", err)
	}
}

func TestInputValidation(t *testing.T) {
	ctx := context.Background()
	svc := newService(t)

	tests := []struct {
		name string
		call func() error
		want error
	}{
		{"bad date", func() error {
			_, err := svc.AddMeal(ctx, app.AddMealRequest{Date: "13/03/2024", MealType: "dinner", Servings: 2})
			return err
		}, core.ErrInvalidInput},
		{"bad meal type", func() error {
			_, err := svc.AddMeal(ctx, app.AddMealRequest{MealType: "brunch", Servings: 2})
			return err
		}, core.ErrInvalidInput},
		{"zero servings", func() error {
			_, err := svc.AddMeal(ctx, app.AddMealRequest{MealType: "lunch"})
			return err
		}, core.ErrInvalidServings},
		{"reversed range", func() error {
			_, err := svc.ListMeals(ctx, "2024-03-20", "2024-03-10")
			return err
		}, core.ErrInvalidInput},
		{"unknown unit", func() error {
			_, err := svc.SetStock(ctx, app.SetStockRequest{Ingredient: "salt", Quantity: decimal.NewFromInt(1), Unit: "pinch"})
			return err
		}, core.ErrUnknownUnit},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.call(); !errors.Is(err, tt.want) {
				t.Errorf("err = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestWeekFlow(t *testing.T) {
	ctx := context.Background()
	svc := newService(t)

	recipe, err := svc.ImportRecipe(ctx, core.RecipeImport{Name: "Risotto", BaseServings: 2, Lines: []core.RecipeImportLine{
		{Ingredient: "rice", Quantity: decimal.NewFromInt(160), Unit: "g"},
		{Ingredient: "stock", Quantity: decimal.NewFromInt(1), Unit: "l"},
	}})
	if err != nil {
		t.Fatalf("ImportRecipe: %v", err)
	}
	id := recipe.Recipe.ID

	if _, err := svc.AddMeal(ctx, app.AddMealRequest{Date: "2024-03-15", MealType: "Dinner", RecipeID: &id, Servings: 4}); err != nil {
		t.Fatalf("AddMeal: %v", err)
	}
	if _, err := svc.SetStock(ctx, app.SetStockRequest{Ingredient: "rice", Quantity: decimal.NewFromInt(1), Unit: "kg"}); err != nil {
		t.Fatalf("SetStock: %v", err)
	}

	meals, err := svc.ListMeals(ctx, "", "")
	if err != nil {
		t.Fatalf("ListMeals: %v", err)
	}
	if meals.From != "2024-03-11" || meals.To != "2024-03-17" || len(meals.Meals) != 1 {
		t.Errorf("meals = %+v", meals)
	}

	list, err := svc.GenerateShoppingList(ctx, "")
	if err != nil {
		t.Fatalf("GenerateShoppingList: %v", err)
	}
	if len(list.List.Items) != 1 || list.List.Items[0].IngredientName != "stock" || !list.List.Items[0].QuantityNeeded.Equal(decimal.NewFromInt(2)) {
		t.Errorf("items = %+v, want 2 l of stock", list.List.Items)
	}

	sweep, err := svc.RunSweep(ctx)
	if err != nil {
		t.Fatalf("RunSweep: %v", err)
	}
	if sweep.Message != "0 of 0 meals processed" {
		t.Errorf("sweep message = %q", sweep.Message)
	}
}
