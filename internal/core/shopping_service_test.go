package core_test

import (
	"errors"
	"testing"

	"mealplanner/internal/core"
)

func TestShoppingListService_GenerateNetsStock(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	bread := f.importRecipe(t, "Bread", 4,
		line("flour", "200", "g"),
		core.RecipeImportLine{Ingredient: "salt", Quantity: d("5"), Unit: "g", IsStaple: true})
	f.setStock(t, "flour", "30", "g")

	f.addMeal(t, day(1), bread, 2)  // this week
	f.addMeal(t, day(-1), bread, 4) // this week, already prepared on creation
	f.addMeal(t, day(7), bread, 8)  // next week

	list, err := f.shopping.Generate(f.ctx, day(0))
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if !list.WeekStart.Equal(day(-2)) {
		t.Errorf("week start = %s, want Monday %s", list.WeekStart, day(-2))
	}
	if len(list.Items) != 1 {
		t.Fatalf("items = %+v, want only flour", list.Items)
	}
	item := list.Items[0]
	// The prepared meal consumed the 30 g on hand; 100 g are still needed.
	if item.IngredientName != "flour" || !item.QuantityNeeded.Equal(d("100")) || item.Unit.Code != "g" {
		t.Errorf("item = %s %s %s, want flour 100 g", item.IngredientName, item.QuantityNeeded, item.Unit.Code)
	}
}

func TestShoppingListService_FlourScenario(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	bread := f.importRecipe(t, "Bread", 4, line("flour", "200", "g"))
	f.setStock(t, "flour", "30", "g")
	f.addMeal(t, day(2), bread, 2)

	list, err := f.shopping.Generate(f.ctx, day(2))
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if len(list.Items) != 1 || !list.Items[0].QuantityNeeded.Equal(d("70")) {
		t.Fatalf("items = %+v, want 70 g flour", list.Items)
	}
}

func TestShoppingListService_RegenerateReplaces(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	r := f.importRecipe(t, "Pancakes", 2, line("milk", "50", "cl"), line("eggs", "2", "piece"))
	f.addMeal(t, day(1), r, 2)

	first, err := f.shopping.Generate(f.ctx, day(0))
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if err := f.shopping.SetItemChecked(f.ctx, first.Items[0].ID, true); err != nil {
		t.Fatalf("SetItemChecked: %v", err)
	}

	second, err := f.shopping.Generate(f.ctx, day(3))
	if err != nil {
		t.Fatalf("regenerate: %v", err)
	}
	if second.ID == first.ID {
		t.Error("regeneration kept the old list")
	}
	for _, it := range second.Items {
		if it.Checked {
			t.Errorf("item %s carried its checked state over", it.IngredientName)
		}
	}
	if len(second.Items) != len(first.Items) {
		t.Errorf("items = %d, want %d", len(second.Items), len(first.Items))
	}
}

func TestShoppingListService_CompleteRestocksOnce(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	r := f.importRecipe(t, "Pancakes", 2, line("milk", "50", "cl"), line("eggs", "2", "piece"))
	f.setStock(t, "milk", "20", "cl")
	f.addMeal(t, day(1), r, 4)

	list, err := f.shopping.Generate(f.ctx, day(1))
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	for _, it := range list.Items {
		if it.IngredientName == "milk" {
			if err := f.shopping.SetItemChecked(f.ctx, it.ID, true); err != nil {
				t.Fatalf("SetItemChecked: %v", err)
			}
		}
	}

	for i := 0; i < 2; i++ {
		done, err := f.shopping.Complete(f.ctx, day(1))
		if err != nil {
			t.Fatalf("Complete #%d: %v", i+1, err)
		}
		if done.CompletedAt == nil {
			t.Error("list not stamped")
		}
	}
	// 100 cl needed, 20 cl held: 80 cl bought once.
	f.assertStock(t, "milk", "1000")
	if _, ok := f.stockOf(t, "eggs"); ok {
		t.Error("unchecked eggs were stocked")
	}
}

func TestShoppingListService_Missing(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	if _, err := f.shopping.Get(f.ctx, day(0)); !errors.Is(err, core.ErrNotFound) {
		t.Errorf("Get = %v, want ErrNotFound", err)
	}
	if _, err := f.shopping.Complete(f.ctx, day(0)); !errors.Is(err, core.ErrNotFound) {
		t.Errorf("Complete = %v, want ErrNotFound", err)
	}
	if err := f.shopping.SetItemChecked(f.ctx, 42, true); !errors.Is(err, core.ErrNotFound) {
		t.Errorf("SetItemChecked = %v, want ErrNotFound", err)
	}
}
