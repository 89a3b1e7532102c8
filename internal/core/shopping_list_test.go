package core_test

import (
	"strings"
	"testing"
	"unicode/utf8"

	"mealplanner/internal/core"
)

func strPtr(s string) *string { return &s }

func TestBuildShoppingList_FlourDeficit(t *testing.T) {
	t.Parallel()
	c := testCatalog(t)
	g := mustUnit(t, c, "g")
	const flour = 1
	recipes := map[int64]core.Recipe{1: recipeOf(1, "Bread", 4, core.NewRecipeLine(flour, "flour", d("200"), g))}
	demand := core.AggregateDemand([]core.PlannedMeal{mealOf(1, ptr(1), 2)}, recipes)
	stock := []core.StockEntry{{IngredientID: flour, Quantity: d("30"), Unit: g, QuantityNormalized: d("30")}}

	items := core.BuildShoppingList(demand, stock, []core.Ingredient{{ID: flour, Name: "flour"}})

	if len(items) != 1 {
		t.Fatalf("expected exactly one item, got %d", len(items))
	}
	if !items[0].QuantityNeeded.Equal(d("70")) || items[0].Unit.Code != "g" {
		t.Errorf("flour to buy = %s %s, want 70 g", items[0].QuantityNeeded, items[0].Unit.Code)
	}
	if items[0].Sources != "Bread" {
		t.Errorf("sources = %q", items[0].Sources)
	}
}

func TestBuildShoppingList_StaplesNeverListed(t *testing.T) {
	t.Parallel()
	c := testCatalog(t)
	recipes := map[int64]core.Recipe{1: recipeOf(1, "Soup", 2,
		core.NewRecipeLine(1, "salt", d("5"), mustUnit(t, c, "g")),
		core.NewRecipeLine(2, "leek", d("2"), mustUnit(t, c, "piece")))}
	demand := core.AggregateDemand([]core.PlannedMeal{mealOf(1, ptr(1), 8)}, recipes)
	ingredients := []core.Ingredient{{ID: 1, Name: "salt", IsStaple: true}, {ID: 2, Name: "leek"}}

	items := core.BuildShoppingList(demand, nil, ingredients)

	for _, it := range items {
		if it.IngredientID == 1 {
			t.Fatalf("staple listed: %+v", it)
		}
	}
	if len(items) != 1 || !items[0].QuantityNeeded.Equal(d("8")) {
		t.Errorf("items = %+v", items)
	}
}

func TestBuildShoppingList_RoundsUpInDisplayUnit(t *testing.T) {
	t.Parallel()
	c := testCatalog(t)
	kg := mustUnit(t, c, "kg")
	recipes := map[int64]core.Recipe{1: recipeOf(1, "Gratin", 4, core.NewRecipeLine(1, "potatoes", d("1"), kg))}
	demand := core.AggregateDemand([]core.PlannedMeal{mealOf(1, ptr(1), 3)}, recipes)
	stock := []core.StockEntry{{IngredientID: 1, Quantity: d("400"), Unit: mustUnit(t, c, "g"), QuantityNormalized: d("400")}}

	items := core.BuildShoppingList(demand, stock, nil)

	if len(items) != 1 {
		t.Fatalf("expected one item, got %d", len(items))
	}
	// 750 g needed, 400 g held: 0.35 kg short, bought as 1 kg.
	if !items[0].QuantityNeeded.Equal(d("1")) || items[0].Unit.Code != "kg" {
		t.Errorf("to buy = %s %s, want 1 kg", items[0].QuantityNeeded, items[0].Unit.Code)
	}
	if !items[0].QuantityNormalized.Equal(d("350")) {
		t.Errorf("normalized deficit = %s, want 350", items[0].QuantityNormalized)
	}
}

func TestBuildShoppingList_NoiseDoesNotBumpCeiling(t *testing.T) {
	t.Parallel()
	c := testCatalog(t)
	g := mustUnit(t, c, "g")
	// 100 g for 3 servings scaled to 1 serving three times sums to 99.9999…
	recipes := map[int64]core.Recipe{1: recipeOf(1, "Thirds", 3, core.NewRecipeLine(1, "oats", d("100"), g))}
	meals := []core.PlannedMeal{mealOf(1, ptr(1), 1), mealOf(2, ptr(1), 1), mealOf(3, ptr(1), 1)}

	items := core.BuildShoppingList(core.AggregateDemand(meals, recipes), nil, nil)

	if len(items) != 1 || !items[0].QuantityNeeded.Equal(d("100")) {
		t.Errorf("items = %+v, want 100 g", items)
	}
}

func TestBuildShoppingList_CoveredDemandOmitted(t *testing.T) {
	t.Parallel()
	c := testCatalog(t)
	recipes := map[int64]core.Recipe{1: recipeOf(1, "Tea", 1, core.NewRecipeLine(1, "water", d("25"), mustUnit(t, c, "cl")))}
	demand := core.AggregateDemand([]core.PlannedMeal{mealOf(1, ptr(1), 2)}, recipes)
	stock := []core.StockEntry{{IngredientID: 1, Quantity: d("1"), Unit: mustUnit(t, c, "l"), QuantityNormalized: d("1000")}}

	if items := core.BuildShoppingList(demand, stock, nil); len(items) != 0 {
		t.Errorf("expected nothing to buy, got %+v", items)
	}
}

func TestBuildShoppingList_OtherFamilyStockDoesNotCount(t *testing.T) {
	t.Parallel()
	c := testCatalog(t)
	recipes := map[int64]core.Recipe{1: recipeOf(1, "Aioli", 1, core.NewRecipeLine(1, "garlic", d("3"), mustUnit(t, c, "piece")))}
	demand := core.AggregateDemand([]core.PlannedMeal{mealOf(1, ptr(1), 1)}, recipes)
	stock := []core.StockEntry{{IngredientID: 1, Quantity: d("50"), Unit: mustUnit(t, c, "g"), QuantityNormalized: d("50")}}

	items := core.BuildShoppingList(demand, stock, nil)
	if len(items) != 1 || !items[0].QuantityNeeded.Equal(d("3")) {
		t.Errorf("items = %+v, want 3 piece", items)
	}
}

func TestBuildShoppingList_SortedByCategoryThenName(t *testing.T) {
	t.Parallel()
	c := testCatalog(t)
	g := mustUnit(t, c, "g")
	recipes := map[int64]core.Recipe{1: recipeOf(1, "Everything", 1,
		core.NewRecipeLine(1, "zucchini", d("1"), g),
		core.NewRecipeLine(2, "apple", d("1"), g),
		core.NewRecipeLine(3, "basil", d("1"), g),
		core.NewRecipeLine(4, "anchovy", d("1"), g))}
	ingredients := []core.Ingredient{
		{ID: 1, Name: "zucchini", Category: strPtr("Produce")},
		{ID: 2, Name: "apple", Category: strPtr("produce")},
		{ID: 3, Name: "basil"},
		{ID: 4, Name: "anchovy", Category: strPtr("Canned")},
	}
	items := core.BuildShoppingList(core.AggregateDemand([]core.PlannedMeal{mealOf(1, ptr(1), 1)}, recipes), nil, ingredients)

	var got []string
	for _, it := range items {
		got = append(got, it.IngredientName)
	}
	if want := "anchovy,apple,zucchini,basil"; strings.Join(got, ",") != want {
		t.Errorf("order = %v, want %s", got, want)
	}
}

func TestBuildShoppingList_SourcesTruncated(t *testing.T) {
	t.Parallel()
	c := testCatalog(t)
	g := mustUnit(t, c, "g")
	recipes := make(map[int64]core.Recipe)
	var meals []core.PlannedMeal
	for i := int64(1); i <= 8; i++ {
		recipes[i] = recipeOf(i, "Recipe with a long name "+string(rune('A'+i)), 1, core.NewRecipeLine(1, "butter", d("10"), g))
		meals = append(meals, mealOf(i, ptr(i), 1))
	}
	items := core.BuildShoppingList(core.AggregateDemand(meals, recipes), nil, nil)

	if len(items) != 1 {
		t.Fatalf("expected one item, got %d", len(items))
	}
	if n := utf8.RuneCountInString(items[0].Sources); n != 60 {
		t.Errorf("sources length = %d runes, want 60", n)
	}
	if !strings.HasSuffix(items[0].Sources, "…") {
		t.Errorf("sources not marked as truncated: %q", items[0].Sources)
	}
	if !items[0].QuantityNeeded.Equal(d("80")) {
		t.Errorf("butter to buy = %s, want 80", items[0].QuantityNeeded)
	}
}
