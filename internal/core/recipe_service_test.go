package core_test

import (
	"errors"
	"testing"

	"mealplanner/internal/core"
)

func TestRecipeService_ImportCreatesAndReusesIngredients(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	cat := "Dairy"
	first := f.importRecipe(t, "Gratin", 4,
		line("potatoes", "1", "kg"),
		core.RecipeImportLine{Ingredient: "cream", Category: &cat, Quantity: d("20"), Unit: "cl"})
	second := f.importRecipe(t, "Mash", 2, line("potatoes", "500", "g"))

	if first.Lines[0].IngredientID != second.Lines[0].IngredientID {
		t.Error("potatoes imported twice")
	}
	if !first.Lines[0].QuantityNormalized.Equal(d("1000")) || !first.Lines[1].QuantityNormalized.Equal(d("200")) {
		t.Errorf("normalized = %s, %s", first.Lines[0].QuantityNormalized, first.Lines[1].QuantityNormalized)
	}

	ingredients, err := f.recipes.ListIngredients(f.ctx)
	if err != nil {
		t.Fatalf("ListIngredients: %v", err)
	}
	if len(ingredients) != 2 || ingredients[0].Name != "cream" || ingredients[0].Category == nil || *ingredients[0].Category != "Dairy" {
		t.Errorf("ingredients = %+v", ingredients)
	}

	got, err := f.recipes.Get(f.ctx, first.ID)
	if err != nil || got.Name != "Gratin" || len(got.Lines) != 2 {
		t.Errorf("Get = %+v, %v", got, err)
	}
	found, err := f.recipes.List(f.ctx, core.RecipeFilter{NameContains: "MAS"})
	if err != nil || len(found) != 1 || found[0].ID != second.ID {
		t.Errorf("List = %+v, %v", found, err)
	}
}

func TestRecipeService_ImportValidation(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	_, err := f.recipes.Import(f.ctx, core.RecipeImport{Name: "Zero", BaseServings: 0, Lines: []core.RecipeImportLine{line("x", "1", "g")}})
	if !errors.Is(err, core.ErrInvalidServings) {
		t.Errorf("zero servings = %v, want ErrInvalidServings", err)
	}

	_, err = f.recipes.Import(f.ctx, core.RecipeImport{Name: "Typo", BaseServings: 2, Lines: []core.RecipeImportLine{
		line("sugar", "100", "g"),
		line("vanilla", "1", "pod"),
	}})
	if !errors.Is(err, core.ErrUnknownUnit) {
		t.Errorf("unknown unit = %v, want ErrUnknownUnit", err)
	}
	if ingredients, _ := f.recipes.ListIngredients(f.ctx); len(ingredients) != 0 {
		t.Errorf("failed import created ingredients: %+v", ingredients)
	}

	if _, err := f.recipes.Import(f.ctx, core.RecipeImport{Name: "Empty", BaseServings: 1}); err == nil {
		t.Error("recipe without lines accepted")
	}
	if _, err := f.recipes.Get(f.ctx, 404); !errors.Is(err, core.ErrNotFound) {
		t.Errorf("Get(404) = %v, want ErrNotFound", err)
	}
}
