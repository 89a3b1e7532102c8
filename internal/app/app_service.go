package app

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"mealplanner/internal/core"
	"mealplanner/internal/logger"
)

type appService struct {
	store    core.Store
	catalog  *core.UnitCatalog
	recipes  core.RecipeService
	stock    core.StockLedger
	meals    core.MealService
	shopping core.ShoppingListService
	clock    core.Clock
	log      *logrus.Logger
}

// NewAppService constructs an appService that satisfies ApplicationService.
func NewAppService(
	store core.Store,
	catalog *core.UnitCatalog,
	recipes core.RecipeService,
	stock core.StockLedger,
	meals core.MealService,
	shopping core.ShoppingListService,
	clock core.Clock,
	log *logrus.Logger,
) ApplicationService {
	if clock == nil {
		clock = time.Now
	}
	return &appService{
		store:    store,
		catalog:  catalog,
		recipes:  recipes,
		stock:    stock,
		meals:    meals,
		shopping: shopping,
		clock:    clock,
		log:      logger.OrDiscard(log),
	}
}

// parseDay reads a YYYY-MM-DD date; empty means today.
func (s *appService) parseDay(value string) (time.Time, error) {
	if strings.TrimSpace(value) == "" {
		return core.DateOf(s.clock()), nil
	}
	d, err := core.ParseDate(strings.TrimSpace(value))
	if err != nil {
		return time.Time{}, fmt.Errorf("date %q must be YYYY-MM-DD: %w", value, core.ErrInvalidInput)
	}
	return d, nil
}

// resolveIngredient accepts a numeric ID or an ingredient name.
func (s *appService) resolveIngredient(ctx context.Context, ref string) (*core.Ingredient, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return nil, fmt.Errorf("ingredient is required: %w", core.ErrInvalidInput)
	}
	if id, err := strconv.ParseInt(ref, 10, 64); err == nil {
		ingredients, err := s.recipes.ListIngredients(ctx)
		if err != nil {
			return nil, err
		}
		for _, in := range ingredients {
			if in.ID == id {
				found := in
				return &found, nil
			}
		}
		return nil, fmt.Errorf("ingredient %d: %w", id, core.ErrNotFound)
	}
	in, err := s.store.FindIngredientByName(ctx, ref)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve ingredient %q: %w", ref, err)
	}
	return in, nil
}

func (s *appService) display(e core.StockEntry) StockEntryResult {
	res := StockEntryResult{Entry: e, Display: core.DisplayQuantity{Quantity: e.Quantity, Unit: e.Unit}}
	if dq, ok := core.BestDisplayUnit(e.QuantityNormalized, e.Unit.BaseUnit, s.catalog.DisplayableUnits()); ok {
		res.Display = dq
	}
	return res
}

// ── Units ────────────────────────────────────────────────────────────────────

func (s *appService) ListUnits(_ context.Context) (*UnitListResult, error) {
	return &UnitListResult{Units: s.catalog.ListUnits()}, nil
}

func (s *appService) ReloadUnits(ctx context.Context) (*UnitListResult, error) {
	if err := s.catalog.Reload(ctx); err != nil {
		return nil, err
	}
	s.log.WithField("units", len(s.catalog.ListUnits())).Info("unit catalog reloaded")
	return s.ListUnits(ctx)
}

// ── Recipes ──────────────────────────────────────────────────────────────────

func (s *appService) ImportRecipe(ctx context.Context, req core.RecipeImport) (*RecipeResult, error) {
	r, err := s.recipes.Import(ctx, req)
	if err != nil {
		return nil, err
	}
	return &RecipeResult{Recipe: r}, nil
}

func (s *appService) GetRecipe(ctx context.Context, id int64) (*RecipeResult, error) {
	r, err := s.recipes.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return &RecipeResult{Recipe: r}, nil
}

func (s *appService) ListRecipes(ctx context.Context, search string) (*RecipeListResult, error) {
	recipes, err := s.recipes.List(ctx, core.RecipeFilter{NameContains: strings.TrimSpace(search)})
	if err != nil {
		return nil, err
	}
	return &RecipeListResult{Recipes: recipes}, nil
}

func (s *appService) ListIngredients(ctx context.Context) (*IngredientListResult, error) {
	ingredients, err := s.recipes.ListIngredients(ctx)
	if err != nil {
		return nil, err
	}
	return &IngredientListResult{Ingredients: ingredients}, nil
}

// ── Meals ────────────────────────────────────────────────────────────────────

func (s *appService) ListMeals(ctx context.Context, from, to string) (*MealListResult, error) {
	start, err := s.parseDay(from)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(from) == "" {
		start = core.WeekStart(start)
	}
	end := core.WeekEnd(core.WeekStart(start))
	if strings.TrimSpace(to) != "" {
		if end, err = s.parseDay(to); err != nil {
			return nil, err
		}
	}
	if end.Before(start) {
		return nil, fmt.Errorf("range %s..%s is reversed: %w", start.Format("2006-01-02"), end.Format("2006-01-02"), core.ErrInvalidInput)
	}

	meals, err := s.meals.ListMeals(ctx, start, end)
	if err != nil {
		return nil, err
	}
	return &MealListResult{From: start.Format("2006-01-02"), To: end.Format("2006-01-02"), Meals: meals}, nil
}

func (s *appService) AddMeal(ctx context.Context, req AddMealRequest) (*MealResult, error) {
	date, err := s.parseDay(req.Date)
	if err != nil {
		return nil, err
	}
	mealType, err := core.ParseMealType(strings.ToLower(strings.TrimSpace(req.MealType)))
	if err != nil {
		return nil, err
	}
	m, err := s.meals.AddMeal(ctx, core.AddMealInput{Date: date, MealType: mealType, RecipeID: req.RecipeID, Servings: req.Servings})
	if err != nil {
		return nil, err
	}
	return &MealResult{Meal: m}, nil
}

func (s *appService) GetMeal(ctx context.Context, id int64) (*MealResult, error) {
	m, err := s.meals.GetMeal(ctx, id)
	if err != nil {
		return nil, err
	}
	return &MealResult{Meal: m}, nil
}

func (s *appService) MarkPrepared(ctx context.Context, id int64) (*MealResult, error) {
	m, err := s.meals.MarkPrepared(ctx, id)
	if err != nil {
		return nil, err
	}
	return &MealResult{Meal: m}, nil
}

func (s *appService) UpdateServings(ctx context.Context, id int64, servings int) (*MealResult, error) {
	m, err := s.meals.UpdateServings(ctx, id, servings)
	if err != nil {
		return nil, err
	}
	return &MealResult{Meal: m}, nil
}

func (s *appService) RemoveMeal(ctx context.Context, id int64) error {
	return s.meals.RemoveMeal(ctx, id)
}

func (s *appService) RunSweep(ctx context.Context) (*SweepResult, error) {
	res, err := s.meals.AutoMarkPastMeals(ctx)
	if err != nil {
		return nil, err
	}
	return &SweepResult{SweepResult: res, Message: res.Summary()}, nil
}

// ── Stock ────────────────────────────────────────────────────────────────────

func (s *appService) GetStock(ctx context.Context) (*StockResult, error) {
	entries, err := s.stock.List(ctx)
	if err != nil {
		return nil, err
	}
	out := &StockResult{Entries: make([]StockEntryResult, 0, len(entries))}
	for _, e := range entries {
		out.Entries = append(out.Entries, s.display(e))
	}
	return out, nil
}

func (s *appService) SetStock(ctx context.Context, req SetStockRequest) (*StockEntryResult, error) {
	name := strings.TrimSpace(req.Ingredient)
	if name == "" {
		return nil, fmt.Errorf("ingredient is required: %w", core.ErrInvalidInput)
	}
	var expiry *time.Time
	if strings.TrimSpace(req.ExpiryDate) != "" {
		d, err := s.parseDay(req.ExpiryDate)
		if err != nil {
			return nil, err
		}
		expiry = &d
	}

	ing, err := s.resolveIngredient(ctx, name)
	if _, numeric := strconv.ParseInt(name, 10, 64); errors.Is(err, core.ErrNotFound) && numeric != nil {
		ing, err = s.recipes.EnsureIngredient(ctx, name, nil, false)
	}
	if err != nil {
		return nil, err
	}

	e, err := s.stock.Upsert(ctx, core.UpsertStockInput{
		IngredientID: ing.ID,
		Quantity:     req.Quantity,
		UnitCode:     req.Unit,
		ExpiryDate:   expiry,
	})
	if err != nil {
		return nil, err
	}
	res := s.display(*e)
	return &res, nil
}

func (s *appService) AdjustStock(ctx context.Context, req AdjustStockRequest) (*StockEntryResult, error) {
	ing, err := s.resolveIngredient(ctx, req.Ingredient)
	if err != nil {
		return nil, err
	}
	var e *core.StockEntry
	if req.Quantity.IsNegative() {
		e, err = s.stock.Decrement(ctx, ing.ID, req.Quantity.Neg(), req.Unit)
	} else {
		e, err = s.stock.Increment(ctx, ing.ID, req.Quantity, req.Unit)
	}
	if err != nil {
		return nil, err
	}
	res := s.display(*e)
	return &res, nil
}

func (s *appService) RemoveStock(ctx context.Context, ingredient string) error {
	ing, err := s.resolveIngredient(ctx, ingredient)
	if err != nil {
		return err
	}
	return s.stock.Delete(ctx, ing.ID)
}

func (s *appService) StockMovements(ctx context.Context, ingredient string) (*MovementListResult, error) {
	ing, err := s.resolveIngredient(ctx, ingredient)
	if err != nil {
		return nil, err
	}
	movements, err := s.stock.Movements(ctx, ing.ID)
	if err != nil {
		return nil, err
	}
	return &MovementListResult{Ingredient: ing.Name, Movements: movements}, nil
}

// ── Shopping ─────────────────────────────────────────────────────────────────

func (s *appService) GenerateShoppingList(ctx context.Context, day string) (*ShoppingListResult, error) {
	d, err := s.parseDay(day)
	if err != nil {
		return nil, err
	}
	list, err := s.shopping.Generate(ctx, d)
	if err != nil {
		return nil, err
	}
	return &ShoppingListResult{List: list}, nil
}

func (s *appService) GetShoppingList(ctx context.Context, day string) (*ShoppingListResult, error) {
	d, err := s.parseDay(day)
	if err != nil {
		return nil, err
	}
	list, err := s.shopping.Get(ctx, d)
	if err != nil {
		return nil, err
	}
	return &ShoppingListResult{List: list}, nil
}

func (s *appService) CheckShoppingItem(ctx context.Context, itemID int64, checked bool) error {
	return s.shopping.SetItemChecked(ctx, itemID, checked)
}

func (s *appService) CompleteShoppingList(ctx context.Context, day string) (*ShoppingListResult, error) {
	d, err := s.parseDay(day)
	if err != nil {
		return nil, err
	}
	list, err := s.shopping.Complete(ctx, d)
	if err != nil {
		return nil, err
	}
	return &ShoppingListResult{List: list}, nil
}
