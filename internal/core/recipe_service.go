package core

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"mealplanner/internal/logger"
)

// RecipeService stores recipes and the ingredients they reference.
type RecipeService interface {
	// Import validates and stores a recipe, creating missing ingredients by exact name.
	Import(ctx context.Context, in RecipeImport) (*Recipe, error)
	Get(ctx context.Context, id int64) (*Recipe, error)
	List(ctx context.Context, filter RecipeFilter) ([]Recipe, error)

	// EnsureIngredient returns the ingredient named name, creating it if missing.
	EnsureIngredient(ctx context.Context, name string, category *string, isStaple bool) (*Ingredient, error)
	ListIngredients(ctx context.Context) ([]Ingredient, error)
}

type recipeService struct {
	store   Store
	catalog *UnitCatalog
	log     *logrus.Logger
}

func NewRecipeService(store Store, catalog *UnitCatalog, log *logrus.Logger) RecipeService {
	return &recipeService{store: store, catalog: catalog, log: logger.OrDiscard(log)}
}

func (s *recipeService) Import(ctx context.Context, in RecipeImport) (*Recipe, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, fmt.Errorf("recipe name is required: %w", ErrInvalidInput)
	}
	if in.BaseServings <= 0 {
		return nil, fmt.Errorf("base servings %d: %w", in.BaseServings, ErrInvalidServings)
	}
	if len(in.Lines) == 0 {
		return nil, fmt.Errorf("recipe %q has no ingredient lines: %w", name, ErrInvalidInput)
	}

	// Resolve units before touching the store so a typo creates nothing.
	units := make([]Unit, len(in.Lines))
	for i, l := range in.Lines {
		if strings.TrimSpace(l.Ingredient) == "" {
			return nil, fmt.Errorf("line %d: ingredient name is required: %w", i+1, ErrInvalidInput)
		}
		if !l.Quantity.IsPositive() {
			return nil, fmt.Errorf("line %d: quantity must be positive, got %s: %w", i+1, l.Quantity, ErrInvalidInput)
		}
		u, err := s.catalog.FindByCode(l.Unit)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", i+1, err)
		}
		units[i] = u
	}

	var created *Recipe
	err := s.store.RunInTx(ctx, func(q Queries) error {
		recipe := Recipe{Name: name, BaseServings: in.BaseServings}
		for i, l := range in.Lines {
			ing, err := ensureIngredient(ctx, q, l.Ingredient, l.Category, l.IsStaple)
			if err != nil {
				return err
			}
			recipe.Lines = append(recipe.Lines, NewRecipeLine(ing.ID, ing.Name, l.Quantity, units[i]))
		}
		var err error
		created, err = q.CreateRecipe(ctx, recipe)
		if err != nil {
			return fmt.Errorf("failed to create recipe %q: %w", name, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{"recipe_id": created.ID, "lines": len(created.Lines)}).Infof("imported recipe %q", created.Name)
	return created, nil
}

func (s *recipeService) Get(ctx context.Context, id int64) (*Recipe, error) {
	r, err := s.store.GetRecipe(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get recipe %d: %w", id, err)
	}
	return r, nil
}

func (s *recipeService) List(ctx context.Context, filter RecipeFilter) ([]Recipe, error) {
	recipes, err := s.store.ListRecipes(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list recipes: %w", err)
	}
	return recipes, nil
}

func (s *recipeService) EnsureIngredient(ctx context.Context, name string, category *string, isStaple bool) (*Ingredient, error) {
	var ing *Ingredient
	err := s.store.RunInTx(ctx, func(q Queries) error {
		var err error
		ing, err = ensureIngredient(ctx, q, name, category, isStaple)
		return err
	})
	return ing, err
}

func (s *recipeService) ListIngredients(ctx context.Context) ([]Ingredient, error) {
	ingredients, err := s.store.ListIngredients(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list ingredients: %w", err)
	}
	return ingredients, nil
}

func ensureIngredient(ctx context.Context, q Queries, name string, category *string, isStaple bool) (*Ingredient, error) {
	name = strings.TrimSpace(name)
	existing, err := q.FindIngredientByName(ctx, name)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, fmt.Errorf("failed to look up ingredient %q: %w", name, err)
	}
	ing, err := q.CreateIngredient(ctx, Ingredient{Name: name, Category: category, IsStaple: isStaple})
	if err != nil {
		return nil, fmt.Errorf("failed to create ingredient %q: %w", name, err)
	}
	return ing, nil
}
