package core

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"mealplanner/internal/logger"
	"mealplanner/internal/metrics"
)

// ShoppingListService builds, persists and completes weekly shopping lists.
type ShoppingListService interface {
	// Generate rebuilds the list for the week containing day, replacing any
	// list already stored for that week.
	Generate(ctx context.Context, day time.Time) (*ShoppingList, error)
	Get(ctx context.Context, day time.Time) (*ShoppingList, error)
	SetItemChecked(ctx context.Context, itemID int64, checked bool) error
	// Complete adds every checked item to stock and stamps the list. A list
	// that is already complete is returned unchanged.
	Complete(ctx context.Context, day time.Time) (*ShoppingList, error)
}

type shoppingListService struct {
	store   Store
	stock   StockLedger
	clock   Clock
	log     *logrus.Logger
	metrics *metrics.Metrics
}

func NewShoppingListService(store Store, stock StockLedger, clock Clock, log *logrus.Logger, m *metrics.Metrics) ShoppingListService {
	if clock == nil {
		clock = time.Now
	}
	return &shoppingListService{store: store, stock: stock, clock: clock, log: logger.OrDiscard(log), metrics: m}
}

func (s *shoppingListService) Generate(ctx context.Context, day time.Time) (*ShoppingList, error) {
	weekStart := WeekStart(day)
	log := s.log.WithField("week_start", weekStart.Format("2006-01-02"))

	meals, err := s.store.GetMealsInRange(ctx, weekStart, WeekEnd(weekStart))
	if err != nil {
		return nil, fmt.Errorf("failed to load meals: %w", err)
	}

	// Prepared meals have already been deducted from stock.
	var pending []PlannedMeal
	seen := make(map[int64]bool)
	var recipeIDs []int64
	for _, m := range meals {
		if m.IsPrepared {
			continue
		}
		pending = append(pending, m)
		if m.RecipeID != nil && !seen[*m.RecipeID] {
			seen[*m.RecipeID] = true
			recipeIDs = append(recipeIDs, *m.RecipeID)
		}
	}

	recipesByID := make(map[int64]Recipe, len(recipeIDs))
	if len(recipeIDs) > 0 {
		recipes, err := s.store.ListRecipes(ctx, RecipeFilter{IDs: recipeIDs})
		if err != nil {
			return nil, fmt.Errorf("failed to load recipes: %w", err)
		}
		for _, r := range recipes {
			recipesByID[r.ID] = r
		}
	}

	stock, err := s.store.GetStock(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load stock: %w", err)
	}
	ingredients, err := s.store.ListIngredients(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load ingredients: %w", err)
	}

	demand := AggregateDemand(pending, recipesByID)
	for _, skipped := range demand.Skipped {
		log.WithField("meal_id", skipped.MealID).WithError(skipped.Err).Warn("meal left out of shopping list")
	}
	items := BuildShoppingList(demand, stock, ingredients)

	err = s.store.RunInTx(ctx, func(q Queries) error {
		_, err := q.ReplaceShoppingList(ctx, weekStart, items)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to store shopping list: %w", err)
	}
	s.metrics.ShoppingListGenerated()
	log.WithFields(logrus.Fields{"meals": len(pending), "items": len(items)}).Info("shopping list generated")

	return s.Get(ctx, weekStart)
}

func (s *shoppingListService) Get(ctx context.Context, day time.Time) (*ShoppingList, error) {
	list, err := s.store.GetShoppingList(ctx, WeekStart(day))
	if err != nil {
		return nil, fmt.Errorf("failed to get shopping list for week of %s: %w", WeekStart(day).Format("2006-01-02"), err)
	}
	return list, nil
}

func (s *shoppingListService) SetItemChecked(ctx context.Context, itemID int64, checked bool) error {
	if err := s.store.SetShoppingItemChecked(ctx, itemID, checked); err != nil {
		return fmt.Errorf("failed to update shopping item %d: %w", itemID, err)
	}
	return nil
}

func (s *shoppingListService) Complete(ctx context.Context, day time.Time) (*ShoppingList, error) {
	weekStart := WeekStart(day)
	restocked := 0

	err := s.store.RunInTx(ctx, func(q Queries) error {
		list, err := q.GetShoppingList(ctx, weekStart)
		if err != nil {
			return fmt.Errorf("failed to get shopping list for week of %s: %w", weekStart.Format("2006-01-02"), err)
		}
		// Stamp first: a concurrent or repeated completion sees the stamp and stops.
		flipped, err := q.MarkShoppingListCompleted(ctx, list.ID, s.clock())
		if err != nil {
			return fmt.Errorf("failed to complete shopping list %d: %w", list.ID, err)
		}
		if !flipped {
			return nil
		}

		for _, item := range list.Items {
			if !item.Checked {
				continue
			}
			if _, err := s.stock.ApplyDeltaTx(ctx, q, StockDelta{
				IngredientID: item.IngredientID,
				Normalized:   Normalize(item.QuantityNeeded, item.Unit),
				Unit:         item.Unit,
				Reason:       MovementShopping,
			}); err != nil {
				return err
			}
			restocked++
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{"week_start": weekStart.Format("2006-01-02"), "restocked": restocked}).Info("shopping list completed")
	return s.Get(ctx, weekStart)
}
