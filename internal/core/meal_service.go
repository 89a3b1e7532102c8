package core

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"mealplanner/internal/logger"
	"mealplanner/internal/metrics"
)

// Preparation triggers, used as the metrics label.
const (
	TriggerManual    = "manual"
	TriggerBackdated = "backdated"
	TriggerSweep     = "sweep"
)

// errPreparationRaced rolls back a transition whose compare-and-set lost.
var errPreparationRaced = errors.New("meal already prepared by a concurrent caller")

// MealService drives the planned → prepared lifecycle and keeps stock consistent with it.
type MealService interface {
	AddMeal(ctx context.Context, in AddMealInput) (*PlannedMeal, error)
	GetMeal(ctx context.Context, id int64) (*PlannedMeal, error)
	ListMeals(ctx context.Context, from, to time.Time) ([]PlannedMeal, error)

	// MarkPrepared transitions Planned → Prepared, deducting the scaled recipe
	// from stock. Calling it on a Prepared meal does nothing.
	MarkPrepared(ctx context.Context, id int64) (*PlannedMeal, error)
	// UpdateServings changes servings. On a Prepared meal the stock difference is reconciled.
	UpdateServings(ctx context.Context, id int64, servings int) (*PlannedMeal, error)
	// RemoveMeal deletes a meal, restoring the stock a Prepared meal consumed.
	RemoveMeal(ctx context.Context, id int64) error
	// AutoMarkPastMeals prepares every unprepared meal dated before today.
	AutoMarkPastMeals(ctx context.Context) (SweepResult, error)
}

type mealService struct {
	store   Store
	stock   StockLedger
	clock   Clock
	log     *logrus.Logger
	metrics *metrics.Metrics
}

// NewMealService constructs a MealService. clock defines "today"; pass a clock
// that returns times in the household's time zone.
func NewMealService(store Store, stock StockLedger, clock Clock, log *logrus.Logger, m *metrics.Metrics) MealService {
	if clock == nil {
		clock = time.Now
	}
	return &mealService{store: store, stock: stock, clock: clock, log: logger.OrDiscard(log), metrics: m}
}

func (s *mealService) today() time.Time {
	return DateOf(s.clock())
}

func (s *mealService) AddMeal(ctx context.Context, in AddMealInput) (*PlannedMeal, error) {
	if in.Servings <= 0 {
		return nil, fmt.Errorf("servings %d: %w", in.Servings, ErrInvalidServings)
	}
	if _, err := ParseMealType(string(in.MealType)); err != nil {
		return nil, err
	}
	if in.RecipeID != nil {
		if _, err := s.store.GetRecipe(ctx, *in.RecipeID); err != nil {
			return nil, fmt.Errorf("failed to load recipe %d: %w", *in.RecipeID, err)
		}
	}

	day := DateOf(in.Date)
	id, err := s.store.InsertMeal(ctx, PlannedMeal{
		Date:      day,
		MealType:  in.MealType,
		RecipeID:  in.RecipeID,
		Servings:  in.Servings,
		CreatedAt: s.clock(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to insert meal: %w", err)
	}

	if day.Before(s.today()) {
		// Scheduled in the past: assumed already eaten.
		if _, err := s.markPrepared(ctx, id, TriggerBackdated); err != nil {
			return nil, err
		}
	}
	return s.GetMeal(ctx, id)
}

func (s *mealService) GetMeal(ctx context.Context, id int64) (*PlannedMeal, error) {
	meal, err := s.store.GetMeal(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get meal %d: %w", id, err)
	}
	return meal, nil
}

func (s *mealService) ListMeals(ctx context.Context, from, to time.Time) ([]PlannedMeal, error) {
	meals, err := s.store.GetMealsInRange(ctx, DateOf(from), DateOf(to))
	if err != nil {
		return nil, fmt.Errorf("failed to list meals: %w", err)
	}
	return meals, nil
}

func (s *mealService) MarkPrepared(ctx context.Context, id int64) (*PlannedMeal, error) {
	if _, err := s.markPrepared(ctx, id, TriggerManual); err != nil {
		return nil, err
	}
	return s.GetMeal(ctx, id)
}

// markPrepared reports whether this call performed the transition.
func (s *mealService) markPrepared(ctx context.Context, id int64, trigger string) (bool, error) {
	log := s.log.WithFields(logrus.Fields{"meal_id": id, "trigger": trigger})
	performed := false

	err := s.store.RunInTx(ctx, func(q Queries) error {
		meal, err := q.GetMeal(ctx, id)
		if err != nil {
			return fmt.Errorf("failed to lock meal %d: %w", id, err)
		}
		if meal.IsPrepared {
			return nil
		}

		deltas, err := s.mealDeltas(ctx, q, meal, meal.Servings, MovementPrepare, true)
		if err != nil {
			return err
		}
		if err := s.applyAll(ctx, q, deltas); err != nil {
			return err
		}

		// State flips last, and only if still unprepared.
		flipped, err := q.MarkMealPrepared(ctx, id, s.clock())
		if err != nil {
			return fmt.Errorf("failed to mark meal %d prepared: %w", id, err)
		}
		if !flipped {
			return errPreparationRaced
		}
		performed = true
		return nil
	})
	if errors.Is(err, errPreparationRaced) {
		log.Debug("meal prepared concurrently; nothing to do")
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if performed {
		s.metrics.MealPrepared(trigger)
		log.Info("meal prepared")
	}
	return performed, nil
}

func (s *mealService) UpdateServings(ctx context.Context, id int64, servings int) (*PlannedMeal, error) {
	if servings <= 0 {
		return nil, fmt.Errorf("servings %d: %w", servings, ErrInvalidServings)
	}

	err := s.store.RunInTx(ctx, func(q Queries) error {
		meal, err := q.GetMeal(ctx, id)
		if err != nil {
			return fmt.Errorf("failed to lock meal %d: %w", id, err)
		}
		if meal.Servings == servings {
			return nil
		}

		if meal.IsPrepared {
			recipe, err := s.loadRecipe(ctx, q, meal)
			if err != nil {
				return err
			}
			if recipe != nil {
				deltas, err := servingsDeltas(meal, recipe, servings)
				if err != nil {
					return err
				}
				if err := s.applyAll(ctx, q, deltas); err != nil {
					return err
				}
			}
		}

		if err := q.UpdateMealServings(ctx, id, servings); err != nil {
			return fmt.Errorf("failed to update servings for meal %d: %w", id, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.GetMeal(ctx, id)
}

// servingsDeltas returns, per line, lineNormalized × (old − new) / base: a
// positive value restores stock, a negative one consumes more.
func servingsDeltas(meal *PlannedMeal, recipe *Recipe, newServings int) ([]StockDelta, error) {
	if recipe.BaseServings <= 0 {
		return nil, fmt.Errorf("recipe %d base servings %d: %w", recipe.ID, recipe.BaseServings, ErrInvalidServings)
	}
	diff := decimal.NewFromInt(int64(meal.Servings - newServings))
	base := decimal.NewFromInt(int64(recipe.BaseServings))
	mealID := meal.ID

	deltas := make([]StockDelta, 0, len(recipe.Lines))
	for _, l := range recipe.Lines {
		deltas = append(deltas, StockDelta{
			IngredientID: l.IngredientID,
			Normalized:   l.Normalized().Mul(diff).Div(base),
			Unit:         l.Unit,
			Reason:       MovementServingsAdjust,
			MealID:       &mealID,
		})
	}
	return deltas, nil
}

func (s *mealService) RemoveMeal(ctx context.Context, id int64) error {
	return s.store.RunInTx(ctx, func(q Queries) error {
		meal, err := q.GetMeal(ctx, id)
		if err != nil {
			return fmt.Errorf("failed to lock meal %d: %w", id, err)
		}
		if meal.IsPrepared {
			deltas, err := s.mealDeltas(ctx, q, meal, meal.Servings, MovementMealRemoved, false)
			if err != nil {
				return err
			}
			if err := s.applyAll(ctx, q, deltas); err != nil {
				return err
			}
		}
		if err := q.DeleteMeal(ctx, id); err != nil {
			return fmt.Errorf("failed to delete meal %d: %w", id, err)
		}
		s.log.WithFields(logrus.Fields{"meal_id": id, "was_prepared": meal.IsPrepared}).Info("meal removed")
		return nil
	})
}

func (s *mealService) AutoMarkPastMeals(ctx context.Context) (SweepResult, error) {
	today := s.today()
	meals, err := s.store.ListUnpreparedBefore(ctx, today)
	if err != nil {
		return SweepResult{}, fmt.Errorf("failed to list past meals: %w", err)
	}

	result := SweepResult{Total: len(meals)}
	for _, meal := range meals {
		if _, err := s.markPrepared(ctx, meal.ID, TriggerSweep); err != nil {
			s.metrics.SweepFailure()
			s.log.WithField("meal_id", meal.ID).WithError(err).Warn("sweep could not prepare meal")
			result.Failures = append(result.Failures, SweepFailure{MealID: meal.ID, Error: err.Error()})
			continue
		}
		result.Processed++
	}

	s.log.WithField("today", today.Format("2006-01-02")).Info(result.Summary())
	return result, nil
}

// ── helpers ──────────────────────────────────────────────────────────────────

// loadRecipe returns nil when the meal has no recipe or its recipe is gone.
func (s *mealService) loadRecipe(ctx context.Context, q Queries, meal *PlannedMeal) (*Recipe, error) {
	if meal.RecipeID == nil {
		return nil, nil
	}
	recipe, err := q.GetRecipe(ctx, *meal.RecipeID)
	if errors.Is(err, ErrNotFound) {
		s.log.WithFields(logrus.Fields{"meal_id": meal.ID, "recipe_id": *meal.RecipeID}).
			Warn(ErrMissingRecipeReference.Error())
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load recipe %d: %w", *meal.RecipeID, err)
	}
	return recipe, nil
}

// mealDeltas scales the meal's recipe to servings. consume negates the deltas.
func (s *mealService) mealDeltas(ctx context.Context, q Queries, meal *PlannedMeal, servings int, reason MovementReason, consume bool) ([]StockDelta, error) {
	recipe, err := s.loadRecipe(ctx, q, meal)
	if err != nil || recipe == nil {
		return nil, err
	}
	scaled, err := Scale(recipe.Lines, recipe.BaseServings, servings)
	if err != nil {
		return nil, fmt.Errorf("meal %d: %w", meal.ID, err)
	}

	mealID := meal.ID
	deltas := make([]StockDelta, 0, len(scaled))
	for _, l := range scaled {
		amount := l.QuantityNormalized
		if consume {
			amount = amount.Neg()
		}
		deltas = append(deltas, StockDelta{
			IngredientID: l.IngredientID,
			Normalized:   amount,
			Unit:         l.Unit,
			Reason:       reason,
			MealID:       &mealID,
		})
	}
	return deltas, nil
}

// applyAll applies deltas in ingredient order so concurrent transitions lock
// stock rows in the same sequence.
func (s *mealService) applyAll(ctx context.Context, q Queries, deltas []StockDelta) error {
	sort.SliceStable(deltas, func(i, j int) bool { return deltas[i].IngredientID < deltas[j].IngredientID })
	for _, d := range deltas {
		if _, err := s.stock.ApplyDeltaTx(ctx, q, d); err != nil {
			return err
		}
	}
	return nil
}
