package core

import (
	"fmt"
	"time"
)

// MealType is the slot within a day.
type MealType string

const (
	MealBreakfast MealType = "breakfast"
	MealLunch     MealType = "lunch"
	MealDinner    MealType = "dinner"
	MealSnack     MealType = "snack"
)

// ParseMealType validates a meal slot name.
func ParseMealType(s string) (MealType, error) {
	switch mt := MealType(s); mt {
	case MealBreakfast, MealLunch, MealDinner, MealSnack:
		return mt, nil
	}
	return "", fmt.Errorf("unknown meal type %q: %w", s, ErrInvalidInput)
}

// PlannedMeal is a recipe scheduled on a day.
// Lifecycle:
//
//	Planned (is_prepared=false) → Prepared (is_prepared=true)
//
// Deleting a Prepared meal restores its stock; it is not a reverse transition.
type PlannedMeal struct {
	ID         int64      `json:"id"`
	Date       time.Time  `json:"date"` // calendar day, midnight UTC
	MealType   MealType   `json:"meal_type"`
	RecipeID   *int64     `json:"recipe_id,omitempty"`
	Servings   int        `json:"servings"`
	IsPrepared bool       `json:"is_prepared"`
	PreparedAt *time.Time `json:"prepared_at,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
}

// AddMealInput is the input for scheduling a meal.
type AddMealInput struct {
	Date     time.Time
	MealType MealType
	RecipeID *int64
	Servings int
}

// SweepResult reports the outcome of AutoMarkPastMeals.
type SweepResult struct {
	Total     int            `json:"total"`
	Processed int            `json:"processed"`
	Failures  []SweepFailure `json:"failures,omitempty"`
}

// SweepFailure is one meal the sweep could not prepare.
type SweepFailure struct {
	MealID int64  `json:"meal_id"`
	Error  string `json:"error"`
}

// Summary renders the "N of M meals processed" message.
func (r SweepResult) Summary() string {
	return fmt.Sprintf("%d of %d meals processed", r.Processed, r.Total)
}
