// Package cli is the cobra command tree of the mealplan binary.
package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"mealplanner/internal/app"
)

// NewRootCommand builds the mealplan command tree over svc.
func NewRootCommand(svc app.ApplicationService) *cobra.Command {
	root := &cobra.Command{
		Use:           "mealplan",
		Short:         "mealplan keeps the pantry in step with the meal plan",
		Long:          "mealplan schedules meals, deducts what they consume from stock, and builds the weekly shopping list.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(
		newSweepCommand(svc),
		newMealsCommand(svc),
		newStockCommand(svc),
		newShoppingCommand(svc),
		newUnitsCommand(svc),
		newRecipesCommand(svc),
	)
	return root
}

func newSweepCommand(svc app.ApplicationService) *cobra.Command {
	return &cobra.Command{
		Use:   "sweep",
		Short: "Mark every past meal as prepared",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := svc.RunSweep(cmd.Context())
			if err != nil {
				return err
			}
			printSweep(cmd.OutOrStdout(), res)
			return nil
		},
	}
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", s)
	}
	return id, nil
}
