package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"mealplanner/internal/app"
)

func newMealsCommand(svc app.ApplicationService) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "meals",
		Short: "Plan and prepare meals",
	}

	var from, to string
	list := &cobra.Command{
		Use:   "list",
		Short: "List planned meals (default: this week)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := svc.ListMeals(cmd.Context(), from, to)
			if err != nil {
				return err
			}
			printMeals(cmd.OutOrStdout(), res)
			return nil
		},
	}
	list.Flags().StringVar(&from, "from", "", "First day, YYYY-MM-DD")
	list.Flags().StringVar(&to, "to", "", "Last day, YYYY-MM-DD")

	var (
		date     string
		mealType string
		recipeID int64
		servings int
	)
	add := &cobra.Command{
		Use:   "add",
		Short: "Schedule a meal; a past date is prepared immediately",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			req := app.AddMealRequest{Date: date, MealType: mealType, Servings: servings}
			if recipeID > 0 {
				req.RecipeID = &recipeID
			}
			res, err := svc.AddMeal(cmd.Context(), req)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added meal %d\n", res.Meal.ID)
			return nil
		},
	}
	add.Flags().StringVar(&date, "date", "", "Day, YYYY-MM-DD (default today)")
	add.Flags().StringVar(&mealType, "type", "dinner", "breakfast, lunch, dinner or snack")
	add.Flags().Int64Var(&recipeID, "recipe", 0, "Recipe ID")
	add.Flags().IntVar(&servings, "servings", 2, "Number of servings")

	prepare := &cobra.Command{
		Use:   "prepare <id>",
		Short: "Mark a meal prepared and deduct its ingredients",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			res, err := svc.MarkPrepared(cmd.Context(), id)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Meal %d prepared\n", res.Meal.ID)
			return nil
		},
	}

	servingsCmd := &cobra.Command{
		Use:   "servings <id> <n>",
		Short: "Change a meal's servings",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			n, err := parseID(args[1])
			if err != nil {
				return fmt.Errorf("servings must be a positive integer, got %q", args[1])
			}
			res, err := svc.UpdateServings(cmd.Context(), id, int(n))
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Meal %d now serves %d\n", res.Meal.ID, res.Meal.Servings)
			return nil
		},
	}

	rm := &cobra.Command{
		Use:   "rm <id>",
		Short: "Remove a meal, restoring stock it consumed",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			if err := svc.RemoveMeal(cmd.Context(), id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed meal %d\n", id)
			return nil
		},
	}

	cmd.AddCommand(list, add, prepare, servingsCmd, rm)
	return cmd
}
