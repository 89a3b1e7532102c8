package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"mealplanner/internal/app"
)

func newShoppingCommand(svc app.ApplicationService) *cobra.Command {
	var week string
	cmd := &cobra.Command{
		Use:   "shopping",
		Short: "Build and work through the weekly shopping list",
	}
	cmd.PersistentFlags().StringVar(&week, "week", "", "Any day of the week, YYYY-MM-DD (default today)")

	generate := &cobra.Command{
		Use:   "generate",
		Short: "Rebuild the list from planned meals and stock",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := svc.GenerateShoppingList(cmd.Context(), week)
			if err != nil {
				return err
			}
			printShoppingList(cmd.OutOrStdout(), res)
			return nil
		},
	}

	show := &cobra.Command{
		Use:   "show",
		Short: "Show the stored list",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := svc.GetShoppingList(cmd.Context(), week)
			if err != nil {
				return err
			}
			printShoppingList(cmd.OutOrStdout(), res)
			return nil
		},
	}

	var uncheck bool
	check := &cobra.Command{
		Use:   "check <item-id>...",
		Short: "Tick items as bought",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, a := range args {
				id, err := parseID(a)
				if err != nil {
					return err
				}
				if err := svc.CheckShoppingItem(cmd.Context(), id, !uncheck); err != nil {
					return err
				}
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated %d item(s)\n", len(args))
			return nil
		},
	}
	check.Flags().BoolVar(&uncheck, "undo", false, "Untick instead")

	complete := &cobra.Command{
		Use:   "complete",
		Short: "Add ticked items to stock and close the list",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := svc.CompleteShoppingList(cmd.Context(), week)
			if err != nil {
				return err
			}
			printShoppingList(cmd.OutOrStdout(), res)
			return nil
		},
	}

	cmd.AddCommand(generate, show, check, complete)
	return cmd
}
