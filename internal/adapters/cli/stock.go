package cli

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"mealplanner/internal/app"
)

func newStockCommand(svc app.ApplicationService) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stock",
		Short: "Inspect and adjust the pantry",
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "Show the pantry",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := svc.GetStock(cmd.Context())
			if err != nil {
				return err
			}
			printStock(cmd.OutOrStdout(), res)
			return nil
		},
	}

	var expiry string
	set := &cobra.Command{
		Use:   "set <ingredient> <quantity> <unit>",
		Short: "Set an ingredient's stock",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			qty, err := decimal.NewFromString(args[1])
			if err != nil {
				return fmt.Errorf("invalid quantity %q", args[1])
			}
			res, err := svc.SetStock(cmd.Context(), app.SetStockRequest{Ingredient: args[0], Quantity: qty, Unit: args[2], ExpiryDate: expiry})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Stock: %s\n", describe(res.Display.Quantity, res.Display.Unit, res.Entry.IngredientName))
			return nil
		},
	}
	set.Flags().StringVar(&expiry, "expires", "", "Expiry date, YYYY-MM-DD")

	add := &cobra.Command{
		Use:   "add <ingredient> <quantity> <unit>",
		Short: "Add to (or, with a negative quantity, take from) an ingredient's stock",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			qty, err := decimal.NewFromString(args[1])
			if err != nil {
				return fmt.Errorf("invalid quantity %q", args[1])
			}
			res, err := svc.AdjustStock(cmd.Context(), app.AdjustStockRequest{Ingredient: args[0], Quantity: qty, Unit: args[2]})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Stock: %s\n", describe(res.Display.Quantity, res.Display.Unit, res.Entry.IngredientName))
			return nil
		},
	}

	rm := &cobra.Command{
		Use:   "rm <ingredient>",
		Short: "Stop tracking an ingredient",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := svc.RemoveStock(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed %s from stock\n", args[0])
			return nil
		},
	}

	history := &cobra.Command{
		Use:   "history <ingredient>",
		Short: "Show an ingredient's stock movements",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := svc.StockMovements(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			printMovements(cmd.OutOrStdout(), res)
			return nil
		},
	}

	cmd.AddCommand(list, set, add, rm, history)
	return cmd
}
