package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"mealplanner/internal/app"
	"mealplanner/internal/core"
)

func newUnitsCommand(svc app.ApplicationService) *cobra.Command {
	var reload bool
	cmd := &cobra.Command{
		Use:   "units",
		Short: "List the unit catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			load := svc.ListUnits
			if reload {
				load = svc.ReloadUnits
			}
			res, err := load(cmd.Context())
			if err != nil {
				return err
			}
			printUnits(cmd.OutOrStdout(), res)
			return nil
		},
	}
	cmd.Flags().BoolVar(&reload, "reload", false, "Re-read the catalog from its source first")
	return cmd
}

func newRecipesCommand(svc app.ApplicationService) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "recipes",
		Short: "Manage recipes",
	}

	var search string
	list := &cobra.Command{
		Use:   "list",
		Short: "List recipes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := svc.ListRecipes(cmd.Context(), search)
			if err != nil {
				return err
			}
			printRecipes(cmd.OutOrStdout(), res)
			return nil
		},
	}
	list.Flags().StringVar(&search, "search", "", "Name filter")

	show := &cobra.Command{
		Use:   "show <id>",
		Short: "Show a recipe",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			res, err := svc.GetRecipe(cmd.Context(), id)
			if err != nil {
				return err
			}
			printRecipe(cmd.OutOrStdout(), res.Recipe)
			return nil
		},
	}

	importCmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Import a recipe from a YAML or JSON file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in, err := readRecipeFile(args[0])
			if err != nil {
				return err
			}
			res, err := svc.ImportRecipe(cmd.Context(), in)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Imported recipe %d (%s)\n", res.Recipe.ID, res.Recipe.Name)
			return nil
		},
	}

	cmd.AddCommand(list, show, importCmd)
	return cmd
}

func readRecipeFile(path string) (core.RecipeImport, error) {
	var in core.RecipeImport
	data, err := os.ReadFile(path)
	if err != nil {
		return in, fmt.Errorf("failed to read recipe file: %w", err)
	}
	if strings.EqualFold(filepath.Ext(path), ".json") {
		err = json.Unmarshal(data, &in)
	} else {
		err = yaml.Unmarshal(data, &in)
	}
	if err != nil {
		return in, fmt.Errorf("failed to parse recipe file %s: %w", path, err)
	}
	return in, nil
}
