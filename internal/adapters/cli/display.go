package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/shopspring/decimal"

	"mealplanner/internal/app"
	"mealplanner/internal/core"
)

const width = 64

func rule(w io.Writer, ch string) { fmt.Fprintln(w, strings.Repeat(ch, width)) }

func header(w io.Writer, title string) {
	fmt.Fprintln(w)
	rule(w, "=")
	fmt.Fprintf(w, "  %s\n", title)
	rule(w, "=")
}

// describe renders "200 g de farine", "3 eggs" or "1 l d'huile".
func describe(q decimal.Decimal, u core.Unit, name string) string {
	qty := q.Round(2).String()
	if u.Family == core.FamilyCount && u.ConversionRatio.Equal(decimal.NewFromInt(1)) {
		return qty + " " + name
	}
	if !u.NeedsArticle {
		return qty + " " + u.Code + " " + name
	}
	if name != "" && strings.ContainsRune("aeiouyhAEIOUYH", []rune(name)[0]) {
		return qty + " " + u.Code + " d'" + name
	}
	return qty + " " + u.Code + " de " + name
}

func printSweep(w io.Writer, res *app.SweepResult) {
	fmt.Fprintln(w, res.Message)
	for _, f := range res.Failures {
		fmt.Fprintf(w, "  meal %d: %s\n", f.MealID, f.Error)
	}
}

func printMeals(w io.Writer, res *app.MealListResult) {
	header(w, fmt.Sprintf("MEALS %s .. %s", res.From, res.To))
	if len(res.Meals) == 0 {
		fmt.Fprintln(w, "  No meals planned.")
		rule(w, "=")
		return
	}
	fmt.Fprintf(w, "  %-6s %-10s %-10s %-8s %8s  %s\n", "ID", "DATE", "TYPE", "RECIPE", "SERVINGS", "STATUS")
	rule(w, "-")
	for _, m := range res.Meals {
		recipe := "-"
		if m.RecipeID != nil {
			recipe = fmt.Sprint(*m.RecipeID)
		}
		status := "planned"
		if m.IsPrepared {
			status = "prepared"
		}
		fmt.Fprintf(w, "  %-6d %-10s %-10s %-8s %8d  %s\n", m.ID, m.Date.Format("2006-01-02"), m.MealType, recipe, m.Servings, status)
	}
	rule(w, "=")
}

func printStock(w io.Writer, res *app.StockResult) {
	header(w, "PANTRY")
	if len(res.Entries) == 0 {
		fmt.Fprintln(w, "  Nothing in stock.")
		rule(w, "=")
		return
	}
	fmt.Fprintf(w, "  %-6s %-24s %14s  %s\n", "ID", "INGREDIENT", "QUANTITY", "EXPIRES")
	rule(w, "-")
	for _, e := range res.Entries {
		expires := ""
		if e.Entry.ExpiryDate != nil {
			expires = e.Entry.ExpiryDate.Format("2006-01-02")
		}
		qty := e.Display.Quantity.Round(2).String() + " " + e.Display.Unit.Code
		fmt.Fprintf(w, "  %-6d %-24s %14s  %s\n", e.Entry.IngredientID, e.Entry.IngredientName, qty, expires)
	}
	rule(w, "=")
}

func printMovements(w io.Writer, res *app.MovementListResult) {
	header(w, "STOCK HISTORY: "+res.Ingredient)
	fmt.Fprintf(w, "  %-16s %-16s %14s  %s\n", "WHEN", "REASON", "DELTA", "MEAL")
	rule(w, "-")
	for _, m := range res.Movements {
		meal := ""
		if m.MealID != nil {
			meal = fmt.Sprint(*m.MealID)
		}
		delta := m.Delta.String() + " " + string(m.BaseUnit)
		fmt.Fprintf(w, "  %-16s %-16s %14s  %s\n", m.CreatedAt.Format("2006-01-02 15:04"), m.Reason, delta, meal)
	}
	rule(w, "=")
}

func printShoppingList(w io.Writer, res *app.ShoppingListResult) {
	list := res.List
	title := "SHOPPING LIST, week of " + list.WeekStart.Format("2006-01-02")
	if list.CompletedAt != nil {
		title += " (completed)"
	}
	header(w, title)
	if len(list.Items) == 0 {
		fmt.Fprintln(w, "  Nothing to buy.")
		rule(w, "=")
		return
	}
	category := ""
	for i, it := range list.Items {
		c := "Other"
		if it.Category != nil {
			c = *it.Category
		}
		if i == 0 || c != category {
			category = c
			fmt.Fprintf(w, "  %s\n", strings.ToUpper(category))
		}
		box := "[ ]"
		if it.Checked {
			box = "[x]"
		}
		fmt.Fprintf(w, "    %s %-5d %-36s %s\n", box, it.ID, describe(it.QuantityNeeded, it.Unit, it.IngredientName), it.Sources)
	}
	rule(w, "=")
}

func printUnits(w io.Writer, res *app.UnitListResult) {
	header(w, "UNITS")
	fmt.Fprintf(w, "  %-10s %-8s %12s %-6s  %s\n", "CODE", "FAMILY", "RATIO", "BASE", "SHOWN")
	rule(w, "-")
	for _, u := range res.Units {
		shown := "no"
		if u.IsDisplayable {
			shown = "yes"
		}
		fmt.Fprintf(w, "  %-10s %-8s %12s %-6s  %s\n", u.Code, u.Family, u.ConversionRatio.String(), u.BaseUnit, shown)
	}
	rule(w, "=")
}

func printRecipes(w io.Writer, res *app.RecipeListResult) {
	header(w, "RECIPES")
	if len(res.Recipes) == 0 {
		fmt.Fprintln(w, "  No recipes found.")
		rule(w, "=")
		return
	}
	fmt.Fprintf(w, "  %-6s %-40s %8s\n", "ID", "NAME", "SERVINGS")
	rule(w, "-")
	for _, r := range res.Recipes {
		fmt.Fprintf(w, "  %-6d %-40s %8d\n", r.ID, r.Name, r.BaseServings)
	}
	rule(w, "=")
}

func printRecipe(w io.Writer, r *core.Recipe) {
	header(w, fmt.Sprintf("%s (serves %d)", strings.ToUpper(r.Name), r.BaseServings))
	for _, l := range r.Lines {
		fmt.Fprintf(w, "  - %s\n", describe(l.Quantity, l.Unit, l.IngredientName))
	}
	rule(w, "=")
}
