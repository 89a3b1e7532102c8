// Package memory is an in-process core.Store. Transactions run one at a time
// against a private copy of the state that replaces the live state on commit.
package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"mealplanner/internal/core"
)

type sequences struct {
	ingredient, recipe, meal, movement, list, item int64
}

type state struct {
	ids         sequences
	ingredients map[int64]core.Ingredient
	recipes     map[int64]core.Recipe
	meals       map[int64]core.PlannedMeal
	stock       map[int64]core.StockEntry
	movements   []core.StockMovement
	lists       map[string]core.ShoppingList // keyed by week start, YYYY-MM-DD
}

func newState() state {
	return state{
		ingredients: make(map[int64]core.Ingredient),
		recipes:     make(map[int64]core.Recipe),
		meals:       make(map[int64]core.PlannedMeal),
		stock:       make(map[int64]core.StockEntry),
		lists:       make(map[string]core.ShoppingList),
	}
}

func (s state) clone() state {
	cp := newState()
	cp.ids = s.ids
	for k, v := range s.ingredients {
		cp.ingredients[k] = v
	}
	for k, v := range s.recipes {
		v.Lines = append([]core.RecipeLine(nil), v.Lines...)
		cp.recipes[k] = v
	}
	for k, v := range s.meals {
		cp.meals[k] = v
	}
	for k, v := range s.stock {
		cp.stock[k] = v
	}
	cp.movements = append([]core.StockMovement(nil), s.movements...)
	for k, v := range s.lists {
		v.Items = append([]core.ShoppingListItem(nil), v.Items...)
		cp.lists[k] = v
	}
	return cp
}

// Store keeps everything in memory. The zero value is not usable; call New.
type Store struct {
	mu    sync.Mutex
	state state
	nowFn func() time.Time
}

var _ core.Store = (*Store)(nil)

func New() *Store {
	return &Store{state: newState(), nowFn: func() time.Time { return time.Now().UTC() }}
}

// RunInTx serializes fn with every other call on the store. Writes made
// through q become visible only if fn returns nil.
func (s *Store) RunInTx(ctx context.Context, fn func(q core.Queries) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := ctx.Err(); err != nil {
		return err
	}
	tx := &txn{state: s.state.clone(), now: s.nowFn}
	if err := fn(tx); err != nil {
		return err
	}
	s.state = tx.state
	return nil
}

// live runs a single operation directly against the committed state.
func (s *Store) live(fn func(t *txn) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	t := &txn{state: s.state, now: s.nowFn}
	err := fn(t)
	s.state = t.state
	return err
}

// txn implements core.Queries over one state value. Maps are shared with the
// state it was built from, so writes land there directly.
type txn struct {
	state state
	now   func() time.Time
}

func notFound(what string, id any) error {
	return fmt.Errorf("%s %v: %w", what, id, core.ErrNotFound)
}

func weekKey(t time.Time) string { return core.DateOf(t).Format("2006-01-02") }

// ── Recipes ──────────────────────────────────────────────────────────────────

func (t *txn) GetRecipe(_ context.Context, id int64) (*core.Recipe, error) {
	r, ok := t.state.recipes[id]
	if !ok {
		return nil, notFound("recipe", id)
	}
	r = t.decorateRecipe(r)
	return &r, nil
}

func (t *txn) decorateRecipe(r core.Recipe) core.Recipe {
	lines := make([]core.RecipeLine, len(r.Lines))
	for i, l := range r.Lines {
		l.IngredientName = t.state.ingredients[l.IngredientID].Name
		l.QuantityNormalized = l.Normalized()
		lines[i] = l
	}
	r.Lines = lines
	return r
}

func (t *txn) ListRecipes(_ context.Context, filter core.RecipeFilter) ([]core.Recipe, error) {
	wanted := make(map[int64]bool, len(filter.IDs))
	for _, id := range filter.IDs {
		wanted[id] = true
	}
	needle := strings.ToLower(filter.NameContains)

	var out []core.Recipe
	for _, r := range t.state.recipes {
		if len(wanted) > 0 && !wanted[r.ID] {
			continue
		}
		if needle != "" && !strings.Contains(strings.ToLower(r.Name), needle) {
			continue
		}
		out = append(out, t.decorateRecipe(r))
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (t *txn) CreateRecipe(_ context.Context, r core.Recipe) (*core.Recipe, error) {
	for _, l := range r.Lines {
		if _, ok := t.state.ingredients[l.IngredientID]; !ok {
			return nil, notFound("ingredient", l.IngredientID)
		}
	}
	t.state.ids.recipe++
	r.ID = t.state.ids.recipe
	r.CreatedAt = t.now()
	r.Lines = append([]core.RecipeLine(nil), r.Lines...)
	t.state.recipes[r.ID] = r
	out := t.decorateRecipe(r)
	return &out, nil
}

// ── Ingredients ──────────────────────────────────────────────────────────────

func (t *txn) ListIngredients(_ context.Context) ([]core.Ingredient, error) {
	out := make([]core.Ingredient, 0, len(t.state.ingredients))
	for _, in := range t.state.ingredients {
		out = append(out, in)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (t *txn) FindIngredientByName(_ context.Context, name string) (*core.Ingredient, error) {
	for _, in := range t.state.ingredients {
		if in.Name == name {
			found := in
			return &found, nil
		}
	}
	return nil, notFound("ingredient", name)
}

func (t *txn) CreateIngredient(_ context.Context, in core.Ingredient) (*core.Ingredient, error) {
	for _, existing := range t.state.ingredients {
		if existing.Name == in.Name {
			return nil, fmt.Errorf("ingredient %q already exists", in.Name)
		}
	}
	t.state.ids.ingredient++
	in.ID = t.state.ids.ingredient
	in.CreatedAt = t.now()
	t.state.ingredients[in.ID] = in
	return &in, nil
}

// ── Stock ────────────────────────────────────────────────────────────────────

func (t *txn) GetStock(_ context.Context) ([]core.StockEntry, error) {
	out := make([]core.StockEntry, 0, len(t.state.stock))
	for _, e := range t.state.stock {
		e.IngredientName = t.state.ingredients[e.IngredientID].Name
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].IngredientName != out[j].IngredientName {
			return out[i].IngredientName < out[j].IngredientName
		}
		return out[i].IngredientID < out[j].IngredientID
	})
	return out, nil
}

func (t *txn) GetStockEntry(_ context.Context, ingredientID int64) (*core.StockEntry, error) {
	e, ok := t.state.stock[ingredientID]
	if !ok {
		return nil, notFound("stock entry for ingredient", ingredientID)
	}
	e.IngredientName = t.state.ingredients[ingredientID].Name
	return &e, nil
}

func (t *txn) UpsertStock(_ context.Context, e core.StockEntry) error {
	if _, ok := t.state.ingredients[e.IngredientID]; !ok {
		return notFound("ingredient", e.IngredientID)
	}
	if e.QuantityNormalized.IsNegative() {
		return fmt.Errorf("negative stock for ingredient %d", e.IngredientID)
	}
	if e.UpdatedAt.IsZero() {
		e.UpdatedAt = t.now()
	}
	e.IngredientName = ""
	t.state.stock[e.IngredientID] = e
	return nil
}

func (t *txn) DeleteStock(_ context.Context, ingredientID int64) error {
	if _, ok := t.state.stock[ingredientID]; !ok {
		return notFound("stock entry for ingredient", ingredientID)
	}
	delete(t.state.stock, ingredientID)
	return nil
}

func (t *txn) InsertMovement(_ context.Context, m core.StockMovement) error {
	t.state.ids.movement++
	m.ID = t.state.ids.movement
	if m.CreatedAt.IsZero() {
		m.CreatedAt = t.now()
	}
	t.state.movements = append(t.state.movements, m)
	return nil
}

func (t *txn) ListMovements(_ context.Context, ingredientID int64) ([]core.StockMovement, error) {
	var out []core.StockMovement
	for _, m := range t.state.movements {
		if m.IngredientID == ingredientID {
			out = append(out, m)
		}
	}
	return out, nil
}

// ── Planned meals ────────────────────────────────────────────────────────────

func (t *txn) GetMeal(_ context.Context, id int64) (*core.PlannedMeal, error) {
	m, ok := t.state.meals[id]
	if !ok {
		return nil, notFound("meal", id)
	}
	return &m, nil
}

func (t *txn) sortedMeals(keep func(core.PlannedMeal) bool) []core.PlannedMeal {
	var out []core.PlannedMeal
	for _, m := range t.state.meals {
		if keep(m) {
			out = append(out, m)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.Before(out[j].Date)
		}
		return out[i].ID < out[j].ID
	})
	return out
}

func (t *txn) GetMealsInRange(_ context.Context, start, end time.Time) ([]core.PlannedMeal, error) {
	start, end = core.DateOf(start), core.DateOf(end)
	return t.sortedMeals(func(m core.PlannedMeal) bool {
		return !m.Date.Before(start) && !m.Date.After(end)
	}), nil
}

func (t *txn) ListUnpreparedBefore(_ context.Context, day time.Time) ([]core.PlannedMeal, error) {
	day = core.DateOf(day)
	return t.sortedMeals(func(m core.PlannedMeal) bool {
		return !m.IsPrepared && m.Date.Before(day)
	}), nil
}

func (t *txn) InsertMeal(_ context.Context, m core.PlannedMeal) (int64, error) {
	if m.RecipeID != nil {
		if _, ok := t.state.recipes[*m.RecipeID]; !ok {
			return 0, notFound("recipe", *m.RecipeID)
		}
	}
	t.state.ids.meal++
	m.ID = t.state.ids.meal
	m.Date = core.DateOf(m.Date)
	if m.CreatedAt.IsZero() {
		m.CreatedAt = t.now()
	}
	t.state.meals[m.ID] = m
	return m.ID, nil
}

func (t *txn) UpdateMealServings(_ context.Context, id int64, servings int) error {
	m, ok := t.state.meals[id]
	if !ok {
		return notFound("meal", id)
	}
	m.Servings = servings
	t.state.meals[id] = m
	return nil
}

func (t *txn) MarkMealPrepared(_ context.Context, id int64, at time.Time) (bool, error) {
	m, ok := t.state.meals[id]
	if !ok {
		return false, notFound("meal", id)
	}
	if m.IsPrepared {
		return false, nil
	}
	m.IsPrepared = true
	m.PreparedAt = &at
	t.state.meals[id] = m
	return true, nil
}

func (t *txn) DeleteMeal(_ context.Context, id int64) error {
	if _, ok := t.state.meals[id]; !ok {
		return notFound("meal", id)
	}
	delete(t.state.meals, id)
	for i := range t.state.movements {
		if mid := t.state.movements[i].MealID; mid != nil && *mid == id {
			t.state.movements[i].MealID = nil
		}
	}
	return nil
}

// ── Shopping lists ───────────────────────────────────────────────────────────

func (t *txn) ReplaceShoppingList(_ context.Context, weekStart time.Time, items []core.ShoppingListItem) (int64, error) {
	key := weekKey(weekStart)
	delete(t.state.lists, key)

	t.state.ids.list++
	list := core.ShoppingList{
		ID:          t.state.ids.list,
		WeekStart:   core.DateOf(weekStart),
		GeneratedAt: t.now(),
		Items:       make([]core.ShoppingListItem, len(items)),
	}
	for i, item := range items {
		t.state.ids.item++
		item.ID = t.state.ids.item
		list.Items[i] = item
	}
	t.state.lists[key] = list
	return list.ID, nil
}

func (t *txn) GetShoppingList(_ context.Context, weekStart time.Time) (*core.ShoppingList, error) {
	list, ok := t.state.lists[weekKey(weekStart)]
	if !ok {
		return nil, notFound("shopping list for week", weekKey(weekStart))
	}
	list.Items = append([]core.ShoppingListItem(nil), list.Items...)
	return &list, nil
}

func (t *txn) SetShoppingItemChecked(_ context.Context, itemID int64, checked bool) error {
	for key, list := range t.state.lists {
		for i := range list.Items {
			if list.Items[i].ID == itemID {
				list.Items[i].Checked = checked
				t.state.lists[key] = list
				return nil
			}
		}
	}
	return notFound("shopping item", itemID)
}

func (t *txn) MarkShoppingListCompleted(_ context.Context, listID int64, at time.Time) (bool, error) {
	for key, list := range t.state.lists {
		if list.ID != listID {
			continue
		}
		if list.CompletedAt != nil {
			return false, nil
		}
		list.CompletedAt = &at
		t.state.lists[key] = list
		return true, nil
	}
	return false, notFound("shopping list", listID)
}
