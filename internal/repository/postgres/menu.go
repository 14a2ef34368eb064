package postgres

import (
	"context"
	"fmt"

	"github.com/Jomkit/KitchenSync/internal/domain"
	"github.com/Jomkit/KitchenSync/pkg/database"
)

// MenuRepository implements repository.MenuRepository using PostgreSQL.
// The catalog is immutable at runtime, so this is read-only.
type MenuRepository struct {
	db database.DBTX
}

// NewMenuRepository creates a new PostgreSQL-backed menu repository.
func NewMenuRepository(db database.DBTX) *MenuRepository {
	return &MenuRepository{db: db}
}

// ListItems returns all menu items ordered by id ascending.
func (r *MenuRepository) ListItems(ctx context.Context) (_ []domain.MenuItem, err error) {
	query := `
		SELECT id, name, price_cents, category, allergens
		FROM menu_items
		ORDER BY id ASC`

	ctx, end := database.TraceQuery(ctx, "ListMenuItems", query)
	defer func() { end(err) }()

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list menu items: %w", err)
	}
	defer rows.Close()

	var items []domain.MenuItem
	for rows.Next() {
		var item domain.MenuItem
		if err := rows.Scan(
			&item.ID,
			&item.Name,
			&item.PriceCents,
			&item.Category,
			&item.Allergens,
		); err != nil {
			return nil, fmt.Errorf("scan menu item row: %w", err)
		}
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate menu item rows: %w", err)
	}

	if items == nil {
		items = []domain.MenuItem{}
	}

	return items, nil
}

// ListRecipes returns all recipe lines.
func (r *MenuRepository) ListRecipes(ctx context.Context) (_ []domain.Recipe, err error) {
	query := `
		SELECT id, menu_item_id, ingredient_id, qty_required
		FROM recipes
		ORDER BY menu_item_id ASC, ingredient_id ASC, id ASC`

	ctx, end := database.TraceQuery(ctx, "ListRecipes", query)
	defer func() { end(err) }()

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list recipes: %w", err)
	}
	defer rows.Close()

	var recipes []domain.Recipe
	for rows.Next() {
		var rec domain.Recipe
		if err := rows.Scan(
			&rec.ID,
			&rec.MenuItemID,
			&rec.IngredientID,
			&rec.QtyRequired,
		); err != nil {
			return nil, fmt.Errorf("scan recipe row: %w", err)
		}
		recipes = append(recipes, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate recipe rows: %w", err)
	}

	if recipes == nil {
		recipes = []domain.Recipe{}
	}

	return recipes, nil
}
