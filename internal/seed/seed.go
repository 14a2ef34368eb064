// Package seed loads the demo dataset: three role accounts, the burger
// menu, and its ingredient recipes. Every write is an upsert so the
// seeder can run repeatedly against the same database.
package seed

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/crypto/bcrypt"

	"github.com/Jomkit/KitchenSync/internal/domain"
	"github.com/Jomkit/KitchenSync/pkg/database"
)

type userSeed struct {
	email       string
	password    string
	role        string
	displayName string
}

type ingredientSeed struct {
	name              string
	onHandQty         int
	lowStockThreshold int
}

type menuItemSeed struct {
	name       string
	priceCents int
	category   string
	allergens  string
	recipes    map[string]int
}

var users = []userSeed{
	{email: "kitchen@example.com", password: "pass", role: domain.RoleKitchen, displayName: "Kitchen"},
	{email: "foh@example.com", password: "pass", role: domain.RoleFOH, displayName: "Front Of House"},
	{email: "online@example.com", password: "pass", role: domain.RoleOnline, displayName: "Online"},
}

var ingredients = []ingredientSeed{
	{name: "Bun", onHandQty: 40, lowStockThreshold: 8},
	{name: "Patty", onHandQty: 30, lowStockThreshold: 6},
	{name: "Lettuce", onHandQty: 20, lowStockThreshold: 5},
	{name: "Tomato", onHandQty: 20, lowStockThreshold: 5},
	{name: "Cheese", onHandQty: 25, lowStockThreshold: 5},
}

var menuItems = []menuItemSeed{
	{
		name: "Classic Burger", priceCents: 1299, category: "Burgers", allergens: "gluten",
		recipes: map[string]int{"Bun": 1, "Patty": 1, "Lettuce": 1, "Tomato": 1},
	},
	{
		name: "Cheeseburger", priceCents: 1399, category: "Burgers", allergens: "gluten,dairy",
		recipes: map[string]int{"Bun": 1, "Patty": 1, "Cheese": 1},
	},
	{
		name: "Veggie Burger", priceCents: 1199, category: "Burgers", allergens: "gluten",
		recipes: map[string]int{"Bun": 1, "Lettuce": 2, "Tomato": 2},
	},
}

// Run inserts or refreshes the demo dataset.
func Run(ctx context.Context, db database.DBTX, logger *slog.Logger) error {
	for _, u := range users {
		hash, err := bcrypt.GenerateFromPassword([]byte(u.password), bcrypt.DefaultCost)
		if err != nil {
			return fmt.Errorf("hash password for %s: %w", u.email, err)
		}
		_, err = db.Exec(ctx, `
			INSERT INTO users (email, password_hash, display_name, role)
			VALUES ($1, $2, $3, $4)
			ON CONFLICT (email) DO UPDATE SET
				password_hash = EXCLUDED.password_hash,
				display_name = EXCLUDED.display_name,
				role = EXCLUDED.role`,
			u.email, string(hash), u.displayName, u.role,
		)
		if err != nil {
			return fmt.Errorf("seed user %s: %w", u.email, err)
		}
	}
	logger.InfoContext(ctx, "seeded users", slog.Int("count", len(users)))

	for _, ing := range ingredients {
		_, err := db.Exec(ctx, `
			INSERT INTO ingredients (name, on_hand_qty, low_stock_threshold_qty, is_out, updated_at)
			VALUES ($1, $2, $3, FALSE, NOW())
			ON CONFLICT (name) DO UPDATE SET
				on_hand_qty = EXCLUDED.on_hand_qty,
				low_stock_threshold_qty = EXCLUDED.low_stock_threshold_qty,
				is_out = FALSE,
				updated_at = NOW()`,
			ing.name, ing.onHandQty, ing.lowStockThreshold,
		)
		if err != nil {
			return fmt.Errorf("seed ingredient %s: %w", ing.name, err)
		}
	}
	logger.InfoContext(ctx, "seeded ingredients", slog.Int("count", len(ingredients)))

	for _, item := range menuItems {
		var menuItemID int64
		err := db.QueryRow(ctx, `
			INSERT INTO menu_items (name, price_cents, category, allergens)
			VALUES ($1, $2, $3, $4)
			ON CONFLICT (name) DO UPDATE SET
				price_cents = EXCLUDED.price_cents,
				category = EXCLUDED.category,
				allergens = EXCLUDED.allergens
			RETURNING id`,
			item.name, item.priceCents, item.category, item.allergens,
		).Scan(&menuItemID)
		if err != nil {
			return fmt.Errorf("seed menu item %s: %w", item.name, err)
		}

		for ingredientName, qty := range item.recipes {
			_, err := db.Exec(ctx, `
				INSERT INTO recipes (menu_item_id, ingredient_id, qty_required)
				SELECT $1, id, $2 FROM ingredients WHERE name = $3
				ON CONFLICT (menu_item_id, ingredient_id) DO UPDATE SET
					qty_required = EXCLUDED.qty_required`,
				menuItemID, qty, ingredientName,
			)
			if err != nil {
				return fmt.Errorf("seed recipe %s/%s: %w", item.name, ingredientName, err)
			}
		}
	}
	logger.InfoContext(ctx, "seeded menu items", slog.Int("count", len(menuItems)))

	return nil
}
