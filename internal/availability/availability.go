// Package availability projects read-time availability for ingredients
// and menu items. Nothing here touches storage; callers load the current
// ingredients, recipes, and active-hold totals and hand them in.
package availability

import (
	"fmt"
	"sort"

	"github.com/Jomkit/KitchenSync/internal/domain"
)

// IngredientRow is the projected view of one ingredient.
type IngredientRow struct {
	ID                   int64  `json:"id"`
	Name                 string `json:"name"`
	OnHandQty            int    `json:"on_hand_qty"`
	ActiveReservedQty    int    `json:"active_reserved_qty"`
	AvailableQty         int    `json:"available_qty"`
	LowStockThresholdQty int    `json:"low_stock_threshold_qty"`
	IsOut                bool   `json:"is_out"`
	LowStock             bool   `json:"low_stock"`
}

// MenuItemRow is the projected view of one menu item. Reason is nil when
// the item is available.
type MenuItemRow struct {
	ID         int64   `json:"id"`
	Name       string  `json:"name"`
	PriceCents int     `json:"price_cents"`
	Category   *string `json:"category"`
	Allergens  *string `json:"allergens"`
	Available  bool    `json:"available"`
	LowStock   bool    `json:"low_stock"`
	Reason     *string `json:"reason"`
}

// ProjectIngredients computes the availability view for each ingredient,
// preserving input order. reserved maps ingredient ID to the total
// quantity held by active unexpired reservations; missing keys mean zero.
func ProjectIngredients(ingredients []domain.Ingredient, reserved map[int64]int) []IngredientRow {
	rows := make([]IngredientRow, 0, len(ingredients))
	for i := range ingredients {
		ing := &ingredients[i]
		held := reserved[ing.ID]
		available := ing.AvailableQty(held)

		rows = append(rows, IngredientRow{
			ID:                   ing.ID,
			Name:                 ing.Name,
			OnHandQty:            ing.OnHandQty,
			ActiveReservedQty:    held,
			AvailableQty:         available,
			LowStockThresholdQty: ing.LowStockThresholdQty,
			IsOut:                ing.IsOut,
			LowStock:             ing.LowStock(available),
		})
	}
	return rows
}

// ProjectMenuItems computes per-item availability by walking each item's
// recipe lines against projected ingredient availability. An item is
// unavailable as soon as any required ingredient cannot cover one unit;
// the reason reflects the first failing ingredient with recipe lines
// ordered by (ingredient_id, recipe id). low_stock is true when any
// required ingredient is low, even for unavailable items.
func ProjectMenuItems(
	items []domain.MenuItem,
	recipes []domain.Recipe,
	ingredients []domain.Ingredient,
	reserved map[int64]int,
) []MenuItemRow {
	byIngredient := make(map[int64]*domain.Ingredient, len(ingredients))
	for i := range ingredients {
		byIngredient[ingredients[i].ID] = &ingredients[i]
	}

	byItem := make(map[int64][]domain.Recipe, len(items))
	for _, rec := range recipes {
		byItem[rec.MenuItemID] = append(byItem[rec.MenuItemID], rec)
	}
	for _, lines := range byItem {
		sort.Slice(lines, func(i, j int) bool {
			if lines[i].IngredientID != lines[j].IngredientID {
				return lines[i].IngredientID < lines[j].IngredientID
			}
			return lines[i].ID < lines[j].ID
		})
	}

	rows := make([]MenuItemRow, 0, len(items))
	for _, item := range items {
		row := MenuItemRow{
			ID:         item.ID,
			Name:       item.Name,
			PriceCents: item.PriceCents,
			Category:   item.Category,
			Allergens:  item.Allergens,
			Available:  true,
		}

		for _, rec := range byItem[item.ID] {
			ing, ok := byIngredient[rec.IngredientID]
			if !ok {
				continue
			}
			available := ing.AvailableQty(reserved[ing.ID])

			if ing.LowStock(available) {
				row.LowStock = true
			}

			if row.Available && available < rec.QtyRequired {
				row.Available = false
				reason := fmt.Sprintf("Insufficient %s", ing.Name)
				row.Reason = &reason
			}
		}

		rows = append(rows, row)
	}
	return rows
}
