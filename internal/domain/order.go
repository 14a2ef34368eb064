package domain

import (
	"sort"

	apperrors "github.com/Jomkit/KitchenSync/pkg/errors"
)

// OrderLine is one requested menu item in a reservation create or update
// payload, before normalization.
type OrderLine struct {
	MenuItemID int64   `json:"menu_item_id"`
	Qty        int     `json:"qty"`
	Notes      *string `json:"notes"`
}

// NormalizeOrderLines validates and canonicalizes a requested item list.
// Duplicate menu_item_id lines are merged by summing quantities, with the
// last non-nil notes value winning, and the result is sorted by
// menu_item_id ascending. The input is never mutated.
func NormalizeOrderLines(lines []OrderLine) ([]OrderLine, error) {
	if len(lines) == 0 {
		return nil, apperrors.Validation("items must be a non-empty list")
	}

	merged := make(map[int64]*OrderLine, len(lines))
	order := make([]int64, 0, len(lines))

	for _, line := range lines {
		if line.MenuItemID < 1 {
			return nil, apperrors.Validation("menu_item_id must be a positive integer")
		}
		if line.Qty < 1 {
			return nil, apperrors.Validation("qty must be an integer >= 1")
		}

		if existing, ok := merged[line.MenuItemID]; ok {
			existing.Qty += line.Qty
			if line.Notes != nil {
				existing.Notes = line.Notes
			}
			continue
		}

		copied := line
		merged[line.MenuItemID] = &copied
		order = append(order, line.MenuItemID)
	}

	sort.Slice(order, func(i, j int) bool { return order[i] < order[j] })

	result := make([]OrderLine, 0, len(order))
	for _, id := range order {
		result = append(result, *merged[id])
	}

	return result, nil
}
