package domain

import "time"

// Ingredient is a stockable item tracked by the kitchen. Availability is
// never stored; it is always projected from on-hand stock minus active
// unexpired reservation holds.
type Ingredient struct {
	ID                   int64     `json:"id"`
	Name                 string    `json:"name"`
	OnHandQty            int       `json:"on_hand_qty"`
	LowStockThresholdQty int       `json:"low_stock_threshold_qty"`
	IsOut                bool      `json:"is_out"`
	UpdatedAt            time.Time `json:"updated_at"`
}

// AvailableQty returns how much of the ingredient can still be promised
// given the quantity currently held by active unexpired reservations.
// An ingredient flagged out has zero availability regardless of stock,
// and the result may be negative when holds exceed on-hand stock.
func (i *Ingredient) AvailableQty(activeReserved int) int {
	if i.IsOut {
		return 0
	}
	return i.OnHandQty - activeReserved
}

// LowStock reports whether the given available quantity has fallen to or
// below the ingredient's threshold.
func (i *Ingredient) LowStock(available int) bool {
	return available <= i.LowStockThresholdQty
}
