package domain

import "fmt"

// IngredientShortage describes one ingredient that could not cover a
// requested hold, in the shape returned to clients on a conflict.
type IngredientShortage struct {
	IngredientID   int64  `json:"ingredient_id"`
	IngredientName string `json:"ingredient_name"`
	RequiredQty    int    `json:"required_qty"`
	AvailableQty   int    `json:"available_qty"`
	IsOut          bool   `json:"is_out"`
	Message        string `json:"message"`
}

// NewIngredientShortage builds a shortage row for the given ingredient,
// stamping the human-readable message.
func NewIngredientShortage(ing *Ingredient, required, available int) IngredientShortage {
	return IngredientShortage{
		IngredientID:   ing.ID,
		IngredientName: ing.Name,
		RequiredQty:    required,
		AvailableQty:   available,
		IsOut:          ing.IsOut,
		Message:        fmt.Sprintf("Insufficient %s", ing.Name),
	}
}

// InsufficientIngredientsError is returned when a reservation cannot be
// placed or grown because one or more ingredients lack availability. It
// carries the full per-ingredient breakdown so handlers can render it.
type InsufficientIngredientsError struct {
	Shortages []IngredientShortage
}

func (e *InsufficientIngredientsError) Error() string {
	return fmt.Sprintf("insufficient ingredients for %d item(s)", len(e.Shortages))
}
