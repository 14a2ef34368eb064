package domain

// MenuItem is a sellable dish. Its availability is derived from the
// availability of every ingredient its recipe requires.
type MenuItem struct {
	ID         int64   `json:"id"`
	Name       string  `json:"name"`
	PriceCents int     `json:"price_cents"`
	Category   *string `json:"category"`
	Allergens  *string `json:"allergens"`
}

// Recipe links a menu item to one ingredient it consumes, with the
// quantity required per unit ordered.
type Recipe struct {
	ID           int64 `json:"id"`
	MenuItemID   int64 `json:"menu_item_id"`
	IngredientID int64 `json:"ingredient_id"`
	QtyRequired  int   `json:"qty_required"`
}
