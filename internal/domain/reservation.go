package domain

import "time"

// Reservation lifecycle statuses. Active is the only status that holds
// ingredient quantities; the other three are terminal.
const (
	ReservationStatusActive    = "active"
	ReservationStatusCommitted = "committed"
	ReservationStatusReleased  = "released"
	ReservationStatusExpired   = "expired"
)

// Reservation is a temporary hold on the ingredients needed to prepare an
// order. While active and unexpired it reduces projected availability;
// committing it converts the hold into an on-hand deduction.
type Reservation struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	Status    string    `json:"status"`
	ExpiresAt time.Time `json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// IsOverdue reports whether the reservation is active but past its
// expiration instant. Expiry is inclusive: a reservation whose expires_at
// equals now is already overdue.
func (r *Reservation) IsOverdue(now time.Time) bool {
	return r.Status == ReservationStatusActive && !r.ExpiresAt.After(now)
}

// ReservationItem is one menu-item line of a reservation, as ordered.
type ReservationItem struct {
	ID            int64   `json:"id"`
	ReservationID int64   `json:"reservation_id"`
	MenuItemID    int64   `json:"menu_item_id"`
	Qty           int     `json:"qty"`
	Notes         *string `json:"notes"`
}

// ReservationIngredient is the ingredient-level hold derived from a
// reservation's items through the recipes at reservation time.
type ReservationIngredient struct {
	ID            int64 `json:"id"`
	ReservationID int64 `json:"reservation_id"`
	IngredientID  int64 `json:"ingredient_id"`
	QtyReserved   int   `json:"qty_reserved"`
}
