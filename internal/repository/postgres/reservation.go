package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/Jomkit/KitchenSync/pkg/database"
)

// ActiveReserved aggregates the quantity held per ingredient by active
// unexpired reservations. When ingredientIDs is non-empty the aggregation
// is restricted to those ingredients; when excludeReservationID is
// non-zero that reservation's own holds are left out, which lets an
// update re-plan without conflicting with itself. It runs on any Querier
// so the reservation engine can call it inside an open transaction.
func ActiveReserved(
	ctx context.Context,
	q database.Querier,
	now time.Time,
	ingredientIDs []int64,
	excludeReservationID int64,
) (_ map[int64]int, err error) {
	query := `
		SELECT ri.ingredient_id, COALESCE(SUM(ri.qty_reserved), 0)
		FROM reservation_ingredients ri
		JOIN reservations r ON r.id = ri.reservation_id
		WHERE r.status = 'active' AND r.expires_at > $1`

	args := []any{now}
	if len(ingredientIDs) > 0 {
		args = append(args, ingredientIDs)
		query += fmt.Sprintf(" AND ri.ingredient_id = ANY($%d)", len(args))
	}
	if excludeReservationID != 0 {
		args = append(args, excludeReservationID)
		query += fmt.Sprintf(" AND ri.reservation_id <> $%d", len(args))
	}
	query += " GROUP BY ri.ingredient_id"

	ctx, end := database.TraceQuery(ctx, "AggregateActiveReserved", query)
	defer func() { end(err) }()

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("aggregate active reserved: %w", err)
	}
	defer rows.Close()

	reserved := make(map[int64]int)
	for rows.Next() {
		var ingredientID int64
		var qty int
		if err := rows.Scan(&ingredientID, &qty); err != nil {
			return nil, fmt.Errorf("scan active reserved row: %w", err)
		}
		reserved[ingredientID] = qty
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate active reserved rows: %w", err)
	}

	return reserved, nil
}
