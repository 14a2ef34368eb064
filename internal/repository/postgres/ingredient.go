package postgres

import (
	"context"
	"fmt"

	"github.com/Jomkit/KitchenSync/internal/domain"
	"github.com/Jomkit/KitchenSync/pkg/database"
)

// IngredientRepository implements repository.IngredientRepository using
// PostgreSQL.
type IngredientRepository struct {
	db database.DBTX
}

// NewIngredientRepository creates a new PostgreSQL-backed ingredient repository.
func NewIngredientRepository(db database.DBTX) *IngredientRepository {
	return &IngredientRepository{db: db}
}

const ingredientColumns = `id, name, on_hand_qty, low_stock_threshold_qty, is_out, updated_at`

// List returns all ingredients ordered by id ascending.
func (r *IngredientRepository) List(ctx context.Context) (_ []domain.Ingredient, err error) {
	query := `
		SELECT ` + ingredientColumns + `
		FROM ingredients
		ORDER BY id ASC`

	ctx, end := database.TraceQuery(ctx, "ListIngredients", query)
	defer func() { end(err) }()

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list ingredients: %w", err)
	}
	defer rows.Close()

	var ingredients []domain.Ingredient
	for rows.Next() {
		var ing domain.Ingredient
		if err := rows.Scan(
			&ing.ID,
			&ing.Name,
			&ing.OnHandQty,
			&ing.LowStockThresholdQty,
			&ing.IsOut,
			&ing.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan ingredient row: %w", err)
		}
		ingredients = append(ingredients, ing)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate ingredient rows: %w", err)
	}

	if ingredients == nil {
		ingredients = []domain.Ingredient{}
	}

	return ingredients, nil
}
