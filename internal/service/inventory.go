package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/Jomkit/KitchenSync/internal/availability"
	"github.com/Jomkit/KitchenSync/internal/domain"
	"github.com/Jomkit/KitchenSync/internal/event"
	"github.com/Jomkit/KitchenSync/internal/repository"
	"github.com/Jomkit/KitchenSync/internal/repository/postgres"
	"github.com/Jomkit/KitchenSync/pkg/database"
	apperrors "github.com/Jomkit/KitchenSync/pkg/errors"
)

// StockPatch is a kitchen stock adjustment. At least one field must be
// set.
type StockPatch struct {
	OnHandQty *int
	IsOut     *bool
}

// InventoryService serves the read-side availability projections and the
// kitchen's stock adjustments.
type InventoryService struct {
	db          database.DBTX
	ingredients repository.IngredientRepository
	menu        repository.MenuRepository
	notifier    Notifier
	producer    *event.Producer
	logger      *slog.Logger
	now         func() time.Time
}

// NewInventoryService creates a new inventory service.
func NewInventoryService(
	db database.DBTX,
	ingredients repository.IngredientRepository,
	menu repository.MenuRepository,
	notifier Notifier,
	producer *event.Producer,
	logger *slog.Logger,
) *InventoryService {
	return &InventoryService{
		db:          db,
		ingredients: ingredients,
		menu:        menu,
		notifier:    notifier,
		producer:    producer,
		logger:      logger,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

// ListIngredients returns the projected availability view of every
// ingredient, ordered by id ascending.
func (s *InventoryService) ListIngredients(ctx context.Context) ([]availability.IngredientRow, error) {
	ingredients, err := s.ingredients.List(ctx)
	if err != nil {
		return nil, err
	}

	reserved, err := postgres.ActiveReserved(ctx, s.db, s.now(), nil, 0)
	if err != nil {
		return nil, err
	}

	return availability.ProjectIngredients(ingredients, reserved), nil
}

// ListMenu returns the projected availability view of every menu item,
// ordered by id ascending.
func (s *InventoryService) ListMenu(ctx context.Context) ([]availability.MenuItemRow, error) {
	items, err := s.menu.ListItems(ctx)
	if err != nil {
		return nil, err
	}

	recipes, err := s.menu.ListRecipes(ctx)
	if err != nil {
		return nil, err
	}

	ingredients, err := s.ingredients.List(ctx)
	if err != nil {
		return nil, err
	}

	reserved, err := postgres.ActiveReserved(ctx, s.db, s.now(), nil, 0)
	if err != nil {
		return nil, err
	}

	return availability.ProjectMenuItems(items, recipes, ingredients, reserved), nil
}

// UpdateStock applies a kitchen stock patch under the ingredient row lock
// and returns the resulting projected row.
func (s *InventoryService) UpdateStock(ctx context.Context, id int64, patch StockPatch) (*availability.IngredientRow, error) {
	if patch.OnHandQty == nil && patch.IsOut == nil {
		return nil, apperrors.Validation("Provide on_hand_qty and/or is_out")
	}
	if patch.OnHandQty != nil && *patch.OnHandQty < 0 {
		return nil, apperrors.Validation("on_hand_qty must be non-negative")
	}

	now := s.now()

	tx, err := s.db.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
	if err != nil {
		return nil, fmt.Errorf("begin stock update transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	ingredients, err := lockIngredients(ctx, tx, []int64{id})
	if err != nil {
		return nil, err
	}
	ing, ok := ingredients[id]
	if !ok {
		return nil, apperrors.NotFound("Ingredient not found")
	}

	if patch.OnHandQty != nil {
		ing.OnHandQty = *patch.OnHandQty
	}
	if patch.IsOut != nil {
		ing.IsOut = *patch.IsOut
	}
	ing.UpdatedAt = now

	if _, err := tx.Exec(ctx, `
		UPDATE ingredients SET on_hand_qty = $1, is_out = $2, updated_at = $3 WHERE id = $4`,
		ing.OnHandQty, ing.IsOut, now, id,
	); err != nil {
		return nil, fmt.Errorf("update ingredient stock: %w", err)
	}

	reserved, err := postgres.ActiveReserved(ctx, tx, now, []int64{id}, 0)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit stock update transaction: %w", err)
	}

	if s.notifier != nil {
		s.notifier.Broadcast()
	}

	if err := s.producer.PublishIngredientUpdated(ctx, ing); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish ingredient.updated event",
			slog.Int64("ingredient_id", id),
			slog.String("error", err.Error()),
		)
	}

	rows := availability.ProjectIngredients([]domain.Ingredient{*ing}, reserved)
	row := rows[0]

	if row.LowStock {
		if err := s.producer.PublishIngredientLowStock(ctx, &row); err != nil {
			s.logger.ErrorContext(ctx, "failed to publish ingredient.low_stock event",
				slog.Int64("ingredient_id", id),
				slog.String("error", err.Error()),
			)
		}
	}

	s.logger.InfoContext(ctx, "ingredient stock updated",
		slog.Int64("ingredient_id", id),
		slog.Int("on_hand_qty", ing.OnHandQty),
		slog.Bool("is_out", ing.IsOut),
	)

	return &row, nil
}
