package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Jomkit/KitchenSync/internal/domain"
	"github.com/Jomkit/KitchenSync/pkg/database"
	apperrors "github.com/Jomkit/KitchenSync/pkg/errors"
)

func setupMock(t *testing.T) pgxmock.PgxPoolIface {
	t.Helper()
	mock, err := database.NewMockPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return mock
}

var ingredientCols = []string{"id", "name", "on_hand_qty", "low_stock_threshold_qty", "is_out", "updated_at"}

var fixedTime = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

// ---------------------------------------------------------------------------
// IngredientRepository
// ---------------------------------------------------------------------------

func TestIngredientRepository_List(t *testing.T) {
	mock := setupMock(t)
	repo := NewIngredientRepository(mock)

	mock.ExpectQuery("SELECT .+ FROM ingredients ORDER BY id ASC").
		WillReturnRows(pgxmock.NewRows(ingredientCols).
			AddRow(int64(1), "Bun", 40, 8, false, fixedTime).
			AddRow(int64(2), "Patty", 30, 6, true, fixedTime))

	ingredients, err := repo.List(context.Background())
	require.NoError(t, err)

	require.Len(t, ingredients, 2)
	assert.Equal(t, "Bun", ingredients[0].Name)
	assert.Equal(t, 40, ingredients[0].OnHandQty)
	assert.True(t, ingredients[1].IsOut)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestIngredientRepository_List_Empty(t *testing.T) {
	mock := setupMock(t)
	repo := NewIngredientRepository(mock)

	mock.ExpectQuery("SELECT .+ FROM ingredients").
		WillReturnRows(pgxmock.NewRows(ingredientCols))

	ingredients, err := repo.List(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, ingredients)
	assert.Empty(t, ingredients)
}

// ---------------------------------------------------------------------------
// MenuRepository
// ---------------------------------------------------------------------------

func TestMenuRepository_ListItems(t *testing.T) {
	mock := setupMock(t)
	repo := NewMenuRepository(mock)

	category := "burgers"
	mock.ExpectQuery("SELECT .+ FROM menu_items ORDER BY id ASC").
		WillReturnRows(pgxmock.NewRows([]string{"id", "name", "price_cents", "category", "allergens"}).
			AddRow(int64(1), "Classic Burger", 1299, &category, (*string)(nil)).
			AddRow(int64(2), "Cheeseburger", 1399, &category, (*string)(nil)))

	items, err := repo.ListItems(context.Background())
	require.NoError(t, err)

	require.Len(t, items, 2)
	assert.Equal(t, "Classic Burger", items[0].Name)
	assert.Equal(t, 1299, items[0].PriceCents)
	require.NotNil(t, items[0].Category)
	assert.Equal(t, "burgers", *items[0].Category)
	assert.Nil(t, items[0].Allergens)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestMenuRepository_ListRecipes(t *testing.T) {
	mock := setupMock(t)
	repo := NewMenuRepository(mock)

	mock.ExpectQuery("SELECT .+ FROM recipes").
		WillReturnRows(pgxmock.NewRows([]string{"id", "menu_item_id", "ingredient_id", "qty_required"}).
			AddRow(int64(1), int64(1), int64(1), 1).
			AddRow(int64(2), int64(1), int64(2), 1))

	recipes, err := repo.ListRecipes(context.Background())
	require.NoError(t, err)

	require.Len(t, recipes, 2)
	assert.Equal(t, int64(1), recipes[0].MenuItemID)
	assert.Equal(t, 1, recipes[0].QtyRequired)
}

// ---------------------------------------------------------------------------
// UserRepository
// ---------------------------------------------------------------------------

func TestUserRepository_GetByEmail(t *testing.T) {
	mock := setupMock(t)
	repo := NewUserRepository(mock)

	name := "Kitchen Staff"
	mock.ExpectQuery("SELECT .+ FROM users WHERE email").
		WithArgs("kitchen@example.com").
		WillReturnRows(pgxmock.NewRows([]string{"id", "email", "password_hash", "display_name", "role", "created_at"}).
			AddRow(int64(1), "kitchen@example.com", "$2a$10$hash", &name, "kitchen", fixedTime))

	u, err := repo.GetByEmail(context.Background(), "kitchen@example.com")
	require.NoError(t, err)

	assert.Equal(t, int64(1), u.ID)
	assert.Equal(t, domain.RoleKitchen, u.Role)
	assert.Equal(t, "$2a$10$hash", u.PasswordHash)
}

func TestUserRepository_GetByEmail_NotFound(t *testing.T) {
	mock := setupMock(t)
	repo := NewUserRepository(mock)

	mock.ExpectQuery("SELECT .+ FROM users WHERE email").
		WithArgs("nobody@example.com").
		WillReturnError(errors.New("no rows in result set"))

	_, err := repo.GetByEmail(context.Background(), "nobody@example.com")
	require.Error(t, err)
}

// ---------------------------------------------------------------------------
// ActiveReserved
// ---------------------------------------------------------------------------

func TestActiveReserved_AllIngredients(t *testing.T) {
	mock := setupMock(t)

	now := fixedTime
	mock.ExpectQuery("SELECT ri.ingredient_id, COALESCE").
		WithArgs(now).
		WillReturnRows(pgxmock.NewRows([]string{"ingredient_id", "sum"}).
			AddRow(int64(1), 4).
			AddRow(int64(2), 2))

	reserved, err := ActiveReserved(context.Background(), mock, now, nil, 0)
	require.NoError(t, err)

	assert.Equal(t, map[int64]int{1: 4, 2: 2}, reserved)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestActiveReserved_FilteredAndExcluded(t *testing.T) {
	mock := setupMock(t)

	now := fixedTime
	ids := []int64{1, 3}
	mock.ExpectQuery("SELECT ri.ingredient_id, COALESCE").
		WithArgs(now, ids, int64(9)).
		WillReturnRows(pgxmock.NewRows([]string{"ingredient_id", "sum"}).
			AddRow(int64(1), 6))

	reserved, err := ActiveReserved(context.Background(), mock, now, ids, 9)
	require.NoError(t, err)

	assert.Equal(t, 6, reserved[1])
	_, ok := reserved[3]
	assert.False(t, ok, "ingredients without holds are absent from the map")
}

func TestActiveReserved_QueryError(t *testing.T) {
	mock := setupMock(t)

	mock.ExpectQuery("SELECT ri.ingredient_id, COALESCE").
		WillReturnError(errors.New("connection refused"))

	_, err := ActiveReserved(context.Background(), mock, fixedTime, nil, 0)
	require.Error(t, err)
}

func TestGetByEmail_NoRowsMapsToNotFound(t *testing.T) {
	// pgx.ErrNoRows is translated to the app-level not-found error so
	// callers can react without knowing about pgx.
	mock := setupMock(t)
	repo := NewUserRepository(mock)

	mock.ExpectQuery("SELECT .+ FROM users WHERE email").
		WithArgs("missing@example.com").
		WillReturnError(pgx.ErrNoRows)

	_, err := repo.GetByEmail(context.Background(), "missing@example.com")
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrNotFound))
}
