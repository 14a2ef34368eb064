package repository

import (
	"context"

	"github.com/Jomkit/KitchenSync/internal/domain"
)

// IngredientRepository defines read access to ingredients. Mutations run
// in the service layer under row locks.
type IngredientRepository interface {
	// List returns all ingredients ordered by id ascending.
	List(ctx context.Context) ([]domain.Ingredient, error)
}

// MenuRepository defines read access to the immutable menu catalog.
type MenuRepository interface {
	// ListItems returns all menu items ordered by id ascending.
	ListItems(ctx context.Context) ([]domain.MenuItem, error)

	// ListRecipes returns all recipe lines.
	ListRecipes(ctx context.Context) ([]domain.Recipe, error)
}

// UserRepository defines read access to users for authentication.
type UserRepository interface {
	// GetByEmail retrieves a user by email address.
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
}
