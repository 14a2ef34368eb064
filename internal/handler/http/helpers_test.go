package http

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/Jomkit/KitchenSync/internal/auth"
	"github.com/Jomkit/KitchenSync/internal/domain"
	"github.com/Jomkit/KitchenSync/internal/event"
	"github.com/Jomkit/KitchenSync/internal/service"
	"github.com/Jomkit/KitchenSync/pkg/database"
	apperrors "github.com/Jomkit/KitchenSync/pkg/errors"
)

var testNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type countingNotifier struct {
	broadcasts int
}

func (n *countingNotifier) Broadcast() {
	n.broadcasts++
}

// --- stub repositories ---

type stubUserRepo struct {
	users map[string]*domain.User
}

func (s *stubUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	if u, ok := s.users[email]; ok {
		return u, nil
	}
	return nil, apperrors.ErrNotFound
}

type stubIngredientRepo struct {
	ingredients []domain.Ingredient
}

func (s *stubIngredientRepo) List(context.Context) ([]domain.Ingredient, error) {
	return s.ingredients, nil
}

type stubMenuRepo struct {
	items   []domain.MenuItem
	recipes []domain.Recipe
}

func (s *stubMenuRepo) ListItems(context.Context) ([]domain.MenuItem, error) {
	return s.items, nil
}

func (s *stubMenuRepo) ListRecipes(context.Context) ([]domain.Recipe, error) {
	return s.recipes, nil
}

// --- fixtures ---

func newMockPool(t *testing.T) pgxmock.PgxPoolIface {
	t.Helper()
	mock, err := database.NewMockPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return mock
}

func passwordHash(t *testing.T, password string) string {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return string(hash)
}

func testUsers(t *testing.T) *stubUserRepo {
	t.Helper()
	hash := passwordHash(t, "pass")
	return &stubUserRepo{users: map[string]*domain.User{
		"kitchen@example.com": {ID: 1, Email: "kitchen@example.com", PasswordHash: hash, Role: domain.RoleKitchen},
		"foh@example.com":     {ID: 2, Email: "foh@example.com", PasswordHash: hash, Role: domain.RoleFOH},
		"online@example.com":  {ID: 3, Email: "online@example.com", PasswordHash: hash, Role: domain.RoleOnline},
	}}
}

func testTokens() *auth.Manager {
	return auth.NewManager("test-secret", time.Hour)
}

func nilProducer() *event.Producer {
	return event.NewProducer(nil, testLogger())
}

func testAuthService(t *testing.T) *service.AuthService {
	t.Helper()
	return service.NewAuthService(testUsers(t), testTokens(), testLogger())
}

func bearerFor(t *testing.T, tokens *auth.Manager, user *domain.User) string {
	t.Helper()
	token, err := tokens.Generate(user)
	require.NoError(t, err)
	return "Bearer " + token
}
