package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/recipeshare/recipeshare/internal/auth"
	"github.com/recipeshare/recipeshare/internal/metrics"
	"github.com/recipeshare/recipeshare/internal/model"
	"github.com/recipeshare/recipeshare/internal/repository"
)

const testSecret = "test-secret"

// newTestStore returns a migrated in-memory SQLite store.
func newTestStore(t *testing.T) repository.Store {
	t.Helper()
	ctx := context.Background()

	store, err := repository.NewSQLite(ctx, "sqlite://:memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	require.NoError(t, store.Migrate(ctx))
	return store
}

type testEnv struct {
	store   repository.Store
	tokens  *auth.TokenService
	metrics *metrics.InMemoryRecorder
	auth    *AuthService
	recipes *RecipeService
	now     time.Time
}

func newTestEnv(t *testing.T, secret string) *testEnv {
	t.Helper()

	env := &testEnv{
		store:   newTestStore(t),
		metrics: metrics.NewInMemory(),
		now:     time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC),
	}
	env.tokens = auth.NewTokenService(auth.TokenConfig{
		Secret: secret,
		Now:    func() time.Time { return env.now },
	})
	env.auth = NewAuthService(env.store, auth.NewPasswordHasher(4), env.tokens, env.metrics)
	env.recipes = NewRecipeService(env.store, env.metrics)
	return env
}

// failingStore fails every call with err.
type failingStore struct {
	err error
}

func (s failingStore) GetUserByEmail(context.Context, string) (*model.User, error) {
	return nil, s.err
}

func (s failingStore) CreateUser(context.Context, *model.User) error { return s.err }

func (s failingStore) CreateRecipe(context.Context, *model.Recipe) error { return s.err }

func (s failingStore) ListRecipes(context.Context) ([]*model.Recipe, error) { return nil, s.err }

func (s failingStore) GetRecipeByID(context.Context, string) (*model.Recipe, error) {
	return nil, s.err
}

func (s failingStore) DeleteRecipe(context.Context, string) (*model.Recipe, error) {
	return nil, s.err
}

var errStoreDown = errors.New("connection refused")

func float(v float64) *float64 { return &v }

func completeRecipeInput() AddRecipeInput {
	return AddRecipeInput{
		Title:         "Shakshuka",
		Description:   "Eggs poached in spiced tomato sauce",
		Rating:        float(4.5),
		TimeToPrepare: "25 min",
		Image:         "data:image/png;base64,AAAA",
		Ingredients:   []string{"4 eggs", "1 can tomatoes", "1 tsp cumin"},
		Directions:    []string{"Simmer sauce", "Crack eggs", "Cover and cook"},
	}
}
