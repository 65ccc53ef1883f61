package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/recipeshare/recipeshare/internal/model"
)

// Store is the persistence surface shared by the PostgreSQL and SQLite
// backends.
type Store interface {
	CreateUser(ctx context.Context, user *model.User) error
	GetUserByID(ctx context.Context, id string) (*model.User, error)
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)

	CreateRecipe(ctx context.Context, recipe *model.Recipe) error
	ListRecipes(ctx context.Context) ([]*model.Recipe, error)
	GetRecipeByID(ctx context.Context, id string) (*model.Recipe, error)
	DeleteRecipe(ctx context.Context, id string) (*model.Recipe, error)

	Migrate(ctx context.Context) error
	Ping(ctx context.Context) error
	Close() error
}

var (
	_ Store = (*Repository)(nil)
	_ Store = (*SQLiteRepository)(nil)
)

// Open connects to the backend selected by the URL scheme.
// postgres:// and postgresql:// use PostgreSQL; sqlite:// and file: use SQLite.
func Open(ctx context.Context, databaseURL string) (Store, error) {
	switch {
	case strings.HasPrefix(databaseURL, "postgres://"), strings.HasPrefix(databaseURL, "postgresql://"):
		return New(ctx, databaseURL)
	case strings.HasPrefix(databaseURL, "sqlite://"), strings.HasPrefix(databaseURL, "file:"):
		return NewSQLite(ctx, databaseURL)
	default:
		return nil, fmt.Errorf("unsupported database URL scheme")
	}
}
