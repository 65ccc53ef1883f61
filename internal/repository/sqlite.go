package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/pressly/goose/v3"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/recipeshare/recipeshare/internal/model"
)

// SQLiteRepository provides SQLite access methods for local development
// and tests. It mirrors Repository.
type SQLiteRepository struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database from a sqlite:// or file: URL.
// sqlite://:memory: opens a private in-memory database.
func NewSQLite(ctx context.Context, databaseURL string) (*SQLiteRepository, error) {
	db, err := sql.Open("sqlite", sqliteDSN(databaseURL))
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}

	// A single connection keeps in-memory databases alive and serializes writers.
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping sqlite database: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

// sqliteDSN converts a database URL into a modernc.org/sqlite DSN with
// foreign keys enabled.
func sqliteDSN(databaseURL string) string {
	if strings.HasPrefix(databaseURL, "file:") {
		return databaseURL
	}

	path := strings.TrimPrefix(databaseURL, "sqlite://")
	if path == "" || path == ":memory:" {
		return "file::memory:?_pragma=foreign_keys(1)"
	}
	return "file:" + path + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
}

// Migrate applies pending schema migrations.
func (r *SQLiteRepository) Migrate(ctx context.Context) error {
	return runMigrations(ctx, goose.DialectSQLite3, r.db, "migrations/sqlite")
}

// Ping checks database connectivity.
func (r *SQLiteRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

// Close closes the database.
func (r *SQLiteRepository) Close() error {
	return r.db.Close()
}

// CreateUser inserts a new user into the database.
func (r *SQLiteRepository) CreateUser(ctx context.Context, user *model.User) error {
	prepareUser(user)

	query := `
		INSERT INTO users (id, name, email, password_hash, created_at)
		VALUES (?, ?, ?, ?, ?)
	`

	_, err := r.db.ExecContext(ctx, query,
		user.ID,
		user.Name,
		user.Email,
		user.PasswordHash,
		user.CreatedAt.UnixNano(),
	)
	if err != nil {
		if isSQLiteUniqueViolation(err) {
			return ErrEmailExists
		}
		return fmt.Errorf("failed to create user: %w", err)
	}

	return nil
}

// GetUserByID retrieves a user by their ID.
func (r *SQLiteRepository) GetUserByID(ctx context.Context, id string) (*model.User, error) {
	query := `SELECT id, name, email, password_hash, created_at FROM users WHERE id = ?`

	user, err := scanSQLiteUser(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user by ID: %w", err)
	}

	return user, nil
}

// GetUserByEmail retrieves a user by their email address.
func (r *SQLiteRepository) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	query := `SELECT id, name, email, password_hash, created_at FROM users WHERE email = ?`

	user, err := scanSQLiteUser(r.db.QueryRowContext(ctx, query, email))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}

	return user, nil
}

// CreateRecipe validates required fields and inserts a new recipe.
func (r *SQLiteRepository) CreateRecipe(ctx context.Context, recipe *model.Recipe) error {
	if err := recipe.Validate(); err != nil {
		return err
	}
	prepareRecipe(recipe)

	ingredients, err := json.Marshal(recipe.Ingredients)
	if err != nil {
		return fmt.Errorf("encode ingredients: %w", err)
	}
	directions, err := json.Marshal(recipe.Directions)
	if err != nil {
		return fmt.Errorf("encode directions: %w", err)
	}

	query := `
		INSERT INTO recipes (id, title, description, rating, time_to_prepare, image, ingredients, directions, user_id, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err = r.db.ExecContext(ctx, query,
		recipe.ID,
		recipe.Title,
		recipe.Description,
		recipe.Rating,
		recipe.TimeToPrepare,
		recipe.Image,
		string(ingredients),
		string(directions),
		sql.NullString{String: recipe.UserID, Valid: recipe.UserID != ""},
		recipe.CreatedAt.UnixNano(),
	)
	if err != nil {
		return fmt.Errorf("failed to create recipe: %w", err)
	}

	return nil
}

// ListRecipes returns every recipe in insertion order with owner projection.
func (r *SQLiteRepository) ListRecipes(ctx context.Context) ([]*model.Recipe, error) {
	query := `
		SELECT ` + recipeColumns + `, u.id, u.name, u.email
		FROM recipes r
		LEFT JOIN users u ON u.id = r.user_id
		ORDER BY r.rowid ASC
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list recipes: %w", err)
	}
	defer rows.Close()

	recipes := make([]*model.Recipe, 0)
	for rows.Next() {
		recipe, err := scanSQLiteRecipe(rows, true)
		if err != nil {
			return nil, fmt.Errorf("failed to scan recipe: %w", err)
		}
		recipes = append(recipes, recipe)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating recipes: %w", err)
	}

	return recipes, nil
}

// GetRecipeByID retrieves a recipe with its owner projection.
func (r *SQLiteRepository) GetRecipeByID(ctx context.Context, id string) (*model.Recipe, error) {
	query := `
		SELECT ` + recipeColumns + `, u.id, u.name, u.email
		FROM recipes r
		LEFT JOIN users u ON u.id = r.user_id
		WHERE r.id = ?
	`

	recipe, err := scanSQLiteRecipe(r.db.QueryRowContext(ctx, query, id), true)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrRecipeNotFound
		}
		return nil, fmt.Errorf("failed to get recipe by ID: %w", err)
	}

	return recipe, nil
}

// DeleteRecipe removes a recipe and returns the deleted row.
func (r *SQLiteRepository) DeleteRecipe(ctx context.Context, id string) (*model.Recipe, error) {
	query := `
		DELETE FROM recipes
		WHERE id = ?
		RETURNING id, title, description, rating, time_to_prepare, image,
		          ingredients, directions, user_id, created_at
	`

	recipe, err := scanSQLiteRecipe(r.db.QueryRowContext(ctx, query, id), false)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrRecipeNotFound
		}
		return nil, fmt.Errorf("failed to delete recipe: %w", err)
	}

	return recipe, nil
}

type sqlScanner interface {
	Scan(dest ...any) error
}

func scanSQLiteUser(row sqlScanner) (*model.User, error) {
	var user model.User
	var createdAt int64

	if err := row.Scan(&user.ID, &user.Name, &user.Email, &user.PasswordHash, &createdAt); err != nil {
		return nil, err
	}

	user.CreatedAt = time.Unix(0, createdAt).UTC()
	return &user, nil
}

func scanSQLiteRecipe(row sqlScanner, withOwner bool) (*model.Recipe, error) {
	var recipe model.Recipe
	var ingredients, directions string
	var userID sql.NullString
	var createdAt int64
	var ownerID, ownerName, ownerEmail sql.NullString

	dest := []any{
		&recipe.ID,
		&recipe.Title,
		&recipe.Description,
		&recipe.Rating,
		&recipe.TimeToPrepare,
		&recipe.Image,
		&ingredients,
		&directions,
		&userID,
		&createdAt,
	}
	if withOwner {
		dest = append(dest, &ownerID, &ownerName, &ownerEmail)
	}

	if err := row.Scan(dest...); err != nil {
		return nil, err
	}

	if err := json.Unmarshal([]byte(ingredients), &recipe.Ingredients); err != nil {
		return nil, fmt.Errorf("decode ingredients: %w", err)
	}
	if err := json.Unmarshal([]byte(directions), &recipe.Directions); err != nil {
		return nil, fmt.Errorf("decode directions: %w", err)
	}

	recipe.UserID = userID.String
	recipe.CreatedAt = time.Unix(0, createdAt).UTC()
	if ownerID.Valid {
		recipe.Owner = &model.Owner{ID: ownerID.String, Name: ownerName.String, Email: ownerEmail.String}
	}

	return &recipe, nil
}

// isSQLiteUniqueViolation checks if the error is a SQLite UNIQUE constraint failure.
func isSQLiteUniqueViolation(err error) bool {
	var sqliteErr *sqlite.Error
	if !errors.As(err, &sqliteErr) {
		return false
	}
	return sqliteErr.Code() == sqlite3.SQLITE_CONSTRAINT_UNIQUE ||
		strings.Contains(sqliteErr.Error(), "UNIQUE constraint failed")
}
