package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/lib/pq"
	"github.com/oklog/ulid/v2"

	"github.com/recipeshare/recipeshare/internal/model"
)

// Common errors for recipe repository operations.
var (
	ErrRecipeNotFound = errors.New("recipe not found")
)

const recipeColumns = `r.id, r.title, r.description, r.rating, r.time_to_prepare, r.image,
		       r.ingredients, r.directions, r.user_id, r.created_at`

// CreateRecipe validates required fields and inserts a new recipe.
// The ID and CreatedAt fields are assigned by this call.
func (r *Repository) CreateRecipe(ctx context.Context, recipe *model.Recipe) error {
	if err := recipe.Validate(); err != nil {
		return err
	}
	prepareRecipe(recipe)

	query := `
		INSERT INTO recipes (id, title, description, rating, time_to_prepare, image, ingredients, directions, user_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err := r.pool.Exec(ctx, query,
		recipe.ID,
		recipe.Title,
		recipe.Description,
		recipe.Rating,
		recipe.TimeToPrepare,
		recipe.Image,
		pq.Array(recipe.Ingredients),
		pq.Array(recipe.Directions),
		nullableString(recipe.UserID),
		recipe.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create recipe: %w", err)
	}

	return nil
}

// ListRecipes returns every recipe in insertion order, each joined with
// its owner's name and email when the owner resolves.
func (r *Repository) ListRecipes(ctx context.Context) ([]*model.Recipe, error) {
	query := `
		SELECT ` + recipeColumns + `, u.id, u.name, u.email
		FROM recipes r
		LEFT JOIN users u ON u.id = r.user_id
		ORDER BY r.created_at ASC, r.id ASC
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list recipes: %w", err)
	}
	defer rows.Close()

	recipes := make([]*model.Recipe, 0)
	for rows.Next() {
		recipe, err := scanRecipeWithOwner(rows)
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
func (r *Repository) GetRecipeByID(ctx context.Context, id string) (*model.Recipe, error) {
	query := `
		SELECT ` + recipeColumns + `, u.id, u.name, u.email
		FROM recipes r
		LEFT JOIN users u ON u.id = r.user_id
		WHERE r.id = $1
	`

	recipe, err := scanRecipeWithOwner(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrRecipeNotFound
		}
		return nil, fmt.Errorf("failed to get recipe by ID: %w", err)
	}

	return recipe, nil
}

// DeleteRecipe removes a recipe and returns the deleted row.
func (r *Repository) DeleteRecipe(ctx context.Context, id string) (*model.Recipe, error) {
	query := `
		DELETE FROM recipes r
		WHERE r.id = $1
		RETURNING ` + recipeColumns

	recipe, err := scanRecipe(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrRecipeNotFound
		}
		return nil, fmt.Errorf("failed to delete recipe: %w", err)
	}

	return recipe, nil
}

func scanRecipe(row pgx.Row) (*model.Recipe, error) {
	var recipe model.Recipe
	var userID *string

	err := row.Scan(
		&recipe.ID,
		&recipe.Title,
		&recipe.Description,
		&recipe.Rating,
		&recipe.TimeToPrepare,
		&recipe.Image,
		pq.Array(&recipe.Ingredients),
		pq.Array(&recipe.Directions),
		&userID,
		&recipe.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if userID != nil {
		recipe.UserID = *userID
	}
	return &recipe, nil
}

func scanRecipeWithOwner(row pgx.Row) (*model.Recipe, error) {
	var recipe model.Recipe
	var userID, ownerID, ownerName, ownerEmail *string

	err := row.Scan(
		&recipe.ID,
		&recipe.Title,
		&recipe.Description,
		&recipe.Rating,
		&recipe.TimeToPrepare,
		&recipe.Image,
		pq.Array(&recipe.Ingredients),
		pq.Array(&recipe.Directions),
		&userID,
		&recipe.CreatedAt,
		&ownerID,
		&ownerName,
		&ownerEmail,
	)
	if err != nil {
		return nil, err
	}

	if userID != nil {
		recipe.UserID = *userID
	}
	if ownerID != nil {
		recipe.Owner = &model.Owner{ID: *ownerID, Name: deref(ownerName), Email: deref(ownerEmail)}
	}
	return &recipe, nil
}

// prepareRecipe fills in generated fields before insert.
// Absent ingredient and direction lists are stored as empty lists.
func prepareRecipe(recipe *model.Recipe) {
	recipe.ID = ulid.Make().String()
	recipe.CreatedAt = time.Now().UTC()
	if recipe.Ingredients == nil {
		recipe.Ingredients = []string{}
	}
	if recipe.Directions == nil {
		recipe.Directions = []string{}
	}
}

func nullableString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
