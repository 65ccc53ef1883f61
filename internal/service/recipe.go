package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/recipeshare/recipeshare/internal/metrics"
	"github.com/recipeshare/recipeshare/internal/model"
	"github.com/recipeshare/recipeshare/internal/repository"
)

// Recipe service errors.
var (
	ErrRecipeNotFound = errors.New("recipe not found")
	ErrInvalidRecipe  = errors.New("invalid recipe")
	ErrNoActor        = errors.New("authenticated user required")
)

// RecipeStore is the recipe persistence used by RecipeService.
type RecipeStore interface {
	CreateRecipe(ctx context.Context, recipe *model.Recipe) error
	ListRecipes(ctx context.Context) ([]*model.Recipe, error)
	GetRecipeByID(ctx context.Context, id string) (*model.Recipe, error)
	DeleteRecipe(ctx context.Context, id string) (*model.Recipe, error)
}

// RecipeService handles recipe business logic.
type RecipeService struct {
	recipes RecipeStore
	metrics metrics.Recorder
}

// NewRecipeService creates a new RecipeService.
func NewRecipeService(recipes RecipeStore, recorder metrics.Recorder) *RecipeService {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	return &RecipeService{
		recipes: recipes,
		metrics: recorder,
	}
}

// AddRecipeInput defines input for adding a recipe.
// Rating is a pointer so an absent rating can be told apart from zero.
type AddRecipeInput struct {
	Title         string
	Description   string
	Rating        *float64
	TimeToPrepare string
	Image         string
	Ingredients   []string
	Directions    []string
}

// AddRecipe stores a new recipe owned by actorID.
// Missing fields are reported as ErrInvalidRecipe wrapping model.ErrMissingField.
func (s *RecipeService) AddRecipe(ctx context.Context, actorID string, input AddRecipeInput) (*model.Recipe, error) {
	if actorID == "" {
		return nil, ErrNoActor
	}
	if input.Rating == nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidRecipe, model.MissingFieldError("rating"))
	}

	recipe := &model.Recipe{
		Title:         input.Title,
		Description:   input.Description,
		Rating:        *input.Rating,
		TimeToPrepare: input.TimeToPrepare,
		Image:         input.Image,
		Ingredients:   input.Ingredients,
		Directions:    input.Directions,
		UserID:        actorID,
	}

	if err := s.recipes.CreateRecipe(ctx, recipe); err != nil {
		if errors.Is(err, model.ErrMissingField) {
			return nil, fmt.Errorf("%w: %w", ErrInvalidRecipe, err)
		}
		return nil, fmt.Errorf("failed to create recipe: %w", err)
	}

	s.metrics.IncRecipeCreated()

	return recipe, nil
}

// ListRecipes returns every recipe with its owner projection.
func (s *RecipeService) ListRecipes(ctx context.Context) ([]*model.Recipe, error) {
	recipes, err := s.recipes.ListRecipes(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list recipes: %w", err)
	}
	return recipes, nil
}

// GetRecipe retrieves a recipe by ID.
func (s *RecipeService) GetRecipe(ctx context.Context, id string) (*model.Recipe, error) {
	recipe, err := s.recipes.GetRecipeByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrRecipeNotFound) {
			return nil, ErrRecipeNotFound
		}
		return nil, fmt.Errorf("failed to get recipe: %w", err)
	}
	return recipe, nil
}

// DeleteRecipe removes a recipe by ID. Any authenticated user may delete
// any recipe; ownership is not checked.
func (s *RecipeService) DeleteRecipe(ctx context.Context, actorID, id string) (*model.Recipe, error) {
	if actorID == "" {
		return nil, ErrNoActor
	}

	recipe, err := s.recipes.DeleteRecipe(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrRecipeNotFound) {
			return nil, ErrRecipeNotFound
		}
		return nil, fmt.Errorf("failed to delete recipe: %w", err)
	}

	s.metrics.IncRecipeDeleted()

	return recipe, nil
}
