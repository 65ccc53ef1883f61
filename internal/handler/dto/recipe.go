package dto

import "github.com/recipeshare/recipeshare/internal/model"

// AddRecipeRequest represents the request body for adding a recipe.
// The "discription" spelling is part of the public wire format.
type AddRecipeRequest struct {
	Title         string   `json:"title"`
	Description   string   `json:"discription"`
	Rating        *float64 `json:"rating"`
	TimeToPrepare string   `json:"timeToPrepare"`
	Image         string   `json:"image"`
	Ingredients   []string `json:"ingredients"`
	Directions    []string `json:"directions"`
}

// RecipeResponse represents a recipe in API responses.
//
// User is the owner ID string right after creation, an OwnerResponse on
// reads when the owner resolves, and null otherwise.
type RecipeResponse struct {
	ID            string   `json:"_id"`
	Title         string   `json:"title"`
	Description   string   `json:"discription"`
	Rating        float64  `json:"rating"`
	TimeToPrepare string   `json:"timeToPrepare"`
	Image         string   `json:"image"`
	Ingredients   []string `json:"ingredients"`
	Directions    []string `json:"directions"`
	User          any      `json:"user"`
}

// OwnerResponse is the owner projection embedded in read responses.
type OwnerResponse struct {
	ID    string `json:"_id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// AddRecipeResponse is returned after a recipe is created.
type AddRecipeResponse struct {
	Message string          `json:"message"`
	Recipe  *RecipeResponse `json:"recipe"`
}

// ToCreatedRecipeResponse converts a freshly stored recipe. The owner is
// reported by ID only.
func ToCreatedRecipeResponse(recipe *model.Recipe) *RecipeResponse {
	resp := baseRecipeResponse(recipe)
	if recipe.HasOwner() {
		resp.User = recipe.UserID
	}
	return resp
}

// ToRecipeResponse converts a recipe read from the store, embedding the
// owner projection when it resolved.
func ToRecipeResponse(recipe *model.Recipe) *RecipeResponse {
	resp := baseRecipeResponse(recipe)
	if recipe.Owner != nil {
		resp.User = &OwnerResponse{
			ID:    recipe.Owner.ID,
			Name:  recipe.Owner.Name,
			Email: recipe.Owner.Email,
		}
	}
	return resp
}

// ToRecipeListResponse converts a slice of recipes. The result is never nil
// so an empty list encodes as [].
func ToRecipeListResponse(recipes []*model.Recipe) []*RecipeResponse {
	responses := make([]*RecipeResponse, len(recipes))
	for i, recipe := range recipes {
		responses[i] = ToRecipeResponse(recipe)
	}
	return responses
}

func baseRecipeResponse(recipe *model.Recipe) *RecipeResponse {
	return &RecipeResponse{
		ID:            recipe.ID,
		Title:         recipe.Title,
		Description:   recipe.Description,
		Rating:        recipe.Rating,
		TimeToPrepare: recipe.TimeToPrepare,
		Image:         recipe.Image,
		Ingredients:   nonNil(recipe.Ingredients),
		Directions:    nonNil(recipe.Directions),
	}
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
