package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/recipeshare/recipeshare/internal/auth"
	"github.com/recipeshare/recipeshare/internal/handler/dto"
	"github.com/recipeshare/recipeshare/internal/middleware"
	"github.com/recipeshare/recipeshare/internal/model"
	"github.com/recipeshare/recipeshare/internal/service"
)

// RecipeHandler handles HTTP requests for recipe operations.
type RecipeHandler struct {
	svc    *service.RecipeService
	logger *slog.Logger
}

// NewRecipeHandler creates a new RecipeHandler.
func NewRecipeHandler(svc *service.RecipeService, logger *slog.Logger) *RecipeHandler {
	return &RecipeHandler{
		svc:    svc,
		logger: logger,
	}
}

// Add handles POST /api/recipe/add. Requires the auth middleware.
func (h *RecipeHandler) Add(w http.ResponseWriter, r *http.Request) {
	var req dto.AddRecipeRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	actorID := auth.UserIDFromContext(r.Context())

	recipe, err := h.svc.AddRecipe(r.Context(), actorID, service.AddRecipeInput{
		Title:         req.Title,
		Description:   req.Description,
		Rating:        req.Rating,
		TimeToPrepare: req.TimeToPrepare,
		Image:         req.Image,
		Ingredients:   req.Ingredients,
		Directions:    req.Directions,
	})
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	h.logger.Info("recipe_created",
		"recipe_id", recipe.ID,
		"user_id", actorID,
		"image_bytes", len(recipe.Image),
	)

	writeJSON(w, http.StatusCreated, dto.AddRecipeResponse{
		Message: "Recipe added successfully",
		Recipe:  dto.ToCreatedRecipeResponse(recipe),
	})
}

// List handles GET /api/recipe.
func (h *RecipeHandler) List(w http.ResponseWriter, r *http.Request) {
	recipes, err := h.svc.ListRecipes(r.Context())
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ToRecipeListResponse(recipes))
}

// Get handles GET /api/recipe/{id}.
func (h *RecipeHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	recipe, err := h.svc.GetRecipe(r.Context(), id)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ToRecipeResponse(recipe))
}

// Delete handles DELETE /api/recipe/{id}. Requires the auth middleware.
func (h *RecipeHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	actorID := auth.UserIDFromContext(r.Context())

	recipe, err := h.svc.DeleteRecipe(r.Context(), actorID, id)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	h.logger.Info("recipe_deleted",
		"recipe_id", recipe.ID,
		"user_id", actorID,
		"owner_id", recipe.UserID,
	)

	writeMessage(w, http.StatusOK, "Recipe deleted successfully")
}

// handleServiceError maps service errors to HTTP responses.
func (h *RecipeHandler) handleServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var fieldErr *model.FieldError
	switch {
	case errors.As(err, &fieldErr):
		// Clients validate the form first; a missing field here is reported
		// like any other failed insert.
		h.logger.Warn("recipe_rejected",
			"missing_field", fieldErr.Field,
			"request_id", middleware.GetRequestID(r.Context()),
		)
		writeMessage(w, http.StatusInternalServerError, "Server error")
	case errors.Is(err, service.ErrRecipeNotFound):
		writeMessage(w, http.StatusNotFound, "Recipe not found")
	case errors.Is(err, service.ErrNoActor):
		writeMessage(w, http.StatusUnauthorized, "No token, authorization denied")
	default:
		h.logger.Error("internal_error",
			"error", err,
			"request_id", middleware.GetRequestID(r.Context()),
		)
		writeMessage(w, http.StatusInternalServerError, "Server error")
	}
}
