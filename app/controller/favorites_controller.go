package controller

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"pokedex-api/app/middleware"
	"pokedex-api/models"
	"pokedex-api/repository"
	"pokedex-api/service"
)

// FavoritesController handles HTTP requests for per-user favorites
type FavoritesController struct {
	favoritesService *service.FavoritesService
}

// NewFavoritesController creates a new FavoritesController
func NewFavoritesController(favoritesService *service.FavoritesService) *FavoritesController {
	return &FavoritesController{
		favoritesService: favoritesService,
	}
}

// Toggle handles POST /favorites/:id with body {"action": "mark"|"unmark"}
// Both actions are idempotent; repeated calls are safe.
func (c *FavoritesController) Toggle(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		respondError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	userID, ok := middleware.UserID(r)
	if !ok {
		respondError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	raw := strings.Trim(strings.TrimPrefix(r.URL.Path, "/favorites/"), "/")
	pokemonID, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || pokemonID < 1 {
		respondError(w, http.StatusBadRequest, fmt.Sprintf("Invalid pokemon id %q", raw))
		return
	}

	var req models.FavoriteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, fmt.Sprintf("Invalid request body: %v", err))
		return
	}

	isFavorite, err := c.favoritesService.Toggle(r.Context(), userID, pokemonID, req.Action)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidAction):
			respondError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, repository.ErrNotFound):
			respondError(w, http.StatusNotFound, "Pokemon not found")
		default:
			respondError(w, http.StatusInternalServerError, "Failed to update favorites")
		}
		return
	}

	respondJSON(w, http.StatusOK, models.FavoriteResponse{
		Message:    fmt.Sprintf("Pokemon %sed as favorite", req.Action),
		IsFavorite: isFavorite,
	})
}

// List handles GET /favorites
// Returns the full catalog entries the user has favorited.
func (c *FavoritesController) List(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		respondError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	userID, ok := middleware.UserID(r)
	if !ok {
		respondError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	pokemons, err := c.favoritesService.List(r.Context(), userID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to list favorites")
		return
	}

	respondJSON(w, http.StatusOK, pokemons)
}
