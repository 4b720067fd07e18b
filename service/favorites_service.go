package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sort"

	"pokedex-api/models"
	"pokedex-api/repository"
)

// Toggle actions accepted by POST /favorites/:id
const (
	ActionMark   = "mark"
	ActionUnmark = "unmark"
)

// ErrInvalidAction is returned for toggle actions other than mark/unmark
var ErrInvalidAction = errors.New(`action must be "mark" or "unmark"`)

// FavoritesService manages per-user favorites sets
type FavoritesService struct {
	userRepo    repository.UserRepositoryInterface
	pokemonRepo repository.PokemonRepositoryInterface
}

// NewFavoritesService creates a new FavoritesService
func NewFavoritesService(userRepo repository.UserRepositoryInterface, pokemonRepo repository.PokemonRepositoryInterface) *FavoritesService {
	return &FavoritesService{
		userRepo:    userRepo,
		pokemonRepo: pokemonRepo,
	}
}

// Toggle marks or unmarks a pokemon in the user's favorites set and
// returns the resulting membership state. Both directions are idempotent:
// marking an existing favorite or unmarking an absent one is a no-op.
// Returns repository.ErrNotFound when the pokemon does not exist.
func (s *FavoritesService) Toggle(ctx context.Context, userID, pokemonID int64, action string) (bool, error) {
	if action != ActionMark && action != ActionUnmark {
		return false, ErrInvalidAction
	}

	if _, err := s.pokemonRepo.GetByID(ctx, pokemonID); err != nil {
		return false, err
	}

	if action == ActionMark {
		if err := s.userRepo.AddFavorite(ctx, userID, pokemonID); err != nil {
			return false, err
		}
		log.Printf("⭐ User %d marked pokemon %d as favorite", userID, pokemonID)
		return true, nil
	}

	if err := s.userRepo.RemoveFavorite(ctx, userID, pokemonID); err != nil {
		return false, err
	}
	log.Printf("✓ User %d unmarked pokemon %d", userID, pokemonID)
	return false, nil
}

// List returns the full catalog entries for the user's favorites set,
// ordered by ascending id
func (s *FavoritesService) List(ctx context.Context, userID int64) ([]models.Pokemon, error) {
	favorites, err := s.userRepo.ListFavoriteIDs(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(favorites) == 0 {
		return []models.Pokemon{}, nil
	}

	ids := make([]int64, 0, len(favorites))
	for id := range favorites {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	pokemons, err := s.pokemonRepo.GetByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to load favorite pokemons: %w", err)
	}
	return pokemons, nil
}

// AnnotateFavorites overlays favorite status onto catalog entries. The
// input slice and its entries are left untouched; each result is a copy
// with is_favorite set from set membership.
func AnnotateFavorites(pokemons []models.Pokemon, favorites map[int64]bool) []models.PokemonResult {
	results := make([]models.PokemonResult, 0, len(pokemons))
	for _, p := range pokemons {
		results = append(results, models.PokemonResult{
			Pokemon:    p,
			IsFavorite: favorites[p.ID],
		})
	}
	return results
}
