package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pokedex-api/models"
	"pokedex-api/repository"
)

func seedCatalog() *fakePokemonRepo {
	return newFakePokemonRepo(
		models.Pokemon{ID: 1, Name: "Bulbasaur", Type1: "Grass", Speed: 45},
		models.Pokemon{ID: 4, Name: "Charmander", Type1: "Fire", Speed: 65},
		models.Pokemon{ID: 7, Name: "Squirtle", Type1: "Water", Speed: 43},
	)
}

func TestToggleMarkIsIdempotent(t *testing.T) {
	userRepo := newFakeUserRepo()
	svc := NewFavoritesService(userRepo, seedCatalog())
	ctx := context.Background()

	isFavorite, err := svc.Toggle(ctx, 1, 4, ActionMark)
	require.NoError(t, err)
	assert.True(t, isFavorite)

	// Marking again must not change the set or fail.
	isFavorite, err = svc.Toggle(ctx, 1, 4, ActionMark)
	require.NoError(t, err)
	assert.True(t, isFavorite)

	favorites, err := userRepo.ListFavoriteIDs(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, map[int64]bool{4: true}, favorites)
}

func TestToggleUnmarkRestoresPreMarkState(t *testing.T) {
	userRepo := newFakeUserRepo()
	svc := NewFavoritesService(userRepo, seedCatalog())
	ctx := context.Background()

	_, err := svc.Toggle(ctx, 1, 7, ActionMark)
	require.NoError(t, err)

	isFavorite, err := svc.Toggle(ctx, 1, 7, ActionUnmark)
	require.NoError(t, err)
	assert.False(t, isFavorite)

	favorites, err := userRepo.ListFavoriteIDs(ctx, 1)
	require.NoError(t, err)
	assert.Empty(t, favorites)

	// Unmarking an absent favorite is a no-op, not an error.
	isFavorite, err = svc.Toggle(ctx, 1, 7, ActionUnmark)
	require.NoError(t, err)
	assert.False(t, isFavorite)
}

func TestToggleRejectsUnknownAction(t *testing.T) {
	svc := NewFavoritesService(newFakeUserRepo(), seedCatalog())

	_, err := svc.Toggle(context.Background(), 1, 4, "favorite")
	assert.ErrorIs(t, err, ErrInvalidAction)
}

func TestToggleUnknownPokemon(t *testing.T) {
	svc := NewFavoritesService(newFakeUserRepo(), seedCatalog())

	_, err := svc.Toggle(context.Background(), 1, 999, ActionMark)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestListReturnsEntriesOrderedByID(t *testing.T) {
	userRepo := newFakeUserRepo()
	svc := NewFavoritesService(userRepo, seedCatalog())
	ctx := context.Background()

	_, err := svc.Toggle(ctx, 1, 7, ActionMark)
	require.NoError(t, err)
	_, err = svc.Toggle(ctx, 1, 1, ActionMark)
	require.NoError(t, err)

	pokemons, err := svc.List(ctx, 1)
	require.NoError(t, err)
	require.Len(t, pokemons, 2)
	assert.Equal(t, int64(1), pokemons[0].ID)
	assert.Equal(t, int64(7), pokemons[1].ID)
}

func TestListEmptyFavorites(t *testing.T) {
	svc := NewFavoritesService(newFakeUserRepo(), seedCatalog())

	pokemons, err := svc.List(context.Background(), 42)
	require.NoError(t, err)
	assert.Empty(t, pokemons)
}

func TestAnnotateFavorites(t *testing.T) {
	pokemons := []models.Pokemon{
		{ID: 1, Name: "Bulbasaur"},
		{ID: 4, Name: "Charmander"},
	}

	results := AnnotateFavorites(pokemons, map[int64]bool{1: true})
	require.Len(t, results, 2)
	assert.True(t, results[0].IsFavorite)
	assert.False(t, results[1].IsFavorite)

	// The empty set annotates everything false.
	results = AnnotateFavorites(pokemons, map[int64]bool{})
	assert.False(t, results[0].IsFavorite)
	assert.False(t, results[1].IsFavorite)

	// The input slice is never mutated; results are copies.
	results[0].Name = "changed"
	assert.Equal(t, "Bulbasaur", pokemons[0].Name)
}
