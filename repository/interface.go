package repository

import (
	"context"

	"pokedex-api/models"
)

// PokemonRepositoryInterface defines the contract for catalog repository operations
type PokemonRepositoryInterface interface {
	CountFiltered(ctx context.Context, filters PokemonFilterParams) (int, error)
	Filter(ctx context.Context, filters PokemonFilterParams, limit, offset int) ([]models.Pokemon, error)
	GetByID(ctx context.Context, id int64) (*models.Pokemon, error)
	GetByIDs(ctx context.Context, ids []int64) ([]models.Pokemon, error)
	MaxID(ctx context.Context) (int64, error)
	Insert(ctx context.Context, pokemon *models.Pokemon) (bool, error)
}

// UserRepositoryInterface defines the contract for user and favorites operations
type UserRepositoryInterface interface {
	Create(ctx context.Context, email, passwordHash string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByID(ctx context.Context, id int64) (*models.User, error)
	AddFavorite(ctx context.Context, userID, pokemonID int64) error
	RemoveFavorite(ctx context.Context, userID, pokemonID int64) error
	IsFavorite(ctx context.Context, userID, pokemonID int64) (bool, error)
	ListFavoriteIDs(ctx context.Context, userID int64) (map[int64]bool, error)
}
