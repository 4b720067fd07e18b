package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"strings"

	"pokedex-api/db"
	"pokedex-api/models"
)

// ErrEmailTaken is returned when registering an email that already exists
var ErrEmailTaken = errors.New("email already registered")

// UserRepository handles database operations for users and their
// favorites sets. Implements UserRepositoryInterface
type UserRepository struct{}

// NewUserRepository creates a new UserRepository
func NewUserRepository() *UserRepository {
	return &UserRepository{}
}

// Ensure UserRepository implements UserRepositoryInterface
var _ UserRepositoryInterface = (*UserRepository)(nil)

// Create inserts a new user and returns the stored record
func (r *UserRepository) Create(ctx context.Context, email, passwordHash string) (*models.User, error) {
	query := `
		INSERT INTO users (email, password_hash)
		VALUES ($1, $2)
		RETURNING id, email, password_hash, created_at
	`

	var user models.User
	err := db.DB.QueryRowContext(ctx, query, email, passwordHash).Scan(
		&user.ID, &user.Email, &user.PasswordHash, &user.CreatedAt,
	)
	if err != nil {
		if strings.Contains(err.Error(), "duplicate key") {
			return nil, ErrEmailTaken
		}
		log.Printf("❌ Error creating user %s: %v", email, err)
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	log.Printf("✓ Created user %s (id=%d)", user.Email, user.ID)
	return &user, nil
}

// GetByEmail retrieves a user by email, or ErrNotFound
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	query := `SELECT id, email, password_hash, created_at FROM users WHERE email = $1`

	var user models.User
	err := db.DB.QueryRowContext(ctx, query, email).Scan(
		&user.ID, &user.Email, &user.PasswordHash, &user.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		log.Printf("❌ Error fetching user by email %s: %v", email, err)
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return &user, nil
}

// GetByID retrieves a user by id, or ErrNotFound
func (r *UserRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	query := `SELECT id, email, password_hash, created_at FROM users WHERE id = $1`

	var user models.User
	err := db.DB.QueryRowContext(ctx, query, id).Scan(
		&user.ID, &user.Email, &user.PasswordHash, &user.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		log.Printf("❌ Error fetching user %d: %v", id, err)
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return &user, nil
}

// AddFavorite marks a pokemon as a favorite for the user. Marking an
// already-favorited pokemon is a no-op, not an error.
func (r *UserRepository) AddFavorite(ctx context.Context, userID, pokemonID int64) error {
	query := `
		INSERT INTO user_favorites (user_id, pokemon_id)
		VALUES ($1, $2)
		ON CONFLICT (user_id, pokemon_id) DO NOTHING
	`

	if _, err := db.DB.ExecContext(ctx, query, userID, pokemonID); err != nil {
		log.Printf("❌ Error adding favorite (user=%d, pokemon=%d): %v", userID, pokemonID, err)
		return fmt.Errorf("failed to add favorite: %w", err)
	}

	return nil
}

// RemoveFavorite unmarks a pokemon for the user. Removing an absent
// favorite is a no-op.
func (r *UserRepository) RemoveFavorite(ctx context.Context, userID, pokemonID int64) error {
	query := `DELETE FROM user_favorites WHERE user_id = $1 AND pokemon_id = $2`

	if _, err := db.DB.ExecContext(ctx, query, userID, pokemonID); err != nil {
		log.Printf("❌ Error removing favorite (user=%d, pokemon=%d): %v", userID, pokemonID, err)
		return fmt.Errorf("failed to remove favorite: %w", err)
	}

	return nil
}

// IsFavorite reports whether the pokemon is in the user's favorites set
func (r *UserRepository) IsFavorite(ctx context.Context, userID, pokemonID int64) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM user_favorites WHERE user_id = $1 AND pokemon_id = $2)`

	var exists bool
	if err := db.DB.QueryRowContext(ctx, query, userID, pokemonID).Scan(&exists); err != nil {
		log.Printf("❌ Error checking favorite (user=%d, pokemon=%d): %v", userID, pokemonID, err)
		return false, fmt.Errorf("failed to check favorite: %w", err)
	}

	return exists, nil
}

// ListFavoriteIDs returns the user's favorites set as an id lookup map
func (r *UserRepository) ListFavoriteIDs(ctx context.Context, userID int64) (map[int64]bool, error) {
	query := `SELECT pokemon_id FROM user_favorites WHERE user_id = $1`

	rows, err := db.DB.QueryContext(ctx, query, userID)
	if err != nil {
		log.Printf("❌ Error listing favorites for user %d: %v", userID, err)
		return nil, fmt.Errorf("failed to list favorites: %w", err)
	}
	defer rows.Close()

	favorites := make(map[int64]bool)
	for rows.Next() {
		var pokemonID int64
		if err := rows.Scan(&pokemonID); err != nil {
			log.Printf("❌ Error scanning favorite row: %v", err)
			return nil, fmt.Errorf("failed to scan favorite: %w", err)
		}
		favorites[pokemonID] = true
	}

	if err := rows.Err(); err != nil {
		log.Printf("❌ Error iterating favorite rows: %v", err)
		return nil, fmt.Errorf("failed to iterate favorites: %w", err)
	}

	return favorites, nil
}
