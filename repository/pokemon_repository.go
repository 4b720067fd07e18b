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

// ErrNotFound is returned when a requested catalog entry does not exist
var ErrNotFound = errors.New("not found")

// PokemonRepository handles database operations for the catalog
// Implements PokemonRepositoryInterface
type PokemonRepository struct{}

// NewPokemonRepository creates a new PokemonRepository
func NewPokemonRepository() *PokemonRepository {
	return &PokemonRepository{}
}

// Ensure PokemonRepository implements PokemonRepositoryInterface
var _ PokemonRepositoryInterface = (*PokemonRepository)(nil)

// PokemonFilterParams represents optional filter parameters for catalog queries.
// Nil fields impose no constraint. FavoritesUserID restricts results to the
// given user's favorites set; an empty set matches nothing.
type PokemonFilterParams struct {
	Name            *string
	Type1           *string
	Type2           *string
	Legendary       *bool
	MinSpeed        *int
	MaxSpeed        *int
	FavoritesUserID *int64
}

const pokemonColumns = `id, name, type1, COALESCE(type2, '') as type2, total, hp, attack, defense,
	       sp_attack, sp_defense, speed, generation, legendary, image,
	       COALESCE(ytb_url, '') as ytb_url`

// buildFilterConditions translates filter params into SQL conditions and
// positional arguments, starting at $1. Kept free of database access so the
// predicate construction is testable on its own.
func buildFilterConditions(filters PokemonFilterParams) ([]string, []interface{}) {
	var conditions []string
	var args []interface{}
	argIndex := 1

	if filters.Name != nil && *filters.Name != "" {
		conditions = append(conditions, fmt.Sprintf("name ILIKE $%d", argIndex))
		args = append(args, "%"+*filters.Name+"%")
		argIndex++
	}

	if filters.Type1 != nil && *filters.Type1 != "" {
		conditions = append(conditions, fmt.Sprintf("type1 = $%d", argIndex))
		args = append(args, *filters.Type1)
		argIndex++
	}

	if filters.Type2 != nil && *filters.Type2 != "" {
		conditions = append(conditions, fmt.Sprintf("type2 = $%d", argIndex))
		args = append(args, *filters.Type2)
		argIndex++
	}

	if filters.Legendary != nil {
		conditions = append(conditions, fmt.Sprintf("legendary = $%d", argIndex))
		args = append(args, *filters.Legendary)
		argIndex++
	}

	if filters.MinSpeed != nil {
		conditions = append(conditions, fmt.Sprintf("speed >= $%d", argIndex))
		args = append(args, *filters.MinSpeed)
		argIndex++
	}

	if filters.MaxSpeed != nil {
		conditions = append(conditions, fmt.Sprintf("speed <= $%d", argIndex))
		args = append(args, *filters.MaxSpeed)
		argIndex++
	}

	if filters.FavoritesUserID != nil {
		conditions = append(conditions, fmt.Sprintf("id IN (SELECT pokemon_id FROM user_favorites WHERE user_id = $%d)", argIndex))
		args = append(args, *filters.FavoritesUserID)
		argIndex++
	}

	return conditions, args
}

// whereClause joins conditions into a WHERE clause, or returns an empty
// string when there are none.
func whereClause(conditions []string) string {
	if len(conditions) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(conditions, " AND ")
}

// CountFiltered returns the number of catalog entries matching the filters
func (r *PokemonRepository) CountFiltered(ctx context.Context, filters PokemonFilterParams) (int, error) {
	conditions, args := buildFilterConditions(filters)
	query := "SELECT COUNT(*) FROM pokemons" + whereClause(conditions)

	var total int
	if err := db.DB.QueryRowContext(ctx, query, args...).Scan(&total); err != nil {
		log.Printf("❌ Error counting pokemons: %v", err)
		return 0, fmt.Errorf("failed to count pokemons: %w", err)
	}

	return total, nil
}

// Filter retrieves the window [offset, offset+limit) of catalog entries
// matching the filters, ordered by ascending external id so pagination is
// stable under concurrent inserts.
func (r *PokemonRepository) Filter(ctx context.Context, filters PokemonFilterParams, limit, offset int) ([]models.Pokemon, error) {
	conditions, args := buildFilterConditions(filters)

	query := "SELECT " + pokemonColumns + " FROM pokemons" + whereClause(conditions)
	query += fmt.Sprintf(" ORDER BY id ASC LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	log.Printf("🔍 Filtering pokemons with %d conditions (limit=%d, offset=%d)", len(conditions), limit, offset)

	rows, err := db.DB.QueryContext(ctx, query, args...)
	if err != nil {
		log.Printf("❌ Error filtering pokemons: %v", err)
		return nil, fmt.Errorf("failed to filter pokemons: %w", err)
	}
	defer rows.Close()

	return scanPokemons(rows)
}

// GetByID retrieves a single catalog entry, or ErrNotFound
func (r *PokemonRepository) GetByID(ctx context.Context, id int64) (*models.Pokemon, error) {
	query := "SELECT " + pokemonColumns + " FROM pokemons WHERE id = $1"

	var p models.Pokemon
	err := db.DB.QueryRowContext(ctx, query, id).Scan(
		&p.ID, &p.Name, &p.Type1, &p.Type2, &p.Total, &p.HP, &p.Attack, &p.Defense,
		&p.SpAttack, &p.SpDefense, &p.Speed, &p.Generation, &p.Legendary, &p.Image,
		&p.YtbURL,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		log.Printf("❌ Error fetching pokemon %d: %v", id, err)
		return nil, fmt.Errorf("failed to get pokemon: %w", err)
	}

	return &p, nil
}

// GetByIDs retrieves the catalog entries for the given ids, ordered by
// ascending id. Unknown ids are silently absent from the result.
func (r *PokemonRepository) GetByIDs(ctx context.Context, ids []int64) ([]models.Pokemon, error) {
	if len(ids) == 0 {
		return []models.Pokemon{}, nil
	}

	placeholders := make([]string, len(ids))
	args := make([]interface{}, len(ids))
	for i, id := range ids {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
		args[i] = id
	}

	query := "SELECT " + pokemonColumns + " FROM pokemons WHERE id IN (" +
		strings.Join(placeholders, ", ") + ") ORDER BY id ASC"

	rows, err := db.DB.QueryContext(ctx, query, args...)
	if err != nil {
		log.Printf("❌ Error fetching pokemons by ids: %v", err)
		return nil, fmt.Errorf("failed to get pokemons by ids: %w", err)
	}
	defer rows.Close()

	return scanPokemons(rows)
}

// MaxID returns the highest external id in the catalog, 0 when empty
func (r *PokemonRepository) MaxID(ctx context.Context) (int64, error) {
	var maxID sql.NullInt64
	if err := db.DB.QueryRowContext(ctx, `SELECT MAX(id) FROM pokemons`).Scan(&maxID); err != nil {
		return 0, fmt.Errorf("failed to get max pokemon id: %w", err)
	}

	if !maxID.Valid {
		return 0, nil
	}
	return maxID.Int64, nil
}

// Insert adds a single catalog entry. Returns false without error when the
// id already exists (duplicate rows are skipped, not overwritten).
func (r *PokemonRepository) Insert(ctx context.Context, pokemon *models.Pokemon) (bool, error) {
	query := `
		INSERT INTO pokemons (
			id, name, type1, type2, total, hp, attack, defense,
			sp_attack, sp_defense, speed, generation, legendary, image, ytb_url
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		ON CONFLICT (id) DO NOTHING
	`

	result, err := db.DB.ExecContext(ctx, query,
		pokemon.ID, pokemon.Name, pokemon.Type1, pokemon.Type2, pokemon.Total,
		pokemon.HP, pokemon.Attack, pokemon.Defense, pokemon.SpAttack,
		pokemon.SpDefense, pokemon.Speed, pokemon.Generation, pokemon.Legendary,
		pokemon.Image, pokemon.YtbURL,
	)
	if err != nil {
		log.Printf("❌ Error inserting pokemon %d (%s): %v", pokemon.ID, pokemon.Name, err)
		return false, fmt.Errorf("failed to insert pokemon: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		log.Printf("⚠️  Warning: could not get rows affected: %v", err)
		return true, nil
	}

	return rowsAffected > 0, nil
}

// scanPokemons drains rows into a slice. Scan errors on individual rows
// abort the read so a partial page is never returned as a full one.
func scanPokemons(rows *sql.Rows) ([]models.Pokemon, error) {
	pokemons := []models.Pokemon{}
	for rows.Next() {
		var p models.Pokemon
		err := rows.Scan(
			&p.ID, &p.Name, &p.Type1, &p.Type2, &p.Total, &p.HP, &p.Attack, &p.Defense,
			&p.SpAttack, &p.SpDefense, &p.Speed, &p.Generation, &p.Legendary, &p.Image,
			&p.YtbURL,
		)
		if err != nil {
			log.Printf("❌ Error scanning pokemon row: %v", err)
			return nil, fmt.Errorf("failed to scan pokemon: %w", err)
		}
		pokemons = append(pokemons, p)
	}

	if err := rows.Err(); err != nil {
		log.Printf("❌ Error iterating pokemon rows: %v", err)
		return nil, fmt.Errorf("failed to iterate pokemons: %w", err)
	}

	return pokemons, nil
}
