package service

import (
	"context"
	"sort"
	"strings"

	"pokedex-api/models"
	"pokedex-api/repository"
)

// fakePokemonRepo is an in-memory PokemonRepositoryInterface for tests
type fakePokemonRepo struct {
	pokemons  map[int64]models.Pokemon
	favorites map[int64]map[int64]bool // user id -> favorites set, for FavoritesUserID filtering
}

func newFakePokemonRepo(pokemons ...models.Pokemon) *fakePokemonRepo {
	repo := &fakePokemonRepo{
		pokemons:  make(map[int64]models.Pokemon),
		favorites: make(map[int64]map[int64]bool),
	}
	for _, p := range pokemons {
		repo.pokemons[p.ID] = p
	}
	return repo
}

var _ repository.PokemonRepositoryInterface = (*fakePokemonRepo)(nil)

func (r *fakePokemonRepo) matches(p models.Pokemon, filters repository.PokemonFilterParams) bool {
	if filters.Name != nil && *filters.Name != "" &&
		!strings.Contains(strings.ToLower(p.Name), strings.ToLower(*filters.Name)) {
		return false
	}
	if filters.Type1 != nil && *filters.Type1 != "" && p.Type1 != *filters.Type1 {
		return false
	}
	if filters.Type2 != nil && *filters.Type2 != "" && p.Type2 != *filters.Type2 {
		return false
	}
	if filters.Legendary != nil && p.Legendary != *filters.Legendary {
		return false
	}
	if filters.MinSpeed != nil && p.Speed < *filters.MinSpeed {
		return false
	}
	if filters.MaxSpeed != nil && p.Speed > *filters.MaxSpeed {
		return false
	}
	if filters.FavoritesUserID != nil && !r.favorites[*filters.FavoritesUserID][p.ID] {
		return false
	}
	return true
}

func (r *fakePokemonRepo) sortedMatches(filters repository.PokemonFilterParams) []models.Pokemon {
	var matched []models.Pokemon
	for _, p := range r.pokemons {
		if r.matches(p, filters) {
			matched = append(matched, p)
		}
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].ID < matched[j].ID })
	return matched
}

func (r *fakePokemonRepo) CountFiltered(_ context.Context, filters repository.PokemonFilterParams) (int, error) {
	return len(r.sortedMatches(filters)), nil
}

func (r *fakePokemonRepo) Filter(_ context.Context, filters repository.PokemonFilterParams, limit, offset int) ([]models.Pokemon, error) {
	matched := r.sortedMatches(filters)
	if offset >= len(matched) {
		return []models.Pokemon{}, nil
	}
	end := offset + limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[offset:end], nil
}

func (r *fakePokemonRepo) GetByID(_ context.Context, id int64) (*models.Pokemon, error) {
	p, ok := r.pokemons[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &p, nil
}

func (r *fakePokemonRepo) GetByIDs(_ context.Context, ids []int64) ([]models.Pokemon, error) {
	var result []models.Pokemon
	for _, id := range ids {
		if p, ok := r.pokemons[id]; ok {
			result = append(result, p)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (r *fakePokemonRepo) MaxID(_ context.Context) (int64, error) {
	var max int64
	for id := range r.pokemons {
		if id > max {
			max = id
		}
	}
	return max, nil
}

func (r *fakePokemonRepo) Insert(_ context.Context, pokemon *models.Pokemon) (bool, error) {
	if _, exists := r.pokemons[pokemon.ID]; exists {
		return false, nil
	}
	r.pokemons[pokemon.ID] = *pokemon
	return true, nil
}

// fakeUserRepo is an in-memory UserRepositoryInterface for tests
type fakeUserRepo struct {
	nextID    int64
	byID      map[int64]*models.User
	byEmail   map[string]*models.User
	favorites map[int64]map[int64]bool
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{
		byID:      make(map[int64]*models.User),
		byEmail:   make(map[string]*models.User),
		favorites: make(map[int64]map[int64]bool),
	}
}

var _ repository.UserRepositoryInterface = (*fakeUserRepo)(nil)

func (r *fakeUserRepo) Create(_ context.Context, email, passwordHash string) (*models.User, error) {
	if _, exists := r.byEmail[email]; exists {
		return nil, repository.ErrEmailTaken
	}
	r.nextID++
	user := &models.User{ID: r.nextID, Email: email, PasswordHash: passwordHash}
	r.byID[user.ID] = user
	r.byEmail[email] = user
	return user, nil
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*models.User, error) {
	user, ok := r.byEmail[email]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return user, nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id int64) (*models.User, error) {
	user, ok := r.byID[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return user, nil
}

func (r *fakeUserRepo) AddFavorite(_ context.Context, userID, pokemonID int64) error {
	if r.favorites[userID] == nil {
		r.favorites[userID] = make(map[int64]bool)
	}
	r.favorites[userID][pokemonID] = true
	return nil
}

func (r *fakeUserRepo) RemoveFavorite(_ context.Context, userID, pokemonID int64) error {
	delete(r.favorites[userID], pokemonID)
	return nil
}

func (r *fakeUserRepo) IsFavorite(_ context.Context, userID, pokemonID int64) (bool, error) {
	return r.favorites[userID][pokemonID], nil
}

func (r *fakeUserRepo) ListFavoriteIDs(_ context.Context, userID int64) (map[int64]bool, error) {
	set := make(map[int64]bool, len(r.favorites[userID]))
	for id := range r.favorites[userID] {
		set[id] = true
	}
	return set, nil
}
