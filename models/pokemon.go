package models

// Pokemon represents a single catalog entry as stored in the database.
// The external id comes from the imported dataset and is unique across
// the catalog.
type Pokemon struct {
	ID         int64  `json:"id"`
	Name       string `json:"name"`
	Type1      string `json:"type1"`
	Type2      string `json:"type2,omitempty"`
	Total      int    `json:"total"`
	HP         int    `json:"hp"`
	Attack     int    `json:"attack"`
	Defense    int    `json:"defense"`
	SpAttack   int    `json:"spAttack"`
	SpDefense  int    `json:"spDefense"`
	Speed      int    `json:"speed"`
	Generation int    `json:"generation"`
	Legendary  bool   `json:"legendary"`
	Image      string `json:"image"`
	YtbURL     string `json:"ytbUrl,omitempty"`
}

// PokemonResult is a Pokemon decorated with the requesting user's
// favorite status. The flag is computed per request and never persisted
// on the catalog entry itself.
type PokemonResult struct {
	Pokemon
	IsFavorite bool `json:"is_favorite"`
}

// Pagination holds the paging metadata returned alongside a listing page.
type Pagination struct {
	Total int `json:"total"`
	Page  int `json:"page"`
	Limit int `json:"limit"`
	Pages int `json:"pages"`
}

// PageResponse is the response body for GET /pokemons.
type PageResponse struct {
	Results    []PokemonResult `json:"results"`
	Pagination Pagination      `json:"pagination"`
}
