package controller

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"pokedex-api/app/middleware"
	"pokedex-api/models"
	"pokedex-api/repository"
	"pokedex-api/service"
	"pokedex-api/utils"
)

const (
	maxImportBytes = 10 << 20
	importTimeout  = 2 * time.Minute
)

// PokemonController handles HTTP requests for the catalog
type PokemonController struct {
	pokemonRepo   repository.PokemonRepositoryInterface
	userRepo      repository.UserRepositoryInterface
	importService *service.ImportService
	imageService  *service.ImageService
}

// NewPokemonController creates a new PokemonController
func NewPokemonController(
	pokemonRepo repository.PokemonRepositoryInterface,
	userRepo repository.UserRepositoryInterface,
	importService *service.ImportService,
	imageService *service.ImageService,
) *PokemonController {
	return &PokemonController{
		pokemonRepo:   pokemonRepo,
		userRepo:      userRepo,
		importService: importService,
		imageService:  imageService,
	}
}

// parseFilterParams translates listing query params into a normalized
// filter. Unparsable numeric or boolean values are rejected; absent or
// empty params impose no constraint.
func parseFilterParams(r *http.Request) (repository.PokemonFilterParams, error) {
	q := r.URL.Query()
	var filters repository.PokemonFilterParams

	if name := q.Get("name"); name != "" {
		filters.Name = &name
	}
	if type1 := q.Get("type1"); type1 != "" {
		filters.Type1 = &type1
	}
	if type2 := q.Get("type2"); type2 != "" {
		filters.Type2 = &type2
	}

	legendary, err := utils.ParseOptionalBool("legendary", q.Get("legendary"))
	if err != nil {
		return filters, err
	}
	filters.Legendary = legendary

	minSpeed, err := utils.ParseOptionalInt("minSpeed", q.Get("minSpeed"))
	if err != nil {
		return filters, err
	}
	filters.MinSpeed = minSpeed

	maxSpeed, err := utils.ParseOptionalInt("maxSpeed", q.Get("maxSpeed"))
	if err != nil {
		return filters, err
	}
	filters.MaxSpeed = maxSpeed

	if minSpeed != nil && maxSpeed != nil && *minSpeed > *maxSpeed {
		return filters, fmt.Errorf("minSpeed (%d) must not exceed maxSpeed (%d)", *minSpeed, *maxSpeed)
	}

	return filters, nil
}

// List handles GET /pokemons
// Returns one page of the catalog with the requesting user's favorite
// status attached to every entry.
func (c *PokemonController) List(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		respondError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	userID, ok := middleware.UserID(r)
	if !ok {
		respondError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	filters, err := parseFilterParams(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	q := r.URL.Query()
	page, err := utils.ParsePage(q.Get("page"))
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	limit, err := utils.ParseLimit(q.Get("limit"))
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	favoritesOnly, err := utils.ParseOptionalBool("favorites", q.Get("favorites"))
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if favoritesOnly != nil && *favoritesOnly {
		filters.FavoritesUserID = &userID
	}

	ctx := r.Context()

	total, err := c.pokemonRepo.CountFiltered(ctx, filters)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to query catalog")
		return
	}

	pokemons, err := c.pokemonRepo.Filter(ctx, filters, limit, (page-1)*limit)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to query catalog")
		return
	}

	favorites, err := c.userRepo.ListFavoriteIDs(ctx, userID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to load favorites")
		return
	}

	respondJSON(w, http.StatusOK, models.PageResponse{
		Results: service.AnnotateFavorites(pokemons, favorites),
		Pagination: models.Pagination{
			Total: total,
			Page:  page,
			Limit: limit,
			Pages: utils.TotalPages(total, limit),
		},
	})
}

// Get handles GET /pokemons/:id
func (c *PokemonController) Get(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		respondError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	id, ok := pokemonIDFromPath(w, r.URL.Path, "")
	if !ok {
		return
	}

	pokemon, err := c.pokemonRepo.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			respondError(w, http.StatusNotFound, "Pokemon not found")
			return
		}
		respondError(w, http.StatusInternalServerError, "Failed to get pokemon")
		return
	}

	respondJSON(w, http.StatusOK, pokemon)
}

// Image handles GET /pokemons/:id/image
// Serves an optimized JPEG of the pokemon's artwork. size is "thumb" or
// "medium" (default).
func (c *PokemonController) Image(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		respondError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	id, ok := pokemonIDFromPath(w, r.URL.Path, "/image")
	if !ok {
		return
	}

	pokemon, err := c.pokemonRepo.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			respondError(w, http.StatusNotFound, "Pokemon not found")
			return
		}
		respondError(w, http.StatusInternalServerError, "Failed to get pokemon")
		return
	}

	size := r.URL.Query().Get("size")
	if size == "" {
		size = "medium"
	}

	data, err := c.imageService.GetOptimizedImage(r.Context(), pokemon, size)
	if err != nil {
		log.Printf("❌ Image: failed to optimize image for pokemon %d: %v", id, err)
		respondError(w, http.StatusBadGateway, "Failed to load pokemon image")
		return
	}

	w.Header().Set("Content-Type", "image/jpeg")
	w.Header().Set("Cache-Control", "public, max-age=86400")
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

// Import handles POST /pokemons/import (multipart file upload)
// Responds 201 on a clean import, 207 when some rows were rejected.
func (c *PokemonController) Import(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		respondError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxImportBytes)
	if err := r.ParseMultipartForm(maxImportBytes); err != nil {
		respondError(w, http.StatusBadRequest, fmt.Sprintf("Invalid multipart upload: %v", err))
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		respondError(w, http.StatusBadRequest, `Missing "file" form field`)
		return
	}
	defer file.Close()

	log.Printf("📥 Import: received %s (%d bytes)", header.Filename, header.Size)

	ctx, cancel := context.WithTimeout(r.Context(), importTimeout)
	defer cancel()

	report, err := c.importService.ImportCSV(ctx, file)
	if err != nil {
		// A truncated batch was partially applied; the caller still
		// gets the report of what made it in.
		if errors.Is(err, service.ErrImportTruncated) {
			log.Printf("⚠️  Import truncated: %v", err)
			respondJSON(w, http.StatusMultiStatus, report)
			return
		}
		log.Printf("❌ Import failed: %v", err)
		respondError(w, http.StatusInternalServerError, fmt.Sprintf("Error importing pokemons: %v", err))
		return
	}

	status := http.StatusCreated
	if report.Failed > 0 {
		status = http.StatusMultiStatus
	}
	respondJSON(w, status, report)
}

// pokemonIDFromPath parses the numeric id segment of /pokemons/:id paths,
// optionally stripping a trailing suffix like "/image". Writes the error
// response itself when parsing fails.
func pokemonIDFromPath(w http.ResponseWriter, path, suffix string) (int64, bool) {
	raw := strings.TrimPrefix(path, "/pokemons/")
	if suffix != "" {
		raw = strings.TrimSuffix(raw, suffix)
	}
	raw = strings.Trim(raw, "/")

	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id < 1 {
		respondError(w, http.StatusBadRequest, fmt.Sprintf("Invalid pokemon id %q", raw))
		return 0, false
	}
	return id, true
}
