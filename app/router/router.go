package router

import (
	"net/http"
	"strings"

	"pokedex-api/app/controller"
	"pokedex-api/app/middleware"
	"pokedex-api/service"
)

type Controllers struct {
	Auth      *controller.AuthController
	Pokemon   *controller.PokemonController
	Favorites *controller.FavoritesController
	Export    *controller.ExportController
}

// statusHandler handles GET /status
func statusHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}

// SetupRoutes builds the route table and wraps it with the auth
// middleware. Every route requires a bearer token except the status
// probe, the auth endpoints and the internal catalog render route.
func SetupRoutes(controllers *Controllers, authService *service.AuthService) http.Handler {
	mux := http.NewServeMux()

	// Status endpoint
	mux.HandleFunc("/status", statusHandler)

	// Auth routes
	mux.HandleFunc("/auth/register", controllers.Auth.Register)
	mux.HandleFunc("/auth/login", controllers.Auth.Login)

	// Catalog listing
	mux.HandleFunc("/pokemons", controllers.Pokemon.List)

	// CSV bulk import
	mux.HandleFunc("/pokemons/import", controllers.Pokemon.Import)

	// Printable catalog export (PDF + internal render route)
	mux.HandleFunc("/pokemons/export", controllers.Export.ExportPDF)
	mux.HandleFunc("/pokemons/export/html", controllers.Export.RenderHTML)

	// Pokemon by id - image endpoint first, then the generic detail route
	mux.HandleFunc("/pokemons/", func(w http.ResponseWriter, r *http.Request) {
		if strings.HasSuffix(r.URL.Path, "/image") {
			controllers.Pokemon.Image(w, r)
			return
		}
		controllers.Pokemon.Get(w, r)
	})

	// Favorites routes
	mux.HandleFunc("/favorites", controllers.Favorites.List)
	mux.HandleFunc("/favorites/", controllers.Favorites.Toggle)

	publicPaths := []string{
		"/status",
		"/auth/register",
		"/auth/login",
		"/pokemons/export/html",
	}

	return middleware.RequireAuth(authService, publicPaths)(mux)
}
