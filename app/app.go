package app

import (
	"fmt"
	"net/http"
	"os"

	"pokedex-api/app/controller"
	"pokedex-api/app/router"
	"pokedex-api/db"
	"pokedex-api/repository"
	"pokedex-api/service"
)

// Initialize initializes the application and returns its HTTP handler
func Initialize() (http.Handler, error) {
	// Initialize database connection
	if err := db.InitDB(); err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	// Apply schema migrations
	if err := db.Migrate(); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	// Initialize repositories
	pokemonRepo := repository.NewPokemonRepository()
	userRepo := repository.NewUserRepository()

	// Initialize services
	authService, err := service.NewAuthService(userRepo)
	if err != nil {
		return nil, err
	}
	importService := service.NewImportService(pokemonRepo)
	imageService := service.NewImageService()
	favoritesService := service.NewFavoritesService(userRepo, pokemonRepo)

	// The PDF generator navigates headless Chrome to the render route on
	// the loopback interface.
	baseURL := os.Getenv("EXPORT_BASE_URL")
	if baseURL == "" {
		port := os.Getenv("PORT")
		if port == "" {
			port = "8080"
		}
		baseURL = "http://127.0.0.1:" + port
	}
	catalogService := service.NewCatalogService(pokemonRepo, baseURL)

	// Create controllers
	controllers := &router.Controllers{
		Auth:      controller.NewAuthController(authService),
		Pokemon:   controller.NewPokemonController(pokemonRepo, userRepo, importService, imageService),
		Favorites: controller.NewFavoritesController(favoritesService),
		Export:    controller.NewExportController(catalogService),
	}

	return router.SetupRoutes(controllers, authService), nil
}
