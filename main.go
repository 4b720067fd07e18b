package main

import (
	"log"
	"net/http"
	"os"

	"github.com/joho/godotenv"

	"pokedex-api/app"
	"pokedex-api/db"
)

func main() {
	// Load .env file in development (ignores error if file doesn't exist)
	// In production, variables should be set directly
	if os.Getenv("ENV") != "production" {
		if err := godotenv.Load(); err != nil {
			log.Printf("Warning: .env file not found, using system environment variables")
		}
	}

	// Initialize application
	handler, err := app.Initialize()
	if err != nil {
		log.Fatal(err)
	}
	defer db.CloseDB()

	// Listen on 0.0.0.0 to accept connections from all interfaces
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	addr := "0.0.0.0:" + port
	log.Printf("Server starting on %s", addr)

	if err := http.ListenAndServe(addr, handler); err != nil {
		log.Fatalf("Server failed to start: %v", err)
	}
}
