package service

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/jpeg"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/disintegration/imaging"

	"pokedex-api/models"
)

const (
	imageCacheDir = "cache/images"
	// Quality settings
	qualityThumb  = 60
	qualityMedium = 75
	// Size settings (max dimension)
	maxSizeThumb  = 300
	maxSizeMedium = 800

	maxImageBytes = 5 << 20
)

// ImageService fetches pokemon artwork from its source URL, optimizes it
// and serves it from a local disk cache
type ImageService struct {
	client *http.Client
}

// NewImageService creates a new ImageService
func NewImageService() *ImageService {
	return &ImageService{
		client: &http.Client{Timeout: 15 * time.Second},
	}
}

// cachePath returns the cache file location for a pokemon id and size
func cachePath(pokemonID int64, size string) string {
	return filepath.Join(imageCacheDir, fmt.Sprintf("pokemon_%d_%s.jpg", pokemonID, size))
}

// GetOptimizedImage returns an optimized JPEG of the pokemon's artwork,
// fetching and converting it on the first request and caching the result
// on disk afterwards.
func (s *ImageService) GetOptimizedImage(ctx context.Context, pokemon *models.Pokemon, size string) ([]byte, error) {
	if pokemon.Image == "" {
		return nil, fmt.Errorf("pokemon %d has no image reference", pokemon.ID)
	}

	path := cachePath(pokemon.ID, size)
	if data, err := os.ReadFile(path); err == nil {
		return data, nil
	}

	raw, err := s.fetchImage(ctx, pokemon.Image)
	if err != nil {
		return nil, err
	}

	optimized, err := OptimizeImage(raw, size)
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err == nil {
		if err := os.WriteFile(path, optimized, 0644); err != nil {
			log.Printf("⚠️  Warning: could not cache image for pokemon %d: %v", pokemon.ID, err)
		} else {
			log.Printf("✓ Image cached: %s", path)
		}
	}

	return optimized, nil
}

// fetchImage downloads the source artwork with a bounded body size
func (s *ImageService) fetchImage(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build image request: %w", err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch image: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("image source returned status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxImageBytes+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read image body: %w", err)
	}
	if len(data) > maxImageBytes {
		return nil, fmt.Errorf("image exceeds the %d byte limit", maxImageBytes)
	}

	return data, nil
}

// OptimizeImage converts raw image bytes (PNG, JPEG, ...) to a JPEG
// bounded to the requested size preset.
func OptimizeImage(imageData []byte, size string) ([]byte, error) {
	img, format, err := image.Decode(bytes.NewReader(imageData))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	var maxDim, quality int
	switch size {
	case "thumb":
		maxDim = maxSizeThumb
		quality = qualityThumb
	case "medium":
		maxDim = maxSizeMedium
		quality = qualityMedium
	default:
		maxDim = maxSizeMedium
		quality = qualityMedium
		log.Printf("⚠️  Unknown size '%s', defaulting to medium", size)
	}

	resized := img
	bounds := img.Bounds()
	if bounds.Dx() > maxDim || bounds.Dy() > maxDim {
		// Fit preserves aspect ratio within the bounding box
		resized = imaging.Fit(img, maxDim, maxDim, imaging.Lanczos)
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, resized, &jpeg.Options{Quality: quality}); err != nil {
		return nil, fmt.Errorf("failed to encode to JPEG: %w", err)
	}

	log.Printf("📸 Image optimized: format=%s, size=%s, output=%d bytes", format, size, buf.Len())
	return buf.Bytes(), nil
}
