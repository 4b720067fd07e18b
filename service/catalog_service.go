package service

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"

	"pokedex-api/models"
	"pokedex-api/repository"
)

const (
	// cards per printed page
	exportPageSize = 9
	// upper bound on export size; the render route caps its query here
	exportMaxEntries = 198
)

// CatalogService renders a printable catalog of pokemons and converts it
// to PDF through headless Chrome
type CatalogService struct {
	pokemonRepo repository.PokemonRepositoryInterface
	baseURL     string // base URL for the internal render route
}

// NewCatalogService creates a new CatalogService
func NewCatalogService(pokemonRepo repository.PokemonRepositoryInterface, baseURL string) *CatalogService {
	return &CatalogService{
		pokemonRepo: pokemonRepo,
		baseURL:     baseURL,
	}
}

// detectChromePath detects the path to Chrome/Chromium executable
// Checks CHROME_PATH env var first, then common installation paths
func detectChromePath() string {
	if chromePath := os.Getenv("CHROME_PATH"); chromePath != "" {
		if _, err := os.Stat(chromePath); err == nil {
			return chromePath
		}
	}

	paths := []string{
		"/usr/bin/chromium",
		"/usr/bin/chromium-browser",
		"/usr/bin/google-chrome",
		"/usr/bin/google-chrome-stable",
		"/snap/bin/chromium",
	}

	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// paginateCards splits entries into printed pages of exportPageSize cards
func paginateCards(pokemons []models.Pokemon) [][]models.Pokemon {
	var pages [][]models.Pokemon
	for start := 0; start < len(pokemons); start += exportPageSize {
		end := start + exportPageSize
		if end > len(pokemons) {
			end = len(pokemons)
		}
		pages = append(pages, pokemons[start:end])
	}
	return pages
}

// RenderCatalogHTML renders the catalog export template for the entries
// matching the filters, capped at exportMaxEntries
func (s *CatalogService) RenderCatalogHTML(ctx context.Context, filters repository.PokemonFilterParams) (string, error) {
	pokemons, err := s.pokemonRepo.Filter(ctx, filters, exportMaxEntries, 0)
	if err != nil {
		return "", fmt.Errorf("failed to load catalog entries: %w", err)
	}

	templateData := struct {
		Pages       [][]models.Pokemon
		Total       int
		GeneratedAt string
	}{
		Pages:       paginateCards(pokemons),
		Total:       len(pokemons),
		GeneratedAt: time.Now().Format("2006-01-02 15:04"),
	}

	templatePath := filepath.Join("templates", "catalog.html")
	tmpl, err := template.ParseFiles(templatePath)
	if err != nil {
		return "", fmt.Errorf("failed to parse template: %w", err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, templateData); err != nil {
		return "", fmt.Errorf("failed to execute template: %w", err)
	}

	return buf.String(), nil
}

// GeneratePDF generates a PDF of the catalog by navigating headless
// Chrome to the internal render route and printing the page. rawQuery
// carries the listing filters through to the render route unchanged.
func (s *CatalogService) GeneratePDF(ctx context.Context, rawQuery string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, 60*time.Second)
	defer cancel()

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.NoSandbox, // required for running in Docker/containers
	)
	if chromePath := detectChromePath(); chromePath != "" {
		opts = append(opts, chromedp.ExecPath(chromePath))
	}

	allocCtx, allocCancel := chromedp.NewExecAllocator(ctx, opts...)
	defer allocCancel()

	chromedpCtx, chromedpCancel := chromedp.NewContext(allocCtx)
	defer chromedpCancel()

	renderURL := s.baseURL + "/pokemons/export/html"
	if rawQuery != "" {
		renderURL += "?" + rawQuery
	}

	log.Printf("🖨️  Generating catalog PDF from %s", renderURL)

	var pdfBuf []byte
	err := chromedp.Run(chromedpCtx,
		chromedp.EmulateViewport(794, 1123), // A4 at 96 DPI
		chromedp.Navigate(renderURL),
		chromedp.WaitReady("body"),
		// Wait for card images before printing
		chromedp.Evaluate(`
			(function() {
				return Promise.all(Array.from(document.querySelectorAll('img')).map(img => {
					return new Promise((resolve) => {
						if (img.complete) { resolve(); return; }
						const timeout = setTimeout(() => resolve(), 5000);
						img.onload = () => { clearTimeout(timeout); resolve(); };
						img.onerror = () => { clearTimeout(timeout); resolve(); };
					});
				}));
			})();
		`, nil),
		chromedp.ActionFunc(func(ctx context.Context) error {
			var err error
			// A4 portrait; page breaks come from the template CSS
			pdfBuf, _, err = page.PrintToPDF().
				WithPrintBackground(true).
				WithPaperWidth(8.27).
				WithPaperHeight(11.69).
				WithMarginTop(0).
				WithMarginBottom(0).
				WithMarginLeft(0).
				WithMarginRight(0).
				Do(ctx)
			return err
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to generate PDF: %w", err)
	}

	return pdfBuf, nil
}
