package controller

import (
	"log"
	"net/http"

	"pokedex-api/service"
)

// ExportController handles the printable catalog export
type ExportController struct {
	catalogService *service.CatalogService
}

// NewExportController creates a new ExportController
func NewExportController(catalogService *service.CatalogService) *ExportController {
	return &ExportController{
		catalogService: catalogService,
	}
}

// ExportPDF handles GET /pokemons/export
// Prints the filtered catalog to a PDF through headless Chrome. The
// listing filter params (name, type1, type2, legendary, minSpeed,
// maxSpeed) are honored; favorites filtering is not available here
// because the render route runs outside the user's session.
func (c *ExportController) ExportPDF(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		respondError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	// Validate the filters up front so a bad query fails with 400 here
	// instead of a blank render inside Chrome.
	if _, err := parseFilterParams(r); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	pdf, err := c.catalogService.GeneratePDF(r.Context(), r.URL.RawQuery)
	if err != nil {
		log.Printf("❌ ExportPDF: %v", err)
		respondError(w, http.StatusInternalServerError, "Failed to generate catalog PDF")
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="pokedex-catalog.pdf"`)
	w.WriteHeader(http.StatusOK)
	w.Write(pdf)
}

// RenderHTML handles GET /pokemons/export/html
// Internal render route consumed by the PDF generator; it is exempt from
// auth so headless Chrome can reach it on the loopback interface.
func (c *ExportController) RenderHTML(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		respondError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	filters, err := parseFilterParams(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	html, err := c.catalogService.RenderCatalogHTML(r.Context(), filters)
	if err != nil {
		log.Printf("❌ RenderHTML: %v", err)
		respondError(w, http.StatusInternalServerError, "Failed to render catalog")
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(html))
}
