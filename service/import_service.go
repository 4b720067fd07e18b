package service

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log"
	"strconv"
	"strings"

	"pokedex-api/models"
	"pokedex-api/repository"
)

// MaxImportRows bounds a single CSV upload. Rows past the cap are not
// read; the rows already applied stay in and are reported.
const MaxImportRows = 10000

// ErrImportTruncated marks an import that stopped at the row cap or the
// request deadline. The report returned alongside it covers everything
// applied before the stop.
var ErrImportTruncated = errors.New("import truncated")

// ImportService ingests CSV uploads into the catalog. Inserts are
// best-effort per row: a failed or duplicate row never aborts the batch.
type ImportService struct {
	pokemonRepo repository.PokemonRepositoryInterface
}

// NewImportService creates a new ImportService
func NewImportService(pokemonRepo repository.PokemonRepositoryInterface) *ImportService {
	return &ImportService{
		pokemonRepo: pokemonRepo,
	}
}

// columnAliases maps canonicalized CSV header names to model fields.
// Canonicalization lowercases and strips spaces, dots and underscores, so
// "Sp. Atk", "sp_attack" and "spattack" all land on the same column.
var columnAliases = map[string]string{
	"id":         "id",
	"#":          "id",
	"name":       "name",
	"type1":      "type1",
	"type2":      "type2",
	"total":      "total",
	"hp":         "hp",
	"attack":     "attack",
	"defense":    "defense",
	"spatk":      "spattack",
	"spattack":   "spattack",
	"spdef":      "spdefense",
	"spdefense":  "spdefense",
	"speed":      "speed",
	"generation": "generation",
	"legendary":  "legendary",
	"image":      "image",
	"imageurl":   "image",
	"ytburl":     "ytburl",
}

// canonicalColumn normalizes a raw CSV header cell to a field key, or ""
// when the column is unknown
func canonicalColumn(name string) string {
	key := strings.ToLower(strings.TrimSpace(name))
	key = strings.NewReplacer(" ", "", ".", "", "_", "", "\uFEFF", "").Replace(key)
	return columnAliases[key]
}

// reconcileID assigns a unique external id to an incoming row. Rows with
// a missing id (0) or an id at or below the running maximum get the next
// free id; rows that keep their own id advance the running maximum so
// later rows cannot collide with them.
func reconcileID(id, runningMax int64) (assigned, newMax int64) {
	if id <= runningMax {
		return runningMax + 1, runningMax + 1
	}
	return id, id
}

// ImportCSV reads a CSV stream, reconciles external ids against the
// current catalog maximum and inserts the rows. Malformed rows are
// collected as row errors; only unreadable input or a store failure on
// the id lookup is fatal. A batch stopped at the row cap or the deadline
// returns the partial report together with ErrImportTruncated.
func (s *ImportService) ImportCSV(ctx context.Context, r io.Reader) (*models.ImportReport, error) {
	reader := csv.NewReader(r)
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}

	colIdx := make(map[string]int)
	for i, name := range header {
		if field := canonicalColumn(name); field != "" {
			colIdx[field] = i
		}
	}
	if _, ok := colIdx["name"]; !ok {
		return nil, fmt.Errorf("CSV header is missing a name column")
	}
	if _, ok := colIdx["type1"]; !ok {
		return nil, fmt.Errorf("CSV header is missing a type1 column")
	}

	runningMax, err := s.pokemonRepo.MaxID(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get current max id: %w", err)
	}

	log.Printf("📥 Starting CSV import (current max id: %d)", runningMax)

	report := &models.ImportReport{}
	line := 1 // header was line 1

	for {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return truncateReport(report, fmt.Sprintf("deadline hit after line %d: %v", line, ctxErr))
		}

		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			report.Failed++
			report.RowErrors = append(report.RowErrors, models.RowError{
				Line: line, Reason: fmt.Sprintf("unreadable row: %v", err),
			})
			continue
		}

		if line-1 > MaxImportRows {
			return truncateReport(report, fmt.Sprintf("%d row limit reached", MaxImportRows))
		}

		pokemon, rowErr := parseRow(colIdx, record, line)
		if rowErr != nil {
			log.Printf("⚠️  Import row %d rejected: %s", rowErr.Line, rowErr.Reason)
			report.Failed++
			report.RowErrors = append(report.RowErrors, *rowErr)
			continue
		}

		pokemon.ID, runningMax = reconcileID(pokemon.ID, runningMax)

		inserted, err := s.pokemonRepo.Insert(ctx, pokemon)
		if err != nil {
			report.Failed++
			report.RowErrors = append(report.RowErrors, models.RowError{
				Line: line, Reason: fmt.Sprintf("insert failed: %v", err),
			})
			continue
		}
		if !inserted {
			report.Duplicates++
			continue
		}
		report.Inserted++
	}

	report.Message = fmt.Sprintf("Imported %d pokemons (%d duplicates skipped, %d rows failed)",
		report.Inserted, report.Duplicates, report.Failed)
	log.Printf("🎉 %s", report.Message)
	return report, nil
}

// truncateReport finalizes a partially-applied batch. The applied rows
// are already in the store, so the report goes back to the caller
// together with the truncation error.
func truncateReport(report *models.ImportReport, reason string) (*models.ImportReport, error) {
	report.Message = fmt.Sprintf("Import stopped early (%s): %d imported, %d duplicates skipped, %d rows failed",
		reason, report.Inserted, report.Duplicates, report.Failed)
	log.Printf("⚠️  %s", report.Message)
	return report, fmt.Errorf("%w: %s", ErrImportTruncated, reason)
}

// cell returns the value of a mapped column for a record, "" when the
// column is absent or the record is short
func cell(colIdx map[string]int, record []string, field string) string {
	idx, ok := colIdx[field]
	if !ok || idx >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[idx])
}

// parseRow validates and converts a single CSV record. Numeric and
// boolean fields must parse and stats must be non-negative; a violation
// rejects only this row.
func parseRow(colIdx map[string]int, record []string, line int) (*models.Pokemon, *models.RowError) {
	fail := func(reason string) (*models.Pokemon, *models.RowError) {
		return nil, &models.RowError{Line: line, Reason: reason}
	}

	p := &models.Pokemon{
		Name:   cell(colIdx, record, "name"),
		Type1:  cell(colIdx, record, "type1"),
		Type2:  cell(colIdx, record, "type2"),
		Image:  cell(colIdx, record, "image"),
		YtbURL: cell(colIdx, record, "ytburl"),
	}
	if p.Name == "" {
		return fail("name is required")
	}
	if p.Type1 == "" {
		return fail("type1 is required")
	}

	// An empty id means "assign one"; a malformed id fails the row.
	if raw := cell(colIdx, record, "id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return fail(fmt.Sprintf("id must be an integer, got %q", raw))
		}
		p.ID = id
	}

	stats := []struct {
		field string
		dst   *int
	}{
		{"hp", &p.HP},
		{"attack", &p.Attack},
		{"defense", &p.Defense},
		{"spattack", &p.SpAttack},
		{"spdefense", &p.SpDefense},
		{"speed", &p.Speed},
		{"generation", &p.Generation},
	}
	for _, stat := range stats {
		raw := cell(colIdx, record, stat.field)
		if raw == "" {
			continue
		}
		value, err := strconv.Atoi(raw)
		if err != nil {
			return fail(fmt.Sprintf("%s must be an integer, got %q", stat.field, raw))
		}
		if value < 0 {
			return fail(fmt.Sprintf("%s must be non-negative, got %d", stat.field, value))
		}
		*stat.dst = value
	}

	// Total is derived when the dataset leaves it out.
	if raw := cell(colIdx, record, "total"); raw != "" {
		total, err := strconv.Atoi(raw)
		if err != nil {
			return fail(fmt.Sprintf("total must be an integer, got %q", raw))
		}
		if total < 0 {
			return fail(fmt.Sprintf("total must be non-negative, got %d", total))
		}
		p.Total = total
	} else {
		p.Total = p.HP + p.Attack + p.Defense + p.SpAttack + p.SpDefense + p.Speed
	}

	if raw := cell(colIdx, record, "legendary"); raw != "" {
		legendary, err := strconv.ParseBool(strings.ToLower(raw))
		if err != nil {
			return fail(fmt.Sprintf("legendary must be a boolean, got %q", raw))
		}
		p.Legendary = legendary
	}

	return p, nil
}
