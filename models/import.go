package models

import "fmt"

// RowError describes a single rejected CSV row. Row errors are collected
// and reported; they never abort the batch.
type RowError struct {
	Line   int    `json:"line"`
	Reason string `json:"reason"`
}

func (e RowError) Error() string {
	return fmt.Sprintf("row %d: %s", e.Line, e.Reason)
}

// ImportReport summarizes a bulk CSV import. Inserted + Duplicates +
// Failed equals the number of data rows read from the file.
type ImportReport struct {
	Message    string     `json:"message"`
	Inserted   int        `json:"inserted"`
	Duplicates int        `json:"duplicates"`
	Failed     int        `json:"failed"`
	RowErrors  []RowError `json:"errors,omitempty"`
}
