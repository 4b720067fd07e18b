package utils

import (
	"fmt"
	"strconv"
	"strings"
)

const (
	// DefaultPageSize is used when the limit query param is absent
	DefaultPageSize = 20
	// MaxPageSize bounds response size; larger requests are clamped
	MaxPageSize = 100
)

// ParsePage parses a 1-based page number from a query param. The empty
// string defaults to page 1. Page numbers below 1 are rejected rather
// than clamped.
func ParsePage(raw string) (int, error) {
	if strings.TrimSpace(raw) == "" {
		return 1, nil
	}
	page, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("page must be an integer, got %q", raw)
	}
	if page < 1 {
		return 0, fmt.Errorf("page must be >= 1, got %d", page)
	}
	return page, nil
}

// ParseLimit parses a page size from a query param. The empty string
// defaults to DefaultPageSize; values above MaxPageSize are clamped.
func ParseLimit(raw string) (int, error) {
	if strings.TrimSpace(raw) == "" {
		return DefaultPageSize, nil
	}
	limit, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("limit must be an integer, got %q", raw)
	}
	if limit < 1 {
		return 0, fmt.Errorf("limit must be >= 1, got %d", limit)
	}
	if limit > MaxPageSize {
		limit = MaxPageSize
	}
	return limit, nil
}

// TotalPages computes ceil(total/limit). An empty result still reports a
// single page so clients always have a page to render.
func TotalPages(total, limit int) int {
	if total <= 0 {
		return 1
	}
	return (total + limit - 1) / limit
}

// ParseOptionalInt parses an optional numeric query param. The empty
// string means "no constraint" and returns nil.
func ParseOptionalInt(name, raw string) (*int, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return nil, fmt.Errorf("%s must be an integer, got %q", name, raw)
	}
	return &value, nil
}

// ParseOptionalBool parses an optional tri-state boolean query param.
// The empty string means "no constraint" and returns nil.
func ParseOptionalBool(name, raw string) (*bool, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	value, err := strconv.ParseBool(strings.ToLower(raw))
	if err != nil {
		return nil, fmt.Errorf("%s must be a boolean, got %q", name, raw)
	}
	return &value, nil
}
