package storage

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"phonespecs-scraper/models"
)

var (
	// ErrUnrecognizedShape means the input is neither an array nor an object.
	ErrUnrecognizedShape = errors.New("expected a list or an object with a \"phones\" key")
	// ErrNoPhones means the input holds no entries.
	ErrNoPhones = errors.New("no phones found in input")
)

// WriteJSON writes v as two-space indented UTF-8 JSON without HTML
// escaping, creating parent directories as needed.
func WriteJSON(path string, v any) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("json: create output dir: %w", err)
		}
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("json: encode %q: %w", path, err)
	}

	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("json: write %q: %w", path, err)
	}
	return nil
}

// LoadListingEntries reads listing entries saved either as a bare array or
// as an object holding the array under "phones" (a listing summary).
func LoadListingEntries(path string) ([]models.ListingEntry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("json: read %q: %w", path, err)
	}
	return DecodeListingEntries(data)
}

// DecodeListingEntries is LoadListingEntries on an in-memory document.
func DecodeListingEntries(data []byte) ([]models.ListingEntry, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, ErrUnrecognizedShape
	}

	var entries []models.ListingEntry
	switch trimmed[0] {
	case '[':
		if err := json.Unmarshal(trimmed, &entries); err != nil {
			return nil, fmt.Errorf("json: decode list: %w", err)
		}
	case '{':
		var wrapper struct {
			Phones []models.ListingEntry `json:"phones"`
		}
		if err := json.Unmarshal(trimmed, &wrapper); err != nil {
			return nil, fmt.Errorf("json: decode object: %w", err)
		}
		entries = wrapper.Phones
	default:
		return nil, ErrUnrecognizedShape
	}

	if len(entries) == 0 {
		return nil, ErrNoPhones
	}
	return entries, nil
}
