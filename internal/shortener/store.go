package shortener

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Entry is one stored mapping. The JSON field names are the on-disk
// contract; existing mapping files keep working across restarts.
type Entry struct {
	URL       string    `json:"url"`
	CreatedAt time.Time `json:"created_at"`
	Method    string    `json:"method"`
	Clicks    int       `json:"clicks"`
}

// loadMappings reads the whole mapping file. A missing file is an empty
// map, not an error.
func loadMappings(path string) (map[string]Entry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return make(map[string]Entry), nil
		}
		return nil, fmt.Errorf("failed to read mappings file: %w", err)
	}

	mappings := make(map[string]Entry)
	if err := json.Unmarshal(data, &mappings); err != nil {
		return nil, fmt.Errorf("failed to decode mappings file: %w", err)
	}
	return mappings, nil
}

// saveMappings rewrites the whole mapping file. The write goes to a
// temp file in the same directory followed by a rename, so a crash
// mid-write cannot truncate the existing mappings.
func saveMappings(path string, mappings map[string]Entry) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create mappings directory: %w", err)
	}

	data, err := json.MarshalIndent(mappings, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode mappings: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".url_mappings-*.json")
	if err != nil {
		return fmt.Errorf("failed to create temp mappings file: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to write mappings: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to close temp mappings file: %w", err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to replace mappings file: %w", err)
	}
	return nil
}
