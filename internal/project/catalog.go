package project

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/piwi3910/CargoStack/internal/model"
)

// DefaultCatalogPath returns ~/.cargostack/containers.json.
func DefaultCatalogPath() string {
	return filepath.Join(DefaultConfigDir(), "containers.json")
}

// SaveCatalog writes the container catalog to path as JSON.
func SaveCatalog(path string, cat model.Catalog) error {
	return writeJSON(path, cat)
}

// LoadCatalog reads the container catalog from path. A missing file yields
// the default catalog, which is written to path for the user to edit.
func LoadCatalog(path string) (model.Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			cat := model.DefaultCatalog()
			if saveErr := SaveCatalog(path, cat); saveErr != nil {
				return cat, saveErr
			}
			return cat, nil
		}
		return model.Catalog{}, fmt.Errorf("failed to read catalog: %w", err)
	}
	var cat model.Catalog
	if err := json.Unmarshal(data, &cat); err != nil {
		return model.Catalog{}, fmt.Errorf("failed to parse catalog %s: %w", path, err)
	}
	return cat, nil
}

// ImportCatalog merges the presets of the catalog file at path into
// existing. Presets whose IDs are already present are skipped.
func ImportCatalog(path string, existing model.Catalog) (model.Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return existing, fmt.Errorf("failed to read catalog: %w", err)
	}
	var imported model.Catalog
	if err := json.Unmarshal(data, &imported); err != nil {
		return existing, fmt.Errorf("failed to parse catalog %s: %w", path, err)
	}
	existing.Merge(imported)
	return existing, nil
}
