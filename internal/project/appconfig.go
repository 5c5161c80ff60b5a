package project

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/piwi3910/CargoStack/internal/model"
)

// maxRecentPlans bounds AppConfig.RecentPlans.
const maxRecentPlans = 10

// DefaultConfigDir returns the default directory for application configuration.
// On all platforms this is ~/.cargostack/
func DefaultConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return filepath.Join(home, ".cargostack")
}

// DefaultConfigPath returns the default path for the application config file.
func DefaultConfigPath() string {
	return filepath.Join(DefaultConfigDir(), "config.json")
}

// SaveAppConfig persists an AppConfig to the given path as JSON.
// It creates any missing parent directories automatically.
func SaveAppConfig(path string, config model.AppConfig) error {
	return writeJSON(path, config)
}

// LoadAppConfig reads an AppConfig from the given path.
// If the file does not exist, it returns DefaultAppConfig with no error.
// Fields absent from the file keep their default values.
func LoadAppConfig(path string) (model.AppConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return model.DefaultAppConfig(), nil
		}
		return model.AppConfig{}, fmt.Errorf("failed to read config: %w", err)
	}
	config := model.DefaultAppConfig()
	if err := json.Unmarshal(data, &config); err != nil {
		return model.AppConfig{}, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	if config.DefaultStackStrategy != "" {
		if _, err := model.ParseStackStrategy(string(config.DefaultStackStrategy)); err != nil {
			return model.AppConfig{}, fmt.Errorf("config %s: %w", path, err)
		}
	}
	if config.RecentPlans == nil {
		config.RecentPlans = []string{}
	}
	return config, nil
}

// AddRecentPlan moves path to the front of the recent plan list, dropping
// duplicates and trimming the list to its maximum length.
func AddRecentPlan(config *model.AppConfig, path string) {
	recent := []string{path}
	for _, p := range config.RecentPlans {
		if p != path && len(recent) < maxRecentPlans {
			recent = append(recent, p)
		}
	}
	config.RecentPlans = recent
}

// writeJSON marshals v with indentation and writes it to path, creating
// parent directories as needed.
func writeJSON(path string, v interface{}) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", filepath.Base(path), err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
