package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// FileName is the config file name looked up in each search directory.
const FileName = "flock.yaml"

// LoadFlock loads the flock configuration.
// Search order: customPath -> ~/.flock/configs/flock.yaml -> ./configs/flock.yaml -> embedded default
//
// Fields missing from a file keep their default values. An invalid custom
// file is an error; invalid files found during the search are skipped.
func LoadFlock(customPath string) (FlockConfig, error) {
	// Try custom path first
	if customPath != "" {
		data, err := os.ReadFile(customPath)
		if err != nil {
			return FlockConfig{}, fmt.Errorf("failed to read config %s: %w", customPath, err)
		}
		cfg, err := parseFlock(data)
		if err != nil {
			return FlockConfig{}, fmt.Errorf("failed to parse config %s: %w", customPath, err)
		}
		return cfg, nil
	}

	// Try user config directory
	if userCfgPath := userConfigPath(FileName); userCfgPath != "" {
		if data, err := os.ReadFile(userCfgPath); err == nil {
			if cfg, err := parseFlock(data); err == nil {
				return cfg, nil
			}
		}
	}

	// Try local configs directory
	if data, err := os.ReadFile(filepath.Join("configs", FileName)); err == nil {
		if cfg, err := parseFlock(data); err == nil {
			return cfg, nil
		}
	}

	// Use embedded default YAML
	cfg, err := parseFlock(defaultFlockYAML)
	if err != nil {
		return DefaultFlockConfig(), nil // Fallback to hardcoded if embed fails
	}
	return cfg, nil
}

// parseFlock decodes data over the defaults and validates the result.
func parseFlock(data []byte) (FlockConfig, error) {
	cfg := DefaultFlockConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return FlockConfig{}, err
	}
	if err := cfg.Validate(); err != nil {
		return FlockConfig{}, err
	}
	return cfg, nil
}

// userConfigPath returns the path to user config file, or empty if home is unavailable.
func userConfigPath(filename string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".flock", "configs", filename)
}
