package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// installedConfigDir is tried before the repo-relative fallback, matching
// both services' original startup resolution.
const installedConfigDir = "/usr/local/tidepool/configs"

// ResolveConfigPath returns the installed path if it exists, otherwise the
// repo-relative fallback path under "configs/".
func ResolveConfigPath(filename string) string {
	installed := filepath.Join(installedConfigDir, filename)
	if _, err := os.Stat(installed); err == nil {
		return installed
	}
	return filepath.Join("configs", filename)
}

// LoadMercuryConfig builds a MercuryConfig by layering defaults, the JSON
// config file, and CLI flags, then validates the result.
func LoadMercuryConfig(path string, args []string) (MercuryConfig, error) {
	cfg := DefaultMercuryConfig()
	if err := mergeJSONFile(path, &cfg); err != nil {
		return cfg, fmt.Errorf("config: load mercury file: %w", err)
	}
	if err := ApplyMercuryFlags(&cfg, args); err != nil {
		return cfg, fmt.Errorf("config: parse mercury flags: %w", err)
	}
	if err := ValidateMercuryConfig(cfg); err != nil {
		return cfg, fmt.Errorf("config: validate mercury: %w", err)
	}
	return cfg, nil
}

// LoadTerminusConfig builds a TerminusConfig the same way.
func LoadTerminusConfig(path string, args []string) (TerminusConfig, error) {
	cfg := DefaultTerminusConfig()
	if err := mergeJSONFile(path, &cfg); err != nil {
		return cfg, fmt.Errorf("config: load terminus file: %w", err)
	}
	if err := ApplyTerminusFlags(&cfg, args); err != nil {
		return cfg, fmt.Errorf("config: parse terminus flags: %w", err)
	}
	if err := ValidateTerminusConfig(cfg); err != nil {
		return cfg, fmt.Errorf("config: validate terminus: %w", err)
	}
	return cfg, nil
}

// LoadSalusConfig builds a SalusConfig entirely from flags and defaults;
// there is no JSON file contract for Salus.
func LoadSalusConfig(args []string) (SalusConfig, error) {
	cfg := DefaultSalusConfig()
	if err := ApplySalusFlags(&cfg, args); err != nil {
		return cfg, fmt.Errorf("config: parse salus flags: %w", err)
	}
	if err := ValidateSalusConfig(cfg); err != nil {
		return cfg, fmt.Errorf("config: validate salus: %w", err)
	}
	return cfg, nil
}

// mergeJSONFile decodes the file at path over the zero-or-default value
// already in dst. A missing file is not an error: both services fall back
// to defaults plus flags when no config file is present.
func mergeJSONFile(path string, dst any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	return json.Unmarshal(data, dst)
}
