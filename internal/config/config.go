package config

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
)

const appDirName = "airtune"

// AppConfig holds application-level configuration.
type AppConfig struct {
	// Endpoint overrides the station directory URL.
	Endpoint string `json:"endpoint,omitempty"`
	// Player names the preferred playback binary (mpv, ffplay or a path).
	Player string `json:"player,omitempty"`
	// Volume is the startup volume, 0..100. Zero means "use the default".
	Volume int `json:"volume,omitempty"`
	// Theme is the UI theme slug.
	Theme string `json:"theme,omitempty"`
}

// LoadConfig reads the app config from the user config dir.
// Returns a zero-value AppConfig if the file does not exist or is invalid.
func LoadConfig() AppConfig {
	path, err := configPath()
	if err != nil {
		return AppConfig{}
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return AppConfig{}
	}
	var cfg AppConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return AppConfig{}
	}
	return cfg
}

// SaveTheme persists the theme slug to the config file, preserving any
// other fields that may exist.
func SaveTheme(slug string) error {
	path, err := configPath()
	if err != nil {
		return err
	}

	var raw map[string]interface{}
	data, err := os.ReadFile(path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return err
		}
		raw = make(map[string]interface{})
	} else {
		if err := json.Unmarshal(data, &raw); err != nil {
			raw = make(map[string]interface{})
		}
	}

	raw["theme"] = slug

	out, err := json.MarshalIndent(raw, "", "  ")
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, out, 0o644)
}

func configPath() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, appDirName, "config.json"), nil
}

// AppDir returns the per-user directory for config, favorites, cache and
// logs, creating it if needed.
func AppDir() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	dir := filepath.Join(configDir, appDirName)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	return dir, nil
}
