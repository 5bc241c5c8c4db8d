package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

// testConfigDir points os.UserConfigDir at a temp directory.
func testConfigDir(t *testing.T) string {
	t.Helper()
	tmpDir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", tmpDir)
	return tmpDir
}

func TestLoadConfig_MissingFile(t *testing.T) {
	testConfigDir(t)

	cfg := LoadConfig()
	if cfg != (AppConfig{}) {
		t.Errorf("LoadConfig() = %+v, want zero value", cfg)
	}
}

func TestLoadConfig_ReadsFields(t *testing.T) {
	tmpDir := testConfigDir(t)

	dir := filepath.Join(tmpDir, appDirName)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("MkdirAll() error = %v", err)
	}
	payload := `{"endpoint":"http://example.com/api","player":"ffplay","volume":55,"theme":"nord"}`
	if err := os.WriteFile(filepath.Join(dir, "config.json"), []byte(payload), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	cfg := LoadConfig()
	if cfg.Endpoint != "http://example.com/api" {
		t.Errorf("Endpoint = %q", cfg.Endpoint)
	}
	if cfg.Player != "ffplay" {
		t.Errorf("Player = %q", cfg.Player)
	}
	if cfg.Volume != 55 {
		t.Errorf("Volume = %d", cfg.Volume)
	}
	if cfg.Theme != "nord" {
		t.Errorf("Theme = %q", cfg.Theme)
	}
}

func TestLoadConfig_InvalidJSON(t *testing.T) {
	tmpDir := testConfigDir(t)

	dir := filepath.Join(tmpDir, appDirName)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("MkdirAll() error = %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "config.json"), []byte("{broken"), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	cfg := LoadConfig()
	if cfg != (AppConfig{}) {
		t.Errorf("LoadConfig() = %+v, want zero value on invalid JSON", cfg)
	}
}

func TestSaveTheme_PreservesOtherFields(t *testing.T) {
	tmpDir := testConfigDir(t)

	dir := filepath.Join(tmpDir, appDirName)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("MkdirAll() error = %v", err)
	}
	existing := `{"volume": 70, "player": "mpv"}`
	path := filepath.Join(dir, "config.json")
	if err := os.WriteFile(path, []byte(existing), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	if err := SaveTheme("gruvbox-dark"); err != nil {
		t.Fatalf("SaveTheme() error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	var raw map[string]interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if raw["theme"] != "gruvbox-dark" {
		t.Errorf("theme = %v, want gruvbox-dark", raw["theme"])
	}
	if raw["player"] != "mpv" {
		t.Errorf("player = %v, other fields must survive", raw["player"])
	}
	if raw["volume"] != float64(70) {
		t.Errorf("volume = %v, other fields must survive", raw["volume"])
	}
}

func TestSaveTheme_CreatesFile(t *testing.T) {
	tmpDir := testConfigDir(t)

	if err := SaveTheme("midnight"); err != nil {
		t.Fatalf("SaveTheme() error = %v", err)
	}

	cfg := LoadConfig()
	if cfg.Theme != "midnight" {
		t.Errorf("Theme = %q, want midnight", cfg.Theme)
	}
	_ = tmpDir
}

func TestAppDir_CreatesDirectory(t *testing.T) {
	tmpDir := testConfigDir(t)

	dir, err := AppDir()
	if err != nil {
		t.Fatalf("AppDir() error = %v", err)
	}
	if filepath.Dir(dir) != tmpDir {
		t.Errorf("AppDir() = %q, want under %q", dir, tmpDir)
	}
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		t.Errorf("AppDir() should create the directory: %v", err)
	}
}
