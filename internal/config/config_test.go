package config

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"
)

func TestGetDefaultOpener(t *testing.T) {
	expected := map[string]string{
		"darwin":  "open",
		"linux":   "xdg-open",
		"windows": "start",
	}

	opener := getDefaultOpener()

	if expectedOpener, ok := expected[runtime.GOOS]; ok {
		if opener != expectedOpener {
			t.Errorf("getDefaultOpener() = %s, want %s for %s", opener, expectedOpener, runtime.GOOS)
		}
	} else if opener != "open" {
		t.Errorf("getDefaultOpener() = %s, want 'open' for unknown OS", opener)
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := defaultConfig()

	if cfg.Catalog.Source != "articles.json" {
		t.Errorf("Catalog.Source = %s, want articles.json", cfg.Catalog.Source)
	}
	if cfg.Catalog.HTTPTimeout != 30*time.Second {
		t.Errorf("Catalog.HTTPTimeout = %v, want 30s", cfg.Catalog.HTTPTimeout)
	}
	if cfg.Catalog.Format != "auto" {
		t.Errorf("Catalog.Format = %s, want auto", cfg.Catalog.Format)
	}
	if cfg.Catalog.UserAgent == "" {
		t.Error("Catalog.UserAgent should not be empty")
	}
	if cfg.Search.Engine != "simple" {
		t.Errorf("Search.Engine = %s, want simple", cfg.Search.Engine)
	}
	if cfg.UI.MostViewedSlots != 4 {
		t.Errorf("UI.MostViewedSlots = %d, want 4", cfg.UI.MostViewedSlots)
	}
	if cfg.Site.ExportIntervalDays != 1 {
		t.Errorf("Site.ExportIntervalDays = %d, want 1", cfg.Site.ExportIntervalDays)
	}
	if cfg.Media.DefaultOpener == "" {
		t.Error("Media.DefaultOpener should not be empty")
	}
	if cfg.Keys.Modifier != "ctrl" {
		t.Errorf("Keys.Modifier = %s, want 'ctrl'", cfg.Keys.Modifier)
	}
}

func TestLoad_DefaultConfig(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg == nil {
		t.Fatal("Load() returned nil config")
	}
	if cfg.Catalog.HTTPTimeout != 30*time.Second {
		t.Errorf("Catalog.HTTPTimeout = %v, want 30s", cfg.Catalog.HTTPTimeout)
	}
	if !filepath.IsAbs(cfg.Storage.Path) {
		t.Errorf("Storage.Path should be absolute, got %s", cfg.Storage.Path)
	}
}

func TestLoad_FromFile(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "test-config.toml")
	configContent := `
[catalog]
source = "https://site.test/data/articles.json"
http_timeout = "10s"
user_agent = "test-agent"

[storage]
path = "/tmp/test.db"

[search]
engine = "bleve"

[ui]
most_viewed = ["a1", "a2"]

[ui.colors]
primary = "#FF0000"
`

	if err := os.WriteFile(configPath, []byte(configContent), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Catalog.Source != "https://site.test/data/articles.json" {
		t.Errorf("Catalog.Source = %s", cfg.Catalog.Source)
	}
	if cfg.Catalog.HTTPTimeout != 10*time.Second {
		t.Errorf("Catalog.HTTPTimeout = %v, want 10s", cfg.Catalog.HTTPTimeout)
	}
	if cfg.Catalog.UserAgent != "test-agent" {
		t.Errorf("Catalog.UserAgent = %s, want 'test-agent'", cfg.Catalog.UserAgent)
	}
	if cfg.Storage.Path != "/tmp/test.db" {
		t.Errorf("Storage.Path = %s, want '/tmp/test.db'", cfg.Storage.Path)
	}
	if cfg.Search.Engine != "bleve" {
		t.Errorf("Search.Engine = %s, want bleve", cfg.Search.Engine)
	}
	if len(cfg.UI.MostViewed) != 2 || cfg.UI.MostViewed[0] != "a1" {
		t.Errorf("UI.MostViewed = %v, want [a1 a2]", cfg.UI.MostViewed)
	}
	if cfg.UI.Colors.Primary != "#FF0000" {
		t.Errorf("UI.Colors.Primary = %s, want '#FF0000'", cfg.UI.Colors.Primary)
	}
	// Keys the file leaves out keep their defaults.
	if cfg.UI.Colors.Secondary != "#4ECDC4" {
		t.Errorf("UI.Colors.Secondary = %s, want default", cfg.UI.Colors.Secondary)
	}
	if cfg.Catalog.QuotesSource != "quotes.json" {
		t.Errorf("Catalog.QuotesSource = %s, want default", cfg.Catalog.QuotesSource)
	}
}

func TestLoad_InvalidFile(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "broken.toml")
	if err := os.WriteFile(configPath, []byte("[catalog\nsource = "), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := Load(configPath); err == nil {
		t.Error("Load() should fail on malformed TOML")
	}
}

func TestSave(t *testing.T) {
	cfg := defaultConfig()
	cfg.Storage.Path = "/test/path.db"
	cfg.Catalog.UserAgent = "test-save-agent"
	cfg.Catalog.HTTPTimeout = 45 * time.Second
	cfg.Keys.Modifier = "alt"

	savePath := filepath.Join(t.TempDir(), "saved-config.toml")
	if err := Save(cfg, savePath); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	if _, err := os.Stat(savePath); os.IsNotExist(err) {
		t.Fatal("Save() did not create config file")
	}

	loaded, err := Load(savePath)
	if err != nil {
		t.Fatalf("Failed to load saved config: %v", err)
	}

	if loaded.Storage.Path != cfg.Storage.Path {
		t.Errorf("Loaded Storage.Path = %s, want %s", loaded.Storage.Path, cfg.Storage.Path)
	}
	if loaded.Catalog.UserAgent != cfg.Catalog.UserAgent {
		t.Errorf("Loaded Catalog.UserAgent = %s, want %s", loaded.Catalog.UserAgent, cfg.Catalog.UserAgent)
	}
	if loaded.Catalog.HTTPTimeout != cfg.Catalog.HTTPTimeout {
		t.Errorf("Loaded Catalog.HTTPTimeout = %v, want %v", loaded.Catalog.HTTPTimeout, cfg.Catalog.HTTPTimeout)
	}
	if loaded.Keys.Modifier != cfg.Keys.Modifier {
		t.Errorf("Loaded Keys.Modifier = %s, want %s", loaded.Keys.Modifier, cfg.Keys.Modifier)
	}
}

func TestGenerateDefaultConfig(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "nested", "generated.toml")
	if err := GenerateDefaultConfig(configPath); err != nil {
		t.Fatalf("GenerateDefaultConfig() error = %v", err)
	}

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Failed to load generated config: %v", err)
	}

	if cfg.Keys.Modifier != "ctrl" {
		t.Errorf("Generated config has Keys.Modifier = %s, want 'ctrl'", cfg.Keys.Modifier)
	}
	if cfg.Site.ExportStart != "2024-01-01" {
		t.Errorf("Generated config has Site.ExportStart = %s", cfg.Site.ExportStart)
	}
}

func TestExpandPath(t *testing.T) {
	home, _ := os.UserHomeDir()

	if got := ExpandPath("~/test.db"); got != filepath.Join(home, "test.db") {
		t.Errorf("ExpandPath(~/test.db) = %s", got)
	}
	if got := ExpandPath("/tmp/test.db"); got != "/tmp/test.db" {
		t.Errorf("ExpandPath(/tmp/test.db) = %s", got)
	}
	if got := ExpandPath(""); got != "" {
		t.Errorf("ExpandPath(\"\") = %s, want empty", got)
	}
	if got := ExpandPath("rel.db"); !filepath.IsAbs(got) {
		t.Errorf("ExpandPath(rel.db) = %s, want absolute", got)
	}
}

func TestTestConfig(t *testing.T) {
	cfg := TestConfig()

	if cfg == nil {
		t.Fatal("TestConfig() returned nil")
	}
	if cfg.Storage.Path != ":memory:" {
		t.Errorf("TestConfig Storage.Path = %s, want ':memory:'", cfg.Storage.Path)
	}
	if cfg.Catalog.UserAgent != "gazette-test/1.0" {
		t.Errorf("TestConfig Catalog.UserAgent = %s, want 'gazette-test/1.0'", cfg.Catalog.UserAgent)
	}
}
