package config

import "time"

// TestConfig returns a config suitable for testing
func TestConfig() *Config {
	cfg := defaultConfig()
	cfg.Catalog.HTTPTimeout = 5 * time.Second
	cfg.Catalog.UserAgent = "gazette-test/1.0"
	cfg.Storage.Path = ":memory:"
	cfg.Log.Level = "off"
	cfg.Log.File = ""
	return cfg
}
