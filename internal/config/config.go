package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Catalog CatalogConfig `mapstructure:"catalog"`
	Storage StorageConfig `mapstructure:"storage"`
	Search  SearchConfig  `mapstructure:"search"`
	UI      UIConfig      `mapstructure:"ui"`
	Site    SiteConfig    `mapstructure:"site"`
	Log     LogConfig     `mapstructure:"log"`
	Media   MediaConfig   `mapstructure:"media"`
	Keys    KeyConfig     `mapstructure:"keys"`
}

// CatalogConfig points at the site's JSON resources. Sources are either
// http(s) URLs or file paths relative to the working directory.
type CatalogConfig struct {
	Source        string        `mapstructure:"source"`
	QuotesSource  string        `mapstructure:"quotes_source"`
	LegalSource   string        `mapstructure:"legal_source"`
	Format        string        `mapstructure:"format"`
	HTTPTimeout   time.Duration `mapstructure:"http_timeout"`
	UserAgent     string        `mapstructure:"user_agent"`
	FallbackImage string        `mapstructure:"fallback_image"`
}

type StorageConfig struct {
	Path string `mapstructure:"path"`
}

type SearchConfig struct {
	Engine string `mapstructure:"engine"`
}

type UIConfig struct {
	Colors          UIColors      `mapstructure:"colors"`
	Article         ArticleConfig `mapstructure:"article"`
	MostViewed      []string      `mapstructure:"most_viewed"`
	MostViewedSlots int           `mapstructure:"most_viewed_slots"`
}

type UIColors struct {
	Primary   string `mapstructure:"primary"`
	Secondary string `mapstructure:"secondary"`
	Accent    string `mapstructure:"accent"`
	Muted     string `mapstructure:"muted"`
	Error     string `mapstructure:"error"`
}

type ArticleConfig struct {
	WordWrapMaxWidth int `mapstructure:"word_wrap_max_width"`
	WordWrapMinWidth int `mapstructure:"word_wrap_min_width"`
}

// SiteConfig drives the maintenance jobs (sitemap, CSV export).
type SiteConfig struct {
	BaseURL            string `mapstructure:"base_url"`
	ExportStart        string `mapstructure:"export_start"`
	ExportIntervalDays int    `mapstructure:"export_interval_days"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
	File  string `mapstructure:"file"`
}

type MediaConfig struct {
	Darwin        []string `mapstructure:"darwin"`
	Linux         []string `mapstructure:"linux"`
	Windows       []string `mapstructure:"windows"`
	DefaultOpener string   `mapstructure:"default_opener"`
}

type KeyConfig struct {
	Modifier string `mapstructure:"modifier"`
}

func defaultConfig() *Config {
	homeDir, _ := os.UserHomeDir()

	return &Config{
		Catalog: CatalogConfig{
			Source:        "articles.json",
			QuotesSource:  "quotes.json",
			LegalSource:   "legal.json",
			Format:        "auto",
			HTTPTimeout:   30 * time.Second,
			UserAgent:     "gazette/1.0 (https://github.com/pders01/gazette)",
			FallbackImage: "images/fallback.jpg",
		},
		Storage: StorageConfig{
			Path: filepath.Join(homeDir, ".gazette.db"),
		},
		Search: SearchConfig{
			Engine: "simple",
		},
		UI: UIConfig{
			Colors: UIColors{
				Primary:   "#FF6B6B",
				Secondary: "#4ECDC4",
				Accent:    "#95E1D3",
				Muted:     "#94A3B8",
				Error:     "#F87171",
			},
			Article: ArticleConfig{
				WordWrapMaxWidth: 100,
				WordWrapMinWidth: 40,
			},
			MostViewed:      []string{},
			MostViewedSlots: 4,
		},
		Site: SiteConfig{
			BaseURL:            "https://example.org",
			ExportStart:        "2024-01-01",
			ExportIntervalDays: 1,
		},
		Log: LogConfig{
			Level: "off",
			File:  filepath.Join(homeDir, ".gazette", "gazette.log"),
		},
		Media: MediaConfig{
			Darwin:        []string{"qlmanage", "open"},
			Linux:         []string{"sxiv", "feh", "eog", "xdg-open"},
			Windows:       []string{"start"},
			DefaultOpener: getDefaultOpener(),
		},
		Keys: KeyConfig{
			Modifier: "ctrl",
		},
	}
}

func getDefaultOpener() string {
	switch runtime.GOOS {
	case "darwin":
		return "open"
	case "linux":
		return "xdg-open"
	case "windows":
		return "start"
	default:
		return "open"
	}
}

// toMap flattens cfg into the nested map layout of the TOML file.
// Durations are written as strings for readability.
func toMap(cfg *Config) map[string]any {
	return map[string]any{
		"catalog": map[string]any{
			"source":         cfg.Catalog.Source,
			"quotes_source":  cfg.Catalog.QuotesSource,
			"legal_source":   cfg.Catalog.LegalSource,
			"format":         cfg.Catalog.Format,
			"http_timeout":   cfg.Catalog.HTTPTimeout.String(),
			"user_agent":     cfg.Catalog.UserAgent,
			"fallback_image": cfg.Catalog.FallbackImage,
		},
		"storage": map[string]any{
			"path": cfg.Storage.Path,
		},
		"search": map[string]any{
			"engine": cfg.Search.Engine,
		},
		"ui": map[string]any{
			"colors": map[string]any{
				"primary":   cfg.UI.Colors.Primary,
				"secondary": cfg.UI.Colors.Secondary,
				"accent":    cfg.UI.Colors.Accent,
				"muted":     cfg.UI.Colors.Muted,
				"error":     cfg.UI.Colors.Error,
			},
			"article": map[string]any{
				"word_wrap_max_width": cfg.UI.Article.WordWrapMaxWidth,
				"word_wrap_min_width": cfg.UI.Article.WordWrapMinWidth,
			},
			"most_viewed":       cfg.UI.MostViewed,
			"most_viewed_slots": cfg.UI.MostViewedSlots,
		},
		"site": map[string]any{
			"base_url":             cfg.Site.BaseURL,
			"export_start":         cfg.Site.ExportStart,
			"export_interval_days": cfg.Site.ExportIntervalDays,
		},
		"log": map[string]any{
			"level": cfg.Log.Level,
			"file":  cfg.Log.File,
		},
		"media": map[string]any{
			"darwin":         cfg.Media.Darwin,
			"linux":          cfg.Media.Linux,
			"windows":        cfg.Media.Windows,
			"default_opener": cfg.Media.DefaultOpener,
		},
		"keys": map[string]any{
			"modifier": cfg.Keys.Modifier,
		},
	}
}

// setDefaults registers every leaf key so partial config files merge
// with the defaults instead of replacing whole sections.
func setDefaults(v *viper.Viper, prefix string, m map[string]any) {
	for k, val := range m {
		key := k
		if prefix != "" {
			key = prefix + "." + k
		}
		if nested, ok := val.(map[string]any); ok {
			setDefaults(v, key, nested)
			continue
		}
		v.SetDefault(key, val)
	}
}

func Load(configPath string) (*Config, error) {
	v := viper.New()
	setDefaults(v, "", toMap(defaultConfig()))

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		homeDir, _ := os.UserHomeDir()
		v.SetConfigName("config")
		v.SetConfigType("toml")
		v.AddConfigPath(filepath.Join(homeDir, ".config", "gazette"))
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix("GAZETTE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	expandPaths(&config)

	return &config, nil
}

// ExpandPath expands ~ to the home directory and converts to an absolute path.
func ExpandPath(path string) string {
	if path == "" {
		return path
	}

	if len(path) >= 2 && path[:2] == "~/" {
		home, _ := os.UserHomeDir()
		path = filepath.Join(home, path[2:])
	}

	if !filepath.IsAbs(path) {
		if abs, err := filepath.Abs(path); err == nil {
			path = abs
		}
	}

	return path
}

// expandPaths only touches local state files; catalog sources may be URLs
// and stay as written.
func expandPaths(cfg *Config) {
	cfg.Storage.Path = ExpandPath(cfg.Storage.Path)
	cfg.Log.File = ExpandPath(cfg.Log.File)
}

func Save(config *Config, path string) error {
	v := viper.New()
	for section, values := range toMap(config) {
		v.Set(section, values)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	return v.WriteConfigAs(path)
}

func GenerateDefaultConfig(path string) error {
	return Save(defaultConfig(), path)
}

// DefaultConfigPath is where `gazette config generate` writes.
func DefaultConfigPath() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "gazette", "config.toml")
}
