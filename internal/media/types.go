package media

import (
	"runtime"
	"strings"
)

type Type int

const (
	TypeImage Type = iota
	TypePage
	TypeUnknown
)

func (t Type) String() string {
	switch t {
	case TypeImage:
		return "image"
	case TypePage:
		return "page"
	default:
		return "unknown"
	}
}

type TypeConfig struct {
	Extensions  []string `toml:"extensions"`
	URLPatterns []string `toml:"url_patterns"`
}

type PlatformConfig struct {
	DefaultOpener string `toml:"default_opener"`
}

type TypeDetector struct {
	image     TypeConfig
	page      TypeConfig
	platforms map[string]PlatformConfig
}

func newTypeDetector(cfg *ViewersConfig) *TypeDetector {
	return &TypeDetector{
		image:     cfg.Types["image"],
		page:      cfg.Types["page"],
		platforms: cfg.Platforms,
	}
}

// DetectType classifies a target by extension first, then by URL
// pattern. Any other http(s) URL is a page.
func (d *TypeDetector) DetectType(target string) Type {
	lower := strings.ToLower(strings.TrimSpace(target))
	isURL := strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")

	if ext := extension(lower); ext != "" {
		if hasExtension(d.image.Extensions, ext) {
			return TypeImage
		}
		if hasExtension(d.page.Extensions, ext) {
			return TypePage
		}
	}

	if isURL {
		if matchesPattern(lower, d.image.URLPatterns) {
			return TypeImage
		}
		return TypePage
	}
	return TypeUnknown
}

func (d *TypeDetector) DefaultOpener() string {
	if pc, ok := d.platforms[runtime.GOOS]; ok && pc.DefaultOpener != "" {
		return pc.DefaultOpener
	}
	if pc, ok := d.platforms["fallback"]; ok && pc.DefaultOpener != "" {
		return pc.DefaultOpener
	}
	return "open"
}

// extension returns the extension of the last path segment, ignoring
// query strings and fragments.
func extension(s string) string {
	if i := strings.IndexAny(s, "?#"); i != -1 {
		s = s[:i]
	}
	if i := strings.LastIndex(s, "/"); i != -1 {
		s = s[i+1:]
	}
	i := strings.LastIndex(s, ".")
	if i == -1 {
		return ""
	}
	return s[i+1:]
}

func hasExtension(extensions []string, ext string) bool {
	for _, e := range extensions {
		if e == ext {
			return true
		}
	}
	return false
}

func matchesPattern(url string, patterns []string) bool {
	for _, pattern := range patterns {
		if pattern != "" && strings.Contains(url, pattern) {
			return true
		}
	}
	return false
}
