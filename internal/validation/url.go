// Package validation checks the locations gazette reads from and writes
// to before anything is fetched or overwritten.
package validation

import (
	"fmt"
	"net/url"
	"strings"
)

// MaxURLLength bounds remote sources and the site base URL.
const MaxURLLength = 2048

// ValidateSource checks a catalog, quotes or legal source. Remote
// sources must be absolute http(s) URLs; anything else is treated as a
// local path.
func ValidateSource(source string) (string, error) {
	source = strings.TrimSpace(source)
	if source == "" {
		return "", fmt.Errorf("source cannot be empty")
	}

	if !looksRemote(source) {
		return ValidateLocalPath(source)
	}

	u, err := parseHTTPURL(source)
	if err != nil {
		return "", err
	}
	if strings.Contains(u.Path, "..") {
		return "", fmt.Errorf("directory traversal patterns not allowed in URL path")
	}
	return u.String(), nil
}

// ValidateBaseURL checks the site base URL used for sitemap entries and
// returns it without a trailing slash.
func ValidateBaseURL(raw string) (string, error) {
	u, err := parseHTTPURL(strings.TrimSpace(raw))
	if err != nil {
		return "", err
	}
	if u.RawQuery != "" || u.Fragment != "" || u.ForceQuery {
		return "", fmt.Errorf("base URL must not have a query or fragment")
	}
	return strings.TrimRight(u.String(), "/"), nil
}

func parseHTTPURL(raw string) (*url.URL, error) {
	if raw == "" {
		return nil, fmt.Errorf("URL cannot be empty")
	}
	if len(raw) > MaxURLLength {
		return nil, fmt.Errorf("URL too long (max %d characters)", MaxURLLength)
	}
	if strings.ContainsAny(raw, "<>\"'`") {
		return nil, fmt.Errorf("URL contains invalid characters")
	}

	u, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("invalid URL format: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("URL must use http or https protocol")
	}
	if u.Host == "" {
		return nil, fmt.Errorf("URL must have a valid hostname")
	}
	return u, nil
}

func looksRemote(s string) bool {
	lower := strings.ToLower(s)
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}
