package validation

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pders01/gazette/internal/config"
)

// MaxPathLength bounds local paths.
const MaxPathLength = 4096

// ValidateLocalPath expands and cleans a path after rejecting null
// bytes and control characters. It does not require the file to exist.
func ValidateLocalPath(path string) (string, error) {
	if path == "" {
		return "", fmt.Errorf("path cannot be empty")
	}
	if len(path) > MaxPathLength {
		return "", fmt.Errorf("path too long (max %d characters)", MaxPathLength)
	}
	if strings.Contains(path, "\x00") {
		return "", fmt.Errorf("path contains null bytes")
	}
	for _, char := range path {
		if char < 32 && char != '\t' {
			return "", fmt.Errorf("path contains control characters")
		}
	}
	return filepath.Clean(config.ExpandPath(path)), nil
}

// ValidateOutputPath checks that path can be written: its directory must
// exist and the path itself must not be a directory.
func ValidateOutputPath(path string) (string, error) {
	clean, err := ValidateLocalPath(path)
	if err != nil {
		return "", err
	}

	if info, err := os.Stat(clean); err == nil && info.IsDir() {
		return "", fmt.Errorf("%s is a directory", clean)
	}
	dir := filepath.Dir(clean)
	info, err := os.Stat(dir)
	if err != nil {
		return "", fmt.Errorf("output directory %s: %w", dir, err)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("output directory %s is not a directory", dir)
	}
	return clean, nil
}
