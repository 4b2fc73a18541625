package tui

import (
	"fmt"
	"strings"

	"github.com/pders01/gazette/internal/textutil"
)

// StatusKind picks the status bar style.
type StatusKind int

const (
	StatusInfo StatusKind = iota
	StatusSuccess
	StatusWarn
	StatusError
)

// Canonical short status messages used across the app.
const (
	MsgLoadingCatalog = "Loading catalog…"
	MsgLoadingArticle = "Loading article…"
	MsgLoadingLegal   = "Loading legal pages…"
	MsgEmptyCatalog   = "The catalog is empty"
	MsgNoResults      = "No results"
	MsgNoImage        = "Nothing to open"
	MsgLegalMissing   = "Legal pages are unavailable"
	MsgCatalogMissing = "Catalog unavailable • check the [catalog] source"
)

// MsgRandomPick shows progress through the current random cycle.
func MsgRandomPick(seen, total int) string {
	return fmt.Sprintf("Random %d/%d", seen, total)
}

func MsgResultsCount(n int) string {
	if n == 1 {
		return "1 result"
	}
	return fmt.Sprintf("%d results", n)
}

func MsgThemeSwitched(theme string) string {
	return fmt.Sprintf("Theme: %s", strings.TrimSpace(theme))
}

func MsgOpened(target string) string {
	return "Opened " + textutil.TruncateMiddle(target, 48)
}
