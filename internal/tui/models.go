package tui

import (
	"github.com/pders01/gazette/internal/catalog"
	"github.com/pders01/gazette/internal/legal"
)

type View int

const (
	ViewGrid View = iota
	ViewDetail
	ViewLegal
	ViewSearch
	ViewRoute
)

func (v View) String() string {
	switch v {
	case ViewGrid:
		return "grid"
	case ViewDetail:
		return "detail"
	case ViewLegal:
		return "legal"
	case ViewSearch:
		return "search"
	case ViewRoute:
		return "route"
	default:
		return "unknown"
	}
}

type catalogLoadedMsg struct {
	err error
}

type quotesLoadedMsg struct {
	quotes []catalog.Quote
	err    error
}

type themeLoadedMsg struct {
	theme string
	err   error
}

// imageProbedMsg resolves a card image. gen is the grid generation the
// probe was started for; panel probes target a most-viewed slot instead.
type imageProbedMsg struct {
	gen   int
	panel bool
	slot  int
	url   string
}

type detailRenderedMsg struct {
	gen     int
	content string
	err     error
}

type legalLoadedMsg struct {
	pages legal.Pages
	err   error
}

type legalRenderedMsg struct {
	gen     int
	kind    string
	content string
	err     error
}

type statusClearMsg struct {
	seq int
}

type errorMsg struct {
	err error
}
