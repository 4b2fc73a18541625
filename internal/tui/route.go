package tui

import (
	"strings"

	"github.com/pders01/gazette/internal/loader"
	"github.com/pders01/gazette/internal/textutil"
)

type RouteKind int

const (
	RouteCategory RouteKind = iota
	RouteRandom
)

// RandomRoute is the route token that opens a random article.
const RandomRoute = "random"

// Route is a parsed navigation target: "#<category>", "#random", or
// nothing for the latest grid.
type Route struct {
	Kind     RouteKind
	Category string
}

// ParseRoute accepts a bare token, a "#token" fragment, or a full URL
// whose fragment carries the token.
func ParseRoute(s string) Route {
	s = strings.TrimSpace(s)
	if i := strings.LastIndex(s, "#"); i != -1 {
		s = s[i+1:]
	}
	token := textutil.NormalizeCategory(s)
	switch token {
	case "":
		return Route{Kind: RouteCategory, Category: loader.Latest}
	case RandomRoute:
		return Route{Kind: RouteRandom}
	default:
		return Route{Kind: RouteCategory, Category: token}
	}
}

func (r Route) String() string {
	if r.Kind == RouteRandom {
		return "#" + RandomRoute
	}
	return "#" + r.Category
}
