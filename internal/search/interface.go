package search

import "github.com/pders01/gazette/internal/catalog"

// Matcher selects the articles whose category or tags contain a query.
// Results keep catalog order; ordering by date is the caller's job.
type Matcher interface {
	Match(query string) ([]catalog.Article, error)
}

// DebugStatser provides lightweight stats for visibility/debugging.
// Implemented by engines that can report index doc counts, etc.
type DebugStatser interface {
	DocCount() (int, error)
}
