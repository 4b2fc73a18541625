// Package search implements the category/tag search behind the grid
// loader. Two engines produce the same result sets: a linear scan and a
// bleve in-memory index.
package search

import (
	"strings"

	"github.com/pders01/gazette/internal/catalog"
	"github.com/pders01/gazette/internal/debuglog"
	"github.com/pders01/gazette/internal/textutil"
)

// Engine names accepted by New.
const (
	EngineSimple = "simple"
	EngineBleve  = "bleve"
)

// Engine scans the catalog on every query.
type Engine struct {
	articles []catalog.Article
}

func NewEngine(articles []catalog.Article) *Engine {
	return &Engine{articles: articles}
}

// New returns the engine named by kind. An index that cannot be built
// falls back to the linear engine.
func New(kind string, articles []catalog.Article) Matcher {
	if strings.EqualFold(strings.TrimSpace(kind), EngineBleve) {
		be, err := NewBleveEngine(articles)
		if err == nil {
			return be
		}
		debuglog.Warnf("bleve index unavailable, using linear search: %v", err)
	}
	return NewEngine(articles)
}

func (e *Engine) Match(query string) ([]catalog.Article, error) {
	q := NormalizeQuery(query)
	out := make([]catalog.Article, 0, len(e.articles))
	for _, a := range e.articles {
		if Matches(a, q) {
			out = append(out, a)
		}
	}
	return out, nil
}

// NormalizeQuery applies the same canonicalization as categories.
func NormalizeQuery(query string) string {
	return textutil.NormalizeCategory(query)
}

// Matches reports whether a's normalized category or any of its tags
// contains q. q must already be normalized.
func Matches(a catalog.Article, q string) bool {
	if strings.Contains(textutil.NormalizeCategory(a.Category), q) {
		return true
	}
	for _, tag := range a.Tags {
		if strings.Contains(strings.ToLower(tag), q) {
			return true
		}
	}
	return false
}
