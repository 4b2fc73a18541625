// Package catalog owns the article list for a session. It is written once
// by Load and read by everything else.
package catalog

import (
	"context"
	"fmt"
	"sync"

	"github.com/pders01/gazette/internal/debuglog"
	"github.com/pders01/gazette/internal/resource"
	"github.com/pders01/gazette/internal/textutil"
)

type Store struct {
	fetcher *resource.Fetcher
	parser  *Parser
	source  string
	format  string

	mu       sync.RWMutex
	articles []Article
	loaded   bool
}

func NewStore(fetcher *resource.Fetcher, source, format string) *Store {
	return &Store{
		fetcher: fetcher,
		parser:  NewParser(),
		source:  source,
		format:  format,
	}
}

// NewStaticStore wraps an already decoded catalog. Used by the maintenance
// jobs and tests.
func NewStaticStore(articles []Article) *Store {
	return &Store{articles: articles, loaded: true}
}

// Load fetches and parses the catalog. On failure the store stays empty
// and the error is returned; the caller decides how loudly to degrade.
func (s *Store) Load(ctx context.Context) error {
	if s.fetcher == nil {
		return fmt.Errorf("loading catalog: no fetcher configured")
	}

	body, err := s.fetcher.Fetch(ctx, s.source)
	if err != nil {
		return fmt.Errorf("loading catalog: %w", err)
	}

	articles, err := s.parser.Parse(body, s.format)
	if err != nil {
		return fmt.Errorf("loading catalog: %w", err)
	}

	s.mu.Lock()
	s.articles = articles
	s.loaded = true
	s.mu.Unlock()

	debuglog.WithFields(debuglog.Fields{"source": s.source, "count": len(articles)}).Infof("catalog loaded")
	return nil
}

// Loaded reports whether a Load has succeeded.
func (s *Store) Loaded() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loaded
}

// All returns the catalog in source order. The slice is shared; callers
// must not modify it.
func (s *Store) All() []Article {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.articles
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.articles)
}

// ByID returns the first article with id.
func (s *Store) ByID(id string) (Article, bool) {
	if id == "" {
		return Article{}, false
	}
	for _, a := range s.All() {
		if a.ID == id {
			return a, true
		}
	}
	return Article{}, false
}

// Categories lists distinct normalized categories in first-seen order.
func (s *Store) Categories() []string {
	seen := make(map[string]bool)
	var out []string
	for _, a := range s.All() {
		c := textutil.NormalizeCategory(a.Category)
		if c == "" || seen[c] {
			continue
		}
		seen[c] = true
		out = append(out, c)
	}
	return out
}
