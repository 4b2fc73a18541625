// Package random picks articles for the "random" route and for the
// related-articles strip of the detail view.
package random

import (
	"math/rand/v2"

	"github.com/pders01/gazette/internal/catalog"
)

// Selector picks articles without replacement. Once every article has
// been shown the history is cleared in full, so the last pick of one
// cycle may come up again as the first pick of the next.
type Selector struct {
	articles []catalog.Article
	rng      *rand.Rand
	history  map[int]struct{}
}

// New returns a selector over articles. A nil rng uses a randomly seeded
// source.
func New(articles []catalog.Article, rng *rand.Rand) *Selector {
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return &Selector{
		articles: articles,
		rng:      rng,
		history:  make(map[int]struct{}, len(articles)),
	}
}

// Pick returns an article not shown since the last reset. It returns
// false only for an empty catalog.
func (s *Selector) Pick() (catalog.Article, bool) {
	if len(s.articles) == 0 {
		return catalog.Article{}, false
	}

	candidates := s.candidates()
	if len(candidates) == 0 {
		clear(s.history)
		candidates = s.candidates()
	}

	i := candidates[s.rng.IntN(len(candidates))]
	s.history[i] = struct{}{}
	return s.articles[i], true
}

// PickExcluding returns up to n distinct articles whose id differs from
// excludeID, in random order. History is neither consulted nor updated.
func (s *Selector) PickExcluding(n int, excludeID string) []catalog.Article {
	if n <= 0 {
		return nil
	}

	pool := make([]int, 0, len(s.articles))
	for i, a := range s.articles {
		if excludeID != "" && a.ID == excludeID {
			continue
		}
		pool = append(pool, i)
	}
	s.rng.Shuffle(len(pool), func(i, j int) { pool[i], pool[j] = pool[j], pool[i] })

	if n > len(pool) {
		n = len(pool)
	}
	out := make([]catalog.Article, 0, n)
	for _, i := range pool[:n] {
		out = append(out, s.articles[i])
	}
	return out
}

// Seen reports how many articles are in the current history.
func (s *Selector) Seen() int {
	return len(s.history)
}

// Len is the catalog size the selector cycles through.
func (s *Selector) Len() int {
	return len(s.articles)
}

func (s *Selector) Reset() {
	clear(s.history)
}

func (s *Selector) candidates() []int {
	out := make([]int, 0, len(s.articles)-len(s.history))
	for i := range s.articles {
		if _, shown := s.history[i]; !shown {
			out = append(out, i)
		}
	}
	return out
}
