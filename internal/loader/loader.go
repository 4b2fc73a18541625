// Package loader derives the grid for a category or a search query: the
// filtered subset of the catalog, truncated and ordered newest first,
// laid out as one huge card followed by small ones.
package loader

import (
	"sort"
	"time"

	"github.com/pders01/gazette/internal/card"
	"github.com/pders01/gazette/internal/catalog"
	"github.com/pders01/gazette/internal/debuglog"
	"github.com/pders01/gazette/internal/search"
	"github.com/pders01/gazette/internal/textutil"
)

const (
	// MaxCards is the number of articles a grid shows.
	MaxCards = 5
	// Latest is the pseudo-category that shows the whole catalog.
	Latest = "latest"
	// SideBySide is how many small cards share a row.
	SideBySide = 2
)

// Source is the read side of the catalog store.
type Source interface {
	All() []catalog.Article
}

// Grid is one rendered selection.
type Grid struct {
	// Category is the normalized category, or empty for a search.
	Category string
	Query    string

	Articles []catalog.Article
	Huge     *card.Card
	Small    []*card.Card
}

// Cards returns the cards in display order, huge first.
func (g *Grid) Cards() []*card.Card {
	if g == nil || g.Huge == nil {
		return nil
	}
	return append([]*card.Card{g.Huge}, g.Small...)
}

func (g *Grid) Len() int {
	if g == nil {
		return 0
	}
	return len(g.Articles)
}

// Title describes the selection for headings and the status bar.
func (g *Grid) Title() string {
	if g == nil {
		return ""
	}
	if g.Category == "" {
		return "search: " + g.Query
	}
	return g.Category
}

type Loader struct {
	source  Source
	matcher search.Matcher
	opts    card.Options
}

// New returns a loader over source. A nil matcher searches linearly.
func New(source Source, matcher search.Matcher, opts card.Options) *Loader {
	return &Loader{source: source, matcher: matcher, opts: opts}
}

// Category builds the grid for a category name. "latest" uses the whole
// catalog.
func (l *Loader) Category(name string) *Grid {
	cat := textutil.NormalizeCategory(name)
	if cat == "" {
		cat = Latest
	}
	g := Layout(Select(ForCategory(l.source.All(), cat)), l.opts)
	g.Category = cat
	debuglog.WithFields(debuglog.Fields{"component": "loader", "category": cat, "count": g.Len()}).Debugf("grid loaded")
	return g
}

// Search builds the grid for a query. A blank query is the latest grid.
func (l *Loader) Search(query string) (*Grid, error) {
	q := search.NormalizeQuery(query)
	if q == "" {
		return l.Category(Latest), nil
	}

	m := l.matcher
	if m == nil {
		m = search.NewEngine(l.source.All())
	}
	matched, err := m.Match(q)
	if err != nil {
		return nil, err
	}

	g := Layout(Select(matched), l.opts)
	g.Query = q
	debuglog.WithFields(debuglog.Fields{"component": "loader", "query": q, "count": g.Len()}).Debugf("search loaded")
	return g, nil
}

// ForCategory filters articles by normalized category. The normalized
// category "latest" keeps everything.
func ForCategory(articles []catalog.Article, category string) []catalog.Article {
	cat := textutil.NormalizeCategory(category)
	if cat == Latest {
		return articles
	}
	out := make([]catalog.Article, 0, len(articles))
	for _, a := range articles {
		if textutil.NormalizeCategory(a.Category) == cat {
			out = append(out, a)
		}
	}
	return out
}

// Select keeps the first MaxCards articles in catalog order and sorts
// them newest first. Dates that do not parse sort last; ties keep
// catalog order.
func Select(articles []catalog.Article) []catalog.Article {
	n := min(len(articles), MaxCards)
	out := make([]catalog.Article, n)
	copy(out, articles[:n])

	keys := make([]time.Time, n)
	for i, a := range out {
		keys[i], _ = textutil.ParseDate(a.Date)
	}
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(i, j int) bool {
		return keys[idx[i]].After(keys[idx[j]])
	})

	sorted := make([]catalog.Article, n)
	for i, k := range idx {
		sorted[i] = out[k]
	}
	return sorted
}

// Layout builds the cards for an already selected list.
func Layout(articles []catalog.Article, opts card.Options) *Grid {
	g := &Grid{Articles: articles}
	if len(articles) == 0 {
		return g
	}

	g.Huge = card.Build(articles[0], card.VariantHuge, opts)
	for i, a := range articles[1:] {
		c := card.Build(a, card.VariantSmall, opts)
		c.SideBySide = i < SideBySide
		g.Small = append(g.Small, c)
	}
	return g
}
