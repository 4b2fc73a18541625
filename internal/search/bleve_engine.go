package search

import (
	"strconv"
	"strings"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/keyword"
	"github.com/blevesearch/bleve/v2/mapping"

	"github.com/pders01/gazette/internal/catalog"
	"github.com/pders01/gazette/internal/debuglog"
)

type bleveEngine struct {
	articles []catalog.Article
	idx      bleve.Index
}

// NewBleveEngine indexes the category and tags of every article in an
// in-memory bleve index. Documents are keyed by catalog position, so
// duplicate or empty ids are indexed separately.
func NewBleveEngine(articles []catalog.Article) (Matcher, error) {
	idx, err := bleve.NewMemOnly(buildIndexMapping())
	if err != nil {
		return nil, err
	}

	be := &bleveEngine{articles: articles, idx: idx}
	if err := be.reindexAll(); err != nil {
		_ = idx.Close()
		return nil, err
	}
	return be, nil
}

func buildIndexMapping() mapping.IndexMapping {
	im := bleve.NewIndexMapping()
	im.DefaultAnalyzer = keyword.Name

	dm := bleve.NewDocumentMapping()

	// whole values are single terms so wildcards behave like substring
	category := bleve.NewTextFieldMapping()
	category.Analyzer = keyword.Name
	category.Store = false
	category.IncludeTermVectors = false

	tags := bleve.NewTextFieldMapping()
	tags.Analyzer = keyword.Name
	tags.Store = false
	tags.IncludeTermVectors = false

	dm.AddFieldMappingsAt("category", category)
	dm.AddFieldMappingsAt("tags", tags)

	im.DefaultMapping = dm
	return im
}

func (b *bleveEngine) reindexAll() error {
	batch := b.idx.NewBatch()
	for i, a := range b.articles {
		tags := make([]string, 0, len(a.Tags))
		for _, t := range a.Tags {
			tags = append(tags, strings.ToLower(t))
		}
		if err := batch.Index(strconv.Itoa(i), map[string]any{
			"category": NormalizeQuery(a.Category),
			"tags":     tags,
		}); err != nil {
			return err
		}
	}
	return b.idx.Batch(batch)
}

func (b *bleveEngine) Match(query string) ([]catalog.Article, error) {
	q := NormalizeQuery(query)
	if q == "" {
		return append([]catalog.Article(nil), b.articles...), nil
	}
	// wildcard metacharacters in the query itself cannot be escaped
	if strings.ContainsAny(q, "*?") {
		return NewEngine(b.articles).Match(q)
	}
	if len(b.articles) == 0 {
		return []catalog.Article{}, nil
	}

	pattern := "*" + q + "*"
	qc := bleve.NewWildcardQuery(pattern)
	qc.SetField("category")
	qt := bleve.NewWildcardQuery(pattern)
	qt.SetField("tags")

	req := bleve.NewSearchRequestOptions(bleve.NewDisjunctionQuery(qc, qt), len(b.articles), 0, false)
	res, err := b.idx.Search(req)
	if err != nil {
		return nil, err
	}

	hit := make([]bool, len(b.articles))
	for _, h := range res.Hits {
		i, err := strconv.Atoi(h.ID)
		if err != nil || i < 0 || i >= len(hit) {
			debuglog.Warnf("bleve: unexpected document id %q", h.ID)
			continue
		}
		hit[i] = true
	}

	out := make([]catalog.Article, 0, len(res.Hits))
	for i, ok := range hit {
		if ok {
			out = append(out, b.articles[i])
		}
	}
	return out, nil
}

// DocCount reports total documents in the index.
func (b *bleveEngine) DocCount() (int, error) {
	n, err := b.idx.DocCount()
	return int(n), err
}
